// EventMesh - Event Discovery and Social Connection Backend
// Copyright 2026 EventMesh contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventmesh/eventmesh

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/eventmesh/eventmesh/internal/models"
	"github.com/eventmesh/eventmesh/internal/store"
	"github.com/eventmesh/eventmesh/internal/validation"
)

// CreateUser handles POST /api/v1/users.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	now := time.Now().UTC()
	user := models.User{
		ID:          uuid.NewString(),
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Bio:         req.Bio,
		Interests:   req.Interests,
		Location:    req.Location,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.store.CreateUser(r.Context(), user); err != nil {
		respondError(w, r, http.StatusInternalServerError, codeInternal, "failed to create user", err)
		return
	}
	respondJSON(w, r, http.StatusCreated, user)
}

// GetUser handles GET /api/v1/users/{userID}.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	user, err := h.store.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, r, http.StatusNotFound, codeNotFound, "user not found", nil)
			return
		}
		respondError(w, r, http.StatusInternalServerError, codeInternal, "failed to load user", err)
		return
	}
	respondJSON(w, r, http.StatusOK, user)
}

// UpdateUser handles PUT /api/v1/users/{userID}.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req UpdateUserRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	existing, err := h.store.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, r, http.StatusNotFound, codeNotFound, "user not found", nil)
			return
		}
		respondError(w, r, http.StatusInternalServerError, codeInternal, "failed to load user", err)
		return
	}

	existing.DisplayName = req.DisplayName
	if req.Email != "" {
		existing.Email = req.Email
	}
	existing.Bio = req.Bio
	existing.Interests = req.Interests
	existing.Location = req.Location
	existing.UpdatedAt = time.Now().UTC()

	if err := h.store.UpdateUser(r.Context(), existing); err != nil {
		respondError(w, r, http.StatusInternalServerError, codeInternal, "failed to update user", err)
		return
	}
	respondJSON(w, r, http.StatusOK, existing)
}

// UserEvents handles GET /api/v1/users/{userID}/events: the events
// the user has RSVP'd to, optionally narrowed by ?status=.
func (h *Handler) UserEvents(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	status := r.URL.Query().Get("status")

	if _, err := h.store.GetUser(r.Context(), userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, r, http.StatusNotFound, codeNotFound, "user not found", nil)
			return
		}
		respondError(w, r, http.StatusInternalServerError, codeInternal, "failed to load user", err)
		return
	}

	events, err := h.store.ListEventsByAttendee(r.Context(), userID, status)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, codeInternal, "failed to list user events", err)
		return
	}
	respondJSON(w, r, http.StatusOK, events)
}

// DeleteUser handles DELETE /api/v1/users/{userID}.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if err := h.store.DeleteUser(r.Context(), userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, r, http.StatusNotFound, codeNotFound, "user not found", nil)
			return
		}
		respondError(w, r, http.StatusInternalServerError, codeInternal, "failed to delete user", err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]string{"id": userID, "deleted": "true"})
}
