// EventMesh - Event Discovery and Social Connection Backend
// Copyright 2026 EventMesh contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventmesh/eventmesh

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eventmesh/eventmesh/internal/eventbus"
	"github.com/eventmesh/eventmesh/internal/models"
	"github.com/eventmesh/eventmesh/internal/store"
	"github.com/eventmesh/eventmesh/internal/validation"
)

// SubmitFeedback handles POST /api/v1/events/{eventID}/feedback.
// Resubmitting replaces the user's earlier feedback for the event.
func (h *Handler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")

	var req FeedbackRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	fb := models.Feedback{
		EventID:  eventID,
		UserID:   req.UserID,
		Rating:   req.Rating,
		Comments: req.Comments,
	}
	if err := h.store.UpsertFeedback(r.Context(), fb); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, r, http.StatusNotFound, codeNotFound, "event or user not found", nil)
			return
		}
		respondError(w, r, http.StatusBadRequest, codeBadRequest, err.Error(), nil)
		return
	}

	h.publish(r, eventbus.TopicFeedbackCreated, eventbus.FeedbackEvent{
		EventID: eventID,
		UserID:  req.UserID,
		Rating:  req.Rating,
	})
	respondJSON(w, r, http.StatusCreated, fb)
}

// ListFeedback handles GET /api/v1/events/{eventID}/feedback. An
// optional ?user_id= narrows to one user's entry.
func (h *Handler) ListFeedback(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	userID := r.URL.Query().Get("user_id")

	feedback, err := h.store.ListFeedback(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, r, http.StatusNotFound, codeNotFound, "event not found", nil)
			return
		}
		respondError(w, r, http.StatusInternalServerError, codeInternal, "failed to list feedback", err)
		return
	}
	if userID != "" {
		filtered := feedback[:0]
		for _, fb := range feedback {
			if fb.UserID == userID {
				filtered = append(filtered, fb)
			}
		}
		feedback = filtered
	}
	respondJSON(w, r, http.StatusOK, feedback)
}

// DeleteFeedback handles DELETE /api/v1/events/{eventID}/feedback/{userID}.
func (h *Handler) DeleteFeedback(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	userID := chi.URLParam(r, "userID")

	if err := h.store.DeleteFeedback(r.Context(), eventID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, r, http.StatusNotFound, codeNotFound, "feedback not found", nil)
			return
		}
		respondError(w, r, http.StatusInternalServerError, codeInternal, "failed to delete feedback", err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]string{"event_id": eventID, "user_id": userID, "deleted": "true"})
}
