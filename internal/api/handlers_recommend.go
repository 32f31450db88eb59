// EventMesh - Event Discovery and Social Connection Backend
// Copyright 2026 EventMesh contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventmesh/eventmesh

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eventmesh/eventmesh/internal/recommend"
	"github.com/eventmesh/eventmesh/internal/store"
	"github.com/eventmesh/eventmesh/internal/validation"
)

// requireUser maps a missing user to a 404 response. The engine itself
// treats unknown users as empty results; the HTTP surface reports the
// missing primary resource instead.
func (h *Handler) requireUser(w http.ResponseWriter, r *http.Request, userID string) bool {
	if _, err := h.store.GetUser(r.Context(), userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, r, http.StatusNotFound, codeNotFound, "user not found", nil)
			return false
		}
		respondError(w, r, http.StatusInternalServerError, codeInternal, "failed to load user", err)
		return false
	}
	return true
}

// EventRecommendations handles GET /api/v1/events/recommendations/{userID}.
//
// Query parameters: latitude, longitude (both or neither),
// max_distance, limit. Without a coordinate no distance filter is
// applied and the location component falls back to a neutral score.
func (h *Handler) EventRecommendations(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if !h.requireUser(w, r, userID) {
		return
	}

	params := EventRecommendationsRequest{
		Latitude:      getFloatParam(r, "latitude"),
		Longitude:     getFloatParam(r, "longitude"),
		MaxDistanceKm: 0,
		Limit:         getIntParam(r, "limit", 0),
	}
	if v := getFloatParam(r, "max_distance"); v != nil {
		params.MaxDistanceKm = *v
	}
	if verr := validation.ValidateStruct(params); verr != nil {
		respondValidationError(w, r, verr)
		return
	}
	if (params.Latitude == nil) != (params.Longitude == nil) {
		respondError(w, r, http.StatusBadRequest, codeValidation,
			"latitude and longitude must be supplied together", nil)
		return
	}

	recs, err := h.engine.RecommendEvents(r.Context(), recommend.EventQuery{
		UserID:        userID,
		Latitude:      params.Latitude,
		Longitude:     params.Longitude,
		MaxDistanceKm: params.MaxDistanceKm,
		Limit:         params.Limit,
	})
	if err != nil {
		respondError(w, r, http.StatusServiceUnavailable, codeInternal, "recommendations unavailable", err)
		return
	}
	respondJSON(w, r, http.StatusOK, recs)
}

// ConnectionRecommendations handles GET /api/v1/connections/recommendations/{userID}.
func (h *Handler) ConnectionRecommendations(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if !h.requireUser(w, r, userID) {
		return
	}
	limit := getIntParam(r, "limit", 0)

	recs, err := h.engine.RecommendConnections(r.Context(), userID, limit)
	if err != nil {
		respondError(w, r, http.StatusServiceUnavailable, codeInternal, "recommendations unavailable", err)
		return
	}
	respondJSON(w, r, http.StatusOK, recs)
}

// EventBuddies handles GET /api/v1/connections/event-buddies/{eventID}/{userID}:
// attendees of the event the user is not yet connected to.
func (h *Handler) EventBuddies(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	userID := chi.URLParam(r, "userID")
	if !h.requireUser(w, r, userID) {
		return
	}
	if _, err := h.store.GetEvent(r.Context(), eventID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, r, http.StatusNotFound, codeNotFound, "event not found", nil)
			return
		}
		respondError(w, r, http.StatusInternalServerError, codeInternal, "failed to load event", err)
		return
	}
	limit := getIntParam(r, "limit", 0)

	recs, err := h.engine.RecommendEventConnections(r.Context(), eventID, userID, limit)
	if err != nil {
		respondError(w, r, http.StatusServiceUnavailable, codeInternal, "recommendations unavailable", err)
		return
	}
	respondJSON(w, r, http.StatusOK, recs)
}

// RefreshRecommendations handles POST /api/v1/recommendations/refresh:
// a forced snapshot rebuild.
func (h *Handler) RefreshRecommendations(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.Refresher().Refresh(r.Context()); err != nil {
		respondError(w, r, http.StatusServiceUnavailable, codeInternal, "snapshot refresh failed", err)
		return
	}
	respondJSON(w, r, http.StatusOK, h.engine.Status())
}

// RecommendationStatus handles GET /api/v1/recommendations/status.
func (h *Handler) RecommendationStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, h.engine.Status())
}
