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

	"github.com/eventmesh/eventmesh/internal/eventbus"
	"github.com/eventmesh/eventmesh/internal/logging"
	"github.com/eventmesh/eventmesh/internal/models"
	"github.com/eventmesh/eventmesh/internal/store"
	"github.com/eventmesh/eventmesh/internal/validation"
)

func (req *CreateEventRequest) venue() *models.Venue {
	if req.VenueName == "" && req.VenueAddress == "" && req.VenueLatitude == nil {
		return nil
	}
	return &models.Venue{
		Name:      req.VenueName,
		Address:   req.VenueAddress,
		Latitude:  req.VenueLatitude,
		Longitude: req.VenueLongitude,
	}
}

// CreateEvent handles POST /api/v1/events.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	start, end := req.times()
	if !start.Before(end) {
		respondError(w, r, http.StatusBadRequest, codeValidation, "start_time must be before end_time", nil)
		return
	}

	now := time.Now().UTC()
	event := models.Event{
		ID:            uuid.NewString(),
		Title:         req.Title,
		Description:   req.Description,
		StartTime:     start,
		EndTime:       end,
		Venue:         req.venue(),
		Categories:    req.Categories,
		ImageURL:      req.ImageURL,
		Price:         req.Price,
		OrganizerID:   req.OrganizerID,
		OrganizerName: req.OrganizerName,
		MaxAttendees:  req.MaxAttendees,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := h.store.CreateEvent(r.Context(), event); err != nil {
		respondError(w, r, http.StatusInternalServerError, codeInternal, "failed to create event", err)
		return
	}
	respondJSON(w, r, http.StatusCreated, event)
}

// ListEvents handles GET /api/v1/events.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.store.ListEvents(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, codeInternal, "failed to list events", err)
		return
	}
	respondJSON(w, r, http.StatusOK, events)
}

// GetEvent handles GET /api/v1/events/{eventID}.
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	event, err := h.store.GetEvent(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, r, http.StatusNotFound, codeNotFound, "event not found", nil)
			return
		}
		respondError(w, r, http.StatusInternalServerError, codeInternal, "failed to load event", err)
		return
	}
	respondJSON(w, r, http.StatusOK, event)
}

// UpdateEvent handles PUT /api/v1/events/{eventID}. Attendee state is
// owned by the RSVP endpoint and survives updates untouched.
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")

	var req CreateEventRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	start, end := req.times()
	if !start.Before(end) {
		respondError(w, r, http.StatusBadRequest, codeValidation, "start_time must be before end_time", nil)
		return
	}

	event := models.Event{
		ID:            eventID,
		Title:         req.Title,
		Description:   req.Description,
		StartTime:     start,
		EndTime:       end,
		Venue:         req.venue(),
		Categories:    req.Categories,
		ImageURL:      req.ImageURL,
		Price:         req.Price,
		OrganizerID:   req.OrganizerID,
		OrganizerName: req.OrganizerName,
		MaxAttendees:  req.MaxAttendees,
		UpdatedAt:     time.Now().UTC(),
	}
	if err := h.store.UpdateEvent(r.Context(), event); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, r, http.StatusNotFound, codeNotFound, "event not found", nil)
			return
		}
		respondError(w, r, http.StatusInternalServerError, codeInternal, "failed to update event", err)
		return
	}

	updated, err := h.store.GetEvent(r.Context(), eventID)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, codeInternal, "failed to load event", err)
		return
	}
	respondJSON(w, r, http.StatusOK, updated)
}

// DeleteEvent handles DELETE /api/v1/events/{eventID}.
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	if err := h.store.DeleteEvent(r.Context(), eventID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, r, http.StatusNotFound, codeNotFound, "event not found", nil)
			return
		}
		respondError(w, r, http.StatusInternalServerError, codeInternal, "failed to delete event", err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]string{"id": eventID, "deleted": "true"})
}

// RSVP handles POST /api/v1/events/{eventID}/rsvp.
func (h *Handler) RSVP(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")

	var req RSVPRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	event, err := h.store.UpsertRSVP(r.Context(), eventID, req.UserID, req.Status)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, r, http.StatusNotFound, codeNotFound, "event or user not found", nil)
			return
		}
		respondError(w, r, http.StatusInternalServerError, codeInternal, "failed to record RSVP", err)
		return
	}

	h.publish(r, eventbus.TopicRSVPUpdated, eventbus.RSVPEvent{
		EventID: eventID,
		UserID:  req.UserID,
		Status:  req.Status,
	})
	respondJSON(w, r, http.StatusOK, event)
}

// EventAttendees handles GET /api/v1/events/{eventID}/attendees. An
// optional ?status= filter narrows by RSVP status.
func (h *Handler) EventAttendees(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	status := r.URL.Query().Get("status")

	attendees, err := h.store.GetEventAttendees(r.Context(), eventID, status)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, r, http.StatusNotFound, codeNotFound, "event not found", nil)
			return
		}
		respondError(w, r, http.StatusInternalServerError, codeInternal, "failed to list attendees", err)
		return
	}
	respondJSON(w, r, http.StatusOK, attendees)
}

// publish sends a bus notification without failing the request; the
// write already committed.
func (h *Handler) publish(r *http.Request, topic string, payload interface{}) {
	if h.bus == nil {
		return
	}
	if err := h.bus.Publish(r.Context(), topic, payload); err != nil {
		logger := logging.Ctx(r.Context())
		logger.Warn().
			Str("topic", topic).
			Err(err).
			Msg("Failed to publish bus event")
	}
}
