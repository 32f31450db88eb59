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

	"github.com/eventmesh/eventmesh/internal/models"
	"github.com/eventmesh/eventmesh/internal/store"
)

// OrganizerEventSummary is one event row on the organizer dashboard.
type OrganizerEventSummary struct {
	Event         models.Event `json:"event"`
	Upcoming      bool         `json:"upcoming"`
	FeedbackCount int          `json:"feedback_count"`
	AverageRating float64      `json:"average_rating"`
}

// OrganizerDashboardData aggregates an organizer's events, attendance,
// and feedback.
type OrganizerDashboardData struct {
	OrganizerID    string                  `json:"organizer_id"`
	TotalEvents    int                     `json:"total_events"`
	UpcomingEvents int                     `json:"upcoming_events"`
	TotalAttendees int                     `json:"total_attendees"`
	AverageRating  float64                 `json:"average_rating"`
	Events         []OrganizerEventSummary `json:"events"`
}

// EventDetails aggregates everything known about one event for
// dashboard views.
type EventDetails struct {
	Event         models.Event      `json:"event"`
	Attendees     []models.Attendee `json:"attendees"`
	FeedbackCount int               `json:"feedback_count"`
	AverageRating float64           `json:"average_rating"`
	Upcoming      bool              `json:"upcoming"`
}

// EventDashboard handles GET /api/v1/dashboard/events/{eventID}: the
// event with its attendee list and feedback summary in one response.
func (h *Handler) EventDashboard(w http.ResponseWriter, r *http.Request) {
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

	details := EventDetails{
		Event:     event,
		Attendees: event.Attendees,
		Upcoming:  event.StartTime.After(time.Now().UTC()),
	}
	if details.Attendees == nil {
		details.Attendees = []models.Attendee{}
	}
	if fs, err := h.store.FeedbackSummary(r.Context(), eventID); err == nil {
		details.FeedbackCount = fs.FeedbackCount
		details.AverageRating = fs.AverageRating
	}

	respondJSON(w, r, http.StatusOK, details)
}

// OrganizerDashboard handles GET /api/v1/dashboard/organizer/{organizerID}.
func (h *Handler) OrganizerDashboard(w http.ResponseWriter, r *http.Request) {
	organizerID := chi.URLParam(r, "organizerID")

	events, err := h.store.ListEventsByOrganizer(r.Context(), organizerID)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, codeInternal, "failed to load organizer events", err)
		return
	}

	now := time.Now().UTC()
	data := OrganizerDashboardData{
		OrganizerID: organizerID,
		TotalEvents: len(events),
		Events:      make([]OrganizerEventSummary, 0, len(events)),
	}

	var ratingSum float64
	var ratedEvents int
	for _, ev := range events {
		summary := OrganizerEventSummary{
			Event:    ev,
			Upcoming: ev.StartTime.After(now),
		}
		fs, err := h.store.FeedbackSummary(r.Context(), ev.ID)
		if err == nil {
			summary.FeedbackCount = fs.FeedbackCount
			summary.AverageRating = fs.AverageRating
			if fs.FeedbackCount > 0 {
				ratingSum += fs.AverageRating
				ratedEvents++
			}
		}
		if summary.Upcoming {
			data.UpcomingEvents++
		}
		data.TotalAttendees += ev.AttendeesCount
		data.Events = append(data.Events, summary)
	}
	if ratedEvents > 0 {
		data.AverageRating = ratingSum / float64(ratedEvents)
	}

	respondJSON(w, r, http.StatusOK, data)
}
