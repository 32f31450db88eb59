// EventMesh - Event Discovery and Social Connection Backend
// Copyright 2026 EventMesh contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventmesh/eventmesh

package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/goccy/go-json"

	"github.com/eventmesh/eventmesh/internal/models"
)

// CreateEvent persists a new event. The event must be well-formed
// (non-empty ID, start before end).
func (s *Store) CreateEvent(ctx context.Context, event models.Event) error {
	return timed("create", "event", func() error {
		if err := ctxErr(ctx); err != nil {
			return err
		}
		if !event.Valid() {
			return fmt.Errorf("create event: malformed event %q", event.ID)
		}
		now := time.Now().UTC()
		event.CreatedAt = now
		event.UpdatedAt = now
		return s.put(eventKeyPrefix+event.ID, event)
	})
}

// GetEvent returns one event.
func (s *Store) GetEvent(ctx context.Context, id string) (models.Event, error) {
	var event models.Event
	err := timed("get", "event", func() error {
		if err := ctxErr(ctx); err != nil {
			return err
		}
		return s.get(eventKeyPrefix+id, &event)
	})
	return event, err
}

// UpdateEvent overwrites an event's editable fields, preserving its
// attendee list and counters.
func (s *Store) UpdateEvent(ctx context.Context, event models.Event) error {
	return timed("update", "event", func() error {
		if err := ctxErr(ctx); err != nil {
			return err
		}
		if !event.Valid() {
			return fmt.Errorf("update event: malformed event %q", event.ID)
		}
		var existing models.Event
		if err := s.get(eventKeyPrefix+event.ID, &existing); err != nil {
			return err
		}
		event.CreatedAt = existing.CreatedAt
		event.Attendees = existing.Attendees
		event.AttendeesCount = existing.AttendeesCount
		event.UpdatedAt = time.Now().UTC()
		return s.put(eventKeyPrefix+event.ID, event)
	})
}

// DeleteEvent removes an event and its feedback.
func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	return timed("delete", "event", func() error {
		if err := ctxErr(ctx); err != nil {
			return err
		}
		var existing models.Event
		if err := s.get(eventKeyPrefix+id, &existing); err != nil {
			return err
		}
		feedback, err := s.feedbackForEvent(id)
		if err != nil {
			return err
		}
		for _, f := range feedback {
			if err := s.delete(feedbackKey(f.EventID, f.UserID)); err != nil {
				return err
			}
		}
		return s.delete(eventKeyPrefix + id)
	})
}

// ListEvents returns every event sorted by start time. Past events are
// included; consumers filter by time as needed.
func (s *Store) ListEvents(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	err := timed("list", "event", func() error {
		if err := ctxErr(ctx); err != nil {
			return err
		}
		events = events[:0]
		if err := s.scanPrefix(eventKeyPrefix, func(val []byte) error {
			var e models.Event
			if err := json.Unmarshal(val, &e); err != nil {
				return nil
			}
			events = append(events, e)
			return nil
		}); err != nil {
			return err
		}
		sort.Slice(events, func(i, j int) bool {
			return events[i].StartTime.Before(events[j].StartTime)
		})
		return nil
	})
	return events, err
}

// ListEventsByOrganizer returns the events created by one organizer,
// sorted by start time.
func (s *Store) ListEventsByOrganizer(ctx context.Context, organizerID string) ([]models.Event, error) {
	all, err := s.ListEvents(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.Event
	for _, e := range all {
		if e.OrganizerID == organizerID {
			out = append(out, e)
		}
	}
	return out, nil
}

// ListEventsByAttendee returns the events carrying an RSVP from the
// given user, sorted by start time. An optional status narrows the
// match; empty matches any RSVP.
func (s *Store) ListEventsByAttendee(ctx context.Context, userID, status string) ([]models.Event, error) {
	all, err := s.ListEvents(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.Event
	for _, e := range all {
		for _, a := range e.Attendees {
			if a.UserID != userID {
				continue
			}
			if status == "" || a.Status == status {
				out = append(out, e)
			}
			break
		}
	}
	return out, nil
}

// UpsertRSVP records or updates a user's RSVP on an event, keeping
// the event's attending counter and the user's attended/interested
// counters in step.
func (s *Store) UpsertRSVP(ctx context.Context, eventID, userID, status string) (models.Event, error) {
	var event models.Event
	err := timed("rsvp", "event", func() error {
		if err := ctxErr(ctx); err != nil {
			return err
		}
		switch status {
		case models.RSVPAttending, models.RSVPInterested, models.RSVPDeclined:
		default:
			return fmt.Errorf("invalid rsvp status %q", status)
		}
		var user models.User
		if err := s.get(userKeyPrefix+userID, &user); err != nil {
			return fmt.Errorf("rsvp user: %w", err)
		}
		if err := s.get(eventKeyPrefix+eventID, &event); err != nil {
			return err
		}

		oldStatus := ""
		updated := false
		for i := range event.Attendees {
			if event.Attendees[i].UserID == userID {
				oldStatus = event.Attendees[i].Status
				event.Attendees[i].Status = status
				event.Attendees[i].RSVPDate = time.Now().UTC()
				updated = true
				break
			}
		}
		if !updated {
			event.Attendees = append(event.Attendees, models.Attendee{
				UserID:   userID,
				Status:   status,
				RSVPDate: time.Now().UTC(),
			})
		}

		if oldStatus != status {
			if oldStatus == models.RSVPAttending && event.AttendeesCount > 0 {
				event.AttendeesCount--
			}
			if status == models.RSVPAttending {
				event.AttendeesCount++
			}
			if err := s.adjustUserRSVPCounts(userID, oldStatus, status); err != nil {
				return err
			}
		}
		event.UpdatedAt = time.Now().UTC()
		return s.put(eventKeyPrefix+eventID, event)
	})
	return event, err
}

// GetEventAttendees returns an event's attendee entries, optionally
// filtered by RSVP status.
func (s *Store) GetEventAttendees(ctx context.Context, eventID, status string) ([]models.Attendee, error) {
	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if status == "" {
		return event.Attendees, nil
	}
	var out []models.Attendee
	for _, a := range event.Attendees {
		if a.Status == status {
			out = append(out, a)
		}
	}
	return out, nil
}
