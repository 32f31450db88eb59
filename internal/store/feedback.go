// EventMesh - Event Discovery and Social Connection Backend
// Copyright 2026 EventMesh contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventmesh/eventmesh

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/eventmesh/eventmesh/internal/models"
)

// feedbackKey is "feedback:<eventID>:<userID>": one feedback entry
// per user per event; resubmitting overwrites.
func feedbackKey(eventID, userID string) string {
	return feedbackKeyPrefix + eventID + ":" + userID
}

// UpsertFeedback records or replaces a user's rating for an event.
// Rating must be 1-5 and both documents must exist.
func (s *Store) UpsertFeedback(ctx context.Context, fb models.Feedback) error {
	return timed("upsert", "feedback", func() error {
		if err := ctxErr(ctx); err != nil {
			return err
		}
		if fb.Rating < 1 || fb.Rating > 5 {
			return fmt.Errorf("feedback rating %d out of range", fb.Rating)
		}
		var user models.User
		if err := s.get(userKeyPrefix+fb.UserID, &user); err != nil {
			return fmt.Errorf("feedback user: %w", err)
		}
		var event models.Event
		if err := s.get(eventKeyPrefix+fb.EventID, &event); err != nil {
			return fmt.Errorf("feedback event: %w", err)
		}

		now := time.Now().UTC()
		var existing models.Feedback
		if err := s.get(feedbackKey(fb.EventID, fb.UserID), &existing); err == nil {
			fb.CreatedAt = existing.CreatedAt
		} else {
			fb.CreatedAt = now
		}
		fb.UpdatedAt = now
		return s.put(feedbackKey(fb.EventID, fb.UserID), fb)
	})
}

// ListFeedback returns all feedback for an event.
func (s *Store) ListFeedback(ctx context.Context, eventID string) ([]models.Feedback, error) {
	var out []models.Feedback
	err := timed("list", "feedback", func() error {
		if err := ctxErr(ctx); err != nil {
			return err
		}
		var err error
		out, err = s.feedbackForEvent(eventID)
		return err
	})
	return out, err
}

// DeleteFeedback removes one user's feedback for an event.
func (s *Store) DeleteFeedback(ctx context.Context, eventID, userID string) error {
	return timed("delete", "feedback", func() error {
		if err := ctxErr(ctx); err != nil {
			return err
		}
		var existing models.Feedback
		if err := s.get(feedbackKey(eventID, userID), &existing); err != nil {
			return err
		}
		return s.delete(feedbackKey(eventID, userID))
	})
}

func (s *Store) feedbackForEvent(eventID string) ([]models.Feedback, error) {
	var out []models.Feedback
	err := s.scanPrefix(feedbackKeyPrefix+eventID+":", func(val []byte) error {
		var f models.Feedback
		if err := json.Unmarshal(val, &f); err != nil {
			return nil
		}
		out = append(out, f)
		return nil
	})
	return out, err
}

// EventFeedbackSummary aggregates ratings for one event.
type EventFeedbackSummary struct {
	EventID       string  `json:"event_id"`
	FeedbackCount int     `json:"feedback_count"`
	AverageRating float64 `json:"average_rating"`
}

// FeedbackSummary computes the rating aggregate for an event.
func (s *Store) FeedbackSummary(ctx context.Context, eventID string) (EventFeedbackSummary, error) {
	fbs, err := s.ListFeedback(ctx, eventID)
	if err != nil {
		return EventFeedbackSummary{}, err
	}
	summary := EventFeedbackSummary{EventID: eventID, FeedbackCount: len(fbs)}
	if len(fbs) == 0 {
		return summary, nil
	}
	total := 0
	for _, f := range fbs {
		total += f.Rating
	}
	summary.AverageRating = float64(total) / float64(len(fbs))
	return summary, nil
}
