// EventMesh - Event Discovery and Social Connection Backend
// Copyright 2026 EventMesh contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventmesh/eventmesh

package store

import (
	"context"
	"time"

	"github.com/eventmesh/eventmesh/internal/models"
)

// GetPreferences returns a user's preferences, falling back to the
// defaults when the user has never changed anything.
func (s *Store) GetPreferences(ctx context.Context, userID string) (models.Preferences, error) {
	var prefs models.Preferences
	err := timed("get", "preferences", func() error {
		if err := ctxErr(ctx); err != nil {
			return err
		}
		var user models.User
		if err := s.get(userKeyPrefix+userID, &user); err != nil {
			return err
		}
		if user.Preferences != nil {
			prefs = *user.Preferences
		} else {
			prefs = models.DefaultPreferences()
		}
		return nil
	})
	return prefs, err
}

// UpdatePreferences applies mutate to the user's current preferences
// (defaults when unset) and persists the result. The updated
// preferences are returned.
func (s *Store) UpdatePreferences(ctx context.Context, userID string, mutate func(*models.Preferences)) (models.Preferences, error) {
	var prefs models.Preferences
	err := timed("update", "preferences", func() error {
		if err := ctxErr(ctx); err != nil {
			return err
		}
		var user models.User
		if err := s.get(userKeyPrefix+userID, &user); err != nil {
			return err
		}
		if user.Preferences != nil {
			prefs = *user.Preferences
		} else {
			prefs = models.DefaultPreferences()
		}
		mutate(&prefs)
		user.Preferences = &prefs
		user.UpdatedAt = time.Now().UTC()
		return s.put(userKeyPrefix+userID, user)
	})
	return prefs, err
}
