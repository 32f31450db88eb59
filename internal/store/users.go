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

// CreateUser persists a new user. The caller assigns the ID. The
// Connections field is never persisted: it is materialized from
// connection documents on read, so there is one source of truth.
func (s *Store) CreateUser(ctx context.Context, user models.User) error {
	return timed("create", "user", func() error {
		if err := ctxErr(ctx); err != nil {
			return err
		}
		if user.ID == "" {
			return fmt.Errorf("create user: empty id")
		}
		now := time.Now().UTC()
		user.CreatedAt = now
		user.UpdatedAt = now
		user.Connections = nil
		return s.put(userKeyPrefix+user.ID, user)
	})
}

// GetUser returns one user with accepted connections materialized.
func (s *Store) GetUser(ctx context.Context, id string) (models.User, error) {
	var user models.User
	err := timed("get", "user", func() error {
		if err := ctxErr(ctx); err != nil {
			return err
		}
		if err := s.get(userKeyPrefix+id, &user); err != nil {
			return err
		}
		accepted, err := s.acceptedConnectionIndex()
		if err != nil {
			return err
		}
		user.Connections = accepted[id]
		return nil
	})
	return user, err
}

// UpdateUser overwrites a user's mutable profile fields, preserving
// CreatedAt and server-maintained counters.
func (s *Store) UpdateUser(ctx context.Context, user models.User) error {
	return timed("update", "user", func() error {
		if err := ctxErr(ctx); err != nil {
			return err
		}
		var existing models.User
		if err := s.get(userKeyPrefix+user.ID, &existing); err != nil {
			return err
		}
		user.CreatedAt = existing.CreatedAt
		user.EventsAttended = existing.EventsAttended
		user.EventsInterested = existing.EventsInterested
		// Settings change through the preferences routes, never via a
		// profile update.
		user.Preferences = existing.Preferences
		user.UpdatedAt = time.Now().UTC()
		user.Connections = nil
		return s.put(userKeyPrefix+user.ID, user)
	})
}

// DeleteUser removes a user document. Connection documents referencing
// the user are removed with it.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	return timed("delete", "user", func() error {
		if err := ctxErr(ctx); err != nil {
			return err
		}
		var existing models.User
		if err := s.get(userKeyPrefix+id, &existing); err != nil {
			return err
		}
		conns, err := s.connectionsOf(id, "")
		if err != nil {
			return err
		}
		for _, c := range conns {
			if err := s.delete(connKey(c.FromUserID, c.ToUserID)); err != nil {
				return err
			}
		}
		return s.delete(userKeyPrefix + id)
	})
}

// ListUsers returns every user, each with accepted connections
// materialized, sorted by ID for deterministic output.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := timed("list", "user", func() error {
		if err := ctxErr(ctx); err != nil {
			return err
		}
		accepted, err := s.acceptedConnectionIndex()
		if err != nil {
			return err
		}
		users = users[:0]
		if err := s.scanPrefix(userKeyPrefix, func(val []byte) error {
			var u models.User
			if err := json.Unmarshal(val, &u); err != nil {
				// One corrupt document must not break the listing.
				return nil
			}
			u.Connections = accepted[u.ID]
			users = append(users, u)
			return nil
		}); err != nil {
			return err
		}
		sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
		return nil
	})
	return users, err
}

// adjustUserRSVPCounts shifts the attended/interested counters when an
// RSVP transitions between statuses.
func (s *Store) adjustUserRSVPCounts(userID, oldStatus, newStatus string) error {
	if oldStatus == newStatus {
		return nil
	}
	var user models.User
	if err := s.get(userKeyPrefix+userID, &user); err != nil {
		return err
	}
	switch oldStatus {
	case models.RSVPAttending:
		if user.EventsAttended > 0 {
			user.EventsAttended--
		}
	case models.RSVPInterested:
		if user.EventsInterested > 0 {
			user.EventsInterested--
		}
	}
	switch newStatus {
	case models.RSVPAttending:
		user.EventsAttended++
	case models.RSVPInterested:
		user.EventsInterested++
	}
	user.UpdatedAt = time.Now().UTC()
	return s.put(userKeyPrefix+userID, user)
}
