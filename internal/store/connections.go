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
	"github.com/google/uuid"

	"github.com/eventmesh/eventmesh/internal/models"
)

func connKey(from, to string) string {
	return connKeyPrefix + from + ":" + to
}

// ErrConnectionExists signals a duplicate request in either direction.
var ErrConnectionExists = fmt.Errorf("connection already exists")

// RequestConnection creates a pending connection from one user to
// another. Both users must exist and no connection may already exist
// in either direction.
func (s *Store) RequestConnection(ctx context.Context, fromID, toID string) (models.Connection, error) {
	var conn models.Connection
	err := timed("create", "connection", func() error {
		if err := ctxErr(ctx); err != nil {
			return err
		}
		if fromID == toID {
			return fmt.Errorf("cannot connect a user to themselves")
		}
		var user models.User
		if err := s.get(userKeyPrefix+fromID, &user); err != nil {
			return fmt.Errorf("from user: %w", err)
		}
		if err := s.get(userKeyPrefix+toID, &user); err != nil {
			return fmt.Errorf("to user: %w", err)
		}

		var existing models.Connection
		if err := s.get(connKey(fromID, toID), &existing); err == nil {
			return ErrConnectionExists
		}
		if err := s.get(connKey(toID, fromID), &existing); err == nil {
			return ErrConnectionExists
		}

		now := time.Now().UTC()
		conn = models.Connection{
			ID:         uuid.NewString(),
			FromUserID: fromID,
			ToUserID:   toID,
			Status:     models.ConnectionPending,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		return s.put(connKey(fromID, toID), conn)
	})
	return conn, err
}

// RespondConnection sets the status of a pending request. Only the
// recipient responds; status must be accepted, declined, or blocked.
func (s *Store) RespondConnection(ctx context.Context, fromID, toID, status string) (models.Connection, error) {
	var conn models.Connection
	err := timed("update", "connection", func() error {
		if err := ctxErr(ctx); err != nil {
			return err
		}
		switch status {
		case models.ConnectionAccepted, models.ConnectionDeclined, models.ConnectionBlocked:
		default:
			return fmt.Errorf("invalid connection status %q", status)
		}
		if err := s.get(connKey(fromID, toID), &conn); err != nil {
			return err
		}
		conn.Status = status
		conn.UpdatedAt = time.Now().UTC()
		return s.put(connKey(fromID, toID), conn)
	})
	return conn, err
}

// ListConnections returns every connection touching userID, optionally
// filtered by status (empty means all).
func (s *Store) ListConnections(ctx context.Context, userID, status string) ([]models.Connection, error) {
	var conns []models.Connection
	err := timed("list", "connection", func() error {
		if err := ctxErr(ctx); err != nil {
			return err
		}
		var err error
		conns, err = s.connectionsOf(userID, status)
		return err
	})
	return conns, err
}

// connectionsOf scans the connection prefix for documents where
// userID is on either side.
func (s *Store) connectionsOf(userID, status string) ([]models.Connection, error) {
	var out []models.Connection
	err := s.scanPrefix(connKeyPrefix, func(val []byte) error {
		var c models.Connection
		if err := json.Unmarshal(val, &c); err != nil {
			return nil
		}
		if c.Other(userID) == "" {
			return nil
		}
		if status != "" && c.Status != status {
			return nil
		}
		out = append(out, c)
		return nil
	})
	return out, err
}

// acceptedConnectionIndex maps each user ID to the IDs of users they
// hold an accepted connection with, on either side of the document.
func (s *Store) acceptedConnectionIndex() (map[string][]string, error) {
	index := make(map[string][]string)
	err := s.scanPrefix(connKeyPrefix, func(val []byte) error {
		var c models.Connection
		if err := json.Unmarshal(val, &c); err != nil {
			return nil
		}
		if c.Status != models.ConnectionAccepted {
			return nil
		}
		index[c.FromUserID] = append(index[c.FromUserID], c.ToUserID)
		index[c.ToUserID] = append(index[c.ToUserID], c.FromUserID)
		return nil
	})
	return index, err
}
