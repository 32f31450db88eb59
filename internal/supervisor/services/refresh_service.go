// EventMesh - Event Discovery and Social Connection Backend
// Copyright 2026 EventMesh contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventmesh/eventmesh

package services

import (
	"context"
	"time"

	"github.com/eventmesh/eventmesh/internal/logging"
)

// SnapshotRefresher matches the recommendation refresher's forced
// rebuild entry point.
type SnapshotRefresher interface {
	Refresh(ctx context.Context) error
}

// RefreshService periodically forces a recommendation snapshot
// rebuild so the engine never serves data older than the configured
// interval, even on an idle deployment.
type RefreshService struct {
	refresher SnapshotRefresher
	interval  time.Duration
	name      string
}

// NewRefreshService creates the refresh loop wrapper.
func NewRefreshService(refresher SnapshotRefresher, interval time.Duration) *RefreshService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &RefreshService{
		refresher: refresher,
		interval:  interval,
		name:      "snapshot-refresh",
	}
}

// Serve implements suture.Service. It performs an immediate refresh
// so the snapshot is warm before the first tick, then refreshes on
// the interval. Refresh failures are logged, not fatal; the engine
// keeps serving the previous snapshot.
func (s *RefreshService) Serve(ctx context.Context) error {
	if err := s.refresher.Refresh(ctx); err != nil {
		logging.Warn().Err(err).Msg("Initial snapshot refresh failed")
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.refresher.Refresh(ctx); err != nil {
				logging.Warn().Err(err).Msg("Scheduled snapshot refresh failed")
			}
		}
	}
}

// String identifies the service in supervisor logs.
func (s *RefreshService) String() string {
	return s.name
}
