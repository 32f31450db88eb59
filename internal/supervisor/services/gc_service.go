// EventMesh - Event Discovery and Social Connection Backend
// Copyright 2026 EventMesh contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventmesh/eventmesh

package services

import (
	"context"
	"time"
)

// GCRunner matches the store's value-log garbage collection hook.
type GCRunner interface {
	RunGC()
}

// StoreGCService periodically runs Badger value-log GC. GC is a no-op
// when there is nothing to reclaim, so a fixed interval is fine.
type StoreGCService struct {
	store    GCRunner
	interval time.Duration
	name     string
}

// NewStoreGCService creates the GC loop wrapper.
func NewStoreGCService(store GCRunner, interval time.Duration) *StoreGCService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &StoreGCService{
		store:    store,
		interval: interval,
		name:     "store-gc",
	}
}

// Serve implements suture.Service.
func (s *StoreGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.store.RunGC()
		}
	}
}

// String identifies the service in supervisor logs.
func (s *StoreGCService) String() string {
	return s.name
}
