// EventMesh - Event Discovery and Social Connection Backend
// Copyright 2026 EventMesh contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventmesh/eventmesh

package services

import (
	"context"
	"errors"

	"github.com/eventmesh/eventmesh/internal/eventbus"
)

// Invalidator matches the bus's staleness-invalidation loop.
type Invalidator interface {
	RunInvalidator(ctx context.Context, marker eventbus.StalenessMarker) error
}

// InvalidatorService runs the bus subscriber loop that marks the
// recommendation snapshot stale whenever a write lands on the bus.
type InvalidatorService struct {
	bus    Invalidator
	marker eventbus.StalenessMarker
	name   string
}

// NewInvalidatorService creates the invalidator wrapper.
func NewInvalidatorService(bus Invalidator, marker eventbus.StalenessMarker) *InvalidatorService {
	return &InvalidatorService{
		bus:    bus,
		marker: marker,
		name:   "bus-invalidator",
	}
}

// Serve implements suture.Service. Context cancellation is the normal
// exit and is passed through so the supervisor shuts down cleanly
// instead of restarting the loop.
func (s *InvalidatorService) Serve(ctx context.Context) error {
	err := s.bus.RunInvalidator(ctx, s.marker)
	if errors.Is(err, context.Canceled) {
		return ctx.Err()
	}
	return err
}

// String identifies the service in supervisor logs.
func (s *InvalidatorService) String() string {
	return s.name
}
