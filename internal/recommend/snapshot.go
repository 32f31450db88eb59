// EventMesh - Event Discovery and Social Connection Backend
// Copyright 2026 EventMesh contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventmesh/eventmesh

package recommend

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/eventmesh/eventmesh/internal/config"
	"github.com/eventmesh/eventmesh/internal/graph"
	"github.com/eventmesh/eventmesh/internal/logging"
	"github.com/eventmesh/eventmesh/internal/metrics"
	"github.com/eventmesh/eventmesh/internal/models"
)

// DataSource is the read interface the engine consumes from the
// document store. Reads are eventually consistent; the engine only
// needs "fresh as of last refresh".
type DataSource interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	ListEvents(ctx context.Context) ([]models.Event, error)
}

// Snapshot is an immutable view of all users, future-relevant events,
// and the derived social graph. Readers capture one Snapshot pointer
// per request; nothing in it may be mutated after Build.
type Snapshot struct {
	Users   map[string]models.User
	Events  []models.Event
	Graph   *graph.Graph
	BuiltAt time.Time
}

// loadResult carries both store reads through the circuit breaker.
type loadResult struct {
	users  []models.User
	events []models.Event
}

// Refresher owns the engine's snapshot lifecycle: wholesale rebuilds
// gated by a freshness interval, an explicit staleness flag fed by
// the event bus, a single-flight guard so concurrent triggers cause
// one store load, a circuit breaker around the store, and a rate
// limiter bounding rebuild frequency under event storms.
type Refresher struct {
	source DataSource
	cfg    config.RecommendConfig

	current atomic.Pointer[Snapshot]
	stale   atomic.Bool

	// refreshMu serializes rebuilds. Readers never take it.
	refreshMu sync.Mutex

	breaker *gobreaker.CircuitBreaker[loadResult]
	limiter *rate.Limiter

	now func() time.Time
}

// NewRefresher creates a Refresher. No snapshot exists until the
// first Snapshot or Refresh call; a failed first load propagates its
// error since serving from an empty snapshot would silently return
// misleadingly empty recommendations.
func NewRefresher(source DataSource, cfg config.RecommendConfig) *Refresher {
	r := &Refresher{
		source: source,
		cfg:    cfg,
		now:    time.Now,
	}
	r.breaker = gobreaker.NewCircuitBreaker[loadResult](gobreaker.Settings{
		Name:    "recommend-snapshot-load",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("component", "refresher").
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Snapshot load circuit breaker state changed")
		},
	})
	// At most one rebuild per 10 seconds beyond the interval-gated
	// ones, so event-bus staleness storms cannot hammer the store.
	r.limiter = rate.NewLimiter(rate.Every(10*time.Second), 1)
	return r
}

// Snapshot returns a fresh snapshot, rebuilding first if the current
// one is missing, older than the refresh interval, or flagged stale.
// When a rebuild fails but an old snapshot exists, the old snapshot
// is returned and the error suppressed; with no snapshot at all the
// error propagates.
func (r *Refresher) Snapshot(ctx context.Context) (*Snapshot, error) {
	if snap := r.current.Load(); snap != nil && !r.needsRefresh(snap) {
		return snap, nil
	}

	r.refreshMu.Lock()
	defer r.refreshMu.Unlock()

	// Another caller may have rebuilt while we waited for the lock.
	snap := r.current.Load()
	if snap != nil && !r.needsRefresh(snap) {
		return snap, nil
	}

	// Stale-only rebuilds are rate limited so event storms cannot
	// hammer the store; when throttled the slightly-stale snapshot
	// keeps serving.
	if snap != nil && !r.intervalExpired(snap) && !r.limiter.Allow() {
		return snap, nil
	}

	if err := r.rebuild(ctx); err != nil {
		if snap := r.current.Load(); snap != nil {
			logging.Warn().
				Str("component", "refresher").
				Err(err).
				Time("snapshot_built_at", snap.BuiltAt).
				Msg("Snapshot rebuild failed, serving previous snapshot")
			return snap, nil
		}
		return nil, fmt.Errorf("initial snapshot load failed: %w", err)
	}
	return r.current.Load(), nil
}

// Refresh forces a rebuild regardless of freshness. Used by the
// explicit refresh endpoint and the periodic refresh service.
func (r *Refresher) Refresh(ctx context.Context) error {
	r.refreshMu.Lock()
	defer r.refreshMu.Unlock()
	return r.rebuild(ctx)
}

// MarkStale flags the snapshot for rebuild on next use. Called by the
// event bus when RSVPs, connections, or feedback change.
func (r *Refresher) MarkStale() {
	r.stale.Store(true)
}

// Current returns the snapshot as-is without freshness checks, or nil
// before the first successful load.
func (r *Refresher) Current() *Snapshot {
	return r.current.Load()
}

// Stale reports whether the staleness flag is set.
func (r *Refresher) Stale() bool {
	return r.stale.Load()
}

func (r *Refresher) needsRefresh(snap *Snapshot) bool {
	return r.intervalExpired(snap) || r.stale.Load()
}

func (r *Refresher) intervalExpired(snap *Snapshot) bool {
	return r.now().Sub(snap.BuiltAt) >= r.cfg.RefreshInterval
}

// rebuild loads users and events through the circuit breaker and
// atomically publishes a new snapshot. Caller holds refreshMu.
func (r *Refresher) rebuild(ctx context.Context) error {
	start := r.now()
	logger := logging.With().Str("component", "refresher").Logger()

	result, err := r.breaker.Execute(func() (loadResult, error) {
		users, err := r.source.ListUsers(ctx)
		if err != nil {
			return loadResult{}, fmt.Errorf("list users: %w", err)
		}
		events, err := r.source.ListEvents(ctx)
		if err != nil {
			return loadResult{}, fmt.Errorf("list events: %w", err)
		}
		return loadResult{users: users, events: events}, nil
	})
	if err != nil {
		metrics.RecordSnapshotRefresh("error", 0)
		return err
	}

	users := result.users
	if len(users) > r.cfg.MaxUsers {
		users = users[:r.cfg.MaxUsers]
	}

	userMap := make(map[string]models.User, len(users))
	for _, u := range users {
		if u.ID == "" {
			continue
		}
		userMap[u.ID] = u
	}

	// One malformed event must not abort scoring for everyone else:
	// skip it deterministically and keep the rest.
	events := make([]models.Event, 0, len(result.events))
	skipped := 0
	for _, ev := range result.events {
		if !ev.Valid() {
			skipped++
			logger.Debug().Str("event_id", ev.ID).Msg("Skipping malformed event record")
			continue
		}
		events = append(events, ev)
		if len(events) >= r.cfg.MaxEvents {
			break
		}
	}

	snap := &Snapshot{
		Users:   userMap,
		Events:  events,
		Graph:   graph.Build(users),
		BuiltAt: r.now(),
	}
	r.current.Store(snap)
	r.stale.Store(false)

	elapsed := r.now().Sub(start)
	metrics.RecordSnapshotRefresh("success", elapsed)
	metrics.UpdateSnapshotGauges(len(userMap), len(events), snap.Graph.AsymmetricEdges(), 0)

	logger.Info().
		Int("users", len(userMap)).
		Int("events", len(events)).
		Int("events_skipped", skipped).
		Int("graph_edges", snap.Graph.Edges()).
		Int("asymmetric_edges", snap.Graph.AsymmetricEdges()).
		Dur("duration", elapsed).
		Msg("Recommendation snapshot rebuilt")
	return nil
}
