// EventMesh - Event Discovery and Social Connection Backend
// Copyright 2026 EventMesh contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventmesh/eventmesh

package recommend

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/eventmesh/eventmesh/internal/cache"
	"github.com/eventmesh/eventmesh/internal/config"
	"github.com/eventmesh/eventmesh/internal/logging"
	"github.com/eventmesh/eventmesh/internal/metrics"
	"github.com/eventmesh/eventmesh/internal/models"
	"github.com/eventmesh/eventmesh/internal/recommend/algorithms"
)

// Engine computes event and connection recommendations against the
// refresher's current snapshot. Unknown users and events yield empty
// results, not errors; the API layer decides whether that is a 404.
type Engine struct {
	cfg       config.RecommendConfig
	refresher *Refresher
	latent    *algorithms.LatentModel

	respCache *cache.Cache

	// trainMu guards retraining; trainedFor is the snapshot the
	// latent model was last fitted to.
	trainMu    sync.Mutex
	trainedFor *Snapshot

	now func() time.Time
}

// NewEngine creates an engine over the given data source.
func NewEngine(source DataSource, cfg config.RecommendConfig) *Engine {
	e := &Engine{
		cfg:       cfg,
		refresher: NewRefresher(source, cfg),
		latent:    algorithms.NewLatentModel(cfg.Latent),
		now:       time.Now,
	}
	if cfg.ResponseCacheTTL > 0 {
		e.respCache = cache.New("recommend", cfg.ResponseCacheTTL)
	}
	return e
}

// Refresher exposes the snapshot controller for the refresh service
// and the event bus.
func (e *Engine) Refresher() *Refresher {
	return e.refresher
}

// Status reports the engine's snapshot state.
func (e *Engine) Status() Status {
	st := Status{
		Stale:         e.refresher.Stale(),
		LatentTrained: e.latent.Trained(),
	}
	if snap := e.refresher.Current(); snap != nil {
		st.SnapshotBuiltAt = snap.BuiltAt
		st.SnapshotAge = e.now().Sub(snap.BuiltAt).Round(time.Second).String()
		st.Users = len(snap.Users)
		st.Events = len(snap.Events)
		st.GraphEdges = snap.Graph.Edges()
		st.AsymmetricEdges = snap.Graph.AsymmetricEdges()
	}
	return st
}

// RecommendEvents returns ranked future events for a user.
//
// When the query carries a coordinate, events whose venue lies beyond
// MaxDistanceKm are excluded outright; a venue without a usable
// coordinate stays in with a zero location score. Without a query
// coordinate no distance filter applies and the location component is
// neutral.
func (e *Engine) RecommendEvents(ctx context.Context, q EventQuery) ([]EventRecommendation, error) {
	start := e.now()
	q = e.normalizeEventQuery(q)

	snap, err := e.refresher.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	// Cache entries are keyed by snapshot identity so a rebuild (timed
	// or bus-triggered) invalidates them implicitly.
	var cacheKey string
	if e.respCache != nil {
		cacheKey = cache.Key("events", struct {
			Query   EventQuery
			BuiltAt time.Time
		}{q, snap.BuiltAt})
		if v, ok := e.respCache.Get(cacheKey); ok {
			// An event may have started since the entry was cached;
			// the result must never include past events.
			recs := filterUpcoming(v.([]EventRecommendation), e.now())
			metrics.RecordRecommendation("events", true, e.now().Sub(start))
			return recs, nil
		}
	}
	user, ok := snap.Users[q.UserID]
	if !ok {
		return []EventRecommendation{}, nil
	}

	e.ensureLatent(snap)

	class := Classify(user, e.cfg)
	weights := WeightsFor(class, e.cfg)
	userCoord := q.Coordinate()
	now := e.now()

	recs := make([]EventRecommendation, 0, len(snap.Events))
	for _, ev := range snap.Events {
		if !ev.StartTime.After(now) {
			continue
		}

		attending := ev.AttendingIDs()
		b := ScoreBreakdown{
			Interest: InterestScore(user.Interests, ev.Categories),
			Social:   SocialScore(snap.Graph, user.ID, attending),
			Time:     TimeScore(ev.StartTime, now),
		}

		var distance *float64
		if userCoord != nil {
			score, d := LocationScore(*userCoord, ev.Venue.Coordinate(), q.MaxDistanceKm)
			if d != nil && *d > q.MaxDistanceKm {
				continue
			}
			b.Location = score
			distance = d
		} else {
			b.Location = NeutralLocationScore
		}

		collabAvailable := false
		if pred, ok := e.latent.Predict(user.ID, ev.ID); ok {
			b.Collaborative = pred
			collabAvailable = true
		} else if class == ClassNew {
			// Cold-start proxy: raw popularity stands in until enough
			// interaction data exists to factorize.
			b.Collaborative = PopularityScore(ev.AttendeesCount)
			collabAvailable = true
		}

		Combine(&b, weights, collabAvailable)
		recs = append(recs, EventRecommendation{
			Event:                ev,
			Score:                b.Final,
			Breakdown:            b,
			DistanceKm:           distance,
			ConnectionsAttending: ConnectionsAttending(snap.Graph, user.ID, attending),
		})
	}

	// Stable sort keeps input order for equal scores.
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})
	if len(recs) > q.Limit {
		recs = recs[:q.Limit]
	}

	if e.respCache != nil {
		e.respCache.Set(cacheKey, recs)
	}
	metrics.RecordRecommendation("events", false, e.now().Sub(start))
	logger := logging.Ctx(ctx)
	logger.Debug().
		Str("component", "engine").
		Str("user_id", q.UserID).
		Str("class", string(class)).
		Int("results", len(recs)).
		Msg("Event recommendations computed")
	return recs, nil
}

// filterUpcoming drops recommendations whose event has started.
func filterUpcoming(recs []EventRecommendation, now time.Time) []EventRecommendation {
	out := make([]EventRecommendation, 0, len(recs))
	for _, rec := range recs {
		if rec.Event.StartTime.After(now) {
			out = append(out, rec)
		}
	}
	return out
}

func (e *Engine) normalizeEventQuery(q EventQuery) EventQuery {
	if q.Limit <= 0 {
		q.Limit = e.cfg.DefaultLimit
	}
	if q.Limit > e.cfg.MaxLimit {
		q.Limit = e.cfg.MaxLimit
	}
	if q.MaxDistanceKm <= 0 {
		q.MaxDistanceKm = e.cfg.DefaultRadiusKm
	}
	// A half-supplied coordinate is treated as none.
	if q.Latitude == nil || q.Longitude == nil {
		q.Latitude, q.Longitude = nil, nil
	}
	return q
}

// ensureLatent retrains the latent model when the snapshot has been
// replaced since the last fit. Training runs at most once per
// snapshot; concurrent requests wait only for the pointer check.
func (e *Engine) ensureLatent(snap *Snapshot) {
	if !e.cfg.Latent.Enabled {
		return
	}
	e.trainMu.Lock()
	defer e.trainMu.Unlock()
	if e.trainedFor == snap {
		return
	}
	e.latent.Train(interactionsFrom(snap))
	e.trainedFor = snap
}

// interactionsFrom flattens snapshot RSVP entries into training
// signals: attending 1.0, interested 0.5.
func interactionsFrom(snap *Snapshot) []algorithms.Interaction {
	var out []algorithms.Interaction
	for _, ev := range snap.Events {
		for _, a := range ev.Attendees {
			var conf float64
			switch a.Status {
			case models.RSVPAttending:
				conf = 1.0
			case models.RSVPInterested:
				conf = 0.5
			default:
				continue
			}
			out = append(out, algorithms.Interaction{
				UserID:     a.UserID,
				EventID:    ev.ID,
				Confidence: conf,
				Timestamp:  a.RSVPDate,
			})
		}
	}
	return out
}
