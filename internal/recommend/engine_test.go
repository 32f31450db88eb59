// EventMesh - Event Discovery and Social Connection Backend
// Copyright 2026 EventMesh contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventmesh/eventmesh

package recommend

import (
	"context"
	"testing"
	"time"

	"github.com/eventmesh/eventmesh/internal/config"
	"github.com/eventmesh/eventmesh/internal/models"
)

func testEngineConfig() config.RecommendConfig {
	cfg := config.DefaultRecommend()
	cfg.ResponseCacheTTL = 0 // no cross-test bleed through the cache
	cfg.Latent.Enabled = false
	return cfg
}

func venueAt(lat, lon float64) *models.Venue {
	return &models.Venue{Latitude: &lat, Longitude: &lon}
}

func TestRecommendEventsUnknownUser(t *testing.T) {
	src := &fakeSource{
		users:  []models.User{{ID: "u1"}},
		events: []models.Event{futureEvent("e1", 3)},
	}
	e := NewEngine(src, testEngineConfig())

	recs, err := e.RecommendEvents(context.Background(), EventQuery{UserID: "ghost"})
	if err != nil {
		t.Fatalf("RecommendEvents() error: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("unknown user got %d recommendations, want 0", len(recs))
	}
}

func TestRecommendEventsExcludesPastEvents(t *testing.T) {
	past := futureEvent("past", -2)
	future := futureEvent("future", 2)
	src := &fakeSource{
		users:  []models.User{{ID: "u1"}},
		events: []models.Event{past, future},
	}
	e := NewEngine(src, testEngineConfig())

	recs, err := e.RecommendEvents(context.Background(), EventQuery{UserID: "u1"})
	if err != nil {
		t.Fatalf("RecommendEvents() error: %v", err)
	}
	if len(recs) != 1 || recs[0].Event.ID != "future" {
		t.Errorf("got %v, want only the future event", recs)
	}
}

func TestRecommendEventsCachedResultDropsStartedEvents(t *testing.T) {
	soon := futureEvent("soon", 0)
	soon.StartTime = time.Now().Add(time.Hour)
	soon.EndTime = soon.StartTime.Add(2 * time.Hour)
	src := &fakeSource{
		users:  []models.User{{ID: "u1"}},
		events: []models.Event{soon, futureEvent("later", 5)},
	}
	cfg := testEngineConfig()
	cfg.ResponseCacheTTL = time.Minute
	e := NewEngine(src, cfg)

	recs, err := e.RecommendEvents(context.Background(), EventQuery{UserID: "u1"})
	if err != nil {
		t.Fatalf("RecommendEvents() error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(recs))
	}

	// The event starts between the two calls. The cached entry must
	// not hand it back once it is in the past.
	e.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	recs, err = e.RecommendEvents(context.Background(), EventQuery{UserID: "u1"})
	if err != nil {
		t.Fatalf("RecommendEvents() error: %v", err)
	}
	if len(recs) != 1 || recs[0].Event.ID != "later" {
		t.Errorf("got %v, want only the later event", recs)
	}
}

func TestRecommendEventsCacheDroppedOnRebuild(t *testing.T) {
	src := &fakeSource{
		users:  []models.User{{ID: "u1"}},
		events: []models.Event{futureEvent("e1", 3)},
	}
	cfg := testEngineConfig()
	cfg.ResponseCacheTTL = time.Minute
	e := NewEngine(src, cfg)

	recs, err := e.RecommendEvents(context.Background(), EventQuery{UserID: "u1"})
	if err != nil {
		t.Fatalf("RecommendEvents() error: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d recommendations, want 1", len(recs))
	}

	src.mu.Lock()
	src.events = append(src.events, futureEvent("e2", 4))
	src.mu.Unlock()
	e.Refresher().MarkStale()

	// The rebuilt snapshot keys a fresh cache entry, so the new event
	// shows up without waiting out the response cache TTL.
	recs, err = e.RecommendEvents(context.Background(), EventQuery{UserID: "u1"})
	if err != nil {
		t.Fatalf("RecommendEvents() error: %v", err)
	}
	if len(recs) != 2 {
		t.Errorf("got %d recommendations after rebuild, want 2", len(recs))
	}
}

func TestRecommendEventsDistanceFilter(t *testing.T) {
	near := futureEvent("near", 3)
	near.Venue = venueAt(0.01, 0.01) // ~1.6 km from origin
	far := futureEvent("far", 3)
	far.Venue = venueAt(10, 10) // ~1500 km
	noCoord := futureEvent("nocoord", 3)

	src := &fakeSource{
		users:  []models.User{{ID: "u1"}},
		events: []models.Event{near, far, noCoord},
	}
	e := NewEngine(src, testEngineConfig())
	ctx := context.Background()

	lat, lon := 0.0, 0.0
	recs, err := e.RecommendEvents(ctx, EventQuery{
		UserID:        "u1",
		Latitude:      &lat,
		Longitude:     &lon,
		MaxDistanceKm: 10,
	})
	if err != nil {
		t.Fatalf("RecommendEvents() error: %v", err)
	}
	ids := make(map[string]bool)
	for _, r := range recs {
		ids[r.Event.ID] = true
	}
	if ids["far"] {
		t.Error("far event survived the distance filter")
	}
	if !ids["near"] {
		t.Error("near event was filtered out")
	}
	// No usable venue coordinate: kept, scored zero on location.
	if !ids["nocoord"] {
		t.Error("event without venue coordinate should not be hard-filtered")
	}

	// Without a location the far event comes back.
	recs, err = e.RecommendEvents(ctx, EventQuery{UserID: "u1"})
	if err != nil {
		t.Fatalf("RecommendEvents() error: %v", err)
	}
	found := false
	for _, r := range recs {
		if r.Event.ID == "far" {
			found = true
			if r.Breakdown.Location != NeutralLocationScore {
				t.Errorf("location score = %f, want neutral %f", r.Breakdown.Location, NeutralLocationScore)
			}
		}
	}
	if !found {
		t.Error("far event missing when no location was supplied")
	}
}

func TestRecommendEventsRankedByScore(t *testing.T) {
	matching := futureEvent("matching", 2)
	matching.Categories = []string{"tech", "music"}
	other := futureEvent("other", 2)
	other.Categories = []string{"knitting"}

	src := &fakeSource{
		users:  []models.User{{ID: "u1", Interests: []string{"tech", "music"}}},
		events: []models.Event{other, matching},
	}
	e := NewEngine(src, testEngineConfig())

	recs, err := e.RecommendEvents(context.Background(), EventQuery{UserID: "u1"})
	if err != nil {
		t.Fatalf("RecommendEvents() error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(recs))
	}
	if recs[0].Event.ID != "matching" {
		t.Errorf("top event = %s, want the interest-matching one", recs[0].Event.ID)
	}
	for i := 1; i < len(recs); i++ {
		if recs[i].Score > recs[i-1].Score {
			t.Errorf("results not sorted descending at %d", i)
		}
	}
	for _, r := range recs {
		if r.Score != r.Breakdown.Final {
			t.Errorf("Score (%f) should equal inflated Final (%f)", r.Score, r.Breakdown.Final)
		}
		if r.Breakdown.Final < r.Breakdown.Combined {
			t.Errorf("inflation reduced the score")
		}
	}
}

func TestRecommendEventsLimit(t *testing.T) {
	var events []models.Event
	for i := 0; i < 30; i++ {
		events = append(events, futureEvent(time.Now().Add(time.Duration(i)).String(), i%20+1))
	}
	src := &fakeSource{users: []models.User{{ID: "u1"}}, events: events}
	e := NewEngine(src, testEngineConfig())

	recs, err := e.RecommendEvents(context.Background(), EventQuery{UserID: "u1", Limit: 5})
	if err != nil {
		t.Fatalf("RecommendEvents() error: %v", err)
	}
	if len(recs) != 5 {
		t.Errorf("got %d recommendations, want 5", len(recs))
	}
}

func TestRecommendEventsColdStartPopularity(t *testing.T) {
	popular := futureEvent("popular", 3)
	popular.AttendeesCount = 50
	empty := futureEvent("empty", 3)

	src := &fakeSource{
		users:  []models.User{{ID: "newbie"}},
		events: []models.Event{empty, popular},
	}
	e := NewEngine(src, testEngineConfig())

	recs, err := e.RecommendEvents(context.Background(), EventQuery{UserID: "newbie"})
	if err != nil {
		t.Fatalf("RecommendEvents() error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(recs))
	}
	if recs[0].Event.ID != "popular" {
		t.Errorf("top event = %s, want the popular one for a cold-start user", recs[0].Event.ID)
	}
	if recs[0].Breakdown.Collaborative != 1.0 {
		t.Errorf("collaborative proxy = %f, want 1.0 at the attendee cap", recs[0].Breakdown.Collaborative)
	}
}

func TestEngineStatus(t *testing.T) {
	src := &fakeSource{
		users:  []models.User{{ID: "u1", Connections: []string{"u2"}}, {ID: "u2", Connections: []string{"u1"}}},
		events: []models.Event{futureEvent("e1", 3)},
	}
	e := NewEngine(src, testEngineConfig())

	// Before any load the status is empty but well-formed.
	st := e.Status()
	if st.Users != 0 || st.Events != 0 {
		t.Errorf("pre-load status = %+v, want zero counts", st)
	}

	if _, err := e.RecommendEvents(context.Background(), EventQuery{UserID: "u1"}); err != nil {
		t.Fatalf("RecommendEvents() error: %v", err)
	}
	st = e.Status()
	if st.Users != 2 || st.Events != 1 || st.GraphEdges != 1 {
		t.Errorf("status = %+v, want 2 users, 1 event, 1 edge", st)
	}
}
