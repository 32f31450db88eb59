// EventMesh - Event Discovery and Social Connection Backend
// Copyright 2026 EventMesh contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventmesh/eventmesh

package recommend

import (
	"context"
	"sort"

	"github.com/eventmesh/eventmesh/internal/cache"
	"github.com/eventmesh/eventmesh/internal/logging"
	"github.com/eventmesh/eventmesh/internal/metrics"
	"github.com/eventmesh/eventmesh/internal/models"
)

// RecommendConnections returns ranked connection candidates for a
// user. The candidate pool is the user's 2-hop graph neighborhood
// united with co-attendees of events the user attended; the user and
// anyone already connected are never candidates.
func (e *Engine) RecommendConnections(ctx context.Context, userID string, limit int) ([]ConnectionRecommendation, error) {
	start := e.now()
	limit = e.normalizeLimit(limit)

	if e.respCache != nil {
		key := cache.Key("connections", []interface{}{userID, limit})
		if v, ok := e.respCache.Get(key); ok {
			metrics.RecordRecommendation("connections", true, e.now().Sub(start))
			return v.([]ConnectionRecommendation), nil
		}
	}

	snap, err := e.refresher.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	user, ok := snap.Users[userID]
	if !ok {
		return []ConnectionRecommendation{}, nil
	}

	attendance := attendanceIndex(snap)

	// 2-hop neighborhood, then co-attendees of the user's events.
	candidates := snap.Graph.NeighborsOfNeighbors(userID)
	if candidates == nil {
		candidates = make(map[string]struct{})
	}
	direct := snap.Graph.Neighbors(userID)
	for eventID := range attendance.byUser[userID] {
		for other := range attendance.byEvent[eventID] {
			if other == userID {
				continue
			}
			if _, connected := direct[other]; connected {
				continue
			}
			candidates[other] = struct{}{}
		}
	}

	recs := e.scoreCandidates(user, candidates, snap, attendance, "")
	if len(recs) > limit {
		recs = recs[:limit]
	}

	if e.respCache != nil {
		e.respCache.Set(cache.Key("connections", []interface{}{userID, limit}), recs)
	}
	metrics.RecordRecommendation("connections", false, e.now().Sub(start))
	logger := logging.Ctx(ctx)
	logger.Debug().
		Str("component", "engine").
		Str("user_id", userID).
		Int("results", len(recs)).
		Msg("Connection recommendations computed")
	return recs, nil
}

// RecommendEventConnections ranks connection candidates among one
// event's attendees, for the "who should I meet at this event" view.
// Conversation starters reference the event when no interests are
// shared. Unknown event or user yields an empty list.
func (e *Engine) RecommendEventConnections(ctx context.Context, eventID, userID string, limit int) ([]ConnectionRecommendation, error) {
	start := e.now()
	limit = e.normalizeLimit(limit)

	snap, err := e.refresher.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	user, ok := snap.Users[userID]
	if !ok {
		return []ConnectionRecommendation{}, nil
	}

	var event *models.Event
	for i := range snap.Events {
		if snap.Events[i].ID == eventID {
			event = &snap.Events[i]
			break
		}
	}
	if event == nil {
		return []ConnectionRecommendation{}, nil
	}

	direct := snap.Graph.Neighbors(userID)
	candidates := make(map[string]struct{})
	for attendee := range event.AttendingIDs() {
		if attendee == userID {
			continue
		}
		if _, connected := direct[attendee]; connected {
			continue
		}
		candidates[attendee] = struct{}{}
	}

	attendance := attendanceIndex(snap)
	recs := e.scoreCandidates(user, candidates, snap, attendance, event.Title)
	if len(recs) > limit {
		recs = recs[:limit]
	}

	metrics.RecordRecommendation("event_buddies", false, e.now().Sub(start))
	return recs, nil
}

func (e *Engine) normalizeLimit(limit int) int {
	if limit <= 0 {
		return e.cfg.DefaultLimit
	}
	if limit > e.cfg.MaxLimit {
		return e.cfg.MaxLimit
	}
	return limit
}

// scoreCandidates scores every candidate against the requesting user
// and returns them sorted by inflated score, stable for ties.
// Interest overlap is measured against the requesting user's interest
// count; mutual connections and common events are normalized by their
// configured caps.
func (e *Engine) scoreCandidates(user models.User, candidates map[string]struct{}, snap *Snapshot, attendance *attendance, eventTitle string) []ConnectionRecommendation {
	// Deterministic iteration order keeps tie ordering repeatable.
	ids := make([]string, 0, len(candidates))
	for id := range candidates {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	w := e.cfg.ConnectionWeights
	recs := make([]ConnectionRecommendation, 0, len(ids))
	for _, id := range ids {
		candidate, ok := snap.Users[id]
		if !ok {
			continue
		}

		shared := SharedInterests(user.Interests, candidate.Interests)
		var interestScore float64
		if len(user.Interests) > 0 {
			interestScore = clamp01(float64(len(shared)) / float64(len(user.Interests)))
		}

		mutual := snap.Graph.MutualConnections(user.ID, id)
		mutualScore := clamp01(float64(mutual) / float64(e.cfg.MutualConnectionCap))

		common := attendance.commonEvents(user.ID, id)
		commonScore := clamp01(float64(common) / float64(e.cfg.CommonEventCap))

		raw := clamp01(interestScore*w.Interest + mutualScore*w.MutualConnections + commonScore*w.CommonEvents)
		recs = append(recs, ConnectionRecommendation{
			UserID:               id,
			DisplayName:          candidate.DisplayName,
			Bio:                  candidate.Bio,
			ProfileImageURL:      candidate.ProfileImageURL,
			Score:                Inflate(raw),
			SharedInterests:      shared,
			MutualConnections:    mutual,
			EventsInCommon:       common,
			ConversationStarters: ConversationStarters(shared, eventTitle, maxStarters),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})
	return recs
}

// attendance indexes "attending" RSVPs both ways for common-event
// counting and co-attendee candidate discovery.
type attendance struct {
	byUser  map[string]map[string]struct{}
	byEvent map[string]map[string]struct{}
}

func attendanceIndex(snap *Snapshot) *attendance {
	a := &attendance{
		byUser:  make(map[string]map[string]struct{}),
		byEvent: make(map[string]map[string]struct{}),
	}
	for _, ev := range snap.Events {
		for id := range ev.AttendingIDs() {
			if a.byUser[id] == nil {
				a.byUser[id] = make(map[string]struct{})
			}
			a.byUser[id][ev.ID] = struct{}{}
			if a.byEvent[ev.ID] == nil {
				a.byEvent[ev.ID] = make(map[string]struct{})
			}
			a.byEvent[ev.ID][id] = struct{}{}
		}
	}
	return a
}

func (a *attendance) commonEvents(userA, userB string) int {
	ea, eb := a.byUser[userA], a.byUser[userB]
	if len(ea) == 0 || len(eb) == 0 {
		return 0
	}
	if len(eb) < len(ea) {
		ea, eb = eb, ea
	}
	count := 0
	for id := range ea {
		if _, ok := eb[id]; ok {
			count++
		}
	}
	return count
}
