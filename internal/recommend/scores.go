// EventMesh - Event Discovery and Social Connection Backend
// Copyright 2026 EventMesh contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventmesh/eventmesh

package recommend

import (
	"math"
	"time"

	"github.com/eventmesh/eventmesh/internal/geo"
	"github.com/eventmesh/eventmesh/internal/graph"
	"github.com/eventmesh/eventmesh/internal/models"
)

// popularityAttendeeCap is the attendee count at which the popularity
// proxy saturates at 1.0.
const popularityAttendeeCap = 50

// clamp01 bounds x to [0,1]. NaN maps to 0.
func clamp01(x float64) float64 {
	if math.IsNaN(x) || x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// InterestScore returns the fraction of the target's tag set matched
// by the user's interests. An empty target set scores 0.
func InterestScore(userInterests, targetTags []string) float64 {
	if len(targetTags) == 0 || len(userInterests) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(userInterests))
	for _, tag := range userInterests {
		set[tag] = struct{}{}
	}
	matched := 0
	seen := make(map[string]struct{}, len(targetTags))
	for _, tag := range targetTags {
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		if _, ok := set[tag]; ok {
			matched++
		}
	}
	return clamp01(float64(matched) / float64(len(seen)))
}

// SharedInterests returns the tags present in both sets, preserving
// the order of a.
func SharedInterests(a, b []string) []string {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(b))
	for _, tag := range b {
		set[tag] = struct{}{}
	}
	var shared []string
	seen := make(map[string]struct{}, len(a))
	for _, tag := range a {
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		if _, ok := set[tag]; ok {
			shared = append(shared, tag)
		}
	}
	return shared
}

// SocialScore returns the fraction of the user's direct graph
// neighbors who attend the event. Zero when the user has no
// connections or is absent from the graph.
func SocialScore(g *graph.Graph, userID string, attending map[string]struct{}) float64 {
	if g == nil || len(attending) == 0 {
		return 0
	}
	neighbors := g.Neighbors(userID)
	if len(neighbors) == 0 {
		return 0
	}
	count := ConnectionsAttending(g, userID, attending)
	return clamp01(float64(count) / float64(len(neighbors)))
}

// ConnectionsAttending counts the user's direct connections present in
// the attending set.
func ConnectionsAttending(g *graph.Graph, userID string, attending map[string]struct{}) int {
	if g == nil {
		return 0
	}
	count := 0
	for n := range g.Neighbors(userID) {
		if _, ok := attending[n]; ok {
			count++
		}
	}
	return count
}

// LocationScore returns max(0, 1 - distance/maxKm) together with the
// computed distance. When the venue has no usable coordinate it
// returns (0, nil): in the caller's has-location branch a venue
// without a coordinate scores zero rather than neutral.
func LocationScore(userCoord models.Coordinate, venueCoord *models.Coordinate, maxKm float64) (float64, *float64) {
	if venueCoord == nil || maxKm <= 0 {
		return 0, nil
	}
	d := geo.Distance(userCoord.Latitude, userCoord.Longitude, venueCoord.Latitude, venueCoord.Longitude)
	if math.IsNaN(d) {
		return 0, nil
	}
	return clamp01(1 - d/maxKm), &d
}

// NeutralLocationScore is used when the request carries no coordinate
// at all: distance cannot be judged, so the component is neither a
// boost nor a penalty.
const NeutralLocationScore = 0.5

// Time relevance tiers.
const (
	timeNearTermDays = 14
	timeMidTermDays  = 30
	timeFarBaseline  = 0.3
)

// TimeScore returns the temporal relevance of an event start.
//
// Past events score 0. Events within 14 days decay linearly from 1.0
// today toward 0 at day 14. Events between 14 and 30 days decay from
// 0.5 toward ~0. Anything further out gets a flat 0.3 baseline. The
// jump from ~0 back to 0.5 at the 14-day boundary is deliberate: it
// keeps a near-term bias while still surfacing mid-term events.
func TimeScore(start, now time.Time) float64 {
	if start.Before(now) {
		return 0
	}
	days := start.Sub(now).Hours() / 24
	switch {
	case days <= timeNearTermDays:
		return clamp01(1 - days/timeNearTermDays)
	case days <= timeMidTermDays:
		return clamp01(0.5 * (timeMidTermDays - days) / (timeMidTermDays - timeNearTermDays))
	default:
		return timeFarBaseline
	}
}

// PopularityScore is the cold-start popularity proxy: attendee count
// normalized against a saturation cap.
func PopularityScore(attendeeCount int) float64 {
	if attendeeCount <= 0 {
		return 0
	}
	return clamp01(float64(attendeeCount) / popularityAttendeeCap)
}
