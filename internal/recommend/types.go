// EventMesh - Event Discovery and Social Connection Backend
// Copyright 2026 EventMesh contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventmesh/eventmesh

package recommend

import (
	"time"

	"github.com/eventmesh/eventmesh/internal/models"
)

// Classification selects which weight vector applies to a user.
type Classification string

const (
	// ClassNew marks users below both the attended-event and
	// connection thresholds. Their weights lean on interest and time
	// because little social or interaction history exists.
	ClassNew Classification = "new"

	// ClassEstablished marks everyone else. Their weights rebalance
	// toward the social signal.
	ClassEstablished Classification = "established"
)

// ScoreBreakdown carries the per-component scores behind a
// recommendation. All components are in [0,1]. Combined is the raw
// weighted blend; Final is Combined after the inflation transform.
// Raw and inflated values stay separate so the transform is never
// applied twice.
type ScoreBreakdown struct {
	Interest      float64 `json:"interest_score"`
	Social        float64 `json:"social_score"`
	Location      float64 `json:"location_score"`
	Time          float64 `json:"time_score"`
	Collaborative float64 `json:"collaborative_score"`
	Combined      float64 `json:"raw_score"`
	Final         float64 `json:"-"`
}

// EventRecommendation is one ranked event for a user. Score is the
// inflated combined score; Breakdown carries the components and the
// raw blend.
type EventRecommendation struct {
	Event                models.Event   `json:"event"`
	Score                float64        `json:"score"`
	Breakdown            ScoreBreakdown `json:"score_details"`
	DistanceKm           *float64       `json:"distance_km,omitempty"`
	ConnectionsAttending int            `json:"connections_attending"`
}

// ConnectionRecommendation is one ranked connection candidate.
type ConnectionRecommendation struct {
	UserID               string   `json:"connection_id"`
	DisplayName          string   `json:"display_name,omitempty"`
	Bio                  string   `json:"bio,omitempty"`
	ProfileImageURL      string   `json:"profile_image_url,omitempty"`
	Score                float64  `json:"score"`
	SharedInterests      []string `json:"mutual_interests"`
	MutualConnections    int      `json:"mutual_connections"`
	EventsInCommon       int      `json:"events_in_common"`
	ConversationStarters []string `json:"conversation_starters"`
}

// EventQuery parameterizes an event recommendation request. Latitude
// and Longitude are both set or both nil; when nil the location
// component falls back to a neutral score and no distance filter is
// applied.
type EventQuery struct {
	UserID        string
	Latitude      *float64
	Longitude     *float64
	MaxDistanceKm float64
	Limit         int
}

// Coordinate returns the query coordinate, or nil when none was
// supplied.
func (q EventQuery) Coordinate() *models.Coordinate {
	if q.Latitude == nil || q.Longitude == nil {
		return nil
	}
	return &models.Coordinate{Latitude: *q.Latitude, Longitude: *q.Longitude}
}

// Status describes the engine's current snapshot for operational
// endpoints.
type Status struct {
	SnapshotBuiltAt time.Time `json:"snapshot_built_at"`
	SnapshotAge     string    `json:"snapshot_age"`
	Users           int       `json:"users"`
	Events          int       `json:"events"`
	GraphEdges      int       `json:"graph_edges"`
	AsymmetricEdges int       `json:"asymmetric_edges"`
	Stale           bool      `json:"stale"`
	LatentTrained   bool      `json:"latent_trained"`
}
