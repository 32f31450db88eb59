// EventMesh - Event Discovery and Social Connection Backend
// Copyright 2026 EventMesh contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventmesh/eventmesh

// Package recommend implements the recommendation scoring engine.
//
// The engine computes personalized relevance scores for events and
// candidate connections by blending independent signals: interest
// overlap, social proximity, geographic distance, temporal relevance,
// and a popularity or collaborative-filtering component. Component
// scores are each bounded to [0,1], combined with a weight vector
// chosen by user classification (new vs. established), and passed
// through a monotonic inflation transform for display.
//
// All scoring reads from an immutable Snapshot of users, events, and
// the derived social graph. A Refresher owns the snapshot: readers
// capture a snapshot reference once per request and never observe a
// half-rebuilt state; rebuilds are wholesale, serialized, and gated by
// a freshness interval plus an explicit staleness flag.
package recommend
