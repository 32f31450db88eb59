// EventMesh - Event Discovery and Social Connection Backend
// Copyright 2026 EventMesh contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventmesh/eventmesh

package api

import (
	"net/http"
	"time"
)

var startTime = time.Now()

// healthStatus is the payload of the health endpoints.
type healthStatus struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	SnapshotReady bool   `json:"snapshot_ready,omitempty"`
}

// Health handles GET /api/v1/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, healthStatus{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(startTime).Seconds()),
		SnapshotReady: h.engine.Refresher().Current() != nil,
	})
}

// HealthLive handles GET /api/v1/health/live. The process is alive if
// it can answer at all.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, healthStatus{Status: "ok"})
}

// HealthReady handles GET /api/v1/health/ready. Readiness requires a
// loaded recommendation snapshot.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if h.engine.Refresher().Current() == nil {
		respondError(w, r, http.StatusServiceUnavailable, codeInternal, "snapshot not loaded", nil)
		return
	}
	respondJSON(w, r, http.StatusOK, healthStatus{Status: "ok", SnapshotReady: true})
}
