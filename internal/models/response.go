// EventMesh - Event Discovery and Social Connection Backend
// Copyright 2026 EventMesh contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventmesh/eventmesh

package models

import "time"

// APIResponse is the standard JSON envelope for all API endpoints.
type APIResponse struct {
	// Status is "success" or "error".
	Status string `json:"status"`

	// Data carries the endpoint-specific payload. Nil on errors.
	Data interface{} `json:"data,omitempty"`

	// Metadata contains timing and diagnostic information.
	Metadata Metadata `json:"metadata"`

	// Error is populated only when Status is "error".
	Error *APIError `json:"error,omitempty"`
}

// Metadata contains response timing information.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	RequestID   string    `json:"request_id,omitempty"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError describes a failed request.
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}
