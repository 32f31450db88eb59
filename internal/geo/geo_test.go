// EventMesh - Event Discovery and Social Connection Backend
// Copyright 2026 EventMesh contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventmesh/eventmesh

package geo

import (
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		wantKm                 float64
		tolerance              float64
	}{
		{
			name:   "identical points",
			lat1:   40.7128, lon1: -74.0060,
			lat2: 40.7128, lon2: -74.0060,
			wantKm: 0, tolerance: 0,
		},
		{
			name:   "origin to origin",
			wantKm: 0, tolerance: 0,
		},
		{
			name:   "london to paris",
			lat1:   51.5074, lon1: -0.1278,
			lat2: 48.8566, lon2: 2.3522,
			wantKm: 344, tolerance: 5,
		},
		{
			name:   "one degree of longitude at equator",
			lat1:   0, lon1: 0,
			lat2: 0, lon2: 1,
			wantKm: 111.3, tolerance: 1,
		},
		{
			name:   "antipodal points",
			lat1:   0, lon1: 0,
			lat2: 0, lon2: 180,
			wantKm: math.Pi * EarthRadiusKm, tolerance: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.wantKm) > tt.tolerance {
				t.Errorf("Distance() = %f km, want %f ± %f", got, tt.wantKm, tt.tolerance)
			}
		})
	}
}

func TestDistance_Symmetric(t *testing.T) {
	pairs := [][4]float64{
		{51.5074, -0.1278, 48.8566, 2.3522},
		{-33.8688, 151.2093, 35.6762, 139.6503},
		{0, 0, 89.9, 179.9},
		{12.34, -56.78, -12.34, 56.78},
	}

	for _, p := range pairs {
		ab := Distance(p[0], p[1], p[2], p[3])
		ba := Distance(p[2], p[3], p[0], p[1])
		if math.Abs(ab-ba) > 1e-9 {
			t.Errorf("Distance not symmetric: %f vs %f for %v", ab, ba, p)
		}
	}
}

func TestDistance_NaNInputs(t *testing.T) {
	got := Distance(math.NaN(), 0, 10, 10)
	if !math.IsNaN(got) {
		t.Errorf("Distance with NaN input = %f, want NaN", got)
	}

	// Must not panic and must not report being within any radius.
	if WithinRadius(math.NaN(), 0, 10, 10, 1e9) {
		t.Error("WithinRadius with NaN input = true, want false")
	}
}

func TestWithinRadius(t *testing.T) {
	// Roughly 111 km apart.
	if WithinRadius(0, 0, 0, 1, 50) {
		t.Error("WithinRadius(0,0 -> 0,1, 50km) = true, want false")
	}
	if !WithinRadius(0, 0, 0, 1, 150) {
		t.Error("WithinRadius(0,0 -> 0,1, 150km) = false, want true")
	}
	if !WithinRadius(5, 5, 5, 5, 0) {
		t.Error("WithinRadius for identical points with zero radius = false, want true")
	}
}
