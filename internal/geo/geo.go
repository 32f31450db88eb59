// EventMesh - Event Discovery and Social Connection Backend
// Copyright 2026 EventMesh contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventmesh/eventmesh

// Package geo provides great-circle distance calculations for event and
// user coordinates.
package geo

import "math"

// EarthRadiusKm is the Earth radius used by the Haversine formula.
const EarthRadiusKm = 6378.0

// Distance returns the great-circle distance in kilometers between two
// points given in decimal degrees, using the Haversine formula.
//
// The function is symmetric and returns 0 for identical points. It does
// not validate coordinate ranges; NaN or infinite inputs propagate to a
// NaN result without panicking.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	if lat1 == lat2 && lon1 == lon2 {
		return 0
	}

	phi1 := toRadians(lat1)
	phi2 := toRadians(lat2)
	dPhi := toRadians(lat2 - lat1)
	dLambda := toRadians(lon2 - lon1)

	sinPhi := math.Sin(dPhi / 2)
	sinLambda := math.Sin(dLambda / 2)

	a := sinPhi*sinPhi + math.Cos(phi1)*math.Cos(phi2)*sinLambda*sinLambda
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// WithinRadius reports whether two points are at most maxKm apart.
// A NaN distance is never within any radius.
func WithinRadius(lat1, lon1, lat2, lon2, maxKm float64) bool {
	d := Distance(lat1, lon1, lat2, lon2)
	return !math.IsNaN(d) && d <= maxKm
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
