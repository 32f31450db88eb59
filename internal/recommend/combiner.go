// EventMesh - Event Discovery and Social Connection Backend
// Copyright 2026 EventMesh contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventmesh/eventmesh

package recommend

import (
	"github.com/eventmesh/eventmesh/internal/config"
	"github.com/eventmesh/eventmesh/internal/models"
)

// Classify buckets a user as new or established. A user is new only
// while BOTH the attended-event count and the connection count sit
// below their thresholds.
func Classify(user models.User, cfg config.RecommendConfig) Classification {
	if user.EventsAttended < cfg.NewUserEventThreshold && len(user.Connections) < cfg.NewUserConnectionThreshold {
		return ClassNew
	}
	return ClassEstablished
}

// WeightsFor returns the blend vector for a classification.
func WeightsFor(class Classification, cfg config.RecommendConfig) config.Weights {
	if class == ClassNew {
		return cfg.NewUserWeights
	}
	return cfg.EstablishedWeights
}

// Combine blends the component scores into the raw Combined value and
// the display Final value, writing both back into the breakdown.
//
// When no collaborative prediction is available its weight is
// redistributed proportionally across the remaining components, so
// the effective vector still sums to 1.0 and raw scores stay
// comparable across users with and without interaction history.
func Combine(b *ScoreBreakdown, w config.Weights, collaborativeAvailable bool) {
	if !collaborativeAvailable && w.Collaborative > 0 {
		rest := w.Interest + w.Social + w.Location + w.Time
		if rest > 0 {
			scale := 1 / rest
			w.Interest *= scale
			w.Social *= scale
			w.Location *= scale
			w.Time *= scale
		}
		w.Collaborative = 0
		b.Collaborative = 0
	}

	b.Combined = clamp01(
		b.Interest*w.Interest +
			b.Social*w.Social +
			b.Location*w.Location +
			b.Time*w.Time +
			b.Collaborative*w.Collaborative)
	b.Final = Inflate(b.Combined)
}

// Inflation transform constants.
const (
	inflateFlatBoost = 0.25
	inflateFlatUpTo  = 0.5
	inflateCap       = 0.9
)

// Inflate maps a raw score to its display value. Scores at or below
// 0.5 get a flat +0.25; between 0.5 and 0.9 the boost shrinks
// linearly from +0.25 to 0; the result is capped at 0.9. The
// transform is monotonic, so it never reorders two candidates. It
// must only ever be applied to a raw score, never to an already
// inflated one.
func Inflate(raw float64) float64 {
	x := clamp01(raw)
	var inflated float64
	switch {
	case x <= inflateFlatUpTo:
		inflated = x + inflateFlatBoost
	case x < inflateCap:
		inflated = x + inflateFlatBoost*(inflateCap-x)/(inflateCap-inflateFlatUpTo)
	default:
		inflated = inflateCap
	}
	if inflated > inflateCap {
		inflated = inflateCap
	}
	return inflated
}
