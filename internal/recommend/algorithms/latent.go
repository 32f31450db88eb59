// EventMesh - Event Discovery and Social Connection Backend
// Copyright 2026 EventMesh contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventmesh/eventmesh

// Package algorithms holds learned recommendation models. The latent
// model provides the optional collaborative-filtering score component
// for users with enough interaction history.
package algorithms

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/eventmesh/eventmesh/internal/config"
	"github.com/eventmesh/eventmesh/internal/logging"
)

// Interaction is one observed user-event signal. Confidence encodes
// RSVP strength: attending 1.0, interested 0.5.
type Interaction struct {
	UserID     string
	EventID    string
	Confidence float64
	Timestamp  time.Time
}

// LatentModel is an implicit-feedback matrix factorization model in
// the alternating-least-squares style. It learns a latent vector per
// user and per event and predicts affinity as their dot product,
// min-max normalized to [0,1] over the trained population.
//
// Training replaces the factor matrices wholesale under the write
// lock; Predict takes the read lock, so scoring stays concurrent with
// retraining.
type LatentModel struct {
	cfg config.LatentConfig

	mu          sync.RWMutex
	trained     bool
	userFactors map[string][]float64
	itemFactors map[string][]float64
	predMin     float64
	predMax     float64
}

// NewLatentModel creates an untrained model.
func NewLatentModel(cfg config.LatentConfig) *LatentModel {
	return &LatentModel{cfg: cfg}
}

// Trained reports whether the model has factors to predict from.
func (m *LatentModel) Trained() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.trained
}

// Train fits factors to the interaction set. With fewer distinct
// users or events than the configured minimums the model stays (or
// becomes) untrained and predictions degrade to unavailable; that is
// not an error.
func (m *LatentModel) Train(interactions []Interaction) {
	if !m.cfg.Enabled {
		return
	}

	users := make(map[string]int)
	items := make(map[string]int)
	for _, in := range interactions {
		if in.UserID == "" || in.EventID == "" || in.Confidence <= 0 {
			continue
		}
		if _, ok := users[in.UserID]; !ok {
			users[in.UserID] = len(users)
		}
		if _, ok := items[in.EventID]; !ok {
			items[in.EventID] = len(items)
		}
	}

	if len(users) < m.cfg.MinUsers || len(items) < m.cfg.MinEvents {
		m.mu.Lock()
		m.trained = false
		m.userFactors = nil
		m.itemFactors = nil
		m.mu.Unlock()
		logging.Debug().
			Str("component", "latent").
			Int("users", len(users)).
			Int("events", len(items)).
			Msg("Too little interaction data to train latent model")
		return
	}

	// Confidence for observed pairs: c = 1 + alpha*r. Unobserved
	// pairs enter the solve as zero-preference with baseline
	// confidence 1, which is what keeps unrelated user-event pairs
	// from drifting toward high predictions.
	byUser := make([]map[int]float64, len(users))
	byItem := make([]map[int]float64, len(items))
	for i := range byUser {
		byUser[i] = make(map[int]float64)
	}
	for i := range byItem {
		byItem[i] = make(map[int]float64)
	}
	for _, in := range interactions {
		u, uok := users[in.UserID]
		i, iok := items[in.EventID]
		if !uok || !iok || in.Confidence <= 0 {
			continue
		}
		c := 1 + m.cfg.Alpha*in.Confidence
		if c > byUser[u][i] {
			byUser[u][i] = c
			byItem[i][u] = c
		}
	}

	k := m.cfg.Factors
	rng := rand.New(rand.NewSource(42)) // deterministic training
	uf := randomMatrix(rng, len(users), k)
	vf := randomMatrix(rng, len(items), k)

	for iter := 0; iter < m.cfg.Iterations; iter++ {
		solveSide(uf, vf, byUser, m.cfg.Regularization)
		solveSide(vf, uf, byItem, m.cfg.Regularization)
	}

	// Normalization bounds over all pairs, so every prediction lands
	// in [0,1] without clipping surprises.
	predMin, predMax := math.Inf(1), math.Inf(-1)
	for u := range uf {
		for i := range vf {
			p := dot(uf[u], vf[i])
			if p < predMin {
				predMin = p
			}
			if p > predMax {
				predMax = p
			}
		}
	}

	userFactors := make(map[string][]float64, len(users))
	for id, idx := range users {
		userFactors[id] = uf[idx]
	}
	itemFactors := make(map[string][]float64, len(items))
	for id, idx := range items {
		itemFactors[id] = vf[idx]
	}

	m.mu.Lock()
	m.trained = true
	m.userFactors = userFactors
	m.itemFactors = itemFactors
	m.predMin = predMin
	m.predMax = predMax
	m.mu.Unlock()

	logging.Info().
		Str("component", "latent").
		Int("users", len(users)).
		Int("events", len(items)).
		Int("factors", k).
		Msg("Latent model trained")
}

// Predict returns the normalized affinity for a user-event pair and
// whether a prediction is available. Unknown users or events, or an
// untrained model, yield (0, false).
func (m *LatentModel) Predict(userID, eventID string) (float64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.trained {
		return 0, false
	}
	u, ok := m.userFactors[userID]
	if !ok {
		return 0, false
	}
	v, ok := m.itemFactors[eventID]
	if !ok {
		return 0, false
	}

	p := dot(u, v)
	if m.predMax <= m.predMin {
		return 0.5, true
	}
	n := (p - m.predMin) / (m.predMax - m.predMin)
	if n < 0 {
		n = 0
	}
	if n > 1 {
		n = 1
	}
	return n, true
}

func randomMatrix(rng *rand.Rand, rows, cols int) [][]float64 {
	m := make([][]float64, rows)
	for i := range m {
		row := make([]float64, cols)
		for j := range row {
			row[j] = rng.Float64() * 0.1
		}
		m[i] = row
	}
	return m
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

// solveSide updates each vector on one side by ridge-regressing
// against the fixed other side. Observed pairs carry preference 1
// with boosted confidence; every other pair carries preference 0 with
// confidence 1. This is a dense coordinate-descent take on the ALS
// normal equations, cheap at snapshot scale and free of per-row
// matrix inverses.
func solveSide(target, fixed [][]float64, obs []map[int]float64, reg float64) {
	if len(target) == 0 || len(fixed) == 0 {
		return
	}
	k := len(target[0])
	for row := range target {
		vec := target[row]
		seen := obs[row]
		for f := 0; f < k; f++ {
			var num, den float64
			for i, other := range fixed {
				conf, pref := 1.0, 0.0
				if c, ok := seen[i]; ok {
					conf, pref = c, 1.0
				}
				// Residual excluding factor f.
				pred := dot(vec, other) - vec[f]*other[f]
				num += conf * (pref - pred) * other[f]
				den += conf * other[f] * other[f]
			}
			den += reg
			if den > 0 {
				vec[f] = num / den
			}
		}
	}
}
