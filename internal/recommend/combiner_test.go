// EventMesh - Event Discovery and Social Connection Backend
// Copyright 2026 EventMesh contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventmesh/eventmesh

package recommend

import (
	"math"
	"testing"

	"github.com/eventmesh/eventmesh/internal/config"
	"github.com/eventmesh/eventmesh/internal/models"
)

func TestInflate(t *testing.T) {
	tests := []struct {
		raw  float64
		want float64
	}{
		{0, 0.25},
		{0.3, 0.55},
		{0.5, 0.75},
		{0.7, 0.825},
		{0.9, 0.9},
		{0.95, 0.9},
		{1.0, 0.9},
	}
	for _, tt := range tests {
		if got := Inflate(tt.raw); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Inflate(%f) = %f, want %f", tt.raw, got, tt.want)
		}
	}
}

func TestInflateMonotonic(t *testing.T) {
	prev := Inflate(0)
	for i := 1; i <= 1000; i++ {
		x := float64(i) / 1000
		cur := Inflate(x)
		if cur < prev {
			t.Fatalf("Inflate not monotonic at %f: %f < %f", x, cur, prev)
		}
		prev = cur
	}
}

func TestInflateBounds(t *testing.T) {
	for i := 0; i <= 100; i++ {
		x := float64(i) / 100
		got := Inflate(x)
		if got > 0.9 {
			t.Fatalf("Inflate(%f) = %f exceeds cap", x, got)
		}
		if x <= 0.9 && got < x {
			t.Fatalf("Inflate(%f) = %f reduced the score below the cap", x, got)
		}
	}
}

func TestClassify(t *testing.T) {
	cfg := config.DefaultRecommend()
	tests := []struct {
		name string
		user models.User
		want Classification
	}{
		{"fresh user", models.User{}, ClassNew},
		{"below both thresholds", models.User{EventsAttended: 2, Connections: []string{"a", "b"}}, ClassNew},
		{"enough events", models.User{EventsAttended: 3}, ClassEstablished},
		{"enough connections", models.User{Connections: []string{"a", "b", "c"}}, ClassEstablished},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.user, cfg); got != tt.want {
				t.Errorf("Classify() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCombineWithCollaborative(t *testing.T) {
	cfg := config.DefaultRecommend()
	b := ScoreBreakdown{Interest: 1, Social: 1, Location: 1, Time: 1, Collaborative: 1}
	Combine(&b, cfg.EstablishedWeights, true)
	if math.Abs(b.Combined-1.0) > 1e-9 {
		t.Errorf("Combined = %f, want 1.0 for all-ones breakdown", b.Combined)
	}
	if b.Final != 0.9 {
		t.Errorf("Final = %f, want 0.9", b.Final)
	}
}

func TestCombineRedistributesMissingCollaborative(t *testing.T) {
	cfg := config.DefaultRecommend()
	b := ScoreBreakdown{Interest: 1, Social: 1, Location: 1, Time: 1, Collaborative: 0.8}
	Combine(&b, cfg.EstablishedWeights, false)

	// With the collaborative weight redistributed, an all-ones
	// breakdown still combines to 1.0 and the stale collaborative
	// value is zeroed out.
	if math.Abs(b.Combined-1.0) > 1e-9 {
		t.Errorf("Combined = %f, want 1.0 after redistribution", b.Combined)
	}
	if b.Collaborative != 0 {
		t.Errorf("Collaborative = %f, want 0 when unavailable", b.Collaborative)
	}
}

func TestCombineRawAndFinalDistinct(t *testing.T) {
	cfg := config.DefaultRecommend()
	b := ScoreBreakdown{Interest: 0.5, Time: 0.5}
	Combine(&b, cfg.NewUserWeights, true)
	if b.Final <= b.Combined {
		t.Errorf("Final (%f) should exceed Combined (%f) below the cap", b.Final, b.Combined)
	}
}
