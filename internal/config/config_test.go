// EventMesh - Event Discovery and Social Connection Backend
// Copyright 2026 EventMesh contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventmesh/eventmesh

package config

import (
	"math"
	"testing"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := Default()
	cfg.Store.InMemory = true
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config failed validation: %v", err)
	}
}

func TestDefaultWeightsSumToOne(t *testing.T) {
	rc := DefaultRecommend()
	for name, sum := range map[string]float64{
		"new_user":    rc.NewUserWeights.Sum(),
		"established": rc.EstablishedWeights.Sum(),
		"connection":  rc.ConnectionWeights.Sum(),
	} {
		if math.Abs(sum-1.0) > weightTolerance {
			t.Errorf("%s weights sum to %f, want 1.0", name, sum)
		}
	}
}

func TestValidateRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }},
		{"missing store path", func(c *Config) { c.Store.Path = ""; c.Store.InMemory = false }},
		{"zero refresh interval", func(c *Config) { c.Recommend.RefreshInterval = 0 }},
		{"zero max events", func(c *Config) { c.Recommend.MaxEvents = 0 }},
		{"max limit below default", func(c *Config) { c.Recommend.MaxLimit = 5; c.Recommend.DefaultLimit = 20 }},
		{"weights not summing to one", func(c *Config) { c.Recommend.NewUserWeights.Interest = 0.9 }},
		{"connection weights off", func(c *Config) { c.Recommend.ConnectionWeights.CommonEvents = 0.5 }},
		{"zero mutual cap", func(c *Config) { c.Recommend.MutualConnectionCap = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Store.InMemory = true
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("expected validation error, got nil")
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"EVENTMESH_SERVER_PORT", "server.port"},
		{"EVENTMESH_SERVER_RATE_LIMIT", "server.rate_limit"},
		{"EVENTMESH_LOGGING_LEVEL", "logging.level"},
		{"EVENTMESH_STORE_IN_MEMORY", "store.in_memory"},
		{"EVENTMESH_RECOMMEND_REFRESH_INTERVAL", "recommend.refresh_interval"},
		{"EVENTMESH_RECOMMEND_NEW_USER_WEIGHTS_INTEREST", "recommend.new_user_weights.interest"},
		{"EVENTMESH_RECOMMEND_ESTABLISHED_WEIGHTS_SOCIAL", "recommend.established_weights.social"},
		{"EVENTMESH_RECOMMEND_LATENT_FACTORS", "recommend.latent.factors"},
		{"EVENTMESH_UNKNOWN_SECTION_KEY", ""},
	}
	for _, tt := range tests {
		if got := envTransformFunc(tt.key); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestLoadWithEnvOverride(t *testing.T) {
	t.Setenv("EVENTMESH_SERVER_PORT", "9100")
	t.Setenv("EVENTMESH_STORE_IN_MEMORY", "true")
	t.Setenv("EVENTMESH_RECOMMEND_DEFAULT_RADIUS_KM", "25")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("Server.Port = %d, want 9100", cfg.Server.Port)
	}
	if !cfg.Store.InMemory {
		t.Errorf("Store.InMemory = false, want true")
	}
	if cfg.Recommend.DefaultRadiusKm != 25 {
		t.Errorf("DefaultRadiusKm = %f, want 25", cfg.Recommend.DefaultRadiusKm)
	}
}
