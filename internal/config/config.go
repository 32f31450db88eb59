// EventMesh - Event Discovery and Social Connection Backend
// Copyright 2026 EventMesh contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventmesh/eventmesh

// Package config loads and validates application configuration.
//
// Configuration is resolved in three layers: compiled-in defaults,
// an optional YAML config file, and EVENTMESH_-prefixed environment
// variables, each layer overriding the previous one.
package config

import (
	"fmt"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server" json:"server"`
	Logging   LoggingConfig   `koanf:"logging" json:"logging"`
	Store     StoreConfig     `koanf:"store" json:"store"`
	Recommend RecommendConfig `koanf:"recommend" json:"recommend"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host string `koanf:"host" json:"host"`
	Port int    `koanf:"port" json:"port"`

	ReadTimeout     time.Duration `koanf:"read_timeout" json:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout" json:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" json:"shutdown_timeout"`

	// RateLimit is the per-IP request limit per minute.
	RateLimit int `koanf:"rate_limit" json:"rate_limit"`

	// CORSAllowedOrigins lists origins allowed by CORS; "*" allows all.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" json:"cors_allowed_origins"`
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	Level  string `koanf:"level" json:"level"`
	Format string `koanf:"format" json:"format"`
	Caller bool   `koanf:"caller" json:"caller"`
}

// StoreConfig configures the document store.
type StoreConfig struct {
	// Path is the on-disk Badger directory. Ignored when InMemory is set.
	Path string `koanf:"path" json:"path"`

	// InMemory runs the store without persistence, for development and
	// tests.
	InMemory bool `koanf:"in_memory" json:"in_memory"`
}

// RecommendConfig configures the recommendation engine. The zero value
// is not usable; use Default() or a loaded Config.
type RecommendConfig struct {
	// RefreshInterval bounds snapshot staleness. The snapshot of users,
	// events, and the social graph is rebuilt wholesale once it is
	// older than this.
	RefreshInterval time.Duration `koanf:"refresh_interval" json:"refresh_interval"`

	// MaxEvents caps the number of events loaded per refresh window.
	MaxEvents int `koanf:"max_events" json:"max_events"`

	// MaxUsers caps the number of users loaded per refresh window.
	MaxUsers int `koanf:"max_users" json:"max_users"`

	// DefaultRadiusKm is the event search radius when callers do not
	// specify one.
	DefaultRadiusKm float64 `koanf:"default_radius_km" json:"default_radius_km"`

	// DefaultLimit and MaxLimit bound result list sizes.
	DefaultLimit int `koanf:"default_limit" json:"default_limit"`
	MaxLimit     int `koanf:"max_limit" json:"max_limit"`

	// NewUserEventThreshold and NewUserConnectionThreshold classify a
	// user as "new" when both attended-event and connection counts are
	// below these values.
	NewUserEventThreshold      int `koanf:"new_user_event_threshold" json:"new_user_event_threshold"`
	NewUserConnectionThreshold int `koanf:"new_user_connection_threshold" json:"new_user_connection_threshold"`

	// NewUserWeights and EstablishedWeights are the two score blending
	// vectors. Each must sum to 1.0.
	NewUserWeights     Weights `koanf:"new_user_weights" json:"new_user_weights"`
	EstablishedWeights Weights `koanf:"established_weights" json:"established_weights"`

	// MutualConnectionCap and CommonEventCap normalize the connection
	// recommendation components.
	MutualConnectionCap int `koanf:"mutual_connection_cap" json:"mutual_connection_cap"`
	CommonEventCap      int `koanf:"common_event_cap" json:"common_event_cap"`

	// ConnectionWeights blends interest overlap, mutual connections,
	// and common events for connection recommendations. Must sum to 1.0.
	ConnectionWeights ConnectionWeights `koanf:"connection_weights" json:"connection_weights"`

	// Latent configures the optional latent-factor collaborative model.
	Latent LatentConfig `koanf:"latent" json:"latent"`

	// ResponseCacheTTL is how long assembled recommendation responses
	// may be served from cache. Zero disables response caching.
	ResponseCacheTTL time.Duration `koanf:"response_cache_ttl" json:"response_cache_ttl"`
}

// Weights blends the event score components. Values must sum to 1.0.
type Weights struct {
	Interest      float64 `koanf:"interest" json:"interest"`
	Social        float64 `koanf:"social" json:"social"`
	Location      float64 `koanf:"location" json:"location"`
	Time          float64 `koanf:"time" json:"time"`
	Collaborative float64 `koanf:"collaborative" json:"collaborative"`
}

// Sum returns the total of all components.
func (w Weights) Sum() float64 {
	return w.Interest + w.Social + w.Location + w.Time + w.Collaborative
}

// ConnectionWeights blends the connection score components.
type ConnectionWeights struct {
	Interest          float64 `koanf:"interest" json:"interest"`
	MutualConnections float64 `koanf:"mutual_connections" json:"mutual_connections"`
	CommonEvents      float64 `koanf:"common_events" json:"common_events"`
}

// Sum returns the total of all components.
func (w ConnectionWeights) Sum() float64 {
	return w.Interest + w.MutualConnections + w.CommonEvents
}

// LatentConfig configures the latent-factor collaborative model.
type LatentConfig struct {
	// Enabled gates the collaborative component entirely.
	Enabled bool `koanf:"enabled" json:"enabled"`

	// Factors is the latent vector dimension.
	Factors int `koanf:"factors" json:"factors"`

	// Iterations is the number of alternating optimization passes.
	Iterations int `koanf:"iterations" json:"iterations"`

	// Regularization is the L2 penalty.
	Regularization float64 `koanf:"regularization" json:"regularization"`

	// Alpha scales implicit-feedback confidence: c = 1 + alpha*r.
	Alpha float64 `koanf:"alpha" json:"alpha"`

	// MinUsers and MinEvents are the minimum distinct counts required
	// before the model trains; below them the component degrades to 0.
	MinUsers  int `koanf:"min_users" json:"min_users"`
	MinEvents int `koanf:"min_events" json:"min_events"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:               "0.0.0.0",
			Port:               8000,
			ReadTimeout:        15 * time.Second,
			WriteTimeout:       30 * time.Second,
			ShutdownTimeout:    10 * time.Second,
			RateLimit:          300,
			CORSAllowedOrigins: []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Store: StoreConfig{
			Path: "/data/eventmesh",
		},
		Recommend: DefaultRecommend(),
	}
}

// DefaultRecommend returns the default recommendation engine settings.
func DefaultRecommend() RecommendConfig {
	return RecommendConfig{
		RefreshInterval:            time.Hour,
		MaxEvents:                  100,
		MaxUsers:                   200,
		DefaultRadiusKm:            10,
		DefaultLimit:               20,
		MaxLimit:                   100,
		NewUserEventThreshold:      3,
		NewUserConnectionThreshold: 3,
		NewUserWeights: Weights{
			Interest:      0.40,
			Social:        0.10,
			Location:      0.15,
			Time:          0.25,
			Collaborative: 0.10,
		},
		EstablishedWeights: Weights{
			Interest:      0.25,
			Social:        0.30,
			Location:      0.15,
			Time:          0.20,
			Collaborative: 0.10,
		},
		MutualConnectionCap: 5,
		CommonEventCap:      3,
		ConnectionWeights: ConnectionWeights{
			Interest:          0.5,
			MutualConnections: 0.3,
			CommonEvents:      0.2,
		},
		Latent: LatentConfig{
			Enabled:        true,
			Factors:        16,
			Iterations:     10,
			Regularization: 0.05,
			Alpha:          40,
			MinUsers:       5,
			MinEvents:      5,
		},
		ResponseCacheTTL: time.Minute,
	}
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if !c.Store.InMemory && c.Store.Path == "" {
		return fmt.Errorf("store.path required unless store.in_memory is set")
	}
	return c.Recommend.Validate()
}

// Validate checks the recommendation settings.
func (c *RecommendConfig) Validate() error {
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("recommend.refresh_interval must be positive")
	}
	if c.MaxEvents <= 0 || c.MaxUsers <= 0 {
		return fmt.Errorf("recommend.max_events and recommend.max_users must be positive")
	}
	if c.DefaultLimit <= 0 || c.MaxLimit < c.DefaultLimit {
		return fmt.Errorf("recommend limits invalid: default=%d max=%d", c.DefaultLimit, c.MaxLimit)
	}
	if err := validateWeightSum("recommend.new_user_weights", c.NewUserWeights.Sum()); err != nil {
		return err
	}
	if err := validateWeightSum("recommend.established_weights", c.EstablishedWeights.Sum()); err != nil {
		return err
	}
	if err := validateWeightSum("recommend.connection_weights", c.ConnectionWeights.Sum()); err != nil {
		return err
	}
	if c.MutualConnectionCap <= 0 || c.CommonEventCap <= 0 {
		return fmt.Errorf("recommend normalization caps must be positive")
	}
	return nil
}

const weightTolerance = 1e-6

func validateWeightSum(name string, sum float64) error {
	if sum < 1-weightTolerance || sum > 1+weightTolerance {
		return fmt.Errorf("%s must sum to 1.0, got %f", name, sum)
	}
	return nil
}
