// EventMesh - Event Discovery and Social Connection Backend
// Copyright 2026 EventMesh contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventmesh/eventmesh

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/eventmesh/config.yaml",
	"/etc/eventmesh/config.yml",
}

// ConfigPathEnvVar overrides the config file search when set.
const ConfigPathEnvVar = "EVENTMESH_CONFIG_PATH"

// envPrefix is required on every configuration environment variable.
const envPrefix = "EVENTMESH_"

// Load resolves configuration in three layers with clear precedence:
// environment variables over config file over built-in defaults.
//
// Environment variables map to koanf paths by stripping the EVENTMESH_
// prefix and lowercasing: EVENTMESH_SERVER_PORT -> server.port,
// EVENTMESH_RECOMMEND_REFRESH_INTERVAL -> recommend.refresh_interval.
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults from struct
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: optional YAML config file
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables (highest priority)
	envProvider := env.Provider(envPrefix, ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first config file that exists, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envSections maps known key prefixes (after the EVENTMESH_ prefix has
// been stripped and lowercased) to their koanf path prefix. Longer
// prefixes are matched first so nested sections resolve correctly.
var envSections = []struct {
	prefix string
	path   string
}{
	{"recommend_new_user_weights_", "recommend.new_user_weights."},
	{"recommend_established_weights_", "recommend.established_weights."},
	{"recommend_connection_weights_", "recommend.connection_weights."},
	{"recommend_latent_", "recommend.latent."},
	{"recommend_", "recommend."},
	{"server_", "server."},
	{"logging_", "logging."},
	{"store_", "store."},
}

// envTransformFunc maps an environment variable name to a koanf path.
// Unknown variables map to "" and are ignored.
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
	for _, s := range envSections {
		if strings.HasPrefix(key, s.prefix) {
			return s.path + strings.TrimPrefix(key, s.prefix)
		}
	}
	return ""
}
