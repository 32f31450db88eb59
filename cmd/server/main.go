// EventMesh - Event Discovery and Social Connection Backend
// Copyright 2026 EventMesh contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventmesh/eventmesh

// Package main is the entry point for the EventMesh server.
//
// EventMesh is an event-discovery and social-connection backend. It
// serves personalized event recommendations (interest, social,
// location, time, and collaborative signals), connection suggestions
// built from the social graph and shared attendance, and the CRUD
// surface behind them.
//
// Startup order:
//
//  1. Configuration: layered defaults, config file, and environment
//     variables via Koanf v2 (EVENTMESH_ prefix)
//  2. Logging: zerolog, configured from the logging section
//  3. Store: embedded Badger document store
//  4. Recommendation engine: snapshot refresher plus scorers
//  5. Event bus: in-process Watermill pub/sub wired to snapshot
//     invalidation
//  6. Supervisor tree: HTTP server, refresh loop, bus invalidator,
//     and store GC under suture
//
// The server shuts down gracefully on SIGINT and SIGTERM: the
// supervisor context is canceled, the HTTP server drains in-flight
// requests, and the store closes last.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/eventmesh/eventmesh/internal/api"
	"github.com/eventmesh/eventmesh/internal/config"
	"github.com/eventmesh/eventmesh/internal/eventbus"
	"github.com/eventmesh/eventmesh/internal/logging"
	"github.com/eventmesh/eventmesh/internal/recommend"
	"github.com/eventmesh/eventmesh/internal/store"
	"github.com/eventmesh/eventmesh/internal/supervisor"
	"github.com/eventmesh/eventmesh/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("store_path", cfg.Store.Path).
		Bool("store_in_memory", cfg.Store.InMemory).
		Dur("refresh_interval", cfg.Recommend.RefreshInterval).
		Msg("Starting EventMesh")

	st, err := store.Open(cfg.Store)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open store")
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()

	engine := recommend.NewEngine(st, cfg.Recommend)

	bus := eventbus.New()
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()

	handler := api.NewHandler(st, engine, bus, cfg.Server)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	treeCfg := supervisor.DefaultTreeConfig()
	treeCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout
	tree := supervisor.NewTree(logging.NewSlogLogger(), treeCfg)

	tree.AddDataService(services.NewStoreGCService(st, 0))
	tree.AddMessagingService(services.NewInvalidatorService(bus, engine.Refresher()))
	tree.AddMessagingService(services.NewRefreshService(engine.Refresher(), cfg.Recommend.RefreshInterval))
	tree.AddAPIService(services.NewHTTPServerService(httpServer, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().
		Str("addr", httpServer.Addr).
		Msg("Supervisor tree starting")

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree exited with error")
		stop()
		os.Exit(1)
	}

	logging.Info().Msg("EventMesh stopped")
}
