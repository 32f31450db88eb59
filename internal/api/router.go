// EventMesh - Event Discovery and Social Connection Backend
// Copyright 2026 EventMesh contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventmesh/eventmesh

// Package api exposes the HTTP surface: user, event, connection, and
// feedback CRUD, user preferences, the recommendation endpoints,
// organizer dashboards, and operational health/metrics routes.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eventmesh/eventmesh/internal/config"
	"github.com/eventmesh/eventmesh/internal/eventbus"
	"github.com/eventmesh/eventmesh/internal/middleware"
	"github.com/eventmesh/eventmesh/internal/recommend"
	"github.com/eventmesh/eventmesh/internal/store"
)

// Handler carries the API's collaborators.
type Handler struct {
	store  *store.Store
	engine *recommend.Engine
	bus    *eventbus.Bus
	cfg    config.ServerConfig
}

// NewHandler creates the API handler.
func NewHandler(st *store.Store, engine *recommend.Engine, bus *eventbus.Bus, cfg config.ServerConfig) *Handler {
	return &Handler{store: st, engine: engine, bus: bus, cfg: cfg}
}

// Router assembles the chi router with the full middleware stack and
// route tree.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.cfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.PrometheusMetrics)
		r.Use(httprate.LimitByIP(h.cfg.RateLimit, time.Minute))

		r.Route("/health", func(r chi.Router) {
			r.Get("/", h.Health)
			r.Get("/live", h.HealthLive)
			r.Get("/ready", h.HealthReady)
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/", h.CreateUser)
			r.Get("/{userID}", h.GetUser)
			r.Put("/{userID}", h.UpdateUser)
			r.Delete("/{userID}", h.DeleteUser)
			r.Get("/{userID}/events", h.UserEvents)
		})

		r.Route("/events", func(r chi.Router) {
			// Static segment first so it is never shadowed by {eventID}.
			r.Get("/recommendations/{userID}", h.EventRecommendations)

			r.Post("/", h.CreateEvent)
			r.Get("/", h.ListEvents)
			r.Get("/{eventID}", h.GetEvent)
			r.Put("/{eventID}", h.UpdateEvent)
			r.Delete("/{eventID}", h.DeleteEvent)
			r.Post("/{eventID}/rsvp", h.RSVP)
			r.Get("/{eventID}/attendees", h.EventAttendees)
			r.Post("/{eventID}/feedback", h.SubmitFeedback)
			r.Get("/{eventID}/feedback", h.ListFeedback)
			r.Delete("/{eventID}/feedback/{userID}", h.DeleteFeedback)
		})

		r.Route("/connections", func(r chi.Router) {
			r.Post("/request", h.RequestConnection)
			r.Post("/respond", h.RespondConnection)
			r.Get("/recommendations/{userID}", h.ConnectionRecommendations)
			r.Get("/event-buddies/{eventID}/{userID}", h.EventBuddies)
			r.Get("/{userID}", h.ListConnections)
		})

		r.Route("/preferences", func(r chi.Router) {
			r.Get("/{userID}", h.GetPreferences)
			r.Put("/{userID}/notification_settings", h.UpdateNotificationSettings)
			r.Put("/{userID}/privacy_settings", h.UpdatePrivacySettings)
			r.Put("/{userID}/calendar_integration", h.UpdateCalendarIntegration)
			r.Put("/{userID}/recommendation_preferences", h.UpdateRecommendationPreferences)
		})

		r.Route("/recommendations", func(r chi.Router) {
			r.Post("/refresh", h.RefreshRecommendations)
			r.Get("/status", h.RecommendationStatus)
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/events/{eventID}", h.EventDashboard)
			r.Get("/organizer/{organizerID}", h.OrganizerDashboard)
		})
	})

	return r
}
