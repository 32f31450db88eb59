// EventMesh - Event Discovery and Social Connection Backend
// Copyright 2026 EventMesh contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventmesh/eventmesh

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eventmesh/eventmesh/internal/models"
	"github.com/eventmesh/eventmesh/internal/store"
	"github.com/eventmesh/eventmesh/internal/validation"
)

// UpdateNotificationSettingsRequest is the PUT
// /preferences/{userID}/notification_settings payload. Pointer fields
// so omitted toggles keep their current value.
type UpdateNotificationSettingsRequest struct {
	EventReminders  *bool `json:"event_reminders"`
	FriendActivity  *bool `json:"friend_activity"`
	NearbyEvents    *bool `json:"nearby_events"`
	Recommendations *bool `json:"recommendations"`
}

// UpdatePrivacySettingsRequest is the PUT
// /preferences/{userID}/privacy_settings payload.
type UpdatePrivacySettingsRequest struct {
	ProfileVisibility *string `json:"profile_visibility" validate:"omitempty,oneof=public connections private"`
	LocationSharing   *string `json:"location_sharing" validate:"omitempty,oneof=everyone friends none"`
	AllowMessages     *string `json:"allow_messages" validate:"omitempty,oneof=everyone connections none"`
}

// UpdateCalendarIntegrationRequest is the PUT
// /preferences/{userID}/calendar_integration payload.
type UpdateCalendarIntegrationRequest struct {
	Enabled bool `json:"enabled"`
}

// UpdateRecommendationPreferencesRequest is the PUT
// /preferences/{userID}/recommendation_preferences payload.
type UpdateRecommendationPreferencesRequest struct {
	MaxDistanceKm           *float64 `json:"max_distance_km" validate:"omitempty,gt=0,lte=20000"`
	IncludeFreeOnly         *bool    `json:"include_free_only"`
	IncludeFriendsAttending *bool    `json:"include_friends_attending"`
	PreferredDays           []string `json:"preferred_days" validate:"omitempty,max=4,dive,oneof=weekend weekday weekday_evening weekday_morning"`
}

// preferencesResponse is the GET /preferences/{userID} body. Interests
// live on the user document but are reported alongside the settings.
type preferencesResponse struct {
	UserID    string   `json:"user_id"`
	Interests []string `json:"interests"`
	models.Preferences
}

// GetPreferences handles GET /api/v1/preferences/{userID}.
func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	user, err := h.store.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, r, http.StatusNotFound, codeNotFound, "user not found", nil)
			return
		}
		respondError(w, r, http.StatusInternalServerError, codeInternal, "failed to load user", err)
		return
	}
	prefs := models.DefaultPreferences()
	if user.Preferences != nil {
		prefs = *user.Preferences
	}
	respondJSON(w, r, http.StatusOK, preferencesResponse{
		UserID:      userID,
		Interests:   user.Interests,
		Preferences: prefs,
	})
}

// UpdateNotificationSettings handles PUT
// /api/v1/preferences/{userID}/notification_settings.
func (h *Handler) UpdateNotificationSettings(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req UpdateNotificationSettingsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	h.updatePreferences(w, r, userID, func(p *models.Preferences) {
		if req.EventReminders != nil {
			p.NotificationSettings.EventReminders = *req.EventReminders
		}
		if req.FriendActivity != nil {
			p.NotificationSettings.FriendActivity = *req.FriendActivity
		}
		if req.NearbyEvents != nil {
			p.NotificationSettings.NearbyEvents = *req.NearbyEvents
		}
		if req.Recommendations != nil {
			p.NotificationSettings.Recommendations = *req.Recommendations
		}
	})
}

// UpdatePrivacySettings handles PUT
// /api/v1/preferences/{userID}/privacy_settings.
func (h *Handler) UpdatePrivacySettings(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req UpdatePrivacySettingsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		respondValidationError(w, r, verr)
		return
	}
	h.updatePreferences(w, r, userID, func(p *models.Preferences) {
		if req.ProfileVisibility != nil {
			p.PrivacySettings.ProfileVisibility = *req.ProfileVisibility
		}
		if req.LocationSharing != nil {
			p.PrivacySettings.LocationSharing = *req.LocationSharing
		}
		if req.AllowMessages != nil {
			p.PrivacySettings.AllowMessages = *req.AllowMessages
		}
	})
}

// UpdateCalendarIntegration handles PUT
// /api/v1/preferences/{userID}/calendar_integration.
func (h *Handler) UpdateCalendarIntegration(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req UpdateCalendarIntegrationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	h.updatePreferences(w, r, userID, func(p *models.Preferences) {
		p.CalendarIntegration = req.Enabled
	})
}

// UpdateRecommendationPreferences handles PUT
// /api/v1/preferences/{userID}/recommendation_preferences.
func (h *Handler) UpdateRecommendationPreferences(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req UpdateRecommendationPreferencesRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		respondValidationError(w, r, verr)
		return
	}
	h.updatePreferences(w, r, userID, func(p *models.Preferences) {
		if req.MaxDistanceKm != nil {
			p.RecommendationPreferences.MaxDistanceKm = *req.MaxDistanceKm
		}
		if req.IncludeFreeOnly != nil {
			p.RecommendationPreferences.IncludeFreeOnly = *req.IncludeFreeOnly
		}
		if req.IncludeFriendsAttending != nil {
			p.RecommendationPreferences.IncludeFriendsAttending = *req.IncludeFriendsAttending
		}
		if req.PreferredDays != nil {
			p.RecommendationPreferences.PreferredDays = req.PreferredDays
		}
	})
}

// updatePreferences runs one merge update and writes the updated
// settings back. Unknown users get a 404.
func (h *Handler) updatePreferences(w http.ResponseWriter, r *http.Request, userID string, mutate func(*models.Preferences)) {
	prefs, err := h.store.UpdatePreferences(r.Context(), userID, mutate)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, r, http.StatusNotFound, codeNotFound, "user not found", nil)
			return
		}
		respondError(w, r, http.StatusInternalServerError, codeInternal, "failed to update preferences", err)
		return
	}
	respondJSON(w, r, http.StatusOK, prefs)
}
