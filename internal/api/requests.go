// EventMesh - Event Discovery and Social Connection Backend
// Copyright 2026 EventMesh contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventmesh/eventmesh

package api

import (
	"time"

	"github.com/eventmesh/eventmesh/internal/models"
)

// CreateUserRequest is the POST /users payload.
type CreateUserRequest struct {
	DisplayName string             `json:"display_name" validate:"required,min=1,max=120"`
	Email       string             `json:"email" validate:"required,email"`
	Bio         string             `json:"bio" validate:"max=2000"`
	Interests   []string           `json:"interests" validate:"max=50,dive,min=1,max=60"`
	Location    *models.Coordinate `json:"location"`
}

// UpdateUserRequest is the PUT /users/{userID} payload.
type UpdateUserRequest struct {
	DisplayName string             `json:"display_name" validate:"required,min=1,max=120"`
	Email       string             `json:"email" validate:"omitempty,email"`
	Bio         string             `json:"bio" validate:"max=2000"`
	Interests   []string           `json:"interests" validate:"max=50,dive,min=1,max=60"`
	Location    *models.Coordinate `json:"location"`
}

// CreateEventRequest is the POST /events payload.
type CreateEventRequest struct {
	Title       string   `json:"title" validate:"required,min=1,max=200"`
	Description string   `json:"description" validate:"max=5000"`
	StartTime   string   `json:"start_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	EndTime     string   `json:"end_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Categories  []string `json:"category" validate:"max=20,dive,min=1,max=60"`
	Price       float64  `json:"price" validate:"gte=0"`

	VenueName      string   `json:"venue_name" validate:"max=200"`
	VenueAddress   string   `json:"venue_address" validate:"max=400"`
	VenueLatitude  *float64 `json:"venue_latitude" validate:"omitempty,latitude"`
	VenueLongitude *float64 `json:"venue_longitude" validate:"omitempty,longitude"`

	OrganizerID   string `json:"organizer_id" validate:"max=120"`
	OrganizerName string `json:"organizer_name" validate:"max=200"`
	MaxAttendees  int    `json:"max_attendees" validate:"gte=0"`
	ImageURL      string `json:"image_url" validate:"omitempty,url"`
}

// times parses the RFC3339 pair. Validation has already checked the
// format.
func (req *CreateEventRequest) times() (start, end time.Time) {
	start, _ = time.Parse(time.RFC3339, req.StartTime)
	end, _ = time.Parse(time.RFC3339, req.EndTime)
	return start, end
}

// RSVPRequest is the POST /events/{eventID}/rsvp payload.
type RSVPRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Status string `json:"status" validate:"required,oneof=attending interested declined"`
}

// ConnectionRequest is the POST /connections/request payload.
type ConnectionRequest struct {
	FromUserID string `json:"from_user_id" validate:"required"`
	ToUserID   string `json:"to_user_id" validate:"required"`
}

// ConnectionResponse is the POST /connections/respond payload.
type ConnectionResponse struct {
	FromUserID string `json:"from_user_id" validate:"required"`
	ToUserID   string `json:"to_user_id" validate:"required"`
	Status     string `json:"status" validate:"required,oneof=accepted declined blocked"`
}

// FeedbackRequest is the POST /events/{eventID}/feedback payload.
type FeedbackRequest struct {
	UserID   string `json:"user_id" validate:"required"`
	Rating   int    `json:"rating" validate:"required,min=1,max=5"`
	Comments string `json:"comments" validate:"max=5000"`
}

// EventRecommendationsRequest captures the recommendation query
// string for validation.
type EventRecommendationsRequest struct {
	Latitude      *float64 `validate:"omitempty,latitude"`
	Longitude     *float64 `validate:"omitempty,longitude"`
	MaxDistanceKm float64  `validate:"gte=0,lte=20000"`
	Limit         int      `validate:"gte=0,lte=100"`
}
