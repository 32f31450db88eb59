// EventMesh - Event Discovery and Social Connection Backend
// Copyright 2026 EventMesh contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventmesh/eventmesh

// Package models defines the shared domain types for EventMesh.
package models

import "time"

// Connection statuses.
const (
	ConnectionPending  = "pending"
	ConnectionAccepted = "accepted"
	ConnectionDeclined = "declined"
	ConnectionBlocked  = "blocked"
)

// RSVP statuses.
const (
	RSVPAttending  = "attending"
	RSVPInterested = "interested"
	RSVPDeclined   = "declined"
)

// Coordinate is a geographic point in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// User represents a member profile.
//
// Connections holds the IDs of *accepted* connections only; pending and
// declined requests live in the Connection collection and are never
// materialized here.
type User struct {
	// ID is the unique user identifier.
	ID string `json:"id"`

	// DisplayName is the user-facing name.
	DisplayName string `json:"display_name"`

	// Email is the contact address.
	Email string `json:"email,omitempty"`

	// Bio is free-form profile text.
	Bio string `json:"bio,omitempty"`

	// ProfileImageURL points at the user's avatar.
	ProfileImageURL string `json:"profile_image_url,omitempty"`

	// Interests is the user's set of interest tags. Order is not
	// significant and entries are unique.
	Interests []string `json:"interests,omitempty"`

	// Connections is the set of accepted connection user IDs.
	Connections []string `json:"connections,omitempty"`

	// EventsAttended counts events the user RSVP'd "attending" to.
	EventsAttended int `json:"events_attended"`

	// EventsInterested counts events the user marked "interested".
	EventsInterested int `json:"events_interested"`

	// Location is the user's last known coordinate, if shared.
	Location *Coordinate `json:"location,omitempty"`

	// Preferences holds the user's settings. Nil means the user has
	// never changed anything and reads as DefaultPreferences.
	Preferences *Preferences `json:"preferences,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
	LastLogin time.Time `json:"last_login,omitempty"`
}

// Venue describes where an event takes place. Latitude and Longitude are
// pointers because many venues are created without a usable coordinate.
type Venue struct {
	Name        string   `json:"name,omitempty"`
	Address     string   `json:"address,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	Description string   `json:"description,omitempty"`
}

// Coordinate returns the venue coordinate, or nil when either component
// is missing.
func (v *Venue) Coordinate() *Coordinate {
	if v == nil || v.Latitude == nil || v.Longitude == nil {
		return nil
	}
	return &Coordinate{Latitude: *v.Latitude, Longitude: *v.Longitude}
}

// ScheduleItem is a single agenda entry within an event.
type ScheduleItem struct {
	Title       string    `json:"title"`
	SpeakerName string    `json:"speaker_name,omitempty"`
	Description string    `json:"description,omitempty"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
}

// Attendee is one RSVP entry on an event.
type Attendee struct {
	UserID   string    `json:"user_id"`
	Status   string    `json:"status"`
	RSVPDate time.Time `json:"rsvp_date"`
}

// Event represents a discoverable event. Attendees are embedded in the
// event document, mirroring a document-store subcollection.
type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	// StartTime and EndTime bound the event. A valid event satisfies
	// StartTime < EndTime.
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	Venue *Venue `json:"venue,omitempty"`

	// Categories are the event's interest tags, matched against user
	// interests during scoring.
	Categories []string `json:"category,omitempty"`

	ImageURL string `json:"image_url,omitempty"`

	// Price in the venue currency; zero means free.
	Price float64 `json:"price,omitempty"`

	OrganizerName  string `json:"organizer_name,omitempty"`
	OrganizerID    string `json:"organizer_id,omitempty"`
	OrganizerEmail string `json:"organizer_email,omitempty"`
	OrganizerPhone string `json:"organizer_phone,omitempty"`
	WebsiteURL     string `json:"website_url,omitempty"`

	MaxAttendees int            `json:"max_attendees,omitempty"`
	Schedule     []ScheduleItem `json:"schedule,omitempty"`

	// AttendeesCount tracks the number of "attending" RSVPs and is the
	// event's popularity signal.
	AttendeesCount int        `json:"attendees_count"`
	Attendees      []Attendee `json:"attendees,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Valid reports whether the event carries the minimum well-formed data
// the scoring engine requires. Malformed events are skipped, not fatal.
func (e *Event) Valid() bool {
	if e.ID == "" {
		return false
	}
	if e.StartTime.IsZero() || e.EndTime.IsZero() {
		return false
	}
	return e.StartTime.Before(e.EndTime)
}

// AttendingIDs returns the IDs of users with an "attending" RSVP, as a set.
func (e *Event) AttendingIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(e.Attendees))
	for _, a := range e.Attendees {
		if a.Status == RSVPAttending {
			ids[a.UserID] = struct{}{}
		}
	}
	return ids
}

// Connection is a social link between two users. Only accepted
// connections count as edges in the social graph.
type Connection struct {
	ID         string    `json:"id"`
	FromUserID string    `json:"from_user_id"`
	ToUserID   string    `json:"to_user_id"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
	UpdatedAt  time.Time `json:"updated_at,omitempty"`
}

// Other returns the counterpart user ID for the given side of the
// connection, or "" when userID is on neither side.
func (c *Connection) Other(userID string) string {
	switch userID {
	case c.FromUserID:
		return c.ToUserID
	case c.ToUserID:
		return c.FromUserID
	default:
		return ""
	}
}

// NotificationSettings toggles the notification categories a user
// receives.
type NotificationSettings struct {
	EventReminders  bool `json:"event_reminders"`
	FriendActivity  bool `json:"friend_activity"`
	NearbyEvents    bool `json:"nearby_events"`
	Recommendations bool `json:"recommendations"`
}

// PrivacySettings controls profile and location visibility.
type PrivacySettings struct {
	// ProfileVisibility is one of public, connections, private.
	ProfileVisibility string `json:"profile_visibility"`
	// LocationSharing is one of everyone, friends, none.
	LocationSharing string `json:"location_sharing"`
	// AllowMessages is one of everyone, connections, none.
	AllowMessages string `json:"allow_messages"`
}

// RecommendationPreferences holds per-user tuning for event
// recommendations.
type RecommendationPreferences struct {
	MaxDistanceKm           float64  `json:"max_distance_km"`
	IncludeFreeOnly         bool     `json:"include_free_only"`
	IncludeFriendsAttending bool     `json:"include_friends_attending"`
	PreferredDays           []string `json:"preferred_days"`
}

// Preferences groups a user's settings. Stored on the user document;
// a user without a stored block reads as DefaultPreferences.
type Preferences struct {
	NotificationSettings      NotificationSettings      `json:"notification_settings"`
	PrivacySettings           PrivacySettings           `json:"privacy_settings"`
	CalendarIntegration       bool                      `json:"calendar_integration"`
	RecommendationPreferences RecommendationPreferences `json:"recommendation_preferences"`
}

// DefaultPreferences returns the settings a user starts with.
func DefaultPreferences() Preferences {
	return Preferences{
		NotificationSettings: NotificationSettings{
			EventReminders:  true,
			FriendActivity:  true,
			NearbyEvents:    true,
			Recommendations: true,
		},
		PrivacySettings: PrivacySettings{
			ProfileVisibility: "public",
			LocationSharing:   "friends",
			AllowMessages:     "everyone",
		},
		RecommendationPreferences: RecommendationPreferences{
			MaxDistanceKm:           20,
			IncludeFreeOnly:         false,
			IncludeFriendsAttending: true,
			PreferredDays:           []string{"weekend", "weekday_evening"},
		},
	}
}

// Feedback is a rating left by a user for an event they attended.
type Feedback struct {
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	Rating    int       `json:"rating"`
	Comments  string    `json:"comments,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}
