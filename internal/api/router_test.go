// EventMesh - Event Discovery and Social Connection Backend
// Copyright 2026 EventMesh contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventmesh/eventmesh

package api

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/eventmesh/eventmesh/internal/config"
	"github.com/eventmesh/eventmesh/internal/eventbus"
	"github.com/eventmesh/eventmesh/internal/models"
	"github.com/eventmesh/eventmesh/internal/recommend"
	"github.com/eventmesh/eventmesh/internal/store"
)

type testAPI struct {
	handler *Handler
	router  http.Handler
	store   *store.Store
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	st, err := store.Open(config.StoreConfig{InMemory: true})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	rcfg := config.DefaultRecommend()
	rcfg.ResponseCacheTTL = 0
	rcfg.Latent.Enabled = false
	engine := recommend.NewEngine(st, rcfg)

	bus := eventbus.New()
	t.Cleanup(func() { bus.Close() })

	scfg := config.Default().Server
	scfg.RateLimit = 10000

	h := NewHandler(st, engine, bus, scfg)
	return &testAPI{handler: h, router: h.Router(), store: st}
}

// envelope mirrors models.APIResponse for decoding in tests.
type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (a *testAPI) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode envelope (%s %s, status %d): %v", method, path, rec.Code, err)
		}
	}
	return rec, env
}

func (a *testAPI) createUser(t *testing.T, name string, interests []string) models.User {
	t.Helper()
	rec, env := a.do(t, http.MethodPost, "/api/v1/users", CreateUserRequest{
		DisplayName: name,
		Email:       name + "@example.com",
		Interests:   interests,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create user %q: status = %d, body = %s", name, rec.Code, rec.Body.String())
	}
	var user models.User
	if err := json.Unmarshal(env.Data, &user); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	return user
}

func (a *testAPI) createEvent(t *testing.T, title string, daysOut int, categories []string) models.Event {
	t.Helper()
	start := time.Now().UTC().Add(time.Duration(daysOut) * 24 * time.Hour)
	rec, env := a.do(t, http.MethodPost, "/api/v1/events", CreateEventRequest{
		Title:      title,
		StartTime:  start.Format(time.RFC3339),
		EndTime:    start.Add(2 * time.Hour).Format(time.RFC3339),
		Categories: categories,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create event %q: status = %d, body = %s", title, rec.Code, rec.Body.String())
	}
	var event models.Event
	if err := json.Unmarshal(env.Data, &event); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	return event
}

func TestUserLifecycle(t *testing.T) {
	a := newTestAPI(t)

	user := a.createUser(t, "alice", []string{"music", "tech"})
	if user.ID == "" {
		t.Fatal("created user has empty ID")
	}

	rec, env := a.do(t, http.MethodGet, "/api/v1/users/"+user.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get user: status = %d", rec.Code)
	}
	var got models.User
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	if got.DisplayName != "alice" || len(got.Interests) != 2 {
		t.Errorf("got user %+v, want alice with 2 interests", got)
	}

	rec, env = a.do(t, http.MethodPut, "/api/v1/users/"+user.ID, UpdateUserRequest{
		DisplayName: "alice v2",
		Bio:         "updated",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update user: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	if got.DisplayName != "alice v2" || got.Bio != "updated" {
		t.Errorf("update not applied: %+v", got)
	}

	rec, _ = a.do(t, http.MethodDelete, "/api/v1/users/"+user.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete user: status = %d", rec.Code)
	}

	rec, env = a.do(t, http.MethodGet, "/api/v1/users/"+user.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get deleted user: status = %d, want 404", rec.Code)
	}
	if env.Error == nil || env.Error.Code != codeNotFound {
		t.Errorf("error envelope = %+v, want code %s", env.Error, codeNotFound)
	}

	// Deleting again reports the missing resource.
	rec, _ = a.do(t, http.MethodDelete, "/api/v1/users/"+user.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("delete missing user: status = %d, want 404", rec.Code)
	}
}

func TestCreateUserValidation(t *testing.T) {
	a := newTestAPI(t)

	tests := []struct {
		name string
		req  CreateUserRequest
	}{
		{"missing display name", CreateUserRequest{Email: "a@example.com"}},
		{"missing email", CreateUserRequest{DisplayName: "a"}},
		{"bad email", CreateUserRequest{DisplayName: "a", Email: "not-an-email"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := a.do(t, http.MethodPost, "/api/v1/users", tt.req)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if env.Error == nil || env.Error.Code != codeValidation {
				t.Errorf("error envelope = %+v, want code %s", env.Error, codeValidation)
			}
		})
	}
}

func TestEventRSVPFlow(t *testing.T) {
	a := newTestAPI(t)

	event := a.createEvent(t, "Jazz Night", 7, []string{"music"})
	user := a.createUser(t, "bob", []string{"music"})

	// RSVP from an unknown user must not mutate the event.
	rec, _ := a.do(t, http.MethodPost, "/api/v1/events/"+event.ID+"/rsvp", RSVPRequest{
		UserID: "ghost", Status: models.RSVPAttending,
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("rsvp unknown user: status = %d, want 404", rec.Code)
	}

	rec, env := a.do(t, http.MethodPost, "/api/v1/events/"+event.ID+"/rsvp", RSVPRequest{
		UserID: user.ID, Status: models.RSVPAttending,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("rsvp: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var updated models.Event
	if err := json.Unmarshal(env.Data, &updated); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if updated.AttendeesCount != 1 {
		t.Errorf("AttendeesCount = %d, want 1", updated.AttendeesCount)
	}

	rec, env = a.do(t, http.MethodGet, "/api/v1/events/"+event.ID+"/attendees?status=attending", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("attendees: status = %d", rec.Code)
	}
	var attendees []models.Attendee
	if err := json.Unmarshal(env.Data, &attendees); err != nil {
		t.Fatalf("decode attendees: %v", err)
	}
	if len(attendees) != 1 || attendees[0].UserID != user.ID {
		t.Errorf("attendees = %+v, want exactly %s", attendees, user.ID)
	}

	rec, _ = a.do(t, http.MethodPost, "/api/v1/events/"+event.ID+"/rsvp", RSVPRequest{
		UserID: user.ID, Status: "maybe",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid rsvp status: status = %d, want 400", rec.Code)
	}
}

func TestConnectionEndpoints(t *testing.T) {
	a := newTestAPI(t)

	alice := a.createUser(t, "alice", nil)
	bob := a.createUser(t, "bob", nil)

	rec, _ := a.do(t, http.MethodPost, "/api/v1/connections/request", ConnectionRequest{
		FromUserID: alice.ID, ToUserID: bob.ID,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("request connection: status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec, env := a.do(t, http.MethodPost, "/api/v1/connections/request", ConnectionRequest{
		FromUserID: bob.ID, ToUserID: alice.ID,
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate request: status = %d, want 409", rec.Code)
	}
	if env.Error == nil || env.Error.Code != codeConflict {
		t.Errorf("error envelope = %+v, want code %s", env.Error, codeConflict)
	}

	rec, _ = a.do(t, http.MethodPost, "/api/v1/connections/respond", ConnectionResponse{
		FromUserID: alice.ID, ToUserID: bob.ID, Status: models.ConnectionAccepted,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("respond: status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec, env = a.do(t, http.MethodGet, "/api/v1/connections/"+alice.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list connections: status = %d", rec.Code)
	}
	var conns []models.Connection
	if err := json.Unmarshal(env.Data, &conns); err != nil {
		t.Fatalf("decode connections: %v", err)
	}
	if len(conns) != 1 || conns[0].Status != models.ConnectionAccepted {
		t.Errorf("connections = %+v, want one accepted", conns)
	}

	// Accepted connections appear on the user document.
	_, env = a.do(t, http.MethodGet, "/api/v1/users/"+bob.ID, nil)
	var got models.User
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	if len(got.Connections) != 1 || got.Connections[0] != alice.ID {
		t.Errorf("bob.Connections = %v, want [%s]", got.Connections, alice.ID)
	}
}

func TestFeedbackEndpoints(t *testing.T) {
	a := newTestAPI(t)

	event := a.createEvent(t, "Workshop", 3, nil)
	user := a.createUser(t, "carol", nil)

	rec, _ := a.do(t, http.MethodPost, "/api/v1/events/"+event.ID+"/feedback", FeedbackRequest{
		UserID: user.ID, Rating: 9,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("out-of-range rating: status = %d, want 400", rec.Code)
	}

	rec, _ = a.do(t, http.MethodPost, "/api/v1/events/"+event.ID+"/feedback", FeedbackRequest{
		UserID: user.ID, Rating: 4, Comments: "great",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit feedback: status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec, env := a.do(t, http.MethodGet, "/api/v1/events/"+event.ID+"/feedback", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list feedback: status = %d", rec.Code)
	}
	var items []models.Feedback
	if err := json.Unmarshal(env.Data, &items); err != nil {
		t.Fatalf("decode feedback: %v", err)
	}
	if len(items) != 1 || items[0].Rating != 4 {
		t.Errorf("feedback = %+v, want one entry rated 4", items)
	}

	rec, _ = a.do(t, http.MethodDelete,
		fmt.Sprintf("/api/v1/events/%s/feedback/%s", event.ID, user.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete feedback: status = %d", rec.Code)
	}

	_, env = a.do(t, http.MethodGet, "/api/v1/events/"+event.ID+"/feedback", nil)
	items = nil
	if err := json.Unmarshal(env.Data, &items); err != nil {
		t.Fatalf("decode feedback: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("feedback after delete = %+v, want empty", items)
	}
}

func TestEventRecommendationsEndpoint(t *testing.T) {
	a := newTestAPI(t)

	user := a.createUser(t, "dave", []string{"music", "food"})
	a.createEvent(t, "Concert", 5, []string{"music"})
	a.createEvent(t, "Lecture", 5, []string{"science"})

	rec, env := a.do(t, http.MethodGet, "/api/v1/events/recommendations/"+user.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("recommendations: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var recs []recommend.EventRecommendation
	if err := json.Unmarshal(env.Data, &recs); err != nil {
		t.Fatalf("decode recommendations: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(recs))
	}
	if recs[0].Event.Title != "Concert" {
		t.Errorf("top recommendation = %q, want Concert", recs[0].Event.Title)
	}
	if recs[0].Score <= recs[1].Score {
		t.Errorf("scores not descending: %v vs %v", recs[0].Score, recs[1].Score)
	}

	// A half-supplied coordinate is rejected.
	rec, env = a.do(t, http.MethodGet,
		"/api/v1/events/recommendations/"+user.ID+"?latitude=40.0", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("half coordinate: status = %d, want 400", rec.Code)
	}
	if env.Error == nil || env.Error.Code != codeValidation {
		t.Errorf("error envelope = %+v, want code %s", env.Error, codeValidation)
	}

	// An unknown user is a missing resource, not an empty result.
	rec, env = a.do(t, http.MethodGet, "/api/v1/events/recommendations/nobody", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown user: status = %d, want 404", rec.Code)
	}
	if env.Error == nil || env.Error.Code != codeNotFound {
		t.Errorf("error envelope = %+v, want code %s", env.Error, codeNotFound)
	}
}

func TestEventRecommendationsDistanceFilter(t *testing.T) {
	a := newTestAPI(t)

	user := a.createUser(t, "frank", []string{"music"})

	makeEvent := func(title string, lat, lon float64) {
		start := time.Now().UTC().Add(48 * time.Hour)
		rec, _ := a.do(t, http.MethodPost, "/api/v1/events", CreateEventRequest{
			Title:          title,
			StartTime:      start.Format(time.RFC3339),
			EndTime:        start.Add(2 * time.Hour).Format(time.RFC3339),
			Categories:     []string{"music"},
			VenueLatitude:  &lat,
			VenueLongitude: &lon,
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("create event %q: status = %d, body = %s", title, rec.Code, rec.Body.String())
		}
	}
	makeEvent("Near Gig", 40.73, -73.99)
	makeEvent("Far Gig", 51.51, -0.13)

	rec, env := a.do(t, http.MethodGet,
		"/api/v1/events/recommendations/"+user.ID+"?latitude=40.73&longitude=-73.99&max_distance=50", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("recommendations: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var recs []recommend.EventRecommendation
	if err := json.Unmarshal(env.Data, &recs); err != nil {
		t.Fatalf("decode recommendations: %v", err)
	}
	if len(recs) != 1 || recs[0].Event.Title != "Near Gig" {
		t.Fatalf("recommendations = %+v, want only Near Gig", recs)
	}
}

func TestConnectionRecommendationsEndpoint(t *testing.T) {
	a := newTestAPI(t)

	alice := a.createUser(t, "alice", []string{"music"})
	bob := a.createUser(t, "bob", []string{"music"})
	carol := a.createUser(t, "carol", []string{"music"})

	// alice-bob and bob-carol accepted: carol is a 2-hop candidate.
	for _, pair := range [][2]string{{alice.ID, bob.ID}, {bob.ID, carol.ID}} {
		rec, _ := a.do(t, http.MethodPost, "/api/v1/connections/request", ConnectionRequest{
			FromUserID: pair[0], ToUserID: pair[1],
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("request: status = %d", rec.Code)
		}
		rec, _ = a.do(t, http.MethodPost, "/api/v1/connections/respond", ConnectionResponse{
			FromUserID: pair[0], ToUserID: pair[1], Status: models.ConnectionAccepted,
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("respond: status = %d", rec.Code)
		}
	}

	rec, env := a.do(t, http.MethodGet, "/api/v1/connections/recommendations/"+alice.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("connection recommendations: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var recs []recommend.ConnectionRecommendation
	if err := json.Unmarshal(env.Data, &recs); err != nil {
		t.Fatalf("decode recommendations: %v", err)
	}
	if len(recs) != 1 || recs[0].UserID != carol.ID {
		t.Fatalf("recommendations = %+v, want only carol", recs)
	}
	if recs[0].MutualConnections != 1 {
		t.Errorf("MutualConnections = %d, want 1", recs[0].MutualConnections)
	}

	rec, _ = a.do(t, http.MethodGet, "/api/v1/connections/recommendations/nobody", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown user: status = %d, want 404", rec.Code)
	}
}

func TestEventBuddiesEndpoint(t *testing.T) {
	a := newTestAPI(t)

	event := a.createEvent(t, "Meetup", 4, []string{"tech"})
	alice := a.createUser(t, "alice", []string{"tech"})
	eve := a.createUser(t, "eve", []string{"tech"})

	for _, id := range []string{alice.ID, eve.ID} {
		rec, _ := a.do(t, http.MethodPost, "/api/v1/events/"+event.ID+"/rsvp", RSVPRequest{
			UserID: id, Status: models.RSVPAttending,
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("rsvp: status = %d", rec.Code)
		}
	}

	rec, env := a.do(t, http.MethodGet,
		fmt.Sprintf("/api/v1/connections/event-buddies/%s/%s", event.ID, alice.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("event buddies: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var recs []recommend.ConnectionRecommendation
	if err := json.Unmarshal(env.Data, &recs); err != nil {
		t.Fatalf("decode recommendations: %v", err)
	}
	if len(recs) != 1 || recs[0].UserID != eve.ID {
		t.Fatalf("buddies = %+v, want only eve", recs)
	}
	if len(recs[0].ConversationStarters) == 0 {
		t.Error("expected conversation starters")
	}

	// Both path segments are checked for existence.
	rec, _ = a.do(t, http.MethodGet,
		fmt.Sprintf("/api/v1/connections/event-buddies/%s/nobody", event.ID), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown user: status = %d, want 404", rec.Code)
	}
	rec, _ = a.do(t, http.MethodGet,
		fmt.Sprintf("/api/v1/connections/event-buddies/no-such-event/%s", alice.ID), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown event: status = %d, want 404", rec.Code)
	}
}

func TestRecommendationStatusAndRefresh(t *testing.T) {
	a := newTestAPI(t)

	a.createUser(t, "alice", nil)

	rec, env := a.do(t, http.MethodPost, "/api/v1/recommendations/refresh", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var status recommend.Status
	if err := json.Unmarshal(env.Data, &status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status.Users != 1 {
		t.Errorf("status.Users = %d, want 1", status.Users)
	}

	rec, _ = a.do(t, http.MethodGet, "/api/v1/recommendations/status", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: status = %d", rec.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	a := newTestAPI(t)

	rec, _ := a.do(t, http.MethodGet, "/api/v1/health/live", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("live: status = %d", rec.Code)
	}

	// Not ready until the first snapshot loads.
	rec, _ = a.do(t, http.MethodGet, "/api/v1/health/ready", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("ready before snapshot: status = %d, want 503", rec.Code)
	}

	if rec, _ := a.do(t, http.MethodPost, "/api/v1/recommendations/refresh", nil); rec.Code != http.StatusOK {
		t.Fatalf("refresh: status = %d", rec.Code)
	}

	rec, _ = a.do(t, http.MethodGet, "/api/v1/health/ready", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("ready after snapshot: status = %d, want 200", rec.Code)
	}
}

func TestOrganizerDashboard(t *testing.T) {
	a := newTestAPI(t)

	start := time.Now().UTC().Add(48 * time.Hour)
	rec, env := a.do(t, http.MethodPost, "/api/v1/events", CreateEventRequest{
		Title:       "Organized Event",
		StartTime:   start.Format(time.RFC3339),
		EndTime:     start.Add(time.Hour).Format(time.RFC3339),
		OrganizerID: "org-1",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create event: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var event models.Event
	if err := json.Unmarshal(env.Data, &event); err != nil {
		t.Fatalf("decode event: %v", err)
	}

	user := a.createUser(t, "frank", nil)
	if rec, _ := a.do(t, http.MethodPost, "/api/v1/events/"+event.ID+"/rsvp", RSVPRequest{
		UserID: user.ID, Status: models.RSVPAttending,
	}); rec.Code != http.StatusOK {
		t.Fatalf("rsvp: status = %d", rec.Code)
	}
	if rec, _ := a.do(t, http.MethodPost, "/api/v1/events/"+event.ID+"/feedback", FeedbackRequest{
		UserID: user.ID, Rating: 5,
	}); rec.Code != http.StatusCreated {
		t.Fatalf("feedback: status = %d", rec.Code)
	}

	rec, env = a.do(t, http.MethodGet, "/api/v1/dashboard/organizer/org-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var data OrganizerDashboardData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode dashboard: %v", err)
	}
	if data.TotalEvents != 1 || data.UpcomingEvents != 1 {
		t.Errorf("dashboard counts = %+v, want 1 total and 1 upcoming", data)
	}
	if data.TotalAttendees != 1 {
		t.Errorf("TotalAttendees = %d, want 1", data.TotalAttendees)
	}
	if data.AverageRating != 5 {
		t.Errorf("AverageRating = %v, want 5", data.AverageRating)
	}
}

func TestUserEventsEndpoint(t *testing.T) {
	a := newTestAPI(t)

	user := a.createUser(t, "gina", nil)
	attended := a.createEvent(t, "Attended", 2, nil)
	a.createEvent(t, "Skipped", 2, nil)

	if rec, _ := a.do(t, http.MethodPost, "/api/v1/events/"+attended.ID+"/rsvp", RSVPRequest{
		UserID: user.ID, Status: models.RSVPAttending,
	}); rec.Code != http.StatusOK {
		t.Fatalf("rsvp: status = %d", rec.Code)
	}

	rec, env := a.do(t, http.MethodGet, "/api/v1/users/"+user.ID+"/events", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("user events: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var events []models.Event
	if err := json.Unmarshal(env.Data, &events); err != nil {
		t.Fatalf("decode events: %v", err)
	}
	if len(events) != 1 || events[0].ID != attended.ID {
		t.Errorf("user events = %+v, want only the RSVP'd event", events)
	}

	rec, _ = a.do(t, http.MethodGet, "/api/v1/users/nobody/events", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown user events: status = %d, want 404", rec.Code)
	}
}

func TestEventDashboard(t *testing.T) {
	a := newTestAPI(t)

	event := a.createEvent(t, "Gala", 6, nil)
	user := a.createUser(t, "hank", nil)

	if rec, _ := a.do(t, http.MethodPost, "/api/v1/events/"+event.ID+"/rsvp", RSVPRequest{
		UserID: user.ID, Status: models.RSVPAttending,
	}); rec.Code != http.StatusOK {
		t.Fatalf("rsvp: status = %d", rec.Code)
	}
	if rec, _ := a.do(t, http.MethodPost, "/api/v1/events/"+event.ID+"/feedback", FeedbackRequest{
		UserID: user.ID, Rating: 3,
	}); rec.Code != http.StatusCreated {
		t.Fatalf("feedback: status = %d", rec.Code)
	}

	rec, env := a.do(t, http.MethodGet, "/api/v1/dashboard/events/"+event.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("event dashboard: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var details EventDetails
	if err := json.Unmarshal(env.Data, &details); err != nil {
		t.Fatalf("decode details: %v", err)
	}
	if len(details.Attendees) != 1 {
		t.Errorf("attendees = %+v, want 1", details.Attendees)
	}
	if details.FeedbackCount != 1 || details.AverageRating != 3 {
		t.Errorf("feedback summary = %d/%v, want 1/3", details.FeedbackCount, details.AverageRating)
	}
	if !details.Upcoming {
		t.Error("expected event to be upcoming")
	}

	rec, _ = a.do(t, http.MethodGet, "/api/v1/dashboard/events/missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing event dashboard: status = %d, want 404", rec.Code)
	}
}

func TestRequestIDHeaderEchoed(t *testing.T) {
	a := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil)
	req.Header.Set("X-Request-ID", "trace-me")
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "trace-me" {
		t.Errorf("X-Request-ID = %q, want trace-me", got)
	}
}

func TestPreferencesEndpoints(t *testing.T) {
	a := newTestAPI(t)

	user := a.createUser(t, "grace", []string{"music"})

	// A fresh user reads back the defaults.
	rec, env := a.do(t, http.MethodGet, "/api/v1/preferences/"+user.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get preferences: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var got preferencesResponse
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("decode preferences: %v", err)
	}
	if got.UserID != user.ID {
		t.Errorf("user_id = %q, want %q", got.UserID, user.ID)
	}
	if len(got.Interests) != 1 || got.Interests[0] != "music" {
		t.Errorf("interests = %v, want [music]", got.Interests)
	}
	defaults := models.DefaultPreferences()
	if got.Preferences.PrivacySettings != defaults.PrivacySettings {
		t.Errorf("privacy = %+v, want defaults %+v", got.Preferences.PrivacySettings, defaults.PrivacySettings)
	}
	if !got.Preferences.NotificationSettings.EventReminders || got.Preferences.CalendarIntegration {
		t.Errorf("defaults not applied: %+v", got.Preferences)
	}

	// Partial updates merge: untouched fields keep their value.
	off := false
	rec, env = a.do(t, http.MethodPut, "/api/v1/preferences/"+user.ID+"/notification_settings",
		UpdateNotificationSettingsRequest{NearbyEvents: &off})
	if rec.Code != http.StatusOK {
		t.Fatalf("update notifications: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var prefs models.Preferences
	if err := json.Unmarshal(env.Data, &prefs); err != nil {
		t.Fatalf("decode preferences: %v", err)
	}
	if prefs.NotificationSettings.NearbyEvents {
		t.Error("nearby_events still true after update")
	}
	if !prefs.NotificationSettings.EventReminders {
		t.Error("event_reminders flipped by unrelated update")
	}

	visibility := "private"
	rec, env = a.do(t, http.MethodPut, "/api/v1/preferences/"+user.ID+"/privacy_settings",
		UpdatePrivacySettingsRequest{ProfileVisibility: &visibility})
	if rec.Code != http.StatusOK {
		t.Fatalf("update privacy: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if err := json.Unmarshal(env.Data, &prefs); err != nil {
		t.Fatalf("decode preferences: %v", err)
	}
	if prefs.PrivacySettings.ProfileVisibility != "private" {
		t.Errorf("profile_visibility = %q, want private", prefs.PrivacySettings.ProfileVisibility)
	}
	if prefs.PrivacySettings.LocationSharing != "friends" {
		t.Errorf("location_sharing = %q, want friends", prefs.PrivacySettings.LocationSharing)
	}

	// Invalid enum values are rejected.
	bad := "everyone-ish"
	rec, env = a.do(t, http.MethodPut, "/api/v1/preferences/"+user.ID+"/privacy_settings",
		UpdatePrivacySettingsRequest{AllowMessages: &bad})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid privacy value: status = %d, want 400", rec.Code)
	}
	if env.Error == nil || env.Error.Code != codeValidation {
		t.Errorf("error envelope = %+v, want code %s", env.Error, codeValidation)
	}

	rec, env = a.do(t, http.MethodPut, "/api/v1/preferences/"+user.ID+"/calendar_integration",
		UpdateCalendarIntegrationRequest{Enabled: true})
	if rec.Code != http.StatusOK {
		t.Fatalf("update calendar: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if err := json.Unmarshal(env.Data, &prefs); err != nil {
		t.Fatalf("decode preferences: %v", err)
	}
	if !prefs.CalendarIntegration {
		t.Error("calendar_integration not enabled")
	}

	dist := 5.0
	rec, env = a.do(t, http.MethodPut, "/api/v1/preferences/"+user.ID+"/recommendation_preferences",
		UpdateRecommendationPreferencesRequest{
			MaxDistanceKm: &dist,
			PreferredDays: []string{"weekend"},
		})
	if rec.Code != http.StatusOK {
		t.Fatalf("update recommendation prefs: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if err := json.Unmarshal(env.Data, &prefs); err != nil {
		t.Fatalf("decode preferences: %v", err)
	}
	if prefs.RecommendationPreferences.MaxDistanceKm != 5 {
		t.Errorf("max_distance_km = %v, want 5", prefs.RecommendationPreferences.MaxDistanceKm)
	}
	if len(prefs.RecommendationPreferences.PreferredDays) != 1 ||
		prefs.RecommendationPreferences.PreferredDays[0] != "weekend" {
		t.Errorf("preferred_days = %v, want [weekend]", prefs.RecommendationPreferences.PreferredDays)
	}

	rec, env = a.do(t, http.MethodPut, "/api/v1/preferences/"+user.ID+"/recommendation_preferences",
		UpdateRecommendationPreferencesRequest{PreferredDays: []string{"someday"}})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid preferred day: status = %d, want 400", rec.Code)
	}

	// Every earlier update survives a fresh read.
	_, env = a.do(t, http.MethodGet, "/api/v1/preferences/"+user.ID, nil)
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("decode preferences: %v", err)
	}
	if got.Preferences.NotificationSettings.NearbyEvents ||
		got.Preferences.PrivacySettings.ProfileVisibility != "private" ||
		!got.Preferences.CalendarIntegration {
		t.Errorf("persisted preferences = %+v", got.Preferences)
	}

	// Unknown users are missing resources on every route.
	for _, route := range []struct {
		method, path string
		body         interface{}
	}{
		{http.MethodGet, "/api/v1/preferences/nobody", nil},
		{http.MethodPut, "/api/v1/preferences/nobody/notification_settings", UpdateNotificationSettingsRequest{}},
		{http.MethodPut, "/api/v1/preferences/nobody/privacy_settings", UpdatePrivacySettingsRequest{}},
		{http.MethodPut, "/api/v1/preferences/nobody/calendar_integration", UpdateCalendarIntegrationRequest{}},
		{http.MethodPut, "/api/v1/preferences/nobody/recommendation_preferences", UpdateRecommendationPreferencesRequest{}},
	} {
		rec, _ := a.do(t, route.method, route.path, route.body)
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s %s: status = %d, want 404", route.method, route.path, rec.Code)
		}
	}
}
