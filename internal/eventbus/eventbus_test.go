// EventMesh - Event Discovery and Social Connection Backend
// Copyright 2026 EventMesh contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventmesh/eventmesh

package eventbus

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

type fakeMarker struct {
	calls atomic.Int64
}

func (f *fakeMarker) MarkStale() { f.calls.Add(1) }

func TestPublishSubscribe(t *testing.T) {
	bus := New()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := bus.Subscribe(ctx, TopicRSVPUpdated)
	if err != nil {
		t.Fatalf("Subscribe() error: %v", err)
	}

	want := RSVPEvent{EventID: "e1", UserID: "u1", Status: "attending"}
	if err := bus.Publish(ctx, TopicRSVPUpdated, want); err != nil {
		t.Fatalf("Publish() error: %v", err)
	}

	select {
	case msg := <-ch:
		var got RSVPEvent
		if err := json.Unmarshal(msg.Payload, &got); err != nil {
			t.Fatalf("unmarshal payload: %v", err)
		}
		if got != want {
			t.Errorf("payload = %+v, want %+v", got, want)
		}
		if msg.UUID == "" {
			t.Error("message has no UUID")
		}
		msg.Ack()
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
	}
}

func TestRunInvalidatorMarksStale(t *testing.T) {
	bus := New()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	marker := &fakeMarker{}
	done := make(chan error, 1)
	go func() { done <- bus.RunInvalidator(ctx, marker) }()

	// Give the subscriptions a moment to attach.
	time.Sleep(50 * time.Millisecond)

	if err := bus.Publish(ctx, TopicRSVPUpdated, RSVPEvent{EventID: "e1"}); err != nil {
		t.Fatalf("Publish() error: %v", err)
	}
	if err := bus.Publish(ctx, TopicConnectionUpdated, ConnectionEvent{FromUserID: "a"}); err != nil {
		t.Fatalf("Publish() error: %v", err)
	}
	if err := bus.Publish(ctx, TopicFeedbackCreated, FeedbackEvent{EventID: "e1"}); err != nil {
		t.Fatalf("Publish() error: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for marker.calls.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("marker called %d times, want 3", marker.calls.Load())
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("RunInvalidator() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("RunInvalidator did not stop on cancel")
	}
}
