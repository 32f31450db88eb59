// EventMesh - Event Discovery and Social Connection Backend
// Copyright 2026 EventMesh contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventmesh/eventmesh

package recommend

import (
	"reflect"
	"strings"
	"testing"
)

func TestConversationStartersFromSharedInterests(t *testing.T) {
	got := ConversationStarters([]string{"music", "tech"}, "", 3)
	if len(got) != 2 {
		t.Fatalf("got %d starters, want 2", len(got))
	}
	for _, s := range got {
		if !strings.Contains(s, "music") && !strings.Contains(s, "tech") {
			t.Errorf("starter %q references no shared interest", s)
		}
	}
}

func TestConversationStartersDeterministic(t *testing.T) {
	a := ConversationStarters([]string{"tech", "music", "art"}, "", 3)
	b := ConversationStarters([]string{"art", "tech", "music"}, "", 3)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("starters depend on input order: %v vs %v", a, b)
	}
}

func TestConversationStartersCapped(t *testing.T) {
	tags := []string{"a", "b", "c", "d", "e"}
	got := ConversationStarters(tags, "", 3)
	if len(got) != 3 {
		t.Errorf("got %d starters, want 3", len(got))
	}
}

func TestConversationStartersEventFallback(t *testing.T) {
	got := ConversationStarters(nil, "Go Meetup", 3)
	if len(got) != 1 || !strings.Contains(got[0], "Go Meetup") {
		t.Errorf("got %v, want one starter referencing the event", got)
	}
}

func TestConversationStartersGenericFallback(t *testing.T) {
	got := ConversationStarters(nil, "", 3)
	if len(got) != 1 || got[0] != genericStarter {
		t.Errorf("got %v, want the generic opener", got)
	}
}

func TestConversationStartersZeroMax(t *testing.T) {
	if got := ConversationStarters([]string{"tech"}, "", 0); got != nil {
		t.Errorf("got %v, want nil for max 0", got)
	}
}
