// EventMesh - Event Discovery and Social Connection Backend
// Copyright 2026 EventMesh contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventmesh/eventmesh

package recommend

import (
	"fmt"
	"sort"
)

// maxStarters bounds the conversation starters attached to one
// recommendation.
const maxStarters = 3

// starterTemplates rotate deterministically over shared interests, so
// the same pair of users always sees the same starters.
var starterTemplates = []string{
	"You both are interested in %s - ask about their favorite %s experience!",
	"Looks like you share a passion for %s. What got them into it?",
	"Break the ice with %s - swap recommendations!",
}

// eventStarterTemplate is used when no interests are shared but both
// users attend the same event.
const eventStarterTemplate = "You're both going to %s - ask what they're most looking forward to!"

// genericStarter is the last-resort opener.
const genericStarter = "Say hi and ask what kinds of events they enjoy!"

// ConversationStarters builds up to max opener strings from genuinely
// shared interest tags. Tags are sorted first so output is
// deterministic regardless of input order. With no shared interests,
// an event title (when known) or a generic opener is used instead.
func ConversationStarters(sharedInterests []string, eventTitle string, max int) []string {
	if max <= 0 {
		return nil
	}

	if len(sharedInterests) == 0 {
		if eventTitle != "" {
			return []string{fmt.Sprintf(eventStarterTemplate, eventTitle)}
		}
		return []string{genericStarter}
	}

	tags := append([]string(nil), sharedInterests...)
	sort.Strings(tags)
	if len(tags) > max {
		tags = tags[:max]
	}

	starters := make([]string, 0, len(tags))
	for i, tag := range tags {
		tmpl := starterTemplates[i%len(starterTemplates)]
		if i%len(starterTemplates) == 0 {
			starters = append(starters, fmt.Sprintf(tmpl, tag, tag))
		} else {
			starters = append(starters, fmt.Sprintf(tmpl, tag))
		}
	}
	return starters
}
