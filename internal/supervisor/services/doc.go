// EventMesh - Event Discovery and Social Connection Backend
// Copyright 2026 EventMesh contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventmesh/eventmesh

// Package services adapts EventMesh's long-running components to
// suture's Serve pattern. Each wrapper translates a component's own
// lifecycle (ListenAndServe/Shutdown, tickers, blocking subscriber
// loops) into a single context-aware Serve method so the supervisor
// can restart it on failure.
package services
