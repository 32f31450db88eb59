// EventMesh - Event Discovery and Social Connection Backend
// Copyright 2026 EventMesh contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventmesh/eventmesh

// Package graph builds and queries the social graph of users and their
// accepted connections.
//
// The graph is an undirected adjacency-set structure keyed by user ID.
// Every user in the input snapshot becomes a node, including isolated
// users, and each node is annotated with the user's interest set.
//
// Edge policy: an edge (A, B) is added when *either* user lists the
// other in its connections. Stored connection data is expected to be
// symmetric; one-sided entries still produce an edge but are counted so
// that callers can flag them for reconciliation.
package graph

import (
	"github.com/eventmesh/eventmesh/internal/models"
)

// Graph is an immutable social graph snapshot. It is built once per
// cache refresh and safe for concurrent reads; it must not be mutated
// after Build returns.
type Graph struct {
	adj       map[string]map[string]struct{}
	interests map[string]map[string]struct{}

	asymmetric int
	edges      int
}

// Build constructs the graph from a full user snapshot in O(U + E)
// where U is the user count and E the total connection references.
func Build(users []models.User) *Graph {
	g := &Graph{
		adj:       make(map[string]map[string]struct{}, len(users)),
		interests: make(map[string]map[string]struct{}, len(users)),
	}

	for i := range users {
		u := &users[i]
		if u.ID == "" {
			continue
		}
		g.adj[u.ID] = make(map[string]struct{}, len(u.Connections))
		set := make(map[string]struct{}, len(u.Interests))
		for _, tag := range u.Interests {
			set[tag] = struct{}{}
		}
		g.interests[u.ID] = set
	}

	for i := range users {
		u := &users[i]
		seen := make(map[string]struct{}, len(u.Connections))
		for _, other := range u.Connections {
			if other == "" || other == u.ID {
				continue
			}
			// A duplicated reference on one side must not count as the
			// other side's reciprocation.
			if _, dup := seen[other]; dup {
				continue
			}
			seen[other] = struct{}{}
			if _, known := g.adj[other]; !known {
				// Connection reference to a user missing from the
				// snapshot; skip rather than invent a node.
				continue
			}
			g.addEdge(u.ID, other)
		}
	}

	return g
}

// addEdge inserts an undirected edge once, tracking asymmetry: the
// second time the same pair is seen the entry already exists on both
// sides, so a pair seen only once stays counted as one-sided.
func (g *Graph) addEdge(a, b string) {
	if _, ok := g.adj[a][b]; ok {
		// Second sighting of the pair: both sides list each other.
		g.asymmetric--
		return
	}
	g.adj[a][b] = struct{}{}
	g.adj[b][a] = struct{}{}
	g.edges++
	g.asymmetric++
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.adj)
}

// Edges returns the number of undirected edges.
func (g *Graph) Edges() int {
	return g.edges
}

// AsymmetricEdges returns the number of edges that only one side
// listed. A non-zero value indicates stored connection data in need of
// reconciliation.
func (g *Graph) AsymmetricEdges() int {
	return g.asymmetric
}

// Contains reports whether the user is a node in the graph.
func (g *Graph) Contains(userID string) bool {
	_, ok := g.adj[userID]
	return ok
}

// HasEdge reports whether two users are connected.
func (g *Graph) HasEdge(a, b string) bool {
	_, ok := g.adj[a][b]
	return ok
}

// Neighbors returns the set of users directly connected to userID.
// The returned map is shared with the graph and must not be modified.
func (g *Graph) Neighbors(userID string) map[string]struct{} {
	return g.adj[userID]
}

// Degree returns the number of direct connections of userID.
func (g *Graph) Degree(userID string) int {
	return len(g.adj[userID])
}

// Interests returns the interest set of userID. The returned map is
// shared with the graph and must not be modified.
func (g *Graph) Interests(userID string) map[string]struct{} {
	return g.interests[userID]
}

// MutualConnections counts users connected to both a and b.
func (g *Graph) MutualConnections(a, b string) int {
	na, nb := g.adj[a], g.adj[b]
	if len(nb) < len(na) {
		na, nb = nb, na
	}
	count := 0
	for id := range na {
		if _, ok := nb[id]; ok {
			count++
		}
	}
	return count
}

// NeighborsOfNeighbors returns the 2-hop candidate set for userID:
// users reachable through a direct connection, excluding userID itself
// and its direct neighbors.
func (g *Graph) NeighborsOfNeighbors(userID string) map[string]struct{} {
	direct := g.adj[userID]
	result := make(map[string]struct{})
	for n := range direct {
		for nn := range g.adj[n] {
			if nn == userID {
				continue
			}
			if _, isDirect := direct[nn]; isDirect {
				continue
			}
			result[nn] = struct{}{}
		}
	}
	return result
}
