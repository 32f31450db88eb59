// EventMesh - Event Discovery and Social Connection Backend
// Copyright 2026 EventMesh contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventmesh/eventmesh

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eventmesh/eventmesh/internal/eventbus"
	"github.com/eventmesh/eventmesh/internal/models"
	"github.com/eventmesh/eventmesh/internal/store"
	"github.com/eventmesh/eventmesh/internal/validation"
)

// RequestConnection handles POST /api/v1/connections/request.
func (h *Handler) RequestConnection(w http.ResponseWriter, r *http.Request) {
	var req ConnectionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	conn, err := h.store.RequestConnection(r.Context(), req.FromUserID, req.ToUserID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrConnectionExists):
			respondError(w, r, http.StatusConflict, codeConflict, "connection already exists", nil)
		case errors.Is(err, store.ErrNotFound):
			respondError(w, r, http.StatusNotFound, codeNotFound, "user not found", nil)
		default:
			respondError(w, r, http.StatusBadRequest, codeBadRequest, err.Error(), nil)
		}
		return
	}

	h.publish(r, eventbus.TopicConnectionUpdated, eventbus.ConnectionEvent{
		FromUserID: conn.FromUserID,
		ToUserID:   conn.ToUserID,
		Status:     conn.Status,
	})
	respondJSON(w, r, http.StatusCreated, conn)
}

// RespondConnection handles POST /api/v1/connections/respond.
func (h *Handler) RespondConnection(w http.ResponseWriter, r *http.Request) {
	var req ConnectionResponse
	if !decodeBody(w, r, &req) {
		return
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	conn, err := h.store.RespondConnection(r.Context(), req.FromUserID, req.ToUserID, req.Status)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, r, http.StatusNotFound, codeNotFound, "connection not found", nil)
			return
		}
		respondError(w, r, http.StatusBadRequest, codeBadRequest, err.Error(), nil)
		return
	}

	h.publish(r, eventbus.TopicConnectionUpdated, eventbus.ConnectionEvent{
		FromUserID: conn.FromUserID,
		ToUserID:   conn.ToUserID,
		Status:     conn.Status,
	})
	respondJSON(w, r, http.StatusOK, conn)
}

// ListConnections handles GET /api/v1/connections/{userID}. An
// optional ?status= filter narrows by connection status; it defaults
// to accepted.
func (h *Handler) ListConnections(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	status := r.URL.Query().Get("status")
	if status == "" {
		status = models.ConnectionAccepted
	}

	conns, err := h.store.ListConnections(r.Context(), userID, status)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, codeInternal, "failed to list connections", err)
		return
	}
	respondJSON(w, r, http.StatusOK, conns)
}
