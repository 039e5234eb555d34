// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the JSON HTTP handlers of the affiliate desk.
// Handlers are grouped by concern (records, content bank, WhatsApp,
// broadcast, commands) and receive their dependencies through the API
// struct.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"affiliatedesk/internal/ai"
	"affiliatedesk/internal/command"
	"affiliatedesk/internal/compose"
	"affiliatedesk/internal/contenttree"
	"affiliatedesk/internal/dispatch"
	"affiliatedesk/internal/store"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Messages for request-level failures.
const (
	msgBadRequest   = "Invalid request body."
	msgNoAssistant  = "The AI assistant is not configured."
	msgInternal     = "Something went wrong. Please try again."
	msgUnknownProd  = "Unknown product."
	msgUnknownAff   = "Unknown affiliate."
	msgNotFound     = "Not found."
	msgInvalidQRURL = "Only WhatsApp links can be encoded."
)

// API groups all HTTP handlers and their dependencies.
type API struct {
	store     *store.Store
	session   *dispatch.Session
	expansion *contenttree.Expansion
	catalog   compose.Catalog
	assistant *ai.Registry
	commands  *command.Interpreter
}

// NewAPI creates the handler group. assistant may be nil; the command and
// assistant routes then answer 503.
func NewAPI(st *store.Store, session *dispatch.Session, catalog compose.Catalog, assistant *ai.Registry) *API {
	a := &API{
		store:     st,
		session:   session,
		expansion: contenttree.NewExpansion(),
		catalog:   catalog,
		assistant: assistant,
	}
	if assistant != nil {
		a.commands = command.NewInterpreter(assistant)
	}
	return a
}

// Dashboard handles GET /api/dashboard.
func (a *API) Dashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.store.Dashboard())
}

// updateResponse answers PUT/PATCH requests. Updated is false, and Record
// absent, when the id did not match anything.
type updateResponse struct {
	Updated bool `json:"updated"`
	Record  any  `json:"record,omitempty"`
}

// writeJSON sends a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError sends {"error": msg}.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON reads a size-limited JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// orEmpty keeps JSON arrays from being encoded as null.
func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// isConflict reports session errors that mean "not now".
func isConflict(err error) bool {
	return errors.Is(err, dispatch.ErrBusy) || errors.Is(err, dispatch.ErrAlreadySent)
}
