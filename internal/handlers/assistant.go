// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"
)

type assistantRequest struct {
	Provider string `json:"provider"`
}

// Assistant handles GET /api/assistant: the active provider and the ones
// that can be selected.
func (a *API) Assistant(w http.ResponseWriter, r *http.Request) {
	if a.assistant == nil {
		writeError(w, http.StatusServiceUnavailable, msgNoAssistant)
		return
	}
	writeJSON(w, http.StatusOK, a.assistant.Status())
}

// AssistantSelect handles PUT /api/assistant. Only providers with
// credentials can be selected.
func (a *API) AssistantSelect(w http.ResponseWriter, r *http.Request) {
	if a.assistant == nil {
		writeError(w, http.StatusServiceUnavailable, msgNoAssistant)
		return
	}
	var req assistantRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	name := strings.ToLower(strings.TrimSpace(req.Provider))
	if err := a.assistant.SetActive(name); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Unknown or unconfigured AI provider.")
		return
	}
	slog.Info("ai provider switched", "provider", name)
	writeJSON(w, http.StatusOK, a.assistant.Status())
}
