// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"affiliatedesk/internal/command"
)

type commandRequest struct {
	Text string `json:"text"`
}

type commandResponse struct {
	Command command.Command `json:"command"`
	Result  command.Result  `json:"result"`
}

// Command handles POST /api/command. The text is classified by the AI
// provider and the resulting action is applied to the store. A model
// that cannot be reached answers 502 and changes nothing. Without a
// usable provider the route answers 503.
func (a *API) Command(w http.ResponseWriter, r *http.Request) {
	if a.commands == nil || !a.assistant.Status().Ready {
		writeError(w, http.StatusServiceUnavailable, msgNoAssistant)
		return
	}
	var req commandRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusUnprocessableEntity, "Please type a command.")
		return
	}

	cmd, err := a.commands.Interpret(r.Context(), req.Text)
	if err != nil {
		writeError(w, http.StatusBadGateway, cmd.Message)
		return
	}

	res, err := command.Apply(r.Context(), a.store, cmd)
	if err != nil {
		if errors.Is(err, command.ErrInvalid) {
			writeError(w, http.StatusUnprocessableEntity, strings.TrimPrefix(err.Error(), command.ErrInvalid.Error()+": "))
			return
		}
		slog.Error("apply command failed", "action", cmd.Action, "error", err)
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	slog.Info("command applied", "action", cmd.Action)
	writeJSON(w, http.StatusOK, commandResponse{Command: cmd, Result: res})
}
