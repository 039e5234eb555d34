// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package command turns free-text operator requests into structured
// actions through an LLM and applies them to the record store. The model
// is a black box: anything it returns that is not one well-formed action
// becomes an error action and changes nothing.
package command

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Action is the closed set of operations the interpreter may return.
type Action string

const (
	ActionAddAffiliate    Action = "add_affiliator"
	ActionBroadcast       Action = "broadcast_message"
	ActionManageSample    Action = "manage_sample"
	ActionTreatment       Action = "treatment_affiliator"
	ActionSmartReminder   Action = "smart_reminder"
	ActionDeleteAffiliate Action = "delete_affiliator"
	ActionError           Action = "error"
)

// Messages shown for error actions produced locally.
const (
	MsgNotUnderstood = "I'm sorry, I could not understand the request. Please try again."
	MsgUnreachable   = "Failed to communicate with the AI. Please check your connection or API key."
)

// Known reports whether a is one of the defined actions.
func (a Action) Known() bool {
	switch a {
	case ActionAddAffiliate, ActionBroadcast, ActionManageSample, ActionTreatment,
		ActionSmartReminder, ActionDeleteAffiliate, ActionError:
		return true
	}
	return false
}

// Command is one parsed interpreter response.
type Command struct {
	Action  Action          `json:"action"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

// IsError reports whether the command is an error action.
func (c Command) IsError() bool {
	return c.Action == ActionError
}

func errorCommand(msg string) Command {
	return Command{Action: ActionError, Message: msg}
}

// Parse decodes a model response. Markdown code fences around the object
// are tolerated. Malformed JSON, unknown actions and non-error actions
// without data all become an error action.
func Parse(raw string) Command {
	raw = stripFences(raw)

	var cmd Command
	if err := json.Unmarshal([]byte(raw), &cmd); err != nil {
		return errorCommand(MsgNotUnderstood)
	}
	if !cmd.Action.Known() {
		return errorCommand(MsgNotUnderstood)
	}
	if cmd.IsError() {
		if cmd.Message == "" {
			cmd.Message = MsgNotUnderstood
		}
		cmd.Data = nil
		return cmd
	}
	if len(cmd.Data) == 0 || string(cmd.Data) == "null" {
		return errorCommand(MsgNotUnderstood)
	}
	return cmd
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// Generator produces text from a system and a user prompt. *ai.Registry
// satisfies it.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Interpreter asks a Generator to classify operator requests.
type Interpreter struct {
	gen Generator
	now func() time.Time
}

// NewInterpreter creates an Interpreter backed by gen.
func NewInterpreter(gen Generator) *Interpreter {
	return &Interpreter{gen: gen, now: time.Now}
}

// Interpret sends text to the model and parses its answer. A failed call
// yields an error action carrying MsgUnreachable along with the cause.
func (in *Interpreter) Interpret(ctx context.Context, text string) (Command, error) {
	user := fmt.Sprintf("User request: %q", strings.TrimSpace(text))
	raw, err := in.gen.Generate(ctx, SystemPrompt(in.now()), user)
	if err != nil {
		slog.Error("command interpreter failed", "error", err)
		return errorCommand(MsgUnreachable), fmt.Errorf("interpret command: %w", err)
	}
	cmd := Parse(raw)
	if cmd.IsError() {
		slog.Info("command not understood", "response", raw)
	}
	return cmd, nil
}
