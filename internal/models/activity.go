// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Broadcast is a broadcast plan drafted through the command interface.
type Broadcast struct {
	ID               string    `json:"id"`
	BroadcastType    string    `json:"broadcast_type"`
	MessageTemplate  string    `json:"message_template"`
	DeliverySchedule string    `json:"delivery_schedule"`
	Target           string    `json:"target_affiliators"`
	CreatedAt        time.Time `json:"created_at"`
}

// Reminder is a recurring reminder drafted through the command interface.
type Reminder struct {
	ID              string    `json:"id"`
	ReminderType    string    `json:"reminder_type"`
	Frequency       string    `json:"frequency"`
	Day             string    `json:"day"`
	MessageTemplate string    `json:"message_template"`
	CreatedAt       time.Time `json:"created_at"`
}

// Treatment records appreciation sent to a well-performing affiliate.
type Treatment struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Performance      string    `json:"performance"`
	AIMessage        string    `json:"ai_message"`
	RewardSuggestion string    `json:"reward_suggestion"`
	CreatedAt        time.Time `json:"created_at"`
}
