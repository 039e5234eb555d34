// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"affiliatedesk/internal/models"
)

// Log is an append-only record collection used for the plans drafted
// through the command interface.
type Log[T any] struct {
	c     *Collection[T]
	stamp func(T, string, time.Time) T
}

// List returns all entries, oldest first.
func (l *Log[T]) List() []T {
	return l.c.All()
}

// Add stamps a fresh id and creation time on entry and appends it.
func (l *Log[T]) Add(ctx context.Context, entry T) T {
	entry = l.stamp(entry, uuid.NewString(), time.Now().UTC())
	l.c.Append(ctx, entry)
	return entry
}

func newBroadcastLog(adapter Adapter) *Log[models.Broadcast] {
	return &Log[models.Broadcast]{
		c: newCollection(adapter, KeyBroadcasts, func(b models.Broadcast) string { return b.ID }),
		stamp: func(b models.Broadcast, id string, now time.Time) models.Broadcast {
			b.ID, b.CreatedAt = id, now
			return b
		},
	}
}

func newReminderLog(adapter Adapter) *Log[models.Reminder] {
	return &Log[models.Reminder]{
		c: newCollection(adapter, KeyReminders, func(r models.Reminder) string { return r.ID }),
		stamp: func(r models.Reminder, id string, now time.Time) models.Reminder {
			r.ID, r.CreatedAt = id, now
			return r
		},
	}
}

func newTreatmentLog(adapter Adapter) *Log[models.Treatment] {
	return &Log[models.Treatment]{
		c: newCollection(adapter, KeyTreatments, func(t models.Treatment) string { return t.ID }),
		stamp: func(t models.Treatment, id string, now time.Time) models.Treatment {
			t.ID, t.CreatedAt = id, now
			return t
		},
	}
}
