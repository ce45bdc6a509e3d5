// Package events publishes calendar change notifications.
package events

import (
	"context"
	"time"
)

// Type names a calendar lifecycle transition.
type Type string

const (
	CalendarCreated Type = "calendar.created"
	CalendarUpdated Type = "calendar.updated"
	CalendarDeleted Type = "calendar.deleted"
)

// Event describes one committed change to a calendar.
type Event struct {
	Type       Type      `json:"type"`
	CalendarID int32     `json:"calendar_id"`
	Name       string    `json:"name"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher delivers events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }
