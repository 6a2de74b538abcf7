package service

import (
	"context"
	"time"
)

// EventType names a portal event.
type EventType string

const (
	EventSessionWarning          EventType = "session.warning"
	EventSessionExpired          EventType = "session.expired"
	EventPermissionRequested     EventType = "notification.permission_requested"
	EventNotificationUnreadCount EventType = "notification.unread"
)

// Event is a fire-and-forget message about something that happened to one owner.
type Event struct {
	RequestID  string            `json:"request_id,omitempty"` // For distributed tracing
	SessionID  string            `json:"session_id,omitempty"`
	Type       EventType         `json:"type"`
	Owner      string            `json:"owner"`
	Attributes map[string]string `json:"attributes,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// Publish sends the event. Callers treat failures as best-effort.
	Publish(ctx context.Context, event *Event) error

	// Close releases any resources held by the publisher
	Close() error
}
