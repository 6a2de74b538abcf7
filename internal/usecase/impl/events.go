// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "portal/internal/delivery/context"
	"portal/internal/domain/service"
)

// publishEvent sends an event and only logs a failure. Events are fire and forget.
func publishEvent(
	ctx context.Context,
	publisher service.EventPublisher,
	logger *slog.Logger,
	eventType service.EventType,
	owner string,
	attributes map[string]string,
) {
	event := &service.Event{
		RequestID:  deliverycontext.RequestID(ctx),
		Type:       eventType,
		Owner:      owner,
		Attributes: attributes,
		OccurredAt: time.Now().UTC(),
	}
	if session, ok := deliverycontext.SessionFrom(ctx); ok {
		event.SessionID = session.SessionID
	}

	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn("Failed to publish event",
			slog.String("type", string(eventType)),
			slog.String("owner", owner),
			slog.Any("error", err),
		)
	}
}
