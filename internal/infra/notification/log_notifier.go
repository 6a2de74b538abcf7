package notification

import (
	"context"
	"log/slog"

	"portal/internal/domain/entity"
	"portal/internal/domain/service"
)

// logNotifier stands in for a push transport in development; it only logs.
type logNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a DesktopNotifier that writes each delivery to the log.
func NewLogNotifier(logger *slog.Logger) service.DesktopNotifier {
	return &logNotifier{logger: logger}
}

func (n *logNotifier) Deliver(ctx context.Context, owner string, notification *entity.Notification) error {
	n.logger.InfoContext(ctx, "Desktop notification",
		slog.String("owner", owner),
		slog.String("notificationId", notification.ID),
		slog.String("type", string(notification.Type)),
		slog.String("title", notification.Title),
	)

	return nil
}
