package impl

import (
	"context"
	"log/slog"
	"sync"

	"portal/internal/domain/entity"
	"portal/internal/domain/repository"
	"portal/internal/domain/service"
	"portal/internal/errors"
	"portal/internal/infra/metrics"
)

// desktopGate decides whether a notification may be shown as an OS-level alert.
// While the owner has not answered the permission request, notifications wait in memory.
type desktopGate struct {
	repo      repository.NotificationRepository
	notifier  service.DesktopNotifier
	publisher service.EventPublisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
	limit     int

	mu      sync.Mutex
	pending map[string][]*entity.Notification
}

func newDesktopGate(
	repo repository.NotificationRepository,
	notifier service.DesktopNotifier,
	publisher service.EventPublisher,
	m *metrics.Metrics,
	logger *slog.Logger,
	limit int,
) *desktopGate {
	return &desktopGate{
		repo:      repo,
		notifier:  notifier,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
		limit:     limit,
		pending:   make(map[string][]*entity.Notification),
	}
}

// Offer routes one notification according to the stored permission.
func (g *desktopGate) Offer(ctx context.Context, owner string, notification *entity.Notification) error {
	perm, err := g.repo.GetDesktopPermission(ctx, owner)
	if err != nil {
		return errors.Wrap(err, "failed to read desktop permission")
	}

	switch perm {
	case entity.DesktopPermissionGranted:
		return g.deliver(ctx, owner, notification)
	case entity.DesktopPermissionDenied:
		g.logger.Debug("Desktop notification skipped, permission denied",
			slog.String("owner", owner), slog.String("notificationId", notification.ID))
		g.metrics.DesktopDeliveries.WithLabelValues(metrics.OutcomeSkipped).Inc()

		return nil
	default:
		if first := g.hold(owner, notification); first {
			publishEvent(ctx, g.publisher, g.logger, service.EventPermissionRequested, owner, map[string]string{
				"notification_id": notification.ID,
			})
		}
		g.metrics.DesktopDeliveries.WithLabelValues(metrics.OutcomePending).Inc()

		return nil
	}
}

// Answer stores the permission and settles everything that was waiting for it.
// Granted delivers each pending notification once. Any answer empties the queue.
func (g *desktopGate) Answer(ctx context.Context, owner string, perm entity.DesktopPermission) error {
	if err := g.repo.SaveDesktopPermission(ctx, owner, perm); err != nil {
		return errors.Wrap(err, "failed to save desktop permission")
	}

	queued := g.take(owner)
	if perm != entity.DesktopPermissionGranted {
		if len(queued) > 0 {
			g.logger.Debug("Dropped pending desktop notifications",
				slog.String("owner", owner), slog.String("permission", string(perm)), slog.Int("count", len(queued)))
		}

		return nil
	}

	for _, notification := range queued {
		if err := g.deliver(ctx, owner, notification); err != nil {
			g.logger.Warn("Failed to deliver pending desktop notification",
				slog.String("owner", owner), slog.String("notificationId", notification.ID), slog.Any("error", err))
		}
	}

	return nil
}

func (g *desktopGate) deliver(ctx context.Context, owner string, notification *entity.Notification) error {
	if err := g.notifier.Deliver(ctx, owner, notification); err != nil {
		g.metrics.DesktopDeliveries.WithLabelValues(metrics.OutcomeFailed).Inc()

		return errors.Wrap(err, "failed to deliver desktop notification")
	}
	g.metrics.DesktopDeliveries.WithLabelValues(metrics.OutcomeDelivered).Inc()

	return nil
}

// hold queues the notification, oldest first, and reports whether the queue was empty before.
func (g *desktopGate) hold(owner string, notification *entity.Notification) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	queue := g.pending[owner]
	first := len(queue) == 0
	queue = append(queue, notification)
	if len(queue) > g.limit {
		queue = queue[len(queue)-g.limit:]
	}
	g.pending[owner] = queue

	return first
}

func (g *desktopGate) take(owner string) []*entity.Notification {
	g.mu.Lock()
	defer g.mu.Unlock()

	queue := g.pending[owner]
	delete(g.pending, owner)

	return queue
}
