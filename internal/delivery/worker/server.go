// Package worker runs the background notification poller.
package worker

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"portal/config"
	"portal/internal/delivery"
	"portal/internal/domain/service"
	"portal/internal/usecase"

	"go.uber.org/fx"
)

// PollerParams holds dependencies for the poller, injected by Fx.
type PollerParams struct {
	fx.In

	Lc            fx.Lifecycle
	Cfg           *config.Config
	Logger        *slog.Logger
	Sessions      usecase.SessionUsecase
	Notifications usecase.NotificationUsecase
	Publisher     service.EventPublisher
}

// poller periodically publishes unread counts for owners with a live session.
// On start it also covers every owner with stored unread notifications.
type poller struct {
	interval      time.Duration
	logger        *slog.Logger
	sessions      usecase.SessionUsecase
	notifications usecase.NotificationUsecase
	publisher     service.EventPublisher

	started  atomic.Bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewPoller creates the notification poller and ties its shutdown to the app lifecycle.
func NewPoller(params PollerParams) (delivery.Delivery, error) {
	p := newPoller(params.Cfg.Notification.PollInterval, params)

	params.Lc.Append(fx.StopHook(p.shutdown))

	return p, nil
}

func newPoller(interval time.Duration, params PollerParams) *poller {
	return &poller{
		interval:      interval,
		logger:        params.Logger.With(slog.String("component", "notification_poller")),
		sessions:      params.Sessions,
		notifications: params.Notifications,
		publisher:     params.Publisher,
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}
}

// Serve ticks until ctx is cancelled or the app stops.
func (p *poller) Serve(ctx context.Context) error {
	p.started.Store(true)
	defer close(p.done)

	p.logger.Info("Starting notification poller", slog.Duration("interval", p.interval))

	p.announceStored(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-p.stop:
			return nil
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

// announceStored announces unread counts for owners whose sessions did not survive a restart.
// Owners with nothing unread are skipped.
func (p *poller) announceStored(ctx context.Context) {
	owners, err := p.notifications.Owners(ctx)
	if err != nil {
		p.logger.WarnContext(ctx, "Failed to list notification owners", slog.Any("error", err))

		return
	}

	p.publishCounts(ctx, owners, false)
}

func (p *poller) poll(ctx context.Context) {
	p.publishCounts(ctx, p.sessions.ActiveOwners(), true)
}

func (p *poller) publishCounts(ctx context.Context, owners []string, includeZero bool) {
	for _, owner := range owners {
		unread, err := p.notifications.UnreadCount(ctx, owner)
		if err != nil {
			p.logger.WarnContext(ctx, "Failed to count unread notifications",
				slog.String("owner", owner),
				slog.Any("error", err),
			)

			continue
		}
		if unread == 0 && !includeZero {
			continue
		}

		event := &service.Event{
			Type:       service.EventNotificationUnreadCount,
			Owner:      owner,
			Attributes: map[string]string{"unread": strconv.Itoa(unread)},
			OccurredAt: time.Now().UTC(),
		}
		if err := p.publisher.Publish(ctx, event); err != nil {
			p.logger.WarnContext(ctx, "Failed to publish unread count",
				slog.String("owner", owner),
				slog.Any("error", err),
			)
		}
	}
}

func (p *poller) shutdown(ctx context.Context) error {
	p.stopOnce.Do(func() { close(p.stop) })
	if !p.started.Load() {
		return nil
	}

	select {
	case <-p.done:
	case <-ctx.Done():
	}

	p.logger.Info("Notification poller stopped")

	return nil
}
