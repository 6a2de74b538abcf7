package impl

import (
	"context"
	"log/slog"
	"time"

	"portal/config"
	deliverycontext "portal/internal/delivery/context"
	"portal/internal/domain/entity"
	domainerrors "portal/internal/domain/errors"
	"portal/internal/domain/repository"
	"portal/internal/domain/service"
	"portal/internal/errors"
	"portal/internal/infra/metrics"
	"portal/internal/usecase"
	"portal/internal/util"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// NotificationServiceParams holds dependencies for NotificationService, injected by Fx.
type NotificationServiceParams struct {
	fx.In

	Repo      repository.NotificationRepository
	Notifier  service.DesktopNotifier
	Publisher service.EventPublisher
	Metrics   *metrics.Metrics
	Config    *config.Config
	Logger    *slog.Logger
}

type notificationService struct {
	repo       repository.NotificationRepository
	gate       *desktopGate
	locks      *util.KeyedMutex
	maxEntries int
	metrics    *metrics.Metrics
	logger     *slog.Logger
	now        func() time.Time
}

// NewNotificationService creates a new notification service instance
func NewNotificationService(params NotificationServiceParams) usecase.NotificationUsecase {
	maxEntries := params.Config.Notification.MaxEntries

	return &notificationService{
		repo:       params.Repo,
		gate:       newDesktopGate(params.Repo, params.Notifier, params.Publisher, params.Metrics, params.Logger, maxEntries),
		locks:      util.NewKeyedMutex(),
		maxEntries: maxEntries,
		metrics:    params.Metrics,
		logger:     params.Logger,
		now:        func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

func (srv *notificationService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *notificationService) List(ctx context.Context, owner string) ([]*entity.Notification, error) {
	notifications, err := srv.repo.List(ctx, owner)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list notifications")
	}

	return notifications, nil
}

// Add stores the notification first; desktop delivery is best-effort afterwards.
func (srv *notificationService) Add(ctx context.Context, owner string, draft entity.NotificationDraft) (*entity.Notification, error) {
	if !draft.Type.Valid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails("unknown notification type: " + string(draft.Type))
	}

	notification := &entity.Notification{
		ID:        uuid.NewString(),
		Timestamp: srv.now(),
		Read:      false,
		Type:      draft.Type,
		Title:     draft.Title,
		Message:   draft.Message,
	}

	err := srv.mutate(ctx, owner, func(list []*entity.Notification) []*entity.Notification {
		list = append([]*entity.Notification{notification}, list...)
		if len(list) > srv.maxEntries {
			list = list[:srv.maxEntries]
		}

		return list
	})
	if err != nil {
		return nil, err
	}
	srv.metrics.NotificationsAdded.WithLabelValues(string(notification.Type)).Inc()

	prefs, err := srv.repo.GetPreferences(ctx, owner)
	if err != nil {
		srv.log(ctx).Warn("Failed to read preferences for desktop delivery", slog.String("owner", owner), slog.Any("error", err))

		return notification, nil
	}
	if prefs.Desktop {
		if err := srv.gate.Offer(ctx, owner, notification); err != nil {
			srv.log(ctx).Warn("Desktop notification failed", slog.String("owner", owner), slog.Any("error", err))
		}
	}

	return notification, nil
}

func (srv *notificationService) MarkRead(ctx context.Context, owner, id string) error {
	return srv.mutate(ctx, owner, func(list []*entity.Notification) []*entity.Notification {
		for _, n := range list {
			if n.ID == id {
				n.Read = true
			}
		}

		return list
	})
}

func (srv *notificationService) MarkAllRead(ctx context.Context, owner string) error {
	return srv.mutate(ctx, owner, func(list []*entity.Notification) []*entity.Notification {
		for _, n := range list {
			n.Read = true
		}

		return list
	})
}

func (srv *notificationService) Remove(ctx context.Context, owner, id string) error {
	return srv.mutate(ctx, owner, func(list []*entity.Notification) []*entity.Notification {
		kept := list[:0]
		for _, n := range list {
			if n.ID != id {
				kept = append(kept, n)
			}
		}

		return kept
	})
}

func (srv *notificationService) Clear(ctx context.Context, owner string) error {
	return srv.mutate(ctx, owner, func([]*entity.Notification) []*entity.Notification {
		return []*entity.Notification{}
	})
}

func (srv *notificationService) Owners(ctx context.Context) ([]string, error) {
	owners, err := srv.repo.Owners(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list notification owners")
	}

	return owners, nil
}

func (srv *notificationService) UnreadCount(ctx context.Context, owner string) (int, error) {
	list, err := srv.List(ctx, owner)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, n := range list {
		if !n.Read {
			count++
		}
	}

	return count, nil
}

func (srv *notificationService) GetPreferences(ctx context.Context, owner string) (entity.Preferences, error) {
	prefs, err := srv.repo.GetPreferences(ctx, owner)
	if err != nil {
		return prefs, errors.Wrap(err, "failed to get preferences")
	}

	return prefs, nil
}

// UpdatePreferences merges the patch. Stored notifications are left as they are.
func (srv *notificationService) UpdatePreferences(ctx context.Context, owner string, patch entity.PreferencesPatch) (entity.Preferences, error) {
	unlock := srv.locks.Lock(owner)
	defer unlock()

	current, err := srv.repo.GetPreferences(ctx, owner)
	if err != nil {
		return current, errors.Wrap(err, "failed to get preferences")
	}

	updated := patch.Apply(current)
	if err := srv.repo.SavePreferences(ctx, owner, updated); err != nil {
		return current, errors.Wrap(err, "failed to save preferences")
	}

	return updated, nil
}

func (srv *notificationService) GetDesktopPermission(ctx context.Context, owner string) (entity.DesktopPermission, error) {
	perm, err := srv.repo.GetDesktopPermission(ctx, owner)
	if err != nil {
		return entity.DesktopPermissionDefault, errors.Wrap(err, "failed to get desktop permission")
	}

	return perm, nil
}

func (srv *notificationService) SetDesktopPermission(ctx context.Context, owner string, perm entity.DesktopPermission) error {
	if !perm.Valid() {
		return domainerrors.ErrValidationFailed.WithDetails("unknown desktop permission: " + string(perm))
	}

	srv.log(ctx).Info("Desktop permission answered", slog.String("owner", owner), slog.String("permission", string(perm)))

	return srv.gate.Answer(ctx, owner, perm)
}

// mutate runs a read-modify-write of the owner's list under the owner's lock.
func (srv *notificationService) mutate(ctx context.Context, owner string, apply func([]*entity.Notification) []*entity.Notification) error {
	unlock := srv.locks.Lock(owner)
	defer unlock()

	list, err := srv.repo.List(ctx, owner)
	if err != nil {
		return errors.Wrap(err, "failed to load notifications")
	}

	if err := srv.repo.Save(ctx, owner, apply(list)); err != nil {
		return errors.Wrap(err, "failed to save notifications")
	}

	return nil
}
