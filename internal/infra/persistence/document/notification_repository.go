package document

import (
	"context"
	"log/slog"

	"portal/internal/domain/entity"
	"portal/internal/domain/repository"
	"portal/internal/errors"
)

type notificationRepository struct {
	codec *codec
}

// NewNotificationRepository stores notifications and preferences in the owner's namespace.
func NewNotificationRepository(store repository.DocumentStore, logger *slog.Logger) repository.NotificationRepository {
	return &notificationRepository{codec: newCodec(store, logger)}
}

func (r *notificationRepository) List(ctx context.Context, owner string) ([]*entity.Notification, error) {
	return loadList[entity.Notification](ctx, r.codec, owner, KeyNotifications)
}

func (r *notificationRepository) Owners(ctx context.Context) ([]string, error) {
	owners, err := r.codec.store.Namespaces(ctx, KeyNotifications)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list notification owners")
	}

	return owners, nil
}

func (r *notificationRepository) Save(ctx context.Context, owner string, notifications []*entity.Notification) error {
	if notifications == nil {
		notifications = []*entity.Notification{}
	}

	return r.codec.put(ctx, owner, KeyNotifications, notifications)
}

func (r *notificationRepository) GetPreferences(ctx context.Context, owner string) (entity.Preferences, error) {
	// Missing fields keep their default, matching a shallow merge over the defaults.
	prefs := entity.DefaultPreferences()

	stored, ok, err := loadValue[entity.PreferencesPatch](ctx, r.codec, owner, KeyPreferences)
	if err != nil || !ok {
		return prefs, err
	}

	return stored.Apply(prefs), nil
}

func (r *notificationRepository) SavePreferences(ctx context.Context, owner string, prefs entity.Preferences) error {
	return r.codec.put(ctx, owner, KeyPreferences, prefs)
}

func (r *notificationRepository) GetDesktopPermission(ctx context.Context, owner string) (entity.DesktopPermission, error) {
	perm, ok, err := loadValue[entity.DesktopPermission](ctx, r.codec, owner, KeyDesktopPermission)
	if err != nil || !ok || !perm.Valid() {
		return entity.DesktopPermissionDefault, err
	}

	return perm, nil
}

func (r *notificationRepository) SaveDesktopPermission(ctx context.Context, owner string, perm entity.DesktopPermission) error {
	return r.codec.put(ctx, owner, KeyDesktopPermission, perm)
}
