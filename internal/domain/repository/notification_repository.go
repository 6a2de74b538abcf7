package repository

import (
	"context"

	"portal/internal/domain/entity"
)

// NotificationRepository persists a user's notification list and channel preferences.
// Implementations never fail on malformed stored data; they read it as empty or default.
type NotificationRepository interface {
	// List returns the stored notifications, newest first.
	List(ctx context.Context, owner string) ([]*entity.Notification, error)

	// Owners lists every owner that has a stored notification list.
	Owners(ctx context.Context) ([]string, error)

	// Save replaces the whole list.
	Save(ctx context.Context, owner string, notifications []*entity.Notification) error

	// GetPreferences returns the stored preferences, or the defaults when none are stored.
	GetPreferences(ctx context.Context, owner string) (entity.Preferences, error)

	// SavePreferences replaces the stored preferences.
	SavePreferences(ctx context.Context, owner string, prefs entity.Preferences) error

	// GetDesktopPermission returns the stored permission, or DesktopPermissionDefault.
	GetDesktopPermission(ctx context.Context, owner string) (entity.DesktopPermission, error)

	// SaveDesktopPermission stores the permission answer.
	SaveDesktopPermission(ctx context.Context, owner string, perm entity.DesktopPermission) error
}
