package usecase

import (
	"context"

	"portal/internal/domain/entity"
)

// NotificationUsecase manages a user's notification list, preferences and desktop permission.
type NotificationUsecase interface {
	// List returns notifications newest first.
	List(ctx context.Context, owner string) ([]*entity.Notification, error)

	// Add creates a notification at the head of the list and returns it.
	Add(ctx context.Context, owner string, draft entity.NotificationDraft) (*entity.Notification, error)

	MarkRead(ctx context.Context, owner, id string) error
	MarkAllRead(ctx context.Context, owner string) error
	Remove(ctx context.Context, owner, id string) error
	Clear(ctx context.Context, owner string) error

	// Owners lists the owners that have stored notifications, active session or not.
	Owners(ctx context.Context) ([]string, error)

	// UnreadCount returns how many stored notifications are unread.
	UnreadCount(ctx context.Context, owner string) (int, error)

	GetPreferences(ctx context.Context, owner string) (entity.Preferences, error)

	// UpdatePreferences merges the patch into the stored preferences and returns the result.
	UpdatePreferences(ctx context.Context, owner string, patch entity.PreferencesPatch) (entity.Preferences, error)

	GetDesktopPermission(ctx context.Context, owner string) (entity.DesktopPermission, error)

	// SetDesktopPermission records the user's answer to a permission request.
	SetDesktopPermission(ctx context.Context, owner string, perm entity.DesktopPermission) error
}
