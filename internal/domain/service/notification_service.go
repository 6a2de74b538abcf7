package service

import (
	"context"

	"portal/internal/domain/entity"
)

// DesktopNotifier delivers an OS-level alert for a notification to the owner's clients.
// Callers must check the owner's desktop permission before calling Deliver.
type DesktopNotifier interface {
	Deliver(ctx context.Context, owner string, notification *entity.Notification) error
}
