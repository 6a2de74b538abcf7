package usecase

import (
	"context"

	"portal/internal/domain/entity"
)

// DeviceInfo describes the client a login came from.
type DeviceInfo struct {
	UserAgent string `json:"userAgent"`
	Platform  string `json:"platform"` // may be empty; derived from UserAgent then
}

// DeviceUsecase defines the interface for device record use cases
type DeviceUsecase interface {
	// RecordLogin appends a current-device record and keeps only the most recent ones.
	RecordLogin(ctx context.Context, owner string, info DeviceInfo) (*entity.Device, error)

	// List returns stored devices, oldest first.
	List(ctx context.Context, owner string) ([]*entity.Device, error)

	// Remove deletes one record. Unknown IDs leave the list unchanged.
	Remove(ctx context.Context, owner, id string) error

	SetRememberMe(ctx context.Context, owner string, remember bool) error
	GetRememberMe(ctx context.Context, owner string) (bool, error)
}
