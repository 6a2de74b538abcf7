// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"portal/internal/domain/entity"
)

// DeviceRepository stores a user's recent device records and session helper flags.
type DeviceRepository interface {
	// List returns the stored devices, oldest first.
	List(ctx context.Context, owner string) ([]*entity.Device, error)

	// Save replaces the whole device list.
	Save(ctx context.Context, owner string, devices []*entity.Device) error

	// GetRememberMe reads the raw rememberMe flag. Missing reads as "".
	GetRememberMe(ctx context.Context, owner string) (string, error)

	// SetRememberMe stores the raw rememberMe flag.
	SetRememberMe(ctx context.Context, owner string, value string) error
}
