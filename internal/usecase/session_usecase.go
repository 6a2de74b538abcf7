package usecase

import (
	"context"

	"portal/internal/domain/entity"
)

// SessionUsecase tracks inactivity for every logged-in session.
type SessionUsecase interface {
	// Start begins tracking a new session for the owner and returns its ID.
	Start(ctx context.Context, owner string) (string, error)

	// Touch records activity. It fails with ErrSessionExpired (carrying the notice) once
	// the session has expired, and with ErrSessionNotFound for unknown IDs.
	Touch(ctx context.Context, sessionID string) error

	// Status returns a snapshot without counting as activity.
	Status(ctx context.Context, sessionID string) (*entity.SessionStatus, error)

	// End logs the session out explicitly.
	End(ctx context.Context, sessionID string) error

	// ActiveOwners lists owners with at least one session that has not expired.
	ActiveOwners() []string
}
