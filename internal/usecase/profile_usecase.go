package usecase

import (
	"context"

	"portal/internal/domain/entity"

	"github.com/google/uuid"
)

// UpdateProfileInput defines the editable profile fields.
type UpdateProfileInput struct {
	Name string `json:"name" validate:"required,max=200"`
}

// ProfileUsecase defines the interface for profile-related business operations.
type ProfileUsecase interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*entity.PublicUser, error)

	// UpdateProfile saves the profile and records a success or failure notification.
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*entity.PublicUser, error)
}
