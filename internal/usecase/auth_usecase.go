// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"portal/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to create an account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Client   *DeviceInfo // optional, recorded as the current device
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email      string
	Password   string
	RememberMe *bool       // nil leaves the stored flag untouched
	Client     *DeviceInfo // optional, recorded as the current device
}

// --- Output DTOs ---

// AuthOutput is returned by both Register and Login.
type AuthOutput struct {
	User      entity.PublicUser `json:"user"`
	Token     string            `json:"token"`
	SessionID string            `json:"sessionId"`
	ExpiresAt time.Time         `json:"expiresAt"`
}

// AuthUsecase defines account registration, login and logout.
type AuthUsecase interface {
	Register(ctx context.Context, input RegisterInput) (*AuthOutput, error)
	Login(ctx context.Context, input LoginInput) (*AuthOutput, error)
	Logout(ctx context.Context, sessionID string) error
}
