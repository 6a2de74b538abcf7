// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is an account that can log in to the portal.
type User struct {
	ID           uuid.UUID `json:"id" validate:"required"`          // The Global Unique Identifier (GUID) for the user.
	Email        string    `json:"email" validate:"required,email"` // Login identifier, stored lower-cased.
	Name         string    `json:"name"`                            // Display name, may be empty.
	PasswordHash string    `json:"passwordHash" validate:"required"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PublicUser is the subset of User that is safe to return to clients.
type PublicUser struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

// Public strips credentials from the user.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email, Name: u.Name}
}
