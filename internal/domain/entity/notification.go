// Package entity contains the core business objects of the project.
package entity

import (
	"time"
)

// NotificationType classifies a notification for display.
type NotificationType string

const (
	NotificationTypeInfo    NotificationType = "info"
	NotificationTypeSuccess NotificationType = "success"
	NotificationTypeWarning NotificationType = "warning"
	NotificationTypeError   NotificationType = "error"
)

// Valid reports whether t is one of the known notification types.
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationTypeInfo, NotificationTypeSuccess, NotificationTypeWarning, NotificationTypeError:
		return true
	default:
		return false
	}
}

// Notification is a single stored user-facing message with read state.
type Notification struct {
	ID        string           `json:"id" validate:"required"`                                    // Opaque unique identifier.
	Timestamp time.Time        `json:"timestamp" validate:"required"`                             // Creation time, serialized as ISO-8601.
	Read      bool             `json:"read"`                                                      // Whether the user has seen it.
	Type      NotificationType `json:"type" validate:"required,oneof=info success warning error"` // Display category.
	Title     string           `json:"title"`                                                     // Short headline.
	Message   string           `json:"message"`                                                   // Body text.
}

// NotificationDraft is what callers supply when adding a notification.
type NotificationDraft struct {
	Type    NotificationType `json:"type"`
	Title   string           `json:"title"`
	Message string           `json:"message"`
}

// Preferences is the flat set of notification channel toggles.
type Preferences struct {
	Email   bool `json:"email"`
	Push    bool `json:"push"`
	SMS     bool `json:"sms"`
	Desktop bool `json:"desktop"`
	Sound   bool `json:"sound"`
}

// DefaultPreferences returns the toggles used when nothing is stored.
func DefaultPreferences() Preferences {
	return Preferences{
		Email:   true,
		Push:    true,
		SMS:     false,
		Desktop: true,
		Sound:   true,
	}
}

// PreferencesPatch is a partial update. Nil fields keep their current value.
type PreferencesPatch struct {
	Email   *bool `json:"email,omitempty"`
	Push    *bool `json:"push,omitempty"`
	SMS     *bool `json:"sms,omitempty"`
	Desktop *bool `json:"desktop,omitempty"`
	Sound   *bool `json:"sound,omitempty"`
}

// Apply performs a shallow merge of the patch onto p and returns the result.
func (patch PreferencesPatch) Apply(p Preferences) Preferences {
	if patch.Email != nil {
		p.Email = *patch.Email
	}
	if patch.Push != nil {
		p.Push = *patch.Push
	}
	if patch.SMS != nil {
		p.SMS = *patch.SMS
	}
	if patch.Desktop != nil {
		p.Desktop = *patch.Desktop
	}
	if patch.Sound != nil {
		p.Sound = *patch.Sound
	}

	return p
}

// DesktopPermission mirrors the platform permission states for OS-level alerts.
type DesktopPermission string

const (
	DesktopPermissionGranted DesktopPermission = "granted"
	DesktopPermissionDenied  DesktopPermission = "denied"
	DesktopPermissionDefault DesktopPermission = "default"
)

// Valid reports whether p is a known permission state.
func (p DesktopPermission) Valid() bool {
	return p == DesktopPermissionGranted || p == DesktopPermissionDenied || p == DesktopPermissionDefault
}
