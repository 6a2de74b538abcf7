// Package entity contains the core business objects of the project.
package entity

import (
	"regexp"
	"strings"
	"time"
)

// Device is a locally stored fingerprint of a browser or client, used for display only.
type Device struct {
	ID              string    `json:"id" validate:"required"`   // Random identifier.
	Name            string    `json:"name" validate:"required"` // Derived from user-agent sniffing.
	LastLogin       time.Time `json:"lastLogin"`                // Time of the login that produced this record.
	Browser         string    `json:"browser"`                  // Raw user-agent string.
	IsCurrentDevice bool      `json:"isCurrentDevice"`          // At most one record carries this flag.
}

var mobileAppleUA = regexp.MustCompile(`iPhone|iPad|iPod`)

// DeviceName derives a display name from the user agent and platform strings.
// Mobile checks look at the user agent, desktop checks at the platform.
func DeviceName(userAgent, platform string) string {
	switch {
	case mobileAppleUA.MatchString(userAgent):
		return "iOS Device"
	case strings.Contains(userAgent, "Android"):
		return "Android Device"
	case strings.Contains(platform, "Win"):
		return "Windows Device"
	case strings.Contains(platform, "Mac"):
		return "Mac Device"
	case strings.Contains(platform, "Linux"):
		return "Linux Device"
	default:
		return "Unknown Device"
	}
}
