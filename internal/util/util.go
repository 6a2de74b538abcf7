// Package util holds small helpers shared across layers.
package util

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Checksum returns the hex SHA256 of data.
func Checksum(data []byte) string {
	sum := sha256.Sum256(data)

	return hex.EncodeToString(sum[:])
}

// FormatBytes formats bytes into human readable format.
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	const units = "KMGTPEZY"
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit && exp < len(units)-1; n /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), units[exp])
}

// HumanizeDuration spells a duration out in the largest whole unit, e.g. "5 minutes", "1 hour", "45 seconds".
// Durations are rounded to the second first.
func HumanizeDuration(duration time.Duration) string {
	duration = duration.Round(time.Second)

	switch {
	case duration >= time.Hour && duration%time.Hour == 0:
		return plural(int(duration/time.Hour), "hour")
	case duration >= time.Minute && duration%time.Minute == 0:
		return plural(int(duration/time.Minute), "minute")
	default:
		return plural(int(duration/time.Second), "second")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}

	return fmt.Sprintf("%d %ss", n, unit)
}
