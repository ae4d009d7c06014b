package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateRunID creates a short, human-readable id for one booking run.
// Format: {train}-{dateWithoutYear}-{8charHexUUID}
//
// Example:
//   - Input: trainNumber="753", dateOfJourney="12-Apr-2026"
//   - Output: "753-12Apr-a3f8e2b1"
//
// Empty parts are left out, so GenerateRunID("", "") is the bare suffix.
func GenerateRunID(trainNumber, dateOfJourney string) string {
	parts := make([]string, 0, 3)
	if t := sanitize(trainNumber); t != "" {
		parts = append(parts, t)
	}
	if d := shortDate(dateOfJourney); d != "" {
		parts = append(parts, d)
	}
	parts = append(parts, generateShortUUID())
	return strings.Join(parts, "-")
}

// shortDate drops the year of a dd-Mon-yyyy date: "12-Apr-2026" -> "12Apr"
func shortDate(date string) string {
	segments := strings.Split(strings.TrimSpace(date), "-")
	if len(segments) == 3 {
		segments = segments[:2]
	}
	return sanitize(strings.Join(segments, ""))
}

// sanitize keeps letters and digits only
func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// generateShortUUID creates an 8-character hex string from a UUID
func generateShortUUID() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")[:8]
}
