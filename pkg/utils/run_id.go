package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateRunID creates a short, human-readable run id.
// Format: {scenario}-{8charHexUUID}
//
// Example:
//   - Input: scenario="Starter Room"
//   - Output: "starter-room-a3f8e2b1"
//
// An empty scenario name yields "run-{8charHexUUID}".
func GenerateRunID(scenario string) string {
	prefix := slug(scenario)
	if prefix == "" {
		prefix = "run"
	}
	return prefix + "-" + generateShortUUID()
}

// slug lowercases the name and joins its alphanumeric words with hyphens
func slug(name string) string {
	fields := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	return strings.Join(fields, "-")
}

// generateShortUUID creates an 8-character hex string from a UUID
func generateShortUUID() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")[:8]
}
