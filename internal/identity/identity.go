// Package identity generates the opaque unique identifiers assigned to
// every persisted record at creation time.
package identity

import (
	"fmt"

	"github.com/google/uuid"
)

// NewID returns a new cryptographically-random UUID string. It fails only
// when the OS randomness source is unavailable; callers treat that as fatal
// since records cannot be created without unique ids.
func NewID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}
	return id.String(), nil
}
