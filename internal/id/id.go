// Package id mints short correlation identifiers for outbound catalog calls.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// requestIDLength keeps correlation ids short enough to read in logs.
const requestIDLength = 16

// Generate creates a prefixed NanoID of the given length, e.g. "req-V1StGXR8_Z5jdHi6".
func Generate(prefix string, length int) (string, error) {
	id, err := gonanoid.New(length)
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// RequestID returns a new correlation id for a catalog request.
// Falls back to a fixed marker if the entropy source fails.
func RequestID() string {
	id, err := Generate("req", requestIDLength)
	if err != nil {
		return "req-unavailable"
	}
	return id
}
