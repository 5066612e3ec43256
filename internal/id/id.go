// Package id provides identifier generation utilities.
// This is the canonical source for ID generation across the codebase.
package id

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

// Identity generates the identity token assigned to a rule at
// registration. Tokens are UUID v4 strings; they only need to be unique
// within one session, but a UUID keeps them unambiguous in logs that
// span sessions.
func Identity() string {
	return uuid.NewString()
}

// Short generates a short random hex ID (16 characters).
// Suitable for user-facing IDs where brevity matters.
func Short() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
