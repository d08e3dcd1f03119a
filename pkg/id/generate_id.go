package id

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
)

var reHex24 = regexp.MustCompile(`^[a-f0-9]{24}$`)

// NewID24 returns exactly 24 lowercase hex characters (no separators/prefixes).
// Every public record identifier on the platform uses this format.
func NewID24() string {
	b := make([]byte, 12)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// IsID24 reports whether s is a well-formed 24-char lowercase hex identifier.
func IsID24(s string) bool { return reHex24.MatchString(s) }
