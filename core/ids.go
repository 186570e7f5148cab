package core

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"userconsole/utils"
)

// NewID generates a new ULID with the given prefix.
// The format is: prefix_ULID
// Example: core.NewID("cs") returns "cs_01G0EZ1XTM37C5X11SQTDNCTM1"
func NewID(prefix string) string {
	utils.AssertInvariant(strings.TrimSpace(prefix) != "", "prefix cannot be empty")

	entropy := ulid.Monotonic(rand.Reader, 0)
	id := ulid.MustNew(ulid.Timestamp(time.Now()), entropy)

	return strings.ToLower(strings.TrimSpace(prefix)) + "_" + id.String()
}

// IsValidULID reports whether id has the prefix_ULID shape produced by NewID.
func IsValidULID(id string) bool {
	prefix, ulidPart, ok := strings.Cut(id, "_")
	if !ok || prefix == "" || strings.Contains(ulidPart, "_") {
		return false
	}

	for _, r := range prefix {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')) {
			return false
		}
	}

	if len(ulidPart) != ulid.EncodedSize {
		return false
	}

	// ulid.Parse is case-insensitive, NewID always emits upper case
	if strings.ToUpper(ulidPart) != ulidPart {
		return false
	}

	_, err := ulid.ParseStrict(ulidPart)
	return err == nil
}
