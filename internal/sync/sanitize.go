// Package sync resolves remote course content into local download targets
// and materializes them on disk, skipping anything already present.
package sync

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// sanitizeReplacement substitutes for path separators inside remote names.
// A remote display name containing "/" is a name, not a directory hint.
const sanitizeReplacement = "-"

// SanitizeName makes a remote display name safe for use as a single path
// segment. Unicode is NFC-normalized first so the same logical name from
// different API responses maps to the same local path. Slashes become
// dashes; any character outside the alphanumeric/space/"._-" allow-list is
// dropped; surrounding whitespace is trimmed. Case is preserved.
// Deterministic: equal inputs always produce equal outputs.
func SanitizeName(name string) string {
	name = norm.NFC.String(name)
	name = strings.ReplaceAll(name, "/", sanitizeReplacement)

	var b strings.Builder
	b.Grow(len(name))

	for _, r := range name {
		if allowedRune(r) {
			b.WriteRune(r)
		}
	}

	out := strings.TrimSpace(b.String())
	if out == "" {
		return "untitled"
	}

	return out
}

func allowedRune(r rune) bool {
	switch r {
	case ' ', '.', '_', '-':
		return true
	}

	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
