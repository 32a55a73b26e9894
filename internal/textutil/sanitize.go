package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const (
	// MaxFileNameLength caps sanitized names, counted in runes.
	MaxFileNameLength = 200
	// PlaceholderFileName replaces titles that sanitize to nothing.
	PlaceholderFileName = "unnamed_file"
)

// forbiddenRunes covers path separators, shell metacharacters and quotes.
const forbiddenRunes = "/\\:*?\"'<>|!$&;`(){}[]#~%^=,@+"

// SanitizeFileName maps an arbitrary title to a deterministic, filesystem-safe
// name. Unsafe characters become underscores, runs of whitespace, hyphens and
// underscores collapse to a single underscore, and the result is trimmed of
// underscores and capped at MaxFileNameLength runes. It never returns an empty
// string and SanitizeFileName(SanitizeFileName(s)) == SanitizeFileName(s).
func SanitizeFileName(title string) string {
	title = norm.NFC.String(title)

	var b strings.Builder
	b.Grow(len(title))
	pendingSeparator := false
	for _, r := range title {
		if isSeparator(r) || isForbidden(r) {
			pendingSeparator = true
			continue
		}
		if pendingSeparator {
			b.WriteByte('_')
			pendingSeparator = false
		}
		b.WriteRune(r)
	}

	out := strings.Trim(b.String(), "_")
	if out == "" {
		return PlaceholderFileName
	}
	out = truncateRunes(out, MaxFileNameLength)
	// Truncation can expose a trailing separator.
	return strings.TrimRight(out, "_")
}

// IsSafeFileName reports whether name contains only characters SanitizeFileName keeps.
func IsSafeFileName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if isForbidden(r) || unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || unicode.IsSpace(r)
}

func isForbidden(r rune) bool {
	if unicode.IsControl(r) || r == unicode.ReplacementChar {
		return true
	}
	return strings.ContainsRune(forbiddenRunes, r)
}

func truncateRunes(value string, limit int) string {
	count := 0
	for idx := range value {
		if count == limit {
			return value[:idx]
		}
		count++
	}
	return value
}
