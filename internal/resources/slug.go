package resources

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// buildSlug derives a URL-safe slug from the resource name with a short
// unique suffix so renames and duplicate names never collide.
func buildSlug(name string, id uuid.UUID) string {
	base := slugify(name)
	if base == "" {
		base = "resource"
	}
	return base + "-" + id.String()[:8]
}

func slugify(s string) string {
	var b strings.Builder
	lastDash := true

	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteRune('-')
			lastDash = true
		}
	}

	return strings.Trim(b.String(), "-")
}
