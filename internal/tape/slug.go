package tape

import "strings"

const maxSlugLen = 48

// Slugify derives a filename-safe slug from a title: lowercase, runs of
// non-alphanumerics collapsed to a single "-", separators trimmed, length
// capped. An empty result falls back to "tape".
func Slugify(s string) string {
	var b strings.Builder
	lastDash := true // suppress a leading dash
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastDash = false
		} else if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}

	slug := strings.Trim(b.String(), "-")
	if len(slug) > maxSlugLen {
		slug = strings.Trim(slug[:maxSlugLen], "-")
	}
	if slug == "" {
		return "tape"
	}
	return slug
}
