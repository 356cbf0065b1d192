// Package platform enumerates installed applications and launches them,
// with one scanner implementation per operating system behind build tags.
package platform

import (
	"strings"
	"unicode"

	"launchgrid/internal/types"
)

// AppScanner enumerates installed applications. Order of the returned slice
// is undefined; IDs are unique within one scan and stable across scans and
// restarts.
type AppScanner interface {
	Scan() ([]types.AppEntry, error)
}

// slugify derives a stable fallback identifier from a display name when no
// bundle or desktop-file identifier is available: lowercase, runs of
// non-alphanumerics collapsed to single dashes.
func slugify(name string) string {
	var b strings.Builder
	lastDash := true // suppress leading dash
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastDash = false
		} else if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// dedupeByID keeps the first entry for each id. Scan roots are walked in
// priority order (user dirs before system dirs), so first wins.
func dedupeByID(entries []types.AppEntry) []types.AppEntry {
	seen := make(map[string]struct{}, len(entries))
	result := entries[:0]
	for _, entry := range entries {
		if _, dup := seen[entry.ID]; dup {
			continue
		}
		seen[entry.ID] = struct{}{}
		result = append(result, entry)
	}
	return result
}
