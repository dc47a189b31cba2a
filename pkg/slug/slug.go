// Package slug turns arbitrary names into URL- and object-key-safe strings.
// Uploaded image filenames pass through here before becoming bucket keys.
package slug

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

const maxSlugLen = 64

// Generate creates a lowercase, hyphen-separated slug from the given name.
//
// Examples:
//   - "Lakeside Cabin" → "lakeside-cabin"
//   - "Höfn Cottage.PNG" → "h-fn-cottage-png"
//   - "   " → ""
func Generate(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = nonAlnum.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > maxSlugLen {
		s = strings.Trim(s[:maxSlugLen], "-")
	}
	return s
}
