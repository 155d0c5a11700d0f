package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// StateName converts a hyphenated slug into a display name by capitalising each
// hyphen-separated segment: "tamil-nadu" becomes "Tamil Nadu".
func StateName(slug string) string {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return ""
	}
	title := cases.Title(language.Und, cases.NoLower)
	segments := strings.Split(slug, "-")
	for i, segment := range segments {
		segments[i] = title.String(segment)
	}
	return strings.Join(segments, " ")
}

// StateSlug builds the URL slug for a state name: lowercase, whitespace runs replaced by hyphens.
func StateSlug(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

// fold returns a case-folded copy of s for case-insensitive comparisons.
func fold(c cases.Caser, s string) string {
	return c.String(s)
}
