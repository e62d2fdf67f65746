package bulkimport

import (
	"regexp"
	"strings"
)

// NaturalKey is the normalized identifying string for an entity within one
// tenant scope: slug for subjects, lower-cased trimmed title for quizzes,
// lower-cased trimmed prompt for questions. Keeping it a distinct type
// forces every lookup through one of the normalization functions below.
type NaturalKey string

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a subject's natural key: lower-cased, with every
// non-alphanumeric run collapsed to a single dash.
func Slugify(name string) NaturalKey {
	slug := slugPattern.ReplaceAllString(strings.ToLower(name), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return "subject"
	}
	return NaturalKey(slug)
}

// TextKey derives a quiz's or question's natural key from its title or
// prompt.
func TextKey(s string) NaturalKey {
	return NaturalKey(strings.ToLower(strings.TrimSpace(s)))
}
