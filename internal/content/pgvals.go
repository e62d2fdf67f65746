package content

import (
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// nullable maps an optional string field to its column value: blank strings
// become NULL so that empty and absent stay indistinguishable in the store.
func nullable(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

// normalizeKey lower-cases and trims a title or prompt to its natural key.
func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
