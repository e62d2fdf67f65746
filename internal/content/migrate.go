package content

import (
	"context"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// Migrate applies the content schema. Every statement is idempotent, so
// running it on an already-migrated database is a no-op.
func Migrate(ctx context.Context, db DBTX) error {
	if _, err := db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply content schema: %w", err)
	}
	return nil
}
