package users

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// UserIndexes are created after the tables exist. The unique constraint on
// email already carries its own index.
var UserIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_users_created_at ON users (created_at)`,
}

// CreateTables creates all necessary tables for the user store
func CreateTables(ctx context.Context, db *bun.DB) error {
	models := []interface{}{
		(*UserSchema)(nil),
	}

	for _, model := range models {
		_, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create table for model %T: %w", model, err)
		}
	}

	return nil
}

// CreateIndexes creates all necessary indexes for the user store
func CreateIndexes(ctx context.Context, db *bun.DB) error {
	for _, indexSQL := range UserIndexes {
		_, err := db.ExecContext(ctx, indexSQL)
		if err != nil {
			return fmt.Errorf("failed to create index with SQL %q: %w", indexSQL, err)
		}
	}

	return nil
}
