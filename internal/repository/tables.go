package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type tablesRepository struct {
	db *sqlx.DB
}

func NewTablesRepository(db *sqlx.DB) TablesRepository {
	return &tablesRepository{db: db}
}

// MissingTables returns the names in expected that do not exist in the public schema.
func (r *tablesRepository) MissingTables(ctx context.Context, expected []string) ([]string, error) {
	var present []string

	err := r.db.SelectContext(ctx, &present, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public' AND table_name = ANY($1)
	`, pq.Array(expected))
	if err != nil {
		return nil, fmt.Errorf("failed to inspect database tables: %w", err)
	}

	found := make(map[string]bool, len(present))
	for _, name := range present {
		found[name] = true
	}

	missing := []string{}
	for _, name := range expected {
		if !found[name] {
			missing = append(missing, name)
		}
	}

	return missing, nil
}

// Truncate empties the given tables and resets their id sequences.
func (r *tablesRepository) Truncate(ctx context.Context, tables []string) error {
	if len(tables) == 0 {
		return nil
	}
	quoted := make([]string, len(tables))
	for i, name := range tables {
		quoted[i] = pq.QuoteIdentifier(name)
	}

	query := fmt.Sprintf("TRUNCATE %s RESTART IDENTITY CASCADE", strings.Join(quoted, ", "))
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to truncate tables: %w", err)
		}
		return nil
	})
}
