package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"ireporter/internal/apperror"
	"ireporter/internal/models"
)

// The helpers below implement the write paths shared by records and
// resolutions: a uniqueness-checked insert and a partial column update.
// Table and column names come from models.RecordKind and the repositories,
// never from request input.

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// withTx runs fn in a transaction; any error from fn or from commit rolls it back.
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return classifyDBError(err, "failed to commit transaction")
	}
	return nil
}

// classifyDBError turns PostgreSQL integrity constraint violations (class 23)
// into apperror.Integrity, data exceptions (class 22, e.g. a value too long
// for its column) into apperror.Validation and wraps everything else.
func classifyDBError(err error, message string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "23":
			return apperror.Wrap(apperror.Integrity, message, err)
		case "22":
			return apperror.Wrap(apperror.Validation, message, err)
		}
	}
	return fmt.Errorf("%s: %w", message, err)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// insertUnique inserts a row unless a row with the same values in the unique
// columns already exists, in which case it fails with apperror.Conflict.
// NULLs compare equal for the duplicate check.
func insertUnique(ctx context.Context, tx *sqlx.Tx, table, label string, unique, insert []models.ColumnValue) (int64, error) {
	existsQuery, existsArgs, err := buildExists(table, unique)
	if err != nil {
		return 0, err
	}

	var exists bool
	if err := tx.GetContext(ctx, &exists, existsQuery, existsArgs...); err != nil {
		return 0, fmt.Errorf("failed to check for duplicate %s: %w", label, err)
	}
	if exists {
		return 0, apperror.Newf(apperror.Conflict, "%s already exists", label)
	}

	insertQuery, insertArgs, err := buildInsert(table, insert)
	if err != nil {
		return 0, err
	}

	var id int64
	if err := tx.GetContext(ctx, &id, insertQuery, insertArgs...); err != nil {
		return 0, classifyDBError(err, fmt.Sprintf("failed to create %s", label))
	}
	return id, nil
}

// updateColumns applies a partial update to one row and bumps updated_at.
func updateColumns(ctx context.Context, tx *sqlx.Tx, table, label string, id int64, cols []models.ColumnValue) error {
	if len(cols) == 0 {
		return apperror.New(apperror.Validation, "no fields to update")
	}

	query, args, err := buildUpdate(table, id, cols)
	if err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return classifyDBError(err, fmt.Sprintf("failed to update %s", label))
	}

	return expectRow(result.RowsAffected, label)
}

func deleteByID(ctx context.Context, tx *sqlx.Tx, table, label string, id int64) error {
	query, args, err := psql.Delete(table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return classifyDBError(err, fmt.Sprintf("failed to delete %s", label))
	}

	return expectRow(result.RowsAffected, label)
}

func expectRow(rowsAffected func() (int64, error), label string) error {
	n, err := rowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if n == 0 {
		return apperror.Newf(apperror.NotFound, "%s not found", label)
	}
	return nil
}

// selectAll lists a table ordered by id, optionally filtered on one column.
func selectAll(table, filterColumn string, filter *int64) (string, []any, error) {
	builder := psql.Select("*").From(table).OrderBy("id")
	if filter != nil {
		builder = builder.Where(sq.Eq{filterColumn: *filter})
	}
	return builder.ToSql()
}

func selectByID(table string, id int64) (string, []any, error) {
	return psql.Select("*").From(table).Where(sq.Eq{"id": id}).ToSql()
}

// buildExists renders one condition per column in the given order; a nil
// value (or nil pointer) becomes IS NULL so NULLs match each other.
func buildExists(table string, cols []models.ColumnValue) (string, []any, error) {
	builder := psql.Select("1").Prefix("SELECT EXISTS (").From(table).Suffix(")")
	for _, c := range cols {
		builder = builder.Where(sq.Eq{c.Column: c.Value})
	}
	return builder.ToSql()
}

func buildInsert(table string, cols []models.ColumnValue) (string, []any, error) {
	names := make([]string, 0, len(cols))
	values := make([]any, 0, len(cols))
	for _, c := range cols {
		names = append(names, c.Column)
		values = append(values, c.Value)
	}

	return psql.Insert(table).Columns(names...).Values(values...).Suffix("RETURNING id").ToSql()
}

func buildUpdate(table string, id int64, cols []models.ColumnValue) (string, []any, error) {
	builder := psql.Update(table)
	for _, c := range cols {
		builder = builder.Set(c.Column, c.Value)
	}

	return builder.
		Set("updated_at", sq.Expr("CURRENT_TIMESTAMP")).
		Where(sq.Eq{"id": id}).
		ToSql()
}
