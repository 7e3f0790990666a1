package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"ireporter/internal/apperror"
	"ireporter/internal/models"
)

type resolutionRepository struct {
	db   *sqlx.DB
	kind models.RecordKind
}

func NewResolutionRepository(db *sqlx.DB, kind models.RecordKind) ResolutionRepository {
	return &resolutionRepository{db: db, kind: kind}
}

func (r *resolutionRepository) Kind() models.RecordKind {
	return r.kind
}

func (r *resolutionRepository) label() string {
	return r.kind.Name + " resolution"
}

func (r *resolutionRepository) List(ctx context.Context, recordID *int64) ([]models.Resolution, error) {
	query, args, err := selectAll(r.kind.ResolutionTable, "record_id", recordID)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s query: %w", r.label(), err)
	}

	resolutions := []models.Resolution{}
	if err := r.db.SelectContext(ctx, &resolutions, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list %ss: %w", r.label(), err)
	}

	return resolutions, nil
}

func (r *resolutionRepository) GetByID(ctx context.Context, id int64) (*models.Resolution, error) {
	var resolution models.Resolution

	query, args, err := selectByID(r.kind.ResolutionTable, id)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s query: %w", r.label(), err)
	}

	if err := r.db.GetContext(ctx, &resolution, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.Newf(apperror.NotFound, "%s not found", r.label())
		}
		return nil, fmt.Errorf("failed to get %s: %w", r.label(), err)
	}

	return &resolution, nil
}

// Create attaches a resolution to an existing record and moves the record
// to the resolution's status.
func (r *resolutionRepository) Create(ctx context.Context, resolution *models.Resolution) error {
	unique := []models.ColumnValue{
		{Column: "status", Value: resolution.Status},
		{Column: "justification", Value: resolution.Justification},
		{Column: "additional_comments", Value: resolution.AdditionalComments},
		{Column: "record_id", Value: resolution.RecordID},
	}

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := r.ensureParent(ctx, tx, resolution.RecordID); err != nil {
			return err
		}

		id, err := insertUnique(ctx, tx, r.kind.ResolutionTable, r.label(), unique, unique)
		if err != nil {
			return err
		}
		resolution.ID = id

		return r.setParentStatus(ctx, tx, resolution.RecordID, resolution.Status)
	})
}

// Update applies a partial update; when status or record_id change, the
// (possibly new) parent record takes the resolution's status.
func (r *resolutionRepository) Update(ctx context.Context, id int64, cols []models.ColumnValue) (*models.Resolution, error) {
	var resolution models.Resolution

	propagate := false
	for _, c := range cols {
		if c.Column == "status" || c.Column == "record_id" {
			propagate = true
		}
	}

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := updateColumns(ctx, tx, r.kind.ResolutionTable, r.label(), id, cols); err != nil {
			return err
		}

		query, args, err := selectByID(r.kind.ResolutionTable, id)
		if err != nil {
			return err
		}
		if err := tx.GetContext(ctx, &resolution, query, args...); err != nil {
			return fmt.Errorf("failed to reload %s: %w", r.label(), err)
		}

		if !propagate {
			return nil
		}
		return r.setParentStatus(ctx, tx, resolution.RecordID, resolution.Status)
	})
	if err != nil {
		return nil, err
	}

	return &resolution, nil
}

func (r *resolutionRepository) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		return deleteByID(ctx, tx, r.kind.ResolutionTable, r.label(), id)
	})
}

func (r *resolutionRepository) ensureParent(ctx context.Context, tx *sqlx.Tx, recordID int64) error {
	query, args, err := buildExists(r.kind.Table, []models.ColumnValue{{Column: "id", Value: recordID}})
	if err != nil {
		return err
	}

	var exists bool
	if err := tx.GetContext(ctx, &exists, query, args...); err != nil {
		return fmt.Errorf("failed to check %s: %w", r.kind.Name, err)
	}
	if !exists {
		return apperror.Newf(apperror.NotFound, "%s not found", r.kind.Name)
	}
	return nil
}

func (r *resolutionRepository) setParentStatus(ctx context.Context, tx *sqlx.Tx, recordID int64, status string) error {
	query, args, err := buildUpdate(r.kind.Table, recordID, []models.ColumnValue{{Column: "status", Value: status}})
	if err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return classifyDBError(err, fmt.Sprintf("failed to update %s status", r.kind.Name))
	}

	return expectRow(result.RowsAffected, r.kind.Name)
}
