package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"ireporter/internal/apperror"
	"ireporter/internal/models"
)

type recordRepository struct {
	db   *sqlx.DB
	kind models.RecordKind
}

func NewRecordRepository(db *sqlx.DB, kind models.RecordKind) RecordRepository {
	return &recordRepository{db: db, kind: kind}
}

func (r *recordRepository) Kind() models.RecordKind {
	return r.kind
}

func (r *recordRepository) List(ctx context.Context, userID *int64) ([]models.Record, error) {
	query, args, err := selectAll(r.kind.Table, "user_id", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s query: %w", r.kind.Name, err)
	}

	records := []models.Record{}
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list %ss: %w", r.kind.Name, err)
	}

	return records, nil
}

func (r *recordRepository) GetByID(ctx context.Context, id int64) (*models.Record, error) {
	var record models.Record

	query, args, err := selectByID(r.kind.Table, id)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s query: %w", r.kind.Name, err)
	}

	if err := r.db.GetContext(ctx, &record, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.Newf(apperror.NotFound, "%s not found", r.kind.Name)
		}
		return nil, fmt.Errorf("failed to get %s: %w", r.kind.Name, err)
	}

	return &record, nil
}

// Create inserts a record with status Pending unless the same user already
// filed one with identical agency, county, title and description.
func (r *recordRepository) Create(ctx context.Context, record *models.Record) error {
	if record.Status == "" {
		record.Status = models.StatusPending
	}
	if record.Media == nil {
		record.Media = pq.StringArray{}
	}

	unique := []models.ColumnValue{
		{Column: "user_id", Value: record.UserID},
		{Column: "govt_agency", Value: record.GovtAgency},
		{Column: "county", Value: record.County},
		{Column: "title", Value: record.Title},
		{Column: "description", Value: record.Description},
	}

	insert := []models.ColumnValue{
		{Column: "govt_agency", Value: record.GovtAgency},
		{Column: "county", Value: record.County},
		{Column: "title", Value: record.Title},
		{Column: "description", Value: record.Description},
		{Column: "media", Value: record.Media},
		{Column: "status", Value: record.Status},
		{Column: "latitude", Value: record.Latitude},
		{Column: "longitude", Value: record.Longitude},
		{Column: "location_url", Value: record.LocationURL},
		{Column: "user_id", Value: record.UserID},
	}

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		id, err := insertUnique(ctx, tx, r.kind.Table, r.kind.Name, unique, insert)
		if err != nil {
			return err
		}
		record.ID = id
		return nil
	})
}

func (r *recordRepository) Update(ctx context.Context, id int64, cols []models.ColumnValue) (*models.Record, error) {
	var record models.Record

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := updateColumns(ctx, tx, r.kind.Table, r.kind.Name, id, cols); err != nil {
			return err
		}

		query, args, err := selectByID(r.kind.Table, id)
		if err != nil {
			return err
		}
		if err := tx.GetContext(ctx, &record, query, args...); err != nil {
			return fmt.Errorf("failed to reload %s: %w", r.kind.Name, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &record, nil
}

// Delete removes the record together with its resolutions.
func (r *recordRepository) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query, args, err := psql.Delete(r.kind.ResolutionTable).Where(sq.Eq{"record_id": id}).ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return classifyDBError(err, fmt.Sprintf("failed to delete resolutions of %s", r.kind.Name))
		}

		return deleteByID(ctx, tx, r.kind.Table, r.kind.Name, id)
	})
}
