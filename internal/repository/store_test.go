package repository

import (
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ireporter/internal/apperror"
	"ireporter/internal/models"
)

func TestBuildUpdate(t *testing.T) {
	query, args, err := buildUpdate("corruption_reports", 7, []models.ColumnValue{
		{Column: "title", Value: "T2"},
		{Column: "description", Value: "D2"},
	})

	require.NoError(t, err)
	assert.Equal(t,
		"UPDATE corruption_reports SET title = $1, description = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $3",
		query)
	assert.Equal(t, []any{"T2", "D2", int64(7)}, args)
}

func TestBuildInsert(t *testing.T) {
	query, args, err := buildInsert("petition_resolutions", []models.ColumnValue{
		{Column: "status", Value: "Resolved"},
		{Column: "record_id", Value: int64(3)},
	})

	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO petition_resolutions (status,record_id) VALUES ($1,$2) RETURNING id", query)
	assert.Equal(t, []any{"Resolved", int64(3)}, args)
}

func TestBuildExists(t *testing.T) {
	t.Run("keeps column order", func(t *testing.T) {
		query, args, err := buildExists("public_petitions", []models.ColumnValue{
			{Column: "user_id", Value: int64(2)},
			{Column: "title", Value: "Roads"},
		})

		require.NoError(t, err)
		assert.Equal(t,
			"SELECT EXISTS ( SELECT 1 FROM public_petitions WHERE user_id = $1 AND title = $2 )",
			query)
		assert.Equal(t, []any{int64(2), "Roads"}, args)
	})

	t.Run("nil matches NULL", func(t *testing.T) {
		var comments *string
		query, args, err := buildExists("corruption_resolutions", []models.ColumnValue{
			{Column: "status", Value: "Rejected"},
			{Column: "additional_comments", Value: comments},
		})

		require.NoError(t, err)
		assert.Equal(t,
			"SELECT EXISTS ( SELECT 1 FROM corruption_resolutions WHERE status = $1 AND additional_comments IS NULL )",
			query)
		assert.Equal(t, []any{"Rejected"}, args)
	})

	t.Run("set pointer is dereferenced", func(t *testing.T) {
		comments := "seen"
		_, args, err := buildExists("corruption_resolutions", []models.ColumnValue{
			{Column: "additional_comments", Value: &comments},
		})

		require.NoError(t, err)
		assert.Equal(t, []any{"seen"}, args)
	})
}

func TestSelectAll(t *testing.T) {
	query, args, err := selectAll("corruption_reports", "user_id", nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM corruption_reports ORDER BY id", query)
	assert.Empty(t, args)

	owner := int64(4)
	query, args, err = selectAll("corruption_reports", "user_id", &owner)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM corruption_reports WHERE user_id = $1 ORDER BY id", query)
	assert.Equal(t, []any{int64(4)}, args)
}

func TestClassifyDBError(t *testing.T) {
	err := classifyDBError(&pq.Error{Code: "23503"}, "failed to update")
	assert.True(t, apperror.Is(err, apperror.Integrity))

	err = classifyDBError(&pq.Error{Code: "22001"}, "failed to update")
	assert.True(t, apperror.Is(err, apperror.Validation))

	err = classifyDBError(errors.New("connection reset"), "failed to update")
	assert.Equal(t, apperror.Internal, apperror.KindOf(err))
	assert.Contains(t, err.Error(), "failed to update")
}
