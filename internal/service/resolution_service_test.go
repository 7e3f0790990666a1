package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ireporter/internal/apperror"
	"ireporter/internal/models"
)

func newResolutionFixture() (*MockResolutionRepository, ResolutionService) {
	repo := &MockResolutionRepository{kind: models.PublicPetition}
	return repo, NewResolutionService(repo)
}

func TestResolutionService_Create(t *testing.T) {
	ctx := context.Background()
	resolution := &models.Resolution{Status: models.StatusResolved, Justification: "Done", RecordID: 3}

	t.Run("admin", func(t *testing.T) {
		repo, svc := newResolutionFixture()
		repo.On("Create", mock.Anything, resolution).Return(nil)

		require.NoError(t, svc.Create(ctx, admin, resolution))
		repo.AssertExpectations(t)
	})

	t.Run("non admin", func(t *testing.T) {
		repo, svc := newResolutionFixture()

		err := svc.Create(ctx, owner, resolution)

		assert.True(t, apperror.Is(err, apperror.Forbidden))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("anonymous", func(t *testing.T) {
		_, svc := newResolutionFixture()
		assert.True(t, apperror.Is(svc.Create(ctx, nil, resolution), apperror.Authentication))
	})

	t.Run("bad status", func(t *testing.T) {
		_, svc := newResolutionFixture()

		err := svc.Create(ctx, admin, &models.Resolution{Status: "Done", Justification: "x", RecordID: 3})
		assert.True(t, apperror.Is(err, apperror.Validation))
	})

	t.Run("missing parent", func(t *testing.T) {
		repo, svc := newResolutionFixture()
		repo.On("Create", mock.Anything, mock.Anything).
			Return(apperror.New(apperror.NotFound, "public petition not found"))

		err := svc.Create(ctx, admin, &models.Resolution{Status: models.StatusRejected, Justification: "x", RecordID: 99})
		assert.True(t, apperror.Is(err, apperror.NotFound))
	})
}

func TestResolutionService_UpdateDelete(t *testing.T) {
	ctx := context.Background()

	repo, svc := newResolutionFixture()
	repo.On("Update", mock.Anything, int64(4), []models.ColumnValue{{Column: "status", Value: models.StatusRejected}}).
		Return(&models.Resolution{ID: 4, Status: models.StatusRejected}, nil)
	repo.On("Delete", mock.Anything, int64(4)).Return(nil)

	resolution, err := svc.Update(ctx, admin, 4, models.ResolutionPatch{Status: strPtr(models.StatusRejected)})
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, resolution.Status)

	_, err = svc.Update(ctx, owner, 4, models.ResolutionPatch{Status: strPtr(models.StatusRejected)})
	assert.True(t, apperror.Is(err, apperror.Forbidden))

	_, err = svc.Update(ctx, admin, 4, models.ResolutionPatch{Status: strPtr("Whatever")})
	assert.True(t, apperror.Is(err, apperror.Validation))

	assert.NoError(t, svc.Delete(ctx, admin, 4))
	assert.True(t, apperror.Is(svc.Delete(ctx, stranger, 4), apperror.Forbidden))

	repo.AssertExpectations(t)
}
