package service

import (
	"context"

	"ireporter/internal/apperror"
	"ireporter/internal/models"
	"ireporter/internal/repository"
)

type ResolutionService interface {
	Kind() models.RecordKind
	List(ctx context.Context, recordID *int64) ([]models.Resolution, error)
	Get(ctx context.Context, id int64) (*models.Resolution, error)
	Create(ctx context.Context, principal *models.Principal, resolution *models.Resolution) error
	Update(ctx context.Context, principal *models.Principal, id int64, patch models.ResolutionPatch) (*models.Resolution, error)
	Delete(ctx context.Context, principal *models.Principal, id int64) error
}

type resolutionService struct {
	repo repository.ResolutionRepository
}

func NewResolutionService(repo repository.ResolutionRepository) ResolutionService {
	return &resolutionService{repo: repo}
}

func (s *resolutionService) Kind() models.RecordKind {
	return s.repo.Kind()
}

func (s *resolutionService) List(ctx context.Context, recordID *int64) ([]models.Resolution, error) {
	return s.repo.List(ctx, recordID)
}

func (s *resolutionService) Get(ctx context.Context, id int64) (*models.Resolution, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *resolutionService) Create(ctx context.Context, principal *models.Principal, resolution *models.Resolution) error {
	if err := requireAdmin(principal); err != nil {
		return err
	}
	if !models.ValidStatus(resolution.Status) {
		return apperror.Newf(apperror.Validation, "invalid status %q", resolution.Status)
	}

	return s.repo.Create(ctx, resolution)
}

func (s *resolutionService) Update(ctx context.Context, principal *models.Principal, id int64, patch models.ResolutionPatch) (*models.Resolution, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if patch.Status != nil && !models.ValidStatus(*patch.Status) {
		return nil, apperror.Newf(apperror.Validation, "invalid status %q", *patch.Status)
	}

	return s.repo.Update(ctx, id, patch.Columns())
}

func (s *resolutionService) Delete(ctx context.Context, principal *models.Principal, id int64) error {
	if err := requireAdmin(principal); err != nil {
		return err
	}

	return s.repo.Delete(ctx, id)
}

func requireAdmin(principal *models.Principal) error {
	if principal == nil {
		return apperror.New(apperror.Authentication, "authentication required")
	}
	if !principal.Allows(models.RoleAdmin) {
		return apperror.New(apperror.Forbidden, "admin access required")
	}
	return nil
}
