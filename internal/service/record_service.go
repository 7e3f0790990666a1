package service

import (
	"context"

	"ireporter/internal/apperror"
	"ireporter/internal/models"
	"ireporter/internal/repository"
)

// RecordService applies the ownership rules shared by corruption reports and
// public petitions. One instance serves one RecordKind.
type RecordService interface {
	Kind() models.RecordKind
	List(ctx context.Context, userID *int64) ([]models.Record, error)
	Get(ctx context.Context, id int64) (*models.Record, error)
	Create(ctx context.Context, principal *models.Principal, record *models.Record) error
	Update(ctx context.Context, principal *models.Principal, id int64, patch models.RecordPatch) (*models.Record, error)
	Delete(ctx context.Context, principal *models.Principal, id int64) error
}

type recordService struct {
	repo repository.RecordRepository
}

func NewRecordService(repo repository.RecordRepository) RecordService {
	return &recordService{repo: repo}
}

func (s *recordService) Kind() models.RecordKind {
	return s.repo.Kind()
}

func (s *recordService) List(ctx context.Context, userID *int64) ([]models.Record, error) {
	return s.repo.List(ctx, userID)
}

func (s *recordService) Get(ctx context.Context, id int64) (*models.Record, error) {
	return s.repo.GetByID(ctx, id)
}

// Create files a new record as Pending. Users may only file for themselves.
func (s *recordService) Create(ctx context.Context, principal *models.Principal, record *models.Record) error {
	if principal == nil {
		return apperror.New(apperror.Authentication, "authentication required")
	}
	if !principal.IsAdmin() && record.UserID != principal.UserID {
		return apperror.Newf(apperror.Forbidden, "cannot create a %s for another user", s.Kind().Name)
	}

	record.Status = models.StatusPending
	record.AdminComments = nil

	return s.repo.Create(ctx, record)
}

func (s *recordService) Update(ctx context.Context, principal *models.Principal, id int64, patch models.RecordPatch) (*models.Record, error) {
	if principal == nil {
		return nil, apperror.New(apperror.Authentication, "authentication required")
	}
	if patch.Status != nil && !models.ValidStatus(*patch.Status) {
		return nil, apperror.Newf(apperror.Validation, "invalid status %q", *patch.Status)
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !principal.IsAdmin() {
		if current.UserID != principal.UserID {
			return nil, apperror.Newf(apperror.Forbidden, "you can only modify your own %ss", s.Kind().Name)
		}
		if patch.TouchesAdminFields() {
			return nil, apperror.New(apperror.Forbidden, "only admins can change status or admin comments")
		}
	}

	return s.repo.Update(ctx, id, patch.Columns())
}

func (s *recordService) Delete(ctx context.Context, principal *models.Principal, id int64) error {
	if principal == nil {
		return apperror.New(apperror.Authentication, "authentication required")
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !principal.IsAdmin() && current.UserID != principal.UserID {
		return apperror.Newf(apperror.Forbidden, "you can only delete your own %ss", s.Kind().Name)
	}

	return s.repo.Delete(ctx, id)
}
