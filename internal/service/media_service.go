package service

import (
	"context"
	"io"
	"strings"

	"go.uber.org/zap"

	"ireporter/internal/apperror"
	"ireporter/internal/models"
	"ireporter/internal/storage"
)

type UploadObserver interface {
	ObserveUpload(folder string, err error)
}

type MediaService interface {
	Upload(ctx context.Context, kind models.RecordKind, fileName string, file io.Reader, size int64) (string, error)
}

type mediaService struct {
	storage  storage.Storage
	observer UploadObserver
	log      *zap.Logger
}

func NewMediaService(store storage.Storage, observer UploadObserver, log *zap.Logger) MediaService {
	return &mediaService{storage: store, observer: observer, log: log}
}

// Upload stores a file in the folder of the given record kind and returns its URL.
func (s *mediaService) Upload(ctx context.Context, kind models.RecordKind, fileName string, file io.Reader, size int64) (string, error) {
	if strings.TrimSpace(fileName) == "" {
		return "", apperror.New(apperror.Validation, "no file selected")
	}
	if size == 0 {
		return "", apperror.New(apperror.Validation, "uploaded file is empty")
	}

	url, err := s.storage.Upload(ctx, kind.UploadFolder, fileName, file, size)
	if s.observer != nil {
		s.observer.ObserveUpload(kind.UploadFolder, err)
	}
	if err != nil {
		s.log.Error("media upload failed",
			zap.String("folder", kind.UploadFolder),
			zap.String("file", fileName),
			zap.Error(err))
		return "", apperror.Wrap(apperror.Upload, "upload failed", err)
	}

	s.log.Info("media uploaded", zap.String("folder", kind.UploadFolder), zap.String("url", url))
	return url, nil
}
