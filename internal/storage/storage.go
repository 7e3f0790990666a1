package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"ireporter/internal/config"
)

// Storage puts uploaded media into an object store and returns the URL
// under which the object can be fetched.
type Storage interface {
	Upload(ctx context.Context, folder, fileName string, file io.Reader, size int64) (string, error)
}

// New returns the provider selected by cfg.StorageProvider.
func New(ctx context.Context, cfg *config.Config) (Storage, error) {
	switch cfg.StorageProvider {
	case "minio":
		client, err := NewMinIOClient(ctx, cfg.MinIO)
		if err != nil {
			return nil, err
		}
		return client, nil
	case "s3":
		client, err := NewS3Client(cfg.S3)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.StorageProvider)
	}
}

var timeNow = time.Now

// objectName builds <folder>/<yyyy>/<mm>/<uuid><ext>.
func objectName(folder, fileName string, now time.Time) string {
	return fmt.Sprintf("%s/%d/%02d/%s%s",
		folder,
		now.Year(),
		now.Month(),
		uuid.New().String(),
		strings.ToLower(filepath.Ext(fileName)))
}

func contentType(fileName string) string {
	ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(fileName)))
	if ct == "" {
		return "application/octet-stream"
	}
	return ct
}

func joinURL(base string, parts ...string) string {
	return strings.TrimSuffix(base, "/") + "/" + strings.Join(parts, "/")
}
