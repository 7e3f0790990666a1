package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"ireporter/internal/config"
)

type s3Putter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Client struct {
	client  s3Putter
	bucket  string
	baseURL string
}

// NewS3Client builds a client for AWS S3 or any S3 compatible endpoint.
func NewS3Client(cfg config.S3) (*S3Client, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("S3 bucket is not configured")
	}

	opts := s3.Options{
		Region:       cfg.Region,
		UsePathStyle: cfg.UsePathStyle,
	}
	if cfg.AccessKeyID != "" {
		opts.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}

	return newS3Client(s3.New(opts), cfg), nil
}

func newS3Client(client s3Putter, cfg config.S3) *S3Client {
	baseURL := cfg.PublicURL
	switch {
	case baseURL != "":
	case cfg.Endpoint != "":
		baseURL = joinURL(cfg.Endpoint, cfg.Bucket)
	default:
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}

	return &S3Client{client: client, bucket: cfg.Bucket, baseURL: baseURL}
}

func (c *S3Client) Upload(ctx context.Context, folder, fileName string, file io.Reader, size int64) (string, error) {
	key := objectName(folder, fileName, timeNow())

	input := &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType(fileName)),
		Metadata:    map[string]string{"original-filename": fileName},
	}
	if size >= 0 {
		input.ContentLength = aws.Int64(size)
	}

	if _, err := c.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("S3 upload failed: %w", err)
	}

	return joinURL(c.baseURL, key), nil
}
