package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"exercisely-backend/application/ports"
)

// S3MediaStorage implements the MediaStorage port on an S3 bucket.
// Clients upload directly against presigned URLs; the API never
// proxies image bytes.
type S3MediaStorage struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
	expiry    time.Duration
	logger    *zap.Logger
}

// NewS3MediaStorage creates a new S3MediaStorage.
func NewS3MediaStorage(client *s3.Client, bucket string, expirySeconds int, logger *zap.Logger) ports.MediaStorage {
	return &S3MediaStorage{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    bucket,
		expiry:    time.Duration(expirySeconds) * time.Second,
		logger:    logger,
	}
}

// PresignUpload returns a short-lived PUT URL for the key and the
// public URL the object will be served from after upload.
func (s *S3MediaStorage) PresignUpload(ctx context.Context, key, contentType string) (string, string, error) {
	request, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(s.expiry))
	if err != nil {
		return "", "", fmt.Errorf("failed to presign upload: %w", err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key)
	s.logger.Debug("presigned media upload",
		zap.String("key", key),
		zap.Duration("expiry", s.expiry),
	)
	return request.URL, publicURL, nil
}

// Delete removes an object by key.
func (s *S3MediaStorage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete media object: %w", err)
	}
	return nil
}
