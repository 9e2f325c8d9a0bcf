// Package s3 implements the BlobStore interface on S3-compatible storage.
package s3

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const (
	presignExpiry = 15 * time.Minute

	// Download-URL fetch retry policy: fixed attempts, fixed delay.
	urlAttempts = 3
	urlDelay    = time.Second
)

// Config holds the credentials and location of the blob bucket.
type Config struct {
	Region       string
	Bucket       string
	BaseEndpoint string // set for MinIO or other S3-compatible stores
	AccessKey    string
	SecretKey    string
}

// Store implements the BlobStore interface over an S3 bucket.
type Store struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	logger  *slog.Logger
}

// NewStore creates an S3 blob store.
func NewStore(ctx context.Context, cfg Config, logger *slog.Logger) (*Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
		}
		o.UsePathStyle = cfg.BaseEndpoint != ""
	})

	return &Store{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
		logger:  logger,
	}, nil
}

// Upload stores data under key and returns the key.
func (s *Store) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	return key, nil
}

// DownloadURL returns a presigned GET URL for a stored key. Immediately after
// an upload the object can briefly 404 on eventually consistent stores, so
// the presign is attempted a fixed three times, one second apart.
func (s *Store) DownloadURL(ctx context.Context, key string) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= urlAttempts; attempt++ {
		req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
			Bucket: &s.bucket,
			Key:    &key,
		}, s3.WithPresignExpires(presignExpiry))
		if err == nil {
			return req.URL, nil
		}

		lastErr = err
		s.logger.Warn("presign attempt failed",
			"key", key,
			"attempt", attempt,
			"error", err,
		)

		if attempt < urlAttempts {
			select {
			case <-time.After(urlDelay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}

	return "", fmt.Errorf("presign %s after %d attempts: %w", key, urlAttempts, lastErr)
}

// AudioKey builds the storage key for an uploaded audio recording.
func AudioKey(entryID, ext string, now time.Time, id string) string {
	return fmt.Sprintf("audio/%s/%d_%s.%s", entryID, now.Unix(), id, ext)
}

// ImageKey builds the storage key for a poem/image upload.
func ImageKey(userID, entryID string) string {
	return fmt.Sprintf("poems/%s/%s", userID, entryID)
}
