package objectstore

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"resto-reviews-backend/internal/models"
)

// urlTTL is the validity window of every presigned URL issued by the store
const urlTTL = 60 * time.Second

// Store issues time-boxed presigned URLs for one fixed bucket and deletes
// blobs by key. It never proxies object bytes. The store does not retry:
// failures surface as models.ErrStorage and retry policy belongs to callers.
type Store struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
}

// New creates a store against an S3-compatible endpoint and runs an advisory
// connectivity probe. The probe is logged only; its failure never blocks the
// store from becoming ready.
func New(ctx context.Context, region, bucket, accessKey, secretKey, endpoint string) (*Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	s := &Store{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  bucket,
	}
	s.probe(ctx)
	return s, nil
}

// probe checks bucket reachability and that presigning works at all
func (s *Store) probe(ctx context.Context) {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		log.Error().Err(err).Str("bucket", s.bucket).Msg("Object store connectivity check failed")
		return
	}

	throwaway := "probe_" + uuid.New().String()
	if _, err := s.DownloadURL(ctx, throwaway); err != nil {
		log.Error().Err(err).Str("bucket", s.bucket).Msg("Object store presign check failed")
		return
	}
	log.Info().Str("bucket", s.bucket).Msg("Object store reachable")
}

// UploadURL issues a presigned PUT URL for a key
func (s *Store) UploadURL(ctx context.Context, key string) (string, error) {
	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = urlTTL
	})
	if err != nil {
		return "", fmt.Errorf("%w: presign upload for key %q: %v", models.ErrStorage, key, err)
	}
	return req.URL, nil
}

// DownloadURL issues a presigned GET URL for a key
func (s *Store) DownloadURL(ctx context.Context, key string) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = urlTTL
	})
	if err != nil {
		return "", fmt.Errorf("%w: presign download for key %q: %v", models.ErrStorage, key, err)
	}
	return req.URL, nil
}

// Delete removes a blob by key. Deleting an absent key is not an error;
// S3 DeleteObject already behaves that way.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("%w: delete blob %q: %v", models.ErrStorage, key, err)
	}
	return nil
}
