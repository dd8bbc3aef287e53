package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Sh4dowyy/yellow-cow-sub000/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// s3Store implements ObjectStore over any S3-compatible backend.
// Works with AWS S3, MinIO, DigitalOcean Spaces, Cloudflare R2.
type s3Store struct {
	client        *s3.Client
	avatarBucket  string
	productBucket string
	baseURL       string
	region        string
}

// NewS3Store builds the object store client from configuration
func NewS3Store(cfg config.StorageConfig) (ObjectStore, error) {
	opts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Region),
	}

	// Static credentials (required for MinIO / R2 / Spaces)
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsConfig, err := awscfg.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}

	clientOpts := []func(*s3.Options){}
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true // required for MinIO
		})
	}

	baseURL := strings.TrimRight(cfg.PublicBaseURL, "/")
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://s3.%s.amazonaws.com", cfg.Region)
	}

	return &s3Store{
		client:        s3.NewFromConfig(awsConfig, clientOpts...),
		avatarBucket:  cfg.AvatarBucket,
		productBucket: cfg.ProductBucket,
		baseURL:       baseURL,
		region:        cfg.Region,
	}, nil
}

// Upload stores the object and returns its public URL
func (s *s3Store) Upload(ctx context.Context, bucket Bucket, key string, contentType string, body io.Reader) (string, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucketName(bucket)),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload %s/%s: %w", bucket, key, err)
	}

	return s.PublicURL(bucket, key), nil
}

// PublicURL builds the fetchable URL for an uploaded object
func (s *s3Store) PublicURL(bucket Bucket, key string) string {
	return fmt.Sprintf("%s/%s/%s", s.baseURL, s.bucketName(bucket), strings.TrimLeft(key, "/"))
}

func (s *s3Store) bucketName(bucket Bucket) string {
	switch bucket {
	case BucketAvatars:
		return s.avatarBucket
	case BucketProductImages:
		return s.productBucket
	default:
		return string(bucket)
	}
}
