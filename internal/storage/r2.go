// Package storage uploads exported reports to an S3-compatible bucket
// (Cloudflare R2 in production).
package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"salon-backend/internal/config"
)

// Bucket wraps one S3-compatible bucket for report uploads
type Bucket struct {
	client *s3.Client
	bucket string
}

// NewBucket builds the client from the export config. Returns nil when the
// bucket is not configured; callers treat a nil bucket as export disabled.
func NewBucket(ctx context.Context, cfg *config.Config) (*Bucket, error) {
	if cfg.Export.Bucket == "" || cfg.Export.AccessKey == "" {
		return nil, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.Export.AccessKey,
			cfg.Export.SecretKey,
			"",
		)),
		awsconfig.WithRegion(cfg.Export.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to configure storage client: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Export.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Export.Endpoint)
		}
	})
	return &Bucket{client: client, bucket: cfg.Export.Bucket}, nil
}

// Put uploads one object
func (b *Bucket) Put(ctx context.Context, key, contentType string, body []byte) error {
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

// List returns object keys under a prefix
func (b *Bucket) List(ctx context.Context, prefix string) ([]string, error) {
	result, err := b.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(b.bucket),
		Prefix: aws.String(prefix),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", prefix, err)
	}
	keys := make([]string, 0, len(result.Contents))
	for _, obj := range result.Contents {
		keys = append(keys, aws.ToString(obj.Key))
	}
	return keys, nil
}
