// Package s3 keeps the catalog snapshot as one object in an S3 compatible bucket.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/GoSim-25-26J-441/product-catalog/internal/storage"
	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

const contentType = "application/json"

// Config holds explicit construction parameters.
type Config struct {
	Region          string
	Bucket          string
	Endpoint        string // optional; set for MinIO and other S3 compatible servers
	AccessKeyID     string // optional (falls back to default credentials chain)
	SecretAccessKey string
	PathStyle       bool
}

// Slot implements storage.Slot with a single object: <name>.json.
type Slot struct {
	client *s3.Client
	bucket string
	key    string
}

// New loads the AWS configuration and builds the client.
func New(ctx context.Context, cfg Config, name string) (*Slot, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return NewWithClient(client, cfg.Bucket, name), nil
}

// NewWithClient wraps a preconfigured client.
func NewWithClient(client *s3.Client, bucket, name string) *Slot {
	if name == "" {
		name = storage.DefaultKey
	}
	return &Slot{client: client, bucket: bucket, key: name + ".json"}
}

// Key returns the object key of the snapshot.
func (s *Slot) Key() string { return s.key }

func (s *Slot) Read(ctx context.Context) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &s.bucket, Key: &s.key})
	if err != nil {
		if isNotFound(err) {
			return nil, storage.ErrEmpty
		}
		return nil, fmt.Errorf("get snapshot object: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read snapshot object: %w", err)
	}
	return data, nil
}

func (s *Slot) Write(ctx context.Context, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &s.key,
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("put snapshot object: %w", err)
	}
	return nil
}

func (s *Slot) Ping(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: &s.bucket})
	return err
}

func (s *Slot) Close() error { return nil }

func (s *Slot) Driver() storage.Driver { return storage.DriverS3 }

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}
