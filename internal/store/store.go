// Package store implements C14: a pluggable sink for rendered SVG
// documents, with an in-memory default and an S3-backed implementation for
// batch pipelines that archive rendered frames (SPEC_FULL.md §4.10).
package store

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Sink persists a rendered SVG document under key.
type Sink interface {
	Put(ctx context.Context, key string, svg []byte) error
}

// Memory is a map-backed Sink, used by tests that need to inspect rendered
// bytes without touching the filesystem.
type Memory struct {
	mu      sync.Mutex
	objects map[string][]byte
}

// NewMemory constructs an empty Memory sink.
func NewMemory() *Memory { return &Memory{objects: make(map[string][]byte)} }

// Put stores svg under key, overwriting any prior value.
func (m *Memory) Put(ctx context.Context, key string, svg []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = append([]byte(nil), svg...)
	return nil
}

// Get returns the SVG bytes stored under key, if any.
func (m *Memory) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.objects[key]
	return v, ok
}

// S3 is a Sink backed by an S3-compatible bucket, for batch pipelines that
// archive rendered frame SVGs for an external transcoder to read back
// (SPEC_FULL.md §4.10).
type S3 struct {
	client *s3.Client
	bucket string
}

// NewS3 constructs an S3 sink for bucket. With accessKeyID and secretKey
// both set it authenticates with static credentials; otherwise it falls
// back to the default AWS config resolution chain (environment, shared
// config file, IMDS). A non-empty endpoint (an S3-compatible provider such
// as Cloudflare R2, mirroring the teacher's services/r2 archive target)
// replaces the AWS endpoint in either case.
func NewS3(ctx context.Context, bucket, endpoint, accessKeyID, secretKey string) (*S3, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if accessKeyID != "" && secretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKeyID, secretKey, "")))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("swfx: loading AWS config: %w", err)
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return &S3{client: client, bucket: bucket}, nil
}

// Put uploads svg to s.bucket under key with an image/svg+xml content type.
func (s *S3) Put(ctx context.Context, key string, svg []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(svg),
		ContentType: aws.String("image/svg+xml"),
	})
	if err != nil {
		return fmt.Errorf("swfx: putting %s to s3://%s: %w", key, s.bucket, err)
	}
	return nil
}
