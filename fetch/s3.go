package fetch

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the part of the S3 client used by S3Fetcher.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Fetcher streams objects from an S3 bucket below a key prefix.
type S3Fetcher struct {
	client S3API
	bucket string
	prefix string
}

// NewS3Fetcher returns a fetcher reading bucket/prefix through client.
func NewS3Fetcher(client S3API, bucket, prefix string) *S3Fetcher {
	return &S3Fetcher{client: client, bucket: bucket, prefix: prefix}
}

// NewS3FetcherFromEnv builds an S3 client from the default AWS credential
// chain (environment, shared config, instance role).
func NewS3FetcherFromEnv(ctx context.Context, bucket, prefix string) (*S3Fetcher, error) {
	if bucket == "" {
		return nil, fmt.Errorf("s3 base URL has no bucket")
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewS3Fetcher(s3.NewFromConfig(cfg), bucket, prefix), nil
}

// Key returns the object key of name.
func (f *S3Fetcher) Key(name string) string {
	if f.prefix == "" {
		return name
	}
	return path.Join(f.prefix, name)
}

// Open returns the body of the object for name.
func (f *S3Fetcher) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	key := f.Key(name)
	out, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get s3://%s/%s: %w", f.bucket, key, err)
	}
	return out.Body, nil
}
