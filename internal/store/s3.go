package store

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// ObjectAPI is the part of *s3.Client the store uses.
type ObjectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3 keeps one object per key. With gzip on, objects are compressed and
// their names carry a ".gz" suffix.
type S3 struct {
	client ObjectAPI
	bucket string
	gzip   bool
}

func NewS3(client ObjectAPI, bucket string, gzip bool) *S3 {
	return &S3{client: client, bucket: bucket, gzip: gzip}
}

// OpenS3 loads the default AWS config (environment, shared files) and checks
// the bucket is reachable.
func OpenS3(ctx context.Context, bucket string, gzip bool) (*S3, error) {
	if bucket == "" {
		return nil, errors.New("s3 store: empty S3_BUCKET")
	}
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("s3 store: load AWS config: %w", err)
	}
	client := s3.NewFromConfig(cfg)
	if _, err := client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)}); err != nil {
		return nil, fmt.Errorf("s3 store: head bucket %s: %w", bucket, err)
	}
	return NewS3(client, bucket, gzip), nil
}

func (s *S3) objectKey(key string) string {
	if s.gzip {
		return key + ".json.gz"
	}
	return key + ".json"
}

func (s *S3) Get(ctx context.Context, key string) ([]byte, bool, error) {
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		var apiErr smithy.APIError
		// NoSuchKey is a miss
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchKey" {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("s3 store: get %s: %w", key, err)
	}
	defer resp.Body.Close()

	var rdr io.Reader = resp.Body
	if s.gzip {
		zr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, false, fmt.Errorf("s3 store: open compressed %s: %w", key, err)
		}
		defer zr.Close()
		rdr = zr
	}
	data, err := io.ReadAll(rdr)
	if err != nil {
		return nil, false, fmt.Errorf("s3 store: read %s: %w", key, err)
	}
	return data, true, nil
}

func (s *S3) Set(ctx context.Context, key string, value []byte) error {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.objectKey(key)),
		Body:        bytes.NewReader(value),
		ContentType: aws.String("application/json"),
	}
	if s.gzip {
		var buf bytes.Buffer
		gw := gzip.NewWriter(&buf)
		if _, err := gw.Write(value); err != nil {
			return fmt.Errorf("s3 store: gzip %s: %w", key, err)
		}
		if err := gw.Close(); err != nil {
			return fmt.Errorf("s3 store: gzip %s: %w", key, err)
		}
		input.Body = bytes.NewReader(buf.Bytes())
		input.ContentEncoding = aws.String("gzip")
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("s3 store: put %s: %w", key, err)
	}
	return nil
}
