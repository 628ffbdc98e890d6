package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/inovacc/journal/internal/encoding"
	"github.com/inovacc/journal/internal/model"
)

// Sink stores a finished export and reports where it went.
type Sink interface {
	Put(ctx context.Context, name string, f Format, data []byte) (string, error)
}

// FileSink writes exports into Dir, or to Path when set.
type FileSink struct {
	Dir  string
	Path string
}

func (s FileSink) Put(_ context.Context, name string, _ Format, data []byte) (string, error) {
	path := s.Path
	if path == "" {
		path = filepath.Join(s.Dir, name)
	}

	if err := encoding.WriteFileAtomic(path, data, 0o644); err != nil {
		return "", err
	}

	return path, nil
}

// PutObjectAPI is the part of the S3 client used by S3Sink.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Sink uploads exports to a bucket.
type S3Sink struct {
	client PutObjectAPI
	bucket string
	prefix string
}

func NewS3Sink(client PutObjectAPI, bucket, prefix string) *S3Sink {
	return &S3Sink{client: client, bucket: bucket, prefix: prefix}
}

// NewS3Client builds a client from cfg. Credentials come from the standard
// AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and AWS_SESSION_TOKEN variables; a
// custom endpoint (MinIO and friends) switches to path-style addressing.
func NewS3Client(cfg model.ExportConfig) *s3.Client {
	opts := s3.Options{
		Region:      cfg.S3Region,
		Credentials: aws.NewCredentialsCache(aws.CredentialsProviderFunc(envCredentials)),
	}

	if cfg.S3Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.S3Endpoint)
		opts.UsePathStyle = true
	}

	return s3.New(opts)
}

func envCredentials(context.Context) (aws.Credentials, error) {
	id, secret := os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return aws.Credentials{}, fmt.Errorf("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set")
	}

	return aws.Credentials{
		AccessKeyID:     id,
		SecretAccessKey: secret,
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Source:          "environment",
	}, nil
}

func (s *S3Sink) Put(ctx context.Context, name string, f Format, data []byte) (string, error) {
	key := s.prefix + name

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(ContentType(f)),
		Metadata: map[string]string{
			"export-time": time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload failed: %w", err)
	}

	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}

// Run encodes entries and hands them to sink under the dated filename.
func Run(ctx context.Context, sink Sink, f Format, entries []model.Entry, now time.Time) (string, error) {
	var buf bytes.Buffer
	if err := Write(&buf, f, entries); err != nil {
		return "", fmt.Errorf("encoding export: %w", err)
	}

	return sink.Put(ctx, Filename(f, now), f, buf.Bytes())
}
