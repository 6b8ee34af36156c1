package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/FACorreiaa/roofing-site/pkg/config"
)

// DirSink writes documents below a local directory.
type DirSink struct {
	root string
}

func NewDirSink(root string) (*DirSink, error) {
	if root == "" {
		return nil, fmt.Errorf("export directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}
	return &DirSink{root: root}, nil
}

func (d *DirSink) Put(ctx context.Context, key string, body []byte, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	clean, err := cleanKey(key)
	if err != nil {
		return err
	}

	dst := filepath.Join(d.root, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", clean, err)
	}

	// atomic replace
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".export-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", clean, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close %s: %w", clean, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to chmod %s: %w", clean, err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to move %s into place: %w", clean, err)
	}
	return nil
}

// ObjectStore is the subset of *minio.Client the S3 sink needs.
type ObjectStore interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// S3Sink uploads documents to an S3-compatible bucket.
type S3Sink struct {
	client ObjectStore
	bucket string
	region string
	prefix string
	logger *slog.Logger
}

// NewS3Sink connects to the configured endpoint. prefix is prepended to every
// object key and may be empty.
func NewS3Sink(cfg config.StorageConfig, prefix string, logger *slog.Logger) (*S3Sink, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("object storage is not configured: set MINIO_ENDPOINT, MINIO_ACCESS_KEY and MINIO_SECRET_KEY")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}
	logger.Info("Connected to object storage", slog.String("endpoint", cfg.Endpoint), slog.String("bucket", cfg.Bucket))
	return NewS3SinkWithClient(client, cfg.Bucket, cfg.Region, prefix, logger), nil
}

func NewS3SinkWithClient(client ObjectStore, bucket, region, prefix string, logger *slog.Logger) *S3Sink {
	return &S3Sink{
		client: client,
		bucket: bucket,
		region: region,
		prefix: strings.Trim(prefix, "/"),
		logger: logger,
	}
}

// EnsureBucket creates the bucket when it does not exist yet.
func (s *S3Sink) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("error checking bucket existence: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
	}
	s.logger.InfoContext(ctx, "Created bucket", slog.String("bucket", s.bucket))
	return nil
}

func (s *S3Sink) Put(ctx context.Context, key string, body []byte, contentType string) error {
	clean, err := cleanKey(key)
	if err != nil {
		return err
	}
	if s.prefix != "" {
		clean = s.prefix + "/" + clean
	}

	_, err = s.client.PutObject(ctx, s.bucket, clean, bytes.NewReader(body), int64(len(body)),
		minio.PutObjectOptions{ContentType: contentType, CacheControl: "public, max-age=300"})
	if err != nil {
		return fmt.Errorf("failed to store %s in bucket %s: %w", clean, s.bucket, err)
	}
	return nil
}

func cleanKey(key string) (string, error) {
	clean := path.Clean("/" + key)[1:]
	if clean == "" || clean != strings.TrimPrefix(key, "/") {
		return "", fmt.Errorf("invalid export key %q", key)
	}
	return clean, nil
}
