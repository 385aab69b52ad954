package artifact

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config configures an S3Store.
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	// Prefix is prepended to every object key.
	Prefix string
	UseSSL bool
}

// objectPutter is the part of *minio.Client the store uses.
type objectPutter interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// S3Store uploads artifacts to an S3 compatible bucket.
type S3Store struct {
	client objectPutter
	bucket string
	prefix string
	Namer  Namer
}

// NewS3Store connects to the configured endpoint.
func NewS3Store(cfg S3Config) (*S3Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}
	return &S3Store{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

var contentTypes = map[string]string{
	"jmx": "application/xml",
	"csv": "text/csv",
}

// Store implements Store.
func (s *S3Store) Store(ctx context.Context, area, fileType string, payload []byte) (Handle, error) {
	name, createdAt := s.Namer.Name(area, fileType)
	key := path.Join(s.prefix, area, name)

	contentType, ok := contentTypes[fileType]
	if !ok {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: map[string]string{"area": area},
	})
	if err != nil {
		return Handle{}, fmt.Errorf("failed to upload artifact %s: %w", key, err)
	}

	return newHandle(area, fileType, name, fmt.Sprintf("s3://%s/%s", s.bucket, key), len(payload), createdAt), nil
}
