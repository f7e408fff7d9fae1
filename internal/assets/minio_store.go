package assets

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore implements Uploader against S3-compatible object storage.
type MinioStore struct {
	client *minio.Client
	bucket string
}

// NewMinioStore creates a MinIO-backed asset store.
func NewMinioStore(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*MinioStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return &MinioStore{client: client, bucket: bucket}, nil
}

// EnsureBucket creates the bucket if it does not exist yet.
func (s *MinioStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket: %w", err)
	}
	return nil
}

// UploadBatch stores each file under <ownerID>/<uuid>-<name> and returns
// the durable URLs with server-side metadata. The first failure aborts the
// batch; callers treat the batch as atomic.
func (s *MinioStore) UploadBatch(ctx context.Context, files []File, ownerID string) ([]Stored, error) {
	out := make([]Stored, 0, len(files))
	for _, f := range files {
		key := path.Join(ownerID, uuid.NewString()+"-"+sanitizeObjectName(f.Name))
		info, err := s.client.PutObject(ctx, s.bucket, key,
			bytes.NewReader(f.Data), int64(len(f.Data)),
			minio.PutObjectOptions{ContentType: http.DetectContentType(f.Data)})
		if err != nil {
			return nil, fmt.Errorf("put object %s: %w", f.Name, err)
		}
		out = append(out, Stored{
			URL:              s.objectURL(key),
			Size:             info.Size,
			OriginalFileName: f.Name,
		})
	}
	return out, nil
}

func (s *MinioStore) objectURL(key string) string {
	endpoint := s.client.EndpointURL().String()
	return strings.TrimRight(endpoint, "/") + "/" + s.bucket + "/" + key
}

func sanitizeObjectName(name string) string {
	name = path.Base(name)
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '-', r == '_', r == '.':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('-')
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}
