package media

import (
	"context"
	"fmt"
	"mime"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/vidstream/video-platform-go/internal/db/models"
)

// MinIOConfig configures MinIOProvider.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicBaseURL prefixes object keys in returned URLs. Defaults to the
	// endpoint URL joined with the bucket.
	PublicBaseURL string
}

// MinIOProvider is a Provider backed by a MinIO or S3 bucket.
type MinIOProvider struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// NewMinIOProvider connects to the object store and creates the bucket if it
// does not exist.
func NewMinIOProvider(ctx context.Context, cfg MinIOConfig) (*MinIOProvider, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	baseURL := strings.TrimRight(cfg.PublicBaseURL, "/")
	if baseURL == "" {
		baseURL = client.EndpointURL().String() + "/" + cfg.Bucket
	}

	return &MinIOProvider{client: client, bucket: cfg.Bucket, baseURL: baseURL}, nil
}

// Store uploads localPath as folder/<uuid><ext>.
func (p *MinIOProvider) Store(ctx context.Context, folder, localPath string) (*models.StoredObject, error) {
	if localPath == "" {
		return nil, fmt.Errorf("local path is required")
	}

	ext := strings.ToLower(filepath.Ext(localPath))
	key := path.Join(folder, uuid.NewString()+ext)

	opts := minio.PutObjectOptions{ContentType: mime.TypeByExtension(ext)}
	if opts.ContentType == "" {
		opts.ContentType = "application/octet-stream"
	}

	if _, err := p.client.FPutObject(ctx, p.bucket, key, localPath, opts); err != nil {
		return nil, fmt.Errorf("upload object %s: %w", key, err)
	}

	return &models.StoredObject{URL: p.baseURL + "/" + key, StorageID: key}, nil
}

// Remove deletes the object with the given key.
func (p *MinIOProvider) Remove(ctx context.Context, storageID string) error {
	if err := p.client.RemoveObject(ctx, p.bucket, storageID, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s: %w", storageID, err)
	}
	return nil
}

// Ping checks that the bucket is reachable.
func (p *MinIOProvider) Ping(ctx context.Context) error {
	_, err := p.client.BucketExists(ctx, p.bucket)
	return err
}
