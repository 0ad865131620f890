package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"path"
	"strings"
	"time"

	"wavebox/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Kind selects the processing profile for an upload.
type Kind string

const (
	KindAudio Kind = "audio"
	KindImage Kind = "image"
)

// prefix returns the object key prefix for the kind.
func (k Kind) prefix() string {
	if k == KindAudio {
		return "tracks"
	}
	return "images"
}

// UploadResult is what the provider reports back for a stored object.
// The URL is the only artifact the application persists.
type UploadResult struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	Bytes       int64  `json:"bytes"`
	ContentType string `json:"contentType"`
}

var (
	minioClient *minio.Client
	minioCfg    *config.Config
)

// InitMinio initializes the MinIO client and ensures the bucket exists.
func InitMinio(cfg *config.Config) error {
	log.Printf("Connecting to MinIO at %s, bucket %s", cfg.MinioEndpoint, cfg.MinioBucket)

	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		err = client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{
			Region: cfg.MinioRegion,
		})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		log.Printf("Created bucket: %s", cfg.MinioBucket)
	}

	minioClient = client
	minioCfg = cfg
	log.Println("MinIO client initialized.")
	return nil
}

// Upload stores the file under a fresh key for its kind and returns the
// provider-reported result.
func (k Kind) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (*UploadResult, error) {
	if minioClient == nil {
		return nil, fmt.Errorf("MinIO client not initialized")
	}

	ext := strings.ToLower(path.Ext(filename))
	key := fmt.Sprintf("%s/%s_%s%s", k.prefix(), k, uuid.NewString(), ext)

	info, err := minioClient.PutObject(ctx, minioCfg.MinioBucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s object: %w", k, err)
	}

	return &UploadResult{
		URL:         PublicURL(key),
		Key:         key,
		Bytes:       info.Size,
		ContentType: contentType,
	}, nil
}

// Remove deletes a previously uploaded object by key. A key that does not
// exist is reported as an error so callers can surface the failure.
func Remove(ctx context.Context, key string) error {
	if minioClient == nil {
		return fmt.Errorf("MinIO client not initialized")
	}

	if _, err := minioClient.StatObject(ctx, minioCfg.MinioBucket, key, minio.StatObjectOptions{}); err != nil {
		return fmt.Errorf("object %s not found: %w", key, err)
	}

	if err := minioClient.RemoveObject(ctx, minioCfg.MinioBucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object %s: %w", key, err)
	}
	return nil
}

// PublicURL returns the stable reference URL for an object key.
func PublicURL(key string) string {
	return strings.TrimRight(minioCfg.MinioPublicURL, "/") + "/" + key
}
