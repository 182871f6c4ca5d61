package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mehular0ra/propfinder/internal/config"
)

// ImageStore keeps listing images in a MinIO bucket and hands back public
// object URLs for the property documents.
type ImageStore struct {
	client   *minio.Client
	bucket   string
	endpoint string
	useSSL   bool
}

// NewImageStore connects to MinIO and creates the image bucket if it does
// not exist yet.
func NewImageStore(ctx context.Context, cfg config.Config) (*ImageStore, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect minio: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return &ImageStore{
		client:   client,
		bucket:   cfg.MinioBucket,
		endpoint: cfg.MinioEndpoint,
		useSSL:   cfg.MinioUseSSL,
	}, nil
}

// Put stores one image and returns its public URL. Object names are
// prefixed with a fresh id so repeated uploads of the same filename never
// collide.
func (s *ImageStore) Put(ctx context.Context, filename string, data []byte, contentType string) (string, error) {
	objectName := fmt.Sprintf("%s_%s", primitive.NewObjectID().Hex(), filename)

	_, err := s.client.PutObject(ctx, s.bucket, objectName,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return s.ObjectURL(objectName), nil
}

// ObjectURL builds the public URL for a stored object.
func (s *ImageStore) ObjectURL(objectName string) string {
	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpoint, s.bucket, objectName)
}
