// Package services wraps the external collaborators behind narrow
// interfaces: the MinIO asset host and SMTP mail dispatch.
package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"tstore_backend/internal/models"
)

// AssetStore stores image assets on MinIO. Asset ids are bucket/object
// keys, stable across the asset's lifetime.
type AssetStore struct {
	client   *minio.Client
	endpoint string
	useSSL   bool
}

func NewAssetStore(client *minio.Client, endpoint string, useSSL bool) *AssetStore {
	return &AssetStore{client: client, endpoint: endpoint, useSSL: useSSL}
}

// Upload stores one multipart file under a fresh uuid key and returns the
// asset reference.
func (s *AssetStore) Upload(ctx context.Context, bucket string, file *multipart.FileHeader) (models.Photo, error) {
	f, err := file.Open()
	if err != nil {
		return models.Photo{}, err
	}
	defer f.Close()

	object := uuid.NewString() + path.Ext(file.Filename)
	_, err = s.client.PutObject(ctx, bucket, object, f, file.Size, minio.PutObjectOptions{
		ContentType: file.Header.Get("Content-Type"),
	})
	if err != nil {
		return models.Photo{}, err
	}

	return models.Photo{
		ID:        bucket + "/" + object,
		SecureURL: s.url(bucket, object),
	}, nil
}

// Delete removes an asset by its id.
func (s *AssetStore) Delete(ctx context.Context, id string) error {
	bucket, object, ok := strings.Cut(id, "/")
	if !ok {
		return fmt.Errorf("malformed asset id: %s", id)
	}
	return s.client.RemoveObject(ctx, bucket, object, minio.RemoveObjectOptions{})
}

func (s *AssetStore) url(bucket, object string) string {
	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpoint, bucket, object)
}
