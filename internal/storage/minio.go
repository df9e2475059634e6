package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/ignatzorin/lostfound-backend/internal/logger"
)

// MinioStorage хранит изображения предметов в S3-совместимом хранилище.
type MinioStorage struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// MinioConfig — параметры подключения к хранилищу.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

// NewMinioStorage подключается к хранилищу и создаёт bucket, если его нет.
func NewMinioStorage(ctx context.Context, cfg MinioConfig) (*MinioStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio storage: connect %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("minio storage: bucket check %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio storage: make bucket %w", err)
		}
		logger.Log.WithField("bucket", cfg.Bucket).Info("minio: bucket создан")
	}

	publicURL := strings.TrimSuffix(cfg.PublicURL, "/")
	if publicURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}

	return &MinioStorage{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: publicURL,
	}, nil
}

// Upload сохраняет объект и возвращает его ключ и публичный URL.
// Ключ включает дату, что упрощает ручную уборку старых файлов.
func (s *MinioStorage) Upload(ctx context.Context, reader io.Reader, filename, contentType string, size int64) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	key := fmt.Sprintf("items/%s/%s%s", time.Now().UTC().Format("2006/01/02"), uuid.New().String(), ext)

	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", "", fmt.Errorf("minio storage: put object %w", err)
	}

	return key, fmt.Sprintf("%s/%s", s.publicURL, key), nil
}

// Remove удаляет объект из хранилища.
func (s *MinioStorage) Remove(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("minio storage: remove object %w", err)
	}
	return nil
}
