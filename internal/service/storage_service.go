package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"empower_backend/internal/config"
	"empower_backend/internal/util"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Storage 头像等静态文件存储
type Storage interface {
	Save(ctx context.Context, objectName, contentType string, size int64, reader io.Reader) (string, error)
}

// NewStorage 按配置选择存储后端
func NewStorage(cfg *config.StorageConfig) (Storage, error) {
	switch cfg.Type {
	case util.StorageMinio:
		return NewMinioStorage(cfg)
	default:
		return &LocalStorage{BasePath: cfg.LocalPath}, nil
	}
}

// AvatarObjectName 头像对象名，覆盖式存储，一个用户只保留最新头像
func AvatarObjectName(userID uint, ext string) string {
	return fmt.Sprintf("avatars/%d%s", userID, ext)
}

// LocalStorage 本地磁盘存储，开发环境使用
type LocalStorage struct {
	BasePath string
}

func (s *LocalStorage) Save(_ context.Context, objectName, _ string, _ int64, reader io.Reader) (string, error) {
	path := filepath.Join(s.BasePath, objectName)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, reader); err != nil {
		return "", err
	}
	return "/uploads/" + objectName, nil
}

// MinioStorage MinIO 对象存储
type MinioStorage struct {
	Client *minio.Client
	Bucket string
}

func NewMinioStorage(cfg *config.StorageConfig) (*MinioStorage, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds: credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
	})
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}

	return &MinioStorage{Client: client, Bucket: cfg.MinioBucket}, nil
}

func (s *MinioStorage) Save(ctx context.Context, objectName, contentType string, size int64, reader io.Reader) (string, error) {
	_, err := s.Client.PutObject(ctx, s.Bucket, objectName, reader, size,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s/%s", s.Client.EndpointURL(), s.Bucket, objectName), nil
}
