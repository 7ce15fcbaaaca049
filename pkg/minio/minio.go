package minio

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

const (
	EnvMinIOAccessKeyID     = "MINIO_ACCESS_KEY_ID"
	EnvMinIOSecretAccessKey = "MINIO_SECRET_ACCESS_KEY"
)

type MinIOService struct {
	client   *minio.Client
	log      *zap.Logger
	endpoint string
	useSSL   bool
}

func NewMinIOService(log *zap.Logger, endpoint string, useSSL bool) (*MinIOService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(os.Getenv(EnvMinIOAccessKeyID), os.Getenv(EnvMinIOSecretAccessKey), ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("NewMinIOService failed at minio.New: %w", err)
	}

	return &MinIOService{
		client:   client,
		log:      log,
		endpoint: endpoint,
		useSSL:   useSSL,
	}, nil
}

// PutObject 上传对象
func (s *MinIOService) PutObject(ctx context.Context, bucketName, objectKey string, reader io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, bucketName, objectKey, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s: %w", objectKey, err)
	}
	return nil
}

// GetObject 获取对象内容, 调用方负责 Close
func (s *MinIOService) GetObject(ctx context.Context, bucketName, objectKey string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, bucketName, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", objectKey, err)
	}
	return obj, nil
}

// GetPresignedDownloadURL 获取预签名下载URL
func (s *MinIOService) GetPresignedDownloadURL(ctx context.Context, bucketName, objectKey string, durationSeconds int) (string, error) {
	expiration := time.Duration(durationSeconds) * time.Second

	presignedURL, err := s.client.PresignedGetObject(ctx, bucketName, objectKey, expiration, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned download URL: %w", err)
	}

	return presignedURL.String(), nil
}

// ObjectInfo 对象信息结构体
type ObjectInfo struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
	ETag         string    `json:"etag"`
	ContentType  string    `json:"contentType"`
}

// ListObjectsWithDetails 获取指定bucket下所有对象的详细信息
func (s *MinIOService) ListObjectsWithDetails(ctx context.Context, bucketName string) ([]ObjectInfo, error) {
	var objects []ObjectInfo

	objectCh := s.client.ListObjects(ctx, bucketName, minio.ListObjectsOptions{
		Recursive: true,
	})

	for object := range objectCh {
		if object.Err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", object.Err)
		}

		objects = append(objects, ObjectInfo{
			Key:          object.Key,
			Size:         object.Size,
			LastModified: object.LastModified,
			ETag:         object.ETag,
			ContentType:  object.ContentType,
		})
	}

	return objects, nil
}

// DeleteObject 删除指定的对象
func (s *MinIOService) DeleteObject(ctx context.Context, bucketName, objectKey string) error {
	err := s.client.RemoveObject(ctx, bucketName, objectKey, minio.RemoveObjectOptions{})
	if err != nil {
		s.log.Error("Failed to delete object",
			zap.Error(err),
			zap.String("bucketName", bucketName),
			zap.String("objectKey", objectKey),
		)
		return fmt.Errorf("failed to delete object %s: %w", objectKey, err)
	}

	s.log.Info("Successfully deleted object",
		zap.String("bucketName", bucketName),
		zap.String("objectKey", objectKey),
	)

	return nil
}
