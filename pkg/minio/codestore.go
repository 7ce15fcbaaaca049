package minio

import (
	"context"
	"io"
)

// BucketStore 绑定单个 bucket 的代码读取器
type BucketStore struct {
	svc    *MinIOService
	bucket string
}

func NewBucketStore(svc *MinIOService, bucket string) *BucketStore {
	return &BucketStore{
		svc:    svc,
		bucket: bucket,
	}
}

func (s *BucketStore) Open(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	return s.svc.GetObject(ctx, s.bucket, objectKey)
}
