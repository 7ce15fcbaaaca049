package cleaner

import (
	"context"
	"strings"
	"time"

	"github.com/to404hanga/codeforces_submit_bot/pkg/minio"
	"github.com/to404hanga/codeforces_submit_bot/service"
	"go.uber.org/zap"
)

// MinIOSubmissionCleaner 清理 minio 中没有任何提交记录引用的代码文件
type MinIOSubmissionCleaner struct {
	submissionSvc       service.SubmissionService
	minioSvc            *minio.MinIOService
	log                 *zap.Logger
	bucket              string
	orphanFileCheckDays int
}

func NewMinIOSubmissionCleaner(submissionSvc service.SubmissionService, minioSvc *minio.MinIOService, log *zap.Logger, bucket string, orphanFileCheckDays int) *MinIOSubmissionCleaner {
	return &MinIOSubmissionCleaner{
		submissionSvc:       submissionSvc,
		minioSvc:            minioSvc,
		log:                 log,
		bucket:              bucket,
		orphanFileCheckDays: orphanFileCheckDays,
	}
}

func (c *MinIOSubmissionCleaner) RunCleanup(ctx context.Context) error {
	c.log.Info("Starting minio submission cleanup job")

	stats, err := c.cleanupOrphanFiles(ctx)
	if err != nil {
		c.log.Error("cleanupOrphanFiles failed", zap.Error(err))
		return err
	}

	c.log.Info("MinIO submission cleanup job completed", zap.Any("stats", stats))
	return nil
}

type CleanupStats struct {
	TotalFiles      int           `json:"total_files"`
	DeletedFiles    int           `json:"deleted_files"`
	DeletedSize     int64         `json:"deleted_size"`
	ErrorCount      int           `json:"error_count"`
	ProcessDuration time.Duration `json:"process_duration"`
	StartTime       time.Time     `json:"start_time"`
	EndTime         time.Time     `json:"end_time"`
}

func (c *MinIOSubmissionCleaner) cleanupOrphanFiles(ctx context.Context) (stats *CleanupStats, err error) {
	stats = &CleanupStats{
		StartTime: time.Now(),
	}
	defer func() {
		stats.EndTime = time.Now()
		stats.ProcessDuration = stats.EndTime.Sub(stats.StartTime)
	}()

	cutoffTime := time.Now().AddDate(0, 0, -c.orphanFileCheckDays)

	// 列出存储桶中所有对象
	infos, err := c.minioSvc.ListObjectsWithDetails(ctx, c.bucket)
	if err != nil {
		return stats, err
	}
	stats.TotalFiles = len(infos)

	for _, obj := range infos {
		// 跳过临时文件和系统文件
		if isTempFile(obj.Key) || isSystemFile(obj.Key) {
			continue
		}

		// 只检查超过指定天数的文件
		if obj.LastModified.After(cutoffTime) {
			continue
		}

		exist, err := c.submissionSvc.CheckExistByCodeURL(ctx, obj.Key)
		if err != nil {
			c.log.Error("CheckExistByCodeURL failed",
				zap.Error(err),
				zap.String("object_key", obj.Key),
				zap.String("bucket", c.bucket),
			)
			stats.ErrorCount++
			continue
		}
		if exist {
			continue
		}

		c.log.Info("Orphan object found",
			zap.String("object_key", obj.Key),
			zap.String("bucket", c.bucket),
		)

		if err = c.minioSvc.DeleteObject(ctx, c.bucket, obj.Key); err != nil {
			c.log.Error("DeleteObject failed",
				zap.Error(err),
				zap.String("object_key", obj.Key),
				zap.String("bucket", c.bucket),
			)
			stats.ErrorCount++
			continue
		}
		stats.DeletedFiles++
		stats.DeletedSize += obj.Size
	}

	return stats, nil
}

// isTempFile 判断文件是否为临时文件
func isTempFile(objectKey string) bool {
	lowerKey := strings.ToLower(objectKey)
	return strings.Contains(lowerKey, "temp/") ||
		strings.Contains(lowerKey, "tmp/") ||
		strings.HasSuffix(lowerKey, ".tmp") ||
		strings.HasSuffix(lowerKey, ".temp")
}

// isSystemFile 判断文件是否为系统文件
func isSystemFile(objectKey string) bool {
	lowerKey := strings.ToLower(objectKey)
	return strings.HasPrefix(lowerKey, "system/") ||
		strings.HasPrefix(lowerKey, ".") ||
		strings.Contains(lowerKey, "/.") ||
		strings.Contains(lowerKey, "config/")
}
