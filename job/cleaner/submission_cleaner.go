package cleaner

import (
	"context"
	"time"

	"github.com/to404hanga/codeforces_submit_bot/pkg/minio"
	"github.com/to404hanga/codeforces_submit_bot/service"
	"go.uber.org/zap"
)

// SubmissionCleaner 清理失败提交遗留的代码文件
type SubmissionCleaner struct {
	submissionSvc service.SubmissionService
	minioSvc      *minio.MinIOService
	log           *zap.Logger
	bucket        string
	timeRange     time.Duration
}

func NewSubmissionCleaner(submissionSvc service.SubmissionService, minioSvc *minio.MinIOService, log *zap.Logger, bucket string, timeRange time.Duration) *SubmissionCleaner {
	return &SubmissionCleaner{
		submissionSvc: submissionSvc,
		minioSvc:      minioSvc,
		log:           log,
		bucket:        bucket,
		timeRange:     timeRange,
	}
}

// RunCleanup 运行提交清理任务
func (c *SubmissionCleaner) RunCleanup(ctx context.Context) error {
	c.log.Info("Starting submission cleanup job")

	submissions, err := c.submissionSvc.ListFailedCodeBefore(ctx, time.Now().Add(-c.timeRange))
	if err != nil {
		return err
	}

	cleaned := make([]uint64, 0, len(submissions))
	for _, sub := range submissions {
		if err = c.minioSvc.DeleteObject(ctx, c.bucket, sub.CodeURL); err != nil {
			c.log.Error("DeleteObject failed",
				zap.Error(err),
				zap.Uint64("submission_id", sub.ID),
				zap.String("code_url", sub.CodeURL),
			)
			continue
		}
		cleaned = append(cleaned, sub.ID)
	}

	if len(cleaned) > 0 {
		if err = c.submissionSvc.ClearCode(ctx, cleaned); err != nil {
			return err
		}
	}

	c.log.Info("Submission cleanup completed", zap.Int("cleaned", len(cleaned)))
	return nil
}
