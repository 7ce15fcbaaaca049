package ioc

import (
	"log"

	"github.com/to404hanga/codeforces_submit_bot/job"
	"github.com/to404hanga/codeforces_submit_bot/pkg/minio"
	"github.com/to404hanga/codeforces_submit_bot/service"
	"go.uber.org/zap"
)

func InitScheduler(l *zap.Logger, submissionSvc service.SubmissionService, minioSvc *minio.MinIOService) *job.CronScheduler {
	scheduler := job.NewCronScheduler(l)

	if err := scheduler.AddJob(InitSubmissionCleaner(submissionSvc, minioSvc, l)); err != nil {
		log.Panicf("add submission cleaner job failed: %v", err)
	}
	if err := scheduler.AddJob(InitMinIOCleaner(submissionSvc, minioSvc, l)); err != nil {
		log.Panicf("add minio cleaner job failed: %v", err)
	}

	return scheduler
}
