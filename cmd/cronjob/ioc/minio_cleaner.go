package ioc

import (
	"log"
	"time"

	"github.com/spf13/viper"
	"github.com/to404hanga/codeforces_submit_bot/cmd/cronjob/config"
	rootconfig "github.com/to404hanga/codeforces_submit_bot/config"
	"github.com/to404hanga/codeforces_submit_bot/job"
	"github.com/to404hanga/codeforces_submit_bot/job/cleaner"
	"github.com/to404hanga/codeforces_submit_bot/pkg/minio"
	"github.com/to404hanga/codeforces_submit_bot/service"
	"go.uber.org/zap"
)

func InitMinIOCleaner(submissionSvc service.SubmissionService, minioSvc *minio.MinIOService, l *zap.Logger) *job.JobConfig {
	var cfg config.MinIOCleanerConfig
	err := viper.UnmarshalKey(cfg.Key(), &cfg)
	if err != nil {
		log.Panicf("unmarshal minio cleaner config fail, err: %v", err)
	}
	var minioCfg rootconfig.SubmissionMinIOConfig
	if err = viper.UnmarshalKey(minioCfg.Key(), &minioCfg); err != nil {
		log.Panicf("unmarshal submission minio config fail, err: %v", err)
	}

	m := cleaner.NewMinIOSubmissionCleaner(submissionSvc, minioSvc, l, minioCfg.Bucket, cfg.OrphanFileCheckDays)
	jbCfg := &job.JobConfig{
		Name:        "MinIO 孤儿文件清理",
		CronExpr:    cfg.CronExpr,
		JobFunc:     m.RunCleanup,
		Description: "清理 MinIO 中未被任何提交记录引用的代码文件",
		Enabled:     cfg.Enabled,
		Timeout:     time.Duration(cfg.Timeout) * time.Millisecond,
	}
	return jbCfg
}
