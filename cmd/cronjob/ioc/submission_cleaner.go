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

func InitSubmissionCleaner(submissionSvc service.SubmissionService, minioSvc *minio.MinIOService, l *zap.Logger) *job.JobConfig {
	var cfg config.SubmissionCleanerConfig
	err := viper.UnmarshalKey(cfg.Key(), &cfg)
	if err != nil {
		log.Panicf("unmarshal submission cleaner config fail, err: %v", err)
	}
	var minioCfg rootconfig.SubmissionMinIOConfig
	if err = viper.UnmarshalKey(minioCfg.Key(), &minioCfg); err != nil {
		log.Panicf("unmarshal submission minio config fail, err: %v", err)
	}

	m := cleaner.NewSubmissionCleaner(submissionSvc, minioSvc, l, minioCfg.Bucket, time.Duration(cfg.TimeRange)*24*time.Hour)
	jbCfg := &job.JobConfig{
		Name:        "提交代码清理",
		CronExpr:    cfg.CronExpr,
		JobFunc:     m.RunCleanup,
		Description: "清理失败提交遗留的代码文件",
		Enabled:     cfg.Enabled,
		Timeout:     time.Duration(cfg.Timeout) * time.Millisecond,
	}
	return jbCfg
}
