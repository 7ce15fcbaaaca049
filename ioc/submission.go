package ioc

import (
	"log"

	"github.com/spf13/viper"
	"github.com/to404hanga/codeforces_submit_bot/config"
	"github.com/to404hanga/codeforces_submit_bot/pkg/minio"
	"github.com/to404hanga/codeforces_submit_bot/service"
	"github.com/to404hanga/codeforces_submit_bot/service/exporter/factory"
	"github.com/to404hanga/codeforces_submit_bot/web"
	"go.uber.org/zap"
)

func InitSubmissionHandler(minioSvc *minio.MinIOService, submissionSvc service.SubmissionService, exporterFactory *factory.SubmissionExporterFactory, l *zap.Logger) *web.SubmissionHandler {
	var cfg config.SubmissionMinIOConfig
	if err := viper.UnmarshalKey(cfg.Key(), &cfg); err != nil {
		log.Panicf("unmarshal submission minio config failed: %v", err)
	}
	return web.NewSubmissionHandler(minioSvc, submissionSvc, exporterFactory, l,
		cfg.Bucket,
		cfg.DownloadDurationSeconds)
}
