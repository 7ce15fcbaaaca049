package ioc

import (
	"log"

	"github.com/spf13/viper"
	"github.com/to404hanga/codeforces_submit_bot/config"
	"github.com/to404hanga/codeforces_submit_bot/pkg/minio"
	"go.uber.org/zap"
)

func InitMinIO(l *zap.Logger) *minio.MinIOService {
	var cfg config.MinIOConfig
	if err := viper.UnmarshalKey(cfg.Key(), &cfg); err != nil {
		log.Panicf("unmarshal minio config failed: %v", err)
	}

	svc, err := minio.NewMinIOService(l, cfg.Endpoint, cfg.UseSSL)
	if err != nil {
		log.Panicf("create minio service failed: %v", err)
	}
	return svc
}
