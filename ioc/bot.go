package ioc

import (
	"log"
	"time"

	"github.com/spf13/viper"
	"github.com/to404hanga/codeforces_submit_bot/bot"
	"github.com/to404hanga/codeforces_submit_bot/bot/codeforces"
	"github.com/to404hanga/codeforces_submit_bot/config"
	"github.com/to404hanga/codeforces_submit_bot/pkg/minio"
	"github.com/to404hanga/codeforces_submit_bot/service"
	"go.uber.org/zap"
)

func InitJudgeFactory(l *zap.Logger) bot.JudgeFactory {
	var cfg codeforces.Config
	if err := viper.UnmarshalKey(cfg.Key(), &cfg); err != nil {
		log.Panicf("unmarshal codeforces config failed: %v", err)
	}
	return codeforces.NewFactory(cfg, l)
}

func InitCodeStore(minioSvc *minio.MinIOService) bot.CodeStore {
	var cfg config.SubmissionMinIOConfig
	if err := viper.UnmarshalKey(cfg.Key(), &cfg); err != nil {
		log.Panicf("unmarshal submission minio config failed: %v", err)
	}
	return minio.NewBucketStore(minioSvc, cfg.Bucket)
}

func InitManager(accountSvc service.AccountService, submissionSvc service.SubmissionService,
	factory bot.JudgeFactory, code bot.CodeStore, l *zap.Logger) *bot.Manager {
	var botCfg config.BotConfig
	if err := viper.UnmarshalKey(botCfg.Key(), &botCfg); err != nil {
		log.Panicf("unmarshal bot config failed: %v", err)
	}
	var managerCfg config.ManagerConfig
	if err := viper.UnmarshalKey(managerCfg.Key(), &managerCfg); err != nil {
		log.Panicf("unmarshal manager config failed: %v", err)
	}

	return bot.NewManager(accountSvc, submissionSvc, factory, code, l,
		bot.Config{
			PollInterval:   time.Duration(botCfg.PollIntervalSeconds) * time.Second,
			SubmitDelay:    time.Duration(botCfg.SubmitDelaySeconds) * time.Second,
			StatusPageSize: botCfg.StatusPageSize,
			PollRetryCount: botCfg.PollRetryCount,
		},
		bot.ManagerConfig{
			Interval: time.Duration(managerCfg.IntervalSeconds) * time.Second,
		})
}
