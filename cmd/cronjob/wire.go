//go:build wireinject

package main

import (
	"github.com/google/wire"
	"github.com/to404hanga/codeforces_submit_bot/cmd/cronjob/ioc"
	commonioc "github.com/to404hanga/codeforces_submit_bot/ioc"
	"github.com/to404hanga/codeforces_submit_bot/job"
	"github.com/to404hanga/codeforces_submit_bot/service"
)

func InitScheduler() *job.CronScheduler {
	wire.Build(
		commonioc.InitDB,
		commonioc.InitLogger,
		commonioc.InitMinIO,
		ioc.InitNilKafka,
		service.NewSubmissionService,
		ioc.InitScheduler,
	)
	return &job.CronScheduler{}
}
