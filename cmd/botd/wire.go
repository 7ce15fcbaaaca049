//go:build wireinject

package main

import (
	"github.com/google/wire"
	"github.com/to404hanga/codeforces_submit_bot/bot"
	commonioc "github.com/to404hanga/codeforces_submit_bot/ioc"
	"github.com/to404hanga/codeforces_submit_bot/service"
)

func BuildManager() *bot.Manager {
	wire.Build(
		commonioc.InitDB,
		commonioc.InitLogger,
		commonioc.InitKafka,
		commonioc.InitMinIO,

		service.NewAccountService,
		service.NewSubmissionService,

		commonioc.InitJudgeFactory,
		commonioc.InitCodeStore,
		commonioc.InitManager,
	)
	return &bot.Manager{}
}
