//go:build wireinject

package main

import (
	"github.com/google/wire"
	"github.com/to404hanga/codeforces_submit_bot/cmd/admin/ioc"
	commonioc "github.com/to404hanga/codeforces_submit_bot/ioc"
	"github.com/to404hanga/codeforces_submit_bot/service"
	"github.com/to404hanga/codeforces_submit_bot/service/exporter/factory"
	"github.com/to404hanga/codeforces_submit_bot/web"
)

func BuildDependency() *web.GinServer {
	wire.Build(
		commonioc.InitDB,
		commonioc.InitLogger,
		commonioc.InitRedis,
		commonioc.InitJWTHandler,
		commonioc.InitMinIO,
		commonioc.InitKafka,

		service.NewAccountService,
		service.NewSubmissionService,
		factory.NewSubmissionExporterFactory,

		commonioc.InitAdminHandler,
		web.NewAccountHandler,
		commonioc.InitSubmissionHandler,
		web.NewHealthHandler,

		ioc.InitGinServer,
	)
	return &web.GinServer{}
}
