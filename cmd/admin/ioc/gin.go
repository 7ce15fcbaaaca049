package ioc

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"
	"github.com/to404hanga/codeforces_submit_bot/config"
	"github.com/to404hanga/codeforces_submit_bot/constants"
	"github.com/to404hanga/codeforces_submit_bot/web"
	"github.com/to404hanga/codeforces_submit_bot/web/jwt"
	"github.com/to404hanga/codeforces_submit_bot/web/middleware"
	"go.uber.org/zap"
)

func InitGinServer(l *zap.Logger, jwtHandler jwt.Handler, adminHandler *web.AdminHandler, accountHandler *web.AccountHandler, submissionHandler *web.SubmissionHandler, healthHandler *web.HealthHandler) *web.GinServer {
	var cfg config.GinConfig
	err := viper.UnmarshalKey(cfg.Key(), &cfg)
	if err != nil {
		log.Panicf("unmarshal gin config failed, err: %v", err)
	}

	// 优先使用环境变量中设置的服务端口
	if port := os.Getenv("SERVER_PORT"); port != "" {
		cfg.Addr = ":" + port
	}

	// 登录, 健康检查和观测端点不要求登录态
	ignorePaths := cfg.LoginIgnorePaths
	if len(ignorePaths) == 0 {
		ignorePaths = []string{constants.AdminLoginPath, "/health", "/metrics", "/debug/pprof"}
	}

	corsBuilder := middleware.NewCORSMiddlewareBuilder(
		cfg.AllowOrigins,
		cfg.AllowMethods,
		cfg.AllowHeaders,
		cfg.ExposeHeaders,
		cfg.AllowCredentials,
		time.Duration(cfg.MaxAge)*time.Second)
	jwtBuilder := middleware.NewJWTMiddlewareBuilder(jwtHandler, l, ignorePaths)

	engine := gin.Default()
	engine.Use(
		corsBuilder.Build(),
		jwtBuilder.CheckLogin(),
	)
	pprof.Register(engine)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	adminHandler.Register(engine)
	accountHandler.Register(engine)
	submissionHandler.Register(engine)
	healthHandler.Register(engine)

	return &web.GinServer{
		Engine: engine,
		Addr:   cfg.Addr,
	}
}
