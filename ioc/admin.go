package ioc

import (
	"log"

	"github.com/spf13/viper"
	"github.com/to404hanga/codeforces_submit_bot/config"
	"github.com/to404hanga/codeforces_submit_bot/web"
	"github.com/to404hanga/codeforces_submit_bot/web/jwt"
	"go.uber.org/zap"
)

func InitAdminHandler(jwtHandler jwt.Handler, l *zap.Logger) *web.AdminHandler {
	var cfg config.AdminConfig
	if err := viper.UnmarshalKey(cfg.Key(), &cfg); err != nil {
		log.Panicf("unmarshal admin config failed: %v", err)
	}
	if cfg.Username == "" || cfg.Password == "" {
		log.Panicf("admin credentials must be configured")
	}
	return web.NewAdminHandler(jwtHandler, l, cfg.Username, cfg.Password)
}
