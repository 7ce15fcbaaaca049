package ioc

import (
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"github.com/to404hanga/codeforces_submit_bot/config"
	"github.com/to404hanga/codeforces_submit_bot/web/jwt"
)

func InitJWTHandler(client redis.Cmdable) jwt.Handler {
	var cfg config.JWTConfig
	if err := viper.UnmarshalKey(cfg.Key(), &cfg); err != nil {
		log.Panicf("unmarshal jwt config failed: %v", err)
	}

	return jwt.NewRedisJWTHandler(client,
		[]byte(cfg.JWTKey),
		[]byte(cfg.RefreshKey),
		time.Duration(cfg.JWTExpirationMinutes)*time.Minute,
		time.Duration(cfg.RefreshExpirationMinutes)*time.Minute)
}
