package ioc

import (
	"log"

	"github.com/spf13/viper"
	"github.com/to404hanga/codeforces_submit_bot/config"
	"github.com/to404hanga/codeforces_submit_bot/model"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func InitDB() *gorm.DB {
	var cfg config.MySQLConfig
	if err := viper.UnmarshalKey(cfg.Key(), &cfg); err != nil {
		log.Panicf("unmarshal mysql config failed: %v", err)
	}

	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		log.Panicf("open mysql failed: %v", err)
	}

	if cfg.AutoMigrate {
		if err = db.AutoMigrate(&model.BotAccount{}, &model.Submission{}); err != nil {
			log.Panicf("auto migrate failed: %v", err)
		}
	}

	return db
}
