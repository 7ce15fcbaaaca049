package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/to404hanga/codeforces_submit_bot/config"
)

const defaultConfigPath = "./config/config.yaml"

func main() {
	cfile := pflag.String("config", defaultConfigPath, "config file path")
	pflag.Parse()

	viper.SetConfigFile(*cfile)
	if err := viper.ReadInConfig(); err != nil {
		log.Panicf("read config file failed: %v", err)
	}

	var metricsCfg config.MetricsConfig
	if err := viper.UnmarshalKey(metricsCfg.Key(), &metricsCfg); err != nil {
		log.Panicf("unmarshal metrics config failed: %v", err)
	}
	if metricsCfg.Addr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(metricsCfg.Addr, mux); err != nil {
				log.Printf("metrics server stopped: %v", err)
			}
		}()
	}

	manager := BuildManager()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Println("bot manager start")
	if err := manager.Run(ctx); err != nil {
		log.Panicf("bot manager failed: %v", err)
	}
}
