package codeforces

import (
	"github.com/to404hanga/codeforces_submit_bot/bot"
	"go.uber.org/zap"
)

// Factory 为每个机器人创建独立会话(独立 cookie jar), 账号之间互不串号
type Factory struct {
	cfg Config
	log *zap.Logger
}

var _ bot.JudgeFactory = (*Factory)(nil)

func NewFactory(cfg Config, log *zap.Logger) *Factory {
	return &Factory{
		cfg: cfg,
		log: log,
	}
}

func (f *Factory) NewJudge() (bot.Judge, error) {
	return NewClient(f.cfg, f.log)
}
