package bot

import (
	"context"
	"sync"
	"time"

	"github.com/to404hanga/codeforces_submit_bot/service"
	"go.uber.org/zap"
)

type ManagerConfig struct {
	Interval time.Duration // 发现账号与分配提交的轮询周期
}

const defaultManagerInterval = 10 * time.Second

// Manager 账号池监督者: 发现可用账号并为其启动机器人任务, 周期性地把待分配提交
// 轮转分配到存活任务上, 并回收属主任务已死亡的提交
type Manager struct {
	accountSvc    service.AccountService
	submissionSvc service.SubmissionService
	factory       JudgeFactory
	code          CodeStore
	log           *zap.Logger
	botCfg        Config
	cfg           ManagerConfig

	registry *Registry
	cursor   int // 轮转指针, 跨分配轮保留
	wg       sync.WaitGroup
}

func NewManager(accountSvc service.AccountService, submissionSvc service.SubmissionService,
	factory JudgeFactory, code CodeStore, log *zap.Logger, botCfg Config, cfg ManagerConfig) *Manager {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultManagerInterval
	}
	return &Manager{
		accountSvc:    accountSvc,
		submissionSvc: submissionSvc,
		factory:       factory,
		code:          code,
		log:           log,
		botCfg:        botCfg,
		cfg:           cfg,
		registry:      NewRegistry(),
	}
}

// Run 永续循环 {发现并启动, 回收并分配, 休眠}, 从不阻塞等待任何机器人;
// 稳态下没有致命错误路径, 单个账号出问题不影响其余账号与分配
func (m *Manager) Run(ctx context.Context) error {
	m.log.Info("manager started",
		zap.Duration("interval", m.cfg.Interval))

	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	for {
		m.discoverAndLaunch(ctx)
		m.assign(ctx)

		select {
		case <-ctx.Done():
			m.log.Info("manager stopping, waiting for bots")
			m.wg.Wait()
			m.log.Info("manager stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// discoverAndLaunch 为每个尚无存活任务的可用账号启动恰好一个机器人任务
func (m *Manager) discoverAndLaunch(ctx context.Context) {
	accounts, err := m.accountSvc.ListActive(ctx)
	if err != nil {
		m.log.Error("list active accounts failed", zap.Error(err))
		return
	}

	for _, account := range accounts {
		account := account
		if !m.registry.Add(account.ID) {
			continue
		}

		judge, err := m.factory.NewJudge()
		if err != nil {
			m.registry.Remove(account.ID)
			m.log.Error("create judge session failed",
				zap.String("handle", account.Handle),
				zap.Error(err))
			continue
		}

		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			defer m.registry.Remove(account.ID)
			defer botLiveAccounts.Dec()
			botLiveAccounts.Inc()

			b := NewBot(&account, judge, m.accountSvc, m.submissionSvc, m.code, m.log, m.botCfg)
			if err := b.Run(ctx); err != nil {
				m.log.Error("bot task exited with error",
					zap.String("handle", account.Handle),
					zap.Error(err))
				return
			}
			m.log.Info("bot task exited",
				zap.String("handle", account.Handle))
		}()
	}
}

// assign 先回收孤儿提交, 再把待分配提交按创建顺序轮转分配到存活账号上
// 每次认领是一条原子条件更新, 轮转指针跨轮保留, 短批次也能摊匀负载
func (m *Manager) assign(ctx context.Context) {
	live := m.registry.Snapshot()

	reclaimed, err := m.submissionSvc.ReclaimOrphans(ctx, live)
	if err != nil {
		m.log.Error("reclaim orphans failed", zap.Error(err))
	} else if reclaimed > 0 {
		m.log.Info("orphan submissions reclaimed", zap.Int64("count", reclaimed))
	}

	if len(live) == 0 {
		return
	}

	pending, err := m.submissionSvc.ListPendingOrdered(ctx)
	if err != nil {
		m.log.Error("list pending submissions failed", zap.Error(err))
		return
	}

	for _, sub := range pending {
		target := live[m.cursor%len(live)]
		ok, err := m.submissionSvc.Claim(ctx, sub.ID, target)
		if err != nil {
			m.log.Error("claim submission failed",
				zap.Uint64("submission_id", sub.ID),
				zap.Error(err))
			continue
		}
		if !ok {
			continue
		}
		m.cursor++
		if err := m.accountSvc.TouchAssignment(ctx, target); err != nil {
			m.log.Error("touch assignment failed",
				zap.Uint64("account_id", target),
				zap.Error(err))
		}
	}
}

// LiveAccounts 当前存活任务数, 仅观测用
func (m *Manager) LiveAccounts() int {
	return m.registry.Len()
}
