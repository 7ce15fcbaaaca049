package bot

import (
	"context"
	"errors"
	"time"

	"github.com/to404hanga/codeforces_submit_bot/model"
	"github.com/to404hanga/codeforces_submit_bot/service"
	"go.uber.org/zap"
)

// Status 机器人生命周期状态
type Status int8

const (
	StatusBeforeAuthentication Status = iota + 1
	StatusReady
	StatusWorking
	StatusLoggedOut
	StatusAuthenticationFailed
)

func (s Status) String() string {
	switch s {
	case StatusBeforeAuthentication:
		return "BeforeAuthentication"
	case StatusReady:
		return "Ready"
	case StatusWorking:
		return "Working"
	case StatusLoggedOut:
		return "LoggedOut"
	case StatusAuthenticationFailed:
		return "AuthenticationFailed"
	}
	return "Unknown"
}

type Config struct {
	PollInterval   time.Duration // 每轮提交+轮询后的休眠时长
	SubmitDelay    time.Duration // 相邻两次上传之间的间隔, 尊重远程站点的频率预期
	StatusPageSize int           // 状态流分页大小
	PollRetryCount int           // 状态流翻页的额外尝试次数
}

const (
	defaultStatusPageSize = 50
	defaultPollRetryCount = 2
)

// Bot 单账号会话状态机, 独占一个远程评测站会话
type Bot struct {
	account       *model.BotAccount
	judge         Judge
	accountSvc    service.AccountService
	submissionSvc service.SubmissionService
	code          CodeStore
	log           *zap.Logger
	cfg           Config
	status        Status
}

func NewBot(account *model.BotAccount, judge Judge, accountSvc service.AccountService,
	submissionSvc service.SubmissionService, code CodeStore, log *zap.Logger, cfg Config) *Bot {
	if cfg.StatusPageSize <= 0 {
		cfg.StatusPageSize = defaultStatusPageSize
	}
	if cfg.PollRetryCount < 0 {
		cfg.PollRetryCount = defaultPollRetryCount
	}
	return &Bot{
		account:       account,
		judge:         judge,
		accountSvc:    accountSvc,
		submissionSvc: submissionSvc,
		code:          code,
		log:           log.With(zap.String("handle", account.Handle)),
		cfg:           cfg,
		status:        StatusBeforeAuthentication,
	}
}

// Status 当前状态机状态, 仅归属该机器人的 goroutine 可调用其余方法
func (b *Bot) Status() Status {
	return b.status
}

// Login 执行登录握手, 只允许在 BeforeAuthentication 状态调用
func (b *Bot) Login(ctx context.Context) error {
	if b.status != StatusBeforeAuthentication {
		return &InvalidStateError{Want: StatusBeforeAuthentication, Got: b.status}
	}
	if err := b.judge.Authenticate(ctx, b.account); err != nil {
		if IsAuthenticationError(err) {
			b.status = StatusAuthenticationFailed
		}
		return err
	}
	b.status = StatusReady
	return nil
}

// withRelogin 包装依赖已认证会话的网络操作:
// 会话过期 / 认证失效 / 令牌缺失时强制回到 BeforeAuthentication, 重新登录一次并重试一次;
// 第二次会话过期以 *PageLoadError 上浮, 第二次认证失败原样传播, 绝不无限重试
func (b *Bot) withRelogin(ctx context.Context, op func() error) error {
	err := op()
	if err == nil || !isRetryTrigger(err) {
		return err
	}

	botReloginsTotal.WithLabelValues(b.account.Handle).Inc()
	b.log.Warn("session no longer valid, forcing relogin", zap.Error(err))

	prev := b.status
	b.status = StatusBeforeAuthentication
	if lerr := b.Login(ctx); lerr != nil {
		return lerr
	}
	// Login 落在 Ready, 循环中途的重登录要回到原状态
	b.status = prev

	err = op()
	if err != nil {
		var expired *SessionExpiredError
		if errors.As(err, &expired) {
			return &PageLoadError{URL: expired.URL}
		}
		return err
	}
	return nil
}

// SubmitCode 上传一条提交并落库终态
// 成功: 记录远程 ID 并置为 Submitted; 远程 ID 冲突: 清空 ID 并回退为 Failed(绝不允许无唯一远程 ID 的 Submitted);
// 其余失败: 置为 Failed. 账号级(认证)失败原样返回, 交给 Run 退出
func (b *Bot) SubmitCode(ctx context.Context, sub *model.Submission) error {
	var remoteID int64
	err := b.withRelogin(ctx, func() error {
		form, err := b.judge.LoadSubmitForm(ctx, sub)
		if err != nil {
			return err
		}
		source, err := b.code.Open(ctx, sub.CodeURL)
		if err != nil {
			return err
		}
		defer source.Close()
		id, err := b.judge.PostCode(ctx, form, sub, source)
		if err != nil {
			return err
		}
		remoteID = id
		return nil
	})
	if err != nil {
		if IsAuthenticationError(err) {
			return err
		}
		b.log.Error("submit rejected",
			zap.Uint64("submission_id", sub.ID),
			zap.Error(err))
		botSubmissionsTotal.WithLabelValues("failed").Inc()
		return b.submissionSvc.MarkFailed(ctx, sub.ID, model.FailureCauseRejected)
	}

	if err := b.submissionSvc.MarkSubmitted(ctx, sub.ID, remoteID); err != nil {
		if errors.Is(err, service.ErrDuplicateRemoteID) {
			b.log.Warn("remote submission id collision",
				zap.Uint64("submission_id", sub.ID),
				zap.Int64("remote_id", remoteID))
			botSubmissionsTotal.WithLabelValues("duplicate").Inc()
			return b.submissionSvc.MarkFailed(ctx, sub.ID, model.FailureCauseDuplicate)
		}
		return err
	}

	b.log.Info("submitted",
		zap.Uint64("submission_id", sub.ID),
		zap.Int64("remote_id", remoteID))
	botSubmissionsTotal.WithLabelValues("submitted").Inc()
	return nil
}

// PollVerdicts 分页查询状态流, 回填本账号所有未出结论的 Submitted 提交
// 翻页预算 = ceil(未决数/页大小) + PollRetryCount, 预算耗尽仍未匹配的提交置为 ResultNotFound, 之后不再轮询
func (b *Bot) PollVerdicts(ctx context.Context) error {
	subs, err := b.submissionSvc.ListAssignedTo(ctx, b.account.ID, model.SubmissionStatusSubmitted)
	if err != nil {
		return err
	}

	pending := make(map[int64]*model.Submission, len(subs))
	for i := range subs {
		sub := &subs[i]
		if sub.RemoteID == nil || sub.Result.Verdict.Resolved() {
			continue
		}
		pending[*sub.RemoteID] = sub
	}
	if len(pending) == 0 {
		return nil
	}

	start := time.Now()
	defer func() {
		botPollDurationSeconds.Observe(time.Since(start).Seconds())
	}()

	pageSize := b.cfg.StatusPageSize
	maxPages := (len(pending)+pageSize-1)/pageSize + b.cfg.PollRetryCount

	offset := 1 // 状态流的 from 参数从 1 开始
	for page := 0; page < maxPages && len(pending) > 0; page++ {
		rows, err := b.judge.PollStatus(ctx, b.account.Handle, offset, pageSize)
		if err != nil {
			return err
		}
		for _, row := range rows {
			sub, ok := pending[row.RemoteID]
			if !ok {
				continue
			}
			if err := b.submissionSvc.SaveResult(ctx, sub.ID, row.Result); err != nil {
				return err
			}
			// 结论未定(TESTING)的提交下一轮继续轮询
			delete(pending, row.RemoteID)
		}
		offset += len(rows)
	}

	if len(pending) > 0 {
		ids := make([]uint64, 0, len(pending))
		for _, sub := range pending {
			ids = append(ids, sub.ID)
		}
		b.log.Warn("verdicts not found in status feed", zap.Int("count", len(ids)))
		return b.submissionSvc.MarkResultNotFound(ctx, ids)
	}
	return nil
}

// Run 单账号驱动循环: 登录, 然后反复 {按序上传已分配提交, 轮询判题结果, 休眠, 校验账号仍然可用}
// 账号被停用或删除是正常退出; 不可恢复的认证失败把账号置为 AuthFailed 并带错误返回
func (b *Bot) Run(ctx context.Context) error {
	if err := b.Login(ctx); err != nil {
		return b.retire(ctx, err)
	}
	b.status = StatusWorking
	b.log.Info("bot started")

	for {
		if ctx.Err() != nil {
			return b.shutdown(ctx)
		}

		subs, err := b.submissionSvc.ListAssignedTo(ctx, b.account.ID, model.SubmissionStatusInProgress)
		if err != nil {
			b.log.Error("list assigned submissions failed", zap.Error(err))
		}
		for i := range subs {
			if err := b.SubmitCode(ctx, &subs[i]); err != nil {
				if IsAuthenticationError(err) {
					return b.retire(ctx, err)
				}
				b.log.Error("persist submission state failed",
					zap.Uint64("submission_id", subs[i].ID),
					zap.Error(err))
			}
			if !b.sleep(ctx, b.cfg.SubmitDelay) {
				return b.shutdown(ctx)
			}
		}

		if err := b.PollVerdicts(ctx); err != nil {
			if IsAuthenticationError(err) {
				return b.retire(ctx, err)
			}
			b.log.Error("poll verdicts failed", zap.Error(err))
		}

		if !b.sleep(ctx, b.cfg.PollInterval) {
			return b.shutdown(ctx)
		}

		account, err := b.accountSvc.Refresh(ctx, b.account.ID)
		if errors.Is(err, service.ErrAccountNotFound) {
			b.log.Info("account removed, stopping")
			return b.shutdown(ctx)
		}
		if err != nil {
			b.log.Error("refresh account failed", zap.Error(err))
			continue
		}
		if account.Status != model.AccountStatusActive {
			b.log.Info("account inactive, stopping",
				zap.Int8("status", account.Status.Int8()))
			return b.shutdown(ctx)
		}
		b.account = account
	}
}

// sleep 可被取消的休眠, ctx 取消时返回 false
func (b *Bot) sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// shutdown 正常退出: 尽力注销会话, 不视为错误
func (b *Bot) shutdown(ctx context.Context) error {
	if b.status == StatusReady || b.status == StatusWorking {
		if err := b.judge.Logout(ctx); err != nil {
			b.log.Warn("logout failed", zap.Error(err))
		}
	}
	b.status = StatusLoggedOut
	b.log.Info("bot stopped")
	return nil
}

// retire 认证失败退出: 升级账号状态为 AuthFailed, 错误原样带出让管理器收尾
func (b *Bot) retire(ctx context.Context, err error) error {
	if IsAuthenticationError(err) {
		b.status = StatusAuthenticationFailed
		if uerr := b.accountSvc.UpdateStatus(ctx, b.account.ID, model.AccountStatusAuthFailed); uerr != nil {
			b.log.Error("escalate account status failed", zap.Error(uerr))
		}
	}
	return err
}
