package bot

import (
	"context"
	"io"

	"github.com/to404hanga/codeforces_submit_bot/model"
)

// SubmitForm 提交页面表单的关键信息: 目标地址与防伪令牌
type SubmitForm struct {
	URL       string
	CSRFToken string
}

// StatusRow 远程状态流中的一行
type StatusRow struct {
	RemoteID int64
	Result   model.RemoteResult
}

// Judge 抽象一个远程评测站的能力集合, 通用循环只依赖该接口
type Judge interface {
	// Authenticate 执行登录握手, 登录页缺少预期的认证痕迹时返回 *AuthenticationError
	Authenticate(ctx context.Context, account *model.BotAccount) error
	// LoadSubmitForm 加载提交页面并抽取防伪令牌
	LoadSubmitForm(ctx context.Context, sub *model.Submission) (*SubmitForm, error)
	// PostCode 上传代码并返回远程提交 ID, 页面无成功标记时返回 ErrSubmitRejected
	PostCode(ctx context.Context, form *SubmitForm, sub *model.Submission, source io.Reader) (int64, error)
	// PollStatus 按页查询某账号的判题状态流, offset 从 1 开始
	PollStatus(ctx context.Context, handle string, offset, count int) ([]StatusRow, error)
	// Logout 注销当前会话, 尽力而为
	Logout(ctx context.Context) error
}

// JudgeFactory 为每个机器人创建独立的评测站会话, 会话不跨账号共享
type JudgeFactory interface {
	NewJudge() (Judge, error)
}

// CodeStore 提交代码的只读访问, 提交时按对象名打开字节流
type CodeStore interface {
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}
