package bot

import (
	"errors"
	"fmt"
)

// ErrSubmitRejected 提交页面未返回成功标记
var ErrSubmitRejected = errors.New("submission rejected by remote judge")

// SessionExpiredError 重定向次数超限, 视为会话过期, 触发一次重新登录
type SessionExpiredError struct {
	URL string
}

func (e *SessionExpiredError) Error() string {
	return fmt.Sprintf("session expired while loading %q: too many redirects", e.URL)
}

// PageLoadError 页面加载失败(非 200 响应, 或重试一次后仍然会话过期)
type PageLoadError struct {
	URL        string
	StatusCode int
}

func (e *PageLoadError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("load page %q failed", e.URL)
	}
	return fmt.Sprintf("load page %q failed with status %d", e.URL, e.StatusCode)
}

// TokenNotFoundError 页面上找不到预期的防伪令牌, 与认证失败走同一条重试路径
type TokenNotFoundError struct {
	URL string
}

func (e *TokenNotFoundError) Error() string {
	return fmt.Sprintf("csrf token not found on page %q", e.URL)
}

// AuthenticationError 账号登录失败或会话不再有效
type AuthenticationError struct {
	Handle string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed for %q", e.Handle)
}

// InvalidStateError 状态机被以错误的状态调用, 属于编程错误, 不做静默恢复
type InvalidStateError struct {
	Want Status
	Got  Status
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("bot must be in state %q but is in state %q", e.Want, e.Got)
}

// InactiveAccountError 账号已不再是 Active 状态, 不是错误, 是该账号任务的正常退出信号
type InactiveAccountError struct {
	AccountID uint64
	Handle    string
}

func (e *InactiveAccountError) Error() string {
	return fmt.Sprintf("account %q (id=%d) is no longer active", e.Handle, e.AccountID)
}

// isRetryTrigger 判断错误是否触发重新登录重试(会话过期 / 认证失效 / 令牌缺失)
func isRetryTrigger(err error) bool {
	if IsSessionExpired(err) {
		return true
	}
	var authErr *AuthenticationError
	if errors.As(err, &authErr) {
		return true
	}
	var tokenErr *TokenNotFoundError
	return errors.As(err, &tokenErr)
}

// IsSessionExpired 错误链中是否存在会话过期
func IsSessionExpired(err error) bool {
	var expired *SessionExpiredError
	return errors.As(err, &expired)
}

// IsAuthenticationError 账号级失败, 需要把账号置为 AuthFailed 并退出任务
func IsAuthenticationError(err error) bool {
	var authErr *AuthenticationError
	return errors.As(err, &authErr)
}
