package model

import (
	"strconv"
	"time"
)

type SubmissionStatus int8

const (
	SubmissionStatusPending        SubmissionStatus = iota + 1 // 等待分配
	SubmissionStatusInProgress                                 // 已分配给账号, 等待上传
	SubmissionStatusFailed                                     // 上传失败
	SubmissionStatusSubmitted                                  // 已上传到远程评测站
	SubmissionStatusResultNotFound                             // 远程状态流中找不到结果, 停止轮询
)

func (s SubmissionStatus) Int8() int8 {
	return int8(s)
}

func (s SubmissionStatus) String() string {
	switch s {
	case SubmissionStatusPending:
		return "Pending"
	case SubmissionStatusInProgress:
		return "InProgress"
	case SubmissionStatusFailed:
		return "Failed"
	case SubmissionStatusSubmitted:
		return "Submitted"
	case SubmissionStatusResultNotFound:
		return "ResultNotFound"
	default:
		return "Unknown"
	}
}

// FailureCause 区分上传失败的原因, 便于排查
type FailureCause int8

const (
	FailureCauseNone       FailureCause = iota // 未失败
	FailureCauseRejected                       // 远程评测站未接受提交
	FailureCauseDuplicate                      // 远程提交 ID 与已有记录冲突
)

func (c FailureCause) String() string {
	switch c {
	case FailureCauseNone:
		return ""
	case FailureCauseRejected:
		return "Rejected"
	case FailureCauseDuplicate:
		return "Duplicate"
	default:
		return "Unknown"
	}
}

// Verdict 远程评测站的判题结论, 开放集合, 与 Codeforces API 取值保持一致
type Verdict string

const (
	VerdictTesting                Verdict = "TESTING"
	VerdictOK                     Verdict = "OK"
	VerdictWrongAnswer            Verdict = "WRONG_ANSWER"
	VerdictTimeLimitExceeded      Verdict = "TIME_LIMIT_EXCEEDED"
	VerdictMemoryLimitExceeded    Verdict = "MEMORY_LIMIT_EXCEEDED"
	VerdictRuntimeError           Verdict = "RUNTIME_ERROR"
	VerdictCompilationError       Verdict = "COMPILATION_ERROR"
	VerdictSkipped                Verdict = "SKIPPED"
	VerdictRejected               Verdict = "REJECTED"
	VerdictChallenged             Verdict = "CHALLENGED"
	VerdictPartial                Verdict = "PARTIAL"
	VerdictIdlenessLimitExceeded  Verdict = "IDLENESS_LIMIT_EXCEEDED"
	VerdictCrashed                Verdict = "CRASHED"
	VerdictFailed                 Verdict = "FAILED"
	VerdictSecurityViolated       Verdict = "SECURITY_VIOLATED"
	VerdictInputPreparationFailed Verdict = "INPUT_PREPARATION_CRASHED"
)

// Resolved 判题是否已出终态结论
func (v Verdict) Resolved() bool {
	return v != "" && v != VerdictTesting
}

// RemoteResult 远程判题结果子记录, 各字段要么全部为空要么一起写入
type RemoteResult struct {
	Verdict             Verdict `gorm:"size:32" json:"verdict"`
	Testset             string  `gorm:"size:16" json:"testset"`
	PassedTestCount     int     `json:"passed_test_count"`
	TimeConsumedMillis  int     `json:"time_consumed_millis"`
	MemoryConsumedBytes int64   `json:"memory_consumed_bytes"`
	Points              float64 `json:"points"`
}

// Present 结果子记录是否已写入
func (r RemoteResult) Present() bool {
	return r.Verdict != ""
}

// Submission 一次用户代码提交
// 不变式: Status == Submitted 当且仅当 RemoteID 非空; Status == Pending 当且仅当 AccountID 为空
type Submission struct {
	ID           uint64           `gorm:"primaryKey" json:"id"`
	AccountID    *uint64          `gorm:"index" json:"account_id,omitempty"`
	CodeURL      string           `gorm:"size:256" json:"code_url"`
	Status       SubmissionStatus `gorm:"default:1;index" json:"status"`
	FailureCause FailureCause     `gorm:"default:0" json:"failure_cause"`

	ContestID      *int64  `json:"contest_id,omitempty"`
	ProblemsetName *string `gorm:"size:16" json:"problemset_name,omitempty"`
	ProblemIndex   string  `gorm:"size:8" json:"problem_index"`
	LanguageID     int     `json:"language_id"`

	RemoteID *int64       `gorm:"uniqueIndex" json:"remote_id,omitempty"`
	Result   RemoteResult `gorm:"embedded;embeddedPrefix:result_" json:"result"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Submission) TableName() string {
	return "submissions"
}

// ProblemCode 远程评测站提交表单中的题目编号, 如 1700A
func (s *Submission) ProblemCode() string {
	if s.ContestID != nil {
		return strconv.FormatInt(*s.ContestID, 10) + s.ProblemIndex
	}
	return s.ProblemIndex
}

type SubmitCodeParam struct {
	CommonParam `json:"-"`

	Code           string  `json:"code" binding:"required"`
	LanguageID     int     `json:"language_id" binding:"required"`
	ContestID      *int64  `json:"contest_id"`
	ProblemsetName *string `json:"problemset_name"`
	ProblemIndex   string  `json:"problem_index" binding:"required,max=8"`
}

type SubmitCodeResponse struct {
	SubmissionID uint64 `json:"submission_id"`
}

type GetSubmissionListParam struct {
	CommonParam `json:"-"`

	AccountID *uint64           `form:"account_id"`                                 // 按账号查询
	Status    *SubmissionStatus `form:"status" binding:"omitempty,oneof=1 2 3 4 5"` // 按状态查询

	Page     int `form:"page" binding:"required,min=1"`               // 分页页码
	PageSize int `form:"page_size" binding:"required,min=10,max=100"` // 分页每页数量
}

type GetSubmissionListResponse struct {
	Total    int64        `json:"total"`     // 总记录数
	List     []Submission `json:"list"`      // 记录列表
	Page     int          `json:"page"`      // 分页页码
	PageSize int          `json:"page_size"` // 分页每页数量
}

type GetSubmissionParam struct {
	CommonParam `json:"-"`

	SubmissionID uint64 `form:"submission_id" binding:"required"`
}

type GetSubmissionCodeURLParam struct {
	CommonParam `json:"-"`

	SubmissionID uint64 `form:"submission_id" binding:"required"`
}

type GetSubmissionCodeURLResponse struct {
	PresignedURL string `json:"presigned_url"`
}

type ExportSubmissionListParam struct {
	CommonParam `json:"-"`

	AccountID *uint64 `form:"account_id"`
	Format    string  `form:"format" binding:"required,oneof=csv xlsx"`
}
