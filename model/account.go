package model

import "time"

type AccountStatus int8

const (
	AccountStatusActive       AccountStatus = iota + 1 // 可用
	AccountStatusAuthFailed                            // 登录凭证失效, 需人工处理, 不会自动恢复
	AccountStatusInactive                              // 管理员停用
)

func (s AccountStatus) Int8() int8 {
	return int8(s)
}

// BotAccount 远程评测站上的机器人账号
// Password 必须明文保存, 登录远程评测站时需要原文
type BotAccount struct {
	ID             uint64        `gorm:"primaryKey" json:"id"`
	Handle         string        `gorm:"size:64;uniqueIndex" json:"handle"`
	Password       string        `gorm:"size:32" json:"-"`
	Email          string        `gorm:"size:128;uniqueIndex" json:"email"`
	Verified       bool          `json:"verified"`
	Status         AccountStatus `gorm:"default:1;index" json:"status"`
	LastActivity   time.Time     `gorm:"autoUpdateTime" json:"last_activity"`
	LastAssignment *time.Time    `json:"last_assignment,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}

func (BotAccount) TableName() string {
	return "bot_accounts"
}

type GetAccountListParam struct {
	CommonParam `json:"-"`

	Status *AccountStatus `form:"status" binding:"omitempty,oneof=1 2 3"` // 按状态查询

	Page     int `form:"page" binding:"required,min=1"`               // 分页页码
	PageSize int `form:"page_size" binding:"required,min=10,max=100"` // 分页每页数量
}

type GetAccountListResponse struct {
	Total    int64        `json:"total"`     // 总记录数
	List     []BotAccount `json:"list"`      // 记录列表
	Page     int          `json:"page"`      // 分页页码
	PageSize int          `json:"page_size"` // 分页每页数量
}

type CreateAccountParam struct {
	CommonParam `json:"-"`

	Handle   string `json:"handle" binding:"required,max=64"`
	Password string `json:"password" binding:"required,min=5,max=32"`
	Email    string `json:"email" binding:"required,email"`
	Verified bool   `json:"verified"`
}

type UpdateAccountParam struct {
	CommonParam `json:"-"`

	AccountID uint64 `json:"account_id" binding:"required"`

	Password *string        `json:"password" binding:"omitempty,min=5,max=32"`
	Status   *AccountStatus `json:"status" binding:"omitempty,oneof=1 2 3"` // 重新激活即置回 1
	Verified *bool          `json:"verified"`
}
