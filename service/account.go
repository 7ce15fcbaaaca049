package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/to404hanga/codeforces_submit_bot/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrAccountNotFound 账号不存在, 机器人侧视为该账号任务的正常退出信号
var ErrAccountNotFound = errors.New("bot account not found")

type AccountService interface {
	// ListActive 列出当前所有可用账号
	ListActive(ctx context.Context) ([]model.BotAccount, error)
	// Refresh 重新读取账号最新状态, 不存在时返回 ErrAccountNotFound
	Refresh(ctx context.Context, accountID uint64) (*model.BotAccount, error)
	// UpdateStatus 更新账号状态
	UpdateStatus(ctx context.Context, accountID uint64, status model.AccountStatus) error
	// TouchAssignment 记录最近一次分配时间
	TouchAssignment(ctx context.Context, accountID uint64) error
	// GetAccountList 获取账号列表(管理页面使用)
	GetAccountList(ctx context.Context, param *model.GetAccountListParam) (*model.GetAccountListResponse, error)
	// CreateAccount 创建账号
	CreateAccount(ctx context.Context, param *model.CreateAccountParam) (uint64, error)
	// UpdateAccount 更新账号, 将状态置回 Active 即为重新激活
	UpdateAccount(ctx context.Context, param *model.UpdateAccountParam) error
}

type AccountServiceImpl struct {
	db  *gorm.DB
	log *zap.Logger
}

var _ AccountService = (*AccountServiceImpl)(nil)

func NewAccountService(db *gorm.DB, log *zap.Logger) AccountService {
	return &AccountServiceImpl{
		db:  db,
		log: log,
	}
}

func (s *AccountServiceImpl) ListActive(ctx context.Context) ([]model.BotAccount, error) {
	var accounts []model.BotAccount
	err := s.db.WithContext(ctx).Model(&model.BotAccount{}).
		Where("status = ?", model.AccountStatusActive).
		Order("id asc").
		Find(&accounts).Error
	if err != nil {
		return nil, fmt.Errorf("ListActive failed at find accounts: %w", err)
	}
	return accounts, nil
}

func (s *AccountServiceImpl) Refresh(ctx context.Context, accountID uint64) (*model.BotAccount, error) {
	var account model.BotAccount
	err := s.db.WithContext(ctx).Model(&model.BotAccount{}).
		Where("id = ?", accountID).
		First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("Refresh failed at find account: %w", err)
	}
	return &account, nil
}

func (s *AccountServiceImpl) UpdateStatus(ctx context.Context, accountID uint64, status model.AccountStatus) error {
	err := s.db.WithContext(ctx).Model(&model.BotAccount{}).
		Where("id = ?", accountID).
		Update("status", status).Error
	if err != nil {
		return fmt.Errorf("UpdateStatus failed at update account: %w", err)
	}
	return nil
}

func (s *AccountServiceImpl) TouchAssignment(ctx context.Context, accountID uint64) error {
	err := s.db.WithContext(ctx).Model(&model.BotAccount{}).
		Where("id = ?", accountID).
		Update("last_assignment", time.Now()).Error
	if err != nil {
		return fmt.Errorf("TouchAssignment failed at update account: %w", err)
	}
	return nil
}

func (s *AccountServiceImpl) GetAccountList(ctx context.Context, param *model.GetAccountListParam) (*model.GetAccountListResponse, error) {
	query := s.db.WithContext(ctx).Model(&model.BotAccount{})
	if param.Status != nil {
		query = query.Where("status = ?", *param.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("GetAccountList failed at count accounts: %w", err)
	}

	var accounts []model.BotAccount
	err := query.Order("id desc").
		Limit(param.PageSize).
		Offset((param.Page - 1) * param.PageSize).
		Find(&accounts).Error
	if err != nil {
		return nil, fmt.Errorf("GetAccountList failed at find accounts: %w", err)
	}

	return &model.GetAccountListResponse{
		Total:    total,
		List:     accounts,
		Page:     param.Page,
		PageSize: param.PageSize,
	}, nil
}

func (s *AccountServiceImpl) CreateAccount(ctx context.Context, param *model.CreateAccountParam) (uint64, error) {
	account := model.BotAccount{
		Handle:   param.Handle,
		Password: param.Password,
		Email:    param.Email,
		Verified: param.Verified,
		Status:   model.AccountStatusActive,
	}
	if err := s.db.WithContext(ctx).Create(&account).Error; err != nil {
		return 0, fmt.Errorf("CreateAccount failed at create account: %w", err)
	}
	return account.ID, nil
}

func (s *AccountServiceImpl) UpdateAccount(ctx context.Context, param *model.UpdateAccountParam) error {
	updates := make(map[string]any, 3)
	if param.Password != nil {
		updates["password"] = *param.Password
	}
	if param.Status != nil {
		updates["status"] = param.Status.Int8()
	}
	if param.Verified != nil {
		updates["verified"] = *param.Verified
	}
	if len(updates) == 0 {
		return nil
	}

	res := s.db.WithContext(ctx).Model(&model.BotAccount{}).
		Where("id = ?", param.AccountID).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("UpdateAccount failed at update account: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}
