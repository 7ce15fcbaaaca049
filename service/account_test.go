package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/to404hanga/codeforces_submit_bot/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestAccountService(t *testing.T) (AccountService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewAccountService(db, zap.NewNop()), db
}

func createTestAccount(t *testing.T, svc AccountService, handle string) uint64 {
	t.Helper()
	id, err := svc.CreateAccount(context.Background(), &model.CreateAccountParam{
		Handle:   handle,
		Password: "secret_5",
		Email:    fmt.Sprintf("%s@example.com", handle),
		Verified: true,
	})
	require.NoError(t, err)
	return id
}

func TestListActive(t *testing.T) {
	svc, _ := newTestAccountService(t)
	ctx := context.Background()

	first := createTestAccount(t, svc, "bot_1")
	second := createTestAccount(t, svc, "bot_2")
	require.NoError(t, svc.UpdateStatus(ctx, second, model.AccountStatusInactive))

	accounts, err := svc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, first, accounts[0].ID)
}

func TestRefresh(t *testing.T) {
	svc, _ := newTestAccountService(t)
	ctx := context.Background()
	id := createTestAccount(t, svc, "bot_1")

	account, err := svc.Refresh(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "bot_1", account.Handle)
	assert.Equal(t, model.AccountStatusActive, account.Status)

	_, err = svc.Refresh(ctx, id+1)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestUpdateStatus(t *testing.T) {
	svc, _ := newTestAccountService(t)
	ctx := context.Background()
	id := createTestAccount(t, svc, "bot_1")

	require.NoError(t, svc.UpdateStatus(ctx, id, model.AccountStatusAuthFailed))

	account, err := svc.Refresh(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.AccountStatusAuthFailed, account.Status)
}

func TestTouchAssignment(t *testing.T) {
	svc, _ := newTestAccountService(t)
	ctx := context.Background()
	id := createTestAccount(t, svc, "bot_1")

	account, err := svc.Refresh(ctx, id)
	require.NoError(t, err)
	require.Nil(t, account.LastAssignment)

	require.NoError(t, svc.TouchAssignment(ctx, id))

	account, err = svc.Refresh(ctx, id)
	require.NoError(t, err)
	assert.NotNil(t, account.LastAssignment)
}

func TestUpdateAccount(t *testing.T) {
	svc, _ := newTestAccountService(t)
	ctx := context.Background()
	id := createTestAccount(t, svc, "bot_1")
	require.NoError(t, svc.UpdateStatus(ctx, id, model.AccountStatusAuthFailed))

	// 重新激活并换密码
	password := "newsecret"
	status := model.AccountStatusActive
	require.NoError(t, svc.UpdateAccount(ctx, &model.UpdateAccountParam{
		AccountID: id,
		Password:  &password,
		Status:    &status,
	}))

	account, err := svc.Refresh(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.AccountStatusActive, account.Status)
	assert.Equal(t, "newsecret", account.Password)
	assert.True(t, account.Verified)

	// 空更新是无操作
	require.NoError(t, svc.UpdateAccount(ctx, &model.UpdateAccountParam{AccountID: id}))

	err = svc.UpdateAccount(ctx, &model.UpdateAccountParam{
		AccountID: id + 100,
		Password:  &password,
	})
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestGetAccountList(t *testing.T) {
	svc, _ := newTestAccountService(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		createTestAccount(t, svc, fmt.Sprintf("bot_%d", i))
	}
	inactive := createTestAccount(t, svc, "bot_4")
	require.NoError(t, svc.UpdateStatus(ctx, inactive, model.AccountStatusInactive))

	resp, err := svc.GetAccountList(ctx, &model.GetAccountListParam{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(4), resp.Total)
	assert.Len(t, resp.List, 4)

	status := model.AccountStatusInactive
	resp, err = svc.GetAccountList(ctx, &model.GetAccountListParam{
		Status:   &status,
		Page:     1,
		PageSize: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Total)
	require.Len(t, resp.List, 1)
	assert.Equal(t, inactive, resp.List[0].ID)
}
