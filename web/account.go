package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/to404hanga/codeforces_submit_bot/constants"
	"github.com/to404hanga/codeforces_submit_bot/model"
	"github.com/to404hanga/codeforces_submit_bot/pkg/gintool"
	"github.com/to404hanga/codeforces_submit_bot/service"
	"go.uber.org/zap"
)

type AccountHandler struct {
	accountSvc service.AccountService
	log        *zap.Logger
}

var _ Handler = (*AccountHandler)(nil)

func NewAccountHandler(accountSvc service.AccountService, log *zap.Logger) *AccountHandler {
	return &AccountHandler{
		accountSvc: accountSvc,
		log:        log,
	}
}

func (h *AccountHandler) Register(r *gin.Engine) {
	r.GET(constants.GetAccountListPath, gintool.WrapHandler(h.GetAccountList, h.log))
	r.POST(constants.CreateAccountPath, gintool.WrapHandler(h.CreateAccount, h.log))
	r.POST(constants.UpdateAccountPath, gintool.WrapHandler(h.UpdateAccount, h.log))
}

func (h *AccountHandler) GetAccountList(c *gin.Context, param *model.GetAccountListParam) {
	ctx := c.Request.Context()

	resp, err := h.accountSvc.GetAccountList(ctx, param)
	if err != nil {
		gintool.GinResponse(c, &gintool.Response{
			Code:    http.StatusInternalServerError,
			Message: err.Error(),
		})
		h.log.Error("GetAccountList failed", zap.Error(err))
		return
	}

	gintool.GinResponse(c, &gintool.Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    resp,
	})
}

func (h *AccountHandler) CreateAccount(c *gin.Context, param *model.CreateAccountParam) {
	ctx := c.Request.Context()

	accountID, err := h.accountSvc.CreateAccount(ctx, param)
	if err != nil {
		gintool.GinResponse(c, &gintool.Response{
			Code:    http.StatusInternalServerError,
			Message: err.Error(),
		})
		h.log.Error("CreateAccount failed",
			zap.Error(err),
			zap.String("handle", param.Handle),
			zap.String("operator", param.Operator),
		)
		return
	}

	h.log.Info("bot account created",
		zap.Uint64("account_id", accountID),
		zap.String("handle", param.Handle),
		zap.String("operator", param.Operator),
	)
	gintool.GinResponse(c, &gintool.Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    gin.H{"account_id": accountID},
	})
}

func (h *AccountHandler) UpdateAccount(c *gin.Context, param *model.UpdateAccountParam) {
	ctx := c.Request.Context()

	err := h.accountSvc.UpdateAccount(ctx, param)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, service.ErrAccountNotFound) {
			code = http.StatusNotFound
		}
		gintool.GinResponse(c, &gintool.Response{
			Code:    code,
			Message: err.Error(),
		})
		h.log.Error("UpdateAccount failed",
			zap.Error(err),
			zap.Uint64("account_id", param.AccountID),
			zap.String("operator", param.Operator),
		)
		return
	}

	h.log.Info("bot account updated",
		zap.Uint64("account_id", param.AccountID),
		zap.String("operator", param.Operator),
	)
	gintool.GinResponse(c, &gintool.Response{
		Code:    http.StatusOK,
		Message: "success",
	})
}
