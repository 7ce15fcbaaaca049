package web

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/to404hanga/codeforces_submit_bot/constants"
	"github.com/to404hanga/codeforces_submit_bot/model"
	"github.com/to404hanga/codeforces_submit_bot/pkg/gintool"
	"github.com/to404hanga/codeforces_submit_bot/web/jwt"
	"go.uber.org/zap"
)

type AdminHandler struct {
	jwtHandler jwt.Handler
	log        *zap.Logger
	username   string
	password   string
}

var _ Handler = (*AdminHandler)(nil)

func NewAdminHandler(jwtHandler jwt.Handler, log *zap.Logger, username, password string) *AdminHandler {
	return &AdminHandler{
		jwtHandler: jwtHandler,
		log:        log,
		username:   username,
		password:   password,
	}
}

func (h *AdminHandler) Register(r *gin.Engine) {
	r.POST(constants.AdminLoginPath, h.Login)
	r.POST(constants.AdminLogoutPath, h.Logout)
}

func (h *AdminHandler) Login(c *gin.Context) {
	var param model.AdminLoginParam
	if err := c.ShouldBindJSON(&param); err != nil {
		gintool.GinResponse(c, &gintool.Response{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
		h.log.Error("Login bind json failed", zap.Error(err))
		return
	}

	usernameOK := subtle.ConstantTimeCompare([]byte(param.Username), []byte(h.username)) == 1
	passwordOK := subtle.ConstantTimeCompare([]byte(param.Password), []byte(h.password)) == 1
	if !usernameOK || !passwordOK {
		gintool.GinResponse(c, &gintool.Response{
			Code:    http.StatusUnauthorized,
			Message: "invalid username or password",
		})
		h.log.Warn("Login rejected", zap.String("username", param.Username))
		return
	}

	if err := h.jwtHandler.SetLoginToken(c, param.Username); err != nil {
		gintool.GinResponse(c, &gintool.Response{
			Code:    http.StatusInternalServerError,
			Message: err.Error(),
		})
		h.log.Error("Login SetLoginToken failed", zap.Error(err))
		return
	}

	gintool.GinResponse(c, &gintool.Response{
		Code:    http.StatusOK,
		Message: "success",
	})
}

func (h *AdminHandler) Logout(c *gin.Context) {
	if err := h.jwtHandler.ClearToken(c); err != nil {
		gintool.GinResponse(c, &gintool.Response{
			Code:    http.StatusInternalServerError,
			Message: err.Error(),
		})
		h.log.Error("Logout ClearToken failed", zap.Error(err))
		return
	}

	gintool.GinResponse(c, &gintool.Response{
		Code:    http.StatusOK,
		Message: "success",
	})
}
