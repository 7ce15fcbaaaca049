package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/to404hanga/codeforces_submit_bot/constants"
	botjwt "github.com/to404hanga/codeforces_submit_bot/web/jwt"
	"go.uber.org/zap"
)

type JWTMiddlewareBuilder struct {
	botjwt.Handler
	log         *zap.Logger
	ignorePaths []string
}

func NewJWTMiddlewareBuilder(handler botjwt.Handler, log *zap.Logger, ignorePaths []string) *JWTMiddlewareBuilder {
	return &JWTMiddlewareBuilder{
		Handler:     handler,
		log:         log,
		ignorePaths: ignorePaths,
	}
}

// CheckLogin 校验管理员登录态
func (m *JWTMiddlewareBuilder) CheckLogin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		path := ctx.Request.URL.Path
		for _, p := range m.ignorePaths {
			if strings.HasPrefix(path, p) {
				ctx.Next()
				return
			}
		}

		var uc botjwt.AdminClaims
		token, err := jwt.ParseWithClaims(m.ExtractToken(ctx), &uc, func(t *jwt.Token) (any, error) {
			return m.JwtKey(), nil
		})
		if err != nil || token == nil || !token.Valid {
			m.log.Error("CheckLogin failed",
				zap.Error(err),
				zap.Bool("token==nil", token == nil),
			)
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		if err = m.CheckSession(ctx, uc.Ssid); err != nil {
			m.log.Error("CheckLogin failed", zap.Error(err))
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		ctx.Set(constants.ContextAdminClaimsKey, uc)
		ctx.Next()
	}
}
