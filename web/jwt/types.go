package jwt

import (
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type Handler interface {
	ExtractToken(ctx *gin.Context) string
	SetLoginToken(ctx *gin.Context, username string) error
	SetJWTToken(ctx *gin.Context, username, ssid string) error
	ClearToken(ctx *gin.Context) error
	CheckSession(ctx *gin.Context, ssid string) error

	JwtKey() []byte
	GetAdminClaims(ctx *gin.Context) (*AdminClaims, error)
}

type AdminClaims struct {
	jwt.RegisteredClaims
	Username  string
	Ssid      string
	UserAgent string
}

type RefreshAdminClaims struct {
	jwt.RegisteredClaims
	Username string
	Ssid     string
}
