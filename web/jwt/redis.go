package jwt

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/to404hanga/codeforces_submit_bot/constants"
)

var ssidKey = "admins:ssid:%s"

type RedisJWTHandler struct {
	client            redis.Cmdable
	signingMethod     jwt.SigningMethod
	jwtExpiration     time.Duration
	refreshExpiration time.Duration
	jwtKey            []byte
	refreshKey        []byte
}

func NewRedisJWTHandler(client redis.Cmdable, jwtKey []byte, refreshKey []byte, jwtExpiration, refreshExpiration time.Duration) Handler {
	return &RedisJWTHandler{
		client:            client,
		signingMethod:     jwt.SigningMethodHS512,
		jwtExpiration:     jwtExpiration,
		refreshExpiration: refreshExpiration,
		jwtKey:            jwtKey,
		refreshKey:        refreshKey,
	}
}

var _ Handler = &RedisJWTHandler{}

func (h *RedisJWTHandler) CheckSession(ctx *gin.Context, ssid string) error {
	cnt, err := h.client.Exists(ctx, fmt.Sprintf(ssidKey, ssid)).Result()
	if err != nil {
		return err
	}
	if cnt > 0 {
		return errors.New("token invalid")
	}
	return nil
}

func (h *RedisJWTHandler) SetLoginToken(ctx *gin.Context, username string) error {
	ssid := uuid.New().String()
	if err := h.SetRefreshToken(ctx, username, ssid); err != nil {
		return err
	}
	return h.SetJWTToken(ctx, username, ssid)
}

func (h *RedisJWTHandler) ExtractToken(ctx *gin.Context) string {
	// 优先从 X-Admin-JWT-Token Header 提取token
	authCode := ctx.GetHeader(constants.HeaderLoginTokenKey)
	if authCode != "" {
		segs := strings.Split(authCode, " ")
		if len(segs) == 2 && segs[0] == "Bearer" {
			return segs[1]
		}
	}

	// 如果Header中没有，尝试从Cookie中提取
	tokenFromCookie, err := ctx.Cookie(constants.HeaderLoginTokenKey)
	if err != nil || tokenFromCookie == "" {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return ""
	}

	return tokenFromCookie
}

func (h *RedisJWTHandler) SetJWTToken(ctx *gin.Context, username, ssid string) error {
	uc := AdminClaims{
		Username:  username,
		Ssid:      ssid,
		UserAgent: ctx.GetHeader("User-Agent"),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(h.jwtExpiration)),
		},
	}
	token := jwt.NewWithClaims(h.signingMethod, uc)
	tokenStr, err := token.SignedString(h.jwtKey)
	if err != nil {
		return err
	}

	// 设置响应头
	ctx.Header(constants.HeaderLoginTokenKey, tokenStr)

	// 同时设置Cookie，支持浏览器自动携带
	ctx.SetCookie(
		constants.HeaderLoginTokenKey,
		tokenStr,
		int(h.jwtExpiration.Seconds()),
		"/",
		"",
		false,
		true,
	)

	return nil
}

func (h *RedisJWTHandler) SetRefreshToken(ctx *gin.Context, username, ssid string) error {
	rc := RefreshAdminClaims{
		Username: username,
		Ssid:     ssid,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(h.refreshExpiration)),
		},
	}
	token := jwt.NewWithClaims(h.signingMethod, rc)
	tokenStr, err := token.SignedString(h.refreshKey)
	if err != nil {
		return err
	}
	ctx.Header(constants.HeaderRefreshTokenKey, tokenStr)

	ctx.SetCookie(
		constants.HeaderRefreshTokenKey,
		tokenStr,
		int(h.refreshExpiration.Seconds()),
		"/",
		"",
		false,
		true,
	)
	return nil
}

// ClearToken 注销当前会话, ssid 在刷新令牌过期前一直视为无效
func (h *RedisJWTHandler) ClearToken(ctx *gin.Context) error {
	claims, err := h.GetAdminClaims(ctx)
	if err != nil {
		return err
	}

	ctx.Header(constants.HeaderLoginTokenKey, "")
	ctx.Header(constants.HeaderRefreshTokenKey, "")
	ctx.SetCookie(constants.HeaderLoginTokenKey, "", -1, "/", "", false, true)
	ctx.SetCookie(constants.HeaderRefreshTokenKey, "", -1, "/", "", false, true)

	return h.client.Set(ctx, fmt.Sprintf(ssidKey, claims.Ssid), "", h.refreshExpiration).Err()
}

func (h *RedisJWTHandler) JwtKey() []byte {
	return h.jwtKey
}

func (h *RedisJWTHandler) RefreshKey() []byte {
	return h.refreshKey
}

func (h *RedisJWTHandler) GetAdminClaims(ctx *gin.Context) (*AdminClaims, error) {
	ucAny, exists := ctx.Get(constants.ContextAdminClaimsKey)
	if !exists {
		return nil, fmt.Errorf("admin claims not found in context")
	}
	uc, ok := ucAny.(AdminClaims)
	if !ok {
		return nil, fmt.Errorf("admin claims type assertion error")
	}
	return &uc, nil
}
