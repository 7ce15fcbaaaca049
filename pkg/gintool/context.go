package gintool

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/to404hanga/codeforces_submit_bot/constants"
	"github.com/to404hanga/codeforces_submit_bot/model"
	"github.com/to404hanga/codeforces_submit_bot/web/jwt"
)

// ExtractOperator 从登录态提取操作人
func ExtractOperator(c *gin.Context, p model.CommonParamInterface) error {
	claimsAny, exists := c.Get(constants.ContextAdminClaimsKey)
	if !exists {
		GinResponse(c, &Response{
			Code:    http.StatusUnauthorized,
			Message: "admin claims not found",
		})
		return fmt.Errorf("admin claims not found in context")
	}
	claims, ok := claimsAny.(jwt.AdminClaims)
	if !ok {
		GinResponse(c, &Response{
			Code:    http.StatusUnauthorized,
			Message: "admin claims type assertion failed",
		})
		return fmt.Errorf("admin claims type assertion failed")
	}
	p.SetOperator(claims.Username)
	return nil
}
