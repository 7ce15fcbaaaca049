package gintool

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/to404hanga/codeforces_submit_bot/model"
	"go.uber.org/zap"
)

// bindErrorMessage 校验失败时返回按字段展开的提示, 其余绑定错误原样返回
func bindErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("field %s failed on %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}

// WrapHandler 包装处理函数
func WrapHandler[T any, PT interface {
	model.CommonParamInterface
	*T
}](h func(c *gin.Context, pType PT), log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var param T
		p := PT(&param)
		// 1) URI
		if len(c.Params) > 0 {
			if err := c.ShouldBindUri(p); err != nil {
				GinResponse(c, &Response{
					Code:    http.StatusBadRequest,
					Message: bindErrorMessage(err),
				})
				log.Error("WrapHandler bind uri failed", zap.Error(err))
				return
			}
		}

		// 2) Header
		if err := c.ShouldBindHeader(p); err != nil {
			GinResponse(c, &Response{
				Code:    http.StatusBadRequest,
				Message: bindErrorMessage(err),
			})
			log.Error("WrapHandler bind header failed", zap.Error(err))
			return
		}

		// 3) Query/Form
		if c.Request.URL != nil && c.Request.URL.RawQuery != "" {
			if err := c.ShouldBindQuery(p); err != nil {
				GinResponse(c, &Response{
					Code:    http.StatusBadRequest,
					Message: bindErrorMessage(err),
				})
				log.Error("WrapHandler bind query failed", zap.Error(err))
				return
			}
		}

		// 4) JSON
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(p); err != nil {
				GinResponse(c, &Response{
					Code:    http.StatusBadRequest,
					Message: bindErrorMessage(err),
				})
				log.Error("WrapHandler bind json failed", zap.Error(err))
				return
			}
		}

		if err := ExtractOperator(c, p); err != nil {
			log.Error("WrapHandler ExtractOperator failed", zap.Error(err))
			return
		}

		h(c, p)
	}
}

// WrapWithoutBodyHandler 包装处理函数, 不做参数绑定
func WrapWithoutBodyHandler[T any, PT interface {
	model.CommonParamInterface
	*T
}](h func(c *gin.Context, pType PT), log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var param T
		p := PT(&param)

		if err := ExtractOperator(c, p); err != nil {
			log.Error("WrapWithoutBodyHandler ExtractOperator failed", zap.Error(err))
			return
		}

		h(c, p)
	}
}
