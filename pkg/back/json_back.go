package back

import (
	"errors"
	"net/http"

	"Clarity/pkg/xerr"

	"github.com/gin-gonic/gin"
)

// ErrorBody 错误返回结构
type ErrorBody struct {
	Error string `json:"error"`
}

// Result 统一返回入口
//
// 扩展端直接读取业务字段，所以成功时不再包一层 code/message。
func Result(c *gin.Context, data interface{}, err error) {
	if err == nil {
		Success(c, data)
		return
	}

	var e *xerr.CodeError
	if errors.As(err, &e) {
		Error(c, e.Code, e.Message)
		return
	}

	Error(c, xerr.ErrServerError.Code, xerr.ErrServerError.Message)
}

// Success 成功返回
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Error 错误返回，code 即 HTTP 状态码
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, ErrorBody{Error: message})
}
