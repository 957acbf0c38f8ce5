package xerr

import "fmt"

// CodeError 自定义错误结构
//
// Code 直接对应返回给调用方的 HTTP 状态码。
type CodeError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error 实现 error 接口
func (e *CodeError) Error() string {
	return fmt.Sprintf("Code: %d, Message: %s", e.Code, e.Message)
}

// New 创建新的 CodeError
func New(code int, msg string) *CodeError {
	return &CodeError{Code: code, Message: msg}
}

// 常用通用错误码
const (
	OK                  = 200
	BadRequest          = 400
	InternalServerError = 500
)

// 常用预定义错误
var (
	ErrServerError = New(InternalServerError, "internal server error")
	ErrParam       = New(BadRequest, "invalid request body")
	// ErrNoText 输入文本为空，调用上游之前直接拒绝
	ErrNoText = New(BadRequest, "no text provided")
)
