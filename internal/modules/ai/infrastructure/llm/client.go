package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Client 上游补全接口
//
// Call 只发一次请求（无重试），成功时原样返回上游 JSON，不校验结构。
type Client interface {
	Call(ctx context.Context, prompt string, maxTokens int) (json.RawMessage, error)
}

// ErrNotConfigured 缺少上游地址或凭证，在发起任何网络请求之前返回
var ErrNotConfigured = errors.New("upstream credentials not configured (see .env)")

// UpstreamHTTPError 上游返回非 2xx
type UpstreamHTTPError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamHTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// UpstreamTransportError 网络层失败（超时、连接错误、响应体不可读）
type UpstreamTransportError struct {
	Err error
}

func (e *UpstreamTransportError) Error() string {
	return "upstream request failed: " + e.Err.Error()
}

func (e *UpstreamTransportError) Unwrap() error {
	return e.Err
}

// unconfiguredClient 凭证缺失时的占位实现，让错误在请求时暴露而不是阻止启动
type unconfiguredClient struct {
	reason error
}

func (c *unconfiguredClient) Call(ctx context.Context, prompt string, maxTokens int) (json.RawMessage, error) {
	return nil, c.reason
}
