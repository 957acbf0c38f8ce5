package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"Clarity/internal/config"
)

// maxResponseBytes 上游响应体读取上限
const maxResponseBytes = 8 << 20

type completionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model     string              `json:"model"`
	Messages  []completionMessage `json:"messages"`
	MaxTokens int                 `json:"max_tokens"`
}

// CompletionClient 直接 POST 到 OpenAI 兼容的 chat/completions 地址
type CompletionClient struct {
	endpoint string
	apiKey   string
	model    string
	http     *http.Client
}

// NewCompletionClient 根据配置创建客户端；凭证缺失不报错，Call 时返回 ErrNotConfigured
func NewCompletionClient(conf config.AIChatModelConfig) *CompletionClient {
	timeout := time.Duration(conf.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = config.DefaultTimeoutSeconds * time.Second
	}
	return &CompletionClient{
		endpoint: strings.TrimSpace(conf.BaseURL),
		apiKey:   strings.TrimSpace(conf.APIKey),
		model:    strings.TrimSpace(conf.Model),
		http:     &http.Client{Timeout: timeout},
	}
}

func (c *CompletionClient) Call(ctx context.Context, prompt string, maxTokens int) (json.RawMessage, error) {
	if c.endpoint == "" || c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	payload, err := json.Marshal(completionRequest{
		Model:     c.model,
		Messages:  []completionMessage{{Role: "user", Content: prompt}},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &UpstreamTransportError{Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &UpstreamTransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &UpstreamTransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamHTTPError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if !json.Valid(body) {
		return nil, &UpstreamTransportError{Err: errors.New("response body is not valid JSON")}
	}
	return json.RawMessage(body), nil
}
