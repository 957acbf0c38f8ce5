package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// ChatModelClient 通过 eino ChatModel 调用上游
//
// eino 返回的是结构化 Message，这里重新包装成 chat/completions 信封，
// 下游的文本提取逻辑对两种传输方式一视同仁。
type ChatModelClient struct {
	chatModel model.BaseChatModel
	meta      ChatModelMeta
}

func NewChatModelClient(cm model.BaseChatModel, meta ChatModelMeta) *ChatModelClient {
	return &ChatModelClient{chatModel: cm, meta: meta}
}

type envelopeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type envelopeChoice struct {
	Index        int             `json:"index"`
	Message      envelopeMessage `json:"message"`
	FinishReason string          `json:"finish_reason,omitempty"`
}

type envelopeUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type envelope struct {
	Model   string           `json:"model,omitempty"`
	Choices []envelopeChoice `json:"choices"`
	Usage   *envelopeUsage   `json:"usage,omitempty"`
}

func (c *ChatModelClient) Call(ctx context.Context, prompt string, maxTokens int) (json.RawMessage, error) {
	if c.chatModel == nil {
		return nil, ErrNotConfigured
	}

	var opts []model.Option
	if maxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(maxTokens))
	}

	msg, err := c.chatModel.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)}, opts...)
	if err != nil {
		return nil, &UpstreamTransportError{Err: err}
	}
	if msg == nil {
		return nil, &UpstreamTransportError{Err: errors.New("chat model returned no message")}
	}

	out := envelope{
		Model: c.meta.Model,
		Choices: []envelopeChoice{{
			Message: envelopeMessage{Role: string(msg.Role), Content: msg.Content},
		}},
	}
	if msg.ResponseMeta != nil {
		out.Choices[0].FinishReason = msg.ResponseMeta.FinishReason
		if u := msg.ResponseMeta.Usage; u != nil {
			out.Usage = &envelopeUsage{
				PromptTokens:     u.PromptTokens,
				CompletionTokens: u.CompletionTokens,
				TotalTokens:      u.TotalTokens,
			}
		}
	}

	raw, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("marshal chat model envelope: %w", err)
	}
	return raw, nil
}
