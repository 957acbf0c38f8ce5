package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"Clarity/internal/config"
	"Clarity/pkg/zlog"

	arkModel "github.com/cloudwego/eino-ext/components/model/ark"
	openaiModel "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"go.uber.org/zap"
)

type ChatModelMeta struct {
	Provider string
	Model    string
}

// NewClientFromConfig 按 provider 选择上游实现
//
// 凭证缺失时返回一个每次 Call 都报 ErrNotConfigured 的客户端，
// 服务照常启动，错误以 model_call_failed 的形式返回给调用方。
func NewClientFromConfig(ctx context.Context, conf config.AIChatModelConfig) (Client, error) {
	provider := strings.ToLower(strings.TrimSpace(conf.Provider))

	switch provider {
	case "", config.ProviderCompletion:
		return NewCompletionClient(conf), nil

	case "openai", "ark":
		cm, meta, err := NewChatModelFromConfig(ctx, conf)
		if errors.Is(err, ErrNotConfigured) {
			zlog.Warn("chat model not configured, requests will fail until credentials are set",
				zap.String("provider", provider),
				zap.Error(err))
			return &unconfiguredClient{reason: err}, nil
		}
		if err != nil {
			return nil, err
		}
		return NewChatModelClient(cm, meta), nil

	default:
		return nil, fmt.Errorf("unknown chat model provider: %s", provider)
	}
}

func NewChatModelFromConfig(ctx context.Context, conf config.AIChatModelConfig) (model.BaseChatModel, ChatModelMeta, error) {
	provider := strings.ToLower(strings.TrimSpace(conf.Provider))
	modelName := strings.TrimSpace(conf.Model)

	timeout := config.DefaultTimeoutSeconds * time.Second
	if conf.TimeoutSeconds > 0 {
		timeout = time.Duration(conf.TimeoutSeconds) * time.Second
	}

	switch provider {
	case "openai":
		apiKey := strings.TrimSpace(conf.APIKey)
		if apiKey == "" {
			apiKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
		}
		if modelName == "" {
			modelName = strings.TrimSpace(os.Getenv("OPENAI_MODEL"))
		}
		baseURL := strings.TrimSpace(conf.BaseURL)
		if baseURL == "" {
			baseURL = strings.TrimSpace(os.Getenv("OPENAI_BASE_URL"))
		}

		if apiKey == "" || modelName == "" {
			return nil, ChatModelMeta{}, fmt.Errorf("openai chat model missing apiKey/model: %w", ErrNotConfigured)
		}

		cm, err := openaiModel.NewChatModel(ctx, &openaiModel.ChatModelConfig{
			APIKey:     apiKey,
			Model:      modelName,
			BaseURL:    baseURL,
			ByAzure:    conf.ByAzure,
			APIVersion: strings.TrimSpace(conf.AzureAPIVersion),
			Timeout:    timeout,
		})
		if err != nil {
			return nil, ChatModelMeta{}, err
		}
		return cm, ChatModelMeta{Provider: "openai", Model: modelName}, nil

	case "ark":
		apiKey := strings.TrimSpace(conf.APIKey)
		accessKey := strings.TrimSpace(conf.AccessKey)
		secretKey := strings.TrimSpace(conf.SecretKey)

		if apiKey == "" {
			apiKey = strings.TrimSpace(os.Getenv("ARK_API_KEY"))
		}
		if accessKey == "" {
			accessKey = strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY"))
		}
		if secretKey == "" {
			secretKey = strings.TrimSpace(os.Getenv("ARK_SECRET_KEY"))
		}
		if modelName == "" {
			modelName = strings.TrimSpace(os.Getenv("ARK_MODEL_ID"))
		}

		baseURL := strings.TrimSpace(conf.BaseURL)
		region := strings.TrimSpace(conf.Region)
		if baseURL == "" {
			baseURL = strings.TrimSpace(os.Getenv("ARK_BASE_URL"))
		}
		if region == "" {
			region = strings.TrimSpace(os.Getenv("ARK_REGION"))
		}

		if apiKey == "" && (accessKey == "" || secretKey == "") {
			return nil, ChatModelMeta{}, fmt.Errorf("ark chat model missing apiKey or accessKey/secretKey: %w", ErrNotConfigured)
		}
		if modelName == "" {
			return nil, ChatModelMeta{}, fmt.Errorf("ark chat model missing model: %w", ErrNotConfigured)
		}

		// 单次调用，不重试
		retryTimes := 0
		cm, err := arkModel.NewChatModel(ctx, &arkModel.ChatModelConfig{
			APIKey:     apiKey,
			AccessKey:  accessKey,
			SecretKey:  secretKey,
			Model:      modelName,
			BaseURL:    baseURL,
			Region:     region,
			Timeout:    &timeout,
			RetryTimes: &retryTimes,
		})
		if err != nil {
			return nil, ChatModelMeta{}, err
		}
		return cm, ChatModelMeta{Provider: "ark", Model: modelName}, nil

	default:
		return nil, ChatModelMeta{}, fmt.Errorf("unknown chat model provider: %s", provider)
	}
}
