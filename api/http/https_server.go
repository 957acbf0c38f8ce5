package http

import (
	"context"

	"Clarity/internal/config"
	aiService "Clarity/internal/modules/ai/application/service"
	"Clarity/internal/modules/ai/infrastructure/llm"
	"Clarity/internal/modules/ai/infrastructure/pipeline"
	aiHandler "Clarity/internal/modules/ai/interface/http"
	"Clarity/pkg/ssl"
	"Clarity/pkg/zlog"

	cors "github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var GE *gin.Engine

// Init 组装依赖并创建全局路由
func Init(ctx context.Context, conf *config.Config) error {
	client, err := llm.NewClientFromConfig(ctx, conf.AIConfig.ChatModel)
	if err != nil {
		return err
	}
	zlog.Info("upstream client ready",
		zap.String("provider", conf.AIConfig.ChatModel.Provider),
		zap.String("model", conf.AIConfig.ChatModel.Model),
		zap.Int("max_tokens", conf.AIConfig.ChatModel.MaxTokens))

	GE = NewEngine(conf, client)
	return nil
}

// NewEngine 创建路由，client 由调用方注入（测试中替换为 mock）
func NewEngine(conf *config.Config, client llm.Client) *gin.Engine {
	ge := gin.Default()
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	ge.Use(cors.New(corsConfig))
	ge.Use(ssl.TlsHandler(conf.MainConfig.Host, conf.MainConfig.Port, conf.MainConfig.SSLRedirect))

	explainPipeline := pipeline.NewExplainPipeline(client, conf.AIConfig.ChatModel.MaxTokens)
	explainSvc := aiService.NewExplainService(explainPipeline)
	explainH := aiHandler.NewExplainHandler(explainSvc, conf.MainConfig.AppName)

	api := ge.Group("/api")
	api.POST("/explain", explainH.Explain)
	api.GET("/ping", explainH.Ping)

	return ge
}
