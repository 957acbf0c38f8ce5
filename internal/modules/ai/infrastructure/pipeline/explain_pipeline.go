package pipeline

import (
	"context"
	"fmt"
	"math"
	"time"

	"Clarity/internal/config"
	"Clarity/internal/modules/ai/domain/explain"
	"Clarity/internal/modules/ai/infrastructure/llm"
	"Clarity/internal/modules/ai/infrastructure/normalize"
	"Clarity/internal/modules/ai/infrastructure/plugins"
	"Clarity/pkg/zlog"

	"go.uber.org/zap"
)

// ExplainPipeline explain 统一 Pipeline
//
// 职责：
// 1. 根据 action / followup 路由到对应插件
// 2. 调用上游模型（单次，无重试）
// 3. 提取文本 -> 恢复 JSON -> 失败时走插件降级
// 4. 记录耗时
//
// 启动时创建，运行时只读，可被并发请求共享。
type ExplainPipeline struct {
	client    llm.Client
	maxTokens int
	plugins   map[explain.Action]plugins.ExplainPlugin
}

// NewExplainPipeline 创建 Pipeline 并注册默认插件
func NewExplainPipeline(client llm.Client, maxTokens int) *ExplainPipeline {
	if maxTokens <= 0 {
		maxTokens = config.DefaultMaxTokens
	}
	p := &ExplainPipeline{
		client:    client,
		maxTokens: maxTokens,
		plugins:   make(map[explain.Action]plugins.ExplainPlugin),
	}
	for _, plugin := range plugins.DefaultPlugins() {
		p.RegisterPlugin(plugin)
	}
	return p
}

// RegisterPlugin 注册插件，同一分支后注册的覆盖先注册的
func (p *ExplainPipeline) RegisterPlugin(plugin plugins.ExplainPlugin) {
	p.plugins[plugin.GetActionType()] = plugin
}

// Execute 执行一次 explain
//
// 完整流程：
// 1. 选择插件
// 2. 构建 Prompt
// 3. 调用 LLM
// 4. 提取文本
// 5. 解析嵌入的 JSON，失败则降级
// 6. 写入 latency_ms
//
// 上游错误原样向上返回，由 Service 统一转换为降级响应。
func (p *ExplainPipeline) Execute(ctx context.Context, q *explain.Query) (explain.Result, error) {
	startTime := time.Now()

	// ========== Step 1: 选择插件 ==========
	action := plugins.ResolveAction(q.RawAction, q.Followup)
	plugin, ok := p.plugins[action]
	if !ok {
		return nil, fmt.Errorf("no plugin registered for action: %s", action)
	}

	// ========== Step 2: 构建 Prompt ==========
	prompt := plugin.BuildPrompt(q)

	// ========== Step 3: 调用 LLM ==========
	llmStart := time.Now()
	raw, err := p.client.Call(ctx, prompt, p.maxTokens)
	llmMs := time.Since(llmStart).Milliseconds()
	if err != nil {
		return nil, fmt.Errorf("model call failed: %w", err)
	}

	// ========== Step 4: 提取文本 ==========
	modelText := normalize.ExtractText(raw)

	// ========== Step 5: 解析 JSON / 降级 ==========
	//
	// JSON 恢复失败属于预期情况，不算错误
	var result explain.Result
	parsed := normalize.ParseEmbeddedJSON(modelText)
	if parsed != nil {
		result = explain.Result(parsed)
	} else {
		result = plugin.Fallback(modelText, q)
	}

	// ========== Step 6: 记录耗时 ==========
	latencyMs := elapsedMs(startTime)
	result[explain.FieldLatencyMs] = latencyMs

	zlog.Info("explain execute done",
		zap.String("request_id", q.RequestID),
		zap.String("action", string(action)),
		zap.Bool("structured", parsed != nil),
		zap.Int64("llm_latency_ms", llmMs),
		zap.Int64("latency_ms", latencyMs))

	return result, nil
}

// elapsedMs 四舍五入到毫秒
func elapsedMs(start time.Time) int64 {
	return int64(math.Round(float64(time.Since(start)) / float64(time.Millisecond)))
}
