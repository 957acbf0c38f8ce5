package service

import (
	"context"
	"fmt"
	"strings"

	"Clarity/internal/modules/ai/application/dto/request"
	"Clarity/internal/modules/ai/application/dto/respond"
	"Clarity/internal/modules/ai/domain/explain"
	"Clarity/internal/modules/ai/infrastructure/normalize"
	"Clarity/internal/modules/ai/infrastructure/pipeline"
	"Clarity/pkg/util"
	"Clarity/pkg/xerr"
	"Clarity/pkg/zlog"

	"go.uber.org/zap"
)

// ExplainService 文本解释服务接口
type ExplainService interface {
	// Explain 解释一段选中的文本
	//
	// 返回：
	//   - 成功时为 explain.Result（字段随 action 变化）
	//   - 上游失败时为 respond.ExplainFailedRespond，error 仍为 nil
	//   - 只有输入文本为空时返回 xerr.ErrNoText
	Explain(ctx context.Context, req request.ExplainRequest) (interface{}, error)
}

type explainServiceImpl struct {
	pipeline *pipeline.ExplainPipeline
}

// NewExplainService 创建 explain 服务
func NewExplainService(pipeline *pipeline.ExplainPipeline) ExplainService {
	return &explainServiceImpl{pipeline: pipeline}
}

func (s *explainServiceImpl) Explain(ctx context.Context, req request.ExplainRequest) (interface{}, error) {
	// 1. 参数校验，空文本不调用上游
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, xerr.ErrNoText
	}

	// 2. 构造 Pipeline 请求
	q := &explain.Query{
		RequestID: util.NewRequestID(),
		Text:      text,
		Mode:      explain.NormalizeMode(req.Mode),
		RawAction: req.Action,
		Followup:  req.Followup,
	}
	if req.Context != nil {
		q.Context = &explain.PageContext{
			Title:       req.Context.Title,
			URL:         req.Context.URL,
			Surrounding: req.Context.Surrounding,
		}
	}

	// 3. 调用 Pipeline，任何错误都降级为 200 + error 字段
	result, err := s.execute(ctx, q)
	if err != nil {
		zlog.Error("model call failed",
			zap.Error(err),
			zap.String("request_id", q.RequestID),
			zap.String("action", req.Action),
			zap.String("mode", q.Mode))

		return respond.ExplainFailedRespond{
			Error:     explain.ErrModelCallFailed,
			Trace:     err.Error(),
			Summary:   normalize.Summarize(text),
			LatencyMs: 0,
		}, nil
	}
	return result, nil
}

// execute 把 Pipeline 内部的 panic 也收敛成错误
func (s *explainServiceImpl) execute(ctx context.Context, q *explain.Query) (result explain.Result, err error) {
	if s.pipeline == nil {
		return nil, fmt.Errorf("explain pipeline is nil")
	}
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("explain pipeline panic: %v", r)
		}
	}()
	return s.pipeline.Execute(ctx, q)
}
