package http

import (
	"Clarity/internal/modules/ai/application/dto/request"
	"Clarity/internal/modules/ai/application/dto/respond"
	"Clarity/internal/modules/ai/application/service"
	"Clarity/pkg/back"
	"Clarity/pkg/xerr"
	"Clarity/pkg/zlog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ExplainHandler explain HTTP Handler
//
// Handler 只做接口适配：参数绑定、调用 Service、写响应。
type ExplainHandler struct {
	svc     service.ExplainService
	appName string
}

func NewExplainHandler(svc service.ExplainService, appName string) *ExplainHandler {
	return &ExplainHandler{svc: svc, appName: appName}
}

// Explain 解释选中的文本
//
// HTTP API:
//
//	POST /api/explain
//	Content-Type: application/json
//
// Request Body:
//
//	{
//	  "text": "The lessee shall indemnify the lessor ...",
//	  "mode": "legal",
//	  "context": {"title": "...", "url": "...", "surrounding": "..."},
//	  "action": "rephrase"
//	}
//
// Response:
//
//	200 {"rephrase": "...", "latency_ms": 812}
//	200 {"error": "model_call_failed", "trace": "...", "summary": "...", "latency_ms": 0}
//	400 {"error": "no text provided"}
func (h *ExplainHandler) Explain(c *gin.Context) {
	var req request.ExplainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		zlog.Warn("explain bind json failed", zap.Error(err))
		back.Error(c, xerr.ErrParam.Code, xerr.ErrParam.Message)
		return
	}

	// 上游失败已在 Service 中降级，这里的 err 只可能是参数错误
	resp, err := h.svc.Explain(c.Request.Context(), req)
	back.Result(c, resp, err)
}

// Ping 存活检查
//
//	GET /api/ping
func (h *ExplainHandler) Ping(c *gin.Context) {
	back.Success(c, respond.PingRespond{Status: "ok", App: h.appName})
}
