package respond

// ExplainFailedRespond 上游调用失败时的降级返回（HTTP 200）
//
// 调用方只需判断是否存在 error 字段，summary 由本地分句生成，保证有内容可展示。
type ExplainFailedRespond struct {
	Error     string `json:"error"`
	Trace     string `json:"trace"`
	Summary   string `json:"summary"`
	LatencyMs int64  `json:"latency_ms"`
}

// PingRespond 存活检查
type PingRespond struct {
	Status string `json:"status"`
	App    string `json:"app"`
}
