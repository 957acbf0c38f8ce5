package explain

import "strings"

// Action 请求的处理分支
type Action string

const (
	ActionAnalysis   Action = "analysis"
	ActionRephrase   Action = "rephrase"
	ActionActionList Action = "action_list"
	ActionBrainstorm Action = "brainstorm"
)

const DefaultMode = "general"

// PageContext 选中文本所在页面的上下文
type PageContext struct {
	Title       string
	URL         string
	Surrounding string
}

func (p *PageContext) IsEmpty() bool {
	return p == nil || (p.Title == "" && p.URL == "" && p.Surrounding == "")
}

// Query 一次 explain 调用的输入，已完成校验和默认值填充
type Query struct {
	RequestID string
	Text      string
	Mode      string
	Context   *PageContext
	// RawAction 调用方传入的 action，未识别的值按 analysis 处理
	RawAction string
	Followup  string
}

// Result 返回给调用方的结果，字段随分支变化
type Result map[string]any

// FieldLatencyMs 每个成功结果都带的耗时字段（毫秒）
const FieldLatencyMs = "latency_ms"

// ErrModelCallFailed 失败返回中 error 字段的固定值
const ErrModelCallFailed = "model_call_failed"

// NormalizeMode 空 mode 回落到 general
func NormalizeMode(mode string) string {
	if strings.TrimSpace(mode) == "" {
		return DefaultMode
	}
	return mode
}
