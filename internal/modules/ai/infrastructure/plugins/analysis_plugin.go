package plugins

import (
	"fmt"
	"strings"

	"Clarity/internal/modules/ai/domain/explain"
	"Clarity/internal/modules/ai/infrastructure/normalize"
	"Clarity/pkg/util"
)

// AnalysisPlugin 完整分析插件（默认分支）
//
// 功能：判断文本类型，给出摘要、影响、可执行动作、追问和实体
//
// 使用场景：
// - 用户在页面上选中一段文字，没有指定 action
// - 页面标题、URL、周边文字作为额外上下文
type AnalysisPlugin struct {
	config *AnalysisConfig
}

// AnalysisConfig 分析配置
type AnalysisConfig struct {
	MaxSurroundingChars int     // 周边文字最多带入的字符数（默认 800）
	FallbackConfidence  float64 // 降级结果的置信度（默认 0.5）
}

func NewAnalysisPlugin(config *AnalysisConfig) *AnalysisPlugin {
	if config == nil {
		config = &AnalysisConfig{
			MaxSurroundingChars: 800,
			FallbackConfidence:  0.5,
		}
	}
	return &AnalysisPlugin{config: config}
}

func (p *AnalysisPlugin) GetActionType() explain.Action {
	return explain.ActionAnalysis
}

// BuildPrompt 构建分析 Prompt
//
// 要求模型返回固定字段的 JSON 对象，字段说明直接写在 Prompt 里。
func (p *AnalysisPlugin) BuildPrompt(q *explain.Query) string {
	var b strings.Builder
	b.WriteString("You are Clarity Assistant. Analyse the following TEXT and return a single valid JSON object ONLY and nothing else (do NOT repeat or echo the input).\n")
	fmt.Fprintf(&b, "TEXT: %s\n", q.Text)
	b.WriteString(p.contextFragment(q.Context))
	b.WriteString(`
The JSON object must contain these fields:
- "type": one of ["code","legal","academic","general"]
- "summary": max 2 short sentences (do NOT repeat the original text)
- "implication": one short sentence explaining why it matters
- "actions": an array of action objects, each with {"title":"...","importance":1-5,"description":"...","cmd": optional string}
- "followups": array of short follow-up questions the user might ask
- "entities": array of extracted entities like people, dates, amounts (each {"text":"", "label":""})
- "confidence": a number 0-1 indicating confidence
Return only the JSON object.`)
	return b.String()
}

func (p *AnalysisPlugin) contextFragment(pc *explain.PageContext) string {
	if pc.IsEmpty() {
		return ""
	}
	return fmt.Sprintf("\nPage title: %s\nURL: %s\nSurrounding text: %s\n",
		pc.Title, pc.URL, util.TruncateRunes(pc.Surrounding, p.config.MaxSurroundingChars))
}

// Fallback 降级结构：摘要由本地分句生成，其余字段置空
func (p *AnalysisPlugin) Fallback(modelText string, q *explain.Query) explain.Result {
	return explain.Result{
		"type":        q.Mode,
		"summary":     normalize.Summarize(modelText),
		"implication": "",
		"actions":     []any{},
		"followups":   []any{},
		"entities":    []any{},
		"confidence":  p.config.FallbackConfidence,
	}
}
