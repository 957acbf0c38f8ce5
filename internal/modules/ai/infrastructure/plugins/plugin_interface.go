package plugins

import (
	"strings"

	"Clarity/internal/modules/ai/domain/explain"
)

// ExplainPlugin explain 分支插件接口
//
// 每个 action 对应一个插件：自己决定 Prompt 模板，以及模型输出
// 无法解析为 JSON 时的降级结构。Pipeline 只负责调度。
type ExplainPlugin interface {
	// GetActionType 插件负责的分支
	GetActionType() explain.Action

	// BuildPrompt 构建发给模型的完整 Prompt
	//
	// 所有模板都要求模型不要复述原文，并且只返回 JSON。
	BuildPrompt(q *explain.Query) string

	// Fallback 模型输出不是 JSON 时，根据原始文本拼出最小结构
	Fallback(modelText string, q *explain.Query) explain.Result
}

const (
	rephraseTrigger   = "Rephrase"
	actionListTrigger = "Provide a prioritized list"
)

// ResolveAction 根据 action 和旧版 followup 文案决定分支
//
// 旧版扩展只发 followup 文本，没有 action 字段，所以保留按文案匹配。
func ResolveAction(action, followup string) explain.Action {
	switch {
	case action == string(explain.ActionRephrase) || strings.Contains(followup, rephraseTrigger):
		return explain.ActionRephrase
	case action == string(explain.ActionActionList) || strings.Contains(followup, actionListTrigger):
		return explain.ActionActionList
	case action == string(explain.ActionBrainstorm):
		return explain.ActionBrainstorm
	default:
		return explain.ActionAnalysis
	}
}

// DefaultPlugins 四个内置分支
func DefaultPlugins() []ExplainPlugin {
	return []ExplainPlugin{
		NewRephrasePlugin(),
		NewActionListPlugin(nil),
		NewBrainstormPlugin(nil),
		NewAnalysisPlugin(nil),
	}
}

// lineBreaks \r\n 和单独的 \r 统一成 \n
var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// lineItems 把纯文本按行拆成列表项：去掉行首尾的 "-" "*" 空格和 tab，丢弃空行
func lineItems(text string, max int) []string {
	lines := strings.Split(lineBreaks.Replace(text), "\n")
	items := make([]string, 0, len(lines))
	for _, line := range lines {
		item := strings.Trim(line, "-* \t")
		if item == "" {
			continue
		}
		items = append(items, item)
		if len(items) == max {
			break
		}
	}
	return items
}
