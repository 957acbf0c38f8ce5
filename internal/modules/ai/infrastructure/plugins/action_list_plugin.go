package plugins

import (
	"fmt"

	"Clarity/internal/modules/ai/domain/explain"
)

// ActionListPlugin 行动清单插件
//
// 功能：根据文本给出按优先级排序的下一步行动
type ActionListPlugin struct {
	config *ListConfig
}

// ListConfig 列表类插件配置
type ListConfig struct {
	PromptItems int // Prompt 中要求的条数
	MaxItems    int // 降级解析时最多保留的条数
}

func NewActionListPlugin(config *ListConfig) *ActionListPlugin {
	if config == nil {
		config = &ListConfig{
			PromptItems: 5,
			MaxItems:    10,
		}
	}
	return &ActionListPlugin{config: config}
}

func (p *ActionListPlugin) GetActionType() explain.Action {
	return explain.ActionActionList
}

func (p *ActionListPlugin) BuildPrompt(q *explain.Query) string {
	return fmt.Sprintf(`Do NOT repeat the original text. Provide a prioritized list of %d concrete next actions the user can take based on the TEXT.
TEXT: %s
Return only JSON: { "action_list": ["...","..."] }
`, p.config.PromptItems, q.Text)
}

func (p *ActionListPlugin) Fallback(modelText string, q *explain.Query) explain.Result {
	return explain.Result{"action_list": lineItems(modelText, p.config.MaxItems)}
}
