package plugins

import (
	"fmt"

	"Clarity/internal/modules/ai/domain/explain"
)

// BrainstormPlugin 头脑风暴插件
type BrainstormPlugin struct {
	config *ListConfig
}

func NewBrainstormPlugin(config *ListConfig) *BrainstormPlugin {
	if config == nil {
		config = &ListConfig{
			PromptItems: 5,
			MaxItems:    20,
		}
	}
	return &BrainstormPlugin{config: config}
}

func (p *BrainstormPlugin) GetActionType() explain.Action {
	return explain.ActionBrainstorm
}

func (p *BrainstormPlugin) BuildPrompt(q *explain.Query) string {
	return fmt.Sprintf(`Do NOT repeat the original text. Brainstorm %d short ideas the user could try next based on the TEXT.
TEXT: %s
Return only JSON: { "ideas": ["...","..."] }
`, p.config.PromptItems, q.Text)
}

func (p *BrainstormPlugin) Fallback(modelText string, q *explain.Query) explain.Result {
	return explain.Result{"ideas": lineItems(modelText, p.config.MaxItems)}
}
