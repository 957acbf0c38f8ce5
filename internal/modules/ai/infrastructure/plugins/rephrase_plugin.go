package plugins

import (
	"fmt"
	"strings"

	"Clarity/internal/modules/ai/domain/explain"
)

// RephrasePlugin 通俗改写插件
//
// 功能：把选中的文本改写成普通读者能看懂的两句话
type RephrasePlugin struct{}

func NewRephrasePlugin() *RephrasePlugin {
	return &RephrasePlugin{}
}

func (p *RephrasePlugin) GetActionType() explain.Action {
	return explain.ActionRephrase
}

func (p *RephrasePlugin) BuildPrompt(q *explain.Query) string {
	return fmt.Sprintf(`Do NOT repeat the original text. Rephrase the following content for a layperson in 2 short sentences.
TEXT: %s
Return only JSON: { "rephrase": "..." }
`, q.Text)
}

// Fallback 模型没按 JSON 返回时，整段输出就是改写结果
func (p *RephrasePlugin) Fallback(modelText string, q *explain.Query) explain.Result {
	return explain.Result{"rephrase": strings.TrimSpace(modelText)}
}
