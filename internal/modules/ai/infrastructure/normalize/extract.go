package normalize

import (
	"regexp"
	"strings"

	"Clarity/pkg/util"
)

// MaxRawFallbackChars 找不到任何文本时，原始 JSON 截断长度
const MaxRawFallbackChars = 1200

// envelopeKeys 非 choices 信封中可能承载文本的顶层字段，按优先级排列
var envelopeKeys = []string{"output", "result", "generated_text", "text"}

// legacyContentPattern 兼容旧版 API：message 被序列化成
// "content=...; role=..." 形式的字符串而不是对象
var legacyContentPattern = regexp.MustCompile(`content=(.*?)(?:;\s*role=|\}$)`)

// ExtractText 从上游响应中取出模型生成的文本
//
// 依次尝试：
//  1. choices[0].message.content / 旧版字符串 message / choices[0].text
//  2. output / result / generated_text / text 顶层字段
//  3. 深度优先找第一个非空字符串，仍然没有则返回截断后的原始 JSON
func ExtractText(raw []byte) string {
	data := Parse(raw)

	if s, ok := fromChoices(data); ok {
		return s
	}
	if s, ok := fromEnvelope(data); ok {
		return s
	}
	if s, ok := FirstString(data); ok {
		return s
	}
	return util.TruncateRunes(compact(data.Raw), MaxRawFallbackChars)
}

func fromChoices(data Value) (string, bool) {
	choices, ok := data.Get("choices")
	if !ok || choices.Kind != KindArray || len(choices.Items) == 0 {
		return "", false
	}
	first := choices.Items[0]

	if msg, ok := first.Get("message"); ok {
		switch msg.Kind {
		case KindObject:
			if content, ok := msg.Get("content"); ok {
				return content.Text(), true
			}
		case KindString:
			return parseLegacyMessage(msg.Str), true
		}
	}
	if text, ok := first.Get("text"); ok {
		return text.Text(), true
	}
	return "", false
}

func parseLegacyMessage(msg string) string {
	m := legacyContentPattern.FindStringSubmatch(msg)
	if m == nil {
		return msg
	}
	extracted := strings.TrimSpace(m[1])
	if isQuoted(extracted, '"') || isQuoted(extracted, '\'') {
		if len(extracted) < 2 {
			return ""
		}
		extracted = extracted[1 : len(extracted)-1]
	}
	return extracted
}

func isQuoted(s string, q byte) bool {
	return len(s) > 0 && s[0] == q && s[len(s)-1] == q
}

func fromEnvelope(data Value) (string, bool) {
	for _, key := range envelopeKeys {
		v, ok := data.Get(key)
		if !ok {
			continue
		}
		if v.Kind != KindArray {
			return strings.TrimSpace(v.Text()), true
		}

		pieces := make([]string, 0, len(v.Items))
		for _, item := range v.Items {
			if content, ok := item.Get("content"); ok {
				pieces = append(pieces, content.Text())
			} else if text, ok := item.Get("text"); ok {
				pieces = append(pieces, text.Text())
			} else if item.Kind == KindString {
				pieces = append(pieces, item.Str)
			}
		}
		return strings.TrimSpace(strings.Join(pieces, " ")), true
	}
	return "", false
}
