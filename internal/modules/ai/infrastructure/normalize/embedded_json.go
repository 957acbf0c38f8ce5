package normalize

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
)

// parseStrategy 单个解析尝试，成功返回 (object, true)
type parseStrategy func(s string) (map[string]any, bool)

// embeddedStrategies 按顺序尝试，第一个成功即返回
var embeddedStrategies = []parseStrategy{
	parseWhole,
	parseBraceSpan,
	parseBraceSpanSingleQuoted,
}

// ParseEmbeddedJSON 从模型输出中恢复 JSON 对象
//
// 模型经常在 JSON 前后加解释文字，或者输出 Python 风格的单引号 dict。
// 所有解析错误都被吞掉，恢复失败返回 nil。
func ParseEmbeddedJSON(s string) map[string]any {
	if s == "" {
		return nil
	}
	for _, try := range embeddedStrategies {
		if obj, ok := try(s); ok {
			return obj
		}
	}
	return nil
}

func parseWhole(s string) (map[string]any, bool) {
	return decodeObject(s)
}

func parseBraceSpan(s string) (map[string]any, bool) {
	span, ok := braceSpan(s)
	if !ok {
		return nil, false
	}
	return decodeObject(span)
}

func parseBraceSpanSingleQuoted(s string) (map[string]any, bool) {
	span, ok := braceSpan(s)
	if !ok {
		return nil, false
	}
	return decodeObject(strings.ReplaceAll(span, "'", `"`))
}

// braceSpan 第一个 "{" 到最后一个 "}"（贪婪匹配）
func braceSpan(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return "", false
	}
	return s[start : end+1], true
}

// decodeObject 严格解码：必须是 JSON 对象，且后面不能有多余内容。
// 数字保留为 json.Number，避免整数被转成浮点。
func decodeObject(s string) (map[string]any, bool) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil || obj == nil {
		return nil, false
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, false
	}
	return obj, true
}
