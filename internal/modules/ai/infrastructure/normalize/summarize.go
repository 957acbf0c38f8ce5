package normalize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"Clarity/pkg/util"
)

// MaxSummaryChars 无法分句时的截断长度
const MaxSummaryChars = 240

// Summarize 本地兜底摘要：取前两句，不足两句则截断
func Summarize(text string) string {
	trimmed := strings.TrimSpace(text)
	sentences := splitSentences(trimmed, 2)
	if len(sentences) >= 2 {
		return strings.TrimSpace(sentences[0] + " " + sentences[1])
	}
	return util.TruncateRunes(trimmed, MaxSummaryChars)
}

// splitSentences 在句末标点（. ! ?）后的空白处切分，标点留在前一句。
// limit > 0 时最多返回 limit 句，最后一句不再包含剩余文本。
func splitSentences(text string, limit int) []string {
	var (
		out   []string
		start int
	)
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		next := i + size
		if !isSentenceEnd(r) || next >= len(text) {
			i = next
			continue
		}

		end := next
		for end < len(text) {
			ws, wsSize := utf8.DecodeRuneInString(text[end:])
			if !unicode.IsSpace(ws) {
				break
			}
			end += wsSize
		}
		if end == next {
			i = next
			continue
		}

		out = append(out, text[start:next])
		if limit > 0 && len(out) == limit {
			return out
		}
		start, i = end, end
	}
	if start < len(text) {
		out = append(out, text[start:])
	}
	return out
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
