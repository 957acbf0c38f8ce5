package util

import (
	"strings"

	"github.com/google/uuid"
)

// NewRequestID 生成一个不带中划线的短 UUID，用于日志串联
func NewRequestID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

// TruncateRunes 按字符（rune）截断，不会切坏多字节字符
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
