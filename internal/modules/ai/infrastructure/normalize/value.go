package normalize

import (
	"bytes"
	"encoding/json"

	"github.com/tidwall/gjson"
)

// Kind JSON 节点类型
type Kind int

const (
	KindOther Kind = iota // number / bool / null
	KindObject
	KindArray
	KindString
)

// Field 对象中的一个键值对，保持文档顺序
type Field struct {
	Key   string
	Value Value
}

// Value 上游 JSON 的通用节点（tagged union）
//
// 上游返回的信封结构不固定，统一转换成 Value 后再按形状探测，
// 避免到处做 map[string]interface{} 类型断言。
type Value struct {
	Kind   Kind
	Str    string
	Fields []Field
	Items  []Value
	Raw    string
	Null   bool
}

// Parse 把原始 JSON 解析为 Value，非法 JSON 得到 Null 节点
func Parse(raw []byte) Value {
	if !gjson.ValidBytes(raw) {
		return Value{Kind: KindOther, Null: true, Raw: "null"}
	}
	return fromResult(gjson.ParseBytes(raw))
}

func fromResult(r gjson.Result) Value {
	switch {
	case r.IsObject():
		v := Value{Kind: KindObject, Raw: r.Raw}
		r.ForEach(func(key, value gjson.Result) bool {
			v.Fields = append(v.Fields, Field{Key: key.String(), Value: fromResult(value)})
			return true
		})
		return v
	case r.IsArray():
		v := Value{Kind: KindArray, Raw: r.Raw}
		r.ForEach(func(_, value gjson.Result) bool {
			v.Items = append(v.Items, fromResult(value))
			return true
		})
		return v
	case r.Type == gjson.String:
		return Value{Kind: KindString, Str: r.Str, Raw: r.Raw}
	default:
		return Value{Kind: KindOther, Raw: r.Raw, Null: r.Type == gjson.Null}
	}
}

// Get 取对象字段；重复 key 以最后一个为准（与 JSON 解码到 map 的行为一致）
func (v Value) Get(key string) (Value, bool) {
	if v.Kind != KindObject {
		return Value{}, false
	}
	var (
		found Value
		ok    bool
	)
	for _, f := range v.Fields {
		if f.Key == key {
			found, ok = f.Value, true
		}
	}
	return found, ok
}

// Text 节点的文本形式：字符串原样返回，null 为空串，其余为紧凑 JSON
func (v Value) Text() string {
	switch {
	case v.Kind == KindString:
		return v.Str
	case v.Null:
		return ""
	default:
		return compact(v.Raw)
	}
}

// Visitor 返回 false 时停止遍历
type Visitor func(v Value) bool

// Walk 深度优先前序遍历：对象按字段顺序，数组按下标顺序
func Walk(v Value, visit Visitor) bool {
	if !visit(v) {
		return false
	}
	switch v.Kind {
	case KindObject:
		for _, f := range v.Fields {
			if !Walk(f.Value, visit) {
				return false
			}
		}
	case KindArray:
		for _, item := range v.Items {
			if !Walk(item, visit) {
				return false
			}
		}
	}
	return true
}

// FirstString 找到结构中第一个非空字符串
func FirstString(v Value) (string, bool) {
	var (
		found string
		ok    bool
	)
	Walk(v, func(n Value) bool {
		if n.Kind == KindString && n.Str != "" {
			found, ok = n.Str, true
			return false
		}
		return true
	})
	return found, ok
}

func compact(raw string) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(raw)); err != nil {
		return raw
	}
	return buf.String()
}
