package request

// ExplainContext 选中文本所在页面的信息，字段均可选
type ExplainContext struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Surrounding string `json:"surrounding"`
}

// ExplainRequest POST /api/explain 请求体
type ExplainRequest struct {
	Text     string          `json:"text"`
	Mode     string          `json:"mode"`
	Context  *ExplainContext `json:"context"`
	Action   string          `json:"action"`
	Followup string          `json:"followup"`
}
