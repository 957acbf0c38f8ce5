package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"Clarity/internal/modules/ai/domain/explain"
	"Clarity/internal/modules/ai/infrastructure/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockClient struct {
	mock.Mock
}

func (m *MockClient) Call(ctx context.Context, prompt string, maxTokens int) (json.RawMessage, error) {
	args := m.Called(ctx, prompt, maxTokens)
	raw, _ := args.Get(0).(json.RawMessage)
	return raw, args.Error(1)
}

// chatReply 把模型文本包装成 chat/completions 响应
func chatReply(t *testing.T, content string) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(map[string]any{
		"choices": []any{map[string]any{"message": map[string]any{"role": "assistant", "content": content}}},
	})
	require.NoError(t, err)
	return raw
}

func latencyOf(t *testing.T, r explain.Result) int64 {
	t.Helper()
	v, ok := r[explain.FieldLatencyMs]
	require.True(t, ok, "latency_ms must always be present")
	ms, ok := v.(int64)
	require.True(t, ok, "latency_ms must be an integer")
	return ms
}

func withoutLatency(r explain.Result) explain.Result {
	out := explain.Result{}
	for k, v := range r {
		if k != explain.FieldLatencyMs {
			out[k] = v
		}
	}
	return out
}

func TestExecute_RephraseStructured(t *testing.T) {
	client := new(MockClient)
	client.On("Call", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "TEXT: hi") && strings.Contains(p, `"rephrase"`)
	}), 500).Return(chatReply(t, `{"rephrase":"Hi there"}`), nil).Once()

	p := NewExplainPipeline(client, 0)
	got, err := p.Execute(context.Background(), &explain.Query{Text: "hi", Mode: "general", RawAction: "rephrase"})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, latencyOf(t, got), int64(0))
	assert.Equal(t, explain.Result{"rephrase": "Hi there"}, withoutLatency(got))
	client.AssertExpectations(t)
}

func TestExecute_UsesConfiguredMaxTokens(t *testing.T) {
	client := new(MockClient)
	client.On("Call", mock.Anything, mock.Anything, 128).Return(chatReply(t, `{"ideas":["a"]}`), nil).Once()

	got, err := NewExplainPipeline(client, 128).Execute(context.Background(), &explain.Query{Text: "x", RawAction: "brainstorm"})
	require.NoError(t, err)
	assert.Equal(t, []any{"a"}, got["ideas"])
	client.AssertExpectations(t)
}

func TestExecute_Fallbacks(t *testing.T) {
	cases := []struct {
		name      string
		query     explain.Query
		modelText string
		want      explain.Result
	}{
		{
			name:      "action list from plain lines",
			query:     explain.Query{Text: "x", RawAction: "action_list"},
			modelText: "1) not stripped\n- Call the bank\n* File the form\n",
			want:      explain.Result{"action_list": []string{"1) not stripped", "Call the bank", "File the form"}},
		},
		{
			name:      "followup triggers rephrase branch",
			query:     explain.Query{Text: "x", Followup: "Rephrase the TEXT for a layperson."},
			modelText: "  Simply put, it is fine.  ",
			want:      explain.Result{"rephrase": "Simply put, it is fine."},
		},
		{
			name:      "analysis fallback",
			query:     explain.Query{Text: "x", Mode: "code"},
			modelText: "This code sorts. It is quadratic. Use a heap.",
			want: explain.Result{
				"type":        "code",
				"summary":     "This code sorts. It is quadratic.",
				"implication": "",
				"actions":     []any{},
				"followups":   []any{},
				"entities":    []any{},
				"confidence":  0.5,
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := new(MockClient)
			client.On("Call", mock.Anything, mock.Anything, 500).Return(chatReply(t, tc.modelText), nil)

			got, err := NewExplainPipeline(client, 500).Execute(context.Background(), &tc.query)
			require.NoError(t, err)
			latencyOf(t, got)
			assert.Equal(t, tc.want, withoutLatency(got))
		})
	}
}

func TestExecute_StructuredAnalysisPassesThrough(t *testing.T) {
	reply := `Here you go: {"type":"legal","summary":"A lease.","implication":"Rent rises.","actions":[],"followups":["Can I leave early?"],"entities":[],"confidence":0.9}`
	client := new(MockClient)
	client.On("Call", mock.Anything, mock.Anything, 500).Return(chatReply(t, reply), nil)

	got, err := NewExplainPipeline(client, 500).Execute(context.Background(), &explain.Query{Text: "lease text", Mode: "general"})
	require.NoError(t, err)

	assert.Equal(t, "legal", got["type"])
	assert.Equal(t, []any{"Can I leave early?"}, got["followups"])
	assert.Equal(t, json.Number("0.9"), got["confidence"])
}

func TestExecute_NonChatEnvelope(t *testing.T) {
	client := new(MockClient)
	client.On("Call", mock.Anything, mock.Anything, 500).
		Return(json.RawMessage(`{"output":[{"text":"{\"ideas\":"},{"text":"[\"walk\"]}"}]}`), nil)

	got, err := NewExplainPipeline(client, 500).Execute(context.Background(), &explain.Query{Text: "x", RawAction: "brainstorm"})
	require.NoError(t, err)
	assert.Equal(t, []any{"walk"}, got["ideas"])
}

func TestExecute_ClientErrorPropagates(t *testing.T) {
	client := new(MockClient)
	client.On("Call", mock.Anything, mock.Anything, 500).Return(nil, llm.ErrNotConfigured)

	got, err := NewExplainPipeline(client, 500).Execute(context.Background(), &explain.Query{Text: "x"})
	assert.Nil(t, got)
	assert.True(t, errors.Is(err, llm.ErrNotConfigured))
}

func TestExecute_Idempotent(t *testing.T) {
	client := new(MockClient)
	client.On("Call", mock.Anything, mock.Anything, 500).Return(chatReply(t, "No JSON. Just prose. Really."), nil)

	p := NewExplainPipeline(client, 500)
	q := &explain.Query{Text: "same input", Mode: "general"}

	first, err := p.Execute(context.Background(), q)
	require.NoError(t, err)
	second, err := p.Execute(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, withoutLatency(first), withoutLatency(second))
	client.AssertNumberOfCalls(t, "Call", 2)
}
