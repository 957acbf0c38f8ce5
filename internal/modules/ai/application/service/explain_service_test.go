package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"Clarity/internal/modules/ai/application/dto/request"
	"Clarity/internal/modules/ai/application/dto/respond"
	"Clarity/internal/modules/ai/domain/explain"
	"Clarity/internal/modules/ai/infrastructure/llm"
	"Clarity/internal/modules/ai/infrastructure/normalize"
	"Clarity/internal/modules/ai/infrastructure/pipeline"
	"Clarity/pkg/xerr"

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

func newService(client llm.Client) ExplainService {
	return NewExplainService(pipeline.NewExplainPipeline(client, 500))
}

func TestExplain_EmptyTextNeverCallsUpstream(t *testing.T) {
	client := new(MockClient)
	svc := newService(client)

	for _, text := range []string{"", "   ", "\n\t "} {
		got, err := svc.Explain(context.Background(), request.ExplainRequest{Text: text, Action: "rephrase"})
		assert.Nil(t, got)
		assert.Same(t, xerr.ErrNoText, err)
	}
	client.AssertNotCalled(t, "Call", mock.Anything, mock.Anything, mock.Anything)
}

func TestExplain_UpstreamFailureDegrades(t *testing.T) {
	failures := []error{
		llm.ErrNotConfigured,
		&llm.UpstreamHTTPError{StatusCode: 502, Body: "bad gateway"},
		&llm.UpstreamTransportError{Err: errors.New("i/o timeout")},
	}
	texts := []string{
		"First sentence here. Second one follows. Third is dropped.",
		"short",
		strings.Repeat("long text without stops ", 20),
	}

	for _, failure := range failures {
		for _, text := range texts {
			client := new(MockClient)
			client.On("Call", mock.Anything, mock.Anything, 500).Return(nil, failure).Once()

			got, err := newService(client).Explain(context.Background(), request.ExplainRequest{Text: text})
			require.NoError(t, err)

			failed, ok := got.(respond.ExplainFailedRespond)
			require.True(t, ok, "expected failure shape, got %T", got)
			assert.Equal(t, explain.ErrModelCallFailed, failed.Error)
			assert.Equal(t, int64(0), failed.LatencyMs)
			assert.Equal(t, normalize.Summarize(text), failed.Summary)
			assert.Contains(t, failed.Trace, failure.Error())
		}
	}
}

func TestExplain_RephraseEndToEnd(t *testing.T) {
	client := new(MockClient)
	client.On("Call", mock.Anything, mock.Anything, 500).
		Return(json.RawMessage(`{"choices":[{"message":{"content":"{\"rephrase\":\"Hi there\"}"}}]}`), nil)

	got, err := newService(client).Explain(context.Background(), request.ExplainRequest{Text: "hi", Action: "rephrase"})
	require.NoError(t, err)

	result, ok := got.(explain.Result)
	require.True(t, ok)
	assert.Equal(t, "Hi there", result["rephrase"])
	assert.GreaterOrEqual(t, result[explain.FieldLatencyMs].(int64), int64(0))
	assert.Len(t, result, 2)
}

func TestExplain_DefaultsAndContext(t *testing.T) {
	client := new(MockClient)
	client.On("Call", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "TEXT: some clause") &&
			strings.Contains(p, "Page title: Lease") &&
			strings.Contains(p, "URL: https://example.com/lease")
	}), 500).Return(json.RawMessage(`{"choices":[{"message":{"content":"Plain prose only."}}]}`), nil)

	got, err := newService(client).Explain(context.Background(), request.ExplainRequest{
		Text:    "  some clause  ",
		Context: &request.ExplainContext{Title: "Lease", URL: "https://example.com/lease"},
	})
	require.NoError(t, err)

	result := got.(explain.Result)
	assert.Equal(t, explain.DefaultMode, result["type"])
	assert.Equal(t, "Plain prose only.", result["summary"])
	client.AssertExpectations(t)
}

type panicClient struct{}

func (panicClient) Call(ctx context.Context, prompt string, maxTokens int) (json.RawMessage, error) {
	panic("boom")
}

func TestExplain_PanicIsContained(t *testing.T) {
	got, err := newService(panicClient{}).Explain(context.Background(), request.ExplainRequest{Text: "Hello."})
	require.NoError(t, err)

	failed := got.(respond.ExplainFailedRespond)
	assert.Equal(t, explain.ErrModelCallFailed, failed.Error)
	assert.Contains(t, failed.Trace, "boom")
	assert.Equal(t, "Hello.", failed.Summary)
}
