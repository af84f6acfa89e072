package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"

	"paperplane/internal/config"
	"paperplane/internal/domain"
)

type fakeGenerator struct {
	messages []llms.MessageContent
	opts     llms.CallOptions
	resp     *llms.ContentResponse
	err      error
}

func (f *fakeGenerator) GenerateContent(_ context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.messages = messages
	for _, o := range options {
		o(&f.opts)
	}
	return f.resp, f.err
}

func TestNewOllamaCompleter_Validation(t *testing.T) {
	_, err := NewOllamaCompleter(config.LLMConfig{OllamaModel: "llama3"}, zap.NewNop())
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	_, err = NewOllamaCompleter(config.LLMConfig{OllamaURL: "http://localhost:11434"}, zap.NewNop())
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestOllamaCompleter_Complete(t *testing.T) {
	gen := &fakeGenerator{resp: &llms.ContentResponse{Choices: []*llms.ContentChoice{
		{Content: "<think>counting questions</think>\n[{\"id\":1}]"},
	}}}
	c := &OllamaCompleter{llm: gen, model: "llama3", logger: zap.NewNop()}

	reply, err := c.Complete(context.Background(), domain.CompletionRequest{
		System: "sys", User: "usr", Temperature: 0.3, MaxTokens: 4000,
	})
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1}]`, reply)

	require.Len(t, gen.messages, 2)
	assert.Equal(t, llms.ChatMessageTypeSystem, gen.messages[0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, gen.messages[1].Role)
	assert.InDelta(t, 0.3, gen.opts.Temperature, 1e-9)
	assert.Equal(t, 4000, gen.opts.MaxTokens)
	assert.Equal(t, "llama3", c.Model())
}

func TestOllamaCompleter_Errors(t *testing.T) {
	c := &OllamaCompleter{llm: &fakeGenerator{err: errors.New("connection refused")}, logger: zap.NewNop()}
	_, err := c.Complete(context.Background(), domain.CompletionRequest{})
	assert.True(t, domain.HasCode(err, domain.CodeLLMServiceError))

	c = &OllamaCompleter{llm: &fakeGenerator{resp: &llms.ContentResponse{}}, logger: zap.NewNop()}
	reply, err := c.Complete(context.Background(), domain.CompletionRequest{})
	require.NoError(t, err)
	assert.Empty(t, reply)
}

func TestOllamaCompleter_Span(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	defer otel.SetTracerProvider(prev)

	ok := &OllamaCompleter{llm: &fakeGenerator{resp: &llms.ContentResponse{}}, model: "llama3", logger: zap.NewNop()}
	_, err := ok.Complete(context.Background(), domain.CompletionRequest{MaxTokens: 10})
	require.NoError(t, err)

	failing := &OllamaCompleter{llm: &fakeGenerator{err: errors.New("connection refused")}, model: "llama3", logger: zap.NewNop()}
	_, err = failing.Complete(context.Background(), domain.CompletionRequest{})
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "ollama.GenerateContent", spans[0].Name())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	var model string
	for _, kv := range spans[0].Attributes() {
		if kv.Key == "llm.model" {
			model = kv.Value.AsString()
		}
	}
	assert.Equal(t, "llama3", model)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
}

func TestStripThinking(t *testing.T) {
	assert.Equal(t, "[1]", stripThinking("  [1] "))
	assert.Equal(t, "a  b", stripThinking("a <think>x</think> b"))
	assert.Equal(t, "<think>unterminated", stripThinking("<think>unterminated"))
}
