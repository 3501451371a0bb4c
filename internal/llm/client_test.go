// ABOUTME: Tests for the OpenAI client retry policy
// ABOUTME: Verifies attempt counts for transient and fatal failures
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// scriptedCompleter returns the scripted results in order, repeating the last.
type scriptedCompleter struct {
	calls   atomic.Int32
	results []func(ctx context.Context) (openai.ChatCompletionResponse, error)
}

func (s *scriptedCompleter) CreateChatCompletion(ctx context.Context, _ openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	n := int(s.calls.Add(1)) - 1
	if n >= len(s.results) {
		n = len(s.results) - 1
	}
	return s.results[n](ctx)
}

func reply(text string) func(context.Context) (openai.ChatCompletionResponse, error) {
	return func(context.Context) (openai.ChatCompletionResponse, error) {
		return openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: text}}},
		}, nil
	}
}

func fail(status int) func(context.Context) (openai.ChatCompletionResponse, error) {
	return func(context.Context) (openai.ChatCompletionResponse, error) {
		return openai.ChatCompletionResponse{}, &openai.APIError{HTTPStatusCode: status, Message: http.StatusText(status)}
	}
}

func testConfig() *ClientConfig {
	cfg := DefaultConfig("test-key")
	cfg.RetryDelay = 0
	cfg.Timeout = time.Second
	return cfg
}

func userMessage(text string) []openai.ChatCompletionMessage {
	return []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleUser, Content: text}}
}

func TestComplete_Success(t *testing.T) {
	api := &scriptedCompleter{results: []func(context.Context) (openai.ChatCompletionResponse, error){reply("  Water me.  ")}}
	c := NewClientWithCompleter(api, testConfig(), zap.NewNop())

	got, err := c.Complete(context.Background(), userMessage("thirsty?"))
	require.NoError(t, err)
	assert.Equal(t, "Water me.", got.Text)
	assert.Equal(t, 1, got.Attempts)
	assert.Equal(t, int32(1), api.calls.Load())
}

func TestComplete_RetriesTransientThenSucceeds(t *testing.T) {
	api := &scriptedCompleter{results: []func(context.Context) (openai.ChatCompletionResponse, error){
		fail(http.StatusTooManyRequests),
		fail(http.StatusBadGateway),
		reply("finally"),
	}}
	c := NewClientWithCompleter(api, testConfig(), zap.NewNop())

	got, err := c.Complete(context.Background(), userMessage("hi"))
	require.NoError(t, err)
	assert.Equal(t, "finally", got.Text)
	assert.Equal(t, 3, got.Attempts)
}

func TestComplete_ExactlyThreeAttemptsOnTransient(t *testing.T) {
	api := &scriptedCompleter{results: []func(context.Context) (openai.ChatCompletionResponse, error){fail(http.StatusServiceUnavailable)}}
	c := NewClientWithCompleter(api, testConfig(), zap.NewNop())

	var observed []int
	c.OnAttempt = func(attempt int, err error) {
		assert.Error(t, err)
		observed = append(observed, attempt)
	}

	_, err := c.Complete(context.Background(), userMessage("hi"))
	require.Error(t, err)

	var transient *ProviderTransientError
	require.ErrorAs(t, err, &transient)
	assert.Equal(t, 3, transient.Attempts)
	assert.Equal(t, http.StatusServiceUnavailable, transient.StatusCode)
	assert.Equal(t, int32(3), api.calls.Load())
	assert.Equal(t, []int{1, 2, 3}, observed)
}

func TestComplete_FatalIsNotRetried(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			api := &scriptedCompleter{results: []func(context.Context) (openai.ChatCompletionResponse, error){fail(status)}}
			c := NewClientWithCompleter(api, testConfig(), zap.NewNop())

			_, err := c.Complete(context.Background(), userMessage("hi"))
			var fatal *ProviderFatalError
			require.ErrorAs(t, err, &fatal)
			assert.Equal(t, status, fatal.StatusCode)
			assert.Equal(t, 1, fatal.Attempts)
			assert.Equal(t, int32(1), api.calls.Load())
		})
	}
}

func TestComplete_EmptyCompletionIsTransient(t *testing.T) {
	api := &scriptedCompleter{results: []func(context.Context) (openai.ChatCompletionResponse, error){
		reply("   "),
		func(context.Context) (openai.ChatCompletionResponse, error) { return openai.ChatCompletionResponse{}, nil },
		reply("ok"),
	}}
	c := NewClientWithCompleter(api, testConfig(), zap.NewNop())

	got, err := c.Complete(context.Background(), userMessage("hi"))
	require.NoError(t, err)
	assert.Equal(t, "ok", got.Text)
	assert.Equal(t, 3, got.Attempts)
}

func TestComplete_PerAttemptTimeout(t *testing.T) {
	slow := func(ctx context.Context) (openai.ChatCompletionResponse, error) {
		<-ctx.Done()
		return openai.ChatCompletionResponse{}, ctx.Err()
	}
	api := &scriptedCompleter{results: []func(context.Context) (openai.ChatCompletionResponse, error){slow, reply("woke up")}}
	cfg := testConfig()
	cfg.Timeout = 20 * time.Millisecond
	c := NewClientWithCompleter(api, cfg, zap.NewNop())

	got, err := c.Complete(context.Background(), userMessage("hi"))
	require.NoError(t, err)
	assert.Equal(t, 2, got.Attempts)
}

func TestComplete_CancelledCallerStopsRetrying(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	api := &scriptedCompleter{results: []func(context.Context) (openai.ChatCompletionResponse, error){
		func(context.Context) (openai.ChatCompletionResponse, error) {
			cancel()
			return openai.ChatCompletionResponse{}, &openai.APIError{HTTPStatusCode: http.StatusInternalServerError}
		},
	}}
	c := NewClientWithCompleter(api, testConfig(), zap.NewNop())

	_, err := c.Complete(ctx, userMessage("hi"))
	assert.True(t, IsFatal(err), "got %v", err)
	assert.Equal(t, int32(1), api.calls.Load())
}

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient(DefaultConfig(""), nil)
	assert.Error(t, err)
}

func TestNewClientWithCompleter_Defaults(t *testing.T) {
	c := NewClientWithCompleter(&scriptedCompleter{}, &ClientConfig{}, nil)
	assert.Equal(t, DefaultChatModel, c.Model())
	assert.Equal(t, 1, c.maxAttempts)
	assert.Equal(t, DefaultMaxTokens, c.maxTokens)
}

// The real go-openai client against a fake provider: request shape and
// HTTP error classification end to end.
func TestNewClient_AgainstHTTPProvider(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req openai.ChatCompletionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 180, req.MaxTokens)

		w.Header().Set("Content-Type", "application/json")
		if n == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":{"message":"slow down","type":"rate_limit_error","code":"rate_limit"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"chatcmpl-1","object":"chat.completion","model":"gpt-4o-mini","choices":[{"index":0,"message":{"role":"assistant","content":"Oh wow, water. Groundbreaking."},"finish_reason":"stop"}],"usage":{"prompt_tokens":10,"completion_tokens":7,"total_tokens":17}}`))
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.BaseURL = srv.URL + "/v1"
	c, err := NewClient(cfg, zap.NewNop())
	require.NoError(t, err)

	got, err := c.Complete(context.Background(), userMessage("did you need water?"))
	require.NoError(t, err)
	assert.Equal(t, "Oh wow, water. Groundbreaking.", got.Text)
	assert.Equal(t, 2, got.Attempts)
	assert.Equal(t, 17, got.Usage.TotalTokens)
}

func TestNewClient_AuthFailureIsFatal(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error","code":"invalid_api_key"}}`))
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.BaseURL = srv.URL + "/v1"
	c, err := NewClient(cfg, zap.NewNop())
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), userMessage("hi"))
	assert.True(t, IsFatal(err), "got %v", err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		transient bool
	}{
		{"rate limit", &openai.APIError{HTTPStatusCode: 429}, true},
		{"server error", &openai.APIError{HTTPStatusCode: 500}, true},
		{"request timeout", &openai.RequestError{HTTPStatusCode: 408}, true},
		{"bad gateway request error", &openai.RequestError{HTTPStatusCode: 502, Err: errors.New("x")}, true},
		{"unauthorized", &openai.APIError{HTTPStatusCode: 401}, false},
		{"malformed", &openai.APIError{HTTPStatusCode: 400}, false},
		{"unprocessable", &openai.RequestError{HTTPStatusCode: 422, Err: errors.New("x")}, false},
		{"deadline", context.DeadlineExceeded, true},
		{"cancelled", context.Canceled, false},
		{"unknown", errors.New("boom"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			assert.Equal(t, tt.transient, IsTransient(got))
			assert.Equal(t, !tt.transient, IsFatal(got))
			assert.ErrorIs(t, got, tt.err)
		})
	}

	assert.Nil(t, Classify(nil))
	already := &ProviderFatalError{Err: errors.New("x")}
	assert.Same(t, already, Classify(already))
}
