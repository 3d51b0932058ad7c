package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// chatRequest is the part of the request body the tests inspect.
type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *MistralClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewMistralClient(MistralConfig{
		APIKey:            "test-key",
		Model:             "open-mistral-7b",
		BaseURL:           server.URL + "/",
		Timeout:           5 * time.Second,
		RequestsPerSecond: 100,
		Burst:             10,
	}, nil)
	require.NoError(t, err)
	return client
}

func TestMistralComplete(t *testing.T) {
	var got chatRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"1","choices":[{"index":0,"message":{"role":"assistant","content":"- point one"},"finish_reason":"stop"}],"usage":{"prompt_tokens":5,"completion_tokens":3,"total_tokens":8}}`))
	})

	text, err := client.Complete(context.Background(), UserMessage("Summarize this"))
	require.NoError(t, err)

	assert.Equal(t, "- point one", text)
	assert.Equal(t, "open-mistral-7b", got.Model)
	assert.Equal(t, []Message{{Role: RoleUser, Content: "Summarize this"}}, got.Messages)
}

func TestMistralErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"object":"error","message":"Unauthorized"}`, "chat request failed"},
		{"unprocessable", http.StatusUnprocessableEntity, `{"detail":"bad model"}`, "chat request failed"},
		{"no choices", http.StatusOK, `{"choices":[]}`, "no choices"},
		{"empty content", http.StatusOK, `{"choices":[{"message":{"role":"assistant","content":"  "}}]}`, "empty content"},
		{"garbage", http.StatusOK, `{"choices":`, "chat request failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				calls++
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := client.Complete(context.Background(), UserMessage("hi"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Equal(t, 1, calls, "failed calls are not retried")
		})
	}
}

func TestMistralRequiresAPIKey(t *testing.T) {
	_, err := NewMistralClient(MistralConfig{Model: "open-mistral-7b"}, nil)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestMistralNoMessages(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})
	_, err := client.Complete(context.Background(), nil)
	assert.Error(t, err)
}

func TestMistralUnthrottledByDefault(t *testing.T) {
	client, err := NewMistralClient(MistralConfig{APIKey: "k", Model: "m"}, nil)
	require.NoError(t, err)
	assert.Equal(t, rate.Inf, client.limiter.Limit())
}

func TestMistralCancelledContext(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Complete(ctx, UserMessage("hi"))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMistralRateLimitHonoursContext(t *testing.T) {
	client, err := NewMistralClient(MistralConfig{
		APIKey:            "k",
		Model:             "m",
		BaseURL:           "http://127.0.0.1:0",
		Timeout:           time.Second,
		RequestsPerSecond: 0.001,
		Burst:             1,
	}, nil)
	require.NoError(t, err)

	// Drain the single token so the next call has to wait.
	require.True(t, client.limiter.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = client.Complete(ctx, UserMessage("hi"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit")
}
