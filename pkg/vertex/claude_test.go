package vertex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ASRagab/llm-gcp-vertex/internal/httpclient"
	"github.com/ASRagab/llm-gcp-vertex/pkg/credentials"
	"github.com/ASRagab/llm-gcp-vertex/pkg/keystore"
	"github.com/ASRagab/llm-gcp-vertex/pkg/types"
)

// testResolver resolves against fixed fakes; the location is deliberately
// not in the region availability table so any model is assumed available.
func testResolver(project string) *credentials.Resolver {
	return &credentials.Resolver{
		Keys: keystore.MemoryKeyStore{},
		Env: types.MapEnviron{
			credentials.EnvProject:  project,
			credentials.EnvLocation: "test-region1",
		},
	}
}

func testOptions(serverURL string) []Option {
	return []Option{
		WithResolver(testResolver("test-project")),
		WithConfig(&Config{
			AuthType:    AuthTypeBearerToken,
			BearerToken: "test-token",
			Endpoint:    serverURL,
		}),
		WithHTTPClient(httpclient.New(httpclient.Config{
			MaxRetries:     1,
			BaseRetryDelay: time.Millisecond,
		})),
	}
}

func TestBuildClaudeRequest(t *testing.T) {
	prompt := &types.Prompt{
		Prompt: "hello",
		System: "You are helpful",
		Options: types.PromptOptions{
			Temperature: floatPtr(0.7),
			TopK:        intPtr(40),
		},
	}

	req := buildClaudeRequest(prompt, false)
	data, err := json.Marshal(req)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "vertex-2023-10-16", decoded["anthropic_version"])
	assert.Equal(t, "You are helpful", decoded["system"])
	assert.Equal(t, 0.7, decoded["temperature"])
	assert.Equal(t, float64(40), decoded["top_k"])
	// Unset parameters must not appear at all
	assert.NotContains(t, decoded, "top_p")
	assert.NotContains(t, decoded, "stream")
	// max_tokens is mandatory in the messages format
	assert.Equal(t, float64(claudeDefaultMaxTokens), decoded["max_tokens"])
}

func TestBuildClaudeRequest_MaxTokensOverride(t *testing.T) {
	prompt := &types.Prompt{
		Prompt:  "hello",
		Options: types.PromptOptions{MaxOutputTokens: intPtr(256)},
	}
	req := buildClaudeRequest(prompt, true)
	assert.Equal(t, 256, req.MaxTokens)
	assert.True(t, req.Stream)
}

func TestClaudePrompt(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)

		_ = json.NewEncoder(w).Encode(claudeResponse{
			ID: "msg_123",
			Content: []claudeContentBlock{
				{Type: "text", Text: "Hello "},
				{Type: "text", Text: "there"},
			},
			Usage: claudeUsage{InputTokens: 10, OutputTokens: 5},
		})
	}))
	defer server.Close()

	m := NewClaudeModel("claude-test", "claude-test@20250101", testOptions(server.URL)...)

	resp, err := m.Prompt(context.Background(), &types.Prompt{
		Prompt:  "hi",
		System:  "Be brief",
		Options: types.PromptOptions{Temperature: floatPtr(0)},
	})
	require.NoError(t, err)

	assert.Equal(t, "msg_123", resp.ID)
	assert.Equal(t, "claude-test", resp.Model)
	assert.Equal(t, "Hello there", resp.Content)
	assert.Equal(t, types.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15}, resp.Usage)

	assert.Equal(t, "/v1/projects/test-project/locations/test-region1/publishers/anthropic/models/claude-test@20250101:rawPredict", gotPath)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "vertex-2023-10-16", gotBody["anthropic_version"])
	assert.Equal(t, "Be brief", gotBody["system"])
	// Explicit zero temperature must reach the wire
	assert.Equal(t, float64(0), gotBody["temperature"])
}

func TestClaudePrompt_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error": {"type": "rate_limit_error", "message": "quota exhausted"}}`)
	}))
	defer server.Close()

	m := NewClaudeModel("claude-test", "claude-test@20250101", testOptions(server.URL)...)

	_, err := m.Prompt(context.Background(), &types.Prompt{Prompt: "hi"})
	require.Error(t, err)

	var provErr *types.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, types.ErrCodeRateLimit, provErr.Code)
	assert.Equal(t, http.StatusTooManyRequests, provErr.StatusCode)
	assert.Contains(t, provErr.Message, "quota exhausted")
	assert.True(t, provErr.IsRetryable())
}

func TestClaudePrompt_MissingProject(t *testing.T) {
	m := NewClaudeModel("claude-test", "claude-test@20250101",
		WithResolver(&credentials.Resolver{
			Keys: keystore.MemoryKeyStore{},
			Env:  types.MapEnviron{},
		}),
	)

	_, err := m.Prompt(context.Background(), &types.Prompt{Prompt: "hi"})
	require.Error(t, err)

	var configErr *types.ConfigurationError
	assert.True(t, errors.As(err, &configErr))
}

func TestClaudePrompt_RegionUnavailable(t *testing.T) {
	// asia-southeast1 is a known region without claude-opus-4-5
	m := NewClaudeModel("claude-opus-4.5", "claude-opus-4-5@20251101",
		WithResolver(&credentials.Resolver{
			Keys: keystore.MemoryKeyStore{},
			Env: types.MapEnviron{
				credentials.EnvProject:  "test-project",
				credentials.EnvLocation: "asia-southeast1",
			},
		}),
		WithConfig(&Config{AuthType: AuthTypeBearerToken, BearerToken: "t"}),
	)

	_, err := m.Prompt(context.Background(), &types.Prompt{Prompt: "hi"})
	require.Error(t, err)

	var provErr *types.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, types.ErrCodeInvalidRequest, provErr.Code)
	assert.Contains(t, provErr.Message, "not available in region asia-southeast1")
}

func TestClaudeURL_ModelVersionOverride(t *testing.T) {
	m := NewClaudeModel("claude-test", "claude-test@20250101",
		WithResolver(testResolver("test-project")),
		WithConfig(&Config{
			AuthType:        AuthTypeBearerToken,
			BearerToken:     "t",
			ModelVersionMap: map[string]string{"claude-test": "claude-test@20990101"},
		}),
	)

	url, err := m.claudeURL("rawPredict")
	require.NoError(t, err)
	assert.Contains(t, url, "models/claude-test@20990101:rawPredict")
}

const claudeSSE = `event: message_start
data: {"type":"message_start","message":{"id":"msg_abc","usage":{"input_tokens":12,"output_tokens":1}}}

event: content_block_start
data: {"type":"content_block_start","index":0}

event: content_block_delta
data: {"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"Hello"}}

event: content_block_delta
data: {"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":" world"}}

event: message_delta
data: {"type":"message_delta","delta":{"stop_reason":"end_turn"},"usage":{"output_tokens":7}}

event: message_stop
data: {"type":"message_stop"}

`

func sseServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, ":streamRawPredict")
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, claudeSSE)
	}))
}

func TestClaudePromptStream(t *testing.T) {
	server := sseServer(t)
	defer server.Close()

	m := NewClaudeModel("claude-test", "claude-test@20250101", testOptions(server.URL)...)

	stream, err := m.PromptStream(context.Background(), &types.Prompt{Prompt: "hi"})
	require.NoError(t, err)
	defer func() { _ = stream.Close() }()

	var content string
	var final *types.StreamChunk
	for {
		chunk, err := stream.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		if chunk.Done {
			final = &chunk
			continue
		}
		content += chunk.Content
	}

	assert.Equal(t, "Hello world", content)
	require.NotNil(t, final)
	assert.Equal(t, "msg_abc", final.ID)
	require.NotNil(t, final.Usage)
	assert.Equal(t, types.Usage{PromptTokens: 12, CompletionTokens: 7, TotalTokens: 19}, *final.Usage)
}

func TestClaudePromptAsync(t *testing.T) {
	server := sseServer(t)
	defer server.Close()

	m := NewAsyncClaudeModel("claude-test", "claude-test@20250101", testOptions(server.URL)...)

	chunks, errs := m.PromptAsync(context.Background(), &types.Prompt{Prompt: "hi"})

	var content string
	var sawDone bool
	for chunk := range chunks {
		if chunk.Done {
			sawDone = true
			continue
		}
		content += chunk.Content
	}
	// Channels close after the final chunk; the error channel drains empty
	for err := range errs {
		t.Fatalf("unexpected error: %v", err)
	}

	assert.Equal(t, "Hello world", content)
	assert.True(t, sawDone)
}

func TestClaudePromptAsync_Cancelled(t *testing.T) {
	blocked := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "event: message_start\ndata: {\"type\":\"message_start\",\"message\":{\"id\":\"msg_x\",\"usage\":{\"input_tokens\":1}}}\n\n")
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		<-blocked
	}))
	defer server.Close()
	defer close(blocked)

	ctx, cancel := context.WithCancel(context.Background())
	m := NewAsyncClaudeModel("claude-test", "claude-test@20250101", testOptions(server.URL)...)

	chunks, errs := m.PromptAsync(ctx, &types.Prompt{Prompt: "hi"})
	cancel()

	// Both channels must close promptly after cancellation
	deadline := time.After(5 * time.Second)
	for chunks != nil || errs != nil {
		select {
		case _, ok := <-chunks:
			if !ok {
				chunks = nil
			}
		case _, ok := <-errs:
			if !ok {
				errs = nil
			}
		case <-deadline:
			t.Fatal("channels did not close after cancellation")
		}
	}
}
