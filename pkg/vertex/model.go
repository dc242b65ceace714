package vertex

import (
	"context"
	"io"
	"log"
	"time"

	"golang.org/x/time/rate"

	"github.com/ASRagab/llm-gcp-vertex/internal/httpclient"
	"github.com/ASRagab/llm-gcp-vertex/pkg/credentials"
	"github.com/ASRagab/llm-gcp-vertex/pkg/types"
)

// family selects the wire protocol an adapter speaks.
type family string

const (
	familyGemini family = "gemini"
	familyClaude family = "claude"
)

// model is the single adapter implementation behind all four public
// variants. It is stateless between invocations: credentials are resolved
// and the request configuration rebuilt on every call.
type model struct {
	modelID         string
	vertexModelName string
	family          family

	resolver *credentials.Resolver
	config   *Config
	logger   *log.Logger

	auth    *authProvider
	http    *httpclient.Client
	limiter *rate.Limiter
}

// Option customizes an adapter at construction time.
type Option func(*model)

// WithResolver substitutes the credential resolver, usually for tests.
func WithResolver(r *credentials.Resolver) Option {
	return func(m *model) { m.resolver = r }
}

// WithConfig supplies plugin configuration (auth, endpoint, model
// version overrides).
func WithConfig(c *Config) Option {
	return func(m *model) { m.config = c }
}

// WithLogger substitutes the logger.
func WithLogger(l *log.Logger) Option {
	return func(m *model) { m.logger = l }
}

// WithHTTPClient substitutes the raw-predict HTTP client, usually for tests.
func WithHTTPClient(c *httpclient.Client) Option {
	return func(m *model) { m.http = c }
}

func newModel(modelID, vertexModelName string, fam family, opts ...Option) *model {
	m := &model{
		modelID:         modelID,
		vertexModelName: vertexModelName,
		family:          fam,
		resolver:        credentials.NewResolver(),
		config:          DefaultConfig(),
		logger:          log.Default(),
		// Client-side cap well under Vertex quotas; bursts absorb
		// interactive use
		limiter: rate.NewLimiter(rate.Every(time.Minute/60), 10),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.auth == nil {
		m.auth = newAuthProvider(m.config)
	}
	if m.http == nil {
		m.http = httpclient.New(httpclient.Config{Timeout: m.config.Timeout})
	}
	return m
}

func (m *model) ModelID() string         { return m.modelID }
func (m *model) VertexModelName() string { return m.vertexModelName }
func (m *model) CanStream() bool         { return true }

func (m *model) prompt(ctx context.Context, prompt *types.Prompt) (*types.Response, error) {
	switch m.family {
	case familyClaude:
		return m.claudePrompt(ctx, prompt)
	default:
		return m.geminiPrompt(ctx, prompt)
	}
}

func (m *model) promptStream(ctx context.Context, prompt *types.Prompt) (types.ResponseStream, error) {
	switch m.family {
	case familyClaude:
		return m.claudeStream(ctx, prompt)
	default:
		return m.geminiStream(ctx, prompt)
	}
}

// promptAsync runs the stream on a goroutine, delivering chunks and at most
// one error over channels. Both channels are closed when delivery finishes
// or ctx is cancelled.
func (m *model) promptAsync(ctx context.Context, prompt *types.Prompt) (<-chan types.StreamChunk, <-chan error) {
	chunks := make(chan types.StreamChunk)
	errs := make(chan error, 1)

	go func() {
		defer close(chunks)
		defer close(errs)

		stream, err := m.promptStream(ctx, prompt)
		if err != nil {
			errs <- err
			return
		}
		defer func() { _ = stream.Close() }()

		for {
			chunk, err := stream.Next()
			if err == io.EOF {
				return
			}
			if err != nil {
				errs <- err
				return
			}
			select {
			case chunks <- chunk:
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			}
		}
	}()

	return chunks, errs
}

// GeminiModel is the synchronous adapter for the Gemini family.
type GeminiModel struct{ *model }

// NewGeminiModel constructs a Gemini adapter for one catalog entry.
func NewGeminiModel(modelID, vertexModelName string, opts ...Option) *GeminiModel {
	return &GeminiModel{newModel(modelID, vertexModelName, familyGemini, opts...)}
}

func (m *GeminiModel) Prompt(ctx context.Context, prompt *types.Prompt) (*types.Response, error) {
	return m.prompt(ctx, prompt)
}

func (m *GeminiModel) PromptStream(ctx context.Context, prompt *types.Prompt) (types.ResponseStream, error) {
	return m.promptStream(ctx, prompt)
}

// ClaudeModel is the synchronous adapter for the Claude family.
type ClaudeModel struct{ *model }

// NewClaudeModel constructs a Claude adapter for one catalog entry.
func NewClaudeModel(modelID, vertexModelName string, opts ...Option) *ClaudeModel {
	return &ClaudeModel{newModel(modelID, vertexModelName, familyClaude, opts...)}
}

func (m *ClaudeModel) Prompt(ctx context.Context, prompt *types.Prompt) (*types.Response, error) {
	return m.prompt(ctx, prompt)
}

func (m *ClaudeModel) PromptStream(ctx context.Context, prompt *types.Prompt) (types.ResponseStream, error) {
	return m.promptStream(ctx, prompt)
}

// AsyncGeminiModel is the asynchronous adapter for the Gemini family.
type AsyncGeminiModel struct{ core *model }

// NewAsyncGeminiModel constructs an async Gemini adapter for one catalog entry.
func NewAsyncGeminiModel(modelID, vertexModelName string, opts ...Option) *AsyncGeminiModel {
	return &AsyncGeminiModel{newModel(modelID, vertexModelName, familyGemini, opts...)}
}

func (m *AsyncGeminiModel) ModelID() string         { return m.core.ModelID() }
func (m *AsyncGeminiModel) VertexModelName() string { return m.core.VertexModelName() }
func (m *AsyncGeminiModel) CanStream() bool         { return m.core.CanStream() }

func (m *AsyncGeminiModel) PromptAsync(ctx context.Context, prompt *types.Prompt) (<-chan types.StreamChunk, <-chan error) {
	return m.core.promptAsync(ctx, prompt)
}

// AsyncClaudeModel is the asynchronous adapter for the Claude family.
type AsyncClaudeModel struct{ core *model }

// NewAsyncClaudeModel constructs an async Claude adapter for one catalog entry.
func NewAsyncClaudeModel(modelID, vertexModelName string, opts ...Option) *AsyncClaudeModel {
	return &AsyncClaudeModel{newModel(modelID, vertexModelName, familyClaude, opts...)}
}

func (m *AsyncClaudeModel) ModelID() string         { return m.core.ModelID() }
func (m *AsyncClaudeModel) VertexModelName() string { return m.core.VertexModelName() }
func (m *AsyncClaudeModel) CanStream() bool         { return m.core.CanStream() }

func (m *AsyncClaudeModel) PromptAsync(ctx context.Context, prompt *types.Prompt) (<-chan types.StreamChunk, <-chan error) {
	return m.core.promptAsync(ctx, prompt)
}

// Interface conformance
var (
	_ types.Model      = (*GeminiModel)(nil)
	_ types.Model      = (*ClaudeModel)(nil)
	_ types.AsyncModel = (*AsyncGeminiModel)(nil)
	_ types.AsyncModel = (*AsyncClaudeModel)(nil)
)
