package vertex

import (
	"context"
	"io"
	"iter"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"github.com/ASRagab/llm-gcp-vertex/pkg/types"
)

// geminiClient builds a genai client addressed at the resolved project and
// location. A fresh client per invocation keeps adapters stateless and lets
// environment changes between calls take effect.
func (m *model) geminiClient(ctx context.Context) (*genai.Client, error) {
	project, err := m.resolver.ResolveProject()
	if err != nil {
		return nil, err
	}
	location := m.resolver.ResolveLocation()

	clientConfig := &genai.ClientConfig{
		Project:  project,
		Location: location,
		Backend:  genai.BackendVertexAI,
	}
	if m.config.Endpoint != "" {
		clientConfig.HTTPOptions.BaseURL = m.config.Endpoint
	}
	return genai.NewClient(ctx, clientConfig)
}

func (m *model) geminiPrompt(ctx context.Context, prompt *types.Prompt) (*types.Response, error) {
	client, err := m.geminiClient(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := client.Models.GenerateContent(ctx, m.vertexModelName, genai.Text(prompt.Prompt), BuildConfig(prompt))
	if err != nil {
		return nil, err
	}

	response := &types.Response{
		ID:      uuid.NewString(),
		Model:   m.modelID,
		Content: resp.Text(),
	}
	if resp.UsageMetadata != nil {
		response.Usage = usageFromMetadata(resp.UsageMetadata)
	}
	return response, nil
}

func (m *model) geminiStream(ctx context.Context, prompt *types.Prompt) (types.ResponseStream, error) {
	client, err := m.geminiClient(ctx)
	if err != nil {
		return nil, err
	}

	seq := client.Models.GenerateContentStream(ctx, m.vertexModelName, genai.Text(prompt.Prompt), BuildConfig(prompt))
	next, stop := iter.Pull2(seq)

	return &geminiStream{
		id:    uuid.NewString(),
		model: m.modelID,
		next:  next,
		stop:  stop,
	}, nil
}

// geminiStream adapts the genai SDK's push iterator into the host tool's
// pull-based stream interface.
type geminiStream struct {
	id    string
	model string
	next  func() (*genai.GenerateContentResponse, error, bool)
	stop  func()

	usage  types.Usage
	done   bool
	closed bool
}

func (s *geminiStream) Next() (types.StreamChunk, error) {
	if s.done || s.closed {
		return types.StreamChunk{}, io.EOF
	}

	resp, err, ok := s.next()
	if err != nil {
		s.done = true
		return types.StreamChunk{}, err
	}
	if !ok {
		// Iterator exhausted: emit the terminal usage chunk once
		s.done = true
		usage := s.usage
		return types.StreamChunk{ID: s.id, Model: s.model, Done: true, Usage: &usage}, nil
	}

	if resp.UsageMetadata != nil {
		s.usage = usageFromMetadata(resp.UsageMetadata)
	}
	return types.StreamChunk{ID: s.id, Model: s.model, Content: resp.Text()}, nil
}

func (s *geminiStream) Close() error {
	if !s.closed {
		s.closed = true
		s.stop()
	}
	return nil
}

func usageFromMetadata(meta *genai.GenerateContentResponseUsageMetadata) types.Usage {
	return types.Usage{
		PromptTokens:     int(meta.PromptTokenCount),
		CompletionTokens: int(meta.CandidatesTokenCount),
		TotalTokens:      int(meta.TotalTokenCount),
	}
}
