package vertex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ASRagab/llm-gcp-vertex/pkg/catalog"
	"github.com/ASRagab/llm-gcp-vertex/pkg/types"
)

const (
	// anthropicVersion is the Vertex AI variant of the Anthropic API version header.
	anthropicVersion = "vertex-2023-10-16"

	// claudeDefaultMaxTokens applies when the prompt sets no limit; the
	// Anthropic messages format requires max_tokens.
	claudeDefaultMaxTokens = 4096
)

// claudeRequest is the Anthropic messages request body in its Vertex AI
// shape: the model moves into the URL and anthropic_version into the body.
type claudeRequest struct {
	AnthropicVersion string          `json:"anthropic_version"`
	Messages         []claudeMessage `json:"messages"`
	MaxTokens        int             `json:"max_tokens"`
	System           string          `json:"system,omitempty"`
	Temperature      *float64        `json:"temperature,omitempty"`
	TopP             *float64        `json:"top_p,omitempty"`
	TopK             *int            `json:"top_k,omitempty"`
	Stream           bool            `json:"stream,omitempty"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type claudeUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type claudeResponse struct {
	ID      string               `json:"id"`
	Content []claudeContentBlock `json:"content"`
	Usage   claudeUsage          `json:"usage"`
}

type claudeErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// buildClaudeRequest shapes the prompt into the messages body, carrying
// exactly the generation parameters present on the prompt.
func buildClaudeRequest(prompt *types.Prompt, stream bool) claudeRequest {
	req := claudeRequest{
		AnthropicVersion: anthropicVersion,
		Messages:         []claudeMessage{{Role: "user", Content: prompt.Prompt}},
		MaxTokens:        claudeDefaultMaxTokens,
		System:           prompt.System,
		Temperature:      prompt.Options.Temperature,
		TopP:             prompt.Options.TopP,
		TopK:             prompt.Options.TopK,
		Stream:           stream,
	}
	if prompt.Options.MaxOutputTokens != nil {
		req.MaxTokens = *prompt.Options.MaxOutputTokens
	}
	return req
}

// claudeURL builds the raw-predict URL for the resolved project/location.
// verb is "rawPredict" or "streamRawPredict".
func (m *model) claudeURL(verb string) (string, error) {
	project, err := m.resolver.ResolveProject()
	if err != nil {
		return "", err
	}
	location := m.resolver.ResolveLocation()

	// Config overrides beat the catalog entry bound at construction
	vertexModel := m.vertexModelName
	if v, ok := m.config.ModelVersionMap[m.modelID]; ok {
		vertexModel = v
	}

	if !catalog.IsModelAvailableInRegion(vertexModel, location) {
		regions := catalog.AvailableRegions(vertexModel)
		return "", &types.ProviderError{
			Code:  types.ErrCodeInvalidRequest,
			Model: vertexModel,
			Message: fmt.Sprintf("model %s is not available in region %s, available in: %s",
				vertexModel, location, strings.Join(regions, ", ")),
		}
	}

	return fmt.Sprintf("%s/v1/projects/%s/locations/%s/publishers/anthropic/models/%s:%s",
		m.config.EndpointFor(location), project, location, vertexModel, verb), nil
}

// claudeCall issues a raw-predict request and returns the open response
// body. The caller owns the body.
func (m *model) claudeCall(ctx context.Context, prompt *types.Prompt, verb string, stream bool) (*http.Response, error) {
	url, err := m.claudeURL(verb)
	if err != nil {
		return nil, err
	}

	if err := m.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	headers, err := m.auth.authHeaders(ctx)
	if err != nil {
		return nil, &types.ProviderError{
			Code:        types.ErrCodeAuthentication,
			Message:     "failed to obtain access token",
			Model:       m.vertexModelName,
			OriginalErr: err,
		}
	}

	body, err := json.Marshal(buildClaudeRequest(prompt, stream))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := m.http.Post(ctx, url, headers, body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &types.ProviderError{
			Code:        types.ErrCodeNetwork,
			Message:     "request failed",
			Model:       m.vertexModelName,
			OriginalErr: err,
		}
	}

	if resp.StatusCode != http.StatusOK {
		defer func() { _ = resp.Body.Close() }()
		return nil, m.claudeError(resp)
	}
	return resp, nil
}

// claudeError converts a non-200 response into a ProviderError.
func (m *model) claudeError(resp *http.Response) error {
	message := fmt.Sprintf("request failed with status %d", resp.StatusCode)

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err == nil && len(data) > 0 {
		var apiErr claudeErrorResponse
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error.Message != "" {
			message = apiErr.Error.Message
		}
	}

	provErr := &types.ProviderError{
		Code:       types.ErrorCodeFromStatus(resp.StatusCode),
		Message:    message,
		StatusCode: resp.StatusCode,
		Model:      m.vertexModelName,
		RequestID:  resp.Header.Get("X-Request-Id"),
	}
	m.logger.Printf("vertex: %s request failed: status=%d request_id=%s", m.modelID, provErr.StatusCode, provErr.RequestID)
	return provErr
}

func (m *model) claudePrompt(ctx context.Context, prompt *types.Prompt) (*types.Response, error) {
	resp, err := m.claudeCall(ctx, prompt, "rawPredict", false)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var parsed claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	var content strings.Builder
	for _, block := range parsed.Content {
		if block.Type == "text" {
			content.WriteString(block.Text)
		}
	}

	return &types.Response{
		ID:      parsed.ID,
		Model:   m.modelID,
		Content: content.String(),
		Usage: types.Usage{
			PromptTokens:     parsed.Usage.InputTokens,
			CompletionTokens: parsed.Usage.OutputTokens,
			TotalTokens:      parsed.Usage.InputTokens + parsed.Usage.OutputTokens,
		},
	}, nil
}

func (m *model) claudeStream(ctx context.Context, prompt *types.Prompt) (types.ResponseStream, error) {
	resp, err := m.claudeCall(ctx, prompt, "streamRawPredict", true)
	if err != nil {
		return nil, err
	}
	return newClaudeStream(m.modelID, resp.Body), nil
}
