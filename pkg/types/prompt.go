// Package types defines the boundary types shared between the host llm tool
// and the Vertex AI model adapters. It includes the prompt/options format,
// the model interfaces, and the key-store and environment abstractions used
// for credential resolution.
package types

// PromptOptions carries the optional generation parameters supplied by the
// host tool. Pointer fields distinguish "not specified" from an explicit
// zero value; an explicit temperature of 0 must survive to the wire.
type PromptOptions struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	MaxOutputTokens *int     `json:"max_output_tokens,omitempty"`
	TopP            *float64 `json:"top_p,omitempty"`
	TopK            *int     `json:"top_k,omitempty"`
}

// IsZero reports whether no generation parameter was specified.
func (o PromptOptions) IsZero() bool {
	return o.Temperature == nil && o.MaxOutputTokens == nil && o.TopP == nil && o.TopK == nil
}

// Prompt is the host tool's prompt abstraction. The system instruction is
// carried alongside the options, not inside them, matching the host format.
type Prompt struct {
	Prompt  string        `json:"prompt"`
	System  string        `json:"system,omitempty"`
	Options PromptOptions `json:"options"`
}

// Usage represents token usage reported by the provider.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is a complete, non-streaming model response.
type Response struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Content string `json:"content"`
	Usage   Usage  `json:"usage"`
}
