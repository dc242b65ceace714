// Package catalog holds the static model tables registered by this plugin.
// Each entry pairs the public model ID exposed to the llm tool with the
// model identifier Vertex AI expects. The tables are the single source of
// truth consumed by registration; they are data, not logic.
package catalog

// Entry pairs a public model ID with its Vertex AI model identifier.
type Entry struct {
	ModelID         string // Public-facing ID (e.g., "claude-opus-4.5")
	VertexModelName string // Vertex AI identifier (e.g., "claude-opus-4-5@20251101")
}

// GeminiModels lists the Gemini-family models, in registration order.
var GeminiModels = []Entry{
	{ModelID: "gemini-2.0-flash", VertexModelName: "gemini-2.0-flash"},
	{ModelID: "gemini-2.5-pro", VertexModelName: "gemini-2.5-pro"},
	{ModelID: "gemini-2.5-flash", VertexModelName: "gemini-2.5-flash"},
	{ModelID: "gemini-2.5-flash-lite", VertexModelName: "gemini-2.5-flash-lite"},
	{ModelID: "gemini-3-pro", VertexModelName: "gemini-3-pro-preview"},
	{ModelID: "gemini-3-flash", VertexModelName: "gemini-3-flash-preview"},
}

// ClaudeModels lists the Claude-family models, in registration order.
// Vertex AI addresses Claude models with the name@date convention.
var ClaudeModels = []Entry{
	{ModelID: "claude-opus-4.5", VertexModelName: "claude-opus-4-5@20251101"},
	{ModelID: "claude-sonnet-4.5", VertexModelName: "claude-sonnet-4-5@20250929"},
	{ModelID: "claude-haiku-4.5", VertexModelName: "claude-haiku-4-5@20251001"},
	{ModelID: "claude-opus-4", VertexModelName: "claude-opus-4@20250514"},
	{ModelID: "claude-sonnet-4", VertexModelName: "claude-sonnet-4@20250514"},
}
