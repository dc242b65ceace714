package vertex

import (
	"github.com/ASRagab/llm-gcp-vertex/pkg/catalog"
	"github.com/ASRagab/llm-gcp-vertex/pkg/types"
)

// RegisterFunc is the host tool's registration callback. It receives the
// synchronous adapter and its asynchronous counterpart for one catalog
// entry; its return value, if any, is the host's business.
type RegisterFunc func(model types.Model, asyncModel types.AsyncModel)

// RegisterModels registers every catalog entry with the host tool: the
// Gemini family first, then the Claude family, each in catalog order. The
// callback is invoked exactly once per entry with a sync/async adapter
// pair. No filtering and no error handling happen here; a failing callback
// is the host's to deal with.
func RegisterModels(register RegisterFunc, opts ...Option) {
	for _, entry := range catalog.GeminiModels {
		register(
			NewGeminiModel(entry.ModelID, entry.VertexModelName, opts...),
			NewAsyncGeminiModel(entry.ModelID, entry.VertexModelName, opts...),
		)
	}
	for _, entry := range catalog.ClaudeModels {
		register(
			NewClaudeModel(entry.ModelID, entry.VertexModelName, opts...),
			NewAsyncClaudeModel(entry.ModelID, entry.VertexModelName, opts...),
		)
	}
}
