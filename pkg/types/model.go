package types

import "context"

// StreamChunk is one piece of a streaming response. Usage is nil on
// intermediate chunks and set on the final chunk, where Done is true.
type StreamChunk struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Content string `json:"content"`
	Done    bool   `json:"done"`
	Usage   *Usage `json:"usage,omitempty"`
}

// ResponseStream is a pull-based stream of response chunks.
//
// Next returns io.EOF after the final chunk has been delivered. Close
// releases the underlying connection and is safe to call more than once.
type ResponseStream interface {
	Next() (StreamChunk, error)
	Close() error
}

// Model is the host tool's synchronous model interface. An adapter binds one
// catalog entry (public model id plus Vertex model name) to this interface.
type Model interface {
	// ModelID returns the public-facing model identifier.
	ModelID() string

	// VertexModelName returns the provider-facing model identifier.
	VertexModelName() string

	// CanStream reports whether the model supports streaming responses.
	CanStream() bool

	// Prompt executes a prompt and returns the complete response.
	Prompt(ctx context.Context, prompt *Prompt) (*Response, error)

	// PromptStream executes a prompt and streams the response.
	PromptStream(ctx context.Context, prompt *Prompt) (ResponseStream, error)
}

// AsyncModel is the asynchronous counterpart of Model. PromptAsync delivers
// chunks and at most one error over channels; both channels are closed when
// delivery finishes or the context is cancelled.
type AsyncModel interface {
	ModelID() string
	VertexModelName() string
	CanStream() bool

	PromptAsync(ctx context.Context, prompt *Prompt) (<-chan StreamChunk, <-chan error)
}
