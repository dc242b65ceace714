package vertex

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"

	"github.com/ASRagab/llm-gcp-vertex/pkg/types"
)

// claudeStream decodes the SSE event stream emitted by streamRawPredict
// into the host tool's pull-based stream interface.
//
// Relevant Anthropic event types:
//   - message_start: carries the message ID and input token usage
//   - content_block_delta: carries a text delta
//   - message_delta: carries output token usage
//   - message_stop: end of message
type claudeStream struct {
	model  string
	body   io.ReadCloser
	reader *bufio.Reader

	id     string
	usage  types.Usage
	done   bool
	closed bool
}

func newClaudeStream(model string, body io.ReadCloser) *claudeStream {
	return &claudeStream{
		model:  model,
		body:   body,
		reader: bufio.NewReader(body),
	}
}

type claudeEvent struct {
	Type    string `json:"type"`
	Message struct {
		ID    string      `json:"id"`
		Usage claudeUsage `json:"usage"`
	} `json:"message"`
	Delta struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"delta"`
	Usage claudeUsage `json:"usage"`
}

// Next returns the next text delta, or the terminal usage-bearing chunk
// once the message stops, then io.EOF.
func (s *claudeStream) Next() (types.StreamChunk, error) {
	if s.done || s.closed {
		return types.StreamChunk{}, io.EOF
	}

	for {
		event, err := s.nextEvent()
		if err == io.EOF {
			// Stream ended without message_stop; still surface what we have
			s.done = true
			usage := s.usage
			return types.StreamChunk{ID: s.id, Model: s.model, Done: true, Usage: &usage}, nil
		}
		if err != nil {
			s.done = true
			return types.StreamChunk{}, err
		}

		switch event.Type {
		case "message_start":
			s.id = event.Message.ID
			s.usage.PromptTokens = event.Message.Usage.InputTokens

		case "content_block_delta":
			if event.Delta.Type == "text_delta" && event.Delta.Text != "" {
				return types.StreamChunk{ID: s.id, Model: s.model, Content: event.Delta.Text}, nil
			}

		case "message_delta":
			s.usage.CompletionTokens = event.Usage.OutputTokens

		case "message_stop":
			s.done = true
			s.usage.TotalTokens = s.usage.PromptTokens + s.usage.CompletionTokens
			usage := s.usage
			return types.StreamChunk{ID: s.id, Model: s.model, Done: true, Usage: &usage}, nil
		}
	}
}

// nextEvent reads SSE lines until a complete data payload is decoded.
// Comment lines and non-data fields are skipped; multi-line data is
// concatenated per the SSE spec.
func (s *claudeStream) nextEvent() (*claudeEvent, error) {
	var dataLines []string

	for {
		line, err := s.reader.ReadString('\n')
		if err == io.EOF {
			if line == "" && len(dataLines) == 0 {
				return nil, io.EOF
			}
		} else if err != nil {
			return nil, err
		}

		line = strings.TrimRight(line, "\r\n")

		// Empty line dispatches the buffered event
		if line == "" {
			if len(dataLines) == 0 {
				if err == io.EOF {
					return nil, io.EOF
				}
				continue
			}
			var event claudeEvent
			if jsonErr := json.Unmarshal([]byte(strings.Join(dataLines, "\n")), &event); jsonErr != nil {
				// Skip malformed payloads rather than killing the stream
				dataLines = dataLines[:0]
				if err == io.EOF {
					return nil, io.EOF
				}
				continue
			}
			return &event, nil
		}

		if strings.HasPrefix(line, ":") {
			continue
		}
		if value, ok := strings.CutPrefix(line, "data:"); ok {
			dataLines = append(dataLines, strings.TrimPrefix(value, " "))
		}

		if err == io.EOF {
			if len(dataLines) > 0 {
				var event claudeEvent
				if json.Unmarshal([]byte(strings.Join(dataLines, "\n")), &event) == nil {
					return &event, nil
				}
			}
			return nil, io.EOF
		}
	}
}

// Close releases the underlying connection. Safe to call more than once.
func (s *claudeStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.body.Close()
}
