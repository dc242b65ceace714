package vertex

import (
	"google.golang.org/genai"

	"github.com/ASRagab/llm-gcp-vertex/pkg/types"
)

// BuildConfig maps a prompt's options into the request configuration the
// genai SDK expects. It returns nil when nothing was specified, so callers
// can send no override configuration at all rather than an empty one.
//
// Only fields present on the prompt appear in the output; a present-but-zero
// value (temperature 0) survives. Pure and total: any input shape, including
// nil, yields a value without error.
func BuildConfig(prompt *types.Prompt) *genai.GenerateContentConfig {
	if prompt == nil {
		return nil
	}

	opts := prompt.Options
	if opts.IsZero() && prompt.System == "" {
		return nil
	}

	config := &genai.GenerateContentConfig{}
	if opts.Temperature != nil {
		config.Temperature = genai.Ptr(float32(*opts.Temperature))
	}
	if opts.MaxOutputTokens != nil {
		config.MaxOutputTokens = int32(*opts.MaxOutputTokens)
	}
	if opts.TopP != nil {
		config.TopP = genai.Ptr(float32(*opts.TopP))
	}
	if opts.TopK != nil {
		config.TopK = genai.Ptr(float32(*opts.TopK))
	}
	if prompt.System != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: prompt.System}},
		}
	}
	return config
}
