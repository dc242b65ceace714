package catalog

import "strings"

// RegionAvailability lists which Claude Vertex model identifiers are served
// in which regions. Gemini models are available in all Vertex regions and
// are not tracked here.
var RegionAvailability = map[string][]string{
	"us-east5": {
		"claude-opus-4-5@20251101",
		"claude-sonnet-4-5@20250929",
		"claude-haiku-4-5@20251001",
		"claude-opus-4@20250514",
		"claude-sonnet-4@20250514",
	},
	"us-central1": {
		"claude-opus-4-5@20251101",
		"claude-sonnet-4-5@20250929",
		"claude-haiku-4-5@20251001",
		"claude-opus-4@20250514",
		"claude-sonnet-4@20250514",
	},
	"europe-west1": {
		"claude-opus-4-5@20251101",
		"claude-sonnet-4-5@20250929",
		"claude-haiku-4-5@20251001",
		"claude-sonnet-4@20250514",
	},
	"asia-southeast1": {
		"claude-sonnet-4-5@20250929",
		"claude-haiku-4-5@20251001",
		"claude-sonnet-4@20250514",
	},
}

// DefaultModelVersion returns the Vertex AI model identifier for a model ID.
// Catalog entries are checked first; otherwise dated IDs are rewritten to
// the name@date convention (claude-opus-4-5-20251101 -> claude-opus-4-5@20251101)
// and anything else passes through unchanged.
func DefaultModelVersion(modelID string) string {
	for _, e := range ClaudeModels {
		if e.ModelID == modelID {
			return e.VertexModelName
		}
	}
	for _, e := range GeminiModels {
		if e.ModelID == modelID {
			return e.VertexModelName
		}
	}

	// Already in Vertex format
	if strings.Contains(modelID, "@") {
		return modelID
	}

	// Rewrite trailing YYYYMMDD dates to the @date form
	parts := strings.Split(modelID, "-")
	if len(parts) >= 2 {
		last := parts[len(parts)-1]
		if len(last) == 8 && isNumeric(last) {
			return strings.Join(parts[:len(parts)-1], "-") + "@" + last
		}
	}

	return modelID
}

// IsModelAvailableInRegion checks if a Vertex model identifier is served
// in a region. Unknown regions are assumed available; the request will
// fail at the endpoint if not.
func IsModelAvailableInRegion(vertexModelName, region string) bool {
	available, ok := RegionAvailability[region]
	if !ok {
		return true
	}
	for _, m := range available {
		if m == vertexModelName {
			return true
		}
	}
	return false
}

// AvailableRegions returns the regions where a Vertex model identifier is served.
func AvailableRegions(vertexModelName string) []string {
	var regions []string
	for region, models := range RegionAvailability {
		for _, m := range models {
			if m == vertexModelName {
				regions = append(regions, region)
				break
			}
		}
	}
	return regions
}

func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
