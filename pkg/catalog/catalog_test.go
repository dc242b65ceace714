package catalog

import (
	"strings"
	"testing"
)

func TestGeminiModelsDefined(t *testing.T) {
	if len(GeminiModels) == 0 {
		t.Fatal("expected Gemini models to be defined")
	}

	ids := make(map[string]bool)
	for _, e := range GeminiModels {
		ids[e.ModelID] = true
	}
	for _, want := range []string{"gemini-2.0-flash", "gemini-3-pro", "gemini-3-flash"} {
		if !ids[want] {
			t.Errorf("expected Gemini catalog to contain %s", want)
		}
	}
}

func TestClaudeModelsDefined(t *testing.T) {
	if len(ClaudeModels) == 0 {
		t.Fatal("expected Claude models to be defined")
	}

	ids := make(map[string]bool)
	for _, e := range ClaudeModels {
		ids[e.ModelID] = true
	}
	for _, want := range []string{
		"claude-opus-4.5", "claude-sonnet-4.5", "claude-haiku-4.5",
		"claude-sonnet-4", "claude-opus-4",
	} {
		if !ids[want] {
			t.Errorf("expected Claude catalog to contain %s", want)
		}
	}
}

func TestModelIDFormat(t *testing.T) {
	for _, e := range GeminiModels {
		if !strings.HasPrefix(e.ModelID, "gemini-") {
			t.Errorf("%s should start with gemini-", e.ModelID)
		}
	}
	for _, e := range ClaudeModels {
		if !strings.HasPrefix(e.ModelID, "claude-") {
			t.Errorf("%s should start with claude-", e.ModelID)
		}
	}
}

func TestModelIDsUnique(t *testing.T) {
	for _, family := range [][]Entry{GeminiModels, ClaudeModels} {
		seen := make(map[string]bool)
		for _, e := range family {
			if seen[e.ModelID] {
				t.Errorf("duplicate model ID %s", e.ModelID)
			}
			seen[e.ModelID] = true
		}
	}
}

func TestDefaultModelVersion(t *testing.T) {
	tests := []struct {
		name    string
		modelID string
		want    string
	}{
		{
			name:    "catalog entry",
			modelID: "claude-opus-4.5",
			want:    "claude-opus-4-5@20251101",
		},
		{
			name:    "gemini catalog entry",
			modelID: "gemini-3-pro",
			want:    "gemini-3-pro-preview",
		},
		{
			name:    "dated ID rewritten to @ form",
			modelID: "claude-opus-4-5-20251101",
			want:    "claude-opus-4-5@20251101",
		},
		{
			name:    "already in vertex format",
			modelID: "claude-sonnet-4-5@20250929",
			want:    "claude-sonnet-4-5@20250929",
		},
		{
			name:    "unknown undated ID passes through",
			modelID: "claude-next",
			want:    "claude-next",
		},
		{
			name:    "non-date suffix untouched",
			modelID: "gemini-2.5-flash-lite",
			want:    "gemini-2.5-flash-lite",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultModelVersion(tt.modelID); got != tt.want {
				t.Errorf("DefaultModelVersion(%s) = %s, want %s", tt.modelID, got, tt.want)
			}
		})
	}
}

func TestIsModelAvailableInRegion(t *testing.T) {
	if !IsModelAvailableInRegion("claude-opus-4-5@20251101", "us-east5") {
		t.Error("expected claude-opus-4-5 in us-east5")
	}
	if IsModelAvailableInRegion("claude-opus-4-5@20251101", "asia-southeast1") {
		t.Error("did not expect claude-opus-4-5 in asia-southeast1")
	}
	// Unknown regions are assumed available
	if !IsModelAvailableInRegion("claude-opus-4-5@20251101", "mars-north1") {
		t.Error("unknown region should be assumed available")
	}
}

func TestAvailableRegions(t *testing.T) {
	regions := AvailableRegions("claude-opus-4@20250514")
	if len(regions) == 0 {
		t.Fatal("expected at least one region")
	}
	for _, r := range regions {
		found := false
		for _, m := range RegionAvailability[r] {
			if m == "claude-opus-4@20250514" {
				found = true
			}
		}
		if !found {
			t.Errorf("region %s reported but model not in its table", r)
		}
	}
}
