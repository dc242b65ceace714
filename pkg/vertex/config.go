// Package vertex implements the Vertex AI model adapters registered with the
// llm tool: request-config construction, the Gemini family served through the
// google.golang.org/genai SDK, and the Claude family served through the
// Vertex AI raw-predict endpoint.
package vertex

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ASRagab/llm-gcp-vertex/pkg/catalog"
)

// AuthType represents the type of GCP authentication used for the
// raw-predict endpoint. The genai SDK handles its own credentials.
type AuthType string

const (
	// AuthTypeApplicationDefault uses Application Default Credentials (ADC)
	AuthTypeApplicationDefault AuthType = "adc"
	// AuthTypeBearerToken uses a static bearer token
	AuthTypeBearerToken AuthType = "bearer_token"
	// AuthTypeServiceAccount uses a service account JSON key
	AuthTypeServiceAccount AuthType = "service_account"
)

// Config holds optional plugin configuration. The zero value (via
// DefaultConfig) works for anyone with ADC set up; a yaml file can
// override auth, endpoint, and model versions.
type Config struct {
	// AuthType selects the authentication method for raw-predict calls
	AuthType AuthType `yaml:"auth_type,omitempty"`

	// BearerToken is used when AuthType is bearer_token
	BearerToken string `yaml:"bearer_token,omitempty"`

	// ServiceAccountFile is the path to a service account JSON key file
	ServiceAccountFile string `yaml:"service_account_file,omitempty"`

	// ServiceAccountJSON is the raw JSON content of a service account key
	ServiceAccountJSON string `yaml:"service_account_json,omitempty"`

	// ModelVersionMap overrides the Vertex model identifier per public ID.
	// Example: {"claude-opus-4.5": "claude-opus-4-5@20251101"}
	ModelVersionMap map[string]string `yaml:"model_version_map,omitempty"`

	// Endpoint overrides the regional endpoint. If unset, the endpoint is
	// https://{location}-aiplatform.googleapis.com
	Endpoint string `yaml:"endpoint,omitempty"`

	// Timeout bounds a single raw-predict request
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// DefaultConfig returns a Config using Application Default Credentials.
func DefaultConfig() *Config {
	return &Config{
		AuthType: AuthTypeApplicationDefault,
		Timeout:  120 * time.Second,
	}
}

// LoadConfig reads a Config from a yaml file, filling unset fields with
// defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if config.AuthType == "" {
		config.AuthType = AuthTypeApplicationDefault
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the auth configuration is usable.
func (c *Config) Validate() error {
	switch c.AuthType {
	case AuthTypeBearerToken:
		if c.BearerToken == "" {
			return fmt.Errorf("bearer_token is required when auth_type is bearer_token")
		}
	case AuthTypeServiceAccount:
		if c.ServiceAccountFile == "" && c.ServiceAccountJSON == "" {
			return fmt.Errorf("either service_account_file or service_account_json is required when auth_type is service_account")
		}
		if c.ServiceAccountJSON != "" {
			var test map[string]interface{}
			if err := json.Unmarshal([]byte(c.ServiceAccountJSON), &test); err != nil {
				return fmt.Errorf("service_account_json is not valid JSON: %w", err)
			}
		}
	case AuthTypeApplicationDefault, "":
		// ADC needs nothing here; credentials are discovered at call time
	default:
		return fmt.Errorf("invalid auth_type: %s (must be one of: adc, bearer_token, service_account)", c.AuthType)
	}
	return nil
}

// EndpointFor returns the Vertex AI endpoint URL for a location.
func (c *Config) EndpointFor(location string) string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	return fmt.Sprintf("https://%s-aiplatform.googleapis.com", location)
}

// ModelVersion returns the Vertex model identifier for a public model ID,
// honoring config overrides before the catalog's default mapping.
func (c *Config) ModelVersion(modelID string) string {
	if c.ModelVersionMap != nil {
		if version, ok := c.ModelVersionMap[modelID]; ok {
			return version
		}
	}
	return catalog.DefaultModelVersion(modelID)
}
