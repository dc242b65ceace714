// Package credentials resolves the Google Cloud project and location used to
// address the Vertex AI endpoint. Resolution follows a fixed precedence
// chain: host key store, then environment variable, then legacy environment
// variable, then (for location only) a default region.
package credentials

import (
	"github.com/ASRagab/llm-gcp-vertex/pkg/keystore"
	"github.com/ASRagab/llm-gcp-vertex/pkg/types"
)

const (
	// Key-store entry names, highest priority in each chain.
	KeyProject  = "vertex-project"
	KeyLocation = "vertex-location"

	// Plugin-specific environment variables.
	EnvProject  = "LLM_VERTEX_CLOUD_PROJECT"
	EnvLocation = "LLM_VERTEX_CLOUD_LOCATION"

	// Legacy variables honored for compatibility with gcloud tooling.
	EnvProjectLegacy  = "GOOGLE_CLOUD_PROJECT"
	EnvLocationLegacy = "GOOGLE_CLOUD_LOCATION"

	// DefaultLocation is used when no location is configured anywhere.
	DefaultLocation = "us-central1"
)

// Resolver resolves project and location against an injectable key store
// and environment. Both lookups are side-effect free and uncached: every
// call re-reads the underlying sources, so changes between calls are
// observed.
type Resolver struct {
	Keys types.KeyStore
	Env  types.Environ
}

// NewResolver returns a resolver backed by the host tool's file key store
// and the real process environment.
func NewResolver() *Resolver {
	return &Resolver{
		Keys: keystore.NewFileKeyStore(),
		Env:  types.OSEnviron{},
	}
}

// ResolveProject returns the effective Google Cloud project ID.
//
// Precedence: key store "vertex-project", then LLM_VERTEX_CLOUD_PROJECT,
// then GOOGLE_CLOUD_PROJECT. Empty values are treated as absent. With no
// source present it returns a *types.ConfigurationError; there is no
// usable default for a project ID.
func (r *Resolver) ResolveProject() (string, error) {
	if v, ok := r.fromKeys(KeyProject); ok {
		return v, nil
	}
	if v, ok := r.fromEnv(EnvProject); ok {
		return v, nil
	}
	if v, ok := r.fromEnv(EnvProjectLegacy); ok {
		return v, nil
	}
	return "", &types.ConfigurationError{
		Key: "project",
		Message: "Google Cloud project ID required: run `llm keys set vertex-project` " +
			"or set LLM_VERTEX_CLOUD_PROJECT (or GOOGLE_CLOUD_PROJECT)",
	}
}

// ResolveLocation returns the effective Google Cloud location.
//
// Precedence: key store "vertex-location", then LLM_VERTEX_CLOUD_LOCATION,
// then GOOGLE_CLOUD_LOCATION, then "us-central1". Never fails.
func (r *Resolver) ResolveLocation() string {
	if v, ok := r.fromKeys(KeyLocation); ok {
		return v
	}
	if v, ok := r.fromEnv(EnvLocation); ok {
		return v
	}
	if v, ok := r.fromEnv(EnvLocationLegacy); ok {
		return v
	}
	return DefaultLocation
}

func (r *Resolver) fromKeys(name string) (string, bool) {
	if r.Keys == nil {
		return "", false
	}
	v, ok := r.Keys.GetKey(name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (r *Resolver) fromEnv(key string) (string, bool) {
	env := r.Env
	if env == nil {
		env = types.OSEnviron{}
	}
	v, ok := env.LookupEnv(key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
