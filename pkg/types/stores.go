package types

import "os"

// KeyStore is the host tool's local secret store, queried by name. It is
// consulted before environment variables during credential resolution so a
// user can override per-tool without touching their shell environment.
type KeyStore interface {
	// GetKey returns the stored value for name, or false if absent.
	GetKey(name string) (string, bool)
}

// Environ abstracts environment variable access so tests can substitute
// fakes without mutating real process state.
type Environ interface {
	LookupEnv(key string) (string, bool)
}

// OSEnviron reads from the real process environment.
type OSEnviron struct{}

func (OSEnviron) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// MapEnviron is an in-memory Environ for tests.
type MapEnviron map[string]string

func (m MapEnviron) LookupEnv(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}
