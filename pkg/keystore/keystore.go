// Package keystore reads the host llm tool's local key store. The store is a
// plain JSON file (keys.json) owned and written by the host tool; this
// package only ever reads it.
package keystore

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const (
	keysFileName = "keys.json"

	// EnvUserPath overrides the host tool's data directory.
	EnvUserPath = "LLM_USER_PATH"
)

// FileKeyStore reads keys from the host tool's keys.json. The file is
// re-read on every lookup so changes made by the host tool (llm keys set)
// are visible immediately without restarting.
type FileKeyStore struct {
	dir string
}

// NewFileKeyStore returns a key store rooted at the host tool's data
// directory: LLM_USER_PATH if set, otherwise ~/.config/io.datasette.llm.
func NewFileKeyStore() *FileKeyStore {
	if dir, ok := os.LookupEnv(EnvUserPath); ok && dir != "" {
		return &FileKeyStore{dir: dir}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		// No home directory; lookups will simply miss.
		return &FileKeyStore{}
	}
	return &FileKeyStore{dir: filepath.Join(home, ".config", "io.datasette.llm")}
}

// NewFileKeyStoreAt returns a key store rooted at an explicit directory.
func NewFileKeyStoreAt(dir string) *FileKeyStore {
	return &FileKeyStore{dir: dir}
}

// GetKey returns the stored value for name. A missing file, unreadable
// file, malformed JSON, or absent/empty entry all report false; the store
// never fails credential resolution on its own.
func (s *FileKeyStore) GetKey(name string) (string, bool) {
	if s.dir == "" {
		return "", false
	}

	data, err := os.ReadFile(filepath.Join(s.dir, keysFileName))
	if err != nil {
		return "", false
	}

	var keys map[string]string
	if err := json.Unmarshal(data, &keys); err != nil {
		return "", false
	}

	value, ok := keys[name]
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// MemoryKeyStore is an in-memory key store for tests.
type MemoryKeyStore map[string]string

// GetKey returns the stored value for name, treating empty values as absent.
func (m MemoryKeyStore) GetKey(name string) (string, bool) {
	value, ok := m[name]
	if !ok || value == "" {
		return "", false
	}
	return value, true
}
