// Package kvstore provides the persistent key-value store backing the
// validation cache: a single JSON file, human-readable, scoped to the
// configured data directory. All disk errors soften to in-memory-only
// behavior for the session; the store never fails a caller.
package kvstore

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
)

const storeFileName = "store.json"

// FileStore is a thread-safe JSON-file-backed key-value store.
type FileStore struct {
	mu   sync.Mutex
	path string
	data map[string]string
	// memoryOnly is set once persistence has failed; subsequent writes stay
	// in memory for the rest of the session.
	memoryOnly bool
}

// NewFileStore opens (or creates) the store under dataDir. A missing file
// starts empty; an unreadable or corrupt file also starts empty rather than
// failing startup.
func NewFileStore(dataDir string) *FileStore {
	s := &FileStore{
		path: filepath.Join(dataDir, storeFileName),
		data: make(map[string]string),
	}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Printf("[KVSTORE] cannot create data dir %s, running memory-only: %v", dataDir, err)
		s.memoryOnly = true
		return s
	}

	b, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[KVSTORE] cannot read %s, starting empty: %v", s.path, err)
		}
		return s
	}
	if err := json.Unmarshal(b, &s.data); err != nil {
		log.Printf("[KVSTORE] corrupt store file %s, starting empty: %v", s.path, err)
		s.data = make(map[string]string)
	}
	return s
}

// Get retrieves a value by key.
func (s *FileStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.data[key]
	return v, ok
}

// Set stores a value, overwriting any prior one, and persists best-effort.
func (s *FileStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value
	s.persistLocked()
}

// Remove deletes a key and persists best-effort.
func (s *FileStore) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	s.persistLocked()
}

// Len returns the number of stored keys (for debugging/monitoring).
func (s *FileStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// persistLocked writes the store file. Caller holds the mutex. A write
// failure flips the store to memory-only for the session.
func (s *FileStore) persistLocked() {
	if s.memoryOnly {
		return
	}
	b, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		log.Printf("[KVSTORE] marshal failed, running memory-only: %v", err)
		s.memoryOnly = true
		return
	}
	if err := os.WriteFile(s.path, b, 0o644); err != nil {
		log.Printf("[KVSTORE] write to %s failed, running memory-only: %v", s.path, err)
		s.memoryOnly = true
	}
}
