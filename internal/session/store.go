package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"lis_client/internal/model"
)

// Store persists a single session record as JSON at a fixed path, the
// client-side analogue of the browser's session storage slot. It holds at
// most one session at a time.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a Store backed by the given file path.
func NewStore(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("session file path is required")
	}
	return &Store{path: path}, nil
}

// Save persists the session, replacing whatever was stored before.
// Incomplete sessions are refused so a later Load can never observe a
// partial record.
func (s *Store) Save(sess model.Session) error {
	if !sess.Complete() {
		return fmt.Errorf("refusing to persist incomplete session")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("mkdir session dir: %w", err)
	}
	if err := os.WriteFile(s.path, b, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

// Load reads the persisted session. It returns (nil, nil) when no usable
// session exists: file absent, empty, undecodable, or missing any required
// field. A session is fully present or fully absent, never partial.
func (s *Store) Load() (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}
	if len(b) == 0 {
		return nil, nil
	}

	var sess model.Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return nil, nil
	}
	if !sess.Complete() {
		return nil, nil
	}
	return &sess, nil
}

// Clear removes the persisted session unconditionally. Clearing an already
// empty store is not an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
