package roster

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Store persists the registry as one JSON file. It assumes single-process
// ownership: no locking against other writers of the same path.
type Store struct {
	path string
}

// NewStore creates a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the registry from disk. A missing file yields an empty registry;
// unreadable or malformed content is an error the caller must treat as fatal
// at startup.
func (s *Store) Load() (Registry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Registry{}, nil
		}
		return nil, fmt.Errorf("read roster file: %w", err)
	}
	var reg Registry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("decode roster file %s: %w", s.path, err)
	}
	if reg == nil {
		reg = Registry{}
	}
	return reg, nil
}

// Save overwrites the on-disk registry in full. The write goes through a
// sibling temp file and a rename so a crash mid-write never leaves a
// truncated roster behind.
func (s *Store) Save(reg Registry) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create roster dir: %w", err)
	}
	data, err := json.Marshal(reg)
	if err != nil {
		return fmt.Errorf("encode roster: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write roster file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace roster file: %w", err)
	}
	return nil
}
