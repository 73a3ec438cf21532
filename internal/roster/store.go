package roster

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Store persists the subscriber set as a JSON array of unique lowercase
// emails. The file is rewritten wholesale on every save; it carries no
// metadata so the format stays stable across runs.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

// Load returns the persisted set, or an empty set when the file does
// not exist yet.
func (s *Store) Load() ([]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading subscriber store: %w", err)
	}

	var emails []string
	if err := json.Unmarshal(data, &emails); err != nil {
		return nil, fmt.Errorf("parsing subscriber store %s: %w", s.path, err)
	}
	return emails, nil
}

func (s *Store) Save(emails []string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating store dir: %w", err)
	}
	if emails == nil {
		emails = []string{}
	}
	data, err := json.MarshalIndent(emails, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing subscriber store: %w", err)
	}
	return nil
}
