package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/tidwall/jsonc"
)

// FileStore reads the route table from a JSON file. Comments and trailing
// commas are tolerated so the file can be annotated by hand.
//
// The file is re-read on every lookup, so edits take effect without a
// restart. Writes rewrite the file as plain JSON (comments are not
// preserved).
type FileStore struct {
	path string
	mu   sync.Mutex // serializes writers; readers go straight to disk
}

// NewFileStore builds a FileStore over the given path. The file does not
// have to exist yet; lookups against a missing file report unknown model.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) load() (map[string]string, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read routes file: %w", err)
	}
	table := map[string]string{}
	if err := json.Unmarshal(jsonc.ToJSON(b), &table); err != nil {
		return nil, fmt.Errorf("parse routes file %s: %w", s.path, err)
	}
	return table, nil
}

func (s *FileStore) save(table map[string]string) error {
	b, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, append(b, '\n'), 0o644)
}

func (s *FileStore) Lookup(ctx context.Context, model string) (string, error) {
	table, err := s.load()
	if err != nil {
		return "", err
	}
	u, ok := table[model]
	if !ok {
		return "", ErrUnknownModel(model)
	}
	return u, nil
}

func (s *FileStore) Set(ctx context.Context, model, baseURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	table, err := s.load()
	if err != nil {
		return err
	}
	table[model] = baseURL
	return s.save(table)
}

func (s *FileStore) Delete(ctx context.Context, model string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	table, err := s.load()
	if err != nil {
		return err
	}
	delete(table, model)
	return s.save(table)
}

func (s *FileStore) List(ctx context.Context) (map[string]string, error) {
	return s.load()
}
