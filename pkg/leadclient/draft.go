package leadclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DraftStore persists unfinished form state between sessions.
type DraftStore interface {
	Save(state FormState) error
	Load() (FormState, error)
	Clear() error
}

// FileDraftStore keeps the draft as a JSON file on disk.
type FileDraftStore struct {
	path string
}

// NewFileDraftStore creates a draft store at the given path.
func NewFileDraftStore(path string) *FileDraftStore {
	return &FileDraftStore{path: path}
}

func (s *FileDraftStore) Save(state FormState) error {
	// Hidden field stays out of persisted state.
	state.Website = ""

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("draft: encode: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("draft: mkdir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("draft: write: %w", err)
	}
	return nil
}

func (s *FileDraftStore) Load() (FormState, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return FormState{}, nil
	}
	if err != nil {
		return FormState{}, fmt.Errorf("draft: read: %w", err)
	}

	var state FormState
	if err := json.Unmarshal(data, &state); err != nil {
		// Corrupt draft is not worth failing over; start fresh.
		return FormState{}, nil
	}
	state.Website = ""
	return state, nil
}

func (s *FileDraftStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("draft: clear: %w", err)
	}
	return nil
}
