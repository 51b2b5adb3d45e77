package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultSettingsFile is the settings filename used when no explicit path
// is configured, resolved relative to the working directory.
const DefaultSettingsFile = "tilemaster_settings.json"

// Store persists CompositionSettings as a JSON document at a fixed path.
// Unknown fields in the document are ignored for forward compatibility.
type Store struct {
	Path string
}

// NewStore returns a Store for path, falling back to DefaultSettingsFile
// when path is empty.
func NewStore(path string) *Store {
	if path == "" {
		path = DefaultSettingsFile
	}
	return &Store{Path: path}
}

// Load reads the settings document. A missing file returns (nil, nil) so
// callers can distinguish "no prior settings" from a corrupt document.
// Malformed JSON or a document that fails validation returns an error
// wrapping ErrSettingsCorrupt.
func (st *Store) Load() (*CompositionSettings, error) {
	data, err := os.ReadFile(st.Path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings %q: %w", st.Path, err)
	}

	var s CompositionSettings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSettingsCorrupt, st.Path, err)
	}

	s.ApplyDefaults()
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSettingsCorrupt, st.Path, err)
	}
	return &s, nil
}

// Save validates and writes the settings document, creating parent
// directories as needed. The write goes through a temporary file in the
// same directory and a rename, so a crash never leaves a truncated
// document behind.
func (st *Store) Save(s *CompositionSettings) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("refusing to save invalid settings: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(st.Path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create settings directory: %w", err)
		}
	}

	tmp := st.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	if err := os.Rename(tmp, st.Path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
