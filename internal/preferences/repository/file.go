package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"police_fines/internal/i18n"
)

// document is the on-disk shape of the preferences file.
type document struct {
	Language string `yaml:"language"`
}

// File stores the preference in a small YAML document. Writes go through a
// temp file and rename so a crash never leaves a torn file.
type File struct {
	path string
	mu   sync.Mutex
}

// NewFile creates a store backed by path. The file is created on first Save.
func NewFile(path string) *File {
	return &File{path: path}
}

// Load implements Store.
func (f *File) Load(context.Context) (i18n.Language, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read preferences: %w", err)
	}

	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return "", false, fmt.Errorf("decode preferences: %w", err)
	}
	if doc.Language == "" {
		return "", false, nil
	}
	return i18n.Language(doc.Language), true, nil
}

// Save implements Store.
func (f *File) Save(_ context.Context, lang i18n.Language) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	raw, err := yaml.Marshal(document{Language: string(lang)})
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create preferences dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".preferences-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp preferences: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write preferences: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close preferences: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace preferences: %w", err)
	}
	return nil
}
