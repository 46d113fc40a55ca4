// Package repository persists the user's language preference.
package repository

import (
	"context"
	"sync"

	"police_fines/internal/i18n"
)

// Store loads and saves the language preference. Load reports found=false
// when nothing has been saved yet.
type Store interface {
	Load(ctx context.Context) (lang i18n.Language, found bool, err error)
	Save(ctx context.Context, lang i18n.Language) error
}

// Memory is a process-local Store.
type Memory struct {
	mu    sync.RWMutex
	lang  i18n.Language
	found bool
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// Load implements Store.
func (m *Memory) Load(context.Context) (i18n.Language, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lang, m.found, nil
}

// Save implements Store.
func (m *Memory) Save(_ context.Context, lang i18n.Language) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lang = lang
	m.found = true
	return nil
}
