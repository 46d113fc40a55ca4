// Package service holds the active UI language and keeps it persisted.
package service

import (
	"context"
	"sync"

	"police_fines/internal/i18n"
	"police_fines/internal/preferences/repository"
	"police_fines/platform/apperr"
	"police_fines/platform/logger"
)

// Service tracks the active language. It implements i18n.LanguageSource.
type Service struct {
	store    repository.Store
	fallback i18n.Language
	log      *logger.Logger

	mu      sync.RWMutex
	current i18n.Language
}

// New creates a Service starting at fallback until Init runs.
func New(store repository.Store, fallback i18n.Language, log *logger.Logger) *Service {
	return &Service{store: store, fallback: fallback, current: fallback, log: log}
}

// Init selects the startup language: a saved supported value wins, then the
// device locale. Store failures fall back to the configured default and are
// not fatal.
func (s *Service) Init(ctx context.Context, deviceLocale string) i18n.Language {
	lang := s.resolve(ctx, deviceLocale)

	s.mu.Lock()
	s.current = lang
	s.mu.Unlock()

	s.log.Info("language initialized", "language", string(lang))
	return lang
}

func (s *Service) resolve(ctx context.Context, deviceLocale string) i18n.Language {
	saved, found, err := s.store.Load(ctx)
	if err != nil {
		s.log.Error("failed to load language preference", "error", err)
		return s.fallback
	}
	if found {
		if lang, ok := i18n.Parse(string(saved)); ok {
			return lang
		}
		s.log.Warn("ignoring unsupported saved language", "language", string(saved))
	}
	return i18n.MatchLocale(deviceLocale)
}

// Language returns the active language.
func (s *Service) Language() i18n.Language {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Set persists code and makes it active. The active language is unchanged
// when persisting fails.
func (s *Service) Set(ctx context.Context, code string) (i18n.Language, error) {
	lang, ok := i18n.Parse(code)
	if !ok {
		return "", apperr.Validation(i18n.Translate(s.Language(), i18n.KeyLanguageUnsupported)).
			WithDetails(map[string]string{"language": code})
	}

	if err := s.store.Save(ctx, lang); err != nil {
		s.log.Error("failed to save language preference", "error", err, "language", string(lang))
		return "", apperr.Wrap(apperr.KindInternal, "failed to save language preference", err)
	}

	s.mu.Lock()
	s.current = lang
	s.mu.Unlock()

	s.log.Info("language changed", "language", string(lang))
	return lang, nil
}
