package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"police_fines/internal/i18n"
	"police_fines/internal/preferences/repository"
	"police_fines/platform/apperr"
	"police_fines/platform/logger"
)

type brokenStore struct{ err error }

func (b brokenStore) Load(context.Context) (i18n.Language, bool, error) { return "", false, b.err }
func (b brokenStore) Save(context.Context, i18n.Language) error         { return b.err }

func TestInit(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		saved  i18n.Language
		locale string
		want   i18n.Language
	}{
		{name: "saved wins over locale", saved: i18n.English, locale: "ka_GE.UTF-8", want: i18n.English},
		{name: "georgian locale", locale: "ka_GE.UTF-8", want: i18n.Georgian},
		{name: "other locale", locale: "de_DE", want: i18n.English},
		{name: "unsupported saved value", saved: "fr", locale: "ka", want: i18n.Georgian},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := repository.NewMemory()
			if tt.saved != "" {
				require.NoError(t, store.Save(ctx, tt.saved))
			}
			svc := New(store, i18n.Georgian, logger.Nop())
			assert.Equal(t, tt.want, svc.Init(ctx, tt.locale))
			assert.Equal(t, tt.want, svc.Language())
		})
	}
}

func TestInitStoreFailureUsesFallback(t *testing.T) {
	svc := New(brokenStore{err: errors.New("disk gone")}, i18n.Georgian, logger.Nop())
	assert.Equal(t, i18n.Georgian, svc.Init(context.Background(), "en_US"))
}

func TestSetPersistsAndActivates(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemory()
	svc := New(store, i18n.Georgian, logger.Nop())

	lang, err := svc.Set(ctx, " EN ")
	require.NoError(t, err)
	assert.Equal(t, i18n.English, lang)
	assert.Equal(t, i18n.English, svc.Language())

	saved, found, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, i18n.English, saved)

	translator := i18n.NewTranslator(svc)
	assert.Equal(t, "Enter search parameters", translator.T(i18n.KeyEnterSearchParams))
}

func TestSetRejectsUnsupported(t *testing.T) {
	svc := New(repository.NewMemory(), i18n.English, logger.Nop())

	_, err := svc.Set(context.Background(), "fr")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Equal(t, i18n.English, svc.Language())
}

func TestSetKeepsLanguageWhenSaveFails(t *testing.T) {
	svc := New(brokenStore{err: errors.New("read-only")}, i18n.Georgian, logger.Nop())

	_, err := svc.Set(context.Background(), "en")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindInternal))
	assert.Equal(t, i18n.Georgian, svc.Language())
}
