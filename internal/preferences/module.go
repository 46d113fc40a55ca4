// Package preferences provides the language preference bounded context module.
package preferences

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	apphttp "police_fines/internal/http"
	"police_fines/internal/i18n"
	"police_fines/internal/preferences/handler"
	"police_fines/internal/preferences/repository"
	"police_fines/internal/preferences/service"
	"police_fines/platform/config"
	"police_fines/platform/logger"
	"police_fines/platform/validator"
)

// Module is the preferences bounded context module implementing http.Module.
type Module struct {
	handler     *handler.Handler
	service     *service.Service
	redisClient *redis.Client
}

// NewModule selects the configured store and initializes the active language.
func NewModule(ctx context.Context, cfg config.PreferencesConfig, val *validator.Validator, log *logger.Logger) (*Module, error) {
	fallback, ok := i18n.Parse(cfg.GetDefaultLanguage())
	if !ok {
		fallback = i18n.Fallback
	}

	m := &Module{}
	var store repository.Store
	switch cfg.GetPreferencesStore() {
	case config.PreferencesStoreRedis:
		client, err := repository.NewRedisClient(ctx, cfg.GetRedisURL())
		if err != nil {
			return nil, fmt.Errorf("preferences: %w", err)
		}
		m.redisClient = client
		store = repository.NewRedis(client)
	case config.PreferencesStoreMemory:
		store = repository.NewMemory()
	default:
		store = repository.NewFile(cfg.GetPreferencesFile())
	}

	m.service = service.New(store, fallback, log)
	m.service.Init(ctx, cfg.GetDeviceLocale())
	m.handler = handler.New(m.service, val)
	return m, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "preferences"
}

// Service returns the language service. It is the translator's language source.
func (m *Module) Service() *service.Service {
	return m.service
}

// Ping checks the backing store when it is remote.
func (m *Module) Ping(ctx context.Context) error {
	if m.redisClient == nil {
		return nil
	}
	return m.redisClient.Ping(ctx).Err()
}

// Close releases the redis connection, if any.
func (m *Module) Close() error {
	if m.redisClient == nil {
		return nil
	}
	return m.redisClient.Close()
}

// RegisterRoutes mounts preferences routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/preferences/language", m.handler.GetLanguage)
	ctx.V1.PUT("/preferences/language", m.handler.SetLanguage)
}
