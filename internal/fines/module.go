// Package fines provides the traffic-fine search bounded context module.
package fines

import (
	"context"
	"errors"
	"time"

	"police_fines/internal/fines/client"
	"police_fines/internal/fines/dispatch"
	"police_fines/internal/fines/handler"
	"police_fines/internal/fines/session"
	apphttp "police_fines/internal/http"
	"police_fines/internal/i18n"
	"police_fines/platform/config"
	"police_fines/platform/httpkit"
	"police_fines/platform/logger"
	"police_fines/platform/metrics"
	"police_fines/platform/validator"
)

// sessionTokenTTL bounds a token's lifetime. Idle sessions are evicted
// earlier by the registry.
const sessionTokenTTL = 24 * time.Hour

// Config combines the config interfaces the fines module reads.
type Config interface {
	config.FinesAPIConfig
	config.SearchConfig
	config.SessionConfig
}

// Module is the fines bounded context module implementing http.Module.
type Module struct {
	handler  *handler.Handler
	registry *session.Registry
	client   *client.Client
	tokens   *httpkit.SessionTokens
}

// NewModule wires client, dispatcher, session registry and handler.
// When probing is enabled the first reachable base URL is selected before
// any session exists.
func NewModule(ctx context.Context, cfg Config, translator *i18n.Translator, val *validator.Validator, m *metrics.Metrics, log *logger.Logger) (*Module, error) {
	candidates := cfg.GetFinesAPIBaseURLs()
	if len(candidates) == 0 {
		return nil, errors.New("fines: no API base URL configured")
	}
	baseURL := candidates[0]
	if cfg.GetFinesAPIProbe() {
		baseURL = client.SelectBaseURL(ctx, candidates, cfg.GetFinesAPITimeout(), log)
	}

	apiClient := client.New(client.Options{
		BaseURL:   baseURL,
		Timeout:   cfg.GetFinesAPITimeout(),
		Attempts:  cfg.GetFinesAPIRetryAttempts(),
		BaseDelay: cfg.GetFinesAPIRetryBaseDelay(),
	}, log).WithRecorder(m)

	dispatcher := dispatch.New(apiClient, translator, log).WithRecorder(m)

	opts := session.Options{
		BannerTTL:  cfg.GetSearchBannerTTL(),
		MaxRetries: cfg.GetSearchMaxUserRetries(),
	}
	factory := func(sessionLog *logger.Logger) *session.Orchestrator {
		return session.NewOrchestrator(dispatcher, translator, sessionLog, opts).WithRetryRecorder(m)
	}
	registry := session.NewRegistry(factory, cfg.GetSessionIdleTTL(), log).WithGauge(m)

	if err := handler.RegisterValidations(val); err != nil {
		return nil, err
	}

	tokens := httpkit.NewSessionTokens(cfg.GetSessionTokenSecret(), sessionTokenTTL)
	log.Info("fines module initialized", "base_url", baseURL, "attempts", cfg.GetFinesAPIRetryAttempts())

	return &Module{
		handler:  handler.New(registry, tokens, translator, val, log),
		registry: registry,
		client:   apiClient,
		tokens:   tokens,
	}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "fines"
}

// Registry returns the session registry. Its Run loop is owned by the composition root.
func (m *Module) Registry() *session.Registry {
	return m.registry
}

// BaseURL returns the fines API base URL in use.
func (m *Module) BaseURL() string {
	return m.client.BaseURL()
}

// RegisterRoutes mounts fines routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/sessions", m.handler.CreateSession)
	ctx.V1.POST("/validate", m.handler.Validate)

	s := ctx.V1.Group("/session", httpkit.SessionRequired(m.tokens))
	s.GET("", m.handler.GetSession)
	s.DELETE("", m.handler.EndSession)
	s.PATCH("/form", m.handler.UpdateForm)
	s.DELETE("/form", m.handler.ResetForm)
	s.POST("/search", m.handler.Search)
	s.POST("/retry", m.handler.Retry)
	s.POST("/clear", m.handler.Clear)
	s.DELETE("/error", m.handler.DismissError)
}
