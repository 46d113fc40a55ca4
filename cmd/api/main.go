package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"police_fines/internal/fines"
	apphttp "police_fines/internal/http"
	"police_fines/internal/http/router"
	"police_fines/internal/i18n"
	"police_fines/internal/preferences"
	"police_fines/platform/config"
	"police_fines/platform/logger"
	"police_fines/platform/metrics"
	"police_fines/platform/validator"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.GetHTTPAddr())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	preferencesModule, err := preferences.NewModule(ctx, cfg, val, log)
	if err != nil {
		log.Error("failed to initialize preferences module", "error", err)
		panic("failed to initialize preferences module: " + err.Error())
	}
	defer func() { _ = preferencesModule.Close() }()

	// Every user-facing message follows the active language preference
	translator := i18n.NewTranslator(preferencesModule.Service())

	finesModule, err := fines.NewModule(ctx, cfg, translator, val, m, log)
	if err != nil {
		log.Error("failed to initialize fines module", "error", err)
		panic("failed to initialize fines module: " + err.Error())
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:  cfg,
		Logger:  log,
		Health:  preferencesModule,
		Metrics: m.Handler(),
		Modules: []apphttp.Module{
			finesModule,
			preferencesModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return finesModule.Registry().Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		// Searches still running past the drain deadline are abandoned here
		finesModule.Registry().Close()
		return err
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		panic("server error: " + err.Error())
	}
	log.Info("server stopped")
}
