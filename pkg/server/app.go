package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"Edelweiss/internal/usecase"
	"Edelweiss/pkg/cache"
	"Edelweiss/pkg/config"
	xhttp "Edelweiss/pkg/http"
	applogger "Edelweiss/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	sessions   *usecase.Manager
	cache      cache.Service
	handler    xhttp.Handler
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	sessions *usecase.Manager,
	c cache.Service,
	handler xhttp.Handler,
) *App {
	return &App{
		cfg:      cfg,
		logger:   l,
		sessions: sessions,
		cache:    c,
		handler:  handler,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetrics(a.cfg.Metrics.Enabled, a.cfg.Metrics.Path),
		xhttp.WithLogger(a.logger),
	)

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("gateway started",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("predictor", a.cfg.Predictor.BaseURL),
		applogger.Strings("symbols", a.cfg.Dashboard.Symbols),
	)

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	// stops the idle sweeper and closes subscriber channels
	a.sessions.Close()

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn("cache close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
