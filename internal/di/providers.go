package di

import (
	"fmt"

	"Edelweiss/internal/domain/models"
	drepo "Edelweiss/internal/domain/repository"
	dservice "Edelweiss/internal/domain/service"
	"Edelweiss/internal/handler/api"
	internalrepo "Edelweiss/internal/repository"
	"Edelweiss/internal/service/auth"
	"Edelweiss/internal/service/predictor"
	"Edelweiss/internal/usecase"
	"Edelweiss/pkg/cache"
	"Edelweiss/pkg/config"
	xhttp "Edelweiss/pkg/http"
	applogger "Edelweiss/pkg/logger"
	"Edelweiss/pkg/metrics"
	"Edelweiss/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates the Prometheus metrics recorder.
func ProvideMetrics() drepo.Metrics {
	return metrics.New()
}

// ProvideCache creates the session snapshot cache backend.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if cfg.Session.Backend == "redis" {
		c, err := cache.NewRedisCache(
			cache.WithRedisHost(cfg.Session.Redis.Host),
			cache.WithRedisPort(cfg.Session.Redis.Port),
			cache.WithRedisPassword(cfg.Session.Redis.Password),
			cache.WithRedisDB(cfg.Session.Redis.DB),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return c, nil
	}
	return cache.NewMemoryCache(), nil
}

// ProvideSessionStore creates the selection snapshot store.
func ProvideSessionStore(c cache.Service, cfg *config.Config) drepo.SessionStore {
	return internalrepo.NewSessionCache(c, cfg.Dashboard.SessionTTL)
}

// ProvideForecaster creates the prediction service client.
func ProvideForecaster(cfg *config.Config, l *applogger.Logger) dservice.Forecaster {
	return predictor.New(cfg.Predictor.BaseURL, cfg.Predictor.Timeout, cfg.Predictor.ChatTimeout, l)
}

// ProvideAuthenticator creates the in-process auth broker.
func ProvideAuthenticator(cfg *config.Config, l *applogger.Logger) dservice.Authenticator {
	return auth.New(cfg.Auth.Providers, cfg.Auth.Credentials, l)
}

// ProvideSessionManager creates the session manager.
func ProvideSessionManager(
	cfg *config.Config,
	forecaster dservice.Forecaster,
	authn dservice.Authenticator,
	store drepo.SessionStore,
	m drepo.Metrics,
	l *applogger.Logger,
) *usecase.Manager {
	return usecase.NewManager(usecase.ManagerConfig{
		Forecaster:     forecaster,
		Auth:           authn,
		Store:          store,
		Metrics:        m,
		Logger:         l,
		Series:         usecase.NewSeriesBuilder(nil),
		DefaultSymbol:  cfg.Dashboard.DefaultSymbol,
		DefaultHorizon: models.Horizon(cfg.Dashboard.DefaultHorizon),
		Lookback:       cfg.Dashboard.LookbackDefault,
		AutoFetch:      cfg.Dashboard.AutoFetch,
		TTL:            cfg.Dashboard.SessionTTL,
	})
}

// ProvideHandler creates the gateway HTTP handler.
func ProvideHandler(
	cfg *config.Config,
	l *applogger.Logger,
	sessions *usecase.Manager,
	authn dservice.Authenticator,
) xhttp.Handler {
	return api.NewDashboardHandler(l, sessions, authn, cfg.Dashboard.Symbols)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	sessions *usecase.Manager,
	c cache.Service,
	handler xhttp.Handler,
) *server.App {
	return server.New(cfg, l, sessions, c, handler)
}
