//go:build wireinject
// +build wireinject

package di

import (
	"Edelweiss/pkg/config"
	"Edelweiss/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure
		ProvideCache,
		ProvideSessionStore,
		ProvideForecaster,
		ProvideAuthenticator,

		// Use cases
		ProvideSessionManager,

		// HTTP surface
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
