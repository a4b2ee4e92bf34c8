package service

import (
	"context"
	"encoding/json"

	"Edelweiss/internal/domain/models"
)

// Forecaster issues prediction requests against the external service.
// Exactly one network call per invocation; no retry, no caching.
type Forecaster interface {
	Predict(ctx context.Context, symbol string, lookback int) (*models.PredictionResponse, error)
	Chat(ctx context.Context, message string, chatCtx map[string]any) (json.RawMessage, error)
}

// Authenticator is the external-auth capability. The gateway core never
// depends on a concrete identity provider; it only consumes the
// identity-or-nil stream via Subscribe.
type Authenticator interface {
	Subscribe(fn func(*models.Identity)) (unsubscribe func())
	SignInWithProvider(ctx context.Context, providerID string) (*models.Identity, error)
	SignInWithCredentials(ctx context.Context, id, secret string) (*models.Identity, error)
	SignOut(ctx context.Context) error
	Current() *models.Identity
}
