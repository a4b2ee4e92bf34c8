package repository

import (
	"context"

	"Edelweiss/internal/domain/models"
)

// SessionStore mirrors a session's selection snapshot so gateway replicas
// can restore it. Request/view state is deliberately not persisted.
type SessionStore interface {
	SaveSelection(ctx context.Context, sessionID string, sel models.SelectionState) error
	LoadSelection(ctx context.Context, sessionID string) (models.SelectionState, bool, error)
	DeleteSelection(ctx context.Context, sessionID string) error
}

type Metrics interface {
	RecordPrediction(symbol string, seconds float64)
	RecordPredictionError(symbol string)
	RecordStaleDrop(symbol string)
	SetActiveSessions(n int)
}
