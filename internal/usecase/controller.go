package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"Edelweiss/internal/domain/models"
	drepo "Edelweiss/internal/domain/repository"
	dservice "Edelweiss/internal/domain/service"
	"Edelweiss/internal/service/predictor"
	applogger "Edelweiss/pkg/logger"
)

// ErrEmptySymbol guards dispatch against an empty selection. No state
// transition happens; callers treat it as input validation.
var ErrEmptySymbol = errors.New("symbol must not be empty")

// Controller is the per-session request/view state machine. States cycle
// idle -> loading -> success/error for the lifetime of the session. At
// most one request is in flight; a newer predict supersedes an older one
// and the older completion is discarded by generation token.
type Controller struct {
	forecaster dservice.Forecaster
	series     *SeriesBuilder
	metrics    drepo.Metrics
	logger     *applogger.Logger
	lookback   int

	mu         sync.Mutex
	state      models.RequestState
	generation uint64
	onChange   func(models.RequestState)
}

// NewController creates a controller in the Idle state.
func NewController(
	forecaster dservice.Forecaster,
	series *SeriesBuilder,
	metrics drepo.Metrics,
	logger *applogger.Logger,
	lookback int,
) *Controller {
	return &Controller{
		forecaster: forecaster,
		series:     series,
		metrics:    metrics,
		logger:     logger,
		lookback:   lookback,
		state:      models.RequestState{Phase: models.PhaseIdle},
	}
}

// OnChange registers the single state-change callback. Invoked outside the
// controller lock on every transition.
func (c *Controller) OnChange(fn func(models.RequestState)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// State returns the current state snapshot.
func (c *Controller) State() models.RequestState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Predict transitions to Loading and dispatches one upstream call. Calling
// while already Loading the same symbol is a no-op. A call for a different
// symbol starts a new generation; the superseded completion is dropped when
// it arrives. The in-flight request is never cancelled.
func (c *Controller) Predict(ctx context.Context, symbol string) error {
	if symbol == "" {
		return ErrEmptySymbol
	}

	c.mu.Lock()
	if c.state.Phase == models.PhaseLoading && c.state.Symbol == symbol {
		c.mu.Unlock()
		return nil
	}

	c.generation++
	gen := c.generation
	c.state = models.RequestState{
		Phase:      models.PhaseLoading,
		Symbol:     symbol,
		Generation: gen,
	}
	state := c.state
	notify := c.onChange
	c.mu.Unlock()

	if notify != nil {
		notify(state)
	}

	go c.dispatch(context.WithoutCancel(ctx), symbol, gen)
	return nil
}

// Refresh re-issues the current symbol's request. Disabled while Loading.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if c.state.Phase == models.PhaseLoading {
		c.mu.Unlock()
		return nil
	}
	symbol := c.state.Symbol
	c.mu.Unlock()

	if symbol == "" {
		return ErrEmptySymbol
	}
	return c.Predict(ctx, symbol)
}

func (c *Controller) dispatch(ctx context.Context, symbol string, gen uint64) {
	start := time.Now()
	resp, err := c.forecaster.Predict(ctx, symbol, c.lookback)
	elapsed := time.Since(start)

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		c.metrics.RecordStaleDrop(symbol)
		c.logger.Debug("stale completion dropped",
			applogger.String("symbol", symbol),
			applogger.Uint64("generation", gen),
		)
		return
	}

	if err != nil {
		c.state = models.RequestState{
			Phase:      models.PhaseError,
			Symbol:     symbol,
			Message:    errorMessage(err),
			Generation: gen,
		}
	} else {
		view := Normalize(symbol, resp)
		c.state = models.RequestState{
			Phase:      models.PhaseSuccess,
			Symbol:     symbol,
			View:       view,
			Series:     c.series.Build(view.Price.LastClose, view.Price.Predicted),
			Generation: gen,
		}
	}
	state := c.state
	notify := c.onChange
	c.mu.Unlock()

	if err != nil {
		c.metrics.RecordPredictionError(symbol)
		c.logger.Warn("prediction failed",
			applogger.String("symbol", symbol),
			applogger.Error(err),
		)
	} else {
		c.metrics.RecordPrediction(symbol, elapsed.Seconds())
		c.logger.Info("prediction applied",
			applogger.String("symbol", symbol),
			applogger.Uint64("generation", gen),
			applogger.Duration("elapsed", elapsed),
		)
	}

	if notify != nil {
		notify(state)
	}
}

// errorMessage extracts the user-visible message. TransportError already
// carries the upstream detail or an operation fallback.
func errorMessage(err error) string {
	var te *predictor.TransportError
	if errors.As(err, &te) {
		return te.Message
	}
	return err.Error()
}
