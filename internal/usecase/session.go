package usecase

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"Edelweiss/internal/domain/models"
	drepo "Edelweiss/internal/domain/repository"
	dservice "Edelweiss/internal/domain/service"
	applogger "Edelweiss/pkg/logger"
)

// Session couples one dashboard's selection state with its request/view
// controller. Selection mutations are atomic snapshots; state transitions
// fan out to subscribers.
type Session struct {
	ID string

	manager *Manager
	ctrl    *Controller

	mu          sync.Mutex
	selection   models.SelectionState
	lastSeen    time.Time
	subscribers map[uint64]chan models.RequestState
	nextSubID   uint64
}

// Selection returns the current selection snapshot.
func (s *Session) Selection() models.SelectionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection
}

// Controller returns the session's state machine.
func (s *Session) Controller() *Controller {
	return s.ctrl
}

// SetSelection updates the selection. chatOpen is optional; nil leaves the
// flag untouched. Returns the new snapshot and whether the symbol changed.
func (s *Session) SetSelection(ctx context.Context, symbol string, horizon models.Horizon, chatOpen *bool) (models.SelectionState, bool) {
	s.mu.Lock()
	changed := symbol != "" && symbol != s.selection.Symbol
	if symbol != "" {
		s.selection.Symbol = symbol
	}
	if horizon != "" {
		s.selection.Horizon = horizon
	}
	if chatOpen != nil {
		s.selection.IsChatOpen = *chatOpen
	}
	sel := s.selection
	s.mu.Unlock()

	s.manager.persistSelection(ctx, s.ID, sel)
	return sel, changed
}

// Chat forwards a message to the prediction service with the session's
// selection as context. Caller-supplied extra context wins on key clash.
func (s *Session) Chat(ctx context.Context, message string, extra map[string]any) (json.RawMessage, error) {
	sel := s.Selection()
	chatCtx := map[string]any{
		"symbol":  sel.Symbol,
		"horizon": string(sel.Horizon),
	}
	for k, v := range extra {
		chatCtx[k] = v
	}
	return s.manager.forecaster.Chat(ctx, message, chatCtx)
}

// Subscribe returns a channel receiving every state transition, primed
// with the current state. Slow consumers drop intermediate states rather
// than block the controller.
func (s *Session) Subscribe() (<-chan models.RequestState, func()) {
	ch := make(chan models.RequestState, 8)

	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = ch
	s.mu.Unlock()

	ch <- s.ctrl.State()

	return ch, func() {
		s.mu.Lock()
		if c, ok := s.subscribers[id]; ok {
			delete(s.subscribers, id)
			close(c)
		}
		s.mu.Unlock()
	}
}

func (s *Session) broadcast(state models.RequestState) {
	s.mu.Lock()
	for _, ch := range s.subscribers {
		select {
		case ch <- state:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Session) setUser(identity *models.Identity) {
	s.mu.Lock()
	s.selection.User = identity
	s.mu.Unlock()
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

func (s *Session) idleSince(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen.Before(cutoff)
}

func (s *Session) closeSubscribers() {
	s.mu.Lock()
	for id, ch := range s.subscribers {
		delete(s.subscribers, id)
		close(ch)
	}
	s.mu.Unlock()
}

// ManagerConfig holds session manager dependencies and policy.
type ManagerConfig struct {
	Forecaster     dservice.Forecaster
	Auth           dservice.Authenticator
	Store          drepo.SessionStore
	Metrics        drepo.Metrics
	Logger         *applogger.Logger
	Series         *SeriesBuilder
	DefaultSymbol  string
	DefaultHorizon models.Horizon
	Lookback       int
	AutoFetch      bool
	TTL            time.Duration
}

// Manager owns the live sessions. Idle sessions are swept after the
// configured TTL; their selection snapshot stays in the SessionStore so a
// returning client resumes where it left off.
type Manager struct {
	cfg        ManagerConfig
	forecaster dservice.Forecaster

	mu       sync.Mutex
	sessions map[string]*Session
	user     *models.Identity

	unsubAuth func()
	stop      chan struct{}
	done      chan struct{}
}

// NewManager creates a session manager and starts its idle sweeper. It
// subscribes to the authenticator so every session observes the current
// identity-or-nil.
func NewManager(cfg ManagerConfig) *Manager {
	m := &Manager{
		cfg:        cfg,
		forecaster: cfg.Forecaster,
		sessions:   make(map[string]*Session),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}

	if cfg.Auth != nil {
		m.unsubAuth = cfg.Auth.Subscribe(m.onIdentity)
	}

	go m.sweep()
	return m
}

// Acquire returns the session for id, creating it on first sight. A new
// session restores its persisted selection when one exists, otherwise
// starts from the configured defaults. With auto-fetch enabled a fresh
// session immediately dispatches a prediction for its symbol.
func (m *Manager) Acquire(ctx context.Context, id string) *Session {
	m.mu.Lock()
	if s, ok := m.sessions[id]; ok {
		m.mu.Unlock()
		s.touch()
		return s
	}

	s := &Session{
		ID:          id,
		manager:     m,
		subscribers: make(map[uint64]chan models.RequestState),
		lastSeen:    time.Now(),
		selection: models.SelectionState{
			Symbol:  m.cfg.DefaultSymbol,
			Horizon: m.cfg.DefaultHorizon,
			User:    m.user,
		},
	}
	s.ctrl = NewController(m.cfg.Forecaster, m.cfg.Series, m.cfg.Metrics, m.cfg.Logger, m.cfg.Lookback)
	s.ctrl.OnChange(s.broadcast)
	m.sessions[id] = s
	count := len(m.sessions)
	m.mu.Unlock()

	m.cfg.Metrics.SetActiveSessions(count)

	if m.cfg.Store != nil {
		if sel, ok, err := m.cfg.Store.LoadSelection(ctx, id); err != nil {
			m.cfg.Logger.Warn("selection restore failed", applogger.String("session", id), applogger.Error(err))
		} else if ok {
			s.mu.Lock()
			sel.User = s.selection.User
			s.selection = sel
			s.mu.Unlock()
		}
	}

	m.cfg.Logger.Info("session created", applogger.String("session", id))

	if m.cfg.AutoFetch {
		if err := s.ctrl.Predict(ctx, s.Selection().Symbol); err != nil {
			m.cfg.Logger.Warn("auto fetch skipped", applogger.String("session", id), applogger.Error(err))
		}
	}

	return s
}

// Lookup returns an existing session without creating one.
func (m *Manager) Lookup(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Drop removes a session and deletes its persisted selection.
func (m *Manager) Drop(ctx context.Context, id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	count := len(m.sessions)
	m.mu.Unlock()

	if !ok {
		return
	}
	s.closeSubscribers()
	m.cfg.Metrics.SetActiveSessions(count)
	if m.cfg.Store != nil {
		if err := m.cfg.Store.DeleteSelection(ctx, id); err != nil {
			m.cfg.Logger.Warn("selection delete failed", applogger.String("session", id), applogger.Error(err))
		}
	}
}

// Close stops the sweeper and detaches from the authenticator.
func (m *Manager) Close() {
	if m.unsubAuth != nil {
		m.unsubAuth()
	}
	close(m.stop)
	<-m.done
}

func (m *Manager) persistSelection(ctx context.Context, id string, sel models.SelectionState) {
	if m.cfg.Store == nil {
		return
	}
	if err := m.cfg.Store.SaveSelection(ctx, id, sel); err != nil {
		m.cfg.Logger.Warn("selection persist failed", applogger.String("session", id), applogger.Error(err))
	}
}

func (m *Manager) onIdentity(identity *models.Identity) {
	m.mu.Lock()
	m.user = identity
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()

	for _, s := range sessions {
		s.setUser(identity)
	}
}

func (m *Manager) sweep() {
	defer close(m.done)

	interval := m.cfg.TTL / 2
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-m.cfg.TTL)

			m.mu.Lock()
			var expired []*Session
			for id, s := range m.sessions {
				if s.idleSince(cutoff) {
					delete(m.sessions, id)
					expired = append(expired, s)
				}
			}
			count := len(m.sessions)
			m.mu.Unlock()

			for _, s := range expired {
				s.closeSubscribers()
				m.cfg.Logger.Info("session expired", applogger.String("session", s.ID))
			}
			if len(expired) > 0 {
				m.cfg.Metrics.SetActiveSessions(count)
			}
		}
	}
}
