package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"Edelweiss/internal/domain/models"
	applogger "Edelweiss/pkg/logger"
)

type fakeStore struct {
	mu   sync.Mutex
	data map[string]models.SelectionState
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]models.SelectionState)}
}

func (s *fakeStore) SaveSelection(_ context.Context, id string, sel models.SelectionState) error {
	s.mu.Lock()
	s.data[id] = sel
	s.mu.Unlock()
	return nil
}

func (s *fakeStore) LoadSelection(_ context.Context, id string) (models.SelectionState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sel, ok := s.data[id]
	return sel, ok, nil
}

func (s *fakeStore) DeleteSelection(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.data, id)
	s.mu.Unlock()
	return nil
}

func newTestManager(t *testing.T, f *fakeForecaster, store *fakeStore, autoFetch bool) *Manager {
	t.Helper()
	m := NewManager(ManagerConfig{
		Forecaster:     f,
		Store:          store,
		Metrics:        &fakeMetrics{},
		Logger:         applogger.Nop(),
		Series:         NewSeriesBuilder(func() float64 { return 0.5 }),
		DefaultSymbol:  "AAPL",
		DefaultHorizon: models.Horizon1M,
		Lookback:       60,
		AutoFetch:      autoFetch,
		TTL:            time.Hour,
	})
	t.Cleanup(m.Close)
	return m
}

func okForecaster() *fakeForecaster {
	return &fakeForecaster{
		respond: func(symbol string) (*models.PredictionResponse, error) {
			return &models.PredictionResponse{Symbol: symbol}, nil
		},
	}
}

func TestAcquireDefaults(t *testing.T) {
	m := newTestManager(t, okForecaster(), newFakeStore(), false)

	s := m.Acquire(context.Background(), "sess-1")
	sel := s.Selection()
	if sel.Symbol != "AAPL" || sel.Horizon != models.Horizon1M {
		t.Fatalf("unexpected default selection: %+v", sel)
	}
	if st := s.Controller().State(); st.Phase != models.PhaseIdle {
		t.Fatalf("expected idle without auto-fetch, got %s", st.Phase)
	}

	// acquiring again returns the same session
	if again := m.Acquire(context.Background(), "sess-1"); again != s {
		t.Fatal("expected the same session instance")
	}
}

func TestAutoFetchOnFirstAcquire(t *testing.T) {
	f := okForecaster()
	m := newTestManager(t, f, newFakeStore(), true)

	s := m.Acquire(context.Background(), "sess-1")

	ch, cancel := s.Subscribe()
	defer cancel()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case st := <-ch:
			if st.Phase == models.PhaseSuccess {
				if st.Symbol != "AAPL" {
					t.Fatalf("expected AAPL auto-fetch, got %s", st.Symbol)
				}
				return
			}
		case <-deadline:
			t.Fatal("auto-fetch never completed")
		}
	}
}

func TestSelectionPersistsAndRestores(t *testing.T) {
	store := newFakeStore()
	m := newTestManager(t, okForecaster(), store, false)

	s := m.Acquire(context.Background(), "sess-1")
	sel, changed := s.SetSelection(context.Background(), "TSLA", models.Horizon6M, nil)
	if !changed {
		t.Fatal("symbol change not detected")
	}
	if sel.Symbol != "TSLA" || sel.Horizon != models.Horizon6M {
		t.Fatalf("unexpected selection: %+v", sel)
	}

	// a second manager simulates a restart; the selection snapshot survives
	m2 := newTestManager(t, okForecaster(), store, false)
	restored := m2.Acquire(context.Background(), "sess-1").Selection()
	if restored.Symbol != "TSLA" || restored.Horizon != models.Horizon6M {
		t.Fatalf("selection not restored: %+v", restored)
	}
}

func TestSetSelectionChatFlag(t *testing.T) {
	m := newTestManager(t, okForecaster(), newFakeStore(), false)
	s := m.Acquire(context.Background(), "sess-1")

	open := true
	sel, changed := s.SetSelection(context.Background(), "", "", &open)
	if changed {
		t.Fatal("chat toggle must not count as a symbol change")
	}
	if !sel.IsChatOpen || sel.Symbol != "AAPL" {
		t.Fatalf("unexpected selection: %+v", sel)
	}
}

func TestIdentityPropagation(t *testing.T) {
	m := newTestManager(t, okForecaster(), newFakeStore(), false)
	s := m.Acquire(context.Background(), "sess-1")

	identity := &models.Identity{UID: "u-1", Provider: "password"}
	m.onIdentity(identity)
	if got := s.Selection().User; got == nil || got.UID != "u-1" {
		t.Fatalf("identity not propagated: %+v", got)
	}

	m.onIdentity(nil)
	if got := s.Selection().User; got != nil {
		t.Fatalf("sign-out not propagated: %+v", got)
	}

	// sessions created after sign-in start with the current identity
	m.onIdentity(identity)
	s2 := m.Acquire(context.Background(), "sess-2")
	if got := s2.Selection().User; got == nil || got.UID != "u-1" {
		t.Fatalf("new session missing current identity: %+v", got)
	}
}

func TestDropRemovesSession(t *testing.T) {
	store := newFakeStore()
	m := newTestManager(t, okForecaster(), store, false)

	s := m.Acquire(context.Background(), "sess-1")
	s.SetSelection(context.Background(), "TSLA", "", nil)

	m.Drop(context.Background(), "sess-1")
	if _, ok := m.Lookup("sess-1"); ok {
		t.Fatal("session still present after drop")
	}
	if _, ok, _ := store.LoadSelection(context.Background(), "sess-1"); ok {
		t.Fatal("persisted selection not deleted")
	}
}
