package auth

import (
	"context"
	"errors"
	"testing"

	"Edelweiss/internal/domain/models"
	applogger "Edelweiss/pkg/logger"
)

func newTestBroker() *Broker {
	a := New([]string{"google"}, map[string]string{"demo@edelweiss.dev": "secret"}, applogger.Nop())
	return a.(*Broker)
}

func TestSubscribeInvokedImmediately(t *testing.T) {
	b := newTestBroker()

	var got []*models.Identity
	unsub := b.Subscribe(func(id *models.Identity) { got = append(got, id) })
	defer unsub()

	if len(got) != 1 || got[0] != nil {
		t.Fatalf("expected one immediate nil callback, got %v", got)
	}

	identity, err := b.SignInWithCredentials(context.Background(), "demo@edelweiss.dev", "secret")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[1] != identity {
		t.Fatalf("expected sign-in callback, got %v", got)
	}

	if err := b.SignOut(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[2] != nil {
		t.Fatalf("expected sign-out callback, got %v", got)
	}
}

func TestUnsubscribeStopsCallbacks(t *testing.T) {
	b := newTestBroker()

	calls := 0
	unsub := b.Subscribe(func(*models.Identity) { calls++ })
	unsub()

	if _, err := b.SignInWithProvider(context.Background(), "google"); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Fatalf("expected only the immediate callback, got %d", calls)
	}
}

func TestInvalidCredentials(t *testing.T) {
	b := newTestBroker()

	if _, err := b.SignInWithCredentials(context.Background(), "demo@edelweiss.dev", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := b.SignInWithCredentials(context.Background(), "nobody", "secret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if b.Current() != nil {
		t.Fatal("failed sign-in must not set an identity")
	}
}

func TestProviderAllowlist(t *testing.T) {
	b := newTestBroker()

	if _, err := b.SignInWithProvider(context.Background(), "github"); !errors.Is(err, ErrUnknownProvider) {
		t.Fatalf("expected ErrUnknownProvider, got %v", err)
	}

	identity, err := b.SignInWithProvider(context.Background(), "google")
	if err != nil {
		t.Fatal(err)
	}
	if identity.Provider != "google" || identity.UID == "" {
		t.Fatalf("unexpected identity: %+v", identity)
	}
	if b.Current() != identity {
		t.Fatal("current identity not set")
	}
}
