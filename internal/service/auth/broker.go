package auth

import (
	"context"
	"errors"
	"sync"

	"Edelweiss/internal/domain/models"
	dservice "Edelweiss/internal/domain/service"
	applogger "Edelweiss/pkg/logger"

	"github.com/google/uuid"
)

var (
	ErrUnknownProvider    = errors.New("auth: provider not enabled")
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
)

// Broker is an in-process Authenticator backed by a static credential
// table and a provider allowlist. Subscribers are notified on every
// identity change and once immediately on subscribe, so a late subscriber
// always observes the current identity-or-nil.
type Broker struct {
	mu          sync.Mutex
	providers   map[string]bool
	credentials map[string]string
	current     *models.Identity
	subscribers map[uint64]func(*models.Identity)
	nextSubID   uint64
	logger      *applogger.Logger
}

// New creates an auth broker.
func New(providers []string, credentials map[string]string, l *applogger.Logger) dservice.Authenticator {
	p := make(map[string]bool, len(providers))
	for _, id := range providers {
		p[id] = true
	}
	return &Broker{
		providers:   p,
		credentials: credentials,
		subscribers: make(map[uint64]func(*models.Identity)),
		logger:      l,
	}
}

// Subscribe registers fn for identity changes. fn is invoked synchronously
// with the current identity before Subscribe returns.
func (b *Broker) Subscribe(fn func(*models.Identity)) func() {
	b.mu.Lock()
	id := b.nextSubID
	b.nextSubID++
	b.subscribers[id] = fn
	current := b.current
	b.mu.Unlock()

	fn(current)

	return func() {
		b.mu.Lock()
		delete(b.subscribers, id)
		b.mu.Unlock()
	}
}

// SignInWithProvider signs in through an enabled federated provider.
func (b *Broker) SignInWithProvider(_ context.Context, providerID string) (*models.Identity, error) {
	b.mu.Lock()
	if !b.providers[providerID] {
		b.mu.Unlock()
		return nil, ErrUnknownProvider
	}
	identity := &models.Identity{
		UID:      uuid.NewString(),
		Provider: providerID,
	}
	b.current = identity
	subs := b.snapshotSubscribers()
	b.mu.Unlock()

	b.logger.Info("signed in", applogger.String("provider", providerID), applogger.String("uid", identity.UID))
	notify(subs, identity)
	return identity, nil
}

// SignInWithCredentials signs in with an id/secret pair from the
// configured credential table.
func (b *Broker) SignInWithCredentials(_ context.Context, id, secret string) (*models.Identity, error) {
	b.mu.Lock()
	want, ok := b.credentials[id]
	if !ok || want != secret {
		b.mu.Unlock()
		return nil, ErrInvalidCredentials
	}
	identity := &models.Identity{
		UID:      uuid.NewString(),
		Email:    id,
		Provider: "password",
	}
	b.current = identity
	subs := b.snapshotSubscribers()
	b.mu.Unlock()

	b.logger.Info("signed in", applogger.String("provider", "password"), applogger.String("uid", identity.UID))
	notify(subs, identity)
	return identity, nil
}

// SignOut clears the current identity.
func (b *Broker) SignOut(_ context.Context) error {
	b.mu.Lock()
	b.current = nil
	subs := b.snapshotSubscribers()
	b.mu.Unlock()

	b.logger.Info("signed out")
	notify(subs, nil)
	return nil
}

// Current returns the current identity or nil.
func (b *Broker) Current() *models.Identity {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

func (b *Broker) snapshotSubscribers() []func(*models.Identity) {
	subs := make([]func(*models.Identity), 0, len(b.subscribers))
	for _, fn := range b.subscribers {
		subs = append(subs, fn)
	}
	return subs
}

func notify(subs []func(*models.Identity), identity *models.Identity) {
	for _, fn := range subs {
		fn(identity)
	}
}
