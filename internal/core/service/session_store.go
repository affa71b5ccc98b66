package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/marketplace/storefront/internal/core/domain"
	"github.com/marketplace/storefront/internal/core/ports"
	"github.com/marketplace/storefront/internal/metrics"
)

// SessionStore is the single source of truth for who is logged in. Every
// transition is persisted before it becomes visible in memory, and listeners
// are notified once it is visible.
type SessionStore struct {
	auth    ports.AuthAPI
	store   ports.CredentialStore
	decoder ports.CredentialDecoder
	log     zerolog.Logger

	// opMu serializes transitions so storage and memory cannot disagree. It
	// is never held across a backend call.
	opMu sync.Mutex
	// transitions counts published transitions; guarded by opMu.
	transitions uint64

	mu        sync.RWMutex
	identity  *domain.Identity
	token     string
	listeners map[int]ports.IdentityListener
	nextID    int
}

// NewSessionStore builds an anonymous session. Call Restore to pick up a
// persisted credential.
func NewSessionStore(auth ports.AuthAPI, store ports.CredentialStore, decoder ports.CredentialDecoder, log zerolog.Logger) *SessionStore {
	return &SessionStore{
		auth:      auth,
		store:     store,
		decoder:   decoder,
		log:       log,
		listeners: make(map[int]ports.IdentityListener),
	}
}

// Identity returns a copy of the current identity, or nil when anonymous.
func (s *SessionStore) Identity() *domain.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return nil
	}
	id := *s.identity
	return &id
}

// Token returns the bearer token, or "" when anonymous.
func (s *SessionStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Subscribe registers a listener for identity changes.
func (s *SessionStore) Subscribe(listener ports.IdentityListener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = listener
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Restore loads a previously persisted credential. It never contacts the
// network and never fails: unreadable or inconsistent records are treated as
// absent and cleared.
func (s *SessionStore) Restore(ctx context.Context) {
	s.opMu.Lock()
	identity, token := s.restoreLocked(ctx)
	event := ""
	if identity != nil {
		event = "restore"
		s.log.Debug().Str("username", identity.Username).Msg("session restored")
	}
	change, listeners, changed := s.publish(identity, token, event)
	s.opMu.Unlock()

	if changed {
		s.notify(ctx, change, listeners)
	}
}

func (s *SessionStore) restoreLocked(ctx context.Context) (*domain.Identity, string) {
	rec, err := s.store.Load(ctx)
	if err != nil && !errors.Is(err, domain.ErrMalformedCredential) {
		s.log.Warn().Err(err).Msg("session restore: storage unreadable, starting anonymous")
		return nil, ""
	}
	if err == nil && rec.Empty() {
		return nil, ""
	}

	var identity *domain.Identity
	if err == nil {
		identity, err = s.parsePersisted(rec)
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("session restore: discarding corrupt credential")
		if clearErr := s.wipe(ctx); clearErr != nil {
			s.log.Warn().Err(clearErr).Msg("session restore: failed to clear corrupt credential")
		}
		return nil, ""
	}
	return identity, rec.Token
}

// parsePersisted validates the stored pair: the token must decode and the
// identity JSON must parse and agree with the token's claims.
func (s *SessionStore) parsePersisted(rec domain.PersistedCredential) (*domain.Identity, error) {
	if rec.Token == "" || rec.Identity == "" {
		return nil, fmt.Errorf("incomplete record: %w", domain.ErrMalformedCredential)
	}
	claims, err := s.decoder.Decode(rec.Token)
	if err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}

	var identity domain.Identity
	if err := json.Unmarshal([]byte(rec.Identity), &identity); err != nil {
		return nil, fmt.Errorf("parse identity: %w", domain.ErrMalformedCredential)
	}
	if err := identity.Validate(); err != nil {
		return nil, err
	}
	if !domain.SameIdentity(&identity, &claims) {
		return nil, fmt.Errorf("identity does not match token: %w", domain.ErrMalformedCredential)
	}
	return &identity, nil
}

// Login authenticates against the backend and persists the credential. On
// failure the session is left as it was and the returned error carries a
// user-facing reason. A transition published while the backend call was in
// flight, such as a Logout, wins and the login is dropped.
func (s *SessionStore) Login(ctx context.Context, username, password string) (*domain.Identity, error) {
	s.opMu.Lock()
	seen := s.transitions
	s.opMu.Unlock()

	token, err := s.auth.Login(ctx, username, password)
	if err != nil {
		return nil, &domain.OperationError{Op: "login", Reason: domain.Reason(err, domain.MsgLoginFailed), Err: err}
	}

	identity, err := s.decoder.Decode(token)
	if err != nil {
		return nil, &domain.OperationError{Op: "login", Reason: domain.MsgLoginFailed, Err: err}
	}

	raw, err := json.Marshal(identity)
	if err != nil {
		return nil, &domain.OperationError{Op: "login", Reason: domain.MsgLoginFailed, Err: err}
	}

	s.opMu.Lock()
	if s.transitions != seen {
		s.opMu.Unlock()
		s.log.Info().Str("username", identity.Username).Msg("login dropped: session changed while it was in flight")
		return nil, &domain.OperationError{Op: "login", Reason: domain.MsgLoginInterrupted, Err: domain.ErrSessionChanged}
	}
	if err := s.store.Save(ctx, domain.PersistedCredential{Token: token, Identity: string(raw)}); err != nil {
		s.opMu.Unlock()
		s.log.Error().Err(err).Msg("login: failed to persist credential")
		return nil, &domain.OperationError{Op: "login", Reason: domain.MsgLoginFailed, Err: fmt.Errorf("persist credential: %w", err)}
	}

	change, listeners, changed := s.publish(&identity, token, "login")
	s.opMu.Unlock()

	s.log.Info().Str("username", identity.Username).Str("role", string(identity.Role)).Msg("logged in")
	if changed {
		s.notify(ctx, change, listeners)
	}
	return copyIdentity(&identity), nil
}

// Register creates an account. It does not log the user in.
func (s *SessionStore) Register(ctx context.Context, username, password string) error {
	if err := s.auth.Register(ctx, username, password); err != nil {
		return &domain.OperationError{Op: "register", Reason: domain.Reason(err, domain.MsgRegistrationFailed), Err: err}
	}
	s.log.Info().Str("username", username).Msg("registered")
	return nil
}

// Logout clears the persisted credential and the in-memory identity. It never
// fails; a storage error is logged.
func (s *SessionStore) Logout(ctx context.Context) {
	s.clear(ctx, "logout")
}

// Invalidate is an implicit logout, used when the backend rejects the
// current bearer token. It is a no-op for anonymous sessions.
func (s *SessionStore) Invalidate(ctx context.Context) {
	if s.Token() == "" {
		return
	}
	s.log.Warn().Msg("credential rejected by backend, logging out")
	s.clear(ctx, "invalidate")
}

func (s *SessionStore) clear(ctx context.Context, event string) {
	s.opMu.Lock()
	if err := s.wipe(ctx); err != nil {
		s.log.Error().Err(err).Msg(event + ": failed to clear persisted credential")
	}
	change, listeners, changed := s.publish(nil, "", event)
	s.opMu.Unlock()

	if changed {
		s.notify(ctx, change, listeners)
	}
}

// wipe removes the persisted credential. A failed clear is retried once and
// then overwritten with an empty record, which Restore reads as absent.
func (s *SessionStore) wipe(ctx context.Context) error {
	err := s.store.Clear(ctx)
	if err == nil {
		return nil
	}
	s.log.Warn().Err(err).Msg("clear persisted credential failed, retrying")
	if err = s.store.Clear(ctx); err == nil {
		return nil
	}
	if saveErr := s.store.Save(ctx, domain.PersistedCredential{}); saveErr != nil {
		return errors.Join(err, saveErr)
	}
	return nil
}

// publish swaps in the new state. Callers hold opMu so the swap is ordered
// with the storage write that preceded it.
func (s *SessionStore) publish(next *domain.Identity, token, event string) (ports.IdentityChange, []ports.IdentityListener, bool) {
	s.transitions++
	s.mu.Lock()
	prev := s.identity
	s.identity = copyIdentity(next)
	s.token = token
	listeners := make([]ports.IdentityListener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	if event != "" {
		metrics.SessionTransitionsTotal.WithLabelValues(event).Inc()
	}
	change := ports.IdentityChange{Previous: copyIdentity(prev), Current: copyIdentity(next)}
	return change, listeners, !domain.SameIdentity(prev, next)
}

// notify runs listeners outside every lock so they may call back into the
// session.
func (s *SessionStore) notify(ctx context.Context, change ports.IdentityChange, listeners []ports.IdentityListener) {
	for _, l := range listeners {
		l(ctx, change)
	}
}

func copyIdentity(i *domain.Identity) *domain.Identity {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}
