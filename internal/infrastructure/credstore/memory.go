package credstore

import (
	"context"
	"sync"

	"github.com/marketplace/storefront/internal/core/domain"
	"github.com/marketplace/storefront/internal/core/ports"
)

// MemoryStore keeps the session for the life of the process only.
type MemoryStore struct {
	mu  sync.RWMutex
	rec domain.PersistedCredential
}

var _ ports.CredentialStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(context.Context) (domain.PersistedCredential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rec, nil
}

func (s *MemoryStore) Save(_ context.Context, cred domain.PersistedCredential) error {
	s.mu.Lock()
	s.rec = cred
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear(context.Context) error {
	s.mu.Lock()
	s.rec = domain.PersistedCredential{}
	s.mu.Unlock()
	return nil
}
