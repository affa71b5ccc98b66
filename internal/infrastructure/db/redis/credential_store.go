package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/marketplace/storefront/internal/core/domain"
	"github.com/marketplace/storefront/internal/core/ports"
)

// DefaultKeyPrefix namespaces the two session keys.
const DefaultKeyPrefix = "storefront:session:"

// CredentialStore persists the session in Redis.
// Key format: <prefix>token and <prefix>user
type CredentialStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

var _ ports.CredentialStore = (*CredentialStore)(nil)

// NewCredentialStore wraps client. A zero ttl keeps the keys until logout.
func NewCredentialStore(client redis.UniversalClient, prefix string, ttl time.Duration) *CredentialStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &CredentialStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *CredentialStore) tokenKey() string { return s.prefix + "token" }
func (s *CredentialStore) userKey() string { return s.prefix + "user" }

// Load returns an empty record when neither key exists.
func (s *CredentialStore) Load(ctx context.Context) (domain.PersistedCredential, error) {
	vals, err := s.client.MGet(ctx, s.tokenKey(), s.userKey()).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return domain.PersistedCredential{}, fmt.Errorf("redis load session: %w", err)
	}

	var rec domain.PersistedCredential
	if len(vals) == 2 {
		rec.Token, _ = vals[0].(string)
		rec.Identity, _ = vals[1].(string)
	}
	return rec, nil
}

// Save writes both keys in one transaction.
func (s *CredentialStore) Save(ctx context.Context, rec domain.PersistedCredential) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.tokenKey(), rec.Token, s.ttl)
		pipe.Set(ctx, s.userKey(), rec.Identity, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save session: %w", err)
	}
	return nil
}

// Clear removes both keys.
func (s *CredentialStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.tokenKey(), s.userKey()).Err(); err != nil {
		return fmt.Errorf("redis clear session: %w", err)
	}
	return nil
}
