package devserver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/marketplace/storefront/internal/core/domain"
	"github.com/marketplace/storefront/internal/core/ports"
	"github.com/marketplace/storefront/internal/infrastructure/token"
)

var _ ports.AccountService = (*Accounts)(nil)

// Accounts implements registration and login.
type Accounts struct {
	store  *Store
	tokens *token.Manager
	log    zerolog.Logger
	cost   int
}

func NewAccounts(store *Store, tokens *token.Manager, log zerolog.Logger) *Accounts {
	return &Accounts{store: store, tokens: tokens, log: log, cost: bcrypt.DefaultCost}
}

// Register creates a user account. Self-registration always yields RoleUser.
func (a *Accounts) Register(ctx context.Context, username, password string) (*domain.User, error) {
	return a.create(ctx, username, password, domain.RoleUser)
}

// CreateAdmin provisions an admin account. Used when seeding.
func (a *Accounts) CreateAdmin(ctx context.Context, username, password string) (*domain.User, error) {
	return a.create(ctx, username, password, domain.RoleAdmin)
}

func (a *Accounts) create(_ context.Context, username, password string, role domain.Role) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required: %w", domain.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := domain.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	err = a.store.write(func(st *state) error {
		if _, exists := st.users[username]; exists {
			return domain.ErrUserExists
		}
		st.users[username] = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	a.log.Info().Str("username", username).Str("role", string(role)).Msg("account created")
	return &user, nil
}

// Login verifies the password and issues a signed token. Unknown users and
// wrong passwords are indistinguishable to the caller.
func (a *Accounts) Login(_ context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", domain.ErrInvalidCredentials
	}

	var user domain.User
	err := a.store.read(func(st *state) error {
		u, ok := st.users[username]
		if !ok {
			return domain.ErrInvalidCredentials
		}
		user = u
		return nil
	})
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			a.log.Error().Err(err).Str("username", username).Msg("stored password hash is unusable")
		}
		return "", domain.ErrInvalidCredentials
	}

	tok, err := a.tokens.Generate(user.Identity())
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return tok, nil
}
