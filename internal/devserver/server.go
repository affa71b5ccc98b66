package devserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/marketplace/storefront/internal/api"
	"github.com/marketplace/storefront/internal/api/handler"
	"github.com/marketplace/storefront/internal/infrastructure/token"
	"github.com/marketplace/storefront/internal/pkg/config"
)

const (
	tokenIssuer     = "storefront-devserver"
	shutdownTimeout = 10 * time.Second
)

// Server is the development backend: the REST contract served from memory.
type Server struct {
	echo     *echo.Echo
	addr     string
	store    *Store
	accounts *Accounts
	log      zerolog.Logger
}

// New wires the in-memory services behind the API router. When cfg.Seed is
// set the demo catalog and admin account are loaded.
func New(ctx context.Context, cfg config.DevServerConfig, log zerolog.Logger) (*Server, error) {
	store := NewStore()
	tokens := token.NewManager(cfg.JWTSecret, cfg.TokenTTL, tokenIssuer)
	accounts := NewAccounts(store, tokens, log)

	if cfg.Seed {
		if err := Seed(ctx, store, accounts, cfg.AdminPassword); err != nil {
			return nil, err
		}
	}

	e := api.NewRouter(api.Deps{
		Accounts:  accounts,
		Carts:     NewCarts(store, log),
		Products:  NewCatalog(store, log),
		Suppliers: NewSuppliers(store, log),
		Orders:    NewOrders(store, log),
		Tokens:    tokens,
		Checks:    map[string]handler.Check{"catalog": store.CheckCatalog},
		Log:       log,
	})

	return &Server{
		echo:     e,
		addr:     net.JoinHostPort("", cfg.Port),
		store:    store,
		accounts: accounts,
		log:      log,
	}, nil
}

// Handler exposes the router, e.g. for httptest.
func (s *Server) Handler() http.Handler { return s.echo }

// Store gives direct access to backend state, e.g. for adding products.
func (s *Server) Store() *Store { return s.store }

// Accounts gives direct access to account provisioning.
func (s *Server) Accounts() *Accounts { return s.accounts }

// Addr is the listen address.
func (s *Server) Addr() string { return s.addr }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.addr).Msg("dev server listening")
		if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("dev server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("dev server shutdown: %w", err)
	}
	s.log.Info().Msg("dev server stopped")
	return nil
}
