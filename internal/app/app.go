// Package app wires configuration, credential storage, the API client and
// the client-side services into one object the CLI works with.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/marketplace/storefront/internal/core/ports"
	"github.com/marketplace/storefront/internal/core/service"
	"github.com/marketplace/storefront/internal/infrastructure/apiclient"
	"github.com/marketplace/storefront/internal/infrastructure/credstore"
	dbredis "github.com/marketplace/storefront/internal/infrastructure/db/redis"
	"github.com/marketplace/storefront/internal/infrastructure/token"
	"github.com/marketplace/storefront/internal/pkg/config"
)

// App holds the services for one process.
type App struct {
	Config    *config.Config
	Client    *apiclient.Client
	Session   *service.SessionStore
	Cart      *service.CartSynchronizer
	Catalog   *service.CatalogService
	Suppliers *service.SupplierService
	Orders    *service.OrderService
	Checkout  *service.CheckoutService

	log     zerolog.Logger
	closers []func() error
}

// New builds the service graph and restores the persisted session, which in
// turn loads the cart of whoever is logged in.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	a := &App{Config: cfg, log: log}

	creds, err := a.credentialStore(ctx)
	if err != nil {
		return nil, err
	}

	// Login and register never carry a bearer token, so the session talks
	// to the backend through a client of its own.
	authClient := apiclient.New(cfg.API.BaseURL,
		apiclient.WithTimeout(cfg.API.Timeout),
		apiclient.WithLogger(component(log, "apiclient")),
	)
	a.Session = service.NewSessionStore(authClient, creds, token.NewDecoder(), component(log, "session"))

	a.Client = apiclient.New(cfg.API.BaseURL,
		apiclient.WithTimeout(cfg.API.Timeout),
		apiclient.WithTokenSource(a.Session),
		apiclient.WithUnauthorizedHandler(a.Session.Invalidate),
		apiclient.WithLogger(component(log, "apiclient")),
	)

	a.Cart = service.NewCartSynchronizer(a.Client, a.Session, component(log, "cart"))
	a.closers = append(a.closers, func() error {
		a.Cart.Close()
		return nil
	})
	a.Catalog = service.NewCatalogService(a.Client, a.Session, component(log, "catalog"))
	a.Suppliers = service.NewSupplierService(a.Client, a.Session, component(log, "suppliers"))
	a.Orders = service.NewOrderService(a.Client, a.Session, component(log, "orders"))
	a.Checkout = service.NewCheckoutService(a.Cart, a.Client, a.Client, a.Session, component(log, "checkout"))

	a.Session.Restore(ctx)
	return a, nil
}

// Close releases the credential store connection and detaches listeners.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (a *App) credentialStore(ctx context.Context) (ports.CredentialStore, error) {
	switch a.Config.Storage.Driver {
	case config.StorageMemory:
		return credstore.NewMemoryStore(), nil
	case config.StorageRedis:
		client, err := dbredis.Connect(ctx, dbredis.Config{
			Addr:     a.Config.Redis.Addr,
			Password: a.Config.Redis.Password,
			DB:       a.Config.Redis.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("credential store: %w", err)
		}
		a.closers = append(a.closers, client.Close)
		a.log.Debug().Str("addr", a.Config.Redis.Addr).Msg("session stored in redis")
		return dbredis.NewCredentialStore(client, a.Config.Redis.KeyPrefix, a.Config.Redis.TTL), nil
	default:
		path := a.Config.Storage.Path
		if path == "" {
			path = credstore.DefaultPath()
		}
		a.log.Debug().Str("path", path).Msg("session stored on disk")
		return credstore.NewFileStore(path), nil
	}
}

func component(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
