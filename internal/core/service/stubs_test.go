package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/marketplace/storefront/internal/core/domain"
	"github.com/marketplace/storefront/internal/core/ports"
)

// stubAuthAPI issues "username:role" tokens for known users.
type stubAuthAPI struct {
	users    map[string]string // username -> password
	roles    map[string]domain.Role
	loginErr error
	// block, when set, holds Login until it is closed.
	block chan struct{}
	// entered is signalled once Login has been called.
	entered chan struct{}
}

func newStubAuthAPI() *stubAuthAPI {
	return &stubAuthAPI{
		users: map[string]string{"alice": "pw", "bob": "pw", "root": "pw"},
		roles: map[string]domain.Role{"root": domain.RoleAdmin},
	}
}

func (a *stubAuthAPI) Login(_ context.Context, username, password string) (string, error) {
	if a.entered != nil {
		a.entered <- struct{}{}
	}
	if a.block != nil {
		<-a.block
	}
	if a.loginErr != nil {
		return "", a.loginErr
	}
	if pw, ok := a.users[username]; !ok || pw != password {
		return "", &domain.APIError{Status: 401, Message: "invalid username or password"}
	}
	role := a.roles[username]
	if role == "" {
		role = domain.RoleUser
	}
	return username + ":" + string(role), nil
}

func (a *stubAuthAPI) Register(_ context.Context, username, password string) error {
	if _, exists := a.users[username]; exists {
		return &domain.APIError{Status: 409, Message: "username already taken"}
	}
	if username == "" || password == "" {
		return &domain.APIError{Status: 400}
	}
	a.users[username] = password
	return nil
}

// stubDecoder understands the tokens issued by stubAuthAPI.
type stubDecoder struct{}

func (stubDecoder) Decode(token string) (domain.Identity, error) {
	username, role, ok := strings.Cut(token, ":")
	if !ok {
		return domain.Identity{}, domain.ErrMalformedCredential
	}
	id := domain.Identity{Username: username, Role: domain.Role(role)}
	if err := id.Validate(); err != nil {
		return domain.Identity{}, err
	}
	return id, nil
}

type memStore struct {
	mu      sync.Mutex
	rec     domain.PersistedCredential
	loadErr error
	saveErr error
	// Clear fails with clearErr, leaving the record, clearFails times.
	clearErr   error
	clearFails int
	clears     int
	saves      int
}

func (m *memStore) Load(context.Context) (domain.PersistedCredential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rec, m.loadErr
}

func (m *memStore) Save(_ context.Context, rec domain.PersistedCredential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.rec = rec
	return nil
}

func (m *memStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clears++
	if m.clearFails > 0 {
		m.clearFails--
		return m.clearErr
	}
	m.rec = domain.PersistedCredential{}
	return nil
}

func (m *memStore) record() domain.PersistedCredential {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rec
}

// stubCartAPI keeps one cart per user and prices lines from its own catalog,
// the way the real backend does. The caller is whoever the session says.
type stubCartAPI struct {
	session ports.IdentitySource

	mu       sync.Mutex
	carts    map[string][]domain.LineItem
	prices   map[string]float64
	gets     int
	mutErr   error
	getErr   error
	onGet    func(username string)
	mutCalls int
}

func newStubCartAPI(session ports.IdentitySource) *stubCartAPI {
	return &stubCartAPI{
		session: session,
		carts:   make(map[string][]domain.LineItem),
		prices:  make(map[string]float64),
	}
}

func (c *stubCartAPI) caller() (string, error) {
	id := c.session.Identity()
	if id == nil {
		return "", &domain.APIError{Status: 401, Message: "missing token"}
	}
	return id.Username, nil
}

func (c *stubCartAPI) GetCart(context.Context) (domain.Cart, error) {
	user, err := c.caller()
	if err != nil {
		return domain.Cart{}, err
	}

	c.mu.Lock()
	c.gets++
	hook := c.onGet
	c.mu.Unlock()
	if hook != nil {
		hook(user)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return domain.Cart{}, c.getErr
	}
	cart := domain.Cart{Items: append([]domain.LineItem(nil), c.carts[user]...)}
	for _, it := range cart.Items {
		cart.TotalItems += it.Quantity
		cart.TotalPrice += it.Price * float64(it.Quantity)
	}
	return cart, nil
}

func (c *stubCartAPI) AddItem(_ context.Context, item domain.LineItem) error {
	user, err := c.caller()
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mutCalls++
	if c.mutErr != nil {
		return c.mutErr
	}
	if p, ok := c.prices[item.ProductID]; ok {
		item.Price = p
	}
	items := c.carts[user]
	for i := range items {
		if items[i].ProductID == item.ProductID {
			items[i].Quantity += item.Quantity
			return nil
		}
	}
	c.carts[user] = append(items, item)
	return nil
}

func (c *stubCartAPI) UpdateItem(_ context.Context, productID string, quantity int) error {
	user, err := c.caller()
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mutCalls++
	if c.mutErr != nil {
		return c.mutErr
	}
	items := c.carts[user]
	for i := range items {
		if items[i].ProductID == productID {
			// A zero quantity stays on the backend; clients treat it as absent.
			items[i].Quantity = quantity
			return nil
		}
	}
	return &domain.APIError{Status: 404, Message: "item not in cart"}
}

func (c *stubCartAPI) RemoveItem(_ context.Context, productID string) error {
	user, err := c.caller()
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mutCalls++
	if c.mutErr != nil {
		return c.mutErr
	}
	items := c.carts[user]
	for i := range items {
		if items[i].ProductID == productID {
			c.carts[user] = append(items[:i], items[i+1:]...)
			return nil
		}
	}
	return &domain.APIError{Status: 404, Message: "item not in cart"}
}

func (c *stubCartAPI) ClearCart(context.Context) error {
	user, err := c.caller()
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mutCalls++
	if c.mutErr != nil {
		return c.mutErr
	}
	delete(c.carts, user)
	return nil
}

func (c *stubCartAPI) getCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gets
}

var errNetwork = errors.New("dial tcp: connection refused")
