package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/marketplace/storefront/internal/core/domain"
	"github.com/marketplace/storefront/internal/core/ports"
	"github.com/marketplace/storefront/internal/metrics"
)

// CartState is what observers of the synchronizer see.
type CartState struct {
	Cart    domain.Cart
	Loading bool
}

// CartListener receives a snapshot after every state change.
type CartListener func(CartState)

// CartSynchronizer keeps a local mirror of the backend cart for the current
// identity. Every mutation goes through the backend and is followed by a
// refetch; the local cart is never edited optimistically.
type CartSynchronizer struct {
	api      ports.CartAPI
	session  ports.IdentitySource
	validate *validator.Validate
	log      zerolog.Logger

	// mutateMu serializes mutators so their follow-up refreshes are issued
	// in submission order.
	mutateMu sync.Mutex

	mu         sync.Mutex
	cart       domain.Cart
	owner      *domain.Identity
	generation uint64
	issued     uint64
	applied    uint64
	inFlight   int
	listeners  map[int]CartListener
	nextID     int

	unsubscribe func()
}

// NewCartSynchronizer builds a synchronizer bound to session. The cart starts
// empty; it is refetched on every identity change.
func NewCartSynchronizer(api ports.CartAPI, session ports.IdentitySource, log zerolog.Logger) *CartSynchronizer {
	s := &CartSynchronizer{
		api:       api,
		session:   session,
		validate:  validator.New(),
		log:       log,
		cart:      domain.EmptyCart(),
		listeners: make(map[int]CartListener),
	}
	s.unsubscribe = session.Subscribe(s.onIdentityChanged)
	return s
}

// Close detaches the synchronizer from the session.
func (s *CartSynchronizer) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

// Cart returns a copy of the last applied cart. It is empty whenever the
// cart belongs to someone other than the current identity, which covers the
// window between a session switch and onIdentityChanged running.
func (s *CartSynchronizer) Cart() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visibleLocked()
}

// Loading reports whether a network refresh is in flight.
func (s *CartSynchronizer) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight > 0
}

// Subscribe registers a listener for cart state changes.
func (s *CartSynchronizer) Subscribe(listener CartListener) func() {
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

// Refresh replaces the local cart with the backend's. Anonymous sessions get
// the empty cart without a network call. On failure the last known cart is
// kept and the error returned.
func (s *CartSynchronizer) Refresh(ctx context.Context) error {
	s.mu.Lock()
	identity := s.session.Identity()
	if identity == nil {
		s.resetLocked(nil)
		state, listeners := s.snapshotLocked()
		s.mu.Unlock()

		metrics.CartRefreshTotal.WithLabelValues("anonymous").Inc()
		s.notify(state, listeners)
		return nil
	}

	if !domain.SameIdentity(s.owner, identity) {
		s.resetLocked(identity)
	}
	gen := s.generation
	s.issued++
	seq := s.issued
	s.inFlight++
	state, listeners := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(state, listeners)

	cart, err := s.api.GetCart(ctx)

	s.mu.Lock()
	s.inFlight--
	current := s.session.Identity()
	stale := gen != s.generation || seq <= s.applied || !domain.SameIdentity(current, identity)
	if err == nil && !stale {
		s.cart = cart.Normalize()
		s.applied = seq
	}
	state, listeners = s.snapshotLocked()
	s.mu.Unlock()
	s.notify(state, listeners)

	switch {
	case err != nil:
		metrics.CartRefreshTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("refresh cart: %w", err)
	case stale:
		metrics.CartRefreshTotal.WithLabelValues("stale").Inc()
		s.log.Debug().Uint64("seq", seq).Str("username", identity.Username).Msg("discarding stale cart refresh")
	default:
		metrics.CartRefreshTotal.WithLabelValues("applied").Inc()
	}
	return nil
}

// AddItem adds item to the cart. The backend merges quantities for a product
// already present.
func (s *CartSynchronizer) AddItem(ctx context.Context, item domain.LineItem) error {
	if err := s.validate.Struct(item); err != nil {
		return fmt.Errorf("add item: %w: %v", domain.ErrInvalidInput, err)
	}
	return s.mutate(ctx, "add", func(ctx context.Context) error {
		return s.api.AddItem(ctx, item)
	})
}

// UpdateItem sets the quantity of a line. A quantity of 0 removes it.
func (s *CartSynchronizer) UpdateItem(ctx context.Context, productID string, quantity int) error {
	if err := s.validate.Var(productID, "required"); err != nil {
		return fmt.Errorf("update item: product id: %w", domain.ErrInvalidInput)
	}
	if err := s.validate.Var(quantity, "gte=0"); err != nil {
		return fmt.Errorf("update item: quantity must not be negative: %w", domain.ErrInvalidInput)
	}
	return s.mutate(ctx, "update", func(ctx context.Context) error {
		return s.api.UpdateItem(ctx, productID, quantity)
	})
}

// RemoveItem drops a line from the cart.
func (s *CartSynchronizer) RemoveItem(ctx context.Context, productID string) error {
	if err := s.validate.Var(productID, "required"); err != nil {
		return fmt.Errorf("remove item: product id: %w", domain.ErrInvalidInput)
	}
	return s.mutate(ctx, "remove", func(ctx context.Context) error {
		return s.api.RemoveItem(ctx, productID)
	})
}

// Clear empties the cart.
func (s *CartSynchronizer) Clear(ctx context.Context) error {
	return s.mutate(ctx, "clear", s.api.ClearCart)
}

// mutate submits a change and then refetches. A failed submission returns
// without refreshing, leaving the local cart as it was.
func (s *CartSynchronizer) mutate(ctx context.Context, op string, call func(context.Context) error) error {
	s.mutateMu.Lock()
	defer s.mutateMu.Unlock()

	if s.session.Identity() == nil {
		return fmt.Errorf("%s cart: %w", op, domain.ErrNotAuthenticated)
	}

	if err := call(ctx); err != nil {
		metrics.CartMutationsTotal.WithLabelValues(op, "error").Inc()
		s.log.Debug().Err(err).Str("op", op).Msg("cart mutation rejected")
		return fmt.Errorf("%s cart: %w", op, err)
	}
	metrics.CartMutationsTotal.WithLabelValues(op, "ok").Inc()

	return s.Refresh(ctx)
}

// onIdentityChanged drops the previous owner's cart before anything else can
// read it, then refetches for whoever is logged in now.
func (s *CartSynchronizer) onIdentityChanged(ctx context.Context, _ ports.IdentityChange) {
	s.mu.Lock()
	s.resetLocked(s.session.Identity())
	state, listeners := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(state, listeners)

	if err := s.Refresh(ctx); err != nil {
		s.log.Warn().Err(err).Msg("cart refresh after identity change failed")
	}
}

// resetLocked empties the cart and invalidates every refresh issued so far.
func (s *CartSynchronizer) resetLocked(owner *domain.Identity) {
	s.generation++
	s.applied = s.issued
	s.cart = domain.EmptyCart()
	s.owner = copyIdentity(owner)
}

// visibleLocked returns the cart only to its owner.
func (s *CartSynchronizer) visibleLocked() domain.Cart {
	if !domain.SameIdentity(s.owner, s.session.Identity()) {
		return domain.EmptyCart()
	}
	return s.cart.Clone()
}

func (s *CartSynchronizer) snapshotLocked() (CartState, []CartListener) {
	state := CartState{Cart: s.visibleLocked(), Loading: s.inFlight > 0}
	listeners := make([]CartListener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	return state, listeners
}

func (s *CartSynchronizer) notify(state CartState, listeners []CartListener) {
	for _, l := range listeners {
		l(state)
	}
}
