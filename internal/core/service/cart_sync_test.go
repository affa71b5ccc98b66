package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/marketplace/storefront/internal/core/domain"
	"github.com/marketplace/storefront/internal/core/ports"
)

type cartFixture struct {
	store   *memStore
	session *SessionStore
	api     *stubCartAPI
	cart    *CartSynchronizer
}

func newCartFixture(t *testing.T) *cartFixture {
	t.Helper()
	store := &memStore{}
	session, _ := newTestSession(store)
	api := newStubCartAPI(session)
	cart := NewCartSynchronizer(api, session, zerolog.Nop())
	t.Cleanup(cart.Close)
	return &cartFixture{store: store, session: session, api: api, cart: cart}
}

func (f *cartFixture) login(t *testing.T, username string) {
	t.Helper()
	if _, err := f.session.Login(context.Background(), username, "pw"); err != nil {
		t.Fatalf("Login(%s) returned error: %v", username, err)
	}
}

func isEmptyCart(c domain.Cart) bool {
	return len(c.Items) == 0 && c.TotalItems == 0 && c.TotalPrice == 0
}

func TestCartSynchronizer_AnonymousRefresh(t *testing.T) {
	f := newCartFixture(t)

	if err := f.cart.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if !isEmptyCart(f.cart.Cart()) {
		t.Fatalf("expected empty cart, got %+v", f.cart.Cart())
	}
	if f.api.getCount() != 0 {
		t.Fatalf("expected zero network calls, got %d", f.api.getCount())
	}
	if f.cart.Loading() {
		t.Fatal("expected loading to be false")
	}
}

func TestCartSynchronizer_TotalsComeFromBackend(t *testing.T) {
	f := newCartFixture(t)
	f.api.prices["P1"] = 1200
	f.login(t, "alice")
	ctx := context.Background()

	if err := f.cart.AddItem(ctx, domain.LineItem{ProductID: "P1", ProductName: "Mouse", Price: 1000, Quantity: 1}); err != nil {
		t.Fatalf("AddItem returned error: %v", err)
	}
	if err := f.cart.AddItem(ctx, domain.LineItem{ProductID: "P2", ProductName: "Pad", Price: 50, Quantity: 2}); err != nil {
		t.Fatalf("AddItem returned error: %v", err)
	}
	if err := f.cart.UpdateItem(ctx, "P2", 3); err != nil {
		t.Fatalf("UpdateItem returned error: %v", err)
	}

	c := f.cart.Cart()
	if _, ok := c.Item("P1"); !ok {
		t.Fatalf("expected P1 in cart, got %+v", c.Items)
	}
	if c.TotalPrice != 1200+150 {
		t.Fatalf("expected backend total 1350, got %v", c.TotalPrice)
	}

	sumQty := 0
	sumPrice := 0.0
	for _, it := range c.Items {
		sumQty += it.Quantity
		sumPrice += it.Price * float64(it.Quantity)
	}
	if c.TotalItems != sumQty || c.TotalPrice != sumPrice {
		t.Fatalf("totals %d/%v do not match lines %d/%v", c.TotalItems, c.TotalPrice, sumQty, sumPrice)
	}
}

func TestCartSynchronizer_UpdateToZeroRemovesLine(t *testing.T) {
	f := newCartFixture(t)
	f.login(t, "alice")
	ctx := context.Background()

	if err := f.cart.AddItem(ctx, domain.LineItem{ProductID: "P1", ProductName: "Mouse", Price: 10, Quantity: 1}); err != nil {
		t.Fatalf("AddItem returned error: %v", err)
	}
	if err := f.cart.UpdateItem(ctx, "P1", 0); err != nil {
		t.Fatalf("UpdateItem returned error: %v", err)
	}
	if _, ok := f.cart.Cart().Item("P1"); ok {
		t.Fatal("expected P1 to be absent")
	}
}

func TestCartSynchronizer_RemoveAndClear(t *testing.T) {
	f := newCartFixture(t)
	f.login(t, "alice")
	ctx := context.Background()

	for _, id := range []string{"P1", "P2"} {
		if err := f.cart.AddItem(ctx, domain.LineItem{ProductID: id, ProductName: id, Price: 1, Quantity: 1}); err != nil {
			t.Fatalf("AddItem(%s) returned error: %v", id, err)
		}
	}
	if err := f.cart.RemoveItem(ctx, "P1"); err != nil {
		t.Fatalf("RemoveItem returned error: %v", err)
	}
	if _, ok := f.cart.Cart().Item("P1"); ok {
		t.Fatal("expected P1 to be removed")
	}
	if err := f.cart.Clear(ctx); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	if !isEmptyCart(f.cart.Cart()) {
		t.Fatalf("expected empty cart, got %+v", f.cart.Cart())
	}
}

func TestCartSynchronizer_MutatorFailureLeavesCart(t *testing.T) {
	f := newCartFixture(t)
	f.login(t, "alice")
	ctx := context.Background()

	if err := f.cart.AddItem(ctx, domain.LineItem{ProductID: "P1", ProductName: "Mouse", Price: 10, Quantity: 1}); err != nil {
		t.Fatalf("AddItem returned error: %v", err)
	}
	before := f.cart.Cart()
	gets := f.api.getCount()

	f.api.mutErr = errNetwork
	err := f.cart.AddItem(ctx, domain.LineItem{ProductID: "P2", ProductName: "Pad", Price: 5, Quantity: 1})
	if !errors.Is(err, errNetwork) {
		t.Fatalf("expected transport error, got %v", err)
	}

	after := f.cart.Cart()
	if len(after.Items) != len(before.Items) || after.TotalPrice != before.TotalPrice {
		t.Fatalf("cart changed after failed mutation: %+v -> %+v", before, after)
	}
	if f.cart.Loading() {
		t.Fatal("expected loading to be false")
	}
	if f.api.getCount() != gets {
		t.Fatal("failed mutation must not trigger a refresh")
	}
}

func TestCartSynchronizer_RefreshFailureKeepsLastCart(t *testing.T) {
	f := newCartFixture(t)
	f.login(t, "alice")
	ctx := context.Background()

	if err := f.cart.AddItem(ctx, domain.LineItem{ProductID: "P1", ProductName: "Mouse", Price: 10, Quantity: 2}); err != nil {
		t.Fatalf("AddItem returned error: %v", err)
	}

	f.api.getErr = errNetwork
	if err := f.cart.Refresh(ctx); !errors.Is(err, errNetwork) {
		t.Fatalf("expected refresh error, got %v", err)
	}
	if it, ok := f.cart.Cart().Item("P1"); !ok || it.Quantity != 2 {
		t.Fatalf("expected last known cart, got %+v", f.cart.Cart())
	}
	if f.cart.Loading() {
		t.Fatal("expected loading to be false")
	}
}

func TestCartSynchronizer_LogoutEmptiesWithoutNetwork(t *testing.T) {
	f := newCartFixture(t)
	f.login(t, "alice")
	ctx := context.Background()

	if err := f.cart.AddItem(ctx, domain.LineItem{ProductID: "P1", ProductName: "Mouse", Price: 10, Quantity: 1}); err != nil {
		t.Fatalf("AddItem returned error: %v", err)
	}
	gets := f.api.getCount()

	f.session.Logout(ctx)
	if !isEmptyCart(f.cart.Cart()) {
		t.Fatalf("expected empty cart after logout, got %+v", f.cart.Cart())
	}
	if err := f.cart.Refresh(ctx); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if !isEmptyCart(f.cart.Cart()) {
		t.Fatalf("expected empty cart, got %+v", f.cart.Cart())
	}
	if f.api.getCount() != gets {
		t.Fatalf("expected no network calls after logout, got %d", f.api.getCount()-gets)
	}
}

func TestCartSynchronizer_AnonymousMutatorRefused(t *testing.T) {
	f := newCartFixture(t)

	err := f.cart.AddItem(context.Background(), domain.LineItem{ProductID: "P1", ProductName: "Mouse", Price: 10, Quantity: 1})
	if !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
	if f.api.mutCalls != 0 {
		t.Fatal("expected no backend call")
	}
}

func TestCartSynchronizer_InvalidInputRejectedLocally(t *testing.T) {
	f := newCartFixture(t)
	f.login(t, "alice")
	ctx := context.Background()

	if err := f.cart.AddItem(ctx, domain.LineItem{ProductID: "P1", ProductName: "Mouse", Quantity: 0}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for zero quantity, got %v", err)
	}
	if err := f.cart.AddItem(ctx, domain.LineItem{ProductName: "Mouse", Quantity: 1}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing product, got %v", err)
	}
	if err := f.cart.UpdateItem(ctx, "P1", -1); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative quantity, got %v", err)
	}
	if err := f.cart.RemoveItem(ctx, ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty id, got %v", err)
	}
	if f.api.mutCalls != 0 {
		t.Fatalf("expected no backend calls, got %d", f.api.mutCalls)
	}
}

func TestCartSynchronizer_IdentitySwitchNeverLeaksCart(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	f.api.carts["alice"] = []domain.LineItem{{ProductID: "A1", ProductName: "Alice thing", Price: 1, Quantity: 1}}
	f.api.carts["bob"] = []domain.LineItem{{ProductID: "B1", ProductName: "Bob thing", Price: 2, Quantity: 1}}

	var mu sync.Mutex
	var leaks []domain.Cart
	f.cart.Subscribe(func(st CartState) {
		id := f.session.Identity()
		if id == nil || id.Username != "bob" {
			return
		}
		if _, ok := st.Cart.Item("A1"); ok {
			mu.Lock()
			leaks = append(leaks, st.Cart)
			mu.Unlock()
		}
	})

	f.login(t, "alice")
	if _, ok := f.cart.Cart().Item("A1"); !ok {
		t.Fatalf("expected alice's cart, got %+v", f.cart.Cart())
	}

	f.login(t, "bob")
	c := f.cart.Cart()
	if _, ok := c.Item("B1"); !ok {
		t.Fatalf("expected bob's cart, got %+v", c)
	}
	if _, ok := c.Item("A1"); ok {
		t.Fatal("bob's cart contains alice's item")
	}

	if err := f.cart.Refresh(ctx); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(leaks) != 0 {
		t.Fatalf("observed alice's items while bob was logged in: %+v", leaks)
	}
}

func TestCartSynchronizer_SessionListenersNeverSeePreviousCart(t *testing.T) {
	// Session listeners run in no particular order, so some of these run
	// before the synchronizer has reset.
	for run := 0; run < 50; run++ {
		store := &memStore{}
		session, _ := newTestSession(store)
		api := newStubCartAPI(session)
		api.carts["alice"] = []domain.LineItem{{ProductID: "A1", ProductName: "Alice thing", Price: 1, Quantity: 1}}
		api.carts["bob"] = []domain.LineItem{{ProductID: "B1", ProductName: "Bob thing", Price: 2, Quantity: 1}}

		var cart *CartSynchronizer
		var leaked []string
		observe := func(name string) ports.IdentityListener {
			return func(_ context.Context, c ports.IdentityChange) {
				if c.Current == nil || c.Current.Username != "bob" {
					return
				}
				if _, ok := cart.Cart().Item("A1"); ok {
					leaked = append(leaked, name)
				}
			}
		}

		session.Subscribe(observe("before"))
		cart = NewCartSynchronizer(api, session, zerolog.Nop())
		session.Subscribe(observe("after"))

		if _, err := session.Login(context.Background(), "alice", "pw"); err != nil {
			t.Fatalf("Login(alice) returned error: %v", err)
		}
		if _, ok := cart.Cart().Item("A1"); !ok {
			t.Fatalf("expected alice's cart, got %+v", cart.Cart())
		}
		if _, err := session.Login(context.Background(), "bob", "pw"); err != nil {
			t.Fatalf("Login(bob) returned error: %v", err)
		}
		cart.Close()

		if len(leaked) != 0 {
			t.Fatalf("run %d: listeners %v saw alice's cart under bob", run, leaked)
		}
		if _, ok := cart.Cart().Item("B1"); !ok {
			t.Fatalf("run %d: expected bob's cart, got %+v", run, cart.Cart())
		}
	}
}

func TestCartSynchronizer_AddItemNeedsOnlyProductAndQuantity(t *testing.T) {
	f := newCartFixture(t)
	f.api.prices["P1"] = 1000
	f.login(t, "alice")

	if err := f.cart.AddItem(context.Background(), domain.LineItem{ProductID: "P1", Quantity: 1, Price: 1000}); err != nil {
		t.Fatalf("AddItem returned error: %v", err)
	}
	if f.api.mutCalls != 1 {
		t.Fatalf("expected one backend call, got %d", f.api.mutCalls)
	}
	c := f.cart.Cart()
	if line, ok := c.Item("P1"); !ok || line.Quantity != 1 {
		t.Fatalf("expected P1 x1, got %+v", c.Items)
	}
	if c.TotalItems != 1 || c.TotalPrice != 1000 {
		t.Fatalf("expected backend totals 1/1000, got %d/%v", c.TotalItems, c.TotalPrice)
	}
}

func TestCartSynchronizer_DiscardsStaleRefresh(t *testing.T) {
	f := newCartFixture(t)
	f.api.carts["alice"] = []domain.LineItem{{ProductID: "A1", ProductName: "Alice thing", Price: 1, Quantity: 1}}
	f.login(t, "alice")
	ctx := context.Background()

	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	f.api.mu.Lock()
	f.api.onGet = func(string) {
		once.Do(func() {
			close(entered)
			<-release
		})
	}
	f.api.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- f.cart.Refresh(ctx) }()

	<-entered
	if !f.cart.Loading() {
		t.Fatal("expected loading while refresh is in flight")
	}

	f.session.Logout(ctx)
	close(release)

	if err := <-done; err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if !isEmptyCart(f.cart.Cart()) {
		t.Fatalf("late result for alice was applied after logout: %+v", f.cart.Cart())
	}
	if f.cart.Loading() {
		t.Fatal("expected loading to be false")
	}
}

func TestCartSynchronizer_OlderRefreshDoesNotOverwriteNewer(t *testing.T) {
	f := newCartFixture(t)
	f.api.carts["alice"] = []domain.LineItem{{ProductID: "A1", ProductName: "old", Price: 1, Quantity: 1}}
	f.login(t, "alice")
	ctx := context.Background()

	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	f.api.mu.Lock()
	f.api.onGet = func(string) {
		once.Do(func() {
			close(entered)
			<-release
		})
	}
	f.api.mu.Unlock()

	// Hold the first refresh inside GetCart while a second one completes.
	done := make(chan error, 1)
	go func() { done <- f.cart.Refresh(ctx) }()
	<-entered

	f.api.mu.Lock()
	f.api.carts["alice"] = []domain.LineItem{{ProductID: "A2", ProductName: "new", Price: 1, Quantity: 1}}
	f.api.mu.Unlock()
	if err := f.cart.Refresh(ctx); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if _, ok := f.cart.Cart().Item("A2"); !ok {
		t.Fatalf("expected newer cart, got %+v", f.cart.Cart())
	}

	f.api.mu.Lock()
	f.api.carts["alice"] = []domain.LineItem{{ProductID: "A1", ProductName: "old", Price: 1, Quantity: 1}}
	f.api.mu.Unlock()
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}

	if _, ok := f.cart.Cart().Item("A2"); !ok {
		t.Fatalf("older refresh overwrote newer state: %+v", f.cart.Cart())
	}
}

func TestCartSynchronizer_LoadingObservedBySubscribers(t *testing.T) {
	f := newCartFixture(t)
	f.login(t, "alice")

	var states []CartState
	f.cart.Subscribe(func(st CartState) { states = append(states, st) })

	if err := f.cart.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if len(states) != 2 || !states[0].Loading || states[1].Loading {
		t.Fatalf("expected loading true then false, got %+v", states)
	}
}
