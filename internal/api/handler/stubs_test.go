package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/marketplace/storefront/internal/api/middleware"
	"github.com/marketplace/storefront/internal/core/domain"
)

type stubAccounts struct {
	registerFn func(ctx context.Context, username, password string) (*domain.User, error)
	loginFn    func(ctx context.Context, username, password string) (string, error)
}

func (s *stubAccounts) Register(ctx context.Context, username, password string) (*domain.User, error) {
	return s.registerFn(ctx, username, password)
}

func (s *stubAccounts) Login(ctx context.Context, username, password string) (string, error) {
	return s.loginFn(ctx, username, password)
}

type stubCarts struct {
	getFn    func(ctx context.Context, username string) (domain.Cart, error)
	addFn    func(ctx context.Context, username string, item domain.LineItem) error
	setFn    func(ctx context.Context, username, productID string, quantity int) error
	removeFn func(ctx context.Context, username, productID string) error
	clearFn  func(ctx context.Context, username string) error
}

func (s *stubCarts) Get(ctx context.Context, username string) (domain.Cart, error) {
	if s.getFn == nil {
		return domain.EmptyCart(), nil
	}
	return s.getFn(ctx, username)
}

func (s *stubCarts) Add(ctx context.Context, username string, item domain.LineItem) error {
	return s.addFn(ctx, username, item)
}

func (s *stubCarts) SetQuantity(ctx context.Context, username, productID string, quantity int) error {
	return s.setFn(ctx, username, productID, quantity)
}

func (s *stubCarts) Remove(ctx context.Context, username, productID string) error {
	return s.removeFn(ctx, username, productID)
}

func (s *stubCarts) Clear(ctx context.Context, username string) error {
	return s.clearFn(ctx, username)
}

type stubProducts struct {
	listFn   func(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	getFn    func(ctx context.Context, code string) (*domain.Product, error)
	createFn func(ctx context.Context, product domain.NewProduct) (*domain.Product, error)
	updateFn func(ctx context.Context, code string, update domain.ProductUpdate) (*domain.Product, error)
	deleteFn func(ctx context.Context, code string) error
}

func (s *stubProducts) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	return s.listFn(ctx, filter)
}

func (s *stubProducts) Get(ctx context.Context, code string) (*domain.Product, error) {
	return s.getFn(ctx, code)
}

func (s *stubProducts) Create(ctx context.Context, product domain.NewProduct) (*domain.Product, error) {
	return s.createFn(ctx, product)
}

func (s *stubProducts) Update(ctx context.Context, code string, update domain.ProductUpdate) (*domain.Product, error) {
	return s.updateFn(ctx, code, update)
}

func (s *stubProducts) Delete(ctx context.Context, code string) error {
	return s.deleteFn(ctx, code)
}

type stubSuppliers struct {
	listFn      func(ctx context.Context, filter domain.SupplierFilter) ([]domain.Supplier, error)
	getFn       func(ctx context.Context, code string) (*domain.Supplier, error)
	createFn    func(ctx context.Context, supplier domain.NewSupplier) (*domain.Supplier, error)
	updateFn    func(ctx context.Context, code string, update domain.SupplierUpdate) (*domain.Supplier, error)
	deleteFn    func(ctx context.Context, code string) error
	setStatusFn func(ctx context.Context, code, status string) (*domain.Supplier, error)
}

func (s *stubSuppliers) List(ctx context.Context, filter domain.SupplierFilter) ([]domain.Supplier, error) {
	return s.listFn(ctx, filter)
}

func (s *stubSuppliers) Get(ctx context.Context, code string) (*domain.Supplier, error) {
	return s.getFn(ctx, code)
}

func (s *stubSuppliers) Create(ctx context.Context, supplier domain.NewSupplier) (*domain.Supplier, error) {
	return s.createFn(ctx, supplier)
}

func (s *stubSuppliers) Update(ctx context.Context, code string, update domain.SupplierUpdate) (*domain.Supplier, error) {
	return s.updateFn(ctx, code, update)
}

func (s *stubSuppliers) Delete(ctx context.Context, code string) error {
	return s.deleteFn(ctx, code)
}

func (s *stubSuppliers) SetStatus(ctx context.Context, code, status string) (*domain.Supplier, error) {
	return s.setStatusFn(ctx, code, status)
}

type stubOrders struct {
	listFn   func(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	getFn    func(ctx context.Context, orderID string) (*domain.Order, error)
	createFn func(ctx context.Context, customerID string, order domain.NewOrder) (*domain.Order, error)
	updateFn func(ctx context.Context, orderID string, update domain.StatusUpdate) (*domain.Order, error)
	deleteFn func(ctx context.Context, orderID string) error
}

func (s *stubOrders) List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	return s.listFn(ctx, filter)
}

func (s *stubOrders) Get(ctx context.Context, orderID string) (*domain.Order, error) {
	return s.getFn(ctx, orderID)
}

func (s *stubOrders) Create(ctx context.Context, customerID string, order domain.NewOrder) (*domain.Order, error) {
	return s.createFn(ctx, customerID, order)
}

func (s *stubOrders) Update(ctx context.Context, orderID string, update domain.StatusUpdate) (*domain.Order, error) {
	return s.updateFn(ctx, orderID, update)
}

func (s *stubOrders) Delete(ctx context.Context, orderID string) error {
	return s.deleteFn(ctx, orderID)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

// newJSONContext builds a context for method/target with an optional JSON
// body, authenticated as id when id is non-nil.
func newJSONContext(e *echo.Echo, method, target string, body io.Reader, id *domain.Identity) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if id != nil {
		c.Set(middleware.ContextUsername, id.Username)
		c.Set(middleware.ContextRole, string(id.Role))
	}
	return c, rec
}

func httpErrorCode(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T (%v)", err, err)
	}
	return he.Code
}

var (
	alice = &domain.Identity{Username: "alice", Role: domain.RoleUser}
	admin = &domain.Identity{Username: "admin", Role: domain.RoleAdmin}
)
