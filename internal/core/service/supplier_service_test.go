package service

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/rs/zerolog"

	"github.com/marketplace/storefront/internal/core/domain"
)

type stubSupplierAPI struct {
	suppliers map[string]domain.Supplier
	calls     int
}

func newStubSupplierAPI() *stubSupplierAPI {
	return &stubSupplierAPI{suppliers: map[string]domain.Supplier{
		"SUP01": {Code: "SUP01", Name: "Acme Devices", Status: domain.StatusActive},
		"SUP02": {Code: "SUP02", Name: "Cable Co", Status: domain.StatusInactive},
	}}
}

func (a *stubSupplierAPI) ListSuppliers(_ context.Context, filter domain.SupplierFilter) ([]domain.Supplier, error) {
	var out []domain.Supplier
	for _, s := range a.suppliers {
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (a *stubSupplierAPI) GetSupplier(_ context.Context, code string) (*domain.Supplier, error) {
	s, ok := a.suppliers[code]
	if !ok {
		return nil, &domain.APIError{Status: 404, Message: "supplier not found"}
	}
	return &s, nil
}

func (a *stubSupplierAPI) CreateSupplier(_ context.Context, in domain.NewSupplier) (*domain.Supplier, error) {
	a.calls++
	if _, ok := a.suppliers[in.Code]; ok {
		return nil, &domain.APIError{Status: 409, Message: "supplier already exists"}
	}
	s := domain.Supplier{Code: in.Code, Name: in.Name, Phone: in.Phone, Email: in.Email, Address: in.Address, Status: domain.StatusActive}
	a.suppliers[in.Code] = s
	return &s, nil
}

func (a *stubSupplierAPI) UpdateSupplier(_ context.Context, code string, update domain.SupplierUpdate) (*domain.Supplier, error) {
	a.calls++
	s, ok := a.suppliers[code]
	if !ok {
		return nil, &domain.APIError{Status: 404, Message: "supplier not found"}
	}
	if update.Name != nil {
		s.Name = *update.Name
	}
	if update.Email != nil {
		s.Email = *update.Email
	}
	a.suppliers[code] = s
	return &s, nil
}

func (a *stubSupplierAPI) DeleteSupplier(_ context.Context, code string) error {
	a.calls++
	s, ok := a.suppliers[code]
	if !ok {
		return &domain.APIError{Status: 404, Message: "supplier not found"}
	}
	if s.Active() {
		return &domain.APIError{Status: 409, Message: "supplier is active"}
	}
	delete(a.suppliers, code)
	return nil
}

func (a *stubSupplierAPI) SetSupplierStatus(_ context.Context, code, status string) (*domain.Supplier, error) {
	a.calls++
	s, ok := a.suppliers[code]
	if !ok {
		return nil, &domain.APIError{Status: 404, Message: "supplier not found"}
	}
	s.Status = status
	a.suppliers[code] = s
	return &s, nil
}

func TestSupplierService_ReadsNeedNoIdentity(t *testing.T) {
	f := newCartFixture(t)
	svc := NewSupplierService(newStubSupplierAPI(), f.session, zerolog.Nop())
	ctx := context.Background()

	all, err := svc.List(ctx, domain.SupplierFilter{})
	if err != nil || len(all) != 2 {
		t.Fatalf("unexpected result: %v, %v", all, err)
	}
	active, err := svc.List(ctx, domain.SupplierFilter{Status: domain.StatusActive})
	if err != nil || len(active) != 1 || active[0].Code != "SUP01" {
		t.Fatalf("unexpected active suppliers: %v, %v", active, err)
	}
	if _, err := svc.List(ctx, domain.SupplierFilter{Status: "paused"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown status, got %v", err)
	}
	if _, err := svc.Get(ctx, "SUP09"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSupplierService_WritesAreAdminOnly(t *testing.T) {
	f := newCartFixture(t)
	api := newStubSupplierAPI()
	svc := NewSupplierService(api, f.session, zerolog.Nop())
	ctx := context.Background()
	in := domain.NewSupplier{Code: "SUP03", Name: "Desk Works", Phone: "555-0199", Email: "sales@desk.example", Address: "3 Oak Rd"}

	if _, err := svc.Create(ctx, in); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
	f.login(t, "alice")
	if _, err := svc.Create(ctx, in); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Deactivate(ctx, "SUP01"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(ctx, "SUP02"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if api.calls != 0 {
		t.Fatalf("expected no backend calls for a shopper, got %d", api.calls)
	}
}

func TestSupplierService_AdminLifecycle(t *testing.T) {
	f := newCartFixture(t)
	api := newStubSupplierAPI()
	svc := NewSupplierService(api, f.session, zerolog.Nop())
	ctx := context.Background()
	f.login(t, "root")

	bad := domain.NewSupplier{Code: "SUP03", Name: "Desk Works", Phone: "555-0199", Email: "not-an-email", Address: "3 Oak Rd"}
	if _, err := svc.Create(ctx, bad); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad email, got %v", err)
	}
	if api.calls != 0 {
		t.Fatal("invalid input must not reach the backend")
	}

	good := bad
	good.Email = "sales@desk.example"
	created, err := svc.Create(ctx, good)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if !created.Active() {
		t.Fatalf("expected new supplier to be active, got %s", created.Status)
	}

	name := "Desk Works Ltd"
	updated, err := svc.Update(ctx, "SUP03", domain.SupplierUpdate{Name: &name})
	if err != nil || updated.Name != name {
		t.Fatalf("unexpected update result: %+v, %v", updated, err)
	}
	if _, err := svc.Update(ctx, "SUP03", domain.SupplierUpdate{}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty update, got %v", err)
	}

	if err := svc.Delete(ctx, "SUP03"); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict deleting an active supplier, got %v", err)
	}
	deactivated, err := svc.Deactivate(ctx, "SUP03")
	if err != nil || deactivated.Active() {
		t.Fatalf("unexpected deactivate result: %+v, %v", deactivated, err)
	}
	if err := svc.Delete(ctx, "SUP03"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	activated, err := svc.Activate(ctx, "SUP02")
	if err != nil || !activated.Active() {
		t.Fatalf("unexpected activate result: %+v, %v", activated, err)
	}
}
