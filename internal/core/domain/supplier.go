package domain

import "time"

// Catalog entries and suppliers are either active or inactive.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Supplier is a vendor whose products the storefront sells. Code is the
// identifier products refer to as supplier_id.
type Supplier struct {
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Active reports whether the supplier is currently trading.
func (s Supplier) Active() bool {
	return s.Status == StatusActive
}

// NewSupplier is the admin payload for registering a supplier. Status
// defaults to active.
type NewSupplier struct {
	Code    string `json:"code"             validate:"required"`
	Name    string `json:"name"             validate:"required"`
	Phone   string `json:"phone"            validate:"required"`
	Email   string `json:"email"            validate:"required,email"`
	Address string `json:"address"          validate:"required"`
	Status  string `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

// SupplierUpdate changes a supplier's details. Nil fields are left alone;
// status moves only through activate and deactivate.
type SupplierUpdate struct {
	Name    *string `json:"name,omitempty"    validate:"omitempty,min=1"`
	Phone   *string `json:"phone,omitempty"   validate:"omitempty,min=1"`
	Email   *string `json:"email,omitempty"   validate:"omitempty,email"`
	Address *string `json:"address,omitempty" validate:"omitempty,min=1"`
}

// Empty reports whether the update changes nothing.
func (u SupplierUpdate) Empty() bool {
	return u.Name == nil && u.Phone == nil && u.Email == nil && u.Address == nil
}

// SupplierFilter narrows a supplier listing. Empty fields are ignored.
type SupplierFilter struct {
	Code   string
	Name   string
	Status string
}
