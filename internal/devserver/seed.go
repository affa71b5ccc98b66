package devserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/marketplace/storefront/internal/core/domain"
)

// AdminUsername is the account Seed provisions with the admin role.
const AdminUsername = "admin"

var seedSuppliers = []domain.Supplier{
	{Code: "SUP01", Name: "Acme Devices", Phone: "555-0101", Email: "sales@acme.example", Address: "1 Circuit Rd", Status: domain.StatusActive},
	{Code: "SUP02", Name: "Cable Co", Phone: "555-0102", Email: "hello@cable.example", Address: "22 Copper Ln", Status: domain.StatusActive},
	{Code: "SUP03", Name: "Desk Works", Phone: "555-0103", Email: "orders@deskworks.example", Address: "9 Oak Ave", Status: domain.StatusActive},
}

var seedProducts = []domain.Product{
	{Code: "SP001", Name: "Wireless Mouse", Category: "electronics", SupplierID: "SUP01", SupplierName: "Acme Devices", SellPrice: 19.99, TotalQuantity: 50, Status: "active", Description: "2.4GHz optical mouse"},
	{Code: "SP002", Name: "Mechanical Keyboard", Category: "electronics", SupplierID: "SUP01", SupplierName: "Acme Devices", SellPrice: 74.5, TotalQuantity: 20, Status: "active", Description: "Tenkeyless, brown switches"},
	{Code: "SP003", Name: "USB-C Cable 1m", Category: "accessories", SupplierID: "SUP02", SupplierName: "Cable Co", SellPrice: 6.25, TotalQuantity: 200, Status: "active"},
	{Code: "SP004", Name: "Laptop Stand", Category: "accessories", SupplierID: "SUP03", SupplierName: "Desk Works", SellPrice: 32, TotalQuantity: 3, Status: "active"},
	{Code: "SP005", Name: "Webcam HD", Category: "electronics", SupplierID: "SUP01", SupplierName: "Acme Devices", SellPrice: 45.9, TotalQuantity: 0, Status: "active", Description: "Currently out of stock"},
	{Code: "SP006", Name: "Desk Lamp", Category: "home", SupplierID: "SUP03", SupplierName: "Desk Works", SellPrice: 27.75, TotalQuantity: 12, Status: "inactive"},
}

// Seed loads the demo suppliers, catalog and an admin account. Running it
// twice is harmless.
func Seed(ctx context.Context, store *Store, accounts *Accounts, adminPassword string) error {
	for _, sup := range seedSuppliers {
		store.PutSupplier(sup)
	}
	for _, p := range seedProducts {
		store.PutProduct(p)
	}

	if _, err := accounts.CreateAdmin(ctx, AdminUsername, adminPassword); err != nil && !errors.Is(err, domain.ErrUserExists) {
		return fmt.Errorf("seed admin account: %w", err)
	}
	return nil
}
