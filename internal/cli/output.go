package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/marketplace/storefront/internal/core/domain"
)

var (
	primary = lipgloss.Color("#7C3AED")
	green   = lipgloss.Color("#10B981")
	amber   = lipgloss.Color("#F59E0B")
	red     = lipgloss.Color("#EF4444")
	gray    = lipgloss.Color("#6B7280")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(primary)
	okStyle      = lipgloss.NewStyle().Bold(true).Foreground(green)
	warnStyle    = lipgloss.NewStyle().Bold(true).Foreground(amber)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(red)
	mutedStyle   = lipgloss.NewStyle().Foreground(gray)
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(primary).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	numericStyle = cellStyle.Align(lipgloss.Right)
)

func printJSON(w io.Writer, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		printError(w, err)
		return
	}
	fmt.Fprintln(w, string(data))
}

// newTable renders rows under headers. Columns listed in numeric are right
// aligned.
func newTable(headers []string, rows [][]string, numeric ...int) string {
	right := make(map[int]bool, len(numeric))
	for _, col := range numeric {
		right[col] = true
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case right[col]:
				return numericStyle
			default:
				return cellStyle
			}
		}).
		String()
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatCartHuman(cart domain.Cart) string {
	if cart.IsEmpty() {
		return mutedStyle.Render("Your cart is empty.")
	}
	rows := make([][]string, 0, len(cart.Items))
	for _, it := range cart.Items {
		rows = append(rows, []string{
			it.ProductID,
			it.ProductName,
			strconv.Itoa(it.Quantity),
			money(it.Price),
			money(it.Price * float64(it.Quantity)),
		})
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Cart"))
	b.WriteString("\n")
	b.WriteString(newTable([]string{"CODE", "PRODUCT", "QTY", "PRICE", "SUBTOTAL"}, rows, 2, 3, 4))
	fmt.Fprintf(&b, "\nItems: %d   Total: %s", cart.TotalItems, money(cart.TotalPrice))
	return b.String()
}

func formatProductsHuman(products []domain.Product) string {
	if len(products) == 0 {
		return mutedStyle.Render("No products match.")
	}
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, []string{
			p.Code,
			p.Name,
			p.Category,
			money(p.SellPrice),
			stockLabel(p),
		})
	}
	return newTable([]string{"CODE", "NAME", "CATEGORY", "PRICE", "STOCK"}, rows, 3)
}

func formatProductHuman(p *domain.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", titleStyle.Render(p.Name), mutedStyle.Render("("+p.Code+")"))
	fmt.Fprintf(&b, "Price:     %s\n", money(p.SellPrice))
	fmt.Fprintf(&b, "Stock:     %s\n", stockLabel(*p))
	if p.Category != "" {
		fmt.Fprintf(&b, "Category:  %s\n", p.Category)
	}
	if p.SupplierName != "" {
		fmt.Fprintf(&b, "Supplier:  %s\n", p.SupplierName)
	}
	if p.Status != "" {
		fmt.Fprintf(&b, "Status:    %s\n", p.Status)
	}
	if p.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", p.Description)
	}
	return strings.TrimRight(b.String(), "\n")
}

func stockLabel(p domain.Product) string {
	switch {
	case p.TotalQuantity <= 0:
		return errorStyle.Render("out of stock")
	case p.TotalQuantity < 5:
		return warnStyle.Render(strconv.Itoa(p.TotalQuantity) + " left")
	default:
		return strconv.Itoa(p.TotalQuantity)
	}
}

func formatOrdersHuman(orders []domain.Order) string {
	if len(orders) == 0 {
		return mutedStyle.Render("No orders found.")
	}
	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, []string{
			o.OrderID,
			o.CreatedAt.Local().Format("2006-01-02 15:04"),
			strconv.Itoa(len(o.Items)),
			money(o.Price),
			statusLabel(string(o.OrderStatus)),
			statusLabel(string(o.PaymentStatus)),
		})
	}
	return newTable([]string{"ORDER", "PLACED", "ITEMS", "TOTAL", "STATUS", "PAYMENT"}, rows, 2, 3)
}

func formatOrderHuman(o *domain.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", titleStyle.Render("Order"), o.OrderID)
	if o.CustomerID != "" {
		fmt.Fprintf(&b, "Customer:  %s\n", o.CustomerID)
	}
	fmt.Fprintf(&b, "Placed:    %s\n", o.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Status:    %s\n", statusLabel(string(o.OrderStatus)))
	fmt.Fprintf(&b, "Payment:   %s (%s)\n", statusLabel(string(o.PaymentStatus)), o.PaymentMethod)
	fmt.Fprintf(&b, "Ship to:   %s, %s, %s\n", o.ShippingAddress.ReceiverName, o.ShippingAddress.Phone, o.ShippingAddress.FullAddress)
	if o.Note != "" {
		fmt.Fprintf(&b, "Note:      %s\n", o.Note)
	}

	rows := make([][]string, 0, len(o.Items))
	for _, it := range o.Items {
		rows = append(rows, []string{it.ProductID, it.Name, strconv.Itoa(it.Quantity), money(it.Price)})
	}
	b.WriteString(newTable([]string{"CODE", "PRODUCT", "QTY", "PRICE"}, rows, 2, 3))
	fmt.Fprintf(&b, "\nTotal: %s", money(o.Price))
	return b.String()
}

func formatSuppliersHuman(suppliers []domain.Supplier) string {
	if len(suppliers) == 0 {
		return mutedStyle.Render("No suppliers match.")
	}
	rows := make([][]string, 0, len(suppliers))
	for _, s := range suppliers {
		rows = append(rows, []string{s.Code, s.Name, s.Phone, s.Email, supplierStatusLabel(s.Status)})
	}
	return newTable([]string{"CODE", "NAME", "PHONE", "EMAIL", "STATUS"}, rows)
}

func formatSupplierHuman(s *domain.Supplier) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", titleStyle.Render(s.Name), mutedStyle.Render("("+s.Code+")"))
	fmt.Fprintf(&b, "Status:    %s\n", supplierStatusLabel(s.Status))
	fmt.Fprintf(&b, "Phone:     %s\n", s.Phone)
	fmt.Fprintf(&b, "Email:     %s\n", s.Email)
	fmt.Fprintf(&b, "Address:   %s", s.Address)
	return b.String()
}

func supplierStatusLabel(s string) string {
	if s == domain.StatusActive {
		return okStyle.Render(s)
	}
	return mutedStyle.Render(s)
}

func statusLabel(s string) string {
	switch s {
	case string(domain.OrderSuccess), string(domain.PaymentCompleted):
		return okStyle.Render(s)
	case string(domain.OrderCancelled):
		return errorStyle.Render(s)
	default:
		return warnStyle.Render(s)
	}
}
