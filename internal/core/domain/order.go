package domain

import "time"

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderProcessing OrderStatus = "processing"
	OrderSuccess    OrderStatus = "success"
	OrderCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	return s == OrderProcessing || s == OrderSuccess || s == OrderCancelled
}

// PaymentStatus is the payment state of an order.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
)

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	return s == PaymentPending || s == PaymentCompleted
}

// Payment methods. Cash on delivery is the default.
const (
	PaymentCOD  = "cod"
	PaymentCard = "card"
)

// ShippingAddress is where an order is delivered.
type ShippingAddress struct {
	ReceiverName string `json:"receiver_name" validate:"required"`
	Phone        string `json:"phone"         validate:"required"`
	FullAddress  string `json:"full_address"  validate:"required"`
}

// OrderItem is a purchased line, priced at order time.
type OrderItem struct {
	ProductID string  `json:"product_id" validate:"required"`
	Name      string  `json:"name"       validate:"required"`
	Price     float64 `json:"price"      validate:"gte=0"`
	Quantity  int     `json:"quantity"   validate:"gte=1"`
}

// Order is a placed order as returned by the backend.
type Order struct {
	OrderID         string          `json:"order_id"`
	CustomerID      string          `json:"customer_id,omitempty"`
	Items           []OrderItem     `json:"items"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	PaymentMethod   string          `json:"payment_method"`
	PaymentStatus   PaymentStatus   `json:"payment_status"`
	OrderStatus     OrderStatus     `json:"order_status"`
	Note            string          `json:"note,omitempty"`
	Price           float64         `json:"price"`
	CreatedAt       time.Time       `json:"created_at"`
}

// NewOrder is the payload submitted at checkout. The backend assigns the
// owner from the bearer token and reprices items from its catalog.
type NewOrder struct {
	Items           []OrderItem     `json:"items"            validate:"required,min=1,dive"`
	TotalAmount     float64         `json:"total_amount"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	PaymentMethod   string          `json:"payment_method"   validate:"required"`
	Note            string          `json:"note"`
}

// OrderFilter narrows an order listing. Empty fields are ignored.
type OrderFilter struct {
	OrderID       string
	OrderStatus   OrderStatus
	PaymentStatus PaymentStatus
	CustomerID    string
}

// StatusUpdate is an admin change to an order. Nil fields are left alone.
type StatusUpdate struct {
	OrderStatus   *OrderStatus   `json:"order_status,omitempty"   validate:"omitempty,oneof=processing success cancelled"`
	PaymentStatus *PaymentStatus `json:"payment_status,omitempty" validate:"omitempty,oneof=pending completed"`
}

// Empty reports whether the update changes nothing.
func (u StatusUpdate) Empty() bool {
	return u.OrderStatus == nil && u.PaymentStatus == nil
}
