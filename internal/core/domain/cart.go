package domain

// LineItem is one product entry in a cart. Price is the unit price. Only the
// product and quantity are checked locally; the backend fills in the rest.
type LineItem struct {
	ProductID   string  `json:"product_id" validate:"required"`
	ProductName string  `json:"product_name"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity" validate:"gte=1"`
	ImageURL    string  `json:"image_url,omitempty"`
}

// Cart mirrors the backend's cart. TotalItems and TotalPrice are computed by
// the backend and are never recomputed on the client.
type Cart struct {
	Items      []LineItem `json:"items"`
	TotalItems int        `json:"total_items"`
	TotalPrice float64    `json:"total_price"`
}

// EmptyCart returns the value an anonymous session sees.
func EmptyCart() Cart {
	return Cart{Items: []LineItem{}}
}

// Clone returns a deep copy so readers cannot alias synchronizer state.
func (c Cart) Clone() Cart {
	items := make([]LineItem, len(c.Items))
	copy(items, c.Items)
	return Cart{Items: items, TotalItems: c.TotalItems, TotalPrice: c.TotalPrice}
}

// Item looks up a line by product id.
func (c Cart) Item(productID string) (LineItem, bool) {
	for _, it := range c.Items {
		if it.ProductID == productID {
			return it, true
		}
	}
	return LineItem{}, false
}

// IsEmpty reports whether the cart holds no purchasable lines.
func (c Cart) IsEmpty() bool {
	for _, it := range c.Items {
		if it.Quantity > 0 {
			return false
		}
	}
	return true
}

// Normalize drops zero-quantity lines, which are equivalent to absence, and
// replaces a nil item list with an empty one.
func (c Cart) Normalize() Cart {
	items := make([]LineItem, 0, len(c.Items))
	for _, it := range c.Items {
		if it.Quantity > 0 {
			items = append(items, it)
		}
	}
	c.Items = items
	return c
}
