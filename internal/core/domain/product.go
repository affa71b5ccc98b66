package domain

// Product is a catalog entry. Code is the identifier carts refer to as
// product_id.
type Product struct {
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	Category      string  `json:"category,omitempty"`
	SupplierID    string  `json:"supplier_id,omitempty"`
	SupplierName  string  `json:"supplier_name,omitempty"`
	SellPrice     float64 `json:"sell_price"`
	TotalQuantity int     `json:"total_quantity"`
	Status        string  `json:"status,omitempty"`
	Description   string  `json:"description,omitempty"`
	ImageURL      string  `json:"image_url,omitempty"`
}

// InStock reports whether qty units can be purchased.
func (p Product) InStock(qty int) bool {
	return qty <= p.TotalQuantity
}

// ToLineItem builds the cart line for qty units of p.
func (p Product) ToLineItem(qty int) LineItem {
	return LineItem{
		ProductID:   p.Code,
		ProductName: p.Name,
		Price:       p.SellPrice,
		Quantity:    qty,
		ImageURL:    p.ImageURL,
	}
}

// ProductFilter narrows a product listing. Empty fields are ignored.
type ProductFilter struct {
	Name       string
	Category   string
	SupplierID string
	Status     string
}

// NewProduct is the admin payload for adding a catalog entry. The backend
// fills in supplier_name from supplier_id. Status defaults to active.
type NewProduct struct {
	Code          string  `json:"code"                  validate:"required"`
	Name          string  `json:"name"                  validate:"required"`
	Category      string  `json:"category,omitempty"`
	SupplierID    string  `json:"supplier_id"           validate:"required"`
	SellPrice     float64 `json:"sell_price"            validate:"gte=0"`
	TotalQuantity int     `json:"total_quantity"        validate:"gte=0"`
	Status        string  `json:"status,omitempty"      validate:"omitempty,oneof=active inactive"`
	Description   string  `json:"description,omitempty"`
	ImageURL      string  `json:"image_url,omitempty"`
}

// ProductUpdate changes a catalog entry. Nil fields are left alone.
type ProductUpdate struct {
	Name          *string  `json:"name,omitempty"           validate:"omitempty,min=1"`
	Category      *string  `json:"category,omitempty"`
	SupplierID    *string  `json:"supplier_id,omitempty"    validate:"omitempty,min=1"`
	SellPrice     *float64 `json:"sell_price,omitempty"     validate:"omitempty,gte=0"`
	TotalQuantity *int     `json:"total_quantity,omitempty" validate:"omitempty,gte=0"`
	Status        *string  `json:"status,omitempty"         validate:"omitempty,oneof=active inactive"`
	Description   *string  `json:"description,omitempty"`
	ImageURL      *string  `json:"image_url,omitempty"`
}

// Empty reports whether the update changes nothing.
func (u ProductUpdate) Empty() bool {
	return u.Name == nil && u.Category == nil && u.SupplierID == nil && u.SellPrice == nil &&
		u.TotalQuantity == nil && u.Status == nil && u.Description == nil && u.ImageURL == nil
}

// Apply returns p with the update's fields set.
func (u ProductUpdate) Apply(p Product) Product {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.SupplierID != nil {
		p.SupplierID = *u.SupplierID
	}
	if u.SellPrice != nil {
		p.SellPrice = *u.SellPrice
	}
	if u.TotalQuantity != nil {
		p.TotalQuantity = *u.TotalQuantity
	}
	if u.Status != nil {
		p.Status = *u.Status
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.ImageURL != nil {
		p.ImageURL = *u.ImageURL
	}
	return p
}
