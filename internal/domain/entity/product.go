package entity

import "time"

// Product is a sellable catalog item owned by a user.
// SalePrice, CostPrice and Stock are optional: sellers often register a
// product before deciding its price.
type Product struct {
	ID          string    `json:"id"`
	UserID      int64     `json:"user_id"`
	Name        string    `json:"name"`
	SalePrice   *float64  `json:"sale_price,omitempty"`
	CostPrice   *float64  `json:"cost_price,omitempty"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Stock       *int      `json:"stock,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// HasSalePrice reports whether the product carries a usable cataloged price.
func (p Product) HasSalePrice() bool {
	return p.SalePrice != nil && *p.SalePrice > 0
}

// CostOrZero returns the cost price, or 0 when none is registered.
func (p Product) CostOrZero() float64 {
	if p.CostPrice == nil {
		return 0
	}
	return *p.CostPrice
}
