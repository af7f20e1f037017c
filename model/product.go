package models

import "time"

// Product is the catalog's wire shape. The storefront never owns products;
// it only stores copies handed over by the catalog service.
type Product struct {
	ID          string     `json:"_id"`
	Title       string     `json:"title"`
	Price       float64    `json:"price"`
	Image       string     `json:"image"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	InStock     bool       `json:"inStock"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}
