package service

import (
	"context"

	"storefront/catalog"
	"storefront/checkout"
	models "storefront/model"
)

// ServiceInterface is everything the presentation layer needs from the
// storefront: catalog reads, cart dispatches and the checkout trigger.
type ServiceInterface interface {
	ListProducts(ctx context.Context, f catalog.Filter) (*ProductPage, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	SearchProducts(ctx context.Context, term string) (*ProductPage, error)

	AddToCart(ctx context.Context, productID string) (CartView, error)
	RemoveFromCart(productID string) (CartView, error)
	SetQuantity(productID string, qty int) (CartView, error)
	ClearCart() CartView
	Cart() CartView

	ToggleCart() CartView
	OpenCart() CartView
	CloseCart() CartView
	ToggleCheckout() CartView

	PlaceOrder(ctx context.Context, form checkout.Form) error
	CheckoutStatus() checkout.Status
}
