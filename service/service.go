package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"storefront/cart"
	"storefront/catalog"
	"storefront/checkout"
	models "storefront/model"
)

// CatalogAPI is the slice of the catalog client the service uses.
type CatalogAPI interface {
	ListProducts(ctx context.Context, f catalog.Filter) (*catalog.ListResult, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	SearchProducts(ctx context.Context, term string) (*catalog.ListResult, error)
}

// CheckoutFlow is the slice of the checkout flow the service uses.
type CheckoutFlow interface {
	Submit(ctx context.Context, form checkout.Form, lines []cart.Line) error
	Status() checkout.Status
}

// Service ties the catalog client, the cart store and the checkout flow
// together. The cart store instance is passed in explicitly; there is no
// process-wide cart singleton.
type Service struct {
	catalog CatalogAPI
	cart    *cart.Store
	flow    CheckoutFlow
	log     *zap.Logger
}

// NewService returns a Service instance.
func NewService(c CatalogAPI, st *cart.Store, flow CheckoutFlow, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{catalog: c, cart: st, flow: flow, log: log}
}

func (s *Service) ListProducts(ctx context.Context, f catalog.Filter) (*ProductPage, error) {
	res, err := s.catalog.ListProducts(ctx, f)
	if err != nil {
		return nil, err
	}
	return &ProductPage{Products: res.Products, Meta: res.Meta}, nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	if id == "" {
		return nil, errors.New("product id required")
	}
	return s.catalog.GetProduct(ctx, id)
}

func (s *Service) SearchProducts(ctx context.Context, term string) (*ProductPage, error) {
	if term == "" {
		return nil, errors.New("search term required")
	}
	res, err := s.catalog.SearchProducts(ctx, term)
	if err != nil {
		return nil, err
	}
	return &ProductPage{Products: res.Products, Meta: res.Meta}, nil
}

// AddToCart resolves the product against the catalog, then dispatches the add.
// The cart only ever stores product copies it received as payloads.
func (s *Service) AddToCart(ctx context.Context, productID string) (CartView, error) {
	if productID == "" {
		return s.Cart(), errors.New("product id required")
	}
	p, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return s.Cart(), err
	}
	return viewOf(s.cart.Dispatch(cart.Add{Product: *p})), nil
}

func (s *Service) RemoveFromCart(productID string) (CartView, error) {
	if productID == "" {
		return s.Cart(), errors.New("product id required")
	}
	return viewOf(s.cart.Dispatch(cart.Remove{ProductID: productID})), nil
}

func (s *Service) SetQuantity(productID string, qty int) (CartView, error) {
	if productID == "" {
		return s.Cart(), errors.New("product id required")
	}
	return viewOf(s.cart.Dispatch(cart.SetQuantity{ProductID: productID, Quantity: qty})), nil
}

func (s *Service) ClearCart() CartView {
	return viewOf(s.cart.Dispatch(cart.Clear{}))
}

func (s *Service) Cart() CartView {
	return viewOf(s.cart.Snapshot())
}

func (s *Service) ToggleCart() CartView {
	return viewOf(s.cart.Dispatch(cart.ToggleCart{}))
}

func (s *Service) OpenCart() CartView {
	return viewOf(s.cart.Dispatch(cart.OpenCart{}))
}

func (s *Service) CloseCart() CartView {
	return viewOf(s.cart.Dispatch(cart.CloseCart{}))
}

func (s *Service) ToggleCheckout() CartView {
	return viewOf(s.cart.Dispatch(cart.ToggleCheckout{}))
}

// PlaceOrder hands a snapshot of the current lines to the checkout flow. The
// flow clears the cart itself after a successful submission.
func (s *Service) PlaceOrder(ctx context.Context, form checkout.Form) error {
	snapshot := s.cart.Snapshot()
	s.log.Debug("placing order",
		zap.Int("lines", len(snapshot.Lines)),
		zap.Float64("subtotal", snapshot.DisplaySubtotal()),
	)
	return s.flow.Submit(ctx, form, snapshot.Lines)
}

func (s *Service) CheckoutStatus() checkout.Status {
	return s.flow.Status()
}

func viewOf(st cart.State) CartView {
	items := make([]CartItemDTO, 0, len(st.Lines))
	for _, l := range st.Lines {
		items = append(items, CartItemDTO{
			Product:  l.Product,
			Quantity: l.Quantity,
		})
	}
	return CartView{
		Items:        items,
		ItemCount:    st.ItemCount(),
		Subtotal:     st.DisplaySubtotal(),
		CartOpen:     st.CartOpen,
		CheckoutOpen: st.CheckoutOpen,
	}
}

// DTOs
type ProductPage struct {
	Products []models.Product `json:"products"`
	Meta     *catalog.Meta    `json:"meta,omitempty"`
}

type CartItemDTO struct {
	Product  models.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

type CartView struct {
	Items        []CartItemDTO `json:"items"`
	ItemCount    int           `json:"itemCount"`
	Subtotal     float64       `json:"subtotal"`
	CartOpen     bool          `json:"cartOpen"`
	CheckoutOpen bool          `json:"checkoutOpen"`
}
