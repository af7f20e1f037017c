package service

import (
	"context"
	"errors"
	"testing"

	"storefront/cart"
	"storefront/catalog"
	"storefront/checkout"
	models "storefront/model"
)

// ---- fakeCatalog implementing CatalogAPI for tests ----
type fakeCatalog struct {
	ListProductsFn   func(ctx context.Context, f catalog.Filter) (*catalog.ListResult, error)
	GetProductFn     func(ctx context.Context, id string) (*models.Product, error)
	SearchProductsFn func(ctx context.Context, term string) (*catalog.ListResult, error)
}

func (f *fakeCatalog) ListProducts(ctx context.Context, fl catalog.Filter) (*catalog.ListResult, error) {
	return f.ListProductsFn(ctx, fl)
}
func (f *fakeCatalog) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return f.GetProductFn(ctx, id)
}
func (f *fakeCatalog) SearchProducts(ctx context.Context, term string) (*catalog.ListResult, error) {
	return f.SearchProductsFn(ctx, term)
}

// ---- fakeFlow implementing CheckoutFlow for tests ----
type fakeFlow struct {
	SubmitFn func(ctx context.Context, form checkout.Form, lines []cart.Line) error
	status   checkout.Status
}

func (f *fakeFlow) Submit(ctx context.Context, form checkout.Form, lines []cart.Line) error {
	return f.SubmitFn(ctx, form, lines)
}
func (f *fakeFlow) Status() checkout.Status { return f.status }

// ---- Tests ----

func TestListProductsForwarding(t *testing.T) {
	want := &catalog.ListResult{
		Products: []models.Product{{ID: "p1", Title: "Keyboard", Price: 49.99}},
		Meta:     &catalog.Meta{Page: 1, Limit: 10, Total: 1, TotalPage: 1},
	}
	fc := &fakeCatalog{
		ListProductsFn: func(ctx context.Context, f catalog.Filter) (*catalog.ListResult, error) {
			if f.Category != "peripherals" {
				t.Fatalf("filter not forwarded: %+v", f)
			}
			return want, nil
		},
	}
	svc := NewService(fc, cart.NewStore(nil), &fakeFlow{}, nil)

	page, err := svc.ListProducts(context.Background(), catalog.Filter{Category: "peripherals"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Products) != 1 || page.Products[0].ID != "p1" {
		t.Fatalf("unexpected page: %+v", page)
	}
	if page.Meta == nil || page.Meta.Total != 1 {
		t.Fatalf("meta not forwarded: %+v", page.Meta)
	}
}

func TestGetProductValidation(t *testing.T) {
	svc := NewService(&fakeCatalog{}, cart.NewStore(nil), &fakeFlow{}, nil)
	if _, err := svc.GetProduct(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty id")
	}
}

func TestSearchProductsValidation(t *testing.T) {
	svc := NewService(&fakeCatalog{}, cart.NewStore(nil), &fakeFlow{}, nil)
	if _, err := svc.SearchProducts(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty term")
	}
}

func TestAddToCartFetchesThenDispatches(t *testing.T) {
	p := models.Product{ID: "p1", Title: "Keyboard", Price: 49.99}
	fc := &fakeCatalog{
		GetProductFn: func(ctx context.Context, id string) (*models.Product, error) {
			if id != "p1" {
				t.Fatalf("unexpected id %q", id)
			}
			return &p, nil
		},
	}
	st := cart.NewStore(nil)
	svc := NewService(fc, st, &fakeFlow{}, nil)

	view, err := svc.AddToCart(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.ItemCount != 1 || len(view.Items) != 1 {
		t.Fatalf("unexpected view: %+v", view)
	}
	if view.Items[0].Product.Title != "Keyboard" {
		t.Fatalf("product payload not stored: %+v", view.Items[0])
	}

	// second add of the same product collapses into one line
	view, _ = svc.AddToCart(context.Background(), "p1")
	if len(view.Items) != 1 || view.Items[0].Quantity != 2 {
		t.Fatalf("expected one line with quantity 2, got %+v", view.Items)
	}
	if view.Subtotal != 99.98 {
		t.Fatalf("expected subtotal 99.98, got %v", view.Subtotal)
	}
}

func TestAddToCartCatalogErrorLeavesCartAlone(t *testing.T) {
	fc := &fakeCatalog{
		GetProductFn: func(ctx context.Context, id string) (*models.Product, error) {
			return nil, catalog.ErrProductNotFound
		},
	}
	st := cart.NewStore(nil)
	svc := NewService(fc, st, &fakeFlow{}, nil)

	if _, err := svc.AddToCart(context.Background(), "ghost"); !errors.Is(err, catalog.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if n := st.Snapshot().ItemCount(); n != 0 {
		t.Fatalf("cart should be empty, has %d items", n)
	}
}

func TestQuantityAndRemoveValidation(t *testing.T) {
	svc := NewService(&fakeCatalog{}, cart.NewStore(nil), &fakeFlow{}, nil)

	if _, err := svc.RemoveFromCart(""); err == nil {
		t.Fatalf("expected error for empty id")
	}
	if _, err := svc.SetQuantity("", 1); err == nil {
		t.Fatalf("expected error for empty id")
	}
}

func TestPanelToggles(t *testing.T) {
	svc := NewService(&fakeCatalog{}, cart.NewStore(nil), &fakeFlow{}, nil)

	if v := svc.ToggleCart(); !v.CartOpen {
		t.Fatalf("expected cart open after toggle")
	}
	if v := svc.CloseCart(); v.CartOpen {
		t.Fatalf("expected cart closed")
	}
	if v := svc.OpenCart(); !v.CartOpen {
		t.Fatalf("expected cart open")
	}
	if v := svc.ToggleCheckout(); !v.CheckoutOpen {
		t.Fatalf("expected checkout open after toggle")
	}
}

func TestPlaceOrderHandsSnapshotToFlow(t *testing.T) {
	p := models.Product{ID: "p1", Price: 25.00}
	st := cart.NewStore(nil)
	st.Dispatch(cart.Add{Product: p})

	var gotLines []cart.Line
	var gotForm checkout.Form
	ff := &fakeFlow{
		SubmitFn: func(ctx context.Context, form checkout.Form, lines []cart.Line) error {
			gotForm = form
			gotLines = lines
			return nil
		},
		status: checkout.StatusIdle,
	}
	svc := NewService(&fakeCatalog{}, st, ff, nil)

	form := checkout.Form{Name: "Ada", Email: "ada@example.com", Address: "12 Analytical Way"}
	if err := svc.PlaceOrder(context.Background(), form); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotForm != form {
		t.Fatalf("form not forwarded: %+v", gotForm)
	}
	if len(gotLines) != 1 || gotLines[0].Product.ID != "p1" {
		t.Fatalf("snapshot lines not forwarded: %+v", gotLines)
	}
	if svc.CheckoutStatus() != checkout.StatusIdle {
		t.Fatalf("unexpected status %v", svc.CheckoutStatus())
	}
}

func TestPlaceOrderErrorPropagates(t *testing.T) {
	ff := &fakeFlow{
		SubmitFn: func(ctx context.Context, form checkout.Form, lines []cart.Line) error {
			return checkout.ErrSubmissionFailed
		},
	}
	svc := NewService(&fakeCatalog{}, cart.NewStore(nil), ff, nil)

	err := svc.PlaceOrder(context.Background(), checkout.Form{})
	if !errors.Is(err, checkout.ErrSubmissionFailed) {
		t.Fatalf("expected submission error to propagate, got %v", err)
	}
}
