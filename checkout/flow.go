// Package checkout drives the transition from "editing cart" to "order
// placed": validate the shipping form, submit the order, then clear the cart.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"storefront/cart"
	models "storefront/model"
)

// Status is the flow's current phase. SUCCESS and FAILURE are transient:
// every submission ends back at IDLE.
type Status string

const (
	StatusIdle       Status = "IDLE"
	StatusSubmitting Status = "SUBMITTING"
	StatusSuccess    Status = "SUCCESS"
	StatusFailure    Status = "FAILURE"
)

func (s Status) String() string { return string(s) }

// ErrSubmissionFailed wraps the transport or server error behind a failed
// order submission. The cart is left untouched so the shopper can retry.
var ErrSubmissionFailed = errors.New("order submission failed")

// ValidationError reports the form fields that failed validation. No network
// call is made when validation fails.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid checkout form: " + strings.Join(e.Fields, ", ")
}

// Form is the shipping/contact form the shopper fills in before submitting.
type Form struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// Validate checks that all required fields are present and the email looks
// like an address. The cart line snapshot must be non-empty; checkout against
// an empty cart is reported on the "items" field.
func (f Form) Validate(lines []cart.Line) *ValidationError {
	var fields []string
	if strings.TrimSpace(f.Name) == "" {
		fields = append(fields, "name")
	}
	if strings.TrimSpace(f.Email) == "" {
		fields = append(fields, "email")
	} else if _, err := mail.ParseAddress(f.Email); err != nil {
		fields = append(fields, "email")
	}
	if strings.TrimSpace(f.Address) == "" {
		fields = append(fields, "address")
	}
	if len(lines) == 0 {
		fields = append(fields, "items")
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// OrderPlacer submits an order to the remote order service.
type OrderPlacer interface {
	CreateOrder(ctx context.Context, req models.OrderRequest) error
}

// Dispatcher is the slice of the cart store the flow needs: it only ever
// dispatches Clear and CloseCheckout, never mutates state directly.
type Dispatcher interface {
	Dispatch(a cart.Action) cart.State
}

// Flow owns the submission state machine. At most one submission is expected
// to be in flight per cart session; the presentation layer disables its
// trigger while SUBMITTING.
type Flow struct {
	orders OrderPlacer
	carts  Dispatcher
	log    *zap.Logger

	// successDelay paces the confirmation screen before the cart is
	// cleared. Purely cosmetic; zero is correct.
	successDelay time.Duration

	mu     sync.Mutex
	status Status
}

// FlowOption configures a Flow.
type FlowOption func(*Flow)

// WithSuccessDelay holds the SUCCESS state visible for d before clearing the
// cart and closing the checkout panel.
func WithSuccessDelay(d time.Duration) FlowOption {
	return func(f *Flow) { f.successDelay = d }
}

// WithLogger attaches a structured logger.
func WithLogger(log *zap.Logger) FlowOption {
	return func(f *Flow) { f.log = log }
}

// NewFlow wires a flow to the order service and the cart store.
func NewFlow(orders OrderPlacer, carts Dispatcher, opts ...FlowOption) *Flow {
	f := &Flow{
		orders: orders,
		carts:  carts,
		log:    zap.NewNop(),
		status: StatusIdle,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Status reports the flow's current phase.
func (f *Flow) Status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

func (f *Flow) setStatus(s Status) {
	f.mu.Lock()
	f.status = s
	f.mu.Unlock()
}

// Submit validates the form against the cart snapshot and, when valid, places
// the order. On success the cart is cleared and the checkout panel closed via
// explicit dispatches; on failure the cart is preserved for a retry. Either
// way the flow ends at IDLE.
func (f *Flow) Submit(ctx context.Context, form Form, lines []cart.Line) error {
	if verr := form.Validate(lines); verr != nil {
		f.log.Info("checkout rejected", zap.Strings("fields", verr.Fields))
		return verr
	}

	f.setStatus(StatusSubmitting)
	req := models.OrderRequest{
		CustomerName:    form.Name,
		CustomerEmail:   form.Email,
		ShippingAddress: form.Address,
		Items:           make([]models.OrderItem, 0, len(lines)),
	}
	for _, l := range lines {
		req.Items = append(req.Items, models.OrderItem{ProductID: l.Product.ID, Quantity: l.Quantity})
	}

	if err := f.orders.CreateOrder(ctx, req); err != nil {
		f.setStatus(StatusFailure)
		f.log.Warn("order submission failed", zap.Error(err))
		f.setStatus(StatusIdle)
		return fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}

	f.setStatus(StatusSuccess)
	f.log.Info("order placed",
		zap.String("customer", form.Email),
		zap.Int("lines", len(lines)),
	)

	if f.successDelay > 0 {
		select {
		case <-time.After(f.successDelay):
		case <-ctx.Done():
		}
	}

	f.carts.Dispatch(cart.Clear{})
	f.carts.Dispatch(cart.CloseCheckout{})
	f.setStatus(StatusIdle)
	return nil
}
