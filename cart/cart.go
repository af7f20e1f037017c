package cart

import (
	"math"

	models "storefront/model"
)

// Line is one product in the cart together with its quantity. Quantity is
// always >= 1; a transition that would drive it to zero removes the line.
type Line struct {
	Product  models.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

// State is the full cart state: the ordered line sequence (insertion order
// is preserved for rendering and checkout summaries) plus the two panel
// visibility flags.
type State struct {
	Lines        []Line `json:"lines"`
	CartOpen     bool   `json:"cartOpen"`
	CheckoutOpen bool   `json:"checkoutOpen"`
}

// Initial returns the session's starting state: empty cart, both panels closed.
func Initial() State {
	return State{}
}

// Action is a cart transition request. One variant exists per recognized
// transition; Apply ignores anything else.
type Action interface {
	isAction()
}

// Add puts one unit of a product into the cart. Adding a product that is
// already present increments its quantity instead of appending a second line.
type Add struct {
	Product models.Product
}

// Remove deletes the line for a product. Removing an absent product is a no-op.
type Remove struct {
	ProductID string
}

// SetQuantity replaces a line's quantity. A quantity <= 0 removes the line.
type SetQuantity struct {
	ProductID string
	Quantity  int
}

// Clear empties the line sequence. Panel flags are untouched.
type Clear struct{}

// ToggleCart inverts the cart panel flag.
type ToggleCart struct{}

// OpenCart and CloseCart set the cart panel flag unconditionally.
type OpenCart struct{}
type CloseCart struct{}

// ToggleCheckout inverts the checkout panel flag.
type ToggleCheckout struct{}

// CloseCheckout closes the checkout panel unconditionally. Dispatched by the
// checkout flow after a successful order.
type CloseCheckout struct{}

func (Add) isAction()            {}
func (Remove) isAction()         {}
func (SetQuantity) isAction()    {}
func (Clear) isAction()          {}
func (ToggleCart) isAction()     {}
func (OpenCart) isAction()       {}
func (CloseCart) isAction()      {}
func (ToggleCheckout) isAction() {}
func (CloseCheckout) isAction()  {}

// Apply is the cart's transition function. It is pure and total: it never
// mutates the input state, never fails, and returns the state unchanged for
// any action it does not recognize. Every mutation works on a fresh copy of
// the line slice, so previously handed-out states stay valid snapshots.
func Apply(s State, a Action) State {
	switch a := a.(type) {
	case Add:
		if i := indexOf(s.Lines, a.Product.ID); i >= 0 {
			lines := cloneLines(s.Lines)
			lines[i].Quantity++
			s.Lines = lines
			return s
		}
		lines := make([]Line, 0, len(s.Lines)+1)
		lines = append(lines, s.Lines...)
		lines = append(lines, Line{Product: a.Product, Quantity: 1})
		s.Lines = lines
		return s
	case Remove:
		return removeLine(s, a.ProductID)
	case SetQuantity:
		if a.Quantity <= 0 {
			return removeLine(s, a.ProductID)
		}
		i := indexOf(s.Lines, a.ProductID)
		if i < 0 {
			return s
		}
		lines := cloneLines(s.Lines)
		lines[i].Quantity = a.Quantity
		s.Lines = lines
		return s
	case Clear:
		s.Lines = nil
		return s
	case ToggleCart:
		s.CartOpen = !s.CartOpen
		return s
	case OpenCart:
		s.CartOpen = true
		return s
	case CloseCart:
		s.CartOpen = false
		return s
	case ToggleCheckout:
		s.CheckoutOpen = !s.CheckoutOpen
		return s
	case CloseCheckout:
		s.CheckoutOpen = false
		return s
	default:
		return s
	}
}

func removeLine(s State, productID string) State {
	i := indexOf(s.Lines, productID)
	if i < 0 {
		return s
	}
	lines := make([]Line, 0, len(s.Lines)-1)
	lines = append(lines, s.Lines[:i]...)
	lines = append(lines, s.Lines[i+1:]...)
	s.Lines = lines
	return s
}

func indexOf(lines []Line, productID string) int {
	for i, l := range lines {
		if l.Product.ID == productID {
			return i
		}
	}
	return -1
}

func cloneLines(lines []Line) []Line {
	out := make([]Line, len(lines))
	copy(out, lines)
	return out
}

// ItemCount is the sum of quantities across all lines.
func (s State) ItemCount() int {
	var n int
	for _, l := range s.Lines {
		n += l.Quantity
	}
	return n
}

// Subtotal is the full-precision sum of price*quantity across all lines.
func (s State) Subtotal() float64 {
	var total float64
	for _, l := range s.Lines {
		total += l.Product.Price * float64(l.Quantity)
	}
	return total
}

// DisplaySubtotal is the subtotal rounded to 2 decimal places. Rounding is a
// display concern only; internal arithmetic stays at full precision.
func (s State) DisplaySubtotal() float64 {
	return math.Round(s.Subtotal()*100) / 100
}
