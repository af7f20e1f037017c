package cart

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Store is the single owner of a session's cart state. All mutation flows
// through Dispatch; readers only ever see snapshots. Dispatch applies actions
// one at a time, so concurrent dispatches are processed in a strict order.
type Store struct {
	mu    sync.Mutex
	state State
	log   *zap.Logger
}

// NewStore returns a store holding the initial (empty, closed) state.
func NewStore(log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{state: Initial(), log: log}
}

// Dispatch applies an action atomically and returns the resulting snapshot.
func (st *Store) Dispatch(a Action) State {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.state = Apply(st.state, a)
	st.log.Debug("cart action applied",
		zap.String("action", actionName(a)),
		zap.Int("items", st.state.ItemCount()),
	)
	return st.state
}

// Snapshot returns the current state. Apply is copy-on-write, so the returned
// value is safe to hold while later dispatches happen.
func (st *Store) Snapshot() State {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state
}

func actionName(a Action) string {
	switch a.(type) {
	case Add:
		return "add"
	case Remove:
		return "remove"
	case SetQuantity:
		return "set_quantity"
	case Clear:
		return "clear"
	case ToggleCart:
		return "toggle_cart"
	case OpenCart:
		return "open_cart"
	case CloseCart:
		return "close_cart"
	case ToggleCheckout:
		return "toggle_checkout"
	case CloseCheckout:
		return "close_checkout"
	default:
		return fmt.Sprintf("%T", a)
	}
}
