package cart

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStoreDispatchAndSnapshot(t *testing.T) {
	st := NewStore(nil)

	view := st.Dispatch(Add{Product: product("p1", 5)})
	require.Equal(t, 1, view.ItemCount())

	snap := st.Snapshot()
	require.Equal(t, view, snap)

	// A held snapshot stays valid across later dispatches.
	st.Dispatch(Add{Product: product("p1", 5)})
	st.Dispatch(Remove{ProductID: "p1"})
	require.Equal(t, 1, snap.ItemCount())
	require.Equal(t, "p1", snap.Lines[0].Product.ID)

	require.Zero(t, st.Snapshot().ItemCount())
}

func TestStoreDispatchesAreAppliedOneAtATime(t *testing.T) {
	st := NewStore(nil)
	p := product("p1", 1)

	var wg sync.WaitGroup
	const n = 100
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			st.Dispatch(Add{Product: p})
		}()
	}
	wg.Wait()

	s := st.Snapshot()
	require.Len(t, s.Lines, 1)
	require.Equal(t, n, s.Lines[0].Quantity)
}
