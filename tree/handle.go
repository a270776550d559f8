package tree

import "sync/atomic"

// Handle is a strong, shared reference to a node. Clone adds a reference,
// Release drops one; the node is gone once the last strong handle is
// released. Acquisition and release are atomic, so a handle obtained while
// the node is reachable stays valid for the caller even if the node becomes
// otherwise unreachable a moment later.
type Handle struct {
	cell *cell
}

type cell struct {
	refs atomic.Int64
	node *Node
}

func newHandle(n *Node) Handle {
	c := &cell{node: n}
	c.refs.Store(1)
	return Handle{cell: c}
}

// Node returns the underlying node. Panics on an empty or fully released
// handle.
func (h Handle) Node() *Node {
	if h.cell == nil || h.cell.refs.Load() <= 0 {
		panic("use of released node handle")
	}
	return h.cell.node
}

// Clone returns a new strong reference to the same node.
func (h Handle) Clone() Handle {
	if h.cell.refs.Add(1) <= 1 {
		panic("clone of released node handle")
	}
	return h
}

// Release drops this reference. When the count reaches zero the node is
// destroyed: weak handles stop upgrading and the count never rises again.
func (h Handle) Release() {
	if h.cell.refs.Add(-1) < 0 {
		panic("release of released node handle")
	}
}

// Weak returns a non-owning handle to the same node.
func (h Handle) Weak() WeakHandle {
	return WeakHandle{cell: h.cell}
}

// WeakHandle observes a node without keeping it alive. Used for back-edges
// and cache entries that must not block pruning.
type WeakHandle struct {
	cell *cell
}

// Upgrade attempts to acquire a strong handle. It fails once every strong
// handle has been released; callers must treat that as "node has been
// pruned", not as an error. The increment only succeeds from a nonzero
// count, so an upgrade can never race a concurrent release into
// resurrecting a destroyed node.
func (w WeakHandle) Upgrade() (Handle, bool) {
	for {
		refs := w.cell.refs.Load()
		if refs <= 0 {
			return Handle{}, false
		}
		if w.cell.refs.CompareAndSwap(refs, refs+1) {
			return Handle{cell: w.cell}, true
		}
	}
}
