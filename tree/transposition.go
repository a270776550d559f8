package tree

import (
	"sync"

	"npcplan/domain"
)

// Table is a content-addressed index of live nodes, keyed by structural hash
// and confirmed by structural equality, so a search driver can recognize a
// state reached again via a different action sequence. Entries hold weak
// handles: the table never keeps a pruned branch alive.
type Table struct {
	mu      sync.RWMutex
	entries map[domain.Hash][]WeakHandle
}

func NewTable() *Table {
	return &Table{entries: make(map[domain.Hash][]WeakHandle)}
}

// Find returns a strong handle to a live node equal to n, if the table holds
// one. The caller owns the returned handle.
func (t *Table) Find(n *Node) (Handle, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, w := range t.entries[n.Hash()] {
		h, ok := w.Upgrade()
		if !ok {
			continue
		}
		if h.Node().Equal(n) {
			return h, true
		}
		h.Release()
	}
	return Handle{}, false
}

// Put indexes the node behind h. Only a weak handle is stored; the caller's
// strong handle is untouched.
func (t *Table) Put(h Handle) {
	hash := h.Node().Hash()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[hash] = append(t.entries[hash], h.Weak())
}

// Sweep drops entries whose node has been pruned and returns how many were
// removed.
func (t *Table) Sweep() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	removed := 0
	for hash, handles := range t.entries {
		live := handles[:0]
		for _, w := range handles {
			h, ok := w.Upgrade()
			if !ok {
				removed++
				continue
			}
			h.Release()
			live = append(live, w)
		}
		if len(live) == 0 {
			delete(t.entries, hash)
		} else {
			t.entries[hash] = live
		}
	}
	return removed
}

// Len returns the number of indexed entries, live or not.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	count := 0
	for _, handles := range t.entries {
		count += len(handles)
	}
	return count
}
