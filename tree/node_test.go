package tree

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"npcplan/domain"
)

/**
Tests node construction and the read-only query surface:
- construction:
	- stale task for the active agent dropped, other entries untouched
	- value cache covers exactly the visible set, active agent always cached
	- domain excluding the active agent from its own visible set -> panic
- queries:
	- CurrentValue: cached value, panic for never-visible agent
	- CurrentValueOrCompute: cache hit (no domain call), live compute otherwise
	- Size: structural size + cache entries + caller-sized tasks
- identity:
	- equal (agent, diff, tasks) via independent constructions -> Equal + same Hash
	- any identity component differing -> not Equal
	- value cache takes no part in identity
*/

const (
	agentA domain.AgentID = 1
	agentB domain.AgentID = 2
)

type mockState struct{}

// mockDiff: flag controls whether agentB is visible.
type mockDiff struct {
	value uint64
	flag  bool
}

func (d mockDiff) Equal(other domain.Diff) bool {
	o, ok := other.(mockDiff)
	return ok && d == o
}

func (d mockDiff) Hash() domain.Hash {
	h := d.value << 1
	if d.flag {
		h |= 1
	}
	return domain.Hash(h)
}

type mockTask struct {
	id    int
	valid bool
}

func (t mockTask) String() string {
	return fmt.Sprintf("task %d", t.id)
}

func (t mockTask) IsValid(view domain.StateDiff, agent domain.AgentID) bool {
	return t.valid
}

func (t mockTask) Equal(other domain.Task) bool {
	o, ok := other.(mockTask)
	return ok && t.id == o.id
}

func (t mockTask) Less(other domain.Task) bool {
	o, ok := other.(mockTask)
	return ok && t.id < o.id
}

func (t mockTask) Hash() domain.Hash {
	return domain.Hash(t.id)
}

func (t mockTask) Size() uintptr {
	return 24
}

// mockDomain counts capability calls. agentA sees only itself unless the
// diff flag is set, in which case it also sees agentB.
type mockDomain struct {
	visibleCalls int
	valueCalls   map[domain.AgentID]int
}

func (m *mockDomain) VisibleAgents(view domain.StateDiff, agent domain.AgentID) []domain.AgentID {
	m.visibleCalls++
	if view.Diff.(mockDiff).flag {
		return []domain.AgentID{agentA, agentB}
	}
	return []domain.AgentID{agentA}
}

func (m *mockDomain) CurrentValue(view domain.StateDiff, agent domain.AgentID) domain.AgentValue {
	if m.valueCalls == nil {
		m.valueCalls = make(map[domain.AgentID]int)
	}
	m.valueCalls[agent]++
	return domain.AgentValue(agent) * 10
}

// impureDomain violates purity on purpose: every value query returns a new
// number, so consecutive constructions cache different values.
type impureDomain struct {
	calls int
}

func (m *impureDomain) VisibleAgents(view domain.StateDiff, agent domain.AgentID) []domain.AgentID {
	return []domain.AgentID{agent}
}

func (m *impureDomain) CurrentValue(view domain.StateDiff, agent domain.AgentID) domain.AgentValue {
	m.calls++
	return domain.AgentValue(m.calls)
}

func TestNew(t *testing.T) {
	t.Run("dropping a stale task proposed for the active agent", func(t *testing.T) {
		stale := mockTask{id: 1, valid: false}
		kept := mockTask{id: 2, valid: false}
		tasks := map[domain.AgentID]domain.Task{agentA: stale, agentB: kept}

		h := New(&mockDomain{}, mockState{}, mockDiff{}, agentA, tasks)
		defer h.Release()

		got := h.Node().Tasks()
		require.NotContains(t, got, agentA, "Stale task for the active agent should be dropped")
		require.Contains(t, got, agentB, "Tasks for other agents should be preserved unchanged")
		require.True(t, got[agentB].Equal(kept), "Tasks for other agents should be preserved unchanged")
	})

	t.Run("keeping a valid task for the active agent", func(t *testing.T) {
		task := mockTask{id: 1, valid: true}
		tasks := map[domain.AgentID]domain.Task{agentA: task}

		h := New(&mockDomain{}, mockState{}, mockDiff{}, agentA, tasks)
		defer h.Release()

		require.True(t, h.Node().Tasks()[agentA].Equal(task), "Valid task for the active agent should survive construction")
	})

	t.Run("caching values for exactly the visible agents", func(t *testing.T) {
		h := New(&mockDomain{}, mockState{}, mockDiff{}, agentA, nil)
		defer h.Release()

		values := h.Node().CurrentValues()
		require.Len(t, values, 1, "Only visible agents should be cached")
		require.Contains(t, values, agentA, "Active agent should always be in the value cache")

		h2 := New(&mockDomain{}, mockState{}, mockDiff{flag: true}, agentA, nil)
		defer h2.Release()

		values = h2.Node().CurrentValues()
		require.Len(t, values, 2, "All visible agents should be cached")
		require.Equal(t, domain.AgentValue(10), values[agentA], "Cache should hold the domain-computed value")
		require.Equal(t, domain.AgentValue(20), values[agentB], "Cache should hold the domain-computed value")
	})

	t.Run("panicking when the domain excludes the active agent", func(t *testing.T) {
		// agentB is never in the visible set when the flag is unset
		require.Panics(t, func() {
			New(&mockDomain{}, mockState{}, mockDiff{}, agentB, nil)
		}, "A visible set without the active agent is a domain defect and should fail loudly")
	})
}

func TestCurrentValue(t *testing.T) {
	t.Run("returning the memoized value", func(t *testing.T) {
		d := &mockDomain{}
		h := New(d, mockState{}, mockDiff{flag: true}, agentA, nil)
		defer h.Release()

		calls := d.valueCalls[agentB]
		require.Equal(t, domain.AgentValue(20), h.Node().CurrentValue(agentB), "Value should come from the construction-time cache")
		require.Equal(t, calls, d.valueCalls[agentB], "Query should not call back into the domain")
	})

	t.Run("panicking for an agent never visible at construction", func(t *testing.T) {
		h := New(&mockDomain{}, mockState{}, mockDiff{}, agentA, nil)
		defer h.Release()

		require.Panics(t, func() {
			h.Node().CurrentValue(agentB)
		}, "Querying an uncached agent is a caller contract violation")
	})
}

func TestCurrentValueOrCompute(t *testing.T) {
	t.Run("cache hit does not invoke the domain", func(t *testing.T) {
		d := &mockDomain{}
		state := mockState{}
		h := New(d, state, mockDiff{flag: true}, agentA, nil)
		defer h.Release()

		require.Equal(t, 1, d.valueCalls[agentB], "Construction should compute each visible agent once")

		got := h.Node().CurrentValueOrCompute(agentB, state)

		require.Equal(t, domain.AgentValue(20), got, "Cached value should be returned")
		require.Equal(t, 1, d.valueCalls[agentB], "Cache hit should not call the domain again")
	})

	t.Run("cache miss computes live against the node view", func(t *testing.T) {
		d := &mockDomain{}
		state := mockState{}
		h := New(d, state, mockDiff{}, agentA, nil)
		defer h.Release()

		require.Zero(t, d.valueCalls[agentB], "agentB should not be cached when invisible")

		got := h.Node().CurrentValueOrCompute(agentB, state)
		want := d.CurrentValue(h.Node().StateDiffRef(state), agentB)

		require.Equal(t, want, got, "Live compute should match a direct domain query under the node view")
		require.Equal(t, 2, d.valueCalls[agentB], "Each uncached query should call the domain")
	})
}

func TestStateDiffRef(t *testing.T) {
	state := mockState{}
	diff := mockDiff{value: 7}
	h := New(&mockDomain{}, state, diff, agentA, nil)
	defer h.Release()

	view := h.Node().StateDiffRef(state)

	require.Equal(t, domain.State(state), view.State, "View should borrow the caller-supplied base state")
	require.True(t, diff.Equal(view.Diff), "View should pair the node's accumulated diff")
}

func TestSize(t *testing.T) {
	base := New(&mockDomain{}, mockState{}, mockDiff{}, agentA, nil)
	defer base.Release()
	withTasks := New(&mockDomain{}, mockState{}, mockDiff{}, agentA, map[domain.AgentID]domain.Task{
		agentA: mockTask{id: 1, valid: true},
		agentB: mockTask{id: 2},
	})
	defer withTasks.Release()

	sizer := func(task domain.Task) uintptr { return task.Size() }

	require.Greater(t, base.Node().Size(sizer), uintptr(0), "Size should account for the node record and value cache")
	require.Equal(t, base.Node().Size(sizer)+2*24, withTasks.Node().Size(sizer),
		"Each task should contribute its caller-reported size")
}

func TestNodeIdentity(t *testing.T) {
	diff := mockDiff{value: 3}
	tasks := func() map[domain.AgentID]domain.Task {
		return map[domain.AgentID]domain.Task{
			agentA: mockTask{id: 1, valid: true},
			agentB: mockTask{id: 2, valid: true},
		}
	}

	t.Run("equal components from independent constructions", func(t *testing.T) {
		h1 := New(&mockDomain{}, mockState{}, diff, agentA, tasks())
		defer h1.Release()
		h2 := New(&mockDomain{}, mockState{}, diff, agentA, tasks())
		defer h2.Release()

		require.True(t, h1.Node().Equal(h2.Node()), "Nodes with equal (agent, diff, tasks) should be equal")
		require.True(t, h2.Node().Equal(h1.Node()), "Equality should be symmetric")
		require.Equal(t, h1.Node().Hash(), h2.Node().Hash(), "Equal nodes should hash identically")
	})

	t.Run("differing identity components", func(t *testing.T) {
		h := New(&mockDomain{}, mockState{}, diff, agentA, tasks())
		defer h.Release()

		otherDiff := New(&mockDomain{}, mockState{}, mockDiff{value: 4}, agentA, tasks())
		defer otherDiff.Release()
		require.False(t, h.Node().Equal(otherDiff.Node()), "Different diffs should break equality")

		otherTasks := New(&mockDomain{}, mockState{}, diff, agentA, map[domain.AgentID]domain.Task{
			agentA: mockTask{id: 1, valid: true},
		})
		defer otherTasks.Release()
		require.False(t, h.Node().Equal(otherTasks.Node()), "Different task sets should break equality")

		flagged := New(&mockDomain{}, mockState{}, mockDiff{value: 3, flag: true}, agentA, tasks())
		defer flagged.Release()
		otherAgent := New(&mockDomain{}, mockState{}, mockDiff{value: 3, flag: true}, agentB, tasks())
		defer otherAgent.Release()
		require.False(t, flagged.Node().Equal(otherAgent.Node()), "Different active agents should break equality")
	})

	t.Run("value cache excluded from identity", func(t *testing.T) {
		// An impure domain hands each construction a different cache; the
		// nodes must still compare and hash as equal.
		d := &impureDomain{}
		h1 := New(d, mockState{}, diff, agentA, tasks())
		defer h1.Release()
		h2 := New(d, mockState{}, diff, agentA, tasks())
		defer h2.Release()

		require.NotEqual(t, h1.Node().CurrentValue(agentA), h2.Node().CurrentValue(agentA),
			"Setup should have produced distinct caches")
		require.True(t, h1.Node().Equal(h2.Node()), "Cache contents should never affect equality")
		require.Equal(t, h1.Node().Hash(), h2.Node().Hash(), "Cache contents should never affect hashing")
	})
}
