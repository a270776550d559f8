package tree

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"unsafe"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"

	"npcplan/domain"
	"npcplan/utils"
)

// Node is one point of the search tree: the agent whose decision it
// represents, the diff accumulated from the root, the candidate task per
// agent, and the memoized current value of every agent visible to the active
// agent at construction. A node is immutable once built, so concurrent
// readers need no locking.
type Node struct {
	domain      domain.Domain
	diff        domain.Diff
	activeAgent domain.AgentID
	tasks       map[domain.AgentID]domain.Task
	// cached at construction, excluded from identity
	currentValues map[domain.AgentID]domain.AgentValue
}

// New builds a node and returns the strong handle owning it. This is the
// sole creation path. state is borrowed for the duration of the call; diff
// and tasks are moved in and must not be used by the caller afterwards.
//
// A task proposed for the active agent that is invalid under (state, diff)
// is dropped: a speculative proposal going stale as the diff is finalized is
// a normal occurrence in iterative tree construction, not an error. Panics
// if d reports a visible set that excludes the active agent; that is a
// defect in the Domain implementation the tree cannot work around.
func New(d domain.Domain, state domain.State, diff domain.Diff, activeAgent domain.AgentID, tasks map[domain.AgentID]domain.Task) Handle {
	view := domain.NewStateDiff(state, diff)

	if task, ok := tasks[activeAgent]; ok {
		if !task.IsValid(view, activeAgent) {
			delete(tasks, activeAgent)
		}
	}

	agents := d.VisibleAgents(view, activeAgent)
	if !slices.Contains(agents, activeAgent) {
		log.Error().Msgf("domain excluded agent %d from its own visible set %v", activeAgent, agents)
		panic("domain contract violation: active agent not visible to itself")
	}

	currentValues := make(map[domain.AgentID]domain.AgentValue, len(agents))
	for _, agent := range agents {
		currentValues[agent] = d.CurrentValue(view, agent)
	}

	if tasks == nil {
		tasks = make(map[domain.AgentID]domain.Task)
	}

	return newHandle(&Node{
		domain:        d,
		diff:          diff,
		activeAgent:   activeAgent,
		tasks:         tasks,
		currentValues: currentValues,
	})
}

// Agent returns the agent whose decision this node represents.
func (n *Node) Agent() domain.AgentID {
	return n.activeAgent
}

// Diff returns the diff accumulated from the root. Callers must not mutate
// or retain ownership of it.
func (n *Node) Diff() domain.Diff {
	return n.diff
}

// Tasks returns the candidate task per agent. Read-only.
func (n *Node) Tasks() map[domain.AgentID]domain.Task {
	return n.tasks
}

// StateDiffRef pairs the caller's base state with this node's diff. The
// state must be the same root state the node was constructed against; a
// mismatch is not detected and yields meaningless results.
func (n *Node) StateDiffRef(state domain.State) domain.StateDiff {
	return domain.NewStateDiff(state, n.diff)
}

// CurrentValue returns the memoized value for agent. Panics if agent was not
// visible at construction; use CurrentValueOrCompute for agents outside the
// visible set.
func (n *Node) CurrentValue(agent domain.AgentID) domain.AgentValue {
	value, ok := n.currentValues[agent]
	if !ok {
		panic(fmt.Sprintf("no current value for agent %d: not visible at construction", agent))
	}
	return value
}

// CurrentValueOrCompute returns the memoized value for agent, or computes it
// live against the supplied base state if agent was not visible at
// construction. Lets a global scoring pass query any agent without every
// node eagerly caching every agent's value.
func (n *Node) CurrentValueOrCompute(agent domain.AgentID, state domain.State) domain.AgentValue {
	if value, ok := n.currentValues[agent]; ok {
		return value
	}
	return n.domain.CurrentValue(n.StateDiffRef(state), agent)
}

// CurrentValues returns the memoized value per visible agent. Read-only.
func (n *Node) CurrentValues() map[domain.AgentID]domain.AgentValue {
	return n.currentValues
}

// Size approximates the node's footprint in bytes: the node record, the
// value cache, and each task sized by taskSize (task implementations are
// opaque here, so the caller supplies the sizing). Advisory; no attempt to
// match allocator bookkeeping.
func (n *Node) Size(taskSize func(domain.Task) uintptr) uintptr {
	size := unsafe.Sizeof(*n)
	size += uintptr(len(n.currentValues)) * (unsafe.Sizeof(domain.AgentID(0)) + unsafe.Sizeof(domain.AgentValue(0)))
	for _, task := range n.tasks {
		size += taskSize(task)
	}
	return size
}

// Equal reports structural equality over (active agent, diff, tasks). The
// value cache is derived and takes no part, so two paths reaching the same
// state produce equal nodes regardless of what each happened to cache.
func (n *Node) Equal(other *Node) bool {
	if n.activeAgent != other.activeAgent || !n.diff.Equal(other.diff) {
		return false
	}
	if len(n.tasks) != len(other.tasks) {
		return false
	}
	for agent, task := range n.tasks {
		otherTask, ok := other.tasks[agent]
		if !ok || !task.Equal(otherTask) {
			return false
		}
	}
	return true
}

// Hash combines active agent, diff and tasks, consistent with Equal. Tasks
// are folded in ascending agent order so the hash is canonical.
func (n *Node) Hash() domain.Hash {
	hasher := fnv.New64a()

	binary.Write(hasher, binary.LittleEndian, uint32(n.activeAgent))
	binary.Write(hasher, binary.LittleEndian, uint64(n.diff.Hash()))

	for _, agent := range utils.SortedKeys(n.tasks) {
		binary.Write(hasher, binary.LittleEndian, uint32(agent))
		binary.Write(hasher, binary.LittleEndian, uint64(n.tasks[agent].Hash()))
	}

	return domain.Hash(hasher.Sum64())
}
