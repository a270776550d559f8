package scenario

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"unsafe"

	"npcplan/domain"
)

// Task extends the core task contract with execution: applying a task to a
// view yields the successor accumulated diff.
type Task interface {
	domain.Task
	Apply(view domain.StateDiff, agent domain.AgentID) *ForestDiff
}

// Kind constants give tasks a total order across types.
const (
	moveKind = iota
	chopKind
	waitKind
)

func taskKind(t domain.Task) int {
	switch t.(type) {
	case Move:
		return moveKind
	case Chop:
		return chopKind
	case Wait:
		return waitKind
	default:
		panic(fmt.Sprintf("unknown task type %T", t))
	}
}

func taskHash(kind int, p Point) domain.Hash {
	hasher := fnv.New64a()
	binary.Write(hasher, binary.LittleEndian, int64(kind))
	binary.Write(hasher, binary.LittleEndian, int64(p.X))
	binary.Write(hasher, binary.LittleEndian, int64(p.Y))
	return domain.Hash(hasher.Sum64())
}

// Move walks the agent to an adjacent empty cell.
type Move struct {
	To Point
}

func (t Move) String() string {
	return fmt.Sprintf("move to (%d,%d)", t.To.X, t.To.Y)
}

func (t Move) IsValid(view domain.StateDiff, agent domain.AgentID) bool {
	forest, _ := split(view)
	pos, ok := PositionOf(view, agent)
	if !ok {
		return false
	}
	return forest.inBounds(t.To) && pos.adjacent(t.To) && WoodAt(view, t.To) == 0
}

func (t Move) Equal(other domain.Task) bool {
	o, ok := other.(Move)
	return ok && t == o
}

func (t Move) Less(other domain.Task) bool {
	o, ok := other.(Move)
	if !ok {
		return moveKind < taskKind(other)
	}
	return t.To.less(o.To)
}

func (t Move) Hash() domain.Hash {
	return taskHash(moveKind, t.To)
}

func (t Move) Size() uintptr {
	return unsafe.Sizeof(t)
}

func (t Move) Apply(view domain.StateDiff, agent domain.AgentID) *ForestDiff {
	_, diff := split(view)
	next := diff.Clone()
	next.Positions[agent] = t.To
	return next
}

// Chop takes one unit of wood from an adjacent tree.
type Chop struct {
	At Point
}

func (t Chop) String() string {
	return fmt.Sprintf("chop (%d,%d)", t.At.X, t.At.Y)
}

func (t Chop) IsValid(view domain.StateDiff, agent domain.AgentID) bool {
	pos, ok := PositionOf(view, agent)
	if !ok {
		return false
	}
	return pos.adjacent(t.At) && WoodAt(view, t.At) > 0
}

func (t Chop) Equal(other domain.Task) bool {
	o, ok := other.(Chop)
	return ok && t == o
}

func (t Chop) Less(other domain.Task) bool {
	o, ok := other.(Chop)
	if !ok {
		return chopKind < taskKind(other)
	}
	return t.At.less(o.At)
}

func (t Chop) Hash() domain.Hash {
	return taskHash(chopKind, t.At)
}

func (t Chop) Size() uintptr {
	return unsafe.Sizeof(t)
}

func (t Chop) Apply(view domain.StateDiff, agent domain.AgentID) *ForestDiff {
	_, diff := split(view)
	next := diff.Clone()
	next.Wood[t.At] = WoodAt(view, t.At) - 1
	next.Collected[agent] = CollectedBy(view, agent) + 1
	return next
}

// Wait does nothing for one decision.
type Wait struct{}

func (t Wait) String() string {
	return "wait"
}

func (t Wait) IsValid(view domain.StateDiff, agent domain.AgentID) bool {
	_, ok := PositionOf(view, agent)
	return ok
}

func (t Wait) Equal(other domain.Task) bool {
	_, ok := other.(Wait)
	return ok
}

func (t Wait) Less(other domain.Task) bool {
	return waitKind < taskKind(other)
}

func (t Wait) Hash() domain.Hash {
	return taskHash(waitKind, Point{})
}

func (t Wait) Size() uintptr {
	return unsafe.Sizeof(t)
}

func (t Wait) Apply(view domain.StateDiff, agent domain.AgentID) *ForestDiff {
	_, diff := split(view)
	return diff.Clone()
}
