package scenario

import (
	"encoding/binary"
	"hash/fnv"
	"sort"

	"npcplan/domain"
	"npcplan/utils"
)

// ForestDiff is the change accumulated against a base Forest: overriding
// wood amounts, positions and inventories. Entries are absolute values, not
// deltas, so one diff plus the root forest fully determines the effective
// state.
type ForestDiff struct {
	Wood      map[Point]int
	Positions map[domain.AgentID]Point
	Collected map[domain.AgentID]int
}

func NewForestDiff() *ForestDiff {
	return &ForestDiff{
		Wood:      make(map[Point]int),
		Positions: make(map[domain.AgentID]Point),
		Collected: make(map[domain.AgentID]int),
	}
}

func (d *ForestDiff) Clone() *ForestDiff {
	clone := NewForestDiff()
	for p, wood := range d.Wood {
		clone.Wood[p] = wood
	}
	for agent, p := range d.Positions {
		clone.Positions[agent] = p
	}
	for agent, wood := range d.Collected {
		clone.Collected[agent] = wood
	}
	return clone
}

func (d *ForestDiff) Equal(other domain.Diff) bool {
	o, ok := other.(*ForestDiff)
	if !ok {
		return false
	}
	if len(d.Wood) != len(o.Wood) || len(d.Positions) != len(o.Positions) || len(d.Collected) != len(o.Collected) {
		return false
	}
	for p, wood := range d.Wood {
		if o.Wood[p] != wood {
			return false
		}
	}
	for agent, p := range d.Positions {
		if o.Positions[agent] != p {
			return false
		}
	}
	for agent, wood := range d.Collected {
		if o.Collected[agent] != wood {
			return false
		}
	}
	return true
}

// Hash folds the overlay in sorted key order so equal diffs hash alike.
func (d *ForestDiff) Hash() domain.Hash {
	hasher := fnv.New64a()

	points := make([]Point, 0, len(d.Wood))
	for p := range d.Wood {
		points = append(points, p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].less(points[j]) })
	for _, p := range points {
		binary.Write(hasher, binary.LittleEndian, int64(p.X))
		binary.Write(hasher, binary.LittleEndian, int64(p.Y))
		binary.Write(hasher, binary.LittleEndian, int64(d.Wood[p]))
	}

	for _, agent := range utils.SortedKeys(d.Positions) {
		p := d.Positions[agent]
		binary.Write(hasher, binary.LittleEndian, uint32(agent))
		binary.Write(hasher, binary.LittleEndian, int64(p.X))
		binary.Write(hasher, binary.LittleEndian, int64(p.Y))
	}

	for _, agent := range utils.SortedKeys(d.Collected) {
		binary.Write(hasher, binary.LittleEndian, uint32(agent))
		binary.Write(hasher, binary.LittleEndian, int64(d.Collected[agent]))
	}

	return domain.Hash(hasher.Sum64())
}
