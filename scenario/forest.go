package scenario

import (
	"npcplan/domain"
	"npcplan/utils"
)

// Point is a grid cell.
type Point struct {
	X, Y int
}

func (p Point) less(q Point) bool {
	if p.Y != q.Y {
		return p.Y < q.Y
	}
	return p.X < q.X
}

// adjacent reports 4-neighborhood adjacency.
func (p Point) adjacent(q Point) bool {
	dx, dy := p.X-q.X, p.Y-q.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx+dy == 1
}

func chebyshev(p, q Point) int {
	dx, dy := p.X-q.X, p.Y-q.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}

// Forest is the base world snapshot: a grid of standing wood plus one
// position and inventory per lumberjack. The driver owns it and must keep it
// alive for the lifetime of any tree built on it; nodes only borrow it
// through state-diff views.
type Forest struct {
	Width, Height int
	Sight         int // visibility radius in grid cells
	Wood          map[Point]int
	Positions     map[domain.AgentID]Point
	Collected     map[domain.AgentID]int
}

func NewForest(width, height, sight int) *Forest {
	return &Forest{
		Width:     width,
		Height:    height,
		Sight:     sight,
		Wood:      make(map[Point]int),
		Positions: make(map[domain.AgentID]Point),
		Collected: make(map[domain.AgentID]int),
	}
}

// Plant places a tree with the given amount of wood.
func (f *Forest) Plant(p Point, wood int) {
	f.Wood[p] = wood
}

// AddAgent places a lumberjack with an empty inventory.
func (f *Forest) AddAgent(agent domain.AgentID, p Point) {
	f.Positions[agent] = p
	f.Collected[agent] = 0
}

func (f *Forest) inBounds(p Point) bool {
	return p.X >= 0 && p.X < f.Width && p.Y >= 0 && p.Y < f.Height
}

// split unpacks a state-diff view into its scenario types.
func split(view domain.StateDiff) (*Forest, *ForestDiff) {
	return view.State.(*Forest), view.Diff.(*ForestDiff)
}

// WoodAt returns the wood standing at p under view.
func WoodAt(view domain.StateDiff, p Point) int {
	forest, diff := split(view)
	if wood, ok := diff.Wood[p]; ok {
		return wood
	}
	return forest.Wood[p]
}

// PositionOf returns agent's position under view.
func PositionOf(view domain.StateDiff, agent domain.AgentID) (Point, bool) {
	forest, diff := split(view)
	if p, ok := diff.Positions[agent]; ok {
		return p, true
	}
	p, ok := forest.Positions[agent]
	return p, ok
}

// CollectedBy returns agent's inventory under view.
func CollectedBy(view domain.StateDiff, agent domain.AgentID) int {
	forest, diff := split(view)
	if wood, ok := diff.Collected[agent]; ok {
		return wood
	}
	return forest.Collected[agent]
}

// World implements the domain capability for the forest. Visibility is a
// square radius around the agent; value is the wood an agent has collected.
type World struct{}

func (World) VisibleAgents(view domain.StateDiff, agent domain.AgentID) []domain.AgentID {
	forest, _ := split(view)

	pos, ok := PositionOf(view, agent)
	if !ok {
		return []domain.AgentID{agent}
	}

	var agents []domain.AgentID
	for _, other := range utils.SortedKeys(forest.Positions) {
		otherPos, _ := PositionOf(view, other)
		if other == agent || chebyshev(pos, otherPos) <= forest.Sight {
			agents = append(agents, other)
		}
	}
	return agents
}

func (World) CurrentValue(view domain.StateDiff, agent domain.AgentID) domain.AgentValue {
	return domain.AgentValue(CollectedBy(view, agent))
}
