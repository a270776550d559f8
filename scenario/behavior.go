package scenario

import "npcplan/domain"

// Lumberjack proposes movement and chopping around the agent's position.
// Idling is delegated to a dependent behavior, so a boxed-in agent still has
// a task.
type Lumberjack struct{}

func (Lumberjack) String() string {
	return "Lumberjack"
}

func (Lumberjack) IsValid(view domain.StateDiff, agent domain.AgentID) bool {
	_, ok := PositionOf(view, agent)
	return ok
}

func (Lumberjack) Tasks(view domain.StateDiff, agent domain.AgentID) []domain.Task {
	pos, ok := PositionOf(view, agent)
	if !ok {
		return nil
	}

	neighbors := []Point{
		{X: pos.X + 1, Y: pos.Y},
		{X: pos.X - 1, Y: pos.Y},
		{X: pos.X, Y: pos.Y + 1},
		{X: pos.X, Y: pos.Y - 1},
	}

	// Proposals only; CollectTasks filters the invalid ones.
	var tasks []domain.Task
	for _, p := range neighbors {
		tasks = append(tasks, Move{To: p}, Chop{At: p})
	}
	return tasks
}

func (Lumberjack) Dependencies() []domain.Behavior {
	return []domain.Behavior{Idle{}}
}

// Idle proposes waiting in place.
type Idle struct{}

func (Idle) String() string {
	return "Idle"
}

func (Idle) IsValid(view domain.StateDiff, agent domain.AgentID) bool {
	return true
}

func (Idle) Tasks(view domain.StateDiff, agent domain.AgentID) []domain.Task {
	return []domain.Task{Wait{}}
}

func (Idle) Dependencies() []domain.Behavior {
	return nil
}
