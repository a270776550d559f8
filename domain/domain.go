package domain

// Domain is the contract a concrete world implements. Both methods must be
// pure: deterministic and free of side effects given identical inputs. The
// tree memoizes their results at node construction and compares nodes across
// search paths, so an impure implementation silently corrupts the search.
type Domain interface {
	// VisibleAgents returns the agents observable by agent under view.
	// The result must include agent itself.
	VisibleAgents(view StateDiff, agent AgentID) []AgentID

	// CurrentValue returns agent's utility under view.
	CurrentValue(view StateDiff, agent AgentID) AgentValue
}
