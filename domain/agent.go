package domain

// AgentID identifies one participant in the domain. IDs are ordered so maps
// keyed by agent can be iterated and hashed deterministically.
type AgentID uint32

// AgentValue is the utility of one agent at one point of the search.
type AgentValue float64
