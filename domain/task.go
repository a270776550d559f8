package domain

import "fmt"

// Task is one agent's proposed action. Implementations are domain-specific
// and opaque to the tree, which only needs validity, identity, ordering and
// an approximate size.
type Task interface {
	fmt.Stringer

	// IsValid reports whether the task is legal for agent under view. Pure.
	IsValid(view StateDiff, agent AgentID) bool

	Equal(other Task) bool
	Less(other Task) bool
	Hash() Hash

	// Size returns the approximate footprint in bytes. Advisory.
	Size() uintptr
}
