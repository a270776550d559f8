package domain

// Hash is a stable structural hash, used for transposition detection.
type Hash uint64

// State is a complete world snapshot. The tree never inspects, hashes or owns
// one; it is passed through to the Domain implementation on every query. The
// root state must stay valid for the entire lifetime of the tree built on it.
type State any

// Diff is a domain-defined delta against a base state. Diffs accumulate from
// the tree root, so any node can be evaluated against the root state alone,
// without walking its ancestors.
type Diff interface {
	Equal(other Diff) bool
	Hash() Hash
}

// StateDiff pairs a base state with a diff for the duration of a single
// query. It has no lifecycle of its own: build one on demand, discard it
// after use.
type StateDiff struct {
	State State
	Diff  Diff
}

func NewStateDiff(state State, diff Diff) StateDiff {
	return StateDiff{State: state, Diff: diff}
}
