// Package bnp implements the branch-and-price tree search: nodes whose
// relaxation bounds come from an embedded column-generation loop
// (package colgen), explored with pruning against the best integral
// solution found so far.
//
// Structure:
//
//   - Tree — an arena of nodes addressed by index, each holding one
//     branching fixing and an explicit parent index. The full
//     restriction of a node is reconstructed by walking the parent
//     chain (nearest ancestor first); the walk is iterative, so deep
//     trees cost no stack.
//   - BranchAndPrice — the search loop: a node store with a pluggable
//     selection policy, incumbent tracking, bound-based pruning, and
//     pluggable Brancher/Repairer policies.
//
// Every node shares the tree's single colgen.ColumnGeneration instance;
// restriction state is scoped inside each node solve, so the sequential
// search is safe. Parallel exploration is not: two in-flight node
// solves would corrupt the shared models. A parallel extension must
// rebuild one solver per branch or serialize access.
//
// Policy defaults: depth-first selection, no repair (the search then
// never finds an incumbent unless a node is integral and the supplied
// Repairer extracts it), no branching (root-only bound). Concrete
// problem families supply real policies — see package cutstock.
package bnp

import (
	"errors"
	"time"

	"github.com/optikon/branchprice/colgen"
)

// Sentinel errors returned by the tree search.
var (
	// ErrNilComponent indicates a nil problem, master or pricer at
	// construction.
	ErrNilComponent = errors.New("bnp: nil problem, master or pricer")

	// ErrBadNode indicates a node index outside the tree.
	ErrBadNode = errors.New("bnp: node index out of range")

	// ErrFixingAlreadySet indicates a second fixing was added to a
	// node; a node differs from its parent by exactly one fixing.
	ErrFixingAlreadySet = errors.New("bnp: node already carries a fixing")

	// ErrBadBranching indicates a Brancher returned a child count other
	// than zero or two; branching splits a node into exactly two
	// children with complementary fixings.
	ErrBadBranching = errors.New("bnp: brancher must return zero or two fixings")

	// ErrTimeLimit indicates the soft time budget expired. The
	// incumbent found so far is returned alongside.
	ErrTimeLimit = errors.New("bnp: time limit exceeded")

	// ErrNodeLimit indicates the node cap was hit before the store
	// emptied. The incumbent found so far is returned alongside.
	ErrNodeLimit = errors.New("bnp: node limit reached")
)

// Incumbent is a feasible integral solution with an objective value.
// Concrete types carry the assignment itself; the search only compares
// objectives.
type Incumbent interface {
	ObjectiveValue() float64
}

// Brancher inspects a node's fractional result and returns the fixings
// for exactly two children with complementary restrictions, or nil when
// no fractional structure remains (the node is already integral or
// exhausted). The children are pushed in the order returned; under
// depth-first selection the LAST fixing is explored first, which makes
// the return order the branching-direction control point.
type Brancher interface {
	Branch(res colgen.Result) []colgen.Fixing
}

// Repairer attempts to turn a fractional node result into a feasible
// integral solution. ok=false means no candidate could be built.
type Repairer interface {
	Repair(res colgen.Result) (sol Incumbent, ok bool)
}

// SelectionPolicy picks the next node from the store.
type SelectionPolicy int

const (
	// DepthFirst pops the most recently pushed node (LIFO). Default.
	DepthFirst SelectionPolicy = iota

	// BreadthFirst pops the oldest node (FIFO).
	BreadthFirst

	// BestBound pops the node with the most promising priority. A
	// child's priority is its parent's bound at push time — children
	// have no bound of their own before they are solved.
	BestBound
)

func (p SelectionPolicy) String() string {
	switch p {
	case DepthFirst:
		return "depth-first"
	case BreadthFirst:
		return "breadth-first"
	case BestBound:
		return "best-bound"
	default:
		return "unknown"
	}
}

// Options configures the tree search.
type Options struct {
	// Selection is the node-selection policy (DepthFirst by default).
	Selection SelectionPolicy

	// TimeLimit is a soft wall-clock budget; 0 disables it. On expiry
	// Solve returns the incumbent found so far with ErrTimeLimit.
	TimeLimit time.Duration

	// MaxNodes caps explored nodes; 0 disables the cap. On the cap
	// Solve returns the incumbent found so far with ErrNodeLimit.
	MaxNodes int

	// Colgen configures the per-node column-generation loop.
	Colgen colgen.Options
}

// DefaultOptions returns a depth-first search with default
// column-generation settings and no time or node caps.
func DefaultOptions() Options {
	return Options{
		Selection: DepthFirst,
		Colgen:    colgen.DefaultOptions(),
	}
}

// noBranch is the default branching policy: no decision, no children.
type noBranch struct{}

func (noBranch) Branch(colgen.Result) []colgen.Fixing { return nil }

// noRepair is the default repair policy: no candidate available.
type noRepair struct{}

func (noRepair) Repair(colgen.Result) (Incumbent, bool) { return nil, false }
