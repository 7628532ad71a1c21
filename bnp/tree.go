package bnp

import (
	"github.com/optikon/branchprice/colgen"
)

// node is one entry in the tree arena. A node differs from its parent
// by exactly one fixing; the root carries none.
type node struct {
	parent int
	fixing colgen.Fixing
	fixed  bool
}

// Tree is an arena of search nodes addressed by index. Node 0 is the
// root. Children record their parent index and a single fixing; the
// accumulated restriction of a node is the fixings along its ancestor
// chain.
//
// Nodes are never removed — the arena only grows. A tree is bound to
// one shared column-generation instance at construction and delegates
// node solves to it.
type Tree struct {
	nodes []node
	cg    *colgen.ColumnGeneration
}

// NewTree creates a tree holding only the unrestricted root (node 0),
// solved through cg.
func NewTree(cg *colgen.ColumnGeneration) (*Tree, error) {
	if cg == nil {
		return nil, ErrNilComponent
	}

	return &Tree{
		nodes: []node{{parent: -1}},
		cg:    cg,
	}, nil
}

// Len returns the number of nodes allocated so far.
func (t *Tree) Len() int { return len(t.nodes) }

// NewChild allocates a child of parent with no fixing yet and returns
// its index.
func (t *Tree) NewChild(parent int) (int, error) {
	if parent < 0 || parent >= len(t.nodes) {
		return 0, ErrBadNode
	}
	t.nodes = append(t.nodes, node{parent: parent})

	return len(t.nodes) - 1, nil
}

// AddFixing attaches the single branching fixing to a node. A node
// accepts exactly one fixing; a second call fails with
// ErrFixingAlreadySet.
func (t *Tree) AddFixing(id int, f colgen.Fixing) error {
	if id < 0 || id >= len(t.nodes) {
		return ErrBadNode
	}
	if t.nodes[id].fixed {
		return ErrFixingAlreadySet
	}
	t.nodes[id].fixing = f
	t.nodes[id].fixed = true

	return nil
}

// FixedVars returns the node's accumulated restriction: its own fixing
// first, then each ancestor's, nearest first. The walk is iterative.
func (t *Tree) FixedVars(id int) ([]colgen.Fixing, error) {
	if id < 0 || id >= len(t.nodes) {
		return nil, ErrBadNode
	}
	var fixings []colgen.Fixing
	for cur := id; cur >= 0; cur = t.nodes[cur].parent {
		if t.nodes[cur].fixed {
			fixings = append(fixings, t.nodes[cur].fixing)
		}
	}

	return fixings, nil
}

// Depth returns the number of edges between the node and the root.
func (t *Tree) Depth(id int) (int, error) {
	if id < 0 || id >= len(t.nodes) {
		return 0, ErrBadNode
	}
	d := 0
	for cur := t.nodes[id].parent; cur >= 0; cur = t.nodes[cur].parent {
		d++
	}

	return d, nil
}

// SolveNode runs column generation under the node's accumulated
// fixings. Error semantics are those of colgen.ColumnGeneration.Solve.
func (t *Tree) SolveNode(id int) (colgen.Result, error) {
	fixings, err := t.FixedVars(id)
	if err != nil {
		return colgen.Result{}, err
	}

	return t.cg.Solve(fixings)
}
