package bnp

import (
	"math"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/optikon/branchprice/colgen"
)

// queued is one node waiting in the store, with the selection priority
// assigned at push time (the parent's relaxation bound; the root gets
// the sense's worst value).
type queued struct {
	id       int
	priority float64
}

// BranchAndPrice runs column generation at every node of a
// branch-and-bound tree. Construct one per problem instance with New
// and call Solve once; instances are not safe for concurrent use.
type BranchAndPrice struct {
	tree     *Tree
	sense    colgen.Sense
	brancher Brancher
	repairer Repairer
	opts     Options
}

// New wires the problem's master/pricer pair into a shared
// column-generation instance and prepares the tree around it. A nil
// brancher disables branching (root bound only); a nil repairer
// disables incumbent extraction.
func New(problem colgen.Problem, master colgen.Master, pricer colgen.Pricer,
	brancher Brancher, repairer Repairer, opts Options) (*BranchAndPrice, error) {

	cg, err := colgen.New(problem, master, pricer, opts.Colgen)
	if err != nil {
		return nil, errors.Wrap(err, "bnp: building column generation")
	}
	tree, err := NewTree(cg)
	if err != nil {
		return nil, err
	}
	if brancher == nil {
		brancher = noBranch{}
	}
	if repairer == nil {
		repairer = noRepair{}
	}

	return &BranchAndPrice{
		tree:     tree,
		sense:    cg.Sense(),
		brancher: brancher,
		repairer: repairer,
		opts:     opts,
	}, nil
}

// Tree exposes the underlying node arena, mainly for inspection after
// a solve.
func (bp *BranchAndPrice) Tree() *Tree { return bp.tree }

// Solve explores the tree and returns the best integral solution found.
//
// Per node: solve the relaxation by column generation; an infeasible
// restriction prunes the node. Try to repair the fractional point into
// an incumbent, keeping it only on strict improvement. Prune when a
// CERTIFIED bound cannot beat the incumbent — bounds cut short by the
// iteration cap are estimates and never prune. Otherwise branch into
// exactly two children with complementary fixings.
//
// Returns nil with nil error when the tree is exhausted without any
// incumbent (the instance has no integral solution reachable by the
// supplied policies). A time or node limit returns the incumbent found
// so far together with ErrTimeLimit or ErrNodeLimit.
func (bp *BranchAndPrice) Solve() (Incumbent, error) {
	var deadline time.Time
	if bp.opts.TimeLimit > 0 {
		deadline = time.Now().Add(bp.opts.TimeLimit)
	}

	store := []queued{{id: 0, priority: bp.worstBound()}}
	var incumbent Incumbent
	explored := 0

	for len(store) > 0 {
		if !deadline.IsZero() && time.Now().After(deadline) {
			glog.V(1).Infof("bnp: time limit after %d nodes", explored)
			return incumbent, ErrTimeLimit
		}
		explored++
		if bp.opts.MaxNodes > 0 && explored > bp.opts.MaxNodes {
			glog.V(1).Infof("bnp: node limit %d reached", bp.opts.MaxNodes)
			return incumbent, ErrNodeLimit
		}

		var q queued
		q, store = bp.pop(store)

		res, err := bp.tree.SolveNode(q.id)
		if errors.Is(err, colgen.ErrInfeasibleRestriction) {
			glog.V(2).Infof("bnp: node %d infeasible, pruned", q.id)
			continue
		}
		if err != nil {
			return incumbent, err
		}
		glog.V(2).Infof("bnp: node %d bound=%.9g certified=%t iters=%d",
			q.id, res.Bound, res.Certified, res.Iterations)

		if sol, ok := bp.repairer.Repair(res); ok {
			if incumbent == nil || bp.better(sol.ObjectiveValue(), incumbent.ObjectiveValue()) {
				incumbent = sol
				glog.V(1).Infof("bnp: incumbent %.9g at node %d", sol.ObjectiveValue(), q.id)
			}
		}

		// Only a converged bound is a true bound for the subtree; an
		// iteration-capped estimate must not prune.
		if incumbent != nil && res.Certified && !bp.better(res.Bound, incumbent.ObjectiveValue()) {
			glog.V(2).Infof("bnp: node %d pruned by bound %.9g vs incumbent %.9g",
				q.id, res.Bound, incumbent.ObjectiveValue())
			continue
		}

		fixings := bp.brancher.Branch(res)
		if len(fixings) == 0 {
			continue
		}
		if len(fixings) != 2 {
			return incumbent, errors.Wrapf(ErrBadBranching, "got %d fixings", len(fixings))
		}
		for _, f := range fixings {
			child, cerr := bp.tree.NewChild(q.id)
			if cerr != nil {
				return incumbent, cerr
			}
			if cerr = bp.tree.AddFixing(child, f); cerr != nil {
				return incumbent, cerr
			}
			store = append(store, queued{id: child, priority: res.Bound})
		}
	}
	glog.V(1).Infof("bnp: tree exhausted after %d nodes", explored)

	return incumbent, nil
}

// pop removes the next node per the selection policy.
func (bp *BranchAndPrice) pop(store []queued) (queued, []queued) {
	switch bp.opts.Selection {
	case BreadthFirst:
		q := store[0]
		return q, store[1:]
	case BestBound:
		best := 0
		for i := 1; i < len(store); i++ {
			if bp.better(store[i].priority, store[best].priority) {
				best = i
			}
		}
		q := store[best]
		return q, append(store[:best], store[best+1:]...)
	default: // DepthFirst
		q := store[len(store)-1]
		return q, store[:len(store)-1]
	}
}

// better reports whether a is strictly better than b in the problem
// sense.
func (bp *BranchAndPrice) better(a, b float64) bool {
	if bp.sense == colgen.SenseMax {
		return a > b
	}

	return a < b
}

// worstBound is the priority seed for the root under best-bound
// selection.
func (bp *BranchAndPrice) worstBound() float64 {
	if bp.sense == colgen.SenseMax {
		return math.Inf(-1)
	}

	return math.Inf(1)
}
