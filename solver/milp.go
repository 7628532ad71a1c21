package solver

import (
	"errors"
	"math"

	"github.com/golang/glog"
)

// Default branch-and-bound knobs.
const (
	// DefaultIntTol is the integrality tolerance: values this close to
	// an integer are accepted as integral.
	DefaultIntTol = 1e-6

	// DefaultImproveEps is the minimal objective improvement used when
	// pruning against the incumbent.
	DefaultImproveEps = 1e-9

	// DefaultMaxNodes caps the branch-and-bound tree size.
	DefaultMaxNodes = 100000
)

// MIPOptions configures SolveMIP.
type MIPOptions struct {
	// IntTol is the integrality tolerance (DefaultIntTol when 0).
	IntTol float64

	// ImproveEps is the pruning epsilon (DefaultImproveEps when 0).
	ImproveEps float64

	// MaxNodes caps the number of explored nodes (DefaultMaxNodes
	// when 0). Hitting the cap returns the incumbent found so far
	// together with ErrNodeLimit.
	MaxNodes int
}

// DefaultMIPOptions returns the default branch-and-bound configuration.
func DefaultMIPOptions() MIPOptions {
	return MIPOptions{
		IntTol:     DefaultIntTol,
		ImproveEps: DefaultImproveEps,
		MaxNodes:   DefaultMaxNodes,
	}
}

func (o *MIPOptions) fill() {
	if o.IntTol == 0 {
		o.IntTol = DefaultIntTol
	}
	if o.ImproveEps == 0 {
		o.ImproveEps = DefaultImproveEps
	}
	if o.MaxNodes == 0 {
		o.MaxNodes = DefaultMaxNodes
	}
}

// mipNode is one branch-and-bound node: a private copy of the column
// bounds, tightened by the fixings on the path to it.
type mipNode struct {
	lower []float64
	upper []float64
}

// SolveMIP solves the model honoring integrality marks, by depth-first
// branch-and-bound over LP relaxations: most-fractional variable
// selection, floor/ceil bound splits, incumbent pruning.
//
// Errors: ErrInfeasible when no integral point exists, ErrUnbounded
// when the relaxation is unbounded, ErrNodeLimit (with the incumbent,
// if any) when the node cap is hit.
func (m *Model) SolveMIP(opts MIPOptions) (*Solution, error) {
	opts.fill()

	root := mipNode{
		lower: append([]float64(nil), m.colLower...),
		upper: append([]float64(nil), m.colUpper...),
	}
	stack := []mipNode{root}

	var best *Solution
	nodes := 0
	rootSolved := false

	for len(stack) > 0 {
		nodes++
		if nodes > opts.MaxNodes {
			return best, ErrNodeLimit
		}
		nd := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		relax, err := solveLP(m, nd.lower, nd.upper, false)
		switch {
		case errors.Is(err, ErrInfeasible):
			continue
		case errors.Is(err, ErrUnbounded):
			if !rootSolved {
				return nil, ErrUnbounded
			}
			continue
		case err != nil:
			return nil, err
		}
		rootSolved = true

		// Bound: the relaxation dominates every completion below.
		if best != nil && !improves(relax.Objective, best.Objective, m.maximize, opts.ImproveEps) {
			continue
		}

		branch := pickBranchVar(m, relax.X, opts.IntTol)
		if branch < 0 {
			// Integral point: candidate incumbent.
			cand := snapIntegral(m, relax)
			if best == nil || improves(cand.Objective, best.Objective, m.maximize, opts.ImproveEps) {
				best = cand
				glog.V(3).Infof("solver: mip incumbent %.9g at node %d", best.Objective, nodes)
			}
			continue
		}

		v := relax.X[branch]
		down := mipNode{
			lower: append([]float64(nil), nd.lower...),
			upper: append([]float64(nil), nd.upper...),
		}
		up := mipNode{
			lower: append([]float64(nil), nd.lower...),
			upper: append([]float64(nil), nd.upper...),
		}
		down.upper[branch] = math.Floor(v)
		up.lower[branch] = math.Ceil(v)
		// Push the down branch last so it is explored first; rounding
		// down tends to stay feasible for covering-style models.
		stack = append(stack, up, down)
	}

	if best == nil {
		return nil, ErrInfeasible
	}
	glog.V(3).Infof("solver: mip optimum %.9g after %d nodes", best.Objective, nodes)

	return best, nil
}

// improves reports whether candidate strictly improves on incumbent by
// more than eps, in the given optimization sense.
func improves(candidate, incumbent float64, maximize bool, eps float64) bool {
	if maximize {
		return candidate > incumbent+eps
	}

	return candidate < incumbent-eps
}

// pickBranchVar returns the integral column whose relaxation value is
// most fractional (closest to one half), or -1 when the point is
// integral within tol.
func pickBranchVar(m *Model, x []float64, tol float64) int {
	bestJ := -1
	bestScore := tol
	for j, isInt := range m.integer {
		if !isInt {
			continue
		}
		frac := fractionality(x[j])
		if frac <= tol {
			continue
		}
		// Distance from 1/2, inverted so higher is more fractional.
		score := 0.5 - math.Abs(frac-0.5)
		if bestJ < 0 || score > bestScore {
			bestJ = j
			bestScore = score
		}
	}

	return bestJ
}

// snapIntegral rounds the integral columns of a relaxation optimum to
// exact integers and re-evaluates the objective.
func snapIntegral(m *Model, relax *Solution) *Solution {
	x := append([]float64(nil), relax.X...)
	obj := 0.0
	for j := range x {
		if m.integer[j] {
			x[j] = math.Round(x[j])
		}
		obj += m.obj[j] * x[j]
	}

	return &Solution{Objective: obj, X: x}
}
