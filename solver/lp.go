package solver

import (
	"math"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// SolveLP solves the linear relaxation of the model (integrality marks
// are ignored) and returns the optimum with one dual value per row.
//
// Errors: ErrInfeasible, ErrUnbounded, or a wrapped simplex failure.
func (m *Model) SolveLP() (*Solution, error) {
	return solveLP(m, m.colLower, m.colUpper, true)
}

// solveLP runs one LP solve under the given column bounds. Duals are
// recovered only when requested; the dual recovery itself re-enters
// this function with needDuals=false.
func solveLP(m *Model, colLower, colUpper []float64, needDuals bool) (*Solution, error) {
	cn, err := lower(m, colLower, colUpper)
	if err != nil {
		return nil, err
	}

	xStd, err := cn.simplex()
	if err != nil {
		return nil, err
	}
	x := cn.userPoint(xStd)

	sol := &Solution{
		Objective: floats.Dot(m.obj, x),
		X:         x,
	}
	if !needDuals {
		return sol, nil
	}

	duals, err := recoverDuals(m, cn)
	if err != nil {
		return nil, err
	}
	sol.RowDuals = duals
	glog.V(3).Infof("solver: lp optimum %.9g over %d rows, %d cols",
		sol.Objective, m.NumRows(), m.NumCols())

	return sol, nil
}

// simplex assembles the dense equality system (one slack per remaining
// inequality) and runs gonum's simplex over it, returning the standard
// column portion of the optimum.
func (cn *canonical) simplex() ([]float64, error) {
	if len(cn.rows) == 0 {
		// No constraints at all: each standard column sits at zero
		// unless its cost is negative, in which case it runs away.
		for _, c := range cn.obj {
			if c < 0 {
				return nil, ErrUnbounded
			}
		}

		return make([]float64, cn.nStd), nil
	}

	nSlack := 0
	for _, r := range cn.rows {
		if r.sense != senseEQ {
			nSlack++
		}
	}
	nVar := cn.nStd + nSlack

	a := mat.NewDense(len(cn.rows), nVar, nil)
	b := make([]float64, len(cn.rows))
	c := make([]float64, nVar)
	copy(c, cn.obj)

	slack := cn.nStd
	for i, r := range cn.rows {
		for k, p := range r.cols {
			a.Set(i, p, r.vals[k])
		}
		b[i] = r.rhs
		switch r.sense {
		case senseLE:
			a.Set(i, slack, 1)
			slack++
		case senseGE:
			a.Set(i, slack, -1)
			slack++
		}
	}

	_, xStd, err := lp.Simplex(c, a, b, 0, nil)
	if retryableSimplexErr(err) {
		// Heavily degenerate vertices — many identical right-hand
		// sides, as the bound rows of symmetric binaries produce —
		// can stall the Bland pivot rule. Loosen every inequality by
		// a distinct tiny epsilon to break the ties and retry. The
		// feasible region only grows, so the returned objective is
		// still a valid relaxation bound, off by O(eps).
		bp := make([]float64, len(b))
		for _, eps := range []float64{1e-7, 1e-5} {
			copy(bp, b)
			for i, r := range cn.rows {
				delta := eps * float64(i+1) * (1 + math.Abs(b[i]))
				switch r.sense {
				case senseLE:
					bp[i] += delta
				case senseGE:
					bp[i] -= delta
				}
			}
			glog.V(3).Infof("solver: degenerate basis (%v), retrying with eps=%g", err, eps)
			_, xStd, err = lp.Simplex(c, a, bp, 0, nil)
			if err == nil || !retryableSimplexErr(err) {
				break
			}
		}
	}
	if err != nil {
		return nil, mapSimplexErr(err)
	}

	return xStd[:cn.nStd], nil
}

// retryableSimplexErr reports whether a simplex failure is a pivoting
// degeneracy that a right-hand-side perturbation can resolve, as
// opposed to a genuine infeasible/unbounded verdict.
func retryableSimplexErr(err error) bool {
	switch err {
	case lp.ErrBland, lp.ErrSingular, lp.ErrLinSolve:
		return true
	default:
		return false
	}
}

func mapSimplexErr(err error) error {
	switch err {
	case lp.ErrInfeasible:
		return ErrInfeasible
	case lp.ErrUnbounded:
		return ErrUnbounded
	default:
		return errors.Wrap(err, "solver: simplex failed")
	}
}

// recoverDuals builds the dual program over the canonical rows and
// solves it. For the min-form primal, a ≥-row gets y ≥ 0, a ≤-row
// y ≤ 0 and an =-row a free y, subject to Aᵀy ≤ c; the dual objective
// maximizes bᵀy. Duals of internal bound rows stay private; duals of
// rows the normalization flipped are negated back, and a maximization
// model negates the whole vector so callers always see duals in their
// own optimization sense.
func recoverDuals(m *Model, cn *canonical) ([]float64, error) {
	duals := make([]float64, m.NumRows())
	if len(cn.rows) == 0 {
		return duals, nil
	}

	d := NewModel(false)
	for _, r := range cn.rows {
		var lo, hi float64
		switch r.sense {
		case senseGE:
			lo, hi = 0, math.Inf(1)
		case senseLE:
			lo, hi = math.Inf(-1), 0
		case senseEQ:
			lo, hi = math.Inf(-1), math.Inf(1)
		}
		// max bᵀy expressed as min (−b)ᵀy.
		if _, err := d.AddColumn(-r.rhs, lo, hi, false); err != nil {
			return nil, err
		}
	}

	// Transpose: one dual row per standard primal column.
	tCols := make([][]int, cn.nStd)
	tVals := make([][]float64, cn.nStd)
	for i, r := range cn.rows {
		for k, p := range r.cols {
			tCols[p] = append(tCols[p], i)
			tVals[p] = append(tVals[p], r.vals[k])
		}
	}
	for p := 0; p < cn.nStd; p++ {
		if len(tCols[p]) == 0 {
			// The primal solved, so an unconstrained column has c ≥ 0
			// and the corresponding dual row is vacuous.
			continue
		}
		if _, err := d.AddRow(math.Inf(-1), tCols[p], tVals[p], cn.obj[p]); err != nil {
			return nil, err
		}
	}

	dsol, err := solveLP(d, d.colLower, d.colUpper, false)
	if err != nil {
		return nil, errors.Wrap(err, "solver: dual recovery")
	}

	for i, r := range cn.rows {
		if r.orig < 0 {
			continue
		}
		y := dsol.X[i]
		if r.flipped {
			y = -y
		}
		if m.maximize {
			y = -y
		}
		duals[r.orig] += y
	}

	return duals, nil
}
