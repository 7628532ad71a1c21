package cutstock

import (
	"math"

	"github.com/pkg/errors"

	"github.com/optikon/branchprice/colgen"
	"github.com/optikon/branchprice/solver"
)

// Pricer is the pricing subproblem: a bounded integer knapsack over the
// roll width. One integer variable per item size counts how often that
// size appears in the candidate pattern; the objective is the demand
// duals handed down by the master.
type Pricer struct {
	p     *Problem
	model *solver.Model

	// saved holds pre-restriction bounds per touched column so
	// retraction is an exact restore, applied in reverse.
	saved []savedBounds
}

type savedBounds struct {
	col          int
	lower, upper float64
}

// NewPricer builds the knapsack model: per-size count variables capped
// at how many pieces fit on one roll, and a single width row.
func NewPricer(p *Problem) (*Pricer, error) {
	if p == nil {
		return nil, errors.Wrap(ErrNoItems, "cutstock: nil problem")
	}
	model := solver.NewModel(true)
	cols := make([]int, len(p.Sizes))
	vals := make([]float64, len(p.Sizes))
	for i, s := range p.Sizes {
		j, err := model.AddColumn(0, 0, math.Floor(p.RollWidth/s), true)
		if err != nil {
			return nil, err
		}
		cols[i] = j
		vals[i] = s
	}
	if _, err := model.AddRow(solver.NegInf(), cols, vals, p.RollWidth); err != nil {
		return nil, err
	}

	return &Pricer{p: p, model: model}, nil
}

// NumVars returns the number of per-size count variables.
func (pr *Pricer) NumVars() int { return len(pr.p.Sizes) }

// ApplyRestriction tightens the bounds of the named count variables.
// Roll-count fixings belong to the master and are skipped. Fixings that
// empty a variable's domain are rejected as a modeling error — a
// brancher must split domains, not cross them.
func (pr *Pricer) ApplyRestriction(fixings []colgen.Fixing) error {
	for _, f := range fixings {
		if f.Var < 0 || f.Var >= pr.NumVars() {
			continue
		}
		lo, hi, err := pr.model.ColBounds(f.Var)
		if err != nil {
			return err
		}
		pr.saved = append(pr.saved, savedBounds{col: f.Var, lower: lo, upper: hi})
		switch f.Op {
		case colgen.AtMost:
			hi = math.Min(hi, f.Value)
		case colgen.AtLeast:
			lo = math.Max(lo, f.Value)
		case colgen.Equal:
			lo, hi = f.Value, f.Value
		}
		if err := pr.model.SetColBounds(f.Var, lo, hi); err != nil {
			return errors.Wrapf(err, "cutstock: pricing bound on size %d", f.Var)
		}
	}

	return nil
}

// RetractRestriction restores every touched bound, newest first.
func (pr *Pricer) RetractRestriction() error {
	for i := len(pr.saved) - 1; i >= 0; i-- {
		s := pr.saved[i]
		if err := pr.model.SetColBounds(s.col, s.lower, s.upper); err != nil {
			return err
		}
	}
	pr.saved = pr.saved[:0]

	return nil
}

// Solve maximizes duals·x over the restricted knapsack and returns the
// optimum with the best pattern. An infeasible knapsack means the
// restrictions contradict the pricing model and is returned as an
// error.
func (pr *Pricer) Solve(duals []float64) (float64, colgen.Column, error) {
	if len(duals) != pr.NumVars() {
		return 0, nil, errors.Wrapf(ErrDimensionMismatch,
			"got %d duals for %d sizes", len(duals), pr.NumVars())
	}
	for i, d := range duals {
		if err := pr.model.SetObjCoeff(i, d); err != nil {
			return 0, nil, err
		}
	}
	sol, err := pr.model.SolveMIP(solver.DefaultMIPOptions())
	if err != nil {
		return 0, nil, errors.Wrap(err, "cutstock: pricing knapsack")
	}
	col := make(colgen.Column, len(sol.X))
	for i, v := range sol.X {
		col[i] = math.Round(v)
	}

	return sol.Objective, col, nil
}
