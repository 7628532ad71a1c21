package cutstock

import (
	"math"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/optikon/branchprice/colgen"
	"github.com/optikon/branchprice/solver"
)

// RollCountVar is the branching-variable id for the total roll count
// Σλ over all pattern weights. It is the only fixing the cutting-stock
// master recognizes; the knapsack pricer ignores it, because a bound on
// the roll count does not restrict which patterns may be cut.
const RollCountVar = -1

// Master is the restricted master problem: minimize the total pattern
// weight subject to one covering row per item size. Columns are cutting
// patterns with unit objective cost; branch restrictions on the roll
// count are appended as extra rows after a fixed watermark and
// truncated away on retraction.
type Master struct {
	p     *Problem
	model *solver.Model

	// baseRows is the demand-row watermark; rows at or above it are
	// scoped branch restrictions.
	baseRows int

	patterns []colgen.Column

	sol      *solver.Solution
	feasible bool
}

// NewMaster builds the restricted master seeded with the instance's
// first-fit patterns, so the initial LP is feasible.
func NewMaster(p *Problem) (*Master, error) {
	if p == nil {
		return nil, errors.Wrap(ErrNoItems, "cutstock: nil problem")
	}
	model := solver.NewModel(false)
	for _, d := range p.Demands {
		if _, err := model.AddRow(float64(d), nil, nil, solver.Inf()); err != nil {
			return nil, err
		}
	}
	m := &Master{
		p:        p,
		model:    model,
		baseRows: len(p.Demands),
	}
	for _, pat := range p.FirstFit() {
		if err := m.AddColumn(pat); err != nil {
			return nil, err
		}
	}
	glog.V(2).Infof("cutstock: master seeded with %d patterns over %d sizes",
		len(m.patterns), len(p.Sizes))

	return m, nil
}

// AddColumn appends a cutting pattern as a nonnegative weight with unit
// cost, wired into every demand row and every active branch row.
func (m *Master) AddColumn(col colgen.Column) error {
	if len(col) != m.baseRows {
		return errors.Wrapf(ErrDimensionMismatch,
			"pattern has %d entries for %d sizes", len(col), m.baseRows)
	}
	j, err := m.model.AddColumn(1, 0, solver.Inf(), false)
	if err != nil {
		return err
	}
	for i, cnt := range col {
		if cnt != 0 {
			if err := m.model.SetCoeff(i, j, cnt); err != nil {
				return err
			}
		}
	}
	// Roll-count branch rows constrain Σλ, so every pattern — current
	// and future — enters them with coefficient 1.
	for r := m.baseRows; r < m.model.NumRows(); r++ {
		if err := m.model.SetCoeff(r, j, 1); err != nil {
			return err
		}
	}
	m.patterns = append(m.patterns, append(colgen.Column(nil), col...))

	return nil
}

// ApplyRestriction appends one Σλ row per roll-count fixing. Fixings on
// other variables are not the master's concern and are skipped.
func (m *Master) ApplyRestriction(fixings []colgen.Fixing) error {
	for _, f := range fixings {
		if f.Var != RollCountVar {
			continue
		}
		lo, hi := solver.NegInf(), solver.Inf()
		switch f.Op {
		case colgen.AtMost:
			hi = f.Value
		case colgen.AtLeast:
			lo = f.Value
		case colgen.Equal:
			lo, hi = f.Value, f.Value
		}
		cols := make([]int, len(m.patterns))
		vals := make([]float64, len(m.patterns))
		for j := range cols {
			cols[j] = j
			vals[j] = 1
		}
		if _, err := m.model.AddRow(lo, cols, vals, hi); err != nil {
			return errors.Wrapf(err, "cutstock: roll count %s %g", f.Op, f.Value)
		}
	}

	return nil
}

// RetractRestriction truncates the model back to the demand-row
// watermark, dropping every branch row.
func (m *Master) RetractRestriction() error {
	return m.model.TruncateRows(m.baseRows)
}

// Solve computes the LP optimum over the current patterns. An
// infeasible restriction is recorded for IsFeasible, not returned as an
// error.
func (m *Master) Solve() error {
	sol, err := m.model.SolveLP()
	if errors.Is(err, solver.ErrInfeasible) {
		m.sol = nil
		m.feasible = false
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "cutstock: master lp")
	}
	m.sol = sol
	m.feasible = true

	return nil
}

// IsFeasible reports whether the last Solve found a solution.
func (m *Master) IsFeasible() bool { return m.feasible }

// ObjectiveValue returns the last LP objective: the fractional roll
// count.
func (m *Master) ObjectiveValue() float64 {
	if m.sol == nil {
		return math.NaN()
	}

	return m.sol.Objective
}

// FractionalSolution returns the last pattern weights.
func (m *Master) FractionalSolution() []float64 {
	if m.sol == nil {
		return nil
	}

	return append([]float64(nil), m.sol.X...)
}

// DualValues returns the demand-row duals, one per item size, in size
// order. Branch-row duals are folded into ReducedCostRef instead.
func (m *Master) DualValues() []float64 {
	if m.sol == nil {
		return nil
	}

	return append([]float64(nil), m.sol.RowDuals[:m.baseRows]...)
}

// ReducedCostRef returns the pricing break-even value. A pattern column
// has unit cost and coefficient 1 in every branch row, so its reduced
// cost is 1 − Σ branch-row duals − duals·pattern; pricing maximizes
// duals·pattern, and improvement requires exceeding this reference.
func (m *Master) ReducedCostRef() float64 {
	if m.sol == nil {
		return math.NaN()
	}
	ref := 1.0
	for _, d := range m.sol.RowDuals[m.baseRows:] {
		ref -= d
	}

	return ref
}

// Patterns returns the columns added so far, in insertion order.
func (m *Master) Patterns() []colgen.Column { return m.patterns }
