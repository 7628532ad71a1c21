package cutstock

import (
	"math"

	"github.com/pkg/errors"

	"github.com/optikon/branchprice/solver"
)

// ExactBinCount solves a compact roll-assignment MILP and returns the
// minimal roll count. Intended as an independent cross-check on small
// instances: the formulation has B·(n+1) integer variables for B the
// first-fit upper bound, which grows far faster than the pattern
// decomposition.
//
// Formulation: binary y_b marks roll b as used, integer x_ib counts
// pieces of size i on roll b. Demands are met exactly, roll capacity is
// honored only on used rolls, and y_b ≥ y_{b+1} breaks roll symmetry.
func (p *Problem) ExactBinCount() (int, error) {
	bins := p.BinsUpperBound()
	n := len(p.Sizes)

	m := solver.NewModel(false)

	y := make([]int, bins)
	for b := range y {
		j, err := m.AddColumn(1, 0, 1, true)
		if err != nil {
			return 0, err
		}
		y[b] = j
	}
	x := make([][]int, n)
	for i := range x {
		x[i] = make([]int, bins)
		most := math.Min(float64(p.Demands[i]), math.Floor(p.RollWidth/p.Sizes[i]))
		for b := range x[i] {
			j, err := m.AddColumn(0, 0, most, true)
			if err != nil {
				return 0, err
			}
			x[i][b] = j
		}
	}

	// Demand rows: Σ_b x_ib = d_i.
	for i := 0; i < n; i++ {
		cols := make([]int, bins)
		vals := make([]float64, bins)
		for b := 0; b < bins; b++ {
			cols[b] = x[i][b]
			vals[b] = 1
		}
		d := float64(p.Demands[i])
		if _, err := m.AddRow(d, cols, vals, d); err != nil {
			return 0, err
		}
	}

	// Capacity rows: Σ_i s_i·x_ib − W·y_b ≤ 0.
	for b := 0; b < bins; b++ {
		cols := make([]int, 0, n+1)
		vals := make([]float64, 0, n+1)
		for i := 0; i < n; i++ {
			cols = append(cols, x[i][b])
			vals = append(vals, p.Sizes[i])
		}
		cols = append(cols, y[b])
		vals = append(vals, -p.RollWidth)
		if _, err := m.AddRow(solver.NegInf(), cols, vals, 0); err != nil {
			return 0, err
		}
	}

	// Symmetry: y_b − y_{b+1} ≥ 0.
	for b := 0; b+1 < bins; b++ {
		if _, err := m.AddRow(0, []int{y[b], y[b+1]}, []float64{1, -1}, solver.Inf()); err != nil {
			return 0, err
		}
	}

	// Aggregate width: the used rolls must carry the total demanded
	// width, so Σ y_b ≥ ⌈Σ d_i·s_i / W⌉. Redundant for the integer
	// optimum but lifts the relaxation bound well above the trivial one.
	area := 0.0
	for i, d := range p.Demands {
		area += float64(d) * p.Sizes[i]
	}
	ones := make([]float64, bins)
	for b := range ones {
		ones[b] = 1
	}
	if _, err := m.AddRow(math.Ceil(area/p.RollWidth), y, ones, solver.Inf()); err != nil {
		return 0, err
	}

	sol, err := m.SolveMIP(solver.DefaultMIPOptions())
	if err != nil {
		return 0, errors.Wrap(err, "cutstock: exact bin count")
	}

	return int(math.Round(sol.Objective)), nil
}
