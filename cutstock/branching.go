package cutstock

import (
	"math"

	"github.com/optikon/branchprice/colgen"
)

// RollCountBrancher branches on the total roll count Σλ. When the count
// is fractional the node splits into Σλ ≤ ⌊Σλ⌋ and Σλ ≥ ⌈Σλ⌉ — a valid
// dichotomy over all integral solutions that leaves the knapsack pricer
// untouched. The at-least child is returned second so a depth-first
// search explores it first; for covering instances it is the side that
// stays feasible.
type RollCountBrancher struct {
	// Tol is the integrality tolerance on Σλ (colgen.DefaultTolerance
	// when 0).
	Tol float64
}

// Branch implements bnp.Brancher.
func (br RollCountBrancher) Branch(res colgen.Result) []colgen.Fixing {
	tol := br.Tol
	if tol == 0 {
		tol = colgen.DefaultTolerance
	}
	total := 0.0
	for _, w := range res.Fractional {
		total += w
	}
	if math.Abs(total-math.Round(total)) <= tol {
		return nil
	}

	return []colgen.Fixing{
		{Var: RollCountVar, Op: colgen.AtMost, Value: math.Floor(total)},
		{Var: RollCountVar, Op: colgen.AtLeast, Value: math.Ceil(total)},
	}
}
