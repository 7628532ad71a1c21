package cutstock_test

import (
	"fmt"

	"github.com/optikon/branchprice/bnp"
	"github.com/optikon/branchprice/cutstock"
)

// Two pieces of width 60 cannot share a 100-wide roll, so the optimal
// plan cuts two rolls.
func ExampleSolve() {
	p, err := cutstock.New(100, []float64{60, 60}, []int{1, 1})
	if err != nil {
		fmt.Println("build:", err)
		return
	}

	sol, err := cutstock.Solve(p, bnp.DefaultOptions())
	if err != nil {
		fmt.Println("solve:", err)
		return
	}
	fmt.Println("rolls:", sol.Bins)

	// Output:
	// rolls: 2
}

// The relaxation of this instance is fractional (3.5 rolls), so the
// search has to branch on the roll count before certifying the optimum.
func ExampleSolve_branching() {
	p, err := cutstock.New(7, []float64{5, 3}, []int{2, 3})
	if err != nil {
		fmt.Println("build:", err)
		return
	}

	sol, err := cutstock.Solve(p, bnp.DefaultOptions())
	if err != nil {
		fmt.Println("solve:", err)
		return
	}
	fmt.Println("rolls:", sol.Bins)

	// Output:
	// rolls: 4
}
