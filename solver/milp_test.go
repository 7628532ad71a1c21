package solver_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/optikon/branchprice/solver"
)

// 0/1 knapsack: values 60/100/120, weights 10/20/30, capacity 50. The
// optimum takes the last two items for 220.
func TestSolveMIP_BinaryKnapsack(t *testing.T) {
	m := solver.NewModel(true)
	values := []float64{60, 100, 120}
	weights := []float64{10, 20, 30}
	cols := make([]int, len(values))
	for i, v := range values {
		j, err := m.AddColumn(v, 0, 1, true)
		require.NoError(t, err)
		cols[i] = j
	}
	_, err := m.AddRow(solver.NegInf(), cols, weights, 50)
	require.NoError(t, err)

	sol, err := m.SolveMIP(solver.DefaultMIPOptions())
	require.NoError(t, err)
	require.InDelta(t, 220, sol.Objective, tol)
	require.InDelta(t, 0, sol.X[cols[0]], tol)
	require.InDelta(t, 1, sol.X[cols[1]], tol)
	require.InDelta(t, 1, sol.X[cols[2]], tol)
	require.True(t, sol.IsIntegral(m, solver.DefaultIntTol))
}

// The LP relaxation of this covering model sits at (1.6, 1.2) with
// value 2.8; the integer optimum is (2, 1) with value 3.
func TestSolveMIP_IntegerCovering(t *testing.T) {
	m := solver.NewModel(false)
	x, err := m.AddColumn(1, 0, solver.Inf(), true)
	require.NoError(t, err)
	y, err := m.AddColumn(1, 0, solver.Inf(), true)
	require.NoError(t, err)
	_, err = m.AddRow(4, []int{x, y}, []float64{1, 2}, solver.Inf())
	require.NoError(t, err)
	_, err = m.AddRow(6, []int{x, y}, []float64{3, 1}, solver.Inf())
	require.NoError(t, err)

	sol, err := m.SolveMIP(solver.DefaultMIPOptions())
	require.NoError(t, err)
	require.InDelta(t, 3, sol.Objective, tol)
	require.InDelta(t, 2, sol.X[x], tol)
	require.InDelta(t, 1, sol.X[y], tol)
	require.Nil(t, sol.RowDuals)
}

// Mixed model: only the marked column must come out integral.
func TestSolveMIP_MixedIntegrality(t *testing.T) {
	m := solver.NewModel(false)
	x, err := m.AddColumn(1, 0, solver.Inf(), true)
	require.NoError(t, err)
	y, err := m.AddColumn(1, 0, solver.Inf(), false)
	require.NoError(t, err)
	_, err = m.AddRow(3.5, []int{x, y}, []float64{1, 1}, solver.Inf())
	require.NoError(t, err)
	_, err = m.AddRow(solver.NegInf(), []int{x}, []float64{1}, 3)
	require.NoError(t, err)

	sol, err := m.SolveMIP(solver.DefaultMIPOptions())
	require.NoError(t, err)
	require.InDelta(t, 3.5, sol.Objective, tol)
	require.True(t, sol.IsIntegral(m, solver.DefaultIntTol))
	require.InDelta(t, 3.5, sol.X[x]+sol.X[y], tol)
}

// The relaxation is feasible (x = 0.5) but no integer point exists in
// the window.
func TestSolveMIP_IntegerInfeasible(t *testing.T) {
	m := solver.NewModel(false)
	x, err := m.AddColumn(1, 0, 1, true)
	require.NoError(t, err)
	_, err = m.AddRow(0.4, []int{x}, []float64{1}, 0.6)
	require.NoError(t, err)

	_, err = m.SolveMIP(solver.DefaultMIPOptions())
	require.ErrorIs(t, err, solver.ErrInfeasible)
}

func TestSolveMIP_NodeLimit(t *testing.T) {
	m := solver.NewModel(false)
	x, err := m.AddColumn(1, 0, solver.Inf(), true)
	require.NoError(t, err)
	y, err := m.AddColumn(1, 0, solver.Inf(), true)
	require.NoError(t, err)
	_, err = m.AddRow(4, []int{x, y}, []float64{1, 2}, solver.Inf())
	require.NoError(t, err)
	_, err = m.AddRow(6, []int{x, y}, []float64{3, 1}, solver.Inf())
	require.NoError(t, err)

	opts := solver.DefaultMIPOptions()
	opts.MaxNodes = 1
	_, err = m.SolveMIP(opts)
	require.ErrorIs(t, err, solver.ErrNodeLimit)
}
