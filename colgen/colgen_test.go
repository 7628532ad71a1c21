package colgen_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/optikon/branchprice/colgen"
)

type senseProblem colgen.Sense

func (p senseProblem) Sense() colgen.Sense { return colgen.Sense(p) }

// fakeMaster is a scriptable restricted master: a fixed bound, dual
// vector and reference value, with counters on every lifecycle call.
type fakeMaster struct {
	bound    float64
	feasible bool
	duals    []float64
	ref      float64

	applyErr error
	addErr   error
	solveErr error

	applies  int
	retracts int
	solves   int
	added    []colgen.Column
}

func (f *fakeMaster) AddColumn(col colgen.Column) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.added = append(f.added, col)
	return nil
}

func (f *fakeMaster) ApplyRestriction([]colgen.Fixing) error {
	f.applies++
	return f.applyErr
}

func (f *fakeMaster) RetractRestriction() error {
	f.retracts++
	return nil
}

func (f *fakeMaster) Solve() error {
	f.solves++
	return f.solveErr
}

func (f *fakeMaster) IsFeasible() bool             { return f.feasible }
func (f *fakeMaster) ObjectiveValue() float64      { return f.bound }
func (f *fakeMaster) FractionalSolution() []float64 { return []float64{f.bound} }
func (f *fakeMaster) DualValues() []float64        { return f.duals }
func (f *fakeMaster) ReducedCostRef() float64      { return f.ref }

// fakePricer replays a scripted sequence of pricing objectives; the
// last entry repeats once the script runs out.
type fakePricer struct {
	nvars int
	objs  []float64

	applyErr error
	solveErr error

	applies  int
	retracts int
	calls    int
}

func (f *fakePricer) NumVars() int { return f.nvars }

func (f *fakePricer) ApplyRestriction([]colgen.Fixing) error {
	f.applies++
	return f.applyErr
}

func (f *fakePricer) RetractRestriction() error {
	f.retracts++
	return nil
}

func (f *fakePricer) Solve([]float64) (float64, colgen.Column, error) {
	if f.solveErr != nil {
		return 0, nil, f.solveErr
	}
	obj := f.objs[min(f.calls, len(f.objs)-1)]
	f.calls++
	return obj, colgen.Column{1}, nil
}

func newFakes() (*fakeMaster, *fakePricer) {
	m := &fakeMaster{bound: 5, feasible: true, duals: []float64{0.5}, ref: 1}
	p := &fakePricer{nvars: 1, objs: []float64{1}}
	return m, p
}

func TestNew_Validation(t *testing.T) {
	m, p := newFakes()

	_, err := colgen.New(nil, m, p, colgen.DefaultOptions())
	require.ErrorIs(t, err, colgen.ErrNilComponent)
	_, err = colgen.New(senseProblem(colgen.SenseMin), nil, p, colgen.DefaultOptions())
	require.ErrorIs(t, err, colgen.ErrNilComponent)
	_, err = colgen.New(senseProblem(colgen.SenseMin), m, nil, colgen.DefaultOptions())
	require.ErrorIs(t, err, colgen.ErrNilComponent)
	_, err = colgen.New(senseProblem(7), m, p, colgen.DefaultOptions())
	require.ErrorIs(t, err, colgen.ErrInvalidSense)
}

// The pricing optimum equals the reference, so no column can improve
// the master and the loop converges on the first iteration without
// adding anything.
func TestSolve_ImmediateConvergence(t *testing.T) {
	m, p := newFakes()
	cg, err := colgen.New(senseProblem(colgen.SenseMin), m, p, colgen.DefaultOptions())
	require.NoError(t, err)

	res, err := cg.Solve(nil)
	require.NoError(t, err)
	require.True(t, res.Certified)
	require.Equal(t, 1, res.Iterations)
	require.InDelta(t, 5.0, res.Bound, 1e-9)
	require.Empty(t, m.added)
	require.Equal(t, 1, m.applies)
	require.Equal(t, 1, m.retracts)
	require.Equal(t, 1, p.applies)
	require.Equal(t, 1, p.retracts)
}

// First pricing call finds an improving column, second certifies the
// fixed point. Exactly the improving column must have been added.
func TestSolve_AddThenConverge(t *testing.T) {
	m, p := newFakes()
	p.objs = []float64{2, 1}
	cg, err := colgen.New(senseProblem(colgen.SenseMin), m, p, colgen.DefaultOptions())
	require.NoError(t, err)

	res, err := cg.Solve(nil)
	require.NoError(t, err)
	require.True(t, res.Certified)
	require.Equal(t, 2, res.Iterations)
	require.Len(t, m.added, 1)
}

// Under a maximizing master the margin flips: a pricing optimum BELOW
// the reference is the improving direction.
func TestSolve_MaxSense(t *testing.T) {
	m, p := newFakes()
	p.objs = []float64{0, 1}
	cg, err := colgen.New(senseProblem(colgen.SenseMax), m, p, colgen.DefaultOptions())
	require.NoError(t, err)

	res, err := cg.Solve(nil)
	require.NoError(t, err)
	require.True(t, res.Certified)
	require.Equal(t, 2, res.Iterations)
	require.Len(t, m.added, 1)
}

func TestSolve_InfeasibleRestriction(t *testing.T) {
	m, p := newFakes()
	m.feasible = false
	cg, err := colgen.New(senseProblem(colgen.SenseMin), m, p, colgen.DefaultOptions())
	require.NoError(t, err)

	_, err = cg.Solve([]colgen.Fixing{{Var: 0, Op: colgen.AtMost, Value: 1}})
	require.ErrorIs(t, err, colgen.ErrInfeasibleRestriction)
	require.Equal(t, 1, m.retracts)
	require.Equal(t, 1, p.retracts)
}

func TestSolve_DimensionMismatch(t *testing.T) {
	m, p := newFakes()
	m.duals = []float64{0.5, 0.5}
	cg, err := colgen.New(senseProblem(colgen.SenseMin), m, p, colgen.DefaultOptions())
	require.NoError(t, err)

	_, err = cg.Solve(nil)
	require.ErrorIs(t, err, colgen.ErrDimensionMismatch)
	require.Equal(t, 1, m.retracts)
}

func TestSolve_PricingFailure(t *testing.T) {
	m, p := newFakes()
	p.solveErr = errors.New("knapsack exploded")
	cg, err := colgen.New(senseProblem(colgen.SenseMin), m, p, colgen.DefaultOptions())
	require.NoError(t, err)

	_, err = cg.Solve(nil)
	require.ErrorIs(t, err, colgen.ErrPricingFailure)
}

// An always-improving pricer runs into the iteration cap: the result is
// the best bound seen, flagged uncertified, with no error.
func TestSolve_IterationCap(t *testing.T) {
	m, p := newFakes()
	p.objs = []float64{10}
	opts := colgen.Options{MaxIterations: 4, Tolerance: colgen.DefaultTolerance}
	cg, err := colgen.New(senseProblem(colgen.SenseMin), m, p, opts)
	require.NoError(t, err)

	res, err := cg.Solve(nil)
	require.NoError(t, err)
	require.False(t, res.Certified)
	require.Equal(t, 4, res.Iterations)
	require.Len(t, m.added, 4)
	require.Equal(t, 1, m.retracts)
}

// When the pricer rejects the fixings the master must be rolled back,
// and the pricer must not be retracted (it never applied).
func TestSolve_ApplyRollback(t *testing.T) {
	m, p := newFakes()
	p.applyErr = errors.New("bad fixing")
	cg, err := colgen.New(senseProblem(colgen.SenseMin), m, p, colgen.DefaultOptions())
	require.NoError(t, err)

	_, err = cg.Solve([]colgen.Fixing{{Var: 0, Op: colgen.Equal, Value: 2}})
	require.Error(t, err)
	require.Equal(t, 1, m.applies)
	require.Equal(t, 1, m.retracts)
	require.Equal(t, 0, p.retracts)
}

func TestSolve_MasterError(t *testing.T) {
	m, p := newFakes()
	m.solveErr = errors.New("simplex failed")
	cg, err := colgen.New(senseProblem(colgen.SenseMin), m, p, colgen.DefaultOptions())
	require.NoError(t, err)

	_, err = cg.Solve(nil)
	require.ErrorContains(t, err, "master solve")
	require.Equal(t, 1, m.retracts)
}
