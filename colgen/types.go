// Package colgen implements the column-generation fixed point at the
// heart of branch-and-price: a restricted master problem (RMP) priced
// against a subproblem until no improving column remains.
//
// The package is deliberately problem-agnostic. A problem family plugs
// in by implementing two capability interfaces:
//
//   - Master — owns the RMP: an append-only set of columns, one
//     continuous weight per column, solve/duals/reduced-cost access,
//     and scoped branch restrictions.
//   - Pricer — owns the pricing subproblem: given the master's dual
//     vector as its objective, produce the best new column, under the
//     same scoped branch restrictions.
//
// One ColumnGeneration instance is built per search tree and reused by
// every node; the node's accumulated fixings are applied at the top of
// Solve and retracted on every exit path, so the shared models always
// return to their unrestricted baseline.
//
// Sense semantics: Sense is the direction of the MASTER objective and
// of incumbent comparisons. The pricing direction follows from it — a
// minimizing master is priced by maximizing the dual payoff of a
// candidate column (an improving column has spObj − ref > tolerance),
// and a maximizing master by the mirror image. Convergence stops the
// loop as soon as the best candidate cannot improve the master.
//
// Errors (sentinel):
//
//	– ErrInvalidSense           invalid Sense at construction.
//	– ErrInfeasibleRestriction  the restricted master is infeasible under
//	                            the node's fixings; a normal outcome that
//	                            callers turn into pruning.
//	– ErrDimensionMismatch      dual vector length differs from the
//	                            pricer's decision-variable count.
//	– ErrPricingFailure         the pricing subproblem failed (including
//	                            pricing infeasibility, which indicates a
//	                            modeling bug rather than a prunable node).
//
// Concurrency: not safe for concurrent use. Two in-flight Solve calls
// against the same instance would interleave restriction state; give
// each parallel branch its own instance or serialize externally.
package colgen

import "errors"

// Sentinel errors returned by the column-generation loop.
var (
	// ErrInvalidSense indicates a Sense other than SenseMin/SenseMax.
	ErrInvalidSense = errors.New("colgen: sense must be min or max")

	// ErrNilComponent indicates a nil problem, master or pricer at
	// construction.
	ErrNilComponent = errors.New("colgen: nil problem, master or pricer")

	// ErrInfeasibleRestriction indicates the restricted master is
	// infeasible under the applied fixings. Expected and non-fatal:
	// the tree search prunes the node.
	ErrInfeasibleRestriction = errors.New("colgen: restricted master infeasible under fixings")

	// ErrDimensionMismatch indicates the master's dual vector does not
	// align with the pricer's decision variables. Fail-fast: the duals
	// are the pricing objective, so misalignment is a modeling bug.
	ErrDimensionMismatch = errors.New("colgen: dual vector length does not match pricing variables")

	// ErrPricingFailure indicates the pricing subproblem failed to
	// produce a column.
	ErrPricingFailure = errors.New("colgen: pricing subproblem failed")
)

// Defaults for Options.
const (
	// DefaultMaxIterations bounds the solve/price/add loop per node.
	DefaultMaxIterations = 250

	// DefaultTolerance is the convergence threshold on the reduced-cost
	// margin of the best candidate column.
	DefaultTolerance = 1e-6
)

// Sense is the optimization direction of the master objective, and by
// extension of incumbent comparisons in the surrounding tree search.
type Sense int

const (
	// SenseMin minimizes the master objective.
	SenseMin Sense = iota
	// SenseMax maximizes the master objective.
	SenseMax
)

// Valid reports whether s is one of the two defined directions.
func (s Sense) Valid() bool { return s == SenseMin || s == SenseMax }

func (s Sense) String() string {
	switch s {
	case SenseMin:
		return "min"
	case SenseMax:
		return "max"
	default:
		return "invalid"
	}
}

// Problem is the immutable instance being solved. Concrete problem
// types carry their own data; the framework only needs the sense.
type Problem interface {
	// Sense returns the master objective direction. Must be constant
	// for the lifetime of the problem.
	Sense() Sense
}

// Column is one extreme point produced by pricing: a fixed-length
// numeric vector, opaque to the framework. Once added to the master it
// is never removed — later restrictions can only drive its weight to
// zero.
type Column []float64

// BoundOp is the comparison carried by a Fixing.
type BoundOp int

const (
	// AtMost bounds the variable from above.
	AtMost BoundOp = iota
	// AtLeast bounds the variable from below.
	AtLeast
	// Equal pins the variable.
	Equal
)

func (op BoundOp) String() string {
	switch op {
	case AtMost:
		return "<="
	case AtLeast:
		return ">="
	case Equal:
		return "=="
	default:
		return "?"
	}
}

// Fixing is one incremental branching decision: variable Var is
// restricted by Op against Value. The meaning of Var is owned by the
// Master/Pricer pair — each side applies the fixings it recognizes and
// ignores the rest.
type Fixing struct {
	Var   int
	Op    BoundOp
	Value float64
}

// Master is the restricted master problem: the LP relaxation over the
// columns generated so far.
type Master interface {
	// AddColumn appends a column: a new continuous weight variable
	// wired into every linking constraint and the objective.
	AddColumn(col Column) error

	// ApplyRestriction installs the node's fixings. Paired with exactly
	// one RetractRestriction on every control path.
	ApplyRestriction(fixings []Fixing) error

	// RetractRestriction removes every installed fixing, returning the
	// master to its unrestricted baseline.
	RetractRestriction() error

	// Solve computes the LP optimum over the current columns. An
	// infeasible master is a normal outcome reported through
	// IsFeasible, not an error.
	Solve() error

	// IsFeasible reports whether the last Solve produced a solution.
	IsFeasible() bool

	// ObjectiveValue returns the last LP objective.
	ObjectiveValue() float64

	// FractionalSolution returns the column weights of the last solve,
	// ordered like the columns.
	FractionalSolution() []float64

	// DualValues returns one dual per linking constraint, aligned
	// index-for-index with the pricer's decision variables.
	DualValues() []float64

	// ReducedCostRef returns the scalar the pricing objective is
	// compared against in the convergence test.
	ReducedCostRef() float64
}

// Pricer is the pricing subproblem: a bounded optimization whose
// objective coefficients are the master's dual values.
type Pricer interface {
	// NumVars returns the decision-variable count; the dual vector
	// must have exactly this length.
	NumVars() int

	// ApplyRestriction installs the node's fixings, typically as
	// variable bounds. Columns generated under looser restrictions
	// remain in the master and must stay consistent.
	ApplyRestriction(fixings []Fixing) error

	// RetractRestriction removes every installed fixing.
	RetractRestriction() error

	// Solve optimizes duals·x over the restricted feasible region, in
	// the improving direction for the master sense (maximize for a
	// minimizing master and vice versa). An infeasible subproblem is a
	// failure, not a prunable outcome.
	Solve(duals []float64) (objective float64, col Column, err error)
}

// Result is the outcome of one node's column-generation run.
type Result struct {
	// Bound is the restricted master optimum: the node's relaxation
	// bound when Certified, a best-effort estimate otherwise.
	Bound float64

	// Fractional holds the column weights at the last master solve.
	Fractional []float64

	// Certified reports that the loop converged: no column can improve
	// the master, so Bound is the true LP bound for this node. False
	// when the iteration cap stopped the loop first.
	Certified bool

	// Iterations is the number of master solves performed.
	Iterations int
}

// Options configures the column-generation loop.
type Options struct {
	// MaxIterations caps solve/price/add rounds per node
	// (DefaultMaxIterations when 0).
	MaxIterations int

	// Tolerance is the convergence threshold (DefaultTolerance when 0).
	Tolerance float64
}

// DefaultOptions returns the default loop configuration.
func DefaultOptions() Options {
	return Options{
		MaxIterations: DefaultMaxIterations,
		Tolerance:     DefaultTolerance,
	}
}

func (o *Options) fill() {
	if o.MaxIterations == 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.Tolerance == 0 {
		o.Tolerance = DefaultTolerance
	}
}
