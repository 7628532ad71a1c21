package solver

import "errors"

// Sentinel errors returned by model mutation and solves.
var (
	// ErrInfeasible indicates the model admits no feasible point.
	// For SolveMIP this covers both an infeasible relaxation and the
	// absence of any integral point within the variable bounds.
	ErrInfeasible = errors.New("solver: model is infeasible")

	// ErrUnbounded indicates the objective is unbounded in the
	// optimization direction.
	ErrUnbounded = errors.New("solver: model is unbounded")

	// ErrDimensionMismatch indicates a row or coefficient referenced a
	// column (or row) index outside the model.
	ErrDimensionMismatch = errors.New("solver: dimension mismatch")

	// ErrBadBounds indicates a lower bound strictly above the matching
	// upper bound was supplied to a mutation call. Bounds that cross
	// *during* branch-and-bound are a normal infeasible outcome and
	// surface as ErrInfeasible instead.
	ErrBadBounds = errors.New("solver: lower bound exceeds upper bound")

	// ErrNodeLimit indicates branch-and-bound stopped at its node cap
	// before the search tree was exhausted. The best incumbent found so
	// far, if any, accompanies the error.
	ErrNodeLimit = errors.New("solver: branch-and-bound node limit reached")
)
