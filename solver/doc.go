// Package solver provides an incremental linear/integer optimization
// model with a pure-Go simplex backend.
//
// A Model holds columns (decision variables with bounds, objective
// coefficients and an optional integrality mark) and rows (sparse
// linear constraints of the form lower ≤ a·x ≤ upper). Both sides of
// the model can be mutated incrementally — columns and rows appended,
// coefficients and bounds rewritten, trailing rows truncated back to a
// watermark — without rebuilding anything, which is what column
// generation and scoped branch restrictions require.
//
// Two solves are offered:
//
//   - SolveLP ignores integrality and solves the linear relaxation,
//     returning the objective, a primal point, and one dual value per
//     row. Duals follow the minimization convention: a ≥-row has a
//     non-negative dual, a ≤-row a non-positive one (mirrored for
//     maximization models).
//   - SolveMIP runs a depth-first branch-and-bound over LP relaxations
//     with most-fractional branching and floor/ceil bound splits.
//
// The simplex core is gonum's lp.Simplex; models are lowered to the
// standard equality form it expects (finite lower bounds shifted to
// zero, free variables split, finite upper bounds folded into internal
// rows, one slack per inequality). Dual values are recovered by solving
// the explicit dual program over the same canonical row set, which is
// exact at an LP optimum by strong duality.
//
// Complexity: a solve is one or two simplex runs, O(rows·cols) memory
// for the dense lowering. The package targets the small-to-medium
// models that master/pricing problems produce, not large-scale LPs.
//
// Concurrency: a Model is not safe for concurrent use. Solves do not
// mutate the model, but interleaved mutation and solving must be
// externally serialized.
package solver
