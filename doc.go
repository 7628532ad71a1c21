// Package branchprice is a branch-and-price toolkit: a branch-and-bound
// tree search in which every node's relaxation bound is produced by an
// embedded column-generation loop instead of a single LP solve.
//
// The module is organized as four packages, leaf-first:
//
//   - solver   — an incremental linear/integer model with a pure-Go
//     simplex backend: LP solves with per-row dual values, and a
//     branch-and-bound MIP solve on top of the LP relaxation.
//   - colgen   — the column-generation core: the restricted-master ⇄
//     pricing fixed-point loop, plus the Master and Pricer capability
//     interfaces every problem family implements.
//   - bnp      — the branch-and-price tree search: an arena of nodes,
//     pluggable node selection, branching and heuristic-repair
//     policies, incumbent tracking and pruning.
//   - cutstock — a complete worked instantiation for the cutting-stock
//     problem: knapsack pricing, a demand-covering restricted master,
//     roll-count branching and a floor-and-repack repair heuristic.
//
// Start with cutstock.Solve for an end-to-end run, or implement
// colgen.Master and colgen.Pricer to plug in your own problem family.
package branchprice
