// Package cutstock solves the cutting-stock problem by branch-and-price:
// cover per-size demands by cutting the fewest possible stock rolls.
//
// The Gilmore–Gomory decomposition is used. The master problem selects
// a nonnegative weight per cutting pattern, covering every demand row;
// the pricing subproblem is a bounded integer knapsack over the roll
// width whose profits are the demand duals. Branching is on the total
// roll count (Σλ), which keeps the pricing subproblem a plain knapsack
// at every node.
//
// Entry points: build a Problem, then either call Solve for the full
// branch-and-price run, or wire NewMaster/NewPricer into bnp directly
// for custom policies. ExactBinCount solves a compact assignment MILP
// for cross-checking on small instances.
package cutstock

import (
	"errors"
	"math"
	"math/rand"
	"sort"

	"github.com/optikon/branchprice/colgen"
)

// Sentinel errors for problem validation.
var (
	// ErrBadWidth indicates a non-positive roll width.
	ErrBadWidth = errors.New("cutstock: roll width must be positive")

	// ErrBadSize indicates an item size outside (0, roll width].
	ErrBadSize = errors.New("cutstock: item size must be in (0, roll width]")

	// ErrBadDemand indicates a non-positive demand.
	ErrBadDemand = errors.New("cutstock: demand must be positive")

	// ErrDimensionMismatch indicates sizes and demands differ in length.
	ErrDimensionMismatch = errors.New("cutstock: sizes and demands must have equal length")

	// ErrNoItems indicates an empty instance.
	ErrNoItems = errors.New("cutstock: at least one item size is required")
)

// Problem is one cutting-stock instance: rolls of width RollWidth must
// be cut to cover Demands[i] pieces of each Sizes[i]. Immutable after
// New.
type Problem struct {
	RollWidth float64
	Sizes     []float64
	Demands   []int
}

// New validates and returns a cutting-stock instance. Sizes and demands
// are copied.
func New(rollWidth float64, sizes []float64, demands []int) (*Problem, error) {
	if rollWidth <= 0 {
		return nil, ErrBadWidth
	}
	if len(sizes) == 0 {
		return nil, ErrNoItems
	}
	if len(sizes) != len(demands) {
		return nil, ErrDimensionMismatch
	}
	for _, s := range sizes {
		if s <= 0 || s > rollWidth {
			return nil, ErrBadSize
		}
	}
	for _, d := range demands {
		if d <= 0 {
			return nil, ErrBadDemand
		}
	}

	return &Problem{
		RollWidth: rollWidth,
		Sizes:     append([]float64(nil), sizes...),
		Demands:   append([]int(nil), demands...),
	}, nil
}

// Sense reports the master direction: the roll count is minimized.
func (p *Problem) Sense() colgen.Sense { return colgen.SenseMin }

// NumItems returns the number of distinct item sizes.
func (p *Problem) NumItems() int { return len(p.Sizes) }

// Random generates an instance with n distinct sizes on rolls of width
// 100: sizes uniform over [10, 75], demands uniform over [1, 20].
// Deterministic for a seeded rng.
func Random(n int, rng *rand.Rand) (*Problem, error) {
	if n <= 0 {
		return nil, ErrNoItems
	}
	const width = 100.0
	seen := make(map[float64]bool, n)
	sizes := make([]float64, 0, n)
	demands := make([]int, 0, n)
	for len(sizes) < n {
		s := float64(10 + rng.Intn(66))
		if seen[s] {
			continue
		}
		seen[s] = true
		sizes = append(sizes, s)
		demands = append(demands, 1+rng.Intn(20))
	}

	return New(width, sizes, demands)
}

// FirstFit packs every demanded piece, largest size first, into the
// fewest rolls a first-fit pass finds, and returns the distinct cutting
// patterns used. Each pattern is a per-size piece count vector. The
// patterns jointly cover every size, which makes them a feasible seed
// for the restricted master.
func (p *Problem) FirstFit() []colgen.Column {
	// Size indices, largest piece first.
	order := make([]int, len(p.Sizes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return p.Sizes[order[a]] > p.Sizes[order[b]]
	})

	var residual []float64   // free width per open roll
	var patterns [][]float64 // piece counts per open roll
	for _, i := range order {
		for piece := 0; piece < p.Demands[i]; piece++ {
			placed := false
			for r := range residual {
				if p.Sizes[i] <= residual[r] {
					residual[r] -= p.Sizes[i]
					patterns[r][i]++
					placed = true
					break
				}
			}
			if !placed {
				pat := make([]float64, len(p.Sizes))
				pat[i] = 1
				patterns = append(patterns, pat)
				residual = append(residual, p.RollWidth-p.Sizes[i])
			}
		}
	}

	return dedupPatterns(patterns)
}

// BinsUpperBound returns the roll count of the first-fit packing: a
// valid upper bound on the optimum.
func (p *Problem) BinsUpperBound() int {
	var residual []float64
	for i := range p.Sizes {
		for piece := 0; piece < p.Demands[i]; piece++ {
			placed := false
			for r := range residual {
				if p.Sizes[i] <= residual[r] {
					residual[r] -= p.Sizes[i]
					placed = true
					break
				}
			}
			if !placed {
				residual = append(residual, p.RollWidth-p.Sizes[i])
			}
		}
	}

	return len(residual)
}

// dedupPatterns drops duplicate count vectors, preserving first-seen
// order.
func dedupPatterns(patterns [][]float64) []colgen.Column {
	var out []colgen.Column
	for _, pat := range patterns {
		dup := false
		for _, kept := range out {
			if equalPattern(kept, pat) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, colgen.Column(pat))
		}
	}

	return out
}

func equalPattern(a colgen.Column, b []float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > 0.5 {
			return false
		}
	}

	return true
}
