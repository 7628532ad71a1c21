package cutstock

import (
	"math"

	"github.com/optikon/branchprice/bnp"
	"github.com/optikon/branchprice/colgen"
)

// Solution is an integral cutting plan: Counts[k] rolls are cut with
// pattern Patterns[k]. Bins is the total roll count and doubles as the
// objective for incumbent comparison.
type Solution struct {
	Patterns []colgen.Column
	Counts   []int
	Bins     int
}

// ObjectiveValue implements bnp.Incumbent.
func (s *Solution) ObjectiveValue() float64 { return float64(s.Bins) }

// GreedyRepairer rounds a fractional master point down to integral
// pattern counts and covers the residual demand with a first-fit pass.
// The result is always a feasible plan, so every explored node yields
// an incumbent candidate.
type GreedyRepairer struct {
	p *Problem
	m *Master
}

// NewGreedyRepairer binds the repairer to the master whose columns the
// fractional weights refer to.
func NewGreedyRepairer(p *Problem, m *Master) *GreedyRepairer {
	return &GreedyRepairer{p: p, m: m}
}

// Repair implements bnp.Repairer. The weight vector may be shorter than
// the master's current column list (a column priced after the final
// master solve carries no weight); only the weighted prefix is used.
func (g *GreedyRepairer) Repair(res colgen.Result) (bnp.Incumbent, bool) {
	patterns := g.m.Patterns()
	if len(res.Fractional) > len(patterns) {
		return nil, false
	}
	patterns = patterns[:len(res.Fractional)]

	sol := &Solution{}
	remaining := append([]int(nil), g.p.Demands...)
	for k, w := range res.Fractional {
		cnt := int(math.Floor(w + colgen.DefaultTolerance))
		if cnt <= 0 {
			continue
		}
		// Do not overshoot a demand the floor already covers; surplus
		// rolls would only inflate the objective.
		cnt = min(cnt, usefulCount(patterns[k], remaining))
		if cnt <= 0 {
			continue
		}
		sol.Patterns = append(sol.Patterns, patterns[k])
		sol.Counts = append(sol.Counts, cnt)
		sol.Bins += cnt
		for i, c := range patterns[k] {
			remaining[i] -= cnt * int(math.Round(c))
		}
	}

	// First-fit over whatever demand the rounded plan left uncovered.
	var residual []float64
	var extra [][]float64
	for i, d := range remaining {
		for piece := 0; piece < d; piece++ {
			placed := false
			for r := range residual {
				if g.p.Sizes[i] <= residual[r] {
					residual[r] -= g.p.Sizes[i]
					extra[r][i]++
					placed = true
					break
				}
			}
			if !placed {
				pat := make([]float64, len(g.p.Sizes))
				pat[i] = 1
				extra = append(extra, pat)
				residual = append(residual, g.p.RollWidth-g.p.Sizes[i])
			}
		}
	}
	for _, pat := range extra {
		sol.Patterns = append(sol.Patterns, colgen.Column(pat))
		sol.Counts = append(sol.Counts, 1)
		sol.Bins++
	}

	return sol, true
}

// usefulCount caps a pattern's count at the largest number of rolls
// that still contributes to uncovered demand.
func usefulCount(pat colgen.Column, remaining []int) int {
	most := 0
	for i, c := range pat {
		if c <= 0 {
			continue
		}
		need := remaining[i]
		if need <= 0 {
			continue
		}
		rolls := (need + int(math.Round(c)) - 1) / int(math.Round(c))
		if rolls > most {
			most = rolls
		}
	}

	return most
}
