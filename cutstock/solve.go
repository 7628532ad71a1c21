package cutstock

import (
	"github.com/pkg/errors"

	"github.com/optikon/branchprice/bnp"
)

// Solve runs the full branch-and-price stack on the instance: first-fit
// seeded master, knapsack pricer, roll-count branching and greedy
// repair. It returns the best integral cutting plan found.
//
// A time or node limit surfaces as bnp.ErrTimeLimit or bnp.ErrNodeLimit
// alongside the best plan found before the limit (possibly nil).
func Solve(p *Problem, opts bnp.Options) (*Solution, error) {
	master, err := NewMaster(p)
	if err != nil {
		return nil, err
	}
	pricer, err := NewPricer(p)
	if err != nil {
		return nil, err
	}
	search, err := bnp.New(p, master, pricer,
		RollCountBrancher{}, NewGreedyRepairer(p, master), opts)
	if err != nil {
		return nil, err
	}

	inc, err := search.Solve()
	if inc == nil {
		return nil, err
	}
	sol, ok := inc.(*Solution)
	if !ok {
		return nil, errors.Errorf("cutstock: unexpected incumbent type %T", inc)
	}

	return sol, err
}
