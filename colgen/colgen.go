package colgen

import (
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// ColumnGeneration drives the restricted-master ⇄ pricing loop for one
// node's restriction at a time. Build one instance per search tree and
// share it across every node; Solve applies and retracts the node's
// fixings around the loop so sequential calls never observe each
// other's restrictions.
type ColumnGeneration struct {
	sense  Sense
	master Master
	pricer Pricer
	opts   Options
}

// New validates the problem sense and wires the master/pricer pair.
func New(problem Problem, master Master, pricer Pricer, opts Options) (*ColumnGeneration, error) {
	if problem == nil || master == nil || pricer == nil {
		return nil, ErrNilComponent
	}
	if !problem.Sense().Valid() {
		return nil, ErrInvalidSense
	}
	opts.fill()

	return &ColumnGeneration{
		sense:  problem.Sense(),
		master: master,
		pricer: pricer,
		opts:   opts,
	}, nil
}

// Sense returns the master objective direction.
func (cg *ColumnGeneration) Sense() Sense { return cg.sense }

// Solve runs column generation under the given fixings and returns the
// node's bound and fractional solution.
//
// The fixings are applied to both models up front and retracted before
// every return — converged, infeasible, failed, or iteration-capped —
// so the shared models always come back to their unrestricted baseline.
//
// Outcomes:
//   - converged: Result with Certified=true, nil error.
//   - iteration cap: best-so-far Result with Certified=false, nil
//     error — a bounded-runtime safety valve, not a failure.
//   - infeasible master: ErrInfeasibleRestriction (normal; callers
//     prune the node).
//   - pricing failure or misaligned duals: ErrPricingFailure /
//     ErrDimensionMismatch.
func (cg *ColumnGeneration) Solve(fixings []Fixing) (res Result, err error) {
	if err = cg.applyRestriction(fixings); err != nil {
		return Result{}, err
	}
	defer func() {
		if rerr := cg.retractRestriction(); rerr != nil && err == nil {
			err = rerr
		}
	}()

	for iter := 1; iter <= cg.opts.MaxIterations; iter++ {
		res.Iterations = iter

		if err = cg.master.Solve(); err != nil {
			return Result{}, errors.Wrap(err, "colgen: master solve")
		}
		if !cg.master.IsFeasible() {
			glog.V(2).Infof("colgen: master infeasible under %d fixings at iteration %d",
				len(fixings), iter)
			return Result{}, ErrInfeasibleRestriction
		}

		res.Bound = cg.master.ObjectiveValue()
		res.Fractional = cg.master.FractionalSolution()

		duals := cg.master.DualValues()
		ref := cg.master.ReducedCostRef()
		if len(duals) != cg.pricer.NumVars() {
			return Result{}, errors.Wrapf(ErrDimensionMismatch,
				"got %d duals for %d pricing variables", len(duals), cg.pricer.NumVars())
		}

		spObj, col, perr := cg.pricer.Solve(duals)
		if perr != nil {
			return Result{}, errors.Wrapf(ErrPricingFailure, "%v", perr)
		}

		// Margin of the best candidate column, oriented so that a
		// positive value means the master can still improve.
		margin := spObj - ref
		if cg.sense == SenseMax {
			margin = ref - spObj
		}
		glog.V(2).Infof("colgen: iter=%d master=%.9g sp=%.9g ref=%.9g margin=%.3g",
			iter, res.Bound, spObj, ref, margin)

		if margin <= cg.opts.Tolerance {
			res.Certified = true
			return res, nil
		}

		if err = cg.master.AddColumn(col); err != nil {
			return Result{}, errors.Wrap(err, "colgen: adding priced column")
		}
	}

	// Iteration cap: hand back the best restricted-master value seen,
	// flagged as not certified optimal for this node.
	glog.V(2).Infof("colgen: iteration cap %d reached, bound=%.9g uncertified",
		cg.opts.MaxIterations, res.Bound)

	return res, nil
}

// applyRestriction installs fixings on both models; if the pricer
// rejects them the master is rolled back so no half-applied state
// escapes.
func (cg *ColumnGeneration) applyRestriction(fixings []Fixing) error {
	if err := cg.master.ApplyRestriction(fixings); err != nil {
		return errors.Wrap(err, "colgen: applying master restriction")
	}
	if err := cg.pricer.ApplyRestriction(fixings); err != nil {
		if rerr := cg.master.RetractRestriction(); rerr != nil {
			glog.Warningf("colgen: master rollback failed: %v", rerr)
		}
		return errors.Wrap(err, "colgen: applying pricing restriction")
	}

	return nil
}

// retractRestriction removes fixings from both models. Both retractions
// run even if the first fails.
func (cg *ColumnGeneration) retractRestriction() error {
	merr := cg.master.RetractRestriction()
	perr := cg.pricer.RetractRestriction()
	if merr != nil {
		return errors.Wrap(merr, "colgen: retracting master restriction")
	}
	if perr != nil {
		return errors.Wrap(perr, "colgen: retracting pricing restriction")
	}

	return nil
}
