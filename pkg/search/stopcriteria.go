package search

import (
	"context"
	"time"

	"github.com/freedakipad/optima/pkg/optimize"
)

// StopCriterion decides whether a running search should stop, based on
// whatever it can observe through SearchBase's accessors (spec §4.1).
type StopCriterion[S optimize.Solution[S]] interface {
	Done(search *SearchBase[S]) bool
}

// MaxRuntime stops a run once it has been running for at least d.
type MaxRuntime[S optimize.Solution[S]] struct{ D time.Duration }

func (c MaxRuntime[S]) Done(search *SearchBase[S]) bool { return search.Elapsed() >= c.D }

// MaxSteps stops a run once it has completed at least N steps.
type MaxSteps[S optimize.Solution[S]] struct{ N int }

func (c MaxSteps[S]) Done(search *SearchBase[S]) bool { return search.Steps() >= c.N }

// MaxStepsWithoutImprovement stops a run once N consecutive steps have
// passed without the tracked best improving.
type MaxStepsWithoutImprovement[S optimize.Solution[S]] struct{ N int }

func (c MaxStepsWithoutImprovement[S]) Done(search *SearchBase[S]) bool {
	return search.StepsSinceImprovement() >= c.N
}

// MinTimeWithoutImprovement stops a run once D has elapsed since the
// tracked best last improved (or since the run started, if it never has).
type MinTimeWithoutImprovement[S optimize.Solution[S]] struct{ D time.Duration }

func (c MinTimeWithoutImprovement[S]) Done(search *SearchBase[S]) bool {
	return search.TimeSinceImprovement() >= c.D
}

// MinEvaluation stops a run once the tracked best reaches (or passes)
// Threshold in the problem's optimization direction: at or below
// Threshold when minimizing, at or above it when maximizing. Has no
// effect until a best solution exists.
type MinEvaluation[S optimize.Solution[S]] struct{ Threshold float64 }

func (c MinEvaluation[S]) Done(search *SearchBase[S]) bool {
	eval, ok := search.BestEvaluation()
	if !ok {
		return false
	}
	if search.IsMinimizing() {
		return eval.Value() <= c.Threshold
	}
	return eval.Value() >= c.Threshold
}

// Checker polls a list of StopCriterion on a fixed period and invokes
// onFire the first time any of them is satisfied (spec §4.1: "a checker
// that polls criteria on a configurable period"). A Checker with no
// criteria never fires.
type Checker[S optimize.Solution[S]] struct {
	criteria []StopCriterion[S]
	period   time.Duration
}

// NewChecker builds a Checker that polls criteria every period.
func NewChecker[S optimize.Solution[S]](period time.Duration, criteria ...StopCriterion[S]) *Checker[S] {
	return &Checker[S]{criteria: criteria, period: period}
}

// Run polls until ctx is cancelled or a criterion fires, in which case it
// calls onFire once and returns.
func (c *Checker[S]) Run(ctx context.Context, search *SearchBase[S], onFire func()) {
	if len(c.criteria) == 0 {
		return
	}
	period := c.period
	if period <= 0 {
		period = 100 * time.Millisecond
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, crit := range c.criteria {
				if crit.Done(search) {
					onFire()
					return
				}
			}
		}
	}
}
