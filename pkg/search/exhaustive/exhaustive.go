// Package exhaustive implements exhaustive search (spec §4.12): a search
// driven by a solution iterator supplied at construction, pulling one
// candidate per step and offering it to best-tracking until the iterator
// is spent. No teacher analogue exists for iterator-driven enumeration —
// the teacher only ever explores via moves on a current solution — so the
// control flow is built directly from spec.md, on the same SearchBase
// embedding every other algorithm in this module uses.
package exhaustive

import (
	"context"

	"github.com/freedakipad/optima/pkg/errors"
	"github.com/freedakipad/optima/pkg/logger"
	"github.com/freedakipad/optima/pkg/optimize"
	"github.com/freedakipad/optima/pkg/search"
)

// SolutionIterator produces a finite, ordered sequence of candidate
// solutions (spec §6).
type SolutionIterator[S optimize.Solution[S]] interface {
	HasNext() bool
	// Next returns the next candidate. Calling Next after HasNext reports
	// false is a programming error; implementations may panic or return
	// the zero value.
	Next() S
}

// ExhaustiveSearch pulls one candidate from its iterator each step,
// evaluates and offers it to best-tracking, and stops once the iterator
// is exhausted.
type ExhaustiveSearch[S optimize.Solution[S]] struct {
	*search.SearchBase[S]
	it SolutionIterator[S]
}

// NewExhaustiveSearch builds an idle search driven by it.
func NewExhaustiveSearch[S optimize.Solution[S]](
	problem optimize.Problem[S],
	it SolutionIterator[S],
	log *logger.SearchLogger,
) (*ExhaustiveSearch[S], error) {
	if it == nil {
		return nil, errors.Configuration("exhaustive search requires a solution iterator")
	}
	return &ExhaustiveSearch[S]{
		SearchBase: search.NewSearchBase[S](problem, log),
		it:         it,
	}, nil
}

// Run drives the search until the iterator is exhausted, Stop is called,
// or a stop criterion fires.
func (a *ExhaustiveSearch[S]) Run(ctx context.Context) error {
	return a.SearchBase.Run(ctx, a.Step)
}

// Step implements search.StepFunc.
func (a *ExhaustiveSearch[S]) Step(ctx context.Context) (bool, error) {
	if !a.it.HasNext() {
		return false, nil
	}
	candidate := a.it.Next()
	problem := a.Problem()
	val := problem.Validate(candidate)
	if val.Passed() {
		eval := problem.Evaluate(candidate)
		a.Offer(candidate, eval)
	}
	return a.it.HasNext(), nil
}
