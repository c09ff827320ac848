package algorithms

import (
	"context"
	"math/rand"

	"github.com/freedakipad/optima/pkg/logger"
	"github.com/freedakipad/optima/pkg/optimize"
	"github.com/freedakipad/optima/pkg/search"
)

// RandomSearch draws a fresh random solution from the problem every step
// and offers it to best-tracking (spec §4.3). It never self-terminates;
// a caller must attach a stop criterion or call Stop.
type RandomSearch[S optimize.Solution[S]] struct {
	*search.SearchBase[S]
	rng *rand.Rand
}

// NewRandomSearch builds a RandomSearch bound to problem.
func NewRandomSearch[S optimize.Solution[S]](problem optimize.Problem[S], rng *rand.Rand, log *logger.SearchLogger) *RandomSearch[S] {
	return &RandomSearch[S]{SearchBase: search.NewSearchBase[S](problem, log), rng: rng}
}

// Run blocks until the search stops, per search.SearchBase.Run.
func (a *RandomSearch[S]) Run(ctx context.Context) error {
	return a.SearchBase.Run(ctx, a.Step)
}

// Step draws one random solution and offers it to best-tracking; it
// always returns ok=true, since random search has no notion of an
// exhausted neighborhood.
func (a *RandomSearch[S]) Step(ctx context.Context) (bool, error) {
	s := a.Problem().RandomSolution(a.rng)
	a.Offer(s, a.Problem().Evaluate(s))
	return true, nil
}
