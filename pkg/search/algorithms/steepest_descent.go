package algorithms

import (
	"context"
	"math/rand"

	"github.com/freedakipad/optima/pkg/logger"
	"github.com/freedakipad/optima/pkg/optimize"
	"github.com/freedakipad/optima/pkg/search"
)

// SteepestDescent evaluates every move in the neighborhood each step and
// applies the one with the largest strictly positive delta (spec §4.5).
// The run ends the moment no move in the neighborhood improves on the
// current solution — a local optimum under this neighborhood.
type SteepestDescent[S optimize.Solution[S]] struct {
	*search.NeighborhoodSearchBase[S]
}

// NewSteepestDescent builds a SteepestDescent over problem and
// neighborhood.
func NewSteepestDescent[S optimize.Solution[S]](problem optimize.Problem[S], neighborhood optimize.Neighborhood[S], rng *rand.Rand, log *logger.SearchLogger) *SteepestDescent[S] {
	return &SteepestDescent[S]{NeighborhoodSearchBase: search.NewNeighborhoodSearchBase[S](problem, neighborhood, rng, log)}
}

// Run blocks until the search stops, per search.SearchBase.Run.
func (a *SteepestDescent[S]) Run(ctx context.Context) error {
	return a.SearchBase.Run(ctx, a.Step)
}

// Step evaluates every move in the neighborhood and applies the
// steepest strictly-improving one. ok is false once no move qualifies,
// i.e. the current solution is a local optimum under this neighborhood.
func (a *SteepestDescent[S]) Step(ctx context.Context) (bool, error) {
	moves := a.AllMoves()
	if len(moves) == 0 {
		return false, nil
	}
	move, eval, val, found := a.BestMoveWithPositiveDelta(moves, true)
	if !found {
		return false, nil
	}
	a.ApplyMove(move, eval, val)
	return true, nil
}
