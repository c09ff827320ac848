package algorithms

import (
	"context"
	"math/rand"

	"github.com/freedakipad/optima/pkg/logger"
	"github.com/freedakipad/optima/pkg/optimize"
	"github.com/freedakipad/optima/pkg/search"
)

// RandomDescent draws one random move per step and applies it only if it
// is both feasible and strictly improving (spec §4.4). A step that draws
// no move at all (an exhausted neighborhood) ends the run.
type RandomDescent[S optimize.Solution[S]] struct {
	*search.NeighborhoodSearchBase[S]
}

// NewRandomDescent builds a RandomDescent over problem and neighborhood.
func NewRandomDescent[S optimize.Solution[S]](problem optimize.Problem[S], neighborhood optimize.Neighborhood[S], rng *rand.Rand, log *logger.SearchLogger) *RandomDescent[S] {
	return &RandomDescent[S]{NeighborhoodSearchBase: search.NewNeighborhoodSearchBase[S](problem, neighborhood, rng, log)}
}

// Run blocks until the search stops, per search.SearchBase.Run.
func (a *RandomDescent[S]) Run(ctx context.Context) error {
	return a.SearchBase.Run(ctx, a.Step)
}

// Step draws one random move and applies it if it is feasible and
// strictly improving. ok is false only when the neighborhood itself is
// exhausted (RandomMove returns no candidate).
func (a *RandomDescent[S]) Step(ctx context.Context) (bool, error) {
	move, ok := a.RandomMove()
	if !ok {
		return false, nil
	}
	eval, val := a.EvaluateMove(move)
	if val.Passed() && a.ComputeDelta(eval) > 0 {
		a.ApplyMove(move, eval, val)
	} else {
		a.RejectMove()
	}
	return true, nil
}
