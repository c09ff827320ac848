package tabu

import (
	"context"
	"math/rand"

	"github.com/freedakipad/optima/pkg/errors"
	"github.com/freedakipad/optima/pkg/logger"
	"github.com/freedakipad/optima/pkg/optimize"
	"github.com/freedakipad/optima/pkg/search"
)

// Search is tabu search (spec §4.8): each step enumerates every move in
// the bound neighborhood, picks the best feasible non-tabu move — except
// that a tabu move is still permitted if it would strictly beat the
// global best tracked so far (the aspiration criterion) — applies it, and
// registers the resulting solution (and the move that produced it) with
// the memory. The run stops once no move qualifies.
type Search[S optimize.Solution[S]] struct {
	*search.NeighborhoodSearchBase[S]
	memory Memory[S]
}

// NewSearch builds an idle tabu search bound to problem and neighborhood,
// using memory as its tabu memory.
func NewSearch[S optimize.Solution[S]](
	problem optimize.Problem[S],
	neighborhood optimize.Neighborhood[S],
	memory Memory[S],
	rng *rand.Rand,
	log *logger.SearchLogger,
) *Search[S] {
	return &Search[S]{
		NeighborhoodSearchBase: search.NewNeighborhoodSearchBase[S](problem, neighborhood, rng, log),
		memory:                 memory,
	}
}

// SetMemory replaces the tabu memory. Requires IDLE.
func (a *Search[S]) SetMemory(m Memory[S]) error {
	if a.Status() != search.StatusIdle {
		return errors.NotIdle("set_memory")
	}
	a.memory = m
	return nil
}

// ClearMemory empties the current tabu memory. Requires IDLE.
func (a *Search[S]) ClearMemory() error {
	if a.Status() != search.StatusIdle {
		return errors.NotIdle("clear_memory")
	}
	a.memory.Clear()
	return nil
}

// Run drives one full run to completion or exhaustion.
func (a *Search[S]) Run(ctx context.Context) error {
	return a.SearchBase.Run(ctx, a.Step)
}

// Step implements search.StepFunc.
func (a *Search[S]) Step(ctx context.Context) (bool, error) {
	moves := a.AllMoves()
	if len(moves) == 0 {
		return false, nil
	}

	current, _ := a.CurrentSolution()
	bestEval, hasBest := a.BestEvaluation()
	minimizing := a.IsMinimizing()

	allowed := make([]optimize.Move[S], 0, len(moves))
	for _, m := range moves {
		eval, val := a.EvaluateMove(m)
		if !val.Passed() {
			continue
		}
		tabu, err := a.memory.IsTabu(m, current)
		if err != nil {
			return false, err
		}
		if tabu {
			aspirated := hasBest && search.ComputeDelta(minimizing, eval.Value(), bestEval.Value()) > 0
			if !aspirated {
				continue
			}
		}
		allowed = append(allowed, m)
	}
	if len(allowed) == 0 {
		return false, nil
	}

	move, eval, val, found := a.BestMoveWithPositiveDelta(allowed, false)
	if !found {
		return false, nil
	}
	a.ApplyMove(move, eval, val)
	newCurrent, _ := a.CurrentSolution()
	if err := a.memory.Register(newCurrent, move); err != nil {
		return false, err
	}
	return true, nil
}
