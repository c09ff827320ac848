package search

import (
	"math/rand"

	"github.com/freedakipad/optima/pkg/logger"
	"github.com/freedakipad/optima/pkg/optimize"
)

// NeighborhoodSearchBase extends SearchBase with the current-solution and
// move-cache machinery shared by every local-search algorithm (spec
// §4.2): random descent, steepest descent, Metropolis, tabu search, VND
// and RVNS, and each parallel-tempering replica all embed it.
type NeighborhoodSearchBase[S optimize.Solution[S]] struct {
	*SearchBase[S]

	Rng *rand.Rand

	neighborhood optimize.Neighborhood[S]
	cache        MoveCache[S]

	current     S
	currentEval optimize.Evaluation
	currentVal  optimize.Validation
	hasCurrent  bool

	numAccepted int
	numRejected int
}

// NewNeighborhoodSearchBase builds an idle NeighborhoodSearchBase bound
// to problem and neighborhood, drawing randomized decisions from rng.
func NewNeighborhoodSearchBase[S optimize.Solution[S]](
	problem optimize.Problem[S],
	neighborhood optimize.Neighborhood[S],
	rng *rand.Rand,
	log *logger.SearchLogger,
) *NeighborhoodSearchBase[S] {
	return &NeighborhoodSearchBase[S]{
		SearchBase:   NewSearchBase[S](problem, log),
		Rng:          rng,
		neighborhood: neighborhood,
		cache:        NewSingleMoveCache[S](),
	}
}

// SetNeighborhood replaces the neighborhood used to generate moves.
// Requires IDLE.
func (b *NeighborhoodSearchBase[S]) SetNeighborhood(n optimize.Neighborhood[S]) error {
	if err := b.requireIdle("set_neighborhood"); err != nil {
		return err
	}
	b.neighborhood = n
	return nil
}

// Neighborhood returns the neighborhood used to generate moves.
func (b *NeighborhoodSearchBase[S]) Neighborhood() optimize.Neighborhood[S] { return b.neighborhood }

// SetCurrentSolution seeds the current solution (and its evaluation and
// validation) from a copy of s. Requires IDLE.
func (b *NeighborhoodSearchBase[S]) SetCurrentSolution(s S) error {
	if err := b.requireIdle("set_current_solution"); err != nil {
		return err
	}
	b.current = s.Copy()
	b.currentEval = b.Problem().Evaluate(b.current)
	b.currentVal = b.Problem().Validate(b.current)
	b.hasCurrent = true
	b.cache.Clear()
	return nil
}

// CurrentSolution returns a copy of the current solution and whether one
// has been set yet.
func (b *NeighborhoodSearchBase[S]) CurrentSolution() (S, bool) {
	if !b.hasCurrent {
		var zero S
		return zero, false
	}
	return b.current.Copy(), true
}

// CurrentEvaluation returns the evaluation of the current solution.
func (b *NeighborhoodSearchBase[S]) CurrentEvaluation() optimize.Evaluation { return b.currentEval }

// CurrentValidation returns the validation of the current solution.
func (b *NeighborhoodSearchBase[S]) CurrentValidation() optimize.Validation { return b.currentVal }

// NumAccepted returns how many moves have been applied since
// construction, summed over every run.
func (b *NeighborhoodSearchBase[S]) NumAccepted() int { return b.numAccepted }

// NumRejected returns how many candidate moves have been rejected since
// construction, summed over every run.
func (b *NeighborhoodSearchBase[S]) NumRejected() int { return b.numRejected }

// evaluateCached returns move's evaluation and validation against the
// current solution, using the move cache to avoid recomputing when the
// same move is queried twice in a row.
func (b *NeighborhoodSearchBase[S]) evaluateCached(move optimize.Move[S]) (optimize.Evaluation, optimize.Validation) {
	if eval, val, ok := b.cache.Get(move); ok {
		return eval, val
	}
	eval := b.Problem().EvaluateMove(move, b.current, b.currentEval)
	val := b.Problem().ValidateMove(move, b.current, b.currentVal)
	b.cache.Put(move, eval, val)
	return eval, val
}

// EvaluateMove is the exported form of evaluateCached, for algorithms in
// other packages that embed NeighborhoodSearchBase.
func (b *NeighborhoodSearchBase[S]) EvaluateMove(move optimize.Move[S]) (optimize.Evaluation, optimize.Validation) {
	return b.evaluateCached(move)
}

// ComputeDelta reports the signed improvement eval would give over the
// current evaluation, in the bound problem's optimization direction.
func (b *NeighborhoodSearchBase[S]) ComputeDelta(eval optimize.Evaluation) float64 {
	return ComputeDelta(b.IsMinimizing(), eval.Value(), b.currentEval.Value())
}

// IsImprovement reports whether move is both feasible and strictly
// improving relative to the current solution.
func (b *NeighborhoodSearchBase[S]) IsImprovement(move optimize.Move[S]) bool {
	eval, val := b.evaluateCached(move)
	if !val.Passed() {
		return false
	}
	return b.ComputeDelta(eval) > 0
}

// BestMoveWithPositiveDelta scans moves and returns the one with the
// largest delta over the current solution, breaking ties in favor of the
// first move seen. If strictImprovement is true, infeasible moves and
// moves with delta <= 0 are excluded; if false, the best feasible move is
// returned regardless of sign (used by tabu search, which may need to
// accept a non-improving move to escape a local optimum). found is false
// if no move qualified.
func (b *NeighborhoodSearchBase[S]) BestMoveWithPositiveDelta(moves []optimize.Move[S], strictImprovement bool) (move optimize.Move[S], eval optimize.Evaluation, val optimize.Validation, found bool) {
	var bestDelta float64
	for _, m := range moves {
		e, v := b.evaluateCached(m)
		if !v.Passed() {
			continue
		}
		delta := b.ComputeDelta(e)
		if strictImprovement && delta <= 0 {
			continue
		}
		if !found || delta > bestDelta {
			found = true
			bestDelta = delta
			move, eval, val = m, e, v
		}
	}
	return move, eval, val, found
}

// ApplyMove applies move to the current solution using its already-known
// (evaluated, validated) outcome, advances the accepted-move counter,
// clears the move cache (stale once the current solution changes), and
// offers the new current solution to best-tracking.
func (b *NeighborhoodSearchBase[S]) ApplyMove(move optimize.Move[S], eval optimize.Evaluation, val optimize.Validation) {
	move.Apply(b.current)
	b.currentEval = eval
	b.currentVal = val
	b.cache.Clear()
	b.numAccepted++
	if val.Passed() {
		b.offerCandidate(b.current, eval, true)
	}
}

// SwapCurrentWith exchanges the current solution, its evaluation and
// its validation with other's in place, and clears both move caches
// (spec §4.7's swap phase). Both sides must be IDLE; the caller (parallel tempering) only
// calls this between replica runs.
func (b *NeighborhoodSearchBase[S]) SwapCurrentWith(other *NeighborhoodSearchBase[S]) {
	b.current, other.current = other.current, b.current
	b.currentEval, other.currentEval = other.currentEval, b.currentEval
	b.currentVal, other.currentVal = other.currentVal, b.currentVal
	b.cache.Clear()
	other.cache.Clear()
}

// RejectMove advances the rejected-move counter without changing the
// current solution.
func (b *NeighborhoodSearchBase[S]) RejectMove() { b.numRejected++ }

// RandomMove draws one random move from the bound neighborhood.
func (b *NeighborhoodSearchBase[S]) RandomMove() (optimize.Move[S], bool) {
	return b.neighborhood.RandomMove(b.current, b.Rng)
}

// AllMoves enumerates every move the bound neighborhood offers from the
// current solution.
func (b *NeighborhoodSearchBase[S]) AllMoves() []optimize.Move[S] {
	return b.neighborhood.AllMoves(b.current)
}
