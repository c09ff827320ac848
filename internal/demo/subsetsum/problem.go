package subsetsum

import (
	"math/rand"

	"github.com/freedakipad/optima/pkg/optimize"
)

func sum(s *Solution) int {
	total := 0
	for _, id := range s.IDs() {
		total += id
	}
	return total
}

// SumProblem maximizes the sum of selected ids with no constraints (spec
// §8 scenario (a)). EvaluateMove computes the delta incrementally from
// the move's touched ids rather than falling back to apply/evaluate/
// undo, the way a problem with a cheap incremental objective would.
type SumProblem struct {
	GroundSet []int
}

// Evaluate implements optimize.Problem.
func (p SumProblem) Evaluate(s *Solution) optimize.Evaluation {
	return optimize.SimpleEvaluation(float64(sum(s)))
}

// EvaluateMove implements optimize.Problem.
func (p SumProblem) EvaluateMove(move optimize.Move[*Solution], s *Solution, curEval optimize.Evaluation) optimize.Evaluation {
	touching, ok := move.(interface{ TouchedIDs() (added, removed []int) })
	if !ok {
		return optimize.DefaultEvaluateMove[*Solution](p, move, s, curEval)
	}
	added, removed := touching.TouchedIDs()
	delta := 0
	for _, id := range added {
		delta += id
	}
	for _, id := range removed {
		delta -= id
	}
	return optimize.SimpleEvaluation(curEval.Value() + float64(delta))
}

// Validate implements optimize.Problem: every subset is feasible.
func (p SumProblem) Validate(*Solution) optimize.Validation { return optimize.SimpleValidation(true) }

// ValidateMove implements optimize.Problem.
func (p SumProblem) ValidateMove(optimize.Move[*Solution], *Solution, optimize.Validation) optimize.Validation {
	return optimize.SimpleValidation(true)
}

// IsMinimizing implements optimize.Problem: this problem maximizes.
func (p SumProblem) IsMinimizing() bool { return false }

// RandomSolution implements optimize.Problem, including each ground-set
// id independently with probability 1/2.
func (p SumProblem) RandomSolution(rng *rand.Rand) *Solution {
	s := NewSolution()
	for _, id := range p.GroundSet {
		if rng.Intn(2) == 0 {
			s.selected[id] = struct{}{}
		}
	}
	return s
}

// OddSumProblem maximizes the sum of selected ids, requiring every
// selected id to be odd, and deliberately relies on the
// apply/evaluate(validate)/undo default incremental evaluator (spec §8
// scenario (b): "Problem default delta evaluation") rather than
// computing deltas itself.
type OddSumProblem struct {
	GroundSet []int
}

// Evaluate implements optimize.Problem.
func (p OddSumProblem) Evaluate(s *Solution) optimize.Evaluation {
	return optimize.SimpleEvaluation(float64(sum(s)))
}

// EvaluateMove implements optimize.Problem via the shared default.
func (p OddSumProblem) EvaluateMove(move optimize.Move[*Solution], s *Solution, curEval optimize.Evaluation) optimize.Evaluation {
	return optimize.DefaultEvaluateMove[*Solution](p, move, s, curEval)
}

// Validate implements optimize.Problem: every selected id must be odd.
func (p OddSumProblem) Validate(s *Solution) optimize.Validation {
	for _, id := range s.IDs() {
		if id%2 == 0 {
			return optimize.SimpleValidation(false)
		}
	}
	return optimize.SimpleValidation(true)
}

// ValidateMove implements optimize.Problem via the shared default.
func (p OddSumProblem) ValidateMove(move optimize.Move[*Solution], s *Solution, curVal optimize.Validation) optimize.Validation {
	return optimize.DefaultValidateMove[*Solution](p, move, s, curVal)
}

// IsMinimizing implements optimize.Problem: this problem maximizes.
func (p OddSumProblem) IsMinimizing() bool { return false }

// RandomSolution implements optimize.Problem, selecting only odd ids
// (keeping random draws always feasible).
func (p OddSumProblem) RandomSolution(rng *rand.Rand) *Solution {
	s := NewSolution()
	for _, id := range p.GroundSet {
		if id%2 != 0 && rng.Intn(2) == 0 {
			s.selected[id] = struct{}{}
		}
	}
	return s
}
