package subsetsum_test

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/freedakipad/optima/internal/demo/subsetsum"
	"github.com/freedakipad/optima/pkg/search"
	"github.com/freedakipad/optima/pkg/search/algorithms"
)

// TestRandomDescentConvergesToBestPair realizes spec §8 scenario (a):
// ground set {1,2,3,4,5}, maximizing the sum of a size-2 subset via
// single-swap moves starting from {1,2}, converges to {4,5}=9. A swap
// neighborhood over a fixed-size subset never runs dry, so a stop
// criterion on steps-without-improvement is what ends the run, the
// same way a caller configures any indefinite neighborhood walk.
func TestRandomDescentConvergesToBestPair(t *testing.T) {
	groundSet := []int{1, 2, 3, 4, 5}
	problem := subsetsum.SumProblem{GroundSet: groundSet}
	neighborhood := subsetsum.SwapNeighborhood{GroundSet: groundSet}
	rd := algorithms.NewRandomDescent[*subsetsum.Solution](problem, neighborhood, rand.New(rand.NewSource(7)), nil)

	if err := rd.SetStopCriteria(time.Millisecond, search.MaxStepsWithoutImprovement[*subsetsum.Solution]{N: 50}); err != nil {
		t.Fatalf("SetStopCriteria: %v", err)
	}
	if err := rd.SetCurrentSolution(subsetsum.NewSolution(1, 2)); err != nil {
		t.Fatalf("SetCurrentSolution: %v", err)
	}
	if err := rd.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	current, _ := rd.CurrentSolution()
	ids := current.IDs()
	if len(ids) != 2 || ids[0] != 4 || ids[1] != 5 {
		t.Fatalf("expected convergence to {4,5}, got %v", ids)
	}
	eval := rd.CurrentEvaluation()
	if eval.Value() != 9 {
		t.Fatalf("expected a final value of 9, got %v", eval.Value())
	}
}

// TestOddSumProblemDefaultDeltaEvaluation realizes spec §8 scenario (b):
// starting from the empty subset, adding 3 then 5 stays valid with
// evaluations 3 and 8; adding 2 on top makes the subset invalid (2 is
// even), exercising the apply/evaluate/undo default fallback.
func TestOddSumProblemDefaultDeltaEvaluation(t *testing.T) {
	problem := subsetsum.OddSumProblem{GroundSet: []int{1, 2, 3, 4, 5}}
	s := subsetsum.NewSolution()
	curEval := problem.Evaluate(s)
	curVal := problem.Validate(s)

	add3 := subsetsum.AddMove{ID: 3}
	eval := problem.EvaluateMove(add3, s, curEval)
	val := problem.ValidateMove(add3, s, curVal)
	if eval.Value() != 3 || !val.Passed() {
		t.Fatalf("expected adding 3 to be valid with eval 3, got eval=%v valid=%v", eval.Value(), val.Passed())
	}
	add3.Apply(s)
	curEval, curVal = eval, val

	add5 := subsetsum.AddMove{ID: 5}
	eval = problem.EvaluateMove(add5, s, curEval)
	val = problem.ValidateMove(add5, s, curVal)
	if eval.Value() != 8 || !val.Passed() {
		t.Fatalf("expected adding 5 to be valid with eval 8, got eval=%v valid=%v", eval.Value(), val.Passed())
	}
	add5.Apply(s)
	curEval, curVal = eval, val

	add2 := subsetsum.AddMove{ID: 2}
	eval = problem.EvaluateMove(add2, s, curEval)
	val = problem.ValidateMove(add2, s, curVal)
	if eval.Value() != 10 || val.Passed() {
		t.Fatalf("expected adding 2 to be invalid with eval 10, got eval=%v valid=%v", eval.Value(), val.Passed())
	}
}

func TestSolutionCopyEqualHash(t *testing.T) {
	s := subsetsum.NewSolution(3, 1, 4)
	cp := s.Copy()
	if !s.Equal(cp) || s.Hash() != cp.Hash() {
		t.Fatalf("expected a copy to be equal and hash-equal to its source")
	}
	other := subsetsum.NewSolution(1, 3)
	if s.Equal(other) {
		t.Fatalf("expected different subsets to compare unequal")
	}
}
