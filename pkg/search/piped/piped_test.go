package piped_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	appErrors "github.com/freedakipad/optima/pkg/errors"
	"github.com/freedakipad/optima/pkg/optimize"
	"github.com/freedakipad/optima/pkg/search"
	"github.com/freedakipad/optima/pkg/search/piped"
)

type counterSolution struct{ value int }

func (s *counterSolution) Copy() *counterSolution        { return &counterSolution{value: s.value} }
func (s *counterSolution) Equal(o *counterSolution) bool { return s.value == o.value }
func (s *counterSolution) Hash() uint64                  { return uint64(s.value) }

type counterProblem struct{ minimizing bool }

func (p *counterProblem) Evaluate(s *counterSolution) optimize.Evaluation {
	return optimize.SimpleEvaluation(float64(s.value))
}
func (p *counterProblem) EvaluateMove(m optimize.Move[*counterSolution], s *counterSolution, cur optimize.Evaluation) optimize.Evaluation {
	return optimize.DefaultEvaluateMove[*counterSolution](p, m, s, cur)
}
func (p *counterProblem) Validate(s *counterSolution) optimize.Validation {
	return optimize.SimpleValidation(true)
}
func (p *counterProblem) ValidateMove(m optimize.Move[*counterSolution], s *counterSolution, cur optimize.Validation) optimize.Validation {
	return optimize.DefaultValidateMove[*counterSolution](p, m, s, cur)
}
func (p *counterProblem) IsMinimizing() bool { return p.minimizing }
func (p *counterProblem) RandomSolution(rng *rand.Rand) *counterSolution {
	return &counterSolution{value: rng.Intn(100)}
}

// fakeInner is a minimal piped.Inner[*counterSolution] stand-in that
// records what it was asked to do instead of actually searching, so tests
// can assert on the pipeline's wiring in isolation from any one
// algorithm's own logic.
type fakeInner struct {
	hasBest    bool
	bestValue  int
	runErr     error
	setCurrent *counterSolution
	stopped    bool
	disposed   bool
}

func (f *fakeInner) SetCurrentSolution(s *counterSolution) error { f.setCurrent = s; return nil }
func (f *fakeInner) BestSolution() (*counterSolution, bool) {
	if !f.hasBest {
		return nil, false
	}
	return &counterSolution{value: f.bestValue}, true
}
func (f *fakeInner) BestEvaluation() (optimize.Evaluation, bool) {
	if !f.hasBest {
		return nil, false
	}
	return optimize.SimpleEvaluation(float64(f.bestValue)), true
}
func (f *fakeInner) Run(context.Context) error                     { return f.runErr }
func (f *fakeInner) Stop()                                         { f.stopped = true }
func (f *fakeInner) Dispose() error                                { f.disposed = true; return nil }
func (f *fakeInner) AddListener(search.Listener[*counterSolution]) {}

func TestNewPipedLocalSearchRejectsEmptyInnerList(t *testing.T) {
	problem := &counterProblem{minimizing: false}
	if _, err := piped.NewPipedLocalSearch[*counterSolution](problem, nil, rand.New(rand.NewSource(1)), nil); err == nil {
		t.Fatalf("expected construction to reject an empty inner list")
	}
}

func TestStepFeedsEachInnerTheUpdatedCurrentAndTracksBest(t *testing.T) {
	problem := &counterProblem{minimizing: false}
	inner1 := &fakeInner{hasBest: true, bestValue: 5}
	inner2 := &fakeInner{hasBest: true, bestValue: 9}
	p, err := piped.NewPipedLocalSearch[*counterSolution](
		problem, []piped.Inner[*counterSolution]{inner1, inner2}, rand.New(rand.NewSource(1)), nil)
	if err != nil {
		t.Fatalf("NewPipedLocalSearch: %v", err)
	}

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if inner1.setCurrent == nil {
		t.Fatalf("expected the first inner to be seeded with a solution")
	}
	if inner2.setCurrent == nil || inner2.setCurrent.value != 5 {
		t.Fatalf("expected the second inner to be seeded with the first inner's best (5), got %v", inner2.setCurrent)
	}
	best, ok := p.BestSolution()
	if !ok || best.value != 9 {
		t.Fatalf("expected the outer best to be the last inner's best (9), got %v ok=%v", best, ok)
	}
	if p.Status() != search.StatusDisposed {
		t.Fatalf("expected the pipeline to auto-dispose after its single outer step, got status %v", p.Status())
	}
	if !inner1.disposed || !inner2.disposed {
		t.Fatalf("expected every inner to be disposed once the outer finishes")
	}
}

func TestStopPropagatesToEveryInner(t *testing.T) {
	problem := &counterProblem{minimizing: false}
	inner1 := &fakeInner{}
	inner2 := &fakeInner{}
	p, err := piped.NewPipedLocalSearch[*counterSolution](
		problem, []piped.Inner[*counterSolution]{inner1, inner2}, rand.New(rand.NewSource(1)), nil)
	if err != nil {
		t.Fatalf("NewPipedLocalSearch: %v", err)
	}
	p.Stop()
	if !inner1.stopped || !inner2.stopped {
		t.Fatalf("expected Stop to propagate to every inner")
	}
}

func TestStepWrapsInnerRunErrorAsSearchExecutionError(t *testing.T) {
	problem := &counterProblem{minimizing: false}
	inner := &fakeInner{runErr: errors.New("boom")}
	p, err := piped.NewPipedLocalSearch[*counterSolution](
		problem, []piped.Inner[*counterSolution]{inner}, rand.New(rand.NewSource(1)), nil)
	if err != nil {
		t.Fatalf("NewPipedLocalSearch: %v", err)
	}

	if err := p.Run(context.Background()); appErrors.GetCode(err) != appErrors.CodeSearchExecution {
		t.Fatalf("expected a search-execution error wrapping the inner failure, got %v", err)
	}
}
