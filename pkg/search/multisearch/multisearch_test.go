package multisearch_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"

	appErrors "github.com/freedakipad/optima/pkg/errors"
	"github.com/freedakipad/optima/pkg/optimize"
	"github.com/freedakipad/optima/pkg/search"
	"github.com/freedakipad/optima/pkg/search/multisearch"
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

// fakeSub is a minimal multisearch.Sub[*counterSolution] stand-in that
// offers a fixed best to whichever listeners are registered on it when
// Run is called, so tests can assert on the coordinator's wiring without
// depending on a real algorithm's convergence behavior.
type fakeSub struct {
	bestValue int
	runErr    error
	runs      atomic.Int64
	stopped   atomic.Bool
	disposed  atomic.Bool
	listeners []search.Listener[*counterSolution]
}

func (f *fakeSub) AddListener(l search.Listener[*counterSolution]) {
	f.listeners = append(f.listeners, l)
}
func (f *fakeSub) Run(context.Context) error {
	f.runs.Add(1)
	if f.runErr != nil {
		return f.runErr
	}
	best := &counterSolution{value: f.bestValue}
	eval := optimize.SimpleEvaluation(float64(f.bestValue))
	for _, l := range f.listeners {
		l.NewBest(uuid.UUID{}, best, eval)
	}
	return nil
}
func (f *fakeSub) Stop()         { f.stopped.Store(true) }
func (f *fakeSub) Dispose() error { f.disposed.Store(true); return nil }

func TestNewBasicParallelMultiSearchRejectsEmptySubList(t *testing.T) {
	problem := &counterProblem{minimizing: false}
	if _, err := multisearch.NewBasicParallelMultiSearch[*counterSolution](problem, nil, 4, nil); err == nil {
		t.Fatalf("expected construction to reject an empty sub list")
	}
}

func TestStepRunsEverySubAndRelaysBestToOuter(t *testing.T) {
	problem := &counterProblem{minimizing: false}
	sub1 := &fakeSub{bestValue: 3}
	sub2 := &fakeSub{bestValue: 7}
	m, err := multisearch.NewBasicParallelMultiSearch[*counterSolution](
		problem, []multisearch.Sub[*counterSolution]{sub1, sub2}, 4, nil)
	if err != nil {
		t.Fatalf("NewBasicParallelMultiSearch: %v", err)
	}

	ok, err := m.Step(context.Background())
	if err != nil || !ok {
		t.Fatalf("Step: ok=%v err=%v", ok, err)
	}
	if sub1.runs.Load() != 1 || sub2.runs.Load() != 1 {
		t.Fatalf("expected every sub to be run exactly once per step")
	}
	best, found := m.BestSolution()
	if !found || best.value != 7 {
		t.Fatalf("expected the outer best to be the highest relayed value (7), got %v found=%v", best, found)
	}
}

func TestStopPropagatesToEverySub(t *testing.T) {
	problem := &counterProblem{minimizing: false}
	sub1 := &fakeSub{}
	sub2 := &fakeSub{}
	m, err := multisearch.NewBasicParallelMultiSearch[*counterSolution](
		problem, []multisearch.Sub[*counterSolution]{sub1, sub2}, 2, nil)
	if err != nil {
		t.Fatalf("NewBasicParallelMultiSearch: %v", err)
	}
	m.Stop()
	if !sub1.stopped.Load() || !sub2.stopped.Load() {
		t.Fatalf("expected Stop to propagate to every sub")
	}
}

func TestAddSubAndRemoveSubRequireIdle(t *testing.T) {
	problem := &counterProblem{minimizing: false}
	sub1 := &fakeSub{}
	m, err := multisearch.NewBasicParallelMultiSearch[*counterSolution](
		problem, []multisearch.Sub[*counterSolution]{sub1}, 2, nil)
	if err != nil {
		t.Fatalf("NewBasicParallelMultiSearch: %v", err)
	}
	sub2 := &fakeSub{}
	if err := m.AddSub(sub2); err != nil {
		t.Fatalf("AddSub while idle: %v", err)
	}
	if len(m.Subs()) != 2 {
		t.Fatalf("expected 2 subs after AddSub, got %d", len(m.Subs()))
	}
	if err := m.RemoveSub(sub1); err != nil {
		t.Fatalf("RemoveSub while idle: %v", err)
	}
	if len(m.Subs()) != 1 {
		t.Fatalf("expected 1 sub after RemoveSub, got %d", len(m.Subs()))
	}
	if err := m.RemoveSub(sub1); appErrors.GetCode(err) != appErrors.CodeConfiguration {
		t.Fatalf("expected removing an unregistered sub to fail with CodeConfiguration, got %v", err)
	}
}

func TestStepWrapsSubRunErrorAsSearchExecutionError(t *testing.T) {
	problem := &counterProblem{minimizing: false}
	sub := &fakeSub{runErr: errors.New("boom")}
	m, err := multisearch.NewBasicParallelMultiSearch[*counterSolution](
		problem, []multisearch.Sub[*counterSolution]{sub}, 1, nil)
	if err != nil {
		t.Fatalf("NewBasicParallelMultiSearch: %v", err)
	}
	_, err = m.Step(context.Background())
	if appErrors.GetCode(err) != appErrors.CodeSearchExecution {
		t.Fatalf("expected a search-execution error wrapping the sub failure, got %v", err)
	}
}
