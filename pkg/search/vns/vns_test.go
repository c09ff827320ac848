package vns_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/freedakipad/optima/pkg/optimize"
	"github.com/freedakipad/optima/pkg/search/vns"
)

type counterSolution struct{ value int }

func (s *counterSolution) Copy() *counterSolution        { return &counterSolution{value: s.value} }
func (s *counterSolution) Equal(o *counterSolution) bool { return s.value == o.value }
func (s *counterSolution) Hash() uint64                  { return uint64(s.value) }

type deltaMove struct{ delta int }

func (m deltaMove) Apply(s *counterSolution) { s.value += m.delta }
func (m deltaMove) Undo(s *counterSolution)  { s.value -= m.delta }

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

type emptyNeighborhood struct{}

func (emptyNeighborhood) RandomMove(*counterSolution, *rand.Rand) (optimize.Move[*counterSolution], bool) {
	return nil, false
}
func (emptyNeighborhood) AllMoves(*counterSolution) []optimize.Move[*counterSolution] { return nil }

// neverImprovingNeighborhood always offers a move, but one that only ever
// worsens a minimizing objective.
type neverImprovingNeighborhood struct{}

func (neverImprovingNeighborhood) RandomMove(*counterSolution, *rand.Rand) (optimize.Move[*counterSolution], bool) {
	return deltaMove{delta: 3}, true
}
func (neverImprovingNeighborhood) AllMoves(*counterSolution) []optimize.Move[*counterSolution] {
	return []optimize.Move[*counterSolution]{deltaMove{delta: 3}}
}

// boundedImprovingNeighborhood offers an improving move until the solution
// reaches floor, after which it reports itself exhausted.
type boundedImprovingNeighborhood struct{ floor int }

func (n boundedImprovingNeighborhood) RandomMove(s *counterSolution, _ *rand.Rand) (optimize.Move[*counterSolution], bool) {
	if s.value <= n.floor {
		return nil, false
	}
	return deltaMove{delta: -4}, true
}
func (n boundedImprovingNeighborhood) AllMoves(s *counterSolution) []optimize.Move[*counterSolution] {
	if s.value <= n.floor {
		return nil
	}
	return []optimize.Move[*counterSolution]{deltaMove{delta: -4}}
}

type worseningNeighborhood struct{}

func (worseningNeighborhood) RandomMove(*counterSolution, *rand.Rand) (optimize.Move[*counterSolution], bool) {
	return deltaMove{delta: 1}, true
}
func (worseningNeighborhood) AllMoves(*counterSolution) []optimize.Move[*counterSolution] {
	return []optimize.Move[*counterSolution]{deltaMove{delta: 1}}
}

type improvingNeighborhood struct{}

func (improvingNeighborhood) RandomMove(*counterSolution, *rand.Rand) (optimize.Move[*counterSolution], bool) {
	return deltaMove{delta: -2}, true
}
func (improvingNeighborhood) AllMoves(*counterSolution) []optimize.Move[*counterSolution] {
	return []optimize.Move[*counterSolution]{deltaMove{delta: -2}}
}

func TestNewVNDRejectsEmptyNeighborhoodList(t *testing.T) {
	problem := &counterProblem{minimizing: true}
	if _, err := vns.NewVND[*counterSolution](problem, nil, rand.New(rand.NewSource(1)), nil); err == nil {
		t.Fatalf("expected construction to reject an empty neighborhood list")
	}
}

func TestVNDStopsWhenNoNeighborhoodHasAnImprovingMove(t *testing.T) {
	problem := &counterProblem{minimizing: true}
	v, err := vns.NewVND[*counterSolution](problem, []optimize.Neighborhood[*counterSolution]{emptyNeighborhood{}}, rand.New(rand.NewSource(1)), nil)
	if err != nil {
		t.Fatalf("NewVND: %v", err)
	}
	if err := v.SetCurrentSolution(&counterSolution{value: 0}); err != nil {
		t.Fatalf("SetCurrentSolution: %v", err)
	}
	if err := v.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if v.Steps() != 1 {
		t.Fatalf("expected VND to give up after exactly one step with a single empty neighborhood, got %d steps", v.Steps())
	}
}

func TestVNDAdvancesKAndResetsOnImprovement(t *testing.T) {
	problem := &counterProblem{minimizing: true}
	v, err := vns.NewVND[*counterSolution](problem, []optimize.Neighborhood[*counterSolution]{
		neverImprovingNeighborhood{},
		boundedImprovingNeighborhood{floor: 2},
	}, rand.New(rand.NewSource(1)), nil)
	if err != nil {
		t.Fatalf("NewVND: %v", err)
	}
	if err := v.SetCurrentSolution(&counterSolution{value: 10}); err != nil {
		t.Fatalf("SetCurrentSolution: %v", err)
	}
	if err := v.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	current, _ := v.CurrentSolution()
	if current.value != 2 {
		t.Fatalf("expected VND to drive the value down to the second neighborhood's floor of 2, got %d", current.value)
	}
	if v.NumAccepted() != 2 {
		t.Fatalf("expected 2 accepted -4 steps (10 -> 6 -> 2), got %d", v.NumAccepted())
	}
}

func TestNewRVNSRejectsEmptyNeighborhoodList(t *testing.T) {
	problem := &counterProblem{minimizing: true}
	if _, err := vns.NewRVNS[*counterSolution](problem, nil, rand.New(rand.NewSource(1)), nil); err == nil {
		t.Fatalf("expected construction to reject an empty neighborhood list")
	}
}

func TestRVNSAdvancesKOnEmptyOrRejectedDrawAndResetsOnImprovement(t *testing.T) {
	problem := &counterProblem{minimizing: true}
	r, err := vns.NewRVNS[*counterSolution](problem, []optimize.Neighborhood[*counterSolution]{
		emptyNeighborhood{},
		worseningNeighborhood{},
		improvingNeighborhood{},
	}, rand.New(rand.NewSource(1)), nil)
	if err != nil {
		t.Fatalf("NewRVNS: %v", err)
	}
	if err := r.SetCurrentSolution(&counterSolution{value: 10}); err != nil {
		t.Fatalf("SetCurrentSolution: %v", err)
	}

	// k=0: the empty neighborhood draws nothing, so k advances without
	// touching the current solution.
	if ok, err := r.Step(context.Background()); err != nil || !ok {
		t.Fatalf("step 1: ok=%v err=%v", ok, err)
	}
	if cur, _ := r.CurrentSolution(); cur.value != 10 {
		t.Fatalf("expected no change after an empty draw, got %d", cur.value)
	}

	// k=1: the worsening move is rejected, and k advances again.
	if ok, err := r.Step(context.Background()); err != nil || !ok {
		t.Fatalf("step 2: ok=%v err=%v", ok, err)
	}
	if cur, _ := r.CurrentSolution(); cur.value != 10 {
		t.Fatalf("expected no change after a rejected draw, got %d", cur.value)
	}
	if r.NumRejected() != 1 {
		t.Fatalf("expected 1 rejected move, got %d", r.NumRejected())
	}

	// k=2: the improving move is applied and k resets to 0.
	if ok, err := r.Step(context.Background()); err != nil || !ok {
		t.Fatalf("step 3: ok=%v err=%v", ok, err)
	}
	if cur, _ := r.CurrentSolution(); cur.value != 8 {
		t.Fatalf("expected the improving move to apply, got %d", cur.value)
	}
	if r.NumAccepted() != 1 {
		t.Fatalf("expected 1 accepted move, got %d", r.NumAccepted())
	}

	// k is back at 0 (the empty neighborhood), so the next draw is empty
	// again and the solution is unchanged.
	if ok, err := r.Step(context.Background()); err != nil || !ok {
		t.Fatalf("step 4: ok=%v err=%v", ok, err)
	}
	if cur, _ := r.CurrentSolution(); cur.value != 8 {
		t.Fatalf("expected k to have reset to the empty neighborhood, got %d", cur.value)
	}
}
