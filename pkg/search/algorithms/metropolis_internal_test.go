package algorithms

import "testing"

func TestBoltzmannProbabilityBoundaries(t *testing.T) {
	if got := boltzmannProbability(-1, 5); got != 1.0 {
		t.Fatalf("expected improving badness to always accept, got %v", got)
	}
	if got := boltzmannProbability(0, 5); got != 1.0 {
		t.Fatalf("expected zero badness to always accept, got %v", got)
	}
	if got := boltzmannProbability(3, 0); got != 0.0 {
		t.Fatalf("expected zero temperature to never accept a worsening move, got %v", got)
	}
	if got := boltzmannProbability(3, 3); got <= 0 || got >= 1 {
		t.Fatalf("expected a probability strictly between 0 and 1, got %v", got)
	}
}
