package search

import (
	"github.com/google/uuid"

	"github.com/freedakipad/optima/pkg/optimize"
)

// Listener observes a run's lifecycle and progress (spec §4.1). A Listener
// attached to a running search may be called concurrently with the search
// goroutine; implementations that touch shared state must synchronize
// themselves.
type Listener[S any] interface {
	// Started fires once, right after status moves to RUNNING.
	Started(runID uuid.UUID)
	// Stopped fires once, right after status returns to IDLE.
	Stopped(runID uuid.UUID, steps int)
	// StepCompleted fires after every step, including the one that ends
	// the run.
	StepCompleted(runID uuid.UUID, step int)
	// NewBest fires whenever the tracked best solution improves.
	NewBest(runID uuid.UUID, s S, eval optimize.Evaluation)
	// StatusChanged fires on every status transition, including Started
	// and Stopped's transitions.
	StatusChanged(runID uuid.UUID, status Status)
}

// BaseListener is a no-op Listener[S]. Embed it to implement only the
// callbacks a concrete listener cares about, matching the adapter idiom
// Go interfaces commonly use when an interface has more methods than any
// one caller needs.
type BaseListener[S any] struct{}

func (BaseListener[S]) Started(uuid.UUID)                           {}
func (BaseListener[S]) Stopped(uuid.UUID, int)                      {}
func (BaseListener[S]) StepCompleted(uuid.UUID, int)                {}
func (BaseListener[S]) NewBest(uuid.UUID, S, optimize.Evaluation)    {}
func (BaseListener[S]) StatusChanged(uuid.UUID, Status)              {}
