package tabu

import (
	"container/list"
	"fmt"

	"github.com/freedakipad/optima/pkg/errors"
	"github.com/freedakipad/optima/pkg/optimize"
)

// Memory decides whether a move is forbidden by recent search history
// (spec §4.8). is_tabu/register/clear map directly onto IsTabu/Register/
// Clear. A memory that receives a move of a kind it cannot interpret
// raises errors.IncompatibleMove instead of guessing.
type Memory[S optimize.Solution[S]] interface {
	// IsTabu reports whether move is forbidden given the current solution.
	// Implementations that need to inspect the resulting state apply move
	// to current, test, and undo it before returning — current must come
	// back exactly as given.
	IsTabu(move optimize.Move[S], current S) (bool, error)

	// Register records that current was just visited by applying
	// appliedMove (appliedMove may be nil, meaning "no move", e.g. the
	// initial solution before any step has run).
	Register(current S, appliedMove optimize.Move[S]) error

	// Clear empties the memory.
	Clear()
}

type solutionEntry[S optimize.Solution[S]] struct {
	hash  uint64
	value S
}

// FullSolutionMemory remembers the last capacity solutions visited, by
// value: a move is tabu if applying it to the current solution reproduces
// one of them. It is move-kind-agnostic — any Move[S] can be tested,
// since the memory only ever looks at the resulting Solution.
//
// IsTabu applies the move, hashes and compares the result against the
// remembered solutions, then undoes the move, restoring it exactly (spec
// §4.8: "checks membership via apply/test/undo").
type FullSolutionMemory[S optimize.Solution[S]] struct {
	capacity int
	order    *list.List // of *solutionEntry[S], oldest at Front
}

// NewFullSolutionMemory builds an empty memory holding at most capacity
// solutions.
func NewFullSolutionMemory[S optimize.Solution[S]](capacity int) *FullSolutionMemory[S] {
	if capacity < 1 {
		capacity = 1
	}
	return &FullSolutionMemory[S]{capacity: capacity, order: list.New()}
}

// IsTabu implements Memory.
func (m *FullSolutionMemory[S]) IsTabu(move optimize.Move[S], current S) (bool, error) {
	move.Apply(current)
	found := m.contains(current.Hash(), current)
	move.Undo(current)
	return found, nil
}

func (m *FullSolutionMemory[S]) contains(hash uint64, value S) bool {
	for e := m.order.Front(); e != nil; e = e.Next() {
		entry := e.Value.(*solutionEntry[S])
		if entry.hash == hash && entry.value.Equal(value) {
			return true
		}
	}
	return false
}

// Register implements Memory: visited is recorded by value regardless of
// which move (if any) produced it.
func (m *FullSolutionMemory[S]) Register(visited S, _ optimize.Move[S]) error {
	m.order.PushBack(&solutionEntry[S]{hash: visited.Hash(), value: visited.Copy()})
	if m.order.Len() > m.capacity {
		m.order.Remove(m.order.Front())
	}
	return nil
}

// Clear implements Memory.
func (m *FullSolutionMemory[S]) Clear() { m.order.Init() }

// IDTouching is the capability a move must implement to be usable with
// IDSubsetMemory: it must be able to report the identifiers it adds to or
// removes from the solution (spec §4.8's "id-based subset memory"). Moves
// that touch no notion of identifiers (e.g. a pure value swap between two
// non-identified slots) do not satisfy this and cause IsTabu/Register to
// raise errors.IncompatibleMove.
type IDTouching interface {
	// TouchedIDs returns the identifiers the move adds and removes.
	TouchedIDs() (added, removed []int)
}

// IDSubsetMemory is tabu if any identifier the candidate move would add or
// remove is currently held in a bounded recency set of recently-touched
// identifiers (spec §4.8: "tabu if any added/deleted id is in memory").
type IDSubsetMemory[S optimize.Solution[S]] struct {
	recency *BoundedRecencySet[int]
}

// NewIDSubsetMemory builds an empty memory tracking at most capacity
// recently-touched identifiers.
func NewIDSubsetMemory[S optimize.Solution[S]](capacity int) *IDSubsetMemory[S] {
	return &IDSubsetMemory[S]{recency: NewBoundedRecencySet[int](capacity)}
}

// IsTabu implements Memory.
func (m *IDSubsetMemory[S]) IsTabu(move optimize.Move[S], _ S) (bool, error) {
	touching, ok := move.(IDTouching)
	if !ok {
		return false, errors.IncompatibleMove(fmt.Sprintf("%T", move))
	}
	added, removed := touching.TouchedIDs()
	for _, id := range added {
		if m.recency.Contains(id) {
			return true, nil
		}
	}
	for _, id := range removed {
		if m.recency.Contains(id) {
			return true, nil
		}
	}
	return false, nil
}

// Register implements Memory: every id the applied move touched is added
// to the recency set. A nil appliedMove (no move) registers nothing.
func (m *IDSubsetMemory[S]) Register(_ S, appliedMove optimize.Move[S]) error {
	if appliedMove == nil {
		return nil
	}
	touching, ok := appliedMove.(IDTouching)
	if !ok {
		return errors.IncompatibleMove(fmt.Sprintf("%T", appliedMove))
	}
	added, removed := touching.TouchedIDs()
	for _, id := range added {
		m.recency.Add(id)
	}
	for _, id := range removed {
		m.recency.Add(id)
	}
	return nil
}

// Clear implements Memory.
func (m *IDSubsetMemory[S]) Clear() { m.recency.Clear() }
