package optimize

// Move is a reversible in-place mutation of a solution of type S. A move
// is short-lived: its lifetime is bounded by the search step that
// generated it, and it holds no reference to the solution it mutates —
// only value-type payloads (indices, ids, ...), so it can be freely
// generated and discarded within a step (spec §3, §9).
//
// Contract: for any s, calling Apply(s) followed by Undo(s) must leave s
// value-equal (via Solution.Equal) and hash-equal to its state before
// Apply — see spec §8 property 1.
type Move[S any] interface {
	// Apply mutates s to reflect the move.
	Apply(s S)

	// Undo reverses the most recent Apply on s. Calling Undo without a
	// preceding Apply, or calling it twice, is undefined behavior — moves
	// are not designed to be reentrant.
	Undo(s S)
}
