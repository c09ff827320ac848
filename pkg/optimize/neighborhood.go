package optimize

import "math/rand"

// Neighborhood is a factory that produces moves from a given solution
// (spec §3). A Neighborhood must be safe to call concurrently from
// multiple goroutines when it is shared across parallel-tempering replicas
// or a basic parallel multi-search's sub-searches (spec §5) — in practice
// this means RandomMove and AllMoves must not mutate shared state without
// their own synchronization; the rng passed to RandomMove is the caller's,
// so it is never shared across goroutines.
type Neighborhood[S any] interface {
	// RandomMove returns a uniformly- (or otherwise-) distributed move
	// applicable to s, or ok=false iff no move can be generated — an empty
	// neighborhood under the current state, not an error.
	RandomMove(s S, rng *rand.Rand) (move Move[S], ok bool)

	// AllMoves enumerates every move applicable to s. The enumeration is
	// finite; order is unspecified unless a concrete neighborhood
	// documents one.
	AllMoves(s S) []Move[S]
}
