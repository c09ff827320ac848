// Package optimize defines the abstract contracts every local-search
// algorithm in this module is written against: Solution, Move,
// Neighborhood, Evaluation, Validation, and Problem (spec §3, §6). Concrete
// problem instances (a specific combinatorial domain) are external
// collaborators supplied by the host program; the engine never imports a
// concrete domain.
package optimize

// Solution is the capability set a host program's solution type must
// implement: a deep Copy that returns the exact dynamic type, and
// value-based equality and hashing that depend only on semantic content,
// never on identity.
//
// The type parameter S is the concrete solution type itself (e.g. a host
// program writes `func (s *MySolution) Copy() *MySolution`), so Copy's
// return type is pinned to S by the Go compiler — the "copy returns the
// same dynamic type" contract from spec §3/§9 becomes a compile-time
// guarantee here instead of a runtime check.
//
// Implementations must satisfy: s.Copy().Equal(s) is true for all s, and
// a.Hash() == b.Hash() whenever a.Equal(b) — i.e. Hash is a valid hash
// function for the Equal relation.
type Solution[S any] interface {
	// Copy returns a deep copy of the receiver. Mutating the copy must
	// never affect the receiver, and vice versa.
	Copy() S

	// Equal reports value equality with other: true iff both describe the
	// same semantic solution, regardless of identity.
	Equal(other S) bool

	// Hash returns a hash consistent with Equal.
	Hash() uint64
}
