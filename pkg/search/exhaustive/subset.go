package exhaustive

import (
	"github.com/freedakipad/optima/pkg/errors"
	"github.com/freedakipad/optima/pkg/optimize"
)

// revolvingDoorCombinations returns every k-combination of the index set
// {0,...,n-1}, each as a sorted slice of indices, in revolving-door
// (minimal-change) order: consecutive combinations differ by removing
// exactly one element and adding exactly one other (Eades-McKay doubling
// construction — combos of size k over n-1 elements that exclude element
// n-1, followed by the reverse of combos of size k-1 over n-1 elements
// with element n-1 appended, recursively). Spec §4.12: "this is an
// enumeration-order property, not a correctness property" — callers only
// depend on every combination appearing exactly once.
func revolvingDoorCombinations(n, k int) [][]int {
	if k == 0 {
		return [][]int{{}}
	}
	if k == n {
		full := make([]int, n)
		for i := range full {
			full[i] = i
		}
		return [][]int{full}
	}

	without := revolvingDoorCombinations(n-1, k)
	withoutLast := revolvingDoorCombinations(n-1, k-1)

	with := make([][]int, len(withoutLast))
	for i := range withoutLast {
		reversed := withoutLast[len(withoutLast)-1-i]
		extended := make([]int, 0, k)
		extended = append(extended, reversed...)
		extended = append(extended, n-1)
		with[i] = extended
	}
	return append(without, with...)
}

// SubsetSolutionEnumerator is the built-in iterator (spec §4.12) over all
// subsets of groundSet with size in [minSize, maxSize], inclusive,
// smallest size first, each size enumerated in revolving-door order.
// Every subset is materialized into a solution via build at construction
// time, so HasNext/Next are O(1) and ordering is fixed up front.
type SubsetSolutionEnumerator[S optimize.Solution[S]] struct {
	combos []S
	idx    int
}

// NewSubsetSolutionEnumerator builds the full enumeration over groundSet
// (a set of opaque identifiers; order only affects which subsets map to
// which enumeration positions, not which subsets exist) with size range
// [minSize, maxSize]. build converts a chosen subset of ids (in ground-set
// order) into a solution.
func NewSubsetSolutionEnumerator[S optimize.Solution[S]](
	groundSet []int,
	minSize, maxSize int,
	build func(ids []int) S,
) (*SubsetSolutionEnumerator[S], error) {
	n := len(groundSet)
	if minSize < 0 {
		return nil, errors.Configuration("subset solution enumerator requires a non-negative minimum size")
	}
	if maxSize < minSize || maxSize > n {
		return nil, errors.Configuration("subset solution enumerator requires minSize <= maxSize <= len(groundSet)")
	}
	if build == nil {
		return nil, errors.Configuration("subset solution enumerator requires a build function")
	}

	var combos []S
	for k := minSize; k <= maxSize; k++ {
		for _, idxCombo := range revolvingDoorCombinations(n, k) {
			ids := make([]int, len(idxCombo))
			for i, idx := range idxCombo {
				ids[i] = groundSet[idx]
			}
			combos = append(combos, build(ids))
		}
	}
	return &SubsetSolutionEnumerator[S]{combos: combos}, nil
}

// HasNext implements SolutionIterator.
func (e *SubsetSolutionEnumerator[S]) HasNext() bool { return e.idx < len(e.combos) }

// Next implements SolutionIterator.
func (e *SubsetSolutionEnumerator[S]) Next() S {
	s := e.combos[e.idx]
	e.idx++
	return s
}

// Remaining reports how many subsets have not yet been returned.
func (e *SubsetSolutionEnumerator[S]) Remaining() int { return len(e.combos) - e.idx }
