package subsetsum

import (
	"math/rand"

	"github.com/freedakipad/optima/pkg/optimize"
)

// SwapNeighborhood offers every move that exchanges one selected id for
// one unselected id from GroundSet, keeping the subset's size fixed
// (spec §8 scenario (a)'s "neighborhood = single swap").
type SwapNeighborhood struct {
	GroundSet []int
}

// RandomMove implements optimize.Neighborhood.
func (n SwapNeighborhood) RandomMove(s *Solution, rng *rand.Rand) (optimize.Move[*Solution], bool) {
	moves := n.AllMoves(s)
	if len(moves) == 0 {
		return nil, false
	}
	return moves[rng.Intn(len(moves))], true
}

// AllMoves implements optimize.Neighborhood.
func (n SwapNeighborhood) AllMoves(s *Solution) []optimize.Move[*Solution] {
	var selected, unselected []int
	for _, id := range n.GroundSet {
		if s.Contains(id) {
			selected = append(selected, id)
		} else {
			unselected = append(unselected, id)
		}
	}
	moves := make([]optimize.Move[*Solution], 0, len(selected)*len(unselected))
	for _, out := range selected {
		for _, in := range unselected {
			moves = append(moves, SwapMove{Add: in, Remove: out})
		}
	}
	return moves
}

// AddNeighborhood offers one AddMove per unselected id in GroundSet
// (spec §8 scenario (b), which only ever adds ids).
type AddNeighborhood struct {
	GroundSet []int
}

// RandomMove implements optimize.Neighborhood.
func (n AddNeighborhood) RandomMove(s *Solution, rng *rand.Rand) (optimize.Move[*Solution], bool) {
	moves := n.AllMoves(s)
	if len(moves) == 0 {
		return nil, false
	}
	return moves[rng.Intn(len(moves))], true
}

// AllMoves implements optimize.Neighborhood.
func (n AddNeighborhood) AllMoves(s *Solution) []optimize.Move[*Solution] {
	var moves []optimize.Move[*Solution]
	for _, id := range n.GroundSet {
		if !s.Contains(id) {
			moves = append(moves, AddMove{ID: id})
		}
	}
	return moves
}
