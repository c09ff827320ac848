package subsetsum

// AddMove selects ID, which must not already be selected.
type AddMove struct{ ID int }

// Apply implements optimize.Move.
func (m AddMove) Apply(s *Solution) { s.selected[m.ID] = struct{}{} }

// Undo implements optimize.Move.
func (m AddMove) Undo(s *Solution) { delete(s.selected, m.ID) }

// TouchedIDs implements tabu.IDTouching.
func (m AddMove) TouchedIDs() (added, removed []int) { return []int{m.ID}, nil }

// RemoveMove deselects ID, which must currently be selected.
type RemoveMove struct{ ID int }

// Apply implements optimize.Move.
func (m RemoveMove) Apply(s *Solution) { delete(s.selected, m.ID) }

// Undo implements optimize.Move.
func (m RemoveMove) Undo(s *Solution) { s.selected[m.ID] = struct{}{} }

// TouchedIDs implements tabu.IDTouching.
func (m RemoveMove) TouchedIDs() (added, removed []int) { return nil, []int{m.ID} }

// SwapMove exchanges one selected id for one unselected id, preserving
// the subset's size.
type SwapMove struct{ Add, Remove int }

// Apply implements optimize.Move.
func (m SwapMove) Apply(s *Solution) {
	delete(s.selected, m.Remove)
	s.selected[m.Add] = struct{}{}
}

// Undo implements optimize.Move.
func (m SwapMove) Undo(s *Solution) {
	delete(s.selected, m.Add)
	s.selected[m.Remove] = struct{}{}
}

// TouchedIDs implements tabu.IDTouching: a swap touches both the id it
// brings in and the id it evicts.
func (m SwapMove) TouchedIDs() (added, removed []int) {
	return []int{m.Add}, []int{m.Remove}
}
