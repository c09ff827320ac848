// Package vns implements variable neighborhood descent (VND) and random
// variable neighborhood search (RVNS) (spec §4.9): both hold an ordered
// list of neighborhoods and an index k into it, but differ in how they
// explore the k-th neighborhood each step and in when they terminate.
// Neither has a teacher analogue — the teacher's LocalSearchOptimizer
// only ever drives a single fixed neighborhood — so the control flow
// below is built directly from spec.md, in the same
// NeighborhoodSearchBase-embedding shape every other algorithm in this
// module uses. Both read moves from whichever neighborhood a.k currently
// names directly, rather than routing through
// NeighborhoodSearchBase.SetNeighborhood (which is IDLE-gated and so
// cannot be called mid-run, from inside a step).
package vns

import (
	"context"
	"math/rand"

	"github.com/freedakipad/optima/pkg/errors"
	"github.com/freedakipad/optima/pkg/logger"
	"github.com/freedakipad/optima/pkg/optimize"
	"github.com/freedakipad/optima/pkg/search"
)

// VND is variable neighborhood descent: each step scans the k-th
// neighborhood for the best strictly-improving move. If one exists, it is
// applied and k resets to 0; otherwise k advances. The run ends once k
// reaches the end of the neighborhood list — a fixed point across every
// neighborhood in the list.
type VND[S optimize.Solution[S]] struct {
	*search.NeighborhoodSearchBase[S]
	neighborhoods []optimize.Neighborhood[S]
	k             int
}

// NewVND builds an idle VND over neighborhoods, which must be non-empty.
func NewVND[S optimize.Solution[S]](
	problem optimize.Problem[S],
	neighborhoods []optimize.Neighborhood[S],
	rng *rand.Rand,
	log *logger.SearchLogger,
) (*VND[S], error) {
	if len(neighborhoods) == 0 {
		return nil, errors.Configuration("VND requires at least one neighborhood")
	}
	return &VND[S]{
		NeighborhoodSearchBase: search.NewNeighborhoodSearchBase[S](problem, neighborhoods[0], rng, log),
		neighborhoods:          neighborhoods,
	}, nil
}

// SetNeighborhoods replaces the ordered neighborhood list and resets k to
// 0. Requires IDLE.
func (a *VND[S]) SetNeighborhoods(neighborhoods []optimize.Neighborhood[S]) error {
	if len(neighborhoods) == 0 {
		return errors.Configuration("VND requires at least one neighborhood")
	}
	if a.Status() != search.StatusIdle {
		return errors.NotIdle("set_neighborhoods")
	}
	a.neighborhoods = neighborhoods
	a.k = 0
	return nil
}

// Run drives one full run to completion.
func (a *VND[S]) Run(ctx context.Context) error {
	a.k = 0
	return a.SearchBase.Run(ctx, a.Step)
}

// Step implements search.StepFunc.
func (a *VND[S]) Step(ctx context.Context) (bool, error) {
	if a.k >= len(a.neighborhoods) {
		return false, nil
	}

	current, _ := a.CurrentSolution()
	moves := a.neighborhoods[a.k].AllMoves(current)
	move, eval, val, found := a.BestMoveWithPositiveDelta(moves, true)
	if !found {
		a.k++
		return a.k < len(a.neighborhoods), nil
	}

	a.ApplyMove(move, eval, val)
	a.k = 0
	return true, nil
}

// RVNS is random variable neighborhood search: each step draws one random
// move from the k-th neighborhood. A None draw (an exhausted or empty
// neighborhood) advances k cyclically, wrapping back to 0 past the end.
// An improving draw is applied and k resets to 0; a non-improving draw is
// rejected and k advances (also wrapping). RVNS never terminates on its
// own — spec §4.9 leaves stopping to the caller's stop criteria.
type RVNS[S optimize.Solution[S]] struct {
	*search.NeighborhoodSearchBase[S]
	neighborhoods []optimize.Neighborhood[S]
	k             int
}

// NewRVNS builds an idle RVNS over neighborhoods, which must be non-empty.
func NewRVNS[S optimize.Solution[S]](
	problem optimize.Problem[S],
	neighborhoods []optimize.Neighborhood[S],
	rng *rand.Rand,
	log *logger.SearchLogger,
) (*RVNS[S], error) {
	if len(neighborhoods) == 0 {
		return nil, errors.Configuration("RVNS requires at least one neighborhood")
	}
	return &RVNS[S]{
		NeighborhoodSearchBase: search.NewNeighborhoodSearchBase[S](problem, neighborhoods[0], rng, log),
		neighborhoods:          neighborhoods,
	}, nil
}

// SetNeighborhoods replaces the ordered neighborhood list and resets k to
// 0. Requires IDLE.
func (a *RVNS[S]) SetNeighborhoods(neighborhoods []optimize.Neighborhood[S]) error {
	if len(neighborhoods) == 0 {
		return errors.Configuration("RVNS requires at least one neighborhood")
	}
	if a.Status() != search.StatusIdle {
		return errors.NotIdle("set_neighborhoods")
	}
	a.neighborhoods = neighborhoods
	a.k = 0
	return nil
}

// Run drives one full run, subject to the caller having configured a stop
// criterion — RVNS's own Step never reports ok=false.
func (a *RVNS[S]) Run(ctx context.Context) error {
	a.k = 0
	return a.SearchBase.Run(ctx, a.Step)
}

// Step implements search.StepFunc.
func (a *RVNS[S]) Step(ctx context.Context) (bool, error) {
	current, _ := a.CurrentSolution()
	move, ok := a.neighborhoods[a.k].RandomMove(current, a.Rng)
	if !ok {
		a.k = (a.k + 1) % len(a.neighborhoods)
		return true, nil
	}

	eval, val := a.EvaluateMove(move)
	if val.Passed() && a.ComputeDelta(eval) > 0 {
		a.ApplyMove(move, eval, val)
		a.k = 0
		return true, nil
	}

	a.RejectMove()
	a.k = (a.k + 1) % len(a.neighborhoods)
	return true, nil
}
