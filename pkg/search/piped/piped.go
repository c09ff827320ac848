// Package piped implements piped local search (spec §4.10): an ordered
// pipeline of inner local searches on the same problem, run one after
// another within a single outer step. No teacher analogue exists — the
// teacher never composes optimizers this way — so the control flow below
// comes directly from spec.md, built on the same SearchBase embedding and
// Listener adapter idiom (BaseListener) the rest of pkg/search uses.
package piped

import (
	"context"
	"math/rand"

	"github.com/google/uuid"

	"github.com/freedakipad/optima/pkg/errors"
	"github.com/freedakipad/optima/pkg/logger"
	"github.com/freedakipad/optima/pkg/optimize"
	"github.com/freedakipad/optima/pkg/search"
)

// Inner is the capability set an algorithm must expose to take part in a
// pipeline: the lifecycle operations PipedLocalSearch drives directly,
// without needing to know which concrete algorithm it is.
type Inner[S optimize.Solution[S]] interface {
	SetCurrentSolution(s S) error
	BestSolution() (S, bool)
	BestEvaluation() (optimize.Evaluation, bool)
	Run(ctx context.Context) error
	Stop()
	Dispose() error
	AddListener(l search.Listener[S])
}

// stopPropagator is registered on inner itself and calls inner.Stop when
// inner's own status reaches TERMINATING. It does not observe the outer
// search's status, so an inner that starts after the outer was asked to
// stop is not stopped by it; stopping the outer reaches the inners only
// through PipedLocalSearch.Stop.
type stopPropagator[S optimize.Solution[S]] struct {
	search.BaseListener[S]
	inner Inner[S]
}

func (l *stopPropagator[S]) StatusChanged(_ uuid.UUID, status search.Status) {
	if status == search.StatusTerminating {
		l.inner.Stop()
	}
}

// PipedLocalSearch chains inners into a single outer algorithm: one outer
// step seeds the first inner with the outer's current solution (or a
// random one, if none is set yet), runs it to completion, offers its best
// to the outer's best-tracking and takes that best as the current
// solution fed to the next inner, and so on. The outer stops — and disposes
// itself — once the last inner has run; spec §4.10: "cannot restart".
type PipedLocalSearch[S optimize.Solution[S]] struct {
	*search.SearchBase[S]
	inners []Inner[S]
	rng    *rand.Rand
	ran    bool
}

// NewPipedLocalSearch builds an idle pipeline over inners, in order.
// inners must be non-empty.
func NewPipedLocalSearch[S optimize.Solution[S]](
	problem optimize.Problem[S],
	inners []Inner[S],
	rng *rand.Rand,
	log *logger.SearchLogger,
) (*PipedLocalSearch[S], error) {
	if len(inners) == 0 {
		return nil, errors.Configuration("piped local search requires at least one inner search")
	}
	p := &PipedLocalSearch[S]{
		SearchBase: search.NewSearchBase[S](problem, log),
		inners:     inners,
		rng:        rng,
	}
	for _, inner := range inners {
		inner.AddListener(&stopPropagator[S]{inner: inner})
	}
	return p, nil
}

// Run drives the pipeline's single outer step to completion, then
// disposes the search: a PipedLocalSearch cannot be restarted (spec
// §4.10).
func (p *PipedLocalSearch[S]) Run(ctx context.Context) error {
	if err := p.SearchBase.Run(ctx, p.Step); err != nil {
		return err
	}
	return p.Dispose()
}

// Stop propagates to every inner in addition to requesting the outer run
// end (spec §4.10: "outer stop() propagates to every inner").
func (p *PipedLocalSearch[S]) Stop() {
	p.SearchBase.Stop()
	for _, inner := range p.inners {
		inner.Stop()
	}
}

// Dispose disposes every inner before disposing the outer itself (spec
// §4.10: "dispose() disposes every inner").
func (p *PipedLocalSearch[S]) Dispose() error {
	if p.Status() == search.StatusDisposed {
		return nil
	}
	if p.Status() != search.StatusIdle {
		return errors.NotIdle("dispose")
	}
	for _, inner := range p.inners {
		if err := inner.Dispose(); err != nil {
			return err
		}
	}
	return p.SearchBase.Dispose()
}

// Step runs the entire pipeline once: seed, run, fold, feed, for every
// inner in order, then ends the outer run (ok=false), since the pipeline
// has exactly one outer step by construction (spec §4.10).
func (p *PipedLocalSearch[S]) Step(ctx context.Context) (bool, error) {
	if p.ran {
		return false, nil
	}
	p.ran = true

	current, hasCurrent := p.BestSolution()
	if !hasCurrent {
		current = p.Problem().RandomSolution(p.rng)
	}

	for _, inner := range p.inners {
		if err := inner.SetCurrentSolution(current.Copy()); err != nil {
			return false, err
		}
		if err := inner.Run(ctx); err != nil {
			return false, errors.SearchExecution("inner search failed", err)
		}
		if best, ok := inner.BestSolution(); ok {
			eval, _ := inner.BestEvaluation()
			p.Offer(best, eval)
			current = best
		}
	}
	return false, nil
}
