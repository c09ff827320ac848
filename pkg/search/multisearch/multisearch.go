// Package multisearch implements basic parallel multi-search (spec
// §4.11): a coordinator running N heterogeneous sub-searches on the same
// problem concurrently, one outer step per round. Grounded on the
// teacher's IslandOptimizer (pkg/scheduler/optimizer/parallel.go):
// OptimizeIslands submits every island to a worker pool and waits for all
// of them before picking the overall best, the same fan-out/join shape
// this package generalizes from "run every island once" to "run every
// sub-search one outer step at a time, indefinitely".
package multisearch

import (
	"context"

	"github.com/google/uuid"

	"github.com/freedakipad/optima/pkg/errors"
	"github.com/freedakipad/optima/pkg/logger"
	"github.com/freedakipad/optima/pkg/optimize"
	"github.com/freedakipad/optima/pkg/search"
	"github.com/freedakipad/optima/pkg/workerpool"
)

// Sub is the capability set a sub-search must expose to take part in a
// BasicParallelMultiSearch: it must run to completion (or until Stop),
// report a best, and be stoppable/disposable by the coordinator.
type Sub[S optimize.Solution[S]] interface {
	Run(ctx context.Context) error
	Stop()
	Dispose() error
	AddListener(l search.Listener[S])
}

// relay forwards a sub's new_best straight to the coordinator's own
// best-tracking, skipping re-validation since the sub already validated
// the candidate against the same shared problem (same reasoning as
// tempering's newBestRelay for spec §4.7).
type relay[S optimize.Solution[S]] struct {
	search.BaseListener[S]
	m *BasicParallelMultiSearch[S]
}

func (l *relay[S]) NewBest(_ uuid.UUID, s S, eval optimize.Evaluation) {
	l.m.OfferTrusted(s, eval)
}

// BasicParallelMultiSearch runs every sub-search concurrently, submitted
// to a worker pool, and joins on all of them every outer step (spec
// §4.11). It never terminates on its own; the caller configures stop
// criteria the way it would for any other search.
type BasicParallelMultiSearch[S optimize.Solution[S]] struct {
	*search.SearchBase[S]
	subs []Sub[S]
	pool *workerpool.Pool
}

// NewBasicParallelMultiSearch builds a coordinator over subs, which must
// be non-empty and already bound to problem. workers is clamped to at
// least len(subs).
func NewBasicParallelMultiSearch[S optimize.Solution[S]](
	problem optimize.Problem[S],
	subs []Sub[S],
	workers int,
	log *logger.SearchLogger,
) (*BasicParallelMultiSearch[S], error) {
	if len(subs) == 0 {
		return nil, errors.Configuration("basic parallel multi-search requires at least one sub-search")
	}
	if workers < len(subs) {
		workers = len(subs)
	}
	m := &BasicParallelMultiSearch[S]{
		SearchBase: search.NewSearchBase[S](problem, log),
		subs:       subs,
		pool:       workerpool.New(workers),
	}
	for _, sub := range subs {
		sub.AddListener(&relay[S]{m: m})
	}
	return m, nil
}

// AddSub registers an additional sub-search. Requires IDLE.
func (m *BasicParallelMultiSearch[S]) AddSub(sub Sub[S]) error {
	if m.Status() != search.StatusIdle {
		return errors.NotIdle("add_sub")
	}
	sub.AddListener(&relay[S]{m: m})
	m.subs = append(m.subs, sub)
	return nil
}

// RemoveSub drops sub from the roster. Requires IDLE. Returns a
// CodeConfiguration error if sub is not currently registered.
func (m *BasicParallelMultiSearch[S]) RemoveSub(sub Sub[S]) error {
	if m.Status() != search.StatusIdle {
		return errors.NotIdle("remove_sub")
	}
	for i, s := range m.subs {
		if s == sub {
			m.subs = append(m.subs[:i], m.subs[i+1:]...)
			return nil
		}
	}
	return errors.Configuration("sub-search not registered")
}

// Subs returns the coordinator's sub-searches. Callers must not mutate
// the slice.
func (m *BasicParallelMultiSearch[S]) Subs() []Sub[S] { return m.subs }

// Run blocks until the search stops, per search.SearchBase.Run.
func (m *BasicParallelMultiSearch[S]) Run(ctx context.Context) error {
	return m.SearchBase.Run(ctx, m.Step)
}

// Stop propagates to every sub-search in addition to requesting the outer
// run end.
func (m *BasicParallelMultiSearch[S]) Stop() {
	m.SearchBase.Stop()
	for _, sub := range m.subs {
		sub.Stop()
	}
}

// Dispose disposes every sub-search, shuts down the worker pool, and
// disposes the coordinator itself. Requires IDLE.
func (m *BasicParallelMultiSearch[S]) Dispose() error {
	if m.Status() != search.StatusIdle {
		return errors.NotIdle("dispose")
	}
	for _, sub := range m.subs {
		if err := sub.Dispose(); err != nil {
			return err
		}
	}
	m.pool.Shutdown()
	return m.SearchBase.Dispose()
}

// Step submits every sub-search to the worker pool and blocks until all
// of them complete (spec §4.11: "submit all subs to a cached worker pool,
// wait for all, then stop" — "stop" here refers to the round ending, not
// the coordinator; BasicParallelMultiSearch.Step always reports ok=true
// and relies on the caller's stop criteria like RVNS does).
func (m *BasicParallelMultiSearch[S]) Step(ctx context.Context) (bool, error) {
	errs := make([]error, len(m.subs))
	fns := make([]func(), len(m.subs))
	for i, sub := range m.subs {
		i, sub := i, sub
		fns[i] = func() { errs[i] = sub.Run(ctx) }
	}
	m.pool.RunAll(fns)
	for _, err := range errs {
		if err != nil {
			return false, errors.SearchExecution("sub-search run failed", err)
		}
	}
	return true, nil
}
