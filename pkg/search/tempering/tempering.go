// Package tempering implements parallel tempering (spec §4.7): a
// coordinator that runs N Metropolis replicas at strictly ascending
// temperatures and periodically offers to swap adjacent replicas' current
// solutions, biased by their relative Boltzmann weights. Grounded on the
// teacher's IslandOptimizer (pkg/scheduler/optimizer/parallel.go) for the
// parallel-phase/join-phase shape, generalized with the swap phase spec
// §4.7 adds on top.
package tempering

import (
	"context"
	"math"
	"math/rand"
	"sync"

	"github.com/google/uuid"

	"github.com/freedakipad/optima/pkg/errors"
	"github.com/freedakipad/optima/pkg/logger"
	"github.com/freedakipad/optima/pkg/optimize"
	"github.com/freedakipad/optima/pkg/rng"
	"github.com/freedakipad/optima/pkg/search"
	"github.com/freedakipad/optima/pkg/search/algorithms"
	"github.com/freedakipad/optima/pkg/workerpool"
)

// replicaStopListener ends a replica's short per-global-step run once it
// has completed limit own-steps, so the coordinator's parallel phase has a
// well-defined duration per replica instead of racing a generic stop
// criterion (spec §4.7: "each replica runs as a short Metropolis
// sub-search").
type replicaStopListener[S optimize.Solution[S]] struct {
	search.BaseListener[S]
	limit   int
	replica *algorithms.Metropolis[S]
}

func (l *replicaStopListener[S]) StepCompleted(_ uuid.UUID, step int) {
	if step >= l.limit {
		l.replica.Stop()
	}
}

// newBestRelay forwards a replica's new_best straight to the coordinator's
// own best-tracking, skipping re-validation since the replica already
// validated the candidate against the same shared problem.
type newBestRelay[S optimize.Solution[S]] struct {
	search.BaseListener[S]
	pt *ParallelTempering[S]
}

func (l *newBestRelay[S]) NewBest(_ uuid.UUID, s S, eval optimize.Evaluation) {
	l.pt.bestMu.Lock()
	l.pt.OfferTrusted(s, eval)
	l.pt.bestMu.Unlock()
}

// ParallelTempering coordinates N Metropolis replicas at temperatures
// T_i = T_min + i*(T_max-T_min)/(N-1), running them concurrently for
// replicaSteps steps each global step, then offering adjacent-pair swaps
// of their current solutions (spec §4.7).
type ParallelTempering[S optimize.Solution[S]] struct {
	*search.SearchBase[S]

	replicas     []*algorithms.Metropolis[S]
	replicaSteps int
	pool         *workerpool.Pool
	swapRng      *rand.Rand
	log          *logger.SearchLogger

	bestMu       sync.Mutex
	baseFlip     int
	numAccepted  int
	numRejected  int
	lastAccepted []int
	lastRejected []int
}

// NewParallelTempering builds a ParallelTempering with n replicas spanning
// [tMin, tMax], each running replicaSteps Metropolis steps per global
// step, backed by a worker pool of at least n workers. n must be at least
// 2 and tMin strictly less than tMax (spec §8: a single replica, or
// coincident bounds, is rejected at construction).
func NewParallelTempering[S optimize.Solution[S]](
	problem optimize.Problem[S],
	neighborhood optimize.Neighborhood[S],
	n int,
	tMin, tMax float64,
	replicaSteps int,
	workers int,
	seed int64,
	log *logger.SearchLogger,
) (*ParallelTempering[S], error) {
	if n < 2 {
		return nil, errors.Configuration("parallel tempering requires at least 2 replicas")
	}
	if tMin <= 0 {
		return nil, errors.Configuration("replica temperatures must be strictly positive")
	}
	if tMax <= tMin {
		return nil, errors.Configuration("T_max must be strictly greater than T_min")
	}
	if replicaSteps <= 0 {
		return nil, errors.Configuration("replica step count must be strictly positive")
	}

	streams := rng.DeriveN(seed, n+1)
	replicas := make([]*algorithms.Metropolis[S], n)
	for i := 0; i < n; i++ {
		temp := tMin + float64(i)*(tMax-tMin)/float64(n-1)
		m, err := algorithms.NewMetropolis[S](problem, neighborhood, streams[i], temp, log)
		if err != nil {
			return nil, err
		}
		replicas[i] = m
	}

	if workers < n {
		workers = n
	}

	pt := &ParallelTempering[S]{
		SearchBase:   search.NewSearchBase[S](problem, log),
		replicas:     replicas,
		replicaSteps: replicaSteps,
		pool:         workerpool.New(workers),
		swapRng:      streams[n],
		log:          log,
		lastAccepted: make([]int, n),
		lastRejected: make([]int, n),
	}
	for _, r := range replicas {
		r.AddListener(&replicaStopListener[S]{limit: replicaSteps, replica: r})
		r.AddListener(&newBestRelay[S]{pt: pt})
	}
	return pt, nil
}

// Replicas returns the coordinator's replicas, in ascending temperature
// order. Callers must not mutate the slice.
func (pt *ParallelTempering[S]) Replicas() []*algorithms.Metropolis[S] { return pt.replicas }

// NumAccepted returns the total moves accepted across every replica over
// every global step run so far.
func (pt *ParallelTempering[S]) NumAccepted() int {
	pt.bestMu.Lock()
	defer pt.bestMu.Unlock()
	return pt.numAccepted
}

// NumRejected returns the total moves rejected across every replica over
// every global step run so far.
func (pt *ParallelTempering[S]) NumRejected() int {
	pt.bestMu.Lock()
	defer pt.bestMu.Unlock()
	return pt.numRejected
}

// SetCurrentSolution seeds every replica's current solution from a copy of
// s. Requires IDLE.
func (pt *ParallelTempering[S]) SetCurrentSolution(s S) error {
	if pt.Status() != search.StatusIdle {
		return errors.NotIdle("set_current_solution")
	}
	for _, r := range pt.replicas {
		if err := r.SetCurrentSolution(s); err != nil {
			return err
		}
	}
	return nil
}

// SetNeighborhood replaces the neighborhood used by every replica.
// Requires IDLE.
func (pt *ParallelTempering[S]) SetNeighborhood(n optimize.Neighborhood[S]) error {
	if pt.Status() != search.StatusIdle {
		return errors.NotIdle("set_neighborhood")
	}
	for _, r := range pt.replicas {
		if err := r.SetNeighborhood(n); err != nil {
			return err
		}
	}
	return nil
}

// SetTemperatureScaleFactor propagates k to every replica. Unlike the
// other setters this is not gated on the coordinator being IDLE: spec
// §4.7 allows it mid-run, with the caveat that per-replica updates race
// the parallel phase and are not applied atomically across replicas — a
// replica caught mid-run keeps its old scale factor; the new value is not
// applied to it later.
func (pt *ParallelTempering[S]) SetTemperatureScaleFactor(k float64) error {
	if k <= 0 {
		return errors.Configuration("temperature scale factor must be strictly positive")
	}
	for _, r := range pt.replicas {
		// A replica mid-run (status Running) rejects the update with a
		// CodeConfiguration "not idle" error; that race is expected here
		// and silently skipped, per the caveat above.
		_ = r.SetTemperatureScaleFactor(k)
	}
	return nil
}

// Run blocks until the search stops, per search.SearchBase.Run.
func (pt *ParallelTempering[S]) Run(ctx context.Context) error {
	return pt.SearchBase.Run(ctx, pt.Step)
}

// Dispose disposes every replica, shuts down the worker pool, and
// disposes the coordinator itself. Requires IDLE.
func (pt *ParallelTempering[S]) Dispose() error {
	if pt.Status() != search.StatusIdle {
		return errors.NotIdle("dispose")
	}
	for _, r := range pt.replicas {
		if err := r.Dispose(); err != nil {
			return err
		}
	}
	pt.pool.Shutdown()
	return pt.SearchBase.Dispose()
}

// Step runs one global step: a parallel phase (every replica runs
// replicaSteps Metropolis steps concurrently), a join phase (wait for
// all of them and aggregate their accepted/rejected counts), and a swap
// phase (offer every other adjacent pair a swap, alternating which half
// of the ladder pairs up each global step) (spec §4.7).
func (pt *ParallelTempering[S]) Step(ctx context.Context) (bool, error) {
	n := len(pt.replicas)
	fns := make([]func(), n)
	errs := make([]error, n)
	for i, r := range pt.replicas {
		i, r := i, r
		fns[i] = func() { errs[i] = r.Run(ctx) }
	}
	pt.pool.RunAll(fns)
	for _, err := range errs {
		if err != nil {
			return false, errors.SearchExecution("replica run failed", err)
		}
	}

	pt.bestMu.Lock()
	for i, r := range pt.replicas {
		accepted, rejected := r.NumAccepted(), r.NumRejected()
		pt.numAccepted += accepted - pt.lastAccepted[i]
		pt.numRejected += rejected - pt.lastRejected[i]
		pt.lastAccepted[i] = accepted
		pt.lastRejected[i] = rejected
	}
	pt.bestMu.Unlock()

	minimizing := pt.Problem().IsMinimizing()
	for i := pt.baseFlip; i+1 < n; i += 2 {
		r1, r2 := pt.replicas[i], pt.replicas[i+1]
		e1 := r1.CurrentEvaluation().Value()
		e2 := r2.CurrentEvaluation().Value()
		delta := search.ComputeDelta(minimizing, e2, e1)

		accept := delta >= 0
		prob := 1.0
		if !accept {
			beta1 := 1 / (r1.TemperatureScaleFactor() * r1.Temperature())
			beta2 := 1 / (r2.TemperatureScaleFactor() * r2.Temperature())
			prob = math.Exp((beta1 - beta2) * delta)
			if prob > 1 {
				return false, errors.SearchExecution("replicas not correctly ordered by temperature", nil)
			}
			accept = pt.swapRng.Float64() < prob
		}
		if pt.log != nil {
			pt.log.ReplicaSwap(pt.RunID().String(), i, i+1, accept, prob)
		}
		if accept {
			r1.SwapCurrentWith(r2.NeighborhoodSearchBase)
		}
	}
	pt.baseFlip = 1 - pt.baseFlip

	return true, nil
}
