package search

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/freedakipad/optima/pkg/errors"
	"github.com/freedakipad/optima/pkg/logger"
	"github.com/freedakipad/optima/pkg/optimize"
)

// StepFunc performs one step of a run. ok reports whether the algorithm
// wants to continue; returning false ends the run the same way an
// exhausted stop criterion would (e.g. an exhausted neighborhood, or a
// subset enumerator with no more candidates). A non-nil err aborts the
// run immediately.
type StepFunc func(ctx context.Context) (ok bool, err error)

// SearchBase implements the lifecycle, listener, stop-criterion, and
// best-solution machinery shared by every search algorithm (spec §4.1).
// Concrete algorithms embed SearchBase (directly, or transitively via
// NeighborhoodSearchBase) and call Run with their own StepFunc.
type SearchBase[S optimize.Solution[S]] struct {
	problem optimize.Problem[S]
	log     *logger.SearchLogger

	statusMu sync.Mutex
	status   Status
	runID    uuid.UUID

	listenersMu sync.Mutex
	listeners   []Listener[S]

	criteriaMu sync.Mutex
	checker    *Checker[S]

	steps                atomic.Int64
	lastImprovementStep  atomic.Int64
	startedAt            atomic.Int64 // UnixNano; 0 while idle
	stopRequested        atomic.Bool

	bestMu            sync.RWMutex
	best              S
	bestEval          optimize.Evaluation
	hasBest           bool
	lastImprovementAt time.Time
}

// NewSearchBase builds an idle SearchBase bound to problem.
func NewSearchBase[S optimize.Solution[S]](problem optimize.Problem[S], log *logger.SearchLogger) *SearchBase[S] {
	return &SearchBase[S]{problem: problem, log: log, status: StatusIdle}
}

// Problem returns the bound problem.
func (b *SearchBase[S]) Problem() optimize.Problem[S] { return b.problem }

// Status returns the current lifecycle status.
func (b *SearchBase[S]) Status() Status {
	b.statusMu.Lock()
	defer b.statusMu.Unlock()
	return b.status
}

// RunID returns the identifier of the current (or most recent) run.
func (b *SearchBase[S]) RunID() uuid.UUID {
	b.statusMu.Lock()
	defer b.statusMu.Unlock()
	return b.runID
}

// Steps returns the number of steps completed in the current (or most
// recent) run.
func (b *SearchBase[S]) Steps() int { return int(b.steps.Load()) }

// StepsSinceImprovement returns how many steps have completed since the
// tracked best last improved.
func (b *SearchBase[S]) StepsSinceImprovement() int {
	return int(b.steps.Load() - b.lastImprovementStep.Load())
}

// Elapsed returns the wall-clock time since the current run started, or
// zero if idle.
func (b *SearchBase[S]) Elapsed() time.Duration {
	startedNano := b.startedAt.Load()
	if startedNano == 0 {
		return 0
	}
	return time.Since(time.Unix(0, startedNano))
}

// TimeSinceImprovement returns the wall-clock time since the tracked best
// last improved, or since the run started if it never has.
func (b *SearchBase[S]) TimeSinceImprovement() time.Duration {
	b.bestMu.RLock()
	last := b.lastImprovementAt
	b.bestMu.RUnlock()
	if last.IsZero() {
		return b.Elapsed()
	}
	return time.Since(last)
}

// IsMinimizing reports the bound problem's optimization direction.
func (b *SearchBase[S]) IsMinimizing() bool { return b.problem.IsMinimizing() }

// BestSolution returns a copy of the best solution tracked so far, and
// whether one has been found yet.
func (b *SearchBase[S]) BestSolution() (S, bool) {
	b.bestMu.RLock()
	defer b.bestMu.RUnlock()
	if !b.hasBest {
		var zero S
		return zero, false
	}
	return b.best.Copy(), true
}

// BestEvaluation returns the evaluation of the best solution tracked so
// far, and whether one has been found yet.
func (b *SearchBase[S]) BestEvaluation() (optimize.Evaluation, bool) {
	b.bestMu.RLock()
	defer b.bestMu.RUnlock()
	return b.bestEval, b.hasBest
}

// AddListener registers l. Safe to call at any time, including while a
// run is in progress.
func (b *SearchBase[S]) AddListener(l Listener[S]) {
	b.listenersMu.Lock()
	defer b.listenersMu.Unlock()
	b.listeners = append(b.listeners, l)
}

// SetStopCriteria replaces the stop criteria polled by the background
// checker. Requires the search to be IDLE.
func (b *SearchBase[S]) SetStopCriteria(period time.Duration, criteria ...StopCriterion[S]) error {
	if err := b.requireIdle("set_stop_criteria"); err != nil {
		return err
	}
	b.criteriaMu.Lock()
	defer b.criteriaMu.Unlock()
	b.checker = NewChecker(period, criteria...)
	return nil
}

func (b *SearchBase[S]) requireIdle(op string) error {
	b.statusMu.Lock()
	defer b.statusMu.Unlock()
	if b.status == StatusDisposed {
		return errors.NotIdle(op + ": search is disposed")
	}
	if b.status != StatusIdle {
		return errors.NotIdle(op)
	}
	return nil
}

// Dispose permanently retires the search. Requires IDLE.
func (b *SearchBase[S]) Dispose() error {
	b.statusMu.Lock()
	defer b.statusMu.Unlock()
	if b.status == StatusDisposed {
		return nil
	}
	if b.status != StatusIdle {
		return errors.NotIdle("dispose")
	}
	b.status = StatusDisposed
	b.notifyStatusChanged(StatusDisposed)
	return nil
}

// Stop requests the current run to end at the next opportunity. It is
// safe to call from any goroutine, including from a Listener callback.
// It has no effect if no run is in progress.
func (b *SearchBase[S]) Stop() {
	b.stopRequested.Store(true)
}

// Run drives one full run of step, from INITIALIZING through RUNNING to
// TERMINATING and back to IDLE. It blocks until the run ends: step
// returns ok=false, a stop criterion fires, Stop is called, ctx is
// cancelled, or step returns an error.
func (b *SearchBase[S]) Run(ctx context.Context, step StepFunc) error {
	b.statusMu.Lock()
	if b.status == StatusDisposed {
		b.statusMu.Unlock()
		return errors.NotIdle("start: search is disposed")
	}
	if b.status != StatusIdle {
		b.statusMu.Unlock()
		return errors.NotIdle("start")
	}
	b.status = StatusInitializing
	b.runID = uuid.New()
	b.statusMu.Unlock()

	b.steps.Store(0)
	b.lastImprovementStep.Store(0)
	b.stopRequested.Store(false)
	b.startedAt.Store(time.Now().UnixNano())
	b.bestMu.Lock()
	b.lastImprovementAt = time.Time{}
	b.bestMu.Unlock()

	b.notifyStatusChanged(StatusInitializing)

	checkerCtx, cancelChecker := context.WithCancel(ctx)
	defer cancelChecker()
	b.criteriaMu.Lock()
	checker := b.checker
	b.criteriaMu.Unlock()
	if checker != nil {
		go checker.Run(checkerCtx, b, b.Stop)
	}

	b.statusMu.Lock()
	b.status = StatusRunning
	b.statusMu.Unlock()
	b.notifyStatusChanged(StatusRunning)
	b.notifyStarted()
	if b.log != nil {
		b.log.RunStarted(b.runID.String())
	}

	var runErr error
	for {
		if b.stopRequested.Load() {
			break
		}
		select {
		case <-ctx.Done():
			runErr = errors.SearchExecution("context cancelled", ctx.Err())
		default:
		}
		if runErr != nil {
			break
		}

		ok, err := step(ctx)
		n := b.steps.Add(1)
		b.notifyStepCompleted(int(n))
		if err != nil {
			runErr = errors.SearchExecution("step failed", err)
			break
		}
		if !ok {
			break
		}
	}

	cancelChecker()

	b.statusMu.Lock()
	b.status = StatusTerminating
	b.statusMu.Unlock()
	b.notifyStatusChanged(StatusTerminating)

	elapsed := b.Elapsed()
	steps := b.Steps()
	b.startedAt.Store(0)

	b.statusMu.Lock()
	b.status = StatusIdle
	b.statusMu.Unlock()
	b.notifyStatusChanged(StatusIdle)
	b.notifyStopped(steps)
	if b.log != nil {
		b.log.RunStopped(b.runID.String(), steps, elapsed)
	}

	return runErr
}

// Offer updates the tracked best if s (already evaluated to eval)
// improves on it and the problem does not reject s (spec §4.1, §3's
// rejecting-constraint note). It copies s before storing it, so callers
// retain ownership of the original. Algorithms that track their own
// current solution (NeighborhoodSearchBase and its users) call this
// through ApplyMove; algorithms that only ever produce full candidate
// solutions (random search, parallel multi-search) call it directly.
func (b *SearchBase[S]) Offer(s S, eval optimize.Evaluation) bool {
	return b.offerCandidate(s, eval, true)
}

// OfferTrusted behaves like Offer but skips the RejectSolution check,
// for callers (parallel tempering, basic parallel multi-search) that
// relay a new_best reported by a child search which already validated
// the candidate against the same shared problem (spec §4.7:
// "skipping validation — the replica already validated").
func (b *SearchBase[S]) OfferTrusted(s S, eval optimize.Evaluation) bool {
	return b.offerCandidate(s, eval, false)
}

func (b *SearchBase[S]) offerCandidate(s S, eval optimize.Evaluation, checkReject bool) bool {
	if checkReject && optimize.RejectSolution[S](b.problem, s) {
		return false
	}
	minimizing := b.problem.IsMinimizing()

	b.bestMu.Lock()
	improved := !b.hasBest
	if !improved {
		improved = ComputeDelta(minimizing, eval.Value(), b.bestEval.Value()) > 0
	}
	if improved {
		b.best = s.Copy()
		b.bestEval = eval
		b.hasBest = true
		b.lastImprovementAt = time.Now()
	}
	b.bestMu.Unlock()

	if improved {
		b.lastImprovementStep.Store(b.steps.Load())
		b.notifyNewBest(s, eval)
		if b.log != nil {
			b.log.NewBest(b.runID.String(), b.Steps(), eval.Value())
		}
	}
	return improved
}

func (b *SearchBase[S]) snapshotListeners() []Listener[S] {
	b.listenersMu.Lock()
	defer b.listenersMu.Unlock()
	out := make([]Listener[S], len(b.listeners))
	copy(out, b.listeners)
	return out
}

func (b *SearchBase[S]) notifyStarted() {
	for _, l := range b.snapshotListeners() {
		l.Started(b.runID)
	}
}

func (b *SearchBase[S]) notifyStopped(steps int) {
	for _, l := range b.snapshotListeners() {
		l.Stopped(b.runID, steps)
	}
}

func (b *SearchBase[S]) notifyStepCompleted(step int) {
	for _, l := range b.snapshotListeners() {
		l.StepCompleted(b.runID, step)
	}
}

func (b *SearchBase[S]) notifyNewBest(s S, eval optimize.Evaluation) {
	for _, l := range b.snapshotListeners() {
		l.NewBest(b.runID, s, eval)
	}
}

func (b *SearchBase[S]) notifyStatusChanged(status Status) {
	for _, l := range b.snapshotListeners() {
		l.StatusChanged(b.runID, status)
	}
}
