package pgsink

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/freedakipad/optima/pkg/logger"
	"github.com/freedakipad/optima/pkg/optimize"
	"github.com/freedakipad/optima/pkg/search"
)

const insertTimeout = 2 * time.Second

// Describe renders a solution to a short human-readable string stored
// alongside its evaluation. Pass nil if no description is needed.
type Describe[S optimize.Solution[S]] func(s S) string

// Sink is a search.Listener[S] that records started/stopped/new_best
// events to the run_events table. Writes are synchronous and best-effort:
// a failed insert is logged, not propagated — spec §6 treats
// SearchListener as a pure observer, so a listener failure must never
// interrupt the search it is watching.
type Sink[S optimize.Solution[S]] struct {
	search.BaseListener[S]
	db        *DB
	component string
	describe  Describe[S]
	log       *logger.SearchLogger
}

// NewSink builds a Sink writing to db, tagging every row with component
// (e.g. the algorithm name).
func NewSink[S optimize.Solution[S]](db *DB, component string, describe Describe[S]) *Sink[S] {
	return &Sink[S]{
		db:        db,
		component: component,
		describe:  describe,
		log:       logger.NewSearchLogger(component),
	}
}

func (s *Sink[S]) insert(runID uuid.UUID, event string, step *int, value *float64, description *string) {
	ctx, cancel := context.WithTimeout(context.Background(), insertTimeout)
	defer cancel()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO run_events (run_id, component, event, step, value, description) VALUES ($1, $2, $3, $4, $5, $6)`,
		runID, s.component, event, step, value, description,
	)
	if err != nil {
		s.log.Error("pgsink insert", err)
	}
}

// Started implements search.Listener.
func (s *Sink[S]) Started(runID uuid.UUID) {
	s.insert(runID, "started", nil, nil, nil)
}

// Stopped implements search.Listener.
func (s *Sink[S]) Stopped(runID uuid.UUID, steps int) {
	s.insert(runID, "stopped", &steps, nil, nil)
}

// NewBest implements search.Listener.
func (s *Sink[S]) NewBest(runID uuid.UUID, sol S, eval optimize.Evaluation) {
	value := eval.Value()
	var desc *string
	if s.describe != nil {
		d := s.describe(sol)
		desc = &d
	}
	s.insert(runID, "new_best", nil, &value, desc)
}
