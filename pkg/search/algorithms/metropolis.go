package algorithms

import (
	"context"
	"math"
	"math/rand"
	"sync"

	"github.com/freedakipad/optima/pkg/errors"
	"github.com/freedakipad/optima/pkg/logger"
	"github.com/freedakipad/optima/pkg/optimize"
	"github.com/freedakipad/optima/pkg/search"
)

// boltzmannProbability is the simulated-annealing acceptance probability:
// a non-positive badness (the candidate is at least as good as the
// current solution) is always accepted; a non-positive temperature never
// accepts a worse candidate; otherwise the probability decays
// exponentially with badness/temperature.
func boltzmannProbability(badness, temperature float64) float64 {
	if badness <= 0 {
		return 1.0
	}
	if temperature <= 0 {
		return 0.0
	}
	return math.Exp(-badness / temperature)
}

// Metropolis draws one random move per step and accepts it with the
// Boltzmann probability of its badness relative to the current
// temperature (spec §4.6): always accepts improving or neutral moves,
// probabilistically accepts worsening ones. The effective temperature
// used in the acceptance formula is Temperature * TemperatureScaleFactor.
type Metropolis[S optimize.Solution[S]] struct {
	*search.NeighborhoodSearchBase[S]

	paramsMu    sync.RWMutex
	temperature float64
	scaleFactor float64
}

// NewMetropolis builds a Metropolis search over problem and neighborhood
// with the given initial temperature and a scale factor of 1. The
// temperature must be strictly positive.
func NewMetropolis[S optimize.Solution[S]](problem optimize.Problem[S], neighborhood optimize.Neighborhood[S], rng *rand.Rand, initialTemperature float64, log *logger.SearchLogger) (*Metropolis[S], error) {
	if initialTemperature <= 0 {
		return nil, errors.Configuration("temperature must be strictly positive")
	}
	return &Metropolis[S]{
		NeighborhoodSearchBase: search.NewNeighborhoodSearchBase[S](problem, neighborhood, rng, log),
		temperature:            initialTemperature,
		scaleFactor:            1,
	}, nil
}

// Temperature returns the current temperature.
func (a *Metropolis[S]) Temperature() float64 {
	a.paramsMu.RLock()
	defer a.paramsMu.RUnlock()
	return a.temperature
}

// SetTemperature replaces the temperature. Requires the search to be
// IDLE, matching every other configuration mutator in this package.
func (a *Metropolis[S]) SetTemperature(t float64) error {
	if a.Status() != search.StatusIdle {
		return errors.NotIdle("set_temperature")
	}
	if t <= 0 {
		return errors.Configuration("temperature must be strictly positive")
	}
	a.paramsMu.Lock()
	a.temperature = t
	a.paramsMu.Unlock()
	return nil
}

// TemperatureScaleFactor returns the current scale factor.
func (a *Metropolis[S]) TemperatureScaleFactor() float64 {
	a.paramsMu.RLock()
	defer a.paramsMu.RUnlock()
	return a.scaleFactor
}

// SetTemperatureScaleFactor replaces the scale factor applied to the
// temperature in the acceptance formula. Requires the search to be IDLE.
func (a *Metropolis[S]) SetTemperatureScaleFactor(k float64) error {
	if a.Status() != search.StatusIdle {
		return errors.NotIdle("set_temperature_scale_factor")
	}
	if k <= 0 {
		return errors.Configuration("temperature scale factor must be strictly positive")
	}
	a.paramsMu.Lock()
	a.scaleFactor = k
	a.paramsMu.Unlock()
	return nil
}

// Run blocks until the search stops, per search.SearchBase.Run.
func (a *Metropolis[S]) Run(ctx context.Context) error {
	return a.SearchBase.Run(ctx, a.Step)
}

// Step draws one random move and accepts or rejects it by the Boltzmann
// criterion. ok is false only when the neighborhood itself is exhausted.
func (a *Metropolis[S]) Step(ctx context.Context) (bool, error) {
	move, ok := a.RandomMove()
	if !ok {
		return false, nil
	}
	eval, val := a.EvaluateMove(move)
	if !val.Passed() {
		a.RejectMove()
		return true, nil
	}
	delta := a.ComputeDelta(eval)
	a.paramsMu.RLock()
	effectiveTemp := a.temperature * a.scaleFactor
	a.paramsMu.RUnlock()
	if a.Rng.Float64() < boltzmannProbability(-delta, effectiveTemp) {
		a.ApplyMove(move, eval, val)
	} else {
		a.RejectMove()
	}
	return true, nil
}
