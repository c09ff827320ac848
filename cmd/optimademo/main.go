// optimademo is the engine's end-to-end driver: it loads configuration,
// initializes logging the way the teacher's server entrypoint does, and
// runs each of the concrete scenarios in spec.md §8 against the subset-
// sum toy problem, printing every best solution found along the way.
// There is no HTTP server here — the teacher's cmd/server/main.go wires
// an API around a scheduling engine; this engine's external surface is
// the search run itself, so the demo drives that run directly instead of
// standing up a listener.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/freedakipad/optima/internal/config"
	"github.com/freedakipad/optima/internal/demo/subsetsum"
	"github.com/freedakipad/optima/pkg/listeners/pgsink"
	"github.com/freedakipad/optima/pkg/logger"
	"github.com/freedakipad/optima/pkg/search"
	"github.com/freedakipad/optima/pkg/search/algorithms"
	"github.com/freedakipad/optima/pkg/search/exhaustive"
	"github.com/freedakipad/optima/pkg/search/tabu"
)

// Version, BuildTime and GitCommit are injected via -ldflags, matching
// the teacher's build metadata convention.
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	cfg := config.Load()

	logger.Init(logger.Config{
		Level:  cfg.App.LogLevel,
		Format: "console",
	})

	fmt.Printf("optima demo v%s\n", Version)
	fmt.Printf("build: %s (%s)\n", BuildTime, GitCommit)
	fmt.Println()

	var sink *pgsink.DB
	if cfg.Database.Enabled() {
		db, err := pgsink.Open(pgsink.Config{
			Host:            cfg.Database.Host,
			Port:            cfg.Database.Port,
			Name:            cfg.Database.Name,
			User:            cfg.Database.User,
			Password:        cfg.Database.Password,
			SSLMode:         cfg.Database.SSLMode,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		})
		if err != nil {
			logger.Get().Error().Err(err).Msg("pgsink unavailable, continuing without run persistence")
		} else {
			defer db.Close()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := db.EnsureSchema(ctx); err != nil {
				logger.Get().Error().Err(err).Msg("could not ensure run_events schema")
			}
			cancel()
			sink = db
		}
	}

	ctx := context.Background()
	rng := rand.New(rand.NewSource(cfg.Engine.RandomSeed))

	runRandomDescentScenario(ctx, rng, sink)
	runDefaultDeltaScenario()
	runSubsetEnumeratorScenario(ctx, sink)
	runTabuScenario(ctx, rng, sink)
}

// runRandomDescentScenario realizes spec §8 scenario (a): random descent
// over the subset-sum toy problem converges from {1,2} to {4,5}=9.
func runRandomDescentScenario(ctx context.Context, rng *rand.Rand, sink *pgsink.DB) {
	fmt.Println("-- scenario (a): random descent --")
	groundSet := []int{1, 2, 3, 4, 5}
	problem := subsetsum.SumProblem{GroundSet: groundSet}
	neighborhood := subsetsum.SwapNeighborhood{GroundSet: groundSet}
	log := logger.NewSearchLogger("random_descent")

	rd := algorithms.NewRandomDescent[*subsetsum.Solution](problem, neighborhood, rng, log)
	if sink != nil {
		rd.AddListener(pgsink.NewSink[*subsetsum.Solution](sink, "random_descent", describeSolution))
	}
	if err := rd.SetStopCriteria(time.Millisecond, search.MaxStepsWithoutImprovement[*subsetsum.Solution]{N: 50}); err != nil {
		logger.Get().Error().Err(err).Msg("set stop criteria")
		return
	}
	if err := rd.SetCurrentSolution(subsetsum.NewSolution(1, 2)); err != nil {
		logger.Get().Error().Err(err).Msg("set current solution")
		return
	}
	if err := rd.Run(ctx); err != nil {
		logger.Get().Error().Err(err).Msg("random descent run failed")
		return
	}
	current, _ := rd.CurrentSolution()
	fmt.Printf("converged to %v, value %v, steps %d\n\n", current.IDs(), rd.CurrentEvaluation().Value(), rd.Steps())
}

// runDefaultDeltaScenario realizes spec §8 scenario (b): the default
// apply/evaluate/undo delta evaluator on the odd-sum problem.
func runDefaultDeltaScenario() {
	fmt.Println("-- scenario (b): problem default delta evaluation --")
	problem := subsetsum.OddSumProblem{GroundSet: []int{1, 2, 3, 4, 5}}
	s := subsetsum.NewSolution()
	curEval := problem.Evaluate(s)
	curVal := problem.Validate(s)

	for _, id := range []int{3, 5, 2} {
		move := subsetsum.AddMove{ID: id}
		eval := problem.EvaluateMove(move, s, curEval)
		val := problem.ValidateMove(move, s, curVal)
		fmt.Printf("add %d -> eval %v, valid %v\n", id, eval.Value(), val.Passed())
		if !val.Passed() {
			continue
		}
		move.Apply(s)
		curEval, curVal = eval, val
	}
	fmt.Println()
}

// runSubsetEnumeratorScenario realizes spec §8 scenario (e): exhaustive
// search over every subset of {1..5} with size in [1,3].
func runSubsetEnumeratorScenario(ctx context.Context, sink *pgsink.DB) {
	fmt.Println("-- scenario (e): subset enumerator --")
	groundSet := []int{1, 2, 3, 4, 5}
	problem := subsetsum.SumProblem{GroundSet: groundSet}
	log := logger.NewSearchLogger("exhaustive")

	enum, err := exhaustive.NewSubsetSolutionEnumerator[*subsetsum.Solution](groundSet, 1, 3, func(ids []int) *subsetsum.Solution {
		return subsetsum.NewSolution(ids...)
	})
	if err != nil {
		logger.Get().Error().Err(err).Msg("build subset enumerator")
		return
	}
	total := enum.Remaining()

	ex, err := exhaustive.NewExhaustiveSearch[*subsetsum.Solution](problem, enum, log)
	if err != nil {
		logger.Get().Error().Err(err).Msg("build exhaustive search")
		return
	}
	if sink != nil {
		ex.AddListener(pgsink.NewSink[*subsetsum.Solution](sink, "exhaustive", describeSolution))
	}
	if err := ex.Run(ctx); err != nil {
		logger.Get().Error().Err(err).Msg("exhaustive run failed")
		return
	}
	best, _ := ex.BestSolution()
	bestEval, _ := ex.BestEvaluation()
	fmt.Printf("enumerated %d subsets, best %v worth %v\n\n", total, best.IDs(), bestEval.Value())
}

// runTabuScenario realizes spec §8 scenario (f): tabu search over a
// swap neighborhood, tracking the ids touched by each applied move.
func runTabuScenario(ctx context.Context, rng *rand.Rand, sink *pgsink.DB) {
	fmt.Println("-- scenario (f): tabu search --")
	groundSet := []int{0, 1, 2, 3, 4, 5, 6}
	problem := subsetsum.SumProblem{GroundSet: groundSet}
	neighborhood := subsetsum.SwapNeighborhood{GroundSet: groundSet}
	memory := tabu.NewIDSubsetMemory[*subsetsum.Solution](4)
	log := logger.NewSearchLogger("tabu")

	ts := tabu.NewSearch[*subsetsum.Solution](problem, neighborhood, memory, rng, log)
	if sink != nil {
		ts.AddListener(pgsink.NewSink[*subsetsum.Solution](sink, "tabu", describeSolution))
	}
	if err := ts.SetCurrentSolution(subsetsum.NewSolution(0, 1)); err != nil {
		logger.Get().Error().Err(err).Msg("set current solution")
		return
	}
	if err := ts.Run(ctx); err != nil {
		logger.Get().Error().Err(err).Msg("tabu run failed")
		return
	}
	best, _ := ts.BestSolution()
	bestEval, _ := ts.BestEvaluation()
	fmt.Printf("best %v worth %v, steps %d\n\n", best.IDs(), bestEval.Value(), ts.Steps())

	if os.Getenv("OPTIMA_DEBUG") != "" {
		current, _ := ts.CurrentSolution()
		fmt.Printf("final current solution: %v\n", current.IDs())
	}
}

func describeSolution(s *subsetsum.Solution) string {
	return fmt.Sprintf("%v", s.IDs())
}
