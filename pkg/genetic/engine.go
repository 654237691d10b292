package genetic

import (
	"fmt"
	"math"
	"math/rand"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/limaJavier/civics/pkg/model"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// GenerationReport describes a generation once it has been ranked
type GenerationReport struct {
	Generation      int
	Best            Individual
	BestFitness     float64
	BestEver        Individual
	BestEverFitness float64
	Stagnation      int
	Rates           Rates
	Population      int
}

// Observer is notified on the orchestrating goroutine after every generation; it must not retain the individuals
type Observer interface {
	Observe(report GenerationReport)
}

type ObserverFunc func(report GenerationReport)

func (observe ObserverFunc) Observe(report GenerationReport) {
	observe(report)
}

// Result is the outcome of a run
type Result struct {
	Best        Individual
	Fitness     float64
	Generations int
	EarlyStop   bool
	Statistics  []model.TeacherStatistic
}

type Option func(engine *Engine)

func WithLogger(logger *zap.Logger) Option {
	return func(engine *Engine) {
		if logger != nil {
			engine.logger = logger
		}
	}
}

func WithObserver(observer Observer) Option {
	return func(engine *Engine) {
		engine.observers = append(engine.observers, observer)
	}
}

// Engine runs the genetic search over a slot catalog
type Engine struct {
	catalog     *model.Catalog
	parameters  Parameters
	logger      *zap.Logger
	observers   []Observer
	initializer Initializer
	validator   Validator
	fitness     FitnessEvaluator
	mutator     Mutator
	repairer    Repairer
}

// generation carries the search state from one phase to the next
type generation struct {
	number          int
	population      []*entry
	rates           Rates
	stagnation      int
	bestEver        Individual
	bestEverFitness float64
}

func NewEngine(catalog *model.Catalog, parameters Parameters, options ...Option) (*Engine, error) {
	if err := parameters.Validate(); err != nil {
		return nil, err
	}
	if catalog.Len() == 0 {
		return nil, ErrEmptyCatalog
	}

	oracle := model.NewEligibilityOracle(catalog, parameters.AllowSelfReplacement)
	validator := NewValidator(catalog, parameters.RequiredHours)
	engine := &Engine{
		catalog:     catalog,
		parameters:  parameters,
		logger:      zap.NewNop(),
		initializer: NewInitializer(catalog, oracle, validator, parameters.RequiredHours, parameters.workers()),
		validator:   validator,
		fitness:     NewFitnessEvaluator(catalog, parameters.RequiredHours),
		mutator:     NewMutator(catalog, oracle),
		repairer:    NewRepairer(catalog, oracle),
	}
	for _, option := range options {
		option(engine)
	}
	return engine, nil
}

func (engine *Engine) Run() (Result, error) {
	seed := engine.parameters.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	//** INIT
	individuals, discarded := engine.initializer.Initialize(engine.parameters.PopulationSize, rng)
	if discarded > 0 {
		engine.logger.Warn("discarded infeasible constructions",
			zap.Int("discarded", discarded),
			zap.Int("built", len(individuals)),
		)
	}
	if len(individuals) == 0 {
		return Result{}, fmt.Errorf("cannot reach %d hours per class: %w", engine.parameters.RequiredHours, ErrNoFeasiblePopulation)
	}

	state := generation{
		population:      make([]*entry, 0, len(individuals)),
		bestEverFitness: math.Inf(1),
	}
	for _, individual := range individuals {
		state.population = append(state.population, newEntry(individual))
	}

	for state.number = 1; ; state.number++ {
		//** EVALUATE
		engine.evaluate(state.population)

		//** RANK
		rank(state.population)
		// Rates follow the stagnation reached by the previous generation
		state.rates = AdaptiveRates(engine.parameters.baseRates(), state.stagnation)
		best := state.population[0]
		if best.fitness < state.bestEverFitness {
			state.bestEver = best.individual.Clone()
			state.bestEverFitness = best.fitness
			state.stagnation = 0
		} else {
			state.stagnation++
		}

		engine.logger.Info("generation ranked",
			zap.Int("generation", state.number),
			zap.Float64("best", best.fitness),
			zap.Float64("bestEver", state.bestEverFitness),
			zap.Int("stagnation", state.stagnation),
			zap.Float64("mutationRate", state.rates.Mutation),
			zap.Float64("elitismRate", state.rates.Elitism),
		)
		engine.notify(state, best)

		//** CHECK_STOP
		earlyStop := state.stagnation >= engine.parameters.Patience
		if earlyStop || state.number >= engine.parameters.Generations {
			engine.logger.Info("search finished",
				zap.Int("generations", state.number),
				zap.Bool("earlyStop", earlyStop),
				zap.Float64("fitness", state.bestEverFitness),
			)
			return Result{
				Best:        state.bestEver,
				Fitness:     state.bestEverFitness,
				Generations: state.number,
				EarlyStop:   earlyStop,
				Statistics:  model.ComputeStatistics(engine.catalog, state.bestEver),
			}, nil
		}

		//** BREED
		state.population = engine.breed(state, rng)
	}
}

// rank sorts population by ascending fitness, keeping the order of ties
func rank(population []*entry) {
	slices.SortStableFunc(population, func(a, b *entry) int {
		switch {
		case a.fitness < b.fitness:
			return -1
		case a.fitness > b.fitness:
			return 1
		}
		return 0
	})
}

// evaluate scores every stale entry on the worker pool
func (engine *Engine) evaluate(population []*entry) {
	var mutex sync.Mutex
	scores := make(map[uuid.UUID]float64, len(population))

	workers := pool.New().WithMaxGoroutines(engine.parameters.workers())
	for _, member := range population {
		if member.evaluated {
			continue
		}
		id, individual := member.id, member.individual
		workers.Go(func() {
			score := engine.fitness.Evaluate(individual)
			mutex.Lock()
			scores[id] = score
			mutex.Unlock()
		})
	}
	workers.Wait()

	for _, member := range population {
		if score, ok := scores[member.id]; ok {
			member.fitness = score
			member.evaluated = true
		}
	}
}

// breed builds the next population from a ranked one
func (engine *Engine) breed(state generation, rng *rand.Rand) []*entry {
	size := engine.parameters.PopulationSize
	ranked := state.population
	elites := min(len(ranked), max(1, int(state.rates.Elitism*float64(size))))

	next := make([]*entry, 0, size)
	next = append(next, ranked[:elites]...)

	matingPool := RankSelect(len(ranked), len(ranked), rng)
	attempts, rejected := 0, 0
	for len(next) < size && attempts < engine.parameters.maxBreedAttempts() {
		attempts++
		a := ranked[matingPool[rng.Intn(len(matingPool))]].individual
		b := ranked[matingPool[rng.Intn(len(matingPool))]].individual

		var child Individual
		if rng.Float64() < engine.parameters.CrossoverRate {
			child = Crossover(a, b, engine.parameters.CrossoverMode, rng)
		} else {
			child = a.Clone()
		}
		engine.mutator.Mutate(child, state.rates.Mutation, rng)

		if !engine.repairer.Repair(child) || engine.validator.Validate(child) != nil {
			rejected++
			continue
		}
		next = append(next, newEntry(child))
	}

	if missing := size - len(next); missing > 0 {
		engine.logger.Warn("breeding attempts exhausted, filling with ranked clones",
			zap.Int("generation", state.number),
			zap.Int("attempts", attempts),
			zap.Int("rejected", rejected),
			zap.Int("missing", missing),
		)
		for i := 0; len(next) < size; i++ {
			next = append(next, ranked[i%len(ranked)].clone())
		}
	}

	return next
}

func (engine *Engine) notify(state generation, best *entry) {
	if len(engine.observers) == 0 {
		return
	}
	report := GenerationReport{
		Generation:      state.number,
		Best:            best.individual,
		BestFitness:     best.fitness,
		BestEver:        state.bestEver,
		BestEverFitness: state.bestEverFitness,
		Stagnation:      state.stagnation,
		Rates:           state.rates,
		Population:      len(state.population),
	}
	for _, observer := range engine.observers {
		observer.Observe(report)
	}
}
