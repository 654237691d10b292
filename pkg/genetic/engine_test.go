package genetic

import (
	"math/rand"
	"testing"

	"github.com/limaJavier/civics/pkg/model"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewEngine(t *testing.T) {
	catalog := termCatalog(t)

	t.Run("Invalid parameters", func(t *testing.T) {
		mutations := []func(parameters *Parameters){
			func(parameters *Parameters) { parameters.RequiredHours = 0 },
			func(parameters *Parameters) { parameters.PopulationSize = -1 },
			func(parameters *Parameters) { parameters.MutationRate = 1.5 },
			func(parameters *Parameters) { parameters.ElitismRate = -0.1 },
			func(parameters *Parameters) { parameters.CrossoverMode = "uniform" },
			func(parameters *Parameters) { parameters.Workers = -2 },
		}

		for i, mutate := range mutations {
			parameters := testParameters()
			mutate(&parameters)

			_, err := NewEngine(catalog, parameters)

			assert.Error(t, err, "mutation %v must be rejected", i)
		}
	})

	t.Run("Empty catalog", func(t *testing.T) {
		_, err := NewEngine(model.NewCatalog(model.ModelInput{}), testParameters())

		assert.ErrorIs(t, err, ErrEmptyCatalog)
	})
}

func TestEngineRun(t *testing.T) {
	//** Arrange
	catalog := termCatalog(t)
	reports := make([]GenerationReport, 0)
	engine, err := NewEngine(catalog, testParameters(), WithObserver(ObserverFunc(func(report GenerationReport) {
		reports = append(reports, report)
	})))
	require.NoError(t, err)

	//** Act
	result, err := engine.Run()

	//** Assert
	require.NoError(t, err)
	assert.NoError(t, NewValidator(catalog, 4).Validate(result.Best))
	assert.Equal(t, NewFitnessEvaluator(catalog, 4).Evaluate(result.Best), result.Fitness)
	assert.Equal(t, 15, result.Generations)
	assert.False(t, result.EarlyStop)
	assert.Len(t, result.Statistics, 9)

	require.Len(t, reports, 15)
	for i, report := range reports {
		assert.Equal(t, i+1, report.Generation)
		assert.Equal(t, 30, report.Population)
		assert.LessOrEqual(t, report.BestEverFitness, report.BestFitness)
		if i > 0 {
			// Best-ever fitness never increases
			assert.LessOrEqual(t, report.BestEverFitness, reports[i-1].BestEverFitness)
		}
	}
	assert.Equal(t, result.Fitness, reports[len(reports)-1].BestEverFitness)
}

func TestEngineEarlyStop(t *testing.T) {
	//** Arrange
	// Without crossover or mutation offspring are clones, so the best fitness never improves after the first generation
	parameters := testParameters()
	parameters.MutationRate = 0
	parameters.CrossoverRate = 0
	parameters.Patience = 2
	parameters.Generations = 400
	engine, err := NewEngine(termCatalog(t), parameters)
	require.NoError(t, err)

	//** Act
	result, err := engine.Run()

	//** Assert
	require.NoError(t, err)
	assert.True(t, result.EarlyStop)
	assert.Equal(t, 3, result.Generations)
}

func TestEngineIsReproducible(t *testing.T) {
	run := func(workers int) Result {
		parameters := testParameters()
		parameters.CrossoverRate = 0
		parameters.Workers = workers
		engine, err := NewEngine(termCatalog(t), parameters)
		require.NoError(t, err)
		result, err := engine.Run()
		require.NoError(t, err)
		return result
	}

	first, second := run(1), run(6)

	assert.Equal(t, first.Best, second.Best)
	assert.Equal(t, first.Fitness, second.Fitness)
}

func TestEngineNoFeasiblePopulation(t *testing.T) {
	//** Arrange
	parameters := testParameters()
	parameters.RequiredHours = 40
	engine, err := NewEngine(termCatalog(t), parameters)
	require.NoError(t, err)

	//** Act
	_, err = engine.Run()

	//** Assert
	assert.ErrorIs(t, err, ErrNoFeasiblePopulation)
}

func TestEngineBreedFallback(t *testing.T) {
	//** Arrange
	core, logs := observer.New(zapcore.WarnLevel)
	parameters := testParameters()
	parameters.MaxBreedAttempts = 1
	parameters.Generations = 3
	populations := make([]int, 0)
	engine, err := NewEngine(termCatalog(t), parameters,
		WithLogger(zap.New(core)),
		WithObserver(ObserverFunc(func(report GenerationReport) { populations = append(populations, report.Population) })),
	)
	require.NoError(t, err)

	//** Act
	result, err := engine.Run()

	//** Assert
	require.NoError(t, err)
	assert.NoError(t, NewValidator(termCatalog(t), 4).Validate(result.Best))
	assert.Equal(t, []int{30, 30, 30}, populations)
	assert.Equal(t, 2, logs.FilterMessage("breeding attempts exhausted, filling with ranked clones").Len())
}

func TestEngineRatesFollowPreviousStagnation(t *testing.T) {
	//** Arrange
	parameters := testParameters()
	parameters.MutationRate = 0
	parameters.CrossoverRate = 0
	parameters.ElitismRate = 0.05
	parameters.Patience = 3
	parameters.Generations = 400
	reports := make([]GenerationReport, 0)
	engine, err := NewEngine(termCatalog(t), parameters, WithObserver(ObserverFunc(func(report GenerationReport) {
		reports = append(reports, report)
	})))
	require.NoError(t, err)

	//** Act
	result, err := engine.Run()

	//** Assert
	require.NoError(t, err)
	require.True(t, result.EarlyStop)
	require.Len(t, reports, 4)

	base := Rates{Mutation: 0, Elitism: 0.05}
	assert.Equal(t, base, reports[0].Rates)
	// Generation 2 does not improve, yet it still breeds with the base rates
	assert.Equal(t, 1, reports[1].Stagnation)
	assert.Equal(t, base, reports[1].Rates)
	assert.InDelta(t, 0.055, reports[2].Rates.Elitism, 1e-9)
	assert.InDelta(t, 0.06, reports[3].Rates.Elitism, 1e-9)
}

func TestBreed(t *testing.T) {
	//** Arrange
	catalog := termCatalog(t)
	parameters := testParameters()
	parameters.ElitismRate = 0.1
	engine, err := NewEngine(catalog, parameters)
	require.NoError(t, err)

	individuals, _ := engine.initializer.Initialize(parameters.PopulationSize, rand.New(rand.NewSource(11)))
	require.Len(t, individuals, parameters.PopulationSize)
	state := generation{number: 1, rates: parameters.baseRates()}
	for _, individual := range individuals {
		state.population = append(state.population, newEntry(individual))
	}
	engine.evaluate(state.population)
	rank(state.population)

	elites := max(1, int(parameters.ElitismRate*float64(parameters.PopulationSize)))
	expected := lo.Map(state.population[:elites], func(member *entry, _ int) Individual { return member.individual.Clone() })

	//** Act
	next := engine.breed(state, rand.New(rand.NewSource(12)))

	//** Assert
	require.Len(t, next, parameters.PopulationSize)
	for i := range elites {
		assert.Equal(t, state.population[i].id, next[i].id)
		assert.Equal(t, expected[i], next[i].individual)
		assert.Equal(t, state.population[i].fitness, next[i].fitness)
	}
	validator := NewValidator(catalog, parameters.RequiredHours)
	for _, member := range next {
		assert.NoError(t, validator.Validate(member.individual))
	}
}
