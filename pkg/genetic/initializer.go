package genetic

import (
	"cmp"
	"math/rand"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/limaJavier/civics/pkg/model"
	"github.com/sourcegraph/conc/pool"
)

// Constructions allowed per requested individual before the initial population is accepted short
const initializeAttemptsFactor = 100

type Strategy int

const (
	// Slots by ascending date, first eligible teacher
	Greedy Strategy = iota
	// Slots by class then date, first eligible teacher
	Batched
	// Slots in random order, random eligible teacher
	Randomized
)

func (strategy Strategy) String() string {
	switch strategy {
	case Greedy:
		return "greedy"
	case Batched:
		return "batched"
	case Randomized:
		return "randomized"
	}
	return "unknown"
}

// Initializer builds the first population
type Initializer interface {
	// Builds up to size valid individuals, retrying randomized constructions, and reports how many were discarded
	Initialize(size int, rng *rand.Rand) (population []Individual, discarded int)

	// Builds one individual following strategy; the result may not satisfy the quota
	Construct(strategy Strategy, rng *rand.Rand) Individual
}

type initializerImplementation struct {
	catalog       *model.Catalog
	oracle        model.EligibilityOracle
	validator     Validator
	requiredHours int
	workers       int
	byDate        []model.Slot
	byClass       []model.Slot
}

func NewInitializer(catalog *model.Catalog, oracle model.EligibilityOracle, validator Validator, requiredHours, workers int) Initializer {
	classOrder := make(map[string]int)
	for i, class := range catalog.Classes() {
		classOrder[class] = i
	}

	byDate := slices.Clone(catalog.Slots())
	slices.SortStableFunc(byDate, func(a, b model.Slot) int { return a.Date.Compare(b.Date) })

	byClass := slices.Clone(catalog.Slots())
	slices.SortStableFunc(byClass, func(a, b model.Slot) int {
		return cmp.Or(cmp.Compare(classOrder[a.Class], classOrder[b.Class]), a.Date.Compare(b.Date))
	})

	return &initializerImplementation{
		catalog:       catalog,
		oracle:        oracle,
		validator:     validator,
		requiredHours: requiredHours,
		workers:       max(1, workers),
		byDate:        byDate,
		byClass:       byClass,
	}
}

// Strategies splits size constructions into 30% greedy, 30% batched and the rest randomized
func Strategies(size int) []Strategy {
	greedy, batched := size*3/10, size*3/10
	strategies := make([]Strategy, 0, size)
	for i := range size {
		switch {
		case i < greedy:
			strategies = append(strategies, Greedy)
		case i < greedy+batched:
			strategies = append(strategies, Batched)
		default:
			strategies = append(strategies, Randomized)
		}
	}
	return strategies
}

func (initializer *initializerImplementation) Initialize(size int, rng *rand.Rand) ([]Individual, int) {
	population := initializer.build(Strategies(size), rng)
	attempts, limit := size, size*initializeAttemptsFactor

	// Greedy and batched constructions are deterministic, only randomized ones are worth retrying
	for len(population) < size && attempts < limit {
		batch := min(size-len(population), limit-attempts)
		population = append(population, initializer.build(slices.Repeat([]Strategy{Randomized}, batch), rng)...)
		attempts += batch
	}
	return population, attempts - len(population)
}

// build runs one construction per strategy on the worker pool and keeps the valid ones in task order
func (initializer *initializerImplementation) build(strategies []Strategy, rng *rand.Rand) []Individual {
	type task struct {
		id       uuid.UUID
		strategy Strategy
		seed     int64
	}

	// Seeds are drawn here so that the outcome does not depend on scheduling
	tasks := make([]task, 0, len(strategies))
	for _, strategy := range strategies {
		tasks = append(tasks, task{id: uuid.New(), strategy: strategy, seed: rng.Int63()})
	}

	var mutex sync.Mutex
	built := make(map[uuid.UUID]Individual, len(tasks))

	workers := pool.New().WithMaxGoroutines(initializer.workers)
	for _, current := range tasks {
		workers.Go(func() {
			individual := initializer.Construct(current.strategy, rand.New(rand.NewSource(current.seed)))
			if initializer.validator.Validate(individual) != nil {
				return
			}
			mutex.Lock()
			built[current.id] = individual
			mutex.Unlock()
		})
	}
	workers.Wait()

	population := make([]Individual, 0, len(built))
	for _, current := range tasks {
		if individual, ok := built[current.id]; ok {
			population = append(population, individual)
		}
	}
	return population
}

func (initializer *initializerImplementation) Construct(strategy Strategy, rng *rand.Rand) Individual {
	var slots []model.Slot
	switch strategy {
	case Greedy:
		slots = initializer.byDate
	case Batched:
		slots = initializer.byClass
	default:
		slots = slices.Clone(initializer.catalog.Slots())
		rng.Shuffle(len(slots), func(i, j int) { slots[i], slots[j] = slots[j], slots[i] })
	}

	individual := make(Individual)
	hours := make(map[string]int)
	weeks := make(map[classWeek]bool)
	occupancy := model.NewOccupancy()

	for _, slot := range slots {
		week := classWeek{class: slot.Class, week: slot.Week()}
		if hours[slot.Class] >= initializer.requiredHours || weeks[week] {
			continue
		}

		eligible := initializer.oracle.Eligible(slot, occupancy)
		if len(eligible) == 0 {
			continue
		}

		teacher := eligible[0]
		if strategy == Randomized {
			teacher = eligible[rng.Intn(len(eligible))]
		}

		individual[slot.Key] = teacher
		hours[slot.Class]++
		weeks[week] = true
		occupancy.Add(teacher, slot.Moment())
	}

	return individual
}
