package genetic

import (
	"math/rand"
	"slices"

	"github.com/limaJavier/civics/pkg/model"
	"github.com/samber/lo"
)

// Crossover builds a child by exchanging shuffled blocks of keys between two parents.
// Each block keeps the values of parent a or, with probability 0.5, takes those of parent b.
func Crossover(a, b Individual, mode CrossoverMode, rng *rand.Rand) Individual {
	keys := a.Keys()
	if mode == CrossoverUnion {
		keys = lo.Uniq(append(keys, b.Keys()...))
		slices.Sort(keys)
	}
	rng.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })

	child := make(Individual, len(keys))
	blockSize := max(1, len(keys)/10)
	for _, block := range lo.Chunk(keys, blockSize) {
		fromB := rng.Float64() < 0.5
		for _, key := range block {
			child[key] = pick(a, b, key, fromB)
		}
	}
	return child
}

// pick prefers the chosen parent and falls back to the other one when it lacks key
func pick(a, b Individual, key string, fromB bool) string {
	first, second := a, b
	if fromB {
		first, second = b, a
	}
	if teacher, ok := first[key]; ok {
		return teacher
	}
	return second[key]
}

// Mutator reassigns keys of an individual to other eligible teachers
type Mutator interface {
	// Mutates individual in place, visiting every key with probability rate
	Mutate(individual Individual, rate float64, rng *rand.Rand)
}

type mutatorImplementation struct {
	catalog *model.Catalog
	oracle  model.EligibilityOracle
}

func NewMutator(catalog *model.Catalog, oracle model.EligibilityOracle) Mutator {
	return &mutatorImplementation{
		catalog: catalog,
		oracle:  oracle,
	}
}

func (mutator *mutatorImplementation) Mutate(individual Individual, rate float64, rng *rand.Rand) {
	keys := individual.Keys()
	occupancy := model.NewOccupancy()
	for _, key := range keys {
		occupancy.Add(individual[key], mutator.catalog.MustSlot(key).Moment())
	}

	for _, key := range keys {
		if rng.Float64() >= rate {
			continue
		}

		slot := mutator.catalog.MustSlot(key)
		moment := slot.Moment()

		// The incumbent takes part in the draw
		occupancy.Remove(individual[key], moment)
		if eligible := mutator.oracle.Eligible(slot, occupancy); len(eligible) > 0 {
			individual[key] = eligible[rng.Intn(len(eligible))]
		}
		occupancy.Add(individual[key], moment)
	}
}
