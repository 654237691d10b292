package genetic

import (
	"maps"
	"slices"

	"github.com/google/uuid"
)

// Individual maps slot keys to the civics teacher assigned to them
type Individual map[string]string

func (individual Individual) Clone() Individual {
	clone := make(Individual, len(individual))
	maps.Copy(clone, individual)
	return clone
}

// Keys returns the slot keys of the individual in ascending order
func (individual Individual) Keys() []string {
	keys := make([]string, 0, len(individual))
	for key := range individual {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// entry is a population member. Its fitness is only meaningful once evaluated is set.
type entry struct {
	id         uuid.UUID
	individual Individual
	fitness    float64
	evaluated  bool
}

func newEntry(individual Individual) *entry {
	return &entry{
		id:         uuid.New(),
		individual: individual,
	}
}

// clone copies an already accepted entry under a new identity, keeping its score
func (member *entry) clone() *entry {
	return &entry{
		id:         uuid.New(),
		individual: member.individual.Clone(),
		fitness:    member.fitness,
		evaluated:  member.evaluated,
	}
}
