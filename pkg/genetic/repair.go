package genetic

import (
	"slices"

	"github.com/limaJavier/civics/pkg/model"
	"github.com/onsi/gomega/matchers/support/goraph/bipartitegraph"
	"github.com/samber/lo"
)

// Repairer removes double bookings introduced by crossover
type Repairer interface {
	// Reassigns, in place, the slots of every moment where a teacher is booked twice.
	// Returns false when some moment admits no booking-free assignment.
	Repair(individual Individual) bool
}

type repairerImplementation struct {
	catalog *model.Catalog
	oracle  model.EligibilityOracle
}

func NewRepairer(catalog *model.Catalog, oracle model.EligibilityOracle) Repairer {
	return &repairerImplementation{
		catalog: catalog,
		oracle:  oracle,
	}
}

func (repairer *repairerImplementation) Repair(individual Individual) bool {
	simultaneous := make(map[model.Moment][]string)
	for _, key := range individual.Keys() {
		moment := repairer.catalog.MustSlot(key).Moment()
		simultaneous[moment] = append(simultaneous[moment], key)
	}

	for _, keys := range simultaneous {
		if len(keys) < 2 {
			continue
		}
		teachers := lo.Map(keys, func(key string, _ int) string { return individual[key] })
		if len(lo.Uniq(teachers)) == len(teachers) {
			continue
		}

		assignments, ok := repairer.match(keys)
		if !ok {
			return false
		}
		for key, teacher := range assignments {
			individual[key] = teacher
		}
	}
	return true
}

// match assigns a distinct eligible teacher to every key through a maximum bipartite matching
func (repairer *repairerImplementation) match(keys []string) (map[string]string, bool) {
	teachers := make([]string, 0)
	relationships := make(map[[2]string]bool)
	for _, key := range keys {
		for _, teacher := range repairer.oracle.Eligible(repairer.catalog.MustSlot(key), nil) {
			if !slices.Contains(teachers, teacher) {
				teachers = append(teachers, teacher)
			}
			relationships[[2]string{key, teacher}] = true
		}
	}
	if len(teachers) < len(keys) {
		return nil, false
	}

	// Build neighbors predicate based on relationships
	neighbors := func(keyAny any, teacherAny any) (bool, error) {
		return relationships[[2]string{keyAny.(string), teacherAny.(string)}], nil
	}

	keysAny, teachersAny := lo.ToAnySlice(keys), lo.ToAnySlice(teachers)
	graph, err := bipartitegraph.NewBipartiteGraph(keysAny, teachersAny, neighbors)
	if err != nil {
		return nil, false
	}

	matching := graph.LargestMatching()
	if len(matching) < len(keys) {
		return nil, false
	}

	assignments := make(map[string]string, len(keys))
	for _, edge := range matching {
		keyIndex, teacherIndex := edge.Node1, edge.Node2-len(keys)
		assignments[keys[keyIndex]] = teachers[teacherIndex]
	}
	return assignments, true
}
