package genetic

import (
	"math/rand"
	"sort"
)

// RankWeights returns the linear-rank selection probabilities of a population sorted ascending by fitness.
// The member at position i weighs size-i.
func RankWeights(size int) []float64 {
	weights := make([]float64, size)
	total := float64(size*(size+1)) / 2
	for position := range size {
		weights[position] = float64(size-position) / total
	}
	return weights
}

// RankSelect draws, with replacement, draws positions of a population of the given size sorted ascending by fitness
func RankSelect(size, draws int, rng *rand.Rand) []int {
	if size == 0 {
		return []int{}
	}

	cumulative := make([]float64, size)
	accumulated := 0.0
	for position, weight := range RankWeights(size) {
		accumulated += weight
		cumulative[position] = accumulated
	}

	pool := make([]int, draws)
	for i := range pool {
		target := rng.Float64() * accumulated
		position := sort.SearchFloat64s(cumulative, target)
		pool[i] = min(position, size-1)
	}
	return pool
}
