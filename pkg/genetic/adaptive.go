package genetic

const (
	maxMutationRate = 0.5
	maxElitismRate  = 0.1
)

// Rates are the operator rates in force during one generation
type Rates struct {
	Mutation float64
	Elitism  float64
}

// AdaptiveRates scales the base rates by 10% per stagnant generation, up to their caps
func AdaptiveRates(base Rates, stagnation int) Rates {
	factor := 1 + float64(stagnation)/10
	return Rates{
		Mutation: min(maxMutationRate, base.Mutation*factor),
		Elitism:  min(maxElitismRate, base.Elitism*factor),
	}
}
