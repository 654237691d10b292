package metrics

import (
	"github.com/limaJavier/civics/pkg/genetic"
	"github.com/prometheus/client_golang/prometheus"
)

// Observer exports the progress of a run as Prometheus gauges
type Observer struct {
	generation      prometheus.Gauge
	bestFitness     prometheus.Gauge
	bestEverFitness prometheus.Gauge
	stagnation      prometheus.Gauge
	mutationRate    prometheus.Gauge
	elitismRate     prometheus.Gauge
}

// NewObserver registers the progress gauges on registerer
func NewObserver(registerer prometheus.Registerer) (*Observer, error) {
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{Name: name, Help: help})
	}

	observer := &Observer{
		generation:      gauge("civics_generation", "Last completed generation"),
		bestFitness:     gauge("civics_best_fitness", "Fitness of the best individual of the last generation"),
		bestEverFitness: gauge("civics_best_ever_fitness", "Fitness of the best individual found so far"),
		stagnation:      gauge("civics_stagnation", "Consecutive generations without improvement"),
		mutationRate:    gauge("civics_mutation_rate", "Mutation rate in force"),
		elitismRate:     gauge("civics_elitism_rate", "Elitism rate in force"),
	}

	for _, collector := range []prometheus.Collector{
		observer.generation,
		observer.bestFitness,
		observer.bestEverFitness,
		observer.stagnation,
		observer.mutationRate,
		observer.elitismRate,
	} {
		if err := registerer.Register(collector); err != nil {
			return nil, err
		}
	}
	return observer, nil
}

func (observer *Observer) Observe(report genetic.GenerationReport) {
	observer.generation.Set(float64(report.Generation))
	observer.bestFitness.Set(report.BestFitness)
	observer.bestEverFitness.Set(report.BestEverFitness)
	observer.stagnation.Set(float64(report.Stagnation))
	observer.mutationRate.Set(report.Rates.Mutation)
	observer.elitismRate.Set(report.Rates.Elitism)
}
