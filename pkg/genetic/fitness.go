package genetic

import (
	"github.com/limaJavier/civics/pkg/model"
	"github.com/samber/lo"
)

const (
	weeklyDeviationWeight = 10
	varianceWeight        = 5
	homeroomThreshold     = 5.0 // Loss percentage above which homeroom teachers are penalised on an absolute scale
	homeroomExcessWeight  = 10
)

// FitnessEvaluator scores an individual; lower is better
type FitnessEvaluator interface {
	Evaluate(individual Individual) float64
}

type fitnessEvaluatorImplementation struct {
	catalog       *model.Catalog
	requiredHours int
	baselines     map[string]float64 // Class -> expected loss percentage under a proportional spread
}

func NewFitnessEvaluator(catalog *model.Catalog, requiredHours int) FitnessEvaluator {
	baselines := make(map[string]float64)
	for _, class := range catalog.Classes() {
		sum := lo.SumBy(catalog.TotalHours(class), func(total model.TeacherHours) int { return total.Hours })
		if sum > 0 {
			baselines[class] = float64(requiredHours) / float64(sum) * 100
		}
	}

	return &fitnessEvaluatorImplementation{
		catalog:       catalog,
		requiredHours: requiredHours,
		baselines:     baselines,
	}
}

func (evaluator *fitnessEvaluatorImplementation) Evaluate(individual Individual) float64 {
	weekly := make(map[classWeek]int)
	for key := range individual {
		slot := evaluator.catalog.MustSlot(key)
		weekly[classWeek{class: slot.Class, week: slot.Week()}]++
	}
	deviation := 0
	for _, hours := range weekly {
		deviation += max(0, hours-1)
	}

	lost := model.LostHours(evaluator.catalog, individual)

	var variances, thresholds, excess float64
	for _, class := range evaluator.catalog.Classes() {
		baseline := evaluator.baselines[class]
		percentages := make([]float64, 0)

		for _, total := range evaluator.catalog.TotalHours(class) {
			if total.Hours == 0 {
				continue
			}
			percentage := float64(lost[class][total.Teacher]) / float64(total.Hours) * 100
			percentages = append(percentages, percentage)

			homeroom := evaluator.catalog.Homeroom(class, total.Teacher)
			thresholds += thresholdPenalty(percentage, baseline, homeroom)
			if homeroom && percentage > homeroomThreshold {
				excess += (percentage - homeroomThreshold) * homeroomExcessWeight
			}
		}

		variances += variance(percentages)
	}

	return float64(deviation)*weeklyDeviationWeight + variances*varianceWeight + excess + thresholds
}

func thresholdPenalty(percentage, baseline float64, homeroom bool) float64 {
	switch {
	case percentage > 2*baseline:
		return lo.Ternary(homeroom, 20.0, 10.0)
	case percentage > baseline:
		return lo.Ternary(homeroom, 10.0, 5.0)
	case percentage < 0.3*baseline:
		return lo.Ternary(homeroom, 0.5, 1.0)
	}
	return 0
}

// variance is the population variance of values, 0 for an empty list
func variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := lo.Mean(values)
	return lo.SumBy(values, func(value float64) float64 { return (value - mean) * (value - mean) }) / float64(len(values))
}
