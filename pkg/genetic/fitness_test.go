package genetic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFitnessIsDeterministic(t *testing.T) {
	//** Arrange
	catalog := termCatalog(t)
	evaluator := NewFitnessEvaluator(catalog, 4)
	individual := Individual{
		"1A_20240902_1": "Verdi",
		"1A_20240911_1": "Gialli",
		"2B_20240902_1": "Gialli",
		"3C_20240906_1": "Blu",
	}

	//** Act
	first := evaluator.Evaluate(individual)
	second := evaluator.Evaluate(individual.Clone())

	//** Assert
	assert.Equal(t, first, second)
	assert.Greater(t, first, 0.0)
}

func TestFitnessHomeroomThreshold(t *testing.T) {
	t.Run("Exactly five percent", func(t *testing.T) {
		catalog := weeklyCatalog("1A", map[string]bool{"Verdi": true}, repeat("Verdi", 20)...)
		evaluator := NewFitnessEvaluator(catalog, 1)

		assert.Equal(t, 0.0, evaluator.Evaluate(Individual{mondayKey("1A", 0): "Gialli"}))
	})

	t.Run("Above five percent", func(t *testing.T) {
		catalog := weeklyCatalog("1A", map[string]bool{"Verdi": true}, repeat("Verdi", 19)...)
		evaluator := NewFitnessEvaluator(catalog, 1)

		assert.InDelta(t, (100.0/19-5)*10, evaluator.Evaluate(Individual{mondayKey("1A", 0): "Gialli"}), 1e-9)
	})

	t.Run("Regular teacher above five percent", func(t *testing.T) {
		catalog := weeklyCatalog("1A", nil, repeat("Verdi", 19)...)
		evaluator := NewFitnessEvaluator(catalog, 1)

		assert.Equal(t, 0.0, evaluator.Evaluate(Individual{mondayKey("1A", 0): "Gialli"}))
	})
}

func TestFitnessVarianceAndThresholds(t *testing.T) {
	//** Arrange
	catalog := weeklyCatalog("1A", nil, "Rossi", "Bianchi", "Rossi", "Bianchi")
	evaluator := NewFitnessEvaluator(catalog, 1)

	//** Act
	fitness := evaluator.Evaluate(Individual{mondayKey("1A", 0): "Verdi"})

	//** Assert
	// Baseline 25%: Rossi loses 50% (+5), Bianchi 0% (+1), variance of [50, 0] is 625
	assert.InDelta(t, 625*5+5+1, fitness, 1e-9)
}

func TestFitnessWeeklyDeviation(t *testing.T) {
	//** Arrange
	catalog := termCatalog(t)
	evaluator := NewFitnessEvaluator(catalog, 2)
	sameWeek := Individual{"1A_20240902_1": "Verdi", "1A_20240904_1": "Gialli"}
	spread := Individual{"1A_20240902_1": "Verdi", "1A_20240911_1": "Gialli"}

	//** Act & Assert
	// Both individuals take one hour from Rossi and one from Verdi in 1A
	assert.InDelta(t, evaluator.Evaluate(spread)+10, evaluator.Evaluate(sameWeek), 1e-9)
}

func TestThresholdPenalty(t *testing.T) {
	cases := []struct {
		percentage float64
		homeroom   bool
		expected   float64
	}{
		{25, true, 20},
		{25, false, 10},
		{20, true, 10},
		{15, false, 5},
		{10, true, 0},
		{2.5, true, 0.5},
		{2, false, 1},
		{0, false, 1},
	}

	for _, testCase := range cases {
		assert.Equal(t, testCase.expected, thresholdPenalty(testCase.percentage, 10, testCase.homeroom), "percentage %v homeroom %v", testCase.percentage, testCase.homeroom)
	}
	assert.Equal(t, 0.0, thresholdPenalty(0, 0, true))
}
