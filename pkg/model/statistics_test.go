package model

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func statisticsCatalog() *Catalog {
	return NewCatalog(ModelInput{
		Classes: []string{"1A", "2B"},
		Slots: []Slot{
			{Key: "1A_1", Class: "1A", Teacher: "T1"},
			{Key: "1A_2", Class: "1A", Teacher: "T1"},
			{Key: "1A_3", Class: "1A", Teacher: "T2"},
			{Key: "2B_1", Class: "2B", Teacher: "T3"},
		},
	})
}

func TestComputeStatistics(t *testing.T) {
	catalog := statisticsCatalog()

	t.Run("Partial loss", func(t *testing.T) {
		statistics := ComputeStatistics(catalog, map[string]string{"1A_1": "C1", "2B_1": "C2"})

		assert.Len(t, statistics, 3)
		assert.Equal(t, TeacherStatistic{Class: "1A", Teacher: "T1", LostHours: 1, TotalHours: 2, Percentage: 50}, statistics[0])
		assert.Equal(t, "50.00", statistics[0].PercentageText())
		assert.Equal(t, "0.00", statistics[1].PercentageText())
		assert.Equal(t, "100.00", statistics[2].PercentageText())
	})

	t.Run("Empty calendar", func(t *testing.T) {
		statistics := ComputeStatistics(catalog, map[string]string{})

		assert.True(t, lo.EveryBy(statistics, func(statistic TeacherStatistic) bool {
			return statistic.LostHours == 0 && statistic.PercentageText() == "0.00"
		}))
		assert.Equal(t, []int{2, 1, 1}, lo.Map(statistics, func(statistic TeacherStatistic, _ int) int { return statistic.TotalHours }))
	})

	t.Run("Two decimals", func(t *testing.T) {
		statistic := TeacherStatistic{Percentage: 100.0 / 3}
		assert.Equal(t, "33.33", statistic.PercentageText())
	})
}

func TestLostHours(t *testing.T) {
	catalog := statisticsCatalog()

	lost := LostHours(catalog, map[string]string{"1A_1": "C1", "1A_2": "C1", "1A_3": "C2"})

	assert.Equal(t, map[string]map[string]int{"1A": {"T1": 2, "T2": 1}}, lost)
	assert.Panics(t, func() { LostHours(catalog, map[string]string{"3C_1": "C1"}) })
}
