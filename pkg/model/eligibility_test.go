package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCatalog(t *testing.T) *Catalog {
	t.Helper()
	input, err := InputFromJson(testDirectory + "input.json")
	require.NoError(t, err)
	return NewCatalog(input)
}

func TestCatalog(t *testing.T) {
	catalog := sampleCatalog(t)

	assert.Equal(t, 12, catalog.Len())
	assert.Len(t, catalog.ClassSlots("1A"), 7)
	assert.Equal(t, []TeacherHours{{"Rossi", 4}, {"Bianchi", 2}, {"Verdi", 1}}, catalog.TotalHours("1A"))
	assert.Equal(t, []TeacherHours{{"Neri", 3}, {"Verdi", 2}}, catalog.TotalHours("2B"))
	assert.True(t, catalog.Homeroom("2B", "Verdi"))
	assert.False(t, catalog.Homeroom("2B", "Gialli"))

	slot, ok := catalog.Slot("2B_20241015_2")
	assert.True(t, ok)
	assert.Equal(t, "Verdi", slot.Teacher)
	_, ok = catalog.Slot("2B_20241016_2")
	assert.False(t, ok)

	assert.Panics(t, func() { catalog.MustSlot("missing") })
}

func TestEligibilityOracle(t *testing.T) {
	catalog := sampleCatalog(t)
	strict := NewEligibilityOracle(catalog, false)
	permissive := NewEligibilityOracle(catalog, true)

	t.Run("Availability", func(t *testing.T) {
		// Verdi is not free on Monday's first period but is on the second one
		assert.Empty(t, strict.Eligible(catalog.MustSlot("1A_20241014_1"), nil))
		assert.Equal(t, []string{"Verdi"}, strict.Eligible(catalog.MustSlot("1A_20241014_2"), nil))
		// Roster order is preserved
		assert.Equal(t, []string{"Verdi", "Gialli"}, strict.Eligible(catalog.MustSlot("2B_20241015_1"), nil))
	})

	t.Run("Self-replacement", func(t *testing.T) {
		ownPeriod := catalog.MustSlot("1A_20241023_1")
		assert.Empty(t, strict.Eligible(ownPeriod, nil))
		assert.Equal(t, []string{"Verdi"}, permissive.Eligible(ownPeriod, nil))

		assert.Equal(t, []string{"Gialli"}, strict.Eligible(catalog.MustSlot("2B_20241015_2"), nil))
		assert.Equal(t, []string{"Verdi", "Gialli"}, permissive.Eligible(catalog.MustSlot("2B_20241015_2"), nil))
	})

	t.Run("Double booking", func(t *testing.T) {
		slot := catalog.MustSlot("2B_20241015_1")
		occupancy := NewOccupancy()
		occupancy.Add("Verdi", slot.Moment())

		assert.Equal(t, []string{"Gialli"}, strict.Eligible(slot, occupancy))

		occupancy.Remove("Verdi", slot.Moment())
		assert.Equal(t, []string{"Verdi", "Gialli"}, strict.Eligible(slot, occupancy))
	})

	t.Run("Allowed", func(t *testing.T) {
		assert.True(t, strict.Allowed(catalog.MustSlot("1A_20241014_2"), "Verdi"))
		assert.False(t, strict.Allowed(catalog.MustSlot("1A_20241014_2"), "Gialli"))
		assert.False(t, strict.Allowed(catalog.MustSlot("1A_20241014_1"), "Verdi"))
	})
}

func TestOccupancyCountsMultipleBookings(t *testing.T) {
	moment := Moment{Day: 20241014, Period: 1}
	occupancy := NewOccupancy()
	occupancy.Add("Verdi", moment)
	occupancy.Add("Verdi", moment)

	occupancy.Remove("Verdi", moment)
	assert.True(t, occupancy.Busy("Verdi", moment))

	occupancy.Remove("Verdi", moment)
	assert.False(t, occupancy.Busy("Verdi", moment))
	assert.Empty(t, occupancy)
}
