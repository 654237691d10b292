package genetic

import (
	"fmt"
	"testing"
	"time"

	"github.com/limaJavier/civics/pkg/model"
	"github.com/stretchr/testify/require"
)

// termCatalog spans sixteen school weeks with three classes sharing Monday's first period
func termCatalog(t *testing.T) *model.Catalog {
	t.Helper()
	input, err := model.ProcessRawInput(model.RawModelInput{
		Start: "02/09/2024",
		End:   "21/12/2024",
		Classes: []model.RawClass{
			{Name: "1A", Timetable: map[string][]string{"monday": {"Rossi", "Bianchi"}, "wednesday": {"Verdi", "Rossi"}, "friday": {"Bianchi"}}},
			{Name: "2B", Timetable: map[string][]string{"monday": {"Neri", "Gialli"}, "tuesday": {"Neri"}, "thursday": {"Blu", "Neri"}}},
			{Name: "3C", Timetable: map[string][]string{"monday": {"Bruni"}, "friday": {"Neri", "Bruni"}, "saturday": {"Verdi"}}},
		},
		Teachers: []model.RawTeacher{
			{Name: "Verdi", Classes: []string{"1A", "3C"}, Availability: map[string][]bool{"monday": {true, true}, "friday": {true, true}}},
			{Name: "Gialli", Classes: []string{"1A", "2B"}, Availability: map[string][]bool{"monday": {true, false}, "wednesday": {true, true}, "thursday": {true, true}}},
			{Name: "Blu", Classes: []string{"2B", "3C"}, Availability: map[string][]bool{"monday": {true, true}, "tuesday": {true}, "friday": {true, true}, "saturday": {true}}},
		},
		Closures: []model.RawClosure{{From: "01/11/2024", To: "01/11/2024"}},
	})
	require.NoError(t, err)
	return model.NewCatalog(input)
}

// weeklyCatalog builds one class whose slots, taught by the given teachers in turn, fall on the Mondays of consecutive weeks
func weeklyCatalog(class string, homeroom map[string]bool, teachers ...string) *model.Catalog {
	monday := time.Date(2024, time.September, 2, 0, 0, 0, 0, time.UTC)
	slots := make([]model.Slot, 0, len(teachers))
	for i, teacher := range teachers {
		date := monday.AddDate(0, 0, 7*i)
		slots = append(slots, model.Slot{
			Key:     model.NewSlotKey(class, date, 1),
			Class:   class,
			Date:    date,
			Weekday: time.Monday,
			Period:  1,
			Teacher: teacher,
		})
	}
	return model.NewCatalog(model.ModelInput{
		Classes:  []string{class},
		Homeroom: map[string]map[string]bool{class: homeroom},
		Slots:    slots,
	})
}

func repeat(teacher string, times int) []string {
	teachers := make([]string, times)
	for i := range teachers {
		teachers[i] = teacher
	}
	return teachers
}

func mondayKey(class string, week int) string {
	return fmt.Sprintf("%v_%v_1", class, time.Date(2024, time.September, 2+7*week, 0, 0, 0, 0, time.UTC).Format("20060102"))
}

func testParameters() Parameters {
	parameters := DefaultParameters()
	parameters.RequiredHours = 4
	parameters.PopulationSize = 30
	parameters.Generations = 15
	parameters.Patience = 100
	parameters.Workers = 4
	parameters.Seed = 7
	return parameters
}
