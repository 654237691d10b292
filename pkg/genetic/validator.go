package genetic

import (
	"fmt"

	"github.com/limaJavier/civics/pkg/model"
)

// Validator checks an individual against the hard constraints
type Validator interface {
	// Returns nil when the individual is acceptable, otherwise a *ValidationError
	Validate(individual Individual) error
}

type validatorImplementation struct {
	catalog       *model.Catalog
	requiredHours int
}

type classWeek struct {
	class string
	week  model.Week
}

func NewValidator(catalog *model.Catalog, requiredHours int) Validator {
	return &validatorImplementation{
		catalog:       catalog,
		requiredHours: requiredHours,
	}
}

func (validator *validatorImplementation) Validate(individual Individual) error {
	hours := make(map[string]int)
	weekly := make(map[classWeek]int)
	bookings := make(map[model.Booking]int)
	violations := make([]Violation, 0)

	for _, key := range individual.Keys() {
		slot := validator.catalog.MustSlot(key)
		teacher := individual[key]
		week := classWeek{class: slot.Class, week: slot.Week()}
		booking := model.Booking{Teacher: teacher, Moment: slot.Moment()}

		hours[slot.Class]++
		if weekly[week]++; weekly[week] == 2 {
			violations = append(violations, Violation{
				Constraint: WeeklyCapConstraint,
				Subject:    fmt.Sprintf("%v %d-W%02d", slot.Class, week.week.Year, week.week.Number),
				Count:      2,
			})
		}
		if bookings[booking]++; bookings[booking] == 2 {
			violations = append(violations, Violation{
				Constraint: DoubleBookingConstraint,
				Subject:    fmt.Sprintf("%v %d/%d", teacher, booking.Moment.Day, booking.Moment.Period),
				Count:      2,
			})
		}
	}

	for _, class := range validator.catalog.Classes() {
		if hours[class] != validator.requiredHours {
			violations = append(violations, Violation{
				Constraint: QuotaConstraint,
				Subject:    class,
				Count:      hours[class],
			})
		}
	}

	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}
