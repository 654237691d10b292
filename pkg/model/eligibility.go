package model

import (
	"slices"
	"time"
)

// EligibilityOracle decides which civics teachers may legally substitute a slot
type EligibilityOracle interface {
	// Returns, in roster order, the civics teachers allowed to substitute the slot.
	// Teachers already busy at the slot's moment according to occupancy (which may be nil) are skipped.
	Eligible(slot Slot, occupancy Occupancy) []string

	// Checks whether teacher may substitute the slot, ignoring other assignments
	Allowed(slot Slot, teacher string) bool
}

type eligibilityOracleImplementation struct {
	catalog              *Catalog
	availability         map[string]map[time.Weekday][]bool
	allowSelfReplacement bool
	candidates           map[string][]string // Class -> civics teachers whose roster includes it
}

func NewEligibilityOracle(catalog *Catalog, allowSelfReplacement bool) EligibilityOracle {
	input := catalog.Input()
	candidates := make(map[string][]string)
	for _, teacher := range input.Teachers {
		for _, class := range input.Roster[teacher] {
			candidates[class] = append(candidates[class], teacher)
		}
	}

	return &eligibilityOracleImplementation{
		catalog:              catalog,
		availability:         input.Availability,
		allowSelfReplacement: allowSelfReplacement,
		candidates:           candidates,
	}
}

func (oracle *eligibilityOracleImplementation) Eligible(slot Slot, occupancy Occupancy) []string {
	moment := slot.Moment()
	eligible := make([]string, 0, len(oracle.candidates[slot.Class]))
	for _, teacher := range oracle.candidates[slot.Class] {
		if oracle.permitted(slot, teacher) && !occupancy.Busy(teacher, moment) {
			eligible = append(eligible, teacher)
		}
	}
	return eligible
}

func (oracle *eligibilityOracleImplementation) Allowed(slot Slot, teacher string) bool {
	return slices.Contains(oracle.candidates[slot.Class], teacher) && oracle.permitted(slot, teacher)
}

func (oracle *eligibilityOracleImplementation) permitted(slot Slot, teacher string) bool {
	// Self-replacement: a homeroom teacher takes over their own period
	if oracle.allowSelfReplacement && teacher == slot.Teacher && oracle.catalog.Homeroom(slot.Class, teacher) {
		return true
	}

	periods := oracle.availability[teacher][slot.Weekday]
	return len(periods) >= slot.Period && periods[slot.Period-1]
}
