package genetic

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoFeasiblePopulation = errors.New("no feasible initial population")
	ErrEmptyCatalog         = errors.New("slot catalog is empty")
)

type Constraint int

const (
	QuotaConstraint Constraint = iota
	WeeklyCapConstraint
	DoubleBookingConstraint
)

func (constraint Constraint) String() string {
	switch constraint {
	case QuotaConstraint:
		return "quota"
	case WeeklyCapConstraint:
		return "weekly cap"
	case DoubleBookingConstraint:
		return "double booking"
	}
	return "unknown"
}

// Violation is one broken hard constraint. Subject names the class, class week or teacher moment at fault.
type Violation struct {
	Constraint Constraint
	Subject    string
	Count      int
}

// ValidationError lists every hard constraint an individual breaks
type ValidationError struct {
	Violations []Violation
}

func (err *ValidationError) Error() string {
	descriptions := make([]string, 0, len(err.Violations))
	for _, violation := range err.Violations {
		descriptions = append(descriptions, fmt.Sprintf("%v (%v: %d)", violation.Constraint, violation.Subject, violation.Count))
	}
	return "invalid individual: " + strings.Join(descriptions, ", ")
}

// Has checks whether at least one violation of constraint was found
func (err *ValidationError) Has(constraint Constraint) bool {
	for _, violation := range err.Violations {
		if violation.Constraint == constraint {
			return true
		}
	}
	return false
}
