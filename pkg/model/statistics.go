package model

import "fmt"

// TeacherStatistic reports how many of a regular teacher's hours in a class were handed to civics substitutions
type TeacherStatistic struct {
	Class      string
	Teacher    string
	LostHours  int
	TotalHours int
	Percentage float64
}

func (statistic TeacherStatistic) PercentageText() string {
	return fmt.Sprintf("%.2f", statistic.Percentage)
}

// LostHours counts, per class and regular teacher, the slots of the assignment
func LostHours(catalog *Catalog, assignment map[string]string) map[string]map[string]int {
	lost := make(map[string]map[string]int)
	for key := range assignment {
		slot := catalog.MustSlot(key)
		if _, ok := lost[slot.Class]; !ok {
			lost[slot.Class] = make(map[string]int)
		}
		lost[slot.Class][slot.Teacher]++
	}
	return lost
}

// ComputeStatistics lists, class by class in catalog order, the loss of every regular teacher of the class
func ComputeStatistics(catalog *Catalog, assignment map[string]string) []TeacherStatistic {
	lost := LostHours(catalog, assignment)

	statistics := make([]TeacherStatistic, 0)
	for _, class := range catalog.Classes() {
		for _, total := range catalog.TotalHours(class) {
			lostHours := lost[class][total.Teacher]
			percentage := 0.0
			if total.Hours > 0 {
				percentage = float64(lostHours) / float64(total.Hours) * 100
			}
			statistics = append(statistics, TeacherStatistic{
				Class:      class,
				Teacher:    total.Teacher,
				LostHours:  lostHours,
				TotalHours: total.Hours,
				Percentage: percentage,
			})
		}
	}
	return statistics
}
