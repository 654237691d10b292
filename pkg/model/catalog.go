package model

import (
	"log"
)

// TeacherHours is the number of catalog slots a regular teacher holds in a class
type TeacherHours struct {
	Teacher string
	Hours   int
}

// Catalog is a read-only, indexed view of the slots eligible for substitution.
// It is shared by every worker of a run without synchronization.
type Catalog struct {
	input   ModelInput
	index   map[string]int
	byClass map[string][]int
	hours   map[string][]TeacherHours
}

func NewCatalog(input ModelInput) *Catalog {
	catalog := &Catalog{
		input:   input,
		index:   make(map[string]int, len(input.Slots)),
		byClass: make(map[string][]int),
		hours:   make(map[string][]TeacherHours),
	}

	positions := make(map[string]map[string]int) // Class -> teacher -> position in hours[class]
	for i, slot := range input.Slots {
		if _, ok := catalog.index[slot.Key]; ok {
			log.Panicf("slot key %v must be unique", slot.Key)
		}
		catalog.index[slot.Key] = i
		catalog.byClass[slot.Class] = append(catalog.byClass[slot.Class], i)

		if _, ok := positions[slot.Class]; !ok {
			positions[slot.Class] = make(map[string]int)
		}
		position, ok := positions[slot.Class][slot.Teacher]
		if !ok {
			position = len(catalog.hours[slot.Class])
			positions[slot.Class][slot.Teacher] = position
			catalog.hours[slot.Class] = append(catalog.hours[slot.Class], TeacherHours{Teacher: slot.Teacher})
		}
		catalog.hours[slot.Class][position].Hours++
	}

	return catalog
}

func (catalog *Catalog) Input() ModelInput {
	return catalog.input
}

func (catalog *Catalog) Slots() []Slot {
	return catalog.input.Slots
}

func (catalog *Catalog) Classes() []string {
	return catalog.input.Classes
}

func (catalog *Catalog) Teachers() []string {
	return catalog.input.Teachers
}

func (catalog *Catalog) Len() int {
	return len(catalog.input.Slots)
}

func (catalog *Catalog) Slot(key string) (Slot, bool) {
	i, ok := catalog.index[key]
	if !ok {
		return Slot{}, false
	}
	return catalog.input.Slots[i], true
}

// MustSlot panics when key does not belong to the catalog, which means an individual was built from another catalog
func (catalog *Catalog) MustSlot(key string) Slot {
	slot, ok := catalog.Slot(key)
	if !ok {
		log.Panicf("slot %v is not present in the catalog", key)
	}
	return slot
}

func (catalog *Catalog) ClassSlots(class string) []Slot {
	indices := catalog.byClass[class]
	slots := make([]Slot, len(indices))
	for i, index := range indices {
		slots[i] = catalog.input.Slots[index]
	}
	return slots
}

// TotalHours returns the teaching hours of every regular teacher of the class, in order of first appearance
func (catalog *Catalog) TotalHours(class string) []TeacherHours {
	return catalog.hours[class]
}

// Homeroom checks whether teacher is a civics teacher who also teaches another subject in class
func (catalog *Catalog) Homeroom(class, teacher string) bool {
	return catalog.input.Homeroom[class][teacher]
}
