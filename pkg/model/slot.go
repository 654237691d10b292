package model

import (
	"fmt"
	"time"
)

// Slot is one class period that a civics teacher may take over
type Slot struct {
	Key     string
	Class   string
	Date    time.Time
	Weekday time.Weekday
	Period  int    // 1-based period index within the day
	Teacher string // Regular teacher who would otherwise teach the period
}

// Week identifies an ISO week; the ISO year is kept so that terms spanning New Year never merge weeks
type Week struct {
	Year   int
	Number int
}

// Moment identifies a calendar date and a period index, regardless of the class
type Moment struct {
	Day    int // yyyymmdd
	Period int
}

func NewSlotKey(class string, date time.Time, period int) string {
	return fmt.Sprintf("%v_%v_%d", class, date.Format("20060102"), period)
}

func (slot Slot) Week() Week {
	year, number := slot.Date.ISOWeek()
	return Week{Year: year, Number: number}
}

func (slot Slot) Moment() Moment {
	return Moment{
		Day:    slot.Date.Year()*10000 + int(slot.Date.Month())*100 + slot.Date.Day(),
		Period: slot.Period,
	}
}

// Booking is a teacher occupied at a given moment
type Booking struct {
	Teacher string
	Moment  Moment
}

// Occupancy counts, for a partial assignment, how many slots each teacher covers at each moment
type Occupancy map[Booking]int

func NewOccupancy() Occupancy {
	return make(Occupancy)
}

func (occupancy Occupancy) Add(teacher string, moment Moment) {
	occupancy[Booking{Teacher: teacher, Moment: moment}]++
}

func (occupancy Occupancy) Remove(teacher string, moment Moment) {
	booking := Booking{Teacher: teacher, Moment: moment}
	if occupancy[booking] <= 1 {
		delete(occupancy, booking)
		return
	}
	occupancy[booking]--
}

func (occupancy Occupancy) Busy(teacher string, moment Moment) bool {
	return occupancy[Booking{Teacher: teacher, Moment: moment}] > 0
}
