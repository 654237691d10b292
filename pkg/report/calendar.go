package report

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/limaJavier/civics/pkg/model"
	"github.com/samber/lo"
)

const (
	CalendarFile   = "calendar.csv"
	StatisticsFile = "teachersLost.csv"
	PdfFile        = "calendar.pdf"
)

// CalendarEntry is one substituted period
type CalendarEntry struct {
	Class       string    `csv:"CLASSE"`
	DateText    string    `csv:"DATA"`
	Weekday     string    `csv:"GIORNO"`
	Period      int       `csv:"ORA"`
	Civics      string    `csv:"DOCENTE_CIVICS"`
	Substituted string    `csv:"DOCENTE_SOSTITUITO"`
	Key         string    `csv:"KEY"`
	Date        time.Time `csv:"-"`
}

type statisticRow struct {
	Class      string `csv:"CLASSE"`
	Teacher    string `csv:"DOCENTE"`
	LostHours  int    `csv:"ORE_PERSE"`
	TotalHours int    `csv:"ORE_TOTALI"`
	Percentage string `csv:"PERCENTUALE_ORE_PERSE"`
}

// CalendarEntries lists the assignment sorted by date, class (catalog order) and period
func CalendarEntries(catalog *model.Catalog, assignment map[string]string) []CalendarEntry {
	classOrder := make(map[string]int)
	for i, class := range catalog.Classes() {
		classOrder[class] = i
	}

	entries := make([]CalendarEntry, 0, len(assignment))
	for key, teacher := range assignment {
		slot := catalog.MustSlot(key)
		entries = append(entries, CalendarEntry{
			Class:       slot.Class,
			DateText:    slot.Date.Format(model.DateLayout),
			Weekday:     model.WeekdayCode(slot.Weekday),
			Period:      slot.Period,
			Civics:      teacher,
			Substituted: slot.Teacher,
			Key:         slot.Key,
			Date:        slot.Date,
		})
	}

	slices.SortFunc(entries, func(a, b CalendarEntry) int {
		return cmp.Or(
			a.Date.Compare(b.Date),
			cmp.Compare(classOrder[a.Class], classOrder[b.Class]),
			cmp.Compare(a.Period, b.Period),
		)
	})
	return entries
}

// WeekRange renders the Monday to Saturday span holding date
func WeekRange(date time.Time) string {
	offset := (int(date.Weekday()) + 6) % 7 // Days since Monday
	monday := date.AddDate(0, 0, -offset)
	return fmt.Sprintf("%v - %v", monday.Format(model.DateLayout), monday.AddDate(0, 0, 5).Format(model.DateLayout))
}

func WriteCalendarCsv(path string, entries []CalendarEntry) error {
	return marshalCsv(path, &entries)
}

func WriteStatisticsCsv(path string, statistics []model.TeacherStatistic) error {
	rows := lo.Map(statistics, func(statistic model.TeacherStatistic, _ int) statisticRow {
		return statisticRow{
			Class:      statistic.Class,
			Teacher:    statistic.Teacher,
			LostHours:  statistic.LostHours,
			TotalHours: statistic.TotalHours,
			Percentage: statistic.PercentageText(),
		}
	})
	return marshalCsv(path, &rows)
}

// WriteResults writes the calendar and the loss statistics of assignment into directory, creating it if needed
func WriteResults(directory string, catalog *model.Catalog, assignment map[string]string) error {
	if err := os.MkdirAll(directory, os.ModePerm); err != nil {
		return fmt.Errorf("cannot create output directory %v: %w", directory, err)
	}
	if err := WriteCalendarCsv(filepath.Join(directory, CalendarFile), CalendarEntries(catalog, assignment)); err != nil {
		return err
	}
	return WriteStatisticsCsv(filepath.Join(directory, StatisticsFile), model.ComputeStatistics(catalog, assignment))
}

func marshalCsv(path string, rows any) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create %v: %w", path, err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(rows, file); err != nil {
		return fmt.Errorf("cannot write %v: %w", path, err)
	}
	return nil
}
