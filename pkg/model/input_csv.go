package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/samber/lo"
)

const (
	ClassesFile        = "classes.csv"
	CivicsTeachersFile = "civics_teachers.csv"
	AvailabilityFile   = "availability.csv"
	ClosuresFile       = "closures.csv"

	// Marker used by the availability table for a period in which the teacher is free to substitute
	AvailableMarker = "DISPOS"
)

type classRow struct {
	Class     string `csv:"CLASSE"`
	Monday    string `csv:"DOC LUN"`
	Tuesday   string `csv:"DOC MAR"`
	Wednesday string `csv:"DOC MER"`
	Thursday  string `csv:"DOC GIO"`
	Friday    string `csv:"DOC VEN"`
	Saturday  string `csv:"DOC SAB"`
}

type civicsTeacherRow struct {
	Teacher string `csv:"DOCENTE"`
	Classes string `csv:"CLASSI"`
}

type availabilityRow struct {
	Teacher   string `csv:"DOCENTE"`
	Monday    string `csv:"LUN"`
	Tuesday   string `csv:"MAR"`
	Wednesday string `csv:"MER"`
	Thursday  string `csv:"GIO"`
	Friday    string `csv:"VEN"`
	Saturday  string `csv:"SAB"`
}

type closureRow struct {
	From string `csv:"INIZIO"`
	To   string `csv:"FINE"`
}

// InputFromCsv reads the four school tables (classes, civics teachers, availability and closures) from directory.
// Cells holding lists use ';' as separator.
func InputFromCsv(directory, start, end string) (ModelInput, error) {
	var classes []classRow
	if err := unmarshalCsv(filepath.Join(directory, ClassesFile), &classes); err != nil {
		return ModelInput{}, err
	}
	var teachers []civicsTeacherRow
	if err := unmarshalCsv(filepath.Join(directory, CivicsTeachersFile), &teachers); err != nil {
		return ModelInput{}, err
	}
	var availabilities []availabilityRow
	if err := unmarshalCsv(filepath.Join(directory, AvailabilityFile), &availabilities); err != nil {
		return ModelInput{}, err
	}
	var closures []closureRow
	if err := unmarshalCsv(filepath.Join(directory, ClosuresFile), &closures); err != nil {
		return ModelInput{}, err
	}

	availabilityByTeacher := lo.SliceToMap(availabilities, func(row availabilityRow) (string, availabilityRow) {
		return strings.TrimSpace(row.Teacher), row
	})

	rawInput := RawModelInput{
		Start: start,
		End:   end,
		Classes: lo.Map(classes, func(row classRow, _ int) RawClass {
			return RawClass{
				Name: row.Class,
				Timetable: map[string][]string{
					"LUN": splitCell(row.Monday),
					"MAR": splitCell(row.Tuesday),
					"MER": splitCell(row.Wednesday),
					"GIO": splitCell(row.Thursday),
					"VEN": splitCell(row.Friday),
					"SAB": splitCell(row.Saturday),
				},
			}
		}),
		Teachers: lo.Map(teachers, func(row civicsTeacherRow, _ int) RawTeacher {
			availability := make(map[string][]bool)
			if availabilityRow, ok := availabilityByTeacher[strings.TrimSpace(row.Teacher)]; ok {
				availability = map[string][]bool{
					"LUN": availableCell(availabilityRow.Monday),
					"MAR": availableCell(availabilityRow.Tuesday),
					"MER": availableCell(availabilityRow.Wednesday),
					"GIO": availableCell(availabilityRow.Thursday),
					"VEN": availableCell(availabilityRow.Friday),
					"SAB": availableCell(availabilityRow.Saturday),
				}
			}
			return RawTeacher{
				Name:         row.Teacher,
				Classes:      splitCell(row.Classes),
				Availability: availability,
			}
		}),
		Closures: lo.Map(closures, func(row closureRow, _ int) RawClosure {
			return RawClosure{From: row.From, To: row.To}
		}),
	}

	return ProcessRawInput(rawInput)
}

func unmarshalCsv(path string, out any) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot open %v: %w", path, err)
	}
	defer file.Close()

	if err := gocsv.UnmarshalFile(file, out); err != nil {
		return fmt.Errorf("cannot parse %v: %w", path, err)
	}
	return nil
}

func splitCell(cell string) []string {
	if strings.TrimSpace(cell) == "" {
		return []string{}
	}
	return lo.Map(strings.Split(cell, ";"), func(value string, _ int) string { return strings.TrimSpace(value) })
}

func availableCell(cell string) []bool {
	return lo.Map(splitCell(cell), func(value string, _ int) bool { return value == AvailableMarker })
}
