package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

const DateLayout = "02/01/2006"

type RawClass struct {
	Name      string
	Timetable map[string][]string // Weekday -> regular teacher per period ("" means no lesson)
}

type RawTeacher struct {
	Name         string
	Classes      []string
	Availability map[string][]bool // Weekday -> free-to-substitute flag per period
}

type RawClosure struct {
	From string
	To   string
}

type RawModelInput struct {
	Start    string
	End      string
	Classes  []RawClass
	Teachers []RawTeacher
	Closures []RawClosure
}

type ModelInput struct {
	Start        time.Time
	End          time.Time
	Classes      []string
	Teachers     []string            // Civics teachers in roster order
	Roster       map[string][]string // Civics teacher -> classes it may substitute in
	Availability map[string]map[time.Weekday][]bool
	Timetables   map[string]map[time.Weekday][]string
	Homeroom     map[string]map[string]bool // Class -> civics teachers that also teach another subject in it
	SchoolDays   []time.Time
	Slots        []Slot
}

func InputFromJson(file string) (ModelInput, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return ModelInput{}, fmt.Errorf("cannot read input file: %w", err)
	}
	var inputJson map[string]any
	if err := json.Unmarshal(bytes, &inputJson); err != nil {
		return ModelInput{}, err
	}
	return decodeRawInput(inputJson)
}

func InputFromYaml(file string) (ModelInput, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return ModelInput{}, fmt.Errorf("cannot read input file: %w", err)
	}
	var inputYaml map[string]any
	if err := yaml.Unmarshal(bytes, &inputYaml); err != nil {
		return ModelInput{}, err
	}
	return decodeRawInput(inputYaml)
}

// LoadInput picks the loader from path: a directory holds the CSV files, while .yaml/.yml and any other file
// are read as YAML and JSON respectively. Start and end only apply to CSV directories.
func LoadInput(path, start, end string) (ModelInput, error) {
	info, err := os.Stat(path)
	if err != nil {
		return ModelInput{}, fmt.Errorf("cannot access input %v: %w", path, err)
	}

	switch {
	case info.IsDir():
		return InputFromCsv(path, start, end)
	case slices.Contains([]string{".yaml", ".yml"}, strings.ToLower(filepath.Ext(path))):
		return InputFromYaml(path)
	default:
		return InputFromJson(path)
	}
}

func decodeRawInput(document map[string]any) (ModelInput, error) {
	var rawInput RawModelInput
	if err := mapstructure.Decode(document, &rawInput); err != nil {
		return ModelInput{}, fmt.Errorf("cannot decode input: %w", err)
	}
	return ProcessRawInput(rawInput)
}

func ProcessRawInput(rawInput RawModelInput) (ModelInput, error) {
	//** Manage term
	start, err := time.Parse(DateLayout, strings.TrimSpace(rawInput.Start))
	if err != nil {
		return ModelInput{}, fmt.Errorf("invalid start date %q: %w", rawInput.Start, err)
	}
	end, err := time.Parse(DateLayout, strings.TrimSpace(rawInput.End))
	if err != nil {
		return ModelInput{}, fmt.Errorf("invalid end date %q: %w", rawInput.End, err)
	}
	if end.Before(start) {
		return ModelInput{}, fmt.Errorf("end date %v is before start date %v", rawInput.End, rawInput.Start)
	}

	closures := make(map[time.Time]bool)
	for _, closure := range rawInput.Closures {
		from, err := time.Parse(DateLayout, strings.TrimSpace(closure.From))
		if err != nil {
			return ModelInput{}, fmt.Errorf("invalid closure start %q: %w", closure.From, err)
		}
		to, err := time.Parse(DateLayout, strings.TrimSpace(closure.To))
		if err != nil {
			return ModelInput{}, fmt.Errorf("invalid closure end %q: %w", closure.To, err)
		}
		for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
			closures[day] = true
		}
	}

	schoolDays := make([]time.Time, 0)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		// Lessons run Monday through Saturday
		if day.Weekday() != time.Sunday && !closures[day] {
			schoolDays = append(schoolDays, day)
		}
	}

	input := ModelInput{
		Start:        start,
		End:          end,
		Classes:      make([]string, 0, len(rawInput.Classes)),
		Teachers:     make([]string, 0, len(rawInput.Teachers)),
		Roster:       make(map[string][]string),
		Availability: make(map[string]map[time.Weekday][]bool),
		Timetables:   make(map[string]map[time.Weekday][]string),
		Homeroom:     make(map[string]map[string]bool),
		SchoolDays:   schoolDays,
	}

	//** Manage classes
	for _, rawClass := range rawInput.Classes {
		name := strings.TrimSpace(rawClass.Name)
		if name == "" {
			return ModelInput{}, fmt.Errorf("class without name")
		} else if _, ok := input.Timetables[name]; ok {
			return ModelInput{}, fmt.Errorf("duplicate class %q", name)
		}

		timetable := make(map[time.Weekday][]string)
		for dayName, teachers := range rawClass.Timetable {
			weekday, err := ParseWeekday(dayName)
			if err != nil {
				return ModelInput{}, fmt.Errorf("class %q: %w", name, err)
			}
			timetable[weekday] = lo.Map(teachers, func(teacher string, _ int) string { return strings.TrimSpace(teacher) })
		}

		input.Classes = append(input.Classes, name)
		input.Timetables[name] = timetable
	}

	//** Manage civics teachers
	for _, rawTeacher := range rawInput.Teachers {
		name := strings.TrimSpace(rawTeacher.Name)
		if name == "" {
			return ModelInput{}, fmt.Errorf("civics teacher without name")
		} else if _, ok := input.Roster[name]; ok {
			return ModelInput{}, fmt.Errorf("duplicate civics teacher %q", name)
		}

		classes := lo.Uniq(lo.Map(rawTeacher.Classes, func(class string, _ int) string { return strings.TrimSpace(class) }))
		classes = lo.Filter(classes, func(class string, _ int) bool { return class != "" })
		if unknown, ok := lo.Find(classes, func(class string) bool { return !slices.Contains(input.Classes, class) }); ok {
			return ModelInput{}, fmt.Errorf("civics teacher %q is assigned to unknown class %q", name, unknown)
		}

		availability := make(map[time.Weekday][]bool)
		for dayName, periods := range rawTeacher.Availability {
			weekday, err := ParseWeekday(dayName)
			if err != nil {
				return ModelInput{}, fmt.Errorf("civics teacher %q: %w", name, err)
			}
			availability[weekday] = periods
		}

		input.Teachers = append(input.Teachers, name)
		input.Roster[name] = classes
		input.Availability[name] = availability
	}

	//** Manage homerooms
	for _, class := range input.Classes {
		input.Homeroom[class] = make(map[string]bool)
		for _, teachers := range input.Timetables[class] {
			for _, teacher := range teachers {
				if _, ok := input.Roster[teacher]; ok {
					input.Homeroom[class][teacher] = true
				}
			}
		}
	}

	//** Manage slots
	input.Slots = buildSlots(input)

	return input, nil
}

func buildSlots(input ModelInput) []Slot {
	slots := make([]Slot, 0)
	for _, class := range input.Classes {
		for _, day := range input.SchoolDays {
			for index, teacher := range input.Timetables[class][day.Weekday()] {
				if teacher == "" {
					continue
				}
				period := index + 1
				slots = append(slots, Slot{
					Key:     NewSlotKey(class, day, period),
					Class:   class,
					Date:    day,
					Weekday: day.Weekday(),
					Period:  period,
					Teacher: teacher,
				})
			}
		}
	}
	return slots
}

var weekdayNames = map[string]time.Weekday{
	"monday": time.Monday, "mon": time.Monday, "lun": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday, "mar": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday, "mer": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday, "gio": time.Thursday,
	"friday": time.Friday, "fri": time.Friday, "ven": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday, "sab": time.Saturday,
}

// ParseWeekday accepts English names, their three-letter abbreviations and the Italian codes (LUN..SAB)
func ParseWeekday(name string) (time.Weekday, error) {
	weekday, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unknown school day %q", name)
	}
	return weekday, nil
}

// SchoolWeekdays are the days lessons can take place on
var SchoolWeekdays = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday}

var weekdayCodes = map[time.Weekday]string{
	time.Monday:    "LUN",
	time.Tuesday:   "MAR",
	time.Wednesday: "MER",
	time.Thursday:  "GIO",
	time.Friday:    "VEN",
	time.Saturday:  "SAB",
	time.Sunday:    "DOM",
}

func WeekdayCode(weekday time.Weekday) string {
	return weekdayCodes[weekday]
}
