package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/limaJavier/civics/pkg/model"
	"github.com/samber/lo"
)

const (
	pageWidth      = 277.0 // A4 landscape minus margins
	minimumPeriods = 6
)

// RenderPDF writes one section per class, listing its substitutions week by week,
// followed by one section per civics teacher with a day/period grid for every week they teach
func RenderPDF(writer io.Writer, catalog *model.Catalog, assignment map[string]string) error {
	entries := CalendarEntries(catalog, assignment)

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	translate := pdf.UnicodeTranslatorFromDescriptor("")

	for _, class := range catalog.Classes() {
		classEntries := lo.Filter(entries, func(entry CalendarEntry, _ int) bool { return entry.Class == class })
		if len(classEntries) == 0 {
			continue
		}
		renderClass(pdf, translate, class, classEntries)
	}

	for _, teacher := range catalog.Teachers() {
		teacherEntries := lo.Filter(entries, func(entry CalendarEntry, _ int) bool { return entry.Civics == teacher })
		if len(teacherEntries) == 0 {
			continue
		}
		renderTeacher(pdf, translate, teacher, teacherEntries)
	}

	if pdf.PageCount() == 0 {
		pdf.AddPage()
	}
	if err := pdf.Output(writer); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

func WritePDF(path string, catalog *model.Catalog, assignment map[string]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create %v: %w", path, err)
	}
	defer file.Close()
	return RenderPDF(file, catalog, assignment)
}

func title(pdf *gofpdf.Fpdf, translate func(string) string, text string) {
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, translate(strings.ToUpper(text)), "", 1, "C", false, 0, "")
	pdf.Ln(5)
}

func renderClass(pdf *gofpdf.Fpdf, translate func(string) string, class string, entries []CalendarEntry) {
	title(pdf, translate, "Classe "+class)

	headers := []string{"Settimana", "Giorno", "Ora", "Docente Civics", "Docente Sostituito"}
	widths := []float64{80, 30, 20, 73.5, 73.5}

	pdf.SetFont("Arial", "B", 10)
	for i, header := range headers {
		pdf.CellFormat(widths[i], 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, entry := range entries {
		row := []string{WeekRange(entry.Date), entry.Weekday, fmt.Sprint(entry.Period), translate(entry.Civics), translate(entry.Substituted)}
		for i, value := range row {
			pdf.CellFormat(widths[i], 7, value, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

func renderTeacher(pdf *gofpdf.Fpdf, translate func(string) string, teacher string, entries []CalendarEntry) {
	title(pdf, translate, teacher)

	periods := max(minimumPeriods, lo.MaxBy(entries, func(a, b CalendarEntry) bool { return a.Period > b.Period }).Period)
	columnWidth := (pageWidth - 15) / float64(len(model.SchoolWeekdays))
	days := lo.Map(model.SchoolWeekdays, func(day time.Weekday, _ int) string { return model.WeekdayCode(day) })

	// Entries are sorted by date, so weeks come out in order
	weeks := lo.Uniq(lo.Map(entries, func(entry CalendarEntry, _ int) string { return WeekRange(entry.Date) }))
	for _, week := range weeks {
		grid := make(map[string]map[int]string) // Day -> period -> cell
		for _, entry := range entries {
			if WeekRange(entry.Date) != week {
				continue
			}
			if _, ok := grid[entry.Weekday]; !ok {
				grid[entry.Weekday] = make(map[int]string)
			}
			grid[entry.Weekday][entry.Period] = fmt.Sprintf("%v (%v)", entry.Class, translate(entry.Substituted))
		}

		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(220, 230, 241)
		pdf.CellFormat(pageWidth, 8, week, "1", 1, "C", true, 0, "")
		pdf.CellFormat(15, 7, "Ora", "1", 0, "C", false, 0, "")
		for _, day := range days {
			pdf.CellFormat(columnWidth, 7, day, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 9)
		for period := 1; period <= periods; period++ {
			pdf.CellFormat(15, 7, fmt.Sprint(period), "1", 0, "C", false, 0, "")
			for _, day := range days {
				pdf.CellFormat(columnWidth, 7, grid[day][period], "1", 0, "C", false, 0, "")
			}
			pdf.Ln(-1)
		}
		pdf.Ln(4)
	}
}
