package excel

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/example/gateforge/internal/calendar"
	"github.com/example/gateforge/internal/dependency"
	"github.com/example/gateforge/internal/spaced_repetition"
	"github.com/example/gateforge/pkg/models"
)

// Report sheet names
const (
	SheetSchedule     = "Schedule"
	SheetFlashcards   = "Flashcards"
	SheetMocks        = "Mocks"
	SheetDaily        = "Daily Log"
	SheetDependencies = "Dependencies"
)

// ReportData is everything the progress workbook shows
type ReportData struct {
	Phases   []models.Phase
	Status   models.CompletionStatus
	Cards    []models.Flashcard
	Mocks    []models.MockTest
	Daily    []models.DailyLog
	Analysis dependency.Analysis
	Today    calendar.Date
}

// BuildReport creates the progress workbook in memory
func BuildReport(data ReportData) (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", SheetSchedule)
	for _, name := range []string{SheetFlashcards, SheetMocks, SheetDaily, SheetDependencies} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("failed to create sheet %s: %v", name, err)
		}
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %v", err)
	}

	sheets := []struct {
		name string
		rows [][]interface{}
	}{
		{SheetSchedule, scheduleRows(data)},
		{SheetFlashcards, flashcardRows(data)},
		{SheetMocks, mockRows(data)},
		{SheetDaily, dailyRows(data)},
		{SheetDependencies, dependencyRows(data)},
	}
	for _, sheet := range sheets {
		if err := writeRows(f, sheet.name, sheet.rows, header); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// ExportReport writes the progress workbook to path
func ExportReport(path string, data ReportData) error {
	f, err := BuildReport(data)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save report: %v", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}, header int) error {
	for i, row := range rows {
		cellName, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cellName, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %v", sheet, i+1, err)
		}
	}
	if len(rows) == 0 {
		return nil
	}

	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, header)
}

func scheduleRows(data ReportData) [][]interface{} {
	rows := [][]interface{}{{"ID", "Phase", "Start", "End", "Days", "Completed", "Progress %"}}
	for _, p := range data.Phases {
		start, end := p.Start.String(), p.End.String()
		if p.IsUndecided {
			start, end = "TBD", "TBD"
		}
		rows = append(rows, []interface{}{
			p.ID, p.Name, start, end, p.Days(), data.Status.IsCompleted(p.ID), data.Status.Progress(p.ID),
		})
	}
	return rows
}

func flashcardRows(data ReportData) [][]interface{} {
	rows := [][]interface{}{{"Subject", "Front", "Back", "Box", "Next Review", "Due"}}
	for _, c := range data.Cards {
		rows = append(rows, []interface{}{
			string(c.Subject), c.Front, c.Back, c.Box, c.NextReviewDate.String(), spaced_repetition.IsDue(c, data.Today),
		})
	}
	return rows
}

func mockRows(data ReportData) [][]interface{} {
	rows := [][]interface{}{{"Date", "Provider", "Score", "Total Marks", "Attempted", "Correct", "Wrong", "Accuracy %", "Minutes"}}
	for _, m := range data.Mocks {
		rows = append(rows, []interface{}{
			m.Date, m.Provider, m.Score, m.TotalMarks, m.TotalAttempts, m.CorrectAttempts, m.WrongAttempts, m.Accuracy(), m.TimeSpentMinutes,
		})
	}
	return rows
}

func dailyRows(data ReportData) [][]interface{} {
	rows := [][]interface{}{{"Date", "Hours", "Questions", "Correct", "Focus", "Revision Done"}}
	for _, l := range data.Daily {
		rows = append(rows, []interface{}{
			l.Date, l.TotalHours(), l.PracticeQuestions, l.PracticeCorrect, l.FocusLevel, l.RevisionDone,
		})
	}
	return rows
}

func dependencyRows(data ReportData) [][]interface{} {
	rows := [][]interface{}{{"Subject", "State", "Missing Prerequisites"}}
	for _, s := range data.Analysis.Completed {
		rows = append(rows, []interface{}{string(s), string(dependency.StateCompleted), ""})
	}
	for _, s := range data.Analysis.Ready {
		rows = append(rows, []interface{}{string(s), string(dependency.StateReady), ""})
	}
	for _, b := range data.Analysis.Locked {
		missing := make([]string, len(b.MissingParents))
		for i, p := range b.MissingParents {
			missing[i] = string(p)
		}
		rows = append(rows, []interface{}{string(b.Subject), string(dependency.StateLocked), strings.Join(missing, ", ")})
	}
	return rows
}
