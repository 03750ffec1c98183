package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/example/gateforge/internal/calendar"
	"github.com/example/gateforge/internal/database"
	"github.com/example/gateforge/internal/spaced_repetition"
	"github.com/example/gateforge/pkg/models"
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath      string // Path to the Excel or CSV file
	FrontColumn   string // Column with the question
	BackColumn    string // Column with the answer
	SubjectColumn string // Column with the subject name
	BoxColumn     string // Optional column with a starting box
	SheetName     string // Name of the sheet to import
	StartRow      int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		FrontColumn:   "A",
		BackColumn:    "B",
		SubjectColumn: "C",
		BoxColumn:     "D",
		SheetName:     "Sheet1",
		StartRow:      2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Created        int
	Updated        int
	Skipped        int
	Errors         []string
}

// ImportFlashcards reads cards from an Excel or CSV file and adds them to
// the deck. A row whose question already exists for the same subject
// updates that card's answer instead.
func ImportFlashcards(ctx context.Context, repo *database.FlashcardRepository, config ImportConfig, today calendar.Date) (*ImportResult, error) {
	rows, err := ReadRows(config)
	if err != nil {
		return nil, err
	}

	cards, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing cards: %v", err)
	}

	cards, result := MergeRows(cards, rows, config, today)
	if result.Created > 0 || result.Updated > 0 {
		if err := repo.Save(ctx, cards); err != nil {
			return nil, fmt.Errorf("failed to save imported cards: %v", err)
		}
	}
	return result, nil
}

// ReadRows returns the raw rows of the file, header included
func ReadRows(config ImportConfig) ([][]string, error) {
	// Check the file extension
	if strings.ToLower(filepath.Ext(config.FilePath)) == ".csv" {
		return readCSV(config.FilePath)
	}
	return readExcel(config)
}

// readExcel reads all rows of the configured sheet
func readExcel(config ImportConfig) ([][]string, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v", err)
	}
	defer f.Close()

	sheet := config.SheetName
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %v", err)
	}
	return rows, nil
}

// readCSV reads all records of a CSV file
func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %v", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// MergeRows turns rows into cards and merges them into the deck
func MergeRows(cards []models.Flashcard, rows [][]string, config ImportConfig, today calendar.Date) ([]models.Flashcard, *ImportResult) {
	result := &ImportResult{Errors: make([]string, 0)}

	index := make(map[string]int, len(cards))
	for i, c := range cards {
		index[cardKey(c.Front, c.Subject)] = i
	}

	for i, row := range rows {
		rowNum := i + 1
		// Skip header rows
		if rowNum < config.StartRow {
			continue
		}
		if isBlank(row) {
			continue
		}

		result.TotalProcessed++

		card, err := processRow(row, config, today)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}

		key := cardKey(card.Front, card.Subject)
		if idx, exists := index[key]; exists {
			if cards[idx].Back == card.Back {
				result.Skipped++
				continue
			}
			cards[idx].Back = card.Back
			result.Updated++
			continue
		}

		index[key] = len(cards)
		cards = append(cards, card)
		result.Created++
	}

	return cards, result
}

// processRow builds a card from a single row
func processRow(row []string, config ImportConfig, today calendar.Date) (models.Flashcard, error) {
	front := cell(row, config.FrontColumn)
	back := cell(row, config.BackColumn)
	subjectName := cell(row, config.SubjectColumn)

	if front == "" {
		return models.Flashcard{}, fmt.Errorf("question cannot be empty")
	}
	if back == "" {
		return models.Flashcard{}, fmt.Errorf("answer cannot be empty")
	}

	subject, err := models.ParseSubject(subjectName)
	if err != nil {
		return models.Flashcard{}, err
	}

	card := spaced_repetition.NewCard(front, back, subject, today)
	if config.BoxColumn != "" {
		card.Box = parseIntOrDefault(cell(row, config.BoxColumn), 1, 5, 1)
	}
	return card, nil
}

func cell(row []string, column string) string {
	if column == "" {
		return ""
	}
	if idx := columnToIndex(column); idx >= 0 && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func cardKey(front string, subject models.Subject) string {
	return strings.ToLower(strings.TrimSpace(front)) + "|" + string(subject)
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Helper function to convert Excel column letter to index
func columnToIndex(column string) int {
	column = strings.ToUpper(column)
	index := 0
	for i := 0; i < len(column); i++ {
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}

// Helper function to parse integer within a range, falling back to defaultVal
func parseIntOrDefault(s string, min, max, defaultVal int) int {
	val, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return defaultVal
	}
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
