package services

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mindhaven/mindhaven-api/internal/models"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

var ErrNoDataRows = errors.New("spreadsheet contains no data rows")

// ImportRow is one parsed spreadsheet line.
type ImportRow struct {
	RowNumber   int              `json:"row"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	PointValue  int              `json:"point_value"`
	Duration    int              `json:"duration"`
	Frequency   models.Frequency `json:"frequency"`
	Error       string           `json:"error,omitempty"`
}

// ImportResult summarises one Excel import run.
type ImportResult struct {
	Created   int      `json:"created"`
	Skipped   int      `json:"skipped"`
	RowErrors []string `json:"row_errors,omitempty"`
}

// PreviewImport parses an Excel upload without persisting anything. Invalid
// rows are returned with a per-row error message.
func (s *AchievementService) PreviewImport(r io.Reader) ([]ImportRow, error) {
	return parseSpreadsheet(r)
}

// Import parses an Excel upload and inserts the valid rows. Rows whose title
// and duration already exist in the catalog are skipped, not overwritten.
func (s *AchievementService) Import(r io.Reader) (*ImportResult, error) {
	rows, err := parseSpreadsheet(r)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}
	for _, row := range rows {
		if row.Error != "" {
			result.Skipped++
			result.RowErrors = append(result.RowErrors, fmt.Sprintf("row %d: %s", row.RowNumber, row.Error))
			continue
		}

		if _, err := s.achievementRepo.FindByTitleAndDuration(row.Title, row.Duration); err == nil {
			result.Skipped++
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check for duplicate goal: %w", err)
		}

		achievement := &models.Achievement{
			Title:       row.Title,
			Description: row.Description,
			PointValue:  row.PointValue,
			Duration:    row.Duration,
			Frequency:   row.Frequency,
		}
		if err := s.achievementRepo.Create(achievement); err != nil {
			return nil, fmt.Errorf("failed to create achievement from row %d: %w", row.RowNumber, err)
		}
		result.Created++
	}
	return result, nil
}

// parseSpreadsheet reads the first sheet, expecting a header row followed by
// title, description, point value, duration (minutes), frequency columns.
func parseSpreadsheet(r io.Reader) ([]ImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoDataRows
	}
	raw, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet rows: %w", err)
	}
	if len(raw) < 2 {
		return nil, ErrNoDataRows
	}

	var rows []ImportRow
	for i, cells := range raw[1:] {
		row := ImportRow{RowNumber: i + 2}
		row.Title = strings.TrimSpace(cell(cells, 0))
		row.Description = strings.TrimSpace(cell(cells, 1))

		if row.Title == "" {
			if len(cells) == 0 || allEmpty(cells) {
				continue
			}
			row.Error = "title is required"
			rows = append(rows, row)
			continue
		}

		points, err := strconv.Atoi(strings.TrimSpace(cell(cells, 2)))
		if err != nil || points <= 0 {
			row.Error = "point value must be a positive integer"
			rows = append(rows, row)
			continue
		}
		row.PointValue = points

		durationCell := strings.TrimSpace(cell(cells, 3))
		if durationCell == "" {
			row.Duration = defaultDurationMinutes
		} else if minutes, err := strconv.Atoi(durationCell); err == nil && minutes >= 0 {
			row.Duration = minutes
		} else if minutes, ok := durationLabels[durationCell]; ok {
			row.Duration = minutes
		} else {
			row.Error = "duration must be minutes or a known label"
			rows = append(rows, row)
			continue
		}

		freq := models.Frequency(strings.ToLower(strings.TrimSpace(cell(cells, 4))))
		if !freq.Valid() {
			row.Error = "frequency must be daily, weekly, or monthly"
			rows = append(rows, row)
			continue
		}
		row.Frequency = freq

		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, ErrNoDataRows
	}
	return rows, nil
}

func cell(cells []string, i int) string {
	if i < len(cells) {
		return cells[i]
	}
	return ""
}

func allEmpty(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
