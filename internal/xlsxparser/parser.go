// =============================================================================
// Enrollment Converter - XLSX Parser
// =============================================================================
//
// This module reads enrollment records from an Excel workbook. It is the
// second input pipeline next to the CSV export and produces the same RawRow
// values, so both pipelines share the rename table and the renderer.
//
// WORKBOOK STRUCTURE (Expected Layout):
//   The active sheet is read. Its first row holds the column names, every
//   following row is one enrollment.
//
//   | Column A        | Column B           | Column C     | ... |
//   |-----------------|--------------------|--------------|-----|
//   | Teilnehmer-Name | Teilnehmer-Vorname | Geburtsdatum | ... |
//   | Muster          | Erika              | 01.02.2010   | ... |
//
// BLANK ROWS:
//   Rows whose cells are all empty are dropped by default. This differs from
//   the CSV pipeline and is controlled by Settings.SkipBlankRows.
//
// =============================================================================

package xlsxparser

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/friesen1895/enrollment-converter/internal/types"
)

// =============================================================================
// SHEET DATA STRUCTURE
// =============================================================================

// Settings controls the parser.
type Settings struct {
	// SkipBlankRows drops rows whose cells are all empty.
	SkipBlankRows bool
}

// SheetData represents the parsed worksheet.
type SheetData struct {
	// Headers contains the trimmed column headers from the first row.
	Headers []string

	// Rows contains the data rows in sheet order.
	Rows []types.RawRow

	// SourceFile is the path to the workbook.
	SourceFile string

	// SheetName is the name of the sheet that was read.
	SheetName string

	// RowCount is the number of rows in Rows.
	RowCount int

	// SkippedRows is the number of blank rows dropped by SkipBlankRows.
	SkippedRows int
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads the active sheet of an XLSX workbook.
//
// PARAMETERS:
//   - workbookPath: The path to the workbook.
//   - settings: The parser settings.
//
// RETURNS:
//   - A pointer to the SheetData struct. A sheet with only a header row
//     yields zero rows and no error.
//   - One of NotFoundError, EmptyFileError, ValidationError, or a wrapped
//     excelize error when the workbook cannot be opened.
func Parse(workbookPath string, settings Settings) (*SheetData, error) {
	if _, err := os.Stat(workbookPath); errors.Is(err, os.ErrNotExist) {
		return nil, &types.NotFoundError{Path: workbookPath}
	}

	f, err := excelize.OpenFile(workbookPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook '%s': %w", workbookPath, err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(f.GetActiveSheetIndex())
	if sheetName == "" {
		return nil, &types.ValidationError{Path: workbookPath, Message: "no active worksheet found"}
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows of sheet '%s': %w", sheetName, err)
	}

	if len(rows) == 0 || isRowEmpty(rows[0]) {
		return nil, &types.EmptyFileError{Path: workbookPath}
	}

	headers := cleanHeaders(rows[0])

	data := &SheetData{
		Headers:    headers,
		Rows:       make([]types.RawRow, 0, len(rows)-1),
		SourceFile: workbookPath,
		SheetName:  sheetName,
	}

	for _, cells := range rows[1:] {
		row := parseRow(headers, cells)
		if settings.SkipBlankRows && row.IsBlank() {
			data.SkippedRows++
			continue
		}
		data.Rows = append(data.Rows, row)
	}

	data.RowCount = len(data.Rows)
	return data, nil
}

// parseRow pairs worksheet cells with the headers. excelize trims trailing
// empty cells, so short rows are padded with empty values.
func parseRow(headers, cells []string) types.RawRow {
	row := make(types.RawRow, len(headers))

	getCell := func(index int) string {
		if index < len(cells) {
			return cells[index]
		}
		return ""
	}

	for i, header := range headers {
		row[header] = getCell(i)
	}
	return row
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// cleanHeaders trims header names and names empty ones after their column
// position.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	for i, header := range headers {
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		cleaned[i] = header
	}
	return cleaned
}
