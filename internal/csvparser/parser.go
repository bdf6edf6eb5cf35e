// =============================================================================
// Enrollment Converter - CSV Parser Module
// =============================================================================
//
// This module reads the enrollment export of the club website: a text file
// in Windows-1252 encoding with semicolon-delimited fields and one header
// row.
//
// PARSING PROCESS:
//   1. Read the file (NotFoundError if the path does not exist)
//   2. Reject bytes undefined in Windows-1252 (DecodeError)
//   3. Decode to UTF-8
//   4. Reject a blank first line (EmptyFileError)
//   5. Split into records on ';' and take the first record as header
//      (ValidationError if it has no field names)
//   6. Convert every following record to a RawRow of header -> value
//
// Rows keep their source order. Blank rows are kept unless
// Settings.SkipBlankRows is set.
//
// =============================================================================

package csvparser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/friesen1895/enrollment-converter/internal/types"
)

// =============================================================================
// FORMAT CONSTANTS
// =============================================================================

const (
	// Delimiter separates fields on a line.
	Delimiter = ';'

	// EncodingName is the name reported in decode errors.
	EncodingName = "Windows-1252"
)

// undefinedBytes are the code points Windows-1252 leaves unassigned. The
// charmap decoder passes them through as C1 controls, so they are rejected
// before decoding.
var undefinedBytes = [256]bool{0x81: true, 0x8D: true, 0x8F: true, 0x90: true, 0x9D: true}

// =============================================================================
// CSV DATA STRUCTURE
// =============================================================================

// Settings controls the parser.
type Settings struct {
	// SkipBlankRows drops data rows whose fields are all empty.
	SkipBlankRows bool
}

// CSVData represents the parsed CSV file.
type CSVData struct {
	// Headers contains the trimmed column headers from the first line.
	Headers []string

	// Rows contains the data rows in file order.
	Rows []types.RawRow

	// SourceFile is the path to the source CSV file.
	SourceFile string

	// RowCount is the number of rows in Rows.
	RowCount int

	// SkippedRows is the number of blank rows dropped by SkipBlankRows.
	SkippedRows int
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a CSV file and returns the parsed data.
//
// PARAMETERS:
//   - filePath: The path to the CSV file.
//   - settings: The parser settings.
//
// RETURNS:
//   - A pointer to the CSVData struct containing the parsed data. A file
//     with only a header line yields zero rows and no error.
//   - One of NotFoundError, DecodeError, EmptyFileError, ValidationError.
func Parse(filePath string, settings Settings) (*CSVData, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &types.NotFoundError{Path: filePath}
		}
		return nil, fmt.Errorf("failed to read file '%s': %w", filePath, err)
	}

	text, err := Decode(filePath, raw)
	if err != nil {
		return nil, err
	}

	return parseText(filePath, text, settings)
}

// Decode converts Windows-1252 bytes to UTF-8, failing on the first
// undefined byte.
func Decode(filePath string, raw []byte) ([]byte, error) {
	for offset, b := range raw {
		if undefinedBytes[b] {
			return nil, &types.DecodeError{
				Path:     filePath,
				Encoding: EncodingName,
				Offset:   offset,
				Byte:     b,
			}
		}
	}

	text, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, &types.DecodeError{Path: filePath, Encoding: EncodingName}
	}
	return text, nil
}

// parseText splits decoded text into headers and rows.
func parseText(filePath string, text []byte, settings Settings) (*CSVData, error) {
	firstLine := text
	if i := bytes.IndexByte(text, '\n'); i >= 0 {
		firstLine = text[:i]
	}
	if len(bytes.TrimSpace(firstLine)) == 0 {
		return nil, &types.EmptyFileError{Path: filePath}
	}

	csvReader := csv.NewReader(bytes.NewReader(text))
	configureReader(csvReader)

	allRows, err := csvReader.ReadAll()
	if err != nil {
		return nil, &types.ValidationError{Path: filePath, Message: err.Error()}
	}
	if len(allRows) == 0 {
		return nil, &types.EmptyFileError{Path: filePath}
	}

	headers, ok := cleanHeaders(allRows[0])
	if !ok {
		return nil, &types.ValidationError{Path: filePath, Message: "header row has no fields"}
	}

	data := &CSVData{
		Headers:    headers,
		Rows:       make([]types.RawRow, 0, len(allRows)-1),
		SourceFile: filePath,
	}

	for _, record := range allRows[1:] {
		row := toRawRow(headers, record)
		if settings.SkipBlankRows && row.IsBlank() {
			data.SkippedRows++
			continue
		}
		data.Rows = append(data.Rows, row)
	}

	data.RowCount = len(data.Rows)
	return data, nil
}

// configureReader configures the CSV reader for the export format.
func configureReader(reader *csv.Reader) {
	reader.Comma = Delimiter

	// Rows may be shorter or longer than the header.
	reader.FieldsPerRecord = -1

	// The export does not escape stray quotes inside free-text fields.
	reader.LazyQuotes = true
}

// cleanHeaders trims header names and names empty ones after their column
// position. ok is false when every header is empty.
func cleanHeaders(headers []string) ([]string, bool) {
	cleaned := make([]string, len(headers))
	named := false

	for i, header := range headers {
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		} else {
			named = true
		}
		cleaned[i] = header
	}

	return cleaned, named
}

// toRawRow pairs a record with the headers. Missing trailing fields become
// empty values; surplus fields are dropped.
func toRawRow(headers, record []string) types.RawRow {
	row := make(types.RawRow, len(headers))
	for i, header := range headers {
		if i < len(record) {
			row[header] = record[i]
		} else {
			row[header] = ""
		}
	}
	return row
}
