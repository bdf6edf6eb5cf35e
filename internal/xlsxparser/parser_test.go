package xlsxparser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/friesen1895/enrollment-converter/internal/types"
)

// writeWorkbook creates a workbook whose first sheet holds rows, starting
// at A1.
func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	path := filepath.Join(t.TempDir(), "anmeldungen.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestParse(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"Teilnehmer-Name", " Teilnehmer-Vorname ", "Geburtsdatum"},
		{"Müller", "Jürgen", "01.02.2010"},
		{"Muster", "Erika"},
	})

	data, err := Parse(path, Settings{SkipBlankRows: true})
	require.NoError(t, err)

	assert.Equal(t, "Sheet1", data.SheetName)
	assert.Equal(t, []string{"Teilnehmer-Name", "Teilnehmer-Vorname", "Geburtsdatum"}, data.Headers)
	require.Equal(t, 2, data.RowCount)
	assert.Equal(t, types.RawRow{
		"Teilnehmer-Name":    "Müller",
		"Teilnehmer-Vorname": "Jürgen",
		"Geburtsdatum":       "01.02.2010",
	}, data.Rows[0])
	assert.Equal(t, "", data.Rows[1]["Geburtsdatum"])
}

func TestParse_BlankRows(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"a", "b"},
		{"1", "2"},
		{"", ""},
		{"3", "4"},
	})

	skipped, err := Parse(path, Settings{SkipBlankRows: true})
	require.NoError(t, err)
	assert.Equal(t, 2, skipped.RowCount)
	assert.Equal(t, 1, skipped.SkippedRows)

	kept, err := Parse(path, Settings{SkipBlankRows: false})
	require.NoError(t, err)
	assert.Equal(t, 3, kept.RowCount)
	assert.Equal(t, types.RawRow{"a": "", "b": ""}, kept.Rows[1])
}

func TestParse_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Parse(filepath.Join(t.TempDir(), "missing.xlsx"), Settings{})
		var nf *types.NotFoundError
		assert.ErrorAs(t, err, &nf)
	})

	t.Run("empty sheet", func(t *testing.T) {
		_, err := Parse(writeWorkbook(t, nil), Settings{})
		var ef *types.EmptyFileError
		assert.ErrorAs(t, err, &ef)
	})

	t.Run("not a workbook", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.xlsx")
		require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o644))
		_, err := Parse(path, Settings{})
		assert.Error(t, err)
	})
}

func TestCleanHeaders(t *testing.T) {
	assert.Equal(t, []string{"Name", "Column_2"}, cleanHeaders([]string{" Name", ""}))
}
