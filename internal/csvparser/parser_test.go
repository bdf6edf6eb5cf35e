package csvparser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/friesen1895/enrollment-converter/internal/types"
)

// writeCP1252 encodes text as Windows-1252 and writes it to a temp file.
func writeCP1252(t *testing.T, text string) string {
	t.Helper()
	raw, err := charmap.Windows1252.NewEncoder().Bytes([]byte(text))
	require.NoError(t, err)
	return writeRaw(t, raw)
}

func writeRaw(t *testing.T, raw []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, os.WriteFile(path, raw, 0o644))
	return path
}

func TestParse(t *testing.T) {
	path := writeCP1252(t, "Teilnehmer-Name;Teilnehmer-Vorname;Strasse_Teilnehmer\r\n"+
		"Müller;Jürgen;Großer Weg 3\r\n"+
		"Muster;Erika;\r\n")

	data, err := Parse(path, Settings{})
	require.NoError(t, err)

	assert.Equal(t, []string{"Teilnehmer-Name", "Teilnehmer-Vorname", "Strasse_Teilnehmer"}, data.Headers)
	require.Equal(t, 2, data.RowCount)
	assert.Equal(t, types.RawRow{
		"Teilnehmer-Name":    "Müller",
		"Teilnehmer-Vorname": "Jürgen",
		"Strasse_Teilnehmer": "Großer Weg 3",
	}, data.Rows[0])
	assert.Equal(t, "Muster", data.Rows[1]["Teilnehmer-Name"])
	assert.Equal(t, "", data.Rows[1]["Strasse_Teilnehmer"])
	assert.Equal(t, path, data.SourceFile)
}

func TestParse_ShortAndLongRows(t *testing.T) {
	path := writeCP1252(t, "a;b;c\n1\n1;2;3;4\n")

	data, err := Parse(path, Settings{})
	require.NoError(t, err)
	require.Len(t, data.Rows, 2)
	assert.Equal(t, types.RawRow{"a": "1", "b": "", "c": ""}, data.Rows[0])
	assert.Equal(t, types.RawRow{"a": "1", "b": "2", "c": "3"}, data.Rows[1])
}

func TestParse_QuotedFields(t *testing.T) {
	path := writeCP1252(t, "Name;Notiz\n\"Muster\";\"a;b\"\nGroß;sagt \"hallo\"\n")

	data, err := Parse(path, Settings{})
	require.NoError(t, err)
	require.Len(t, data.Rows, 2)
	assert.Equal(t, "a;b", data.Rows[0]["Notiz"])
	assert.Equal(t, `sagt "hallo"`, data.Rows[1]["Notiz"])
}

func TestParse_BlankRows(t *testing.T) {
	text := "a;b\n1;2\n;\n ; \n3;4\n"

	kept, err := Parse(writeCP1252(t, text), Settings{SkipBlankRows: false})
	require.NoError(t, err)
	assert.Equal(t, 4, kept.RowCount)
	assert.Zero(t, kept.SkippedRows)

	skipped, err := Parse(writeCP1252(t, text), Settings{SkipBlankRows: true})
	require.NoError(t, err)
	assert.Equal(t, 2, skipped.RowCount)
	assert.Equal(t, 2, skipped.SkippedRows)
}

func TestParse_HeaderOnly(t *testing.T) {
	data, err := Parse(writeCP1252(t, "a;b\n"), Settings{})
	require.NoError(t, err)
	assert.Empty(t, data.Rows)
}

func TestParse_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Parse(filepath.Join(t.TempDir(), "missing.csv"), Settings{})
		var nf *types.NotFoundError
		assert.ErrorAs(t, err, &nf)
	})

	t.Run("undefined byte", func(t *testing.T) {
		raw := []byte("a;b\n1;\x81\n")
		_, err := Parse(writeRaw(t, raw), Settings{})

		var de *types.DecodeError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, 6, de.Offset)
		assert.Equal(t, byte(0x81), de.Byte)
		assert.Equal(t, EncodingName, de.Encoding)
	})

	t.Run("blank first line", func(t *testing.T) {
		_, err := Parse(writeCP1252(t, "  \na;b\n"), Settings{})
		var ef *types.EmptyFileError
		assert.ErrorAs(t, err, &ef)
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := Parse(writeRaw(t, nil), Settings{})
		var ef *types.EmptyFileError
		assert.ErrorAs(t, err, &ef)
	})

	t.Run("header without names", func(t *testing.T) {
		_, err := Parse(writeCP1252(t, ";;\n1;2;3\n"), Settings{})
		var ve *types.ValidationError
		assert.ErrorAs(t, err, &ve)
	})
}

func TestDecode(t *testing.T) {
	text, err := Decode("x.csv", []byte{'G', 'r', 0xF6, 0xDF, 'e', ' ', 0x80})
	require.NoError(t, err)
	assert.Equal(t, "Größe €", string(text))

	for _, b := range []byte{0x81, 0x8D, 0x8F, 0x90, 0x9D} {
		_, err := Decode("x.csv", []byte{'a', b})
		var de *types.DecodeError
		require.ErrorAs(t, err, &de, "byte 0x%02X", b)
		assert.Equal(t, 1, de.Offset)
	}
}

func TestCleanHeaders(t *testing.T) {
	headers, ok := cleanHeaders([]string{" Name ", "", "Ort"})
	assert.True(t, ok)
	assert.Equal(t, []string{"Name", "Column_2", "Ort"}, headers)

	_, ok = cleanHeaders([]string{"", " "})
	assert.False(t, ok)
}
