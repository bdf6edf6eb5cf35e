package fieldmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/friesen1895/enrollment-converter/internal/types"
)

func TestRename(t *testing.T) {
	row := types.RawRow{
		"Teilnehmer-Name":    "Muster",
		"Teilnehmer-Vorname": "Erika",
		"IBAN":               "DE89370400440532013000",
		"fd_member":          "42",
		"Beitrag":            "120",
		"Unbekannt":          "x",
	}

	rec := Rename(row)

	assert.Equal(t, "Muster", rec[LastName])
	assert.Equal(t, "Erika", rec[FirstName])
	assert.Equal(t, "DE89370400440532013000", rec[IBAN])

	// Exactly the canonical fields, every one present.
	require.Len(t, rec, len(CanonicalFields()))
	for _, field := range CanonicalFields() {
		_, ok := rec[field]
		assert.True(t, ok, field)
	}

	// Dropped and unknown columns never reach the record.
	for _, value := range rec {
		assert.NotEqual(t, "42", value)
		assert.NotEqual(t, "120", value)
		assert.NotEqual(t, "x", value)
	}

	// The input is not modified.
	assert.Len(t, row, 6)
}

func TestRename_EmptyRow(t *testing.T) {
	rec := Rename(types.RawRow{})
	require.Len(t, rec, len(CanonicalFields()))
	for field, value := range rec {
		assert.Empty(t, value, field)
	}
}

func TestRenameAll_PreservesOrder(t *testing.T) {
	rows := []types.RawRow{
		{"Teilnehmer-Name": "A"},
		{"Teilnehmer-Name": "B"},
		{"Teilnehmer-Name": "C"},
	}

	records := RenameAll(rows)
	require.Len(t, records, 3)
	for i, want := range []string{"A", "B", "C"} {
		assert.Equal(t, want, records[i].Get(LastName))
	}
}

func TestLookup(t *testing.T) {
	target, ok := Lookup("Geburtsdatum")
	assert.True(t, ok)
	assert.Equal(t, BirthDate, target)

	target, ok = Lookup("fd_member")
	assert.True(t, ok)
	assert.Empty(t, target)

	_, ok = Lookup("Unbekannt")
	assert.False(t, ok)
}

func TestTableHasUniqueEntries(t *testing.T) {
	sources := map[string]bool{}
	targets := map[string]bool{}
	for _, e := range table {
		assert.False(t, sources[e.Source], "duplicate source %q", e.Source)
		sources[e.Source] = true
		if e.Target != "" {
			assert.False(t, targets[e.Target], "duplicate target %q", e.Target)
			targets[e.Target] = true
		}
	}
	assert.Len(t, MappedColumns(), len(CanonicalFields()))
}

func TestClassify(t *testing.T) {
	report := Classify([]string{"Teilnehmer-Name", " id ", "Zusatz", "Anmerkung", "Teilnehmer-Name", ""})

	assert.Equal(t, []string{"Teilnehmer-Name"}, report.Mapped)
	assert.Equal(t, []string{"id"}, report.Dropped)
	assert.Equal(t, []string{"Anmerkung", "Zusatz"}, report.Unknown)
	assert.Len(t, report.Missing, len(MappedColumns())-1)
	assert.NotContains(t, report.Missing, "Teilnehmer-Name")
}
