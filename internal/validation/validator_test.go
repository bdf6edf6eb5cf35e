package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/friesen1895/enrollment-converter/internal/fieldmap"
	"github.com/friesen1895/enrollment-converter/internal/types"
)

func TestValidateIBAN(t *testing.T) {
	tests := []struct {
		name  string
		value string
		valid bool
	}{
		{name: "empty", value: "", valid: true},
		{name: "german", value: "DE89370400440532013000", valid: true},
		{name: "grouped lower case", value: "de89 3704 0044 0532 0130 00", valid: true},
		{name: "british", value: "GB29NWBK60161331926819", valid: true},
		{name: "dutch", value: "NL91ABNA0417164300", valid: true},
		{name: "wrong checksum", value: "DE89370400440532013001", valid: false},
		{name: "too short", value: "DE8937040044", valid: false},
		{name: "no country code", value: "1289370400440532013000", valid: false},
		{name: "invalid character", value: "DE89370400440532013-00", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := validateIBAN(tt.value)
			if tt.valid {
				assert.Empty(t, msg)
			} else {
				assert.NotEmpty(t, msg)
			}
		})
	}
}

func TestValidateBirthDate(t *testing.T) {
	for _, value := range []string{"", "01.02.2010", "29.02.2012", " 31.12.1999 "} {
		assert.Empty(t, validateBirthDate(value), value)
	}
	for _, value := range []string{"2010-02-01", "1.2.2010", "31.02.2010", "gestern"} {
		assert.NotEmpty(t, validateBirthDate(value), value)
	}
}

func TestValidateEmail(t *testing.T) {
	for _, value := range []string{"", "erika@example.org", "a@b"} {
		assert.Empty(t, validateEmail(value), value)
	}
	for _, value := range []string{"erika.example.org", "@example.org", "erika@", "a@b@c", "erika muster@example.org"} {
		assert.NotEmpty(t, validateEmail(value), value)
	}
}

func TestValidateAll(t *testing.T) {
	headers := fieldmap.MappedColumns()

	good := fieldmap.Rename(types.RawRow{
		"IBAN":         "DE89370400440532013000",
		"Geburtsdatum": "01.02.2010",
		"E-Mail":       "erika@example.org",
	})
	bad := fieldmap.Rename(types.RawRow{
		"IBAN":         "DE00370400440532013000",
		"Geburtsdatum": "2010-02-01",
		"E-Mail":       "erika",
	})

	result := Validate(headers, []types.Record{good, bad})
	assert.Equal(t, 2, result.RecordsChecked)
	require.Len(t, result.Warnings, 3)

	rules := make([]string, 0, len(result.Warnings))
	for _, w := range result.Warnings {
		assert.Equal(t, 2, w.Row)
		rules = append(rules, w.Rule)
	}
	assert.ElementsMatch(t, []string{RuleIBANChecksum, RuleBirthDateFormat, RuleEmailFormat}, rules)
}

func TestCheckColumns(t *testing.T) {
	headers := []string{"Teilnehmer-Name", "Teilnehmer-Vorname", "id", "Unbekannt"}

	warnings := CheckColumns(headers)
	assert.Len(t, warnings, len(fieldmap.MappedColumns())-2)
	for _, w := range warnings {
		assert.Equal(t, RuleMissingColumn, w.Rule)
		assert.Zero(t, w.Row)
		assert.NotEqual(t, "Teilnehmer-Name", w.Field)
	}

	assert.Empty(t, CheckColumns(fieldmap.MappedColumns()))
}

func TestCustomValidators(t *testing.T) {
	v := NewValidatorWithOptions(Options{
		CustomValidators: map[string]CustomValidatorFunc{
			fieldmap.Zip: func(value string, _ types.Record) string {
				if len(value) != 5 {
					return "postal code must have five digits"
				}
				return ""
			},
		},
	})

	warnings := v.ValidateRecord(7, fieldmap.Rename(types.RawRow{"PLZ_Teilnehmer": "123"}))
	require.Len(t, warnings, 1)
	assert.Equal(t, RuleCustom, warnings[0].Rule)
	assert.Equal(t, fieldmap.Zip, warnings[0].Field)
	assert.Equal(t, "123", warnings[0].Value)
	assert.Equal(t, 7, warnings[0].Row)
}

func TestFormatWarnings(t *testing.T) {
	assert.Equal(t, "No warnings.", FormatWarnings(nil))

	out := FormatWarnings([]*Warning{
		{Field: "IBAN", Rule: RuleMissingColumn, Message: "column is missing"},
		{Row: 2, Field: fieldmap.Email, Value: "erika", Rule: RuleEmailFormat, Message: "bad"},
	})
	assert.True(t, strings.HasPrefix(out, "Validation completed with 2 warning(s):"))
	assert.Contains(t, out, "1. [WARNING] Column 'IBAN': column is missing")
	assert.Contains(t, out, "2. [WARNING] Row 2, Field 'email': bad (value: 'erika')")
}
