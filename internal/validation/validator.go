// =============================================================================
// Enrollment Converter - Data Checks
// =============================================================================
//
// This module inspects canonical records for values that will print but are
// probably wrong, and header rows for mapped columns that are missing.
//
// SEVERITY:
//   Every finding is a warning. Warnings are logged and reported to the
//   user; they never stop a conversion and never change what is drawn.
//
// CHECKS:
//   | Rule              | Field      | Condition                          |
//   |-------------------|------------|------------------------------------|
//   | iban_checksum     | iban       | ISO 13616 structure and mod-97 = 1 |
//   | birth_date_format | birth_date | DD.MM.YYYY calendar date           |
//   | email_format      | email      | local@domain                       |
//   | missing_column    | (header)   | mapped source column not present   |
//
// Empty values are never reported. Whether a field is required is the
// business of the form, not of this tool.
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/friesen1895/enrollment-converter/internal/fieldmap"
	"github.com/friesen1895/enrollment-converter/internal/types"
)

// Rule names.
const (
	RuleIBANChecksum    = "iban_checksum"
	RuleBirthDateFormat = "birth_date_format"
	RuleEmailFormat     = "email_format"
	RuleMissingColumn   = "missing_column"
	RuleCustom          = "custom"
)

// BirthDateLayout is the expected birth date format.
const BirthDateLayout = "02.01.2006"

// =============================================================================
// WARNING TYPES
// =============================================================================

// Warning is a single finding.
type Warning struct {
	// Row is the one-based data row, or 0 for header findings.
	Row int

	// Field is the canonical field, or the source column for header findings.
	Field string

	// Value is the offending value.
	Value string

	// Rule is the check that produced the warning.
	Rule string

	// Message is a human-readable description.
	Message string
}

// String formats the warning for display.
func (w *Warning) String() string {
	if w.Row == 0 {
		return fmt.Sprintf("[WARNING] Column '%s': %s", w.Field, w.Message)
	}
	return fmt.Sprintf("[WARNING] Row %d, Field '%s': %s (value: '%s')",
		w.Row, w.Field, w.Message, w.Value)
}

// Result contains the findings for one input file.
type Result struct {
	Warnings []*Warning

	// RecordsChecked is the number of records inspected.
	RecordsChecked int
}

// =============================================================================
// VALIDATOR
// =============================================================================

// CustomValidatorFunc checks one field value and returns a message when the
// value is suspicious, or "" when it is fine.
type CustomValidatorFunc func(value string, record types.Record) string

// Options configures a Validator.
type Options struct {
	// CustomValidators maps a canonical field to an additional check.
	CustomValidators map[string]CustomValidatorFunc
}

// Validator runs the checks.
type Validator struct {
	options Options
}

// NewValidator creates a Validator with the built-in checks only.
func NewValidator() *Validator {
	return &Validator{}
}

// NewValidatorWithOptions creates a Validator with additional checks.
func NewValidatorWithOptions(options Options) *Validator {
	return &Validator{options: options}
}

// Validate checks headers and records with the built-in checks.
func Validate(headers []string, records []types.Record) *Result {
	return NewValidator().ValidateAll(headers, records)
}

// ValidateAll checks the header row and every record.
func (v *Validator) ValidateAll(headers []string, records []types.Record) *Result {
	result := &Result{RecordsChecked: len(records)}

	result.Warnings = append(result.Warnings, CheckColumns(headers)...)
	for i, rec := range records {
		result.Warnings = append(result.Warnings, v.ValidateRecord(i+1, rec)...)
	}

	return result
}

// CheckColumns reports every mapped source column that the header lacks.
func CheckColumns(headers []string) []*Warning {
	var warnings []*Warning
	for _, column := range fieldmap.Classify(headers).Missing {
		warnings = append(warnings, &Warning{
			Field:   column,
			Rule:    RuleMissingColumn,
			Message: "column is missing, its field will be empty on every page",
		})
	}
	return warnings
}

// ValidateRecord checks one record. row is used for reporting only.
func (v *Validator) ValidateRecord(row int, rec types.Record) []*Warning {
	var warnings []*Warning

	add := func(field, rule, message string) {
		warnings = append(warnings, &Warning{
			Row:     row,
			Field:   field,
			Value:   rec.Get(field),
			Rule:    rule,
			Message: message,
		})
	}

	if msg := validateIBAN(rec.Get(fieldmap.IBAN)); msg != "" {
		add(fieldmap.IBAN, RuleIBANChecksum, msg)
	}
	if msg := validateBirthDate(rec.Get(fieldmap.BirthDate)); msg != "" {
		add(fieldmap.BirthDate, RuleBirthDateFormat, msg)
	}
	if msg := validateEmail(rec.Get(fieldmap.Email)); msg != "" {
		add(fieldmap.Email, RuleEmailFormat, msg)
	}

	for _, field := range fieldmap.CanonicalFields() {
		check, ok := v.options.CustomValidators[field]
		if !ok {
			continue
		}
		if msg := check(rec.Get(field), rec); msg != "" {
			add(field, RuleCustom, msg)
		}
	}

	return warnings
}

// =============================================================================
// FIELD CHECKS
// =============================================================================

// validateIBAN checks the structure and the ISO 7064 mod-97 checksum of an
// IBAN. Spaces are ignored and letters may be lower case.
func validateIBAN(value string) string {
	iban := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(value), " ", ""))
	if iban == "" {
		return ""
	}

	if len(iban) < 15 || len(iban) > 34 {
		return fmt.Sprintf("IBAN has %d characters, expected 15 to 34", len(iban))
	}
	for i, r := range iban {
		switch {
		case i < 2 && !isUpperASCII(r):
			return "IBAN must start with a two-letter country code"
		case i >= 2 && i < 4 && !isDigit(r):
			return "IBAN check digits must be numeric"
		case !isDigit(r) && !isUpperASCII(r):
			return fmt.Sprintf("IBAN contains invalid character %q", r)
		}
	}

	// Move the first four characters to the end and read letters as 10..35.
	rearranged := iban[4:] + iban[:4]
	remainder := 0
	for _, r := range rearranged {
		if isDigit(r) {
			remainder = (remainder*10 + int(r-'0')) % 97
		} else {
			remainder = (remainder*100 + int(r-'A'+10)) % 97
		}
	}
	if remainder != 1 {
		return "IBAN checksum is invalid"
	}

	return ""
}

// validateBirthDate checks for a DD.MM.YYYY calendar date.
func validateBirthDate(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}

	if _, err := time.Parse(BirthDateLayout, value); err != nil {
		return "birth date does not match format DD.MM.YYYY"
	}
	return ""
}

// validateEmail checks that an address has exactly one @ with text on both
// sides and no whitespace.
func validateEmail(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}

	local, domain, found := strings.Cut(value, "@")
	if !found || local == "" || domain == "" || strings.Contains(domain, "@") {
		return "e-mail address must have the form name@domain"
	}
	if strings.IndexFunc(value, unicode.IsSpace) >= 0 {
		return "e-mail address contains whitespace"
	}
	return ""
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isUpperASCII(r rune) bool {
	return r >= 'A' && r <= 'Z'
}

// =============================================================================
// ERROR FORMATTING
// =============================================================================

// FormatWarnings formats warnings for display or logging.
//
// PARAMETERS:
//   - warnings: The warnings to format.
//
// RETURNS:
//   - A formatted string containing all warnings.
func FormatWarnings(warnings []*Warning) string {
	if len(warnings) == 0 {
		return "No warnings."
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Validation completed with %d warning(s):\n\n", len(warnings)))

	for i, w := range warnings {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, w.String()))
	}

	return builder.String()
}
