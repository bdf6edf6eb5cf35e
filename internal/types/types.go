// =============================================================================
// Enrollment Converter - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - csvparser / xlsxparser (RawRow)
//   - fieldmap               (Record)
//   - render / document      (Record)
//   - converter / cmd        (error taxonomy, see errors.go)
//
// =============================================================================

package types

import "strings"

// =============================================================================
// ROW TYPES
// =============================================================================

// RawRow is one input line after the header row, keyed by the source column
// name exactly as it appears in the header. It lives only until the rename
// step has produced a Record from it.
type RawRow map[string]string

// Record is one enrollment, keyed by canonical field name (for example
// "last_name" or "iban"). Every canonical field of the rename table is
// present, with an empty string when the source had no value.
type Record map[string]string

// Get returns the value of a canonical field, or "" when it is absent.
func (r Record) Get(field string) string {
	return r[field]
}

// IsBlank reports whether every value in the row is empty or whitespace.
func (r RawRow) IsBlank() bool {
	for _, value := range r {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}
