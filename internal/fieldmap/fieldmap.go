// =============================================================================
// Enrollment Converter - Field Mapping
// =============================================================================
//
// This module owns the static rename table that maps the column names of the
// enrollment export to canonical field names used by the renderer.
//
// TABLE SEMANTICS:
//   | Source column       | Canonical field | Effect                          |
//   |---------------------|-----------------|---------------------------------|
//   | Teilnehmer-Name     | last_name       | value copied under new name     |
//   | Geburtsdatum        | birth_date      | value copied under new name     |
//   | fd_member           | (none)          | column dropped                  |
//   | anything else       | -               | column dropped                  |
//
// The table is built once at package initialisation and never mutated.
// Callers only see copies.
//
// =============================================================================

package fieldmap

import (
	"sort"
	"strings"

	"github.com/friesen1895/enrollment-converter/internal/types"
)

// =============================================================================
// CANONICAL FIELD NAMES
// =============================================================================

const (
	Goal              = "goal"
	From              = "from"
	To                = "to"
	PreviousKnowledge = "previous_knowledge"
	Sex               = "sex"
	LastName          = "last_name"
	FirstName         = "first_name"
	BirthDate         = "birth_date"
	Street            = "street"
	Zip               = "zip"
	City              = "city"
	Phone             = "phone"
	Email             = "email"
	Profession        = "profession"
	IsMember          = "is_member"
	MemberID          = "member_id"
	Discount          = "discount"
	FamilyMember      = "family_member"
	HouseholdMembers  = "household_members"

	ApplicantSex       = "applicant_sex"
	ApplicantLastName  = "applicant_last_name"
	ApplicantFirstName = "applicant_first_name"
	ApplicantStreet    = "applicant_street"
	ApplicantZip       = "applicant_zip"
	ApplicantCity      = "applicant_city"

	AccountHolder = "account_holder"
	BankName      = "bank_name"
	IBAN          = "iban"
	BIC           = "bic"
)

// =============================================================================
// RENAME TABLE
// =============================================================================

// entry is one row of the rename table. An empty Target drops the column.
type entry struct {
	Source string
	Target string
}

// table lists every known source column in export order. Internal columns of
// the form backend map to no target.
var table = []entry{
	{"id", ""},
	{"sorting", ""},
	{"form", ""},
	{"date", ""},
	{"ip", ""},
	{"fd_member", ""},
	{"fd_user", ""},
	{"fd_member_group", ""},
	{"fd_user_group", ""},
	{"published", ""},
	{"alias", ""},
	{"confirmationSent", ""},
	{"confirmationDate", ""},
	{"be_notes", ""},
	{"Angebot", Goal},
	{"von", From},
	{"bis", To},
	{"Beitrag", ""},
	{"Unterricht", ""},
	{"Vorkentnisse", PreviousKnowledge},
	{"Geschlecht", Sex},
	{"Teilnehmer-Name", LastName},
	{"Teilnehmer-Vorname", FirstName},
	{"Geburtsdatum", BirthDate},
	{"Strasse_Teilnehmer", Street},
	{"PLZ_Teilnehmer", Zip},
	{"Ort_Teilnehmer", City},
	{"Telefon", Phone},
	{"E-Mail", Email},
	{"Beruf", Profession},
	{"Vereinsmitglied", IsMember},
	{"Vereinsmitglied_Mitgliedsnummer", MemberID},
	{"Ermaessigung", Discount},
	{"Familienmitglied", FamilyMember},
	{"Mitglieder_Haushalt", HouseholdMembers},
	{"Geschlecht_Antragsteller", ApplicantSex},
	{"Name-Antragsteller", ApplicantLastName},
	{"Vorname-Antragsteller", ApplicantFirstName},
	{"Strasse_Antragsteller", ApplicantStreet},
	{"PLZ_Antragsteller", ApplicantZip},
	{"Ort_Antragsteller", ApplicantCity},
	{"check-Sportgesundheit", ""},
	{"check-Datenschutz", ""},
	{"check-Coronaschutz", ""},
	{"Kontoinhaber", AccountHolder},
	{"Kreditinstitut", BankName},
	{"IBAN", IBAN},
	{"BIC", BIC},
}

// bySource indexes table by source column.
var bySource = func() map[string]string {
	m := make(map[string]string, len(table))
	for _, e := range table {
		m[e.Source] = e.Target
	}
	return m
}()

// =============================================================================
// RENAME STEP
// =============================================================================

// Rename converts a raw input row into a canonical record.
//
// The result contains exactly the canonical fields of the table. A field
// whose source column is missing from row gets an empty value. Columns that
// are unknown or mapped to no target never reach the result. Rename does not
// modify row.
func Rename(row types.RawRow) types.Record {
	record := make(types.Record, len(table))
	for _, e := range table {
		if e.Target == "" {
			continue
		}
		record[e.Target] = row[e.Source]
	}
	return record
}

// RenameAll applies Rename to every row, preserving order.
func RenameAll(rows []types.RawRow) []types.Record {
	records := make([]types.Record, len(rows))
	for i, row := range rows {
		records[i] = Rename(row)
	}
	return records
}

// =============================================================================
// TABLE QUERIES
// =============================================================================

// Lookup returns the canonical field for a source column. ok is false when
// the column is not in the table; target is "" when the column is known but
// dropped.
func Lookup(source string) (target string, ok bool) {
	target, ok = bySource[source]
	return target, ok
}

// CanonicalFields returns the canonical field names in table order.
func CanonicalFields() []string {
	fields := make([]string, 0, len(table))
	for _, e := range table {
		if e.Target != "" {
			fields = append(fields, e.Target)
		}
	}
	return fields
}

// MappedColumns returns the source columns that map to a canonical field,
// in table order.
func MappedColumns() []string {
	columns := make([]string, 0, len(table))
	for _, e := range table {
		if e.Target != "" {
			columns = append(columns, e.Source)
		}
	}
	return columns
}

// ColumnReport classifies a header row against the table.
type ColumnReport struct {
	// Mapped are header columns that feed a canonical field.
	Mapped []string

	// Dropped are header columns known to the table but without a target.
	Dropped []string

	// Unknown are header columns the table does not list. They are ignored.
	Unknown []string

	// Missing are mapped source columns absent from the header. Their
	// canonical fields will be empty in every record.
	Missing []string
}

// Classify compares a header row against the table.
func Classify(headers []string) ColumnReport {
	var report ColumnReport
	present := make(map[string]bool, len(headers))

	for _, header := range headers {
		header = strings.TrimSpace(header)
		if header == "" || present[header] {
			continue
		}
		present[header] = true

		target, known := bySource[header]
		switch {
		case !known:
			report.Unknown = append(report.Unknown, header)
		case target == "":
			report.Dropped = append(report.Dropped, header)
		default:
			report.Mapped = append(report.Mapped, header)
		}
	}

	for _, column := range MappedColumns() {
		if !present[column] {
			report.Missing = append(report.Missing, column)
		}
	}

	sort.Strings(report.Unknown)
	return report
}
