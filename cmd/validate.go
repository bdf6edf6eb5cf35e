// =============================================================================
// Enrollment Converter - Validate Command
// =============================================================================
//
// This file defines the 'validate' command. It reads an input file the same
// way the conversion does and reports what would happen, without writing a
// document.
//
// COMMAND USAGE:
//   enrollment-converter validate <input>
//
// EXIT STATUS:
//   Non-zero only when the file cannot be read. Data warnings and missing
//   columns are reported but do not fail the command.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/friesen1895/enrollment-converter/internal/converter"
	"github.com/friesen1895/enrollment-converter/internal/validation"
)

// validateCmd represents the 'validate' command.
var validateCmd = &cobra.Command{
	Use:   "validate <input>",
	Short: "Check an input file without converting it",
	Long: `Validate reads the input file and reports the number of records, which
columns are used, ignored or missing, and suspicious values such as invalid
IBANs or malformed birth dates.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if appConfig == nil {
			return errNotSetUp
		}

		report, err := converter.New(appConfig, converter.WithLogger(logger)).Inspect(args[0])
		if err != nil {
			return err
		}

		printReport(cmd.OutOrStdout(), report)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// printReport writes a human-readable inspection report.
func printReport(w io.Writer, r *converter.Report) {
	fmt.Fprintf(w, "File:            %s (%s)\n", r.InputFile, r.Pipeline)
	if r.SheetName != "" {
		fmt.Fprintf(w, "Sheet:           %s\n", r.SheetName)
	}
	fmt.Fprintf(w, "Records:         %d\n", r.Rows)
	fmt.Fprintf(w, "Skipped rows:    %d\n", r.SkippedRows)
	fmt.Fprintf(w, "Used columns:    %s\n", joinOrNone(r.Columns.Mapped))
	fmt.Fprintf(w, "Ignored columns: %s\n", joinOrNone(slices.Concat(r.Columns.Dropped, r.Columns.Unknown)))
	fmt.Fprintf(w, "Missing columns: %s\n", joinOrNone(r.Columns.Missing))
	fmt.Fprintln(w)
	fmt.Fprint(w, validation.FormatWarnings(r.Warnings))
	if len(r.Warnings) == 0 {
		fmt.Fprintln(w)
	}
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}
