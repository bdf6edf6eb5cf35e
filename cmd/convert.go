// =============================================================================
// Enrollment Converter - Convert Command
// =============================================================================
//
// This file defines the 'convert' command. It does the same as calling the
// root command with two arguments.
//
// COMMAND USAGE:
//   enrollment-converter convert <input> <output> [flags]
//
// OUTPUT:
//   Progress lines on stdout, one per record, followed by a summary. Logs go
//   to stderr.
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/friesen1895/enrollment-converter/internal/converter"
)

// convertCmd represents the 'convert' command.
var convertCmd = &cobra.Command{
	Use:   "convert <input> <output>",
	Short: "Convert an enrollment export into a PDF of application forms",
	Long: `Convert reads a .csv/.txt export (Windows-1252, ';'-separated) or an
.xlsx/.xlsm workbook and writes one application form page per record.

When <output> is an existing directory, the file name is generated from
output.file_name_format in the configuration.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(cmd, args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
}

// runConvert converts inputPath to outputPath and prints a summary.
func runConvert(cmd *cobra.Command, inputPath, outputPath string) error {
	if appConfig == nil {
		return errNotSetUp
	}
	out := cmd.OutOrStdout()

	conv := converter.New(appConfig,
		converter.WithLogger(logger),
		converter.WithProgress(func(message string) {
			fmt.Fprintln(out, message)
		}),
	)

	result, err := conv.Convert(inputPath, outputPath)
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "================================================================================")
	fmt.Fprintln(out, "CONVERSION SUMMARY")
	fmt.Fprintln(out, "================================================================================")
	fmt.Fprintf(out, "Input:          %s (%s)\n", result.InputFile, result.Pipeline)
	fmt.Fprintf(out, "Output:         %s\n", result.OutputFile)
	fmt.Fprintf(out, "Pages:          %d\n", result.Stats.PagesWritten)
	fmt.Fprintf(out, "Skipped rows:   %d\n", result.Stats.RowsSkipped)
	fmt.Fprintf(out, "Warnings:       %d\n", len(result.Warnings))
	fmt.Fprintf(out, "Time:           %s\n", result.Stats.ProcessingTime)
	fmt.Fprintln(out, "================================================================================")

	return nil
}
