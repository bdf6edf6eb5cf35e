// =============================================================================
// Enrollment Converter - Main Entry Point
// =============================================================================
//
// USAGE:
//   enrollment-converter <input> <output>   - Convert an export to PDF forms
//   enrollment-converter convert ...        - Same, as an explicit command
//   enrollment-converter validate <input>   - Check an input file
//   enrollment-converter version            - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : readers, rename table, renderer, document assembly
//   - pkg/       : shared file utilities
//
// =============================================================================

package main

import (
	"github.com/friesen1895/enrollment-converter/cmd"
)

func main() {
	cmd.Execute()
}
