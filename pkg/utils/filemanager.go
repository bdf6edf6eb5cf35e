// =============================================================================
// Enrollment Converter - File Manager Utility
// =============================================================================
//
// This module provides the file helpers of the converter:
//   - Output file naming from a format string with placeholders
//   - Output path resolution when the output argument is a directory
//   - Existence checks and file copies
//
// OUTPUT NAMING:
//   The user normally names the output file explicitly. When the output
//   argument is an existing directory, a name is generated from the
//   configured format and the input file name, and .pdf is enforced.
//
// =============================================================================

package utils

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PDFExtension is the extension of every generated document.
const PDFExtension = ".pdf"

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName generates an output file name.
//
// PARAMETERS:
//   - format: The format string for the file name.
//     Placeholders:
//     {uuid}      - A random UUID
//     {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//     {date}      - Current date (YYYYMMDD)
//     {time}      - Current time (HHMMSS)
//     {original}  - Input file name without extension
//   - params: A map of placeholder values, keyed without braces.
//
// RETURNS:
//   - The generated file name, always ending in .pdf.
//
// EXAMPLE:
//
//	format: "{original}_{timestamp}.pdf"
//	params: {"original": "anmeldungen"}
//	output: "anmeldungen_20240115_143022.pdf"
func GenerateOutputFileName(format string, params map[string]string) string {
	return generateOutputFileName(format, params, time.Now())
}

func generateOutputFileName(format string, params map[string]string, now time.Time) string {
	replacements := map[string]string{
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}
	if strings.Contains(format, "{uuid}") {
		replacements["{uuid}"] = uuid.New().String()
	}

	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	if !strings.HasSuffix(strings.ToLower(result), PDFExtension) {
		result += PDFExtension
	}

	return result
}

// =============================================================================
// OUTPUT PATH RESOLUTION
// =============================================================================

// ResolveOutputPath returns the document path for a conversion.
//
// PARAMETERS:
//   - inputPath: The input file; its base name fills {original}.
//   - outputPath: A file path, or an existing directory.
//   - format: The file name format used when outputPath is a directory.
//
// RETURNS:
//   - outputPath unchanged when it is not a directory, otherwise a generated
//     file name inside it.
//   - An error if the directory that would contain the file does not exist.
func ResolveOutputPath(inputPath, outputPath, format string) (string, error) {
	if outputPath == "" {
		return "", errors.New("output path is empty")
	}

	if IsDir(outputPath) {
		original := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
		name := GenerateOutputFileName(format, map[string]string{"original": original})
		return filepath.Join(outputPath, name), nil
	}

	dir := filepath.Dir(outputPath)
	if !IsDir(dir) {
		return "", fmt.Errorf("output directory '%s' does not exist", dir)
	}

	return outputPath, nil
}

// =============================================================================
// FILE HELPERS
// =============================================================================

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// CopyFile copies a file from src to dst, replacing dst.
func CopyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		destFile.Close()
		return err
	}

	return destFile.Close()
}
