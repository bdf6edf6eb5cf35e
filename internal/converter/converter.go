// =============================================================================
// Enrollment Converter - Converter Module
// =============================================================================
//
// This module contains the conversion pipeline for one input file. It wires
// the readers, the rename table, the data checks and document assembly
// together and reports progress to the caller.
//
// CONVERSION PIPELINE:
//   1. Select the reader by file extension (.csv/.txt or .xlsx/.xlsm)
//   2. Read the header and the data rows
//   3. Rename every row to a canonical record
//   4. Check the records and report warnings
//   5. Resolve the output path
//   6. Render one page per record and write the document
//
// CONCURRENCY:
//   None. The pipeline runs synchronously on the calling goroutine and aborts
//   on the first error. Progress callbacks are invoked on that goroutine.
//
// =============================================================================

package converter

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/friesen1895/enrollment-converter/internal/config"
	"github.com/friesen1895/enrollment-converter/internal/csvparser"
	"github.com/friesen1895/enrollment-converter/internal/document"
	"github.com/friesen1895/enrollment-converter/internal/fieldmap"
	"github.com/friesen1895/enrollment-converter/internal/render"
	"github.com/friesen1895/enrollment-converter/internal/types"
	"github.com/friesen1895/enrollment-converter/internal/validation"
	"github.com/friesen1895/enrollment-converter/internal/xlsxparser"
	"github.com/friesen1895/enrollment-converter/pkg/utils"
)

// =============================================================================
// INPUT PIPELINES
// =============================================================================

// Pipeline names an input reader.
type Pipeline string

const (
	PipelineCSV  Pipeline = "csv"
	PipelineXLSX Pipeline = "xlsx"
)

// DetectPipeline selects the reader for path by its extension.
//
// RETURNS:
//   - The pipeline.
//   - A ValidationError for any other extension.
func DetectPipeline(path string) (Pipeline, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return PipelineCSV, nil
	case ".xlsx", ".xlsm":
		return PipelineXLSX, nil
	default:
		return "", &types.ValidationError{
			Path:    path,
			Message: "unsupported file type, expected .csv, .txt, .xlsx or .xlsm",
		}
	}
}

// Input is the raw content of an input file.
type Input struct {
	Path        string
	Pipeline    Pipeline
	Headers     []string
	Rows        []types.RawRow
	SkippedRows int

	// SheetName is set for workbooks only.
	SheetName string
}

// ReadInput reads path with the reader for its extension and the blank-row
// policy configured for that reader.
func ReadInput(path string, cfg *config.Config) (*Input, error) {
	pipeline, err := DetectPipeline(path)
	if err != nil {
		return nil, err
	}

	input := &Input{Path: path, Pipeline: pipeline}
	skip := cfg.SkipBlankRows(string(pipeline))

	switch pipeline {
	case PipelineXLSX:
		sheet, err := xlsxparser.Parse(path, xlsxparser.Settings{SkipBlankRows: skip})
		if err != nil {
			return nil, err
		}
		input.Headers = sheet.Headers
		input.Rows = sheet.Rows
		input.SkippedRows = sheet.SkippedRows
		input.SheetName = sheet.SheetName
	default:
		data, err := csvparser.Parse(path, csvparser.Settings{SkipBlankRows: skip})
		if err != nil {
			return nil, err
		}
		input.Headers = data.Headers
		input.Rows = data.Rows
		input.SkippedRows = data.SkippedRows
	}

	return input, nil
}

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of converting a single file.
type Result struct {
	// InputFile is the path to the input file that was processed.
	InputFile string

	// OutputFile is the path to the generated document.
	OutputFile string

	// Pipeline is the reader that was used.
	Pipeline Pipeline

	// Warnings are the findings of the data checks.
	Warnings []*validation.Warning

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	// RowsRead is the number of data rows read.
	RowsRead int

	// RowsSkipped is the number of blank rows dropped by the reader.
	RowsSkipped int

	// PagesWritten is the number of pages in the output document.
	PagesWritten int

	// ProcessingTime is the time taken to process the file.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter runs the conversion pipeline.
type Converter struct {
	cfg        *config.Config
	logger     *slog.Logger
	onProgress func(message string)
}

// Option configures a Converter.
type Option func(*Converter)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Converter) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithProgress sets the progress callback.
func WithProgress(onProgress func(message string)) Option {
	return func(c *Converter) {
		c.onProgress = onProgress
	}
}

// New creates a Converter. A nil cfg means config.Default().
func New(cfg *config.Config, opts ...Option) *Converter {
	if cfg == nil {
		cfg = config.Default()
	}
	c := &Converter{cfg: cfg, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Convert turns the records in inputPath into a PDF document.
//
// PARAMETERS:
//   - inputPath: A CSV or Excel file.
//   - outputPath: The document to write, or an existing directory to write
//     a generated file name into.
//
// RETURNS:
//   - A Result on success.
//   - The first error of the pipeline. Reader errors, EmptyDataError and
//     ValidationError occur before any output file is created.
func (c *Converter) Convert(inputPath, outputPath string) (*Result, error) {
	start := time.Now()
	c.logger.Info("converting file", "input", inputPath, "output", outputPath)

	// =========================================================================
	// STEP 1: READ INPUT
	// =========================================================================

	c.progress(fmt.Sprintf("Reading %s", inputPath))

	input, err := ReadInput(inputPath, c.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	c.logger.Debug("read input",
		"pipeline", input.Pipeline, "rows", len(input.Rows), "skipped", input.SkippedRows)

	// =========================================================================
	// STEP 2: RENAME TO CANONICAL RECORDS
	// =========================================================================

	records := fieldmap.RenameAll(input.Rows)
	if len(records) == 0 {
		return nil, &types.EmptyDataError{Path: inputPath}
	}

	// =========================================================================
	// STEP 3: DATA CHECKS
	// =========================================================================
	// Warnings never stop the conversion.

	checks := validation.Validate(input.Headers, records)
	c.reportWarnings(checks.Warnings)

	// =========================================================================
	// STEP 4: RESOLVE OUTPUT PATH
	// =========================================================================

	resolved, err := utils.ResolveOutputPath(inputPath, outputPath, c.cfg.Output.FileNameFormat)
	if err != nil {
		return nil, &types.RenderError{Path: outputPath, Err: err}
	}

	// =========================================================================
	// STEP 5: RENDER AND WRITE
	// =========================================================================

	assembler, err := document.NewAssembler(document.Options{
		FlushMode:       document.FlushMode(c.cfg.Output.FlushMode),
		VerifyPageCount: c.cfg.VerifyPageCount(),
		Template:        TemplateFromConfig(c.cfg.Render, c.logger),
		Logger:          c.logger,
		OnProgress:      c.onProgress,
	})
	if err != nil {
		return nil, err
	}

	doc, err := assembler.Assemble(inputPath, records, resolved)
	if err != nil {
		return nil, err
	}

	result := &Result{
		InputFile:  inputPath,
		OutputFile: doc.OutputPath,
		Pipeline:   input.Pipeline,
		Warnings:   checks.Warnings,
		Stats: ProcessingStats{
			RowsRead:       len(input.Rows),
			RowsSkipped:    input.SkippedRows,
			PagesWritten:   doc.Pages,
			ProcessingTime: time.Since(start),
		},
	}

	c.progress(fmt.Sprintf("Wrote %d page(s) to %s", doc.Pages, doc.OutputPath))
	c.logger.Info("conversion complete",
		"output", result.OutputFile,
		"pages", result.Stats.PagesWritten,
		"warnings", len(result.Warnings),
		"duration", result.Stats.ProcessingTime)

	return result, nil
}

// =============================================================================
// INSPECTION
// =============================================================================

// Report describes an input file without converting it.
type Report struct {
	InputFile   string
	Pipeline    Pipeline
	SheetName   string
	Rows        int
	SkippedRows int
	Columns     fieldmap.ColumnReport
	Warnings    []*validation.Warning
}

// Inspect reads inputPath and reports its columns and data warnings. Only
// reader errors are returned as errors.
func (c *Converter) Inspect(inputPath string) (*Report, error) {
	input, err := ReadInput(inputPath, c.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	records := fieldmap.RenameAll(input.Rows)
	checks := validation.Validate(input.Headers, records)

	return &Report{
		InputFile:   inputPath,
		Pipeline:    input.Pipeline,
		SheetName:   input.SheetName,
		Rows:        len(records),
		SkippedRows: input.SkippedRows,
		Columns:     fieldmap.Classify(input.Headers),
		Warnings:    checks.Warnings,
	}, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// TemplateFromConfig builds the page template from the render settings.
func TemplateFromConfig(rc config.RenderConfig, logger *slog.Logger) render.Template {
	return render.Template{
		FontFamily:    rc.FontFamily,
		StartFontSize: rc.StartFontSize,
		MinFontSize:   rc.MinFontSize,
		Padding:       rc.Padding,
		Title:         rc.Title,
		Subtitle:      rc.Subtitle,
		Logger:        logger,
	}
}

func (c *Converter) reportWarnings(warnings []*validation.Warning) {
	for _, w := range warnings {
		c.logger.Warn("data check", "row", w.Row, "field", w.Field, "rule", w.Rule, "message", w.Message)
		c.progress(w.String())
	}
}

func (c *Converter) progress(message string) {
	if c.onProgress != nil {
		c.onProgress(message)
	}
}
