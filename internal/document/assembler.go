// =============================================================================
// Enrollment Converter - Document Assembly
// =============================================================================
//
// This module turns a sequence of canonical records into one PDF document
// with exactly one page per record, in record order.
//
// FLUSH MODES:
//   flush_at_end    All pages are drawn into one in-memory document that is
//                   written to the output path once, after the last page.
//   flush_per_page  Every page is written to its own file in a temporary
//                   directory as soon as it is drawn. The page files are
//                   merged into the output path with pdfcpu at the end and
//                   the temporary directory is removed.
//
// FAILURE:
//   The first failure aborts the run with a RenderError naming the output
//   path and, while drawing, the page. Nothing is rolled back.
//
// VERIFICATION:
//   When enabled, the written document is read back with pdfcpu and its page
//   count compared with the number of records.
//
// =============================================================================

package document

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/friesen1895/enrollment-converter/internal/fieldmap"
	"github.com/friesen1895/enrollment-converter/internal/render"
	"github.com/friesen1895/enrollment-converter/internal/types"
	"github.com/friesen1895/enrollment-converter/pkg/utils"
)

func init() {
	// pdfcpu would otherwise create a configuration directory in the user's
	// home on first use.
	api.DisableConfigDir()
}

// FlushMode selects when rendered pages reach the output file.
type FlushMode string

const (
	FlushAtEnd   FlushMode = "flush_at_end"
	FlushPerPage FlushMode = "flush_per_page"
)

// Creator is written into the document information dictionary.
const Creator = "enrollment-converter"

// =============================================================================
// OPTIONS AND RESULT
// =============================================================================

// Options configures an Assembler.
type Options struct {
	// FlushMode defaults to FlushAtEnd.
	FlushMode FlushMode

	// VerifyPageCount reads the written document back and compares its page
	// count with the number of records.
	VerifyPageCount bool

	// Template draws the pages.
	Template render.Template

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// OnProgress receives one message per page. May be nil.
	OnProgress func(message string)
}

// Result describes a written document.
type Result struct {
	OutputPath string
	Pages      int
	FlushMode  FlushMode
	Duration   time.Duration
}

// =============================================================================
// ASSEMBLER
// =============================================================================

// Assembler writes records to a PDF document.
type Assembler struct {
	opts   Options
	logger *slog.Logger
	now    func() time.Time
}

// NewAssembler creates an Assembler. An unknown flush mode is rejected.
func NewAssembler(opts Options) (*Assembler, error) {
	if opts.FlushMode == "" {
		opts.FlushMode = FlushAtEnd
	}
	if opts.FlushMode != FlushAtEnd && opts.FlushMode != FlushPerPage {
		return nil, fmt.Errorf("unknown flush mode %q", opts.FlushMode)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Template.Logger == nil {
		opts.Template.Logger = logger
	}

	return &Assembler{opts: opts, logger: logger, now: time.Now}, nil
}

// Assemble renders records to outputPath.
//
// PARAMETERS:
//   - source: The input file the records came from, used in errors.
//   - records: The canonical records, one page each.
//   - outputPath: The document to write.
//
// RETURNS:
//   - The Result of the run.
//   - EmptyDataError when records is empty; no file is created.
//   - RenderError for any drawing, writing, merging or verification failure.
func (a *Assembler) Assemble(source string, records []types.Record, outputPath string) (*Result, error) {
	if len(records) == 0 {
		return nil, &types.EmptyDataError{Path: source}
	}

	start := a.now()
	a.logger.Debug("assembling document",
		"output", outputPath, "records", len(records), "flush_mode", a.opts.FlushMode)

	var err error
	switch a.opts.FlushMode {
	case FlushPerPage:
		err = a.assemblePerPage(records, outputPath)
	default:
		err = a.assembleAtEnd(records, outputPath)
	}
	if err != nil {
		return nil, err
	}

	if a.opts.VerifyPageCount {
		if err := verifyPageCount(outputPath, len(records)); err != nil {
			return nil, err
		}
	}

	result := &Result{
		OutputPath: outputPath,
		Pages:      len(records),
		FlushMode:  a.opts.FlushMode,
		Duration:   a.now().Sub(start),
	}
	a.logger.Info("document written", "output", outputPath, "pages", result.Pages, "duration", result.Duration)
	return result, nil
}

// assembleAtEnd draws every page into one document and writes it once.
func (a *Assembler) assembleAtEnd(records []types.Record, outputPath string) error {
	surface := a.newSurface()

	for i, rec := range records {
		if err := a.drawPage(surface, i, len(records), rec, outputPath); err != nil {
			return err
		}
	}

	if err := surface.WriteFile(outputPath); err != nil {
		return &types.RenderError{Path: outputPath, Err: err}
	}
	return nil
}

// assemblePerPage writes every page to its own file and merges them.
func (a *Assembler) assemblePerPage(records []types.Record, outputPath string) error {
	tempDir, err := os.MkdirTemp("", "enrollment-pages-*")
	if err != nil {
		return &types.RenderError{Path: outputPath, Err: fmt.Errorf("failed to create temporary directory: %w", err)}
	}
	defer func() {
		if err := os.RemoveAll(tempDir); err != nil {
			a.logger.Warn("failed to remove temporary directory", "dir", tempDir, "error", err)
		}
	}()

	pages := make([]string, 0, len(records))
	for i, rec := range records {
		surface := a.newSurface()
		if err := a.drawPage(surface, i, len(records), rec, outputPath); err != nil {
			return err
		}

		pagePath := filepath.Join(tempDir, fmt.Sprintf("page-%05d.pdf", i+1))
		if err := surface.WriteFile(pagePath); err != nil {
			return &types.RenderError{Path: outputPath, Page: i + 1, Err: err}
		}
		pages = append(pages, pagePath)
	}

	if len(pages) == 1 {
		if err := utils.CopyFile(pages[0], outputPath); err != nil {
			return &types.RenderError{Path: outputPath, Err: err}
		}
		return nil
	}

	if err := api.MergeCreateFile(pages, outputPath, false, pdfcpuConfig()); err != nil {
		return &types.RenderError{Path: outputPath, Err: fmt.Errorf("failed to merge pages: %w", err)}
	}
	return nil
}

// drawPage reports progress, starts a page on surface and draws rec onto it.
func (a *Assembler) drawPage(surface *render.PDFSurface, index, total int, rec types.Record, outputPath string) error {
	name := render.JoinName(rec.Get(fieldmap.LastName), rec.Get(fieldmap.FirstName))
	a.progress(fmt.Sprintf("Processing %d/%d: %s", index+1, total, name))

	surface.AddPage()
	if err := renderPage(a.opts.Template, surface, rec); err != nil {
		return &types.RenderError{Path: outputPath, Page: index + 1, Err: err}
	}
	if err := surface.Err(); err != nil {
		return &types.RenderError{Path: outputPath, Page: index + 1, Err: err}
	}
	return nil
}

// renderPage converts a panic raised while drawing into an error.
func renderPage(tpl render.Template, surface render.Surface, rec types.Record) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while drawing page: %v", r)
		}
	}()
	tpl.RenderPage(surface, rec)
	return nil
}

func (a *Assembler) newSurface() *render.PDFSurface {
	s := render.NewPDFSurface()
	s.SetMetadata(a.opts.Template.Title, a.opts.Template.Subtitle, Creator, a.now())
	return s
}

func (a *Assembler) progress(message string) {
	if a.opts.OnProgress != nil {
		a.opts.OnProgress(message)
	}
}

// =============================================================================
// VERIFICATION
// =============================================================================

// ErrPageCountMismatch is wrapped in the RenderError returned when the
// written document does not have one page per record.
var ErrPageCountMismatch = errors.New("page count mismatch")

func verifyPageCount(outputPath string, want int) error {
	got, err := api.PageCountFile(outputPath)
	if err != nil {
		return &types.RenderError{Path: outputPath, Err: fmt.Errorf("failed to read back document: %w", err)}
	}
	if got != want {
		return &types.RenderError{Path: outputPath, Err: fmt.Errorf("%w: document has %d pages, expected %d", ErrPageCountMismatch, got, want)}
	}
	return nil
}

// pdfcpuConfig returns the configuration used for merging. Relaxed
// validation accepts the documents fpdf produces without warnings.
func pdfcpuConfig() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}
