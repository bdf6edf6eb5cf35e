// =============================================================================
// Enrollment Converter - Drawing Surface
// =============================================================================
//
// The page template draws through the Surface interface so that layout code
// does not depend on a particular PDF library. PDFSurface implements it on
// top of fpdf with the PDF core fonts.
//
// COORDINATES:
//   Points (1/72 inch), origin at the top-left corner of the page, y growing
//   downwards. Text is positioned by its baseline.
//
// TEXT ENCODING:
//   Core fonts only cover Windows-1252. PDFSurface translates UTF-8 strings
//   before measuring and drawing them, so umlauts and ß measure correctly.
//
// =============================================================================

package render

import (
	"io"
	"time"

	"github.com/go-pdf/fpdf"
)

// =============================================================================
// PAGE GEOMETRY
// =============================================================================

const (
	// PageWidth and PageHeight are ISO A4 in points.
	PageWidth  = 595.28
	PageHeight = 841.89

	// cm converts centimetres to points.
	cm = 72 / 2.54
)

// Color is an RGB color with 8-bit channels.
type Color struct {
	R, G, B uint8
}

var (
	Black     = Color{0, 0, 0}
	LightGrey = Color{242, 242, 242}
)

// =============================================================================
// SURFACE INTERFACE
// =============================================================================

// Surface is the set of drawing operations the page template needs.
type Surface interface {
	// SetFont selects the font for following StringWidth and Text calls.
	// style is "" for regular or "B" for bold.
	SetFont(family, style string, size float64)

	// StringWidth returns the width of s in the current font.
	StringWidth(s string) float64

	// Text draws s with its baseline starting at (x, y).
	Text(x, y float64, s string)

	// Rect draws the outline of a rectangle with its top-left corner at
	// (x, y). When fill is set the rectangle is filled with the current fill
	// color first.
	Rect(x, y, w, h float64, fill bool)

	// Line draws a straight line.
	Line(x1, y1, x2, y2 float64)

	// SetFillColor selects the color used by filled rectangles.
	SetFillColor(c Color)
}

// =============================================================================
// FPDF SURFACE
// =============================================================================

// PDFSurface is a Surface backed by an fpdf document in point units.
type PDFSurface struct {
	pdf       *fpdf.Fpdf
	translate func(string) string
}

// NewPDFSurface creates an empty A4 portrait document. Automatic page breaks
// are disabled: the caller decides when a page starts.
func NewPDFSurface() *PDFSurface {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetLineWidth(1)
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetTextColor(0, 0, 0)

	return &PDFSurface{
		pdf:       pdf,
		translate: pdf.UnicodeTranslatorFromDescriptor(""), // cp1252
	}
}

// SetMetadata sets the document information dictionary.
func (s *PDFSurface) SetMetadata(title, subject, creator string, created time.Time) {
	s.pdf.SetTitle(title, true)
	s.pdf.SetSubject(subject, true)
	s.pdf.SetCreator(creator, true)
	s.pdf.SetCreationDate(created)
}

// AddPage starts a new page.
func (s *PDFSurface) AddPage() {
	s.pdf.AddPage()
}

// PageCount returns the number of pages started so far.
func (s *PDFSurface) PageCount() int {
	return s.pdf.PageCount()
}

func (s *PDFSurface) SetFont(family, style string, size float64) {
	s.pdf.SetFont(family, style, size)
}

func (s *PDFSurface) StringWidth(text string) float64 {
	return s.pdf.GetStringWidth(s.translate(text))
}

func (s *PDFSurface) Text(x, y float64, text string) {
	s.pdf.Text(x, y, s.translate(text))
}

func (s *PDFSurface) Rect(x, y, w, h float64, fill bool) {
	style := "D"
	if fill {
		style = "FD"
	}
	s.pdf.Rect(x, y, w, h, style)
}

func (s *PDFSurface) Line(x1, y1, x2, y2 float64) {
	s.pdf.Line(x1, y1, x2, y2)
}

func (s *PDFSurface) SetFillColor(c Color) {
	s.pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}

// Err returns the first error fpdf recorded, or nil.
func (s *PDFSurface) Err() error {
	return s.pdf.Error()
}

// WriteFile flushes the document to path and closes it.
func (s *PDFSurface) WriteFile(path string) error {
	return s.pdf.OutputFileAndClose(path)
}

// Write flushes the document to w and closes it.
func (s *PDFSurface) Write(w io.Writer) error {
	return s.pdf.Output(w)
}
