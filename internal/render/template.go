// =============================================================================
// Enrollment Converter - Application Form Template
// =============================================================================
//
// This module draws one membership application per page. The layout is a
// fixed template: box positions come from a top-down cursor plus constant
// margins, gaps and width fractions. Only the text inside the boxes varies
// from record to record.
//
// PAGE STRUCTURE (top to bottom):
//   1. Title and subtitle, centred
//   2. "I. Mitgliedschaftsdaten"
//      - gender options (right-aligned)
//      - name | birth date                         (2/3 | 1/3)
//      - discount eligibility with family members
//      - street | zip | city                       (60% | 15% | 25%)
//      - e-mail | phone | profession               (1/3 each)
//   3. Legal guardian section
//      - gender options (indented)
//      - name                                      (full width)
//      - street | zip | city                       (60% | 15% | 25%)
//   4. "II. Erteilung eines SEPA-Lastschriftmandats:"
//      - account holder                            (full width)
//      - IBAN | BIC                                (2/3 | 1/3)
//
// Every value is drawn through DrawFitted. A record too long for a box
// shrinks to the minimum font size and may overflow; nothing is truncated
// and the page never grows.
//
// =============================================================================

package render

import (
	"log/slog"
	"strings"

	"github.com/friesen1895/enrollment-converter/internal/fieldmap"
	"github.com/friesen1895/enrollment-converter/internal/types"
)

// =============================================================================
// LAYOUT CONSTANTS
// =============================================================================

const (
	marginTop  = 1.5 * cm
	marginLeft = 2 * cm
	usableW    = PageWidth - 2*marginLeft

	innerMargin = 10.0
	innerW      = usableW - 2*innerMargin
	fieldH      = 1.2 * cm
	fieldGap    = 5.0
	rowGap      = 10.0

	membershipBoxH = 235.0
	discountBoxH   = 1.8 * cm
	guardianBoxH   = 160.0
	mandateBoxH    = 120.0

	titleSize    = 20
	subtitleSize = 14
	headingSize  = 12
	textSize     = 10
	labelSize    = 8

	// labelInset and the value baseline offset place labels in the lower
	// left corner of a box and values on its vertical middle.
	labelInset     = 2.0
	baselineOffset = 4.0

	discountToken = "ja"
)

// =============================================================================
// TEMPLATE
// =============================================================================

// Template holds the adjustable parts of the page layout.
type Template struct {
	FontFamily    string
	StartFontSize int
	MinFontSize   int
	Padding       float64
	Title         string
	Subtitle      string

	// Logger receives a debug line for every value that overflows its box.
	// nil means slog.Default().
	Logger *slog.Logger
}

// DefaultTemplate returns the template with the standard club header.
func DefaultTemplate() Template {
	return Template{
		FontFamily:    "Helvetica",
		StartFontSize: 12,
		MinFontSize:   6,
		Padding:       5,
		Title:         `Berliner Schwimmverein "Friesen 1895" e. V.`,
		Subtitle:      "Aufnahmeantrag",
	}
}

// Box is one labelled field of the template.
type Box struct {
	X, Y, W, H float64
	Fill       bool
	Label      string
	Value      string
}

// RenderPage draws rec onto the current page of s. The surface must be
// positioned on a fresh page; RenderPage never starts a new one.
func (t Template) RenderPage(s Surface, rec types.Record) {
	s.SetFillColor(LightGrey)

	y := t.drawHeader(s, marginTop)
	y = t.drawMembership(s, rec, y)
	y = t.drawGuardian(s, rec, y)
	t.drawMandate(s, rec, y)
}

// =============================================================================
// SECTIONS
// =============================================================================

// drawHeader draws title, subtitle and the first section heading and returns
// the top of the membership box.
func (t Template) drawHeader(s Surface, y float64) float64 {
	t.centered(s, t.Title, y, titleSize)
	y += 40
	t.centered(s, t.Subtitle, y, subtitleSize)
	y += 30
	t.heading(s, "I. Mitgliedschaftsdaten", marginLeft, y)
	return y + 30
}

// drawMembership draws the member section starting at its box top and
// returns the top of the guardian box.
func (t Template) drawMembership(s Surface, rec types.Record, top float64) float64 {
	x := marginLeft
	s.Rect(x, top, usableW, membershipBoxH, false)

	// Gender options, right-aligned inside the box.
	s.SetFont(t.FontFamily, "", textSize)
	lineX := x + usableW - innerMargin - s.StringWidth(MarkerTemplate)
	t.options(s, MarkerTemplate, lineX, top+20, rec.Get(fieldmap.Sex))

	left := x + innerMargin

	// Name and birth date.
	y := top + 40
	nameW := innerW*2/3 - fieldGap/2
	birthW := innerW/3 - fieldGap/2
	t.drawBoxes(s, []Box{
		{X: left, Y: y, W: nameW, H: fieldH, Fill: true, Label: "Name, Vorname",
			Value: JoinName(rec.Get(fieldmap.LastName), rec.Get(fieldmap.FirstName))},
		{X: left + nameW + fieldGap, Y: y, W: birthW, H: fieldH, Fill: true, Label: "geboren am",
			Value: rec.Get(fieldmap.BirthDate)},
	})

	y += fieldH + rowGap
	t.drawDiscount(s, rec, left, y)

	y += discountBoxH + rowGap
	t.drawBoxes(s, addressRow(left, y, innerW, "Straße, Hausnummer",
		rec.Get(fieldmap.Street), rec.Get(fieldmap.Zip), rec.Get(fieldmap.City)))

	// Contact details in three equal columns.
	y += fieldH + rowGap
	contactW := innerW/3 - 2*fieldGap/3
	t.drawBoxes(s, []Box{
		{X: left, Y: y, W: contactW, H: fieldH, Fill: true, Label: "E-Mail", Value: rec.Get(fieldmap.Email)},
		{X: left + contactW + fieldGap, Y: y, W: contactW, H: fieldH, Fill: true, Label: "Telefon / Mobil", Value: rec.Get(fieldmap.Phone)},
		{X: left + 2*(contactW+fieldGap), Y: y, W: contactW, H: fieldH, Fill: true, Label: "Beruf", Value: rec.Get(fieldmap.Profession)},
	})

	return y + fieldH + 50
}

// drawDiscount draws the discount eligibility box with its top at y.
func (t Template) drawDiscount(s Surface, rec types.Record, left, y float64) {
	const (
		line1 = "O ermäßigtes Mitglied, da bereits mind. 2 Mitglieder meines Haushaltes Mitglieder"
		line2 = "ohne Begrenzung der Mitgliedsdauer sind."
		line3 = "Diese sind"
	)

	s.Rect(left, y, innerW, discountBoxH, false)

	textX := left + innerW/8 + fieldGap
	base1 := y + discountBoxH/2 - 10
	base2 := base1 + 15
	base3 := base2 + 15

	s.SetFont(t.FontFamily, "", textSize)
	s.Text(left+fieldGap, base1, "als")
	s.Text(textX, base1, line1)
	s.Text(textX, base2, line2)
	s.Text(textX, base3, line3)

	if family := rec.Get(fieldmap.FamilyMember); family != "" {
		boxX := textX + s.StringWidth(line3) + fieldGap
		boxW := left + innerW - boxX - fieldGap
		s.Rect(boxX, base3-9, boxW, 12, true)
		t.fit(s, family, boxX, base3, boxW, textSize, labelInset)
	}

	if strings.EqualFold(rec.Get(fieldmap.Discount), discountToken) {
		s.SetFont(t.FontFamily, "", textSize)
		s.Text(textX, base1, markerGlyph)
	}
}

// drawGuardian draws the legal guardian section starting at its box top and
// returns the baseline of the mandate heading.
func (t Template) drawGuardian(s Surface, rec types.Record, top float64) float64 {
	x := marginLeft
	s.Rect(x, top, usableW, guardianBoxH, false)

	s.SetFont(t.FontFamily, "B", headingSize)
	s.Text(x+innerMargin, top+20, "Bei Minderjährigen: Angaben des gesetzlichen Vertreters:")

	s.SetFont(t.FontFamily, "", textSize)
	t.options(s, MarkerTemplate, x+1.5*cm, top+45, rec.Get(fieldmap.ApplicantSex))

	left := x + innerMargin
	y := top + 70
	t.drawBoxes(s, []Box{{
		X: left, Y: y, W: innerW, H: fieldH, Fill: true,
		Label: "Name, Vorname (gesetzl. Vertreter)",
		Value: JoinName(rec.Get(fieldmap.ApplicantLastName), rec.Get(fieldmap.ApplicantFirstName)),
	}})

	y += fieldH + rowGap
	t.drawBoxes(s, addressRow(left, y, innerW, "Straße, Hausnummer (sofern abweichend vom Mitglied)",
		rec.Get(fieldmap.ApplicantStreet), rec.Get(fieldmap.ApplicantZip), rec.Get(fieldmap.ApplicantCity)))

	return y + fieldH + 30
}

// drawMandate draws the SEPA direct debit mandate with its heading baseline
// at y.
func (t Template) drawMandate(s Surface, rec types.Record, y float64) {
	x := marginLeft
	t.heading(s, "II. Erteilung eines SEPA-Lastschriftmandats:", x, y)

	top := y + 30
	s.Rect(x, top, usableW, mandateBoxH, false)

	left := x + innerMargin
	row := top + 20
	t.drawBoxes(s, []Box{{
		X: left, Y: row, W: innerW, H: fieldH, Fill: true,
		Label: "Name des Kontoinhabers", Value: rec.Get(fieldmap.AccountHolder),
	}})

	row += fieldH + rowGap
	ibanW := innerW*2/3 - fieldGap/2
	bicW := innerW/3 - fieldGap/2
	t.drawBoxes(s, []Box{
		{X: left, Y: row, W: ibanW, H: fieldH, Fill: true, Label: "IBAN", Value: FormatIBAN(rec.Get(fieldmap.IBAN))},
		{X: left + ibanW + fieldGap, Y: row, W: bicW, H: fieldH, Fill: true, Label: "BIC", Value: rec.Get(fieldmap.BIC)},
	})
}

// =============================================================================
// PRIMITIVES
// =============================================================================

// addressRow lays out street, zip and city boxes across width.
func addressRow(left, y, width float64, streetLabel, street, zip, city string) []Box {
	streetW := width*0.6 - fieldGap
	zipW := width*0.15 - fieldGap
	cityW := width * 0.25

	zipX := left + streetW + fieldGap
	cityX := zipX + zipW + fieldGap

	return []Box{
		{X: left, Y: y, W: streetW, H: fieldH, Fill: true, Label: streetLabel, Value: street},
		{X: zipX, Y: y, W: zipW, H: fieldH, Fill: true, Label: "Postleitzahl", Value: zip},
		{X: cityX, Y: y, W: cityW, H: fieldH, Fill: true, Label: "Ort", Value: city},
	}
}

// drawBoxes draws each box, its label in the lower left corner and its
// value on the vertical middle.
func (t Template) drawBoxes(s Surface, boxes []Box) {
	for _, b := range boxes {
		s.Rect(b.X, b.Y, b.W, b.H, b.Fill)
	}

	s.SetFont(t.FontFamily, "", labelSize)
	for _, b := range boxes {
		s.Text(b.X+labelInset, b.Y+b.H-labelInset, b.Label)
	}

	for _, b := range boxes {
		t.fit(s, b.Value, b.X, b.Y+b.H/2+baselineOffset, b.W, t.StartFontSize, t.Padding)
	}
}

// fit draws a value through DrawFitted and logs overflow.
func (t Template) fit(s Surface, value string, x, baseline, width float64, start int, padding float64) {
	res := DrawFitted(s, t.FontFamily, value, x, baseline, width, start, t.MinFontSize, padding)
	if res.Overflow {
		t.logger().Debug("value overflows its box at minimum font size",
			"value", value, "size", res.Size, "width", res.Width, "box", width-2*padding)
	}
}

// options draws an option line at (x, baseline) in the current font and
// prints the marker over the checkbox selected by value.
func (t Template) options(s Surface, template string, x, baseline float64, value string) {
	s.Text(x, baseline, template)

	index := GenderOption(value)
	if index < 0 {
		return
	}
	offsets := MarkerOffsets(s, template)
	if index < len(offsets) {
		s.Text(x+offsets[index], baseline, markerGlyph)
	}
}

// centered draws bold text centred on the page.
func (t Template) centered(s Surface, text string, baseline float64, size float64) {
	s.SetFont(t.FontFamily, "B", size)
	s.Text((PageWidth-s.StringWidth(text))/2, baseline, text)
}

// heading draws an underlined bold section heading.
func (t Template) heading(s Surface, text string, x, baseline float64) {
	s.SetFont(t.FontFamily, "B", headingSize)
	s.Text(x, baseline, text)
	s.Line(x, baseline+2, x+s.StringWidth(text), baseline+2)
}

func (t Template) logger() *slog.Logger {
	if t.Logger != nil {
		return t.Logger
	}
	return slog.Default()
}
