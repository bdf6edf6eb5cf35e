package render

import "strings"

// ibanGroup is the block length of the printed IBAN.
const ibanGroup = 4

// FormatIBAN splits iban into blocks of four characters joined by single
// spaces. No character is added, removed or reordered otherwise:
//
//	FormatIBAN("DE89370400440532013000") == "DE89 3704 0044 0532 0130 00"
func FormatIBAN(iban string) string {
	runes := []rune(iban)
	if len(runes) <= ibanGroup {
		return iban
	}

	var b strings.Builder
	b.Grow(len(iban) + len(runes)/ibanGroup)
	for i, r := range runes {
		if i > 0 && i%ibanGroup == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// JoinName formats "last, first", or whichever part is present.
func JoinName(last, first string) string {
	if last != "" && first != "" {
		return last + ", " + first
	}
	return last + first
}

// MarkerTemplate is the option line for the gender selection. Each
// capital O is a checkbox.
const MarkerTemplate = "Geschlecht: O weiblich / O männlich / O divers"

// markerBox is the glyph used as an empty checkbox; markerGlyph is printed
// over it to select an option.
const (
	markerBox   = 'O'
	markerGlyph = "X"
)

// genderOptions are the tokens for the checkboxes of MarkerTemplate, in
// order.
var genderOptions = []string{"weiblich", "männlich", "divers"}

// GenderOption returns the checkbox index selected by value, or -1 when value
// matches no option. Matching ignores case.
func GenderOption(value string) int {
	for i, option := range genderOptions {
		if strings.EqualFold(value, option) {
			return i
		}
	}
	return -1
}

// MarkerOffsets returns the x offset of every checkbox glyph in template
// relative to the start of the text, measured glyph by glyph in the current
// font of s.
func MarkerOffsets(s Surface, template string) []float64 {
	var offsets []float64
	x := 0.0
	for _, r := range template {
		if r == markerBox {
			offsets = append(offsets, x)
		}
		x += s.StringWidth(string(r))
	}
	return offsets
}
