package render

// FitFontSize returns the largest integer point size in [floor, start] at
// which measure reports a width no greater than avail. When no size fits it
// returns floor; text drawn at that size may overflow its box.
//
// The search walks down from start one point at a time. measure must be
// monotonic in size for the result to be the largest fitting size.
func FitFontSize(measure func(size float64) float64, avail float64, start, floor int) int {
	if start < floor {
		start = floor
	}
	size := start
	for size > floor && measure(float64(size)) > avail {
		size--
	}
	return size
}

// Fitted describes one value drawn by DrawFitted.
type Fitted struct {
	Size     int
	Width    float64
	Overflow bool
}

// DrawFitted draws text left-aligned in a box of boxWidth starting at x,
// shrinking the font from start towards floor until the text fits between
// the paddings. Empty text draws nothing.
func DrawFitted(s Surface, family, text string, x, baseline, boxWidth float64, start, floor int, padding float64) Fitted {
	if text == "" {
		return Fitted{Size: start}
	}

	avail := boxWidth - 2*padding
	measure := func(size float64) float64 {
		s.SetFont(family, "", size)
		return s.StringWidth(text)
	}

	size := FitFontSize(measure, avail, start, floor)
	width := measure(float64(size))
	s.Text(x+padding, baseline, text)

	return Fitted{Size: size, Width: width, Overflow: width > avail}
}
