package render

import "unicode/utf8"

// op is one recorded drawing call.
type op struct {
	kind  string
	x, y  float64
	w, h  float64
	text  string
	size  float64
	style string
	fill  bool
}

// recorder is a Surface with fixed-width metrics: every rune is half the
// font size wide.
type recorder struct {
	family string
	style  string
	size   float64
	ops    []op
}

func (r *recorder) SetFont(family, style string, size float64) {
	r.family, r.style, r.size = family, style, size
}

func (r *recorder) StringWidth(s string) float64 {
	return float64(utf8.RuneCountInString(s)) * r.size * 0.5
}

func (r *recorder) Text(x, y float64, s string) {
	r.ops = append(r.ops, op{kind: "text", x: x, y: y, text: s, size: r.size, style: r.style})
}

func (r *recorder) Rect(x, y, w, h float64, fill bool) {
	r.ops = append(r.ops, op{kind: "rect", x: x, y: y, w: w, h: h, fill: fill})
}

func (r *recorder) Line(x1, y1, x2, y2 float64) {
	r.ops = append(r.ops, op{kind: "line", x: x1, y: y1, w: x2 - x1, h: y2 - y1})
}

func (r *recorder) SetFillColor(Color) {}

// texts returns every text call drawing exactly s.
func (r *recorder) texts(s string) []op {
	var found []op
	for _, o := range r.ops {
		if o.kind == "text" && o.text == s {
			found = append(found, o)
		}
	}
	return found
}
