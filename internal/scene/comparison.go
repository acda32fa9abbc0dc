package scene

import (
	"strings"
	"unicode/utf8"

	"github.com/Garsondee/Gridiron-Sense/internal/aggregate"
	"github.com/Garsondee/Gridiron-Sense/internal/viewport"
)

// BarMargin leaves room for the title and the player labels.
var BarMargin = Margin{Top: 60, Right: 20, Bottom: 90, Left: 60}

// BarColors cycle across players.
var BarColors = []string{"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd"}

// BarColor returns the fill for the i-th player.
func BarColor(i int) string { return BarColors[i%len(BarColors)] }

// Band is a d3-style band scale with equal inner and outer padding.
type Band struct {
	Start, Step, Width float64
}

// NewBand spreads n bands across [r0, r1].
func NewBand(n int, r0, r1, padding float64) Band {
	if n <= 0 {
		return Band{Start: r0}
	}
	step := (r1 - r0) / (float64(n) - padding + 2*padding)
	start := r0 + (r1-r0-step*(float64(n)-padding))/2
	return Band{Start: start, Step: step, Width: step * (1 - padding)}
}

// At returns the left edge of band i.
func (b Band) At(i int) float64 { return b.Start + float64(i)*b.Step }

// BuildBars draws one bar per player from the zero line, with the title and
// value axis derived from the comparison's filter.
func BuildBars(c aggregate.Comparison, w, h float64, hover string) *Scene {
	title := c.Title()
	s := New(title, w, h)
	m := BarMargin
	pw, ph := m.Inner(w, h)
	s.Plot = Rect{X: m.Left, Y: m.Top, W: pw, H: ph}
	s.Texts = append(s.Texts, Text{X: w / 2, Y: m.Top / 2, S: fit(title, w), Color: Black, Anchor: AnchorMiddle})

	lo, hi := c.Range()
	y := viewport.NewLinearScale(lo, hi, m.Top+ph, m.Top)
	band := NewBand(len(c.Bars), m.Left, m.Left+pw, 0.2)
	zero := y.Apply(0)

	for i, b := range c.Bars {
		top := y.Apply(b.Value)
		ry, rh := top, zero-top
		if b.Value < 0 {
			ry, rh = zero, top-zero
		}
		r := Rect{ID: b.Player, X: band.At(i), Y: ry, W: band.Width, H: rh, Fill: Hex(BarColor(i))}
		if b.Player == hover {
			r.Stroke = Black
		}
		s.Rects = append(s.Rects, r)
		label := b.Player
		if limit := int(band.Step / 7); limit > 3 {
			label = truncate(label, limit, ".")
		}
		s.Texts = append(s.Texts, Text{X: band.At(i) + band.Width/2, Y: m.Top + ph + 18, S: label, Color: Black, Anchor: AnchorMiddle})
	}

	s.Lines = append(s.Lines, Line{X0: m.Left, Y0: m.Top + ph, X1: m.Left + pw, Y1: m.Top + ph, Color: Black, Width: 1})
	s.LeftAxis(y, m.Left, 8)
	s.Texts = append(s.Texts,
		Text{X: m.Left + pw/2, Y: m.Top + ph + 50, S: "Players", Color: Black, Anchor: AnchorMiddle},
		Text{X: 4, Y: m.Top - 8, S: strings.ToUpper(aggregate.MetricLabel(c.Metric)), Color: Black},
	)
	return s
}

// BuildTable draws the single-player statistic/value table.
func BuildTable(rows []aggregate.Row, w, h float64) *Scene {
	s := New("Player Data", w, h)
	if len(rows) == 0 {
		s.Texts = append(s.Texts, Text{X: w / 2, Y: h / 2, S: "No data available for the selected player.", Color: Grey, Anchor: AnchorMiddle})
		return s
	}
	const (
		pad  = 10.0
		rowH = 20.0
	)
	s.Texts = append(s.Texts, Text{X: pad, Y: 24, S: "Player Data", Color: Black})
	colW := (w - 2*pad) / 2
	y := 36.0
	header := []string{"Statistic", "Value"}
	for i, hdr := range header {
		x := pad + float64(i)*colW
		s.Rects = append(s.Rects, Rect{X: x, Y: y, W: colW, H: rowH, Fill: HeaderBG, Stroke: LightGrey})
		s.Texts = append(s.Texts, Text{X: x + 6, Y: y + 14, S: hdr, Color: Black})
	}
	for _, r := range rows {
		y += rowH
		if y+rowH > h {
			s.Texts = append(s.Texts, Text{X: pad, Y: h - 4, S: "...", Color: Grey})
			break
		}
		for i, cell := range []string{r.Stat, r.Value} {
			x := pad + float64(i)*colW
			s.Rects = append(s.Rects, Rect{X: x, Y: y, W: colW, H: rowH, Stroke: LightGrey})
			s.Texts = append(s.Texts, Text{X: x + 6, Y: y + 14, S: fit(cell, colW-12), Color: Black})
		}
	}
	return s
}

// fit truncates s to roughly fit width pixels of 7px glyphs.
func fit(s string, width float64) string {
	limit := int(width / 7)
	if limit < 4 {
		return s
	}
	return truncate(s, limit, "...")
}

// truncate shortens s to at most limit runes, ending in suffix when cut.
func truncate(s string, limit int, suffix string) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	keep := max(limit-utf8.RuneCountInString(suffix), 0)
	return string(r[:keep]) + suffix
}
