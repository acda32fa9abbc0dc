package scene

import "github.com/Garsondee/Gridiron-Sense/internal/viewport"

// Margin insets the plot area from the scene edges.
type Margin struct {
	Top, Right, Bottom, Left float64
}

// Inner returns the plot size left inside a w x h scene.
func (m Margin) Inner(w, h float64) (float64, float64) {
	return w - m.Left - m.Right, h - m.Top - m.Bottom
}

const tickLen = 6

// BottomAxis draws a horizontal axis at y with ticks from scale. Scale range
// values are scene x coordinates.
func (s *Scene) BottomAxis(scale viewport.LinearScale, y float64, n int) {
	s.Lines = append(s.Lines, Line{X0: scale.R0, Y0: y, X1: scale.R1, Y1: y, Color: Black, Width: 1})
	for _, t := range scale.Ticks(n) {
		s.Lines = append(s.Lines, Line{X0: t.Pos, Y0: y, X1: t.Pos, Y1: y + tickLen, Color: Black, Width: 1})
		s.Texts = append(s.Texts, Text{X: t.Pos, Y: y + tickLen + 13, S: t.Label, Color: Black, Anchor: AnchorMiddle})
	}
}

// LeftAxis draws a vertical axis at x with ticks from scale. Scale range
// values are scene y coordinates.
func (s *Scene) LeftAxis(scale viewport.LinearScale, x float64, n int) {
	s.Lines = append(s.Lines, Line{X0: x, Y0: scale.R0, X1: x, Y1: scale.R1, Color: Black, Width: 1})
	for _, t := range scale.Ticks(n) {
		s.Lines = append(s.Lines, Line{X0: x - tickLen, Y0: t.Pos, X1: x, Y1: t.Pos, Color: Black, Width: 1})
		s.Texts = append(s.Texts, Text{X: x - tickLen - 3, Y: t.Pos + 4, S: t.Label, Color: Black, Anchor: AnchorEnd})
	}
}

// BandAxis draws category labels left of x at the given y positions.
func (s *Scene) BandAxis(labels []string, ys []float64, x float64) {
	if len(ys) == 0 {
		return
	}
	s.Lines = append(s.Lines, Line{X0: x, Y0: ys[0], X1: x, Y1: ys[len(ys)-1], Color: Black, Width: 1})
	for i, l := range labels {
		s.Lines = append(s.Lines, Line{X0: x - tickLen, Y0: ys[i], X1: x, Y1: ys[i], Color: Black, Width: 1})
		s.Texts = append(s.Texts, Text{X: x - tickLen - 3, Y: ys[i] + 4, S: l, Color: Black, Anchor: AnchorEnd})
	}
}
