package scene

import "github.com/Garsondee/Gridiron-Sense/internal/viewport"

// ScatterMargin leaves room for the scatter's axes.
var ScatterMargin = Margin{Top: 20, Right: 30, Bottom: 40, Left: 50}

// ScatterPoint is one node in plot coordinates (origin at the plot's top-left).
type ScatterPoint struct {
	ID       string
	X, Y     float64
	Selected bool
}

// ScatterInput is everything the position scatter needs. XScale and YScale
// are already composed with the zoom transform; their ranges are plot
// coordinates.
type ScatterInput struct {
	Title          string
	W, H           float64
	Points         []ScatterPoint
	XScale, YScale viewport.LinearScale
	XLabel, YLabel string
	Radius         float64
	Hover          string
}

// BuildScatter draws nodes and rescaled axes. Nodes outside the plot are
// culled.
func BuildScatter(in ScatterInput) *Scene {
	s := New(in.Title, in.W, in.H)
	m := ScatterMargin
	pw, ph := m.Inner(in.W, in.H)
	s.Plot = Rect{X: m.Left, Y: m.Top, W: pw, H: ph}
	s.Rects = append(s.Rects, Rect{X: m.Left, Y: m.Top, W: pw, H: ph, Stroke: LightGrey})

	r := in.Radius
	if r <= 0 {
		r = 5
	}
	var selected []Circle
	for _, p := range in.Points {
		if p.X < -r || p.X > pw+r || p.Y < -r || p.Y > ph+r {
			continue
		}
		c := Circle{ID: p.ID, X: m.Left + p.X, Y: m.Top + p.Y, R: r, Fill: SteelBlue, Stroke: Black}
		if p.ID == in.Hover {
			c.R = r * 1.6
		}
		if p.Selected {
			c.Fill = Highlight
			selected = append(selected, c)
			continue
		}
		s.Circles = append(s.Circles, c)
	}
	// selected nodes paint on top
	s.Circles = append(s.Circles, selected...)

	x := in.XScale
	x.R0, x.R1 = x.R0+m.Left, x.R1+m.Left
	y := in.YScale
	y.R0, y.R1 = y.R0+m.Top, y.R1+m.Top
	s.BottomAxis(x, m.Top+ph, 10)
	s.LeftAxis(y, m.Left, 10)

	if in.XLabel != "" {
		s.Texts = append(s.Texts, Text{X: m.Left + pw/2, Y: in.H - 4, S: in.XLabel, Color: Black, Anchor: AnchorMiddle})
	}
	if in.YLabel != "" {
		s.Texts = append(s.Texts, Text{X: m.Left + 4, Y: m.Top + 12, S: in.YLabel, Color: Grey})
	}
	if len(in.Points) == 0 {
		s.Texts = append(s.Texts, Text{X: m.Left + pw/2, Y: m.Top + ph/2, S: "no players", Color: Grey, Anchor: AnchorMiddle})
	}
	return s
}
