package scene

import (
	"github.com/Garsondee/Gridiron-Sense/internal/density"
	"github.com/Garsondee/Gridiron-Sense/internal/viewport"
)

// RidgelineMargin matches the overview's axis room.
var RidgelineMargin = Margin{Top: 60, Right: 30, Bottom: 50, Left: 110}

// RidgelineInput is everything the overview needs.
type RidgelineInput struct {
	Title    string
	Curves   []density.Curve
	W, H     float64
	Scale    float64 // pixels per unit density; <= 0 fits the tallest peak to one band
	Progress float64 // intro animation, 0 flat .. 1 full height
	Hover    string  // highlighted category
}

// Ridgeline is the geometry of a built overview, used for picking.
type Ridgeline struct {
	X         viewport.LinearScale
	Baselines []float64
	Curves    []density.Curve
	Scale     float64
	Plot      Rect
}

// BuildRidgeline lays out one filled curve per category, each offset to its
// own baseline, sharing the x scale of the density grid.
func BuildRidgeline(in RidgelineInput) (*Scene, Ridgeline) {
	s := New(in.Title, in.W, in.H)
	m := RidgelineMargin
	pw, ph := m.Inner(in.W, in.H)
	s.Plot = Rect{X: m.Left, Y: m.Top, W: pw, H: ph}
	s.Texts = append(s.Texts, Text{X: in.W / 2, Y: m.Top / 2, S: in.Title, Color: Black, Anchor: AnchorMiddle})

	if len(in.Curves) == 0 || len(in.Curves[0].Points) == 0 {
		s.Texts = append(s.Texts, Text{X: in.W / 2, Y: in.H / 2, S: "no data", Color: Grey, Anchor: AnchorMiddle})
		return s, Ridgeline{Plot: s.Plot}
	}

	pts := in.Curves[0].Points
	x := viewport.NewLinearScale(pts[0].Value, pts[len(pts)-1].Value, m.Left, m.Left+pw)

	n := len(in.Curves)
	bases := make([]float64, n)
	labels := make([]string, n)
	step := ph
	if n > 1 {
		step = ph / float64(n-1)
	}
	for i, c := range in.Curves {
		if n == 1 {
			bases[i] = m.Top + ph/2
		} else {
			bases[i] = m.Top + float64(i)*step
		}
		labels[i] = c.Category
	}

	scale := in.Scale
	if scale <= 0 {
		if peak := density.MaxDensity(in.Curves); peak > 0 {
			scale = 0.9 * step / peak
		}
	}
	grow := ease(in.Progress) * scale

	for i, c := range in.Curves {
		fill := WithAlpha(Category10[i%len(Category10)], 0xcc)
		stroke := Black
		width := 1.0
		if c.Category == in.Hover {
			stroke = Highlight
			width = 2.5
		}
		poly := make([]Pt, 0, len(c.Points)+2)
		poly = append(poly, Pt{x.Apply(c.Points[0].Value), bases[i]})
		for _, p := range c.Points {
			poly = append(poly, Pt{x.Apply(p.Value), bases[i] - p.Density*grow})
		}
		poly = append(poly, Pt{x.Apply(c.Points[len(c.Points)-1].Value), bases[i]})
		s.Paths = append(s.Paths, Path{ID: c.Category, Points: poly, Fill: fill, Stroke: stroke, Width: width, Closed: true})
	}

	s.BottomAxis(x, m.Top+ph, 5)
	s.BandAxis(labels, bases, m.Left)
	s.Texts = append(s.Texts, Text{X: m.Left + pw/2, Y: in.H - 10, S: "Fantasy points (PPR)", Color: Black, Anchor: AnchorMiddle})

	return s, Ridgeline{X: x, Baselines: bases, Curves: in.Curves, Scale: grow, Plot: s.Plot}
}

// Pick finds the curve under (px, py) and the data value at px. Later curves
// paint over earlier ones, so they are tested first.
func (r Ridgeline) Pick(px, py float64) (category string, value float64, ok bool) {
	if len(r.Curves) == 0 || px < r.Plot.X || px > r.Plot.X+r.Plot.W {
		return "", 0, false
	}
	value = r.X.Invert(px)
	const slop = 4
	for i := len(r.Curves) - 1; i >= 0; i-- {
		top := r.Baselines[i] - r.Curves[i].At(value)*r.Scale
		if py <= r.Baselines[i]+slop && py >= top-slop {
			return r.Curves[i].Category, value, true
		}
	}
	return "", value, false
}

// ease is cubic in-out.
func ease(p float64) float64 {
	switch {
	case p <= 0:
		return 0
	case p >= 1:
		return 1
	case p < 0.5:
		return 4 * p * p * p
	default:
		q := -2*p + 2
		return 1 - q*q*q/2
	}
}
