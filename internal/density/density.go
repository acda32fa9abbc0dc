// Package density turns per-group sample values into Epanechnikov KDE curves
// evaluated on one grid shared by every group in a pass.
package density

import (
	"math"

	"github.com/Garsondee/Gridiron-Sense/internal/eventlog"
)

// Defaults used when callers pass non-positive parameters.
const (
	DefaultBandwidth = 7.0
	DefaultGridSize  = 40
)

// Group is one category's sample values.
type Group struct {
	Category string
	Values   []float64
}

// Point is one (value, density) pair.
type Point struct {
	Value   float64
	Density float64
}

// Curve is a category's density evaluated on the shared grid.
type Curve struct {
	Category string
	Points   []Point
	Samples  int
}

// Peak returns the highest density on the curve and where it occurs.
func (c Curve) Peak() (value, density float64) {
	for _, p := range c.Points {
		if p.Density > density {
			value, density = p.Value, p.Density
		}
	}
	return value, density
}

// At linearly interpolates the curve's density at v. Outside the grid it is 0.
func (c Curve) At(v float64) float64 {
	n := len(c.Points)
	if n == 0 || v < c.Points[0].Value || v > c.Points[n-1].Value {
		return 0
	}
	for i := 1; i < n; i++ {
		a, b := c.Points[i-1], c.Points[i]
		if v <= b.Value {
			if b.Value == a.Value {
				return b.Density
			}
			t := (v - a.Value) / (b.Value - a.Value)
			return a.Density + t*(b.Density-a.Density)
		}
	}
	return c.Points[n-1].Density
}

// Epanechnikov returns the kernel with bandwidth h.
func Epanechnikov(h float64) func(d float64) float64 {
	return func(d float64) float64 {
		u := d / h
		if math.Abs(u) > 1 {
			return 0
		}
		return 0.75 * (1 - u*u) / h
	}
}

// Grid returns n evenly spaced points from lo to hi inclusive. A degenerate
// span widens to 1 around lo.
func Grid(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if !(hi > lo) {
		lo, hi = lo-0.5, lo+0.5
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = lo
		return out
	}
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}

// Domain returns the global min and max of every finite value in groups.
// ok is false when there are none.
func Domain(groups []Group) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, g := range groups {
		for _, v := range g.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
			ok = true
		}
	}
	if !ok {
		return 0, 0, false
	}
	return lo, hi, true
}

// Estimator runs KDE passes and reports degenerate input to its log.
type Estimator struct {
	Bandwidth float64
	GridSize  int
	Log       *eventlog.Log
}

// Estimate evaluates every group on the shared grid. It never fails: bad
// parameters fall back to defaults and empty groups yield flat curves.
func (e Estimator) Estimate(groups []Group) []Curve {
	h, n := e.Bandwidth, e.GridSize
	if !(h > 0) {
		e.Log.Warn("", "density", "bad_bandwidth", "bandwidth <= 0, using default", h)
		h = DefaultBandwidth
	}
	if n <= 0 {
		e.Log.Warn("", "density", "bad_grid", "grid size <= 0, using default", float64(n))
		n = DefaultGridSize
	}

	lo, hi, ok := Domain(groups)
	if !ok {
		lo, hi = 0, 1
		e.Log.Warn("", "density", "no_samples", "no finite samples in any group", 0)
	}
	grid := Grid(lo, hi, n)
	kernel := Epanechnikov(h)

	curves := make([]Curve, len(groups))
	for gi, g := range groups {
		finite := make([]float64, 0, len(g.Values))
		for _, v := range g.Values {
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				finite = append(finite, v)
			}
		}
		pts := make([]Point, len(grid))
		for i, x := range grid {
			pts[i].Value = x
			if len(finite) == 0 {
				continue
			}
			sum := 0.0
			for _, s := range finite {
				sum += kernel(x - s)
			}
			pts[i].Density = sum / float64(len(finite))
		}
		if len(finite) == 0 && ok {
			e.Log.Warn(g.Category, "density", "empty_group", "no samples, flat curve", 0)
		}
		curves[gi] = Curve{Category: g.Category, Points: pts, Samples: len(finite)}
	}
	return curves
}

// Estimate runs one pass without a log.
func Estimate(groups []Group, bandwidth float64, gridSize int) []Curve {
	return Estimator{Bandwidth: bandwidth, GridSize: gridSize}.Estimate(groups)
}

// MaxDensity returns the largest density over all curves.
func MaxDensity(curves []Curve) float64 {
	m := 0.0
	for _, c := range curves {
		if _, d := c.Peak(); d > m {
			m = d
		}
	}
	return m
}
