// Package viewport owns the zoom/pan transform of the scatter view and the
// linear scales composed with it.
package viewport

import (
	"math"
	"strconv"
)

// LinearScale maps the domain [D0,D1] onto the range [R0,R1].
type LinearScale struct {
	D0, D1 float64
	R0, R1 float64
}

// NewLinearScale builds a scale over [d0,d1]. A reversed domain is swapped and
// an empty or non-finite one falls back to a span of 1 so the scale is always
// invertible.
func NewLinearScale(d0, d1, r0, r1 float64) LinearScale {
	if !finite(d0) || !finite(d1) {
		d0, d1 = 0, 1
	}
	if d1 < d0 {
		d0, d1 = d1, d0
	}
	if d1 == d0 {
		d0, d1 = d0-0.5, d0+0.5
	}
	return LinearScale{D0: d0, D1: d1, R0: r0, R1: r1}
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Apply maps a domain value to the range.
func (s LinearScale) Apply(v float64) float64 {
	if s.D1 == s.D0 {
		return s.R0
	}
	return s.R0 + (v-s.D0)/(s.D1-s.D0)*(s.R1-s.R0)
}

// Invert maps a range value back to the domain.
func (s LinearScale) Invert(p float64) float64 {
	if s.R1 == s.R0 {
		return s.D0
	}
	return s.D0 + (p-s.R0)/(s.R1-s.R0)*(s.D1-s.D0)
}

// Tick is one axis mark.
type Tick struct {
	Value float64
	Pos   float64
	Label string
}

// Ticks returns roughly n marks at 1, 2, 2.5 or 5 times a power of ten,
// restricted to the domain.
func (s LinearScale) Ticks(n int) []Tick {
	lo, hi := math.Min(s.D0, s.D1), math.Max(s.D0, s.D1)
	step := NiceStep(lo, hi, n)
	if step <= 0 {
		return nil
	}
	start := math.Ceil(lo/step) * step
	var out []Tick
	for i := 0; ; i++ {
		v := start + float64(i)*step
		if v > hi+step*1e-9 || i > n*4+2 {
			break
		}
		if math.Abs(v) < step*1e-9 {
			v = 0
		}
		out = append(out, Tick{Value: v, Pos: s.Apply(v), Label: FormatTick(v, step)})
	}
	return out
}

// NiceStep picks the tick step for [lo,hi] whose tick count lands closest to n.
func NiceStep(lo, hi float64, n int) float64 {
	if n < 1 || !finite(lo) || !finite(hi) {
		return 0
	}
	if hi <= lo {
		hi = lo + 1
	}
	span := hi - lo
	mag := math.Pow(10, math.Floor(math.Log10(span/float64(n))))
	best, bestScore := mag, math.MaxFloat64
	for _, c := range []float64{1, 2, 2.5, 5, 10} {
		step := c * mag
		score := math.Abs(span/step - float64(n))
		if score < bestScore {
			best, bestScore = step, score
		}
	}
	return best
}

// FormatTick renders v with the fixed decimals step needs, so neighbouring
// ticks never share a label.
func FormatTick(v, step float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', StepDecimals(step), 64)
}

// StepDecimals is the fewest decimal places that represent multiples of step
// exactly: 0 for 10, 1 for 0.5, 2 for 0.25.
func StepDecimals(step float64) int {
	step = math.Abs(step)
	if step == 0 || !finite(step) {
		return 0
	}
	for d := 0; d < 12; d++ {
		scaled := step * math.Pow(10, float64(d))
		if math.Abs(scaled-math.Round(scaled)) < 1e-9*math.Max(1, scaled) {
			return d
		}
	}
	return 12
}
