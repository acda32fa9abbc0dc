package viewport

import (
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

// --- Scales ---

func TestLinearScale_ApplyInvert(t *testing.T) {
	s := NewLinearScale(0, 100, 0, 500)
	if s.Apply(20) != 100 || s.Invert(250) != 50 {
		t.Fatalf("unexpected mapping: %g %g", s.Apply(20), s.Invert(250))
	}
	y := NewLinearScale(0, 10, 400, 0)
	if y.Apply(10) != 0 || y.Apply(0) != 400 {
		t.Fatal("range may be inverted for y axes")
	}
}

func TestLinearScale_DegenerateDomain(t *testing.T) {
	s := NewLinearScale(7, 7, 0, 100)
	if s.D0 != 6.5 || s.D1 != 7.5 {
		t.Fatalf("single value should widen to span 1, got [%g,%g]", s.D0, s.D1)
	}
	if s.Apply(7) != 50 {
		t.Fatalf("the value should sit mid-range, got %g", s.Apply(7))
	}
	r := NewLinearScale(9, 3, 0, 1)
	if r.D0 != 3 || r.D1 != 9 {
		t.Fatal("reversed domain should be swapped")
	}
	n := NewLinearScale(math.NaN(), 4, 0, 1)
	if n.D0 != 0 || n.D1 != 1 {
		t.Fatal("non-finite domain should fall back to [0,1]")
	}
}

func TestTicks_Nice(t *testing.T) {
	ticks := NewLinearScale(0, 100, 0, 500).Ticks(10)
	if len(ticks) != 11 || ticks[0].Value != 0 || ticks[10].Value != 100 {
		t.Fatalf("unexpected ticks %+v", ticks)
	}
	if ticks[5].Pos != 250 || ticks[5].Label != "50" {
		t.Fatalf("unexpected mid tick %+v", ticks[5])
	}
	for _, tk := range NewLinearScale(3.2, 17.9, 0, 1).Ticks(5) {
		if tk.Value < 3.2 || tk.Value > 17.9 {
			t.Fatalf("tick %g outside domain", tk.Value)
		}
	}
	if step := NiceStep(0, 1, 4); step != 0.25 {
		t.Fatalf("NiceStep(0,1,4) = %g, want 0.25", step)
	}
}

func TestTicks_LabelsKeepStepPrecision(t *testing.T) {
	var got []string
	for _, tk := range NewLinearScale(1, 2, 0, 100).Ticks(4) {
		got = append(got, tk.Label)
	}
	want := []string{"1.00", "1.25", "1.50", "1.75", "2.00"}
	if len(got) != len(want) {
		t.Fatalf("got labels %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got labels %v, want %v", got, want)
		}
	}
	for step, d := range map[float64]int{10: 0, 2.5: 1, 0.5: 1, 0.25: 2, 0.002: 3, 250: 0} {
		if StepDecimals(step) != d {
			t.Fatalf("StepDecimals(%g) = %d, want %d", step, StepDecimals(step), d)
		}
	}
	if FormatTick(0, 0.25) != "0" {
		t.Fatal("zero renders bare")
	}
}

// --- Manager ---

func TestManager_ZoomClampedToExtent(t *testing.T) {
	m := NewManager(800, 600)
	m.Zoom(100, 400, 300)
	if m.Transform().K != 10 {
		t.Fatalf("zoom should clamp to 10, got %g", m.Transform().K)
	}
	m.Zoom(0.001, 400, 300)
	if m.Transform().K != 1 {
		t.Fatalf("zoom should clamp to 1, got %g", m.Transform().K)
	}
	if tr := m.Transform(); tr.TX != 0 || tr.TY != 0 {
		t.Fatalf("at k=1 the view cannot translate, got %v", tr)
	}
}

func TestManager_AnchoredZoomKeepsAnchorFixed(t *testing.T) {
	m := NewManager(800, 600)
	ax, ay := 200.0, 150.0
	dx, dy := m.ToData(ax, ay)
	m.Zoom(2, ax, ay)
	sx, sy := m.ToScreen(dx, dy)
	if !near(sx, ax) || !near(sy, ay) {
		t.Fatalf("anchor moved from (%g,%g) to (%g,%g)", ax, ay, sx, sy)
	}
}

func TestManager_PanClamped(t *testing.T) {
	m := NewManager(800, 600)
	m.Zoom(2, 0, 0)
	m.Pan(10000, 10000)
	if tr := m.Transform(); tr.TX != 0 || tr.TY != 0 {
		t.Fatalf("pan past the top-left should clamp to 0, got %v", tr)
	}
	m.Pan(-10000, -10000)
	if tr := m.Transform(); tr.TX != -800 || tr.TY != -600 {
		t.Fatalf("pan past the bottom-right should clamp to (-800,-600), got %v", tr)
	}
	x0, y0 := m.ToData(0, 0)
	x1, y1 := m.ToData(800, 600)
	if x0 < -eps || y0 < -eps || x1 > 800+eps || y1 > 600+eps {
		t.Fatal("visible region must stay inside the extent")
	}
}

func TestManager_ToScreenToDataRoundTrip(t *testing.T) {
	m := NewManager(800, 600)
	m.Apply(Delta{Scale: 3, AnchorX: 100, AnchorY: 500, DX: -20, DY: 15})
	x, y := m.ToData(m.ToScreen(123, 456))
	if !near(x, 123) || !near(y, 456) {
		t.Fatalf("round trip gave (%g,%g)", x, y)
	}
}

func TestManager_RescaleMatchesTransform(t *testing.T) {
	m := NewManager(800, 600)
	m.Zoom(4, 300, 200)
	sx := NewLinearScale(0, 50, 0, 800)
	rx := m.RescaleX(sx)
	for _, v := range []float64{0, 12.5, 20, 33} {
		want, _ := m.ToScreen(sx.Apply(v), 0)
		if got := rx.Apply(v); !near(got, want) {
			t.Fatalf("rescaled x(%g)=%g, transform gives %g", v, got, want)
		}
	}
	sy := NewLinearScale(0, 10, 600, 0)
	ry := m.RescaleY(sy)
	_, want := m.ToScreen(0, sy.Apply(5))
	if got := ry.Apply(5); !near(got, want) {
		t.Fatalf("rescaled y(5)=%g, transform gives %g", got, want)
	}
	if ry.D0 >= ry.D1 {
		t.Fatal("rescaled domain must keep its orientation")
	}
}

func TestManager_OnChangeAndReset(t *testing.T) {
	m := NewManager(800, 600)
	var seen []Transform
	cancel := m.OnChange(func(tr Transform) { seen = append(seen, tr) })
	m.Zoom(2, 400, 300)
	if len(seen) != 1 || seen[0] != m.Transform() {
		t.Fatalf("listener should see the new transform, got %v", seen)
	}
	if m.Zoom(1, 0, 0) {
		t.Fatal("a no-op gesture should not report a change")
	}
	if !m.Reset() || m.Transform() != Identity || len(seen) != 2 {
		t.Fatalf("reset should notify and return to identity, got %v", m.Transform())
	}
	cancel()
	m.Zoom(2, 0, 0)
	if len(seen) != 2 {
		t.Fatal("cancelled listener still called")
	}
}

func TestManager_SmallExtentIsCentred(t *testing.T) {
	m := NewManager(800, 600, WithTranslateExtent(Extent{X1: 400, Y1: 300}), WithScaleExtent(1, 1))
	if tr := m.Transform(); tr.TX != 200 || tr.TY != 150 {
		t.Fatalf("extent smaller than view should centre, got %v", tr)
	}
}
