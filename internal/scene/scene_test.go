package scene

import (
	"fmt"
	"math"
	"testing"
	"unicode/utf8"

	"github.com/Garsondee/Gridiron-Sense/internal/aggregate"
	"github.com/Garsondee/Gridiron-Sense/internal/density"
	"github.com/Garsondee/Gridiron-Sense/internal/viewport"
)

func testCurves() []density.Curve {
	return density.Estimate([]density.Group{
		{Category: "QB", Values: []float64{10, 15, 20, 22}},
		{Category: "RB", Values: []float64{3, 5, 8, 30}},
		{Category: "WR", Values: []float64{6, 9, 12}},
	}, 7, 40)
}

// --- Ridgeline ---

func TestBuildRidgeline_OnePathPerCategory(t *testing.T) {
	s, r := BuildRidgeline(RidgelineInput{Title: "t", Curves: testCurves(), W: 800, H: 600, Scale: 1000, Progress: 1})
	if len(s.Paths) != 3 {
		t.Fatalf("expected 3 paths, got %d", len(s.Paths))
	}
	for i, p := range s.Paths {
		if len(p.Points) != 42 || !p.Closed {
			t.Fatalf("path %d should close 40 grid points to the baseline, got %d", i, len(p.Points))
		}
		for _, q := range p.Points {
			if q.Y > r.Baselines[i]+1e-9 {
				t.Fatalf("path %d dips below its baseline", i)
			}
		}
	}
	if r.Baselines[0] != RidgelineMargin.Top || r.Baselines[2] != 600-RidgelineMargin.Bottom {
		t.Fatalf("bands should span the plot height, got %v", r.Baselines)
	}
}

func TestBuildRidgeline_IntroStartsFlat(t *testing.T) {
	s, r := BuildRidgeline(RidgelineInput{Curves: testCurves(), W: 800, H: 600, Scale: 1000, Progress: 0})
	for i, p := range s.Paths {
		for _, q := range p.Points {
			if q.Y != r.Baselines[i] {
				t.Fatal("progress 0 should draw flat curves")
			}
		}
	}
	if ease(0.5) != 0.5 || ease(2) != 1 {
		t.Fatal("unexpected easing")
	}
}

func TestBuildRidgeline_SingleCategoryCentred(t *testing.T) {
	curves := density.Estimate([]density.Group{{Category: "TE", Values: []float64{4, 9}}}, 7, 40)
	_, r := BuildRidgeline(RidgelineInput{Curves: curves, W: 800, H: 600, Progress: 1})
	want := RidgelineMargin.Top + (600-RidgelineMargin.Top-RidgelineMargin.Bottom)/2
	if r.Baselines[0] != want {
		t.Fatalf("single band baseline = %g, want %g", r.Baselines[0], want)
	}
	if r.Scale <= 0 {
		t.Fatal("auto scale should be positive")
	}
}

func TestBuildRidgeline_Empty(t *testing.T) {
	s, r := BuildRidgeline(RidgelineInput{W: 800, H: 600})
	if len(s.Paths) != 0 || len(s.Texts) == 0 {
		t.Fatal("empty input should produce a placeholder")
	}
	if _, _, ok := r.Pick(400, 300); ok {
		t.Fatal("nothing to pick in an empty ridgeline")
	}
}

func TestRidgelinePick(t *testing.T) {
	curves := testCurves()
	_, r := BuildRidgeline(RidgelineInput{Curves: curves, W: 800, H: 600, Scale: 1000, Progress: 1})
	// A point just above the RB baseline at the RB peak.
	v, _ := curves[1].Peak()
	px := r.X.Apply(v)
	cat, got, ok := r.Pick(px, r.Baselines[1]-2)
	if !ok || cat != "RB" {
		t.Fatalf("expected RB, got %q ok=%v", cat, ok)
	}
	if math.Abs(got-v) > 1e-6 {
		t.Fatalf("picked value %g, want %g", got, v)
	}
	if _, _, ok := r.Pick(5, r.Baselines[1]); ok {
		t.Fatal("points left of the plot should miss")
	}
}

// --- Scatter ---

func TestBuildScatter(t *testing.T) {
	x := viewport.NewLinearScale(0, 10, 0, 920)
	y := viewport.NewLinearScale(0, 10, 700, 0)
	s := BuildScatter(ScatterInput{
		W: 1000, H: 760, XScale: x, YScale: y,
		Points: []ScatterPoint{
			{ID: "A", X: 100, Y: 100, Selected: true},
			{ID: "B", X: 200, Y: 100},
			{ID: "far", X: 5000, Y: 100},
		},
		Hover: "B",
	})
	if len(s.Circles) != 2 {
		t.Fatalf("off-plot node should be culled, got %d circles", len(s.Circles))
	}
	if s.Circles[1].ID != "A" || s.Circles[1].Fill != Highlight {
		t.Fatal("selected nodes paint last and highlighted")
	}
	if s.Circles[0].R <= 5 {
		t.Fatal("hovered node should be enlarged")
	}
	if id, ok := s.CircleAt(ScatterMargin.Left+200, ScatterMargin.Top+102, 2); !ok || id != "B" {
		t.Fatalf("expected to hit B, got %q", id)
	}
}

// --- Comparison ---

func TestBuildBars(t *testing.T) {
	c := aggregate.Comparison{Position: "QB", Metric: "fantasy_points_ppr", Mode: aggregate.Average,
		Bars: []aggregate.Bar{{Player: "A", Value: 10}, {Player: "B", Value: 20}, {Player: "C", Value: -5}}}
	s := BuildBars(c, 560, 520, "")
	var bars []Rect
	for _, r := range s.Rects {
		if r.ID != "" {
			bars = append(bars, r)
		}
	}
	if len(bars) != 3 {
		t.Fatalf("expected 3 bars, got %d", len(bars))
	}
	if bars[1].H <= bars[0].H || bars[0].H <= 0 || bars[2].H <= 0 {
		t.Fatalf("bar heights should follow values: %+v", bars)
	}
	if bars[0].Fill != Hex("#1f77b4") || bars[1].Fill != Hex("#ff7f0e") {
		t.Fatal("bars use the comparison palette in order")
	}
	if bars[2].Y+1e-9 < bars[0].Y+bars[0].H {
		t.Fatal("negative bars hang below the zero line")
	}
	if id, ok := s.RectAt(bars[1].X+1, bars[1].Y+1); !ok || id != "B" {
		t.Fatalf("expected to hit bar B, got %q", id)
	}
	if s.Title != "Comparing Quarterbacks by fantasy points ppr across all seasons" {
		t.Fatalf("unexpected title %q", s.Title)
	}
}

func TestNewBand(t *testing.T) {
	b := NewBand(4, 0, 420, 0.2)
	if math.Abs(b.Step-100) > 1e-9 || math.Abs(b.Width-80) > 1e-9 || math.Abs(b.Start-20) > 1e-9 {
		t.Fatalf("unexpected band %+v", b)
	}
}

func TestBuildTable(t *testing.T) {
	s := BuildTable([]aggregate.Row{{Stat: "player_name", Value: "A"}, {Stat: "rushing_yards", Value: "900"}}, 560, 520)
	found := false
	for _, tx := range s.Texts {
		if tx.S == "rushing_yards" {
			found = true
		}
	}
	if !found {
		t.Fatal("table should list each stat")
	}
	empty := BuildTable(nil, 560, 520)
	if len(empty.Texts) != 1 {
		t.Fatal("empty table should show a single message")
	}
}

func TestTruncate_KeepsRunesWhole(t *testing.T) {
	cases := []struct {
		in     string
		limit  int
		suffix string
		want   string
	}{
		{"Bobby", 10, ".", "Bobby"},
		{"Ja'Marr Chase", 6, ".", "Ja'Ma."},
		{"Željko Ćosić", 5, ".", "Želj."},
		{"Đurđević", 6, "...", "Đur..."},
	}
	for _, c := range cases {
		got := truncate(c.in, c.limit, c.suffix)
		if got != c.want || !utf8.ValidString(got) {
			t.Fatalf("truncate(%q, %d) = %q, want %q", c.in, c.limit, got, c.want)
		}
	}
	if got := fit("Ærøskøbing Åsgårdstrand", 70); !utf8.ValidString(got) || utf8.RuneCountInString(got) != 10 {
		t.Fatalf("fit should cut on rune boundaries, got %q", got)
	}
}

func TestBuildBars_MultibyteLabelsStayValid(t *testing.T) {
	c := aggregate.Comparison{Position: "WR", Metric: "receiving_yards", Mode: aggregate.Total}
	for i := 0; i < 10; i++ {
		c.Bars = append(c.Bars, aggregate.Bar{Player: fmt.Sprintf("Ñandú Ølstrøm %d", i), Value: float64(i)})
	}
	s := BuildBars(c, 560, 520, "")
	for _, tx := range s.Texts {
		if !utf8.ValidString(tx.S) {
			t.Fatalf("label %q is not valid UTF-8", tx.S)
		}
	}
}

func TestTranslateAndHex(t *testing.T) {
	s := New("x", 10, 10)
	s.Circles = append(s.Circles, Circle{ID: "a", X: 1, Y: 2, R: 1})
	moved := s.Translate(5, 5)
	if moved.Circles[0].X != 6 || s.Circles[0].X != 1 {
		t.Fatal("translate should copy, not mutate")
	}
	if Hex("#ff7f0e").G != 0x7f || Hex("zz") != Black {
		t.Fatal("unexpected hex parsing")
	}
}
