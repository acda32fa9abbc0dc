package view

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Garsondee/Gridiron-Sense/internal/config"
	"github.com/Garsondee/Gridiron-Sense/internal/dataset"
	"github.com/Garsondee/Gridiron-Sense/internal/eventlog"
	"github.com/Garsondee/Gridiron-Sense/internal/explore"
	"github.com/Garsondee/Gridiron-Sense/internal/selection"
)

type memSource map[dataset.Timeframe][]dataset.Sample

func (m memSource) Load(ctx context.Context, tf dataset.Timeframe) ([]dataset.Sample, error) {
	return m[tf], nil
}

func sample(player, pos string, season, week int, pts float64) dataset.Sample {
	return dataset.Sample{
		Player: player, Position: pos, Season: season, Week: week,
		Metrics: map[string]float64{dataset.MetricPoints: pts, dataset.MetricDraftPick: 10},
		Raw:     map[string]string{dataset.MetricPoints: "x"},
	}
}

// newTestApp builds an app over a loaded explorer with the clipboard and
// clock stubbed out.
func newTestApp(t *testing.T) (*App, *[]string) {
	t.Helper()
	src := memSource{
		dataset.Weekly: {sample("A", "QB", 2023, 1, 10), sample("B", "QB", 2023, 1, 20), sample("C", "RB", 2023, 1, 5)},
		dataset.Season: {sample("A", "QB", 2023, 0, 200), sample("B", "QB", 2023, 0, 300)},
	}
	cfg := config.Default()
	cfg.ExportDir = t.TempDir()
	ex := explore.New(context.Background(), src, cfg, explore.WithSeed(3))
	t.Cleanup(ex.Close)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := ex.Settle(ctx); err != nil {
		t.Fatal(err)
	}
	a := New(ex, cfg)
	var copied []string
	a.copyText = func(s string) error {
		copied = append(copied, s)
		return nil
	}
	a.now = func() time.Time { return time.Date(2024, 9, 8, 13, 0, 0, 0, time.UTC) }
	return a, &copied
}

func settle(t *testing.T, ex *explore.Explorer) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := ex.Settle(ctx); err != nil {
		t.Fatal(err)
	}
}

// --- Panels ---

func TestPanels_FollowMode(t *testing.T) {
	a, _ := newTestApp(t)
	ps := a.panels()
	if len(ps) != 1 || ps[0].view != explore.OverviewView {
		t.Fatalf("overview mode should show one panel, got %+v", ps)
	}
	a.ex.Dispatch(selection.SelectPosition{Position: "QB"})
	ps = a.panels()
	if len(ps) != 2 || ps[0].view != explore.ScatterView || ps[1].view != explore.ComparisonView {
		t.Fatalf("scatter mode should show scatter and comparison, got %+v", ps)
	}
	if ps[1].x < ps[0].x+ps[0].w {
		t.Fatal("comparison panel overlaps the scatter")
	}
	p, ok := a.panelAt(ps[1].x+5, ps[1].y+5)
	if !ok || p.view != explore.ComparisonView {
		t.Fatal("point inside the comparison panel should pick it")
	}
	if lx, ly := p.local(ps[1].x+5, ps[1].y+7); lx != 5 || ly != 7 {
		t.Fatalf("local mapping off: %g,%g", lx, ly)
	}
	if _, ok := a.panelAt(1, 1); ok {
		t.Fatal("gap should not pick a panel")
	}
}

func TestPlotAnchor(t *testing.T) {
	x, y := plotAnchor(70, 40)
	if x != 20 || y != 20 {
		t.Fatalf("got %g,%g", x, y)
	}
}

// --- Actions ---

func TestApply_KeyboardCommands(t *testing.T) {
	a, _ := newTestApp(t)
	a.apply(actCycleMetric)
	if a.ex.State().Metric != dataset.MetricDraftPick {
		t.Fatalf("M should cycle metric, got %s", a.ex.State().Metric)
	}
	a.apply(actCycleSeason)
	if a.ex.State().Season != "2023" {
		t.Fatalf("S should cycle season, got %s", a.ex.State().Season)
	}
	a.apply(actCycleWeek)
	if a.ex.State().Week != "1" {
		t.Fatalf("W should cycle week, got %s", a.ex.State().Week)
	}
	a.ex.Dispatch(selection.SelectPosition{Position: "QB"})
	a.ex.Zoom(2, 10, 10)
	a.apply(actResetZoom)
	if a.ex.Transform().K != 1 {
		t.Fatal("R should reset zoom")
	}
	a.apply(actBack)
	if a.ex.State().Mode() != selection.Overview {
		t.Fatal("Backspace should return to the overview")
	}
	a.apply(actToggleTimeframe)
	if a.ex.State().Timeframe != dataset.Season {
		t.Fatal("Tab should switch to season data")
	}
	a.apply(actToggleActivity)
	if a.showActivity {
		t.Fatal("L should hide the activity panel")
	}
}

func TestApply_CopyComparison(t *testing.T) {
	a, copied := newTestApp(t)
	a.apply(actCopy)
	if len(*copied) != 0 || a.status != "nothing to copy" {
		t.Fatalf("copy with no selection should do nothing, status %q", a.status)
	}
	a.ex.Dispatch(selection.SelectPosition{Position: "QB"})
	a.ex.Dispatch(selection.TogglePlayer{Player: "A"})
	a.ex.Dispatch(selection.TogglePlayer{Player: "B"})
	settle(t, a.ex)
	a.apply(actCopy)
	if len(*copied) != 1 {
		t.Fatal("expected one clipboard write")
	}
	text := (*copied)[0]
	if !strings.HasPrefix(text, "Player") || !strings.Contains(text, "200.00") || !strings.Contains(text, "300.00") {
		t.Fatalf("unexpected clipboard text %q", text)
	}
	if !a.ex.Log().HasEntry("clipboard", "copied", "rows=2") {
		t.Fatalf("expected clipboard entry:\n%s", a.ex.Log().Format())
	}
}

func TestApply_CopyFailureIsLogged(t *testing.T) {
	a, _ := newTestApp(t)
	a.copyText = func(string) error { return errors.New("no clipboard") }
	a.ex.Dispatch(selection.SelectPosition{Position: "QB"})
	a.ex.Dispatch(selection.TogglePlayer{Player: "A"})
	settle(t, a.ex)
	a.apply(actCopy)
	if a.status != "copy failed" || !a.ex.Log().HasEntry("clipboard", "failed", "no clipboard") {
		t.Fatalf("copy failure should be reported, status %q", a.status)
	}
}

func TestApply_Export(t *testing.T) {
	a, _ := newTestApp(t)
	a.apply(actExport)
	if !strings.HasPrefix(a.status, "saved 1 files") {
		t.Fatalf("unexpected status %q", a.status)
	}
	if !a.ex.Log().HasEntry("export", "saved", "") {
		t.Fatal("export should be logged")
	}
}

// --- Activity ---

func TestActivity_RingBuffer(t *testing.T) {
	act := NewActivity()
	for i := 0; i < activityMaxEntries+5; i++ {
		act.Add(eventlog.Entry{Tick: i})
	}
	got := act.Recent()
	if len(got) != activityMaxEntries {
		t.Fatalf("expected %d entries, got %d", activityMaxEntries, len(got))
	}
	if got[0].Tick != 5 || got[len(got)-1].Tick != activityMaxEntries+4 {
		t.Fatalf("oldest/newest wrong: %d..%d", got[0].Tick, got[len(got)-1].Tick)
	}
}

func TestActivity_SyncSkipsDebug(t *testing.T) {
	l := eventlog.New(eventlog.WithVerbose(true))
	act := NewActivity()
	l.Info("QB", "layout", "start", "", 0)
	l.Debug("QB", "layout", "retarget", "", 0)
	act.Sync(l)
	l.Warn("", "fetch", "failed", "boom", 0)
	act.Sync(l)
	got := act.Recent()
	if len(got) != 2 || got[0].Key != "start" || got[1].Key != "failed" {
		t.Fatalf("unexpected activity %+v", got)
	}
}
