package explore

import (
	"fmt"
	"math"
	"strconv"

	"github.com/Garsondee/Gridiron-Sense/internal/aggregate"
	"github.com/Garsondee/Gridiron-Sense/internal/dataset"
	"github.com/Garsondee/Gridiron-Sense/internal/scene"
	"github.com/Garsondee/Gridiron-Sense/internal/selection"
)

// Size returns the scene dimensions of a view.
func (e *Explorer) Size(v View) (float64, float64) {
	w := e.cfg.Window
	switch v {
	case ScatterView:
		return float64(w.ScatterW), float64(w.ScatterH)
	case ComparisonView:
		return float64(w.ComparisonW), float64(w.ComparisonH)
	default:
		return float64(w.OverviewW), float64(w.OverviewH)
	}
}

// Scene builds the current draw list for a view.
func (e *Explorer) Scene(v View) *scene.Scene {
	switch v {
	case ScatterView:
		return e.ScatterScene()
	case ComparisonView:
		return e.ComparisonScene()
	default:
		return e.OverviewScene()
	}
}

func (e *Explorer) overviewTitle() string {
	if e.rowsTF == dataset.Season {
		return "Average Seasonal Fantasy Points Distribution"
	}
	return "Average Weekly Fantasy Points Distribution"
}

func (e *Explorer) ridgeline() (*scene.Scene, scene.Ridgeline) {
	w, h := e.Size(OverviewView)
	progress := 1.0
	if n := e.cfg.Window.IntroFrames; n > 0 {
		progress = float64(e.frame-e.introAt) / float64(n)
	}
	hover := ""
	if e.State().Mode() == selection.Overview {
		hover = e.overlay.Owner()
	}
	return scene.BuildRidgeline(scene.RidgelineInput{
		Title:    e.overviewTitle(),
		Curves:   e.curves,
		W:        w,
		H:        h,
		Scale:    e.cfg.Density.Scale,
		Progress: progress,
		Hover:    hover,
	})
}

// OverviewScene draws one ridgeline per position.
func (e *Explorer) OverviewScene() *scene.Scene {
	w, h := e.Size(OverviewView)
	if !e.loaded {
		return scene.Placeholder(e.overviewTitle(), "loading "+e.rowsTF.String()+" data...", w, h)
	}
	s, _ := e.ridgeline()
	return s
}

// ScatterScene draws the active position's players at their latest layout
// positions, with axes rescaled by the zoom.
func (e *Explorer) ScatterScene() *scene.Scene {
	w, h := e.Size(ScatterView)
	sv := e.scatter
	if sv == nil {
		return scene.Placeholder("Players", "select a position", w, h)
	}
	st := e.State()
	pts := make([]scene.ScatterPoint, len(sv.snap.Positions))
	for i, p := range sv.snap.Positions {
		pts[i] = scene.ScatterPoint{ID: p.ID, X: p.X, Y: p.Y, Selected: st.Selected(p.ID)}
	}
	return scene.BuildScatter(scene.ScatterInput{
		Title:  fmt.Sprintf("%ss: %s vs %s", aggregate.PositionName(sv.position), aggregate.MetricLabel(sv.xMetric), aggregate.MetricLabel(sv.yMetric)),
		W:      w,
		H:      h,
		Points: pts,
		XScale: sv.manager.RescaleX(sv.baseX),
		YScale: sv.manager.RescaleY(sv.baseY),
		XLabel: "Avg " + aggregate.MetricLabel(sv.xMetric),
		YLabel: "Avg " + aggregate.MetricLabel(sv.yMetric),
		Radius: e.cfg.Layout.Radius,
		Hover:  e.overlay.Owner(),
	})
}

// Comparison returns the bar values for the selected players.
func (e *Explorer) Comparison() aggregate.Comparison {
	st := e.State()
	return aggregate.ComparisonValues(e.detailRows, st.SelectedPlayers(), st.Metric, st.Filter())
}

// TableRows returns the single-player table, empty unless one player is selected.
func (e *Explorer) TableRows() []aggregate.Row {
	st := e.State()
	if st.ComparisonKind() != selection.Table {
		return nil
	}
	return aggregate.TableRecord(e.detailRows, st.Order[0], st.Filter())
}

// ComparisonReady reports whether the detail stream for the current filter
// has arrived.
func (e *Explorer) ComparisonReady() bool {
	return e.detailLoaded && e.detailWant == aggregate.DetailTimeframe(e.State().Filter())
}

// ComparisonScene draws the table for one player or bars for several.
func (e *Explorer) ComparisonScene() *scene.Scene {
	w, h := e.Size(ComparisonView)
	st := e.State()
	switch {
	case st.ComparisonKind() == selection.None:
		return scene.Placeholder("Comparison", "click players to compare", w, h)
	case !e.ComparisonReady():
		return scene.Placeholder("Comparison", "loading...", w, h)
	case st.ComparisonKind() == selection.Table:
		return scene.BuildTable(e.TableRows(), w, h)
	default:
		return scene.BuildBars(e.Comparison(), w, h, e.overlay.Owner())
	}
}

// ComparisonRows returns the comparison as a header and text rows, for the
// clipboard and text export.
func (e *Explorer) ComparisonRows() (header []string, rows [][]string) {
	switch e.State().ComparisonKind() {
	case selection.Table:
		for _, r := range e.TableRows() {
			rows = append(rows, []string{r.Stat, r.Value})
		}
		return []string{"Statistic", "Value"}, rows
	case selection.Bars:
		c := e.Comparison()
		for _, b := range c.Bars {
			rows = append(rows, []string{b.Player, strconv.FormatFloat(b.Value, 'f', 2, 64)})
		}
		return []string{"Player", aggregate.MetricLabel(c.Metric)}, rows
	default:
		return nil, nil
	}
}

// --- Pointer handling ---

// Hover updates the tooltip for the pointer at (x, y) in view coordinates.
func (e *Explorer) Hover(v View, x, y float64) {
	switch v {
	case OverviewView:
		if !e.loaded || e.State().Mode() != selection.Overview {
			e.overlay.Hide()
			return
		}
		_, r := e.ridgeline()
		cat, val, ok := r.Pick(x, y)
		if !ok {
			e.overlay.Hide()
			return
		}
		e.overlay.Show(cat, x, y, "Position: "+cat, fmt.Sprintf("Points: %d", int(math.Round(val))))
	case ScatterView:
		if e.scatter == nil {
			e.overlay.Hide()
			return
		}
		id, ok := e.ScatterScene().CircleAt(x, y, 2)
		if !ok {
			e.overlay.Hide()
			return
		}
		m := e.scatter.means[id]
		e.overlay.Show(id, x, y,
			"Player: "+id,
			fmt.Sprintf("Avg %s: %.2f", aggregate.MetricLabel(e.scatter.xMetric), m.Values[e.scatter.xMetric]),
			fmt.Sprintf("Avg %s: %.2f", aggregate.MetricLabel(e.scatter.yMetric), m.Values[e.scatter.yMetric]),
		)
	case ComparisonView:
		if e.State().ComparisonKind() != selection.Bars || !e.ComparisonReady() {
			e.overlay.Hide()
			return
		}
		c := e.Comparison()
		w, h := e.Size(ComparisonView)
		id, ok := scene.BuildBars(c, w, h, "").RectAt(x, y)
		if !ok {
			e.overlay.Hide()
			return
		}
		for _, b := range c.Bars {
			if b.Player == id {
				e.overlay.Show(id, x, y, b.Player, c.ValueLabel(b))
				return
			}
		}
	}
}

// Click activates the mark under (x, y): a ridgeline selects its position, a
// scatter node toggles its player.
func (e *Explorer) Click(v View, x, y float64) bool {
	switch v {
	case OverviewView:
		if !e.loaded || e.State().Mode() != selection.Overview {
			return false
		}
		_, r := e.ridgeline()
		cat, _, ok := r.Pick(x, y)
		if !ok {
			return false
		}
		e.overlay.Hide()
		return e.Dispatch(selection.SelectPosition{Position: cat})
	case ScatterView:
		if e.scatter == nil {
			return false
		}
		id, ok := e.ScatterScene().CircleAt(x, y, 2)
		if !ok {
			return false
		}
		return e.Dispatch(selection.TogglePlayer{Player: id})
	default:
		return false
	}
}

// HideOverlay clears the tooltip, e.g. when the pointer leaves every view.
func (e *Explorer) HideOverlay() { e.overlay.Hide() }
