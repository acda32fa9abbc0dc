// Package view is the ebiten front end: it lays the explorer's three views out
// in one window, forwards pointer and keyboard input, and paints scenes.
package view

import (
	"fmt"
	"image/color"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/Garsondee/Gridiron-Sense/internal/config"
	"github.com/Garsondee/Gridiron-Sense/internal/explore"
	"github.com/Garsondee/Gridiron-Sense/internal/export"
	"github.com/Garsondee/Gridiron-Sense/internal/scene"
	"github.com/Garsondee/Gridiron-Sense/internal/selection"
)

// panelGap is the pixel gap between panels and the window edge.
const panelGap = 12

// action is a keyboard command.
type action int

const (
	actToggleTimeframe action = iota
	actCycleMetric
	actBack
	actResetZoom
	actCycleSeason
	actCycleWeek
	actCopy
	actExport
	actToggleActivity
)

// panel is one view placed in the window.
type panel struct {
	view explore.View
	x, y float64
	w, h float64
}

func (p panel) contains(x, y float64) bool {
	return x >= p.x && x < p.x+p.w && y >= p.y && y < p.y+p.h
}

// local maps window coordinates into the panel's scene coordinates.
func (p panel) local(x, y float64) (float64, float64) {
	return x - p.x, y - p.y
}

// App implements ebiten.Game over an Explorer.
type App struct {
	ex       *explore.Explorer
	cfg      config.Config
	activity *Activity
	face     *text.GoTextFace

	showActivity  bool
	prevKeys      map[ebiten.Key]bool
	prevMouseLeft bool
	dragging      bool
	lastX, lastY  float64

	copyText func(string) error
	now      func() time.Time
	status   string
}

// New wraps an explorer for display.
func New(ex *explore.Explorer, cfg config.Config) *App {
	return &App{
		ex:           ex,
		cfg:          cfg,
		activity:     NewActivity(),
		face:         labelFace(),
		showActivity: true,
		prevKeys:     make(map[ebiten.Key]bool),
		copyText:     clipboard.WriteAll,
		now:          time.Now,
	}
}

// Update handles input, then advances the explorer one frame.
func (a *App) Update() error {
	a.handleInput()
	a.ex.Update()
	a.activity.Sync(a.ex.Log())
	return nil
}

// Layout keeps the logical screen at the configured window size.
func (a *App) Layout(_, _ int) (int, int) {
	return a.cfg.Window.Width, a.cfg.Window.Height
}

// panels places the main view on the left (overview, or the scatter once a
// position is selected) and the comparison to its right.
func (a *App) panels() []panel {
	st := a.ex.State()
	main := explore.OverviewView
	if st.Mode() != selection.Overview {
		main = explore.ScatterView
	}
	mw, mh := a.ex.Size(main)
	out := []panel{{view: main, x: panelGap, y: panelGap, w: mw, h: mh}}
	if st.Mode() != selection.Overview {
		cw, ch := a.ex.Size(explore.ComparisonView)
		out = append(out, panel{view: explore.ComparisonView, x: 2*panelGap + mw, y: panelGap, w: cw, h: ch})
	}
	return out
}

// panelAt returns the panel under a window point.
func (a *App) panelAt(x, y float64) (panel, bool) {
	for _, p := range a.panels() {
		if p.contains(x, y) {
			return p, true
		}
	}
	return panel{}, false
}

// apply runs one keyboard command.
func (a *App) apply(act action) {
	switch act {
	case actToggleTimeframe:
		a.ex.ToggleTimeframe()
	case actCycleMetric:
		a.ex.CycleMetric()
	case actBack:
		a.ex.Back()
	case actResetZoom:
		a.ex.ResetZoom()
	case actCycleSeason:
		a.ex.CycleSeason()
	case actCycleWeek:
		a.ex.CycleWeek()
	case actCopy:
		a.copyComparison()
	case actExport:
		a.exportViews()
	case actToggleActivity:
		a.showActivity = !a.showActivity
	}
}

func (a *App) copyComparison() {
	header, rows := a.ex.ComparisonRows()
	if len(rows) == 0 {
		a.status = "nothing to copy"
		return
	}
	if err := a.copyText(export.TableText(header, rows)); err != nil {
		a.ex.Log().Warn("", "clipboard", "failed", err.Error(), 0)
		a.status = "copy failed"
		return
	}
	a.ex.Log().Info("", "clipboard", "copied", fmt.Sprintf("rows=%d", len(rows)), float64(len(rows)))
	a.status = fmt.Sprintf("copied %d rows", len(rows))
}

func (a *App) exportViews() {
	prefix := a.now().Format("20060102-150405")
	paths, err := a.ex.Export(a.cfg.ExportDir, prefix)
	if err != nil {
		a.status = "export failed"
		return
	}
	a.status = fmt.Sprintf("saved %d files to %s", len(paths), filepath.Clean(a.cfg.ExportDir))
}

// Draw paints every panel, the tooltip, the activity log and the key legend.
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 28, G: 30, B: 36, A: 255})
	var hovered panel
	haveHover := false
	for _, p := range a.panels() {
		drawScene(screen, a.ex.Scene(p.view), p.x, p.y, a.face)
		if p.view == explore.ScatterView {
			if t := a.ex.Transform(); t.K != 1 {
				ebitenutil.DebugPrintAt(screen, fmt.Sprintf("zoom: %.1fx", t.K), int(p.x)+6, int(p.y+p.h)-18)
			}
		}
		if a.ex.Overlay().Visible() && p.contains(a.lastX, a.lastY) {
			hovered, haveHover = p, true
		}
	}

	if a.showActivity {
		x := a.cfg.Window.Width - logPanelWidth(a.cfg)
		y := a.cfg.Window.Height / 2
		if a.ex.State().Mode() != selection.Overview {
			_, ch := a.ex.Size(explore.ComparisonView)
			y = int(ch) + 2*panelGap
		}
		a.activity.Draw(screen, x, y, logPanelWidth(a.cfg)-panelGap, a.cfg.Window.Height-y-40)
	}
	a.drawLegend(screen)

	if haveHover {
		ox, oy := a.ex.Overlay().Position()
		drawTooltip(screen, hovered.x+ox, hovered.y+oy, a.ex.Overlay().Lines(), a.face)
	}
}

// logPanelWidth is the width of the activity panel at the right edge.
func logPanelWidth(cfg config.Config) int {
	return cfg.Window.ComparisonW + panelGap
}

func (a *App) drawLegend(screen *ebiten.Image) {
	st := a.ex.State()
	line := fmt.Sprintf("data: %s  season: %s  week: %s  metric: %s", st.Timeframe, st.Season, st.Week, st.Metric)
	if !a.ex.Loaded() {
		line += "  (loading)"
	} else if err := a.ex.LoadErr(); err != nil {
		line += "  (load failed: " + err.Error() + ")"
	}
	keys := "Tab=weekly/season  M=metric  S/W=season/week  Backspace=back  R=reset zoom  Ctrl+C=copy  E=export  L=log"
	y := a.cfg.Window.Height - 34
	ebitenutil.DebugPrintAt(screen, line, panelGap, y)
	ebitenutil.DebugPrintAt(screen, keys, panelGap, y+14)
	if a.status != "" {
		ebitenutil.DebugPrintAt(screen, a.status, a.cfg.Window.Width-6*len(a.status)-panelGap, y+14)
	}
}

// plotAnchor converts a scatter scene point into plot coordinates, the space
// the zoom transform works in.
func plotAnchor(x, y float64) (float64, float64) {
	return x - scene.ScatterMargin.Left, y - scene.ScatterMargin.Top
}
