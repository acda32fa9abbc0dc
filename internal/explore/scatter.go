package explore

import (
	"fmt"
	"math"

	"github.com/Garsondee/Gridiron-Sense/internal/aggregate"
	"github.com/Garsondee/Gridiron-Sense/internal/dataset"
	"github.com/Garsondee/Gridiron-Sense/internal/layout"
	"github.com/Garsondee/Gridiron-Sense/internal/scene"
	"github.com/Garsondee/Gridiron-Sense/internal/selection"
	"github.com/Garsondee/Gridiron-Sense/internal/viewport"
)

// scatterView is the live state of one position's scatter: node means, base
// scales, the simulation and the zoom manager.
type scatterView struct {
	position string
	xMetric  string
	yMetric  string

	groups []aggregate.Group
	means  map[string]aggregate.EntityMean
	values map[string][2]float64
	order  []string

	w, h         float64
	baseX, baseY viewport.LinearScale

	sim     *layout.Simulator
	manager *viewport.Manager
	snap    layout.Snapshot
	cancels []func()
}

// scatterYMetric is the vertical axis for a chosen metric. The x axis is
// always the primary score, so choosing it puts draft pick on y.
func scatterYMetric(metric string) string {
	if metric == "" || metric == dataset.MetricPoints {
		return dataset.MetricDraftPick
	}
	return metric
}

func (e *Explorer) buildScatter(st selection.State) {
	e.teardownScatter()
	pw, ph := scene.ScatterMargin.Inner(float64(e.cfg.Window.ScatterW), float64(e.cfg.Window.ScatterH))
	sv := &scatterView{
		position: st.Position,
		xMetric:  dataset.MetricPoints,
		yMetric:  scatterYMetric(st.Metric),
		w:        pw,
		h:        ph,
	}
	sv.groups = aggregate.Aggregate(e.rows, aggregate.ByPlayer, nil, aggregate.Filter{Position: st.Position})
	sv.computeMeans()

	nodes := make([]layout.Node, len(sv.order))
	for i, id := range sv.order {
		v := sv.values[id]
		nodes[i] = layout.Node{ID: id, TargetA: v[0], TargetB: v[1]}
	}

	lc := e.cfg.Layout
	sv.manager = viewport.NewManager(pw, ph,
		viewport.WithScaleExtent(e.cfg.Zoom.Min, e.cfg.Zoom.Max),
		viewport.WithManagerLog(e.log))
	opts := []layout.Option{
		layout.WithBounds(layout.Bounds{X1: pw, Y1: ph}),
		layout.WithStrength(lc.Strength),
		layout.WithRadius(lc.Radius),
		layout.WithAlphaMin(lc.AlphaMin),
		layout.WithVelocityDecay(lc.VelocityDecay),
		layout.WithRetargetAlpha(lc.RetargetAlpha),
		layout.WithLog(e.log, st.Position),
	}
	if e.seed != 0 {
		opts = append(opts, layout.WithSeed(e.seed))
	}
	sv.sim = layout.New(nodes, sv.target, opts...)
	sv.snap = sv.sim.Snapshot()
	sv.cancels = append(sv.cancels,
		sv.sim.Subscribe(func(s layout.Snapshot) { sv.snap = s }),
		sv.manager.OnChange(func(viewport.Transform) { sv.sim.Retarget(sv.target) }),
	)
	e.scatter = sv
	e.log.Info(st.Position, "layout", "start", fmt.Sprintf("nodes=%d seed=%d", len(nodes), sv.sim.Seed()), float64(len(nodes)))
}

func (e *Explorer) teardownScatter() {
	if e.scatter == nil {
		return
	}
	for _, c := range e.scatter.cancels {
		c()
	}
	e.scatter.sim.Stop()
	e.log.Info(e.scatter.position, "layout", "teardown", fmt.Sprintf("ticks=%d", e.scatter.sim.Ticks()), float64(e.scatter.sim.Ticks()))
	e.scatter = nil
}

func (sv *scatterView) computeMeans() {
	metrics := []string{sv.xMetric, sv.yMetric}
	sv.means = make(map[string]aggregate.EntityMean, len(sv.groups))
	sv.values = make(map[string][2]float64, len(sv.groups))
	sv.order = sv.order[:0]
	loX, hiX := math.Inf(1), math.Inf(-1)
	loY, hiY := math.Inf(1), math.Inf(-1)
	for _, m := range aggregate.EntityMeans(sv.groups, metrics) {
		a, b := m.Values[sv.xMetric], m.Values[sv.yMetric]
		sv.means[m.Entity] = m
		sv.values[m.Entity] = [2]float64{a, b}
		sv.order = append(sv.order, m.Entity)
		loX, hiX = math.Min(loX, a), math.Max(hiX, a)
		loY, hiY = math.Min(loY, b), math.Max(hiY, b)
	}
	sv.baseX = viewport.NewLinearScale(loX, hiX, 0, sv.w)
	sv.baseY = viewport.NewLinearScale(loY, hiY, sv.h, 0)
}

// target maps a node's data values through the base scales and the zoom.
func (sv *scatterView) target(n layout.Node) (float64, float64) {
	v, ok := sv.values[n.ID]
	if !ok {
		v = [2]float64{n.TargetA, n.TargetB}
	}
	return sv.manager.ToScreen(sv.baseX.Apply(v[0]), sv.baseY.Apply(v[1]))
}

func (sv *scatterView) setYMetric(metric string) {
	if metric == sv.yMetric {
		return
	}
	sv.yMetric = metric
	sv.computeMeans()
	sv.sim.Retarget(sv.target)
}

// --- Zoom and pan ---

// Zoom scales the scatter about a point in plot coordinates.
func (e *Explorer) Zoom(factor, px, py float64) bool {
	if e.scatter == nil {
		return false
	}
	return e.scatter.manager.Zoom(factor, px, py)
}

// Pan moves the scatter by screen pixels.
func (e *Explorer) Pan(dx, dy float64) bool {
	if e.scatter == nil {
		return false
	}
	return e.scatter.manager.Pan(dx, dy)
}

// ResetZoom returns the scatter to the identity transform.
func (e *Explorer) ResetZoom() bool {
	if e.scatter == nil {
		return false
	}
	return e.scatter.manager.Reset()
}

// Transform returns the scatter's view transform, or identity without one.
func (e *Explorer) Transform() viewport.Transform {
	if e.scatter == nil {
		return viewport.Identity
	}
	return e.scatter.manager.Transform()
}

// Layout returns the running simulation, if a position is selected.
func (e *Explorer) Layout() (*layout.Simulator, bool) {
	if e.scatter == nil {
		return nil, false
	}
	return e.scatter.sim, true
}

// RunLayout ticks the simulation until it settles or maxTicks have run.
func (e *Explorer) RunLayout(maxTicks int) int {
	if e.scatter == nil {
		return 0
	}
	return e.scatter.sim.Run(maxTicks)
}

// Positions returns the latest published node positions in plot coordinates.
func (e *Explorer) Positions() []layout.Position {
	if e.scatter == nil {
		return nil
	}
	return e.scatter.snap.Positions
}

// PlotSize returns the scatter's plot area.
func (e *Explorer) PlotSize() (float64, float64) {
	return scene.ScatterMargin.Inner(float64(e.cfg.Window.ScatterW), float64(e.cfg.Window.ScatterH))
}
