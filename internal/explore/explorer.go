// Package explore wires loading, aggregation, density, layout, zoom and
// selection into one frame-driven explorer. Every method must be called from
// the same goroutine (the UI thread, or a test/report loop).
package explore

import (
	"context"
	"fmt"

	"github.com/Garsondee/Gridiron-Sense/internal/aggregate"
	"github.com/Garsondee/Gridiron-Sense/internal/config"
	"github.com/Garsondee/Gridiron-Sense/internal/dataset"
	"github.com/Garsondee/Gridiron-Sense/internal/density"
	"github.com/Garsondee/Gridiron-Sense/internal/eventlog"
	"github.com/Garsondee/Gridiron-Sense/internal/selection"
)

// View names one of the three panels.
type View int

const (
	OverviewView View = iota
	ScatterView
	ComparisonView
)

func (v View) String() string {
	switch v {
	case OverviewView:
		return "overview"
	case ScatterView:
		return "scatter"
	case ComparisonView:
		return "comparison"
	default:
		return "unknown"
	}
}

// Explorer is the single owner of pipeline state between frames.
type Explorer struct {
	ctx  context.Context
	cfg  config.Config
	log  *eventlog.Log
	seed int64

	machine *selection.Machine
	main    *dataset.Fetcher
	detail  *dataset.Fetcher

	frame int

	rows    []dataset.Sample
	rowsTF  dataset.Timeframe
	loaded  bool
	loadErr error
	curves  []density.Curve
	introAt int

	scatter *scatterView

	detailRows   []dataset.Sample
	detailWant   dataset.Timeframe
	detailLoaded bool
	detailAsked  bool

	overlay Overlay
}

// Option configures an Explorer.
type Option func(*Explorer)

// WithSeed overrides the layout seed from the config.
func WithSeed(seed int64) Option {
	return func(e *Explorer) { e.seed = seed }
}

// WithLog records pipeline events to l.
func WithLog(l *eventlog.Log) Option {
	return func(e *Explorer) { e.log = l }
}

// WithTimeframe sets the initial record stream.
func WithTimeframe(tf dataset.Timeframe) Option {
	return func(e *Explorer) { e.rowsTF = tf }
}

// New creates an explorer and starts loading the initial timeframe.
func New(ctx context.Context, src dataset.Source, cfg config.Config, opts ...Option) *Explorer {
	e := &Explorer{
		ctx:    ctx,
		cfg:    cfg,
		seed:   cfg.Layout.Seed,
		main:   dataset.NewFetcher(src),
		detail: dataset.NewFetcher(src),
		rowsTF: dataset.Weekly,
	}
	for _, o := range opts {
		o(e)
	}
	if e.log == nil {
		e.log = eventlog.New()
	}
	e.machine = selection.NewMachine(e.rowsTF, e.log)
	e.machine.OnTransition(e.onTransition)
	e.startMain(e.rowsTF)
	return e
}

// Log returns the event log.
func (e *Explorer) Log() *eventlog.Log { return e.log }

// State returns a copy of the selection.
func (e *Explorer) State() selection.State { return e.machine.State() }

// Frame returns the number of Update calls so far.
func (e *Explorer) Frame() int { return e.frame }

// Loaded reports whether the current timeframe has arrived (possibly empty).
func (e *Explorer) Loaded() bool { return e.loaded }

// LoadErr returns the last load failure, if the current data came from one.
func (e *Explorer) LoadErr() error { return e.loadErr }

// Rows returns the current timeframe's samples.
func (e *Explorer) Rows() []dataset.Sample { return e.rows }

// Curves returns the current overview curves.
func (e *Explorer) Curves() []density.Curve { return e.curves }

// Overlay returns the shared tooltip.
func (e *Explorer) Overlay() *Overlay { return &e.overlay }

// Update advances one frame: delivers finished loads and ticks the layout.
func (e *Explorer) Update() {
	e.frame++
	e.log.SetTick(e.frame)
	e.main.Deliver(e.onMain)
	e.detail.Deliver(e.onDetail)
	if e.scatter == nil {
		return
	}
	n := e.cfg.Window.TicksPerFrame
	if n < 1 {
		n = 1
	}
	for i := 0; i < n; i++ {
		if !e.scatter.sim.Tick() {
			break
		}
	}
}

// Settle blocks until every pending load has been delivered. For headless
// callers that have no frame loop.
func (e *Explorer) Settle(ctx context.Context) error {
	if e.main.Pending() {
		if err := e.main.Wait(ctx, e.onMain); err != nil {
			return err
		}
	}
	if e.detail.Pending() {
		if err := e.detail.Wait(ctx, e.onDetail); err != nil {
			return err
		}
	}
	return nil
}

// Close cancels loads and stops the layout.
func (e *Explorer) Close() {
	e.main.Cancel()
	e.detail.Cancel()
	e.teardownScatter()
}

// Dispatch feeds a selection event. It reports whether it was accepted.
func (e *Explorer) Dispatch(ev selection.Event) bool {
	_, ok := e.machine.Apply(ev)
	return ok
}

func (e *Explorer) startMain(tf dataset.Timeframe) {
	e.loaded = false
	e.loadErr = nil
	e.rows = nil
	e.curves = nil
	e.rowsTF = tf
	gen := e.main.Fetch(e.ctx, tf)
	e.log.Info("", "fetch", "start", "timeframe="+tf.String(), float64(gen))
}

func (e *Explorer) onMain(r dataset.Result) {
	e.loaded = true
	e.rowsTF = r.Timeframe
	if r.Err != nil {
		e.loadErr = r.Err
		e.rows = nil
		e.log.Warn("", "fetch", "failed", r.Err.Error(), 0)
	} else {
		e.rows = r.Samples
		e.log.Info("", "fetch", "loaded", fmt.Sprintf("timeframe=%s rows=%d", r.Timeframe, len(r.Samples)), float64(len(r.Samples)))
	}
	e.recomputeCurves()
}

func (e *Explorer) recomputeCurves() {
	groups := aggregate.Aggregate(e.rows, aggregate.ByPosition, nil, aggregate.Filter{})
	values := aggregate.Samples(groups, dataset.MetricPoints)
	in := make([]density.Group, len(groups))
	for i, g := range groups {
		in[i] = density.Group{Category: g.Key, Values: values[i]}
	}
	est := density.Estimator{Bandwidth: e.cfg.Density.Bandwidth, GridSize: e.cfg.Density.GridSize, Log: e.log}
	e.curves = est.Estimate(in)
	e.introAt = e.frame
	for _, c := range e.curves {
		_, peak := c.Peak()
		e.log.Debug(c.Category, "density", "curve", fmt.Sprintf("samples=%d peak=%.4f", c.Samples, peak), peak)
	}
}

func (e *Explorer) onDetail(r dataset.Result) {
	if r.Timeframe != e.detailWant {
		return
	}
	e.detailLoaded = true
	if r.Err != nil {
		e.detailRows = nil
		e.log.Warn("", "fetch", "detail_failed", r.Err.Error(), 0)
		return
	}
	e.detailRows = r.Samples
	e.log.Info("", "fetch", "detail_loaded", fmt.Sprintf("timeframe=%s rows=%d", r.Timeframe, len(r.Samples)), float64(len(r.Samples)))
}

// refreshDetail makes sure the record stream the comparison needs is loaded
// or loading.
func (e *Explorer) refreshDetail(s selection.State) {
	tf := aggregate.DetailTimeframe(s.Filter())
	if e.detailAsked && e.detailWant == tf && (e.detailLoaded || e.detail.Pending()) {
		return
	}
	e.detailAsked = true
	e.detailWant = tf
	e.detailLoaded = false
	e.detailRows = nil
	gen := e.detail.Fetch(e.ctx, tf)
	e.log.Info("", "fetch", "detail_start", "timeframe="+tf.String(), float64(gen))
}

func (e *Explorer) onTransition(from, to selection.State) {
	switch {
	case from.Timeframe != to.Timeframe:
		e.overlay.Hide()
		e.teardownScatter()
		e.startMain(to.Timeframe)
	case from.Position != to.Position:
		e.overlay.Hide()
		if to.Position == "" {
			e.teardownScatter()
		} else {
			e.buildScatter(to)
		}
	case from.Metric != to.Metric && e.scatter != nil:
		e.scatter.setYMetric(scatterYMetric(to.Metric))
	}
	if to.Mode() == selection.Comparison {
		e.refreshDetail(to)
	}
}

// --- Control surface ---

// ToggleTimeframe flips weekly and season data.
func (e *Explorer) ToggleTimeframe() bool {
	return e.Dispatch(selection.SetTimeframe{Timeframe: e.State().Timeframe.Toggle()})
}

// Back returns to the overview.
func (e *Explorer) Back() bool { return e.Dispatch(selection.Back{}) }

// Metrics lists the metrics selectable for the active position.
func (e *Explorer) Metrics() []string {
	return aggregate.MetricsFor(e.State().Position, e.rows)
}

// CycleMetric moves to the next selectable metric.
func (e *Explorer) CycleMetric() bool {
	return e.Dispatch(selection.SetMetric{Metric: next(e.Metrics(), e.State().Metric)})
}

// SeasonOptions lists "all" followed by the seasons on record for the
// selected players, or for everyone when none are selected.
func (e *Explorer) SeasonOptions() []string {
	st := e.State()
	src := e.rows
	if len(st.Players) > 0 && len(e.detailRows) > 0 {
		src = nil
		for _, r := range e.detailRows {
			if st.Players[r.Player] {
				src = append(src, r)
			}
		}
	}
	out := []string{aggregate.All}
	for _, s := range aggregate.Seasons(src) {
		out = append(out, fmt.Sprint(s))
	}
	return out
}

// CycleSeason moves to the next season filter.
func (e *Explorer) CycleSeason() bool {
	return e.Dispatch(selection.SetSeason{Season: next(e.SeasonOptions(), e.State().Season)})
}

// CycleWeek moves to the next week filter. Needs a concrete season.
func (e *Explorer) CycleWeek() bool {
	opts := []string{aggregate.All}
	for _, w := range aggregate.Weeks() {
		opts = append(opts, fmt.Sprint(w))
	}
	return e.Dispatch(selection.SetWeek{Week: next(opts, e.State().Week)})
}

func next(list []string, cur string) string {
	if len(list) == 0 {
		return cur
	}
	for i, v := range list {
		if v == cur {
			return list[(i+1)%len(list)]
		}
	}
	return list[0]
}
