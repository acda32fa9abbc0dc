package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/Garsondee/Gridiron-Sense/internal/aggregate"
	"github.com/Garsondee/Gridiron-Sense/internal/config"
	"github.com/Garsondee/Gridiron-Sense/internal/dataset"
	"github.com/Garsondee/Gridiron-Sense/internal/density"
	"github.com/Garsondee/Gridiron-Sense/internal/eventlog"
	"github.com/Garsondee/Gridiron-Sense/internal/explore"
	"github.com/Garsondee/Gridiron-Sense/internal/layout"
	"github.com/Garsondee/Gridiron-Sense/internal/selection"
)

type runStats struct {
	runIndex int
	seed     int64
	position string

	nodes         int
	convergeTicks int // -1 if the layout never settled
	minSep        float64
	targetErr     float64 // mean distance from node to target after settling

	zoomTicks     int // ticks to resettle after the zoom, -1 if skipped
	zoomTargetErr float64

	warnings int
	exported []string
}

// memSource serves samples loaded once up front, so parallel runs do not
// re-read the files.
type memSource map[dataset.Timeframe][]dataset.Sample

func (m memSource) Load(ctx context.Context, tf dataset.Timeframe) ([]dataset.Sample, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, ok := m[tf]
	if !ok {
		return nil, fmt.Errorf("%w: %d", dataset.ErrUnknownTimeframe, tf)
	}
	return rows, nil
}

func main() {
	var runs int
	var maxTicks int
	var seedBase int64
	var seedStep int64
	var positionFlag string
	var zoom float64
	var parallel int
	var cfgPath, dataDir, sqlitePath, exportDir, importPath string

	flag.IntVar(&runs, "runs", 5, "number of seeded layout runs per position")
	flag.IntVar(&maxTicks, "max-ticks", 2000, "tick cap per layout run")
	flag.Int64Var(&seedBase, "seed-base", 42, "layout seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&positionFlag, "position", "", "comma-separated positions to lay out (default: all on record)")
	flag.Float64Var(&zoom, "zoom", 2, "zoom factor applied after the first settle (<= 1 skips the retarget check)")
	flag.IntVar(&parallel, "parallel", 4, "runs executed concurrently")
	flag.StringVar(&cfgPath, "config", "", "YAML config file")
	flag.StringVar(&dataDir, "data", "", "directory holding the CSV files (overrides config)")
	flag.StringVar(&sqlitePath, "sqlite", "", "read from this SQLite file instead of CSV")
	flag.StringVar(&exportDir, "export", "", "write PNG snapshots of every run into this directory")
	flag.StringVar(&importPath, "import", "", "copy both CSV files into this SQLite file and exit")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if maxTicks <= 0 {
		fmt.Println("error: -max-ticks must be > 0")
		return
	}
	if parallel <= 0 {
		parallel = 1
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if sqlitePath != "" {
		cfg.SQLitePath = sqlitePath
	}
	ctx := context.Background()

	var src dataset.Source = dataset.CSVSource{Dir: cfg.DataDir}
	if cfg.SQLitePath != "" && importPath == "" {
		src = dataset.SQLiteSource{Path: cfg.SQLitePath}
	}
	mem, err := preload(ctx, src)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}

	if importPath != "" {
		if err := importSQLite(ctx, importPath, mem); err != nil {
			fmt.Printf("error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Printf("=== Headless Explorer Report ===\n")
	fmt.Printf("source=%s runs=%d max_ticks=%d seed_base=%d seed_step=%d zoom=%.2f\n\n",
		sourceName(cfg), runs, maxTicks, seedBase, seedStep, zoom)

	printOverview(ctx, mem, cfg)

	positions := splitPositions(positionFlag)
	if len(positions) == 0 {
		positions = aggregate.Keys(aggregate.Aggregate(mem[dataset.Weekly], aggregate.ByPosition, nil, aggregate.Filter{}))
	}
	if len(positions) == 0 {
		fmt.Println("no positions on record; nothing to lay out")
		return
	}

	all := make([]runStats, runs*len(positions))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for pi, pos := range positions {
		for i := 0; i < runs; i++ {
			slot := pi*runs + i
			seed := seedBase + int64(i)*seedStep
			g.Go(func() error {
				rs, err := runLayout(gctx, mem, cfg, i+1, seed, pos, maxTicks, zoom, exportDir)
				if err != nil {
					return fmt.Errorf("%s run %d: %w", pos, i+1, err)
				}
				all[slot] = rs
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
	for _, rs := range all {
		printRun(rs)
	}
	printAggregate(all, cfg.Layout.Radius)
}

// preload reads both timeframes once. A failed timeframe is reported and
// left empty, matching the viewer's behaviour.
func preload(ctx context.Context, src dataset.Source) (memSource, error) {
	mem := memSource{}
	for _, tf := range []dataset.Timeframe{dataset.Weekly, dataset.Season} {
		rows, err := src.Load(ctx, tf)
		if err != nil {
			fmt.Printf("warning: load %s: %v\n", tf, err)
			rows = nil
		}
		mem[tf] = rows
	}
	if len(mem[dataset.Weekly]) == 0 && len(mem[dataset.Season]) == 0 {
		return mem, fmt.Errorf("no player data loaded")
	}
	return mem, nil
}

func sourceName(cfg config.Config) string {
	if cfg.SQLitePath != "" {
		return "sqlite:" + cfg.SQLitePath
	}
	return "csv:" + cfg.DataDir
}

func splitPositions(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(strings.ToUpper(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// metricNames returns the sorted union of metric columns across samples.
func metricNames(samples []dataset.Sample) []string {
	seen := map[string]bool{}
	for _, s := range samples {
		for m := range s.Metrics {
			seen[m] = true
		}
	}
	out := make([]string, 0, len(seen))
	for m := range seen {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

func importSQLite(ctx context.Context, path string, mem memSource) error {
	for _, tf := range []dataset.Timeframe{dataset.Weekly, dataset.Season} {
		rows := mem[tf]
		start := time.Now()
		if err := dataset.WriteSQLite(ctx, path, tf, metricNames(rows), rows); err != nil {
			return fmt.Errorf("import %s: %w", tf, err)
		}
		fmt.Printf("imported %s rows of %s data into %s in %s\n",
			humanize.Comma(int64(len(rows))), tf, path, time.Since(start).Round(time.Millisecond))
	}
	return nil
}

func printOverview(ctx context.Context, mem memSource, cfg config.Config) {
	for _, tf := range []dataset.Timeframe{dataset.Weekly, dataset.Season} {
		ex := explore.New(ctx, mem, cfg, explore.WithTimeframe(tf), explore.WithSeed(1))
		if err := ex.Settle(ctx); err != nil {
			fmt.Printf("overview %s: %v\n", tf, err)
			ex.Close()
			continue
		}
		fmt.Printf("--- Overview (%s, %s rows) ---\n", tf, humanize.Comma(int64(len(ex.Rows()))))
		for _, line := range curveLines(ex.Curves()) {
			fmt.Println(line)
		}
		if n := ex.Log().CountCategory("density", "empty_group") + ex.Log().CountCategory("density", "no_samples"); n > 0 {
			fmt.Printf("density_warnings=%d\n", n)
		}
		fmt.Println()
		ex.Close()
	}
}

// curveLines formats one summary line per curve.
func curveLines(curves []density.Curve) []string {
	out := make([]string, 0, len(curves))
	for _, c := range curves {
		x, peak := c.Peak()
		out = append(out, fmt.Sprintf("  %-3s samples=%s peak_at=%.1f peak_density=%.5f",
			c.Category, humanize.Comma(int64(c.Samples)), x, peak))
	}
	return out
}

func runLayout(ctx context.Context, src dataset.Source, cfg config.Config, runIndex int, seed int64, position string, maxTicks int, zoom float64, exportDir string) (runStats, error) {
	ex := explore.New(ctx, src, cfg, explore.WithSeed(seed), explore.WithLog(eventlog.New()))
	defer ex.Close()
	if err := ex.Settle(ctx); err != nil {
		return runStats{}, err
	}
	if !ex.Dispatch(selection.SelectPosition{Position: position}) {
		return runStats{}, fmt.Errorf("position %q not selectable", position)
	}
	sim, _ := ex.Layout()
	ex.RunLayout(maxTicks)

	rs := runStats{
		runIndex:      runIndex,
		seed:          seed,
		position:      position,
		nodes:         len(ex.Positions()),
		convergeTicks: -1,
		zoomTicks:     -1,
	}
	if e, ok := ex.Log().LastOf("layout", "converged"); ok {
		rs.convergeTicks = int(e.NumVal)
	}
	rs.minSep = layout.MinSeparation(ex.Positions())
	rs.targetErr = targetError(sim, ex.Positions())

	if zoom > 1 {
		w, h := ex.PlotSize()
		before := sim.Ticks()
		if ex.Zoom(zoom, w/2, h/2) {
			ex.RunLayout(maxTicks)
			rs.zoomTicks = sim.Ticks() - before
			rs.zoomTargetErr = targetError(sim, ex.Positions())
		}
	}
	if exportDir != "" {
		paths, err := ex.Export(exportDir, fmt.Sprintf("%s-seed%d", position, seed))
		if err != nil {
			return rs, err
		}
		rs.exported = paths
	}
	rs.warnings = len(filterLevel(ex.Log().Entries(), "warning"))
	return rs, nil
}

// targetError is the mean distance from each node to its target.
func targetError(sim *layout.Simulator, pos []layout.Position) float64 {
	if sim == nil || len(pos) == 0 {
		return 0
	}
	sum := 0.0
	for i, p := range pos {
		tx, ty := sim.Target(i)
		sum += math.Hypot(p.X-tx, p.Y-ty)
	}
	return sum / float64(len(pos))
}

func filterLevel(entries []eventlog.Entry, level string) []eventlog.Entry {
	var out []eventlog.Entry
	for _, e := range entries {
		if e.Level.String() == level {
			out = append(out, e)
		}
	}
	return out
}

func printRun(rs runStats) {
	fmt.Printf("--- %s run %d (seed=%d) ---\n", rs.position, rs.runIndex, rs.seed)
	fmt.Printf("layout: nodes=%d converge_ticks=%s min_separation=%s target_err=%.2f\n",
		rs.nodes, tickString(rs.convergeTicks), sepString(rs.minSep), rs.targetErr)
	if rs.zoomTicks >= 0 {
		fmt.Printf("zoom: resettle_ticks=%d target_err=%.2f\n", rs.zoomTicks, rs.zoomTargetErr)
	}
	if rs.warnings > 0 {
		fmt.Printf("warnings=%d\n", rs.warnings)
	}
	for _, p := range rs.exported {
		fmt.Printf("exported %s\n", p)
	}
}

type positionSummary struct {
	position      string
	runs          int
	unsettled     int
	avgTicks      float64
	avgZoomTicks  float64
	worstSep      float64
	avgTargetErr  float64
	overlapping   int // runs whose closest pair is nearer than 2r - 0.5px
	zoomRuns      int
	settledCount  int
	zoomTickTotal int
}

// summarise groups runs by position in first-seen order.
func summarise(all []runStats, radius float64) []positionSummary {
	var order []string
	by := map[string]*positionSummary{}
	for _, rs := range all {
		s, ok := by[rs.position]
		if !ok {
			s = &positionSummary{position: rs.position, worstSep: math.Inf(1)}
			by[rs.position] = s
			order = append(order, rs.position)
		}
		s.runs++
		if rs.convergeTicks < 0 {
			s.unsettled++
		} else {
			s.settledCount++
			s.avgTicks += float64(rs.convergeTicks)
		}
		if rs.zoomTicks >= 0 {
			s.zoomRuns++
			s.zoomTickTotal += rs.zoomTicks
		}
		s.worstSep = math.Min(s.worstSep, rs.minSep)
		s.avgTargetErr += rs.targetErr
		if rs.nodes > 1 && rs.minSep < 2*radius-0.5 {
			s.overlapping++
		}
	}
	out := make([]positionSummary, 0, len(order))
	for _, p := range order {
		s := by[p]
		if s.settledCount > 0 {
			s.avgTicks /= float64(s.settledCount)
		}
		if s.zoomRuns > 0 {
			s.avgZoomTicks = float64(s.zoomTickTotal) / float64(s.zoomRuns)
		}
		s.avgTargetErr /= float64(s.runs)
		out = append(out, *s)
	}
	return out
}

func printAggregate(all []runStats, radius float64) {
	fmt.Println("\n=== Aggregate Layout Summary ===")
	fmt.Printf("runs=%d radius=%.1f\n", len(all), radius)
	for _, s := range summarise(all, radius) {
		fmt.Printf("  %-3s runs=%d unsettled=%d avg_converge=%.1f avg_resettle=%.1f worst_sep=%s avg_target_err=%.2f overlapping_runs=%d\n",
			s.position, s.runs, s.unsettled, s.avgTicks, s.avgZoomTicks, sepString(s.worstSep), s.avgTargetErr, s.overlapping)
	}
}

func tickString(t int) string {
	if t < 0 {
		return "n/a"
	}
	return fmt.Sprint(t)
}

func sepString(d float64) string {
	if math.IsInf(d, 1) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", d)
}
