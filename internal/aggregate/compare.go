package aggregate

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Garsondee/Gridiron-Sense/internal/dataset"
)

var positionNames = map[string]string{
	"QB": "Quarterback",
	"RB": "Running Back",
	"WR": "Wide Receiver",
	"TE": "Tight End",
}

// PositionName expands a position code; unknown codes are returned as is.
func PositionName(code string) string {
	if n, ok := positionNames[code]; ok {
		return n
	}
	return code
}

// secondary metrics offered by the metric selector, per position.
var positionMetrics = map[string][]string{
	"QB": {"passing_yards", "pass_touchdown", "interception", "rushing_yards"},
	"RB": {"rushing_yards", "rush_touchdown", "receptions", "receiving_yards"},
	"WR": {"receptions", "targets", "receiving_yards", "receiving_touchdown"},
	"TE": {"receptions", "targets", "receiving_yards", "receiving_touchdown"},
}

// MetricsFor lists the selectable metrics for a position. The primary score
// and draft pick always lead; secondary metrics are kept only when rows
// actually carry them.
func MetricsFor(position string, rows []dataset.Sample) []string {
	out := []string{dataset.MetricPoints, dataset.MetricDraftPick}
	for _, m := range positionMetrics[position] {
		for _, r := range rows {
			if _, ok := r.Metrics[m]; ok {
				out = append(out, m)
				break
			}
		}
	}
	return out
}

// MetricLabel turns a column name into display text.
func MetricLabel(metric string) string {
	return strings.ReplaceAll(metric, "_", " ")
}

// PruneFields returns the metric fields worth showing for rows: those with
// at least one value that is present, non-empty and non-zero. Sorted by name.
func PruneFields(rows []dataset.Sample) []string {
	keep := make(map[string]bool)
	for _, r := range rows {
		for col, raw := range r.Raw {
			if keep[col] || !meaningful(raw) {
				continue
			}
			keep[col] = true
		}
	}
	out := make([]string, 0, len(keep))
	for col := range keep {
		out = append(out, col)
	}
	sort.Strings(out)
	return out
}

func meaningful(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	if _, err := strconv.ParseFloat(raw, 64); err == nil {
		return dataset.ParseNumber(raw) != 0
	}
	return true
}

// Row is one statistic line of the single-player table.
type Row struct {
	Stat  string
	Value string
}

// TableRecord builds the single-player table: the first record for player
// that passes f, restricted to identity columns and pruned fields.
func TableRecord(rows []dataset.Sample, player string, f Filter) []Row {
	var matched []dataset.Sample
	for _, r := range rows {
		if r.Player == player && f.Match(r) {
			matched = append(matched, r)
		}
	}
	if len(matched) == 0 {
		return nil
	}
	first := matched[0]
	out := []Row{
		{Stat: dataset.ColPlayer, Value: first.Player},
		{Stat: dataset.ColPosition, Value: first.Position},
		{Stat: dataset.ColSeason, Value: strconv.Itoa(first.Season)},
	}
	if first.Week != 0 {
		out = append(out, Row{Stat: dataset.ColWeek, Value: strconv.Itoa(first.Week)})
	}
	for _, col := range PruneFields(matched) {
		v := strings.TrimSpace(first.Raw[col])
		if v == "" {
			v = "0"
		}
		out = append(out, Row{Stat: col, Value: v})
	}
	return out
}

// LabelMode says how a comparison value was derived from the filter.
type LabelMode int

const (
	// Average over every season on record.
	Average LabelMode = iota
	// Total for one season.
	Total
	// Raw value for one week of one season.
	Raw
)

// ModeFor derives the label mode from the season/week filter.
func ModeFor(f Filter) LabelMode {
	switch {
	case f.AllSeasons():
		return Average
	case f.AllWeeks():
		return Total
	default:
		return Raw
	}
}

// DetailTimeframe picks the record stream the comparison reads: season-level
// rows unless a concrete week of a concrete season is selected.
func DetailTimeframe(f Filter) dataset.Timeframe {
	if !f.AllSeasons() && !f.AllWeeks() {
		return dataset.Weekly
	}
	return dataset.Season
}

// Bar is one player's comparison value.
type Bar struct {
	Player string
	Value  float64
	Found  bool
}

// Comparison is the multi-player chart input.
type Comparison struct {
	Position string
	Metric   string
	Mode     LabelMode
	Filter   Filter
	Bars     []Bar
}

// ComparisonValues yields one value per selected player, in selection order.
// Averages across seasons use the mean of matching rows; a single season or
// week uses their sum. Players with no matching rows get 0.
func ComparisonValues(rows []dataset.Sample, players []string, metric string, f Filter) Comparison {
	c := Comparison{Position: f.Position, Metric: metric, Mode: ModeFor(f), Filter: f}
	type acc struct {
		sum float64
		n   int
	}
	byPlayer := make(map[string]*acc, len(players))
	for _, p := range players {
		byPlayer[p] = &acc{}
	}
	for _, r := range rows {
		a, ok := byPlayer[r.Player]
		if !ok || !f.Match(r) {
			continue
		}
		a.sum += r.Metric(metric)
		a.n++
	}
	for _, p := range players {
		a := byPlayer[p]
		b := Bar{Player: p, Found: a.n > 0}
		if a.n > 0 {
			b.Value = a.sum
			if c.Mode == Average {
				b.Value = a.sum / float64(a.n)
			}
		}
		c.Bars = append(c.Bars, b)
	}
	return c
}

// Title describes the comparison for the chart heading.
func (c Comparison) Title() string {
	base := fmt.Sprintf("Comparing %ss by %s", PositionName(c.Position), MetricLabel(c.Metric))
	switch c.Mode {
	case Average:
		return base + " across all seasons"
	case Total:
		return fmt.Sprintf("%s for season %s", base, c.Filter.Season)
	default:
		return fmt.Sprintf("%s for week %s of season %s", base, c.Filter.Week, c.Filter.Season)
	}
}

// ValueLabel is the tooltip text for one bar.
func (c Comparison) ValueLabel(b Bar) string {
	v := strconv.FormatFloat(b.Value, 'f', -1, 64)
	switch c.Mode {
	case Average:
		return fmt.Sprintf("Average %s across all seasons: %s", MetricLabel(c.Metric), v)
	case Total:
		return fmt.Sprintf("Total %s for season: %s", MetricLabel(c.Metric), v)
	default:
		return fmt.Sprintf("%s: %s", MetricLabel(c.Metric), v)
	}
}

// Range returns the value axis domain: always includes 0, and is [0,1] when
// every value is zero.
func (c Comparison) Range() (lo, hi float64) {
	for _, b := range c.Bars {
		if b.Value < lo {
			lo = b.Value
		}
		if b.Value > hi {
			hi = b.Value
		}
	}
	if lo == 0 && hi == 0 {
		hi = 1
	}
	return lo, hi
}
