// Package dataset loads per-player fantasy records from flat files or SQLite.
package dataset

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Identity columns. Every other column is treated as a metric.
const (
	ColPlayer   = "player_name"
	ColPosition = "position"
	ColSeason   = "season"
	ColWeek     = "week"

	// MetricPoints is the primary scoring metric.
	MetricPoints = "fantasy_points_ppr"
	// MetricDraftPick is the scatter's default second axis.
	MetricDraftPick = "draft_pick"
)

// ErrUnknownTimeframe is returned for timeframes with no backing table.
var ErrUnknownTimeframe = errors.New("unknown timeframe")

// Timeframe selects between the weekly and the season-level record streams.
type Timeframe int

const (
	Weekly Timeframe = iota
	Season
)

func (t Timeframe) String() string {
	switch t {
	case Weekly:
		return "weekly"
	case Season:
		return "season"
	default:
		return "unknown"
	}
}

// Table returns the file stem / SQLite table backing the timeframe.
func (t Timeframe) Table() (string, error) {
	switch t {
	case Weekly:
		return "weekly_player_data", nil
	case Season:
		return "yearly_player_data", nil
	default:
		return "", ErrUnknownTimeframe
	}
}

// Toggle flips weekly <-> season.
func (t Timeframe) Toggle() Timeframe {
	if t == Weekly {
		return Season
	}
	return Weekly
}

// Sample is one observed record. It is never mutated after loading.
type Sample struct {
	Player   string
	Position string
	Season   int
	Week     int
	Metrics  map[string]float64
	Raw      map[string]string // original cell text, keyed like Metrics
}

// Metric returns the named metric, or 0 when the record does not carry it.
func (s Sample) Metric(name string) float64 {
	return s.Metrics[name]
}

// ParseNumber coerces a cell to a finite float. Empty, non-numeric and
// non-finite cells all become 0 so downstream means stay total.
func ParseNumber(cell string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func parseKey(cell string) int {
	cell = strings.TrimSpace(cell)
	if n, err := strconv.Atoi(cell); err == nil {
		return n
	}
	return int(ParseNumber(cell))
}

// FromRecord builds a Sample from a header-keyed row. Unknown columns become
// metrics; the identity columns never do.
func FromRecord(header []string, cells []string) Sample {
	s := Sample{
		Metrics: make(map[string]float64, len(header)),
		Raw:     make(map[string]string, len(header)),
	}
	for i, col := range header {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		switch col {
		case ColPlayer:
			s.Player = strings.TrimSpace(cell)
		case ColPosition:
			s.Position = strings.TrimSpace(cell)
		case ColSeason:
			s.Season = parseKey(cell)
		case ColWeek:
			s.Week = parseKey(cell)
		default:
			s.Metrics[col] = ParseNumber(cell)
			s.Raw[col] = cell
		}
	}
	return s
}
