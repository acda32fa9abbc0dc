// Package selection is the drill-down state machine: overview, then one
// position's scatter, then a comparison of toggled players.
package selection

import (
	"sort"

	"github.com/Garsondee/Gridiron-Sense/internal/aggregate"
	"github.com/Garsondee/Gridiron-Sense/internal/dataset"
)

// Mode is the visible level of the drill-down.
type Mode int

const (
	Overview Mode = iota
	PositionScatter
	Comparison
)

func (m Mode) String() string {
	switch m {
	case Overview:
		return "overview"
	case PositionScatter:
		return "scatter"
	case Comparison:
		return "comparison"
	default:
		return "unknown"
	}
}

// Kind is how the comparison panel presents the selected players.
type Kind int

const (
	None Kind = iota
	Table
	Bars
)

// State is the full selection. Values are copies; the machine never shares
// its player set with callers.
type State struct {
	Position  string
	Players   map[string]bool
	Order     []string // toggle order, for stable bar ordering
	Timeframe dataset.Timeframe
	Season    string
	Week      string
	Metric    string
}

// Mode derives the drill-down level.
func (s State) Mode() Mode {
	switch {
	case s.Position == "":
		return Overview
	case len(s.Players) == 0:
		return PositionScatter
	default:
		return Comparison
	}
}

// ComparisonKind is a pure function of how many players are selected.
func (s State) ComparisonKind() Kind {
	switch n := len(s.Players); {
	case n == 0:
		return None
	case n == 1:
		return Table
	default:
		return Bars
	}
}

// Selected reports whether player is in the set.
func (s State) Selected(player string) bool { return s.Players[player] }

// SelectedPlayers lists the selection in toggle order.
func (s State) SelectedPlayers() []string {
	return append([]string(nil), s.Order...)
}

// Filter is the aggregation filter for the comparison panel.
func (s State) Filter() aggregate.Filter {
	return aggregate.Filter{Position: s.Position, Season: s.Season, Week: s.Week}
}

func (s State) clone() State {
	c := s
	c.Players = make(map[string]bool, len(s.Players))
	for p := range s.Players {
		c.Players[p] = true
	}
	c.Order = append([]string(nil), s.Order...)
	return c
}

// SortedPlayers lists the selection alphabetically.
func (s State) SortedPlayers() []string {
	out := make([]string, 0, len(s.Players))
	for p := range s.Players {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
