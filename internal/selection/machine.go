package selection

import (
	"fmt"

	"github.com/Garsondee/Gridiron-Sense/internal/aggregate"
	"github.com/Garsondee/Gridiron-Sense/internal/dataset"
	"github.com/Garsondee/Gridiron-Sense/internal/eventlog"
)

// Event is a user intent fed to the machine.
type Event interface {
	event()
}

// SelectPosition activates a ridgeline and resets the metric to the primary
// score. Only honoured from the overview.
type SelectPosition struct{ Position string }

// TogglePlayer adds or removes a player in the scatter or comparison.
type TogglePlayer struct{ Player string }

// Back returns to the overview and clears the selection.
type Back struct{}

// SetTimeframe switches the record stream and tears the drill-down down.
type SetTimeframe struct{ Timeframe dataset.Timeframe }

// SetSeason filters the comparison to one season, or "all".
type SetSeason struct{ Season string }

// SetWeek filters the comparison to one week. Needs a concrete season.
type SetWeek struct{ Week string }

// SetMetric picks the scatter y-axis and comparison metric.
type SetMetric struct{ Metric string }

func (SelectPosition) event() {}
func (TogglePlayer) event()   {}
func (Back) event()           {}
func (SetTimeframe) event()   {}
func (SetSeason) event()      {}
func (SetWeek) event()        {}
func (SetMetric) event()      {}

// Machine is the only writer of selection state.
type Machine struct {
	state     State
	listeners []func(from, to State)
	log       *eventlog.Log
}

// NewMachine starts in the overview on the given timeframe.
func NewMachine(tf dataset.Timeframe, log *eventlog.Log) *Machine {
	return &Machine{
		state: State{
			Players:   map[string]bool{},
			Timeframe: tf,
			Season:    aggregate.All,
			Week:      aggregate.All,
			Metric:    dataset.MetricPoints,
		},
		log: log,
	}
}

// State returns a copy of the current state.
func (m *Machine) State() State { return m.state.clone() }

// OnTransition registers fn to be called after every accepted event.
func (m *Machine) OnTransition(fn func(from, to State)) {
	m.listeners = append(m.listeners, fn)
}

// Apply feeds one event. It returns the resulting state and whether the
// event was accepted; rejected events leave the state untouched.
func (m *Machine) Apply(ev Event) (State, bool) {
	from := m.state.clone()
	next, ok := transition(from.clone(), ev)
	if !ok {
		m.log.Debug(from.Position, "selection", "ignored", fmt.Sprintf("%T in %s", ev, from.Mode()), 0)
		return from, false
	}
	m.state = next
	m.log.Info(next.Position, "selection", next.Mode().String(), describe(ev), float64(len(next.Players)))
	for _, fn := range m.listeners {
		fn(from, next.clone())
	}
	return next.clone(), true
}

func transition(s State, ev Event) (State, bool) {
	switch e := ev.(type) {
	case SelectPosition:
		if s.Mode() != Overview || e.Position == "" {
			return s, false
		}
		s.Position = e.Position
		s.Players = map[string]bool{}
		s.Order = nil
		s.Metric = dataset.MetricPoints
	case TogglePlayer:
		if s.Mode() == Overview || e.Player == "" {
			return s, false
		}
		if s.Players[e.Player] {
			delete(s.Players, e.Player)
			s.Order = remove(s.Order, e.Player)
		} else {
			s.Players[e.Player] = true
			s.Order = append(s.Order, e.Player)
		}
	case Back:
		if s.Mode() == Overview {
			return s, false
		}
		s = reset(s)
	case SetTimeframe:
		if e.Timeframe == s.Timeframe {
			return s, false
		}
		s = reset(s)
		s.Timeframe = e.Timeframe
	case SetSeason:
		if e.Season == "" {
			e.Season = aggregate.All
		}
		if e.Season == s.Season {
			return s, false
		}
		s.Season = e.Season
		if e.Season == aggregate.All {
			s.Week = aggregate.All
		}
	case SetWeek:
		if e.Week == "" {
			e.Week = aggregate.All
		}
		if e.Week == s.Week || (e.Week != aggregate.All && s.Season == aggregate.All) {
			return s, false
		}
		s.Week = e.Week
	case SetMetric:
		if e.Metric == "" || e.Metric == s.Metric {
			return s, false
		}
		s.Metric = e.Metric
	default:
		return s, false
	}
	return s, true
}

// reset clears the drill-down. Secondary metrics are per position, so the
// metric returns to the primary score.
func reset(s State) State {
	s.Position = ""
	s.Players = map[string]bool{}
	s.Order = nil
	s.Metric = dataset.MetricPoints
	return s
}

func remove(list []string, v string) []string {
	out := list[:0:0]
	for _, x := range list {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

func describe(ev Event) string {
	switch e := ev.(type) {
	case SelectPosition:
		return "select " + e.Position
	case TogglePlayer:
		return "toggle " + e.Player
	case Back:
		return "back"
	case SetTimeframe:
		return "timeframe " + e.Timeframe.String()
	case SetSeason:
		return "season " + e.Season
	case SetWeek:
		return "week " + e.Week
	case SetMetric:
		return "metric " + e.Metric
	default:
		return fmt.Sprintf("%T", ev)
	}
}
