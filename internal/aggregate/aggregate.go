// Package aggregate filters, groups and summarises loaded samples.
package aggregate

import (
	"sort"
	"strconv"

	"github.com/Garsondee/Gridiron-Sense/internal/dataset"
)

// All disables filtering on a dimension.
const All = "all"

// KeyFunc picks the grouping key for a sample.
type KeyFunc func(dataset.Sample) string

// ByPosition groups samples by position.
func ByPosition(s dataset.Sample) string { return s.Position }

// ByPlayer groups samples by player name.
func ByPlayer(s dataset.Sample) string { return s.Player }

// Filter narrows samples conjunctively. Empty or "all" fields match everything.
type Filter struct {
	Position string
	Season   string
	Week     string
}

func isAll(v string) bool { return v == "" || v == All }

// Match reports whether s passes every active dimension.
func (f Filter) Match(s dataset.Sample) bool {
	if !isAll(f.Position) && s.Position != f.Position {
		return false
	}
	if !isAll(f.Season) && strconv.Itoa(s.Season) != f.Season {
		return false
	}
	if !isAll(f.Week) && strconv.Itoa(s.Week) != f.Week {
		return false
	}
	return true
}

// AllSeasons reports whether the season dimension is unfiltered.
func (f Filter) AllSeasons() bool { return isAll(f.Season) }

// AllWeeks reports whether the week dimension is unfiltered.
func (f Filter) AllWeeks() bool { return isAll(f.Week) }

// Group is a keyed collection of samples with per-metric means over them.
type Group struct {
	Key     string
	Samples []dataset.Sample
	Means   map[string]float64
}

// Aggregate applies f, groups the survivors by key in first-seen order and
// computes the arithmetic mean of each requested metric per group.
func Aggregate(rows []dataset.Sample, key KeyFunc, metrics []string, f Filter) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, r := range rows {
		if !f.Match(r) {
			continue
		}
		k := key(r)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{Key: k})
		}
		groups[i].Samples = append(groups[i].Samples, r)
	}
	for i := range groups {
		groups[i].Means = means(groups[i].Samples, metrics)
	}
	return groups
}

func means(samples []dataset.Sample, metrics []string) map[string]float64 {
	out := make(map[string]float64, len(metrics))
	if len(samples) == 0 {
		return out
	}
	for _, m := range metrics {
		sum := 0.0
		for _, s := range samples {
			sum += s.Metric(m)
		}
		out[m] = sum / float64(len(samples))
	}
	return out
}

// EntityMean is one entity's averaged metrics, the scatter's input.
type EntityMean struct {
	Entity   string
	Position string
	Count    int
	Values   map[string]float64
}

// EntityMeans flattens groups into per-entity means for the given metrics.
func EntityMeans(groups []Group, metrics []string) []EntityMean {
	out := make([]EntityMean, 0, len(groups))
	for _, g := range groups {
		em := EntityMean{Entity: g.Key, Count: len(g.Samples), Values: make(map[string]float64, len(metrics))}
		if len(g.Samples) > 0 {
			em.Position = g.Samples[0].Position
		}
		for _, m := range metrics {
			v, ok := g.Means[m]
			if !ok {
				v = means(g.Samples, []string{m})[m]
			}
			em.Values[m] = v
		}
		out = append(out, em)
	}
	return out
}

// Samples passes each group's raw metric values through, one slice per group.
func Samples(groups []Group, metric string) [][]float64 {
	out := make([][]float64, len(groups))
	for i, g := range groups {
		vals := make([]float64, len(g.Samples))
		for j, s := range g.Samples {
			vals[j] = s.Metric(metric)
		}
		out[i] = vals
	}
	return out
}

// Keys returns the group keys in order.
func Keys(groups []Group) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.Key
	}
	return out
}

// Seasons lists the distinct seasons present in rows, ascending.
func Seasons(rows []dataset.Sample) []int {
	seen := make(map[int]bool)
	var out []int
	for _, r := range rows {
		if r.Season == 0 || seen[r.Season] {
			continue
		}
		seen[r.Season] = true
		out = append(out, r.Season)
	}
	sort.Ints(out)
	return out
}

// Weeks is the regular-season week list offered once a season is chosen.
func Weeks() []int {
	out := make([]int, 18)
	for i := range out {
		out[i] = i + 1
	}
	return out
}
