package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/Garsondee/Gridiron-Sense/internal/aggregate"
	"github.com/Garsondee/Gridiron-Sense/internal/scene"
)

// ErrNoBars is returned when a comparison has no players to chart.
var ErrNoBars = errors.New("export: comparison has no bars")

// barColor converts the scene's hex palette to go-chart's colour type.
func barColor(i int) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(scene.BarColor(i), "#"))
}

// ComparisonChart renders c as a go-chart bar chart PNG of width x height.
func ComparisonChart(w io.Writer, c aggregate.Comparison, width, height int) error {
	if len(c.Bars) == 0 {
		return ErrNoBars
	}
	bars := make([]chart.Value, len(c.Bars))
	for i, b := range c.Bars {
		col := barColor(i)
		bars[i] = chart.Value{
			Label: b.Player,
			Value: b.Value,
			Style: chart.Style{FillColor: col, StrokeColor: col, StrokeWidth: 1},
		}
	}

	// bars share the width left after padding, at most 80px each
	barWidth := (width - 120) / (2 * len(bars))
	if barWidth > 80 {
		barWidth = 80
	}
	if barWidth < 4 {
		barWidth = 4
	}
	lo, hi := c.Range()
	bc := chart.BarChart{
		Title:      c.Title(),
		Width:      width,
		Height:     height,
		BarWidth:   barWidth,
		BarSpacing: barWidth,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 28}},
		YAxis: chart.YAxis{
			Name:  strings.ToUpper(aggregate.MetricLabel(c.Metric)),
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		Bars: bars,
	}
	if err := bc.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render bar chart %q: %w", c.Title(), err)
	}
	return nil
}

// SaveComparisonChart writes the bar chart to a file.
func SaveComparisonChart(path string, c aggregate.Comparison, width, height int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := ComparisonChart(f, c, width, height); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
