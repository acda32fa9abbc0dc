package explore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Garsondee/Gridiron-Sense/internal/export"
	"github.com/Garsondee/Gridiron-Sense/internal/selection"
)

// Export writes a PNG of every view that has something to show into dir,
// plus a bar chart when players are being compared. Files are named
// prefix-view.png. It returns the paths written.
func (e *Explorer) Export(dir, prefix string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	views := []View{OverviewView}
	st := e.State()
	if e.scatter != nil {
		views = append(views, ScatterView)
	}
	if st.ComparisonKind() != selection.None {
		views = append(views, ComparisonView)
	}

	var paths []string
	for _, v := range views {
		p := filepath.Join(dir, fmt.Sprintf("%s-%s.png", prefix, v))
		if err := export.SavePNG(p, e.Scene(v), export.DefaultOptions()); err != nil {
			e.log.Warn(v.String(), "export", "failed", err.Error(), 0)
			return paths, err
		}
		paths = append(paths, p)
	}
	if st.ComparisonKind() == selection.Bars && e.ComparisonReady() {
		p := filepath.Join(dir, prefix+"-chart.png")
		w, h := e.Size(ComparisonView)
		if err := export.SaveComparisonChart(p, e.Comparison(), int(w), int(h)); err != nil {
			e.log.Warn(ComparisonView.String(), "export", "failed", err.Error(), 0)
			return paths, err
		}
		paths = append(paths, p)
	}
	e.log.Info("", "export", "saved", fmt.Sprintf("dir=%s files=%d", dir, len(paths)), float64(len(paths)))
	return paths, nil
}
