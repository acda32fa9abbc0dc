package view

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/sirupsen/logrus"

	"github.com/Garsondee/Gridiron-Sense/internal/eventlog"
)

const (
	activityMaxEntries = 60
	activityLineHeight = 13
)

// Activity is a ring buffer of recent pipeline events rendered on-screen.
type Activity struct {
	entries []eventlog.Entry
	head    int
	count   int
	seen    int // entries already pulled from the log
}

// NewActivity creates an activity panel with a fixed capacity.
func NewActivity() *Activity {
	return &Activity{entries: make([]eventlog.Entry, activityMaxEntries)}
}

// Add appends an entry, overwriting the oldest once full.
func (a *Activity) Add(e eventlog.Entry) {
	a.entries[a.head] = e
	a.head = (a.head + 1) % activityMaxEntries
	if a.count < activityMaxEntries {
		a.count++
	}
}

// Sync pulls entries added to l since the last call. Debug entries are
// skipped.
func (a *Activity) Sync(l *eventlog.Log) {
	for _, e := range l.Since(a.seen) {
		if e.Level != logrus.DebugLevel {
			a.Add(e)
		}
	}
	a.seen = l.Len()
}

// Recent returns entries oldest first.
func (a *Activity) Recent() []eventlog.Entry {
	out := make([]eventlog.Entry, a.count)
	for i := 0; i < a.count; i++ {
		out[i] = a.entries[(a.head-a.count+i+activityMaxEntries)%activityMaxEntries]
	}
	return out
}

// Draw renders the panel at (x, y) with the newest entries at the bottom.
func (a *Activity) Draw(screen *ebiten.Image, x, y, w, h int) {
	vector.FillRect(screen, float32(x), float32(y), float32(w), float32(h), color.RGBA{R: 18, G: 20, B: 26, A: 245}, false)
	vector.FillRect(screen, float32(x), float32(y), float32(w), 16, color.RGBA{R: 30, G: 36, B: 48, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "ACTIVITY", x+8, y+1)
	vector.StrokeLine(screen, float32(x), float32(y+16), float32(x+w), float32(y+16), 1, color.RGBA{R: 60, G: 70, B: 90, A: 200}, false)

	entries := a.Recent()
	maxVisible := max((h-22)/activityLineHeight, 0)
	if len(entries) > maxVisible {
		entries = entries[len(entries)-maxVisible:]
	}
	ly := y + 20
	for i, e := range entries {
		if i >= len(entries)-3 {
			vector.FillRect(screen, float32(x+2), float32(ly), float32(w-4), activityLineHeight, color.RGBA{R: 36, G: 44, B: 60, A: 160}, false)
		}
		dot := color.RGBA{R: 90, G: 160, B: 220, A: 255}
		if e.Level == logrus.WarnLevel {
			dot = color.RGBA{R: 230, G: 150, B: 40, A: 255}
		}
		vector.FillRect(screen, float32(x+5), float32(ly+4), 3, 5, dot, false)
		line := fmt.Sprintf("%5d %s/%s %s", e.Tick, e.Category, e.Key, e.Value)
		if limit := (w - 16) / 6; len(line) > limit && limit > 3 {
			line = line[:limit-1] + "~"
		}
		ebitenutil.DebugPrintAt(screen, line, x+12, ly-1)
		ly += activityLineHeight
	}
}
