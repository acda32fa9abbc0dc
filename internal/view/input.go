package view

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Gridiron-Sense/internal/explore"
)

// keyActions maps edge-triggered keys to commands. C is handled separately
// because it needs Ctrl held.
var keyActions = map[ebiten.Key]action{
	ebiten.KeyTab:       actToggleTimeframe,
	ebiten.KeyM:         actCycleMetric,
	ebiten.KeyBackspace: actBack,
	ebiten.KeyEscape:    actBack,
	ebiten.KeyR:         actResetZoom,
	ebiten.KeyS:         actCycleSeason,
	ebiten.KeyW:         actCycleWeek,
	ebiten.KeyE:         actExport,
	ebiten.KeyL:         actToggleActivity,
}

// handleInput processes keys (edge-triggered), the wheel, hover, click and
// drag.
func (a *App) handleInput() {
	currentKeys := map[ebiten.Key]bool{}
	for k, act := range keyActions {
		currentKeys[k] = ebiten.IsKeyPressed(k)
		if currentKeys[k] && !a.prevKeys[k] {
			a.apply(act)
		}
	}
	currentKeys[ebiten.KeyC] = ebiten.IsKeyPressed(ebiten.KeyC)
	if currentKeys[ebiten.KeyC] && !a.prevKeys[ebiten.KeyC] &&
		(ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)) {
		a.apply(actCopy)
	}
	a.prevKeys = currentKeys

	cx, cy := ebiten.CursorPosition()
	mx, my := float64(cx), float64(cy)
	p, over := a.panelAt(mx, my)

	// Wheel zoom about the cursor.
	if _, wy := ebiten.Wheel(); wy != 0 && over && p.view == explore.ScatterView {
		lx, ly := p.local(mx, my)
		ax, ay := plotAnchor(lx, ly)
		a.ex.Zoom(math.Pow(a.cfg.Zoom.WheelStep, wy), ax, ay)
	}

	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	switch {
	case left && !a.prevMouseLeft:
		// Press: a mark takes the click, empty scatter space starts a drag.
		if over {
			lx, ly := p.local(mx, my)
			if !a.ex.Click(p.view, lx, ly) && p.view == explore.ScatterView {
				a.dragging = true
			}
		}
	case left && a.dragging:
		a.ex.Pan(mx-a.lastX, my-a.lastY)
	case !left:
		a.dragging = false
	}
	a.prevMouseLeft = left

	if over && !a.dragging {
		lx, ly := p.local(mx, my)
		a.ex.Hover(p.view, lx, ly)
	} else {
		a.ex.HideOverlay()
	}
	a.lastX, a.lastY = mx, my
}
