package viewport

import (
	"fmt"
	"math"

	"github.com/Garsondee/Gridiron-Sense/internal/eventlog"
)

// Transform is a uniform scale followed by a translation: p -> K*p + T.
type Transform struct {
	K, TX, TY float64
}

// Identity is the untransformed view.
var Identity = Transform{K: 1}

// Apply maps a plot point to the screen.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return x*t.K + t.TX, y*t.K + t.TY
}

// Invert maps a screen point back to plot space.
func (t Transform) Invert(px, py float64) (float64, float64) {
	return (px - t.TX) / t.K, (py - t.TY) / t.K
}

func (t Transform) String() string {
	return fmt.Sprintf("k=%.3f t=(%.1f,%.1f)", t.K, t.TX, t.TY)
}

// Extent is an axis-aligned rectangle in plot space.
type Extent struct {
	X0, Y0, X1, Y1 float64
}

// Delta is one zoom/pan gesture step. Scale multiplies the current zoom about
// the anchor; DX/DY pan in screen pixels afterwards.
type Delta struct {
	Scale            float64
	DX, DY           float64
	AnchorX, AnchorY float64
}

// Manager is the only writer of the view transform. Listeners registered via
// OnChange are called synchronously on every change.
type Manager struct {
	t          Transform
	kMin, kMax float64
	view       Extent
	translate  Extent

	listeners map[int]func(Transform)
	nextID    int

	log *eventlog.Log
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithScaleExtent bounds the zoom factor.
func WithScaleExtent(min, max float64) ManagerOption {
	return func(m *Manager) {
		if min > 0 && max >= min {
			m.kMin, m.kMax = min, max
		}
	}
}

// WithTranslateExtent sets the plot region that must stay covering the view.
func WithTranslateExtent(e Extent) ManagerOption {
	return func(m *Manager) { m.translate = e }
}

// WithManagerLog records transform changes as debug entries.
func WithManagerLog(l *eventlog.Log) ManagerOption {
	return func(m *Manager) { m.log = l }
}

// NewManager creates a manager for a width x height viewport, zoom in [1,10]
// and the translate extent equal to the viewport.
func NewManager(width, height float64, opts ...ManagerOption) *Manager {
	m := &Manager{
		t:         Identity,
		kMin:      1,
		kMax:      10,
		view:      Extent{X1: width, Y1: height},
		translate: Extent{X1: width, Y1: height},
		listeners: make(map[int]func(Transform)),
	}
	for _, o := range opts {
		o(m)
	}
	m.t = m.constrain(m.t)
	return m
}

// Transform returns a copy of the current transform.
func (m *Manager) Transform() Transform { return m.t }

// Size returns the viewport dimensions.
func (m *Manager) Size() (w, h float64) {
	return m.view.X1 - m.view.X0, m.view.Y1 - m.view.Y0
}

// OnChange registers fn for every transform change and returns an unsubscribe func.
func (m *Manager) OnChange(fn func(Transform)) (cancel func()) {
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	return func() { delete(m.listeners, id) }
}

// Apply performs one gesture step and reports whether the transform changed.
func (m *Manager) Apply(d Delta) bool {
	t := m.t
	if d.Scale > 0 && d.Scale != 1 {
		k := clamp(t.K*d.Scale, m.kMin, m.kMax)
		t.TX = d.AnchorX - (d.AnchorX-t.TX)*k/t.K
		t.TY = d.AnchorY - (d.AnchorY-t.TY)*k/t.K
		t.K = k
	}
	t.TX += d.DX
	t.TY += d.DY
	return m.set(t)
}

// Zoom scales by factor about the screen point (ax, ay).
func (m *Manager) Zoom(factor, ax, ay float64) bool {
	return m.Apply(Delta{Scale: factor, AnchorX: ax, AnchorY: ay})
}

// Pan translates by (dx, dy) screen pixels.
func (m *Manager) Pan(dx, dy float64) bool {
	return m.Apply(Delta{Scale: 1, DX: dx, DY: dy})
}

// Reset returns to the identity transform.
func (m *Manager) Reset() bool {
	return m.set(Identity)
}

// Set replaces the transform, subject to the same constraints as gestures.
func (m *Manager) Set(t Transform) bool {
	if !(t.K > 0) {
		t.K = 1
	}
	t.K = clamp(t.K, m.kMin, m.kMax)
	return m.set(t)
}

func (m *Manager) set(t Transform) bool {
	t = m.constrain(t)
	if t == m.t {
		return false
	}
	m.t = t
	m.log.Debug("", "zoom", "transform", t.String(), t.K)
	for _, fn := range m.listeners {
		fn(t)
	}
	return true
}

// constrain keeps the translate extent covering the viewport. When the
// extent is smaller than the view on an axis it is centred instead.
func (m *Manager) constrain(t Transform) Transform {
	t.TX = constrainAxis(t.TX, t.K, m.view.X0, m.view.X1, m.translate.X0, m.translate.X1)
	t.TY = constrainAxis(t.TY, t.K, m.view.Y0, m.view.Y1, m.translate.Y0, m.translate.Y1)
	return t
}

func constrainAxis(tr, k, v0, v1, e0, e1 float64) float64 {
	lo := v1 - k*e1
	hi := v0 - k*e0
	if lo > hi {
		return (lo + hi) / 2
	}
	return clamp(tr, lo, hi)
}

// ToScreen maps a plot point through the transform.
func (m *Manager) ToScreen(x, y float64) (float64, float64) { return m.t.Apply(x, y) }

// ToData maps a screen point back to plot space.
func (m *Manager) ToData(px, py float64) (float64, float64) { return m.t.Invert(px, py) }

// RescaleX returns s with its domain narrowed to what is visible horizontally.
func (m *Manager) RescaleX(s LinearScale) LinearScale {
	return rescale(s, m.t.K, m.t.TX)
}

// RescaleY returns s with its domain narrowed to what is visible vertically.
func (m *Manager) RescaleY(s LinearScale) LinearScale {
	return rescale(s, m.t.K, m.t.TY)
}

func rescale(s LinearScale, k, tr float64) LinearScale {
	return LinearScale{
		D0: s.Invert((s.R0 - tr) / k),
		D1: s.Invert((s.R1 - tr) / k),
		R0: s.R0,
		R1: s.R1,
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
