// Package scene describes what to draw as plain instructions. The ebiten
// view and the PNG exporter both paint the same Scene.
package scene

import (
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Pt is a point in scene pixels.
type Pt struct{ X, Y float64 }

// Anchor is the horizontal alignment of a text run.
type Anchor int

const (
	AnchorStart Anchor = iota
	AnchorMiddle
	AnchorEnd
)

// Path is a polyline, filled when Closed and Fill is non-transparent.
type Path struct {
	ID     string
	Points []Pt
	Fill   color.RGBA
	Stroke color.RGBA
	Width  float64
	Closed bool
}

// Rect is an axis-aligned box.
type Rect struct {
	ID         string
	X, Y, W, H float64
	Fill       color.RGBA
	Stroke     color.RGBA
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

// Line is a single stroked segment.
type Line struct {
	X0, Y0, X1, Y1 float64
	Color          color.RGBA
	Width          float64
}

// Circle is a scatter node.
type Circle struct {
	ID     string
	X, Y   float64
	R      float64
	Fill   color.RGBA
	Stroke color.RGBA
}

// Text is a single line of label text; Y is the baseline.
type Text struct {
	X, Y   float64
	S      string
	Color  color.RGBA
	Anchor Anchor
}

// Scene is one view's draw list. Layers paint in field order: rects, paths,
// lines, circles, texts.
type Scene struct {
	Title      string
	W, H       float64
	Background color.RGBA
	Plot       Rect // area that data marks are clipped to
	Rects      []Rect
	Paths      []Path
	Lines      []Line
	Circles    []Circle
	Texts      []Text
}

// New creates an empty scene with a white background.
func New(title string, w, h float64) *Scene {
	return &Scene{Title: title, W: w, H: h, Background: White, Plot: Rect{W: w, H: h}}
}

// Placeholder is the scene shown while data is missing or loading.
func Placeholder(title, msg string, w, h float64) *Scene {
	s := New(title, w, h)
	s.Texts = append(s.Texts, Text{X: w / 2, Y: h / 2, S: msg, Color: Grey, Anchor: AnchorMiddle})
	return s
}

// Translate returns a copy of s with every mark shifted by (dx, dy).
func (s *Scene) Translate(dx, dy float64) *Scene {
	out := *s
	out.Plot.X += dx
	out.Plot.Y += dy
	out.Rects = make([]Rect, len(s.Rects))
	for i, r := range s.Rects {
		r.X += dx
		r.Y += dy
		out.Rects[i] = r
	}
	out.Paths = make([]Path, len(s.Paths))
	for i, p := range s.Paths {
		pts := make([]Pt, len(p.Points))
		for j, q := range p.Points {
			pts[j] = Pt{q.X + dx, q.Y + dy}
		}
		p.Points = pts
		out.Paths[i] = p
	}
	out.Lines = make([]Line, len(s.Lines))
	for i, l := range s.Lines {
		l.X0 += dx
		l.X1 += dx
		l.Y0 += dy
		l.Y1 += dy
		out.Lines[i] = l
	}
	out.Circles = make([]Circle, len(s.Circles))
	for i, c := range s.Circles {
		c.X += dx
		c.Y += dy
		out.Circles[i] = c
	}
	out.Texts = make([]Text, len(s.Texts))
	for i, t := range s.Texts {
		t.X += dx
		t.Y += dy
		out.Texts[i] = t
	}
	return &out
}

// CircleAt returns the ID of the topmost circle within slop pixels of (x, y).
func (s *Scene) CircleAt(x, y, slop float64) (string, bool) {
	best, bestD := "", math.Inf(1)
	for i := len(s.Circles) - 1; i >= 0; i-- {
		c := s.Circles[i]
		d := math.Hypot(c.X-x, c.Y-y)
		if d <= c.R+slop && d < bestD {
			best, bestD = c.ID, d
		}
	}
	return best, best != ""
}

// RectAt returns the ID of the topmost identified rect containing (x, y).
func (s *Scene) RectAt(x, y float64) (string, bool) {
	for i := len(s.Rects) - 1; i >= 0; i-- {
		r := s.Rects[i]
		if r.ID != "" && r.Contains(x, y) {
			return r.ID, true
		}
	}
	return "", false
}

// Common colours.
var (
	White     = color.RGBA{0xff, 0xff, 0xff, 0xff}
	Black     = color.RGBA{0x00, 0x00, 0x00, 0xff}
	Grey      = color.RGBA{0x80, 0x80, 0x80, 0xff}
	LightGrey = color.RGBA{0xdd, 0xdd, 0xdd, 0xff}
	HeaderBG  = color.RGBA{0xf4, 0xf4, 0xf4, 0xff}
	SteelBlue = color.RGBA{0x46, 0x82, 0xb4, 0xff}
	Highlight = color.RGBA{0xff, 0x7f, 0x0e, 0xff}
)

// Category10 is the ordinal palette for positions.
var Category10 = []color.RGBA{
	Hex("#1f77b4"), Hex("#ff7f0e"), Hex("#2ca02c"), Hex("#d62728"), Hex("#9467bd"),
	Hex("#8c564b"), Hex("#e377c2"), Hex("#7f7f7f"), Hex("#bcbd22"), Hex("#17becf"),
}

// Hex parses "#rrggbb". Malformed input yields opaque black.
func Hex(s string) color.RGBA {
	s = strings.TrimPrefix(s, "#")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil || len(s) != 6 {
		return Black
	}
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 0xff}
}

// WithAlpha returns c with alpha a, premultiplied.
func WithAlpha(c color.RGBA, a uint8) color.RGBA {
	f := float64(a) / 255
	return color.RGBA{uint8(float64(c.R) * f), uint8(float64(c.G) * f), uint8(float64(c.B) * f), a}
}
