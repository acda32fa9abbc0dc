// Package export renders scenes and comparisons to files: PNG snapshots of
// any view, a go-chart bar chart of the comparison, and a plain text table.
package export

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/Garsondee/Gridiron-Sense/internal/scene"
)

// Options configures PNG rendering.
type Options struct {
	// Supersample renders at this multiple and downscales. 1 disables it.
	Supersample int
	// FontSize is the label size in scene pixels.
	FontSize float64
}

// DefaultOptions renders at 2x with 11px labels.
func DefaultOptions() Options {
	return Options{Supersample: 2, FontSize: 11}
}

var regular = sync.OnceValues(func() (*opentype.Font, error) {
	return opentype.Parse(goregular.TTF)
})

// painter draws scene marks onto an RGBA image at a fixed scale.
type painter struct {
	img   *image.RGBA
	scale float64
	face  font.Face
	z     *vector.Rasterizer
}

// Render paints s into a new image of size s.W x s.H.
func Render(s *scene.Scene, opts Options) (*image.RGBA, error) {
	w, h := int(math.Ceil(s.W)), int(math.Ceil(s.H))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("render %q: empty scene %dx%d", s.Title, w, h)
	}
	k := opts.Supersample
	if k < 1 {
		k = 1
	}
	size := opts.FontSize
	if size <= 0 {
		size = DefaultOptions().FontSize
	}

	fnt, err := regular()
	if err != nil {
		return nil, fmt.Errorf("render %q: parse font: %w", s.Title, err)
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size * float64(k),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("render %q: font face: %w", s.Title, err)
	}
	defer face.Close()

	big := image.NewRGBA(image.Rect(0, 0, w*k, h*k))
	p := &painter{img: big, scale: float64(k), face: face, z: vector.NewRasterizer(w*k, h*k)}
	p.paint(s)
	if k == 1 {
		return big, nil
	}
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(out, out.Bounds(), big, big.Bounds(), draw.Src, nil)
	return out, nil
}

// WritePNG renders s and encodes it to w.
func WritePNG(w io.Writer, s *scene.Scene, opts Options) error {
	img, err := Render(s, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// SavePNG renders s to a file at path.
func SavePNG(path string, s *scene.Scene, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := WritePNG(f, s, opts); err != nil {
		f.Close()
		return fmt.Errorf("save %s: %w", path, err)
	}
	return f.Close()
}

func (p *painter) paint(s *scene.Scene) {
	draw.Draw(p.img, p.img.Bounds(), image.NewUniform(s.Background), image.Point{}, draw.Src)
	for _, r := range s.Rects {
		pts := []scene.Pt{{X: r.X, Y: r.Y}, {X: r.X + r.W, Y: r.Y}, {X: r.X + r.W, Y: r.Y + r.H}, {X: r.X, Y: r.Y + r.H}}
		p.fill(pts, r.Fill)
		p.stroke(pts, true, r.Stroke, 1)
	}
	for _, path := range s.Paths {
		if path.Closed {
			p.fill(path.Points, path.Fill)
		}
		p.stroke(path.Points, path.Closed, path.Stroke, path.Width)
	}
	for _, l := range s.Lines {
		p.segment(scene.Pt{X: l.X0, Y: l.Y0}, scene.Pt{X: l.X1, Y: l.Y1}, l.Color, l.Width)
	}
	for _, c := range s.Circles {
		ring := circle(c.X, c.Y, c.R)
		p.fill(ring, c.Fill)
		p.stroke(ring, true, c.Stroke, 1)
	}
	for _, t := range s.Texts {
		p.text(t)
	}
}

func (p *painter) fill(pts []scene.Pt, c color.RGBA) {
	if c.A == 0 || len(pts) < 3 {
		return
	}
	p.z.Reset(p.img.Bounds().Dx(), p.img.Bounds().Dy())
	p.z.DrawOp = draw.Over
	p.z.MoveTo(p.pt(pts[0]))
	for _, q := range pts[1:] {
		p.z.LineTo(p.pt(q))
	}
	p.z.ClosePath()
	p.z.Draw(p.img, p.img.Bounds(), image.NewUniform(c), image.Point{})
}

func (p *painter) stroke(pts []scene.Pt, closed bool, c color.RGBA, width float64) {
	if c.A == 0 || width <= 0 {
		return
	}
	for i := 1; i < len(pts); i++ {
		p.segment(pts[i-1], pts[i], c, width)
	}
	if closed && len(pts) > 2 {
		p.segment(pts[len(pts)-1], pts[0], c, width)
	}
}

// segment fills the quad around a line of the given width.
func (p *painter) segment(a, b scene.Pt, c color.RGBA, width float64) {
	if c.A == 0 {
		return
	}
	if width <= 0 {
		width = 1
	}
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	nx, ny := -dy/l*width/2, dx/l*width/2
	p.fill([]scene.Pt{
		{X: a.X + nx, Y: a.Y + ny},
		{X: b.X + nx, Y: b.Y + ny},
		{X: b.X - nx, Y: b.Y - ny},
		{X: a.X - nx, Y: a.Y - ny},
	}, c)
}

func (p *painter) text(t scene.Text) {
	if t.S == "" {
		return
	}
	d := font.Drawer{Dst: p.img, Src: image.NewUniform(t.Color), Face: p.face}
	x := t.X * p.scale
	switch t.Anchor {
	case scene.AnchorMiddle:
		x -= float64(d.MeasureString(t.S)) / 64 / 2
	case scene.AnchorEnd:
		x -= float64(d.MeasureString(t.S)) / 64
	}
	d.Dot = fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(t.Y * p.scale * 64)}
	d.DrawString(t.S)
}

func (p *painter) pt(q scene.Pt) (float32, float32) {
	return float32(q.X * p.scale), float32(q.Y * p.scale)
}

// circle approximates a circle with a polygon fine enough for node radii.
func circle(cx, cy, r float64) []scene.Pt {
	const n = 24
	pts := make([]scene.Pt, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / n
		pts[i] = scene.Pt{X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a)}
	}
	return pts
}
