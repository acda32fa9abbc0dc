package view

import (
	"bytes"
	"image"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/Garsondee/Gridiron-Sense/internal/scene"
)

const labelSize = 11

var faceSource = sync.OnceValues(func() (*text.GoTextFaceSource, error) {
	return text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
})

// labelFace returns the label font, or nil if it failed to load.
func labelFace() *text.GoTextFace {
	src, err := faceSource()
	if err != nil {
		return nil
	}
	return &text.GoTextFace{Source: src, Size: labelSize}
}

// drawScene paints s with its origin at (ox, oy), clipped to the scene's
// bounds.
func drawScene(screen *ebiten.Image, s *scene.Scene, ox, oy float64, face *text.GoTextFace) {
	clip := image.Rect(int(ox), int(oy), int(ox+s.W), int(oy+s.H))
	dst, ok := screen.SubImage(clip).(*ebiten.Image)
	if !ok {
		return
	}
	fx, fy := float32(ox), float32(oy)
	vector.FillRect(dst, fx, fy, float32(s.W), float32(s.H), s.Background, false)

	for _, r := range s.Rects {
		if r.Fill.A > 0 {
			vector.FillRect(dst, fx+float32(r.X), fy+float32(r.Y), float32(r.W), float32(r.H), r.Fill, false)
		}
		if r.Stroke.A > 0 {
			vector.StrokeRect(dst, fx+float32(r.X), fy+float32(r.Y), float32(r.W), float32(r.H), 1, r.Stroke, false)
		}
	}
	for _, p := range s.Paths {
		drawPath(dst, p, fx, fy)
	}
	for _, l := range s.Lines {
		w := float32(l.Width)
		if w <= 0 {
			w = 1
		}
		vector.StrokeLine(dst, fx+float32(l.X0), fy+float32(l.Y0), fx+float32(l.X1), fy+float32(l.Y1), w, l.Color, false)
	}
	for _, c := range s.Circles {
		vector.FillCircle(dst, fx+float32(c.X), fy+float32(c.Y), float32(c.R), c.Fill, true)
		if c.Stroke.A > 0 {
			vector.StrokeCircle(dst, fx+float32(c.X), fy+float32(c.Y), float32(c.R), 1, c.Stroke, true)
		}
	}
	if face == nil {
		return
	}
	for _, t := range s.Texts {
		drawText(dst, t, ox, oy, face)
	}
}

func drawPath(dst *ebiten.Image, p scene.Path, fx, fy float32) {
	if len(p.Points) < 2 {
		return
	}
	if p.Closed && p.Fill.A > 0 && len(p.Points) > 2 {
		var path vector.Path
		path.MoveTo(fx+float32(p.Points[0].X), fy+float32(p.Points[0].Y))
		for _, q := range p.Points[1:] {
			path.LineTo(fx+float32(q.X), fy+float32(q.Y))
		}
		path.Close()
		opts := &vector.DrawPathOptions{AntiAlias: true}
		opts.ColorScale.ScaleWithColor(p.Fill)
		vector.FillPath(dst, &path, &vector.FillOptions{}, opts)
	}
	if p.Stroke.A == 0 {
		return
	}
	w := float32(p.Width)
	if w <= 0 {
		w = 1
	}
	for i := 1; i < len(p.Points); i++ {
		a, b := p.Points[i-1], p.Points[i]
		vector.StrokeLine(dst, fx+float32(a.X), fy+float32(a.Y), fx+float32(b.X), fy+float32(b.Y), w, p.Stroke, true)
	}
}

// drawText places t with its baseline at Y, honouring the anchor.
func drawText(dst *ebiten.Image, t scene.Text, ox, oy float64, face *text.GoTextFace) {
	if t.S == "" {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(ox+t.X, oy+t.Y-face.Metrics().HAscent)
	op.ColorScale.ScaleWithColor(t.Color)
	switch t.Anchor {
	case scene.AnchorMiddle:
		op.PrimaryAlign = text.AlignCenter
	case scene.AnchorEnd:
		op.PrimaryAlign = text.AlignEnd
	}
	text.Draw(dst, t.S, face, op)
}

// drawTooltip renders lines in a dark box just below-right of (x, y).
func drawTooltip(screen *ebiten.Image, x, y float64, lines []string, face *text.GoTextFace) {
	if len(lines) == 0 || face == nil {
		return
	}
	const pad, lineH = 6.0, 15.0
	width := 0.0
	for _, l := range lines {
		if w, _ := text.Measure(l, face, lineH); w > width {
			width = w
		}
	}
	bx, by := x+12, y+12
	bw, bh := width+2*pad, float64(len(lines))*lineH+2*pad
	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	if bx+bw > float64(sw) {
		bx = x - 12 - bw
	}
	if by+bh > float64(sh) {
		by = y - 12 - bh
	}
	vector.FillRect(screen, float32(bx), float32(by), float32(bw), float32(bh), color.RGBA{R: 20, G: 20, B: 24, A: 230}, false)
	vector.StrokeRect(screen, float32(bx), float32(by), float32(bw), float32(bh), 1, color.RGBA{R: 90, G: 90, B: 110, A: 255}, false)
	for i, l := range lines {
		op := &text.DrawOptions{}
		op.GeoM.Translate(bx+pad, by+pad+float64(i)*lineH)
		op.ColorScale.ScaleWithColor(scene.White)
		text.Draw(screen, l, face, op)
	}
}
