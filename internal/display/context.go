package display

import (
	"github.com/diamondburned/gotk4/pkg/cairo"

	"github.com/jmylchreest/glance/internal/render"
)

// lineHeightFactor converts a font size into the line box TextExtent
// reports, keeping measurement independent of the loaded font's exact
// metrics.
const lineHeightFactor = 1.2

// op is one recorded drawing operation, replayed on the GTK thread.
type op interface {
	replay(cr *cairo.Context)
}

type fillRectOp struct {
	r render.Rect
	c render.Color
}

func (o fillRectOp) replay(cr *cairo.Context) {
	cr.SetSourceRGBA(o.c.R, o.c.G, o.c.B, o.c.A)
	cr.Rectangle(float64(o.r.X), float64(o.r.Y), float64(o.r.W), float64(o.r.H))
	cr.Fill()
}

type strokeRectOp struct {
	r render.Rect
	c render.Color
}

func (o strokeRectOp) replay(cr *cairo.Context) {
	cr.SetSourceRGBA(o.c.R, o.c.G, o.c.B, o.c.A)
	cr.SetLineWidth(1)
	cr.Rectangle(float64(o.r.X)+0.5, float64(o.r.Y)+0.5, float64(o.r.W)-1, float64(o.r.H)-1)
	cr.Stroke()
}

type textOp struct {
	x, y     int
	fontSize float64
	c        render.Color
	s        string
}

func (o textOp) replay(cr *cairo.Context) {
	cr.SetSourceRGBA(o.c.R, o.c.G, o.c.B, o.c.A)
	cr.SelectFontFace(overlayFontFamily, cairo.FONT_SLANT_NORMAL, cairo.FONT_WEIGHT_NORMAL)
	cr.SetFontSize(o.fontSize)
	// DrawText positions the top-left corner; cairo wants the baseline.
	cr.MoveTo(float64(o.x), float64(o.y)+o.fontSize)
	cr.ShowText(o.s)
}

type clipPushOp struct {
	r render.Rect
}

func (o clipPushOp) replay(cr *cairo.Context) {
	cr.Save()
	cr.Rectangle(float64(o.r.X), float64(o.r.Y), float64(o.r.W), float64(o.r.H))
	cr.Clip()
}

type clipPopOp struct{}

func (o clipPopOp) replay(cr *cairo.Context) {
	cr.Restore()
}

// frameContext records one frame. It lives on the render loop goroutine;
// measurement uses a dedicated off-screen cairo context that no GTK
// callback ever touches. All recorded coordinates are pre-multiplied by
// the configured scale.
type frameContext struct {
	ops     []op
	scale   float64
	measure *cairo.Context
}

func (f *frameContext) scaleRect(r render.Rect) render.Rect {
	if f.scale == 1 {
		return r
	}
	return render.Rect{
		X: int(float64(r.X) * f.scale),
		Y: int(float64(r.Y) * f.scale),
		W: int(float64(r.W) * f.scale),
		H: int(float64(r.H) * f.scale),
	}
}

func (f *frameContext) FillRect(r render.Rect, c render.Color) {
	f.ops = append(f.ops, fillRectOp{r: f.scaleRect(r), c: c})
}

func (f *frameContext) StrokeRect(r render.Rect, c render.Color) {
	f.ops = append(f.ops, strokeRectOp{r: f.scaleRect(r), c: c})
}

func (f *frameContext) DrawText(x, y int, fontSize float64, c render.Color, s string) {
	f.ops = append(f.ops, textOp{
		x:        int(float64(x) * f.scale),
		y:        int(float64(y) * f.scale),
		fontSize: fontSize * f.scale,
		c:        c,
		s:        s,
	})
}

func (f *frameContext) ClipPush(r render.Rect) {
	f.ops = append(f.ops, clipPushOp{r: f.scaleRect(r)})
}

func (f *frameContext) ClipPop() {
	f.ops = append(f.ops, clipPopOp{})
}

// TextExtent measures in unscaled (layout) pixels; scaling happens only
// when ops are recorded.
func (f *frameContext) TextExtent(fontSize float64, s string) render.Size {
	f.measure.SelectFontFace(overlayFontFamily, cairo.FONT_SLANT_NORMAL, cairo.FONT_WEIGHT_NORMAL)
	f.measure.SetFontSize(fontSize)
	ext := f.measure.TextExtents(s)
	return render.Size{
		W: int(ext.XAdvance + 0.5),
		H: int(fontSize*lineHeightFactor + 0.5),
	}
}
