package widget

import (
	"math"

	"github.com/jmylchreest/glance/internal/render"
)

// Gauge is one externally-sourced measurement: a name, a normalized
// value, a color, and mutators that may be no-ops for read-only sources.
// Value always reads as the last successfully observed measurement; a
// failed refresh leaves it untouched.
type Gauge interface {
	Name() string
	Value() float64
	Color() render.Color

	Increment(delta float64)
	Set(v float64)
	Toggle()

	// Wait drains pending notifications and registers wake sources,
	// per the Widget contract.
	Wait(ctx *WaitContext)
}

// barGaugeGap separates the name label from the bar.
const barGaugeGap = 16

var barOutline = render.RGB(1, 1, 1)

// Bar renders a Gauge as a labeled proportional fill: name on the left,
// an outlined bar of the configured pixel length beside it, filled to
// Value in the gauge's current color.
type Bar struct {
	fontSize float64
	length   int
	gauge    Gauge
}

// NewBar wraps gauge in the shared bar renderer.
func NewBar(fontSize float64, length int, gauge Gauge) *Bar {
	return &Bar{fontSize: fontSize, length: length, gauge: gauge}
}

// Gauge exposes the wrapped gauge, mainly for input routing and tests.
func (w *Bar) Gauge() Gauge {
	return w.gauge
}

func (w *Bar) labelWidth(m render.TextMeasurer) int {
	return m.TextExtent(w.fontSize, w.gauge.Name()).W
}

func (w *Bar) Measure(m render.TextMeasurer) render.Size {
	h := m.TextExtent(w.fontSize, w.gauge.Name()).H
	if min := int(math.Ceil(w.fontSize)); h < min {
		h = min
	}
	return render.Size{
		W: w.labelWidth(m) + barGaugeGap + w.length,
		H: h,
	}
}

func (w *Bar) Draw(rc render.Context, r render.Rect) {
	rc.DrawText(r.X, r.Y, w.fontSize, barOutline, w.gauge.Name())

	bar := render.Rect{
		X: r.X + w.labelWidth(rc) + barGaugeGap,
		Y: r.Y,
		W: w.length,
		H: r.H,
	}
	rc.StrokeRect(bar, barOutline)

	v := w.gauge.Value()
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	fill := bar
	fill.W = int(float64(w.length) * v)
	rc.FillRect(fill, w.gauge.Color())
}

func (w *Bar) Wait(ctx *WaitContext) {
	w.gauge.Wait(ctx)
}
