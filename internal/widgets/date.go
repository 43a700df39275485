package widgets

import (
	"time"

	"github.com/jmylchreest/glance/internal/render"
	"github.com/jmylchreest/glance/internal/widget"
)

// Date shows the current weekday and date. Like Clock it redraws on the
// loop's minute boundary, which is more than enough for a date.
type Date struct {
	fontSize float64

	// Now is the time source, replaceable in tests.
	Now func() time.Time
}

// NewDate builds a date leaf.
func NewDate(fontSize float64) *Date {
	return &Date{fontSize: fontSize, Now: time.Now}
}

func (w *Date) text() string {
	return w.Now().Format("Monday, 02 January")
}

func (w *Date) Measure(m render.TextMeasurer) render.Size {
	return m.TextExtent(w.fontSize, w.text())
}

func (w *Date) Draw(rc render.Context, r render.Rect) {
	rc.DrawText(r.X, r.Y, w.fontSize, textColor, w.text())
}

func (w *Date) Wait(ctx *widget.WaitContext) {
	ctx.SetDeadline(nextMinute(w.Now()))
}
