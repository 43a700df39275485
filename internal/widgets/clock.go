package widgets

import (
	"time"

	"github.com/jmylchreest/glance/internal/render"
	"github.com/jmylchreest/glance/internal/widget"
)

var textColor = render.RGB(1, 1, 1)

// Clock shows the current time as HH:MM. It has no external wake source;
// it asks the loop to wake at the next minute boundary instead.
type Clock struct {
	fontSize float64

	// Now is the time source, replaceable in tests.
	Now func() time.Time
}

// NewClock builds a clock leaf.
func NewClock(fontSize float64) *Clock {
	return &Clock{fontSize: fontSize, Now: time.Now}
}

func (w *Clock) text() string {
	return w.Now().Format("15:04")
}

func (w *Clock) Measure(m render.TextMeasurer) render.Size {
	return m.TextExtent(w.fontSize, w.text())
}

func (w *Clock) Draw(rc render.Context, r render.Rect) {
	rc.DrawText(r.X, r.Y, w.fontSize, textColor, w.text())
}

func (w *Clock) Wait(ctx *widget.WaitContext) {
	ctx.SetDeadline(nextMinute(w.Now()))
}

// nextMinute returns the first instant of the minute after now.
func nextMinute(now time.Time) time.Time {
	return now.Truncate(time.Minute).Add(time.Minute)
}
