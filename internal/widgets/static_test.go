package widgets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/glance/internal/render"
	"github.com/jmylchreest/glance/internal/widget"
)

// fakeMeasurer gives monospace-ish deterministic metrics.
type fakeMeasurer struct{}

func (fakeMeasurer) TextExtent(fontSize float64, s string) render.Size {
	return render.Size{W: len(s) * int(fontSize) / 2, H: int(fontSize)}
}

// fakeDrawer records drawn text.
type fakeDrawer struct {
	fakeMeasurer
	texts []string
}

func (f *fakeDrawer) FillRect(render.Rect, render.Color)   {}
func (f *fakeDrawer) StrokeRect(render.Rect, render.Color) {}
func (f *fakeDrawer) ClipPush(render.Rect)                 {}
func (f *fakeDrawer) ClipPop()                             {}

func (f *fakeDrawer) DrawText(x, y int, fontSize float64, c render.Color, s string) {
	f.texts = append(f.texts, s)
}

func fixedTime(t *testing.T) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, "2026-08-14T21:37:42Z")
	require.NoError(t, err)
	return ts
}

func TestClock_TextAndDeadline(t *testing.T) {
	w := NewClock(256)
	w.Now = func() time.Time { return fixedTime(t) }

	rc := &fakeDrawer{}
	w.Draw(rc, render.Rect{})
	assert.Equal(t, []string{"21:37"}, rc.texts)

	ctx := &widget.WaitContext{}
	w.Wait(ctx)
	assert.Equal(t, "2026-08-14T21:38:00Z", ctx.Deadline().Format(time.RFC3339))
}

func TestDate_Text(t *testing.T) {
	w := NewDate(64)
	w.Now = func() time.Time { return fixedTime(t) }

	rc := &fakeDrawer{}
	w.Draw(rc, render.Rect{})
	assert.Equal(t, []string{"Friday, 14 August"}, rc.texts)
}

func TestMonthLines_August2026(t *testing.T) {
	ts := fixedTime(t)
	lines := monthLines(ts)

	require.GreaterOrEqual(t, len(lines), 7)
	assert.Contains(t, lines[0], "August 2026")
	assert.Equal(t, "Mo Tu We Th Fr Sa Su", lines[1])

	// 1 August 2026 is a Saturday: five leading blank cells.
	assert.Equal(t, "                1  2", lines[2])
	// 31 August 2026 is a Monday on the final row.
	assert.Equal(t, "31", lines[len(lines)-1][:2])
}

func TestCellPosition(t *testing.T) {
	ts := fixedTime(t)

	// 14 August 2026 is a Friday in the third displayed week.
	line, col := cellPosition(ts, 14)
	assert.Equal(t, 4, line)
	assert.Equal(t, 4, col)

	line, col = cellPosition(ts, 1)
	assert.Equal(t, 2, line)
	assert.Equal(t, 5, col)
}

func TestCalendar_MeasureScalesWithSections(t *testing.T) {
	one := NewCalendar(16, 1)
	three := NewCalendar(16, 3)

	m := fakeMeasurer{}
	w1 := one.Measure(m).W
	w3 := three.Measure(m).W
	assert.Greater(t, w3, 2*w1, "three sections need gaps between months")
	assert.Equal(t, one.Measure(m).H, three.Measure(m).H)
}

func TestCalendar_HighlightsToday(t *testing.T) {
	w := NewCalendar(16, 2)
	w.Now = func() time.Time { return fixedTime(t) }

	rc := &fakeDrawer{}
	w.Draw(rc, render.Rect{})

	// The highlight repaint draws today's cell once more on top.
	count := 0
	for _, s := range rc.texts {
		if s == "14" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
