package widgets

import (
	"fmt"
	"strings"
	"time"

	"github.com/jmylchreest/glance/internal/render"
	"github.com/jmylchreest/glance/internal/widget"
)

// calendar grid geometry: a month is 7 two-digit columns separated by
// single spaces, and at most 6 week rows plus title and weekday header.
const (
	calendarCols = 7
	calendarRows = 8
)

var calendarHighlight = render.Color{R: 1, G: 0.5, B: 0, A: 1}

// Calendar shows a configurable number of consecutive months starting
// with the current one, today highlighted. Pure function of the current
// time; redraws ride the loop's minute boundary so the highlight moves
// at midnight without a dedicated wake source.
type Calendar struct {
	fontSize float64
	sections int

	// Now is the time source, replaceable in tests.
	Now func() time.Time
}

// NewCalendar builds a calendar leaf showing sections months.
func NewCalendar(fontSize float64, sections int) *Calendar {
	return &Calendar{fontSize: fontSize, sections: sections, Now: time.Now}
}

// monthLines renders the month containing t as fixed-width text lines:
// a centered title, a weekday header, and one line per week. Weeks start
// on Monday.
func monthLines(t time.Time) []string {
	const width = calendarCols*3 - 1

	title := t.Format("January 2006")
	pad := (width - len(title)) / 2
	if pad < 0 {
		pad = 0
	}
	lines := []string{
		strings.Repeat(" ", pad) + title,
		"Mo Tu We Th Fr Sa Su",
	}

	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	// Monday-based column for the 1st of the month.
	col := (int(first.Weekday()) + 6) % 7
	daysInMonth := first.AddDate(0, 1, -1).Day()

	cells := make([]string, 0, calendarCols)
	for i := 0; i < col; i++ {
		cells = append(cells, "  ")
	}
	for day := 1; day <= daysInMonth; day++ {
		cells = append(cells, fmt.Sprintf("%2d", day))
		if len(cells) == calendarCols {
			lines = append(lines, strings.Join(cells, " "))
			cells = cells[:0]
		}
	}
	if len(cells) > 0 {
		for len(cells) < calendarCols {
			cells = append(cells, "  ")
		}
		lines = append(lines, strings.Join(cells, " "))
	}
	return lines
}

// cellPosition returns the (line, column) of day within monthLines
// output. Line 0 is the title, line 1 the weekday header.
func cellPosition(t time.Time, day int) (line, col int) {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	offset := (int(first.Weekday())+6)%7 + day - 1
	return 2 + offset/calendarCols, offset % calendarCols
}

func (w *Calendar) lineHeight(m render.TextMeasurer) int {
	h := m.TextExtent(w.fontSize, "Mo").H
	if h < 1 {
		h = 1
	}
	return h
}

func (w *Calendar) monthWidth(m render.TextMeasurer) int {
	return m.TextExtent(w.fontSize, "Mo Tu We Th Fr Sa Su").W
}

func (w *Calendar) sectionGap(m render.TextMeasurer) int {
	return m.TextExtent(w.fontSize, "    ").W
}

func (w *Calendar) Measure(m render.TextMeasurer) render.Size {
	return render.Size{
		W: w.sections*w.monthWidth(m) + (w.sections-1)*w.sectionGap(m),
		H: calendarRows * w.lineHeight(m),
	}
}

func (w *Calendar) Draw(rc render.Context, r render.Rect) {
	now := w.Now()
	lineH := w.lineHeight(rc)
	monthW := w.monthWidth(rc)
	gap := w.sectionGap(rc)

	x := r.X
	for i := 0; i < w.sections; i++ {
		month := now.AddDate(0, i, 0)
		lines := monthLines(month)
		for li, line := range lines {
			rc.DrawText(x, r.Y+li*lineH, w.fontSize, textColor, line)
		}

		// Repaint today's cell in the highlight color on top.
		if i == 0 {
			line, col := cellPosition(now, now.Day())
			if line < len(lines) {
				prefix := lines[line][:col*3]
				cell := lines[line][col*3 : col*3+2]
				rc.DrawText(x+rc.TextExtent(w.fontSize, prefix).W, r.Y+line*lineH,
					w.fontSize, calendarHighlight, cell)
			}
		}
		x += monthW + gap
	}
}

func (w *Calendar) Wait(ctx *widget.WaitContext) {
	ctx.SetDeadline(nextMinute(w.Now()))
}
