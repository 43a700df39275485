// Package render declares the drawing primitives the widget tree is
// written against. The package is deliberately free of any backend
// imports: internal/display provides the GTK/cairo implementation and
// internal/preview provides a text one, while widgets and layout code
// only ever see these types.
package render

// Color is a non-premultiplied RGBA color with components in [0, 1].
type Color struct {
	R float64 `toml:"r" yaml:"r"`
	G float64 `toml:"g" yaml:"g"`
	B float64 `toml:"b" yaml:"b"`
	A float64 `toml:"a" yaml:"a"`
}

// RGB returns an opaque color.
func RGB(r, g, b float64) Color {
	return Color{R: r, G: g, B: b, A: 1.0}
}

// Size is a width/height pair in surface pixels.
type Size struct {
	W int
	H int
}

// Rect is a pixel rectangle positioned at (X, Y).
type Rect struct {
	X int
	Y int
	W int
	H int
}

// Size returns the rectangle's extent.
func (r Rect) Size() Size {
	return Size{W: r.W, H: r.H}
}

// Inset shrinks the rectangle by the given top/right/bottom/left margins.
// A margin set larger than the rectangle collapses the affected axis to
// zero rather than going negative.
func (r Rect) Inset(top, right, bottom, left int) Rect {
	out := Rect{
		X: r.X + left,
		Y: r.Y + top,
		W: r.W - left - right,
		H: r.H - top - bottom,
	}
	if out.W < 0 {
		out.W = 0
	}
	if out.H < 0 {
		out.H = 0
	}
	return out
}

// TextMeasurer reports the extent text would occupy at a font size. It is
// the measurement half of Context, split out so layout code can be sized
// without a live drawing target.
type TextMeasurer interface {
	// TextExtent returns the box occupied by s rendered at fontSize.
	TextExtent(fontSize float64, s string) Size
}

// Context is one frame's drawing target. A Context is only valid between
// Surface.Begin and Surface.Commit and must not be retained.
type Context interface {
	TextMeasurer

	// FillRect fills the rectangle with the color.
	FillRect(r Rect, c Color)

	// StrokeRect outlines the rectangle with a hairline of the color.
	StrokeRect(r Rect, c Color)

	// DrawText renders s at fontSize with its top-left corner at (x, y).
	DrawText(x, y int, fontSize float64, c Color, s string)

	// ClipPush restricts subsequent drawing to r until the matching
	// ClipPop. Calls nest.
	ClipPush(r Rect)

	// ClipPop undoes the most recent ClipPush.
	ClipPop()
}

// Surface is the one rectangular output the overlay draws into. The core
// redraws it whole: Begin hands out a frame Context, Commit publishes the
// frame and requests a repaint from the windowing layer.
type Surface interface {
	// Size returns the current drawable extent.
	Size() Size

	// Begin starts a frame. The background is already cleared to the
	// configured color when the Context is handed out.
	Begin() (Context, error)

	// Commit publishes the frame started by Begin.
	Commit() error

	// Close releases the surface.
	Close() error
}
