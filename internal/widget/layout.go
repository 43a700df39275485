package widget

import (
	"github.com/jmylchreest/glance/internal/render"
)

// Margin reserves top/right/bottom/left insets around its child and
// produces no content of its own.
type Margin struct {
	top, right, bottom, left int
	child                    Widget
}

// NewMargin wraps child in margins given as top, right, bottom, left.
func NewMargin(margins [4]int, child Widget) *Margin {
	return &Margin{
		top:    margins[0],
		right:  margins[1],
		bottom: margins[2],
		left:   margins[3],
		child:  child,
	}
}

func (w *Margin) Measure(m render.TextMeasurer) render.Size {
	s := w.child.Measure(m)
	return render.Size{
		W: s.W + w.left + w.right,
		H: s.H + w.top + w.bottom,
	}
}

func (w *Margin) Draw(rc render.Context, r render.Rect) {
	w.child.Draw(rc, r.Inset(w.top, w.right, w.bottom, w.left))
}

func (w *Margin) Wait(ctx *WaitContext) {
	w.child.Wait(ctx)
}

func (w *Margin) HandleKey(k Key) bool {
	return handleKey(w.child, k)
}

// Fixed clips and centers its child into an exact box. A child larger
// than the box is clipped, never an error.
type Fixed struct {
	size  render.Size
	child Widget
}

// NewFixed wraps child in a box of exactly size.
func NewFixed(size render.Size, child Widget) *Fixed {
	return &Fixed{size: size, child: child}
}

func (w *Fixed) Measure(render.TextMeasurer) render.Size {
	return w.size
}

func (w *Fixed) Draw(rc render.Context, r render.Rect) {
	box := render.Rect{X: r.X, Y: r.Y, W: w.size.W, H: w.size.H}
	child := w.child.Measure(rc)
	inner := render.Rect{
		X: box.X + (box.W-child.W)/2,
		Y: box.Y + (box.H-child.H)/2,
		W: child.W,
		H: child.H,
	}
	rc.ClipPush(box)
	w.child.Draw(rc, inner)
	rc.ClipPop()
}

func (w *Fixed) Wait(ctx *WaitContext) {
	w.child.Wait(ctx)
}

func (w *Fixed) HandleKey(k Key) bool {
	return handleKey(w.child, k)
}

// HorizontalLayout places children left to right, each at its natural
// extent. Child order is display order and is preserved for every
// delegated call.
type HorizontalLayout struct {
	children []Widget
}

// NewHorizontalLayout builds a row. An empty child list is valid and
// renders nothing; construction-time pruning relies on that.
func NewHorizontalLayout(children []Widget) *HorizontalLayout {
	return &HorizontalLayout{children: children}
}

func (w *HorizontalLayout) Measure(m render.TextMeasurer) render.Size {
	var out render.Size
	for _, c := range w.children {
		s := c.Measure(m)
		out.W += s.W
		if s.H > out.H {
			out.H = s.H
		}
	}
	return out
}

func (w *HorizontalLayout) Draw(rc render.Context, r render.Rect) {
	x := r.X
	for _, c := range w.children {
		s := c.Measure(rc)
		c.Draw(rc, render.Rect{X: x, Y: r.Y, W: s.W, H: s.H})
		x += s.W
	}
}

func (w *HorizontalLayout) Wait(ctx *WaitContext) {
	for _, c := range w.children {
		c.Wait(ctx)
	}
}

func (w *HorizontalLayout) HandleKey(k Key) bool {
	for _, c := range w.children {
		if handleKey(c, k) {
			return true
		}
	}
	return false
}

// VerticalLayout places children top to bottom, each at its natural
// extent, preserving child order.
type VerticalLayout struct {
	children []Widget
}

// NewVerticalLayout builds a column. An empty child list is valid.
func NewVerticalLayout(children []Widget) *VerticalLayout {
	return &VerticalLayout{children: children}
}

func (w *VerticalLayout) Measure(m render.TextMeasurer) render.Size {
	var out render.Size
	for _, c := range w.children {
		s := c.Measure(m)
		out.H += s.H
		if s.W > out.W {
			out.W = s.W
		}
	}
	return out
}

func (w *VerticalLayout) Draw(rc render.Context, r render.Rect) {
	y := r.Y
	for _, c := range w.children {
		s := c.Measure(rc)
		c.Draw(rc, render.Rect{X: r.X, Y: y, W: s.W, H: s.H})
		y += s.H
	}
}

func (w *VerticalLayout) Wait(ctx *WaitContext) {
	for _, c := range w.children {
		c.Wait(ctx)
	}
}

func (w *VerticalLayout) HandleKey(k Key) bool {
	for _, c := range w.children {
		if handleKey(c, k) {
			return true
		}
	}
	return false
}

// handleKey forwards k to w if it has the input capability.
func handleKey(w Widget, k Key) bool {
	if h, ok := w.(KeyHandler); ok {
		return h.HandleKey(k)
	}
	return false
}

// Children exposes the container's surviving children in display order.
func (w *Margin) Children() []Widget { return []Widget{w.child} }

func (w *Fixed) Children() []Widget { return []Widget{w.child} }

func (w *HorizontalLayout) Children() []Widget { return w.children }

func (w *VerticalLayout) Children() []Widget { return w.children }

// Container is implemented by every widget that owns children.
type Container interface {
	Children() []Widget
}

// Walk visits root and every descendant in tree order.
func Walk(root Widget, visit func(Widget)) {
	visit(root)
	if c, ok := root.(Container); ok {
		for _, child := range c.Children() {
			Walk(child, visit)
		}
	}
}
