package display

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/diamondburned/gotk4/pkg/cairo"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"

	"github.com/jmylchreest/glance/internal/config"
	"github.com/jmylchreest/glance/internal/render"
	"github.com/jmylchreest/glance/internal/widget"
)

const overlayFontFamily = "monospace"

// Overlay is the render.Surface backing the dashboard: one fullscreen
// layer-shell window per selected output, all replaying the same
// committed frame. Surface acquisition failure is the process's only
// fatal error class, surfaced from Activate.
type Overlay struct {
	cfg    *config.Config
	logger *slog.Logger
	cmds   chan<- widget.Command

	windows []*overlayWindow
	measure *cairo.Context
	frame   *frameContext // frame being recorded, loop goroutine only

	mu        sync.Mutex
	committed []op
	size      render.Size
}

type overlayWindow struct {
	win  *gtk.Window
	area *gtk.DrawingArea
}

// NewOverlay creates the surface. Windows are not built until Activate
// runs inside the GTK application's activate signal.
func NewOverlay(cfg *config.Config, logger *slog.Logger) *Overlay {
	if logger == nil {
		logger = slog.Default()
	}
	return &Overlay{cfg: cfg, logger: logger}
}

// SetCommands wires the loop's inbound channel for keyboard forwarding.
func (o *Overlay) SetCommands(cmds chan<- widget.Command) {
	o.cmds = cmds
}

// Activate builds the overlay window(s). Must run on the GTK main
// thread, before the render loop starts.
func (o *Overlay) Activate(app *gtk.Application) error {
	if !layershell.IsSupported() {
		return fmt.Errorf("wlr-layer-shell is not supported by this compositor")
	}

	disp := gdk.DisplayGetDefault()
	if disp == nil {
		return fmt.Errorf("no display available")
	}

	surf := cairo.CreateImageSurface(cairo.FORMAT_ARGB32, 1, 1)
	o.measure = cairo.Create(surf)

	if o.cfg.OutputMode == config.OutputModeAll {
		monitors := disp.Monitors()
		for i := uint(0); i < monitors.NItems(); i++ {
			mon, ok := monitors.Item(i).Cast().(*gdk.Monitor)
			if !ok {
				continue
			}
			o.addWindow(app, mon)
		}
	}
	if len(o.windows) == 0 {
		// Active mode, or no enumerable monitors: one window on the
		// compositor-chosen output.
		o.addWindow(app, nil)
	}

	o.logger.Info("overlay surface ready", "windows", len(o.windows), "size", o.size)
	return nil
}

func (o *Overlay) addWindow(app *gtk.Application, mon *gdk.Monitor) {
	win := gtk.NewWindow()
	win.SetApplication(app)
	win.SetDecorated(false)

	layershell.InitForWindow(win)
	layershell.SetLayer(win, layershell.LayerShellLayerOverlay)
	layershell.SetNamespace(win, "glance")
	layershell.SetKeyboardMode(win, layershell.LayerShellKeyboardModeExclusive)
	layershell.SetExclusiveZone(win, 0)
	for _, edge := range []layershell.LayerShellEdge{
		layershell.LayerShellEdgeTop,
		layershell.LayerShellEdgeBottom,
		layershell.LayerShellEdgeLeft,
		layershell.LayerShellEdgeRight,
	} {
		layershell.SetAnchor(win, edge, true)
	}
	if mon != nil {
		layershell.SetMonitor(win, mon)
		geo := mon.Geometry()
		o.noteSize(geo.Width(), geo.Height())
	}

	area := gtk.NewDrawingArea()
	area.SetDrawFunc(func(_ *gtk.DrawingArea, cr *cairo.Context, w, h int) {
		o.noteSize(w, h)
		o.replay(cr, w, h)
	})
	win.SetChild(area)

	keys := gtk.NewEventControllerKey()
	keys.ConnectKeyPressed(func(keyval, _ uint, _ gdk.ModifierType) bool {
		return o.forwardKey(keyval)
	})
	win.AddController(keys)

	win.Present()
	o.windows = append(o.windows, &overlayWindow{win: win, area: area})
}

// noteSize records the drawable extent. The layout is sized in unscaled
// pixels, so the surface reports the physical size divided by scale.
func (o *Overlay) noteSize(w, h int) {
	o.mu.Lock()
	o.size = render.Size{W: w / o.cfg.Scale, H: h / o.cfg.Scale}
	o.mu.Unlock()
}

// forwardKey translates a GDK keyval into a Command for the loop.
func (o *Overlay) forwardKey(keyval uint) bool {
	if o.cmds == nil {
		return false
	}
	var k widget.Key
	switch keyval {
	case gdk.KEY_Return, gdk.KEY_KP_Enter:
		k = widget.Key{Special: widget.KeyEnter}
	case gdk.KEY_BackSpace:
		k = widget.Key{Special: widget.KeyBackspace}
	case gdk.KEY_Escape:
		k = widget.Key{Special: widget.KeyEscape}
	default:
		r := rune(gdk.KeyvalToUnicode(keyval))
		if r == 0 {
			return false
		}
		k = widget.Key{Rune: r}
	}
	select {
	case o.cmds <- widget.Command{Kind: widget.CmdKey, Key: k}:
	default:
		o.logger.Warn("dropping key event, command channel full")
	}
	return true
}

// replay paints the committed frame. Runs in each window's draw callback
// on the GTK thread.
func (o *Overlay) replay(cr *cairo.Context, w, h int) {
	bg := o.cfg.Background
	cr.SetSourceRGBA(bg.R, bg.G, bg.B, bg.A)
	cr.Rectangle(0, 0, float64(w), float64(h))
	cr.Fill()

	o.mu.Lock()
	frame := o.committed
	o.mu.Unlock()
	for _, op := range frame {
		op.replay(cr)
	}
}

// Size implements render.Surface.
func (o *Overlay) Size() render.Size {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.size
}

// Begin implements render.Surface. Loop goroutine only.
func (o *Overlay) Begin() (render.Context, error) {
	if o.measure == nil {
		return nil, fmt.Errorf("surface not activated")
	}
	o.frame = &frameContext{scale: float64(o.cfg.Scale), measure: o.measure}
	return o.frame, nil
}

// Commit implements render.Surface: publish the recorded frame and queue
// a repaint of every window from the GTK main loop.
func (o *Overlay) Commit() error {
	if o.frame == nil {
		return fmt.Errorf("commit without begin")
	}
	ops := o.frame.ops
	o.frame = nil

	o.mu.Lock()
	o.committed = ops
	o.mu.Unlock()

	glib.IdleAdd(func() {
		for _, w := range o.windows {
			w.area.QueueDraw()
		}
	})
	return nil
}

// Close implements render.Surface.
func (o *Overlay) Close() error {
	glib.IdleAdd(func() {
		for _, w := range o.windows {
			w.win.Close()
		}
	})
	return nil
}
