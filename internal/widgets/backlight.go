package widgets

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/jmylchreest/glance/internal/render"
	"github.com/jmylchreest/glance/internal/widget"
)

const backlightRoot = "/sys/class/backlight"

// Backlight is a read-write gauge over one sysfs backlight device. The
// brightness attribute is watched with fsnotify so changes made by other
// tools (brightnessctl, function keys) redraw the gauge too.
type Backlight struct {
	device         string
	brightnessPath string
	max            int
	current        int

	watcher *fsnotify.Watcher
	cmds    chan<- widget.Command
	dirty   *widget.DirtyFlag
	logger  *slog.Logger
}

// NewBacklight probes the named backlight device under
// /sys/class/backlight. Probe failures prune the node.
func NewBacklight(device string, cmds chan<- widget.Command, dirty *widget.DirtyFlag, logger *slog.Logger) (*Backlight, error) {
	return newBacklightAt(backlightRoot, device, cmds, dirty, logger)
}

func newBacklightAt(root, device string, cmds chan<- widget.Command, dirty *widget.DirtyFlag, logger *slog.Logger) (*Backlight, error) {
	if logger == nil {
		logger = slog.Default()
	}

	base := filepath.Join(root, device)
	w := &Backlight{
		device:         device,
		brightnessPath: filepath.Join(base, "brightness"),
		cmds:           cmds,
		dirty:          dirty,
		logger:         logger.With("widget", "backlight", "device", device),
	}

	max, err := readSysfsInt(filepath.Join(base, "max_brightness"))
	if err != nil {
		return nil, fmt.Errorf("backlight device %s unavailable: %w", device, err)
	}
	if max <= 0 {
		return nil, fmt.Errorf("backlight device %s reports max_brightness %d", device, max)
	}
	w.max = max

	if w.current, err = readSysfsInt(w.brightnessPath); err != nil {
		return nil, fmt.Errorf("backlight device %s unavailable: %w", device, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create brightness watcher: %w", err)
	}
	if err := watcher.Add(w.brightnessPath); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch brightness attribute: %w", err)
	}
	w.watcher = watcher

	return w, nil
}

func readSysfsInt(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

// refresh re-reads the brightness attribute, keeping the previous value
// on failure.
func (w *Backlight) refresh() {
	v, err := readSysfsInt(w.brightnessPath)
	if err != nil {
		w.logger.Warn("brightness read failed", "error", err)
		return
	}
	if v == w.current {
		return
	}
	w.current = v
	w.dirty.Set()
	widget.RequestRedraw(w.cmds)
}

func (w *Backlight) Name() string {
	return "backlight"
}

func (w *Backlight) Value() float64 {
	return float64(w.current) / float64(w.max)
}

func (w *Backlight) Color() render.Color {
	return render.RGB(1, 1, 1)
}

func (w *Backlight) Increment(delta float64) {
	w.Set(w.Value() + delta)
}

// Set writes a clamped brightness back through the same attribute the
// gauge reads. The value is applied locally as well so the next redraw
// does not depend on the watcher delivering our own write.
func (w *Backlight) Set(v float64) {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	raw := int(v * float64(w.max))

	if err := os.WriteFile(w.brightnessPath, []byte(strconv.Itoa(raw)), 0o644); err != nil {
		w.logger.Warn("brightness write failed", "error", err)
		return
	}
	if raw != w.current {
		w.current = raw
		w.dirty.Set()
		widget.RequestRedraw(w.cmds)
	}
}

func (w *Backlight) Toggle() {}

func (w *Backlight) Wait(ctx *widget.WaitContext) {
	for {
		select {
		case <-w.watcher.Events:
			w.refresh()
		case err := <-w.watcher.Errors:
			w.logger.Warn("brightness watcher error", "error", err)
		default:
			ctx.AddChan(w.watcher.Events, w.refresh)
			ctx.AddChan(w.watcher.Errors, func() {})
			return
		}
	}
}
