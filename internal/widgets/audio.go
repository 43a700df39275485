package widgets

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/jmylchreest/glance/internal/render"
	"github.com/jmylchreest/glance/internal/widget"
)

// Mixer is one audio backend: normalized volume get/set, a mute toggle,
// and a channel that fires whenever the server reports a change. The
// backing connection stays inside the implementation; only the update
// channel is exposed to the loop.
type Mixer interface {
	Volume() (float64, error)
	SetVolume(v float64) error
	Muted() (bool, error)
	ToggleMute() error
	Updates() <-chan struct{}
	Close() error
}

// mixerBackends is the closed set of compiled-in audio backends, keyed
// by the config backend name.
var mixerBackends = map[string]func(logger *slog.Logger) (Mixer, error){}

func registerMixer(name string, open func(logger *slog.Logger) (Mixer, error)) {
	mixerBackends[name] = open
}

// MixerBackends lists the compiled-in backend names.
func MixerBackends() []string {
	names := make([]string, 0, len(mixerBackends))
	for name := range mixerBackends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Audio is a gauge over a Mixer. Volume and mute state are cached and
// refreshed when the backend signals a change; a muted mixer renders its
// fill dimmed.
type Audio struct {
	mixer  Mixer
	cmds   chan<- widget.Command
	dirty  *widget.DirtyFlag
	logger *slog.Logger

	volume float64
	muted  bool
}

// NewAudio opens the named backend and reads the initial mixer state.
// An unknown backend name or an unreachable audio server prunes the
// node.
func NewAudio(backend string, cmds chan<- widget.Command, dirty *widget.DirtyFlag, logger *slog.Logger) (*Audio, error) {
	if logger == nil {
		logger = slog.Default()
	}

	open, ok := mixerBackends[backend]
	if !ok {
		return nil, fmt.Errorf("unknown audio backend %q (have %v)", backend, MixerBackends())
	}
	mixer, err := open(logger)
	if err != nil {
		return nil, fmt.Errorf("audio backend %s unavailable: %w", backend, err)
	}

	w := &Audio{
		mixer:  mixer,
		cmds:   cmds,
		dirty:  dirty,
		logger: logger.With("widget", "audio", "backend", backend),
	}
	if w.volume, err = mixer.Volume(); err != nil {
		mixer.Close()
		return nil, fmt.Errorf("failed to read volume: %w", err)
	}
	if w.muted, err = mixer.Muted(); err != nil {
		mixer.Close()
		return nil, fmt.Errorf("failed to read mute state: %w", err)
	}
	return w, nil
}

// refresh re-reads volume and mute state, keeping previous values on
// failure.
func (w *Audio) refresh() {
	volume, err := w.mixer.Volume()
	if err != nil {
		w.logger.Warn("volume read failed", "error", err)
		return
	}
	muted, err := w.mixer.Muted()
	if err != nil {
		w.logger.Warn("mute read failed", "error", err)
		return
	}
	if volume == w.volume && muted == w.muted {
		return
	}
	w.volume = volume
	w.muted = muted
	w.dirty.Set()
	widget.RequestRedraw(w.cmds)
}

func (w *Audio) Name() string {
	return "audio"
}

func (w *Audio) Value() float64 {
	return w.volume
}

func (w *Audio) Color() render.Color {
	if w.muted {
		return render.RGB(0.5, 0.5, 0.5)
	}
	return render.RGB(1, 1, 1)
}

func (w *Audio) Increment(delta float64) {
	w.Set(w.volume + delta)
}

func (w *Audio) Set(v float64) {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	if err := w.mixer.SetVolume(v); err != nil {
		w.logger.Warn("volume write failed", "error", err)
		return
	}
	if v != w.volume {
		w.volume = v
		w.dirty.Set()
		widget.RequestRedraw(w.cmds)
	}
}

func (w *Audio) Toggle() {
	if err := w.mixer.ToggleMute(); err != nil {
		w.logger.Warn("mute toggle failed", "error", err)
		return
	}
	w.muted = !w.muted
	w.dirty.Set()
	widget.RequestRedraw(w.cmds)
}

func (w *Audio) Wait(ctx *widget.WaitContext) {
	updates := w.mixer.Updates()
	for {
		select {
		case <-updates:
			w.refresh()
		default:
			ctx.AddChan(updates, w.refresh)
			return
		}
	}
}
