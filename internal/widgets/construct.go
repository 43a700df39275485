package widgets

import (
	"log/slog"

	"github.com/jmylchreest/glance/internal/config"
	"github.com/jmylchreest/glance/internal/render"
	"github.com/jmylchreest/glance/internal/widget"
)

// Construct turns one declarative node into a live runtime widget, nil
// when the node (or, for margin/fixed, its child) cannot be built.
// Gauge probes run synchronously here, so callers are expected to run
// Construct off the render loop and transfer the finished tree over a
// channel.
//
// Probe failures prune: the node vanishes, siblings are untouched, and
// containers survive with whatever children remain.
func Construct(spec config.Widget, cmds chan<- widget.Command, dirty *widget.DirtyFlag, logger *slog.Logger) widget.Widget {
	if logger == nil {
		logger = slog.Default()
	}

	switch spec.Type {
	case config.WidgetMargin:
		child := Construct(*spec.Child, cmds, dirty, logger)
		if child == nil {
			return nil
		}
		return widget.NewMargin([4]int{spec.Margins[0], spec.Margins[1], spec.Margins[2], spec.Margins[3]}, child)

	case config.WidgetFixed:
		child := Construct(*spec.Child, cmds, dirty, logger)
		if child == nil {
			return nil
		}
		return widget.NewFixed(render.Size{W: spec.Width, H: spec.Height}, child)

	case config.WidgetHorizontalLayout:
		return widget.NewHorizontalLayout(constructChildren(spec.Children, cmds, dirty, logger))

	case config.WidgetVerticalLayout:
		return widget.NewVerticalLayout(constructChildren(spec.Children, cmds, dirty, logger))

	case config.WidgetClock:
		return NewClock(spec.FontSize)

	case config.WidgetDate:
		return NewDate(spec.FontSize)

	case config.WidgetCalendar:
		return NewCalendar(spec.FontSize, spec.Sections)

	case config.WidgetLauncher:
		return NewLauncher(spec.FontSize, spec.Length, cmds, spec.AppOpener, spec.TermOpener, launcherURLOpener(spec), logger)

	case config.WidgetBattery:
		gauge, err := NewBattery(batteryDevice(spec), cmds, dirty, logger)
		if err != nil {
			logger.Debug("pruning battery widget", "error", err)
			return nil
		}
		return widget.NewBar(spec.FontSize, spec.Length, gauge)

	case config.WidgetBacklight:
		gauge, err := NewBacklight(backlightDevice(spec), cmds, dirty, logger)
		if err != nil {
			logger.Debug("pruning backlight widget", "error", err)
			return nil
		}
		return widget.NewBar(spec.FontSize, spec.Length, gauge)

	case config.WidgetAudio:
		gauge, err := NewAudio(audioBackend(spec), cmds, dirty, logger)
		if err != nil {
			logger.Debug("pruning audio widget", "error", err)
			return nil
		}
		return widget.NewBar(spec.FontSize, spec.Length, gauge)

	default:
		// Validation rejects unknown types before construction; treat
		// one slipping through as a pruned node, not a crash.
		logger.Warn("pruning widget of unknown type", "type", spec.Type)
		return nil
	}
}

// Empty per-widget fields resolve to the platform defaults.

func batteryDevice(spec config.Widget) string {
	if spec.Device == "" {
		return config.DefaultBatteryDevice
	}
	return spec.Device
}

func backlightDevice(spec config.Widget) string {
	if spec.Device == "" {
		return config.DefaultBacklightDevice
	}
	return spec.Device
}

func audioBackend(spec config.Widget) string {
	if spec.Backend == "" {
		return config.DefaultAudioBackend
	}
	return spec.Backend
}

func launcherURLOpener(spec config.Widget) string {
	if spec.URLOpener == "" {
		return config.DefaultURLOpener
	}
	return spec.URLOpener
}

func constructChildren(specs []config.Widget, cmds chan<- widget.Command, dirty *widget.DirtyFlag, logger *slog.Logger) []widget.Widget {
	out := make([]widget.Widget, 0, len(specs))
	for i := range specs {
		if w := Construct(specs[i], cmds, dirty, logger); w != nil {
			out = append(out, w)
		}
	}
	return out
}
