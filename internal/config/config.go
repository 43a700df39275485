// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/glance/internal/render"
)

// Widget type discriminators.
const (
	WidgetMargin           = "margin"
	WidgetFixed            = "fixed"
	WidgetHorizontalLayout = "horizontal_layout"
	WidgetVerticalLayout   = "vertical_layout"
	WidgetClock            = "clock"
	WidgetDate             = "date"
	WidgetCalendar         = "calendar"
	WidgetLauncher         = "launcher"
	WidgetBattery          = "battery"
	WidgetBacklight        = "backlight"
	WidgetAudio            = "audio"
)

// Output modes.
const (
	OutputModeActive = "active"
	OutputModeAll    = "all"
)

// Fallbacks applied during construction for empty per-widget fields.
const (
	DefaultBatteryDevice   = "BAT0"
	DefaultBacklightDevice = "intel_backlight"
	DefaultURLOpener       = "xdg-open"
	DefaultAudioBackend    = "pulse"
)

// Config is the top-level glance configuration.
type Config struct {
	OutputMode string       `toml:"output_mode" yaml:"output_mode"`
	Scale      int          `toml:"scale" yaml:"scale"`
	Background render.Color `toml:"background" yaml:"background"`
	Widget     Widget       `toml:"widget" yaml:"widget"`
}

// Widget is one node of the declarative widget tree. Exactly one Type is
// set per node; the remaining fields are meaningful only for the variants
// that document them. The tree is immutable once loaded.
type Widget struct {
	Type string `toml:"type" yaml:"type"`

	// margin: top, right, bottom, left insets around Child.
	Margins []int `toml:"margins,omitempty" yaml:"margins,omitempty"`

	// fixed: exact box Child is clipped and centered into.
	Width  int `toml:"width,omitempty" yaml:"width,omitempty"`
	Height int `toml:"height,omitempty" yaml:"height,omitempty"`

	// margin, fixed.
	Child *Widget `toml:"child,omitempty" yaml:"child,omitempty"`

	// horizontal_layout, vertical_layout. Order is display order.
	Children []Widget `toml:"children,omitempty" yaml:"children,omitempty"`

	// All leaves.
	FontSize float64 `toml:"font_size,omitempty" yaml:"font_size,omitempty"`

	// Bar gauges and the launcher: rendered pixel length.
	Length int `toml:"length,omitempty" yaml:"length,omitempty"`

	// calendar: number of consecutive months shown.
	Sections int `toml:"sections,omitempty" yaml:"sections,omitempty"`

	// battery, backlight: device name, empty means the per-widget
	// default (DefaultBatteryDevice, DefaultBacklightDevice).
	Device string `toml:"device,omitempty" yaml:"device,omitempty"`

	// audio: mixer backend name, empty means DefaultAudioBackend.
	Backend string `toml:"backend,omitempty" yaml:"backend,omitempty"`

	// launcher opener commands; empty URLOpener means DefaultURLOpener.
	AppOpener  string `toml:"app_opener,omitempty" yaml:"app_opener,omitempty"`
	TermOpener string `toml:"term_opener,omitempty" yaml:"term_opener,omitempty"`
	URLOpener  string `toml:"url_opener,omitempty" yaml:"url_opener,omitempty"`
}

// fileConfig mirrors Config with presence-detecting pointers so values
// absent from the file keep their defaults.
type fileConfig struct {
	OutputMode *string       `toml:"output_mode" yaml:"output_mode"`
	Scale      *int          `toml:"scale" yaml:"scale"`
	Background *render.Color `toml:"background" yaml:"background"`
	Widget     *Widget       `toml:"widget" yaml:"widget"`
}

// DefaultConfig returns the built-in dashboard: date and clock on the
// left, battery/backlight/audio bars on the right, a three month
// calendar and a launcher underneath.
func DefaultConfig() *Config {
	bar := func(typ string) Widget {
		return Widget{
			Type:    WidgetMargin,
			Margins: []int{0, 0, 0, 8},
			Child:   &Widget{Type: typ, FontSize: 24, Length: 600},
		}
	}
	return &Config{
		OutputMode: OutputModeActive,
		Scale:      1,
		Background: render.Color{R: 0, G: 0, B: 0, A: 0.9},
		Widget: Widget{
			Type:    WidgetMargin,
			Margins: []int{20, 20, 20, 20},
			Child: &Widget{
				Type: WidgetVerticalLayout,
				Children: []Widget{
					{
						Type: WidgetHorizontalLayout,
						Children: []Widget{
							{
								Type:    WidgetMargin,
								Margins: []int{0, 88, 0, 32},
								Child: &Widget{
									Type: WidgetVerticalLayout,
									Children: []Widget{
										{Type: WidgetDate, FontSize: 64},
										{Type: WidgetClock, FontSize: 256},
									},
								},
							},
							{
								Type: WidgetVerticalLayout,
								Children: []Widget{
									bar(WidgetBattery),
									bar(WidgetBacklight),
									bar(WidgetAudio),
								},
							},
						},
					},
					{Type: WidgetCalendar, FontSize: 16, Sections: 3},
					{Type: WidgetLauncher, FontSize: 32, Length: 1200},
				},
			},
		},
	}
}

// ConfigPath returns the default config file path. Uses XDG_CONFIG_HOME
// if set, otherwise ~/.config.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "glance", "config.toml")
}

// LoadConfig loads configuration from the given path, falling back to
// defaults when the file does not exist. The format is chosen by
// extension: .yaml/.yml parse as YAML, anything else as TOML.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = ConfigPath()
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	default:
		if err := toml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if fc.OutputMode != nil {
		cfg.OutputMode = *fc.OutputMode
	}
	if fc.Scale != nil {
		cfg.Scale = *fc.Scale
	}
	if fc.Background != nil {
		cfg.Background = *fc.Background
	}
	if fc.Widget != nil {
		cfg.Widget = *fc.Widget
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks top-level fields and the widget tree.
func (c *Config) Validate() error {
	switch c.OutputMode {
	case OutputModeActive, OutputModeAll:
	default:
		return fmt.Errorf("invalid output_mode %q", c.OutputMode)
	}
	if c.Scale < 1 {
		return fmt.Errorf("scale must be >= 1, got %d", c.Scale)
	}
	return c.Widget.validate("widget")
}

func (w *Widget) validate(path string) error {
	switch w.Type {
	case WidgetMargin:
		if len(w.Margins) != 4 {
			return fmt.Errorf("%s: margin needs 4 margins, got %d", path, len(w.Margins))
		}
		if w.Child == nil {
			return fmt.Errorf("%s: margin needs a child", path)
		}
		return w.Child.validate(path + ".child")
	case WidgetFixed:
		if w.Width <= 0 || w.Height <= 0 {
			return fmt.Errorf("%s: fixed needs positive width and height", path)
		}
		if w.Child == nil {
			return fmt.Errorf("%s: fixed needs a child", path)
		}
		return w.Child.validate(path + ".child")
	case WidgetHorizontalLayout, WidgetVerticalLayout:
		for i := range w.Children {
			if err := w.Children[i].validate(fmt.Sprintf("%s.children[%d]", path, i)); err != nil {
				return err
			}
		}
		return nil
	case WidgetClock, WidgetDate:
		return w.requireFontSize(path)
	case WidgetCalendar:
		if w.Sections < 1 {
			return fmt.Errorf("%s: calendar needs at least 1 section", path)
		}
		return w.requireFontSize(path)
	case WidgetLauncher, WidgetBattery, WidgetBacklight, WidgetAudio:
		if w.Length <= 0 {
			return fmt.Errorf("%s: %s needs a positive length", path, w.Type)
		}
		return w.requireFontSize(path)
	case "":
		return fmt.Errorf("%s: missing widget type", path)
	default:
		return fmt.Errorf("%s: unknown widget type %q", path, w.Type)
	}
}

func (w *Widget) requireFontSize(path string) error {
	if w.FontSize <= 0 {
		return fmt.Errorf("%s: %s needs a positive font_size", path, w.Type)
	}
	return nil
}
