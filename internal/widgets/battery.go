package widgets

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/glance/internal/render"
	"github.com/jmylchreest/glance/internal/widget"
)

const (
	upowerService   = "org.freedesktop.UPower"
	upowerDevIface  = "org.freedesktop.UPower.Device"
	upowerDevPrefix = "/org/freedesktop/UPower/devices/battery_"

	// https://upower.freedesktop.org/docs/Device.html#Device:Type
	upowerTypeBattery = 2

	lowBatteryPercent = 10.0
)

// BatteryState mirrors the UPower device state enum.
type BatteryState int

// Battery states.
const (
	BatteryUnknown BatteryState = iota
	BatteryCharging
	BatteryDischarging
	BatteryEmpty
	BatteryFull
	BatteryNotCharging
)

func (s BatteryState) String() string {
	switch s {
	case BatteryCharging:
		return "charging"
	case BatteryDischarging:
		return "discharging"
	case BatteryEmpty:
		return "empty"
	case BatteryFull:
		return "full"
	case BatteryNotCharging:
		return "not-charging"
	default:
		return "unknown"
	}
}

// batteryState maps the UPower state code. Code 6 ("pending discharge")
// is treated as Discharging, matching upower's own gauge behavior.
func batteryState(code uint32) BatteryState {
	switch code {
	case 1:
		return BatteryCharging
	case 2:
		return BatteryDischarging
	case 3:
		return BatteryEmpty
	case 4:
		return BatteryFull
	case 5:
		return BatteryNotCharging
	case 6:
		return BatteryDischarging
	default:
		return BatteryUnknown
	}
}

// Battery is a read-only gauge over one UPower battery device. The
// system bus connection delivers PropertiesChanged signals on a channel
// that doubles as the gauge's wake source; every signal triggers one
// re-read of capacity and state.
type Battery struct {
	conn       *dbus.Conn
	devicePath dbus.ObjectPath
	signals    chan *dbus.Signal
	cmds       chan<- widget.Command
	dirty      *widget.DirtyFlag
	logger     *slog.Logger

	state    BatteryState
	capacity float64 // percent, 0..100
}

// NewBattery connects to UPower on the system bus and probes the named
// battery device (e.g. "BAT0"). Any probe failure is returned to the
// construction pipeline, which prunes the node.
func NewBattery(device string, cmds chan<- widget.Command, dirty *widget.DirtyFlag, logger *slog.Logger) (*Battery, error) {
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to system bus: %w", err)
	}

	w := &Battery{
		conn:       conn,
		devicePath: dbus.ObjectPath(upowerDevPrefix + device),
		cmds:       cmds,
		dirty:      dirty,
		logger:     logger.With("widget", "battery", "device", device),
	}

	devType, err := w.propUint32("Type")
	if err != nil {
		return nil, fmt.Errorf("no such upower device: %w", err)
	}
	if devType != upowerTypeBattery {
		return nil, fmt.Errorf("upower device %s is not a battery (type %d)", device, devType)
	}

	if w.capacity, err = w.propFloat64("Percentage"); err != nil {
		return nil, err
	}
	code, err := w.propUint32("State")
	if err != nil {
		return nil, err
	}
	w.state = batteryState(code)

	if err := conn.AddMatchSignal(
		dbus.WithMatchObjectPath(w.devicePath),
		dbus.WithMatchInterface("org.freedesktop.DBus.Properties"),
		dbus.WithMatchMember("PropertiesChanged"),
	); err != nil {
		return nil, fmt.Errorf("failed to subscribe to property changes: %w", err)
	}

	w.signals = make(chan *dbus.Signal, 16)
	conn.Signal(w.signals)

	return w, nil
}

func (w *Battery) prop(name string) (dbus.Variant, error) {
	return w.conn.Object(upowerService, w.devicePath).GetProperty(upowerDevIface + "." + name)
}

func (w *Battery) propUint32(name string) (uint32, error) {
	v, err := w.prop(name)
	if err != nil {
		return 0, err
	}
	out, ok := v.Value().(uint32)
	if !ok {
		return 0, fmt.Errorf("property %s has unexpected type %T", name, v.Value())
	}
	return out, nil
}

func (w *Battery) propFloat64(name string) (float64, error) {
	v, err := w.prop(name)
	if err != nil {
		return 0, err
	}
	out, ok := v.Value().(float64)
	if !ok {
		return 0, fmt.Errorf("property %s has unexpected type %T", name, v.Value())
	}
	return out, nil
}

// refresh re-reads both properties in one round trip's worth of calls.
// A failed read keeps the previous state and capacity and does not mark
// the tree dirty.
func (w *Battery) refresh() {
	capacity, err := w.propFloat64("Percentage")
	if err != nil {
		w.logger.Warn("battery refresh failed", "error", err)
		return
	}
	code, err := w.propUint32("State")
	if err != nil {
		w.logger.Warn("battery refresh failed", "error", err)
		return
	}

	state := batteryState(code)
	// UPower also signals for rate and time-estimate changes; a signal
	// that moved neither rendered property is not worth a repaint.
	if state == w.state && capacity == w.capacity {
		return
	}
	w.state = state
	w.capacity = capacity
	w.dirty.Set()
	widget.RequestRedraw(w.cmds)

	w.logger.Debug("battery changed",
		"state", state, "capacity", capacity, "left", w.timeLeft())
}

// timeLeft humanizes the device's remaining charge or discharge time,
// empty when UPower does not report one.
func (w *Battery) timeLeft() string {
	var prop, label string
	switch w.state {
	case BatteryDischarging:
		prop, label = "TimeToEmpty", "until empty"
	case BatteryCharging:
		prop, label = "TimeToFull", "until full"
	default:
		return ""
	}
	v, err := w.prop(prop)
	if err != nil {
		return ""
	}
	secs, ok := v.Value().(int64)
	if !ok || secs <= 0 {
		return ""
	}
	now := time.Now()
	return humanize.RelTime(now, now.Add(time.Duration(secs)*time.Second), label, "")
}

func (w *Battery) Name() string {
	return "battery"
}

func (w *Battery) Value() float64 {
	return w.capacity / 100.0
}

func (w *Battery) Color() render.Color {
	switch w.state {
	case BatteryDischarging, BatteryUnknown:
		if w.capacity > lowBatteryPercent {
			return render.RGB(1, 1, 1)
		}
		return render.RGB(1, 0.5, 0)
	case BatteryCharging, BatteryFull:
		return render.RGB(0.5, 1, 0.5)
	default: // NotCharging, Empty
		return render.RGB(1, 0.5, 0.5)
	}
}

// The battery is read-only; mutators are deliberate no-ops.
func (w *Battery) Increment(float64) {}
func (w *Battery) Set(float64)       {}
func (w *Battery) Toggle()           {}

func (w *Battery) Wait(ctx *widget.WaitContext) {
	for {
		select {
		case <-w.signals:
			w.refresh()
		default:
			ctx.AddChan(w.signals, w.refresh)
			return
		}
	}
}
