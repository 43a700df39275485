package widgets

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jmylchreest/glance/internal/render"
)

func TestBatteryState_Mapping(t *testing.T) {
	tests := []struct {
		code uint32
		want BatteryState
	}{
		{0, BatteryUnknown},
		{1, BatteryCharging},
		{2, BatteryDischarging},
		{3, BatteryEmpty},
		{4, BatteryFull},
		{5, BatteryNotCharging},
		// Pending discharge reads as discharging.
		{6, BatteryDischarging},
		{7, BatteryUnknown},
		{255, BatteryUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, batteryState(tt.code), "code %d", tt.code)
	}
}

func TestBatteryState_String(t *testing.T) {
	assert.Equal(t, "charging", BatteryCharging.String())
	assert.Equal(t, "discharging", BatteryDischarging.String())
	assert.Equal(t, "not-charging", BatteryNotCharging.String())
	assert.Equal(t, "unknown", BatteryUnknown.String())
	assert.Equal(t, "unknown", BatteryState(99).String())
}

func TestBattery_ValueNormalizesPercent(t *testing.T) {
	w := &Battery{state: BatteryDischarging, capacity: 5}
	assert.InDelta(t, 0.05, w.Value(), 1e-9)

	w.capacity = 100
	assert.InDelta(t, 1.0, w.Value(), 1e-9)
}

func TestBattery_ColorPolicy(t *testing.T) {
	tests := []struct {
		name     string
		state    BatteryState
		capacity float64
		want     render.Color
	}{
		{"discharging above threshold", BatteryDischarging, 50, render.RGB(1, 1, 1)},
		{"discharging low", BatteryDischarging, 5, render.RGB(1, 0.5, 0)},
		{"discharging at threshold", BatteryDischarging, 10, render.RGB(1, 0.5, 0)},
		{"unknown low", BatteryUnknown, 8, render.RGB(1, 0.5, 0)},
		{"charging", BatteryCharging, 50, render.RGB(0.5, 1, 0.5)},
		{"full", BatteryFull, 100, render.RGB(0.5, 1, 0.5)},
		{"not charging", BatteryNotCharging, 80, render.RGB(1, 0.5, 0.5)},
		{"empty", BatteryEmpty, 0, render.RGB(1, 0.5, 0.5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &Battery{state: tt.state, capacity: tt.capacity}
			assert.Equal(t, tt.want, w.Color())
		})
	}
}

func TestBattery_MutatorsAreNoOps(t *testing.T) {
	w := &Battery{state: BatteryDischarging, capacity: 42}

	w.Set(0.9)
	w.Increment(0.1)
	w.Toggle()

	assert.Equal(t, 42.0, w.capacity)
	assert.Equal(t, BatteryDischarging, w.state)
	assert.Equal(t, "battery", w.Name())
}
