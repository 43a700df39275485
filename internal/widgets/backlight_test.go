package widgets

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/glance/internal/widget"
)

// writeBacklightDevice lays out a fake sysfs backlight device and returns
// its root directory.
func writeBacklightDevice(t *testing.T, device string, max, current int) string {
	t.Helper()
	root := t.TempDir()
	base := filepath.Join(root, device)
	require.NoError(t, os.MkdirAll(base, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "max_brightness"), []byte(strconv.Itoa(max)+"\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(base, "brightness"), []byte(strconv.Itoa(current)+"\n"), 0o644))
	return root
}

func newTestBacklight(t *testing.T, root string) (*Backlight, chan widget.Command, *widget.DirtyFlag) {
	t.Helper()
	cmds := make(chan widget.Command, 4)
	dirty := &widget.DirtyFlag{}
	w, err := newBacklightAt(root, "intel_backlight", cmds, dirty, nil)
	require.NoError(t, err)
	t.Cleanup(func() { w.watcher.Close() })
	return w, cmds, dirty
}

func TestBacklight_ProbeAndValue(t *testing.T) {
	root := writeBacklightDevice(t, "intel_backlight", 400, 100)
	w, _, _ := newTestBacklight(t, root)

	assert.Equal(t, "backlight", w.Name())
	assert.InDelta(t, 0.25, w.Value(), 1e-9)
}

func TestBacklight_ProbeFailsForMissingDevice(t *testing.T) {
	root := t.TempDir()
	_, err := newBacklightAt(root, "nope", nil, nil, nil)
	assert.Error(t, err)
}

func TestBacklight_ProbeRejectsZeroMax(t *testing.T) {
	root := writeBacklightDevice(t, "intel_backlight", 0, 0)
	_, err := newBacklightAt(root, "intel_backlight", nil, nil, nil)
	assert.ErrorContains(t, err, "max_brightness")
}

func TestBacklight_SetWritesAndClamps(t *testing.T) {
	root := writeBacklightDevice(t, "intel_backlight", 400, 100)
	w, cmds, dirty := newTestBacklight(t, root)

	w.Set(0.5)
	assert.InDelta(t, 0.5, w.Value(), 1e-9)
	assert.True(t, dirty.TestAndClear())
	assert.Len(t, cmds, 1)

	data, err := os.ReadFile(w.brightnessPath)
	require.NoError(t, err)
	assert.Equal(t, "200", string(data))

	w.Set(1.5)
	assert.InDelta(t, 1.0, w.Value(), 1e-9)
	w.Set(-0.5)
	assert.InDelta(t, 0.0, w.Value(), 1e-9)
}

func TestBacklight_IncrementStepsFromCurrent(t *testing.T) {
	root := writeBacklightDevice(t, "intel_backlight", 100, 50)
	w, _, _ := newTestBacklight(t, root)

	w.Increment(0.25)
	assert.InDelta(t, 0.75, w.Value(), 1e-9)

	w.Increment(-0.5)
	assert.InDelta(t, 0.25, w.Value(), 1e-9)
}

func TestBacklight_RefreshKeepsLastValueOnError(t *testing.T) {
	root := writeBacklightDevice(t, "intel_backlight", 400, 100)
	w, cmds, dirty := newTestBacklight(t, root)

	require.NoError(t, os.Remove(w.brightnessPath))
	w.refresh()

	assert.InDelta(t, 0.25, w.Value(), 1e-9)
	assert.False(t, dirty.TestAndClear())
	assert.Len(t, cmds, 0)
}

func TestBacklight_RefreshPicksUpExternalWrites(t *testing.T) {
	root := writeBacklightDevice(t, "intel_backlight", 400, 100)
	w, cmds, dirty := newTestBacklight(t, root)

	require.NoError(t, os.WriteFile(w.brightnessPath, []byte("300\n"), 0o644))
	w.refresh()

	assert.InDelta(t, 0.75, w.Value(), 1e-9)
	assert.True(t, dirty.TestAndClear())
	assert.Len(t, cmds, 1)
}

func TestBacklight_WaitRegistersWatcherChannels(t *testing.T) {
	root := writeBacklightDevice(t, "intel_backlight", 400, 100)
	w, _, _ := newTestBacklight(t, root)

	ctx := &widget.WaitContext{}
	w.Wait(ctx)
	assert.Len(t, ctx.Sources(), 2)
}
