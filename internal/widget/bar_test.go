package widget

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/glance/internal/render"
)

// fakeGauge is an in-memory Gauge for renderer tests.
type fakeGauge struct {
	name  string
	value float64
	color render.Color
}

func (g *fakeGauge) Name() string            { return g.name }
func (g *fakeGauge) Value() float64          { return g.value }
func (g *fakeGauge) Color() render.Color     { return g.color }
func (g *fakeGauge) Increment(delta float64) { g.value += delta }
func (g *fakeGauge) Set(v float64)           { g.value = v }
func (g *fakeGauge) Toggle()                 {}
func (g *fakeGauge) Wait(ctx *WaitContext)   {}

func TestBar_Measure(t *testing.T) {
	g := &fakeGauge{name: "battery", value: 0.5, color: render.RGB(1, 1, 1)}
	bar := NewBar(24, 600, g)

	size := bar.Measure(&fakeContext{})
	// label (7 chars at half the font size) + gap + bar length
	assert.Equal(t, 7*12+barGaugeGap+600, size.W)
	assert.Equal(t, 24, size.H)
}

func TestBar_DrawsProportionalFill(t *testing.T) {
	g := &fakeGauge{name: "audio", value: 0.25, color: render.RGB(1, 1, 1)}
	bar := NewBar(24, 400, g)

	rc := &fakeContext{}
	bar.Draw(rc, render.Rect{X: 0, Y: 0, W: 500, H: 24})

	require.Len(t, rc.trace, 3)
	assert.True(t, strings.HasPrefix(rc.trace[0], "text:audio@0,0"))
	assert.True(t, strings.HasPrefix(rc.trace[1], "stroke:"))
	// The outline spans the full configured length, the fill 25% of it.
	assert.Contains(t, rc.trace[1], "400,24")
	assert.Contains(t, rc.trace[2], "fill:")
	assert.Contains(t, rc.trace[2], "100,24")
}

func TestBar_ClampsOutOfRangeValues(t *testing.T) {
	for _, v := range []float64{-0.5, 1.5} {
		g := &fakeGauge{name: "g", value: v}
		bar := NewBar(10, 100, g)

		rc := &fakeContext{}
		bar.Draw(rc, render.Rect{W: 200, H: 10})

		fill := rc.trace[len(rc.trace)-1]
		if v < 0 {
			assert.Contains(t, fill, "fill:")
			assert.Contains(t, fill, ",0,")
		} else {
			assert.Contains(t, fill, "100,10")
		}
	}
}

func TestBar_WaitDelegatesToGauge(t *testing.T) {
	ch := make(chan struct{}, 1)
	g := &waitingGauge{fakeGauge: fakeGauge{name: "g"}, ch: ch}
	bar := NewBar(10, 100, g)

	ctx := &WaitContext{}
	bar.Wait(ctx)
	assert.Len(t, ctx.Sources(), 1)
}

type waitingGauge struct {
	fakeGauge
	ch chan struct{}
}

func (g *waitingGauge) Wait(ctx *WaitContext) {
	ctx.AddChan(g.ch, func() {})
}
