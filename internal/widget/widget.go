// Package widget defines the runtime widget tree: the capability
// interfaces every node implements, the layout containers, the bar-style
// gauge renderer, and the wake-source plumbing that lets many blocking
// notification mechanisms drive one render loop.
package widget

import (
	"reflect"
	"sync"
	"time"

	"github.com/jmylchreest/glance/internal/render"
)

// Widget is one live node of the tree. Containers own their children and
// delegate every call in stored order; leaves do the real work.
type Widget interface {
	// Measure returns the node's natural content extent.
	Measure(m render.TextMeasurer) render.Size

	// Draw renders the node into r. The whole tree is always redrawn
	// together; partial redraw is not supported.
	Draw(rc render.Context, r render.Rect)

	// Wait drains any pending notifications for the node's backing
	// resource without blocking, then registers the node's wake
	// sources on ctx for the loop's next blocking wait.
	Wait(ctx *WaitContext)
}

// KeyHandler is the optional user-input capability. HandleKey returns
// true when the key was consumed; routing stops at the first consumer.
type KeyHandler interface {
	HandleKey(k Key) bool
}

// SpecialKey identifies non-printable keys the overlay reacts to.
type SpecialKey int

// Special keys.
const (
	KeyNone SpecialKey = iota
	KeyEnter
	KeyBackspace
	KeyEscape
)

// Key is one keyboard event forwarded from the display backend.
type Key struct {
	Rune    rune // printable input, zero when Special is set
	Special SpecialKey
}

// CommandKind discriminates Command.
type CommandKind int

// Command kinds.
const (
	// CmdRedraw requests a whole-tree redraw. Consecutive pending
	// redraws coalesce into one cycle.
	CmdRedraw CommandKind = iota

	// CmdExit asks the loop to shut down.
	CmdExit

	// CmdKey carries a keyboard event into the tree.
	CmdKey

	// CmdLaunch asks the loop to spawn a process on the user's behalf.
	CmdLaunch
)

// Command is a message for the render loop, the channel's single
// consumer. Any goroutine may produce one at any time.
type Command struct {
	Kind CommandKind
	Key  Key    // CmdKey
	Exec string // CmdLaunch: opener command, run via the spawner
	Arg  string // CmdLaunch: single argument to the opener
}

// TrySend enqueues cmd without ever blocking the caller and reports
// whether it was accepted. Producers must never block on the command
// channel: the loop itself dispatches key events into the tree, so a
// blocking send from a handler could deadlock it.
func TrySend(cmds chan<- Command, cmd Command) bool {
	select {
	case cmds <- cmd:
		return true
	default:
		return false
	}
}

// RequestRedraw enqueues a redraw without ever blocking the caller. A
// full channel means a wakeup is already pending, which is equivalent.
func RequestRedraw(cmds chan<- Command) {
	TrySend(cmds, Command{Kind: CmdRedraw})
}

// DirtyFlag is the one piece of state shared between background refresh
// logic and the render loop. Once set it stays set until the loop's own
// clear step; there is no window in which an update can be missed.
type DirtyFlag struct {
	mu    sync.Mutex
	dirty bool
}

// Set marks the rendered content stale.
func (f *DirtyFlag) Set() {
	f.mu.Lock()
	f.dirty = true
	f.mu.Unlock()
}

// TestAndClear reports whether the flag was set and clears it.
func (f *DirtyFlag) TestAndClear() bool {
	f.mu.Lock()
	was := f.dirty
	f.dirty = false
	f.mu.Unlock()
	return was
}

// WakeSource is one registered (channel, callback) pair. The loop blocks
// on the union of all registered channels; when one fires, its Dispatch
// runs on the loop goroutine. The received value itself is discarded;
// leaves re-read their backing resource rather than trust a stale
// payload, so only the wakeup matters.
type WakeSource struct {
	ch       reflect.Value
	dispatch func()
}

// WaitContext accumulates the wake sources of every leaf for one loop
// iteration. It is rebuilt from empty each time around; nothing in it is
// persisted. Native connection handles never cross into it, only the
// channels they deliver on.
type WaitContext struct {
	sources  []WakeSource
	deadline time.Time
}

// AddChan registers ch, which must be a receivable channel of any
// element type, with a callback to run when it fires.
func (ctx *WaitContext) AddChan(ch any, dispatch func()) {
	v := reflect.ValueOf(ch)
	if v.Kind() != reflect.Chan {
		panic("widget: AddChan needs a channel")
	}
	ctx.sources = append(ctx.sources, WakeSource{ch: v, dispatch: dispatch})
}

// SetDeadline asks the loop to wake no later than t even if no source
// fires. The earliest requested deadline wins.
func (ctx *WaitContext) SetDeadline(t time.Time) {
	if ctx.deadline.IsZero() || t.Before(ctx.deadline) {
		ctx.deadline = t
	}
}

// Deadline returns the earliest requested deadline, zero if none.
func (ctx *WaitContext) Deadline() time.Time {
	return ctx.deadline
}

// Sources returns the registered wake sources in registration order.
func (ctx *WaitContext) Sources() []WakeSource {
	return ctx.sources
}

// SelectCase converts the source into a reflect.SelectCase for the
// loop's multiplexed wait.
func (s WakeSource) SelectCase() reflect.SelectCase {
	return reflect.SelectCase{Dir: reflect.SelectRecv, Chan: s.ch}
}

// Dispatch runs the source's callback.
func (s WakeSource) Dispatch() {
	if s.dispatch != nil {
		s.dispatch()
	}
}
