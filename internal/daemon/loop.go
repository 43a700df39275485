package daemon

import (
	"context"
	"log/slog"
	"reflect"
	"time"

	"github.com/jmylchreest/glance/internal/config"
	"github.com/jmylchreest/glance/internal/render"
	"github.com/jmylchreest/glance/internal/spawn"
	"github.com/jmylchreest/glance/internal/widget"
	"github.com/jmylchreest/glance/internal/widgets"
)

// commandBuffer sizes the loop's inbound channel. Producers never block
// on it: a full buffer means the loop already has wakeups pending.
const commandBuffer = 64

// Loop drives the overlay. Widget construction happens once on a worker
// goroutine; after that the loop goroutine is the only one touching the
// tree, and its single suspension point is the multiplexed wait.
type Loop struct {
	cfg     *config.Config
	surface render.Surface
	spawner *spawn.Spawner
	logger  *slog.Logger

	cmds  chan widget.Command
	dirty *widget.DirtyFlag
	root  widget.Widget
}

// New creates a loop drawing to surface.
func New(cfg *config.Config, surface render.Surface, spawner *spawn.Spawner, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		cfg:     cfg,
		surface: surface,
		spawner: spawner,
		logger:  logger,
		cmds:    make(chan widget.Command, commandBuffer),
		dirty:   &widget.DirtyFlag{},
	}
}

// Commands returns the loop's inbound channel. The display backend
// forwards keyboard events through it; widgets enqueue redraws.
func (l *Loop) Commands() chan<- widget.Command {
	return l.cmds
}

// Run constructs the widget tree and drives redraws until ctx is
// cancelled or an exit command arrives.
func (l *Loop) Run(ctx context.Context) error {
	// Gauge probes block on IPC round trips, so the tree is built off
	// the loop goroutine and handed over whole; nothing else is shared
	// with the builder.
	rootCh := make(chan widget.Widget, 1)
	go func() {
		rootCh <- widgets.Construct(l.cfg.Widget, l.cmds, l.dirty, l.logger)
	}()

	select {
	case <-ctx.Done():
		return nil
	case l.root = <-rootCh:
	}
	if l.root == nil {
		l.logger.Warn("every configured widget was pruned, showing empty surface")
		l.root = widget.NewVerticalLayout(nil)
	}

	l.redraw()
	for {
		// Leaves drained during Wait enqueue a redraw command, so any
		// change observed here still wakes waitOnce immediately.
		wctx := &widget.WaitContext{}
		l.root.Wait(wctx)

		redraw, exit := l.waitOnce(ctx, wctx)
		r2, e2 := l.drainCommands()
		redraw = redraw || r2
		exit = exit || e2
		if l.dirty.TestAndClear() {
			redraw = true
		}
		if exit {
			return nil
		}
		if redraw {
			l.redraw()
		}
	}
}

// waitOnce performs the loop's one blocking wait: shutdown, the command
// channel, the earliest widget deadline, and every registered wake
// source, whichever fires first.
func (l *Loop) waitOnce(ctx context.Context, wctx *widget.WaitContext) (redraw, exit bool) {
	sources := wctx.Sources()
	cases := make([]reflect.SelectCase, 0, len(sources)+3)
	cases = append(cases,
		reflect.SelectCase{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(ctx.Done())},
		reflect.SelectCase{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(l.cmds)},
	)

	timerIdx := -1
	if dl := wctx.Deadline(); !dl.IsZero() {
		timer := time.NewTimer(time.Until(dl))
		defer timer.Stop()
		timerIdx = len(cases)
		cases = append(cases, reflect.SelectCase{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(timer.C)})
	}

	srcBase := len(cases)
	for _, s := range sources {
		cases = append(cases, s.SelectCase())
	}

	chosen, recv, _ := reflect.Select(cases)
	switch {
	case chosen == 0:
		return false, true
	case chosen == 1:
		return l.handleCommand(recv.Interface().(widget.Command))
	case chosen == timerIdx:
		return true, false
	default:
		sources[chosen-srcBase].Dispatch()
		return false, false
	}
}

// drainCommands empties the channel without blocking, coalescing any
// number of pending redraw requests into one.
func (l *Loop) drainCommands() (redraw, exit bool) {
	for {
		select {
		case cmd := <-l.cmds:
			r, e := l.handleCommand(cmd)
			redraw = redraw || r
			exit = exit || e
		default:
			return redraw, exit
		}
	}
}

func (l *Loop) handleCommand(cmd widget.Command) (redraw, exit bool) {
	switch cmd.Kind {
	case widget.CmdRedraw:
		return true, false
	case widget.CmdExit:
		return false, true
	case widget.CmdKey:
		if h, ok := l.root.(widget.KeyHandler); ok && h.HandleKey(cmd.Key) {
			return true, false
		}
		return false, false
	case widget.CmdLaunch:
		l.spawner.Spawn(cmd.Exec, cmd.Arg)
		return false, false
	default:
		l.logger.Warn("dropping unknown command", "kind", cmd.Kind)
		return false, false
	}
}

// redraw repaints the whole tree. Redraws are strictly sequential and
// run to completion; a mid-run surface error is logged and the frame
// dropped, never fatal.
func (l *Loop) redraw() {
	rc, err := l.surface.Begin()
	if err != nil {
		l.logger.Error("failed to begin frame", "error", err)
		return
	}
	size := l.surface.Size()
	l.root.Draw(rc, render.Rect{X: 0, Y: 0, W: size.W, H: size.H})
	if err := l.surface.Commit(); err != nil {
		l.logger.Error("failed to commit frame", "error", err)
	}
}
