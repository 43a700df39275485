package widgets

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jmylchreest/glance/internal/render"
	"github.com/jmylchreest/glance/internal/widget"
)

var launcherDim = render.Color{R: 0.8, G: 0.8, B: 0.8, A: 1}

// Launcher is a typed application runner: printable keys build a query,
// Enter spawns the best match through the configured opener, a leading
// '!' sends the rest to the terminal opener, and anything with a URL
// scheme goes to the URL opener. Esc clears the query, or requests exit
// when the query is already empty.
//
// The executable list is scanned from PATH once at construction; the
// launcher itself has no external wake source.
type Launcher struct {
	fontSize float64
	length   int
	cmds     chan<- widget.Command
	logger   *slog.Logger

	appOpener  string
	termOpener string
	urlOpener  string

	entries []string
	input   []rune
}

// NewLauncher builds a launcher leaf. urlOpener must already have its
// default applied by the construction pipeline.
func NewLauncher(fontSize float64, length int, cmds chan<- widget.Command, appOpener, termOpener, urlOpener string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	w := &Launcher{
		fontSize:   fontSize,
		length:     length,
		cmds:       cmds,
		logger:     logger,
		appOpener:  appOpener,
		termOpener: termOpener,
		urlOpener:  urlOpener,
		entries:    scanPath(),
	}
	return w
}

// scanPath lists executable names on PATH, deduplicated and sorted.
func scanPath() []string {
	seen := make(map[string]bool)
	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		ents, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range ents {
			if e.IsDir() || seen[e.Name()] {
				continue
			}
			info, err := e.Info()
			if err != nil || info.Mode()&0o111 == 0 {
				continue
			}
			seen[e.Name()] = true
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// match returns the best executable for the current query: the first
// prefix match, else the first substring match.
func (w *Launcher) match() string {
	q := string(w.input)
	if q == "" {
		return ""
	}
	var substring string
	for _, e := range w.entries {
		if strings.HasPrefix(e, q) {
			return e
		}
		if substring == "" && strings.Contains(e, q) {
			substring = e
		}
	}
	return substring
}

func (w *Launcher) HandleKey(k widget.Key) bool {
	switch k.Special {
	case widget.KeyEnter:
		w.launch()
		w.input = w.input[:0]
		return true
	case widget.KeyBackspace:
		if len(w.input) > 0 {
			w.input = w.input[:len(w.input)-1]
		}
		return true
	case widget.KeyEscape:
		if len(w.input) == 0 {
			if !widget.TrySend(w.cmds, widget.Command{Kind: widget.CmdExit}) {
				w.logger.Warn("dropping exit request, command channel full")
			}
			return true
		}
		w.input = w.input[:0]
		return true
	}
	if k.Rune != 0 {
		w.input = append(w.input, k.Rune)
		return true
	}
	return false
}

// launch enqueues a spawn command for the current query. The render loop
// owns process execution; the launcher only decides what to run.
func (w *Launcher) launch() {
	q := strings.TrimSpace(string(w.input))
	if q == "" {
		return
	}

	var cmd widget.Command
	switch {
	case strings.HasPrefix(q, "!"):
		cmd = widget.Command{Kind: widget.CmdLaunch, Exec: w.termOpener, Arg: strings.TrimSpace(q[1:])}
	case strings.Contains(q, "://"):
		cmd = widget.Command{Kind: widget.CmdLaunch, Exec: w.urlOpener, Arg: q}
	default:
		m := w.match()
		if m == "" {
			w.logger.Debug("launcher query matched nothing", "query", q)
			return
		}
		if w.appOpener != "" {
			cmd = widget.Command{Kind: widget.CmdLaunch, Exec: w.appOpener, Arg: m}
		} else {
			cmd = widget.Command{Kind: widget.CmdLaunch, Exec: m}
		}
	}
	if !widget.TrySend(w.cmds, cmd) {
		w.logger.Warn("dropping launch request, command channel full",
			"command", cmd.Exec, "arg", cmd.Arg)
	}
}

func (w *Launcher) text() string {
	s := "> " + string(w.input)
	if m := w.match(); m != "" && m != string(w.input) {
		s += "  (" + m + ")"
	}
	return s
}

func (w *Launcher) Measure(m render.TextMeasurer) render.Size {
	h := m.TextExtent(w.fontSize, "> ").H
	return render.Size{W: w.length, H: h}
}

func (w *Launcher) Draw(rc render.Context, r render.Rect) {
	rc.ClipPush(render.Rect{X: r.X, Y: r.Y, W: w.length, H: r.H})
	rc.DrawText(r.X, r.Y, w.fontSize, launcherDim, w.text())
	rc.ClipPop()
}

func (w *Launcher) Wait(*widget.WaitContext) {}
