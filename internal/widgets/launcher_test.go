package widgets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/glance/internal/render"
	"github.com/jmylchreest/glance/internal/widget"
)

func newTestLauncher(t *testing.T, entries []string) (*Launcher, chan widget.Command) {
	t.Helper()
	cmds := make(chan widget.Command, 8)
	w := NewLauncher(32, 1200, cmds, "", "alacritty -e", "xdg-open", nil)
	w.entries = entries
	return w, cmds
}

func typeQuery(w *Launcher, q string) {
	for _, r := range q {
		w.HandleKey(widget.Key{Rune: r})
	}
}

func TestLauncher_MatchPrefersPrefix(t *testing.T) {
	w, _ := newTestLauncher(t, []string{"afirefox", "firefox", "zfirefoxz"})

	typeQuery(w, "fire")
	assert.Equal(t, "firefox", w.match())
}

func TestLauncher_MatchFallsBackToSubstring(t *testing.T) {
	w, _ := newTestLauncher(t, []string{"gnome-terminal", "xterm"})

	typeQuery(w, "term")
	assert.Equal(t, "gnome-terminal", w.match())
}

func TestLauncher_EmptyQueryMatchesNothing(t *testing.T) {
	w, _ := newTestLauncher(t, []string{"firefox"})
	assert.Equal(t, "", w.match())
}

func TestLauncher_EnterLaunchesMatchAndClears(t *testing.T) {
	w, cmds := newTestLauncher(t, []string{"firefox"})

	typeQuery(w, "fire")
	assert.True(t, w.HandleKey(widget.Key{Special: widget.KeyEnter}))

	require.Len(t, cmds, 1)
	cmd := <-cmds
	assert.Equal(t, widget.CmdLaunch, cmd.Kind)
	assert.Equal(t, "firefox", cmd.Exec)
	assert.Equal(t, "", cmd.Arg)
	assert.Empty(t, w.input)
}

func TestLauncher_AppOpenerWrapsMatch(t *testing.T) {
	w, cmds := newTestLauncher(t, []string{"firefox"})
	w.appOpener = "swaymsg exec"

	typeQuery(w, "fire")
	w.HandleKey(widget.Key{Special: widget.KeyEnter})

	cmd := <-cmds
	assert.Equal(t, "swaymsg exec", cmd.Exec)
	assert.Equal(t, "firefox", cmd.Arg)
}

func TestLauncher_BangRoutesToTerminalOpener(t *testing.T) {
	w, cmds := newTestLauncher(t, nil)

	typeQuery(w, "!htop")
	w.HandleKey(widget.Key{Special: widget.KeyEnter})

	cmd := <-cmds
	assert.Equal(t, "alacritty -e", cmd.Exec)
	assert.Equal(t, "htop", cmd.Arg)
}

func TestLauncher_URLRoutesToURLOpener(t *testing.T) {
	w, cmds := newTestLauncher(t, nil)

	typeQuery(w, "https://example.com")
	w.HandleKey(widget.Key{Special: widget.KeyEnter})

	cmd := <-cmds
	assert.Equal(t, "xdg-open", cmd.Exec)
	assert.Equal(t, "https://example.com", cmd.Arg)
}

func TestLauncher_EnterWithNoMatchLaunchesNothing(t *testing.T) {
	w, cmds := newTestLauncher(t, []string{"firefox"})

	typeQuery(w, "zzz")
	w.HandleKey(widget.Key{Special: widget.KeyEnter})

	assert.Len(t, cmds, 0)
	assert.Empty(t, w.input, "the query clears even when nothing launched")
}

func TestLauncher_BackspaceTrimsInput(t *testing.T) {
	w, _ := newTestLauncher(t, nil)

	typeQuery(w, "ab")
	w.HandleKey(widget.Key{Special: widget.KeyBackspace})
	assert.Equal(t, "a", string(w.input))

	w.HandleKey(widget.Key{Special: widget.KeyBackspace})
	assert.Empty(t, w.input)

	// Backspace on empty input is consumed but harmless.
	assert.True(t, w.HandleKey(widget.Key{Special: widget.KeyBackspace}))
	assert.Empty(t, w.input)
}

func TestLauncher_EscapeClearsThenExits(t *testing.T) {
	w, cmds := newTestLauncher(t, nil)

	typeQuery(w, "abc")
	assert.True(t, w.HandleKey(widget.Key{Special: widget.KeyEscape}))
	assert.Empty(t, w.input)
	assert.Len(t, cmds, 0)

	assert.True(t, w.HandleKey(widget.Key{Special: widget.KeyEscape}))
	require.Len(t, cmds, 1)
	assert.Equal(t, widget.CmdExit, (<-cmds).Kind)
}

func TestLauncher_FullCommandChannelNeverBlocks(t *testing.T) {
	// The loop goroutine dispatches keys; a blocking send here would
	// deadlock it when a concurrent producer fills the last slot.
	cmds := make(chan widget.Command, 1)
	cmds <- widget.Command{Kind: widget.CmdRedraw}
	w := NewLauncher(32, 1200, cmds, "", "alacritty -e", "xdg-open", nil)
	w.entries = []string{"firefox"}

	assert.True(t, w.HandleKey(widget.Key{Special: widget.KeyEscape}))

	typeQuery(w, "fire")
	assert.True(t, w.HandleKey(widget.Key{Special: widget.KeyEnter}))
	assert.Empty(t, w.input)

	// Only the pre-existing command remains; the overflow was dropped.
	require.Len(t, cmds, 1)
	assert.Equal(t, widget.CmdRedraw, (<-cmds).Kind)
}

func TestLauncher_PromptShowsCompletion(t *testing.T) {
	w, _ := newTestLauncher(t, []string{"firefox"})

	assert.Equal(t, "> ", w.text())

	typeQuery(w, "fire")
	assert.Equal(t, "> fire  (firefox)", w.text())

	typeQuery(w, "fox")
	assert.Equal(t, "> firefox", w.text())
}

func TestLauncher_DrawClipsToConfiguredLength(t *testing.T) {
	w, _ := newTestLauncher(t, nil)

	rc := &fakeDrawer{}
	w.Draw(rc, render.Rect{W: 2000, H: 32})
	assert.Equal(t, []string{"> "}, rc.texts)
}
