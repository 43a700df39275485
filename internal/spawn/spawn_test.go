package spawn

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// syncBuffer guards the log buffer against the child-exit goroutine
// writing while a test reads.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestSpawner() (*Spawner, *syncBuffer) {
	buf := &syncBuffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return New(logger), buf
}

func TestSpawn_StartsProcess(t *testing.T) {
	s, buf := newTestSpawner()

	s.Spawn("true", "")

	assert.Contains(t, buf.String(), "spawned")
	assert.Contains(t, buf.String(), "spawn_id")
}

func TestSpawn_AppendsArg(t *testing.T) {
	s, buf := newTestSpawner()

	s.Spawn("true -x", "extra")

	assert.Contains(t, buf.String(), "arg=extra")
}

func TestSpawn_EmptyCommandIsRefused(t *testing.T) {
	s, buf := newTestSpawner()

	s.Spawn("   ", "arg")

	assert.Contains(t, buf.String(), "refusing to spawn empty command")
	assert.NotContains(t, buf.String(), "pid=")
}

func TestSpawn_MissingBinaryIsNotFatal(t *testing.T) {
	s, buf := newTestSpawner()

	s.Spawn("glance-no-such-binary-anywhere", "")

	assert.Contains(t, buf.String(), "spawn failed")
}

func TestSpawn_LogsChildExit(t *testing.T) {
	s, buf := newTestSpawner()

	s.Spawn("false", "")

	// The exit is observed on a background goroutine.
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(buf.String(), "exited with error") {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("child exit was never logged")
}
