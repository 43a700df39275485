// Package spawn runs launcher-requested commands fire-and-forget.
package spawn

import (
	"crypto/rand"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Spawner executes opener commands on behalf of the render loop. Every
// request gets a ULID so the start, exit, and any failure of one spawn
// correlate in the logs. Errors are logged and never fatal.
type Spawner struct {
	logger *slog.Logger
}

// New creates a Spawner.
func New(logger *slog.Logger) *Spawner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Spawner{logger: logger}
}

// Spawn starts command (split on whitespace) with arg appended when
// non-empty, then detaches. The child's exit status is logged when it
// terminates.
func (s *Spawner) Spawn(command, arg string) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		s.logger.Warn("refusing to spawn empty command")
		return
	}
	args := fields[1:]
	if arg != "" {
		args = append(args, arg)
	}

	id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		s.logger.Warn("failed to generate spawn id", "error", err)
		return
	}
	logger := s.logger.With("spawn_id", id.String())

	cmd := exec.Command(fields[0], args...)
	if err := cmd.Start(); err != nil {
		logger.Warn("spawn failed", "command", command, "arg", arg, "error", err)
		return
	}
	logger.Info("spawned", "command", command, "arg", arg, "pid", cmd.Process.Pid)

	go func() {
		if err := cmd.Wait(); err != nil {
			logger.Warn("spawned process exited with error", "error", err)
			return
		}
		logger.Debug("spawned process exited")
	}()
}
