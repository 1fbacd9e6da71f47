// Package engine runs ffmpeg subprocesses and provides the single point
// where an in-flight command can be killed from another goroutine.
package engine

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"

	"chaptercut/internal/services"
)

var commandContext = exec.CommandContext

// Executor runs at most one subprocess at a time and remembers its handle
// so Kill can reach it. Commands start in their own process group so a
// kill takes any children down with them.
type Executor struct {
	mu  sync.Mutex
	cmd *exec.Cmd
}

// Run starts the command and blocks until it exits. Failures carry the
// tail of stderr, which is where ffmpeg reports everything useful.
func (e *Executor) Run(ctx context.Context, binary string, args ...string) error {
	cmd := commandContext(ctx, binary, args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	e.mu.Lock()
	if e.cmd != nil {
		e.mu.Unlock()
		return errors.New("engine: a command is already running")
	}
	if err := cmd.Start(); err != nil {
		e.mu.Unlock()
		return services.Wrap(services.ErrTranscode, "engine", "start "+filepath.Base(binary), "", err)
	}
	e.cmd = cmd
	e.mu.Unlock()

	err := cmd.Wait()

	e.mu.Lock()
	e.cmd = nil
	e.mu.Unlock()

	if err != nil {
		return services.Wrap(services.ErrTranscode, "engine", filepath.Base(binary), stderrTail(&stderr), err)
	}
	return nil
}

// Kill terminates the in-flight command's whole process group and reports
// whether a command was signaled. Calling it with nothing running, or
// calling it twice, is harmless.
func (e *Executor) Kill() bool {
	e.mu.Lock()
	cmd := e.cmd
	e.mu.Unlock()

	if cmd == nil || cmd.Process == nil {
		return false
	}
	pid := cmd.Process.Pid
	if err := unix.Kill(-pid, unix.SIGKILL); err != nil {
		_ = cmd.Process.Kill()
	}
	return true
}

// stderrTail keeps the last few lines of subprocess output so errors stay
// readable in logs.
func stderrTail(buf *bytes.Buffer) string {
	const maxLines = 5
	out := strings.TrimSpace(buf.String())
	if out == "" {
		return ""
	}
	lines := strings.Split(out, "\n")
	if len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	return strings.Join(lines, " | ")
}
