package engine

import (
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"

	"chaptercut/internal/services"
)

func requireBinary(t *testing.T, name string) string {
	t.Helper()
	path, err := exec.LookPath(name)
	if err != nil {
		t.Skipf("%s not available", name)
	}
	return path
}

func TestExecutorRunsCommand(t *testing.T) {
	path := requireBinary(t, "true")
	var e Executor
	if err := e.Run(context.Background(), path); err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestExecutorWrapsFailure(t *testing.T) {
	path := requireBinary(t, "false")
	var e Executor
	err := e.Run(context.Background(), path)
	if !errors.Is(err, services.ErrTranscode) {
		t.Fatalf("err = %v, want transcode marker", err)
	}
}

func TestExecutorRejectsConcurrentRun(t *testing.T) {
	path := requireBinary(t, "sleep")
	var e Executor

	done := make(chan error, 1)
	go func() { done <- e.Run(context.Background(), path, "30") }()

	waitForRunning(t, &e)
	if err := e.Run(context.Background(), path, "1"); err == nil {
		t.Fatal("second concurrent run should fail")
	}

	e.Kill()
	if err := <-done; err == nil {
		t.Fatal("killed run should report an error")
	}
}

func TestKillTerminatesProcessGroup(t *testing.T) {
	path := requireBinary(t, "sleep")
	var e Executor

	done := make(chan error, 1)
	go func() { done <- e.Run(context.Background(), path, "60") }()

	waitForRunning(t, &e)
	if !e.Kill() {
		t.Error("kill with a live command should report true")
	}
	e.Kill() // second kill is a no-op

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("killed run should report an error")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after kill")
	}
}

func TestKillWithNothingRunning(t *testing.T) {
	var e Executor
	if e.Kill() {
		t.Fatal("kill with nothing running should report false")
	}
}

func waitForRunning(t *testing.T, e *Executor) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		e.mu.Lock()
		running := e.cmd != nil
		e.mu.Unlock()
		if running {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("command never started")
}
