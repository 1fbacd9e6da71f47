package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"chaptercut/internal/controller"
	"chaptercut/internal/deps"
	"chaptercut/internal/engine"
	"chaptercut/internal/enrich"
	"chaptercut/internal/ipc"
	"chaptercut/internal/logging"
	"chaptercut/internal/notifications"
	"chaptercut/internal/probe"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:          "run <file> [file...]",
		Short:        "Extract every chapter of the given files into clips",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd.Context(), ctx, args)
		},
	}
}

func runProcess(cmdCtx context.Context, ctx *commandContext, sources []string) error {
	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := ctx.ensureConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	for i, src := range sources {
		absolute, err := filepath.Abs(src)
		if err != nil {
			return fmt.Errorf("resolve source %q: %w", src, err)
		}
		if _, err := os.Stat(absolute); err != nil {
			return fmt.Errorf("source %q: %w", src, err)
		}
		sources[i] = absolute
	}

	statuses := deps.CheckBinaries(deps.Requirements(cfg))
	if missing := deps.MissingRequired(statuses); len(missing) > 0 {
		return fmt.Errorf("missing required dependencies: %s", strings.Join(missing, ", "))
	}
	if err := unix.Access(cfg.Paths.OutputDir, unix.W_OK); err != nil {
		return fmt.Errorf("output directory %s is not writable: %w", cfg.Paths.OutputDir, err)
	}

	lock := flock.New(cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another run is already active (lock %s)", cfg.LockPath())
	}
	defer func() {
		_ = lock.Unlock()
	}()

	runStamp := time.Now().UTC().Format("20060102T150405Z")
	logPath := filepath.Join(cfg.Paths.LogDir, fmt.Sprintf("chaptercut-%s.log", runStamp))
	logger, err := logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stdout", logPath},
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if err := ensureCurrentLogPointer(cfg.Paths.LogDir, logPath); err != nil {
		fmt.Fprintf(os.Stderr, "warn: unable to update chaptercut.log link: %v\n", err)
	}

	reporter := newRunReporter(os.Stdout)

	executor := &engine.Executor{}
	renderer := engine.NewFFmpeg(cfg.FFmpegBinary(), executor)
	prober := probe.NewCLI(cfg.FFprobeBinary())
	var lookup enrich.Lookup = enrich.Noop{}
	if cfg.Enrichment.MappingPath != "" {
		lookup = enrich.NewFileLookup(cfg.Enrichment.MappingPath)
	}
	notifier := notifications.NewService(cfg)

	ctrl := controller.New(cfg, logger, prober, renderer, lookup, notifier, reporter.handle)

	server, err := ipc.NewServer(signalCtx, cfg.SocketPath(), ctrl, logger)
	if err != nil {
		return fmt.Errorf("start control socket: %w", err)
	}
	server.Serve()
	defer server.Close()

	// A signal stops the run cleanly; the in-flight chapter is killed and
	// finished clips stay on disk.
	go func() {
		<-signalCtx.Done()
		_ = ctrl.Stop()
	}()

	outcome, err := ctrl.Process(signalCtx, sources)
	if err != nil {
		return err
	}

	if summary := reporter.summary(); summary != "" {
		fmt.Fprintln(os.Stdout, summary)
	}
	if outcome == controller.OutcomeStopped {
		fmt.Fprintln(os.Stdout, "run stopped")
	} else {
		fmt.Fprintln(os.Stdout, "run complete")
	}
	return nil
}

// ensureCurrentLogPointer keeps chaptercut.log pointing at the latest run
// log so operators can tail one stable path.
func ensureCurrentLogPointer(logDir, target string) error {
	if logDir == "" || target == "" {
		return nil
	}
	current := filepath.Join(logDir, "chaptercut.log")
	if err := os.Remove(current); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing log pointer: %w", err)
	}
	if err := os.Symlink(target, current); err == nil {
		return nil
	}
	if err := os.Link(target, current); err == nil {
		return nil
	}
	return fmt.Errorf("link log pointer for %s", target)
}
