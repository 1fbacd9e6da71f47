// Package controller drives chapter extraction: it probes sources, resolves
// chapter ranges, and renders clips one at a time while honoring pause and
// stop requests arriving over IPC.
package controller

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"chaptercut/internal/chapter"
	"chaptercut/internal/config"
	"chaptercut/internal/engine"
	"chaptercut/internal/enrich"
	"chaptercut/internal/filtergraph"
	"chaptercut/internal/logging"
	"chaptercut/internal/naming"
	"chaptercut/internal/notifications"
	"chaptercut/internal/probe"
	"chaptercut/internal/services"
)

// ErrAlreadyRunning is returned when Process is invoked while a run holds
// the controller.
var ErrAlreadyRunning = errors.New("controller: a run is already in progress")

// Prober supplies the ffprobe operations the controller needs.
type Prober interface {
	Chapters(ctx context.Context, path string) ([]probe.ChapterMarker, error)
	Streams(ctx context.Context, path string) (probe.StreamDescriptor, error)
	Verify(ctx context.Context, path string, frameRate probe.Rational) probe.VerifyResult
}

// Renderer supplies the ffmpeg operations plus the kill switch that pause
// and stop use to interrupt an in-flight invocation. Kill reports whether a
// subprocess was actually signaled.
type Renderer interface {
	ExtractStill(ctx context.Context, source string, at float64, outPath string) error
	Transcode(ctx context.Context, spec engine.TranscodeSpec) error
	Kill() bool
}

// Controller owns the single processing run. All methods are safe to call
// from IPC handler goroutines while Process runs.
type Controller struct {
	cfg      *config.Config
	logger   *slog.Logger
	prober   Prober
	renderer Renderer
	lookup   enrich.Lookup
	notifier notifications.Service
	listener Listener

	runMu sync.Mutex
	run   *processingRun
}

func New(cfg *config.Config, logger *slog.Logger, prober Prober, renderer Renderer, lookup enrich.Lookup, notifier notifications.Service, listener Listener) *Controller {
	if logger == nil {
		logger = logging.NewNop()
	}
	if lookup == nil {
		lookup = enrich.Noop{}
	}
	return &Controller{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "controller"),
		prober:   prober,
		renderer: renderer,
		lookup:   lookup,
		notifier: notifier,
		listener: listener,
	}
}

func (c *Controller) currentRun() *processingRun {
	c.runMu.Lock()
	defer c.runMu.Unlock()
	return c.run
}

func (c *Controller) setRun(run *processingRun) bool {
	c.runMu.Lock()
	defer c.runMu.Unlock()
	if run != nil && c.run != nil {
		return false
	}
	c.run = run
	return true
}

// Process executes one run over the given source files. It returns the run
// outcome, or an error when the run could not start at all. Individual
// chapter failures are reported through events and do not abort the run.
func (c *Controller) Process(ctx context.Context, sources []string) (RunOutcome, error) {
	run := newProcessingRun()
	if !c.setRun(run) {
		return "", ErrAlreadyRunning
	}
	defer c.setRun(nil)

	log := c.logger.With(logging.String(logging.FieldRunID, run.id))

	chapters, descriptors, err := c.prepare(ctx, sources, log)
	if err != nil {
		return "", err
	}
	run.setTotal(len(chapters))
	log.Info("run starting", logging.Args(
		logging.Int("chapters", len(chapters)),
		logging.Int("sources", len(sources)),
	)...)
	if err := c.notifier.NotifyRunStarted(ctx, len(chapters)); err != nil {
		log.Warn("run started notification failed", logging.Error(err))
	}

	outcome := c.processLoop(ctx, run, chapters, descriptors, log)

	snap := run.snapshot()
	if outcome == OutcomeStopped {
		log.Info("run stopped", logging.Args(
			logging.Int("done", snap.Done),
			logging.Int("failed", snap.Failed),
			logging.Int("total", snap.Total),
		)...)
		if err := c.notifier.NotifyRunStopped(ctx, snap.Done, snap.Total-snap.Done-snap.Failed); err != nil {
			log.Warn("run stopped notification failed", logging.Error(err))
		}
	} else {
		log.Info("run complete", logging.Args(
			logging.Int("done", snap.Done),
			logging.Int("failed", snap.Failed),
			logging.Duration("elapsed", time.Since(run.started)),
		)...)
		if err := c.notifier.NotifyRunCompleted(ctx, snap.Done, snap.Failed, time.Since(run.started)); err != nil {
			log.Warn("run completed notification failed", logging.Error(err))
		}
	}
	return outcome, nil
}

func (c *Controller) processLoop(ctx context.Context, run *processingRun, chapters []chapter.Chapter, descriptors map[string]probe.StreamDescriptor, log *slog.Logger) RunOutcome {
	pollInterval := time.Duration(c.cfg.Workflow.PausePollMillis) * time.Millisecond

	for i := 0; i < len(chapters); i++ {
		if run.StopRequested() || ctx.Err() != nil {
			return OutcomeStopped
		}
		for run.Paused() && !run.StopRequested() && ctx.Err() == nil {
			time.Sleep(pollInterval)
		}
		if run.StopRequested() || ctx.Err() != nil {
			return OutcomeStopped
		}

		ch := chapters[i]
		run.setCurrent(ch.ID)
		err := c.processChapter(ctx, ch, descriptors[ch.SourceFile], log)
		run.setCurrent("")
		if err == nil {
			// A kill may race with natural completion; a latch left over
			// from a finished chapter must not taint the next one.
			run.consumeKill()
			run.markDone()
			continue
		}

		err = classifyInterrupt(run, ch.ID, err)
		switch {
		case errors.Is(err, services.ErrStopped):
			c.emit(Event{ChapterID: ch.ID, Status: StatusStopped, Message: "run stopped"})
			return OutcomeStopped
		case ctx.Err() != nil:
			c.emit(Event{ChapterID: ch.ID, Status: StatusStopped, Message: "run canceled"})
			return OutcomeStopped
		case errors.Is(err, services.ErrPaused):
			// The kill that enforced the pause failed this chapter. It
			// retries from scratch after resume.
			c.emit(Event{ChapterID: ch.ID, Status: StatusPaused, Message: "paused, chapter will retry"})
			log.Info("chapter interrupted by pause", logging.String(logging.FieldChapterID, ch.ID))
			i--
		default:
			run.markFailed()
			c.emit(Event{ChapterID: ch.ID, Status: StatusError, Message: err.Error()})
			log.Error("chapter failed", logging.Args(
				logging.String(logging.FieldChapterID, ch.ID),
				logging.Error(err),
			)...)
			if nerr := c.notifier.NotifyChapterFailed(ctx, ch.ID, err); nerr != nil {
				log.Warn("chapter failure notification failed", logging.Error(nerr))
			}
		}
	}
	return OutcomeCompleted
}

// classifyInterrupt tags a chapter failure as a deliberate control signal
// when a pause or stop actually killed the subprocess. The kill latch, not
// the instantaneous pause flag, decides: a resume landing before the kill
// error surfaces must not turn the killed chapter into a genuine failure.
func classifyInterrupt(run *processingRun, chapterID string, err error) error {
	if services.IsControlSignal(err) {
		return err
	}
	switch run.consumeKill() {
	case killStop:
		return services.Wrap(services.ErrStopped, "controller", "process chapter", chapterID, err)
	case killPause:
		return services.Wrap(services.ErrPaused, "controller", "process chapter", chapterID, err)
	}
	// A stop that connected to no subprocess still ends the run.
	if run.StopRequested() {
		return services.Wrap(services.ErrStopped, "controller", "process chapter", chapterID, err)
	}
	return err
}

// prepare probes every source, applies enrichment, and resolves chapter
// time ranges. Any probe failure aborts the run before work starts.
func (c *Controller) prepare(ctx context.Context, sources []string, log *slog.Logger) ([]chapter.Chapter, map[string]probe.StreamDescriptor, error) {
	var all []chapter.Chapter
	descriptors := make(map[string]probe.StreamDescriptor, len(sources))
	totals := make(map[string]float64, len(sources))

	for _, src := range sources {
		markers, err := c.prober.Chapters(ctx, src)
		if err != nil {
			return nil, nil, err
		}
		if len(markers) == 0 {
			log.Warn("source has no chapter markers", logging.String("source", src))
			continue
		}
		if _, seen := descriptors[src]; !seen {
			desc, err := c.prober.Streams(ctx, src)
			if err != nil {
				return nil, nil, err
			}
			descriptors[src] = desc
			totals[src] = desc.Duration
		}
		all = append(all, chapter.FromMarkers(src, markers)...)
	}
	if len(all) == 0 {
		return nil, nil, services.Wrap(services.ErrProbe, "controller", "prepare", "no chapters found in any source", nil)
	}

	ids := make([]string, len(all))
	for i, ch := range all {
		ids[i] = ch.ID
	}
	entries, err := c.lookup.Resolve(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	for i := range all {
		entry, ok := entries[all[i].ID]
		if !ok {
			continue
		}
		if entry.DisplayName != "" {
			all[i].Title = entry.DisplayName
		}
		all[i].DestPath = entry.DestinationPath
	}

	return chapter.ResolveRanges(all, totals), descriptors, nil
}

func (c *Controller) processChapter(ctx context.Context, ch chapter.Chapter, desc probe.StreamDescriptor, log *slog.Logger) error {
	c.emit(Event{ChapterID: ch.ID, Status: StatusProcessing, Message: "resolving destination"})

	dir, err := naming.ResolveDir(c.cfg.Paths.OutputDir, ch)
	if err != nil {
		return err
	}
	base := naming.Sanitize(ch.Title)
	outPath, version, err := naming.NextVersion(dir, base, c.cfg.Clip.Container)
	if err != nil {
		return err
	}
	c.emit(Event{
		ChapterID: ch.ID,
		Status:    StatusProcessing,
		Message:   "rendering",
		FinalName: filepath.Base(outPath),
		Version:   version,
	})

	var audio *filtergraph.AudioParams
	if desc.HasAudio {
		audio = &filtergraph.AudioParams{SampleRate: desc.SampleRate, ChannelLayout: desc.ChannelLayout}
	}
	splice, err := filtergraph.Build(filtergraph.SpliceSpec{
		FrameRate:     desc.FrameRate,
		Start:         ch.StartTime,
		End:           ch.EndTime,
		TotalDuration: desc.Duration,
		HandleFrames:  c.cfg.Clip.HandleFrames,
		Width:         c.cfg.Clip.Width,
		Height:        c.cfg.Clip.Height,
		Audio:         audio,
	})
	if err != nil {
		return err
	}

	tempDir, err := os.MkdirTemp(c.cfg.Paths.WorkDir, "chapter-*")
	if err != nil {
		return services.Wrap(services.ErrDirectoryCreate, "controller", "create work dir", c.cfg.Paths.WorkDir, err)
	}
	defer func() {
		if rmErr := os.RemoveAll(tempDir); rmErr != nil {
			log.Warn("temp cleanup failed", logging.Args(
				logging.String("dir", tempDir),
				logging.Error(rmErr),
			)...)
		}
	}()

	prePath := filepath.Join(tempDir, "pre.png")
	sufPath := filepath.Join(tempDir, "suf.png")
	metaPath := filepath.Join(tempDir, "metadata.txt")

	if err := c.renderer.ExtractStill(ctx, ch.SourceFile, splice.PrefixStillTime, prePath); err != nil {
		return err
	}
	if err := c.renderer.ExtractStill(ctx, ch.SourceFile, splice.SuffixStillTime, sufPath); err != nil {
		return err
	}
	metadata := filtergraph.ChapterMetadata(ch.Title, splice.HandleDuration, ch.StartTime, ch.EndTime)
	if err := os.WriteFile(metaPath, []byte(metadata), 0o644); err != nil {
		return services.Wrap(services.ErrTranscode, "controller", "write chapter metadata", metaPath, err)
	}

	err = c.renderer.Transcode(ctx, engine.TranscodeSpec{
		Source:       ch.SourceFile,
		PrefixStill:  prePath,
		SuffixStill:  sufPath,
		MetadataFile: metaPath,
		Splice:       splice,
		FrameRate:    desc.FrameRate,
		VideoCodec:   c.cfg.Clip.VideoCodec,
		VideoBitrate: c.cfg.Clip.VideoBitrate,
		AudioCodec:   c.cfg.Clip.AudioCodec,
		AudioBitrate: c.cfg.Clip.AudioBitrate,
		PixelFormat:  c.cfg.Clip.PixelFormat,
		Output:       outPath,
	})
	if err != nil {
		if rmErr := os.Remove(outPath); rmErr != nil && !os.IsNotExist(rmErr) {
			log.Warn("partial output cleanup failed", logging.Args(
				logging.String("path", outPath),
				logging.Error(rmErr),
			)...)
		}
		return err
	}

	verify := c.prober.Verify(ctx, outPath, desc.FrameRate)
	c.emit(Event{
		ChapterID:       ch.ID,
		Status:          StatusDone,
		DurationSeconds: verify.DurationSeconds,
		DurationFrames:  verify.DurationFrames,
	})
	log.Info("chapter complete", logging.Args(
		logging.String(logging.FieldChapterID, ch.ID),
		logging.String("output", outPath),
		logging.Int("duration_frames", verify.DurationFrames),
	)...)
	return nil
}

// Pause suspends the run after the in-flight chapter is interrupted. The
// interrupted chapter retries once the run resumes.
func (c *Controller) Pause() error {
	run := c.currentRun()
	if run == nil {
		return errors.New("controller: no run in progress")
	}
	if run.Pause() {
		// Latch before signaling so the loop never classifies the kill
		// error ahead of the latch becoming visible.
		run.latchKill(killPause)
		if !c.renderer.Kill() {
			run.unlatchKill(killPause)
		}
	}
	return nil
}

// Resume lifts a pause. Resuming a run that is not paused is a no-op.
func (c *Controller) Resume() error {
	run := c.currentRun()
	if run == nil {
		return errors.New("controller: no run in progress")
	}
	run.Resume()
	return nil
}

// Stop ends the run after the in-flight chapter is interrupted. Finished
// clips stay on disk.
func (c *Controller) Stop() error {
	run := c.currentRun()
	if run == nil {
		return errors.New("controller: no run in progress")
	}
	run.RequestStop()
	run.latchKill(killStop)
	if !c.renderer.Kill() {
		run.unlatchKill(killStop)
	}
	return nil
}

// Status reports the current run, or an idle snapshot when none is active.
func (c *Controller) Status() Snapshot {
	run := c.currentRun()
	if run == nil {
		return Snapshot{State: StateIdle}
	}
	return run.snapshot()
}

func (c *Controller) emit(event Event) {
	if c.listener != nil {
		c.listener(event)
	}
}
