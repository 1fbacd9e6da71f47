package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"chaptercut/internal/config"
)

const userAgent = "Chaptercut-Go/0.1.0"

// Service defines the notification surface exposed to the processing run.
type Service interface {
	NotifyRunStarted(ctx context.Context, chapterCount int) error
	NotifyRunCompleted(ctx context.Context, processed, failed int, duration time.Duration) error
	NotifyRunStopped(ctx context.Context, processed, remaining int) error
	NotifyChapterFailed(ctx context.Context, chapterID string, err error) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyRunStarted(ctx context.Context, chapterCount int) error {
	data := payload{
		title:   "Chaptercut - Run Started",
		message: fmt.Sprintf("Processing %d chapters", chapterCount),
		tags:    []string{"chaptercut", "run", "started"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyRunCompleted(ctx context.Context, processed, failed int, duration time.Duration) error {
	if duration < 0 {
		duration = 0
	}
	durationText := duration.String()
	if duration == 0 {
		durationText = "0s"
	}

	var title, message string
	if failed == 0 {
		title = "Chaptercut - Run Complete"
		message = fmt.Sprintf("Run complete: %d clips written in %s", processed, durationText)
	} else {
		title = "Chaptercut - Run Complete (with errors)"
		message = fmt.Sprintf("Run complete: %d succeeded, %d failed in %s", processed, failed, durationText)
	}

	data := payload{
		title:   title,
		message: message,
		tags:    []string{"chaptercut", "run", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyRunStopped(ctx context.Context, processed, remaining int) error {
	data := payload{
		title:   "Chaptercut - Run Stopped",
		message: fmt.Sprintf("Run stopped: %d clips written, %d chapters remaining", processed, remaining),
		tags:    []string{"chaptercut", "run", "stopped"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyChapterFailed(ctx context.Context, chapterID string, err error) error {
	var builder strings.Builder
	builder.WriteString("Chapter failed")
	if chapterID = strings.TrimSpace(chapterID); chapterID != "" {
		builder.WriteString(": ")
		builder.WriteString(chapterID)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Chaptercut - Error",
		message:  builder.String(),
		tags:     []string{"chaptercut", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Chaptercut - Test",
		message:  "Notification system test",
		tags:     []string{"chaptercut", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyRunStarted(context.Context, int) error                       { return nil }
func (noopService) NotifyRunCompleted(context.Context, int, int, time.Duration) error { return nil }
func (noopService) NotifyRunStopped(context.Context, int, int) error                  { return nil }
func (noopService) NotifyChapterFailed(context.Context, string, error) error          { return nil }
func (noopService) TestNotification(context.Context) error                            { return nil }
