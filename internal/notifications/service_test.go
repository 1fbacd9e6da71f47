package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chaptercut/internal/config"
	"chaptercut/internal/notifications"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyRunStarted(context.Background(), 3); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNtfyServiceFormatsPayloads(t *testing.T) {
	tests := []struct {
		name           string
		notify         func(notifications.Service) error
		expectTitle    string
		expectMessage  string
		expectTags     string
		expectPriority string
	}{
		{
			name: "run started",
			notify: func(svc notifications.Service) error {
				return svc.NotifyRunStarted(context.Background(), 12)
			},
			expectTitle:   "Chaptercut - Run Started",
			expectMessage: "Processing 12 chapters",
			expectTags:    "chaptercut,run,started",
		},
		{
			name: "run completed clean",
			notify: func(svc notifications.Service) error {
				return svc.NotifyRunCompleted(context.Background(), 12, 0, 90*time.Second)
			},
			expectTitle:   "Chaptercut - Run Complete",
			expectMessage: "Run complete: 12 clips written in 1m30s",
			expectTags:    "chaptercut,run,completed",
		},
		{
			name: "run completed with failures",
			notify: func(svc notifications.Service) error {
				return svc.NotifyRunCompleted(context.Background(), 10, 2, time.Minute)
			},
			expectTitle:   "Chaptercut - Run Complete (with errors)",
			expectMessage: "Run complete: 10 succeeded, 2 failed in 1m0s",
			expectTags:    "chaptercut,run,completed",
		},
		{
			name: "run stopped",
			notify: func(svc notifications.Service) error {
				return svc.NotifyRunStopped(context.Background(), 4, 8)
			},
			expectTitle:   "Chaptercut - Run Stopped",
			expectMessage: "Run stopped: 4 clips written, 8 chapters remaining",
			expectTags:    "chaptercut,run,stopped",
		},
		{
			name: "chapter failed",
			notify: func(svc notifications.Service) error {
				return svc.NotifyChapterFailed(context.Background(), "show.mkv:2", errors.New("transcode exited 1"))
			},
			expectTitle:    "Chaptercut - Error",
			expectMessage:  "Chapter failed: show.mkv:2: transcode exited 1",
			expectTags:     "chaptercut,error,alert",
			expectPriority: "high",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var captured struct {
				title    string
				tags     string
				priority string
				body     string
			}

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Fatalf("unexpected method: %s", r.Method)
				}
				captured.title = r.Header.Get("Title")
				captured.tags = r.Header.Get("Tags")
				captured.priority = r.Header.Get("Priority")
				body, err := io.ReadAll(r.Body)
				if err != nil {
					t.Fatalf("read body: %v", err)
				}
				captured.body = string(body)
				_ = r.Body.Close()
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			cfg := config.Default()
			cfg.Notifications.NtfyTopic = server.URL
			cfg.Notifications.RequestTimeout = 5

			svc := notifications.NewService(&cfg)
			if err := tc.notify(svc); err != nil {
				t.Fatalf("notification returned error: %v", err)
			}

			if captured.title != tc.expectTitle {
				t.Fatalf("expected title %q, got %q", tc.expectTitle, captured.title)
			}
			if captured.body != tc.expectMessage {
				t.Fatalf("expected message %q, got %q", tc.expectMessage, captured.body)
			}
			if captured.tags != tc.expectTags {
				t.Fatalf("expected tags %q, got %q", tc.expectTags, captured.tags)
			}
			if captured.priority != tc.expectPriority {
				t.Fatalf("expected priority %q, got %q", tc.expectPriority, captured.priority)
			}
		})
	}
}

func TestNtfyServiceReportsServerErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "topic quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL

	svc := notifications.NewService(&cfg)
	if err := svc.TestNotification(context.Background()); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}
