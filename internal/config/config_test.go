package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chaptercut/internal/config"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, _, exists, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if cfg.Clip.HandleFrames != 10 {
		t.Fatalf("expected default handle_frames 10, got %d", cfg.Clip.HandleFrames)
	}
	if cfg.Workflow.PausePollMillis != 500 {
		t.Fatalf("expected default pause_poll_millis 500, got %d", cfg.Workflow.PausePollMillis)
	}
	if !filepath.IsAbs(cfg.Paths.OutputDir) {
		t.Fatalf("expected expanded output dir, got %q", cfg.Paths.OutputDir)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
output_dir = "` + dir + `/out"
work_dir = "` + dir + `/work"
log_dir = "` + dir + `/logs"

[clip]
handle_frames = 24
width = 1280
height = 720
video_codec = "libx265"

[workflow]
pause_poll_millis = 100
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected config at %q to be used, got %q exists=%v", path, resolved, exists)
	}
	if cfg.Clip.HandleFrames != 24 {
		t.Fatalf("expected handle_frames 24, got %d", cfg.Clip.HandleFrames)
	}
	if cfg.Clip.VideoCodec != "libx265" {
		t.Fatalf("expected codec override, got %q", cfg.Clip.VideoCodec)
	}
	if cfg.Workflow.PausePollMillis != 100 {
		t.Fatalf("expected poll override, got %d", cfg.Workflow.PausePollMillis)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"zero handle", func(c *config.Config) { c.Clip.HandleFrames = 0 }, "handle_frames"},
		{"bad resolution", func(c *config.Config) { c.Clip.Width = -1 }, "resolution"},
		{"zero poll", func(c *config.Config) { c.Workflow.PausePollMillis = 0 }, "pause_poll_millis"},
		{"bad format", func(c *config.Config) { c.Logging.Format = "yaml" }, "logging.format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Logging.Format = "console"
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.OutputDir = filepath.Join(dir, "out")
	cfg.Paths.WorkDir = filepath.Join(dir, "work")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, p := range []string{cfg.Paths.OutputDir, cfg.Paths.WorkDir, cfg.Paths.LogDir} {
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q, err=%v", p, err)
		}
	}
	// Idempotent on second call.
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories second call failed: %v", err)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config did not load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if cfg.Clip.HandleFrames != 10 {
		t.Fatalf("sample config handle_frames = %d", cfg.Clip.HandleFrames)
	}
}
