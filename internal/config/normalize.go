package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeEnrichment(); err != nil {
		return err
	}
	c.normalizeEngine()
	c.normalizeClip()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeEnrichment() error {
	c.Enrichment.MappingPath = strings.TrimSpace(c.Enrichment.MappingPath)
	if c.Enrichment.MappingPath == "" {
		return nil
	}
	expanded, err := expandPath(c.Enrichment.MappingPath)
	if err != nil {
		return fmt.Errorf("enrichment.mapping_path: %w", err)
	}
	c.Enrichment.MappingPath = expanded
	return nil
}

func (c *Config) normalizeEngine() {
	c.Engine.FFmpegBinary = strings.TrimSpace(c.Engine.FFmpegBinary)
	if c.Engine.FFmpegBinary == "" {
		c.Engine.FFmpegBinary = "ffmpeg"
	}
	c.Engine.FFprobeBinary = strings.TrimSpace(c.Engine.FFprobeBinary)
	if c.Engine.FFprobeBinary == "" {
		c.Engine.FFprobeBinary = "ffprobe"
	}
}

func (c *Config) normalizeClip() {
	c.Clip.VideoCodec = strings.TrimSpace(c.Clip.VideoCodec)
	c.Clip.AudioCodec = strings.TrimSpace(c.Clip.AudioCodec)
	c.Clip.PixelFormat = strings.TrimSpace(c.Clip.PixelFormat)
	c.Clip.Container = strings.TrimPrefix(strings.TrimSpace(c.Clip.Container), ".")
	if c.Clip.Container == "" {
		c.Clip.Container = defaultContainer
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.NtfyTopic == "" {
		if value, ok := os.LookupEnv("CHAPTERCUT_NTFY_TOPIC"); ok {
			c.Notifications.NtfyTopic = strings.TrimSpace(value)
		}
	}
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
