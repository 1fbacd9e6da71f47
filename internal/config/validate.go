package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateClip(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return errors.New("paths.output_dir must be set")
	}
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		return errors.New("paths.work_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateClip() error {
	if c.Clip.HandleFrames <= 0 {
		return errors.New("clip.handle_frames must be positive")
	}
	if c.Clip.Width <= 0 || c.Clip.Height <= 0 {
		return fmt.Errorf("clip resolution %dx%d is invalid", c.Clip.Width, c.Clip.Height)
	}
	if strings.TrimSpace(c.Clip.VideoCodec) == "" {
		return errors.New("clip.video_codec must be set")
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if c.Workflow.PausePollMillis <= 0 {
		return errors.New("workflow.pause_poll_millis must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
