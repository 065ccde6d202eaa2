package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"charvideo/filters"
	"charvideo/helpers"
	"charvideo/video"
)

func (c *Config) normalize() error {
	c.Render.TextColor = strings.TrimSpace(c.Render.TextColor)
	c.Render.BackgroundColor = strings.TrimSpace(c.Render.BackgroundColor)
	c.Render.FrameExt = video.NormalizeExt(c.Render.FrameExt)
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Tools.FFmpeg = strings.TrimSpace(c.Tools.FFmpeg)
	c.Tools.FFprobe = strings.TrimSpace(c.Tools.FFprobe)

	var err error
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return err
	}
	if c.Render.FontPath, err = expandPath(c.Render.FontPath); err != nil {
		return err
	}
	return nil
}

// Normalize trims and expands values set after Load, e.g. from flags.
func (c *Config) Normalize() error {
	return c.normalize()
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if _, err := filters.ParseTextColor(c.Render.TextColor); err != nil {
		errs = append(errs, fmt.Errorf("render.text_color: %w", err))
	}
	if _, err := helpers.ParseColor(c.Render.BackgroundColor); err != nil {
		errs = append(errs, fmt.Errorf("render.bg_color: %w", err))
	}
	if c.Render.BlockSize <= 0 {
		errs = append(errs, fmt.Errorf("render.block_size must be positive, got %d", c.Render.BlockSize))
	}
	if c.Render.TextSize <= 0 {
		errs = append(errs, fmt.Errorf("render.text_size must be positive, got %d", c.Render.TextSize))
	}
	if c.Render.Width < 0 || c.Render.Height < 0 {
		errs = append(errs, fmt.Errorf("render.width and render.height must not be negative"))
	}
	if c.Render.JPEGQuality < 1 || c.Render.JPEGQuality > 100 {
		errs = append(errs, fmt.Errorf("render.jpeg_quality must be within 1-100, got %d", c.Render.JPEGQuality))
	}
	if !helpers.SupportedFormat("frame." + c.Render.FrameExt) {
		errs = append(errs, fmt.Errorf("render.frame_ext %q is not a supported image format", c.Render.FrameExt))
	}
	if c.Workers.Count < 0 {
		errs = append(errs, fmt.Errorf("workers.count must not be negative, got %d", c.Workers.Count))
	}
	if c.Tools.FFmpeg == "" {
		errs = append(errs, errors.New("tools.ffmpeg is required"))
	}
	if c.Tools.FFprobe == "" {
		errs = append(errs, errors.New("tools.ffprobe is required"))
	}
	if c.Tools.KillGraceSeconds < 0 {
		errs = append(errs, fmt.Errorf("tools.kill_grace_seconds must not be negative"))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level))
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q is not one of console, json", c.Logging.Format))
	}

	return errors.Join(errs...)
}

// RenderOptions converts the render section into renderer options.
func (c *Config) RenderOptions() (filters.RenderOptions, error) {
	text, err := filters.ParseTextColor(c.Render.TextColor)
	if err != nil {
		return filters.RenderOptions{}, fmt.Errorf("render.text_color: %w", err)
	}
	bg, err := helpers.ParseColor(c.Render.BackgroundColor)
	if err != nil {
		return filters.RenderOptions{}, fmt.Errorf("render.bg_color: %w", err)
	}
	return filters.RenderOptions{
		BlockSize:   c.Render.BlockSize,
		TextSize:    c.Render.TextSize,
		Width:       c.Render.Width,
		Height:      c.Render.Height,
		Mosaic:      c.Render.Mosaic,
		Background:  bg,
		Text:        text,
		JPEGQuality: c.Render.JPEGQuality,
	}, nil
}

func (c *Config) KillGrace() time.Duration {
	return time.Duration(c.Tools.KillGraceSeconds) * time.Second
}
