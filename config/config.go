package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Render contains the character-art parameters applied to every frame.
type Render struct {
	TextColor       string `toml:"text_color"`
	BackgroundColor string `toml:"bg_color"`
	Mosaic          bool   `toml:"mosaic"`
	BlockSize       int    `toml:"block_size"`
	TextSize        int    `toml:"text_size"`
	Width           int    `toml:"width"`
	Height          int    `toml:"height"`
	FontPath        string `toml:"font_path"`
	JPEGQuality     int    `toml:"jpeg_quality"`
	FrameExt        string `toml:"frame_ext"`
}

// Workers sizes the render pool. Zero means one worker per CPU.
type Workers struct {
	Count int `toml:"count"`
}

// Paths contains the working directory layout. WorkDir holds tmp_frames and
// out_frames; empty means the directory of the executable.
type Paths struct {
	WorkDir string `toml:"work_dir"`
}

// Tools names the external video toolkit binaries.
type Tools struct {
	FFmpeg           string `toml:"ffmpeg"`
	FFprobe          string `toml:"ffprobe"`
	KillGraceSeconds int    `toml:"kill_grace_seconds"`
}

type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type Cleanup struct {
	DeleteFrames bool `toml:"delete_frames"`
}

// Config encapsulates all configuration values.
type Config struct {
	Render  Render  `toml:"render"`
	Workers Workers `toml:"workers"`
	Paths   Paths   `toml:"paths"`
	Tools   Tools   `toml:"tools"`
	Logging Logging `toml:"logging"`
	Cleanup Cleanup `toml:"cleanup"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/charvideo/config.toml")
}

// Load parses the configuration file at path, or at the default location when
// path is empty. A missing file yields the defaults. The returned bool reports
// whether a file was read. Callers apply their overrides and then Validate.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return "", false, err
		}
		path = defaultPath
	}

	expanded, err := expandPath(path)
	if err != nil {
		return "", false, err
	}
	if _, err := os.Stat(expanded); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	return expanded, true, nil
}

// Encode writes cfg as TOML.
func (c *Config) Encode() (string, error) {
	var sb strings.Builder
	encoder := toml.NewEncoder(&sb)
	if err := encoder.Encode(c); err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return sb.String(), nil
}

func expandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Clean(path), nil
}
