package video

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Toolkit runs ffmpeg and ffprobe. Every invocation is synchronous, tracked
// by Procs and checked for a zero exit status.
type Toolkit struct {
	FFmpeg  string
	FFprobe string
	Procs   *Procs
	Logger  *slog.Logger

	// Stderr, when set, also receives the tools' diagnostic output live.
	Stderr io.Writer
}

func NewToolkit(ffmpegPath, ffprobePath string, procs *Procs, logger *slog.Logger) *Toolkit {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	if procs == nil {
		procs = NewProcs(0)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Toolkit{FFmpeg: ffmpegPath, FFprobe: ffprobePath, Procs: procs, Logger: logger}
}

// ReassembleOptions describes the final encode.
type ReassembleOptions struct {
	FramesDir string
	Ext       string
	Video     string
	Output    string
	FrameRate int
	Audio     bool
}

// ExtractArgs returns the ffmpeg arguments that dump every frame of videoPath
// into dir at the highest JPEG quality without dropping or duplicating frames.
func ExtractArgs(videoPath, dir, ext string) []string {
	return ffmpeg.Input(videoPath).
		Output(filepath.Join(dir, FramePattern(ext)), ffmpeg.KwArgs{
			"qscale:v": 1,
			"qmin":     1,
			"qmax":     1,
			"vsync":    0,
		}).
		GlobalArgs("-hide_banner", "-loglevel", "error").
		OverWriteOutput().
		GetArgs()
}

// ReassembleArgs returns the ffmpeg arguments that encode the rendered frames
// as H.264/yuv420p at the probed rate and copy the source's audio when present.
func ReassembleArgs(opts ReassembleOptions) []string {
	rate := strconv.Itoa(opts.FrameRate)
	frames := ffmpeg.Input(filepath.Join(opts.FramesDir, OutputPattern(opts.Ext)), ffmpeg.KwArgs{
		"framerate": rate,
	})

	streams := []*ffmpeg.Stream{frames.Video()}
	kwargs := ffmpeg.KwArgs{
		"c:v":     "libx264",
		"pix_fmt": "yuv420p",
		"r":       rate,
	}
	if opts.Audio {
		streams = append(streams, ffmpeg.Input(opts.Video).Audio())
		kwargs["c:a"] = "copy"
	}

	return ffmpeg.Output(streams, opts.Output, kwargs).
		GlobalArgs("-hide_banner", "-loglevel", "error").
		OverWriteOutput().
		GetArgs()
}

func ProbeArgs(videoPath string) []string {
	return []string{"-v", "error", "-hide_banner", "-show_streams", "-of", "json", "--", videoPath}
}

func (t *Toolkit) Extract(ctx context.Context, videoPath, dir, ext string) error {
	_, err := t.run(ctx, t.FFmpeg, ExtractArgs(videoPath, dir, ext))
	return err
}

func (t *Toolkit) Probe(ctx context.Context, videoPath string) (ProbeResult, error) {
	out, err := t.run(ctx, t.FFprobe, ProbeArgs(videoPath))
	if err != nil {
		return ProbeResult{}, err
	}
	return parseProbe(out)
}

func (t *Toolkit) Reassemble(ctx context.Context, opts ReassembleOptions) error {
	if opts.FrameRate <= 0 {
		return fmt.Errorf("reassemble: frame rate must be positive, got %d", opts.FrameRate)
	}
	_, err := t.run(ctx, t.FFmpeg, ReassembleArgs(opts))
	return err
}

func (t *Toolkit) run(ctx context.Context, binary string, args []string) ([]byte, error) {
	tool := filepath.Base(binary)
	t.Logger.Debug("exec", "tool", tool, "args", strings.Join(args, " "))

	cmd := t.Procs.Command(ctx, binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	if t.Stderr != nil {
		cmd.Stderr = io.MultiWriter(&stderr, t.Stderr)
	} else {
		cmd.Stderr = &stderr
	}

	if err := t.Procs.Run(cmd); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%s: %w", tool, ctxErr)
		}
		code := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		return nil, &ToolError{
			Tool:     tool,
			Args:     args,
			ExitCode: code,
			Stderr:   tail(stderr.String()),
			Err:      err,
		}
	}
	return stdout.Bytes(), nil
}
