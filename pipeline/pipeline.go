package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"charvideo/filters"
	"charvideo/fonts"
	"charvideo/pool"
	"charvideo/video"
)

const (
	TmpFramesDir = "tmp_frames"
	OutFramesDir = "out_frames"
	lockFileName = ".charvideo.lock"
)

// Toolkit is the external video toolkit the driver delegates to.
type Toolkit interface {
	Extract(ctx context.Context, videoPath, dir, ext string) error
	Probe(ctx context.Context, videoPath string) (video.ProbeResult, error)
	Reassemble(ctx context.Context, opts video.ReassembleOptions) error
}

// Options configures a Driver.
type Options struct {
	// WorkDir holds the tmp_frames and out_frames directories.
	WorkDir string
	// Output is the final video path; empty means output_<name> next to the input.
	Output       string
	Ext          string
	Workers      int
	DeleteFrames bool
	FontPath     string
	Render       filters.RenderOptions

	OnRenderStart func(total int)
	OnFrame       func(pool.FrameResult)
}

// Summary describes a finished run.
type Summary struct {
	Video       string
	Output      string
	FrameRate   int
	Audio       bool
	// Source is the probed video stream.
	Source      video.Stream
	Report      pool.Report
	Removed     int
	OutputBytes int64
	Elapsed     time.Duration
}

// Driver sequences extraction, rendering, reassembly and cleanup.
type Driver struct {
	opts   Options
	tools  Toolkit
	logger *slog.Logger
}

func New(opts Options, tools Toolkit, logger *slog.Logger) *Driver {
	if opts.Ext == "" {
		opts.Ext = video.DefaultExt
	}
	opts.Ext = video.NormalizeExt(opts.Ext)
	if logger == nil {
		logger = slog.Default()
	}
	return &Driver{opts: opts, tools: tools, logger: logger}
}

func (d *Driver) TmpDir() string { return filepath.Join(d.opts.WorkDir, TmpFramesDir) }
func (d *Driver) OutDir() string { return filepath.Join(d.opts.WorkDir, OutFramesDir) }

// DefaultOutput returns output_<name> in the directory of videoPath.
func DefaultOutput(videoPath string) string {
	return filepath.Join(filepath.Dir(videoPath), "output_"+filepath.Base(videoPath))
}

// Run converts videoPath. Each stage finishes before the next begins; the
// first failure is returned as a *StageError.
func (d *Driver) Run(ctx context.Context, videoPath string) (Summary, error) {
	start := time.Now()
	summary := Summary{Video: videoPath, Output: d.opts.Output}
	if summary.Output == "" {
		summary.Output = DefaultOutput(videoPath)
	}

	renderer, unlock, err := d.prepare(videoPath)
	if err != nil {
		return summary, stageErr(StagePrepare, err)
	}
	defer unlock()

	d.logger.Info("extracting frames", "stage", StageExtract, "video", videoPath, "dir", d.TmpDir())
	if err := d.tools.Extract(ctx, videoPath, d.TmpDir(), d.opts.Ext); err != nil {
		return summary, stageErr(StageExtract, err)
	}

	probe, err := d.tools.Probe(ctx, videoPath)
	if err != nil {
		return summary, stageErr(StageProbe, err)
	}
	rate, err := probe.FrameRate()
	if err != nil {
		return summary, stageErr(StageProbe, err)
	}
	if rate <= 0 {
		stream, _ := probe.VideoStream()
		return summary, stageErr(StageProbe, fmt.Errorf("frame rate %q truncates to %d", stream.RFrameRate, rate))
	}
	summary.FrameRate = rate
	summary.Audio = probe.HasAudio()
	summary.Source, _ = probe.VideoStream()
	d.logger.Info("probed video",
		"stage", StageProbe,
		"frame_rate", rate,
		"avg_frame_rate", summary.Source.AvgFrameRate,
		"codec", summary.Source.CodecName,
		"size", fmt.Sprintf("%dx%d", summary.Source.Width, summary.Source.Height),
		"audio", summary.Audio,
	)

	report, err := pool.Run(ctx, pool.Options{
		InputDir:  d.TmpDir(),
		OutputDir: d.OutDir(),
		Ext:       d.opts.Ext,
		Workers:   d.opts.Workers,
		Logger:    d.logger.With("stage", StageRender),
		OnStart:   d.opts.OnRenderStart,
		OnFrame:   d.opts.OnFrame,
	}, renderer.RenderFile)
	summary.Report = report
	if err != nil {
		return summary, stageErr(StageRender, err)
	}
	if report.Total == 0 {
		return summary, stageErr(StageRender, errors.New("extraction produced no frames"))
	}
	if report.Failed() > 0 {
		return summary, stageErr(StageRender, fmt.Errorf("%w: %d of %d frames failed", ErrPartialBatch, report.Failed(), report.Total))
	}

	d.logger.Info("reassembling video", "stage", StageReassemble, "output", summary.Output)
	if err := d.tools.Reassemble(ctx, video.ReassembleOptions{
		FramesDir: d.OutDir(),
		Ext:       d.opts.Ext,
		Video:     videoPath,
		Output:    summary.Output,
		FrameRate: rate,
		Audio:     summary.Audio,
	}); err != nil {
		return summary, stageErr(StageReassemble, err)
	}
	if info, err := os.Stat(summary.Output); err == nil {
		summary.OutputBytes = info.Size()
	}

	if d.opts.DeleteFrames {
		removed, err := d.cleanup()
		summary.Removed = removed
		if err != nil {
			return summary, stageErr(StageCleanup, err)
		}
		d.logger.Info("deleted intermediate frames", "stage", StageCleanup, "files", removed)
	}

	summary.Elapsed = time.Since(start)
	return summary, nil
}

// prepare validates inputs, builds the renderer, locks the work dir and
// clears frames left by an earlier run. The returned func releases the lock.
func (d *Driver) prepare(videoPath string) (*filters.AsciiFilter, func(), error) {
	info, err := os.Stat(videoPath)
	if err != nil {
		return nil, nil, fmt.Errorf("input video: %w", err)
	}
	if info.IsDir() {
		return nil, nil, fmt.Errorf("input video %s is a directory", videoPath)
	}

	renderer, err := NewRenderer(d.opts.Render, d.opts.FontPath)
	if err != nil {
		return nil, nil, err
	}

	for _, dir := range []string{d.TmpDir(), d.OutDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}

	lock := flock.New(filepath.Join(d.opts.WorkDir, lockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, nil, fmt.Errorf("work dir %s is in use by another run", d.opts.WorkDir)
	}
	unlock := func() {
		if err := lock.Unlock(); err != nil {
			d.logger.Warn("release lock", "error", err)
		}
	}

	stale, err := d.cleanup()
	if err != nil {
		unlock()
		return nil, nil, err
	}
	if stale > 0 {
		d.logger.Info("removed stale frames", "stage", StagePrepare, "files", stale)
	}
	return renderer, unlock, nil
}

func (d *Driver) cleanup() (int, error) {
	total := 0
	for _, dir := range []string{d.TmpDir(), d.OutDir()} {
		removed, err := video.ClearFrames(dir, d.opts.Ext)
		total += removed
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// NewRenderer loads the font at fontPath (the embedded face when empty) and
// returns a renderer for opts.
func NewRenderer(opts filters.RenderOptions, fontPath string) (*filters.AsciiFilter, error) {
	if opts.TextSize <= 0 {
		return nil, fmt.Errorf("%w: text size must be positive, got %d", filters.ErrInvalidArgument, opts.TextSize)
	}
	sprites, err := fonts.LoadSpriteSet(fontPath, opts.TextSize)
	if err != nil {
		return nil, err
	}
	return filters.NewAsciiFilter(opts, sprites)
}
