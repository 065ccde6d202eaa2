package pool

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"charvideo/video"
)

// RenderFunc converts the frame at src into the frame at dst. It is called
// concurrently from every worker.
type RenderFunc func(src, dst string) error

// Options configures one batch.
type Options struct {
	InputDir  string
	OutputDir string
	Ext       string
	Workers   int
	Logger    *slog.Logger

	// OnStart is called once with the number of frames before any worker runs.
	OnStart func(total int)
	// OnFrame is called after every frame from the worker that handled it.
	OnFrame func(FrameResult)
}

// FrameResult describes one finished frame.
type FrameResult struct {
	Frame   string
	Output  string
	Worker  int
	Err     error
	Elapsed time.Duration
}

type Failure struct {
	Frame string
	Err   error
}

// Report summarizes a batch.
type Report struct {
	Total    int
	Rendered int
	Workers  int
	Failures []Failure
	Elapsed  time.Duration
}

func (r Report) Failed() int { return len(r.Failures) }

// Run renders every frame in opts.InputDir into opts.OutputDir with exactly
// opts.Workers workers (runtime.NumCPU when zero or less).
//
// Frames are listed in name order and queued before the workers start, followed
// by one sentinel per worker. A frame that fails to render is recorded in the
// report and the worker moves on. Cancellation is checked between frames;
// Run returns ctx's error once every worker has stopped.
func Run(ctx context.Context, opts Options, render RenderFunc) (Report, error) {
	start := time.Now()
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ext := opts.Ext
	if ext == "" {
		ext = video.DefaultExt
	}

	frames, err := video.ListFrames(opts.InputDir, ext)
	if err != nil {
		return Report{}, err
	}
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return Report{}, fmt.Errorf("create output dir: %w", err)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	queue := NewQueue(len(frames) + workers)
	for _, frame := range frames {
		queue.Push(frame)
	}
	queue.Close(workers)

	if opts.OnStart != nil {
		opts.OnStart(len(frames))
	}
	logger.Info("rendering frames", "frames", len(frames), "workers", workers)

	var (
		mu     sync.Mutex
		report = Report{Total: len(frames), Workers: workers}
	)

	g, gctx := errgroup.WithContext(ctx)
	for w := range workers {
		g.Go(func() error {
			for {
				frame, ok := queue.Pop()
				if !ok {
					return nil
				}
				if err := gctx.Err(); err != nil {
					return err
				}

				began := time.Now()
				result := FrameResult{
					Frame:  frame,
					Output: video.OutputName(frame),
					Worker: w,
				}
				result.Err = render(
					filepath.Join(opts.InputDir, frame),
					filepath.Join(opts.OutputDir, result.Output),
				)
				result.Elapsed = time.Since(began)

				mu.Lock()
				if result.Err != nil {
					report.Failures = append(report.Failures, Failure{Frame: frame, Err: result.Err})
				} else {
					report.Rendered++
				}
				mu.Unlock()

				if result.Err != nil {
					logger.Warn("frame failed", "frame", frame, "worker", w, "error", result.Err)
				} else {
					logger.Debug("frame rendered", "frame", frame, "worker", w, "elapsed", result.Elapsed)
				}
				if opts.OnFrame != nil {
					opts.OnFrame(result)
				}
			}
		})
	}

	err = g.Wait()

	sort.Slice(report.Failures, func(i, j int) bool {
		return report.Failures[i].Frame < report.Failures[j].Frame
	})
	report.Elapsed = time.Since(start)
	return report, err
}
