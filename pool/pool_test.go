package pool

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"charvideo/filters"
	"charvideo/fonts"
	"charvideo/helpers"
	"charvideo/video"
)

func seedFrames(t *testing.T, dir string, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		if err := os.WriteFile(filepath.Join(dir, video.FrameName(i, "jpg")), []byte("frame"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

// copyRender stands in for the renderer: it copies src to dst.
func copyRender(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}

func assertOutputs(t *testing.T, in, out string) {
	t.Helper()
	frames, err := video.ListFrames(in, "jpg")
	if err != nil {
		t.Fatal(err)
	}
	outputs, err := video.ListFrames(out, "jpg")
	if err != nil {
		t.Fatal(err)
	}
	if len(outputs) != len(frames) {
		t.Fatalf("outputs = %d, frames = %d", len(outputs), len(frames))
	}
	for i, frame := range frames {
		if outputs[i] != video.OutputName(frame) {
			t.Fatalf("outputs[%d] = %q, want %q", i, outputs[i], video.OutputName(frame))
		}
	}
}

func TestRunProcessesEveryFrame(t *testing.T) {
	const frames = 7
	for _, workers := range []int{1, 3, frames, frames + 5} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			in, out := t.TempDir(), filepath.Join(t.TempDir(), "out")
			seedFrames(t, in, frames)

			report, err := Run(context.Background(), Options{InputDir: in, OutputDir: out, Ext: "jpg", Workers: workers}, copyRender)
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if report.Total != frames || report.Rendered != frames || report.Failed() != 0 {
				t.Fatalf("report = %+v", report)
			}
			if report.Workers != workers {
				t.Fatalf("workers = %d", report.Workers)
			}
			assertOutputs(t, in, out)
		})
	}
}

func TestRunFiveFramesThreeWorkers(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	seedFrames(t, in, 5)

	var (
		mu   sync.Mutex
		seen = map[int]int{}
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := Run(context.Background(), Options{
			InputDir:  in,
			OutputDir: out,
			Workers:   3,
			OnFrame: func(r FrameResult) {
				mu.Lock()
				seen[r.Worker]++
				mu.Unlock()
			},
		}, copyRender)
		if err != nil {
			t.Errorf("Run: %v", err)
		}
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("scheduler did not terminate")
	}

	total := 0
	for w, n := range seen {
		if w < 0 || w >= 3 {
			t.Fatalf("unexpected worker id %d", w)
		}
		total += n
	}
	if total != 5 {
		t.Fatalf("frames reported = %d", total)
	}
	assertOutputs(t, in, out)
}

func TestRunEmptyDirectory(t *testing.T) {
	var started atomic.Int32
	report, err := Run(context.Background(), Options{
		InputDir:  t.TempDir(),
		OutputDir: t.TempDir(),
		Workers:   4,
		OnStart:   func(total int) { started.Store(int32(total) + 1) },
	}, copyRender)
	if err != nil {
		t.Fatal(err)
	}
	if report.Total != 0 || started.Load() != 1 {
		t.Fatalf("report = %+v, started = %d", report, started.Load())
	}
}

func TestRunDefaultsWorkersToCPUCount(t *testing.T) {
	in := t.TempDir()
	seedFrames(t, in, 2)
	report, err := Run(context.Background(), Options{InputDir: in, OutputDir: t.TempDir()}, copyRender)
	if err != nil {
		t.Fatal(err)
	}
	if report.Workers != runtime.NumCPU() {
		t.Fatalf("workers = %d, want %d", report.Workers, runtime.NumCPU())
	}
}

func TestRunSkipsFailedFrames(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	seedFrames(t, in, 6)
	bad := map[string]bool{video.FrameName(2, "jpg"): true, video.FrameName(5, "jpg"): true}

	report, err := Run(context.Background(), Options{InputDir: in, OutputDir: out, Workers: 2}, func(src, dst string) error {
		if bad[filepath.Base(src)] {
			return errors.New("corrupt frame")
		}
		return copyRender(src, dst)
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Rendered != 4 || report.Failed() != 2 {
		t.Fatalf("report = %+v", report)
	}
	if report.Failures[0].Frame != video.FrameName(2, "jpg") || report.Failures[1].Frame != video.FrameName(5, "jpg") {
		t.Fatalf("failures = %+v", report.Failures)
	}
}

func TestRunStopsBetweenFramesOnCancel(t *testing.T) {
	in := t.TempDir()
	seedFrames(t, in, 50)

	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	report, err := Run(ctx, Options{InputDir: in, OutputDir: t.TempDir(), Workers: 2}, func(src, dst string) error {
		if calls.Add(1) == 3 {
			cancel()
		}
		return copyRender(src, dst)
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if report.Rendered >= 50 {
		t.Fatalf("rendered %d frames after cancellation", report.Rendered)
	}
	// In-flight frames finish; no frame is abandoned halfway.
	if int(calls.Load()) != report.Rendered {
		t.Fatalf("calls = %d, rendered = %d", calls.Load(), report.Rendered)
	}
}

func TestRunMissingInputDir(t *testing.T) {
	_, err := Run(context.Background(), Options{InputDir: filepath.Join(t.TempDir(), "nope"), OutputDir: t.TempDir()}, copyRender)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestRunWithRenderer(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	for i := 1; i <= 4; i++ {
		img := image.NewRGBA(image.Rect(0, 0, 16, 8))
		helpers.Fill(img, img.Bounds(), image.NewUniform(color.RGBA{R: uint8(i * 60), G: 40, B: 90, A: 255}))
		if err := helpers.SaveImage(filepath.Join(in, video.FrameName(i, "png")), img, 0); err != nil {
			t.Fatal(err)
		}
	}

	sprites, err := fonts.LoadSpriteSet("", 4)
	if err != nil {
		t.Fatal(err)
	}
	renderer, err := filters.NewAsciiFilter(filters.RenderOptions{TextSize: 4, BlockSize: 2, Mosaic: true, Width: 8, Height: 4}, sprites)
	if err != nil {
		t.Fatal(err)
	}

	report, err := Run(context.Background(), Options{InputDir: in, OutputDir: out, Ext: "png", Workers: 3}, renderer.RenderFile)
	if err != nil {
		t.Fatal(err)
	}
	if report.Rendered != 4 {
		t.Fatalf("report = %+v", report)
	}
	for i := 1; i <= 4; i++ {
		img, err := helpers.LoadImage(filepath.Join(out, video.OutputName(video.FrameName(i, "png"))))
		if err != nil {
			t.Fatal(err)
		}
		if img.Bounds() != image.Rect(0, 0, 32, 16) {
			t.Fatalf("frame %d bounds = %v", i, img.Bounds())
		}
	}
}

func TestQueueSentinels(t *testing.T) {
	q := NewQueue(4)
	q.Push("a")
	q.Push("b")
	q.Close(2)
	if q.Len() != 4 {
		t.Fatalf("len = %d", q.Len())
	}
	for _, want := range []string{"a", "b"} {
		got, ok := q.Pop()
		if !ok || got != want {
			t.Fatalf("Pop = %q, %v", got, ok)
		}
	}
	for range 2 {
		if _, ok := q.Pop(); ok {
			t.Fatal("expected sentinel")
		}
	}
}
