package main

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"charvideo/pool"
)

// frameProgress drives a terminal progress bar from pool callbacks. A
// disabled frameProgress ignores every call.
type frameProgress struct {
	w       io.Writer
	enabled bool
	bar     *progressbar.ProgressBar
}

func newFrameProgress(w io.Writer, enabled bool) *frameProgress {
	return &frameProgress{w: w, enabled: enabled}
}

func (p *frameProgress) start(total int) {
	if !p.enabled || total == 0 {
		return
	}
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.w),
		progressbar.OptionSetDescription("rendering"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("frames"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionClearOnFinish(),
	)
}

// frame is called concurrently by workers; ProgressBar serializes Add.
func (p *frameProgress) frame(pool.FrameResult) {
	if p.bar != nil {
		_ = p.bar.Add(1)
	}
}

func (p *frameProgress) finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}
