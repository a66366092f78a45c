package progress

import (
	"io"

	"github.com/schollz/progressbar/v3"
)

// barObserver renders download progress on a terminal, one bar per file.
type barObserver struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

func NewBarObserver(w io.Writer) *barObserver {
	return &barObserver{w: w}
}

func (b *barObserver) Start(name string, total int64) {
	limit := total
	if limit == 0 {
		// Unknown length renders as a spinner.
		limit = -1
	}

	b.bar = progressbar.NewOptions64(limit,
		progressbar.OptionSetWriter(b.w),
		progressbar.OptionSetDescription(name),
		progressbar.OptionShowBytes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(0),
		progressbar.OptionOnCompletion(func() {
			_, _ = io.WriteString(b.w, "\n")
		}),
	)
}

func (b *barObserver) Progress(written, _ int64) {
	if b.bar == nil {
		return
	}

	_ = b.bar.Set64(written)
}

func (b *barObserver) Finish(err error) {
	if b.bar == nil {
		return
	}

	if err != nil {
		_ = b.bar.Exit()
	} else {
		_ = b.bar.Finish()
	}

	b.bar = nil
}
