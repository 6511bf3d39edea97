package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

type Bar struct {
	*progressbar.ProgressBar
}

func NewBar(w io.Writer, max int, description string) *Bar {
	bar := progressbar.NewOptions(max,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionThrottle(50*time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(w)
		}),
	)

	return &Bar{ProgressBar: bar}
}

// Update moves the bar to completed out of total. It matches the generator's
// progress callback.
func (b *Bar) Update(completed, total int) {
	if b.ProgressBar == nil {
		return
	}
	if b.GetMax() != total {
		b.ChangeMax(total)
	}
	_ = b.Set(completed)
}

func (b *Bar) Finish() {
	if b.ProgressBar == nil {
		return
	}
	_ = b.ProgressBar.Finish()
}
