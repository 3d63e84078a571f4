// Package progress renders a per-course progress bar with log lines woven
// around it, the terminal equivalent of tqdm.write in the original
// scripts. When stderr is not a terminal (CI, pipes) the bar is disabled
// and lines print plainly.
package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// Bar tracks progress over a fixed number of courses and accepts textual
// status lines. It satisfies sync.StatusSink.
type Bar struct {
	bar     *progressbar.ProgressBar
	writer  io.Writer
	enabled bool
	quiet   bool
}

// Options configures the bar.
type Options struct {
	// Max is the total step count (number of courses).
	Max int64
	// Description is the prefix shown before the bar.
	Description string
	// Writer is the output destination. Defaults to os.Stderr.
	Writer io.Writer
	// Disabled forces plain-line output regardless of TTY detection.
	Disabled bool
	// Quiet suppresses status lines entirely. It implies Disabled.
	Quiet bool
}

// New creates a progress bar. The bar renders only when the writer is a
// terminal and Disabled is false; otherwise status lines still print but
// no bar is drawn.
func New(opts Options) *Bar {
	if opts.Writer == nil {
		opts.Writer = os.Stderr
	}

	enabled := !opts.Disabled && !opts.Quiet && writerIsTerminal(opts.Writer)

	b := &Bar{
		writer:  opts.Writer,
		enabled: enabled,
		quiet:   opts.Quiet,
	}

	if !enabled {
		return b
	}

	b.bar = progressbar.NewOptions64(
		opts.Max,
		progressbar.OptionSetDescription(opts.Description),
		progressbar.OptionSetWriter(opts.Writer),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(15),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(opts.Writer, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)

	return b
}

// Add advances the bar by n steps.
func (b *Bar) Add(n int) {
	if !b.enabled {
		return
	}

	_ = b.bar.Add(n)
}

// Logf prints a status line without corrupting the bar: the bar is
// cleared, the line printed, and the bar redrawn beneath it. Quiet bars
// print nothing.
func (b *Bar) Logf(format string, args ...any) {
	if b.quiet {
		return
	}

	if !b.enabled {
		fmt.Fprintf(b.writer, format+"\n", args...)
		return
	}

	_ = b.bar.Clear()
	fmt.Fprintf(b.writer, format+"\n", args...)
	_ = b.bar.RenderBlank()
}

// Finish completes the bar.
func (b *Bar) Finish() {
	if !b.enabled {
		return
	}

	_ = b.bar.Finish()
}

func writerIsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
