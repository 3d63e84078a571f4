package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/tkoivula/canvas-go/internal/canvas"
)

// ErrNothingSynced is returned by Run when every selected course had to be
// skipped for access reasons, so the run accomplished nothing.
var ErrNothingSynced = errors.New("sync: no accessible courses in selection")

// StatusSink receives human-readable progress lines. The CLI's progress
// bar implements it; tests capture lines in a slice.
type StatusSink interface {
	Logf(format string, args ...any)
}

// ProgressSink is an optional extension of StatusSink: sinks that also
// implement it are advanced once per processed course.
type ProgressSink interface {
	StatusSink
	Add(n int)
}

// Summary tallies a run's outcomes for the final report and the exit
// decision.
type Summary struct {
	Downloaded     int64
	Skipped        int64
	Failed         int64
	CoursesSynced  int
	CoursesSkipped int
}

// Runner walks the selected courses in discovery order, resolves each one
// through the source, and hands every leaf file to the engine. Courses the
// token cannot access are skipped with a warning; any other resolution
// failure is fatal. Within one course, downloads run through a bounded
// worker pool (parallel=1 reproduces strictly sequential behavior).
type Runner struct {
	source   Source
	engine   *Engine
	parallel int
	logger   *slog.Logger
	sink     StatusSink
}

func NewRunner(source Source, engine *Engine, parallel int, logger *slog.Logger, sink StatusSink) *Runner {
	if parallel < 1 {
		parallel = 1
	}

	if logger == nil {
		logger = slog.Default()
	}

	if sink == nil {
		sink = nopSink{}
	}

	return &Runner{
		source:   source,
		engine:   engine,
		parallel: parallel,
		logger:   logger,
		sink:     sink,
	}
}

// Run syncs every course and returns the tally. The returned error is
// non-nil only for run-fatal conditions; per-file and per-course failures
// are recorded in the summary instead.
func (r *Runner) Run(ctx context.Context, courses []canvas.Course) (*Summary, error) {
	summary := &Summary{}

	for _, course := range courses {
		groups, err := r.source.Groups(ctx, course)
		if err != nil {
			// Access is granted per course, so a 403 here means this
			// course only — the rest of the run proceeds.
			if errors.Is(err, canvas.ErrForbidden) {
				r.logger.Warn("no access to course content, skipping",
					slog.Int64("course_id", course.ID),
					slog.String("course", course.Name),
				)
				r.sink.Logf("Skipping %s: access denied", course.Name)

				summary.CoursesSkipped++
				r.advance()

				continue
			}

			return summary, fmt.Errorf("resolving course %q: %w", course.Name, err)
		}

		r.syncCourse(ctx, course, groups, summary)

		if ctx.Err() != nil {
			return summary, ctx.Err()
		}

		summary.CoursesSynced++
		r.advance()
	}

	if summary.CoursesSynced == 0 && summary.CoursesSkipped > 0 {
		return summary, ErrNothingSynced
	}

	return summary, nil
}

func (r *Runner) syncCourse(ctx context.Context, course canvas.Course, groups []Group, summary *Summary) {
	var downloaded, skipped, failed atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.parallel)

	for _, group := range groups {
		for _, file := range group.Files {
			g.Go(func() error {
				outcome, err := r.engine.Sync(ctx, file)

				switch outcome {
				case OutcomeDownloaded:
					downloaded.Add(1)
					r.sink.Logf("Downloaded: %s", file.LocalPath)
				case OutcomeSkipped:
					skipped.Add(1)
					r.sink.Logf("Skipping (exists): %s", file.LocalPath)
				case OutcomeFailed:
					failed.Add(1)
					r.logger.Warn("download failed",
						slog.String("course", course.Name),
						slog.String("group", group.Name),
						slog.String("file", file.DisplayName),
						slog.String("error", err.Error()),
					)
					r.sink.Logf("Failed: %s (%v)", file.LocalPath, err)
				}

				// Failures are isolated to the file; only cancellation
				// stops the pool.
				return ctx.Err()
			})
		}
	}

	// The only error workers return is context cancellation, which the
	// caller checks; outcomes are already tallied.
	_ = g.Wait()

	summary.Downloaded += downloaded.Load()
	summary.Skipped += skipped.Load()
	summary.Failed += failed.Load()
}

// advance moves the progress indicator one course forward when the sink
// supports it.
func (r *Runner) advance() {
	if adv, ok := r.sink.(ProgressSink); ok {
		adv.Add(1)
	}
}

type nopSink struct{}

func (nopSink) Logf(string, ...any) {}
