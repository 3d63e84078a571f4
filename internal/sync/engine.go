package sync

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	stdsync "sync"
	"time"
)

// Outcome is the result of syncing a single leaf file.
type Outcome int

const (
	OutcomeDownloaded Outcome = iota
	OutcomeSkipped
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDownloaded:
		return "downloaded"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Downloader streams the content at a URL to a writer. The canvas client
// satisfies this; tests substitute fakes.
type Downloader interface {
	Download(ctx context.Context, fileURL string, w io.Writer) (int64, error)
}

// Engine materializes leaf files under a root directory. A file that
// already exists at its destination is skipped without any network call —
// existence at the final path is the idempotency key, which is what makes
// interrupted runs resumable. Downloads stream to a temp file in the
// destination directory and rename into place, so the final path only
// ever holds complete content.
type Engine struct {
	downloader Downloader
	root       string
	pacer      *pacer
	logger     *slog.Logger

	// pathLocks serializes check-then-write per destination path so
	// parallel workers can never interleave on the same file.
	mu        stdsync.Mutex
	pathLocks map[string]*stdsync.Mutex
}

// NewEngine creates an engine writing under root with the given courtesy
// delay between successful downloads. The delay bounds the aggregate
// request rate against the remote service, shared across all workers.
func NewEngine(downloader Downloader, root string, delay time.Duration, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		downloader: downloader,
		root:       root,
		pacer:      newPacer(delay),
		logger:     logger,
		pathLocks:  make(map[string]*stdsync.Mutex),
	}
}

// Sync materializes one leaf file. Returns OutcomeSkipped when the
// destination already exists, OutcomeDownloaded on success, and
// OutcomeFailed with a non-nil error otherwise. A failure never aborts
// the run; the caller tallies it and moves on.
func (e *Engine) Sync(ctx context.Context, file LeafFile) (Outcome, error) {
	dest := filepath.Join(e.root, file.LocalPath)

	lock := e.lockFor(dest)
	lock.Lock()
	defer lock.Unlock()

	if info, err := os.Stat(dest); err == nil && info.Mode().IsRegular() {
		e.logger.Debug("skipping existing file", slog.String("path", dest))
		return OutcomeSkipped, nil
	}

	if err := e.download(ctx, file, dest); err != nil {
		return OutcomeFailed, err
	}

	// Courtesy pause before anyone's next transfer.
	e.pacer.bump()

	return OutcomeDownloaded, nil
}

func (e *Engine) download(ctx context.Context, file LeafFile, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", file.LocalPath, err)
	}

	if err := e.pacer.wait(ctx); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".partial-")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", file.LocalPath, err)
	}

	n, err := e.downloader.Download(ctx, file.URL, tmp)

	closeErr := tmp.Close()

	if err == nil {
		err = closeErr
	}

	if err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("downloading %s: %w", file.LocalPath, err)
	}

	if err := os.Rename(tmp.Name(), dest); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("finalizing %s: %w", file.LocalPath, err)
	}

	e.logger.Debug("downloaded file",
		slog.String("path", dest),
		slog.Int64("bytes", n),
	)

	return nil
}

func (e *Engine) lockFor(dest string) *stdsync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()

	lock, ok := e.pathLocks[dest]
	if !ok {
		lock = &stdsync.Mutex{}
		e.pathLocks[dest] = lock
	}

	return lock
}

// pacer spaces transfers one courtesy delay apart, shared by every worker
// so the aggregate rate stays bounded no matter the parallelism. Skips
// never touch it.
type pacer struct {
	delay time.Duration

	mu    stdsync.Mutex
	until time.Time

	// sleepFunc is overridden in tests to avoid real delays.
	sleepFunc func(ctx context.Context, d time.Duration) error
}

func newPacer(delay time.Duration) *pacer {
	return &pacer{
		delay:     delay,
		sleepFunc: sleepCtx,
	}
}

// wait claims the next transfer slot and blocks until it opens. Each
// caller atomically advances the shared deadline by one delay before
// sleeping, so concurrent workers get consecutive slots instead of all
// waking at the same deadline and transferring in a burst.
func (p *pacer) wait(ctx context.Context) error {
	if p.delay <= 0 {
		return nil
	}

	p.mu.Lock()

	now := time.Now()
	wake := p.until

	if wake.Before(now) {
		wake = now
	}

	p.until = wake.Add(p.delay)

	p.mu.Unlock()

	d := wake.Sub(now)
	if d <= 0 {
		return nil
	}

	return p.sleepFunc(ctx, d)
}

// bump extends the quiet period from a transfer's completion, so the
// pause after a long download still runs its full length.
func (p *pacer) bump() {
	if p.delay <= 0 {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if next := time.Now().Add(p.delay); next.After(p.until) {
		p.until = next
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
