package main

import (
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/tkoivula/canvas-go/internal/canvas"
	"github.com/tkoivula/canvas-go/internal/progress"
	isync "github.com/tkoivula/canvas-go/internal/sync"
)

// runSync wires the engine, progress bar, and runner together and executes
// the sync over the selected courses. defaultDelay applies unless the
// config overrides the courtesy delay.
func runSync(
	cmd *cobra.Command,
	client *canvas.Client,
	logger *slog.Logger,
	source isync.Source,
	selected []canvas.Course,
	defaultDelay time.Duration,
) error {
	delay := defaultDelay
	if resolvedCfg.Delay > 0 {
		delay = resolvedCfg.Delay
	}

	root := filepath.Join(resolvedCfg.DownloadDir, source.Subdir())
	engine := isync.NewEngine(client, root, delay, logger)

	bar := progress.New(progress.Options{
		Max:         int64(len(selected)),
		Description: "Courses",
		Disabled:    flagNoProgress,
		Quiet:       flagQuiet,
	})

	runner := isync.NewRunner(source, engine, resolvedCfg.Parallel, logger, bar)

	summary, err := runner.Run(cmd.Context(), selected)

	bar.Finish()

	printSummary(summary, root)

	return err
}
