package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	isync "github.com/tkoivula/canvas-go/internal/sync"
)

// printSummary renders the end-of-run tally to stderr. Suppressed by
// --quiet; failures are highlighted so they stand out in a long log.
func printSummary(summary *isync.Summary, root string) {
	if flagQuiet || summary == nil {
		return
	}

	fmt.Fprintf(os.Stderr, "\n%s downloaded, %d skipped (already present)",
		color.GreenString("%d", summary.Downloaded), summary.Skipped)

	if summary.Failed > 0 {
		fmt.Fprintf(os.Stderr, ", %s", color.RedString("%d failed", summary.Failed))
	}

	if summary.CoursesSkipped > 0 {
		fmt.Fprintf(os.Stderr, ", %s", color.YellowString("%d course(s) inaccessible", summary.CoursesSkipped))
	}

	fmt.Fprintf(os.Stderr, ".\nFiles are under %s.\n", root)
}
