package main

import (
	"time"

	"github.com/spf13/cobra"

	isync "github.com/tkoivula/canvas-go/internal/sync"
)

// submissionDownloadDelay is the default courtesy pause after each
// successful attachment download. Attachments are small, so the original
// scripts paced them faster than module files.
const submissionDownloadDelay = 200 * time.Millisecond

func newSubmissionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submissions",
		Short: "Download your submission attachments into downloads/submissions/<Course>/<Assignment>/",
		Args:  cobra.NoArgs,
		RunE:  runSubmissions,
	}

	addSelectionFlags(cmd)

	return cmd
}

func runSubmissions(cmd *cobra.Command, _ []string) error {
	logger := buildLogger()
	client := newAPIClient(logger)

	selected, err := fetchAndSelect(cmd, client, logger)
	if err != nil {
		return err
	}

	source := isync.NewSubmissionSource(client, logger)

	return runSync(cmd, client, logger, source, selected, submissionDownloadDelay)
}
