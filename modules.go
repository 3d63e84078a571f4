package main

import (
	"time"

	"github.com/spf13/cobra"

	isync "github.com/tkoivula/canvas-go/internal/sync"
)

// moduleDownloadDelay is the default courtesy pause after each successful
// module file download.
const moduleDownloadDelay = 500 * time.Millisecond

func newModulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "modules",
		Short: "Download module files into downloads/<Course>/<Module>/",
		Args:  cobra.NoArgs,
		RunE:  runModules,
	}

	addSelectionFlags(cmd)

	return cmd
}

func runModules(cmd *cobra.Command, _ []string) error {
	logger := buildLogger()
	client := newAPIClient(logger)

	selected, err := fetchAndSelect(cmd, client, logger)
	if err != nil {
		return err
	}

	source := isync.NewModuleSource(client, logger)

	return runSync(cmd, client, logger, source, selected, moduleDownloadDelay)
}
