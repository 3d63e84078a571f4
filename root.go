package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tkoivula/canvas-go/internal/canvas"
	"github.com/tkoivula/canvas-go/internal/config"
)

// version is set at build time via ldflags.
var version = "dev"

// Global persistent flags, bound in newRootCmd().
var (
	flagConfigPath  string
	flagBaseURL     string
	flagToken       string
	flagDownloadDir string
	flagParallel    int
	flagVerbose     bool
	flagQuiet       bool
	flagNoProgress  bool
)

// resolvedCfg holds the effective configuration loaded by
// PersistentPreRunE. Available to all subcommands after the pre-run phase.
var resolvedCfg *config.Resolved

// httpClientTimeout bounds individual HTTP requests so a hung connection
// cannot block the run indefinitely.
const httpClientTimeout = 60 * time.Second

// newRootCmd builds and returns the fully-assembled root command with all
// subcommands registered. Called once from main().
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "canvas-go",
		Short:   "Canvas LMS content downloader",
		Long:    "Mirror Canvas course modules and submission attachments to local disk,\nskipping anything already downloaded.",
		Version: version,
		// Silence Cobra's default error/usage printing — we handle it ourselves.
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return loadConfig()
		},
	}

	cmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "config file path")
	cmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "Canvas API root, e.g. https://school.instructure.com/api/v1")
	cmd.PersistentFlags().StringVar(&flagToken, "token", "", "Canvas personal access token")
	cmd.PersistentFlags().StringVar(&flagDownloadDir, "download-dir", "", "local download root (default \"downloads\")")
	cmd.PersistentFlags().IntVar(&flagParallel, "parallel", 0, "concurrent downloads (default 1, strictly sequential)")
	cmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "suppress informational output")
	cmd.PersistentFlags().BoolVar(&flagNoProgress, "no-progress", false, "disable the progress bar")

	cmd.AddCommand(newCoursesCmd())
	cmd.AddCommand(newModulesCmd())
	cmd.AddCommand(newSubmissionsCmd())

	return cmd
}

// loadConfig resolves the effective configuration from the four-layer
// override chain and stores the result in resolvedCfg.
func loadConfig() error {
	cli := config.CLIOverrides{
		ConfigPath:  flagConfigPath,
		BaseURL:     flagBaseURL,
		Token:       flagToken,
		DownloadDir: flagDownloadDir,
		Parallel:    flagParallel,
	}

	resolved, err := config.Resolve(config.ReadEnvOverrides(), cli)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	resolvedCfg = resolved

	return nil
}

// buildLogger creates an slog.Logger configured by the resolved config and
// CLI flags. Config-file log level provides the baseline; --verbose and
// --quiet override it because CLI flags always win.
func buildLogger() *slog.Logger {
	level := slog.LevelWarn

	if resolvedCfg != nil {
		switch resolvedCfg.LogLevel {
		case "debug":
			level = slog.LevelDebug
		case "info":
			level = slog.LevelInfo
		case "error":
			level = slog.LevelError
		}
	}

	if flagVerbose {
		level = slog.LevelDebug
	}

	if flagQuiet {
		level = slog.LevelError
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newAPIClient constructs the Canvas client from the resolved config.
func newAPIClient(logger *slog.Logger) *canvas.Client {
	httpClient := &http.Client{Timeout: httpClientTimeout}

	return canvas.NewClient(resolvedCfg.BaseURL, httpClient, canvas.StaticToken(resolvedCfg.Token), logger)
}
