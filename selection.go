package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tkoivula/canvas-go/internal/canvas"
	"github.com/tkoivula/canvas-go/internal/selector"
)

// Selection flags shared by the modules and submissions commands. They
// replace the interactive prompt of the original scripts: the prompt's
// answer arrives as flags and feeds the same pure selection functions.
var (
	flagSelectAll     bool
	flagSelectCourses []string
	flagSelectTerms   []string
	flagCurrentTerm   bool
)

func addSelectionFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&flagSelectAll, "all", false, "sync every published course")
	cmd.Flags().StringSliceVar(&flagSelectCourses, "course", nil, "course numbers from 'canvas-go courses' (1-based)")
	cmd.Flags().StringSliceVar(&flagSelectTerms, "term", nil, "sync courses in the named term(s)")
	cmd.Flags().BoolVar(&flagCurrentTerm, "current-term", false, "sync courses in the term containing today")
}

// fetchAndSelect fetches the course list, drops unpublished courses, and
// applies the selection flags. With no selection flag, every published
// course is selected. An empty result is fatal: a run that would sync
// nothing indicates unusable input.
func fetchAndSelect(cmd *cobra.Command, client *canvas.Client, logger *slog.Logger) ([]canvas.Course, error) {
	ctx := cmd.Context()

	courses, err := client.ListCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching courses: %w", err)
	}

	if len(courses) == 0 {
		return nil, errors.New("no courses found; check your token and permissions")
	}

	courses, dropped := selector.Published(courses)
	if dropped > 0 {
		logger.Info("skipping unpublished courses", slog.Int("count", dropped))
	}

	selected, err := applySelection(courses)
	if err != nil {
		return nil, err
	}

	if len(selected) == 0 {
		return nil, errors.New("selection matches no courses")
	}

	return selected, nil
}

func applySelection(courses []canvas.Course) ([]canvas.Course, error) {
	if err := checkExclusive(); err != nil {
		return nil, err
	}

	switch {
	case len(flagSelectCourses) > 0:
		return selector.ByIndex(courses, flagSelectCourses)

	case len(flagSelectTerms) > 0:
		return selector.ByTerm(courses, flagSelectTerms)

	case flagCurrentTerm:
		selected, err := selector.CurrentTerm(courses, time.Now().UTC())
		if errors.Is(err, selector.ErrNoCurrentTerm) {
			// Auto-detection found nothing; point the user at explicit
			// term selection instead of failing opaquely.
			return nil, fmt.Errorf("could not detect the current term; pick one with --term (available: %s)",
				strings.Join(selector.TermNames(courses), ", "))
		}

		return selected, err

	default:
		return selector.All(courses), nil
	}
}

func checkExclusive() error {
	set := 0
	for _, on := range []bool{flagSelectAll, len(flagSelectCourses) > 0, len(flagSelectTerms) > 0, flagCurrentTerm} {
		if on {
			set++
		}
	}

	if set > 1 {
		return errors.New("pick one of --all, --course, --term, --current-term")
	}

	return nil
}
