package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tkoivula/canvas-go/internal/selector"
)

func newCoursesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "courses",
		Short: "List your courses with the numbers used by --course",
		Args:  cobra.NoArgs,
		RunE:  runCourses,
	}
}

func runCourses(cmd *cobra.Command, _ []string) error {
	logger := buildLogger()
	client := newAPIClient(logger)

	courses, err := client.ListCourses(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetching courses: %w", err)
	}

	if len(courses) == 0 {
		return errors.New("no courses found; check your token and permissions")
	}

	// Drop unpublished courses so the printed numbers line up with what
	// --course selects.
	courses, dropped := selector.Published(courses)
	if dropped > 0 {
		fmt.Fprintf(os.Stderr, "Skipping %d unpublished course(s).\n", dropped)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	for i, c := range courses {
		term := c.Term.Name
		if term == "" {
			term = "No Term"
		}

		fmt.Fprintf(w, "%d)\t%s\t[%s]\t%s\n", i+1, c.Name, term, c.WorkflowState)
	}

	return w.Flush()
}
