package canvas

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"time"
)

// Course is a normalized Canvas course with its enrollment term.
type Course struct {
	ID            int64
	Name          string
	WorkflowState string
	Term          Term
}

// Term is an enrollment term. Start/End are zero when the API omits them.
type Term struct {
	Name  string
	Start time.Time
	End   time.Time
}

// Contains reports whether t's interval covers the given instant.
// Terms without both bounds never contain anything.
func (t Term) Contains(now time.Time) bool {
	if t.Start.IsZero() || t.End.IsZero() {
		return false
	}

	return !now.Before(t.Start) && !now.After(t.End)
}

// courseResponse mirrors the Canvas course JSON exactly.
// Unexported — callers use Course via toCourse() normalization.
type courseResponse struct {
	ID            int64         `json:"id"`
	Name          string        `json:"name"`
	WorkflowState string        `json:"workflow_state"`
	Term          *termResponse `json:"term"`
}

type termResponse struct {
	Name    string `json:"name"`
	StartAt string `json:"start_at"`
	EndAt   string `json:"end_at"`
}

func (cr *courseResponse) toCourse(logger *slog.Logger) Course {
	course := Course{
		ID:            cr.ID,
		Name:          cr.Name,
		WorkflowState: cr.WorkflowState,
	}

	if cr.Term != nil {
		course.Term = Term{
			Name:  cr.Term.Name,
			Start: parseTime(cr.Term.StartAt, logger),
			End:   parseTime(cr.Term.EndAt, logger),
		}
	}

	return course
}

// parseTime parses an RFC3339 timestamp, returning the zero time for empty
// or malformed values. Canvas omits term bounds for ongoing terms.
func parseTime(s string, logger *slog.Logger) time.Time {
	if s == "" {
		return time.Time{}
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		logger.Warn("unparseable timestamp in API response",
			slog.String("value", s),
			slog.String("error", err.Error()),
		)

		return time.Time{}
	}

	return t
}

// ListCourses fetches every course the token's user is enrolled in, across
// all enrollment and workflow states, with term data included. Uses the
// page-counter pagination strategy because the courses endpoint supports
// explicit page numbers.
func (c *Client) ListCourses(ctx context.Context) ([]Course, error) {
	params := url.Values{
		"include[]": {"term"},
		"enrollment_state[]": {
			"active",
			"invited_or_pending",
			"completed",
		},
		"state[]": {"all"},
	}

	raw, err := c.getAllPaged(ctx, "/courses", params)
	if err != nil {
		return nil, err
	}

	courses := make([]Course, 0, len(raw))

	for _, msg := range raw {
		var cr courseResponse
		if err := json.Unmarshal(msg, &cr); err != nil {
			return nil, fmt.Errorf("canvas: decoding course: %w", err)
		}

		courses = append(courses, cr.toCourse(c.logger))
	}

	c.logger.Info("fetched courses", slog.Int("count", len(courses)))

	return courses, nil
}
