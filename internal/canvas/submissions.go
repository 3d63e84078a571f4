package canvas

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
)

// Submission is the user's own submission for one assignment, with every
// attachment from the submission history flattened in.
type Submission struct {
	AssignmentID   int64
	AssignmentName string
	Attachments    []Attachment
}

// Attachment is an uploaded file on a submission.
type Attachment struct {
	Filename    string
	DisplayName string
	URL         string
}

type submissionResponse struct {
	AssignmentID int64                `json:"assignment_id"`
	Assignment   *assignmentResponse  `json:"assignment"`
	Attachments  []attachmentResponse `json:"attachments"`
	History      []historyResponse    `json:"submission_history"`
}

type assignmentResponse struct {
	Name string `json:"name"`
}

type historyResponse struct {
	Attachments []attachmentResponse `json:"attachments"`
}

type attachmentResponse struct {
	Filename    string `json:"filename"`
	DisplayName string `json:"display_name"`
	URL         string `json:"url"`
}

// toSubmission flattens history attachments plus top-level attachments,
// de-duplicating by URL: resubmitted files reappear in every subsequent
// history entry.
func (sr *submissionResponse) toSubmission() Submission {
	sub := Submission{
		AssignmentID: sr.AssignmentID,
	}

	if sr.Assignment != nil {
		sub.AssignmentName = sr.Assignment.Name
	}

	seen := make(map[string]bool)

	appendUnique := func(atts []attachmentResponse) {
		for _, att := range atts {
			if att.URL == "" || seen[att.URL] {
				continue
			}

			seen[att.URL] = true
			sub.Attachments = append(sub.Attachments, Attachment(att))
		}
	}

	for _, hist := range sr.History {
		appendUnique(hist.Attachments)
	}

	appendUnique(sr.Attachments)

	return sub
}

// ListSubmissions fetches the user's own submissions for a course with
// submission history and assignment data embedded. The endpoint paginates
// via the Link header rather than explicit page numbers.
func (c *Client) ListSubmissions(ctx context.Context, courseID int64) ([]Submission, error) {
	params := url.Values{
		"student_ids[]": {"self"},
		"include[]":     {"submission_history", "assignment"},
	}

	path := "/courses/" + strconv.FormatInt(courseID, 10) + "/students/submissions"

	raw, err := c.getAllLink(ctx, path, params)
	if err != nil {
		return nil, err
	}

	subs := make([]Submission, 0, len(raw))

	for _, msg := range raw {
		var sr submissionResponse
		if err := json.Unmarshal(msg, &sr); err != nil {
			return nil, fmt.Errorf("canvas: decoding submission: %w", err)
		}

		subs = append(subs, sr.toSubmission())
	}

	c.logger.Debug("fetched submissions",
		slog.Int64("course_id", courseID),
		slog.Int("count", len(subs)),
	)

	return subs, nil
}
