package sync

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"

	"github.com/tkoivula/canvas-go/internal/canvas"
)

// LeafFile is a fully resolved download target.
type LeafFile struct {
	DisplayName string
	URL         string
	// LocalPath is the destination relative to the engine's root:
	// <course>/<group>/<file>, every segment already sanitized.
	LocalPath string
}

// Group is a named collection of leaf files inside one course — a module
// for module sync, an assignment for submission sync.
type Group struct {
	Name  string
	Files []LeafFile
}

// Source resolves one course into its groups of downloadable files. The
// two implementations cover the two content trees Canvas exposes: module
// file items and submission attachments.
//
// Contract: a canvas.ErrForbidden from the course-level listing must
// propagate unwrapped so the caller can skip the course. Failures scoped
// to a single item are logged and swallowed — one broken item must not
// block its siblings.
type Source interface {
	// Subdir is the path prefix under the download root ("" for modules,
	// "submissions" for submission sync).
	Subdir() string
	Groups(ctx context.Context, course canvas.Course) ([]Group, error)
}

// ModuleAPI is the slice of the Canvas client module sync needs.
type ModuleAPI interface {
	ListModules(ctx context.Context, courseID int64) ([]canvas.Module, error)
	GetFile(ctx context.Context, fileID int64) (*canvas.File, error)
}

// SubmissionAPI is the slice of the Canvas client submission sync needs.
type SubmissionAPI interface {
	ListSubmissions(ctx context.Context, courseID int64) ([]canvas.Submission, error)
}

// ModuleSource resolves course modules into groups of file items. Non-file
// module items (pages, discussions, external links) are ignored.
type ModuleSource struct {
	api    ModuleAPI
	logger *slog.Logger
}

func NewModuleSource(api ModuleAPI, logger *slog.Logger) *ModuleSource {
	if logger == nil {
		logger = slog.Default()
	}

	return &ModuleSource{api: api, logger: logger}
}

func (s *ModuleSource) Subdir() string { return "" }

func (s *ModuleSource) Groups(ctx context.Context, course canvas.Course) ([]Group, error) {
	modules, err := s.api.ListModules(ctx, course.ID)
	if err != nil {
		return nil, fmt.Errorf("listing modules for course %d: %w", course.ID, err)
	}

	courseName := SanitizeName(course.Name)
	groups := make([]Group, 0, len(modules))

	for _, module := range modules {
		name := module.Name
		if name == "" {
			name = "Unnamed Module"
		}

		group := Group{Name: SanitizeName(name)}

		for _, item := range module.Items {
			if item.Type != canvas.ItemTypeFile {
				continue
			}

			file, err := s.api.GetFile(ctx, item.ContentID)
			if err != nil {
				// Isolated to this item: siblings still resolve.
				s.logger.Warn("failed to resolve file item",
					slog.String("course", course.Name),
					slog.String("module", module.Name),
					slog.String("item", item.Title),
					slog.Int64("content_id", item.ContentID),
					slog.String("error", err.Error()),
				)

				continue
			}

			group.Files = append(group.Files, LeafFile{
				DisplayName: file.DisplayName,
				URL:         file.URL,
				LocalPath:   filepath.Join(courseName, group.Name, SanitizeName(file.DisplayName)),
			})
		}

		groups = append(groups, group)
	}

	return groups, nil
}

// SubmissionSource resolves the user's submission attachments, grouped by
// assignment.
type SubmissionSource struct {
	api    SubmissionAPI
	logger *slog.Logger
}

func NewSubmissionSource(api SubmissionAPI, logger *slog.Logger) *SubmissionSource {
	if logger == nil {
		logger = slog.Default()
	}

	return &SubmissionSource{api: api, logger: logger}
}

func (s *SubmissionSource) Subdir() string { return "submissions" }

func (s *SubmissionSource) Groups(ctx context.Context, course canvas.Course) ([]Group, error) {
	subs, err := s.api.ListSubmissions(ctx, course.ID)
	if err != nil {
		return nil, fmt.Errorf("listing submissions for course %d: %w", course.ID, err)
	}

	courseName := SanitizeName(course.Name)

	var groups []Group

	for _, sub := range subs {
		if len(sub.Attachments) == 0 {
			continue
		}

		name := sub.AssignmentName
		if name == "" {
			name = "assignment_" + strconv.FormatInt(sub.AssignmentID, 10)
		}

		group := Group{Name: SanitizeName(name)}

		for _, att := range sub.Attachments {
			displayName := att.Filename
			if displayName == "" {
				displayName = att.DisplayName
			}

			if displayName == "" {
				displayName = filepath.Base(att.URL)
			}

			group.Files = append(group.Files, LeafFile{
				DisplayName: displayName,
				URL:         att.URL,
				LocalPath:   filepath.Join(courseName, group.Name, SanitizeName(displayName)),
			})
		}

		groups = append(groups, group)
	}

	return groups, nil
}
