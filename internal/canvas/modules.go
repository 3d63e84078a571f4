package canvas

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
)

// Item types reported by the modules endpoint. Only files are downloadable;
// everything else (pages, discussions, external URLs) is ignored by sync.
const ItemTypeFile = "File"

// Module is a course module with its item references included.
type Module struct {
	ID    int64
	Name  string
	Items []ModuleItem
}

// ModuleItem is a reference to a resource inside a module. For file items,
// ContentID keys the /files/{id} metadata endpoint.
type ModuleItem struct {
	Type      string
	Title     string
	ContentID int64
}

// File is resolved file metadata: a display name plus a pre-authorized
// download URL.
type File struct {
	DisplayName string
	URL         string
}

type moduleResponse struct {
	ID    int64                `json:"id"`
	Name  string               `json:"name"`
	Items []moduleItemResponse `json:"items"`
}

type moduleItemResponse struct {
	Type      string `json:"type"`
	Title     string `json:"title"`
	ContentID int64  `json:"content_id"`
}

type fileResponse struct {
	DisplayName string `json:"display_name"`
	URL         string `json:"url"`
}

// ListModules fetches a course's modules with their items embedded, in
// server order. Courses the token cannot access return ErrForbidden via
// the transport; callers treat that as skip-this-course.
func (c *Client) ListModules(ctx context.Context, courseID int64) ([]Module, error) {
	params := url.Values{
		"include[]": {"items"},
	}

	path := "/courses/" + strconv.FormatInt(courseID, 10) + "/modules"

	raw, err := c.getAllPaged(ctx, path, params)
	if err != nil {
		return nil, err
	}

	modules := make([]Module, 0, len(raw))

	for _, msg := range raw {
		var mr moduleResponse
		if err := json.Unmarshal(msg, &mr); err != nil {
			return nil, fmt.Errorf("canvas: decoding module: %w", err)
		}

		module := Module{
			ID:    mr.ID,
			Name:  mr.Name,
			Items: make([]ModuleItem, 0, len(mr.Items)),
		}

		for _, item := range mr.Items {
			module.Items = append(module.Items, ModuleItem(item))
		}

		modules = append(modules, module)
	}

	c.logger.Debug("fetched modules",
		slog.Int64("course_id", courseID),
		slog.Int("count", len(modules)),
	)

	return modules, nil
}

// GetFile resolves a file content ID to its display name and download URL.
func (c *Client) GetFile(ctx context.Context, fileID int64) (*File, error) {
	var fr fileResponse
	if err := c.getJSON(ctx, "/files/"+strconv.FormatInt(fileID, 10), nil, &fr); err != nil {
		return nil, err
	}

	return &File{
		DisplayName: fr.DisplayName,
		URL:         fr.URL,
	}, nil
}
