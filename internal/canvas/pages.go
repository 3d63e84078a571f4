package canvas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
)

// perPage is the page size requested for every collection fetch.
// 100 is the maximum Canvas honors for most endpoints.
const perPage = 100

// getAllLink fetches every page of a Link-header paginated collection and
// returns the concatenated raw elements in server order. Query parameters
// are sent only on the first request; continuation URLs from the Link
// header already encode them. Any transport failure aborts the whole fetch.
func (c *Client) getAllLink(ctx context.Context, path string, params url.Values) ([]json.RawMessage, error) {
	merged := cloneValues(params)
	if merged.Get("per_page") == "" {
		merged.Set("per_page", strconv.Itoa(perPage))
	}

	var all []json.RawMessage

	next := path
	page := 1

	for next != "" {
		resp, err := c.Get(ctx, next, merged)
		if err != nil {
			return nil, fmt.Errorf("canvas: fetching page %d of %s: %w", page, path, err)
		}

		body, readErr := io.ReadAll(resp.Body)
		link := resp.Header.Get("Link")
		resp.Body.Close()

		if readErr != nil {
			return nil, fmt.Errorf("canvas: reading page %d of %s: %w", page, path, readErr)
		}

		batch, decodeErr := decodeCollection(body)
		if decodeErr != nil {
			return nil, fmt.Errorf("canvas: decoding page %d of %s: %w", page, path, decodeErr)
		}

		all = append(all, batch...)

		next = parseNextLink(link)
		merged = nil
		page++
	}

	c.logger.Debug("collection fetch complete",
		slog.String("path", path),
		slog.Int("items", len(all)),
		slog.Int("pages", page-1),
	)

	return all, nil
}

// getAllPaged fetches every page of a page-counter paginated collection.
// It increments page=N until a page comes back with fewer than per_page
// elements, which marks the final page. An empty first page yields an
// empty result.
func (c *Client) getAllPaged(ctx context.Context, path string, params url.Values) ([]json.RawMessage, error) {
	var all []json.RawMessage

	for page := 1; ; page++ {
		merged := cloneValues(params)
		merged.Set("per_page", strconv.Itoa(perPage))
		merged.Set("page", strconv.Itoa(page))

		var batch []json.RawMessage
		if err := c.getJSON(ctx, path, merged, &batch); err != nil {
			return nil, fmt.Errorf("canvas: fetching page %d of %s: %w", page, path, err)
		}

		all = append(all, batch...)

		if len(batch) < perPage {
			c.logger.Debug("collection fetch complete",
				slog.String("path", path),
				slog.Int("items", len(all)),
				slog.Int("pages", page),
			)

			return all, nil
		}
	}
}

// decodeCollection decodes a page body as a JSON array, or wraps a single
// JSON object as a one-element page. Some Canvas endpoints return a bare
// object for a collection of one.
func decodeCollection(body []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var single json.RawMessage
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return nil, err
		}

		return []json.RawMessage{single}, nil
	}

	var batch []json.RawMessage
	if err := json.Unmarshal(body, &batch); err != nil {
		return nil, err
	}

	return batch, nil
}

// parseNextLink extracts the rel="next" target from a Link header value,
// or returns "" when pagination is complete. Canvas emits RFC 5988 style
// links: <https://...?page=2>; rel="next", <https://...>; rel="last".
func parseNextLink(header string) string {
	for part := range strings.SplitSeq(header, ",") {
		segments := strings.Split(part, ";")
		if len(segments) < 2 {
			continue
		}

		target := strings.TrimSpace(segments[0])
		if !strings.HasPrefix(target, "<") || !strings.HasSuffix(target, ">") {
			continue
		}

		for _, param := range segments[1:] {
			if strings.TrimSpace(param) == `rel="next"` {
				return strings.Trim(target, "<>")
			}
		}
	}

	return ""
}

// cloneValues copies params so pagination can mutate per_page and page
// without surprising the caller.
func cloneValues(params url.Values) url.Values {
	merged := make(url.Values, len(params)+2)
	for k, vs := range params {
		merged[k] = append([]string(nil), vs...)
	}

	return merged
}
