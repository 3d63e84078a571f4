package canvas

import (
	"context"
	"fmt"
	"io"
)

// Download streams the content at a pre-authorized file URL to the given
// writer and returns the number of bytes written. The URL comes from file
// metadata (GetFile) or a submission attachment; it is fetched with the
// same auth and transient-failure retry as API requests. Only the request
// cycle is retried — once streaming starts, a mid-stream failure is
// returned to the caller with the partial byte count.
func (c *Client) Download(ctx context.Context, fileURL string, w io.Writer) (int64, error) {
	resp, err := c.Get(ctx, fileURL, nil)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("canvas: streaming file content: %w", err)
	}

	return n, nil
}
