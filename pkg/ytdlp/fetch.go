package ytdlp

import (
	"context"
	"fmt"
	"strings"
)

// Fetch runs yt-dlp in download mode, writing a single merged MP4 to
// outputPath. sourceURL may be a direct media URL or an HLS manifest; yt-dlp
// handles segment assembly and muxing either way. The call blocks until the
// tool exits.
func (c *Client) Fetch(ctx context.Context, sourceURL string, outputPath string) error {
	if strings.TrimSpace(sourceURL) == "" {
		return fmt.Errorf("ytdlp: source url is required")
	}
	if strings.TrimSpace(outputPath) == "" {
		return fmt.Errorf("ytdlp: output path is required")
	}

	args := []string{
		"-o", outputPath,
		"--no-warnings",
		"--format", FormatSelector,
		"--merge-output-format", "mp4",
		sourceURL,
	}

	stdout, stderr, err := c.exec(ctx, args...)
	if err != nil {
		return wrapExecError(c.PathOrDefault(), args, stdout, stderr, err)
	}
	return nil
}
