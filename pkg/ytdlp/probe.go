package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Format is one candidate stream from yt-dlp's format list. Only the fields
// the resolver needs are modeled; everything else in the JSON is ignored.
type Format struct {
	FormatID       string  `json:"format_id"`
	URL            string  `json:"url"`
	Ext            string  `json:"ext"`
	VCodec         string  `json:"vcodec"`
	ACodec         string  `json:"acodec"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	Resolution     string  `json:"resolution"`
	Filesize       int64   `json:"filesize"`
	FilesizeApprox int64   `json:"filesize_approx"`
	TBR            float64 `json:"tbr"`
}

// Info is the parsed output of a metadata-only probe.
//
// RequestedFormats holds the entries yt-dlp would actually fetch together
// under the configured format selector; they can surface resolutions the
// plain format list does not.
type Info struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Uploader         string   `json:"uploader"`
	UploaderID       string   `json:"uploader_id"`
	WebpageURL       string   `json:"webpage_url"`
	Formats          []Format `json:"formats"`
	RequestedFormats []Format `json:"requested_formats"`
}

// Probe runs yt-dlp in metadata-only mode against url and parses the info
// JSON. No file is written and console chatter is suppressed.
func (c *Client) Probe(ctx context.Context, url string) (*Info, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("ytdlp: url is required")
	}

	args := []string{
		"--dump-single-json",
		"--skip-download",
		"--no-warnings",
		"--format", FormatSelector,
		url,
	}

	stdout, stderr, err := c.exec(ctx, args...)
	if err != nil {
		return nil, wrapExecError(c.PathOrDefault(), args, stdout, stderr, err)
	}

	info := &Info{}
	if err := json.Unmarshal(bytes.TrimSpace(stdout), info); err != nil {
		return nil, fmt.Errorf("ytdlp: parse info json: %w", err)
	}

	return info, nil
}
