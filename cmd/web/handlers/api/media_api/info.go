// package media_api provides the resolution-discovery and download API handlers.
package media_api

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/labstack/echo/v4"
	"thirdcoast.systems/xclip/cmd/web/handlers/common"
	"thirdcoast.systems/xclip/internal/posturl"
	"thirdcoast.systems/xclip/pkg/formats"
	"thirdcoast.systems/xclip/pkg/ytdlp"
)

// InfoProber is the metadata-only mode of the extraction adapter.
// *ytdlp.Client satisfies it; tests substitute fakes.
type InfoProber interface {
	Probe(ctx context.Context, url string) (*ytdlp.Info, error)
}

type formatOption struct {
	URL             string `json:"url"`
	Resolution      string `json:"resolution"`
	Filesize        int64  `json:"filesize,omitempty"`
	FilesizeDisplay string `json:"filesize_display,omitempty"`
}

type videoInfoResponse struct {
	Formats    []formatOption `json:"formats"`
	TweetTitle string         `json:"tweet_title"`
	Uploader   string         `json:"uploader"`
	PostID     string         `json:"post_id"`
}

// HandleVideoInfo resolves a post URL to its ranked rendition list.
// POST /get_video_info
// Body: {"tweet_url": "https://x.com/<user>/status/<id>"}
func HandleVideoInfo(prober InfoProber) echo.HandlerFunc {
	return func(c echo.Context) error {
		type requestBody struct {
			TweetURL string `json:"tweet_url"`
		}
		var req requestBody
		if err := c.Bind(&req); err != nil {
			return common.ErrBadRequest(c, "invalid request body")
		}

		ref, err := posturl.Parse(req.TweetURL)
		if err != nil {
			return common.ErrBadRequest(c, "Invalid X URL")
		}

		info, err := prober.Probe(c.Request().Context(), ref.URL)
		if err != nil {
			slog.Error("video info probe failed", "url", ref.URL, "error", err)
			switch ytdlp.Classify(err) {
			case ytdlp.KindNotFound:
				return common.ErrNotFound(c, "No video found in this tweet.")
			case ytdlp.KindForbidden:
				return common.ErrInternal(c, "This tweet's media is private or restricted.")
			default:
				return common.ErrInternal(c, "Error extracting video information.")
			}
		}

		rends, meta, err := formats.Resolve(info)
		if err != nil {
			if errors.Is(err, formats.ErrNoFormats) {
				return common.ErrNotFound(c, "No downloadable video formats found for this tweet.")
			}
			slog.Error("format resolution failed", "url", ref.URL, "error", err)
			return common.ErrInternal(c, "Error extracting video information.")
		}

		resp := videoInfoResponse{
			Formats:    make([]formatOption, 0, len(rends)),
			TweetTitle: meta.Title,
			Uploader:   meta.Uploader,
			PostID:     meta.PostID,
		}
		for _, r := range rends {
			opt := formatOption{
				URL:        r.SourceURL,
				Resolution: r.Resolution,
				Filesize:   r.FilesizeBytes,
			}
			if r.FilesizeBytes > 0 {
				opt.FilesizeDisplay = humanize.Bytes(uint64(r.FilesizeBytes))
			}
			resp.Formats = append(resp.Formats, opt)
		}

		slog.Info("resolved renditions", "url", ref.URL, "count", len(resp.Formats))
		return c.JSON(200, resp)
	}
}
