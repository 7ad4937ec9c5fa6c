package media_api

import (
	"errors"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"thirdcoast.systems/xclip/cmd/web/handlers/common"
	"thirdcoast.systems/xclip/internal/downloads"
	"thirdcoast.systems/xclip/pkg/ytdlp"
)

// HandleStreamDownload fetches a chosen rendition through the extraction
// tool and streams the merged MP4 back.
// POST /stream_download
// Body: {"video_url", "resolution", "filename_base", "post_id"?}
//
// The tool invocation fully blocks this request; the temp file is removed
// after the response body is sent, whether or not the client stayed
// connected for all of it.
func HandleStreamDownload(mgr *downloads.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		type requestBody struct {
			VideoURL     string `json:"video_url"`
			Resolution   string `json:"resolution"`
			FilenameBase string `json:"filename_base"`
			PostID       string `json:"post_id"`
		}
		var req requestBody
		if err := c.Bind(&req); err != nil {
			return common.ErrBadRequest(c, "invalid request body")
		}

		start := time.Now()
		job, err := mgr.Run(c.Request().Context(), downloads.Request{
			SourceURL:    req.VideoURL,
			Resolution:   req.Resolution,
			FilenameBase: req.FilenameBase,
			PostID:       req.PostID,
		})
		if err != nil {
			if errors.Is(err, downloads.ErrMissingSourceURL) {
				return common.ErrBadRequest(c, "video_url is required")
			}
			slog.Error("download failed", "resolution", req.Resolution, "error", err)
			if ytdlp.Classify(err) == ytdlp.KindForbidden {
				return common.ErrInternal(c, "This tweet's media is private or restricted.")
			}
			return common.ErrInternal(c, "Error downloading video.")
		}
		defer job.Cleanup()

		slog.Info("streaming download",
			"file", job.DisplayName,
			"resolution", req.Resolution,
			"fetch_duration", time.Since(start).Round(time.Millisecond))
		return c.Attachment(job.TempPath, job.DisplayName)
	}
}
