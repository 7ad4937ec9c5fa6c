package media_api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"thirdcoast.systems/xclip/pkg/ytdlp"
)

type fakeProber struct {
	info  *ytdlp.Info
	err   error
	calls int
}

func (f *fakeProber) Probe(ctx context.Context, url string) (*ytdlp.Info, error) {
	f.calls++
	return f.info, f.err
}

func postJSON(t *testing.T, h echo.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/get_video_info", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	return rec
}

func TestHandleVideoInfo_RejectsMalformedURLWithoutProbing(t *testing.T) {
	prober := &fakeProber{}
	rec := postJSON(t, HandleVideoInfo(prober), `{"tweet_url":"https://x.com/alice/12345"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var payload map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.NotEmpty(t, payload["error"])
	require.Zero(t, prober.calls, "no extractor call for a malformed URL")
}

func TestHandleVideoInfo_ReturnsRankedFormats(t *testing.T) {
	prober := &fakeProber{info: &ytdlp.Info{
		ID:       "1234567890",
		Title:    "alice - a clip",
		Uploader: "alice",
		Formats: []ytdlp.Format{
			{URL: "https://v/480", Ext: "mp4", VCodec: "h264", Width: 854, Height: 480, FilesizeApprox: 2 << 20},
			{URL: "https://v/720", Ext: "mp4", VCodec: "h264", Width: 1280, Height: 720, FilesizeApprox: 5 << 20},
			{URL: "https://v/720b", Ext: "mp4", VCodec: "h264", Width: 1280, Height: 720},
		},
	}}

	rec := postJSON(t, HandleVideoInfo(prober), `{"tweet_url":"https://x.com/alice/status/1234567890"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp videoInfoResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "alice - a clip", resp.TweetTitle)
	require.Equal(t, "alice", resp.Uploader)
	require.Len(t, resp.Formats, 2)
	require.Equal(t, "1280x720", resp.Formats[0].Resolution)
	require.Equal(t, "854x480", resp.Formats[1].Resolution)
	require.NotEmpty(t, resp.Formats[0].FilesizeDisplay)
}

func TestHandleVideoInfo_NoFormatsIs404(t *testing.T) {
	prober := &fakeProber{info: &ytdlp.Info{
		ID: "1",
		Formats: []ytdlp.Format{
			{URL: "https://v/audio", Ext: "m4a", VCodec: "none"},
		},
	}}

	rec := postJSON(t, HandleVideoInfo(prober), `{"tweet_url":"https://x.com/alice/status/1"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "error")
}

func TestHandleVideoInfo_ToolNotFoundIs404(t *testing.T) {
	prober := &fakeProber{err: &ytdlp.ExecError{
		Cmd:    "yt-dlp",
		Stderr: "ERROR: No video could be found in this tweet",
		Cause:  errors.New("exit status 1"),
	}}

	rec := postJSON(t, HandleVideoInfo(prober), `{"tweet_url":"https://x.com/alice/status/1"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleVideoInfo_ToolFailureIs500Filtered(t *testing.T) {
	prober := &fakeProber{err: &ytdlp.ExecError{
		Cmd:    "yt-dlp",
		Stderr: "ERROR: fragment 3: connection reset by host 10.0.0.7",
		Cause:  errors.New("exit status 1"),
	}}

	rec := postJSON(t, HandleVideoInfo(prober), `{"tweet_url":"https://x.com/alice/status/1"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.NotEmpty(t, payload["error"])
	// Raw tool output must never reach the client.
	require.NotContains(t, rec.Body.String(), "10.0.0.7")
	require.NotContains(t, rec.Body.String(), "fragment")
}

func TestHandleVideoInfo_AcceptsTwitterHost(t *testing.T) {
	prober := &fakeProber{info: &ytdlp.Info{
		ID:      "7",
		Formats: []ytdlp.Format{{URL: "https://v/720", Ext: "mp4", VCodec: "h264", Width: 1280, Height: 720}},
	}}

	rec := postJSON(t, HandleVideoInfo(prober), `{"tweet_url":"https://twitter.com/alice/status/7"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, prober.calls)
}
