package downloads

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeFetcher simulates the extraction tool: it can create the output file
// (as yt-dlp would) and then succeed or fail.
type fakeFetcher struct {
	createFile bool
	err        error
	calls      int
	lastPath   string
}

func (f *fakeFetcher) Fetch(ctx context.Context, sourceURL string, outputPath string) error {
	f.calls++
	f.lastPath = outputPath
	if f.createFile {
		if err := os.WriteFile(outputPath, []byte("media"), 0o644); err != nil {
			return err
		}
	}
	return f.err
}

func TestPrepare_ComputesNames(t *testing.T) {
	m := NewManager(t.TempDir(), &fakeFetcher{})

	job, err := m.Prepare(Request{
		SourceURL:    "https://video.example/a.m3u8",
		Resolution:   "1280x720",
		FilenameBase: "alice - some clip",
		PostID:       "1234567890",
	})
	require.NoError(t, err)
	require.Equal(t, "alice_-_some_clip_1280_720.mp4", job.DisplayName)

	name := filepath.Base(job.TempPath)
	require.True(t, strings.HasPrefix(name, "alice_-_some_clip_1280_720_"), name)
	require.True(t, strings.HasSuffix(name, ".mp4"))
	// 8 hex chars of entropy between the stem and the extension.
	entropy := strings.TrimSuffix(strings.TrimPrefix(name, "alice_-_some_clip_1280_720_"), ".mp4")
	require.Len(t, entropy, 8)
}

func TestPrepare_FallsBackToPostID(t *testing.T) {
	m := NewManager(t.TempDir(), &fakeFetcher{})

	job, err := m.Prepare(Request{
		SourceURL:    "https://video.example/a",
		Resolution:   "854x480",
		FilenameBase: "\U0001F525\U0001F525", // sanitizes to nothing
		PostID:       "42",
	})
	require.NoError(t, err)
	require.Equal(t, "42_854_480.mp4", job.DisplayName)
}

func TestPrepare_FallsBackToDefaultBase(t *testing.T) {
	m := NewManager(t.TempDir(), &fakeFetcher{})

	job, err := m.Prepare(Request{SourceURL: "https://video.example/a"})
	require.NoError(t, err)
	require.Equal(t, DefaultBaseName+".mp4", job.DisplayName)
}

func TestPrepare_RejectsMissingSourceURL(t *testing.T) {
	m := NewManager(t.TempDir(), &fakeFetcher{})
	_, err := m.Prepare(Request{Resolution: "1280x720"})
	require.ErrorIs(t, err, ErrMissingSourceURL)
}

func TestRun_SuccessThenCleanupLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	f := &fakeFetcher{createFile: true}
	m := NewManager(dir, f)

	job, err := m.Run(context.Background(), Request{
		SourceURL:  "https://video.example/a.m3u8",
		Resolution: "1280x720",
		PostID:     "1",
	})
	require.NoError(t, err)
	require.FileExists(t, job.TempPath)

	job.Cleanup()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestRun_FailureRemovesPartialFile(t *testing.T) {
	dir := t.TempDir()
	f := &fakeFetcher{createFile: true, err: errors.New("tool exploded")}
	m := NewManager(dir, f)

	_, err := m.Run(context.Background(), Request{
		SourceURL:  "https://video.example/a.m3u8",
		Resolution: "854x480",
		PostID:     "1",
	})
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries, "partial file must not survive a failed fetch")
}

func TestRun_FailureWithoutFileIsHarmless(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir, &fakeFetcher{err: errors.New("never started")})

	_, err := m.Run(context.Background(), Request{SourceURL: "https://video.example/a"})
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestRun_ValidationSkipsFetcher(t *testing.T) {
	f := &fakeFetcher{}
	m := NewManager(t.TempDir(), f)

	_, err := m.Run(context.Background(), Request{})
	require.ErrorIs(t, err, ErrMissingSourceURL)
	require.Zero(t, f.calls)
}

func TestPrepare_ConcurrentJobsGetDistinctTempPaths(t *testing.T) {
	m := NewManager(t.TempDir(), &fakeFetcher{})
	req := Request{
		SourceURL:    "https://video.example/a.m3u8",
		Resolution:   "1280x720",
		FilenameBase: "same clip",
		PostID:       "1",
	}

	seen := map[string]struct{}{}
	for i := 0; i < 50; i++ {
		job, err := m.Prepare(req)
		require.NoError(t, err)
		_, dup := seen[job.TempPath]
		require.False(t, dup, "temp path collision: %s", job.TempPath)
		seen[job.TempPath] = struct{}{}
	}
}

func TestResolutionToken(t *testing.T) {
	require.Equal(t, "1280_720", resolutionToken("1280x720"))
	require.Equal(t, "audioonly", resolutionToken("audio only"))
	require.Equal(t, "", resolutionToken(""))
	require.Equal(t, "720p", resolutionToken("720p?"))
}
