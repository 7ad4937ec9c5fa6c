// Package downloads owns the managed download directory: it computes
// temp/final filenames for download jobs, drives the extraction tool, and
// reclaims files afterwards.
package downloads

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"thirdcoast.systems/xclip/pkg/utils/filename"
)

// ErrMissingSourceURL rejects a download request before any tool invocation.
var ErrMissingSourceURL = errors.New("video_url is required")

// DefaultBaseName is the filename base of last resort, used when both the
// requested base and the post ID sanitize to nothing.
const DefaultBaseName = "x_video"

// maxBaseLen bounds the meaningful part of generated filenames.
const maxBaseLen = 80

// Fetcher is the download mode of the extraction adapter. *ytdlp.Client
// satisfies it; tests substitute fakes.
type Fetcher interface {
	Fetch(ctx context.Context, sourceURL string, outputPath string) error
}

// Request carries one download job's inputs. FilenameBase is typically the
// post title; PostID backs the empty-after-sanitization fallback.
type Request struct {
	SourceURL    string
	Resolution   string
	FilenameBase string
	PostID       string
}

// Job is the ephemeral state of one download. TempPath is the collision-free
// on-disk location; DisplayName is the browser-facing filename.
type Job struct {
	TempPath    string
	DisplayName string
}

// Cleanup removes the job's temporary file. Safe to call when the tool never
// created it.
func (j Job) Cleanup() {
	if j.TempPath == "" {
		return
	}
	if err := os.Remove(j.TempPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("downloads: failed to remove temp file", "path", j.TempPath, "error", err)
	}
}

type Manager struct {
	dir     string
	fetcher Fetcher
}

// NewManager returns a Manager writing into dir. The directory is shared
// across concurrent jobs; entropy-suffixed names are the only collision
// protection, which is enough because filenames, not contents, are the
// contested resource.
func NewManager(dir string, fetcher Fetcher) *Manager {
	return &Manager{dir: dir, fetcher: fetcher}
}

// Prepare validates the request and computes the job's names without
// touching the tool or the filesystem.
func (m *Manager) Prepare(req Request) (Job, error) {
	if strings.TrimSpace(req.SourceURL) == "" {
		return Job{}, ErrMissingSourceURL
	}

	token := resolutionToken(req.Resolution)

	base := filename.Sanitize(req.FilenameBase, maxBaseLen)
	if base == "" {
		base = filename.Sanitize(req.PostID, maxBaseLen)
	}
	if base == "" {
		base = DefaultBaseName
	}

	stem := base
	if token != "" {
		stem = base + "_" + token
	}

	return Job{
		TempPath:    filepath.Join(m.dir, stem+"_"+entropySuffix()+".mp4"),
		DisplayName: stem + ".mp4",
	}, nil
}

// Run prepares the job and invokes the tool, blocking until it finishes.
// On failure the temp file, if the tool created one, is removed before the
// error is returned; no partial file survives this path.
func (m *Manager) Run(ctx context.Context, req Request) (Job, error) {
	job, err := m.Prepare(req)
	if err != nil {
		return Job{}, err
	}

	if err := m.fetcher.Fetch(ctx, req.SourceURL, job.TempPath); err != nil {
		job.Cleanup()
		return Job{}, fmt.Errorf("fetch %s: %w", req.Resolution, err)
	}

	return job, nil
}

var nonWordRe = regexp.MustCompile(`[^\w]`)

// resolutionToken renders a resolution label as a filename token: non-word
// characters dropped, the "x" separator rendered as "_" ("1280x720" ->
// "1280_720").
func resolutionToken(resolution string) string {
	t := nonWordRe.ReplaceAllString(resolution, "")
	return strings.ReplaceAll(t, "x", "_")
}

// entropySuffix returns 4 random bytes hex-rendered, enough to keep
// concurrent downloads of the same post and resolution apart.
func entropySuffix() string {
	return uuid.NewString()[:8]
}
