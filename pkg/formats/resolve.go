// Package formats turns raw yt-dlp probe output into a deduplicated, ranked
// list of downloadable renditions.
package formats

import (
	"errors"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"thirdcoast.systems/xclip/pkg/ytdlp"
)

// ErrNoFormats is returned when the probe output contains no downloadable
// MP4 video rendition.
var ErrNoFormats = errors.New("no downloadable video formats")

// DefaultUploader is the filename fallback handle when the post carries no
// uploader information.
const DefaultUploader = "x"

// Rendition is one downloadable stream option. SourceURL may be an HLS
// manifest; that is opaque here, yt-dlp resolves it at download time.
type Rendition struct {
	SourceURL     string
	Resolution    string
	FilesizeBytes int64
}

// Metadata is best-effort descriptive info for filename generation.
type Metadata struct {
	Title    string
	Uploader string
	PostID   string
}

// heightRe pulls the height out of a "WxH" resolution label.
var heightRe = regexp.MustCompile(`x(\d+)`)

// Resolve filters the probe output down to MP4 video streams with a known
// height, labels each by resolution, and returns one entry per distinct
// label ordered by descending height.
//
// The raw list is noisy: the same resolution shows up multiple times under
// different internal representations, and requested_formats can carry
// resolutions the plain list doesn't. Deduplication runs twice, once in
// encounter order while merging the two lists and again after the height
// sort, so the survivor for each label is the highest-quality one
// regardless of input order.
func Resolve(info *ytdlp.Info) ([]Rendition, Metadata, error) {
	meta := metadataFor(info)

	var candidates []Rendition
	seen := map[string]struct{}{}

	collect := func(list []ytdlp.Format) {
		for _, f := range list {
			if f.Ext != "mp4" || f.VCodec == "" || f.VCodec == "none" || f.Height == 0 {
				continue
			}
			label := resolutionLabel(f)
			if label == "" {
				continue
			}
			if _, ok := seen[label]; ok {
				continue
			}
			seen[label] = struct{}{}
			candidates = append(candidates, Rendition{
				SourceURL:     f.URL,
				Resolution:    label,
				FilesizeBytes: filesizeFor(f),
			})
		}
	}

	collect(info.Formats)
	collect(info.RequestedFormats)

	if len(candidates) == 0 {
		return nil, meta, ErrNoFormats
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return ParseHeight(candidates[i].Resolution) > ParseHeight(candidates[j].Resolution)
	})

	// Authoritative dedup: after sorting, the first survivor per label is
	// the highest-quality representative.
	final := candidates[:0]
	added := map[string]struct{}{}
	for _, r := range candidates {
		if _, ok := added[r.Resolution]; ok {
			continue
		}
		added[r.Resolution] = struct{}{}
		final = append(final, r)
	}

	return final, meta, nil
}

// ParseHeight extracts the numeric height from a resolution label, taking
// the digits after the literal "x". Unparseable labels report 0 so they
// sort last.
func ParseHeight(label string) int {
	m := heightRe.FindStringSubmatch(label)
	if m == nil {
		return 0
	}
	h, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return h
}

func resolutionLabel(f ytdlp.Format) string {
	if f.Width > 0 && f.Height > 0 {
		return strconv.Itoa(f.Width) + "x" + strconv.Itoa(f.Height)
	}
	return f.Resolution
}

// filesizeFor prefers the approximate size; for HLS streams it is usually
// the only estimate yt-dlp has.
func filesizeFor(f ytdlp.Format) int64 {
	if f.FilesizeApprox > 0 {
		return f.FilesizeApprox
	}
	return f.Filesize
}

func metadataFor(info *ytdlp.Info) Metadata {
	meta := Metadata{
		Uploader: strings.TrimSpace(info.Uploader),
		PostID:   strings.TrimSpace(info.ID),
	}
	if meta.Uploader == "" {
		meta.Uploader = strings.TrimSpace(info.UploaderID)
	}

	meta.Title = strings.TrimSpace(info.Title)
	if meta.Title == "" {
		meta.Title = strings.TrimSpace(info.Description)
	}
	if meta.Title == "" {
		handle := meta.Uploader
		if handle == "" {
			handle = DefaultUploader
		}
		meta.Title = handle + "_" + meta.PostID
	}

	return meta
}
