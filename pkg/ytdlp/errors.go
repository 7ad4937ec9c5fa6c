package ytdlp

import (
	"errors"
	"strings"
)

// Kind buckets a tool failure into the categories the HTTP layer cares
// about. The tool's stderr is the only signal available, so classification
// is best-effort; anything unrecognized is a ToolFailure.
type Kind int

const (
	KindToolFailure Kind = iota
	KindNotFound
	KindForbidden
)

var notFoundMarkers = []string{
	"no video could be found",
	"http error 404",
	"not found",
	"unable to download webpage",
	"no media found",
}

var forbiddenMarkers = []string{
	"http error 403",
	"private",
	"nsfw tweet",
	"protected",
	"login required",
	"age-restricted",
}

// Classify inspects err and returns the failure kind. Non-ExecError values
// classify as ToolFailure.
func Classify(err error) Kind {
	var ee *ExecError
	if !errors.As(err, &ee) {
		return KindToolFailure
	}

	out := strings.ToLower(ee.Stderr + "\n" + ee.Stdout)
	for _, m := range notFoundMarkers {
		if strings.Contains(out, m) {
			return KindNotFound
		}
	}
	for _, m := range forbiddenMarkers {
		if strings.Contains(out, m) {
			return KindForbidden
		}
	}
	return KindToolFailure
}
