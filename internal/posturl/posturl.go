// Package posturl validates and canonicalizes X post URLs.
package posturl

import (
	"errors"
	"regexp"
	"strings"
)

// Host aliases that are the same source website from a user perspective.
// Keep this intentionally conservative.
var canonicalHostAliases = map[string]string{
	"x.com":              "x.com",
	"www.x.com":          "x.com",
	"twitter.com":        "x.com",
	"www.twitter.com":    "x.com",
	"mobile.twitter.com": "x.com",
}

// postURLRe matches the canonical post shape: scheme://host/<handle>/status/<numeric id>.
var postURLRe = regexp.MustCompile(`^https?://(?:www\.|mobile\.)?([a-z0-9.-]+)/(\w+)/status/(\d+)`)

var ErrInvalidPostURL = errors.New("not a valid X post URL")

// Reference is a validated post URL with its extracted parts. URL is the
// canonical form (x.com host, query and fragment stripped).
type Reference struct {
	URL      string
	Handle   string
	StatusID string
}

// Parse validates raw as a post URL and returns its canonical reference.
// The match is checked before anything touches the extraction tool, so a
// malformed URL never spawns a subprocess.
func Parse(raw string) (Reference, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Reference{}, ErrInvalidPostURL
	}

	m := postURLRe.FindStringSubmatch(strings.ToLower(firstToken(raw)))
	if m == nil {
		return Reference{}, ErrInvalidPostURL
	}

	canon, ok := canonicalHostAliases[m[1]]
	if !ok {
		canon, ok = canonicalHostAliases[strings.TrimPrefix(m[1], "www.")]
		if !ok {
			return Reference{}, ErrInvalidPostURL
		}
	}

	// Re-run against the original casing so the handle keeps its case.
	orig := postURLRe.FindStringSubmatch(firstToken(raw))
	handle, statusID := m[2], m[3]
	if orig != nil {
		handle, statusID = orig[2], orig[3]
	}

	return Reference{
		URL:      "https://" + canon + "/" + handle + "/status/" + statusID,
		Handle:   handle,
		StatusID: statusID,
	}, nil
}

// firstToken cuts raw at the first whitespace so pasted text around a URL
// doesn't defeat the prefix match.
func firstToken(raw string) string {
	if i := strings.IndexFunc(raw, func(r rune) bool { return r == ' ' || r == '\t' || r == '\n' }); i >= 0 {
		return raw[:i]
	}
	return raw
}
