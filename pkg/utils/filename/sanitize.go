// Package filename provides utilities for sanitizing strings into safe filenames.
package filename

import (
	"regexp"
	"strings"
	"unicode"
)

// reservedCharsRe matches characters not safe for filenames across all major OSes.
var reservedCharsRe = regexp.MustCompile(`[<>:"/\\|?*]`)

// whitespaceRe matches runs of whitespace.
var whitespaceRe = regexp.MustCompile(`\s+`)

// multiUnderscore collapses runs of underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// Sanitize converts an arbitrary string into a filename-safe name of at most
// maxLen bytes (0 = default of 120).
//
// Control and other invisible code points (including emoji) are dropped,
// reserved filesystem characters and whitespace become underscores, and
// underscore runs are collapsed. When truncation is needed, the cut prefers
// the last underscore or space boundary past the midpoint of the truncated
// prefix so the result isn't an unhelpfully short stub.
//
// Returns "" when nothing survives; callers must fall back to an identifier
// of their own (typically the post ID). Re-applying Sanitize to its own
// output is a no-op.
func Sanitize(name string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = 120
	}

	s := strings.TrimSpace(name)
	if s == "" {
		return ""
	}

	// Drop control/invisible runes and emoji.
	s = strings.Map(func(r rune) rune {
		if unicode.In(r, unicode.C) || isEmoji(r) {
			return -1
		}
		return r
	}, s)

	s = reservedCharsRe.ReplaceAllString(s, "_")
	s = whitespaceRe.ReplaceAllString(s, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")

	if len(s) > maxLen {
		s = truncateAtBoundary(s, maxLen)
	}

	return s
}

// truncateAtBoundary cuts s down to at most maxLen bytes, preferring a word
// boundary past the midpoint of the truncated prefix over a hard cut.
func truncateAtBoundary(s string, maxLen int) string {
	// Never cut inside a UTF-8 sequence.
	cut := maxLen
	for cut > 0 && !utf8RuneStart(s[cut]) {
		cut--
	}
	s = s[:cut]

	boundary := strings.LastIndexAny(s, "_ ")
	if boundary > len(s)/2 {
		s = s[:boundary]
	}
	return strings.Trim(s, "_")
}

func utf8RuneStart(b byte) bool { return b&0xC0 != 0x80 }

func isEmoji(r rune) bool {
	switch {
	case r >= 0x1F000 && r <= 0x1FAFF: // emoji, symbols, pictographs
		return true
	case r >= 0x2600 && r <= 0x27BF: // misc symbols, dingbats
		return true
	case r >= 0xFE00 && r <= 0xFE0F: // variation selectors
		return true
	case r >= 0x2190 && r <= 0x21FF: // arrows
		return true
	}
	return false
}
