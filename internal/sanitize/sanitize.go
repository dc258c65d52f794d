// Package sanitize repairs malformed GEDCOM text so a strict
// line-to-tree parser can consume it. The pass is total: every input,
// however broken, yields some output and no error.
package sanitize

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Line is a corrected GEDCOM line. Text always starts with the
// (possibly clamped) decimal level.
type Line struct {
	Level int
	Text  string
}

// Stats counts the repairs applied during one pass.
type Stats struct {
	// Lines is the number of corrected lines emitted
	Lines int
	// Merged is the number of continuation lines folded into a predecessor
	Merged int
	// Clamped is the number of lines whose level was lowered
	Clamped int
	// Stripped is the number of lines that lost characters or markup
	Stripped int
}

var markupPattern = regexp.MustCompile(`<[^<>]*>`)

// Sanitize reads raw GEDCOM text and returns corrected lines. For
// every adjacent pair of output lines, level[i+1] <= level[i]+1.
func Sanitize(r io.Reader) ([]Line, Stats) {
	var (
		out   []Line
		stats Stats
	)
	lastLevel := 0

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		raw := strings.TrimSpace(sc.Text())
		if raw == "" {
			continue
		}

		level, rest, ok := splitLevel(raw)
		if !ok {
			// No usable level token: this is a continuation of the
			// previous value, not a new record. With no previous line
			// there is nothing to merge into; drop it.
			if len(out) == 0 {
				continue
			}
			cleaned, changed := CleanValue(rest)
			if changed {
				stats.Stripped++
			}
			if cleaned != "" {
				prev := &out[len(out)-1]
				prev.Text = strings.TrimRight(prev.Text, " ") + " " + cleaned
			}
			stats.Merged++
			continue
		}

		if level > lastLevel+1 {
			level = lastLevel + 1
			stats.Clamped++
		}
		lastLevel = level

		cleaned, changed := CleanValue(rest)
		if changed {
			stats.Stripped++
		}

		text := strconv.Itoa(level)
		if cleaned != "" {
			text += " " + cleaned
		}
		out = append(out, Line{Level: level, Text: text})
		stats.Lines++
	}
	// Scanner errors (e.g. oversized lines) end the pass early but
	// never fail it; whatever was corrected so far is returned.

	return out, stats
}

// CleanValue strips disallowed characters and markup fragments from a
// line remainder. It reports whether anything was removed or replaced.
func CleanValue(s string) (string, bool) {
	orig := s
	s = strings.ToValidUTF8(s, "")
	s = markupPattern.ReplaceAllString(s, "")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\t':
			b.WriteRune(' ')
		case r == '^':
			b.WriteRune(' ')
		case r == '·':
			b.WriteRune('.')
		case unicode.IsControl(r):
			// dropped
		default:
			b.WriteRune(r)
		}
	}
	cleaned := strings.TrimSpace(b.String())
	return cleaned, cleaned != strings.TrimSpace(orig)
}

// splitLevel extracts the leading level token. ok is false when the
// token is missing, non-numeric, or negative; rest is then the whole
// line, ready to be merged as a continuation.
func splitLevel(line string) (level int, rest string, ok bool) {
	tok := line
	rest = ""
	if i := strings.IndexByte(line, ' '); i >= 0 {
		tok = line[:i]
		rest = strings.TrimSpace(line[i+1:])
	}
	n, err := strconv.Atoi(tok)
	if err != nil || n < 0 {
		return 0, line, false
	}
	return n, rest, true
}
