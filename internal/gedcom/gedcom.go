// Package gedcom builds a record tree from corrected GEDCOM lines.
package gedcom

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gedkit/gedpdf/internal/sanitize"
)

// ErrStructure is returned when the line sequence breaks the level
// hierarchy and no tree can be built.
var ErrStructure = errors.New("broken record hierarchy")

// Record is a single GEDCOM node. A record owns its children in
// document order; Parent is a non-owning back-reference (nil for
// top-level records).
type Record struct {
	Level    int
	Xref     string
	Tag      string
	Value    string
	Children []*Record
	Parent   *Record
}

// Tree holds the ordered top-level records of one document.
type Tree struct {
	Roots []*Record
}

// Parse decodes corrected lines into a record tree. Lines produced by
// sanitize.Sanitize always satisfy the level invariant; ErrStructure
// guards direct use with uncorrected input.
func Parse(lines []sanitize.Line) (*Tree, error) {
	t := &Tree{}
	var stack []*Record

	for i, ln := range lines {
		rec := decodeLine(ln)

		if rec.Level > len(stack) {
			return nil, fmt.Errorf("line %d: level %d after depth %d: %w",
				i+1, rec.Level, len(stack), ErrStructure)
		}
		stack = stack[:rec.Level]

		if len(stack) == 0 {
			t.Roots = append(t.Roots, rec)
		} else {
			parent := stack[len(stack)-1]
			// CONC/CONT are value continuations, not structure. The
			// merged record still occupies its stack slot so any
			// stray children keep a well-defined depth.
			switch rec.Tag {
			case "CONC":
				// Sanitization already collapsed the significant
				// whitespace CONC relies on, so joined parts get a
				// single space.
				if parent.Value != "" && rec.Value != "" {
					parent.Value += " "
				}
				parent.Value += rec.Value
				stack = append(stack, rec)
				continue
			case "CONT":
				parent.Value += "\n" + rec.Value
				stack = append(stack, rec)
				continue
			}
			rec.Parent = parent
			parent.Children = append(parent.Children, rec)
		}
		stack = append(stack, rec)
	}
	return t, nil
}

// decodeLine splits a corrected line into xref, tag, and value. The
// optional cross-reference id precedes the tag: `0 @I1@ INDI`.
func decodeLine(ln sanitize.Line) *Record {
	rec := &Record{Level: ln.Level}

	rest := ln.Text
	if i := strings.IndexByte(rest, ' '); i >= 0 {
		rest = strings.TrimSpace(rest[i+1:])
	} else {
		rest = ""
	}
	if rest == "" {
		return rec
	}

	if strings.HasPrefix(rest, "@") {
		if end := strings.Index(rest[1:], "@"); end >= 0 {
			rec.Xref = rest[:end+2]
			rest = strings.TrimSpace(rest[end+2:])
		}
	}

	if i := strings.IndexByte(rest, ' '); i >= 0 {
		rec.Tag = rest[:i]
		rec.Value = strings.TrimSpace(rest[i+1:])
	} else {
		rec.Tag = rest
	}
	return rec
}

// Records returns all top-level records with the given tag.
func (t *Tree) Records(tag string) []*Record {
	var recs []*Record
	for _, r := range t.Roots {
		if r.Tag == tag {
			recs = append(recs, r)
		}
	}
	return recs
}

// Walk visits every record in document order, depth first.
func (t *Tree) Walk(fn func(*Record)) {
	for _, r := range t.Roots {
		r.walk(fn)
	}
}

func (r *Record) walk(fn func(*Record)) {
	fn(r)
	for _, c := range r.Children {
		c.walk(fn)
	}
}

// Child returns the first direct child with the given tag, or nil.
func (r *Record) Child(tag string) *Record {
	for _, c := range r.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// ChildValue returns the value of the first direct child with the
// given tag, or "".
func (r *Record) ChildValue(tag string) string {
	if c := r.Child(tag); c != nil {
		return c.Value
	}
	return ""
}

// ChildValues returns the values of every direct child with the given
// tag, in document order.
func (r *Record) ChildValues(tag string) []string {
	var vals []string
	for _, c := range r.Children {
		if c.Tag == tag {
			vals = append(vals, c.Value)
		}
	}
	return vals
}
