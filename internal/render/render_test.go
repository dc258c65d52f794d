package render

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gedkit/gedpdf/internal/gedcom"
	"github.com/gedkit/gedpdf/internal/sanitize"
	"github.com/gedkit/gedpdf/internal/summary"
)

func renderText(t *testing.T, text string, opts Options) ([]byte, Stats) {
	t.Helper()
	lines, _ := sanitize.Sanitize(strings.NewReader(text))
	tree, err := gedcom.Parse(lines)
	require.NoError(t, err)
	pdfBytes, stats, err := Render(summary.Build(tree), tree, opts)
	require.NoError(t, err)
	return pdfBytes, stats
}

func TestRender_TwoRecordDocument(t *testing.T) {
	input := `0 HEAD
1 SOUR TestKit
0 @I1@ INDI
1 NAME John /Doe/
1 SEX M
0 @F1@ FAM
1 HUSB @I1@
0 TRLR`

	pdfBytes, stats := renderText(t, input, Options{})
	assert.True(t, strings.HasPrefix(string(pdfBytes), "%PDF"))
	assert.NotEmpty(t, pdfBytes)
	// HEAD and TRLR are not record sections; INDI and FAM are.
	assert.Equal(t, 2, stats.Records)
	assert.GreaterOrEqual(t, stats.Pages, 1)
}

func TestRender_PageBreaks(t *testing.T) {
	var b strings.Builder
	b.WriteString("0 HEAD\n1 SOUR TestKit\n")
	for i := 0; i < 60; i++ {
		fmt.Fprintf(&b, "0 @I%d@ INDI\n", i+1)
		fmt.Fprintf(&b, "1 NAME Person%d /Test/\n", i+1)
		b.WriteString("1 BIRT\n2 DATE 1 JAN 1900\n2 PLAC Boston\n")
	}
	b.WriteString("0 TRLR\n")

	_, stats := renderText(t, b.String(), Options{})
	assert.Equal(t, 60, stats.Records)
	assert.Greater(t, stats.Pages, 1)
}

func TestRender_PlaceholderSubstitution(t *testing.T) {
	// Kanji survives sanitization but has no cp1252 representation.
	input := "0 HEAD\n0 @I1@ INDI\n1 NAME 山田 /Taro/\n0 TRLR"

	pdfBytes, stats := renderText(t, input, Options{Placeholder: '#'})
	assert.NotEmpty(t, pdfBytes)
	assert.Greater(t, stats.Placeholders, 0)
}

func TestRender_EmptyTree(t *testing.T) {
	tree := &gedcom.Tree{}
	pdfBytes, stats, err := Render(summary.Build(tree), tree, Options{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(pdfBytes), "%PDF"))
	assert.Zero(t, stats.Records)
	assert.Equal(t, 1, stats.Pages)
}

func TestRender_SupportingSections(t *testing.T) {
	input := `0 HEAD
0 @I1@ INDI
1 NAME John /Doe/
0 @I2@ INDI
1 NAME Jane /Roe/
0 @I3@ INDI
1 NAME Jimmy /Doe/
1 ASSO @I2@
2 RELA Godmother
0 @S1@ SOUR
1 TITL Town Register
1 AUTH Clerk
0 @N1@ NOTE Remember this.
0 @M1@ OBJE
1 FILE portrait.jpg
1 FORM jpeg
0 @U1@ SUBM
1 NAME The Archivist
1 EMAIL archive@example.org
0 TRLR`

	lines, _ := sanitize.Sanitize(strings.NewReader(input))
	tree, err := gedcom.Parse(lines)
	require.NoError(t, err)
	doc := summary.Build(tree)

	_, full, err := Render(doc, tree, Options{})
	require.NoError(t, err)

	// Same tree, views removed: the section lines must disappear.
	stripped := *doc
	stripped.Sources = nil
	stripped.Notes = nil
	stripped.Media = nil
	stripped.Associations = nil
	stripped.Submitters = nil
	_, base, err := Render(&stripped, tree, Options{})
	require.NoError(t, err)

	assert.Greater(t, full.FieldLines, base.FieldLines)
}

func TestAssociationLine(t *testing.T) {
	tests := []struct {
		name  string
		assoc summary.Association
		want  string
	}{
		{
			name: "resolved name with relation",
			assoc: summary.Association{
				Xref: "@I3@", TargetXref: "@I2@",
				TargetName: "Jane Roe", Relation: "Godmother",
			},
			want: "@I3@ - Jane Roe (Godmother)",
		},
		{
			name:  "unresolved target falls back to xref",
			assoc: summary.Association{Xref: "@I3@", TargetXref: "@I9@"},
			want:  "@I3@ - @I9@",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, associationLine(tt.assoc))
		})
	}
}

func TestMediaLine(t *testing.T) {
	m := &summary.MediaObject{Xref: "@M1@", File: "portrait.jpg", Format: "jpeg"}
	assert.Equal(t, "portrait.jpg  @M1@  (jpeg)", mediaLine(m))

	m.Title = "Portrait of John"
	assert.Equal(t, "Portrait of John  @M1@  (jpeg)", mediaLine(m))
}

func TestHeading_NeverLastLineOfPage(t *testing.T) {
	r := &renderer{opts: Options{Placeholder: '?'}}
	r.init()

	// Room for the heading alone but not for one field line under it:
	// the look-ahead must break the page before drawing.
	r.y = r.limit - headingHeight
	before := r.pdf.PageCount()
	r.heading("Individual @I1@ - Ann Lee")
	assert.Equal(t, before+1, r.pdf.PageCount())
	assert.Equal(t, r.top+headingHeight, r.y)

	// Room for the heading plus a field line: no break.
	r.y = r.limit - headingHeight - lineHeight - 1
	before = r.pdf.PageCount()
	r.heading("Individual @I2@ - Jim Lee")
	assert.Equal(t, before, r.pdf.PageCount())
}

func TestSubstitute(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		count int
	}{
		{name: "ascii untouched", input: "John Doe 1900", want: "John Doe 1900", count: 0},
		{name: "latin1 untouched", input: "José Muñoz", want: "José Muñoz", count: 0},
		{name: "cp1252 extras untouched", input: "a–b “q”", want: "a–b “q”", count: 0},
		{name: "kanji replaced", input: "山田", want: "??", count: 2},
		{name: "mixed", input: "aБc", want: "a?c", count: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, n := substitute(tt.input, '?')
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.count, n)
		})
	}
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Individual", Label("INDI"))
	assert.Equal(t, "Birth", Label("BIRT"))
	assert.Equal(t, "_CUSTOM", Label("_CUSTOM"))
}

func TestRecordHeading(t *testing.T) {
	lines, _ := sanitize.Sanitize(strings.NewReader("0 @I1@ INDI\n1 NAME Ann /Lee/"))
	tree, err := gedcom.Parse(lines)
	require.NoError(t, err)
	assert.Equal(t, "Individual @I1@ - Ann Lee", recordHeading(tree.Roots[0]))
}
