package sanitize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize_LevelClamping(t *testing.T) {
	input := "0 @I1@ INDI\n1 NAME John /Doe/\n5 DATE 1 JAN 1900\n2 PLAC Boston"

	lines, stats := Sanitize(strings.NewReader(input))
	require.Len(t, lines, 4)

	levels := make([]int, len(lines))
	for i, ln := range lines {
		levels[i] = ln.Level
	}
	assert.Equal(t, []int{0, 1, 2, 2}, levels)
	assert.Equal(t, 1, stats.Clamped)
}

func TestSanitize_LevelInvariant(t *testing.T) {
	// Arbitrary broken leveling: every adjacent output pair must
	// satisfy level[i+1] <= level[i]+1.
	input := "0 HEAD\n7 SOUR test\n3 VERS 1\n0 TRLR\n9 NOTE deep"

	lines, _ := Sanitize(strings.NewReader(input))
	require.NotEmpty(t, lines)
	for i := 1; i < len(lines); i++ {
		assert.LessOrEqual(t, lines[i].Level, lines[i-1].Level+1,
			"line %d jumps from %d to %d", i, lines[i-1].Level, lines[i].Level)
	}
}

func TestSanitize_MarkupStripping(t *testing.T) {
	lines, _ := Sanitize(strings.NewReader("0 HEAD\n1 NOTE a<b>c"))
	require.Len(t, lines, 2)
	assert.Equal(t, "1 NOTE ac", lines[1].Text)
}

func TestSanitize_ContinuationMerging(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "missing level token",
			input: "2 NOTE hello\nworld again",
			want:  "2 NOTE hello world again",
		},
		{
			name:  "negative level",
			input: "2 NOTE hello\n-1 CONT world",
			want:  "2 NOTE hello -1 CONT world",
		},
		{
			name:  "repeated xref in level position",
			input: "2 NOTE hello\n@I1@ NOTE more",
			want:  "2 NOTE hello @I1@ NOTE more",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines, stats := Sanitize(strings.NewReader(tt.input))
			require.Len(t, lines, 1)
			assert.Equal(t, tt.want, lines[0].Text)
			assert.Equal(t, 1, stats.Merged)
		})
	}
}

func TestSanitize_ContinuationBeforeAnyLine(t *testing.T) {
	// Nothing to merge into: the line is dropped, never invented.
	lines, _ := Sanitize(strings.NewReader("garbage first line\n0 HEAD"))
	require.Len(t, lines, 1)
	assert.Equal(t, "0 HEAD", lines[0].Text)
}

func TestSanitize_ControlCharacters(t *testing.T) {
	lines, _ := Sanitize(strings.NewReader("0 NOTE be\x01fo\x1fre"))
	require.Len(t, lines, 1)
	assert.Equal(t, "0 NOTE before", lines[0].Text)
}

func TestSanitize_Idempotence(t *testing.T) {
	input := "0 @I1@ INDI\n1 NAME Ann /Lee/\n5 DATE 1900\nstray continuation\n1 NOTE x<i>y"

	first, _ := Sanitize(strings.NewReader(input))
	var corrected strings.Builder
	for _, ln := range first {
		corrected.WriteString(ln.Text)
		corrected.WriteString("\n")
	}

	second, stats := Sanitize(strings.NewReader(corrected.String()))
	require.Equal(t, first, second)
	assert.Zero(t, stats.Clamped)
	assert.Zero(t, stats.Merged)
	assert.Zero(t, stats.Stripped)
}

func TestSanitize_Totality(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "only blank lines", input: "\n\n\n"},
		{name: "invalid utf8 bytes", input: "0 NOTE \xff\xfe\xfdval\n"},
		{name: "binary noise", input: string([]byte{0, 1, 2, 0xff, '\n', 0x80, 0x81})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				lines, _ := Sanitize(strings.NewReader(tt.input))
				for i := 1; i < len(lines); i++ {
					assert.LessOrEqual(t, lines[i].Level, lines[i-1].Level+1)
				}
			})
		})
	}
}

func TestCleanValue(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		changed bool
	}{
		{name: "clean", input: "NOTE plain text", want: "NOTE plain text", changed: false},
		{name: "markup", input: "NOTE a<b>c", want: "NOTE ac", changed: true},
		{name: "unpaired bracket kept", input: "NOTE a<b", want: "NOTE a<b", changed: false},
		{name: "caret to space", input: "NAME Jo^hn", want: "NAME Jo hn", changed: true},
		{name: "middle dot to period", input: "DATE 1·5", want: "DATE 1.5", changed: true},
		{name: "tab to space", input: "NOTE a\tb", want: "NOTE a b", changed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := CleanValue(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.changed, changed)
		})
	}
}
