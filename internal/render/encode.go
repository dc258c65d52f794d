package render

import "strings"

// The built-in PDF core fonts cover Windows-1252. Runes outside that
// range survive sanitization (it only strips control characters) and
// must be substituted before drawing, never allowed to abort a value.

// cp1252Extras are the printable code points Windows-1252 assigns in
// 0x80-0x9F beyond Latin-1.
var cp1252Extras = map[rune]bool{
	'€': true, // €
	'‚': true, 'ƒ': true, '„': true, '…': true,
	'†': true, '‡': true, 'ˆ': true, '‰': true,
	'Š': true, '‹': true, 'Œ': true, 'Ž': true,
	'‘': true, '’': true, '“': true, '”': true,
	'•': true, '–': true, '—': true, '˜': true,
	'™': true, 'š': true, '›': true, 'œ': true,
	'ž': true, 'Ÿ': true,
}

func encodable(r rune) bool {
	return (r >= 0x20 && r <= 0x7e) || (r >= 0xa0 && r <= 0xff) || cp1252Extras[r]
}

// substitute replaces every rune the page encoding cannot represent
// with the placeholder and returns the number of substitutions.
func substitute(s string, placeholder rune) (string, int) {
	n := 0
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if encodable(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteRune(placeholder)
		n++
	}
	if n == 0 {
		return s, 0
	}
	return b.String(), n
}
