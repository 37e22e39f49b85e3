package xlmacro

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// smallWords stay lowercase unless they open or close the text.
var smallWords = map[string]bool{
	"a": true, "an": true, "and": true, "as": true, "at": true, "but": true,
	"by": true, "for": true, "in": true, "of": true, "on": true, "or": true,
	"the": true, "to": true, "up": true, "via": true, "with": true,
}

// acronyms are always written in uppercase.
var acronyms = map[string]bool{"USA": true, "US": true}

// TitleCase converts s to title case. Words are split on single spaces so
// runs of spaces survive. Acronyms stay uppercase, the first and last words
// are capitalized, and small words such as "and" or "of" stay lowercase in
// between.
func TitleCase(s string) string {
	// Casers keep state and are created per call.
	lowerCaser := cases.Lower(language.Und)
	upperCaser := cases.Upper(language.Und)

	words := strings.Split(lowerCaser.String(s), " ")
	for i, w := range words {
		upper := upperCaser.String(w)
		switch {
		case acronyms[upper]:
			words[i] = upper
		case i == 0 || i == len(words)-1:
			words[i] = capitalize(upperCaser, w)
		case smallWords[w]:
		default:
			words[i] = capitalize(upperCaser, w)
		}
	}
	return strings.Join(words, " ")
}

// capitalize upper-cases the first rune of w and leaves the rest as is, so
// "t-shirt" becomes "T-shirt" and "1st" is unchanged.
func capitalize(upper cases.Caser, w string) string {
	if w == "" {
		return w
	}
	_, size := utf8.DecodeRuneInString(w)
	return upper.String(w[:size]) + w[size:]
}

// ReplaceCommasWithPipes rewrites every comma as " |", the attribute
// separator expected by WooCommerce importers. Empty values are untouched.
func ReplaceCommasWithPipes(s string) string {
	if s == "" {
		return s
	}
	return strings.ReplaceAll(s, ",", " |")
}
