package identity

import "strings"

// diacritics are the Arabic combining marks stripped for comparison only
// (fatha, damma, kasra, sukun, shadda, tanwin, superscript alef, etc).
// Lemmas keep their original diacritized form in storage; only comparisons
// go through Normalize.
var diacritics = map[rune]bool{
	0x064B: true, // FATHATAN
	0x064C: true, // DAMMATAN
	0x064D: true, // KASRATAN
	0x064E: true, // FATHA
	0x064F: true, // DAMMA
	0x0650: true, // KASRA
	0x0651: true, // SHADDA
	0x0652: true, // SUKUN
	0x0653: true, // MADDAH ABOVE
	0x0654: true, // HAMZA ABOVE
	0x0655: true, // HAMZA BELOW
	0x0670: true, // SUPERSCRIPT ALEF
}

// alefHamzaFold collapses the alef and hamza family to a single canonical
// codepoint for comparison, the same composition the teacher's pack shows
// OpenType Arabic shaping doing at the glyph level (compose base+mark into
// one codepoint before matching) — here applied to whole letters instead
// of glyph clusters.
var alefHamzaFold = map[rune]rune{
	0x0622: 0x0627, // ALEF WITH MADDA ABOVE -> ALEF
	0x0623: 0x0627, // ALEF WITH HAMZA ABOVE -> ALEF
	0x0625: 0x0627, // ALEF WITH HAMZA BELOW -> ALEF
	0x0671: 0x0627, // ALEF WASLA -> ALEF
	0x0649: 0x064A, // ALEF MAKSURA -> YEH
	0x0629: 0x0647, // TEH MARBUTA -> HEH
}

// Normalize folds surface to its comparison-only canonical form: diacritics
// stripped, alef/hamza variants collapsed. The stored lemma's Bare/
// Diacritized fields are never overwritten with this output (spec §4.1
// policy).
func Normalize(surface string) string {
	var b strings.Builder
	b.Grow(len(surface))
	for _, r := range surface {
		if diacritics[r] {
			continue
		}
		if folded, ok := alefHamzaFold[r]; ok {
			r = folded
		}
		b.WriteRune(r)
	}
	return b.String()
}

// punctuationTrimSet covers Arabic and ASCII punctuation stripped from
// token boundaries before resolution (step (a)).
const punctuationTrimSet = "،؛؟!.,:;?\"'()[]{}«»-ـ "

// StripBoundaryPunctuation trims leading/trailing punctuation from a raw
// token. Does not touch internal characters.
func StripBoundaryPunctuation(token string) string {
	return strings.Trim(token, punctuationTrimSet)
}

// runeCount is len([]rune(s)), used for the single-character-abbreviation
// and minimum-bare-length checks in step (a).
func runeCount(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}
