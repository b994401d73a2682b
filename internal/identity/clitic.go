package identity

import "strings"

// cliticKind distinguishes where a clitic attaches, since proclitics strip
// from the front and enclitics strip from the back.
type cliticKind int

const (
	proclitic cliticKind = iota
	enclitic
)

// clitic is one entry in the data-driven strip table (spec §4.1 step (d):
// "a bounded set of recognized proclitics ... and enclitic pronominal
// suffixes, one at a time, in defined priority order"). Named but not
// enumerated by the spec; CliticTable is the concrete priority order.
type clitic struct {
	surface string
	kind    cliticKind
}

// CliticTable is the priority-ordered strip list. Longest/most specific
// forms are listed first within each kind so e.g. the conjunction+
// article compound "وال" is tried before the bare conjunction "و".
var CliticTable = []clitic{
	// Proclitics: definite article, conjunctions, prepositions, in
	// descending specificity.
	{surface: "وبال", kind: proclitic},
	{surface: "فبال", kind: proclitic},
	{surface: "وال", kind: proclitic},
	{surface: "فال", kind: proclitic},
	{surface: "بال", kind: proclitic},
	{surface: "كال", kind: proclitic},
	{surface: "لل", kind: proclitic},
	{surface: "ال", kind: proclitic},
	{surface: "و", kind: proclitic}, // conjunction "and"
	{surface: "ف", kind: proclitic}, // conjunction "so/then"
	{surface: "ب", kind: proclitic}, // preposition "with/by"
	{surface: "ك", kind: proclitic}, // preposition "like/as"
	{surface: "ل", kind: proclitic}, // preposition "for/to"

	// Enclitic pronominal suffixes, longest first.
	{surface: "هما", kind: enclitic},
	{surface: "كما", kind: enclitic},
	{surface: "هن", kind: enclitic},
	{surface: "كن", kind: enclitic},
	{surface: "كم", kind: enclitic},
	{surface: "هم", kind: enclitic},
	{surface: "نا", kind: enclitic},
	{surface: "ها", kind: enclitic},
	{surface: "ني", kind: enclitic},
	{surface: "ي", kind: enclitic},
	{surface: "ك", kind: enclitic},
	{surface: "ه", kind: enclitic},
}

// StripClitics returns every candidate bare form obtainable by removing
// exactly one clitic from surface, in CliticTable priority order. Callers
// try each in turn against the lemma index and stop at the first hit.
func StripClitics(surface string) []string {
	var candidates []string
	for _, c := range CliticTable {
		switch c.kind {
		case proclitic:
			if strings.HasPrefix(surface, c.surface) {
				rest := strings.TrimPrefix(surface, c.surface)
				if runeCount(rest) >= 2 {
					candidates = append(candidates, rest)
				}
			}
		case enclitic:
			if strings.HasSuffix(surface, c.surface) {
				rest := strings.TrimSuffix(surface, c.surface)
				if runeCount(rest) >= 2 {
					candidates = append(candidates, rest)
				}
			}
		}
	}
	return candidates
}
