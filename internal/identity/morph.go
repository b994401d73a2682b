package identity

// Analysis is one candidate morphological parse of a surface form.
type Analysis struct {
	Lex        string  // the lexeme the analyzer believes this form belongs to
	Likelihood float64 // relative likelihood among this surface's analyses
}

// MorphAnalyzer is the external morphological-analysis collaborator (spec
// §4.1 step (f)). Alif treats it as an interface only; a real deployment
// wires a proper Arabic morphological analyzer behind it. TableAnalyzer
// below is a deterministic in-memory stand-in used in tests and for
// environments without one configured.
type MorphAnalyzer interface {
	Analyze(surface string) []Analysis
}

// TableAnalyzer is a fixed surface->lexeme lookup table, useful as a seed
// analyzer for known closed-class vocabulary (function words, a starter
// wordlist) when no real morphological engine is configured.
type TableAnalyzer struct {
	table map[string]string // surface -> lex
}

// NewTableAnalyzer builds a TableAnalyzer from a surface->lex map.
func NewTableAnalyzer(table map[string]string) *TableAnalyzer {
	return &TableAnalyzer{table: table}
}

func (a *TableAnalyzer) Analyze(surface string) []Analysis {
	lex, ok := a.table[surface]
	if !ok {
		return nil
	}
	return []Analysis{{Lex: lex, Likelihood: 1.0}}
}

// noopAnalyzer always returns no analyses; the zero value for an unset
// MorphAnalyzer dependency.
type noopAnalyzer struct{}

func (noopAnalyzer) Analyze(string) []Analysis { return nil }
