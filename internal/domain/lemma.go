package domain

// InflectedForm maps a surface form of a lemma to the semantic role it
// plays, used only for the identity resolver's form-index lookup (spec
// §4.1 step (e)); it never changes scheduling identity.
type InflectedForm struct {
	Surface string
	Role    string
}

// Lemma is the canonical dictionary form of a word: the unit of
// scheduling. The bare form is unique per lemma. A lemma pointed at by
// another lemma's CanonicalLemmaID never receives scheduling or reviews
// (spec §3 invariant).
type Lemma struct {
	ID               string
	Bare             string // diacritic-free surface string, unique
	Diacritized      string // optional; "" if unknown
	POS              string
	RootID           *string // weak reference, optional
	Gloss            string
	FrequencyRank    *int
	CEFRBand         string // optional, "" if unset
	Category         WordCategory
	InflectedForms   []InflectedForm
	CanonicalLemmaID *string // non-nil iff this lemma is a variant
}

// IsVariant reports whether this lemma has been redirected to a canonical
// lemma and therefore never receives independent scheduling.
func (l Lemma) IsVariant() bool {
	return l.CanonicalLemmaID != nil
}

// AutoIntroEligible reports whether this lemma's category permits
// automatic promotion from encountered to acquiring (spec §4.7: proper
// names and onomatopoeia are never auto-introduced).
func (l Lemma) AutoIntroEligible() bool {
	return l.Category != CategoryProperName && l.Category != CategoryOnomatopoeia && l.Category != CategoryJunk
}
