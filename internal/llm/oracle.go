package llm

import "context"

// VariantConfirmRequest asks the oracle whether two surface forms of a word
// are the same learning unit (spec §4.1 step (f)).
type VariantConfirmRequest struct {
	LemmaABare, LemmaADiacritized string
	LemmaBBare, LemmaBDiacritized string
	LemmaAGloss, LemmaBGloss      string
}

// VariantConfirmResult is the oracle's structured answer.
type VariantConfirmResult struct {
	Verdict    string  `json:"verdict"` // "equivalent" or "distinct"
	Confidence float64 `json:"confidence"`
}

// SentenceGenerateRequest asks the oracle to draft a sentence targeting the
// given lemmas (spec §4.3 JIT generation).
type SentenceGenerateRequest struct {
	TargetBares    []string
	ScaffoldBares  []string // known vocabulary to prefer for the rest of the sentence
	MinTargetWords int
	MaxTargetWords int
}

// SentenceGenerateResult is the oracle's drafted sentence.
type SentenceGenerateResult struct {
	Arabic  string `json:"arabic"`
	English string `json:"english"`
}

// SentenceReviewRequest asks the oracle to check a drafted sentence against
// the comprehensible-input constraints before it is admitted to the active
// pool (spec §4.3 semantic review).
type SentenceReviewRequest struct {
	Arabic        string
	English       string
	TargetBares   []string
	KnownBares    []string // the learner's currently consolidated vocabulary
}

// SentenceReviewResult is the oracle's verdict.
type SentenceReviewResult struct {
	Approved bool   `json:"approved"`
	Reason   string `json:"reason"`
}

// Oracle is the typed LLM surface the identity resolver and material
// manager depend on, layered over the generic Generate call the same way
// kairos's service layer composed prompts around a single-task LLMClient.
type Oracle interface {
	ConfirmVariant(ctx context.Context, req VariantConfirmRequest) (VariantConfirmResult, error)
	GenerateSentence(ctx context.Context, req SentenceGenerateRequest) (SentenceGenerateResult, error)
	ReviewSentence(ctx context.Context, req SentenceReviewRequest) (SentenceReviewResult, error)
}

// clientOracle implements Oracle over an LLMClient.
type clientOracle struct {
	client LLMClient
}

// NewOracle wraps client as the typed three-contract Oracle surface.
func NewOracle(client LLMClient) Oracle {
	return &clientOracle{client: client}
}

func (o *clientOracle) ConfirmVariant(ctx context.Context, req VariantConfirmRequest) (VariantConfirmResult, error) {
	resp, err := o.client.Generate(ctx, GenerateRequest{
		Task:         TaskVariantConfirm,
		SystemPrompt: variantConfirmSystemPrompt,
		UserPrompt:   buildVariantConfirmPrompt(req),
	})
	if err != nil {
		return VariantConfirmResult{}, err
	}
	return ExtractJSON[VariantConfirmResult](resp.Text, validateVariantConfirmResult)
}

func (o *clientOracle) GenerateSentence(ctx context.Context, req SentenceGenerateRequest) (SentenceGenerateResult, error) {
	resp, err := o.client.Generate(ctx, GenerateRequest{
		Task:         TaskSentenceGenerate,
		SystemPrompt: sentenceGenerateSystemPrompt,
		UserPrompt:   buildSentenceGeneratePrompt(req),
	})
	if err != nil {
		return SentenceGenerateResult{}, err
	}
	return ExtractJSON[SentenceGenerateResult](resp.Text, validateSentenceGenerateResult)
}

func (o *clientOracle) ReviewSentence(ctx context.Context, req SentenceReviewRequest) (SentenceReviewResult, error) {
	resp, err := o.client.Generate(ctx, GenerateRequest{
		Task:         TaskSentenceReview,
		SystemPrompt: sentenceReviewSystemPrompt,
		UserPrompt:   buildSentenceReviewPrompt(req),
	})
	if err != nil {
		return SentenceReviewResult{}, err
	}
	return ExtractJSON[SentenceReviewResult](resp.Text, nil)
}

func validateVariantConfirmResult(r VariantConfirmResult) error {
	if r.Verdict != "equivalent" && r.Verdict != "distinct" {
		return errInvalidVerdict
	}
	return nil
}

func validateSentenceGenerateResult(r SentenceGenerateResult) error {
	if r.Arabic == "" {
		return errEmptySentence
	}
	return nil
}
