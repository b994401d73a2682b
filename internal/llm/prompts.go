package llm

import (
	"errors"
	"fmt"
	"strings"
)

var (
	errInvalidVerdict = errors.New("oracle returned an unrecognized verdict")
	errEmptySentence  = errors.New("oracle returned an empty sentence")
)

const variantConfirmSystemPrompt = `You are a lexicographer judging whether two Arabic words are the same learning unit for a vocabulary learner. Respond with a single JSON object: {"verdict": "equivalent" | "distinct", "confidence": 0.0-1.0}. "equivalent" means a learner should only ever see one of them scheduled, e.g. alternate spellings, a construct-state form of the same lemma, or a regional variant of the same meaning. "distinct" means they are different words that happen to look similar.`

func buildVariantConfirmPrompt(req VariantConfirmRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Word A: %s", req.LemmaABare)
	if req.LemmaADiacritized != "" {
		fmt.Fprintf(&b, " (%s)", req.LemmaADiacritized)
	}
	if req.LemmaAGloss != "" {
		fmt.Fprintf(&b, " — %s", req.LemmaAGloss)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Word B: %s", req.LemmaBBare)
	if req.LemmaBDiacritized != "" {
		fmt.Fprintf(&b, " (%s)", req.LemmaBDiacritized)
	}
	if req.LemmaBGloss != "" {
		fmt.Fprintf(&b, " — %s", req.LemmaBGloss)
	}
	return b.String()
}

const sentenceGenerateSystemPrompt = `You are writing short comprehensible-input sentences for an Arabic vocabulary learner. Respond with a single JSON object: {"arabic": "...", "english": "..."}. The Arabic sentence must use every target word given, use only vocabulary the learner already knows for the rest of the sentence, and stay within the requested target-word-count range.`

func buildSentenceGeneratePrompt(req SentenceGenerateRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Target words (use all, %d-%d of them): %s\n",
		req.MinTargetWords, req.MaxTargetWords, strings.Join(req.TargetBares, ", "))
	if len(req.ScaffoldBares) > 0 {
		fmt.Fprintf(&b, "Known vocabulary to prefer for the rest of the sentence: %s\n",
			strings.Join(req.ScaffoldBares, ", "))
	}
	return b.String()
}

const sentenceReviewSystemPrompt = `You are reviewing a drafted Arabic sentence for a vocabulary learner before it enters their practice pool. Respond with a single JSON object: {"approved": true|false, "reason": "..."}. Reject the sentence if it uses any word the learner does not know besides the listed target words, if the Arabic is grammatically broken, or if the English gloss does not match the Arabic.`

func buildSentenceReviewPrompt(req SentenceReviewRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Arabic: %s\nEnglish: %s\n", req.Arabic, req.English)
	fmt.Fprintf(&b, "Target words: %s\n", strings.Join(req.TargetBares, ", "))
	fmt.Fprintf(&b, "Known vocabulary: %s\n", strings.Join(req.KnownBares, ", "))
	return b.String()
}
