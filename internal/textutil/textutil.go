// Package textutil provides the tokenization and similarity primitives shared
// by the segmentation and extraction stages.
package textutil

import (
	"regexp"
	"strings"
	"unicode"
)

// DefaultStopWords is the stop-word set used for similarity and query
// compression. Injected into components at construction so deployments can
// tune it without touching package state.
var DefaultStopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "from": true, "as": true, "is": true, "was": true,
	"are": true, "were": true, "been": true, "be": true, "have": true,
	"has": true, "had": true, "do": true, "does": true, "did": true,
	"will": true, "would": true, "should": true, "could": true, "may": true,
	"might": true, "must": true, "can": true, "it": true, "its": true,
	"this": true, "that": true,
}

// RelevanceStopWords is the smaller set used when matching claims against
// evidence snippets.
var RelevanceStopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true,
}

var (
	wordRe    = regexp.MustCompile(`[\p{L}\p{N}]+`)
	digitRe   = regexp.MustCompile(`\d`)
	capitalRe = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\b`)
	numberRe  = regexp.MustCompile(`\b\d[\d.,%]*\b`)
)

// Tokens splits text into lowercase word tokens.
func Tokens(text string) []string {
	return wordRe.FindAllString(strings.ToLower(text), -1)
}

// TokenSet builds the deduplicated lowercase token set of text, dropping any
// token present in stop.
func TokenSet(text string, stop map[string]bool) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range Tokens(text) {
		if !stop[tok] {
			set[tok] = true
		}
	}
	return set
}

// FieldSet builds a token set from whitespace-split lowercase fields, the
// coarser tokenization used for claim/snippet relevance.
func FieldSet(text string, stop map[string]bool) map[string]bool {
	set := make(map[string]bool)
	for _, f := range strings.Fields(strings.ToLower(text)) {
		if !stop[f] {
			set[f] = true
		}
	}
	return set
}

// Jaccard computes the Jaccard similarity of two token sets. It returns 0
// when either set is empty; callers that want "both empty means similar"
// handle that case themselves.
func Jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for tok := range a {
		if b[tok] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// CapitalizedPhrases returns runs of capitalized words, the proper-noun
// approximation used when no entity metadata is available.
func CapitalizedPhrases(text string) []string {
	return capitalRe.FindAllString(text, -1)
}

// NumberTokens returns numeric tokens (counts, percentages, amounts).
func NumberTokens(text string) []string {
	return numberRe.FindAllString(text, -1)
}

// TopicTokenSet builds the token set used for segment topic comparison:
// capitalized phrases broken into words plus numeric tokens, lowercased.
func TopicTokenSet(text string, stop map[string]bool) map[string]bool {
	set := make(map[string]bool)
	for _, phrase := range CapitalizedPhrases(text) {
		for _, w := range strings.Fields(strings.ToLower(phrase)) {
			if !stop[w] {
				set[w] = true
			}
		}
	}
	for _, n := range NumberTokens(text) {
		set[n] = true
	}
	return set
}

// HasDigit reports whether text contains any decimal digit.
func HasDigit(text string) bool {
	return digitRe.MatchString(text)
}

// WordCount counts whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// NonPunctTokenCount counts tokens that contain at least one letter or digit.
func NonPunctTokenCount(text string) int {
	count := 0
	for _, f := range strings.Fields(text) {
		for _, r := range f {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				count++
				break
			}
		}
	}
	return count
}

// Truncate limits s to max bytes without splitting a rune.
func Truncate(s string, max int) string {
	if max < 0 {
		max = 0
	}
	if len(s) <= max {
		return s
	}
	for max > 0 && s[max]&0xC0 == 0x80 {
		max--
	}
	return s[:max]
}
