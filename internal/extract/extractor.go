// Package extract turns raw text into checkable claims. Short inputs become
// one claim; long inputs are filtered to factual sentences which are either
// merged (single topic) or ranked (multiple topics).
package extract

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/misinfoguard/sentinel/internal/models"
	"github.com/misinfoguard/sentinel/internal/nlp"
	"github.com/misinfoguard/sentinel/internal/textutil"
)

const (
	minClaimWords     = 5
	shortTextWords    = 50
	minSentenceWords  = 5
	maxClaimChars     = 1000
	maxMultiTopic     = 3
	shortTextScore    = 0.75
	noFactualScore    = 0.6
	recoveredScore    = 0.5
	maxSentenceScore  = 0.95
	baseSentenceScore = 0.5
)

// Extractor extracts claims from text.
type Extractor struct {
	sentiment  nlp.SentimentAnalyzer
	detector   nlp.LanguageDetector
	topicMatch float64
}

// New creates an extractor. topicMatch is the mean entity-overlap above
// which factual sentences are considered one topic and merged.
func New(sentiment nlp.SentimentAnalyzer, detector nlp.LanguageDetector, topicMatch float64) *Extractor {
	return &Extractor{
		sentiment:  sentiment,
		detector:   detector,
		topicMatch: topicMatch,
	}
}

// scored is a factual sentence with its attributed entities and confidence.
type scored struct {
	text       string
	entities   []models.Entity
	sentiment  models.Sentiment
	confidence float64
}

// Extract produces the ordered claim list for text. Entities are optional
// pre-computed metadata with offsets into text; lang may be empty, in which
// case the detector runs. Extraction never fails: any internal panic is
// recovered into a single neutral claim.
func (e *Extractor) Extract(ctx context.Context, text, lang string, entities []models.Entity) (claims []models.Claim) {
	if lang == "" {
		lang = e.detector.Detect(text)
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Claim extraction recovered")
			claims = []models.Claim{{
				Text:       textutil.Truncate(text, maxClaimChars),
				Language:   lang,
				Entities:   nil,
				Sentiment:  models.SentimentNeutral,
				Confidence: recoveredScore,
			}}
		}
	}()

	words := textutil.WordCount(text)
	if words < minClaimWords {
		return nil
	}

	// Short inputs are not split: segmentation below this length adds more
	// noise than signal.
	trimmed := strings.TrimSpace(text)
	if words < shortTextWords {
		return []models.Claim{{
			Text:       trimmed,
			Language:   lang,
			Entities:   entities,
			Sentiment:  e.sentiment.Sentiment(ctx, trimmed),
			Confidence: shortTextScore,
		}}
	}

	factual := e.factualSentences(ctx, text, lang, entities)
	if len(factual) == 0 {
		return []models.Claim{{
			Text:       textutil.Truncate(trimmed, maxClaimChars),
			Language:   lang,
			Entities:   entities,
			Sentiment:  e.sentiment.Sentiment(ctx, text),
			Confidence: noFactualScore,
		}}
	}

	if len(factual) <= maxMultiTopic || e.singleTopic(factual) {
		return []models.Claim{e.merge(ctx, lang, factual)}
	}

	return topRanked(lang, factual)
}

// factualSentences runs the factuality predicate over the sentence split.
func (e *Extractor) factualSentences(ctx context.Context, text, lang string, entities []models.Entity) []scored {
	var out []scored
	for _, sent := range splitSentences(text) {
		if textutil.WordCount(sent.text) < minSentenceWords {
			continue
		}
		if !isFactual(sent.text, lang) {
			continue
		}
		ents := entitiesIn(entities, sent.start, sent.end)
		out = append(out, scored{
			text:       sent.text,
			entities:   ents,
			sentiment:  e.sentiment.Sentiment(ctx, sent.text),
			confidence: sentenceConfidence(sent.text, len(ents)),
		})
	}
	return out
}

// singleTopic reports whether the factual sentences share one topic: mean
// pairwise Jaccard overlap of their entity sets above the threshold. With no
// entities anywhere there is nothing to separate on, so it holds trivially.
func (e *Extractor) singleTopic(sentences []scored) bool {
	if len(sentences) <= 1 {
		return true
	}

	sets := make([]map[string]bool, len(sentences))
	any := false
	for i, s := range sentences {
		set := make(map[string]bool, len(s.entities))
		for _, ent := range s.entities {
			set[strings.ToLower(ent.Text)] = true
		}
		sets[i] = set
		if len(set) > 0 {
			any = true
		}
	}
	if !any {
		return true
	}

	var total float64
	comparisons := 0
	for i := range sets {
		for j := i + 1; j < len(sets); j++ {
			if len(sets[i]) > 0 && len(sets[j]) > 0 {
				total += textutil.Jaccard(sets[i], sets[j])
				comparisons++
			}
		}
	}
	if comparisons == 0 {
		return true
	}
	return total/float64(comparisons) > e.topicMatch
}

// merge combines factual sentences into one claim: concatenated text, union
// of distinct (text, type) entities, sentiment recomputed on the merged
// text, mean confidence.
func (e *Extractor) merge(ctx context.Context, lang string, sentences []scored) models.Claim {
	var parts []string
	var entities []models.Entity
	seen := make(map[[2]string]bool)
	var confidence float64

	for _, s := range sentences {
		parts = append(parts, s.text)
		confidence += s.confidence
		for _, ent := range s.entities {
			key := [2]string{ent.Text, string(ent.Type)}
			if !seen[key] {
				seen[key] = true
				entities = append(entities, ent)
			}
		}
	}

	combined := strings.Join(parts, " ")
	return models.Claim{
		Text:       textutil.Truncate(combined, maxClaimChars),
		Language:   lang,
		Entities:   entities,
		Sentiment:  e.sentiment.Sentiment(ctx, combined),
		Confidence: confidence / float64(len(sentences)),
	}
}

// topRanked returns the top factual sentences by confidence, each as its own
// claim. The sort is stable so equal-confidence sentences keep text order.
func topRanked(lang string, sentences []scored) []models.Claim {
	ranked := make([]scored, len(sentences))
	copy(ranked, sentences)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].confidence > ranked[j].confidence })

	if len(ranked) > maxMultiTopic {
		ranked = ranked[:maxMultiTopic]
	}

	claims := make([]models.Claim, len(ranked))
	for i, s := range ranked {
		claims[i] = models.Claim{
			Text:       s.text,
			Language:   lang,
			Entities:   s.entities,
			Sentiment:  s.sentiment,
			Confidence: s.confidence,
		}
	}
	return claims
}

// sentenceConfidence scores one sentence: base 0.5, up to +0.2 for entities,
// +0.15 for digits, +0.1 for length, capped at 0.95.
func sentenceConfidence(text string, entityCount int) float64 {
	confidence := baseSentenceScore

	if entityCount > 0 {
		bonus := 0.05 * float64(entityCount)
		if bonus > 0.2 {
			bonus = 0.2
		}
		confidence += bonus
	}
	if textutil.HasDigit(text) {
		confidence += 0.15
	}
	if textutil.NonPunctTokenCount(text) > 10 {
		confidence += 0.1
	}

	if confidence > maxSentenceScore {
		return maxSentenceScore
	}
	return confidence
}

// entitiesIn selects entities whose span falls inside [start, end).
func entitiesIn(entities []models.Entity, start, end int) []models.Entity {
	var out []models.Entity
	for _, ent := range entities {
		if ent.Start >= start && ent.End <= end {
			out = append(out, ent)
		}
	}
	return out
}
