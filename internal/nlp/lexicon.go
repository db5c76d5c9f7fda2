package nlp

import (
	"context"

	"github.com/misinfoguard/sentinel/internal/models"
	"github.com/misinfoguard/sentinel/internal/textutil"
)

// Polarity cutoffs: mean word polarity above +0.1 is positive, below -0.1
// negative, anything between is neutral.
const polarityCutoff = 0.1

var positiveWords = map[string]float64{
	"good": 0.7, "great": 0.8, "excellent": 1.0, "positive": 0.6,
	"success": 0.7, "successful": 0.7, "win": 0.6, "wins": 0.6,
	"growth": 0.5, "improve": 0.6, "improved": 0.6, "improvement": 0.6,
	"benefit": 0.5, "benefits": 0.5, "best": 0.9, "happy": 0.8,
	"celebrate": 0.7, "praised": 0.6, "strong": 0.4, "record": 0.3,
	"historic": 0.4, "breakthrough": 0.7, "peace": 0.6, "agreement": 0.4,
	"amazing": 0.9, "wonderful": 0.9, "love": 0.8, "support": 0.4,
	"approve": 0.5, "approved": 0.5, "safe": 0.5, "recovery": 0.5,
}

var negativeWords = map[string]float64{
	"bad": -0.7, "terrible": -0.9, "awful": -0.9, "negative": -0.6,
	"fail": -0.7, "failed": -0.7, "failure": -0.7, "crisis": -0.7,
	"disaster": -0.9, "death": -0.8, "deaths": -0.8, "dead": -0.8,
	"killed": -0.9, "attack": -0.7, "attacks": -0.7, "war": -0.7,
	"corruption": -0.7, "scandal": -0.7, "fraud": -0.8, "collapse": -0.7,
	"decline": -0.5, "loss": -0.5, "losses": -0.5, "worst": -0.9,
	"dangerous": -0.7, "threat": -0.6, "violence": -0.8, "fear": -0.6,
	"panic": -0.7, "hate": -0.8, "angry": -0.6, "protest": -0.4,
	"shocking": -0.6, "outrage": -0.7, "banned": -0.4, "crash": -0.7,
}

// LexiconAnalyzer scores sentiment from fixed polarity word lists. It is the
// default analyzer and never fails.
type LexiconAnalyzer struct {
	positive map[string]float64
	negative map[string]float64
}

// NewLexiconAnalyzer creates a lexicon-based sentiment analyzer.
func NewLexiconAnalyzer() *LexiconAnalyzer {
	return &LexiconAnalyzer{positive: positiveWords, negative: negativeWords}
}

// Name returns the analyzer name.
func (a *LexiconAnalyzer) Name() string { return "lexicon" }

// Sentiment classifies text as positive, negative or neutral by mean token
// polarity.
func (a *LexiconAnalyzer) Sentiment(_ context.Context, text string) models.Sentiment {
	tokens := textutil.Tokens(text)
	if len(tokens) == 0 {
		return models.SentimentNeutral
	}

	var total float64
	scored := 0
	for _, tok := range tokens {
		if p, ok := a.positive[tok]; ok {
			total += p
			scored++
		} else if p, ok := a.negative[tok]; ok {
			total += p
			scored++
		}
	}
	if scored == 0 {
		return models.SentimentNeutral
	}

	polarity := total / float64(scored)
	switch {
	case polarity > polarityCutoff:
		return models.SentimentPositive
	case polarity < -polarityCutoff:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}
