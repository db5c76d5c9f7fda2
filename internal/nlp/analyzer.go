// Package nlp provides sentiment analysis and language detection for the
// analysis pipeline. The pipeline only depends on the interfaces here; the
// default implementations are pure lexicon lookups with no external calls.
package nlp

import (
	"context"
	"fmt"

	"github.com/misinfoguard/sentinel/internal/config"
	"github.com/misinfoguard/sentinel/internal/models"
)

// SentimentAnalyzer assigns a sentiment label to text.
type SentimentAnalyzer interface {
	Sentiment(ctx context.Context, text string) models.Sentiment

	// Name returns the analyzer name.
	Name() string
}

// LanguageDetector guesses the ISO 639-1 language code of text. Detectors
// must return "en" rather than fail when the language cannot be determined.
type LanguageDetector interface {
	Detect(text string) string
}

// DetectorFunc adapts a plain function to the LanguageDetector interface.
type DetectorFunc func(text string) string

func (f DetectorFunc) Detect(text string) string { return f(text) }

// NewSentimentAnalyzer creates a sentiment analyzer based on configuration.
func NewSentimentAnalyzer(cfg *config.NLP) (SentimentAnalyzer, error) {
	switch cfg.Provider {
	case "", "lexicon":
		return NewLexiconAnalyzer(), nil
	case "openai":
		return NewOpenAIAnalyzer(cfg)
	default:
		return nil, fmt.Errorf("unsupported NLP provider: %s", cfg.Provider)
	}
}
