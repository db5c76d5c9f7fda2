package nlp

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/misinfoguard/sentinel/internal/config"
	"github.com/misinfoguard/sentinel/internal/models"
)

// OpenAIAnalyzer classifies sentiment with a chat model. A failed or
// unparseable completion degrades to the lexicon analyzer rather than
// surfacing an error to the pipeline.
type OpenAIAnalyzer struct {
	client   *openai.Client
	model    string
	fallback *LexiconAnalyzer
}

// NewOpenAIAnalyzer creates an OpenAI-backed sentiment analyzer.
func NewOpenAIAnalyzer(cfg *config.NLP) (*OpenAIAnalyzer, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	model := cfg.OpenAIModel
	if model == "" {
		model = "gpt-4o-mini"
	}

	return &OpenAIAnalyzer{
		client:   openai.NewClient(cfg.OpenAIAPIKey),
		model:    model,
		fallback: NewLexiconAnalyzer(),
	}, nil
}

// Name returns the analyzer name.
func (a *OpenAIAnalyzer) Name() string { return "openai" }

const sentimentSystemPrompt = `Classify the sentiment of the user's text. ` +
	`Respond with exactly one word: positive, negative, or neutral.`

// Sentiment classifies text, falling back to the lexicon analyzer on any
// provider failure.
func (a *OpenAIAnalyzer) Sentiment(ctx context.Context, text string) models.Sentiment {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: sentimentSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		MaxTokens:   4,
		Temperature: 0,
	})
	if err != nil {
		log.Warn().Err(err).Msg("OpenAI sentiment failed, using lexicon fallback")
		return a.fallback.Sentiment(ctx, text)
	}
	if len(resp.Choices) == 0 {
		return a.fallback.Sentiment(ctx, text)
	}

	switch strings.ToLower(strings.TrimSpace(resp.Choices[0].Message.Content)) {
	case "positive":
		return models.SentimentPositive
	case "negative":
		return models.SentimentNegative
	case "neutral":
		return models.SentimentNeutral
	default:
		return a.fallback.Sentiment(ctx, text)
	}
}
