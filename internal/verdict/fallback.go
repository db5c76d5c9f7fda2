package verdict

import (
	"fmt"

	"github.com/misinfoguard/sentinel/internal/models"
	"github.com/misinfoguard/sentinel/internal/textutil"
)

// Fallback renders a verdict from claim-intrinsic heuristics alone, used
// when no evidence provider is reachable. It always returns a well-formed
// result with no sources.
func (e *Engine) Fallback(claim models.Claim) models.VerdictResult {
	redFlags := e.countRedFlags(claim.Text)
	hasNumbers := textutil.HasDigit(claim.Text)
	hasEntities := len(claim.Entities) > 0
	extremeSentiment := claim.Sentiment == models.SentimentPositive || claim.Sentiment == models.SentimentNegative

	var verdict models.Verdict
	var confidence float64
	var explanation string

	switch {
	case redFlags > 0:
		verdict = models.VerdictLikelyFalse
		confidence = float64(70 + redFlags*5)
		explanation = fmt.Sprintf("This claim contains %d red flag(s) commonly found in misinformation. "+
			"Exercise extreme caution. Fact-checking APIs unavailable - manual verification recommended.", redFlags)

	case extremeSentiment && !hasNumbers && !hasEntities:
		verdict = models.VerdictLikelyFalse
		confidence = 60
		explanation = "This claim uses emotional language without specific verifiable details. " +
			"Fact-checking APIs unavailable - manual verification recommended."

	case hasNumbers && hasEntities:
		verdict = models.VerdictUnverified
		confidence = 50
		explanation = "This claim contains specific details that can be verified. " +
			"Fact-checking APIs unavailable - please verify through trusted news sources."

	default:
		verdict = models.VerdictUnverified
		confidence = 50
		explanation = "Unable to verify this claim automatically. " +
			"Fact-checking APIs unavailable - please check trusted news sources manually."
	}

	if confidence > 100 {
		confidence = 100
	}

	return models.VerdictResult{
		Claim:             claim.Text,
		Verdict:           verdict,
		Confidence:        confidence,
		Explanation:       explanation,
		Sources:           []models.Source{},
		TotalSourcesFound: 0,
		RedFlags:          redFlags,
		Timestamp:         e.now(),
	}
}
