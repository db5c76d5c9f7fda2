// Package verdict scores gathered evidence and renders the three-way verdict
// for a claim.
package verdict

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/misinfoguard/sentinel/internal/models"
	"github.com/misinfoguard/sentinel/internal/search"
	"github.com/misinfoguard/sentinel/internal/textutil"
)

const maxSearchHits = 10

// DefaultRedFlags are substrings strongly associated with misinformation
// rhetoric.
var DefaultRedFlags = []string{
	"secret", "they don't want you to know",
	"doctors hate", "shocking truth",
	"miracle cure", "guaranteed",
	"breaking news exclusive", "this one trick",
}

// Config carries the engine's injected tables and thresholds.
type Config struct {
	TrustedDomains     map[string]float64
	RedFlags           []string
	RelevanceThreshold float64
}

// DefaultConfig returns the shipped tables and thresholds.
func DefaultConfig() Config {
	return Config{
		TrustedDomains:     DefaultTrustedDomains,
		RedFlags:           DefaultRedFlags,
		RelevanceThreshold: 0.15,
	}
}

// Engine evaluates evidence into verdicts.
type Engine struct {
	trustedDomains     map[string]float64
	redFlags           []string
	relevanceThreshold float64
	stopWords          map[string]bool
	now                func() time.Time
}

// New creates a verdict engine.
func New(cfg Config) *Engine {
	if cfg.TrustedDomains == nil {
		cfg.TrustedDomains = DefaultTrustedDomains
	}
	if cfg.RedFlags == nil {
		cfg.RedFlags = DefaultRedFlags
	}
	if cfg.RelevanceThreshold <= 0 {
		cfg.RelevanceThreshold = 0.15
	}
	return &Engine{
		trustedDomains:     cfg.TrustedDomains,
		redFlags:           cfg.RedFlags,
		relevanceThreshold: cfg.RelevanceThreshold,
		stopWords:          textutil.RelevanceStopWords,
		now:                time.Now,
	}
}

// Evaluate scores the evidence for a claim and renders a verdict. It never
// fails: missing or empty evidence yields a NEEDS VERIFICATION result.
func (e *Engine) Evaluate(claim models.Claim, hits []models.SearchHit, records []models.FactCheckRecord) models.VerdictResult {
	sources, credScores := e.scoreSearchHits(claim.Text, hits)

	// Fact-check records become synthetic high-credibility sources; the
	// first rated record drives the verdict decision.
	factCheckVerdict := ""
	for _, rec := range records {
		if rec.Rating == "" {
			continue
		}
		rating := strings.ToLower(rec.Rating)
		if factCheckVerdict == "" {
			factCheckVerdict = rating
		}
		publisher := rec.PublisherName
		if publisher == "" {
			publisher = "Fact Checker"
		}
		sources = append(sources, models.Source{
			URL:         rec.URL,
			Title:       fmt.Sprintf("Fact Check: %s", rec.Text),
			Snippet:     fmt.Sprintf("Rating: %s", rating),
			Credibility: 0.95,
			SourceName:  publisher,
		})
	}

	redFlags := e.countRedFlags(claim.Text)

	avgCredibility := 0.6
	if len(credScores) > 0 {
		var sum float64
		for _, s := range credScores {
			sum += s
		}
		avgCredibility = sum / float64(len(credScores))
	}

	verdict, confidence := e.decide(factCheckVerdict, credScores, avgCredibility, redFlags)

	explanation := e.explain(verdict, avgCredibility, len(sources), redFlags, factCheckVerdict)

	sort.SliceStable(sources, func(i, j int) bool {
		return sources[i].Credibility > sources[j].Credibility
	})

	totalFound := len(sources)
	if len(sources) > 5 {
		sources = sources[:5]
	}

	return models.VerdictResult{
		Claim:             claim.Text,
		Verdict:           verdict,
		Confidence:        roundConfidence(confidence * 100),
		Explanation:       explanation,
		Sources:           sources,
		TotalSourcesFound: totalFound,
		RedFlags:          redFlags,
		Timestamp:         e.now(),
	}
}

// scoreSearchHits converts search hits into scored sources, keeping only
// those relevant enough to the claim.
func (e *Engine) scoreSearchHits(claimText string, hits []models.SearchHit) ([]models.Source, []float64) {
	if len(hits) > maxSearchHits {
		hits = hits[:maxSearchHits]
	}

	var sources []models.Source
	var credScores []float64
	for _, hit := range hits {
		domain := search.ExtractDomain(hit.URL)
		credibility := e.credibility(domain)
		relevance := e.relevance(claimText, hit.Snippet+" "+hit.Title)
		if relevance <= e.relevanceThreshold {
			continue
		}

		rel := relevance
		credScores = append(credScores, credibility)
		sources = append(sources, models.Source{
			URL:         hit.URL,
			Title:       hit.Title,
			Snippet:     hit.Snippet,
			Credibility: credibility,
			Relevance:   &rel,
			SourceName:  domain,
		})
	}
	return sources, credScores
}

// relevance is the Jaccard similarity of claim and snippet words after
// stop-word removal.
func (e *Engine) relevance(claim, snippet string) float64 {
	claimWords := textutil.FieldSet(claim, e.stopWords)
	snippetWords := textutil.FieldSet(snippet, e.stopWords)
	if len(claimWords) == 0 {
		return 0
	}
	return textutil.Jaccard(claimWords, snippetWords)
}

func (e *Engine) countRedFlags(claimText string) int {
	lower := strings.ToLower(claimText)
	count := 0
	for _, flag := range e.redFlags {
		if strings.Contains(lower, flag) {
			count++
		}
	}
	return count
}

// decide applies the verdict rules in their fixed order. An editorial
// fact-check rating trumps source credibility.
func (e *Engine) decide(factCheckVerdict string, credScores []float64, avgCredibility float64, redFlags int) (models.Verdict, float64) {
	if factCheckVerdict != "" {
		switch {
		case containsAny(factCheckVerdict, "false", "wrong", "incorrect", "fake"):
			return models.VerdictLikelyFalse, 0.85
		case containsAny(factCheckVerdict, "true", "correct", "accurate"):
			return models.VerdictLikelyTrue, 0.85
		default:
			return models.VerdictUnverified, 0.60
		}
	}

	switch {
	case len(credScores) == 0:
		return models.VerdictUnverified, 0.50
	case avgCredibility >= 0.7 && redFlags == 0:
		return models.VerdictLikelyTrue, math.Min(0.80, avgCredibility+0.1)
	case avgCredibility >= 0.6 && redFlags == 0:
		return models.VerdictLikelyTrue, 0.65
	case avgCredibility < 0.4 || redFlags > 1:
		return models.VerdictLikelyFalse, 0.70
	case redFlags > 0:
		return models.VerdictLikelyFalse, 0.65
	default:
		return models.VerdictUnverified, 0.55
	}
}

// explain assembles the human-readable explanation from independent clauses
// in a fixed order, omitting clauses that do not apply.
func (e *Engine) explain(verdict models.Verdict, credibility float64, sourceCount, redFlags int, factCheck string) string {
	var clauses []string

	if factCheck != "" {
		if strings.Contains(factCheck, "false") {
			clauses = append(clauses, "Professional fact-checkers have rated this claim as false.")
		} else if strings.Contains(factCheck, "true") {
			clauses = append(clauses, "Professional fact-checkers have verified this claim as true.")
		}
	}

	if sourceCount > 0 {
		switch {
		case credibility >= 0.8:
			clauses = append(clauses, fmt.Sprintf("Found %d highly credible sources supporting this assessment.", sourceCount))
		case credibility >= 0.6:
			clauses = append(clauses, fmt.Sprintf("Found %d moderately credible sources.", sourceCount))
		default:
			clauses = append(clauses, fmt.Sprintf("Limited credible sources found (%d sources analyzed).", sourceCount))
		}
	} else {
		clauses = append(clauses, "No credible sources found to verify this claim.")
	}

	if redFlags > 0 {
		clauses = append(clauses, fmt.Sprintf("The claim contains %d red flag(s) commonly associated with misinformation.", redFlags))
	}

	switch verdict {
	case models.VerdictLikelyFalse:
		clauses = append(clauses, "Based on our analysis, this claim appears to be misleading or false.")
	case models.VerdictLikelyTrue:
		clauses = append(clauses, "Based on our analysis, this claim appears to be accurate.")
	default:
		clauses = append(clauses, "Unable to determine accuracy with confidence. Manual verification recommended.")
	}

	return strings.Join(clauses, " ")
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// roundConfidence rounds to one decimal and clamps to [0, 100].
func roundConfidence(v float64) float64 {
	rounded := math.Round(v*10) / 10
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return rounded
}
