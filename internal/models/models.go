// Package models defines the core data structures used throughout the application.
package models

import (
	"time"
)

// EntityType labels a named entity recognized in claim text.
type EntityType string

const (
	EntityPerson  EntityType = "PERSON"
	EntityOrg     EntityType = "ORG"
	EntityGPE     EntityType = "GPE"
	EntityDate    EntityType = "DATE"
	EntityEvent   EntityType = "EVENT"
	EntityProduct EntityType = "PRODUCT"
	EntityMoney   EntityType = "MONEY"
	EntityPercent EntityType = "PERCENT"
	EntityLoc     EntityType = "LOC"
)

// Entity is a named entity attached to a claim. Entities are produced by an
// external NLP collaborator and are immutable once attached.
type Entity struct {
	Text  string     `json:"text"`
	Type  EntityType `json:"type"`
	Start int        `json:"start"`
	End   int        `json:"end"`
}

// Sentiment labels the overall tone of a piece of text.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Claim is a text unit judged to contain a checkable factual assertion.
// Confidence is a heuristic ordering score, not a probability.
type Claim struct {
	Text       string    `json:"text"`
	Language   string    `json:"language"`
	Entities   []Entity  `json:"entities"`
	Sentiment  Sentiment `json:"sentiment"`
	Confidence float64   `json:"confidence"`
}

// ContentType categorizes input text for the classification gate.
type ContentType string

const (
	ContentNews         ContentType = "news_content"
	ContentCasual       ContentType = "casual_conversation"
	ContentMeme         ContentType = "meme_humor"
	ContentCommercial   ContentType = "commercial"
	ContentLifestyle    ContentType = "lifestyle_personal"
	ContentGreeting     ContentType = "greeting_social"
	ContentInsufficient ContentType = "insufficient_content"
	ContentEmpty        ContentType = "empty"
)

// Classification is the structured (non-error) result of the news gate.
type Classification struct {
	IsNews      bool        `json:"is_news"`
	ContentType ContentType `json:"content_type"`
	Confidence  float64     `json:"confidence"`
	Message     string      `json:"message,omitempty"`
}

// SearchHit is a raw evidence item returned by a web-search provider.
type SearchHit struct {
	URL     string `json:"link"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// FactCheckRecord is a structured editorial verdict from a fact-check provider.
type FactCheckRecord struct {
	Text          string `json:"text"`
	Rating        string `json:"rating"`
	PublisherName string `json:"publisher_name"`
	URL           string `json:"url"`
}

// Source is an evidence source scored by the verdict engine. Sources are
// recomputed per request and never cached or persisted across claims.
type Source struct {
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Snippet     string   `json:"snippet"`
	Credibility float64  `json:"credibility"`
	Relevance   *float64 `json:"relevance,omitempty"` // absent for fact-check-derived sources
	SourceName  string   `json:"source_name"`
}

// Verdict is the engine's three-way categorical judgment.
type Verdict string

const (
	VerdictLikelyTrue  Verdict = "LIKELY TRUE"
	VerdictLikelyFalse Verdict = "LIKELY FALSE"
	VerdictUnverified  Verdict = "NEEDS VERIFICATION"
)

// VerdictResult is the outcome of evaluating one claim against evidence.
// Sources holds at most the top 5 sources ordered by descending credibility;
// Confidence is on a 0-100 scale.
type VerdictResult struct {
	Claim             string    `json:"claim"`
	Verdict           Verdict   `json:"verdict"`
	Confidence        float64   `json:"confidence"`
	Explanation       string    `json:"explanation"`
	Sources           []Source  `json:"sources"`
	TotalSourcesFound int       `json:"total_sources_found"`
	RedFlags          int       `json:"red_flags"`
	Timestamp         time.Time `json:"timestamp"`
}

// Analysis summarizes one pipeline run over a document.
type Analysis struct {
	ID                string    `json:"id"`
	DocumentHash      string    `json:"document_hash"`
	Language          string    `json:"language"`
	TotalClaims       int       `json:"total_claims"`
	LikelyTrue        int       `json:"likely_true"`
	LikelyFalse       int       `json:"likely_false"`
	NeedsVerification int       `json:"needs_verification"`
	ProcessingTimeMs  int64     `json:"processing_time_ms"`
	Status            string    `json:"status"` // processing, completed, rejected
	CreatedAt         time.Time `json:"created_at"`
}

// CheckResponse is the API response for a full pipeline run.
type CheckResponse struct {
	ID             string          `json:"id"`
	DocumentHash   string          `json:"document_hash"`
	Classification Classification  `json:"classification"`
	Analysis       Analysis        `json:"analysis"`
	Results        []VerdictResult `json:"results"`
	Warnings       []Warning       `json:"warnings,omitempty"`
}

// AnalyzeResponse is the API response for classification plus claim extraction.
type AnalyzeResponse struct {
	Classification Classification `json:"classification"`
	Language       string         `json:"language"`
	Claims         []Claim        `json:"claims"`
}

// Warning represents a non-fatal issue during processing.
type Warning struct {
	Source  string `json:"source"`
	Message string `json:"message"`
}

// APIKey represents an API key for authentication.
type APIKey struct {
	ID                string     `json:"id"`
	KeyHash           string     `json:"-"` // Never expose
	Name              string     `json:"name"`
	RequestsPerMinute int        `json:"requests_per_minute"`
	CreatedAt         time.Time  `json:"created_at"`
	LastUsedAt        *time.Time `json:"last_used_at,omitempty"`
}

// AuditLog represents an API request audit entry.
type AuditLog struct {
	ID           string    `json:"id"`
	APIKeyID     string    `json:"api_key_id"`
	Endpoint     string    `json:"endpoint"`
	Method       string    `json:"method"`
	RequestSize  int64     `json:"request_size"`
	ResponseCode int       `json:"response_code"`
	DurationMs   int64     `json:"duration_ms"`
	Timestamp    time.Time `json:"timestamp"`
}

// AnalyzeRequest is the request body for text analysis endpoints.
type AnalyzeRequest struct {
	Text     string   `json:"text"`
	Language string   `json:"language,omitempty"`
	Entities []Entity `json:"entities,omitempty"`
}

// FactCheckRequest carries caller-supplied claims for verdict evaluation.
type FactCheckRequest struct {
	Claims []Claim `json:"claims"`
}
