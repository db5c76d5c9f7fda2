// Package classify implements the news-content gate. It decides whether a
// text blob is worth fact-checking before the expensive stages run.
//
// The policy is deliberately lenient: rejecting real news costs more than
// letting an ad through, so rejection needs strong negative evidence while
// acceptance needs very little positive evidence.
package classify

import (
	"regexp"
	"strings"

	"github.com/misinfoguard/sentinel/internal/models"
	"github.com/misinfoguard/sentinel/internal/textutil"
)

const (
	minTextLength = 10

	// Negative signal weights. A single indicator category is never enough
	// to reject on its own; two or more push the score past the rejection
	// threshold.
	singleIndicatorScore = 0.4
	multiIndicatorScore  = 0.8
	emojiClusterScore    = 0.2
	hashtagScore         = 0.2
	tinyTextScore        = 0.3

	maxEmoji    = 5
	maxHashtags = 8

	// Positive signal caps.
	keywordCap = 0.3
	patternCap = 0.3
	entityCap  = 0.2
	quoteCap   = 0.1

	longTextWords   = 20
	mediumTextWords = 10
)

// Config carries the tunable thresholds of the classifier.
type Config struct {
	NonNewsRejectScore float64 // reject when the negative score exceeds this
	NewsAcceptScore    float64 // accept when the positive score reaches this
}

// DefaultConfig returns the shipped thresholds.
func DefaultConfig() Config {
	return Config{NonNewsRejectScore: 0.7, NewsAcceptScore: 0.15}
}

// Classifier decides whether text is news or claim-worthy content.
type Classifier struct {
	cfg Config
}

// New creates a classifier with the given thresholds.
func New(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// Indicator phrase categories for non-news content. Each category that
// matches counts once, regardless of how many of its phrases appear.
var nonNewsIndicators = map[models.ContentType][]string{
	models.ContentCasual: {
		"how are you", "what's up", "whats up", "lol", "lmao", "omg",
		"miss you", "love you", "see you", "good night", "good morning babe",
		"talk later", "call me", "text me", "haha",
	},
	models.ContentMeme: {
		"meme", "funny", "hilarious", "epic fail", "tag a friend",
		"caption this", "rate this", "who else", "only 90s kids",
		"wait for it", "watch till the end",
	},
	models.ContentCommercial: {
		"buy now", "shop now", "limited offer", "discount", "free shipping",
		"order today", "sale ends", "use code", "link in bio", "dm to order",
		"best price", "% off",
	},
	models.ContentLifestyle: {
		"my workout", "my recipe", "outfit of the day", "ootd", "skincare routine",
		"travel diary", "foodie", "brunch", "self care", "my morning routine",
		"gym day",
	},
	models.ContentGreeting: {
		"happy birthday", "congratulations", "merry christmas", "happy new year",
		"happy anniversary", "best wishes", "get well soon", "welcome aboard",
		"thank you all", "happy holidays",
	},
}

var newsKeywords = []string{
	"announced", "reported", "confirmed", "according", "breaking", "officials",
	"government", "president", "minister", "election", "police", "investigation",
	"court", "ruling", "parliament", "senate", "study", "research", "economy",
	"crisis", "protest", "attack", "agreement", "statement", "spokesperson",
	"legislation", "budget", "census", "vaccine", "outbreak",
}

var newsPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`),                                               // numeric dates
	regexp.MustCompile(`\b(19|20)\d{2}\b`),                                                                // years
	regexp.MustCompile(`(?i)\b(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`),              // weekdays
	regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december)\b`), // months
	regexp.MustCompile(`"[^"]{10,}"`),                                                                     // quoted statements
	regexp.MustCompile(`\d+(\.\d+)?\s*(%|percent|million|billion|trillion|dollars|euros)`),                // percentages and amounts
	regexp.MustCompile(`(?i)\b(said|stated|announced|declared|reported|confirmed|denied)\b`),              // reporting verbs
	regexp.MustCompile(`(?i)(according to|sources say|sources said|officials say)`),                       // attribution
	regexp.MustCompile(`(?i)\b(breaking|urgent|just in|developing)\b`),                                    // breaking markers
	regexp.MustCompile(`@\w{2,}`),                                                                         // social handles
}

var emojiRe = regexp.MustCompile(`[\x{1F300}-\x{1FAFF}]|[\x{2600}-\x{27BF}]`)
var hashtagRe = regexp.MustCompile(`#\w+`)
var quotedRe = regexp.MustCompile(`"([^"]+)"`)

// messages maps each non-news category to the caller-facing explanation.
var messages = map[models.ContentType]string{
	models.ContentEmpty:        "The text is empty or too short to analyze.",
	models.ContentCasual:       "This looks like a casual or personal conversation, not news content.",
	models.ContentMeme:         "This looks like meme or entertainment content, not news content.",
	models.ContentCommercial:   "This looks like an advertisement or commercial content, not news content.",
	models.ContentLifestyle:    "This looks like lifestyle or personal content, not news content.",
	models.ContentGreeting:     "This looks like a greeting or social message, not news content.",
	models.ContentInsufficient: "The text does not contain enough news-like content to fact-check.",
}

// entity types that count toward the news score.
var newsEntityTypes = map[models.EntityType]bool{
	models.EntityPerson: true,
	models.EntityOrg:    true,
	models.EntityGPE:    true,
	models.EntityDate:   true,
	models.EntityEvent:  true,
	models.EntityLoc:    true,
}

// Classify decides whether text is news or claim-worthy content. Entities
// are optional pre-computed metadata; nil is valid.
func (c *Classifier) Classify(text string, entities []models.Entity) models.Classification {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < minTextLength {
		return reject(models.ContentEmpty, 0.95)
	}

	words := textutil.WordCount(trimmed)
	lower := strings.ToLower(trimmed)

	nonNewsScore, dominant := c.nonNewsScore(lower, words)
	if nonNewsScore > c.cfg.NonNewsRejectScore {
		return reject(dominant, nonNewsScore)
	}

	// Long text is assumed substantive regardless of positive signals.
	if words >= longTextWords {
		return models.Classification{
			IsNews:      true,
			ContentType: models.ContentNews,
			Confidence:  0.7,
		}
	}

	newsScore := c.newsScore(trimmed, lower, words, entities)
	if newsScore >= c.cfg.NewsAcceptScore || words >= mediumTextWords {
		return models.Classification{
			IsNews:      true,
			ContentType: models.ContentNews,
			Confidence:  clamp01(0.5 + newsScore),
		}
	}

	return reject(models.ContentInsufficient, 1-newsScore)
}

// nonNewsScore accumulates the strong negative indicators and reports the
// category with the most phrase hits for the rejection message.
func (c *Classifier) nonNewsScore(lower string, words int) (float64, models.ContentType) {
	categoriesHit := 0
	dominant := models.ContentInsufficient
	maxHits := 0

	for category, phrases := range nonNewsIndicators {
		hits := 0
		for _, phrase := range phrases {
			if strings.Contains(lower, phrase) {
				hits++
			}
		}
		if hits > 0 {
			categoriesHit++
			if hits > maxHits {
				maxHits = hits
				dominant = category
			}
		}
	}

	var score float64
	switch {
	case categoriesHit >= 2:
		score = multiIndicatorScore
	case categoriesHit == 1:
		score = singleIndicatorScore
	}

	if len(emojiRe.FindAllString(lower, -1)) > maxEmoji {
		score += emojiClusterScore
	}
	if len(hashtagRe.FindAllString(lower, -1)) > maxHashtags {
		score += hashtagScore
	}
	if words < 5 {
		score += tinyTextScore
	}

	return score, dominant
}

// newsScore accumulates capped positive signals for short text.
func (c *Classifier) newsScore(text, lower string, words int, entities []models.Entity) float64 {
	var score float64

	keywordHits := 0
	for _, kw := range newsKeywords {
		if strings.Contains(lower, kw) {
			keywordHits++
		}
	}
	score += capped(0.05*float64(keywordHits), keywordCap)

	patternHits := 0
	for _, re := range newsPatterns {
		if re.MatchString(text) {
			patternHits++
		}
	}
	score += capped(0.05*float64(patternHits), patternCap)

	entityCount := 0
	for _, ent := range entities {
		if newsEntityTypes[ent.Type] {
			entityCount++
		}
	}
	score += capped(0.05*float64(entityCount), entityCap)

	if words >= 30 {
		score += 0.1
	} else if words >= 20 {
		score += 0.05
	}

	quotes := quotedRe.FindAllString(text, -1)
	score += capped(0.05*float64(len(quotes)), quoteCap)

	return score
}

func reject(contentType models.ContentType, confidence float64) models.Classification {
	return models.Classification{
		IsNews:      false,
		ContentType: contentType,
		Confidence:  clamp01(confidence),
		Message:     messages[contentType],
	}
}

func capped(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	return v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
