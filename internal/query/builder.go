// Package query compresses claim text into compact search-engine queries.
package query

import (
	"regexp"
	"strings"

	"github.com/misinfoguard/sentinel/internal/models"
	"github.com/misinfoguard/sentinel/internal/textutil"
)

const (
	verbatimWordLimit      = 15
	firstSentenceWordLimit = 12
	maxEntityTerms         = 4
	maxCapitalizedTerms    = 5
	maxNumberTerms         = 2
	targetTermCount        = 12
	maxQueryTerms          = 15
	minImportantTerms      = 3
	fallbackWordWindow     = 50
	fallbackTermCount      = 12
)

// Action words appended to the term list when present in the claim.
var actionWords = []string{
	"protest", "announced", "said", "reported", "claims", "election",
	"government", "security", "attack", "fled", "exile", "summoned",
}

// Entity types worth carrying into a query.
var queryEntityTypes = map[models.EntityType]bool{
	models.EntityPerson: true,
	models.EntityOrg:    true,
	models.EntityGPE:    true,
	models.EntityEvent:  true,
	models.EntityDate:   true,
}

var dateNumberRe = regexp.MustCompile(`\b(?:\d{1,2}\s+)?(?:January|February|March|April|May|June|July|August|September|October|November|December|\d+)\b`)

// Builder assembles search queries from claims.
type Builder struct {
	stopWords map[string]bool
}

// New creates a query builder.
func New() *Builder {
	return &Builder{stopWords: textutil.DefaultStopWords}
}

// Build compresses claimText into a 10-15 term search query, prioritizing
// entities, capitalized phrases, dates and numbers, then action words. Short
// claims pass through verbatim.
func (b *Builder) Build(claimText string, entities []models.Entity) string {
	words := strings.Fields(claimText)
	if len(words) <= verbatimWordLimit {
		return claimText
	}

	// A concise first sentence usually carries the lede.
	firstSentence := strings.TrimSpace(strings.SplitN(claimText, ".", 2)[0])
	if n := len(strings.Fields(firstSentence)); n > 0 && n <= firstSentenceWordLimit {
		return firstSentence
	}

	terms := b.importantTerms(claimText, entities)
	if len(terms) >= minImportantTerms {
		if len(terms) > maxQueryTerms {
			terms = terms[:maxQueryTerms]
		}
		return strings.Join(terms, " ")
	}

	return b.fallbackQuery(words)
}

// importantTerms builds the ordered, case-insensitively deduplicated term
// list in strict priority order.
func (b *Builder) importantTerms(claimText string, entities []models.Entity) []string {
	var terms []string
	seen := make(map[string]bool)

	add := func(term string) {
		key := strings.ToLower(term)
		if term == "" || seen[key] {
			return
		}
		seen[key] = true
		terms = append(terms, term)
	}

	// Priority 1: supplied entities.
	added := 0
	for _, ent := range entities {
		if added >= maxEntityTerms {
			break
		}
		if queryEntityTypes[ent.Type] {
			add(ent.Text)
			added++
		}
	}

	// Priority 2: capitalized phrases (likely proper nouns).
	caps := textutil.CapitalizedPhrases(claimText)
	for i := 0; i < len(caps) && i < maxCapitalizedTerms; i++ {
		add(caps[i])
	}

	// Priority 3: dates and numbers.
	nums := dateNumberRe.FindAllString(claimText, -1)
	for i := 0; i < len(nums) && i < maxNumberTerms; i++ {
		add(nums[i])
	}

	// Priority 4: action words, stopping once the list is full.
	lower := strings.ToLower(claimText)
	for _, action := range actionWords {
		if len(terms) >= targetTermCount {
			break
		}
		if strings.Contains(lower, action) {
			add(action)
		}
	}

	return terms
}

// fallbackQuery keeps the meaningful words of the opening of the claim when
// too few important terms were found.
func (b *Builder) fallbackQuery(words []string) string {
	if len(words) > fallbackWordWindow {
		words = words[:fallbackWordWindow]
	}

	var kept []string
	for _, w := range words {
		if len(kept) >= fallbackTermCount {
			break
		}
		if len(w) > 3 && !b.stopWords[strings.ToLower(w)] {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}
