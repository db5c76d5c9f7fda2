package extract

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/misinfoguard/sentinel/internal/models"
	"github.com/misinfoguard/sentinel/internal/nlp"
)

type stubSentiment struct {
	result models.Sentiment
}

func (s *stubSentiment) Sentiment(ctx context.Context, text string) models.Sentiment {
	return s.result
}

func (s *stubSentiment) Name() string { return "stub" }

type panicSentiment struct{}

func (panicSentiment) Sentiment(ctx context.Context, text string) models.Sentiment {
	panic("analyzer blew up")
}

func (panicSentiment) Name() string { return "panic" }

func newTestExtractor() *Extractor {
	return New(
		&stubSentiment{result: models.SentimentNeutral},
		nlp.DetectorFunc(func(string) string { return "en" }),
		0.3,
	)
}

func TestExtract_TooShort(t *testing.T) {
	e := newTestExtractor()

	for _, text := range []string{"", "Short claim.", "Only four words here"} {
		claims := e.Extract(context.Background(), text, "en", nil)
		if claims != nil {
			t.Errorf("Expected no claims for %q, got %d", text, len(claims))
		}
	}
}

func TestExtract_ShortTextSingleClaim(t *testing.T) {
	e := newTestExtractor()

	text := "  The reactor produced 500 megawatts during the first test run.  "
	entities := []models.Entity{{Text: "500 megawatts", Type: models.EntityPercent}}

	claims := e.Extract(context.Background(), text, "en", entities)
	if len(claims) != 1 {
		t.Fatalf("Expected 1 claim, got %d", len(claims))
	}
	c := claims[0]
	if c.Text != strings.TrimSpace(text) {
		t.Errorf("Expected trimmed text, got %q", c.Text)
	}
	if c.Confidence != 0.75 {
		t.Errorf("Expected confidence 0.75 for short text, got %f", c.Confidence)
	}
	if len(c.Entities) != 1 {
		t.Errorf("Expected entities to pass through, got %d", len(c.Entities))
	}
	if c.Language != "en" {
		t.Errorf("Expected language en, got %s", c.Language)
	}
}

func TestExtract_DetectsLanguageWhenEmpty(t *testing.T) {
	e := New(&stubSentiment{result: models.SentimentNeutral},
		nlp.DetectorFunc(func(string) string { return "de" }), 0.3)

	claims := e.Extract(context.Background(), "The reactor produced 500 megawatts during testing.", "", nil)
	if len(claims) != 1 {
		t.Fatalf("Expected 1 claim, got %d", len(claims))
	}
	if claims[0].Language != "de" {
		t.Errorf("Expected detector result to be used, got %s", claims[0].Language)
	}
}

func TestExtract_NoFactualSentences(t *testing.T) {
	e := newTestExtractor()

	text := "The committee gathered near the harbor and spoke about the storm damage along the coast. " +
		"Visitors wandered through the gardens while volunteers planted saplings along every gravel path. " +
		"Musicians performed beside the fountain as dancers moved slowly across the wooden stage. " +
		"Later that evening the crowd drifted home under a calm and cloudless sky."

	claims := e.Extract(context.Background(), text, "en", nil)
	if len(claims) != 1 {
		t.Fatalf("Expected 1 whole-text claim, got %d", len(claims))
	}
	if claims[0].Confidence != 0.6 {
		t.Errorf("Expected confidence 0.6 when no factual sentences found, got %f", claims[0].Confidence)
	}
	if claims[0].Text != strings.TrimSpace(text) {
		t.Error("Expected the whole text as the claim")
	}
}

func TestExtract_MergesSingleTopic(t *testing.T) {
	e := newTestExtractor()

	s1 := "Atlas Mining produced 84 tonnes of copper at the northern site last year."
	s2 := "The northern site employed 1200 workers during the expansion of Atlas Mining operations."
	filler := "Local families celebrated the milestone together near the river during the festival evening. " +
		"Children played beside the water while the elders cooked food under the trees."
	text := s1 + " " + s2 + " " + filler

	first := strings.Index(text, "Atlas Mining")
	second := strings.LastIndex(text, "Atlas Mining")
	entities := []models.Entity{
		{Text: "Atlas Mining", Type: models.EntityOrg, Start: first, End: first + len("Atlas Mining")},
		{Text: "Atlas Mining", Type: models.EntityOrg, Start: second, End: second + len("Atlas Mining")},
	}

	claims := e.Extract(context.Background(), text, "en", entities)
	if len(claims) != 1 {
		t.Fatalf("Expected 1 merged claim, got %d", len(claims))
	}
	c := claims[0]
	if !strings.Contains(c.Text, "84 tonnes") || !strings.Contains(c.Text, "1200 workers") {
		t.Errorf("Expected both factual sentences in the merged claim, got %q", c.Text)
	}
	if strings.Contains(c.Text, "celebrated") {
		t.Error("Did not expect non-factual filler in the merged claim")
	}
	if len(c.Entities) != 1 {
		t.Errorf("Expected duplicate entities to be deduplicated, got %d", len(c.Entities))
	}
	if math.Abs(c.Confidence-0.80) > 1e-9 {
		t.Errorf("Expected mean confidence 0.80, got %f", c.Confidence)
	}
}

func TestExtract_RanksMultiTopic(t *testing.T) {
	e := newTestExtractor()

	s1 := "Orion Aerospace launched 12 satellites from the coastal range on Monday morning."
	s2 := "Helio Motors recalled 3000 sedans after the brake reports surfaced last week."
	s3 := "Nordia Bank posted quarterly profits of 9 billion kronor according to the filing."
	s4 := "Vela Pharma shipped 40 million doses to regional clinics over the winter season."
	text := s1 + " " + s2 + " " + s3 + " " + s4

	var entities []models.Entity
	for _, name := range []string{"Orion Aerospace", "Helio Motors", "Nordia Bank", "Vela Pharma"} {
		idx := strings.Index(text, name)
		entities = append(entities, models.Entity{
			Text: name, Type: models.EntityOrg, Start: idx, End: idx + len(name),
		})
	}

	claims := e.Extract(context.Background(), text, "en", entities)
	if len(claims) != 3 {
		t.Fatalf("Expected top 3 claims for multi-topic text, got %d", len(claims))
	}
	// Equal confidence keeps text order
	if claims[0].Text != s1 {
		t.Errorf("Expected stable ordering, first claim %q", claims[0].Text)
	}
	for _, c := range claims {
		if len(c.Entities) != 1 {
			t.Errorf("Expected each claim to keep its own entity, got %d for %q", len(c.Entities), c.Text)
		}
	}
}

func TestExtract_RecoversFromPanic(t *testing.T) {
	e := New(panicSentiment{}, nlp.DetectorFunc(func(string) string { return "en" }), 0.3)

	text := "The reactor produced 500 megawatts during the first test run."
	claims := e.Extract(context.Background(), text, "en", nil)
	if len(claims) != 1 {
		t.Fatalf("Expected recovery to yield 1 claim, got %d", len(claims))
	}
	c := claims[0]
	if c.Confidence != 0.5 {
		t.Errorf("Expected recovered confidence 0.5, got %f", c.Confidence)
	}
	if c.Sentiment != models.SentimentNeutral {
		t.Errorf("Expected neutral sentiment on recovery, got %s", c.Sentiment)
	}
}

func TestSentenceConfidence(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		entities int
		want     float64
	}{
		{"base", "Short plain words here now", 0, 0.5},
		{"entities capped", "Short plain words here now", 10, 0.7},
		{"digit bonus", "It rose 5 points", 0, 0.65},
		{"length bonus", "one two three four five six seven eight nine ten eleven", 0, 0.6},
		{"all bonuses capped", "The index rose by 12 points and 3 more records fell across nine markets", 10, 0.95},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sentenceConfidence(tt.text, tt.entities)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("sentenceConfidence(%q, %d) = %f, want %f", tt.text, tt.entities, got, tt.want)
			}
		})
	}
}

func TestIsFactual(t *testing.T) {
	tests := []struct {
		name string
		text string
		lang string
		want bool
	}{
		{"question", "Is the economy growing?", "en", false},
		{"arabic question", "هل الاقتصاد ينمو؟", "ar", false},
		{"opinion", "I think the policy failed", "en", false},
		{"digit", "The company laid off 500 workers", "en", true},
		{"factual verb", "The sky is blue today", "en", true},
		{"no markers", "The runners jogged along the trail", "en", false},
		{"spanish verb", "El informe es claro hoy", "es", true},
		{"unknown lang falls back to english", "The sky is blue today", "xx", true},
		{"verb must match whole token", "This island has cliffs", "en", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isFactual(tt.text, tt.lang); got != tt.want {
				t.Errorf("isFactual(%q, %s) = %v, want %v", tt.text, tt.lang, got, tt.want)
			}
		})
	}
}

func TestSplitSentences(t *testing.T) {
	text := "Dr. Smith arrived at 3.5 million. The crowd cheered! Was it over? Yes."
	sents := splitSentences(text)
	want := []string{
		"Dr. Smith arrived at 3.5 million.",
		"The crowd cheered!",
		"Was it over?",
		"Yes.",
	}
	if len(sents) != len(want) {
		t.Fatalf("Expected %d sentences, got %d: %+v", len(want), len(sents), sents)
	}
	for i, w := range want {
		if sents[i].text != w {
			t.Errorf("Sentence %d: expected %q, got %q", i, w, sents[i].text)
		}
	}
}

func TestSplitSentences_Offsets(t *testing.T) {
	text := "First fact here. Second fact there."
	sents := splitSentences(text)
	if len(sents) != 2 {
		t.Fatalf("Expected 2 sentences, got %d", len(sents))
	}
	for _, s := range sents {
		if strings.TrimSpace(text[s.start:s.end]) != s.text {
			t.Errorf("Offsets [%d, %d) do not cover %q", s.start, s.end, s.text)
		}
	}
}

func TestSplitSentences_ClosingQuote(t *testing.T) {
	text := `He said "it ended." Then he left.`
	sents := splitSentences(text)
	if len(sents) != 2 {
		t.Fatalf("Expected 2 sentences, got %d: %+v", len(sents), sents)
	}
	if sents[0].text != `He said "it ended."` {
		t.Errorf("Expected the quote to close the first sentence, got %q", sents[0].text)
	}
}
