package classify

import (
	"testing"

	"github.com/misinfoguard/sentinel/internal/models"
)

func TestClassify_EmptyText(t *testing.T) {
	c := New(DefaultConfig())

	for _, text := range []string{"", "   ", "hi", "ok then"} {
		result := c.Classify(text, nil)
		if result.IsNews {
			t.Errorf("Expected %q to be rejected", text)
		}
		if result.ContentType != models.ContentEmpty {
			t.Errorf("Expected empty content type for %q, got %s", text, result.ContentType)
		}
		if result.Confidence < 0.9 {
			t.Errorf("Expected high confidence rejection for %q, got %f", text, result.Confidence)
		}
		if result.Message == "" {
			t.Error("Expected a rejection message")
		}
	}
}

func TestClassify_NewsContent(t *testing.T) {
	c := New(DefaultConfig())

	text := `The government announced on Monday that the national budget will be cut
by 15% next year, according to officials familiar with the plan. The finance
minister confirmed the decision in a statement.`

	result := c.Classify(text, nil)
	if !result.IsNews {
		t.Fatalf("Expected news content to be accepted, got %s: %s", result.ContentType, result.Message)
	}
	if result.ContentType != models.ContentNews {
		t.Errorf("Expected news content type, got %s", result.ContentType)
	}
}

func TestClassify_LongTextAutoAccepted(t *testing.T) {
	c := New(DefaultConfig())

	// 20+ words with no news keywords at all
	text := "the quick brown fox jumps over the lazy dog while another fox watches quietly from the hill under a pale grey sky"

	result := c.Classify(text, nil)
	if !result.IsNews {
		t.Fatalf("Expected long text to be accepted, got %s", result.ContentType)
	}
	if result.Confidence != 0.7 {
		t.Errorf("Expected confidence 0.7 for long-text acceptance, got %f", result.Confidence)
	}
}

func TestClassify_SingleIndicatorNotEnough(t *testing.T) {
	c := New(DefaultConfig())

	// One commercial phrase but otherwise news-like, 20+ words
	text := `Breaking: the company offering free shipping announced it laid off 500
workers on Tuesday, officials confirmed, as the investigation into its finances
continues across three countries.`

	result := c.Classify(text, nil)
	if !result.IsNews {
		t.Errorf("Expected a single indicator category not to reject news-like text, got %s", result.ContentType)
	}
}

func TestClassify_CommercialRejected(t *testing.T) {
	c := New(DefaultConfig())

	text := "Buy now! Limited offer, free shipping on all orders. Use code SAVE20, link in bio. Tag a friend who needs this, rate this deal!"

	result := c.Classify(text, nil)
	if result.IsNews {
		t.Fatal("Expected multi-category promotional text to be rejected")
	}
	if result.Message == "" {
		t.Error("Expected a rejection message")
	}
}

func TestClassify_CasualConversationRejected(t *testing.T) {
	c := New(DefaultConfig())

	text := "omg lol miss you! how are you, talk later, love you, haha congratulations by the way"

	result := c.Classify(text, nil)
	if result.IsNews {
		t.Fatal("Expected casual conversation to be rejected")
	}
}

func TestClassify_ShortNewsAccepted(t *testing.T) {
	c := New(DefaultConfig())

	// Short but with strong news signals: keyword, reporting verb, year
	result := c.Classify("President announced new sanctions in 2024.", nil)
	if !result.IsNews {
		t.Errorf("Expected short text with news signals to be accepted, got %s: %s", result.ContentType, result.Message)
	}
}

func TestClassify_EntitiesRaiseScore(t *testing.T) {
	c := New(DefaultConfig())

	text := "Something happened there recently again" // 5 words, no keywords
	entities := []models.Entity{
		{Text: "Paris", Type: models.EntityGPE},
		{Text: "UN", Type: models.EntityOrg},
		{Text: "Macron", Type: models.EntityPerson},
	}

	without := c.Classify(text, nil)
	with := c.Classify(text, entities)

	if with.IsNews && !without.IsNews {
		return // entities flipped the decision, which is the point
	}
	if with.IsNews && without.IsNews && with.Confidence <= without.Confidence {
		t.Errorf("Expected entities to raise confidence: %f vs %f", with.Confidence, without.Confidence)
	}
}

func TestClassify_MediumLengthAccepted(t *testing.T) {
	c := New(DefaultConfig())

	// 10+ words, no signals either way: lenient gate accepts
	result := c.Classify("people gathered near water early because weather stayed calm overnight somehow", nil)
	if !result.IsNews {
		t.Errorf("Expected 10+ word neutral text to pass the lenient gate, got %s", result.ContentType)
	}
}

func TestContainsInappropriate(t *testing.T) {
	if ContainsInappropriate("The government announced budget cuts.") {
		t.Error("Expected clean text to pass the screen")
	}
}
