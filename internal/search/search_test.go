package search

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/misinfoguard/sentinel/internal/models"
)

type fakeSearch struct {
	hits  []models.SearchHit
	err   error
	calls int32
}

func (f *fakeSearch) Search(ctx context.Context, query string) ([]models.SearchHit, error) {
	atomic.AddInt32(&f.calls, 1)
	return f.hits, f.err
}

func (f *fakeSearch) Name() string    { return "fake search" }
func (f *fakeSearch) Available() bool { return true }

type fakeFactCheck struct {
	records []models.FactCheckRecord
	err     error
	calls   int32
}

func (f *fakeFactCheck) FactCheck(ctx context.Context, query string) ([]models.FactCheckRecord, error) {
	atomic.AddInt32(&f.calls, 1)
	return f.records, f.err
}

func (f *fakeFactCheck) Name() string    { return "fake factcheck" }
func (f *fakeFactCheck) Available() bool { return true }

func testOptions() GathererOptions {
	return GathererOptions{
		Timeout:        5 * time.Second,
		RequestsPerSec: 1000,
		Burst:          1000,
		CacheTTL:       time.Minute,
	}
}

func TestGatherer_BothProviders(t *testing.T) {
	fs := &fakeSearch{hits: []models.SearchHit{{URL: "https://example.com", Title: "t", Snippet: "s"}}}
	fc := &fakeFactCheck{records: []models.FactCheckRecord{{Text: "c", Rating: "False"}}}

	g := NewGatherer(fs, fc, testOptions())
	ev := g.Gather(context.Background(), "some query")

	if ev.SearchErr != nil || ev.FactErr != nil {
		t.Fatalf("Expected no errors, got %v / %v", ev.SearchErr, ev.FactErr)
	}
	if len(ev.Hits) != 1 || len(ev.Records) != 1 {
		t.Errorf("Expected 1 hit and 1 record, got %d / %d", len(ev.Hits), len(ev.Records))
	}
	if ev.Empty() || ev.AllFailed() {
		t.Error("Expected evidence to be present")
	}
}

func TestGatherer_PartialFailure(t *testing.T) {
	fs := &fakeSearch{err: errors.New("boom")}
	fc := &fakeFactCheck{records: []models.FactCheckRecord{{Text: "c", Rating: "True"}}}

	g := NewGatherer(fs, fc, testOptions())
	ev := g.Gather(context.Background(), "query")

	if ev.SearchErr == nil {
		t.Error("Expected search error to be recorded")
	}
	if ev.AllFailed() {
		t.Error("Expected one surviving provider to prevent AllFailed")
	}
	if len(ev.Records) != 1 {
		t.Errorf("Expected fact-check records despite search failure, got %d", len(ev.Records))
	}
}

func TestGatherer_NothingConfigured(t *testing.T) {
	g := NewGatherer(nil, nil, testOptions())
	ev := g.Gather(context.Background(), "query")

	if !errors.Is(ev.SearchErr, ErrNotConfigured) || !errors.Is(ev.FactErr, ErrNotConfigured) {
		t.Errorf("Expected not-configured errors, got %v / %v", ev.SearchErr, ev.FactErr)
	}
	if !ev.AllFailed() || !ev.Empty() {
		t.Error("Expected empty, all-failed evidence")
	}
}

func TestGatherer_UnavailableProviderDropped(t *testing.T) {
	// A Google client without credentials reports unavailable and must be
	// treated as absent rather than called.
	g := NewGatherer(NewGoogleSearchClient("", ""), nil, testOptions())
	ev := g.Gather(context.Background(), "query")
	if !errors.Is(ev.SearchErr, ErrNotConfigured) {
		t.Errorf("Expected unconfigured provider error, got %v", ev.SearchErr)
	}
}

func TestGatherer_CachesResponses(t *testing.T) {
	fs := &fakeSearch{hits: []models.SearchHit{{URL: "https://example.com"}}}
	fc := &fakeFactCheck{}

	g := NewGatherer(fs, fc, testOptions())
	g.Gather(context.Background(), "repeated query")
	g.Gather(context.Background(), "repeated query")

	if got := atomic.LoadInt32(&fs.calls); got != 1 {
		t.Errorf("Expected cached second call, provider called %d times", got)
	}
	g.Gather(context.Background(), "different query")
	if got := atomic.LoadInt32(&fs.calls); got != 2 {
		t.Errorf("Expected cache miss for a new query, provider called %d times", got)
	}
}

func TestGoogleSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "test-key" || r.URL.Query().Get("cx") != "test-cx" {
			t.Errorf("Missing credentials in request: %s", r.URL.RawQuery)
		}
		if r.URL.Query().Get("q") != "budget cuts" {
			t.Errorf("Unexpected query: %s", r.URL.Query().Get("q"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items": [
			{"link": "https://reuters.com/a", "title": "Budget cut", "snippet": "The budget was cut"},
			{"link": "https://bbc.com/b", "title": "Cuts confirmed", "snippet": "Officials confirmed cuts"}
		]}`))
	}))
	defer srv.Close()

	client := NewGoogleSearchClient("test-key", "test-cx")
	client.baseURL = srv.URL

	hits, err := client.Search(context.Background(), "budget cuts")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("Expected 2 hits, got %d", len(hits))
	}
	if hits[0].URL != "https://reuters.com/a" {
		t.Errorf("Unexpected first hit URL %q", hits[0].URL)
	}
}

func TestGoogleSearch_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewGoogleSearchClient("k", "cx")
	client.baseURL = srv.URL

	if _, err := client.Search(context.Background(), "q"); err == nil {
		t.Error("Expected an error for non-200 response")
	}
}

func TestGoogleFactCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"claims": [
			{
				"text": "The moon is made of cheese",
				"claimReview": [
					{"textualRating": " False ", "url": "https://snopes.com/x", "publisher": {"name": "Snopes"}},
					{"textualRating": "Pants on Fire", "url": "https://politifact.com/y", "publisher": {"name": "PolitiFact"}}
				]
			},
			{"text": "Claim with no review", "claimReview": []}
		]}`))
	}))
	defer srv.Close()

	client := NewGoogleFactCheckClient("test-key")
	client.baseURL = srv.URL

	records, err := client.FactCheck(context.Background(), "moon cheese")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected claims without reviews to be dropped, got %d records", len(records))
	}
	rec := records[0]
	if rec.Rating != "False" {
		t.Errorf("Expected trimmed first review rating, got %q", rec.Rating)
	}
	if rec.PublisherName != "Snopes" {
		t.Errorf("Expected first review publisher, got %q", rec.PublisherName)
	}
}

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://www.reuters.com/world/article", "reuters.com"},
		{"http://bbc.com/news", "bbc.com"},
		{"https://sub.example.org/path?q=1", "sub.example.org"},
		{"not a url", "not a url"},
	}
	for _, tt := range tests {
		if got := ExtractDomain(tt.in); got != tt.want {
			t.Errorf("ExtractDomain(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
