// Package search provides the evidence providers the verdict engine draws
// from: a general web-search provider and a structured fact-check provider.
package search

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/misinfoguard/sentinel/internal/models"
)

// maxHits is how many search hits a provider call may yield; the verdict
// engine only considers the first 10 anyway.
const maxHits = 10

// SearchProvider returns ranked web-search hits for a query.
type SearchProvider interface {
	Search(ctx context.Context, query string) ([]models.SearchHit, error)

	// Name returns the provider name.
	Name() string

	// Available returns whether this provider is properly configured.
	Available() bool
}

// FactCheckProvider returns structured editorial fact-check records for a query.
type FactCheckProvider interface {
	FactCheck(ctx context.Context, query string) ([]models.FactCheckRecord, error)

	Name() string
	Available() bool
}

// Evidence bundles one claim's gathered evidence. A provider failure leaves
// its slice empty and records the error; it never fails the claim.
type Evidence struct {
	Hits      []models.SearchHit
	Records   []models.FactCheckRecord
	SearchErr error
	FactErr   error
}

// Empty reports whether no evidence of either kind was gathered.
func (e Evidence) Empty() bool {
	return len(e.Hits) == 0 && len(e.Records) == 0
}

// AllFailed reports whether every configured provider failed outright, the
// condition that sends the verdict engine to its heuristic fallback.
func (e Evidence) AllFailed() bool {
	return e.SearchErr != nil && e.FactErr != nil
}

// Gatherer issues the two provider calls for a claim concurrently, with a
// shared timeout, an outbound rate limiter, and a TTL cache of raw provider
// responses. Derived Source objects are never cached; only the raw payloads
// keyed by query are.
type Gatherer struct {
	search    SearchProvider
	factCheck FactCheckProvider
	timeout   time.Duration
	limiter   *rate.Limiter
	cache     *gocache.Cache
}

// GathererOptions tunes the gatherer.
type GathererOptions struct {
	Timeout        time.Duration
	RequestsPerSec float64
	Burst          int
	CacheTTL       time.Duration
}

// NewGatherer creates a gatherer. Either provider may be nil or unavailable;
// its side then degrades to a "provider not configured" error.
func NewGatherer(search SearchProvider, factCheck FactCheckProvider, opts GathererOptions) *Gatherer {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.RequestsPerSec <= 0 {
		opts.RequestsPerSec = 2
	}
	if opts.Burst <= 0 {
		opts.Burst = 5
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 30 * time.Minute
	}
	if search != nil && !search.Available() {
		search = nil
	}
	if factCheck != nil && !factCheck.Available() {
		factCheck = nil
	}
	return &Gatherer{
		search:    search,
		factCheck: factCheck,
		timeout:   opts.Timeout,
		limiter:   rate.NewLimiter(rate.Limit(opts.RequestsPerSec), opts.Burst),
		cache:     gocache.New(opts.CacheTTL, 2*opts.CacheTTL),
	}
}

// Gather fetches search hits and fact-check records for the query. The two
// calls run concurrently under one deadline; failures degrade to empty
// evidence for that provider.
func (g *Gatherer) Gather(ctx context.Context, query string) Evidence {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	var ev Evidence
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		ev.Hits, ev.SearchErr = g.gatherHits(ctx, query)
	}()
	go func() {
		defer wg.Done()
		ev.Records, ev.FactErr = g.gatherRecords(ctx, query)
	}()
	wg.Wait()

	if ev.SearchErr != nil {
		log.Warn().Err(ev.SearchErr).Str("query", query).Msg("Search provider failed")
	}
	if ev.FactErr != nil {
		log.Warn().Err(ev.FactErr).Str("query", query).Msg("Fact-check provider failed")
	}
	return ev
}

func (g *Gatherer) gatherHits(ctx context.Context, query string) ([]models.SearchHit, error) {
	if g.search == nil {
		return nil, ErrNotConfigured
	}

	key := "search:" + query
	if cached, ok := g.cache.Get(key); ok {
		return cached.([]models.SearchHit), nil
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	hits, err := g.search.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(hits) > maxHits {
		hits = hits[:maxHits]
	}
	g.cache.SetDefault(key, hits)
	return hits, nil
}

func (g *Gatherer) gatherRecords(ctx context.Context, query string) ([]models.FactCheckRecord, error) {
	if g.factCheck == nil {
		return nil, ErrNotConfigured
	}

	key := "factcheck:" + query
	if cached, ok := g.cache.Get(key); ok {
		return cached.([]models.FactCheckRecord), nil
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	records, err := g.factCheck.FactCheck(ctx, query)
	if err != nil {
		return nil, err
	}
	g.cache.SetDefault(key, records)
	return records, nil
}

// ExtractDomain extracts the host (without www) from a URL for source
// attribution.
func ExtractDomain(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Hostname() == "" {
		if m := fallbackDomainRe.FindStringSubmatch(rawURL); len(m) > 1 {
			return m[1]
		}
		return rawURL
	}
	return strings.TrimPrefix(parsed.Hostname(), "www.")
}

var fallbackDomainRe = regexp.MustCompile(`https?://(?:www\.)?([^/]+)`)
