package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/misinfoguard/sentinel/internal/models"
)

// DuckDuckGoClient searches via the Instant Answer API and the HTML results
// page. It needs no API key.
type DuckDuckGoClient struct {
	httpClient *http.Client
	instantURL string
	htmlURL    string
}

// NewDuckDuckGoClient creates a DuckDuckGo client.
func NewDuckDuckGoClient() *DuckDuckGoClient {
	return &DuckDuckGoClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		instantURL: "https://api.duckduckgo.com/",
		htmlURL:    "https://html.duckduckgo.com/html/",
	}
}

// Name returns the provider name.
func (c *DuckDuckGoClient) Name() string { return "DuckDuckGo" }

// Available returns true; DuckDuckGo requires no credentials.
func (c *DuckDuckGoClient) Available() bool { return true }

type ddgResponse struct {
	Abstract      string `json:"Abstract"`
	AbstractURL   string `json:"AbstractURL"`
	Heading       string `json:"Heading"`
	RelatedTopics []struct {
		Text     string `json:"Text"`
		FirstURL string `json:"FirstURL"`
	} `json:"RelatedTopics"`
}

// Search combines instant-answer abstracts with parsed HTML results,
// deduplicated by URL.
func (c *DuckDuckGoClient) Search(ctx context.Context, query string) ([]models.SearchHit, error) {
	var hits []models.SearchHit
	var lastErr error

	instant, err := c.searchInstant(ctx, query)
	if err != nil {
		lastErr = err
	} else {
		hits = append(hits, instant...)
	}

	htmlHits, err := c.searchHTML(ctx, query)
	if err != nil {
		lastErr = err
	} else {
		hits = append(hits, htmlHits...)
	}

	seen := make(map[string]bool)
	var unique []models.SearchHit
	for _, h := range hits {
		if h.Snippet == "" || seen[h.URL] {
			continue
		}
		seen[h.URL] = true
		unique = append(unique, h)
		if len(unique) >= maxHits {
			break
		}
	}

	if len(unique) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return unique, nil
}

func (c *DuckDuckGoClient) searchInstant(ctx context.Context, query string) ([]models.SearchHit, error) {
	u := fmt.Sprintf("%s?q=%s&format=json&no_html=1&skip_disambig=1", c.instantURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	var data ddgResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}

	var hits []models.SearchHit
	if data.Abstract != "" {
		hits = append(hits, models.SearchHit{
			URL:     data.AbstractURL,
			Title:   data.Heading,
			Snippet: data.Abstract,
		})
	}
	for _, topic := range data.RelatedTopics {
		if topic.Text == "" {
			continue
		}
		hits = append(hits, models.SearchHit{
			URL:     topic.FirstURL,
			Title:   topic.Text,
			Snippet: topic.Text,
		})
	}
	return hits, nil
}

var (
	resultLinkRe    = regexp.MustCompile(`<a[^>]*class="result__a"[^>]*href="([^"]*)"[^>]*>([^<]+)</a>`)
	resultSnippetRe = regexp.MustCompile(`<a[^>]*class="result__snippet"[^>]*>([^<]+)</a>`)
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func (c *DuckDuckGoClient) searchHTML(ctx context.Context, query string) ([]models.SearchHit, error) {
	u := fmt.Sprintf("%s?q=%s", c.htmlURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	page := string(body)
	linkMatches := resultLinkRe.FindAllStringSubmatch(page, -1)
	snippetMatches := resultSnippetRe.FindAllStringSubmatch(page, -1)

	var hits []models.SearchHit
	for i, match := range linkMatches {
		if len(hits) >= maxHits {
			break
		}
		actualURL := decodeRedirectURL(match[1])
		if actualURL == "" || strings.HasPrefix(actualURL, "//duckduckgo.com") {
			continue
		}

		snippet := ""
		if i < len(snippetMatches) {
			snippet = strings.TrimSpace(html.UnescapeString(snippetMatches[i][1]))
		}

		hits = append(hits, models.SearchHit{
			URL:     actualURL,
			Title:   strings.TrimSpace(html.UnescapeString(match[2])),
			Snippet: snippet,
		})
	}
	return hits, nil
}

// decodeRedirectURL extracts the target URL from a DuckDuckGo redirect link.
func decodeRedirectURL(rawURL string) string {
	if !strings.Contains(rawURL, "uddg=") {
		return rawURL
	}
	decoded, err := url.QueryUnescape(rawURL)
	if err != nil {
		return rawURL
	}
	idx := strings.Index(decoded, "uddg=")
	if idx < 0 {
		return rawURL
	}
	target := decoded[idx+5:]
	if amp := strings.Index(target, "&"); amp >= 0 {
		target = target[:amp]
	}
	if again, err := url.QueryUnescape(target); err == nil {
		return again
	}
	return target
}
