package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/misinfoguard/sentinel/internal/models"
)

const (
	customSearchURL = "https://www.googleapis.com/customsearch/v1"
	factCheckURL    = "https://factchecktools.googleapis.com/v1alpha1/claims:search"
)

// GoogleSearchClient searches the Google Custom Search JSON API.
type GoogleSearchClient struct {
	httpClient *http.Client
	apiKey     string
	engineID   string
	baseURL    string
}

// NewGoogleSearchClient creates a Google Custom Search client.
func NewGoogleSearchClient(apiKey, engineID string) *GoogleSearchClient {
	return &GoogleSearchClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		apiKey:     apiKey,
		engineID:   engineID,
		baseURL:    customSearchURL,
	}
}

// Name returns the provider name.
func (c *GoogleSearchClient) Name() string { return "Google Search" }

// Available reports whether the API credentials are configured.
func (c *GoogleSearchClient) Available() bool {
	return c.apiKey != "" && c.engineID != ""
}

type googleSearchResponse struct {
	Items []struct {
		Link    string `json:"link"`
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
	} `json:"items"`
}

// Search queries the Custom Search API for up to 10 hits.
func (c *GoogleSearchClient) Search(ctx context.Context, query string) ([]models.SearchHit, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("cx", c.engineID)
	params.Set("q", query)
	params.Set("num", "10")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Google search failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Google search returned status %d", resp.StatusCode)
	}

	var data googleSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	hits := make([]models.SearchHit, 0, len(data.Items))
	for _, item := range data.Items {
		hits = append(hits, models.SearchHit{
			URL:     item.Link,
			Title:   item.Title,
			Snippet: item.Snippet,
		})
	}
	return hits, nil
}

// GoogleFactCheckClient queries the Google Fact Check Tools API.
type GoogleFactCheckClient struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

// NewGoogleFactCheckClient creates a Fact Check Tools client.
func NewGoogleFactCheckClient(apiKey string) *GoogleFactCheckClient {
	return &GoogleFactCheckClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		apiKey:     apiKey,
		baseURL:    factCheckURL,
	}
}

// Name returns the provider name.
func (c *GoogleFactCheckClient) Name() string { return "Google Fact Check" }

// Available reports whether the API key is configured.
func (c *GoogleFactCheckClient) Available() bool { return c.apiKey != "" }

type factCheckResponse struct {
	Claims []struct {
		Text        string `json:"text"`
		ClaimReview []struct {
			TextualRating string `json:"textualRating"`
			URL           string `json:"url"`
			Publisher     struct {
				Name string `json:"name"`
			} `json:"publisher"`
		} `json:"claimReview"`
	} `json:"claims"`
}

// FactCheck returns the editorial claim reviews matching the query. Each
// returned record carries the first review of its claim; claims without a
// review are dropped.
func (c *GoogleFactCheckClient) FactCheck(ctx context.Context, query string) ([]models.FactCheckRecord, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("query", query)
	params.Set("languageCode", "en")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fact check query failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fact check API returned status %d", resp.StatusCode)
	}

	var data factCheckResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode fact check response: %w", err)
	}

	var records []models.FactCheckRecord
	for _, claim := range data.Claims {
		if len(claim.ClaimReview) == 0 {
			continue
		}
		review := claim.ClaimReview[0]
		records = append(records, models.FactCheckRecord{
			Text:          claim.Text,
			Rating:        strings.TrimSpace(review.TextualRating),
			PublisherName: review.Publisher.Name,
			URL:           review.URL,
		})
	}
	return records, nil
}
