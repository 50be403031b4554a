// Package newsapi is a thin client for the JSON headline/search API. The
// orchestrator queries both endpoints per category because headlines and
// search surface different article sets.
package newsapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/techpulse/newswire/internal/domain"
	"github.com/techpulse/newswire/pkg/httpclient"
)

const (
	defaultBaseURL = "https://newsapi.org/v2"
	defaultLang    = "en"
	pageSize       = 50
)

// categoryQueries maps each category to the keyword expression used against
// the search endpoint.
var categoryQueries = map[domain.Category]string{
	domain.CategoryAI:         `"artificial intelligence" OR OpenAI OR "machine learning" OR LLM`,
	domain.CategoryBlockchain: `blockchain OR bitcoin OR ethereum OR crypto`,
	domain.CategorySecurity:   `cybersecurity OR "data breach" OR vulnerability OR ransomware`,
	domain.CategoryStartups:   `startup funding OR "series a" OR "series b" OR IPO OR acquisition`,
	domain.CategoryMobile:     `iPhone OR Android OR smartphone OR "mobile app"`,
	domain.CategoryCloud:      `"cloud computing" OR AWS OR Azure OR kubernetes`,
	domain.CategoryIoT:        `"internet of things" OR IoT OR "smart home" OR "connected device"`,
	domain.CategoryTech:       `technology`,
}

// Client fetches raw JSON payloads from the headline API.
type Client struct {
	baseURL string
	apiKey  string
	http    httpclient.Client
}

// New builds a Client. An empty baseURL selects the public API endpoint.
func New(apiKey, baseURL string, hc httpclient.Client) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if hc == nil {
		hc = httpclient.NewRestyClient(30 * time.Second)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    hc,
	}
}

// Configured reports whether an API key is available. An unconfigured client
// contributes zero items rather than failing the round.
func (c *Client) Configured() bool {
	return c != nil && strings.TrimSpace(c.apiKey) != ""
}

// TopHeadlines fetches the raw top-headlines payload for a category.
func (c *Client) TopHeadlines(ctx context.Context, category domain.Category) ([]byte, error) {
	q := url.Values{}
	q.Set("category", apiCategory(category))
	q.Set("language", defaultLang)
	q.Set("pageSize", fmt.Sprint(pageSize))
	return c.get(ctx, "/top-headlines", q)
}

// Search fetches the raw search payload using the category's keyword
// expression, most recent first.
func (c *Client) Search(ctx context.Context, category domain.Category) ([]byte, error) {
	expr, ok := categoryQueries[category]
	if !ok {
		expr = string(category)
	}

	q := url.Values{}
	q.Set("q", expr)
	q.Set("language", defaultLang)
	q.Set("sortBy", "publishedAt")
	q.Set("pageSize", fmt.Sprint(pageSize))
	return c.get(ctx, "/everything", q)
}

func (c *Client) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	endpoint := c.baseURL + path + "?" + q.Encode()

	resp, err := c.http.Get(ctx, endpoint, map[string]string{
		"X-Api-Key": c.apiKey,
		"Accept":    "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d", path, resp.StatusCode())
	}
	return resp.Body(), nil
}

// apiCategory maps internal categories onto the API's coarser category set.
func apiCategory(cat domain.Category) string {
	switch cat {
	case domain.CategoryStartups:
		return "business"
	default:
		return "technology"
	}
}
