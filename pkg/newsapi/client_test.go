package newsapi

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/techpulse/newswire/internal/domain"
	"github.com/techpulse/newswire/pkg/httpclient"
)

type capturedResponse struct {
	status int
	body   []byte
}

func (r capturedResponse) StatusCode() int { return r.status }
func (r capturedResponse) Body() []byte    { return r.body }

// capturingClient records the last request instead of performing it.
type capturingClient struct {
	lastURL     string
	lastHeaders map[string]string
	status      int
	body        []byte
}

func (c *capturingClient) Get(_ context.Context, u string, headers map[string]string) (httpclient.Response, error) {
	c.lastURL = u
	c.lastHeaders = headers
	if c.status == 0 {
		c.status = 200
	}
	return capturedResponse{status: c.status, body: c.body}, nil
}

func (c *capturingClient) Post(_ context.Context, _ string, _ map[string]string, _ []byte) (httpclient.Response, error) {
	return capturedResponse{status: 404}, nil
}

func TestConfigured(t *testing.T) {
	if (*Client)(nil).Configured() {
		t.Error("nil client reports configured")
	}
	if New("", "", &capturingClient{}).Configured() {
		t.Error("keyless client reports configured")
	}
	if !New("key", "", &capturingClient{}).Configured() {
		t.Error("keyed client reports unconfigured")
	}
}

func TestTopHeadlinesRequest(t *testing.T) {
	hc := &capturingClient{body: []byte(`{"status":"ok","articles":[]}`)}
	c := New("secret-key", "https://api.example.com/v2", hc)

	if _, err := c.TopHeadlines(context.Background(), domain.CategoryAI); err != nil {
		t.Fatalf("TopHeadlines: %v", err)
	}

	u, err := url.Parse(hc.lastURL)
	if err != nil {
		t.Fatalf("request URL %q: %v", hc.lastURL, err)
	}
	if u.Path != "/v2/top-headlines" {
		t.Errorf("path = %q", u.Path)
	}
	q := u.Query()
	if q.Get("category") != "technology" {
		t.Errorf("category param = %q", q.Get("category"))
	}
	if q.Get("language") != "en" || q.Get("pageSize") != "50" {
		t.Errorf("query = %v", q)
	}
	if hc.lastHeaders["X-Api-Key"] != "secret-key" {
		t.Errorf("api key header = %q", hc.lastHeaders["X-Api-Key"])
	}
}

func TestTopHeadlinesCategoryMapping(t *testing.T) {
	hc := &capturingClient{body: []byte(`{}`)}
	c := New("key", "https://api.example.com/v2", hc)

	if _, err := c.TopHeadlines(context.Background(), domain.CategoryStartups); err != nil {
		t.Fatalf("TopHeadlines: %v", err)
	}
	u, _ := url.Parse(hc.lastURL)
	if got := u.Query().Get("category"); got != "business" {
		t.Errorf("startups maps to %q, want business", got)
	}
}

func TestSearchRequest(t *testing.T) {
	hc := &capturingClient{body: []byte(`{}`)}
	c := New("key", "https://api.example.com/v2", hc)

	if _, err := c.Search(context.Background(), domain.CategorySecurity); err != nil {
		t.Fatalf("Search: %v", err)
	}

	u, _ := url.Parse(hc.lastURL)
	if u.Path != "/v2/everything" {
		t.Errorf("path = %q", u.Path)
	}
	q := u.Query()
	if !strings.Contains(q.Get("q"), "cybersecurity") {
		t.Errorf("query expression = %q", q.Get("q"))
	}
	if q.Get("sortBy") != "publishedAt" {
		t.Errorf("sortBy = %q", q.Get("sortBy"))
	}
}

func TestNonOKStatus(t *testing.T) {
	hc := &capturingClient{status: 429}
	c := New("key", "", hc)

	if _, err := c.TopHeadlines(context.Background(), domain.CategoryTech); err == nil {
		t.Fatal("expected an error for a rate-limited response")
	}
}
