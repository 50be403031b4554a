package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/techpulse/newswire/internal/domain"
	"github.com/techpulse/newswire/pkg/httpclient"
	"github.com/techpulse/newswire/pkg/sources"
)

type fakeResponse struct {
	status int
	body   []byte
}

func (r fakeResponse) StatusCode() int { return r.status }
func (r fakeResponse) Body() []byte    { return r.body }

// fakeClient maps endpoint URLs to canned responses and counts hits.
type fakeClient struct {
	mu        sync.Mutex
	responses map[string]fakeResponse
	errs      map[string]error
	hits      map[string]int
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		responses: make(map[string]fakeResponse),
		errs:      make(map[string]error),
		hits:      make(map[string]int),
	}
}

func (f *fakeClient) Get(_ context.Context, url string, _ map[string]string) (httpclient.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hits[url]++
	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	if resp, ok := f.responses[url]; ok {
		return resp, nil
	}
	return fakeResponse{status: 404}, nil
}

func (f *fakeClient) Post(_ context.Context, url string, _ map[string]string, _ []byte) (httpclient.Response, error) {
	return nil, errors.New("post not supported by fake")
}

func (f *fakeClient) hitCount(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[url]
}

func rssWithItems(titles ...string) []byte {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0"?><rss version="2.0"><channel><title>f</title>`)
	for i, title := range titles {
		fmt.Fprintf(&b, `<item><title>%s</title><link>https://example.com/%s/%d</link><description>body text for the story</description><pubDate>Mon, 02 Jan 2006 15:04:05 -0700</pubDate></item>`, title, strings.ReplaceAll(title, " ", "-"), i)
	}
	b.WriteString(`</channel></rss>`)
	return []byte(b.String())
}

func testRegistry(t *testing.T, srcs []domain.Source) *sources.Registry {
	t.Helper()
	reg, err := sources.NewRegistry(srcs)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return reg
}

func TestFetchAllPartialFailure(t *testing.T) {
	client := newFakeClient()
	var srcs []domain.Source
	for i := 0; i < 10; i++ {
		url := fmt.Sprintf("https://site%d.example.com/feed", i)
		srcs = append(srcs, domain.Source{
			Name:        fmt.Sprintf("site-%d", i),
			Endpoint:    url,
			Category:    domain.CategoryTech,
			Reliability: 0.9,
		})
		switch {
		case i < 7:
			client.responses[url] = fakeResponse{
				status: 200,
				body:   rssWithItems(fmt.Sprintf("Unique headline from site number %d", i)),
			}
		case i == 7:
			client.errs[url] = errors.New("connection refused")
		case i == 8:
			client.responses[url] = fakeResponse{status: 503}
		default:
			client.responses[url] = fakeResponse{status: 200, body: []byte("<html>not a feed</html>")}
		}
	}

	o := NewOrchestrator(testRegistry(t, srcs), NewFetcher(client, nil), nil, nil)
	articles, stats := o.FetchAll(context.Background(), nil)

	if len(articles) != 7 {
		t.Errorf("got %d articles, want 7 from the healthy sources", len(articles))
	}
	if stats.TotalFetched != 7 {
		t.Errorf("TotalFetched = %d, want 7", stats.TotalFetched)
	}
	if got := stats.Failures(); got != 3 {
		t.Errorf("Failures() = %d, want 3", got)
	}
	if len(stats.BySource) != 10 {
		t.Errorf("BySource has %d entries, want one per source", len(stats.BySource))
	}
	if st := stats.BySource["site-7"]; st.Err == "" {
		t.Error("transport failure not recorded in stats")
	}
	if st := stats.BySource["site-8"]; st.Err == "" {
		t.Error("HTTP 503 not recorded in stats")
	}
	if st := stats.BySource["site-9"]; st.Err == "" {
		t.Error("parse failure not recorded in stats")
	}
	if st := stats.BySource["site-0"]; st.Err != "" || st.Fetched != 1 {
		t.Errorf("healthy source stats = %+v", st)
	}
}

func TestFetchAllAllSourcesFail(t *testing.T) {
	client := newFakeClient()
	src := domain.Source{Name: "down", Endpoint: "https://down.example.com/feed", Category: domain.CategoryTech}
	client.errs[src.Endpoint] = errors.New("timeout")

	o := NewOrchestrator(testRegistry(t, []domain.Source{src}), NewFetcher(client, nil), nil, nil)
	articles, stats := o.FetchAll(context.Background(), nil)

	if len(articles) != 0 {
		t.Errorf("got %d articles, want 0", len(articles))
	}
	if stats.Failures() != 1 {
		t.Errorf("Failures() = %d, want 1", stats.Failures())
	}
}

func TestFetcherStatuses(t *testing.T) {
	client := newFakeClient()
	ok := domain.Source{Name: "ok", Endpoint: "https://ok.example.com/feed"}
	notFound := domain.Source{Name: "gone", Endpoint: "https://gone.example.com/feed"}
	client.responses[ok.Endpoint] = fakeResponse{status: 200, body: []byte("payload")}

	f := NewFetcher(client, nil)

	body, err := f.Fetch(context.Background(), ok)
	if err != nil || string(body) != "payload" {
		t.Errorf("Fetch ok source: body=%q err=%v", body, err)
	}

	_, err = f.Fetch(context.Background(), notFound)
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("error %T is not a *FetchError", err)
	}
	if fe.StatusCode != 404 {
		t.Errorf("StatusCode = %d, want 404", fe.StatusCode)
	}
}

func TestFetcherCachesResponses(t *testing.T) {
	client := newFakeClient()
	src := domain.Source{
		Name:         "cached",
		Endpoint:     "https://cached.example.com/feed",
		PollInterval: time.Minute,
	}
	client.responses[src.Endpoint] = fakeResponse{status: 200, body: []byte("payload")}

	f := NewFetcher(client, nil)
	for i := 0; i < 3; i++ {
		if _, err := f.Fetch(context.Background(), src); err != nil {
			t.Fatalf("Fetch %d: %v", i, err)
		}
	}

	if got := client.hitCount(src.Endpoint); got != 1 {
		t.Errorf("endpoint hit %d times, want 1 with cache serving the rest", got)
	}
}

func TestFetcherDoesNotCacheFailures(t *testing.T) {
	client := newFakeClient()
	src := domain.Source{Name: "flaky", Endpoint: "https://flaky.example.com/feed"}
	client.responses[src.Endpoint] = fakeResponse{status: 500}

	f := NewFetcher(client, nil)
	for i := 0; i < 2; i++ {
		if _, err := f.Fetch(context.Background(), src); err == nil {
			t.Fatal("expected an error")
		}
	}

	if got := client.hitCount(src.Endpoint); got != 2 {
		t.Errorf("endpoint hit %d times, want a fresh attempt per call", got)
	}
}

func TestResponseCacheExpiry(t *testing.T) {
	c := newResponseCache()

	c.Set("k", []byte("v"), 50*time.Millisecond)
	if body, ok := c.Get("k"); !ok || string(body) != "v" {
		t.Fatalf("Get fresh entry: %q %v", body, ok)
	}

	time.Sleep(60 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Error("expired entry still served")
	}

	c.Set("zero", []byte("v"), 0)
	if _, ok := c.Get("zero"); ok {
		t.Error("zero TTL entry should not be stored")
	}
}
