package ingest

import (
	"html"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/techpulse/newswire/internal/domain"
)

const (
	summaryMaxRunes = 150
	wordsPerMinute  = 200
)

var (
	reTags       = regexp.MustCompile(`<[^>]*>`)
	reWhitespace = regexp.MustCompile(`\s+`)
)

// Normalizer converts parsed feed items into canonical Articles. Each
// successful call mints a fresh identity; reconciling identities across
// ingestion runs is the store's job.
type Normalizer struct {
	now func() time.Time
}

// NewNormalizer builds a Normalizer using the wall clock.
func NewNormalizer() *Normalizer {
	return &Normalizer{now: time.Now}
}

// Normalize validates and converts one feed item. The second return value is
// false when the item is rejected: empty title, unparseable link, or nothing
// usable as a description.
func (n *Normalizer) Normalize(item domain.RawFeedItem, src domain.Source, hint domain.Category) (domain.Article, bool) {
	title := strings.TrimSpace(item.Title)
	if title == "" {
		return domain.Article{}, false
	}

	link := strings.TrimSpace(item.Link)
	if u, err := url.Parse(link); err != nil || u.Scheme == "" || u.Host == "" {
		return domain.Article{}, false
	}

	description := stripHTML(item.Description)
	if description == "" {
		description = stripHTML(item.Content)
	}
	if description == "" {
		description = title
	}
	if description == "" {
		return domain.Article{}, false
	}

	publishedAt := n.now()
	if item.Published != nil {
		publishedAt = *item.Published
	}

	content := stripHTML(item.Content)
	if content == "" {
		content = description
	}

	haystack := strings.ToLower(title + " " + description)
	category := resolveCategory(haystack, hint, src.Category)

	return domain.Article{
		ID:             uuid.NewString(),
		Title:          title,
		Summary:        summarize(description),
		Content:        content,
		URL:            link,
		ImageURL:       strings.TrimSpace(item.ImageURL),
		Source:         src,
		Category:       category,
		PublishedAt:    publishedAt,
		Tags:           extractTags(haystack),
		Priority:       classifyPriority(haystack),
		ReadingMinutes: readingMinutes(content),
		Sentiment:      sentimentScore(haystack),
		Reliability:    src.Reliability,
	}, true
}

// stripHTML removes markup, decodes entities and collapses whitespace.
func stripHTML(s string) string {
	s = reTags.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	s = reWhitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// summarize truncates at the last word boundary within the rune budget and
// appends an ellipsis when anything was cut.
func summarize(s string) string {
	runes := []rune(s)
	if len(runes) <= summaryMaxRunes {
		return s
	}

	cut := string(runes[:summaryMaxRunes])
	if idx := strings.LastIndexAny(cut, " \t"); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimSpace(cut) + "…"
}

// extractTags returns every vocabulary keyword present in the text.
func extractTags(haystack string) []string {
	var tags []string
	for _, kw := range tagVocabulary {
		if containsTerm(haystack, kw) {
			tags = append(tags, kw)
		}
	}
	return tags
}

// classifyPriority applies the priority rules in order: breaking indicators
// first, then impact indicators, else normal.
func classifyPriority(haystack string) domain.Priority {
	if containsAnyTerm(haystack, breakingTerms) {
		return domain.PriorityBreaking
	}
	if containsAnyTerm(haystack, impactTerms) {
		return domain.PriorityHigh
	}
	return domain.PriorityNormal
}

// resolveCategory scans the category rules in precedence order; the first
// matching rule wins, otherwise the caller's hint, then the source default.
func resolveCategory(haystack string, hint, sourceDefault domain.Category) domain.Category {
	for _, rule := range categoryRules {
		if containsAnyTerm(haystack, rule.keywords) {
			return rule.category
		}
	}
	if hint != "" {
		return hint
	}
	if sourceDefault != "" {
		return sourceDefault
	}
	return domain.CategoryTech
}

// readingMinutes estimates reading time at 200 words per minute, minimum one
// minute.
func readingMinutes(content string) int {
	words := len(strings.Fields(content))
	minutes := words / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}

// sentimentScore is (positive − negative) / (positive + negative) keyword
// hits, zero when neither vocabulary matches.
func sentimentScore(haystack string) float64 {
	pos := countTermHits(haystack, positiveTerms)
	neg := countTermHits(haystack, negativeTerms)
	if pos+neg == 0 {
		return 0.0
	}
	return float64(pos-neg) / float64(pos+neg)
}
