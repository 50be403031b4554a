package domain

import "time"

// Domain contains the core models shared across the ingestion pipeline.

// Category classifies an article or a configured source.
type Category string

const (
	CategoryAI         Category = "ai"
	CategoryBlockchain Category = "blockchain"
	CategorySecurity   Category = "security"
	CategoryStartups   Category = "startups"
	CategoryMobile     Category = "mobile"
	CategoryCloud      Category = "cloud"
	CategoryIoT        Category = "iot"
	CategoryTech       Category = "tech"
)

// AllCategories returns every known category in precedence order.
func AllCategories() []Category {
	return []Category{
		CategoryAI,
		CategoryBlockchain,
		CategorySecurity,
		CategoryStartups,
		CategoryMobile,
		CategoryCloud,
		CategoryIoT,
		CategoryTech,
	}
}

// Priority ranks how urgent a story is.
type Priority string

const (
	PriorityBreaking Priority = "breaking"
	PriorityHigh     Priority = "high"
	PriorityNormal   Priority = "normal"
	PriorityLow      Priority = "low"
)

// Multiplier returns the scoring weight applied during duplicate resolution.
func (p Priority) Multiplier() float64 {
	switch p {
	case PriorityBreaking:
		return 2.0
	case PriorityHigh:
		return 1.5
	default:
		return 1.0
	}
}

// Source is a configured feed provider. Reliability is assigned at
// configuration time and never mutated by ingestion.
type Source struct {
	Name         string
	Endpoint     string
	Category     Category
	Reliability  float64
	PollInterval time.Duration
}

// RawFeedItem is the format-agnostic intermediate representation produced
// by a feed parser. It is consumed immediately by the normalizer and never
// persisted. A nil Published means the entry carried no parseable date.
type RawFeedItem struct {
	Title       string
	Description string
	Link        string
	Author      string
	Content     string
	ImageURL    string
	Published   *time.Time
}

// Article is the canonical entity the rest of the system operates on.
// Articles are immutable once normalized; deduplication selects or discards,
// it never edits.
type Article struct {
	ID             string
	Title          string
	Summary        string
	Content        string
	URL            string
	ImageURL       string
	Source         Source
	Category       Category
	PublishedAt    time.Time
	Tags           []string
	Priority       Priority
	ReadingMinutes int
	Sentiment      float64
	Reliability    float64
}

// SourceStats records the per-source outcome of one ingestion round.
type SourceStats struct {
	Fetched int
	Err     string
}

// RunStats is the diagnostic metadata surfaced to callers alongside the
// article list. An empty result and a failed result are independently
// observable through it.
type RunStats struct {
	BySource          map[string]SourceStats
	TotalFetched      int
	TotalAfterDedup   int
	DuplicatesRemoved int
	NewArticles       int
	KnownArticles     int
	StartedAt         time.Time
	Duration          time.Duration
}

// Failures counts the sources that contributed an error this round.
func (s RunStats) Failures() int {
	n := 0
	for _, st := range s.BySource {
		if st.Err != "" {
			n++
		}
	}
	return n
}
