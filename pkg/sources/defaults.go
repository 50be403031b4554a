package sources

import (
	"time"

	"github.com/techpulse/newswire/internal/domain"
)

// DefaultRegistry returns the built-in tech press source set, used when no
// sources file is configured. Reliability weights are editorial trust
// judgements, fixed at configuration time.
func DefaultRegistry() *Registry {
	reg, _ := NewRegistry([]domain.Source{
		{Name: "TechCrunch", Endpoint: "https://techcrunch.com/feed/", Category: domain.CategoryStartups, Reliability: 1.0, PollInterval: 15 * time.Minute},
		{Name: "Ars Technica", Endpoint: "https://feeds.arstechnica.com/arstechnica/index", Category: domain.CategoryTech, Reliability: 0.95, PollInterval: 15 * time.Minute},
		{Name: "MIT Technology Review", Endpoint: "https://www.technologyreview.com/feed/", Category: domain.CategoryAI, Reliability: 0.95, PollInterval: 30 * time.Minute},
		{Name: "The Verge", Endpoint: "https://www.theverge.com/rss/index.xml", Category: domain.CategoryTech, Reliability: 0.9, PollInterval: 15 * time.Minute},
		{Name: "Wired", Endpoint: "https://www.wired.com/feed/rss", Category: domain.CategoryTech, Reliability: 0.9, PollInterval: 30 * time.Minute},
		{Name: "VentureBeat", Endpoint: "https://venturebeat.com/feed/", Category: domain.CategoryAI, Reliability: 0.85, PollInterval: 15 * time.Minute},
		{Name: "Engadget", Endpoint: "https://www.engadget.com/rss.xml", Category: domain.CategoryMobile, Reliability: 0.8, PollInterval: 15 * time.Minute},
	})
	return reg
}
