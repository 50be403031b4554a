package dedup

import (
	"fmt"
	"sort"
	"time"

	"github.com/techpulse/newswire/internal/domain"
)

// Deduplicate collapses duplicates in three passes: exact normalized-title
// grouping, best-of-group selection with canonical-URL suppression, then a
// fuzzy similarity sweep over the surviving representatives. The result is
// sorted by publish time descending. Running it on its own output removes
// nothing further.
func Deduplicate(articles []domain.Article) []domain.Article {
	return deduplicateAt(articles, time.Now())
}

func deduplicateAt(articles []domain.Article, now time.Time) []domain.Article {
	if len(articles) == 0 {
		return []domain.Article{}
	}

	// Pass 1: group by normalized title. Short titles bypass grouping and
	// become singletons keyed by position.
	type group struct {
		key     string
		members []int
	}
	var order []string
	byKey := make(map[string]*group, len(articles))

	for i, a := range articles {
		key := NormalizeTitle(a.Title)
		if len(key) < minGroupTitleLen {
			key = fmt.Sprintf("\x00short:%d", i)
		}
		g, ok := byKey[key]
		if !ok {
			g = &group{key: key}
			byKey[key] = g
			order = append(order, key)
		}
		g.members = append(g.members, i)
	}

	// Pass 2: pick the highest-scoring member per group; ties keep the first
	// encountered. A representative whose canonical URL was already accepted
	// from a different group is a syndicated duplicate and is skipped.
	seenURLs := make(map[string]struct{}, len(order))
	reps := make([]domain.Article, 0, len(order))

	for _, key := range order {
		g := byKey[key]
		best := g.members[0]
		bestScore := representativeScore(articles[best], now)
		for _, idx := range g.members[1:] {
			if s := representativeScore(articles[idx], now); s > bestScore {
				best, bestScore = idx, s
			}
		}

		rep := articles[best]
		canonical := CanonicalURL(rep.URL)
		if _, dup := seenURLs[canonical]; dup {
			continue
		}
		seenURLs[canonical] = struct{}{}
		reps = append(reps, rep)
	}

	// Pass 3: fuzzy sweep in original order; drop anything whose title is
	// near-identical to an already-accepted one. Short titles bypass this
	// pass too: their word sets are too small for Jaccard to mean anything.
	accepted := make([]domain.Article, 0, len(reps))
	for _, candidate := range reps {
		if len(NormalizeTitle(candidate.Title)) < minGroupTitleLen {
			accepted = append(accepted, candidate)
			continue
		}
		similar := false
		for _, kept := range accepted {
			if Jaccard(candidate.Title, kept.Title) > jaccardThreshold {
				similar = true
				break
			}
		}
		if !similar {
			accepted = append(accepted, candidate)
		}
	}

	sort.SliceStable(accepted, func(i, j int) bool {
		return accepted[i].PublishedAt.After(accepted[j].PublishedAt)
	})
	return accepted
}

// representativeScore weighs source reliability, recency (linear decay over
// 24h floored at 0.1), content length (per 1000 chars, capped at 2x) and the
// priority multiplier.
func representativeScore(a domain.Article, now time.Time) float64 {
	decay := 1 - now.Sub(a.PublishedAt).Hours()/decayWindowHours
	if decay < minRecencyDecay {
		decay = minRecencyDecay
	}

	contentFactor := float64(len(a.Content)) / contentLengthUnit
	if contentFactor > maxContentFactor {
		contentFactor = maxContentFactor
	}

	return a.Reliability * decay * contentFactor * a.Priority.Multiplier()
}
