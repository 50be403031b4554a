package ingest

import (
	"strings"

	"github.com/techpulse/newswire/internal/domain"
)

// Keyword rule tables. These are replaceable heuristics: tuning them never
// requires touching control flow.

// tagVocabulary is matched case-insensitively against title+description; any
// number of tags may apply.
var tagVocabulary = []string{
	"AI", "machine learning", "blockchain", "crypto", "startup", "funding",
	"cybersecurity", "privacy", "cloud", "quantum", "robotics", "5G",
	"open source", "chip", "semiconductor", "VR", "AR",
}

// breakingTerms and impactTerms drive priority classification; rules are
// checked breaking first, then high, first match wins.
var breakingTerms = []string{
	"breaking", "urgent", "alert", "major breach", "emergency",
}

var impactTerms = []string{
	"acquisition", "ipo", "funding", "lawsuit", "scandal", "launch", "announcement",
}

// categoryRule binds a category to its trigger vocabulary. Order is the
// resolution precedence.
type categoryRule struct {
	category domain.Category
	keywords []string
}

var categoryRules = []categoryRule{
	{domain.CategoryAI, []string{
		"artificial intelligence", "machine learning", "neural", "openai",
		"chatgpt", "gpt", "claude", "llm", "generative", "chatbot", "ai",
	}},
	{domain.CategoryBlockchain, []string{
		"blockchain", "bitcoin", "ethereum", "crypto", "defi", "nft", "web3",
	}},
	{domain.CategorySecurity, []string{
		"security", "hack", "breach", "vulnerability", "cyber", "ransomware", "malware",
	}},
	{domain.CategoryStartups, []string{
		"startup", "funding", "venture", "series a", "series b", "ipo", "acquisition", "merger",
	}},
	{domain.CategoryMobile, []string{
		"iphone", "android", "smartphone", "mobile app", "ios", "tablet",
	}},
	{domain.CategoryCloud, []string{
		"cloud", "aws", "azure", "kubernetes", "serverless", "saas",
	}},
	{domain.CategoryIoT, []string{
		"internet of things", "iot", "smart home", "connected device", "wearable",
	}},
}

// Sentiment vocabularies. Score is (pos−neg)/(pos+neg), zero when neither
// side matches.
var positiveTerms = []string{
	"breakthrough", "success", "growth", "innovative", "record", "wins",
	"improves", "achievement", "milestone", "soars",
}

var negativeTerms = []string{
	"breach", "lawsuit", "scandal", "failure", "decline", "layoffs",
	"crash", "losses", "outage", "fraud",
}

// containsTerm matches a single keyword against lowercased text. Phrases use
// substring matching; short tokens require whole-word hits so "ai" does not
// match "said".
func containsTerm(text, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return false
	}

	if strings.Contains(term, " ") || len(term) > 3 {
		return strings.Contains(text, term)
	}

	for _, word := range strings.FieldsFunc(text, func(r rune) bool {
		return !isWordRune(r)
	}) {
		if word == term {
			return true
		}
	}
	return false
}

func isWordRune(r rune) bool {
	return r == '-' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}

func containsAnyTerm(text string, terms []string) bool {
	for _, term := range terms {
		if containsTerm(text, term) {
			return true
		}
	}
	return false
}

func countTermHits(text string, terms []string) int {
	hits := 0
	for _, term := range terms {
		if containsTerm(text, term) {
			hits++
		}
	}
	return hits
}
