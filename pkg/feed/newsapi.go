package feed

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/techpulse/newswire/internal/domain"
)

// apiResponse mirrors the headline API's article-list schema.
type apiResponse struct {
	Status   string       `json:"status"`
	Articles []apiArticle `json:"articles"`
}

type apiArticle struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
	Content     string `json:"content"`
}

// parseNewsAPI decodes the JSON article-list payload. Individual entries
// missing a usable title or description are dropped; a partially malformed
// batch still yields its well-formed subset.
func parseNewsAPI(data []byte) ([]domain.RawFeedItem, error) {
	var resp apiResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, &ParseError{Format: FormatNewsAPI, Err: err}
	}

	items := make([]domain.RawFeedItem, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		title := strings.TrimSpace(a.Title)
		desc := strings.TrimSpace(a.Description)
		if !usableAPIField(title) || !usableAPIField(desc) {
			continue
		}

		var published *time.Time
		if t, err := time.Parse(time.RFC3339, strings.TrimSpace(a.PublishedAt)); err == nil {
			published = &t
		}

		items = append(items, domain.RawFeedItem{
			Title:       title,
			Description: desc,
			Link:        strings.TrimSpace(a.URL),
			Author:      strings.TrimSpace(a.Author),
			Content:     strings.TrimSpace(a.Content),
			ImageURL:    strings.TrimSpace(a.URLToImage),
			Published:   published,
		})
	}
	return items, nil
}

// usableAPIField rejects empty fields and the API's tombstone for redacted
// entries.
func usableAPIField(s string) bool {
	return s != "" && !strings.EqualFold(s, "[removed]")
}
