package feed

import (
	"strings"
	"time"
)

// feedTimeLayouts are tried in order; the first successful parse wins.
// RFC 822 variants come first (RSS pubDate), then plain ISO-8601, then
// ISO-8601 with fractional seconds.
var feedTimeLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999Z07:00",
}

// parseFeedTime parses a feed timestamp. A nil result means no layout
// matched; the normalizer substitutes the current time in that case.
func parseFeedTime(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	for _, layout := range feedTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}
