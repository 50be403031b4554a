// Package feed parses raw feed payloads into the intermediate RawFeedItem
// representation. Two wire formats are supported: RSS 2.0 / Atom XML and the
// headline API's JSON article-list schema.
package feed

import (
	"fmt"

	"github.com/techpulse/newswire/internal/domain"
)

// Format is the wire-format hint supplied by the caller.
type Format string

const (
	FormatRSS     Format = "rss"
	FormatAtom    Format = "atom"
	FormatNewsAPI Format = "newsapi"
)

// ParseError reports a structurally malformed payload. It is scoped to one
// source and never fatal to an ingestion round.
type ParseError struct {
	Format Format
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s payload: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse decodes the payload according to the format hint. RSS and Atom share
// one streaming parser; the hint only matters for selecting XML versus JSON.
func Parse(data []byte, format Format) ([]domain.RawFeedItem, error) {
	switch format {
	case FormatNewsAPI:
		return parseNewsAPI(data)
	case FormatRSS, FormatAtom:
		return parseFeedXML(data, format)
	default:
		return nil, &ParseError{Format: format, Err: fmt.Errorf("unknown format %q", format)}
	}
}
