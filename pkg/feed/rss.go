package feed

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/techpulse/newswire/internal/domain"
)

// entryState accumulates one item/entry worth of fields while the token
// stream is inside it.
type entryState struct {
	title       string
	description string
	content     string
	link        string
	author      string
	image       string
	pubDate     string
	updated     string
}

// parseFeedXML walks the token stream with a single state machine that
// understands both the RSS 2.0 vocabulary (item, pubDate, description,
// content:encoded, enclosure) and the Atom one (entry, published/updated,
// summary, content, link@href). Image URLs are also picked up from the
// media-RSS thumbnail/content extensions.
func parseFeedXML(data []byte, format Format) ([]domain.RawFeedItem, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false

	var (
		items    []domain.RawFeedItem
		cur      *entryState
		text     bytes.Buffer
		rootSeen bool
		inAuthor bool
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Format: format, Err: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			local := t.Name.Local
			if !rootSeen {
				if local != "rss" && local != "feed" && local != "RDF" {
					return nil, &ParseError{Format: format, Err: errors.New("root element is not a recognized feed")}
				}
				rootSeen = true
			}

			if local == "item" || local == "entry" {
				cur = &entryState{}
				continue
			}
			if cur == nil {
				continue
			}

			text.Reset()
			switch local {
			case "author":
				inAuthor = true
			case "link":
				// Atom links carry the URL in attributes; an enclosure-style
				// link with an image type doubles as the entry image.
				href, rel, typ := linkAttrs(t)
				if href == "" {
					break
				}
				switch {
				case rel == "" || rel == "alternate":
					cur.link = href
				case rel == "enclosure" && strings.HasPrefix(typ, "image/"):
					if cur.image == "" {
						cur.image = href
					}
				}
			case "enclosure":
				if u, typ := urlTypeAttrs(t); u != "" && (typ == "" || strings.HasPrefix(typ, "image/")) {
					if cur.image == "" {
						cur.image = u
					}
				}
			case "thumbnail":
				if mediaNamespace(t.Name.Space) {
					if u, _ := urlTypeAttrs(t); u != "" && cur.image == "" {
						cur.image = u
					}
				}
			case "content":
				if mediaNamespace(t.Name.Space) {
					if u, typ := urlTypeAttrs(t); u != "" && (typ == "" || strings.HasPrefix(typ, "image/")) {
						if cur.image == "" {
							cur.image = u
						}
					}
				}
			}

		case xml.CharData:
			if cur != nil {
				text.Write(t)
			}

		case xml.EndElement:
			local := t.Name.Local
			if local == "item" || local == "entry" {
				items = append(items, cur.toItem())
				cur = nil
				continue
			}
			if cur == nil {
				continue
			}

			val := strings.TrimSpace(text.String())
			switch local {
			case "title":
				cur.title = val
			case "description", "summary":
				if cur.description == "" {
					cur.description = val
				}
			case "encoded":
				// content:encoded carries the full RSS body.
				cur.content = val
			case "content":
				if !mediaNamespace(t.Name.Space) && cur.content == "" {
					cur.content = val
				}
			case "link":
				if cur.link == "" && val != "" {
					cur.link = val
				}
			case "pubDate", "published":
				cur.pubDate = val
			case "updated":
				cur.updated = val
			case "creator":
				if cur.author == "" {
					cur.author = val
				}
			case "author":
				inAuthor = false
				if cur.author == "" && val != "" {
					cur.author = val
				}
			case "name":
				if inAuthor && val != "" {
					cur.author = val
				}
			}
			text.Reset()
		}
	}

	if !rootSeen {
		return nil, &ParseError{Format: format, Err: errors.New("payload contains no feed document")}
	}
	return items, nil
}

func (e *entryState) toItem() domain.RawFeedItem {
	dateStr := e.pubDate
	if dateStr == "" {
		dateStr = e.updated
	}

	return domain.RawFeedItem{
		Title:       e.title,
		Description: e.description,
		Link:        e.link,
		Author:      e.author,
		Content:     e.content,
		ImageURL:    e.image,
		Published:   parseFeedTime(dateStr),
	}
}

func linkAttrs(t xml.StartElement) (href, rel, typ string) {
	for _, a := range t.Attr {
		switch a.Name.Local {
		case "href":
			href = strings.TrimSpace(a.Value)
		case "rel":
			rel = strings.TrimSpace(a.Value)
		case "type":
			typ = strings.TrimSpace(a.Value)
		}
	}
	return href, rel, typ
}

func urlTypeAttrs(t xml.StartElement) (u, typ string) {
	for _, a := range t.Attr {
		switch a.Name.Local {
		case "url":
			u = strings.TrimSpace(a.Value)
		case "type":
			typ = strings.TrimSpace(a.Value)
		}
	}
	return u, typ
}

func mediaNamespace(space string) bool {
	return strings.Contains(space, "mrss") || strings.Contains(space, "media")
}
