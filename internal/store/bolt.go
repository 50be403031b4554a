// Package store persists accepted articles in a local bbolt database keyed
// by canonical URL, so the same real-world story fetched on two separate
// runs resolves to one stored record despite carrying different generated
// identifiers.
package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/techpulse/newswire/internal/dedup"
	"github.com/techpulse/newswire/internal/domain"
)

var articlesBucket = []byte("articles")

// Record is the persisted projection of a domain article.
type Record struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	URL         string    `json:"url"`
	ImageURL    string    `json:"image_url,omitempty"`
	Source      string    `json:"source"`
	Category    string    `json:"category"`
	Priority    string    `json:"priority"`
	Tags        []string  `json:"tags,omitempty"`
	Sentiment   float64   `json:"sentiment"`
	Reliability float64   `json:"reliability"`
	PublishedAt time.Time `json:"published_at"`
	FirstSeenAt time.Time `json:"first_seen_at"`
}

// Store is a bbolt-backed article store.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the store at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open article store: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(articlesBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init article store: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Reconcile splits the batch into articles never seen before and ones whose
// canonical URL already exists from a prior run. Fresh articles are
// persisted; known ones are left untouched.
func (s *Store) Reconcile(articles []domain.Article) (fresh []domain.Article, known int, err error) {
	now := time.Now()

	err = s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(articlesBucket)
		for _, a := range articles {
			key := []byte(dedup.CanonicalURL(a.URL))
			if bucket.Get(key) != nil {
				known++
				continue
			}

			payload, err := json.Marshal(toStored(a, now))
			if err != nil {
				return fmt.Errorf("marshal article %s: %w", a.ID, err)
			}
			if err := bucket.Put(key, payload); err != nil {
				return fmt.Errorf("store article %s: %w", a.ID, err)
			}
			fresh = append(fresh, a)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return fresh, known, nil
}

// Recent returns up to limit stored articles, most recently published first.
func (s *Store) Recent(limit int) ([]Record, error) {
	var records []Record

	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(articlesBucket).ForEach(func(_, v []byte) error {
			var sa Record
			if err := json.Unmarshal(v, &sa); err != nil {
				return nil // skip corrupt entries
			}
			records = append(records, sa)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("read article store: %w", err)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].PublishedAt.After(records[j].PublishedAt)
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// PruneOlderThan removes stored articles published before the cutoff and
// reports how many were dropped.
func (s *Store) PruneOlderThan(cutoff time.Time) (int, error) {
	removed := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(articlesBucket)
		c := bucket.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var sa Record
			if err := json.Unmarshal(v, &sa); err != nil {
				continue
			}
			if sa.PublishedAt.Before(cutoff) {
				if err := c.Delete(); err != nil {
					return err
				}
				removed++
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("prune article store: %w", err)
	}
	return removed, nil
}

func toStored(a domain.Article, firstSeen time.Time) Record {
	return Record{
		ID:          a.ID,
		Title:       a.Title,
		Summary:     a.Summary,
		URL:         a.URL,
		ImageURL:    a.ImageURL,
		Source:      a.Source.Name,
		Category:    string(a.Category),
		Priority:    string(a.Priority),
		Tags:        a.Tags,
		Sentiment:   a.Sentiment,
		Reliability: a.Reliability,
		PublishedAt: a.PublishedAt,
		FirstSeenAt: firstSeen,
	}
}
