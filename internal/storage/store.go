package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var searchCountsBucket = []byte("search_counts")

// ErrNotFound is returned for a term with no record.
var ErrNotFound = errors.New("search count not found")

// ErrEmptyTerm is returned when asked to count a blank search.
var ErrEmptyTerm = errors.New("search term is empty")

// Store is the local bbolt-backed Counter.
type Store struct {
	db  *bolt.DB
	now func() time.Time
}

func NewStore(dbPath string, timeout time.Duration) (*Store, error) {
	if timeout <= 0 {
		timeout = 1 * time.Second
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, createErr := tx.CreateBucketIfNotExists(searchCountsBucket)
		return createErr
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) UpdateSearchCount(_ context.Context, term string, movie Movie) error {
	key := TermKey(term)
	if key == "" {
		return ErrEmptyTerm
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(searchCountsBucket)
		now := s.now()

		var rec SearchCount
		if data := b.Get([]byte(key)); data != nil {
			if err := json.Unmarshal(data, &rec); err != nil {
				return fmt.Errorf("decoding search count %q: %w", key, err)
			}
			rec.Count++
		} else {
			rec = SearchCount{
				Key:        key,
				SearchTerm: term,
				Count:      1,
				MovieID:    movie.ID,
				Title:      movie.Title,
				PosterURL:  movie.PosterURL,
				CreatedAt:  now,
			}
		}
		rec.UpdatedAt = now

		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), data)
	})
}

func (s *Store) GetSearchCount(term string) (*SearchCount, error) {
	var rec SearchCount
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(searchCountsBucket).Get([]byte(TermKey(term)))
		if data == nil {
			return ErrNotFound
		}
		return json.Unmarshal(data, &rec)
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Store) all() ([]SearchCount, error) {
	var records []SearchCount
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(searchCountsBucket).ForEach(func(_ []byte, v []byte) error {
			var rec SearchCount
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			records = append(records, rec)
			return nil
		})
	})
	return records, err
}

func (s *Store) GetTrending(_ context.Context, limit int) ([]TrendingEntry, error) {
	records, err := s.all()
	if err != nil {
		return nil, fmt.Errorf("reading search counts: %w", err)
	}
	return rankCounts(records, limit), nil
}

// Terms returns every recorded search term, for rebuilding the suggestion
// index.
func (s *Store) Terms() ([]string, error) {
	records, err := s.all()
	if err != nil {
		return nil, err
	}
	terms := make([]string, 0, len(records))
	for _, rec := range records {
		terms = append(terms, rec.SearchTerm)
	}
	return terms, nil
}

// DeleteSearchCount removes a term from the trending list.
func (s *Store) DeleteSearchCount(term string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(searchCountsBucket)
		key := []byte(TermKey(term))
		if b.Get(key) == nil {
			return ErrNotFound
		}
		return b.Delete(key)
	})
}
