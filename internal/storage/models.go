package storage

import (
	"context"
	"sort"
	"strings"
	"time"
)

// Movie is the part of a search's top result kept alongside its count.
type Movie struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	PosterURL string `json:"poster_url"`
}

// SearchCount is the record kept per search term.
type SearchCount struct {
	Key        string    `json:"key"`
	SearchTerm string    `json:"search_term"`
	Count      int64     `json:"count"`
	MovieID    int64     `json:"movie_id"`
	Title      string    `json:"title"`
	PosterURL  string    `json:"poster_url"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TrendingEntry is one ranked row of the trending list.
type TrendingEntry struct {
	ID        string
	Term      string
	MovieID   int64
	Title     string
	PosterURL string
	Count     int64
	Rank      int
}

// Counter is the search-count store. Implementations must be safe for
// concurrent use.
type Counter interface {
	// UpdateSearchCount increments the count for term, creating the record
	// with movie as its representative result on first use.
	UpdateSearchCount(ctx context.Context, term string, movie Movie) error
	// GetTrending returns up to limit records by descending count.
	GetTrending(ctx context.Context, limit int) ([]TrendingEntry, error)
	Close() error
}

// TermKey folds a search term to the key records are stored under.
func TermKey(term string) string {
	return strings.ToLower(strings.Join(strings.Fields(term), " "))
}

func (sc SearchCount) entry(rank int) TrendingEntry {
	return TrendingEntry{
		ID:        sc.Key,
		Term:      sc.SearchTerm,
		MovieID:   sc.MovieID,
		Title:     sc.Title,
		PosterURL: sc.PosterURL,
		Count:     sc.Count,
		Rank:      rank,
	}
}

// rankCounts orders records by count, then recency, then key, and returns
// the first limit as ranked entries.
func rankCounts(records []SearchCount, limit int) []TrendingEntry {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if !a.UpdatedAt.Equal(b.UpdatedAt) {
			return a.UpdatedAt.After(b.UpdatedAt)
		}
		return a.Key < b.Key
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	entries := make([]TrendingEntry, 0, len(records))
	for i, rec := range records {
		entries = append(entries, rec.entry(i+1))
	}
	return entries
}
