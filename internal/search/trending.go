package search

import (
	"context"

	"github.com/pders01/reel/internal/debuglog"
	"github.com/pders01/reel/internal/storage"
)

// TrendingLoader reads the most searched terms. Its failures never reach
// the user: the trending strip is simply hidden.
type TrendingLoader struct {
	counter storage.Counter
	limit   int
}

func NewTrendingLoader(counter storage.Counter, limit int) *TrendingLoader {
	return &TrendingLoader{counter: counter, limit: limit}
}

// Load always returns a non-nil slice. The error is returned for callers
// that want to surface it (the CLI); the UI only logs it.
func (l *TrendingLoader) Load(ctx context.Context) ([]storage.TrendingEntry, error) {
	if l == nil || l.counter == nil {
		return []storage.TrendingEntry{}, nil
	}
	entries, err := l.counter.GetTrending(ctx, l.limit)
	if err != nil {
		debuglog.Warnf("loading trending searches: %v", err)
		return []storage.TrendingEntry{}, err
	}
	if entries == nil {
		entries = []storage.TrendingEntry{}
	}
	return entries, nil
}
