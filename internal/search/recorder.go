package search

import (
	"context"
	"fmt"

	"github.com/pders01/reel/internal/debuglog"
	"github.com/pders01/reel/internal/storage"
	"github.com/pders01/reel/internal/suggest"
)

// Recorder writes applied outcomes to the search-count store and the
// suggestion index. Both are optional.
type Recorder struct {
	counter   storage.Counter
	suggester suggest.Suggester
	posterURL func(string) string
}

func NewRecorder(counter storage.Counter, suggester suggest.Suggester, posterURL func(string) string) *Recorder {
	if posterURL == nil {
		posterURL = func(p string) string { return p }
	}
	return &Recorder{counter: counter, suggester: suggester, posterURL: posterURL}
}

// Record increments the count for out's query with its top result. It
// returns false without side effects when out is not recordable. Callers
// pass only outcomes Apply accepted.
func (r *Recorder) Record(ctx context.Context, out Outcome) (bool, error) {
	if r == nil || !out.ShouldRecord() {
		return false, nil
	}
	top, _ := out.TopResult()

	if r.suggester != nil {
		if err := r.suggester.Add(out.Query); err != nil {
			debuglog.Warnf("indexing search term %q: %v", out.Query, err)
		}
	}
	if r.counter == nil {
		return false, nil
	}

	movie := storage.Movie{
		ID:        top.ID,
		Title:     top.Title,
		PosterURL: r.posterURL(top.PosterPath),
	}
	if err := r.counter.UpdateSearchCount(ctx, out.Query, movie); err != nil {
		return false, fmt.Errorf("recording search %q: %w", out.Query, err)
	}
	debuglog.WithFields(map[string]interface{}{
		"request_id": out.RequestID,
		"movie_id":   top.ID,
	}).Debugf("recorded search %q", out.Query)
	return true, nil
}
