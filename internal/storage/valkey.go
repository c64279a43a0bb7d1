package storage

import (
	"context"
	"fmt"
	"strconv"
	"time"

	valkey "github.com/valkey-io/valkey-go"
)

const (
	valkeyPrefix      = "reel:"
	valkeyTrendingKey = valkeyPrefix + "trending"
)

// ValkeyCounter keeps counts in a sorted set and per-term metadata in
// hashes, so increments from many clients are atomic on the server.
type ValkeyCounter struct {
	c   valkey.Client
	now func() time.Time
}

func NewValkeyCounter(addr, password string) (*ValkeyCounter, error) {
	opts := valkey.ClientOption{
		InitAddress: []string{addr},
	}
	if password != "" {
		opts.Username = "default"
		opts.Password = password
	}
	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("connecting to valkey at %s: %w", addr, err)
	}
	return &ValkeyCounter{c: client, now: time.Now}, nil
}

func termHashKey(key string) string {
	return valkeyPrefix + "term:" + key
}

func (v *ValkeyCounter) UpdateSearchCount(ctx context.Context, term string, movie Movie) error {
	key := TermKey(term)
	if key == "" {
		return ErrEmptyTerm
	}
	hash := termHashKey(key)
	now := strconv.FormatInt(v.now().UnixNano(), 10)

	cmds := valkey.Commands{
		v.c.B().Zincrby().Key(valkeyTrendingKey).Increment(1).Member(key).Build(),
		// metadata is written once, on the first search for the term
		v.c.B().Hsetnx().Key(hash).Field("search_term").Value(term).Build(),
		v.c.B().Hsetnx().Key(hash).Field("movie_id").Value(strconv.FormatInt(movie.ID, 10)).Build(),
		v.c.B().Hsetnx().Key(hash).Field("title").Value(movie.Title).Build(),
		v.c.B().Hsetnx().Key(hash).Field("poster_url").Value(movie.PosterURL).Build(),
		v.c.B().Hsetnx().Key(hash).Field("created_at").Value(now).Build(),
		v.c.B().Hset().Key(hash).FieldValue().FieldValue("updated_at", now).Build(),
	}
	for _, res := range v.c.DoMulti(ctx, cmds...) {
		if err := res.Error(); err != nil {
			return fmt.Errorf("updating search count %q: %w", key, err)
		}
	}
	return nil
}

func (v *ValkeyCounter) GetTrending(ctx context.Context, limit int) ([]TrendingEntry, error) {
	if limit <= 0 {
		return []TrendingEntry{}, nil
	}
	res := v.c.Do(ctx, v.c.B().Zrevrange().Key(valkeyTrendingKey).Start(0).Stop(int64(limit-1)).Withscores().Build())
	scores, err := res.AsZScores()
	if err != nil {
		return nil, fmt.Errorf("reading trending set: %w", err)
	}
	if len(scores) == 0 {
		return []TrendingEntry{}, nil
	}

	cmds := make(valkey.Commands, 0, len(scores))
	for _, s := range scores {
		cmds = append(cmds, v.c.B().Hgetall().Key(termHashKey(s.Member)).Build())
	}

	records := make([]SearchCount, 0, len(scores))
	for i, r := range v.c.DoMulti(ctx, cmds...) {
		fields, err := r.AsStrMap()
		if err != nil {
			return nil, fmt.Errorf("reading metadata for %q: %w", scores[i].Member, err)
		}
		records = append(records, recordFromHash(scores[i].Member, int64(scores[i].Score), fields))
	}
	return rankCounts(records, limit), nil
}

// recordFromHash tolerates missing or garbled fields; the sorted set is the
// source of truth for the count.
func recordFromHash(key string, count int64, fields map[string]string) SearchCount {
	rec := SearchCount{
		Key:        key,
		SearchTerm: fields["search_term"],
		Count:      count,
		Title:      fields["title"],
		PosterURL:  fields["poster_url"],
	}
	if rec.SearchTerm == "" {
		rec.SearchTerm = key
	}
	if id, err := strconv.ParseInt(fields["movie_id"], 10, 64); err == nil {
		rec.MovieID = id
	}
	if ns, err := strconv.ParseInt(fields["created_at"], 10, 64); err == nil {
		rec.CreatedAt = time.Unix(0, ns)
	}
	if ns, err := strconv.ParseInt(fields["updated_at"], 10, 64); err == nil {
		rec.UpdatedAt = time.Unix(0, ns)
	}
	return rec
}

func (v *ValkeyCounter) Close() error {
	v.c.Close()
	return nil
}
