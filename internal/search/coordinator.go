// Package search coordinates movie fetches for the UI: it tracks the one
// live result set, makes sure the most recently issued request is the one
// reflected in it, and derives what the results pane should show.
//
// A fetch is split in three so the UI loop never blocks:
//
//	req := c.Start(query)   // on the loop: bump seq, loading=true
//	out := c.Run(req)       // anywhere: one HTTP request
//	c.Apply(out)            // on the loop: ignored unless out is the latest
package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pders01/reel/internal/debuglog"
	"github.com/pders01/reel/internal/storage"
	"github.com/pders01/reel/internal/tmdb"
	"github.com/rs/xid"
)

// User-facing failure messages.
const (
	MsgFetchFailed     = "Error fetching movies. Please try again."
	MsgServiceFallback = "Failed to fetch movies"
)

// Fetcher returns the movies for a query. An empty query means "popular".
type Fetcher interface {
	Movies(ctx context.Context, query string) ([]tmdb.Movie, error)
}

// State is the live result set.
type State struct {
	Query   string
	Seq     uint64
	Movies  []tmdb.Movie
	Loading bool
	ErrMsg  string
}

// Request is one issued fetch.
type Request struct {
	Seq   uint64
	Query string
	ID    string
	ctx   context.Context
}

// Outcome is the result of running a Request. Message is set whenever Err is.
type Outcome struct {
	Seq       uint64
	Query     string
	RequestID string
	Movies    []tmdb.Movie
	Err       error
	Message   string
	Elapsed   time.Duration
}

// ShouldRecord reports whether this outcome counts as a search worth
// recording: a successful query with at least one result whose folded term
// is not blank.
func (o Outcome) ShouldRecord() bool {
	return o.Err == nil && storage.TermKey(o.Query) != "" && len(o.Movies) > 0
}

// TopResult is the first movie of a successful outcome.
func (o Outcome) TopResult() (tmdb.Movie, bool) {
	if o.Err != nil || len(o.Movies) == 0 {
		return tmdb.Movie{}, false
	}
	return o.Movies[0], true
}

// Coordinator is not safe for concurrent use except for Run, which touches
// no coordinator state.
type Coordinator struct {
	fetcher Fetcher
	base    context.Context
	seq     uint64
	cancel  context.CancelFunc
	state   State
}

func NewCoordinator(fetcher Fetcher) *Coordinator {
	return &Coordinator{
		fetcher: fetcher,
		base:    context.Background(),
		state:   State{Movies: []tmdb.Movie{}},
	}
}

func (c *Coordinator) State() State { return c.state }

// Latest is the sequence number of the most recently started request.
func (c *Coordinator) Latest() uint64 { return c.seq }

// Start issues a new request for query. The previous in-flight request,
// if any, is cancelled; its outcome will be discarded by Apply.
func (c *Coordinator) Start(query string) Request {
	return c.start(c.base, query)
}

func (c *Coordinator) start(parent context.Context, query string) Request {
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	c.cancel = cancel
	c.seq++

	c.state.Loading = true
	c.state.ErrMsg = ""

	req := Request{Seq: c.seq, Query: query, ID: xid.New().String(), ctx: ctx}
	log := debuglog.L()
	log.Debug().
		Str("request_id", req.ID).
		Uint64("seq", req.Seq).
		Str("query", query).
		Msg("fetch started")
	return req
}

// Run performs the request. It always returns an Outcome, even if the
// fetcher panics.
func (c *Coordinator) Run(req Request) (out Outcome) {
	start := time.Now()
	out = Outcome{Seq: req.Seq, Query: req.Query, RequestID: req.ID}
	ctx := req.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	defer func() {
		if r := recover(); r != nil {
			out.Movies = nil
			out.Err = fmt.Errorf("fetch panicked: %v", r)
			out.Message = MsgFetchFailed
		}
		out.Elapsed = time.Since(start)
		logOutcome(out)
	}()

	movies, err := c.fetcher.Movies(ctx, req.Query)
	if err != nil {
		out.Err = err
		out.Message = Message(err)
		return out
	}
	if movies == nil {
		movies = []tmdb.Movie{}
	}
	out.Movies = movies
	return out
}

func logOutcome(out Outcome) {
	log := debuglog.L()
	switch {
	case out.Err == nil:
		log.Debug().Str("request_id", out.RequestID).Uint64("seq", out.Seq).
			Int("results", len(out.Movies)).Dur("elapsed", out.Elapsed).Msg("fetch finished")
	case errors.Is(out.Err, context.Canceled):
		log.Debug().Str("request_id", out.RequestID).Uint64("seq", out.Seq).Msg("fetch superseded")
	default:
		log.Warn().Str("request_id", out.RequestID).Uint64("seq", out.Seq).
			Str("query", out.Query).Err(out.Err).Msg("fetch failed")
	}
}

// Apply folds out into the live state if it belongs to the latest request
// and reports whether it did. Loading is always cleared by the latest
// outcome, whether it succeeded or not.
func (c *Coordinator) Apply(out Outcome) bool {
	if out.Seq != c.seq {
		log := debuglog.L()
		log.Debug().Uint64("seq", out.Seq).Uint64("latest", c.seq).Msg("stale outcome discarded")
		return false
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}

	c.state.Loading = false
	c.state.Query = out.Query
	c.state.Seq = out.Seq
	if out.Err != nil {
		c.state.Movies = []tmdb.Movie{}
		c.state.ErrMsg = out.Message
		if c.state.ErrMsg == "" {
			c.state.ErrMsg = MsgFetchFailed
		}
		return true
	}
	c.state.Movies = out.Movies
	c.state.ErrMsg = ""
	return true
}

// Search runs a complete fetch synchronously.
func (c *Coordinator) Search(ctx context.Context, query string) (State, Outcome) {
	req := c.start(ctx, query)
	out := c.Run(req)
	c.Apply(out)
	return c.state, out
}

// Cancel aborts the in-flight request, if any.
func (c *Coordinator) Cancel() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// Message maps a fetch error to the text shown to the user.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *tmdb.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return MsgServiceFallback
	}
	return MsgFetchFailed
}
