package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/pders01/reel/internal/search"
	"github.com/pders01/reel/internal/storage"
	"github.com/pders01/reel/internal/tmdb"
	"github.com/pders01/reel/internal/tui"
	"github.com/pders01/reel/internal/validation"
	"github.com/spf13/cobra"
)

var (
	searchLimit   int
	noRecord      bool
	trendingLimit int
	forgetTerm    string
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search TMDb once and print the results",
	Long:  "Search TMDb for query, or list popular movies when query is empty. Searches with results are counted towards trending.",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openServices(commandContext(cmd))
		if err != nil {
			return err
		}
		defer svc.Close()
		return runSearch(cmd, svc, strings.Join(args, " "))
	},
}

var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "Print the most searched terms",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openServices(commandContext(cmd))
		if err != nil {
			return err
		}
		defer svc.Close()
		return runTrending(cmd, svc)
	},
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "Print at most n movies (0 for all)")
	searchCmd.Flags().BoolVar(&noRecord, "no-record", false, "Do not count this search")
	trendingCmd.Flags().IntVarP(&trendingLimit, "limit", "n", 0, "Number of terms to show (overrides config)")
	trendingCmd.Flags().StringVar(&forgetTerm, "forget", "", "Delete the count kept for a search term before printing")
}

var errSearchFailed = errors.New("search failed")

func runSearch(cmd *cobra.Command, svc *services, raw string) error {
	ctx := commandContext(cmd)
	query := validation.SanitizeQuery(raw, svc.cfg.Search.MaxQueryLength)

	coord := search.NewCoordinator(svc.client)
	state, out := coord.Search(ctx, query)

	w := cmd.OutOrStdout()
	view := state.Render()
	switch view.Kind {
	case search.KindError:
		fmt.Fprintln(cmd.ErrOrStderr(), view.Message)
		return fmt.Errorf("%w: %w", errSearchFailed, out.Err)
	case search.KindEmpty:
		fmt.Fprintln(w, tui.MsgNoMovies)
	default:
		printMovies(w, view.Movies, searchLimit, svc.cfg.TMDB.MovieURL)
	}

	if noRecord {
		return nil
	}
	recorder := search.NewRecorder(svc.counter, svc.suggester, svc.client.PosterURL)
	if _, err := recorder.Record(ctx, out); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
	}
	return nil
}

func printMovies(w io.Writer, movies []tmdb.Movie, limit int, movieURL string) {
	if limit > 0 && limit < len(movies) {
		movies = movies[:limit]
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, m := range movies {
		year := m.Year()
		if year == "" {
			year = "N/A"
		}
		fmt.Fprintf(tw, "%d.\t%s\t%s\t★ %.1f\t%s/%d\n", i+1, m.Title, year, m.VoteAverage, movieURL, m.ID)
	}
	tw.Flush()
}

func runTrending(cmd *cobra.Command, svc *services) error {
	limit := svc.cfg.Trending.Limit
	if trendingLimit > 0 {
		limit = trendingLimit
	}
	if svc.counter == nil {
		return errors.New("search-count store unavailable")
	}
	if forgetTerm != "" {
		if err := forget(svc, forgetTerm); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Forgot %q\n", forgetTerm)
	}

	entries, err := search.NewTrendingLoader(svc.counter, limit).Load(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("loading trending: %w", err)
	}
	printTrending(cmd.OutOrStdout(), entries)
	return nil
}

// termForgetter is implemented by stores that can drop a single term.
type termForgetter interface {
	DeleteSearchCount(term string) error
}

func forget(svc *services, term string) error {
	f, ok := svc.counter.(termForgetter)
	if !ok {
		return fmt.Errorf("--forget is not supported by the %s backend", svc.cfg.Trending.Backend)
	}
	if err := f.DeleteSearchCount(term); err != nil {
		return fmt.Errorf("forgetting %q: %w", term, err)
	}
	return nil
}

func printTrending(w io.Writer, entries []storage.TrendingEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, tui.MsgTrendingSummary(0))
		return
	}
	fmt.Fprintln(w, tui.MsgTrendingHeader)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, e := range entries {
		fmt.Fprintf(tw, "%d.\t%s\t%d\t%s\n", e.Rank, e.Term, e.Count, e.Title)
	}
	tw.Flush()
}
