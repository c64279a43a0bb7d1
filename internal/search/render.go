package search

import "github.com/pders01/reel/internal/tmdb"

// Kind is what the results pane shows.
type Kind int

const (
	KindIdle Kind = iota
	KindLoading
	KindError
	KindEmpty
	KindSuccess
)

func (k Kind) String() string {
	switch k {
	case KindIdle:
		return "idle"
	case KindLoading:
		return "loading"
	case KindError:
		return "error"
	case KindEmpty:
		return "empty"
	case KindSuccess:
		return "success"
	default:
		return "unknown"
	}
}

type RenderState struct {
	Kind    Kind
	Message string
	Movies  []tmdb.Movie
}

// Derive picks the view. Loading wins over an error, an error wins over
// results, and a successful fetch with no movies is its own state.
func Derive(loading bool, errMsg string, movies []tmdb.Movie) RenderState {
	switch {
	case loading:
		return RenderState{Kind: KindLoading}
	case errMsg != "":
		return RenderState{Kind: KindError, Message: errMsg}
	case len(movies) == 0:
		return RenderState{Kind: KindEmpty}
	default:
		return RenderState{Kind: KindSuccess, Movies: movies}
	}
}

// Render derives the view for s. Before the first fetch starts the pane
// is idle.
func (s State) Render() RenderState {
	if s.Seq == 0 && !s.Loading && s.ErrMsg == "" && len(s.Movies) == 0 {
		return RenderState{Kind: KindIdle}
	}
	return Derive(s.Loading, s.ErrMsg, s.Movies)
}
