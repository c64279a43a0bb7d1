// Package suggest offers completions for the search box from the terms
// users have searched before.
package suggest

// Suggester completes a partial query from previously searched terms.
type Suggester interface {
	Add(term string) error
	Suggest(prefix string, limit int) ([]string, error)
	Close() error
}

// Source lists known terms when an index is (re)built.
type Source interface {
	Terms() ([]string, error)
}
