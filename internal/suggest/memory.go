package suggest

import (
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/pders01/reel/internal/storage"
)

// memoryIndex is the fallback when the on-disk index cannot be opened.
type memoryIndex struct {
	mu    sync.RWMutex
	terms map[string]string
}

func NewMemoryIndex(src Source) Suggester {
	m := &memoryIndex{terms: make(map[string]string)}
	if src != nil {
		if terms, err := src.Terms(); err == nil {
			for _, t := range terms {
				_ = m.Add(t)
			}
		}
	}
	return m
}

func (m *memoryIndex) Add(term string) error {
	key := storage.TermKey(term)
	if key == "" {
		return nil
	}
	m.mu.Lock()
	m.terms[key] = strings.TrimSpace(term)
	m.mu.Unlock()
	return nil
}

func (m *memoryIndex) Suggest(prefix string, limit int) ([]string, error) {
	want := tokenize(prefix)
	if len(want) == 0 || limit <= 0 {
		return []string{}, nil
	}
	self := storage.TermKey(prefix)
	partial := !strings.HasSuffix(prefix, " ")

	m.mu.RLock()
	defer m.mu.RUnlock()

	var keys []string
	for key := range m.terms {
		if key != self && matchesAll(tokenize(key), want, partial) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	if len(keys) > limit {
		keys = keys[:limit]
	}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, m.terms[k])
	}
	return out, nil
}

func matchesAll(have, want []string, lastIsPrefix bool) bool {
	for i, w := range want {
		prefix := lastIsPrefix && i == len(want)-1
		found := false
		for _, h := range have {
			if h == w || (prefix && strings.HasPrefix(h, w)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (m *memoryIndex) Close() error { return nil }

// tokenize lowercases text and splits it on anything that is not a letter
// or digit.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
