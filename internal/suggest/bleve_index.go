package suggest

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"
	"github.com/pders01/reel/internal/storage"
)

type bleveIndex struct {
	idx bleve.Index
}

// NewBleveIndex opens or creates the index at indexPath and loads every
// term from src. An empty path or ":memory:" keeps the index in memory.
func NewBleveIndex(indexPath string, src Source) (Suggester, error) {
	var idx bleve.Index
	var err error

	if indexPath == "" || indexPath == ":memory:" {
		idx, err = bleve.NewMemOnly(buildIndexMapping())
	} else {
		_ = os.MkdirAll(filepath.Dir(indexPath), 0o755)
		idx, err = bleve.Open(indexPath)
		if err != nil {
			idx, err = bleve.New(indexPath, buildIndexMapping())
		}
	}
	if err != nil {
		return nil, err
	}

	b := &bleveIndex{idx: idx}
	if src != nil {
		if err := b.reindexAll(src); err != nil {
			idx.Close()
			return nil, err
		}
	}
	return b, nil
}

// termAnalyzer keeps stop words and digits: "the" and "2" matter in titles.
const termAnalyzer = "reel_term"

func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	_ = im.AddCustomAnalyzer(termAnalyzer, map[string]interface{}{
		"type":          custom.Name,
		"tokenizer":     unicode.Name,
		"token_filters": []string{lowercase.Name},
	})
	im.DefaultAnalyzer = termAnalyzer

	dm := bleve.NewDocumentMapping()

	term := bleve.NewTextFieldMapping()
	term.Analyzer = termAnalyzer
	term.Store = true

	key := bleve.NewTextFieldMapping()
	key.Analyzer = keyword.Name
	key.Store = false

	dm.AddFieldMappingsAt("term", term)
	dm.AddFieldMappingsAt("key", key)

	im.DefaultMapping = dm
	return im
}

func (b *bleveIndex) reindexAll(src Source) error {
	terms, err := src.Terms()
	if err != nil {
		return err
	}
	batch := b.idx.NewBatch()
	for _, t := range terms {
		key := storage.TermKey(t)
		if key == "" {
			continue
		}
		if err := batch.Index(key, termDoc(t, key)); err != nil {
			return err
		}
	}
	return b.idx.Batch(batch)
}

func termDoc(term, key string) map[string]any {
	return map[string]any{"term": strings.TrimSpace(term), "key": key}
}

func (b *bleveIndex) Add(term string) error {
	key := storage.TermKey(term)
	if key == "" {
		return nil
	}
	return b.idx.Index(key, termDoc(term, key))
}

// Suggest matches every complete word of prefix and treats the last word
// as a prefix, so "dark kn" finds "The Dark Knight".
func (b *bleveIndex) Suggest(prefix string, limit int) ([]string, error) {
	tokens := tokenize(prefix)
	if len(tokens) == 0 || limit <= 0 {
		return []string{}, nil
	}

	var qs []bleveQuery.Query
	for i, tok := range tokens {
		if i == len(tokens)-1 && !strings.HasSuffix(prefix, " ") {
			pq := bleve.NewPrefixQuery(tok)
			pq.SetField("term")
			qs = append(qs, pq)
			continue
		}
		mq := bleve.NewMatchQuery(tok)
		mq.SetField("term")
		qs = append(qs, mq)
	}

	req := bleve.NewSearchRequestOptions(bleve.NewConjunctionQuery(qs...), limit+1, 0, false)
	req.Fields = []string{"term"}
	res, err := b.idx.Search(req)
	if err != nil {
		return nil, err
	}

	self := storage.TermKey(prefix)
	out := make([]string, 0, len(res.Hits))
	for _, h := range res.Hits {
		if h.ID == self {
			continue
		}
		if t, ok := h.Fields["term"].(string); ok {
			out = append(out, t)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// DocCount reports total documents in the index.
func (b *bleveIndex) DocCount() (int, error) {
	n, err := b.idx.DocCount()
	return int(n), err
}

func (b *bleveIndex) Close() error {
	return b.idx.Close()
}
