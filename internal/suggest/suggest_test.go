package suggest

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource []string

func (s staticSource) Terms() ([]string, error) { return s, nil }

type failingSource struct{}

func (failingSource) Terms() ([]string, error) { return nil, errors.New("store closed") }

var seeded = staticSource{"The Dark Knight", "Dark City", "Batman", "Batman Begins", "Rocky 2"}

func suggesters(t *testing.T) map[string]Suggester {
	t.Helper()
	disk, err := NewBleveIndex(filepath.Join(t.TempDir(), "suggest.bleve"), seeded)
	require.NoError(t, err)
	mem, err := NewBleveIndex(":memory:", seeded)
	require.NoError(t, err)

	all := map[string]Suggester{
		"bleve-disk":   disk,
		"bleve-memory": mem,
		"fallback":     NewMemoryIndex(seeded),
	}
	t.Cleanup(func() {
		for _, s := range all {
			_ = s.Close()
		}
	})
	return all
}

func TestSuggest(t *testing.T) {
	tests := []struct {
		prefix string
		want   []string
	}{
		{prefix: "bat", want: []string{"Batman", "Batman Begins"}},
		{prefix: "dark kn", want: []string{"The Dark Knight"}},
		{prefix: "the", want: []string{"The Dark Knight"}},
		{prefix: "rocky 2", want: []string{}},
		{prefix: "rock", want: []string{"Rocky 2"}},
		{prefix: "zzz", want: []string{}},
		{prefix: "  ", want: []string{}},
	}

	for name, s := range suggesters(t) {
		for _, tt := range tests {
			t.Run(name+"/"+tt.prefix, func(t *testing.T) {
				got, err := s.Suggest(tt.prefix, 5)
				require.NoError(t, err)
				assert.ElementsMatch(t, tt.want, got)
			})
		}
	}
}

func TestSuggest_ExcludesExactTerm(t *testing.T) {
	for name, s := range suggesters(t) {
		t.Run(name, func(t *testing.T) {
			got, err := s.Suggest("Batman", 5)
			require.NoError(t, err)
			assert.Equal(t, []string{"Batman Begins"}, got)
		})
	}
}

func TestSuggest_Limit(t *testing.T) {
	for name, s := range suggesters(t) {
		t.Run(name, func(t *testing.T) {
			got, err := s.Suggest("dark", 1)
			require.NoError(t, err)
			assert.Len(t, got, 1)

			got, err = s.Suggest("dark", 0)
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestAdd(t *testing.T) {
	for name, s := range suggesters(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Add("Alien"))
			require.NoError(t, s.Add("  aliens  "))
			require.NoError(t, s.Add(""))

			got, err := s.Suggest("ali", 5)
			require.NoError(t, err)
			assert.ElementsMatch(t, []string{"Alien", "aliens"}, got)
		})
	}
}

func TestNewBleveIndex_ReopensExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suggest.bleve")

	first, err := NewBleveIndex(path, staticSource{"Heat"})
	require.NoError(t, err)
	require.NoError(t, first.Add("Heathers"))
	require.NoError(t, first.Close())

	second, err := NewBleveIndex(path, nil)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.Suggest("hea", 5)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Heat", "Heathers"}, got)

	n, err := second.(*bleveIndex).DocCount()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestNewBleveIndex_SourceError(t *testing.T) {
	_, err := NewBleveIndex(":memory:", failingSource{})
	assert.Error(t, err)

	// the fallback ignores source failures
	m := NewMemoryIndex(failingSource{})
	got, err := m.Suggest("a", 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"fast", "furious", "7"}, tokenize("Fast & Furious 7"))
	assert.Empty(t, tokenize(" - "))
}
