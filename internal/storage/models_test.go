package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTermKey(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Batman", "batman"},
		{"  the   Dark Knight ", "the dark knight"},
		{"", ""},
		{"\t\n", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TermKey(tt.in), "TermKey(%q)", tt.in)
	}
}

func TestRankCounts(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []SearchCount{
		{Key: "c", Count: 1, UpdatedAt: base},
		{Key: "a", Count: 5, UpdatedAt: base},
		{Key: "b", Count: 5, UpdatedAt: base.Add(time.Minute)},
		{Key: "d", Count: 1, UpdatedAt: base},
	}

	entries := rankCounts(records, 3)
	assert.Len(t, entries, 3)
	assert.Equal(t, []string{"b", "a", "c"}, []string{entries[0].ID, entries[1].ID, entries[2].ID})
	assert.Equal(t, []int{1, 2, 3}, []int{entries[0].Rank, entries[1].Rank, entries[2].Rank})

	all := rankCounts(records, 0)
	assert.Len(t, all, 4)
}
