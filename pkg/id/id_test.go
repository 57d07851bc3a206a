package id

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewUniqueAndSorted(t *testing.T) {
	t.Parallel()

	ids := make([]string, 100)
	for i := range ids {
		ids[i] = New()
	}

	seen := map[string]bool{}
	for _, s := range ids {
		assert.Len(t, s, 26)
		assert.False(t, seen[s], "duplicate id %s", s)
		seen[s] = true
	}

	assert.True(t, sort.StringsAreSorted(ids), "ids must be generated in increasing order")
}
