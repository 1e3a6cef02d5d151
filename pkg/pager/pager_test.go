package pager

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyOf(k Key) *Key {
	return &k
}

func TestBuildRequest(t *testing.T) {
	tests := []struct {
		name     string
		key      *Key
		pageSize int
		wantSkip int
	}{
		{name: "nil key is initial load", key: nil, pageSize: 20, wantSkip: 0},
		{name: "first page", key: keyOf(0), pageSize: 20, wantSkip: 0},
		{name: "second page", key: keyOf(1), pageSize: 20, wantSkip: 20},
		{name: "deep page", key: keyOf(7), pageSize: 24, wantSkip: 168},
		{name: "page size one", key: keyOf(3), pageSize: 1, wantSkip: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := BuildRequest(tt.key, tt.pageSize)
			assert.Equal(t, tt.wantSkip, req.Skip)
			assert.Equal(t, tt.pageSize, req.Limit)
		})
	}
}

func TestBuildRequest_InvalidPageSizePanics(t *testing.T) {
	assert.Panics(t, func() { BuildRequest(nil, 0) })
	assert.Panics(t, func() { BuildRequest(keyOf(2), -5) })
}

func TestBuildResult(t *testing.T) {
	t.Run("first page has no prev key", func(t *testing.T) {
		res := BuildResult(0, []string{"a", "b"})
		assert.Nil(t, res.PrevKey)
		require.NotNil(t, res.NextKey)
		assert.Equal(t, Key(1), *res.NextKey)
	})

	t.Run("empty first page has neither key", func(t *testing.T) {
		res := BuildResult(0, []string{})
		assert.Nil(t, res.PrevKey)
		assert.Nil(t, res.NextKey)
	})

	t.Run("empty later page keeps prev key", func(t *testing.T) {
		res := BuildResult(4, []string(nil))
		require.NotNil(t, res.PrevKey)
		assert.Equal(t, Key(3), *res.PrevKey)
		assert.Nil(t, res.NextKey)
	})

	t.Run("middle page links both ways", func(t *testing.T) {
		res := BuildResult(5, []int{1, 2, 3})
		require.NotNil(t, res.PrevKey)
		require.NotNil(t, res.NextKey)
		assert.Equal(t, Key(4), *res.PrevKey)
		assert.Equal(t, Key(6), *res.NextKey)
	})

	t.Run("items pass through untouched", func(t *testing.T) {
		items := []string{"x", "y", "z"}
		res := BuildResult(1, items)
		assert.Equal(t, items, res.Items)
	})
}

func TestResolveRefreshKey(t *testing.T) {
	tests := []struct {
		name string
		prev *Key
		next *Key
		want *Key
	}{
		{name: "prev key wins", prev: keyOf(2), next: nil, want: keyOf(3)},
		{name: "prev key wins over next", prev: keyOf(2), next: keyOf(4), want: keyOf(3)},
		{name: "falls back to next key", prev: nil, next: keyOf(5), want: keyOf(4)},
		{name: "no anchor restarts from scratch", prev: nil, next: nil, want: nil},
		{name: "anchor at first page", prev: nil, next: keyOf(1), want: keyOf(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveRefreshKey(tt.prev, tt.next)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

// Sequential loads of pages 0,1,2 returning 20,20,0 items walk the windows
// (0,20) (20,20) (40,20) and terminate on the empty page.
func TestSequentialWindowWalk(t *testing.T) {
	const pageSize = 20

	pages := map[Key]int{0: 20, 1: 20, 2: 0}

	var key *Key
	var skips []int
	var nexts []*Key

	for i := 0; i < len(pages); i++ {
		req := BuildRequest(key, pageSize)
		skips = append(skips, req.Skip)
		assert.Equal(t, pageSize, req.Limit)

		k := Key(0)
		if key != nil {
			k = *key
		}
		res := BuildResult(k, make([]struct{}, pages[k]))
		nexts = append(nexts, res.NextKey)
		key = res.NextKey
	}

	assert.Equal(t, []int{0, 20, 40}, skips)

	require.NotNil(t, nexts[0])
	require.NotNil(t, nexts[1])
	assert.Equal(t, Key(1), *nexts[0])
	assert.Equal(t, Key(2), *nexts[1])
	assert.Nil(t, nexts[2])
}

func TestIdempotence(t *testing.T) {
	key := keyOf(3)

	assert.Equal(t, BuildRequest(key, 24), BuildRequest(key, 24))
	assert.Equal(t, BuildResult(3, []string{"a"}), BuildResult(3, []string{"a"}))
}
