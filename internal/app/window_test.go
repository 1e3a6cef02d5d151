package app

import (
	"fmt"
	"testing"

	"github.com/CatGalleryCrawler/internal/domain"
	"github.com/CatGalleryCrawler/pkg/pager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pageFor(key pager.Key, n int) pager.Result[domain.CatImage] {
	cats := make([]domain.CatImage, n)
	for i := range cats {
		cats[i] = domain.CatImage{ID: fmt.Sprintf("%d-%d", key, i)}
	}
	return pager.BuildResult(key, cats)
}

func TestPageWindow_PutAndGet(t *testing.T) {
	w := NewPageWindow(5)

	w.Put(0, pageFor(0, 3))
	w.Put(1, pageFor(1, 3))

	page, ok := w.Get(1)
	require.True(t, ok)
	assert.Len(t, page.Items, 3)
	assert.Equal(t, 2, w.Len())

	_, ok = w.Get(7)
	assert.False(t, ok)
}

func TestPageWindow_EvictsFarthestFromAnchor(t *testing.T) {
	w := NewPageWindow(3)
	w.SetAnchor(4)

	w.Put(0, pageFor(0, 1))
	w.Put(3, pageFor(3, 1))
	w.Put(4, pageFor(4, 1))
	w.Put(5, pageFor(5, 1))

	assert.Equal(t, 3, w.Len())
	_, ok := w.Get(0)
	assert.False(t, ok, "page 0 is farthest from anchor 4 and should be evicted")

	for _, k := range []pager.Key{3, 4, 5} {
		_, ok := w.Get(k)
		assert.True(t, ok, "page %d should survive eviction", k)
	}
}

func TestPageWindow_EvictionWithoutAnchorKeepsNewest(t *testing.T) {
	w := NewPageWindow(2)

	w.Put(0, pageFor(0, 1))
	w.Put(1, pageFor(1, 1))
	w.Put(5, pageFor(5, 1))

	_, ok := w.Get(0)
	assert.False(t, ok)
	_, ok = w.Get(5)
	assert.True(t, ok)
}

func TestPageWindow_InvalidateResumesNearAnchor(t *testing.T) {
	w := NewPageWindow(10)

	w.Put(2, pageFor(2, 5))
	w.Put(3, pageFor(3, 5))
	w.SetAnchor(3)

	refresh := w.Invalidate()
	require.NotNil(t, refresh)
	assert.Equal(t, pager.Key(3), *refresh, "anchor page 3 has prevKey 2, so resume at 3")
	assert.Equal(t, 0, w.Len())
}

func TestPageWindow_InvalidateFirstPageAnchor(t *testing.T) {
	w := NewPageWindow(10)

	w.Put(0, pageFor(0, 5))
	w.SetAnchor(0)

	refresh := w.Invalidate()
	// Page 0 has no prevKey; nextKey 1 resolves back to 0.
	require.NotNil(t, refresh)
	assert.Equal(t, pager.Key(0), *refresh)
}

func TestPageWindow_InvalidateWithoutAnchorRestarts(t *testing.T) {
	w := NewPageWindow(10)
	w.Put(1, pageFor(1, 2))

	refresh := w.Invalidate()
	assert.Nil(t, refresh, "no anchor means restart from the first page")
}

func TestPageWindow_InvalidateTerminalPageAnchor(t *testing.T) {
	w := NewPageWindow(10)

	// An empty page past the end of data: prevKey set, nextKey nil.
	w.Put(4, pageFor(4, 0))
	w.SetAnchor(4)

	refresh := w.Invalidate()
	require.NotNil(t, refresh)
	assert.Equal(t, pager.Key(4), *refresh)
}
