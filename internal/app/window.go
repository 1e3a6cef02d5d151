package app

import (
	"sync"

	"github.com/CatGalleryCrawler/internal/domain"
	"github.com/CatGalleryCrawler/internal/infra/metrics"
	"github.com/CatGalleryCrawler/pkg/pager"
)

// PageWindow is the arena of loaded pages keyed by page key. It owns all
// navigational state the resolver itself stays free of: which pages are
// materialized, the anchor nearest the consumer's last-viewed position, and
// eviction when the window outgrows its capacity.
type PageWindow struct {
	mu       sync.Mutex
	maxPages int
	pages    map[pager.Key]pager.Result[domain.CatImage]
	anchor   *pager.Key
}

func NewPageWindow(maxPages int) *PageWindow {
	if maxPages < 1 {
		maxPages = 1
	}
	return &PageWindow{
		maxPages: maxPages,
		pages:    make(map[pager.Key]pager.Result[domain.CatImage]),
	}
}

// Put stores a loaded page, evicting the page farthest from the anchor when
// the window is full.
func (w *PageWindow) Put(key pager.Key, page pager.Result[domain.CatImage]) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pages[key] = page

	for len(w.pages) > w.maxPages {
		w.evictFarthestLocked(key)
	}

	metrics.PageWindowSize.Set(float64(len(w.pages)))
}

func (w *PageWindow) Get(key pager.Key) (pager.Result[domain.CatImage], bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	page, ok := w.pages[key]
	return page, ok
}

func (w *PageWindow) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pages)
}

// SetAnchor records the page nearest the consumer's last-viewed position.
func (w *PageWindow) SetAnchor(key pager.Key) {
	w.mu.Lock()
	defer w.mu.Unlock()

	k := key
	w.anchor = &k
}

// Invalidate drops every loaded page and returns the key to resume loading
// from, derived from the anchor page's neighbor keys. A nil return means
// restart from the first page.
func (w *PageWindow) Invalidate() *pager.Key {
	w.mu.Lock()
	defer w.mu.Unlock()

	var refresh *pager.Key
	if w.anchor != nil {
		if page, ok := w.pages[*w.anchor]; ok {
			refresh = pager.ResolveRefreshKey(page.PrevKey, page.NextKey)
		}
	}

	w.pages = make(map[pager.Key]pager.Result[domain.CatImage])
	metrics.PageWindowSize.Set(0)

	return refresh
}

// evictFarthestLocked removes the loaded page with the greatest key distance
// from the anchor, preferring to keep pages the consumer is looking at. The
// just-inserted key is used as a stand-in anchor when none is set.
func (w *PageWindow) evictFarthestLocked(inserted pager.Key) {
	center := inserted
	if w.anchor != nil {
		center = *w.anchor
	}

	var victim pager.Key
	maxDist := -1
	for k := range w.pages {
		d := int(k - center)
		if d < 0 {
			d = -d
		}
		if d > maxDist {
			maxDist = d
			victim = k
		}
	}

	delete(w.pages, victim)
}
