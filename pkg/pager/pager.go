// Package pager translates between page-oriented navigation keys and the flat
// skip/limit request model used by offset-paginated APIs. It is stateless and
// safe for concurrent use; ownership of the loaded-page window stays with the
// caller.
package pager

import "fmt"

// Key identifies a logical page. Key 0 is the first page. Absence of a key
// (initial load, end of data) is expressed as a nil *Key.
type Key int

// Request is the flat offset window sent to the upstream API.
type Request struct {
	Skip  int
	Limit int
}

// Result carries one fetched page plus the derived navigation keys.
// PrevKey is nil iff the page is the first one; NextKey is nil iff the fetch
// returned zero items, which is the only end-of-data signal the upstream
// provides.
type Result[T any] struct {
	Items   []T
	PrevKey *Key
	NextKey *Key
}

// BuildRequest converts a page key and a page size into a skip/limit window.
// A nil key means the initial load and resolves to key 0.
//
// pageSize must be positive; a non-positive value is a programming error in
// the caller and panics rather than being clamped.
func BuildRequest(key *Key, pageSize int) Request {
	if pageSize <= 0 {
		panic(fmt.Sprintf("pager: pageSize must be > 0, got %d", pageSize))
	}

	k := Key(0)
	if key != nil {
		k = *key
	}

	return Request{
		Skip:  int(k) * pageSize,
		Limit: pageSize,
	}
}

// BuildResult derives the prev/next navigation keys for a fetched page.
// The items are passed through untouched; only their count matters for key
// derivation. A full page still yields a next key, so the true end of the
// dataset costs one extra fetch that comes back empty.
func BuildResult[T any](key Key, items []T) Result[T] {
	res := Result[T]{Items: items}

	if key > 0 {
		prev := key - 1
		res.PrevKey = &prev
	}
	if len(items) > 0 {
		next := key + 1
		res.NextKey = &next
	}

	return res
}

// ResolveRefreshKey picks the page to reload after the window has been
// invalidated, given the neighbor keys of the page closest to the consumer's
// last-viewed position. It returns nil when neither neighbor is known, which
// means restarting from the first page.
func ResolveRefreshKey(prevKey, nextKey *Key) *Key {
	switch {
	case prevKey != nil:
		k := *prevKey + 1
		return &k
	case nextKey != nil:
		k := *nextKey - 1
		return &k
	default:
		return nil
	}
}
