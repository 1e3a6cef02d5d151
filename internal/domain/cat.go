package domain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/CatGalleryCrawler/pkg/pager"
)

// CatImage is the internal normalized gallery item. It is immutable once
// built by a transformer.
type CatImage struct {
	ID            string    `json:"id" bson:"_id"`
	ImageURL      string    `json:"image_url" bson:"image_url"`
	Tags          []string  `json:"tags" bson:"tags"`
	DisplayWidth  int       `json:"display_width" bson:"display_width"`
	DisplayHeight int       `json:"display_height" bson:"display_height"`
	Mimetype      string    `json:"mimetype,omitempty" bson:"mimetype,omitempty"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
	FetchedAt     time.Time `json:"fetched_at" bson:"fetched_at"`
	ContentHash   string    `json:"content_hash" bson:"content_hash"`
}

// ComputeHash generates a deterministic hash of the fields that identify the
// upstream record's content. FetchedAt and the display dimensions are
// excluded so a re-crawl of unchanged data hashes identically.
func (c *CatImage) ComputeHash() string {
	hasher := sha256.New()
	hasher.Write([]byte(c.ID))
	hasher.Write([]byte(c.ImageURL))
	hasher.Write([]byte(strings.Join(c.Tags, ",")))
	hasher.Write([]byte(c.Mimetype))
	return hex.EncodeToString(hasher.Sum(nil))
}

// RawCat is one record as the upstream cat API returns it. Optional fields
// are pointers so "absent" and "empty" stay distinguishable.
type RawCat struct {
	ID        string   `json:"id"`
	Tags      []string `json:"tags"`
	CreatedAt *string  `json:"createdAt"`
	Mimetype  *string  `json:"mimetype"`
}

// CatWriter handles persistence of gallery items.
type CatWriter interface {
	Upsert(ctx context.Context, cat *CatImage) error
	BulkUpsert(ctx context.Context, cats []CatImage) error
}

// CatReader handles retrieval of gallery items.
type CatReader interface {
	Get(ctx context.Context, id string) (*CatImage, error)
	List(ctx context.Context, skip, limit int) ([]CatImage, error)
}

// HashReader retrieves stored content hashes for ingest deduplication.
type HashReader interface {
	GetContentHashes(ctx context.Context, ids []string) (map[string]string, error)
}

// Repository is the composite persistence port. Services should depend on
// the narrow interfaces where possible.
type Repository interface {
	CatWriter
	CatReader
	HashReader
}

// Provider fetches page windows from an upstream cat feed.
type Provider interface {
	// FetchPage fetches the window identified by key (nil means the first
	// page) and returns the items plus derived navigation keys.
	FetchPage(ctx context.Context, key *pager.Key) (pager.Result[CatImage], error)

	// Crawl walks pages sequentially from start, invoking handler per page.
	Crawl(ctx context.Context, start *pager.Key, handler func(key pager.Key, cats []CatImage) error) error

	GetName() string
}

// EventProducer publishes item events to a queue.
type EventProducer interface {
	Publish(ctx context.Context, cat *CatImage) error
	PublishBatch(ctx context.Context, cats []CatImage) error
	Close() error
}

// ImageWarmer prefetches image bytes downstream so the gallery serves warm
// thumbnails.
type ImageWarmer interface {
	Warm(ctx context.Context, cat *CatImage) error
}
