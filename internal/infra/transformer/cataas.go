package transformer

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/CatGalleryCrawler/internal/domain"
)

const CataasName = "cataas"

// Display dimension bounds for the staggered grid. The upstream API does not
// report image dimensions, so each item gets a stable size derived from its
// id.
const (
	minDisplaySide = 180
	maxDisplaySide = 460
)

type CataasTransformer struct {
	baseURL string
}

// NewCataasTransformer builds a transformer that templates image URLs off
// baseURL, e.g. https://cataas.com/cat/<id>.
func NewCataasTransformer(baseURL string) *CataasTransformer {
	return &CataasTransformer{baseURL: strings.TrimRight(baseURL, "/")}
}

func (t *CataasTransformer) Transform(reader io.Reader) ([]domain.CatImage, error) {
	var raw []domain.RawCat
	if err := json.NewDecoder(reader).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode cataas response: %w", err)
	}

	cats := make([]domain.CatImage, 0, len(raw))
	for _, rc := range raw {
		if rc.ID == "" {
			// Records without an id cannot be addressed; drop them rather
			// than failing the whole page.
			slog.Warn("Skipping record with missing id", "source", CataasName)
			continue
		}
		cats = append(cats, t.normalize(rc))
	}

	return cats, nil
}

func (t *CataasTransformer) normalize(rc domain.RawCat) domain.CatImage {
	var createdAt time.Time
	if rc.CreatedAt != nil {
		if parsed, err := time.Parse(time.RFC3339, *rc.CreatedAt); err == nil {
			createdAt = parsed
		}
	}

	var mimetype string
	if rc.Mimetype != nil {
		mimetype = *rc.Mimetype
	}

	w, h := displayDimensions(rc.ID)

	cat := domain.CatImage{
		ID:            rc.ID,
		ImageURL:      fmt.Sprintf("%s/cat/%s", t.baseURL, rc.ID),
		Tags:          rc.Tags,
		DisplayWidth:  w,
		DisplayHeight: h,
		Mimetype:      mimetype,
		CreatedAt:     createdAt,
		FetchedAt:     time.Now().UTC(),
	}
	cat.ContentHash = cat.ComputeHash()

	return cat
}

// displayDimensions picks bounded grid dimensions from a hash of the id so
// the same cat always gets the same cell size.
func displayDimensions(id string) (int, int) {
	// Reduce before converting so the result fits int on 32-bit platforms.
	span := uint32(maxDisplaySide - minDisplaySide + 1)

	hw := fnv.New32a()
	hw.Write([]byte(id))
	w := minDisplaySide + int(hw.Sum32()%span)

	hh := fnv.New32a()
	hh.Write([]byte(id))
	hh.Write([]byte{'h'})
	h := minDisplaySide + int(hh.Sum32()%span)

	return w, h
}
