package transformer

import (
	"fmt"

	"github.com/CatGalleryCrawler/internal/domain"
)

// GetTransformer returns the transformer registered under name. The baseURL
// is the host images are served from, used to template item URLs.
func GetTransformer(name, baseURL string) (domain.Transformer, error) {
	switch name {
	case CataasName:
		return NewCataasTransformer(baseURL), nil
	default:
		return nil, fmt.Errorf("transformer not found: %s", name)
	}
}
