package domain

import "io"

// Transformer parses one raw response body into normalized gallery items.
type Transformer interface {
	Transform(reader io.Reader) ([]CatImage, error)
}
