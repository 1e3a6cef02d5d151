package transformer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCataasTransformer_Transform(t *testing.T) {
	body := `[
		{"id":"abc123","tags":["orange","sleepy"],"createdAt":"2023-04-01T12:00:00Z","mimetype":"image/jpeg"},
		{"id":"def456","tags":[]}
	]`

	tr := NewCataasTransformer("https://cataas.com/")
	cats, err := tr.Transform(strings.NewReader(body))
	require.NoError(t, err)
	require.Len(t, cats, 2)

	first := cats[0]
	assert.Equal(t, "abc123", first.ID)
	assert.Equal(t, "https://cataas.com/cat/abc123", first.ImageURL)
	assert.Equal(t, []string{"orange", "sleepy"}, first.Tags)
	assert.Equal(t, "image/jpeg", first.Mimetype)
	assert.Equal(t, 2023, first.CreatedAt.Year())
	assert.NotEmpty(t, first.ContentHash)

	second := cats[1]
	assert.Equal(t, "https://cataas.com/cat/def456", second.ImageURL)
	assert.True(t, second.CreatedAt.IsZero())
	assert.Empty(t, second.Mimetype)
}

func TestCataasTransformer_SkipsRecordsWithoutID(t *testing.T) {
	body := `[
		{"tags":["ghost"]},
		{"id":"real","tags":["tabby"]}
	]`

	tr := NewCataasTransformer("https://cataas.com")
	cats, err := tr.Transform(strings.NewReader(body))
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "real", cats[0].ID)
}

func TestCataasTransformer_MalformedBody(t *testing.T) {
	tr := NewCataasTransformer("https://cataas.com")
	_, err := tr.Transform(strings.NewReader(`{"not":"an array"`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestDisplayDimensions(t *testing.T) {
	w1, h1 := displayDimensions("abc123")
	w2, h2 := displayDimensions("abc123")

	// Stable across calls
	assert.Equal(t, w1, w2)
	assert.Equal(t, h1, h2)

	// Bounds must hold for any id, including hashes with the high bit set.
	ids := []string{"a", "b", "long-identifier-0001", ""}
	for i := 0; i < 500; i++ {
		ids = append(ids, fmt.Sprintf("cat-%04d", i))
	}
	for _, id := range ids {
		w, h := displayDimensions(id)
		assert.GreaterOrEqual(t, w, minDisplaySide)
		assert.LessOrEqual(t, w, maxDisplaySide)
		assert.GreaterOrEqual(t, h, minDisplaySide)
		assert.LessOrEqual(t, h, maxDisplaySide)
	}
}
