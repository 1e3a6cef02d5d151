package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/CatGalleryCrawler/internal/domain"
	"github.com/CatGalleryCrawler/internal/infra/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestMongoRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	// 1. Start MongoDB Container
	mongodbContainer, err := mongodb.Run(ctx, "mongo:6")
	require.NoError(t, err)
	defer func() {
		if err := mongodbContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}()

	endpoint, err := mongodbContainer.ConnectionString(ctx)
	require.NoError(t, err)

	// 2. Connect to it
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(endpoint))
	require.NoError(t, err)
	defer func() {
		if err := client.Disconnect(ctx); err != nil {
			t.Logf("failed to disconnect client: %s", err)
		}
	}()

	repo, err := repository.NewMongoRepository(client, "test_cat_gallery", "cats")
	require.NoError(t, err)

	t.Run("Upsert and Get", func(t *testing.T) {
		cat := &domain.CatImage{
			ID:            "cat-1",
			ImageURL:      "https://cataas.com/cat/cat-1",
			Tags:          []string{"orange", "sleepy"},
			DisplayWidth:  320,
			DisplayHeight: 240,
			CreatedAt:     time.Now().Truncate(time.Millisecond).UTC(),
			ContentHash:   "hash123",
		}

		err := repo.Upsert(ctx, cat)
		require.NoError(t, err)

		fetched, err := repo.Get(ctx, "cat-1")
		require.NoError(t, err)
		require.NotNil(t, fetched)
		assert.Equal(t, cat.ImageURL, fetched.ImageURL)
		assert.Equal(t, cat.Tags, fetched.Tags)
		assert.WithinDuration(t, cat.CreatedAt, fetched.CreatedAt, time.Millisecond)
	})

	t.Run("Get missing returns nil", func(t *testing.T) {
		fetched, err := repo.Get(ctx, "no-such-cat")
		require.NoError(t, err)
		assert.Nil(t, fetched)
	})

	t.Run("BulkUpsert and GetContentHashes", func(t *testing.T) {
		cats := []domain.CatImage{
			{ID: "b1", ImageURL: "https://cataas.com/cat/b1", ContentHash: "h1", CreatedAt: time.Now()},
			{ID: "b2", ImageURL: "https://cataas.com/cat/b2", ContentHash: "h2", CreatedAt: time.Now()},
		}

		err := repo.BulkUpsert(ctx, cats)
		require.NoError(t, err)

		hashes, err := repo.GetContentHashes(ctx, []string{"b1", "b2", "non-existent"})
		require.NoError(t, err)
		assert.Equal(t, "h1", hashes["b1"])
		assert.Equal(t, "h2", hashes["b2"])
		assert.Len(t, hashes, 2)
	})

	t.Run("List pages by window", func(t *testing.T) {
		base := time.Now().UTC().Truncate(time.Second)
		var batch []domain.CatImage
		for i := 0; i < 5; i++ {
			batch = append(batch, domain.CatImage{
				ID:        fmt.Sprintf("list-%d", i),
				CreatedAt: base.Add(time.Duration(i) * time.Minute),
			})
		}
		require.NoError(t, repo.BulkUpsert(ctx, batch))

		page, err := repo.List(ctx, 0, 2)
		require.NoError(t, err)
		require.Len(t, page, 2)
		// Newest first
		assert.Equal(t, "list-4", page[0].ID)
		assert.Equal(t, "list-3", page[1].ID)

		next, err := repo.List(ctx, 2, 2)
		require.NoError(t, err)
		require.Len(t, next, 2)
		assert.Equal(t, "list-2", next[0].ID)
	})
}
